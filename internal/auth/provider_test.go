package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/saulo-duarte/chronos-goals/internal/auth"
	"github.com/saulo-duarte/chronos-goals/internal/config"
	"github.com/saulo-duarte/chronos-goals/internal/user"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type fakeUsers struct {
	mu      sync.Mutex
	byEmail map[string]*user.User
	failGet error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: make(map[string]*user.User)}
}

func (f *fakeUsers) Create(ctx context.Context, u *user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	copied := *u
	f.byEmail[u.Email] = &copied
	return nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet != nil {
		return nil, f.failGet
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

type memTokens struct {
	token string
}

func (m *memTokens) LoadAuthToken(ctx context.Context) (string, error) { return m.token, nil }
func (m *memTokens) SaveAuthToken(ctx context.Context, t string) error { m.token = t; return nil }
func (m *memTokens) ClearAuthToken(ctx context.Context) error          { m.token = ""; return nil }

func newService(t *testing.T) (*auth.Service, *fakeUsers, *memTokens) {
	t.Helper()
	require.NoError(t, auth.Init(testSecret))
	users := newFakeUsers()
	tokens := &memTokens{}
	svc := auth.NewService(users, tokens, auth.WithLimiter(rate.NewLimiter(rate.Inf, 1)))
	return svc, users, tokens
}

func codeOf(t *testing.T, err error) auth.ErrorCode {
	t.Helper()
	var aerr *auth.Error
	require.True(t, errors.As(err, &aerr), "expected *auth.Error, got %v", err)
	return aerr.Code
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, tokens := newService(t)

	id, err := svc.Register(ctx, "  Ana@Example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", id.Email)
	assert.NotEmpty(t, tokens.token)
	assert.Equal(t, id, svc.Current())

	require.NoError(t, svc.Logout(ctx))
	assert.Nil(t, svc.Current())
	assert.Empty(t, tokens.token)

	again, err := svc.Login(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, id.UserID, again.UserID)
}

func TestAuthErrors(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)
	_, err := svc.Register(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)

	cases := []struct {
		name string
		call func() error
		want auth.ErrorCode
	}{
		{"InvalidEmail", func() error { _, err := svc.Register(ctx, "not-an-email", "secret1"); return err }, auth.CodeInvalidEmail},
		{"WeakPassword", func() error { _, err := svc.Register(ctx, "bob@example.com", "123"); return err }, auth.CodeWeakPassword},
		{"EmailInUse", func() error { _, err := svc.Register(ctx, "ana@example.com", "secret1"); return err }, auth.CodeEmailInUse},
		{"UserNotFound", func() error { _, err := svc.Login(ctx, "zoe@example.com", "secret1"); return err }, auth.CodeUserNotFound},
		{"WrongPassword", func() error { _, err := svc.Login(ctx, "ana@example.com", "nope123"); return err }, auth.CodeWrongPassword},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, codeOf(t, tc.call()))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	err := &auth.Error{Code: auth.CodeEmailInUse}
	assert.Equal(t, "This email is already registered", err.Message())

	unknown := &auth.Error{Code: "quota-exceeded"}
	assert.Equal(t, "Error: quota-exceeded", unknown.Message())
}

func TestRepositoryFailureIsUnavailable(t *testing.T) {
	svc, users, _ := newService(t)
	users.failGet = errors.New("connection refused")

	_, err := svc.Login(context.Background(), "ana@example.com", "secret1")
	assert.Equal(t, auth.CodeUnavailable, codeOf(t, err))
}

func TestLoginRateLimited(t *testing.T) {
	require.NoError(t, auth.Init(testSecret))
	svc := auth.NewService(newFakeUsers(), &memTokens{}, auth.WithLimiter(rate.NewLimiter(0, 2)))

	for i := 0; i < 2; i++ {
		_, err := svc.Login(context.Background(), "ana@example.com", "secret1")
		assert.Equal(t, auth.CodeUserNotFound, codeOf(t, err))
	}
	_, err := svc.Login(context.Background(), "ana@example.com", "secret1")
	assert.Equal(t, auth.CodeTooManyRequests, codeOf(t, err))
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	var seen []*auth.Identity
	unsubscribe := svc.Subscribe(func(id *auth.Identity) {
		seen = append(seen, id)
	})

	require.Len(t, seen, 1)
	assert.Nil(t, seen[0])

	_, err := svc.Register(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx))
	require.Len(t, seen, 3)
	assert.NotNil(t, seen[1])
	assert.Nil(t, seen[2])

	unsubscribe()
	_, err = svc.Login(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)
	assert.Len(t, seen, 3)
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	svc, users, tokens := newService(t)

	registered, err := svc.Register(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)

	t.Run("ValidToken", func(t *testing.T) {
		fresh := auth.NewService(users, tokens)
		restored := fresh.Restore(ctx)
		require.NotNil(t, restored)
		assert.Equal(t, registered.UserID, restored.UserID)
		assert.Equal(t, registered.UserID, fresh.Current().UserID)
	})

	t.Run("GarbageToken", func(t *testing.T) {
		bad := &memTokens{token: "not-a-jwt"}
		fresh := auth.NewService(users, bad)
		assert.Nil(t, fresh.Restore(ctx))
		assert.Empty(t, bad.token)
	})

	t.Run("NoToken", func(t *testing.T) {
		fresh := auth.NewService(users, &memTokens{})
		assert.Nil(t, fresh.Restore(ctx))
	})
}

type stuckTokens struct {
	memTokens
}

func (s *stuckTokens) ClearAuthToken(ctx context.Context) error {
	return errors.New("disk is read-only")
}

func TestRestoreLogsFailedTokenClear(t *testing.T) {
	require.NoError(t, auth.Init(testSecret))
	hook := logtest.NewLocal(config.Logger)
	defer hook.Reset()

	tokens := &stuckTokens{memTokens{token: "not-a-jwt"}}
	svc := auth.NewService(newFakeUsers(), tokens)

	assert.Nil(t, svc.Restore(context.Background()))
	assert.Nil(t, svc.Current())

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "Failed to clear rejected session token" {
			warned = true
			assert.EqualError(t, e.Data[logrus.ErrorKey].(error), "disk is read-only")
		}
	}
	assert.True(t, warned)
}

func TestUnavailable(t *testing.T) {
	var p auth.Provider = auth.Unavailable{}

	_, err := p.Login(context.Background(), "ana@example.com", "secret1")
	assert.Equal(t, auth.CodeUnavailable, codeOf(t, err))
	assert.ErrorIs(t, err, auth.ErrRemoteDisabled)

	calls := 0
	p.Subscribe(func(id *auth.Identity) {
		calls++
		assert.Nil(t, id)
	})
	assert.Equal(t, 1, calls)
}
