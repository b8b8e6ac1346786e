package session_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/saulo-duarte/chronos-goals/internal/auth"
	"github.com/saulo-duarte/chronos-goals/internal/session"
	"github.com/saulo-duarte/chronos-goals/internal/storage/local"
	"github.com/saulo-duarte/chronos-goals/internal/storage/remote"
	util "github.com/saulo-duarte/chronos-goals/internal/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeProvider accepts any password for known emails and notifies
// subscribers synchronously, like auth.Service.
type fakeProvider struct {
	mu      sync.Mutex
	users   map[string]*auth.Identity
	current *auth.Identity
	subs    []func(*auth.Identity)
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{users: map[string]*auth.Identity{}}
}

func (p *fakeProvider) add(email string) *auth.Identity {
	id := &auth.Identity{UserID: uuid.New(), Email: email}
	p.users[email] = id
	return id
}

func (p *fakeProvider) Register(ctx context.Context, email, password string) (*auth.Identity, error) {
	if _, ok := p.users[email]; ok {
		return nil, &auth.Error{Code: auth.CodeEmailInUse}
	}
	id := p.add(email)
	p.set(id)
	return id, nil
}

func (p *fakeProvider) Login(ctx context.Context, email, password string) (*auth.Identity, error) {
	id, ok := p.users[email]
	if !ok {
		return nil, &auth.Error{Code: auth.CodeUserNotFound}
	}
	p.set(id)
	return id, nil
}

func (p *fakeProvider) Logout(ctx context.Context) error {
	p.set(nil)
	return nil
}

func (p *fakeProvider) Current() *auth.Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *fakeProvider) Subscribe(fn func(*auth.Identity)) func() {
	p.mu.Lock()
	p.subs = append(p.subs, fn)
	current := p.current
	p.mu.Unlock()
	fn(current)
	return func() {}
}

func (p *fakeProvider) set(id *auth.Identity) {
	p.mu.Lock()
	p.current = id
	subs := append([]func(*auth.Identity){}, p.subs...)
	p.mu.Unlock()
	for _, fn := range subs {
		fn(id)
	}
}

type env struct {
	local    *local.Storage
	repo     remote.Repository
	db       *gorm.DB
	provider *fakeProvider
	today    util.Date
}

func newEnv(t *testing.T) *env {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, local.Migrate(db))
	require.NoError(t, remote.Migrate(db))

	return &env{
		local:    local.New(db),
		repo:     remote.NewRepository(db),
		db:       db,
		provider: newFakeProvider(),
		today:    util.MustParseDate("2024-01-05"),
	}
}

func (e *env) controller(t *testing.T) *session.Controller {
	t.Helper()
	ctrl := session.NewController(session.Deps{
		Local:    e.local,
		Remote:   e.repo,
		Provider: e.provider,
		Today:    func() util.Date { return e.today },
	})
	require.NoError(t, ctrl.Start(context.Background()))
	t.Cleanup(ctrl.Close)
	return ctrl
}
