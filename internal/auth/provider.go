package auth

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/chronos-goals/internal/config"
	"github.com/saulo-duarte/chronos-goals/internal/user"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

const (
	MinPasswordLength = 6
	SessionDuration   = 30 * 24 * time.Hour
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Identity is the signed-in user as seen by the rest of the application.
type Identity struct {
	UserID uuid.UUID `json:"uid"`
	Email  string    `json:"email"`
	Token  string    `json:"-"`
}

// Provider authenticates users and reports identity changes to subscribers.
type Provider interface {
	Register(ctx context.Context, email, password string) (*Identity, error)
	Login(ctx context.Context, email, password string) (*Identity, error)
	Logout(ctx context.Context) error
	Current() *Identity
	// Subscribe calls fn with the current identity right away and again on
	// every change. The returned func removes the subscription.
	Subscribe(fn func(*Identity)) func()
}

// TokenStore keeps the session token across restarts.
type TokenStore interface {
	LoadAuthToken(ctx context.Context) (string, error)
	SaveAuthToken(ctx context.Context, token string) error
	ClearAuthToken(ctx context.Context) error
}

type Service struct {
	users   user.UserRepository
	tokens  TokenStore
	limiter *rate.Limiter

	mu      sync.Mutex
	current *Identity
	subs    map[int]func(*Identity)
	nextSub int
}

type Option func(*Service)

// WithLimiter replaces the default limit of five attempts plus one per second.
func WithLimiter(l *rate.Limiter) Option {
	return func(s *Service) {
		s.limiter = l
	}
}

func NewService(users user.UserRepository, tokens TokenStore, opts ...Option) *Service {
	s := &Service{
		users:   users,
		tokens:  tokens,
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
		subs:    make(map[int]func(*Identity)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Register(ctx context.Context, email, password string) (*Identity, error) {
	email = normalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	if !s.limiter.Allow() {
		return nil, newError(CodeTooManyRequests, nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, newError(CodeEmailInUse, nil)
	} else if !errors.Is(err, user.ErrNotFound) {
		return nil, newError(CodeUnavailable, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, newError(CodeInternal, err)
	}

	u := &user.User{Email: email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, newError(CodeUnavailable, err)
	}

	config.WithContext(ctx).WithField("user_id", u.ID).Info("User registered")
	return s.signIn(ctx, u)
}

func (s *Service) Login(ctx context.Context, email, password string) (*Identity, error) {
	email = normalizeEmail(email)
	if !emailPattern.MatchString(email) {
		return nil, newError(CodeInvalidEmail, nil)
	}
	if !s.limiter.Allow() {
		return nil, newError(CodeTooManyRequests, nil)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, newError(CodeUserNotFound, nil)
		}
		return nil, newError(CodeUnavailable, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, newError(CodeWrongPassword, nil)
	}

	return s.signIn(ctx, u)
}

func (s *Service) Logout(ctx context.Context) error {
	if err := s.tokens.ClearAuthToken(ctx); err != nil {
		config.WithContext(ctx).WithError(err).Warn("Failed to clear stored session token")
	}
	s.set(nil)
	return nil
}

func (s *Service) Current() *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Service) Subscribe(fn func(*Identity)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	current := s.current
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Restore signs the stored session back in. A missing, expired or unknown
// token leaves the provider signed out and notifies subscribers once.
func (s *Service) Restore(ctx context.Context) *Identity {
	log := config.WithContext(ctx)

	token, err := s.tokens.LoadAuthToken(ctx)
	if err != nil {
		log.WithError(err).Warn("Could not read stored session token")
	}
	if token == "" {
		s.set(nil)
		return nil
	}

	claims, err := ValidateJWT(token)
	if err != nil {
		log.WithError(err).Info("Stored session token rejected")
		if err := s.tokens.ClearAuthToken(ctx); err != nil {
			log.WithError(err).Warn("Failed to clear rejected session token")
		}
		s.set(nil)
		return nil
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		s.set(nil)
		return nil
	}
	if _, err := s.users.GetByID(ctx, id); err != nil {
		log.WithError(err).Warn("Stored session belongs to an unknown user")
		s.set(nil)
		return nil
	}

	identity := &Identity{UserID: id, Email: claims.Email, Token: token}
	s.set(identity)
	return identity
}

func (s *Service) signIn(ctx context.Context, u *user.User) (*Identity, error) {
	token, err := GenerateJWT(u.ID.String(), u.Email, SessionDuration)
	if err != nil {
		return nil, newError(CodeInternal, err)
	}
	if err := s.tokens.SaveAuthToken(ctx, token); err != nil {
		config.WithContext(ctx).WithError(err).Warn("Session token not stored, sign-in will not survive a restart")
	}

	identity := &Identity{UserID: u.ID, Email: u.Email, Token: token}
	s.set(identity)
	return identity, nil
}

// set swaps the identity and notifies subscribers outside the lock.
func (s *Service) set(identity *Identity) {
	s.mu.Lock()
	s.current = identity
	subs := make([]func(*Identity), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(identity)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(email, password string) error {
	if !emailPattern.MatchString(email) {
		return newError(CodeInvalidEmail, nil)
	}
	if len(password) < MinPasswordLength {
		return newError(CodeWeakPassword, nil)
	}
	return nil
}
