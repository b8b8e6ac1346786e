package auth

import (
	"context"
	"errors"
)

var ErrRemoteDisabled = errors.New("remote accounts are not configured")

// Unavailable is the Provider used when no remote database is configured.
// Nobody is ever signed in; sign-in attempts fail with CodeUnavailable.
type Unavailable struct{}

func (Unavailable) Register(context.Context, string, string) (*Identity, error) {
	return nil, newError(CodeUnavailable, ErrRemoteDisabled)
}

func (Unavailable) Login(context.Context, string, string) (*Identity, error) {
	return nil, newError(CodeUnavailable, ErrRemoteDisabled)
}

func (Unavailable) Logout(context.Context) error { return nil }

func (Unavailable) Current() *Identity { return nil }

func (Unavailable) Subscribe(fn func(*Identity)) func() {
	fn(nil)
	return func() {}
}
