package session

import "github.com/saulo-duarte/chronos-goals/internal/auth"

type Phase string

const (
	PhaseLoading         Phase = "loading"
	PhaseUnauthenticated Phase = "unauthenticated"
	PhaseOnline          Phase = "online"
	PhaseOffline         Phase = "offline"
)

type EventKind int

const (
	// AuthChanged is the identity provider reporting its current user.
	AuthChanged EventKind = iota
	// SignedIn follows a successful login or registration.
	SignedIn
	SignedOut
	// ContinueOffline is the user choosing to go on without an account.
	ContinueOffline
)

type Event struct {
	Kind EventKind
	User *auth.Identity
}

// State is the whole session. Offline is the persisted user override; User
// is kept even while offline so the welcome and account views can show it.
type State struct {
	Phase   Phase
	User    *auth.Identity
	Offline bool
}

func Initial(offline bool) State {
	return State{Phase: PhaseLoading, Offline: offline}
}

// Remote reports whether goal writes belong to the remote store.
func (s State) Remote() bool {
	return !s.Offline && s.User != nil
}

// Ready reports whether a goal store may be used in this phase.
func (s State) Ready() bool {
	return s.Phase == PhaseOnline || s.Phase == PhaseOffline
}

// Next returns the state after e. It never mutates s.
func Next(s State, e Event) State {
	switch e.Kind {
	case AuthChanged:
		s.User = e.User
		switch {
		case s.Offline:
			s.Phase = PhaseOffline
		case s.User != nil:
			s.Phase = PhaseOnline
		default:
			s.Phase = PhaseUnauthenticated
		}

	case SignedIn:
		if e.User == nil {
			return s
		}
		s.User = e.User
		s.Offline = false
		s.Phase = PhaseOnline

	case SignedOut:
		s.User = nil
		s.Offline = false
		s.Phase = PhaseUnauthenticated

	case ContinueOffline:
		if s.Phase == PhaseLoading || s.Phase == PhaseUnauthenticated {
			s.Offline = true
			s.Phase = PhaseOffline
		}
	}
	return s
}

// offersMerge reports whether moving from prev to next is a sign-in that
// should offer to copy local goals into the remote store.
func offersMerge(prev, next State) bool {
	if next.Phase != PhaseOnline {
		return false
	}
	return prev.Phase == PhaseUnauthenticated || prev.Phase == PhaseOffline
}
