// Package guard decides whether a view may be shown for a session state.
// It is pure: the HTTP adapter in the server package acts on the Decision.
package guard

import "github.com/motopay/portal/users"

// DefaultRedirect is where unauthenticated visitors are sent.
const DefaultRedirect = "/login"

type Outcome int

const (
	// Wait means the session is still loading. Show a placeholder, do not redirect.
	Wait Outcome = iota
	Redirect
	Allow
)

func (o Outcome) String() string {
	switch o {
	case Wait:
		return "wait"
	case Redirect:
		return "redirect"
	case Allow:
		return "allow"
	default:
		return "unknown"
	}
}

// State is the session as the guard sees it.
type State struct {
	Loading bool
	User    *users.User
}

func (s State) Authenticated() bool {
	return s.User != nil
}

// Source is anything that can report a consistent user/loading pair, such as
// a *session.Context.
type Source interface {
	Snapshot() (*users.User, bool)
}

func StateOf(src Source) State {
	u, loading := src.Snapshot()
	return State{Loading: loading, User: u}
}

type Options struct {
	// Roles, when non-empty, is the allow-list for the view.
	Roles []users.RoleType
	// RedirectTo is used for unauthenticated visitors. Defaults to DefaultRedirect.
	RedirectTo string
}

type Decision struct {
	Outcome Outcome
	Target  string // set for Redirect
}

// Decide applies, in order: loading waits, guests go to RedirectTo, a role
// outside the allow-list goes to that role's home, everything else is allowed.
func Decide(state State, opts Options) Decision {
	if state.Loading {
		return Decision{Outcome: Wait}
	}

	if !state.Authenticated() {
		target := opts.RedirectTo
		if target == "" {
			target = DefaultRedirect
		}
		return Decision{Outcome: Redirect, Target: target}
	}

	if len(opts.Roles) > 0 && !state.User.HasRole(opts.Roles...) {
		return Decision{Outcome: Redirect, Target: users.HomePath(state.User.Role)}
	}

	return Decision{Outcome: Allow}
}
