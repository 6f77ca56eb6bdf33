package guard

import (
	"github.com/medilink-hms/client/internal/domain"
	"github.com/medilink-hms/client/internal/router"
)

// Action is the terminal rendering decision for a protected view.
type Action string

const (
	// ActionWait renders a neutral indicator while the session is loading.
	ActionWait Action = "wait"
	// ActionRender shows the requested view.
	ActionRender Action = "render"
	// ActionRedirect sends the caller elsewhere before anything renders.
	ActionRedirect Action = "redirect"
)

// Decision is what the guard tells the caller to do. On a redirect for an
// unauthenticated visitor, From preserves the attempted location for a
// post-login return.
type Decision struct {
	Action Action
	Target string
	From   string
}

// Evaluate gates a protected view. The decision is a pure function of the
// session snapshot: loading waits, unauthenticated goes to the landing
// route, a role outside the allowed set is silently sent to its own
// dashboard, everything else renders. A nil or empty allowed set admits any
// authenticated role.
func Evaluate(snap domain.SessionSnapshot, allowed []domain.Role, location string) Decision {
	if snap.Loading {
		return Decision{Action: ActionWait}
	}
	if !snap.Authenticated {
		return Decision{Action: ActionRedirect, Target: router.LandingPath, From: location}
	}
	if len(allowed) > 0 && !roleAllowed(snap.Role, allowed) {
		return Decision{Action: ActionRedirect, Target: snap.Role.Endpoints().DashboardPath}
	}
	return Decision{Action: ActionRender}
}

func roleAllowed(role domain.Role, allowed []domain.Role) bool {
	for _, candidate := range allowed {
		if candidate == role {
			return true
		}
	}
	return false
}
