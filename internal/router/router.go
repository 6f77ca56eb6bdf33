package router

import (
	"strings"
	"sync"
)

// Well-known portal routes.
const (
	LandingPath = "/"
	LoginPath   = "/login"

	// ExpiredMarker is appended to the login route when a session was torn
	// down because the backend rejected its token.
	ExpiredMarker = "expired=true"
)

// Navigator tracks the current view location. It is the process-local
// equivalent of the browser address bar: the route guard, the session store
// and the API client all steer through it.
type Navigator struct {
	mu      sync.Mutex
	current string
	history []string
}

// NewNavigator starts at the public landing route.
func NewNavigator() *Navigator {
	return &Navigator{current: LandingPath}
}

// Current returns the active path including any query suffix.
func (n *Navigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Go navigates to the given path.
func (n *Navigator) Go(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.history = append(n.history, n.current)
	n.current = path
}

// History returns the ordered list of previously visited paths.
func (n *Navigator) History() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.history...)
}

// OnLoginRoute reports whether the current location is the login view.
// Matching by substring mirrors how the portal inspects its pathname and
// keeps the expired-redirect from looping.
func (n *Navigator) OnLoginRoute() bool {
	return strings.Contains(n.Current(), LoginPath)
}

// GoLoginExpired navigates to the login view carrying the expired marker.
func (n *Navigator) GoLoginExpired() {
	n.Go(LoginPath + "?" + ExpiredMarker)
}

// Expired reports whether the current location carries the expired marker.
func (n *Navigator) Expired() bool {
	return strings.Contains(n.Current(), ExpiredMarker)
}
