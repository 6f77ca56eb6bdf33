package domain

// RestorePhase makes the optimistic restore window explicit: a session
// rebuilt from the local vault is tentative until the backend confirms or
// rejects the cached token.
type RestorePhase string

const (
	RestoreNone      RestorePhase = "none"
	RestoreTentative RestorePhase = "tentative"
	RestoreConfirmed RestorePhase = "confirmed"
	RestoreRejected  RestorePhase = "rejected"
)

// SessionSnapshot is an immutable view of the session state at one point in
// time. Authenticated is true iff both Identity and Token are set.
type SessionSnapshot struct {
	Identity      *Profile
	Role          Role
	Token         string
	Loading       bool
	Authenticated bool
	Phase         RestorePhase
}
