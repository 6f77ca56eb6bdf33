package domain

import "fmt"

// Role identifies which portal a subject belongs to.
type Role string

const (
	RolePatient Role = "user"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

// Roles lists every known role.
func Roles() []Role {
	return []Role{RolePatient, RoleDoctor, RoleAdmin}
}

// ParseRole validates a role string received from config, CLI flags or
// persisted state.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RolePatient, RoleDoctor, RoleAdmin:
		return Role(s), nil
	case "patient":
		// Accepted alias; the backend spells the patient role "user".
		return RolePatient, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

// RoleEndpoints describes how a role maps onto the backend surface: which
// endpoints serve it, which envelope field carries its profile, and where its
// portal home lives.
type RoleEndpoints struct {
	LoginPath     string
	RegisterPath  string
	ProfilePath   string
	ProfileField  string
	DashboardPath string
}

var roleEndpoints = map[Role]RoleEndpoints{
	RolePatient: {
		LoginPath:     "/auth/login/user",
		RegisterPath:  "/auth/register/user",
		ProfilePath:   "/user/profile",
		ProfileField:  "user",
		DashboardPath: "/dashboard",
	},
	RoleDoctor: {
		LoginPath:     "/auth/login/doctor",
		RegisterPath:  "/auth/register/doctor",
		ProfilePath:   "/doctor/profile",
		ProfileField:  "doctor",
		DashboardPath: "/doctor/dashboard",
	},
	RoleAdmin: {
		LoginPath:     "/auth/login/admin",
		RegisterPath:  "/auth/register/admin",
		ProfilePath:   "/admin/profile",
		ProfileField:  "admin",
		DashboardPath: "/admin/dashboard",
	},
}

// Endpoints returns the backend mapping for the role. It panics on an unknown
// role; callers are expected to hold a parsed Role.
func (r Role) Endpoints() RoleEndpoints {
	ep, ok := roleEndpoints[r]
	if !ok {
		panic(fmt.Sprintf("domain: no endpoint mapping for role %q", r))
	}
	return ep
}
