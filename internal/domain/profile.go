package domain

// ApprovalStatus tracks the review state of a doctor account.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Profile is the role-tagged identity record for the signed-in subject. The
// backend returns it without the role; the client injects the role it
// authenticated under before persisting or exposing it.
type Profile struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`

	// ApprovalStatus is only populated for doctor profiles.
	ApprovalStatus ApprovalStatus `json:"approvalStatus,omitempty"`
}

// WithRole returns a copy of the profile tagged with the given role.
func (p Profile) WithRole(role Role) Profile {
	p.Role = role
	return p
}
