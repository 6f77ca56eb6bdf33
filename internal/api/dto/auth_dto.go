package dto

import (
	"encoding/json"
	"fmt"

	"github.com/medilink-hms/client/internal/domain"
)

// Envelope is the generic backend response wrapper.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// LoginRequest payload for role login endpoints.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterForm carries the role-specific registration fields verbatim; the
// client forwards them without interpretation.
type RegisterForm map[string]interface{}

// VerifyOTPRequest payload for POST /auth/verify-otp.
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// LoginResponse is returned by the login endpoints. The profile arrives
// untagged under "user" for every role.
type LoginResponse struct {
	Envelope
	Token string         `json:"token"`
	User  domain.Profile `json:"user"`
}

// ProfileResponse is returned by the role profile endpoints. The profile sits
// under a role-specific field ("user", "doctor" or "admin"), so the body is
// kept raw and extracted by field name from the role table.
type ProfileResponse struct {
	Success bool
	Message string

	fields map[string]json.RawMessage
}

// UnmarshalJSON captures the envelope and retains the remaining fields for
// role-keyed extraction.
func (r *ProfileResponse) UnmarshalJSON(b []byte) error {
	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	r.Success = env.Success
	r.Message = env.Message
	r.fields = fields
	return nil
}

// Profile decodes the profile stored under the given field name.
func (r *ProfileResponse) Profile(field string) (domain.Profile, error) {
	raw, ok := r.fields[field]
	if !ok {
		return domain.Profile{}, fmt.Errorf("profile response has no %q field", field)
	}
	var profile domain.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return domain.Profile{}, fmt.Errorf("decode %q profile: %w", field, err)
	}
	return profile, nil
}
