package dto

import (
	"encoding/json"
	"testing"

	"github.com/medilink-hms/client/internal/domain"
)

func TestProfileResponseRoleKeyedExtraction(t *testing.T) {
	body := []byte(`{"success":true,"doctor":{"_id":"d1","name":"Dr. Gray","email":"doc@x.com","approvalStatus":"pending"}}`)

	var resp ProfileResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Success {
		t.Fatal("expected success envelope")
	}

	profile, err := resp.Profile("doctor")
	if err != nil {
		t.Fatalf("Profile(doctor): %v", err)
	}
	if profile.ID != "d1" || profile.ApprovalStatus != domain.ApprovalPending {
		t.Fatalf("unexpected profile %+v", profile)
	}

	if _, err := resp.Profile("user"); err == nil {
		t.Fatal("expected error for a field the response does not carry")
	}
}

func TestProfileResponseFailureEnvelope(t *testing.T) {
	body := []byte(`{"success":false,"message":"account suspended"}`)

	var resp ProfileResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Success {
		t.Fatal("expected failure envelope")
	}
	if resp.Message != "account suspended" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}
