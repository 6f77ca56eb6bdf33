package domain

import "testing"

func TestParseRole(t *testing.T) {
	cases := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{in: "user", want: RolePatient},
		{in: "patient", want: RolePatient},
		{in: "doctor", want: RoleDoctor},
		{in: "admin", want: RoleAdmin},
		{in: "staff", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range cases {
		got, err := ParseRole(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseRole(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseRole(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseRole(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRoleEndpointsExhaustive(t *testing.T) {
	for _, role := range Roles() {
		ep := role.Endpoints()
		if ep.LoginPath == "" || ep.RegisterPath == "" || ep.ProfilePath == "" ||
			ep.ProfileField == "" || ep.DashboardPath == "" {
			t.Fatalf("incomplete endpoint mapping for role %q: %+v", role, ep)
		}
	}
}

func TestRoleEndpointValues(t *testing.T) {
	doctor := RoleDoctor.Endpoints()
	if doctor.LoginPath != "/auth/login/doctor" {
		t.Fatalf("unexpected doctor login path: %s", doctor.LoginPath)
	}
	if doctor.ProfilePath != "/doctor/profile" {
		t.Fatalf("unexpected doctor profile path: %s", doctor.ProfilePath)
	}
	if doctor.ProfileField != "doctor" {
		t.Fatalf("unexpected doctor profile field: %s", doctor.ProfileField)
	}
	if doctor.DashboardPath != "/doctor/dashboard" {
		t.Fatalf("unexpected doctor dashboard: %s", doctor.DashboardPath)
	}

	patient := RolePatient.Endpoints()
	if patient.ProfileField != "user" || patient.DashboardPath != "/dashboard" {
		t.Fatalf("unexpected patient mapping: %+v", patient)
	}
}

func TestProfileWithRole(t *testing.T) {
	p := Profile{ID: "p1", Name: "Jo"}
	tagged := p.WithRole(RoleDoctor)
	if tagged.Role != RoleDoctor {
		t.Fatalf("expected role doctor, got %q", tagged.Role)
	}
	if p.Role != "" {
		t.Fatal("WithRole must not mutate the receiver")
	}
}
