package domain

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Acme Corp", "acme-corp"},
		{"Acme Corp!", "acme-corp"},
		{"  Spaces  Everywhere  ", "spaces-everywhere"},
		{"Already-Slugged", "already-slugged"},
		{"Team #42", "team-42"},
		{"___", ""},
		{"UPPER", "upper"},
	}

	for _, tc := range cases {
		if got := Slugify(tc.name); got != tc.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestDemoRequestStatusValid(t *testing.T) {
	for _, s := range []DemoRequestStatus{DemoStatusPending, DemoStatusContacted, DemoStatusScheduled, DemoStatusCompleted, DemoStatusCancelled} {
		if !s.Valid() {
			t.Fatalf("expected %q to be valid", s)
		}
	}
	if DemoRequestStatus("archived").Valid() {
		t.Fatalf("expected archived to be invalid")
	}
	if DemoRequestStatus("").Valid() {
		t.Fatalf("expected empty status to be invalid")
	}
}

func TestAccessRequestStatusValid(t *testing.T) {
	for _, s := range []AccessRequestStatus{AccessStatusPending, AccessStatusApproved, AccessStatusContacted, AccessStatusRejected} {
		if !s.Valid() {
			t.Fatalf("expected %q to be valid", s)
		}
	}
	if AccessRequestStatus("scheduled").Valid() {
		t.Fatalf("expected scheduled to be invalid for access requests")
	}
}
