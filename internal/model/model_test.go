package model

import (
	"encoding/json"
	"testing"
	"time"
)

// =========================================================================
// ENUM PARSING TESTS
// =========================================================================

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"basic", LevelBasic, false},
		{"Intermediate", LevelIntermediate, false},
		{" ADVANCED ", LevelAdvanced, false},
		{"expert", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	if got, err := ParseStatus("approved"); err != nil || got != StatusApproved {
		t.Errorf("ParseStatus(approved) = %q, %v", got, err)
	}
	if _, err := ParseStatus("done"); err == nil {
		t.Error("ParseStatus(done) should fail")
	}
}

func TestParseRole(t *testing.T) {
	tests := map[string]Role{
		"student":      RoleStudent,
		"COMPANY_REP":  RoleCompanyRep,
		"staff":        RoleCareerStaff,
		"career_staff": RoleCareerStaff,
	}
	for in, want := range tests {
		got, err := ParseRole(in)
		if err != nil {
			t.Fatalf("ParseRole(%q) error = %v", in, err)
		}
		if got != want {
			t.Errorf("ParseRole(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseRole("admin"); err == nil {
		t.Error("ParseRole(admin) should fail")
	}
}

// =========================================================================
// DATE TESTS
// =========================================================================

func TestDate_JSON(t *testing.T) {
	d := NewDate(2025, time.March, 7)

	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(b) != `"2025-03-07"` {
		t.Errorf("Marshal() = %s, want \"2025-03-07\"", b)
	}

	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if back.Compare(d) != 0 {
		t.Errorf("Unmarshal() = %v, want %v", back, d)
	}
}

func TestDate_UnmarshalRejectsBadFormat(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"07/03/2025"`), &d); err == nil {
		t.Error("Unmarshal() should reject a non ISO date")
	}
}

func TestDate_Ordering(t *testing.T) {
	a := NewDate(2025, time.January, 1)
	b := NewDate(2025, time.January, 2)

	if !a.Before(b) || !b.After(a) {
		t.Error("expected a < b")
	}
	if a.Compare(a) != 0 {
		t.Error("Compare() with itself should be 0")
	}
}

// =========================================================================
// ENTITY INVARIANT TESTS
// =========================================================================

func TestCompanyRepresentative_CountTracksList(t *testing.T) {
	r := &CompanyRepresentative{}

	r.AddInternship("r1_1")
	r.AddInternship("r1_2")
	if r.InternshipCount != 2 || len(r.InternshipIDs) != 2 {
		t.Fatalf("count = %d, len = %d, want 2", r.InternshipCount, len(r.InternshipIDs))
	}

	r.RemoveInternship("r1_1")
	if r.InternshipCount != 1 || r.Owns("r1_1") || !r.Owns("r1_2") {
		t.Errorf("after remove: count = %d ids = %v", r.InternshipCount, r.InternshipIDs)
	}

	// Removing an unknown id leaves the count alone
	r.RemoveInternship("nope")
	if r.InternshipCount != 1 {
		t.Errorf("count = %d, want 1", r.InternshipCount)
	}
}

func TestInternship_ConfirmRelease(t *testing.T) {
	i := &Internship{TotalSlots: 2, SlotsLeft: 2}

	i.Confirm("s1")
	if i.SlotsLeft != 1 || !i.IsConfirmed("s1") {
		t.Fatalf("after Confirm: slots = %d confirmed = %v", i.SlotsLeft, i.ConfirmedStudentIDs)
	}
	if i.Confirm("s1") {
		t.Error("Confirm() of an already confirmed student should return false")
	}
	if i.SlotsLeft != 1 || len(i.ConfirmedStudentIDs) != 1 {
		t.Errorf("second Confirm: slots = %d confirmed = %v", i.SlotsLeft, i.ConfirmedStudentIDs)
	}

	if i.Release("s2") {
		t.Error("Release() of an unconfirmed student should return false")
	}
	if !i.Release("s1") {
		t.Fatal("Release() of a confirmed student should return true")
	}
	if i.SlotsLeft != 2 {
		t.Errorf("SlotsLeft = %d, want 2", i.SlotsLeft)
	}
}

func TestStudent_CloneIsIndependent(t *testing.T) {
	s := &Student{ApplicationIDs: []string{"a"}}
	c := s.Clone()
	c.AddApplication("b")

	if len(s.ApplicationIDs) != 1 {
		t.Errorf("original mutated through clone: %v", s.ApplicationIDs)
	}
}

func TestApplicationID(t *testing.T) {
	if got := ApplicationID("S1", "R1_1"); got != "S1_R1_1" {
		t.Errorf("ApplicationID() = %q", got)
	}
	if got := InternshipID("R1", 3); got != "R1_3" {
		t.Errorf("InternshipID() = %q", got)
	}
}
