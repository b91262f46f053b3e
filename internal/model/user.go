// Package model defines the data structures used throughout the application.
//
// ACCOUNTS AS TAGGED VARIANTS:
// Go has no inheritance, so the three kinds of user share one embedded Account
// record (identity + credential) and attach their own fields next to it.
// The Role field tags which variant a given Account belongs to.
package model

import "slices"

// MaxPendingApplications is how many applications a student may hold at once.
const MaxPendingApplications = 3

// MaxActivePostings is how many postings a representative may own at once.
const MaxActivePostings = 5

// Account is the identity and credential record every user carries.
//
// Password holds whatever the credential checker stores (a bcrypt hash in
// this service). It is never serialised to JSON.
type Account struct {
	ID       string `json:"id"`
	Password string `json:"-"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// Student can apply to up to three postings and accept at most one offer.
//
// Invariant: AcceptedInternshipID != "" implies len(ApplicationIDs) == 0.
type Student struct {
	Account
	YearOfStudy          int      `json:"yearOfStudy"`
	Major                string   `json:"major"`
	AcceptedInternshipID string   `json:"acceptedInternshipId,omitempty"`
	ApplicationIDs       []string `json:"applicationIds"`
}

// HasAccepted reports whether the student already holds a placement.
func (s *Student) HasAccepted() bool {
	return s.AcceptedInternshipID != ""
}

// HasApplication reports whether applicationID is in the pending list.
func (s *Student) HasApplication(applicationID string) bool {
	return slices.Contains(s.ApplicationIDs, applicationID)
}

func (s *Student) AddApplication(applicationID string) {
	s.ApplicationIDs = append(s.ApplicationIDs, applicationID)
}

// RemoveApplication drops applicationID from the pending list, if present.
func (s *Student) RemoveApplication(applicationID string) {
	s.ApplicationIDs = slices.DeleteFunc(s.ApplicationIDs, func(id string) bool {
		return id == applicationID
	})
}

// Clone returns a deep copy so callers can't mutate shared state.
func (s *Student) Clone() *Student {
	c := *s
	c.ApplicationIDs = slices.Clone(s.ApplicationIDs)
	return &c
}

// CompanyRepresentative posts internships on behalf of a company.
// A new representative starts PENDING and can only post once staff approve them.
//
// Invariant: InternshipCount == len(InternshipIDs). Only AddInternship and
// RemoveInternship touch either field.
type CompanyRepresentative struct {
	Account
	CompanyName     string   `json:"companyName"`
	Department      string   `json:"department"`
	Position        string   `json:"position"`
	Approval        Status   `json:"approval"`
	InternshipIDs   []string `json:"internshipIds"`
	InternshipCount int      `json:"internshipCount"`
	// NextSequence feeds the repId_sequence posting identifiers. It only
	// grows, so a deleted posting's id is never handed out again.
	NextSequence int `json:"nextSequence"`
}

func (r *CompanyRepresentative) IsApproved() bool {
	return r.Approval == StatusApproved
}

// Owns reports whether internshipID is one of this representative's postings.
func (r *CompanyRepresentative) Owns(internshipID string) bool {
	return slices.Contains(r.InternshipIDs, internshipID)
}

func (r *CompanyRepresentative) AddInternship(internshipID string) {
	r.InternshipIDs = append(r.InternshipIDs, internshipID)
	r.InternshipCount = len(r.InternshipIDs)
}

func (r *CompanyRepresentative) RemoveInternship(internshipID string) {
	r.InternshipIDs = slices.DeleteFunc(r.InternshipIDs, func(id string) bool {
		return id == internshipID
	})
	r.InternshipCount = len(r.InternshipIDs)
}

func (r *CompanyRepresentative) Clone() *CompanyRepresentative {
	c := *r
	c.InternshipIDs = slices.Clone(r.InternshipIDs)
	return &c
}

// CareerStaff approves representatives, postings and withdrawals.
type CareerStaff struct {
	Account
	Department string `json:"department"`
	StaffRole  string `json:"staffRole"`
}

func (c *CareerStaff) Clone() *CareerStaff {
	cp := *c
	return &cp
}
