package model

import (
	"fmt"
	"slices"
)

// Internship is a posting created by a company representative.
//
// LIFECYCLE:
//
//	PENDING --approve--> APPROVED   (descriptive fields frozen)
//	PENDING --reject---> removed from the repository
//
// Invariant: SlotsLeft == TotalSlots - len(ConfirmedStudentIDs).
type Internship struct {
	ID                  string   `json:"id"`
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	Level               Level    `json:"level"`
	Major               string   `json:"major"`
	OpenDate            Date     `json:"openDate"`
	CloseDate           Date     `json:"closeDate"`
	TotalSlots          int      `json:"totalSlots"`
	SlotsLeft           int      `json:"slotsLeft"`
	Status              Status   `json:"status"`
	Visible             bool     `json:"visible"`
	RepresentativeID    string   `json:"representativeId"`
	ConfirmedStudentIDs []string `json:"confirmedStudentIds"`
}

// IDSeparator joins the parts of composite ids. Account ids may not contain
// it, so repId_sequence and studentId_internshipId never collide.
const IDSeparator = "_"

// InternshipID builds the repId_sequence identifier.
func InternshipID(repID string, seq int) string {
	return fmt.Sprintf("%s%s%d", repID, IDSeparator, seq)
}

// IsConfirmed reports whether studentID holds a placement on this posting.
func (i *Internship) IsConfirmed(studentID string) bool {
	return slices.Contains(i.ConfirmedStudentIDs, studentID)
}

// Confirm registers studentID and consumes one slot. It returns false,
// changing nothing, if the student is already confirmed.
func (i *Internship) Confirm(studentID string) bool {
	if i.IsConfirmed(studentID) {
		return false
	}
	i.ConfirmedStudentIDs = append(i.ConfirmedStudentIDs, studentID)
	i.SlotsLeft = i.TotalSlots - len(i.ConfirmedStudentIDs)
	return true
}

// Release removes studentID from the confirmed list and gives the slot back.
// It returns false if the student was not confirmed.
func (i *Internship) Release(studentID string) bool {
	if !i.IsConfirmed(studentID) {
		return false
	}
	i.ConfirmedStudentIDs = slices.DeleteFunc(i.ConfirmedStudentIDs, func(id string) bool {
		return id == studentID
	})
	i.SlotsLeft = i.TotalSlots - len(i.ConfirmedStudentIDs)
	return true
}

func (i *Internship) Clone() *Internship {
	c := *i
	c.ConfirmedStudentIDs = slices.Clone(i.ConfirmedStudentIDs)
	return &c
}
