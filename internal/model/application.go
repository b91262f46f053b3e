package model

// Application links a student to a posting.
//
// The representative id is copied in at creation so a representative can
// list their inbox without walking every posting.
type Application struct {
	ID               string     `json:"id"`
	StudentID        string     `json:"studentId"`
	InternshipID     string     `json:"internshipId"`
	RepresentativeID string     `json:"representativeId"`
	CompanyDecision  Status     `json:"companyDecision"`
	StudentDecision  Status     `json:"studentDecision"`
	Withdrawal       Withdrawal `json:"withdrawal"`
}

// ApplicationID builds the studentId_internshipId identifier.
func ApplicationID(studentID, internshipID string) string {
	return studentID + IDSeparator + internshipID
}

// NewApplication returns a fresh application with both decisions pending.
func NewApplication(studentID string, internship *Internship) *Application {
	return &Application{
		ID:               ApplicationID(studentID, internship.ID),
		StudentID:        studentID,
		InternshipID:     internship.ID,
		RepresentativeID: internship.RepresentativeID,
		CompanyDecision:  StatusPending,
		StudentDecision:  StatusPending,
		Withdrawal:       WithdrawalNone,
	}
}

func (a *Application) Clone() *Application {
	c := *a
	return &c
}
