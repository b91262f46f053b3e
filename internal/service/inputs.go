package service

import (
	"fmt"
	"strings"

	"github.com/sakif/placement-hub/internal/apperror"
	"github.com/sakif/placement-hub/internal/model"
)

const (
	MaxTitleLength       = 120
	MaxDescriptionLength = 4000
	MaxSlotsPerPosting   = 10
	MaxYearOfStudy       = 4
	MinPasswordLength    = 6
)

// InternshipInput carries every descriptive field of a posting. Create and
// Update both take the full set; Update replaces all of them at once.
type InternshipInput struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Level       model.Level `json:"level"`
	Major       string      `json:"major"`
	OpenDate    model.Date  `json:"openDate"`
	CloseDate   model.Date  `json:"closeDate"`
	Slots       int         `json:"slots"`
}

func (in *InternshipInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Major = strings.TrimSpace(in.Major)

	if in.Title == "" {
		return apperror.ValidationFailed("title", "internship title is required")
	}
	if len(in.Title) > MaxTitleLength {
		return apperror.ValidationFailed("title",
			fmt.Sprintf("internship title must be %d characters or less", MaxTitleLength))
	}
	if len(in.Description) > MaxDescriptionLength {
		return apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or less", MaxDescriptionLength))
	}
	level, err := model.ParseLevel(string(in.Level))
	if err != nil {
		return apperror.ValidationFailed("level", "level must be BASIC, INTERMEDIATE or ADVANCED")
	}
	in.Level = level
	if in.Major == "" {
		return apperror.ValidationFailed("major", "target major is required")
	}
	if in.OpenDate.IsZero() || in.CloseDate.IsZero() {
		return apperror.ValidationFailed("openDate", "open and close dates are required")
	}
	if in.CloseDate.Before(in.OpenDate) {
		return apperror.ValidationFailed("closeDate", "close date must not be before open date")
	}
	if in.Slots < 1 || in.Slots > MaxSlotsPerPosting {
		return apperror.ValidationFailed("slots",
			fmt.Sprintf("slots must be between 1 and %d", MaxSlotsPerPosting))
	}
	return nil
}

// AccountInput is the identity part shared by every registration form.
type AccountInput struct {
	ID       string `json:"id"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

func (in *AccountInput) normalize() error {
	in.ID = strings.TrimSpace(in.ID)
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	if in.ID == "" {
		return apperror.ValidationFailed("id", "user id is required")
	}
	if strings.Contains(in.ID, model.IDSeparator) {
		return apperror.ValidationFailed("id",
			fmt.Sprintf("user id must not contain %q", model.IDSeparator))
	}
	if in.Name == "" {
		return apperror.ValidationFailed("name", "name is required")
	}
	if in.Email != "" && !strings.Contains(in.Email, "@") {
		return apperror.ValidationFailed("email", "invalid email format")
	}
	return validatePassword(in.Password)
}

func validatePassword(pw string) error {
	if len(pw) < MinPasswordLength {
		return apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	return nil
}

// StudentInput enrols a student.
type StudentInput struct {
	AccountInput
	YearOfStudy int    `json:"yearOfStudy"`
	Major       string `json:"major"`
}

func (in *StudentInput) normalize() error {
	if err := in.AccountInput.normalize(); err != nil {
		return err
	}
	in.Major = strings.TrimSpace(in.Major)
	if in.YearOfStudy < 1 || in.YearOfStudy > MaxYearOfStudy {
		return apperror.ValidationFailed("yearOfStudy",
			fmt.Sprintf("year of study must be between 1 and %d", MaxYearOfStudy))
	}
	if in.Major == "" {
		return apperror.ValidationFailed("major", "major is required")
	}
	return nil
}

// RepresentativeInput is the self-registration form for company reps.
type RepresentativeInput struct {
	AccountInput
	CompanyName string `json:"companyName"`
	Department  string `json:"department"`
	Position    string `json:"position"`
}

func (in *RepresentativeInput) normalize() error {
	if err := in.AccountInput.normalize(); err != nil {
		return err
	}
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.Department = strings.TrimSpace(in.Department)
	in.Position = strings.TrimSpace(in.Position)
	if in.CompanyName == "" {
		return apperror.ValidationFailed("companyName", "company name is required")
	}
	return nil
}

// StaffInput enrols a career-center staff member.
type StaffInput struct {
	AccountInput
	Department string `json:"department"`
	StaffRole  string `json:"staffRole"`
}

func (in *StaffInput) normalize() error {
	if err := in.AccountInput.normalize(); err != nil {
		return err
	}
	in.Department = strings.TrimSpace(in.Department)
	in.StaffRole = strings.TrimSpace(in.StaffRole)
	return nil
}
