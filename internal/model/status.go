package model

import (
	"fmt"
	"strings"
)

// Role tags which variant of Account a record is.
// The set is closed: every account is exactly one of these.
type Role string

const (
	RoleStudent     Role = "student"
	RoleCompanyRep  Role = "company_rep"
	RoleCareerStaff Role = "career_staff"
)

// ParseRole accepts the canonical names case-insensitively.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(RoleStudent):
		return RoleStudent, nil
	case string(RoleCompanyRep), "company", "representative":
		return RoleCompanyRep, nil
	case string(RoleCareerStaff), "staff":
		return RoleCareerStaff, nil
	}
	return "", fmt.Errorf("model: unknown role %q", s)
}

// Status is the approval state shared by postings, representatives and
// the two decision fields of an application.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("model: unknown status %q", s)
}

// Level is the difficulty tier of a posting.
type Level string

const (
	LevelBasic        Level = "BASIC"
	LevelIntermediate Level = "INTERMEDIATE"
	LevelAdvanced     Level = "ADVANCED"
)

func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToUpper(strings.TrimSpace(s))); l {
	case LevelBasic, LevelIntermediate, LevelAdvanced:
		return l, nil
	}
	return "", fmt.Errorf("model: unknown level %q", s)
}

// Withdrawal tracks a student's request to leave an application or placement.
//
//	NONE -> PENDING -> APPROVED (record removed)
//	                -> REJECTED (record stays active)
type Withdrawal string

const (
	WithdrawalNone     Withdrawal = "NONE"
	WithdrawalPending  Withdrawal = "PENDING"
	WithdrawalApproved Withdrawal = "APPROVED"
	WithdrawalRejected Withdrawal = "REJECTED"
)
