// Package repository declares the storage contracts the workflow engine
// reads from and writes to.
//
// The engine owns the locking: implementations are not required to be safe
// for concurrent use, and entities returned by Find/List are the stored
// records themselves. Mutating one mutates the store.
package repository

import (
	"github.com/sakif/placement-hub/internal/model"
)

type StudentRepository interface {
	FindStudent(id string) (*model.Student, bool)
	ListStudents() []*model.Student
	AddStudent(s *model.Student) error
	RemoveStudent(id string)
}

type RepresentativeRepository interface {
	FindCompanyRep(id string) (*model.CompanyRepresentative, bool)
	ListCompanyReps() []*model.CompanyRepresentative
	AddCompanyRep(r *model.CompanyRepresentative) error
	RemoveCompanyRep(id string)
}

type StaffRepository interface {
	FindStaff(id string) (*model.CareerStaff, bool)
	ListStaff() []*model.CareerStaff
	AddStaff(s *model.CareerStaff) error
	RemoveStaff(id string)
}

type InternshipRepository interface {
	FindInternship(id string) (*model.Internship, bool)
	ListInternships() []*model.Internship
	AddInternship(i *model.Internship) error
	RemoveInternship(id string)
}

type ApplicationRepository interface {
	FindApplication(id string) (*model.Application, bool)
	ListApplications() []*model.Application
	AddApplication(a *model.Application) error
	RemoveApplication(id string)
}

// Repository is the full substrate: every entity kind, looked up by id and
// enumerated in insertion order.
type Repository interface {
	StudentRepository
	RepresentativeRepository
	StaffRepository
	InternshipRepository
	ApplicationRepository
}
