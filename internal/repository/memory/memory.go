// Package memory is the in-process implementation of repository.Repository.
//
// Every collection is a map for O(1) lookup plus a slice that remembers
// insertion order, so List* is deterministic. The store does no locking of
// its own; service.Engine serialises access.
package memory

import (
	"slices"

	"github.com/sakif/placement-hub/internal/apperror"
	"github.com/sakif/placement-hub/internal/model"
	"github.com/sakif/placement-hub/internal/repository"
)

// compile-time check that *Store implements repository.Repository
var _ repository.Repository = (*Store)(nil)

// collection is an insertion-ordered map keyed by entity id.
type collection[T any] struct {
	resource string
	byID     map[string]*T
	order    []string
}

func newCollection[T any](resource string) *collection[T] {
	return &collection[T]{resource: resource, byID: make(map[string]*T)}
}

func (c *collection[T]) find(id string) (*T, bool) {
	v, ok := c.byID[id]
	return v, ok
}

func (c *collection[T]) list() []*T {
	out := make([]*T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

func (c *collection[T]) add(id string, v *T) error {
	if id == "" {
		return apperror.ValidationFailed("id", c.resource+" id is required")
	}
	if _, exists := c.byID[id]; exists {
		return apperror.Conflict(c.resource, id)
	}
	c.byID[id] = v
	c.order = append(c.order, id)
	return nil
}

func (c *collection[T]) remove(id string) {
	if _, ok := c.byID[id]; !ok {
		return
	}
	delete(c.byID, id)
	c.order = slices.DeleteFunc(c.order, func(x string) bool { return x == id })
}

func (c *collection[T]) len() int { return len(c.order) }

// Store holds every entity of the placement system in memory.
type Store struct {
	students     *collection[model.Student]
	reps         *collection[model.CompanyRepresentative]
	staff        *collection[model.CareerStaff]
	internships  *collection[model.Internship]
	applications *collection[model.Application]
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		students:     newCollection[model.Student]("student"),
		reps:         newCollection[model.CompanyRepresentative]("company representative"),
		staff:        newCollection[model.CareerStaff]("career staff"),
		internships:  newCollection[model.Internship]("internship"),
		applications: newCollection[model.Application]("application"),
	}
}

// Counts reports how many records of each kind the store holds.
func (s *Store) Counts() map[string]int {
	return map[string]int{
		"students":     s.students.len(),
		"reps":         s.reps.len(),
		"staff":        s.staff.len(),
		"internships":  s.internships.len(),
		"applications": s.applications.len(),
	}
}

// === Students ===

func (s *Store) FindStudent(id string) (*model.Student, bool) {
	return s.students.find(id)
}

func (s *Store) ListStudents() []*model.Student {
	return s.students.list()
}

func (s *Store) AddStudent(st *model.Student) error {
	return s.students.add(st.ID, st)
}

func (s *Store) RemoveStudent(id string) {
	s.students.remove(id)
}

// === Company representatives ===

func (s *Store) FindCompanyRep(id string) (*model.CompanyRepresentative, bool) {
	return s.reps.find(id)
}

func (s *Store) ListCompanyReps() []*model.CompanyRepresentative {
	return s.reps.list()
}

func (s *Store) AddCompanyRep(r *model.CompanyRepresentative) error {
	return s.reps.add(r.ID, r)
}

func (s *Store) RemoveCompanyRep(id string) {
	s.reps.remove(id)
}

// === Career staff ===

func (s *Store) FindStaff(id string) (*model.CareerStaff, bool) {
	return s.staff.find(id)
}

func (s *Store) ListStaff() []*model.CareerStaff {
	return s.staff.list()
}

func (s *Store) AddStaff(c *model.CareerStaff) error {
	return s.staff.add(c.ID, c)
}

func (s *Store) RemoveStaff(id string) {
	s.staff.remove(id)
}

// === Internships ===

func (s *Store) FindInternship(id string) (*model.Internship, bool) {
	return s.internships.find(id)
}

func (s *Store) ListInternships() []*model.Internship {
	return s.internships.list()
}

func (s *Store) AddInternship(i *model.Internship) error {
	return s.internships.add(i.ID, i)
}

func (s *Store) RemoveInternship(id string) {
	s.internships.remove(id)
}

// === Applications ===

func (s *Store) FindApplication(id string) (*model.Application, bool) {
	return s.applications.find(id)
}

func (s *Store) ListApplications() []*model.Application {
	return s.applications.list()
}

func (s *Store) AddApplication(a *model.Application) error {
	return s.applications.add(a.ID, a)
}

func (s *Store) RemoveApplication(id string) {
	s.applications.remove(id)
}
