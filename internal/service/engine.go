// Package service holds the placement workflow: posting and application
// state machines, the student eligibility filter, account operations and
// role-scoped reports.
//
// LAYERING:
//
//	handler (HTTP) → Engine (business rules) → repository.Repository (state)
//	                        ↘ audit.Trail, Persister
//
// CONCURRENCY:
// Every exported Engine method runs under one RWMutex. Writers are exclusive,
// so a transition that touches a student, a posting and the application
// store is observed by other callers either entirely or not at all. Entities
// handed back to callers are clones.
package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sakif/placement-hub/internal/apperror"
	"github.com/sakif/placement-hub/internal/audit"
	"github.com/sakif/placement-hub/internal/model"
	"github.com/sakif/placement-hub/internal/repository"
)

// CredentialChecker hashes and verifies password tokens.
// auth.PasswordService satisfies it.
type CredentialChecker interface {
	Hash(plaintext string) (string, error)
	Verify(hash, plaintext string) error
}

// Persister saves a snapshot of the repository after each successful
// mutation. sqlite.DB satisfies it.
type Persister interface {
	Save(ctx context.Context, repo repository.Repository) error
}

// Engine is the eligibility & workflow engine.
type Engine struct {
	mu        sync.RWMutex
	repo      repository.Repository
	passwords CredentialChecker
	trail     *audit.Trail
	persister Persister
	logger    *slog.Logger
}

// Option customises an Engine at construction.
type Option func(*Engine)

// WithPersister makes the engine save a snapshot after every mutation.
func WithPersister(p Persister) Option {
	return func(e *Engine) { e.persister = p }
}

// WithAuditTrail records transitions into t instead of a private trail.
func WithAuditTrail(t *audit.Trail) Option {
	return func(e *Engine) { e.trail = t }
}

// NewEngine wires an Engine around repo. repo and passwords are required;
// passing nil for either is a programming error and panics.
func NewEngine(repo repository.Repository, passwords CredentialChecker, logger *slog.Logger, opts ...Option) *Engine {
	if repo == nil {
		panic("service: NewEngine called with nil repository")
	}
	if passwords == nil {
		panic("service: NewEngine called with nil credential checker")
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		repo:      repo,
		passwords: passwords,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.trail == nil {
		e.trail = audit.NewTrail(audit.DefaultCapacity, logger)
	}
	return e
}

// AuditTrail returns recorded transitions, optionally only those about subjectID.
func (e *Engine) AuditTrail(subjectID string) []audit.Entry {
	return e.trail.Entries(subjectID)
}

// commit records the transition and persists a snapshot.
// Callers hold the write lock. A failed save is logged, not returned: the
// in-memory transition already happened and is the source of truth.
func (e *Engine) commit(ctx context.Context, entries ...audit.Entry) {
	for _, entry := range entries {
		e.trail.Record(ctx, entry)
	}
	if e.persister == nil {
		return
	}
	if err := e.persister.Save(ctx, e.repo); err != nil {
		e.logger.ErrorContext(ctx, "failed to persist snapshot",
			slog.String("error", err.Error()),
		)
	}
}

// === Lookups (caller holds the lock) ===

func (e *Engine) student(id string) (*model.Student, error) {
	s, ok := e.repo.FindStudent(id)
	if !ok {
		return nil, apperror.NotFound("student", id)
	}
	return s, nil
}

func (e *Engine) rep(id string) (*model.CompanyRepresentative, error) {
	r, ok := e.repo.FindCompanyRep(id)
	if !ok {
		return nil, apperror.NotFound("company representative", id)
	}
	return r, nil
}

func (e *Engine) staff(id string) (*model.CareerStaff, error) {
	s, ok := e.repo.FindStaff(id)
	if !ok {
		return nil, apperror.NotFound("career staff", id)
	}
	return s, nil
}

func (e *Engine) internship(id string) (*model.Internship, error) {
	i, ok := e.repo.FindInternship(id)
	if !ok {
		return nil, apperror.NotFound("internship", id)
	}
	return i, nil
}

func (e *Engine) application(id string) (*model.Application, error) {
	a, ok := e.repo.FindApplication(id)
	if !ok {
		return nil, apperror.NotFound("application", id)
	}
	return a, nil
}

// idTaken reports whether any account kind already uses id.
func (e *Engine) idTaken(id string) bool {
	if _, ok := e.repo.FindStudent(id); ok {
		return true
	}
	if _, ok := e.repo.FindCompanyRep(id); ok {
		return true
	}
	_, ok := e.repo.FindStaff(id)
	return ok
}

// cloner is any entity with a deep-copy method.
type cloner[T any] interface {
	Clone() T
}

func cloneAll[T cloner[T]](in []T) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = v.Clone()
	}
	return out
}
