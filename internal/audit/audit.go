// Package audit keeps an in-memory trail of workflow transitions.
//
// Every successful state change in the engine (posting approved, offer
// accepted, withdrawal resolved, ...) is recorded here with who did it and
// what it changed. Entries are immutable once recorded.
package audit

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/placement-hub/internal/model"
)

// Action names a workflow transition.
type Action string

const (
	ActionRepRegistered      Action = "rep_registered"
	ActionRepDecided         Action = "rep_decided"
	ActionStudentEnrolled    Action = "student_enrolled"
	ActionStaffEnrolled      Action = "staff_enrolled"
	ActionPasswordChanged    Action = "password_changed"
	ActionPostingCreated     Action = "posting_created"
	ActionPostingUpdated     Action = "posting_updated"
	ActionPostingDeleted     Action = "posting_deleted"
	ActionPostingApproved    Action = "posting_approved"
	ActionPostingRejected    Action = "posting_rejected"
	ActionPostingVisibility  Action = "posting_visibility"
	ActionApplied            Action = "applied"
	ActionApplicationDecided Action = "application_decided"
	ActionOfferAccepted      Action = "offer_accepted"
	ActionWithdrawRequested  Action = "withdrawal_requested"
	ActionWithdrawResolved   Action = "withdrawal_resolved"
)

// DefaultCapacity bounds how many entries a Trail keeps.
const DefaultCapacity = 10_000

// Entry is one recorded transition.
type Entry struct {
	ID        string     `json:"id"`
	Action    Action     `json:"action"`
	ActorID   string     `json:"actorId"`
	ActorRole model.Role `json:"actorRole"`
	SubjectID string     `json:"subjectId"`
	From      string     `json:"from,omitempty"`
	To        string     `json:"to,omitempty"`
	At        time.Time  `json:"at"`
}

// Trail is safe for concurrent use.
type Trail struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
	logger   *slog.Logger
	now      func() time.Time
}

// NewTrail creates a Trail that keeps at most capacity entries, dropping the
// oldest first. A capacity <= 0 means DefaultCapacity.
func NewTrail(capacity int, logger *slog.Logger) *Trail {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Trail{
		capacity: capacity,
		logger:   logger,
		now:      time.Now,
	}
}

// Record stamps e with an id and time, stores it, and logs it.
func (t *Trail) Record(ctx context.Context, e Entry) Entry {
	e.ID = xid.New().String()
	e.At = t.now().UTC()

	t.mu.Lock()
	if len(t.entries) >= t.capacity {
		t.entries = slices.Delete(t.entries, 0, len(t.entries)-t.capacity+1)
	}
	t.entries = append(t.entries, e)
	t.mu.Unlock()

	t.logger.InfoContext(ctx, "workflow transition",
		slog.String("auditID", e.ID),
		slog.String("action", string(e.Action)),
		slog.String("actor", e.ActorID),
		slog.String("subject", e.SubjectID),
		slog.String("from", e.From),
		slog.String("to", e.To),
	)
	return e
}

// Entries returns recorded entries oldest first. If subjectID is non-empty
// only entries about that subject are returned.
func (t *Trail) Entries(subjectID string) []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		if subjectID == "" || e.SubjectID == subjectID {
			out = append(out, e)
		}
	}
	return out
}

func (t *Trail) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
