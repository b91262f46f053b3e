package audit

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/rs/xid"

	"github.com/sakif/placement-hub/internal/model"
)

func newTestTrail(capacity int) *Trail {
	return NewTrail(capacity, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRecord_StampsIDAndTime(t *testing.T) {
	tr := newTestTrail(0)

	e := tr.Record(context.Background(), Entry{
		Action:    ActionPostingApproved,
		ActorID:   "T1",
		ActorRole: model.RoleCareerStaff,
		SubjectID: "R1_1",
		From:      "PENDING",
		To:        "APPROVED",
	})

	if _, err := xid.FromString(e.ID); err != nil {
		t.Errorf("Record() id %q is not an xid: %v", e.ID, err)
	}
	if e.At.IsZero() {
		t.Error("Record() did not set At")
	}
	if tr.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tr.Len())
	}
}

func TestEntries_FilterBySubject(t *testing.T) {
	tr := newTestTrail(0)
	ctx := context.Background()

	tr.Record(ctx, Entry{Action: ActionApplied, SubjectID: "S1_R1_1"})
	tr.Record(ctx, Entry{Action: ActionApplied, SubjectID: "S2_R1_1"})
	tr.Record(ctx, Entry{Action: ActionApplicationDecided, SubjectID: "S1_R1_1"})

	got := tr.Entries("S1_R1_1")
	if len(got) != 2 {
		t.Fatalf("Entries() len = %d, want 2", len(got))
	}
	if got[0].Action != ActionApplied || got[1].Action != ActionApplicationDecided {
		t.Errorf("Entries() order = %v, %v", got[0].Action, got[1].Action)
	}
	if all := tr.Entries(""); len(all) != 3 {
		t.Errorf("Entries(\"\") len = %d, want 3", len(all))
	}
}

func TestRecord_DropsOldestPastCapacity(t *testing.T) {
	tr := newTestTrail(2)
	ctx := context.Background()

	tr.Record(ctx, Entry{SubjectID: "a"})
	tr.Record(ctx, Entry{SubjectID: "b"})
	tr.Record(ctx, Entry{SubjectID: "c"})

	got := tr.Entries("")
	if len(got) != 2 || got[0].SubjectID != "b" || got[1].SubjectID != "c" {
		t.Errorf("Entries() = %+v, want [b c]", got)
	}
}

func TestRecord_Concurrent(t *testing.T) {
	tr := newTestTrail(0)
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Record(context.Background(), Entry{Action: ActionApplied})
		}()
	}
	wg.Wait()

	if tr.Len() != 50 {
		t.Errorf("Len() = %d, want 50", tr.Len())
	}
}
