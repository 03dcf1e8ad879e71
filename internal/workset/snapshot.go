package workset

import (
	"context"
	"time"

	"github.com/nursyahid/dapur-ledger/internal/model"
	"github.com/nursyahid/dapur-ledger/internal/validate"
)

// Snapshot is a point-in-time copy of a working set, suitable for
// serialization. Restoring re-resolves against current master data, so only
// the editable fields and row references truly matter here.
type Snapshot struct {
	ID         string                  `json:"id"`
	Name       string                  `json:"name"`
	SavedAt    time.Time               `json:"saved_at"`
	Options    validate.Options        `json:"options"`
	Candidates []model.CandidateRecord `json:"candidates"`
}

// SnapshotInfo summarizes a stored snapshot for listing.
type SnapshotInfo struct {
	ID        string
	Name      string
	SavedAt   time.Time
	Rows      int
	ValidRows int
}

// SnapshotStore persists working-set snapshots. The storage mechanism is a
// collaborator so sessions can live in SQLite, memory, or anywhere else.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snap *Snapshot) error
	LoadSnapshot(ctx context.Context, name string) (*Snapshot, error)
	ListSnapshots(ctx context.Context) ([]SnapshotInfo, error)
	DeleteSnapshot(ctx context.Context, name string) error
}
