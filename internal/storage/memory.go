package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/nursyahid/dapur-ledger/internal/common"
	"github.com/nursyahid/dapur-ledger/internal/workset"
)

// MemoryStore is an in-memory workset.SnapshotStore, used in tests and as
// the fallback when no database path is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string]*workset.Snapshot
}

var _ workset.SnapshotStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string]*workset.Snapshot)}
}

// SaveSnapshot implements workset.SnapshotStore.
func (m *MemoryStore) SaveSnapshot(_ context.Context, snap *workset.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("snapshot cannot be nil")
	}
	if snap.Name == "" {
		return fmt.Errorf("snapshot name cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *snap
	m.snaps[snap.Name] = &cp
	return nil
}

// LoadSnapshot implements workset.SnapshotStore.
func (m *MemoryStore) LoadSnapshot(_ context.Context, name string) (*workset.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, ok := m.snaps[name]
	if !ok {
		return nil, fmt.Errorf("session %q: %w", name, common.ErrNotFound)
	}
	cp := *snap
	return &cp, nil
}

// ListSnapshots implements workset.SnapshotStore.
func (m *MemoryStore) ListSnapshots(_ context.Context) ([]workset.SnapshotInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]workset.SnapshotInfo, 0, len(m.snaps))
	for _, snap := range m.snaps {
		valid := 0
		for _, c := range snap.Candidates {
			if c.Valid {
				valid++
			}
		}
		infos = append(infos, workset.SnapshotInfo{
			ID:        snap.ID,
			Name:      snap.Name,
			SavedAt:   snap.SavedAt,
			Rows:      len(snap.Candidates),
			ValidRows: valid,
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].SavedAt.After(infos[j].SavedAt)
	})
	return infos, nil
}

// DeleteSnapshot implements workset.SnapshotStore.
func (m *MemoryStore) DeleteSnapshot(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.snaps[name]; !ok {
		return fmt.Errorf("session %q: %w", name, common.ErrNotFound)
	}
	delete(m.snaps, name)
	return nil
}
