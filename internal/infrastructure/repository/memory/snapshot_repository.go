package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/fpl-monthly/internal/domain/snapshot"
)

type SnapshotRepository struct {
	mu       sync.RWMutex
	items    map[string]snapshot.Snapshot
	byLeague map[string][]string
}

func NewSnapshotRepository(seed ...snapshot.Snapshot) *SnapshotRepository {
	r := &SnapshotRepository{
		items:    make(map[string]snapshot.Snapshot, len(seed)),
		byLeague: make(map[string][]string),
	}
	for _, item := range seed {
		_ = r.Create(context.Background(), item)
	}
	return r
}

func (r *SnapshotRepository) Create(_ context.Context, item snapshot.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return fmt.Errorf("snapshot %s already exists", item.ID)
	}
	r.items[item.ID] = item
	r.byLeague[item.LeagueID] = append(r.byLeague[item.LeagueID], item.ID)
	return nil
}

// ListByLeague returns newest first.
func (r *SnapshotRepository) ListByLeague(_ context.Context, leagueID string, limit int) ([]snapshot.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byLeague[leagueID]
	out := make([]snapshot.Snapshot, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.items[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *SnapshotRepository) GetByID(_ context.Context, leagueID, snapshotID string) (snapshot.Snapshot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[snapshotID]
	if !ok || item.LeagueID != leagueID {
		return snapshot.Snapshot{}, false, nil
	}

	return item, true, nil
}

func (r *SnapshotRepository) Delete(_ context.Context, leagueID, snapshotID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[snapshotID]
	if !ok || item.LeagueID != leagueID {
		return false, nil
	}
	delete(r.items, snapshotID)

	ids := r.byLeague[leagueID]
	for i, id := range ids {
		if id == snapshotID {
			r.byLeague[leagueID] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	return true, nil
}
