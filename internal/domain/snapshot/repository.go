package snapshot

import "context"

type Repository interface {
	Create(ctx context.Context, item Snapshot) error
	ListByLeague(ctx context.Context, leagueID string, limit int) ([]Snapshot, error)
	GetByID(ctx context.Context, leagueID, snapshotID string) (Snapshot, bool, error)
	Delete(ctx context.Context, leagueID, snapshotID string) (bool, error)
}
