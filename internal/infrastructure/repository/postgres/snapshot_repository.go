package postgres

import (
	"context"
	"fmt"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fpl-monthly/internal/domain/snapshot"
	qb "github.com/riskibarqy/fpl-monthly/internal/platform/querybuilder"
)

type SnapshotRepository struct {
	db *sqlx.DB
}

func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) Create(ctx context.Context, item snapshot.Snapshot) error {
	payload, err := encodeResult(item.Result)
	if err != nil {
		return crerr.Wrapf(err, "encode snapshot payload id=%s", item.ID)
	}

	insertModel := snapshotInsertModel{
		PublicID:  item.ID,
		LeagueID:  item.LeagueID,
		Source:    item.Source,
		Note:      item.Note,
		Payload:   string(payload),
		CreatedAt: item.CreatedAt,
	}
	query, args, err := qb.InsertModel(snapshotTable, insertModel, "")
	if err != nil {
		return fmt.Errorf("build create snapshot query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "create snapshot id=%s", item.ID)
	}

	return nil
}

func (r *SnapshotRepository) ListByLeague(ctx context.Context, leagueID string, limit int) ([]snapshot.Snapshot, error) {
	builder := qb.Select(qb.Columns(snapshotTableModel{})...).From(snapshotTable).
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("created_at DESC", "id DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list snapshots query: %w", err)
	}

	var rows []snapshotTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrapf(err, "list snapshots league=%s", leagueID)
	}

	out := make([]snapshot.Snapshot, 0, len(rows))
	for _, row := range rows {
		item, err := snapshotFromModel(row)
		if err != nil {
			return nil, crerr.Wrapf(err, "decode snapshot id=%s", row.PublicID)
		}
		out = append(out, item)
	}

	return out, nil
}

func (r *SnapshotRepository) GetByID(ctx context.Context, leagueID, snapshotID string) (snapshot.Snapshot, bool, error) {
	query, args, err := qb.Select(qb.Columns(snapshotTableModel{})...).From(snapshotTable).
		Where(
			qb.Eq("public_id", snapshotID),
			qb.Eq("league_id", leagueID),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return snapshot.Snapshot{}, false, fmt.Errorf("build get snapshot query: %w", err)
	}

	var row snapshotTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return snapshot.Snapshot{}, false, nil
		}
		return snapshot.Snapshot{}, false, crerr.Wrapf(err, "get snapshot id=%s", snapshotID)
	}

	item, err := snapshotFromModel(row)
	if err != nil {
		return snapshot.Snapshot{}, false, crerr.Wrapf(err, "decode snapshot id=%s", snapshotID)
	}
	return item, true, nil
}

func (r *SnapshotRepository) Delete(ctx context.Context, leagueID, snapshotID string) (bool, error) {
	query, args, err := qb.DeleteFrom(snapshotTable).
		Where(
			qb.Eq("public_id", snapshotID),
			qb.Eq("league_id", leagueID),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete snapshot query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, crerr.Wrapf(err, "delete snapshot id=%s", snapshotID)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected delete snapshot: %w", err)
	}

	return affected > 0, nil
}
