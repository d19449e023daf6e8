package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/fpl-monthly/internal/domain/snapshot"
	"github.com/riskibarqy/fpl-monthly/internal/platform/id"
	"github.com/riskibarqy/fpl-monthly/internal/platform/logging"
)

const (
	defaultSnapshotListLimit = 20
	maxSnapshotListLimit     = 100
	maxSnapshotNoteLength    = 280
)

type liveReportComputer interface {
	ComputeLive(ctx context.Context, leagueID int64) (Report, error)
}

// SnapshotService archives computed live results so admins can publish a
// month's winners once and read them back after the source data moves on.
type SnapshotService struct {
	repo     snapshot.Repository
	computer liveReportComputer
	ids      id.Generator
	logger   *logging.Logger
	now      func() time.Time
}

func NewSnapshotService(repo snapshot.Repository, computer liveReportComputer, ids id.Generator, logger *logging.Logger) *SnapshotService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SnapshotService{
		repo:     repo,
		computer: computer,
		ids:      ids,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *SnapshotService) Create(ctx context.Context, leagueID int64, note string) (snapshot.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SnapshotService.Create")
	defer span.End()

	note = strings.TrimSpace(note)
	if len(note) > maxSnapshotNoteLength {
		return snapshot.Snapshot{}, fmt.Errorf("%w: note must be at most %d characters", ErrInvalidInput, maxSnapshotNoteLength)
	}

	report, err := s.computer.ComputeLive(ctx, leagueID)
	if err != nil {
		return snapshot.Snapshot{}, err
	}

	snapshotID, err := s.ids.NewID()
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("generate snapshot id: %w", err)
	}

	item := snapshot.Snapshot{
		ID:        snapshotID,
		LeagueID:  strconv.FormatInt(leagueID, 10),
		Source:    report.Source,
		Note:      note,
		Result:    report.Result,
		CreatedAt: s.now().UTC(),
	}
	if err := item.Validate(); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("create snapshot: %w", err)
	}

	s.logger.InfoContext(ctx, "monthly snapshot created", "league_id", leagueID, "snapshot_id", item.ID)
	return item, nil
}

func (s *SnapshotService) List(ctx context.Context, leagueID int64, limit int) ([]snapshot.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SnapshotService.List")
	defer span.End()

	if leagueID <= 0 {
		return nil, fmt.Errorf("%w: league id must be greater than zero", ErrInvalidInput)
	}
	switch {
	case limit <= 0:
		limit = defaultSnapshotListLimit
	case limit > maxSnapshotListLimit:
		limit = maxSnapshotListLimit
	}

	items, err := s.repo.ListByLeague(ctx, strconv.FormatInt(leagueID, 10), limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return items, nil
}

func (s *SnapshotService) Get(ctx context.Context, leagueID int64, snapshotID string) (snapshot.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SnapshotService.Get")
	defer span.End()

	snapshotID = strings.TrimSpace(snapshotID)
	if leagueID <= 0 || snapshotID == "" {
		return snapshot.Snapshot{}, fmt.Errorf("%w: league id and snapshot id are required", ErrInvalidInput)
	}

	item, exists, err := s.repo.GetByID(ctx, strconv.FormatInt(leagueID, 10), snapshotID)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("get snapshot: %w", err)
	}
	if !exists {
		return snapshot.Snapshot{}, fmt.Errorf("%w: snapshot=%s", ErrNotFound, snapshotID)
	}
	return item, nil
}

func (s *SnapshotService) Delete(ctx context.Context, leagueID int64, snapshotID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SnapshotService.Delete")
	defer span.End()

	snapshotID = strings.TrimSpace(snapshotID)
	if leagueID <= 0 || snapshotID == "" {
		return fmt.Errorf("%w: league id and snapshot id are required", ErrInvalidInput)
	}

	removed, err := s.repo.Delete(ctx, strconv.FormatInt(leagueID, 10), snapshotID)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if !removed {
		return fmt.Errorf("%w: snapshot=%s", ErrNotFound, snapshotID)
	}

	s.logger.InfoContext(ctx, "monthly snapshot deleted", "league_id", leagueID, "snapshot_id", snapshotID)
	return nil
}
