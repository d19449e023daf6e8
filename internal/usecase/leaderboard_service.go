package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/fpl-monthly/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-monthly/internal/domain/league"
	"github.com/riskibarqy/fpl-monthly/internal/domain/monthly"
	"github.com/riskibarqy/fpl-monthly/internal/domain/snapshot"
	"github.com/riskibarqy/fpl-monthly/internal/platform/logging"
)

// DatasetParser turns an uploaded extract into an in-memory source.
type DatasetParser interface {
	Parse(ctx context.Context, r io.Reader) (league.Dataset, error)
}

// Report is one computed run: the raw inputs plus the aggregated result.
type Report struct {
	LeagueID    int64
	Source      string
	Entries     []league.Entry
	Records     []gameweek.Record
	Result      monthly.Result
	GeneratedAt time.Time
}

type LeaderboardService struct {
	live    league.Source
	parser  DatasetParser
	months  []monthly.Definition
	workers int
	logger  *logging.Logger
	now     func() time.Time
}

// NewLeaderboardService wires the month mapping to its sources. live may be nil
// when only uploads are served.
func NewLeaderboardService(
	live league.Source,
	parser DatasetParser,
	months []monthly.Definition,
	workers int,
	logger *logging.Logger,
) *LeaderboardService {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &LeaderboardService{
		live:    live,
		parser:  parser,
		months:  append([]monthly.Definition(nil), months...),
		workers: workers,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *LeaderboardService) Months() []monthly.Definition {
	return append([]monthly.Definition(nil), s.months...)
}

func (s *LeaderboardService) ComputeLive(ctx context.Context, leagueID int64) (Report, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.ComputeLive")
	defer span.End()

	if leagueID <= 0 {
		return Report{}, fmt.Errorf("%w: league id must be greater than zero", ErrInvalidInput)
	}
	if s.live == nil {
		return Report{}, fmt.Errorf("%w: live source is not configured", ErrSourceUnavailable)
	}

	return s.compute(ctx, s.live, leagueID, snapshot.SourceLive)
}

func (s *LeaderboardService) ComputeUpload(ctx context.Context, r io.Reader) (Report, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.ComputeUpload")
	defer span.End()

	if r == nil {
		return Report{}, fmt.Errorf("%w: upload body is required", ErrInvalidInput)
	}
	if s.parser == nil {
		return Report{}, fmt.Errorf("%w: upload parser is not configured", ErrSourceUnavailable)
	}

	dataset, err := s.parser.Parse(ctx, r)
	if err != nil {
		return Report{}, fmt.Errorf("parse upload: %w", err)
	}

	return s.compute(ctx, dataset, 0, snapshot.SourceUpload)
}

func (s *LeaderboardService) compute(ctx context.Context, src league.Source, leagueID int64, source string) (Report, error) {
	entries, err := src.FetchLeague(ctx, leagueID)
	if err != nil {
		if errors.Is(err, league.ErrLeagueNotFound) {
			return Report{}, fmt.Errorf("%w: league=%d", ErrNotFound, leagueID)
		}
		return Report{}, fmt.Errorf("fetch league=%d: %w", leagueID, err)
	}
	entries = dedupeEntries(entries)

	records, err := s.fetchHistories(ctx, src, entries)
	if err != nil {
		return Report{}, err
	}

	result := monthly.Aggregate(records, entries, s.months)
	s.logger.InfoContext(ctx, "monthly leaderboard computed",
		"league_id", leagueID,
		"source", source,
		"entries", len(entries),
		"records", len(records),
		"months", len(s.months),
	)

	return Report{
		LeagueID:    leagueID,
		Source:      source,
		Entries:     entries,
		Records:     records,
		Result:      result,
		GeneratedAt: s.now().UTC(),
	}, nil
}

// fetchHistories loads every entry's history on a bounded pool. The first
// failure cancels the remaining fetches and no partial records are returned.
func (s *LeaderboardService) fetchHistories(ctx context.Context, src league.Source, entries []league.Entry) ([]gameweek.Record, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool, err := ants.NewPool(min(s.workers, len(entries)))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	histories := make([][]gameweek.Record, len(entries))
	var (
		workers  sync.WaitGroup
		failOnce sync.Once
		firstErr error
	)
	fail := func(err error) {
		failOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for i, entry := range entries {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			if fetchCtx.Err() != nil {
				return
			}

			items, err := src.FetchHistory(fetchCtx, entry.ID)
			if err != nil {
				fail(fmt.Errorf("fetch history entry=%d: %w", entry.ID, err))
				return
			}
			for j := range items {
				items[j].EntryID = entry.ID
			}
			histories[i] = items
		}); err != nil {
			workers.Done()
			fail(fmt.Errorf("submit history fetch to worker pool: %w", err))
			break
		}
	}
	workers.Wait()

	if firstErr != nil {
		s.logger.WarnContext(ctx, "history fetch aborted", "entries", len(entries), "error", firstErr)
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	total := 0
	for _, items := range histories {
		total += len(items)
	}
	records := make([]gameweek.Record, 0, total)
	for _, items := range histories {
		records = append(records, items...)
	}

	return records, nil
}

func dedupeEntries(entries []league.Entry) []league.Entry {
	out := make([]league.Entry, 0, len(entries))
	seen := make(map[int64]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out
}

// CacheInvalidator is implemented by live sources that cache upstream responses.
type CacheInvalidator interface {
	InvalidateLeague(ctx context.Context, leagueID int64) int
}

// InvalidateLive drops cached upstream data for a league and reports how many
// cache entries were removed.
func (s *LeaderboardService) InvalidateLive(ctx context.Context, leagueID int64) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.InvalidateLive")
	defer span.End()

	if leagueID <= 0 {
		return 0, fmt.Errorf("%w: league id must be greater than zero", ErrInvalidInput)
	}
	invalidator, ok := s.live.(CacheInvalidator)
	if !ok {
		return 0, nil
	}

	removed := invalidator.InvalidateLeague(ctx, leagueID)
	s.logger.InfoContext(ctx, "live cache invalidated", "league_id", leagueID, "removed", removed)
	return removed, nil
}
