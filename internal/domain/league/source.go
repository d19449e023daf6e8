package league

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/fpl-monthly/internal/domain/gameweek"
)

var (
	// ErrSourceUnavailable covers transport, HTTP status and decode failures of a source.
	ErrSourceUnavailable = errors.New("data source unavailable")
	ErrSchemaInvalid     = errors.New("tabular schema invalid")
	ErrLeagueNotFound    = errors.New("league not found")
)

// Source yields the entries of a league and the per-gameweek history of each entry.
type Source interface {
	FetchLeague(ctx context.Context, leagueID int64) ([]Entry, error)
	FetchHistory(ctx context.Context, entryID int64) ([]gameweek.Record, error)
}

// SchemaError lists the canonical fields a tabular file could not resolve.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing required columns %s", ErrSchemaInvalid, strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchemaInvalid
}

// Dataset is an in-memory Source built from an already extracted file. The
// league id passed to FetchLeague is ignored.
type Dataset struct {
	Entries []Entry
	Records []gameweek.Record
}

func (d Dataset) FetchLeague(_ context.Context, _ int64) ([]Entry, error) {
	return append([]Entry(nil), d.Entries...), nil
}

func (d Dataset) FetchHistory(_ context.Context, entryID int64) ([]gameweek.Record, error) {
	out := make([]gameweek.Record, 0, 38)
	for _, rec := range d.Records {
		if rec.EntryID == entryID {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Gameweek < out[j].Gameweek })
	return out, nil
}
