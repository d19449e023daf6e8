package monthly

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/fpl-monthly/internal/domain/league"
)

var (
	ErrInvalidDefinition = errors.New("invalid month definition")
	ErrDuplicateLabel    = errors.New("duplicate month label")
)

// Definition maps an admin month label to gameweeks. When Gameweeks is set it
// wins over the Start/End range.
type Definition struct {
	Label     string
	Start     int
	End       int
	Gameweeks []int
}

func (d Definition) Validate() error {
	if strings.TrimSpace(d.Label) == "" {
		return fmt.Errorf("%w: label is required", ErrInvalidDefinition)
	}
	if len(d.Gameweeks) > 0 {
		for _, gw := range d.Gameweeks {
			if gw <= 0 {
				return fmt.Errorf("%w: month=%s gameweek %d must be greater than zero", ErrInvalidDefinition, d.Label, gw)
			}
		}
		return nil
	}
	if d.Start <= 0 {
		return fmt.Errorf("%w: month=%s start must be greater than zero", ErrInvalidDefinition, d.Label)
	}
	if d.End < d.Start {
		return fmt.Errorf("%w: month=%s end %d is before start %d", ErrInvalidDefinition, d.Label, d.End, d.Start)
	}

	return nil
}

// Contains reports whether gameweek gw belongs to the month.
func (d Definition) Contains(gw int) bool {
	if len(d.Gameweeks) > 0 {
		for _, candidate := range d.Gameweeks {
			if candidate == gw {
				return true
			}
		}
		return false
	}
	return gw >= d.Start && gw <= d.End
}

// Span renders the gameweek coverage, e.g. "GW 1 to 4" or "GW 1, 3, 5".
func (d Definition) Span() string {
	if len(d.Gameweeks) == 0 {
		return fmt.Sprintf("GW %d to %d", d.Start, d.End)
	}
	gws := append([]int(nil), d.Gameweeks...)
	sort.Ints(gws)
	parts := make([]string, 0, len(gws))
	for _, gw := range gws {
		parts = append(parts, fmt.Sprint(gw))
	}
	return "GW " + strings.Join(parts, ", ")
}

func ValidateDefinitions(defs []Definition) error {
	seen := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		if err := def.Validate(); err != nil {
			return err
		}
		if _, exists := seen[def.Label]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateLabel, def.Label)
		}
		seen[def.Label] = struct{}{}
	}

	return nil
}

// Row is one entry's line in a month leaderboard.
type Row struct {
	Entry        league.Entry
	Label        string
	Gross        int
	TransferCost int
	Net          int
	Rank         int
}

// Table is the ranked leaderboard of one month.
type Table struct {
	Month Definition
	Rows  []Row
}

// Winners returns every row sharing rank 1.
func (t Table) Winners() []Row {
	out := make([]Row, 0, 1)
	for _, row := range t.Rows {
		if row.Rank == 1 {
			out = append(out, row)
		}
	}
	return out
}

// CombinedRow is one entry across all months. MonthNet is aligned with
// Result.Labels.
type CombinedRow struct {
	Entry    league.Entry
	MonthNet []int
	TotalNet int
	Rank     int
}

// AverageNet is the arithmetic mean of the month net columns.
func (r CombinedRow) AverageNet() float64 {
	if len(r.MonthNet) == 0 {
		return 0
	}
	sum := 0
	for _, v := range r.MonthNet {
		sum += v
	}
	return float64(sum) / float64(len(r.MonthNet))
}

type Result struct {
	Labels   []string
	Months   []Table
	Combined []CombinedRow
}

func (r Result) IsEmpty() bool {
	return len(r.Combined) == 0
}
