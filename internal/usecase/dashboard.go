package usecase

import (
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/fpl-monthly/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-monthly/internal/domain/league"
	"github.com/riskibarqy/fpl-monthly/internal/domain/monthly"
)

const (
	TopAverageCount = 5
	MinChartTopN    = 1
	MaxChartTopN    = 200
)

type MonthView struct {
	Label   string
	Span    string
	Rows    []monthly.Row
	Winners []monthly.Row
}

type AverageRow struct {
	Entry      league.Entry
	AverageNet float64
	TotalNet   int
}

// ChartSeries holds one entry's cumulative net, aligned with Chart.Gameweeks.
type ChartSeries struct {
	Entry      league.Entry
	Label      string
	Cumulative []int
}

type Chart struct {
	Gameweeks []int
	Series    []ChartSeries
}

func (c Chart) IsEmpty() bool {
	return len(c.Gameweeks) == 0 || len(c.Series) == 0
}

type Dashboard struct {
	LeagueID    int64
	Source      string
	GeneratedAt time.Time
	Labels      []string
	Months      []MonthView
	Combined    []monthly.CombinedRow
	TopAverages []AverageRow
	Chart       Chart
	TopN        int
	Empty       bool
}

func ValidateTopN(topN int) error {
	if topN < MinChartTopN || topN > MaxChartTopN {
		return fmt.Errorf("%w: top_n must be between %d and %d", ErrInvalidInput, MinChartTopN, MaxChartTopN)
	}
	return nil
}

// BuildDashboard derives every view model of the dashboard from one report.
func BuildDashboard(report Report, topN int) Dashboard {
	months := make([]MonthView, 0, len(report.Result.Months))
	for _, table := range report.Result.Months {
		months = append(months, MonthView{
			Label:   table.Month.Label,
			Span:    table.Month.Span(),
			Rows:    table.Rows,
			Winners: table.Winners(),
		})
	}

	return Dashboard{
		LeagueID:    report.LeagueID,
		Source:      report.Source,
		GeneratedAt: report.GeneratedAt,
		Labels:      report.Result.Labels,
		Months:      months,
		Combined:    report.Result.Combined,
		TopAverages: TopAverages(report.Result.Combined, TopAverageCount),
		Chart:       CumulativeChart(report.Entries, report.Records, topN),
		TopN:        topN,
		Empty:       report.Result.IsEmpty(),
	}
}

// TopAverages ranks by mean net per month. Ties keep the lower entry id first.
func TopAverages(rows []monthly.CombinedRow, n int) []AverageRow {
	out := make([]AverageRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, AverageRow{
			Entry:      row.Entry,
			AverageNet: row.AverageNet(),
			TotalNet:   row.TotalNet,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AverageNet != out[j].AverageNet {
			return out[i].AverageNet > out[j].AverageNet
		}
		return out[i].Entry.ID < out[j].Entry.ID
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// CumulativeChart accumulates net points over every gameweek present in the
// records and keeps the topN entries by final cumulative total.
func CumulativeChart(entries []league.Entry, records []gameweek.Record, topN int) Chart {
	entries = dedupeEntries(entries)
	known := make(map[int64]struct{}, len(entries))
	for _, e := range entries {
		known[e.ID] = struct{}{}
	}

	netByEntry := make(map[int64]map[int]int, len(entries))
	gwSet := make(map[int]struct{})
	for _, rec := range records {
		if _, ok := known[rec.EntryID]; !ok {
			continue
		}
		gwSet[rec.Gameweek] = struct{}{}
		byGW := netByEntry[rec.EntryID]
		if byGW == nil {
			byGW = make(map[int]int)
			netByEntry[rec.EntryID] = byGW
		}
		byGW[rec.Gameweek] += rec.Net()
	}
	if len(gwSet) == 0 || topN <= 0 {
		return Chart{}
	}

	gameweeks := sortedKeys(gwSet)
	series := make([]ChartSeries, 0, len(entries))
	for _, e := range entries {
		cumulative := make([]int, len(gameweeks))
		running := 0
		for i, gw := range gameweeks {
			running += netByEntry[e.ID][gw]
			cumulative[i] = running
		}
		series = append(series, ChartSeries{Entry: e, Label: e.Label(), Cumulative: cumulative})
	}

	last := len(gameweeks) - 1
	sort.SliceStable(series, func(i, j int) bool {
		if series[i].Cumulative[last] != series[j].Cumulative[last] {
			return series[i].Cumulative[last] > series[j].Cumulative[last]
		}
		return series[i].Entry.ID < series[j].Entry.ID
	})
	if len(series) > topN {
		series = series[:topN]
	}

	return Chart{Gameweeks: gameweeks, Series: series}
}

func sortedKeys(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
