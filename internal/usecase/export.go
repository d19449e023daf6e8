package usecase

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/fpl-monthly/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-monthly/internal/domain/league"
	"github.com/riskibarqy/fpl-monthly/internal/domain/monthly"
)

const (
	ExportCombined  = "combined"
	ExportGameweeks = "gameweeks"
)

// ExportFileName is the download name of an export kind.
func ExportFileName(kind string) (string, error) {
	switch kind {
	case ExportCombined:
		return "combined_months_net.csv", nil
	case ExportGameweeks:
		return "gameweek_net_pivot.csv", nil
	default:
		return "", fmt.Errorf("%w: unknown export %q", ErrInvalidInput, kind)
	}
}

// Export renders one of the CSV exports of a report.
func Export(report Report, kind string) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	var err error
	switch kind {
	case ExportCombined:
		err = WriteCombinedCSV(buf, report.Result)
	case ExportGameweeks:
		err = WriteGameweekPivotCSV(buf, report.Entries, report.Records)
	default:
		return nil, fmt.Errorf("%w: unknown export %q", ErrInvalidInput, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("write %s export: %w", kind, err)
	}

	return append([]byte(nil), buf.B...), nil
}

// WriteCombinedCSV writes one row per entry with a net column per month.
func WriteCombinedCSV(w io.Writer, result monthly.Result) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(result.Labels)+5)
	header = append(header, "entry_id", "player_name", "team_name")
	header = append(header, result.Labels...)
	header = append(header, "total_net_across_months", "overall_rank")
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, row := range result.Combined {
		line := make([]string, 0, len(header))
		line = append(line, strconv.FormatInt(row.Entry.ID, 10), row.Entry.PlayerName, row.Entry.TeamName)
		for _, v := range row.MonthNet {
			line = append(line, strconv.Itoa(v))
		}
		line = append(line, strconv.Itoa(row.TotalNet), strconv.Itoa(row.Rank))
		if err := cw.Write(line); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteGameweekPivotCSV writes net points per entry per gameweek. Gameweeks an
// entry has no record for are written as 0.
func WriteGameweekPivotCSV(w io.Writer, entries []league.Entry, records []gameweek.Record) error {
	entries = dedupeEntries(entries)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

	known := make(map[int64]struct{}, len(entries))
	for _, e := range entries {
		known[e.ID] = struct{}{}
	}
	net := make(map[int64]map[int]int, len(entries))
	gwSet := make(map[int]struct{})
	for _, rec := range records {
		if _, ok := known[rec.EntryID]; !ok {
			continue
		}
		gwSet[rec.Gameweek] = struct{}{}
		if net[rec.EntryID] == nil {
			net[rec.EntryID] = make(map[int]int)
		}
		net[rec.EntryID][rec.Gameweek] += rec.Net()
	}
	gameweeks := sortedKeys(gwSet)

	cw := csv.NewWriter(w)
	header := make([]string, 0, len(gameweeks)+3)
	header = append(header, "entry_id", "player_name", "team_name")
	for _, gw := range gameweeks {
		header = append(header, strconv.Itoa(gw))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, e := range entries {
		line := make([]string, 0, len(header))
		line = append(line, strconv.FormatInt(e.ID, 10), e.PlayerName, e.TeamName)
		for _, gw := range gameweeks {
			line = append(line, strconv.Itoa(net[e.ID][gw]))
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
