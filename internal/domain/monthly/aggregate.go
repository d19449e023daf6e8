package monthly

import (
	"sort"

	"github.com/riskibarqy/fpl-monthly/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-monthly/internal/domain/league"
)

type sums struct {
	gross int
	cost  int
	net   int
}

// Aggregate sums gameweek records into month buckets and ranks every entry per
// month and across all months.
//
// Records whose entry is not listed in entries are ignored. Entries without
// records in a month appear with zero sums. Duplicate entry ids keep the first
// occurrence.
func Aggregate(records []gameweek.Record, entries []league.Entry, months []Definition) Result {
	roster := uniqueEntries(entries)
	if len(roster) == 0 {
		return Result{Labels: labelsOf(months), Months: emptyTables(months)}
	}

	known := make(map[int64]struct{}, len(roster))
	for _, e := range roster {
		known[e.ID] = struct{}{}
	}

	result := Result{
		Labels: labelsOf(months),
		Months: make([]Table, 0, len(months)),
	}

	netByEntry := make(map[int64][]int, len(roster))
	for _, e := range roster {
		netByEntry[e.ID] = make([]int, len(months))
	}

	for monthIdx, month := range months {
		grouped := make(map[int64]sums, len(roster))
		for _, rec := range records {
			if _, ok := known[rec.EntryID]; !ok {
				continue
			}
			if !month.Contains(rec.Gameweek) {
				continue
			}
			s := grouped[rec.EntryID]
			s.gross += rec.Points
			s.cost += rec.TransferCost
			s.net += rec.Net()
			grouped[rec.EntryID] = s
		}

		rows := make([]Row, 0, len(roster))
		for _, e := range roster {
			s := grouped[e.ID]
			rows = append(rows, Row{
				Entry:        e,
				Label:        month.Label,
				Gross:        s.gross,
				TransferCost: s.cost,
				Net:          s.net,
			})
			netByEntry[e.ID][monthIdx] = s.net
		}

		nets := make([]int, len(rows))
		for i, row := range rows {
			nets[i] = row.Net
		}
		for i, rank := range DenseRank(nets) {
			rows[i].Rank = rank
		}
		sortRows(rows)

		result.Months = append(result.Months, Table{Month: month, Rows: rows})
	}

	combined := make([]CombinedRow, 0, len(roster))
	totals := make([]int, 0, len(roster))
	for _, e := range roster {
		monthNet := netByEntry[e.ID]
		total := 0
		for _, v := range monthNet {
			total += v
		}
		combined = append(combined, CombinedRow{
			Entry:    e,
			MonthNet: monthNet,
			TotalNet: total,
		})
		totals = append(totals, total)
	}
	for i, rank := range DenseRank(totals) {
		combined[i].Rank = rank
	}
	sort.SliceStable(combined, func(i, j int) bool {
		if combined[i].Rank != combined[j].Rank {
			return combined[i].Rank < combined[j].Rank
		}
		if combined[i].TotalNet != combined[j].TotalNet {
			return combined[i].TotalNet > combined[j].TotalNet
		}
		return combined[i].Entry.ID < combined[j].Entry.ID
	})
	result.Combined = combined

	return result
}

// sortRows orders by rank, then net and gross descending. Entry id keeps the
// order deterministic for equal scores.
func sortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Rank != rows[j].Rank {
			return rows[i].Rank < rows[j].Rank
		}
		if rows[i].Net != rows[j].Net {
			return rows[i].Net > rows[j].Net
		}
		if rows[i].Gross != rows[j].Gross {
			return rows[i].Gross > rows[j].Gross
		}
		return rows[i].Entry.ID < rows[j].Entry.ID
	})
}

func uniqueEntries(entries []league.Entry) []league.Entry {
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

func labelsOf(months []Definition) []string {
	out := make([]string, 0, len(months))
	for _, m := range months {
		out = append(out, m.Label)
	}
	return out
}

func emptyTables(months []Definition) []Table {
	out := make([]Table, 0, len(months))
	for _, m := range months {
		out = append(out, Table{Month: m, Rows: []Row{}})
	}
	return out
}
