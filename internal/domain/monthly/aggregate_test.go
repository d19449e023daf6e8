package monthly

import (
	"math/rand"
	"testing"

	"github.com/riskibarqy/fpl-monthly/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-monthly/internal/domain/league"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	entryA = league.Entry{ID: 101, PlayerName: "Alice", TeamName: "A Team"}
	entryB = league.Entry{ID: 202, PlayerName: "Bob", TeamName: "B Team"}
	entryC = league.Entry{ID: 303, PlayerName: "Cara", TeamName: "C Team"}
)

func TestAggregate_TwoEntryExample(t *testing.T) {
	t.Parallel()

	records := []gameweek.Record{
		{EntryID: entryA.ID, Gameweek: 1, Points: 50},
		{EntryID: entryA.ID, Gameweek: 2, Points: 44, TransferCost: 4},
		{EntryID: entryB.ID, Gameweek: 1, Points: 50},
		{EntryID: entryB.ID, Gameweek: 2, Points: 30},
	}
	months := []Definition{{Label: "Month 1", Start: 1, End: 2}}

	got := Aggregate(records, []league.Entry{entryA, entryB}, months)

	require.Len(t, got.Months, 1)
	rows := got.Months[0].Rows
	require.Len(t, rows, 2)
	assert.Equal(t, entryA.ID, rows[0].Entry.ID)
	assert.Equal(t, 90, rows[0].Net)
	assert.Equal(t, 94, rows[0].Gross)
	assert.Equal(t, 4, rows[0].TransferCost)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, entryB.ID, rows[1].Entry.ID)
	assert.Equal(t, 80, rows[1].Net)
	assert.Equal(t, 2, rows[1].Rank)
}

func TestAggregate_MonthWithoutRecordsTiesEveryoneAtZero(t *testing.T) {
	t.Parallel()

	records := []gameweek.Record{
		{EntryID: entryA.ID, Gameweek: 1, Points: 70},
		{EntryID: entryB.ID, Gameweek: 1, Points: 40},
	}
	months := []Definition{{Label: "Later", Start: 30, End: 33}}

	got := Aggregate(records, []league.Entry{entryA, entryB, entryC}, months)

	rows := got.Months[0].Rows
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Zero(t, row.Gross)
		assert.Zero(t, row.TransferCost)
		assert.Zero(t, row.Net)
		assert.Equal(t, 1, row.Rank)
	}
	assert.Len(t, got.Months[0].Winners(), 3)
}

func TestAggregate_ZeroFillsEntryMissingFromMonth(t *testing.T) {
	t.Parallel()

	records := []gameweek.Record{
		{EntryID: entryA.ID, Gameweek: 1, Points: 60},
		{EntryID: entryB.ID, Gameweek: 1, Points: 55},
		{EntryID: entryC.ID, Gameweek: 5, Points: 80},
	}
	months := []Definition{
		{Label: "Month 1", Start: 1, End: 4},
		{Label: "Month 2", Start: 5, End: 8},
	}

	got := Aggregate(records, []league.Entry{entryA, entryB, entryC}, months)

	first := got.Months[0].Rows
	require.Len(t, first, 3)
	last := first[2]
	assert.Equal(t, entryC.ID, last.Entry.ID)
	assert.Zero(t, last.Net)
	assert.Zero(t, last.Gross)
	assert.Zero(t, last.TransferCost)
	assert.Equal(t, 3, last.Rank)

	for _, row := range got.Combined {
		require.Len(t, row.MonthNet, 2)
	}
	byID := combinedByID(got.Combined)
	assert.Equal(t, []int{0, 80}, byID[entryC.ID].MonthNet)
	assert.Equal(t, []int{60, 0}, byID[entryA.ID].MonthNet)
}

func TestAggregate_DenseRankTies(t *testing.T) {
	t.Parallel()

	d := league.Entry{ID: 404, PlayerName: "Dan"}
	records := []gameweek.Record{
		{EntryID: entryA.ID, Gameweek: 1, Points: 60},
		{EntryID: entryB.ID, Gameweek: 1, Points: 60},
		{EntryID: entryC.ID, Gameweek: 1, Points: 50},
		{EntryID: d.ID, Gameweek: 1, Points: 54, TransferCost: 4},
	}
	months := []Definition{{Label: "Month 1", Start: 1, End: 1}}

	got := Aggregate(records, []league.Entry{d, entryC, entryB, entryA}, months)

	rows := got.Months[0].Rows
	ranks := make(map[int64]int, len(rows))
	for _, row := range rows {
		ranks[row.Entry.ID] = row.Rank
	}
	assert.Equal(t, 1, ranks[entryA.ID])
	assert.Equal(t, 1, ranks[entryB.ID])
	assert.Equal(t, 2, ranks[entryC.ID])
	assert.Equal(t, 2, ranks[d.ID])

	winners := got.Months[0].Winners()
	require.Len(t, winners, 2)
	assert.Equal(t, entryA.ID, winners[0].Entry.ID)
	assert.Equal(t, entryB.ID, winners[1].Entry.ID)

	// Same net, higher gross is listed first inside the tied rank.
	assert.Equal(t, d.ID, rows[2].Entry.ID)
	assert.Equal(t, entryC.ID, rows[3].Entry.ID)
}

func TestAggregate_MonthSumsEqualCombinedTotal(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	entries := []league.Entry{entryA, entryB, entryC}
	records := make([]gameweek.Record, 0, 57)
	for _, e := range entries {
		for gw := 1; gw <= 19; gw++ {
			records = append(records, gameweek.Record{
				EntryID:      e.ID,
				Gameweek:     gw,
				Points:       rng.Intn(110),
				TransferCost: 4 * rng.Intn(3),
			})
		}
	}
	months := []Definition{
		{Label: "Month 1", Start: 1, End: 4},
		{Label: "Month 2", Start: 5, End: 8},
		{Label: "Month 3", Gameweeks: []int{9, 10, 11, 12}},
		{Label: "Month 4", Start: 13, End: 16},
		{Label: "Month 5", Start: 17, End: 19},
	}

	got := Aggregate(records, entries, months)

	require.Equal(t, []string{"Month 1", "Month 2", "Month 3", "Month 4", "Month 5"}, got.Labels)
	monthNet := make(map[int64]int, len(entries))
	for _, table := range got.Months {
		for _, row := range table.Rows {
			monthNet[row.Entry.ID] += row.Net
		}
	}
	seasonNet := make(map[int64]int, len(entries))
	for _, rec := range records {
		seasonNet[rec.EntryID] += rec.Net()
	}
	for _, row := range got.Combined {
		assert.Equal(t, monthNet[row.Entry.ID], row.TotalNet)
		assert.Equal(t, seasonNet[row.Entry.ID], row.TotalNet)
	}
	assertDenseRanks(t, got.Combined)
}

func TestAggregate_RecordOrderDoesNotMatter(t *testing.T) {
	t.Parallel()

	records := []gameweek.Record{
		{EntryID: entryA.ID, Gameweek: 1, Points: 61, TransferCost: 4},
		{EntryID: entryA.ID, Gameweek: 2, Points: 47},
		{EntryID: entryA.ID, Gameweek: 3, Points: 38, TransferCost: 8},
		{EntryID: entryB.ID, Gameweek: 1, Points: 72},
		{EntryID: entryB.ID, Gameweek: 2, Points: 29},
		{EntryID: entryB.ID, Gameweek: 3, Points: 55, TransferCost: 4},
	}
	months := []Definition{{Label: "Month 1", Start: 1, End: 3}}
	entries := []league.Entry{entryA, entryB}

	want := Aggregate(records, entries, months)

	shuffled := append([]gameweek.Record(nil), records...)
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, Aggregate(shuffled, entries, months))
	}
}

func TestAggregate_IsIdempotent(t *testing.T) {
	t.Parallel()

	records := []gameweek.Record{
		{EntryID: entryA.ID, Gameweek: 1, Points: 50},
		{EntryID: entryB.ID, Gameweek: 2, Points: 50},
	}
	months := []Definition{{Label: "M", Start: 1, End: 2}}
	entries := []league.Entry{entryA, entryB}

	first := Aggregate(records, entries, months)
	second := Aggregate(records, entries, months)
	assert.Equal(t, first, second)
}

func TestAggregate_EmptyEntries(t *testing.T) {
	t.Parallel()

	records := []gameweek.Record{{EntryID: entryA.ID, Gameweek: 1, Points: 50}}
	months := []Definition{{Label: "M", Start: 1, End: 2}}

	got := Aggregate(records, nil, months)

	assert.True(t, got.IsEmpty())
	require.Len(t, got.Months, 1)
	assert.Empty(t, got.Months[0].Rows)
	assert.Empty(t, got.Months[0].Winners())
}

func TestAggregate_IgnoresRecordsOfUnknownEntries(t *testing.T) {
	t.Parallel()

	records := []gameweek.Record{
		{EntryID: entryA.ID, Gameweek: 1, Points: 50},
		{EntryID: 999, Gameweek: 1, Points: 100},
	}
	months := []Definition{{Label: "M", Start: 1, End: 1}}

	got := Aggregate(records, []league.Entry{entryA, entryA}, months)

	require.Len(t, got.Months[0].Rows, 1)
	assert.Equal(t, entryA.ID, got.Months[0].Rows[0].Entry.ID)
	require.Len(t, got.Combined, 1)
	assert.Equal(t, 50, got.Combined[0].TotalNet)
}

func TestAggregate_NoMonths(t *testing.T) {
	t.Parallel()

	got := Aggregate([]gameweek.Record{{EntryID: entryA.ID, Gameweek: 1, Points: 9}}, []league.Entry{entryA, entryB}, nil)

	assert.Empty(t, got.Months)
	require.Len(t, got.Combined, 2)
	for _, row := range got.Combined {
		assert.Empty(t, row.MonthNet)
		assert.Zero(t, row.TotalNet)
		assert.Equal(t, 1, row.Rank)
	}
}

func TestDenseRank(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []int
		want   []int
	}{
		{name: "empty", values: nil, want: []int{}},
		{name: "distinct", values: []int{10, 30, 20}, want: []int{3, 1, 2}},
		{name: "ties do not skip", values: []int{50, 50, 40, 30, 30, 10}, want: []int{1, 1, 2, 3, 3, 4}},
		{name: "all equal", values: []int{0, 0, 0}, want: []int{1, 1, 1}},
		{name: "negative net", values: []int{-4, 0, -8}, want: []int{2, 1, 3}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DenseRank(tt.values))
		})
	}
}

func TestDefinition(t *testing.T) {
	t.Parallel()

	rangeDef := Definition{Label: "Month 1", Start: 1, End: 4}
	assert.True(t, rangeDef.Contains(1))
	assert.True(t, rangeDef.Contains(4))
	assert.False(t, rangeDef.Contains(5))
	assert.Equal(t, "GW 1 to 4", rangeDef.Span())

	listDef := Definition{Label: "Odd", Start: 1, End: 38, Gameweeks: []int{5, 1, 3}}
	assert.True(t, listDef.Contains(3))
	assert.False(t, listDef.Contains(2))
	assert.Equal(t, "GW 1, 3, 5", listDef.Span())

	assert.ErrorIs(t, Definition{Label: "x", Start: 4, End: 1}.Validate(), ErrInvalidDefinition)
	assert.ErrorIs(t, Definition{Start: 1, End: 2}.Validate(), ErrInvalidDefinition)
	assert.ErrorIs(t, Definition{Label: "x", Gameweeks: []int{0}}.Validate(), ErrInvalidDefinition)
	assert.ErrorIs(t, ValidateDefinitions([]Definition{rangeDef, rangeDef}), ErrDuplicateLabel)
	assert.NoError(t, ValidateDefinitions([]Definition{rangeDef, listDef}))
}

func combinedByID(rows []CombinedRow) map[int64]CombinedRow {
	out := make(map[int64]CombinedRow, len(rows))
	for _, row := range rows {
		out[row.Entry.ID] = row
	}
	return out
}

func assertDenseRanks(t *testing.T, rows []CombinedRow) {
	t.Helper()

	seen := make(map[int]struct{})
	rankByTotal := make(map[int]int)
	for _, row := range rows {
		if rank, ok := rankByTotal[row.TotalNet]; ok {
			assert.Equal(t, rank, row.Rank, "equal totals must share rank")
		}
		rankByTotal[row.TotalNet] = row.Rank
		seen[row.Rank] = struct{}{}
	}
	for rank := 1; rank <= len(seen); rank++ {
		_, ok := seen[rank]
		assert.True(t, ok, "rank %d missing", rank)
	}
}
