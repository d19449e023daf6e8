package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fpl-monthly/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-monthly/internal/domain/league"
	"github.com/riskibarqy/fpl-monthly/internal/domain/monthly"
)

func TestExport_Combined(t *testing.T) {
	t.Parallel()

	out, err := Export(dashboardFixture(), ExportCombined)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "entry_id,player_name,team_name,Month 1,Month 2,total_net_across_months,overall_rank", lines[0])
	assert.Equal(t, "3,Cara,Charlie,30,80,110,1", lines[1])
	assert.Equal(t, "1,Alice,Alpha,50,36,86,2", lines[2])
	assert.Equal(t, "2,Bob,Bravo,50,20,70,3", lines[3])
}

func TestExport_GameweekPivot(t *testing.T) {
	t.Parallel()

	entries := []league.Entry{
		{ID: 20, PlayerName: "Zed", TeamName: "Zulu, United"},
		{ID: 10, PlayerName: "Ann", TeamName: "Alpha"},
	}
	records := []gameweek.Record{
		{EntryID: 10, Gameweek: 2, Points: 40, TransferCost: 4},
		{EntryID: 20, Gameweek: 1, Points: 55},
		{EntryID: 10, Gameweek: 1, Points: 60},
	}

	out, err := Export(Report{Entries: entries, Records: records}, ExportGameweeks)
	require.NoError(t, err)

	assert.Equal(t,
		"entry_id,player_name,team_name,1,2\n"+
			"10,Ann,Alpha,60,36\n"+
			"20,Zed,\"Zulu, United\",55,0\n",
		string(out))
}

func TestExport_EmptyResultStillHasHeader(t *testing.T) {
	t.Parallel()

	months := []monthly.Definition{{Label: "Month 1", Start: 1, End: 4}}
	report := Report{Result: monthly.Aggregate(nil, nil, months)}

	out, err := Export(report, ExportCombined)
	require.NoError(t, err)
	assert.Equal(t, "entry_id,player_name,team_name,Month 1,total_net_across_months,overall_rank\n", string(out))
}

func TestExport_UnknownKind(t *testing.T) {
	t.Parallel()

	_, err := Export(Report{}, "xlsx")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ExportFileName("xlsx")
	assert.ErrorIs(t, err, ErrInvalidInput)

	name, err := ExportFileName(ExportGameweeks)
	require.NoError(t, err)
	assert.Equal(t, "gameweek_net_pivot.csv", name)
}
