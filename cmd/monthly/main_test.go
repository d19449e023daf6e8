package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fpl-monthly/internal/config"
	"github.com/riskibarqy/fpl-monthly/internal/platform/logging"
	"github.com/riskibarqy/fpl-monthly/internal/usecase"
)

const leagueCSV = `entry_id,player_name,team_name,gameweek,event_points,total_points,event_transfers_cost
1,Alice,Alpha,1,50,50,0
1,Alice,Alpha,2,60,110,4
2,Bob,Bravo,1,70,70,0
2,Bob,Bravo,2,45,115,0
`

func testConfig() config.Config {
	return config.Config{
		Months:          config.DefaultMonths(),
		FPLBaseURL:      "http://127.0.0.1:1/api",
		FPLTimeout:      time.Second,
		FPLFetchWorkers: 1,
	}
}

func runCmd(t *testing.T, cfg config.Config, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd(cfg, logging.NewNop())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCSVCommand_WritesExportsAndWinners(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "league.csv")
	require.NoError(t, os.WriteFile(input, []byte(leagueCSV), 0o644))
	outDir := filepath.Join(dir, "out")

	out, err := runCmd(t, testConfig(), "csv", input, "--out", outDir, "--months", "Opening:1;Second:2")
	require.NoError(t, err)

	assert.Contains(t, out, "Monthly winners (2 entries):")
	assert.Contains(t, out, "Opening (GW 1 to 1): Bob — Bravo with 70")
	assert.Contains(t, out, "Second (GW 2 to 2): Alice — Alpha with 56")
	assert.Contains(t, out, "Overall leader: Bob — Bravo with 115")

	combined, err := os.ReadFile(filepath.Join(outDir, "combined_months_net.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(combined)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "entry_id,player_name,team_name,Opening,Second,total_net_across_months,overall_rank", lines[0])

	_, err = os.Stat(filepath.Join(outDir, "gameweek_net_pivot.csv"))
	assert.NoError(t, err)
}

func TestCSVCommand_MissingFile(t *testing.T) {
	_, err := runCmd(t, testConfig(), "csv", filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestCSVCommand_InvalidMonths(t *testing.T) {
	input := filepath.Join(t.TempDir(), "league.csv")
	require.NoError(t, os.WriteFile(input, []byte(leagueCSV), 0o644))

	_, err := runCmd(t, testConfig(), "csv", input, "--months", "broken")
	assert.Error(t, err)
}

func TestLiveCommand_RequiresLeague(t *testing.T) {
	_, err := runCmd(t, testConfig(), "live")
	assert.ErrorIs(t, err, usecase.ErrInvalidInput)
}

func TestPrintWinners_Empty(t *testing.T) {
	var out bytes.Buffer
	printWinners(&out, usecase.Report{})
	assert.Equal(t, "No entries found.\n", out.String())
}
