package httpapi

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fpl-monthly/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-monthly/internal/domain/league"
	"github.com/riskibarqy/fpl-monthly/internal/domain/monthly"
	"github.com/riskibarqy/fpl-monthly/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fpl-monthly/internal/infrastructure/tabular"
	"github.com/riskibarqy/fpl-monthly/internal/platform/id"
	"github.com/riskibarqy/fpl-monthly/internal/platform/logging"
	"github.com/riskibarqy/fpl-monthly/internal/usecase"
)

const (
	testAdminToken      = "let-me-in"
	missingLeagueID     = 404
	fixtureLeagueCSV    = "Entry,Manager,Team,GW,Points,Total,Hits\n1,Alice,Alpha,1,50,50,0\n1,Alice,Alpha,2,60,110,4\n1,Alice,Alpha,3,40,150,0\n1,Alice,Alpha,4,70,220,0\n2,Bob,Bravo,1,70,70,0\n2,Bob,Bravo,2,45,115,0\n2,Bob,Bravo,3,55,170,8\n2,Bob,Bravo,4,30,200,0\n"
	combinedExportHeader = "entry_id,player_name,team_name,Month 1,Month 2,total_net_across_months,overall_rank"
)

var testMonths = []monthly.Definition{
	{Label: "Month 1", Start: 1, End: 2},
	{Label: "Month 2", Start: 3, End: 4},
}

// fixtureSource serves the same two-entry league for every id except
// missingLeagueID.
type fixtureSource struct {
	league.Dataset
	invalidations atomic.Int32
}

func newFixtureSource() *fixtureSource {
	return &fixtureSource{Dataset: league.Dataset{
		Entries: []league.Entry{
			{ID: 1, PlayerName: "Alice", TeamName: "Alpha"},
			{ID: 2, PlayerName: "Bob", TeamName: "Bravo"},
		},
		Records: []gameweek.Record{
			{EntryID: 1, Gameweek: 1, Points: 50},
			{EntryID: 1, Gameweek: 2, Points: 60, TransferCost: 4},
			{EntryID: 1, Gameweek: 3, Points: 40},
			{EntryID: 1, Gameweek: 4, Points: 70},
			{EntryID: 2, Gameweek: 1, Points: 70},
			{EntryID: 2, Gameweek: 2, Points: 45},
			{EntryID: 2, Gameweek: 3, Points: 55, TransferCost: 8},
			{EntryID: 2, Gameweek: 4, Points: 30},
		},
	}}
}

func (s *fixtureSource) FetchLeague(ctx context.Context, leagueID int64) ([]league.Entry, error) {
	if leagueID == missingLeagueID {
		return nil, league.ErrLeagueNotFound
	}
	return s.Dataset.FetchLeague(ctx, leagueID)
}

func (s *fixtureSource) InvalidateLeague(_ context.Context, _ int64) int {
	s.invalidations.Add(1)
	return 3
}

type testServer struct {
	router http.Handler
	source *fixtureSource
}

func newTestServer(t *testing.T, mutate func(*HandlerConfig)) *testServer {
	t.Helper()

	logger := logging.NewNop()
	source := newFixtureSource()
	leaderboard := usecase.NewLeaderboardService(source, tabular.NewParser(logger), testMonths, 2, logger)
	snapshots := usecase.NewSnapshotService(memory.NewSnapshotRepository(), leaderboard, id.NewRandomGenerator("snp"), logger)

	cfg := HandlerConfig{DefaultTopN: 8, UploadMaxBytes: 1 << 20}
	if mutate != nil {
		mutate(&cfg)
	}

	handler := NewHandler(leaderboard, snapshots, cfg, logger)
	router := NewRouter(handler, RouterConfig{
		SwaggerEnabled:     true,
		CORSAllowedOrigins: []string{"*"},
		AdminToken:         testAdminToken,
	}, logger)

	return &testServer{router: router, source: source}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

type envelope[T any] struct {
	APIVersion string           `json:"apiVersion"`
	Data       T                `json:"data"`
	Error      *googleErrorBody `json:"error"`
}

func decodeEnvelope[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()

	var out envelope[T]
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func multipartBody(t *testing.T, field, fileName, content string) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "ignored"))
	fw, err := mw.CreateFormFile(field, fileName)
	require.NoError(t, err)
	_, err = io.WriteString(fw, content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}
