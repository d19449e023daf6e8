package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_Healthz(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope[map[string]string](t, rec)
	assert.Equal(t, "ok", body.Data["status"])
}

func TestRouter_OpenAPI(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/v1/leagues/{leagueID}/monthly")
}

func TestRouter_ListMonths(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(httptest.NewRequest(http.MethodGet, "/v1/months", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope[[]monthDefinitionDTO](t, rec)
	require.Len(t, body.Data, 2)
	assert.Equal(t, "Month 1", body.Data[0].Label)
	assert.Equal(t, 1, body.Data[0].Start)
	assert.Equal(t, 2, body.Data[0].End)
	assert.Equal(t, "Month 2", body.Data[1].Label)
}

func TestRouter_GetMonthlyByLeague(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(httptest.NewRequest(http.MethodGet, "/v1/leagues/314/monthly?top_n=1", nil))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeEnvelope[dashboardDTO](t, rec)
	data := body.Data

	assert.Equal(t, int64(314), data.LeagueID)
	assert.Equal(t, "live", data.Source)
	assert.Equal(t, 1, data.TopN)
	assert.Equal(t, []string{"Month 1", "Month 2"}, data.Labels)

	require.Len(t, data.Months, 2)
	require.Len(t, data.Months[0].Winners, 1)
	assert.Equal(t, "Bob", data.Months[0].Winners[0].PlayerName)
	assert.Equal(t, 115, data.Months[0].Winners[0].Net)
	require.Len(t, data.Months[1].Winners, 1)
	assert.Equal(t, "Alice", data.Months[1].Winners[0].PlayerName)
	assert.Equal(t, 110, data.Months[1].Winners[0].Net)

	require.Len(t, data.Combined, 2)
	assert.Equal(t, "Alice", data.Combined[0].PlayerName)
	assert.Equal(t, 216, data.Combined[0].TotalNet)
	assert.Equal(t, 1, data.Combined[0].Rank)
	assert.Equal(t, 192, data.Combined[1].TotalNet)

	require.Len(t, data.Chart.Series, 1)
	assert.Equal(t, []int{1, 2, 3, 4}, data.Chart.Gameweeks)
	assert.Equal(t, []int{50, 106, 146, 216}, data.Chart.Series[0].Cumulative)
}

func TestRouter_GetMonthlyByLeague_Errors(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name       string
		target     string
		wantStatus int
	}{
		{name: "non numeric league", target: "/v1/leagues/abc/monthly", wantStatus: http.StatusBadRequest},
		{name: "zero league", target: "/v1/leagues/0/monthly", wantStatus: http.StatusBadRequest},
		{name: "top n too small", target: "/v1/leagues/314/monthly?top_n=0", wantStatus: http.StatusBadRequest},
		{name: "top n not a number", target: "/v1/leagues/314/monthly?top_n=x", wantStatus: http.StatusBadRequest},
		{name: "unknown league", target: "/v1/leagues/404/monthly", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			body := decodeEnvelope[any](t, rec)
			assert.NotNil(t, body.Error)
		})
	}
}

func TestRouter_ExportByLeague(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(httptest.NewRequest(http.MethodGet, "/v1/leagues/314/exports/combined", nil))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=combined_months_net.csv", rec.Header().Get("Content-Disposition"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, combinedExportHeader, lines[0])
	assert.Equal(t, "1,Alice,Alpha,106,110,216,1", lines[1])
	assert.Equal(t, "2,Bob,Bravo,115,77,192,2", lines[2])
}

func TestRouter_ExportByLeague_UnknownKind(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(httptest.NewRequest(http.MethodGet, "/v1/leagues/314/exports/everything", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_UploadMonthly_RawBody(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/uploads/monthly", strings.NewReader(fixtureLeagueCSV))
	req.Header.Set("Content-Type", "text/csv")
	rec := srv.do(req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeEnvelope[dashboardDTO](t, rec)
	assert.Equal(t, "upload", body.Data.Source)
	assert.Zero(t, body.Data.LeagueID)
	require.Len(t, body.Data.Combined, 2)
	assert.Equal(t, "Alice", body.Data.Combined[0].PlayerName)
	assert.Equal(t, 216, body.Data.Combined[0].TotalNet)
}

func TestRouter_UploadMonthly_Multipart(t *testing.T) {
	srv := newTestServer(t, nil)

	payload, contentType := multipartBody(t, uploadFormField, "league.csv", fixtureLeagueCSV)
	req := httptest.NewRequest(http.MethodPost, "/v1/uploads/monthly?top_n=2", payload)
	req.Header.Set("Content-Type", contentType)
	rec := srv.do(req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeEnvelope[dashboardDTO](t, rec)
	require.Len(t, body.Data.Chart.Series, 2)
	require.Len(t, body.Data.Months, 2)
	assert.Equal(t, "Bob", body.Data.Months[0].Winners[0].PlayerName)
}

func TestRouter_UploadMonthly_MissingFileField(t *testing.T) {
	srv := newTestServer(t, nil)

	payload, contentType := multipartBody(t, "attachment", "league.csv", fixtureLeagueCSV)
	req := httptest.NewRequest(http.MethodPost, "/v1/uploads/monthly", payload)
	req.Header.Set("Content-Type", contentType)
	rec := srv.do(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_UploadMonthly_MissingColumns(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/uploads/monthly", strings.NewReader("Entry,Manager,Team,Points\n1,Alice,Alpha,50\n"))
	req.Header.Set("Content-Type", "text/csv")
	rec := srv.do(req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	body := decodeEnvelope[any](t, rec)
	require.NotNil(t, body.Error)

	locations := make([]string, 0, len(body.Error.Errors))
	for _, item := range body.Error.Errors {
		locations = append(locations, item.Location)
	}
	assert.Equal(t, []string{"gameweek", "total_points", "transfer_cost"}, locations)
}

func TestRouter_UploadMonthly_EmptyBody(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(httptest.NewRequest(http.MethodPost, "/v1/uploads/monthly", strings.NewReader("")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_UploadMonthly_TooLarge(t *testing.T) {
	srv := newTestServer(t, func(cfg *HandlerConfig) {
		cfg.UploadMaxBytes = 64
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/uploads/monthly", strings.NewReader(fixtureLeagueCSV))
	req.Header.Set("Content-Type", "text/csv")
	rec := srv.do(req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, rec.Body.String())
}

func TestRouter_UploadExport_Gameweeks(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/uploads/exports/gameweeks", strings.NewReader(fixtureLeagueCSV))
	req.Header.Set("Content-Type", "text/csv")
	rec := srv.do(req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "attachment; filename=gameweek_net_pivot.csv", rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "entry_id,player_name,team_name"))
}

func TestRouter_InvalidateLeagueCache(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(httptest.NewRequest(http.MethodDelete, "/v1/leagues/314/cache", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, srv.source.invalidations.Load())

	req := httptest.NewRequest(http.MethodDelete, "/v1/leagues/314/cache", nil)
	req.Header.Set(adminTokenHeader, testAdminToken)
	rec = srv.do(req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeEnvelope[map[string]int64](t, rec)
	assert.Equal(t, int64(314), body.Data["league_id"])
	assert.Equal(t, int64(3), body.Data["removed"])
	assert.Equal(t, int32(1), srv.source.invalidations.Load())
}

func TestRouter_SnapshotLifecycle(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(httptest.NewRequest(http.MethodPost, "/v1/leagues/314/snapshots", strings.NewReader(`{"note":"gw4"}`)))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/v1/leagues/314/snapshots", strings.NewReader(`{"note":" after gw4 "}`))
	req.Header.Set("Authorization", "Bearer "+testAdminToken)
	rec = srv.do(req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decodeEnvelope[snapshotDTO](t, rec).Data
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "314", created.LeagueID)
	assert.Equal(t, "live", created.Source)
	assert.Equal(t, "after gw4", created.Note)
	assert.Equal(t, 2, created.Entries)
	require.NotNil(t, created.Result)
	require.Len(t, created.Result.Combined, 2)
	assert.Equal(t, 216, created.Result.Combined[0].TotalNet)

	rec = srv.do(httptest.NewRequest(http.MethodGet, "/v1/leagues/314/snapshots", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decodeEnvelope[[]snapshotDTO](t, rec).Data
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
	assert.Nil(t, listed[0].Result)

	rec = srv.do(httptest.NewRequest(http.MethodGet, "/v1/leagues/314/snapshots/"+created.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	fetched := decodeEnvelope[snapshotDTO](t, rec).Data
	require.NotNil(t, fetched.Result)
	assert.Equal(t, []string{"Month 1", "Month 2"}, fetched.Result.Labels)

	rec = srv.do(httptest.NewRequest(http.MethodGet, "/v1/leagues/999/snapshots/"+created.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/v1/leagues/314/snapshots/"+created.ID, nil)
	req.Header.Set(adminTokenHeader, testAdminToken)
	rec = srv.do(req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(httptest.NewRequest(http.MethodGet, "/v1/leagues/314/snapshots/"+created.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_CreateSnapshot_Validation(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "empty body", body: "", wantStatus: http.StatusCreated},
		{name: "unknown field", body: `{"title":"x"}`, wantStatus: http.StatusBadRequest},
		{name: "malformed json", body: `{"note":`, wantStatus: http.StatusBadRequest},
		{name: "note too long", body: `{"note":"` + strings.Repeat("n", 281) + `"}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/leagues/314/snapshots", strings.NewReader(tt.body))
			req.Header.Set(adminTokenHeader, testAdminToken)
			rec := srv.do(req)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_ListSnapshots_InvalidLimit(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(httptest.NewRequest(http.MethodGet, "/v1/leagues/314/snapshots?limit=500", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_IndexPage(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Upload CSV")
	assert.Contains(t, rec.Body.String(), `action="/dashboard"`)
}

func TestRouter_DashboardPage(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(httptest.NewRequest(http.MethodGet, "/dashboard?league_id=314&top_n=2", nil))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	html := rec.Body.String()
	assert.Contains(t, html, "League 314")
	assert.Contains(t, html, "<polyline")
	assert.Contains(t, html, "Bob (Bravo)")
	assert.Contains(t, html, "data:text/csv;charset=utf-8;base64,")
}

func TestRouter_DashboardPage_Errors(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "league_id is required")

	rec = srv.do(httptest.NewRequest(http.MethodGet, "/dashboard?league_id=404", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Upload CSV")
}

func TestRouter_DashboardPage_DefaultLeague(t *testing.T) {
	srv := newTestServer(t, func(cfg *HandlerConfig) {
		cfg.DefaultLeagueID = 271
	})

	rec := srv.do(httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "League 271")
}

func TestRouter_DashboardUploadPage(t *testing.T) {
	srv := newTestServer(t, nil)

	payload, contentType := multipartBody(t, uploadFormField, "league.csv", fixtureLeagueCSV)
	req := httptest.NewRequest(http.MethodPost, "/dashboard/upload", payload)
	req.Header.Set("Content-Type", contentType)
	rec := srv.do(req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Uploaded file")
	assert.Contains(t, rec.Body.String(), "Alice (Alpha)")
}

func TestRouter_SwaggerUI(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(httptest.NewRequest(http.MethodGet, "/docs", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>FPL monthly API docs</title>")
	assert.Contains(t, rec.Body.String(), "/openapi.yaml")
}
