package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPageRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /{$}", handler.IndexPage)
	mux.HandleFunc("GET /dashboard", handler.DashboardPage)
	mux.HandleFunc("POST /dashboard/upload", handler.DashboardUploadPage)
}

func registerMonthlyRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/months", handler.ListMonths)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/monthly", handler.GetMonthlyByLeague)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/exports/{kind}", handler.ExportByLeague)
}

func registerUploadRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/uploads/monthly", handler.UploadMonthly)
	mux.HandleFunc("POST /v1/uploads/exports/{kind}", handler.UploadExport)
}

func registerSnapshotRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	mux.HandleFunc("GET /v1/leagues/{leagueID}/snapshots", handler.ListSnapshots)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/snapshots/{snapshotID}", handler.GetSnapshot)
	mux.Handle("POST /v1/leagues/{leagueID}/snapshots", RequireAdminToken(adminToken, http.HandlerFunc(handler.CreateSnapshot)))
	mux.Handle("DELETE /v1/leagues/{leagueID}/snapshots/{snapshotID}", RequireAdminToken(adminToken, http.HandlerFunc(handler.DeleteSnapshot)))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	mux.Handle("DELETE /v1/leagues/{leagueID}/cache", RequireAdminToken(adminToken, http.HandlerFunc(handler.InvalidateLeagueCache)))
}
