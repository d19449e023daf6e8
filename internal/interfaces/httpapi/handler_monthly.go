package httpapi

import (
	"net/http"

	"github.com/riskibarqy/fpl-monthly/internal/usecase"
)

func (h *Handler) ListMonths(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMonths")
	defer span.End()

	months := h.leaderboard.Months()
	items := make([]monthDefinitionDTO, 0, len(months))
	for _, m := range months {
		items = append(items, monthDefinitionToDTO(m))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMonthlyByLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMonthlyByLeague")
	defer span.End()

	leagueID, err := parseLeagueID(r.PathValue("leagueID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	topN, err := h.topN(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.leaderboard.ComputeLive(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "compute live monthly failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dashboardToDTO(usecase.BuildDashboard(report, topN)))
}

func (h *Handler) ExportByLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportByLeague")
	defer span.End()

	leagueID, err := parseLeagueID(r.PathValue("leagueID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	kind, err := h.exportKind(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.leaderboard.ComputeLive(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "compute live export failed", "league_id", leagueID, "kind", kind, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.writeExport(w, r, report, kind)
}

func (h *Handler) InvalidateLeagueCache(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.InvalidateLeagueCache")
	defer span.End()

	leagueID, err := parseLeagueID(r.PathValue("leagueID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	removed, err := h.leaderboard.InvalidateLive(ctx, leagueID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"league_id": leagueID,
		"removed":   removed,
	})
}

func (h *Handler) writeExport(w http.ResponseWriter, r *http.Request, report usecase.Report, kind string) {
	ctx := r.Context()

	fileName, err := usecase.ExportFileName(kind)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	body, err := usecase.Export(report, kind)
	if err != nil {
		h.logger.ErrorContext(ctx, "render export failed", "kind", kind, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeCSV(ctx, w, fileName, body)
}
