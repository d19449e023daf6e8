package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/fpl-monthly/internal/usecase"
)

var errLeagueRequired = fmt.Errorf("%w: league_id is required", usecase.ErrInvalidInput)

func (h *Handler) IndexPage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IndexPage")
	defer span.End()

	h.renderPage(ctx, w, http.StatusOK, "index.html", h.basePage("FPL monthly leaderboards"))
}

func (h *Handler) DashboardPage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DashboardPage")
	defer span.End()

	data := h.basePage("Monthly leaderboards")

	rawLeagueID := strings.TrimSpace(r.URL.Query().Get("league_id"))
	leagueID := h.cfg.DefaultLeagueID
	if rawLeagueID != "" {
		parsed, err := parseLeagueID(rawLeagueID)
		if err != nil {
			h.renderPageError(ctx, w, "index.html", data, err)
			return
		}
		leagueID = parsed
	}
	if leagueID <= 0 {
		h.renderPageError(ctx, w, "index.html", data, errLeagueRequired)
		return
	}
	data.LeagueID = leagueID

	topN, err := h.topN(ctx, r)
	if err != nil {
		h.renderPageError(ctx, w, "index.html", data, err)
		return
	}
	data.TopN = topN

	report, err := h.leaderboard.ComputeLive(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "dashboard live compute failed", "league_id", leagueID, "error", err)
		h.renderPageError(ctx, w, "index.html", data, err)
		return
	}

	h.renderDashboard(ctx, w, data, report, topN)
}

func (h *Handler) DashboardUploadPage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DashboardUploadPage")
	defer span.End()

	data := h.basePage("Monthly leaderboards (upload)")
	data.LeagueID = 0

	topN, err := h.topN(ctx, r)
	if err != nil {
		h.renderPageError(ctx, w, "index.html", data, err)
		return
	}
	data.TopN = topN

	report, err := h.computeUpload(w, r.WithContext(ctx))
	if err != nil {
		h.renderPageError(ctx, w, "index.html", data, err)
		return
	}

	h.renderDashboard(ctx, w, data, report, topN)
}

func (h *Handler) renderDashboard(ctx context.Context, w http.ResponseWriter, data pageData, report usecase.Report, topN int) {
	dashboard := usecase.BuildDashboard(report, topN)
	exports, err := exportLinks(report)
	if err != nil {
		h.logger.ErrorContext(ctx, "build export links failed", "error", err)
		h.renderPageError(ctx, w, "index.html", data, err)
		return
	}

	data.Dashboard = &dashboard
	data.Chart = buildSVGChart(dashboard.Chart)
	data.Exports = exports
	h.renderPage(ctx, w, http.StatusOK, "dashboard.html", data)
}

func (h *Handler) renderPageError(ctx context.Context, w http.ResponseWriter, page string, data pageData, err error) {
	mapped := mapError(ctx, err)
	data.Error = err.Error()
	if mapped.HTTPStatus == http.StatusInternalServerError {
		data.Error = "internal server error"
	}
	h.renderPage(ctx, w, mapped.HTTPStatus, page, data)
}
