package httpapi

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/fpl-monthly/internal/usecase"
)

// The body only carries an optional note.
const maxSnapshotBodyBytes = 64 << 10

func (h *Handler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateSnapshot")
	defer span.End()

	leagueID, err := parseLeagueID(r.PathValue("leagueID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxSnapshotBodyBytes))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: read body: %v", usecase.ErrInvalidInput, err))
		return
	}
	var req createSnapshotRequest
	if len(bytes.TrimSpace(raw)) > 0 {
		decoder := sonic.ConfigDefault.NewDecoder(bytes.NewReader(raw))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
			return
		}
	}
	req.Note = strings.TrimSpace(req.Note)
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.snapshots.Create(ctx, leagueID, req.Note)
	if err != nil {
		h.logger.WarnContext(ctx, "create snapshot failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, snapshotToDTO(item, true))
}

func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSnapshots")
	defer span.End()

	leagueID, err := parseLeagueID(r.PathValue("leagueID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	limit, err := parseOptionalInt(r.URL.Query().Get("limit"), "limit", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, listSnapshotsQuery{Limit: limit}); err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.snapshots.List(ctx, leagueID, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list snapshots failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]snapshotDTO, 0, len(items))
	for _, item := range items {
		out = append(out, snapshotToDTO(item, false))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSnapshot")
	defer span.End()

	leagueID, err := parseLeagueID(r.PathValue("leagueID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	snapshotID := r.PathValue("snapshotID")

	item, err := h.snapshots.Get(ctx, leagueID, snapshotID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(item, true))
}

func (h *Handler) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteSnapshot")
	defer span.End()

	leagueID, err := parseLeagueID(r.PathValue("leagueID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	snapshotID := r.PathValue("snapshotID")

	if err := h.snapshots.Delete(ctx, leagueID, snapshotID); err != nil {
		h.logger.WarnContext(ctx, "delete snapshot failed", "league_id", leagueID, "snapshot_id", snapshotID, "error", err)
		writeError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
