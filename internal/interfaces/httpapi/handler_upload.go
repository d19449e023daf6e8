package httpapi

import (
	"bytes"
	"net/http"

	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/fpl-monthly/internal/usecase"
)

func (h *Handler) UploadMonthly(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UploadMonthly")
	defer span.End()

	topN, err := h.topN(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.computeUpload(w, r.WithContext(ctx))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dashboardToDTO(usecase.BuildDashboard(report, topN)))
}

func (h *Handler) UploadExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UploadExport")
	defer span.End()

	kind, err := h.exportKind(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	r = r.WithContext(ctx)
	report, err := h.computeUpload(w, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	h.writeExport(w, r, report, kind)
}

func (h *Handler) computeUpload(w http.ResponseWriter, r *http.Request) (usecase.Report, error) {
	ctx := r.Context()

	buf, err := h.readUpload(w, r)
	if err != nil {
		h.logger.WarnContext(ctx, "read upload failed", "error", err)
		return usecase.Report{}, err
	}
	defer bytebufferpool.Put(buf)

	report, err := h.leaderboard.ComputeUpload(ctx, bytes.NewReader(buf.B))
	if err != nil {
		h.logger.WarnContext(ctx, "compute upload failed", "bytes", buf.Len(), "error", err)
		return usecase.Report{}, err
	}
	return report, nil
}
