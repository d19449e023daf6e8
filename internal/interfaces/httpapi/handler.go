package httpapi

import (
	"html/template"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/fpl-monthly/internal/platform/logging"
	"github.com/riskibarqy/fpl-monthly/internal/usecase"
)

// HandlerConfig carries the request defaults the handlers fall back to.
type HandlerConfig struct {
	DefaultLeagueID int64
	DefaultTopN     int
	UploadMaxBytes  int64
}

type Handler struct {
	leaderboard *usecase.LeaderboardService
	snapshots   *usecase.SnapshotService
	cfg         HandlerConfig
	pages       *template.Template
	logger      *logging.Logger
	validator   *validator.Validate
}

func NewHandler(
	leaderboard *usecase.LeaderboardService,
	snapshots *usecase.SnapshotService,
	cfg HandlerConfig,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.DefaultTopN < usecase.MinChartTopN || cfg.DefaultTopN > usecase.MaxChartTopN {
		cfg.DefaultTopN = 8
	}
	if cfg.UploadMaxBytes <= 0 {
		cfg.UploadMaxBytes = 10 << 20
	}

	return &Handler{
		leaderboard: leaderboard,
		snapshots:   snapshots,
		cfg:         cfg,
		pages:       parsePages(),
		logger:      logger,
		validator:   validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}
