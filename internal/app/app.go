package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/fpl-monthly/external/fpl"
	"github.com/riskibarqy/fpl-monthly/internal/config"
	"github.com/riskibarqy/fpl-monthly/internal/domain/snapshot"
	"github.com/riskibarqy/fpl-monthly/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fpl-monthly/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fpl-monthly/internal/infrastructure/tabular"
	"github.com/riskibarqy/fpl-monthly/internal/interfaces/httpapi"
	"github.com/riskibarqy/fpl-monthly/internal/platform/cache"
	"github.com/riskibarqy/fpl-monthly/internal/platform/database"
	idgen "github.com/riskibarqy/fpl-monthly/internal/platform/id"
	"github.com/riskibarqy/fpl-monthly/internal/platform/logging"
	"github.com/riskibarqy/fpl-monthly/internal/usecase"
)

// NewLiveSource builds the FPL API client, with a response cache when enabled.
func NewLiveSource(cfg config.Config, logger *logging.Logger) (*fpl.Client, error) {
	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
	}

	client, err := fpl.NewClient(fpl.ClientConfig{
		BaseURL:           cfg.FPLBaseURL,
		LoginURL:          cfg.FPLLoginURL,
		Username:          cfg.FPLUsername,
		Password:          cfg.FPLPassword,
		Timeout:           cfg.FPLTimeout,
		MaxRetries:        cfg.FPLMaxRetries,
		RequestsPerSecond: cfg.FPLRequestsPerSecond,
		ValidateEvents:    cfg.FPLValidateEvents,
		Cache:             store,
		Logger:            logger.Named("fpl"),
		CircuitBreaker:    cfg.FPLCircuit,
	})
	if err != nil {
		return nil, fmt.Errorf("build fpl client: %w", err)
	}
	return client, nil
}

// NewLeaderboardService wires the live source and the CSV parser to the
// configured months.
func NewLeaderboardService(cfg config.Config, logger *logging.Logger) (*usecase.LeaderboardService, error) {
	live, err := NewLiveSource(cfg, logger)
	if err != nil {
		return nil, err
	}

	return usecase.NewLeaderboardService(
		live,
		tabular.NewParser(logger.Named("tabular")),
		cfg.Months,
		cfg.FPLFetchWorkers,
		logger.Named("leaderboard"),
	), nil
}

// NewSnapshotRepository picks the snapshot store. The returned func closes
// the underlying connection, if any.
func NewSnapshotRepository(ctx context.Context, cfg config.Config, logger *logging.Logger) (snapshot.Repository, func() error, error) {
	switch cfg.SnapshotStore {
	case config.SnapshotStorePostgres:
		db, err := database.Open(ctx, database.Options{
			URL:                         cfg.DBURL,
			DisablePreparedBinaryResult: cfg.DBDisablePreparedBinary,
			MaxOpenConns:                10,
			MaxIdleConns:                5,
			ConnMaxLifetime:             30 * time.Minute,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewSnapshotRepository(db), db.Close, nil
	default:
		logger.Info("snapshots kept in memory", "store", cfg.SnapshotStore)
		return memory.NewSnapshotRepository(), func() error { return nil }, nil
	}
}

// NewHTTPServer builds the API server. cleanup must run after the server has
// shut down.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (server *http.Server, cleanup func() error, err error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	leaderboardSvc, err := NewLeaderboardService(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	snapshotRepo, cleanup, err := NewSnapshotRepository(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	snapshotSvc := usecase.NewSnapshotService(snapshotRepo, leaderboardSvc, idgen.NewRandomGenerator("snp"), logger.Named("snapshot"))

	handler := httpapi.NewHandler(leaderboardSvc, snapshotSvc, httpapi.HandlerConfig{
		DefaultLeagueID: cfg.FPLLeagueID,
		DefaultTopN:     cfg.ChartTopN,
		UploadMaxBytes:  cfg.UploadMaxBytes,
	}, logger.Named("http"))
	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		AdminToken:         cfg.AdminToken,
	}, logger.Named("http"))

	server = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
	}

	return server, cleanup, nil
}
