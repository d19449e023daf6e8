package fpl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/riskibarqy/fpl-monthly/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-monthly/internal/domain/league"
	"github.com/riskibarqy/fpl-monthly/internal/platform/cache"
	"github.com/riskibarqy/fpl-monthly/internal/platform/logging"
	"github.com/riskibarqy/fpl-monthly/internal/platform/resilience"
)

const (
	defaultBaseURL    = "https://fantasy.premierleague.com/api"
	defaultLoginURL   = "https://users.premierleague.com/accounts/login/"
	loginRedirectURI  = "https://fantasy.premierleague.com/"
	userAgent         = "Mozilla/5.0"
	maxResponseBytes  = 8 << 20
	defaultMaxPages   = 500
	bootstrapCacheKey = "fpl:bootstrap:events"
)

type ClientConfig struct {
	HTTPClient        *http.Client
	BaseURL           string
	LoginURL          string
	Username          string
	Password          string
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerSecond float64
	ValidateEvents    bool
	MaxStandingsPages int
	Cache             *cache.Store
	Logger            *logging.Logger
	CircuitBreaker    resilience.CircuitBreakerConfig
}

// Client reads classic league standings and entry histories from the public
// FPL API. It implements league.Source.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	loginURL       string
	username       string
	password       string
	retry          resilience.RetryConfig
	limiter        *rate.Limiter
	validateEvents bool
	maxPages       int
	cache          *cache.Store
	logger         *logging.Logger
	breaker        *resilience.Breaker

	loginMu  sync.Mutex
	loggedIn bool
}

func NewClient(cfg ClientConfig) (*Client, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}
	if httpClient.Jar == nil && cfg.Username != "" {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		httpClient.Jar = jar
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	loginURL := strings.TrimSpace(cfg.LoginURL)
	if loginURL == "" {
		loginURL = defaultLoginURL
	}

	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		burst = max(1, int(cfg.RequestsPerSecond))
	}

	maxPages := cfg.MaxStandingsPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}

	c := &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		loginURL:       loginURL,
		username:       strings.TrimSpace(cfg.Username),
		password:       cfg.Password,
		retry:          resilience.NormalizeRetryConfig(resilience.RetryConfig{MaxRetries: cfg.MaxRetries}),
		limiter:        rate.NewLimiter(limit, burst),
		validateEvents: cfg.ValidateEvents,
		maxPages:       maxPages,
		cache:          cfg.Cache,
		logger:         logger,
	}
	c.breaker = resilience.NewBreaker("fpl", cfg.CircuitBreaker, func(name, from, to string) {
		logger.Warn("fpl circuit breaker state changed", "breaker", name, "from", from, "to", to)
	})

	return c, nil
}

// FetchLeague walks every standings page of a classic league.
func (c *Client) FetchLeague(ctx context.Context, leagueID int64) ([]league.Entry, error) {
	if leagueID <= 0 {
		return nil, crerr.Newf("league id must be greater than zero, got %d", leagueID)
	}
	if err := c.ensureLogin(ctx); err != nil {
		return nil, err
	}

	entries, err := cache.Load(ctx, c.cache, leagueCacheKey(leagueID), func(ctx context.Context) ([]league.Entry, error) {
		return c.fetchStandings(ctx, leagueID)
	})
	if err != nil {
		return nil, err
	}
	return append([]league.Entry(nil), entries...), nil
}

func (c *Client) fetchStandings(ctx context.Context, leagueID int64) ([]league.Entry, error) {
	entries := make([]league.Entry, 0, 50)
	for page := 1; ; page++ {
		if page > c.maxPages {
			return nil, crerr.Mark(
				crerr.Newf("league=%d has more than %d standings pages", leagueID, c.maxPages),
				league.ErrSourceUnavailable,
			)
		}

		path := fmt.Sprintf("/leagues-classic/%d/standings/?page_standings=%d", leagueID, page)
		var env standingsEnvelope
		if err := c.getJSON(ctx, path, &env); err != nil {
			var statusErr *StatusError
			if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
				return nil, crerr.Mark(crerr.Wrapf(err, "league=%d", leagueID), league.ErrLeagueNotFound)
			}
			return nil, crerr.Wrapf(err, "fetch standings league=%d page=%d", leagueID, page)
		}

		if env.Standings == nil || env.Standings.Results == nil {
			return nil, unexpectedShape(path, "standings.results")
		}

		for _, row := range *env.Standings.Results {
			if row.Entry <= 0 {
				continue
			}
			entries = append(entries, league.Entry{
				ID:         row.Entry,
				PlayerName: strings.TrimSpace(row.PlayerName),
				TeamName:   strings.TrimSpace(row.EntryName),
			})
		}

		if !env.Standings.HasNext {
			break
		}
	}

	c.logger.DebugContext(ctx, "fpl standings fetched", "league_id", leagueID, "entries", len(entries))
	return entries, nil
}

// FetchHistory returns the current-season gameweek rows of one entry. When
// event validation is on, rows for events missing from bootstrap-static are dropped.
func (c *Client) FetchHistory(ctx context.Context, entryID int64) ([]gameweek.Record, error) {
	if entryID <= 0 {
		return nil, crerr.Newf("entry id must be greater than zero, got %d", entryID)
	}
	if err := c.ensureLogin(ctx); err != nil {
		return nil, err
	}

	records, err := cache.Load(ctx, c.cache, historyCacheKey(entryID), func(ctx context.Context) ([]gameweek.Record, error) {
		path := fmt.Sprintf("/entry/%d/history/", entryID)
		var env historyEnvelope
		if err := c.getJSON(ctx, path, &env); err != nil {
			return nil, crerr.Wrapf(err, "fetch history entry=%d", entryID)
		}
		if env.Current == nil {
			return nil, unexpectedShape(path, "current")
		}

		out := make([]gameweek.Record, 0, len(*env.Current))
		for _, ev := range *env.Current {
			out = append(out, gameweek.Record{
				EntryID:      entryID,
				Gameweek:     ev.Event,
				Points:       ev.Points,
				TransferCost: ev.EventTransfersCost,
				TotalPoints:  ev.TotalPoints,
			})
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	if !c.validateEvents {
		return append([]gameweek.Record(nil), records...), nil
	}

	events, err := c.knownEvents(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]gameweek.Record, 0, len(records))
	for _, rec := range records {
		if _, ok := events[rec.Gameweek]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (c *Client) knownEvents(ctx context.Context) (map[int]struct{}, error) {
	return cache.Load(ctx, c.cache, bootstrapCacheKey, func(ctx context.Context) (map[int]struct{}, error) {
		var env bootstrapEnvelope
		if err := c.getJSON(ctx, "/bootstrap-static/", &env); err != nil {
			return nil, crerr.Wrap(err, "fetch bootstrap events")
		}
		if env.Events == nil {
			return nil, unexpectedShape("/bootstrap-static/", "events")
		}
		out := make(map[int]struct{}, len(*env.Events))
		for _, ev := range *env.Events {
			out[ev.ID] = struct{}{}
		}
		return out, nil
	})
}

// InvalidateLeague drops the cached standings of a league, the histories of
// its cached entries and the bootstrap events.
func (c *Client) InvalidateLeague(ctx context.Context, leagueID int64) int {
	if c.cache == nil {
		return 0
	}

	removed := 0
	if cached, ok := c.cache.Get(ctx, leagueCacheKey(leagueID)); ok {
		if entries, ok := cached.([]league.Entry); ok {
			for _, e := range entries {
				removed += c.cache.DeletePrefix(ctx, historyCacheKey(e.ID))
			}
		}
	}
	removed += c.cache.DeletePrefix(ctx, leagueCacheKey(leagueID))
	removed += c.cache.DeletePrefix(ctx, bootstrapCacheKey)
	return removed
}

func (c *Client) ensureLogin(ctx context.Context) error {
	if c.username == "" || c.password == "" {
		return nil
	}

	c.loginMu.Lock()
	defer c.loginMu.Unlock()
	if c.loggedIn {
		return nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	form := url.Values{}
	form.Set("login", c.username)
	form.Set("password", c.password)
	form.Set("app", "plfpl-web")
	form.Set("redirect_uri", loginRedirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.loginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return crerr.Wrap(err, "build login request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return crerr.Mark(crerr.Wrap(err, "fpl login"), league.ErrSourceUnavailable)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
	_ = resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return crerr.Mark(crerr.Newf("fpl login rejected status=%d", resp.StatusCode), league.ErrSourceUnavailable)
	}

	c.loggedIn = true
	c.logger.InfoContext(ctx, "fpl login succeeded")
	return nil
}

// getJSON wraps every failure with league.ErrSourceUnavailable.
func (c *Client) getJSON(ctx context.Context, path string, target any) error {
	fullURL := c.baseURL + path

	var raw []byte
	err := resilience.Retry(ctx, c.retry, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return resilience.Permanent(err)
		}
		return c.breaker.Execute(func() error {
			var reqErr error
			raw, reqErr = c.execute(ctx, fullURL)
			return reqErr
		})
	})
	if err != nil {
		c.logger.WarnContext(ctx, "fpl request failed", "url", fullURL, "error", err)
		return crerr.Mark(crerr.Wrapf(err, "GET %s", path), league.ErrSourceUnavailable)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Mark(crerr.Wrapf(err, "decode %s", path), league.ErrSourceUnavailable)
	}
	return nil
}

func unexpectedShape(path, key string) error {
	return crerr.Mark(crerr.Newf("decode %s: missing %q", path, key), league.ErrSourceUnavailable)
}

func (c *Client) execute(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, resilience.Permanent(crerr.Wrap(err, "build request"))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, crerr.Wrap(err, "send request")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, crerr.Wrap(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{Code: resp.StatusCode, Body: abbreviateBody(raw)}
		if isRetryableStatus(resp.StatusCode) {
			return nil, statusErr
		}
		return nil, resilience.Permanent(statusErr)
	}

	return raw, nil
}

// StatusError is a non-2xx upstream response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return "upstream status=" + strconv.Itoa(e.Code)
	}
	return fmt.Sprintf("upstream status=%d body=%s", e.Code, e.Body)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}

func leagueCacheKey(leagueID int64) string {
	return "fpl:league:" + strconv.FormatInt(leagueID, 10) + ":standings"
}

func historyCacheKey(entryID int64) string {
	return "fpl:entry:" + strconv.FormatInt(entryID, 10) + ":history"
}
