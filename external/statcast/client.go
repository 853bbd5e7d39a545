// Package statcast reads per-pitch batter logs from Baseball Savant's
// Statcast search CSV export.
package statcast

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/gocarina/gocsv"
	"golang.org/x/time/rate"

	"github.com/Ashenden365/mlb-hr-ai/external/provider"
	"github.com/Ashenden365/mlb-hr-ai/internal/domain/homerun"
	"github.com/Ashenden365/mlb-hr-ai/internal/platform/logging"
	"github.com/Ashenden365/mlb-hr-ai/internal/platform/metrics"
	"github.com/Ashenden365/mlb-hr-ai/internal/platform/resilience"
)

const (
	providerName   = "savant"
	defaultBaseURL = "https://baseballsavant.mlb.com"
	searchPath     = "/statcast_search/csv"
	// regular season and postseason game types
	gameTypes = "R|PO|"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RatePerSecond  float64
	Logger         *logging.Logger
	Metrics        metrics.Recorder
	CircuitBreaker resilience.CircuitBreakerConfig
	Backoff        func(attempt int) time.Duration
}

type Client struct {
	baseURL string
	caller  *provider.Caller
	limiter *rate.Limiter
	logger  *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	return &Client{
		baseURL: baseURL,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger.Named(providerName),
		caller: provider.NewCaller(provider.Config{
			Name:           providerName,
			HTTPClient:     cfg.HTTPClient,
			Timeout:        cfg.Timeout,
			MaxRetries:     cfg.MaxRetries,
			Logger:         logger,
			Metrics:        cfg.Metrics,
			CircuitBreaker: cfg.CircuitBreaker,
			Backoff:        cfg.Backoff,
		}),
	}
}

// FetchBatterEvents returns every pitch seen by batterID between start and end
// inclusive, in the order Savant returns them.
func (c *Client) FetchBatterEvents(ctx context.Context, batterID int64, start, end time.Time) ([]homerun.PitchEvent, error) {
	if batterID <= 0 {
		return nil, fmt.Errorf("batter id must be greater than zero")
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s precedes start date %s", end.Format(time.DateOnly), start.Format(time.DateOnly))
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for savant rate limit: %w", err)
	}

	raw, err := c.caller.Do(ctx, provider.Request{
		Operation: "batter_events",
		Method:    http.MethodGet,
		URL:       c.searchURL(batterID, start, end),
	})
	if err != nil {
		return nil, fmt.Errorf("fetch statcast batter=%d: %w", batterID, err)
	}

	events, err := decodeEvents(raw)
	if err != nil {
		return nil, fmt.Errorf("decode statcast batter=%d: %w", batterID, err)
	}

	c.logger.DebugContext(ctx, "statcast events fetched",
		"batter_id", batterID,
		"events", len(events),
	)
	return events, nil
}

func (c *Client) searchURL(batterID int64, start, end time.Time) string {
	values := url.Values{}
	values.Set("all", "true")
	values.Set("type", "details")
	values.Set("player_type", "batter")
	values.Set("hfGT", gameTypes)
	values.Set("batters_lookup[]", strconv.FormatInt(batterID, 10))
	values.Set("game_date_gt", start.Format(time.DateOnly))
	values.Set("game_date_lt", end.Format(time.DateOnly))
	return c.baseURL + searchPath + "?" + values.Encode()
}

// pitchRow mirrors the Savant CSV columns in use. Numeric columns are read as
// text since Savant leaves them blank when unknown.
type pitchRow struct {
	GameDate string `csv:"game_date"`
	Events   string `csv:"events"`
	Batter   string `csv:"batter"`
	Pitcher  string `csv:"pitcher"`
	HomeTeam string `csv:"home_team"`
	AwayTeam string `csv:"away_team"`
	GamePK   string `csv:"game_pk"`
	Inning   string `csv:"inning"`
}

func decodeEvents(raw []byte) ([]homerun.PitchEvent, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if len(bytes.TrimSpace(raw)) == 0 {
		return []homerun.PitchEvent{}, nil
	}

	var rows []pitchRow
	if err := gocsv.UnmarshalBytes(raw, &rows); err != nil {
		if crerr.Is(err, gocsv.ErrEmptyCSVFile) {
			return []homerun.PitchEvent{}, nil
		}
		return nil, err
	}

	out := make([]homerun.PitchEvent, 0, len(rows))
	for i, row := range rows {
		date, err := time.Parse(time.DateOnly, strings.TrimSpace(row.GameDate))
		if err != nil {
			return nil, fmt.Errorf("row %d: parse game_date %q: %w", i+1, row.GameDate, err)
		}
		out = append(out, homerun.PitchEvent{
			GameDate:  date,
			Event:     strings.TrimSpace(row.Events),
			BatterID:  parseInt64(row.Batter),
			PitcherID: parseOptionalInt64(row.Pitcher),
			HomeTeam:  strings.TrimSpace(row.HomeTeam),
			AwayTeam:  strings.TrimSpace(row.AwayTeam),
			GamePK:    parseInt64(row.GamePK),
			Inning:    int(parseInt64(row.Inning)),
		})
	}
	return out, nil
}

func parseOptionalInt64(raw string) *int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil {
			return nil
		}
		v = int64(f)
	}
	return &v
}

func parseInt64(raw string) int64 {
	if v := parseOptionalInt64(raw); v != nil {
		return *v
	}
	return 0
}
