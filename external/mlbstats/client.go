package mlbstats

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/Ashenden365/mlb-hr-ai/external/provider"
	"github.com/Ashenden365/mlb-hr-ai/internal/domain/roster"
	"github.com/Ashenden365/mlb-hr-ai/internal/platform/logging"
	"github.com/Ashenden365/mlb-hr-ai/internal/platform/metrics"
	"github.com/Ashenden365/mlb-hr-ai/internal/platform/resilience"
)

const (
	providerName     = "statsapi"
	defaultBaseURL   = "https://statsapi.mlb.com/api/v1"
	majorLeagueSport = "1"
	activeRoster     = "active"
)

var ErrPersonNotFound = crerr.New("person not found")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	Metrics        metrics.Recorder
	CircuitBreaker resilience.CircuitBreakerConfig
	Backoff        func(attempt int) time.Duration
}

// Client reads teams, active rosters and people from the MLB Stats API.
type Client struct {
	baseURL string
	caller  *provider.Caller
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

	return &Client{
		baseURL: baseURL,
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

// FetchTeams returns every active major-league club.
func (c *Client) FetchTeams(ctx context.Context) ([]roster.Team, error) {
	var payload teamsEnvelope
	query := map[string]string{"sportIds": majorLeagueSport, "hydrate": "division"}
	if err := c.doJSON(ctx, "teams", "/teams", query, &payload); err != nil {
		return nil, fmt.Errorf("fetch teams: %w", err)
	}

	out := make([]roster.Team, 0, len(payload.Teams))
	for _, item := range payload.Teams {
		if !item.Active {
			continue
		}
		team := roster.Team{
			Code:     strings.TrimSpace(item.Abbreviation),
			ID:       item.ID,
			Name:     strings.TrimSpace(item.Name),
			TeamName: strings.TrimSpace(item.TeamName),
			Division: strings.TrimSpace(item.Division.Name),
		}
		if err := team.Validate(); err != nil {
			c.logger.WarnContext(ctx, "skip invalid team", "team_id", item.ID, "error", err)
			continue
		}
		out = append(out, team)
	}
	return out, nil
}

// FetchActiveRoster returns the team's active roster in source order. Rows
// missing a name or id are dropped.
func (c *Client) FetchActiveRoster(ctx context.Context, team roster.Team) ([]roster.Entry, error) {
	if team.ID <= 0 {
		return nil, fmt.Errorf("team id must be greater than zero")
	}

	var payload rosterEnvelope
	path := "/teams/" + strconv.FormatInt(team.ID, 10) + "/roster"
	if err := c.doJSON(ctx, "roster", path, map[string]string{"rosterType": activeRoster}, &payload); err != nil {
		return nil, fmt.Errorf("fetch roster team=%s: %w", team.Code, err)
	}

	out := make([]roster.Entry, 0, len(payload.Roster))
	for _, item := range payload.Roster {
		entry := roster.Entry{
			Name:     strings.TrimSpace(item.Person.FullName),
			PlayerID: item.Person.ID,
			TeamCode: team.Code,
		}
		if !entry.Valid() {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

// FetchPersonName resolves a player id to "First Last", falling back to the
// full name when either part is missing.
func (c *Client) FetchPersonName(ctx context.Context, personID int64) (string, error) {
	if personID <= 0 {
		return "", fmt.Errorf("person id must be greater than zero")
	}

	var payload peopleEnvelope
	path := "/people/" + strconv.FormatInt(personID, 10)
	if err := c.doJSON(ctx, "people", path, nil, &payload); err != nil {
		if provider.IsNotFound(err) {
			return "", fmt.Errorf("%w: id=%d", ErrPersonNotFound, personID)
		}
		return "", fmt.Errorf("fetch person id=%d: %w", personID, err)
	}
	if len(payload.People) == 0 {
		return "", fmt.Errorf("%w: id=%d", ErrPersonNotFound, personID)
	}

	person := payload.People[0]
	first := strings.TrimSpace(person.FirstName)
	last := strings.TrimSpace(person.LastName)
	if first != "" && last != "" {
		return first + " " + last, nil
	}
	if full := strings.TrimSpace(person.FullName); full != "" {
		return full, nil
	}
	return "", fmt.Errorf("%w: id=%d has no name", ErrPersonNotFound, personID)
}

func (c *Client) doJSON(ctx context.Context, operation, path string, query map[string]string, target any) error {
	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	header := http.Header{}
	header.Set("Accept", "application/json")
	raw, err := c.caller.Do(ctx, provider.Request{
		Operation: operation,
		Method:    http.MethodGet,
		URL:       fullURL,
		Header:    header,
	})
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}
