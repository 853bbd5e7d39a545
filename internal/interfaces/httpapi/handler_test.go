package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Ashenden365/mlb-hr-ai/internal/domain/homerun"
	"github.com/Ashenden365/mlb-hr-ai/internal/domain/roster"
	usecasemock "github.com/Ashenden365/mlb-hr-ai/internal/mocks/usecase"
	"github.com/Ashenden365/mlb-hr-ai/internal/platform/cache"
	"github.com/Ashenden365/mlb-hr-ai/internal/platform/logging"
	"github.com/Ashenden365/mlb-hr-ai/internal/platform/metrics"
	"github.com/Ashenden365/mlb-hr-ai/internal/usecase"
)

type routerFixture struct {
	router    http.Handler
	metrics   *metrics.Metrics
	provider  *usecasemock.ReferenceProvider
	feed      *usecasemock.EventFeed
	people    *usecasemock.PeopleDirectory
	generator *usecasemock.TextGenerator
}

var (
	fixtureLAD = roster.Team{Code: "LAD", ID: 119, Name: "Los Angeles Dodgers", TeamName: "Dodgers", Division: "National League West"}
	fixtureNYY = roster.Team{Code: "NYY", ID: 147, Name: "New York Yankees", TeamName: "Yankees", Division: "American League East"}
)

func newRouterFixture(t *testing.T) routerFixture {
	t.Helper()
	return buildRouterFixture(t, usecase.SuggestionConfig{Tries: 1}, 0)
}

func buildRouterFixture(t *testing.T, suggestionCfg usecase.SuggestionConfig, requestTimeout time.Duration) routerFixture {
	t.Helper()

	clock := clockwork.NewFakeClockAt(time.Date(2025, 4, 2, 12, 0, 0, 0, time.UTC))
	logger := logging.NewNop()
	provider := usecasemock.NewReferenceProvider(t)
	feed := usecasemock.NewEventFeed(t)
	people := usecasemock.NewPeopleDirectory(t)
	generator := usecasemock.NewTextGenerator(t)
	m := metrics.New()

	reference := usecase.NewReferenceService(provider, cache.NewStore(12*time.Hour, clock), usecase.ReferenceConfig{}, clock, logger, m)
	pace := usecase.NewPaceService(reference, feed, people, cache.NewStore(24*time.Hour, clock), clock, logger)
	suggestions := usecase.NewSuggestionService(reference, generator, suggestionCfg, clock, logger)

	handler := NewHandler(reference, pace, suggestions, logger)
	return routerFixture{
		router:    NewRouter(handler, logger, m, true, []string{"*"}, requestTimeout),
		metrics:   m,
		provider:  provider,
		feed:      feed,
		people:    people,
		generator: generator,
	}
}

func (f routerFixture) expectReference() {
	f.provider.On("FetchTeams", mock.Anything).Return([]roster.Team{fixtureLAD, fixtureNYY}, nil).Once()
	f.provider.On("FetchActiveRoster", mock.Anything, fixtureLAD).Return([]roster.Entry{
		{Name: "Shohei Ohtani", PlayerID: 660271, TeamCode: "LAD"},
		{Name: "Mookie Betts", PlayerID: 605141, TeamCode: "LAD"},
	}, nil).Once()
	f.provider.On("FetchActiveRoster", mock.Anything, fixtureNYY).Return([]roster.Entry{
		{Name: "Aaron Judge", PlayerID: 592450, TeamCode: "NYY"},
	}, nil).Once()
}

func (f routerFixture) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

type envelope[T any] struct {
	APIVersion string `json:"apiVersion"`
	Data       T      `json:"data"`
	Error      *struct {
		Code        int      `json:"code"`
		Status      string   `json:"status"`
		Suggestions []string `json:"suggestions"`
	} `json:"error"`
}

func decodeEnvelope[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()

	var out envelope[T]
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestRouter_Healthz(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.serve(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestRouter_RequestIDIsPropagated(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "6f1f4c8e-4f55-4a1c-9df6-1b7b1c1d2e3f")
	rec := f.serve(req)
	assert.Equal(t, "6f1f4c8e-4f55-4a1c-9df6-1b7b1c1d2e3f", rec.Header().Get(requestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "not-a-uuid")
	rec = f.serve(req)
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(requestIDHeader))
}

func TestRouter_ListTeams(t *testing.T) {
	f := newRouterFixture(t)
	f.expectReference()

	rec := f.serve(httptest.NewRequest(http.MethodGet, "/v1/teams", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeEnvelope[[]divisionGroupDTO](t, rec)
	assert.Equal(t, "2.0", body.APIVersion)

	var codes []string
	for _, g := range body.Data {
		for _, team := range g.Teams {
			codes = append(codes, team.Code)
		}
	}
	assert.ElementsMatch(t, []string{"LAD", "NYY"}, codes)

	assert.Equal(t, 1, testutil.CollectAndCount(f.metrics.Registry(), "mlbhr_http_requests_total"))
}

func TestRouter_ListTeamPlayers(t *testing.T) {
	f := newRouterFixture(t)
	f.expectReference()

	rec := f.serve(httptest.NewRequest(http.MethodGet, "/v1/teams/lad/players", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeEnvelope[teamPlayersDTO](t, rec)
	assert.Equal(t, "LAD", body.Data.Team.Code)
	assert.Equal(t, []string{"Shohei Ohtani", "Mookie Betts"}, body.Data.Players)

	rec = f.serve(httptest.NewRequest(http.MethodGet, "/v1/teams/SEA/players", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_ResolvePlayer(t *testing.T) {
	f := newRouterFixture(t)
	f.expectReference()

	rec := f.serve(httptest.NewRequest(http.MethodGet, "/v1/players/resolve?name=judge", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeEnvelope[resolvePlayerDTO](t, rec)
	require.True(t, body.Data.Matched)
	assert.Equal(t, "Aaron Judge", body.Data.Player.Name)

	rec = f.serve(httptest.NewRequest(http.MethodGet, "/v1/players/resolve?name=Babe+Ruth", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeEnvelope[resolvePlayerDTO](t, rec)
	assert.False(t, body.Data.Matched)
	assert.Nil(t, body.Data.Player)

	rec = f.serve(httptest.NewRequest(http.MethodGet, "/v1/players/resolve", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Compare(t *testing.T) {
	f := newRouterFixture(t)
	f.expectReference()

	pitcherID := int64(684007)
	f.feed.
		On("FetchBatterEvents", mock.Anything, int64(660271), mock.Anything, mock.Anything).
		Return([]homerun.PitchEvent{
			{GameDate: time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC), Event: homerun.EventHomeRun, PitcherID: &pitcherID, HomeTeam: "CHC", AwayTeam: "LAD"},
		}, nil).
		Once()
	f.feed.
		On("FetchBatterEvents", mock.Anything, int64(592450), mock.Anything, mock.Anything).
		Return([]homerun.PitchEvent{}, nil).
		Once()
	f.people.On("FetchPersonName", mock.Anything, pitcherID).Return("Shota Imanaga", nil).Once()

	rec := f.serve(httptest.NewRequest(http.MethodGet, "/v1/comparisons?start=2025-03-18&end=2025-04-01", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeEnvelope[comparisonDTO](t, rec)
	assert.Equal(t, "2025-03-18", body.Data.Start)
	assert.Equal(t, "2025-04-01", body.Data.End)
	require.Len(t, body.Data.Players, 2)

	ohtani := body.Data.Players[0]
	assert.Equal(t, 1, ohtani.Total)
	require.Len(t, ohtani.HomeRuns, 1)
	assert.Equal(t, "03-18", ohtani.HomeRuns[0].Label)
	assert.Equal(t, "Shota Imanaga", ohtani.HomeRuns[0].Pitcher)

	judge := body.Data.Players[1]
	assert.Equal(t, homerun.EmptyLogMessage, judge.Message)
	assert.Empty(t, body.Data.HeadToHead)
	assert.Len(t, body.Data.Warnings, 1)
}

func TestRouter_Compare_InvalidDate(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.serve(httptest.NewRequest(http.MethodGet, "/v1/comparisons?start=03/18/2025", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Compare_UnknownPlayer(t *testing.T) {
	f := newRouterFixture(t)
	f.expectReference()

	rec := f.serve(httptest.NewRequest(http.MethodGet, "/v1/comparisons?player2=Aaron+Jugde", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := decodeEnvelope[any](t, rec)
	require.NotNil(t, body.Error)
	assert.Contains(t, body.Error.Suggestions, "Aaron Judge")
}

func TestRouter_Suggest(t *testing.T) {
	f := newRouterFixture(t)
	f.expectReference()
	f.generator.
		On("Generate", mock.Anything, mock.Anything).
		Return("Pair: Mookie Betts and Juan Soto\nReason: Former teammates.", nil).
		Once()

	req := httptest.NewRequest(http.MethodPost, "/v1/suggestions", strings.NewReader(`{"player1":"Shohei Ohtani","player2":"Aaron Judge"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := f.serve(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeEnvelope[suggestionDTO](t, rec)
	assert.Equal(t, "success", body.Data.State)
	require.Len(t, body.Data.Pairs, 1)
	players := body.Data.Pairs[0].Players
	require.Len(t, players, 2)
	require.NotNil(t, players[0].PlayerID)
	assert.Equal(t, int64(605141), *players[0].PlayerID)
	assert.Nil(t, players[1].PlayerID)
	assert.Empty(t, players[1].ImageURL)
}

func TestRouter_Suggest_ErrorStateIsOK(t *testing.T) {
	f := newRouterFixture(t)
	f.generator.
		On("Generate", mock.Anything, mock.Anything).
		Return("nothing useful", nil).
		Once()

	req := httptest.NewRequest(http.MethodPost, "/v1/suggestions", strings.NewReader(`{"player1":"A","player2":"B"}`))
	rec := f.serve(req)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeEnvelope[suggestionDTO](t, rec)
	assert.Equal(t, "error", body.Data.State)
	assert.Equal(t, "No suitable suggestion found. Please try again.", body.Data.Message)
}

func TestRouter_Suggest_RequestDeadlineStillWritesErrorState(t *testing.T) {
	f := buildRouterFixture(t, usecase.SuggestionConfig{Tries: 3, Timeout: time.Minute}, 50*time.Millisecond)
	f.generator.
		On("Generate", mock.Anything, mock.Anything).
		Return(func(ctx context.Context, _ string) (string, error) {
			<-ctx.Done()
			return "", fmt.Errorf("workers ai request: %w", ctx.Err())
		}).
		Once()

	req := httptest.NewRequest(http.MethodPost, "/v1/suggestions", strings.NewReader(`{"player1":"Shohei Ohtani","player2":"Aaron Judge"}`))
	started := time.Now()
	rec := f.serve(req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Less(t, time.Since(started), 5*time.Second)

	body := decodeEnvelope[suggestionDTO](t, rec)
	assert.Equal(t, "error", body.Data.State)
	assert.Equal(t, "Error: workers ai request: context deadline exceeded", body.Data.Message)
}

func TestRouter_Compare_RequestDeadlineReturnsUnavailable(t *testing.T) {
	f := buildRouterFixture(t, usecase.SuggestionConfig{Tries: 1}, 50*time.Millisecond)
	f.expectReference()
	f.feed.
		On("FetchBatterEvents", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(func(ctx context.Context, _ int64, _, _ time.Time) ([]homerun.PitchEvent, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}).
		Maybe()

	rec := f.serve(httptest.NewRequest(http.MethodGet, "/v1/comparisons", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code, rec.Body.String())

	body := decodeEnvelope[struct{}](t, rec)
	require.NotNil(t, body.Error)
	assert.Equal(t, "UNAVAILABLE", body.Error.Status)
}

func TestRouter_Suggest_ValidatesBody(t *testing.T) {
	f := newRouterFixture(t)

	for _, payload := range []string{``, `{"player1":"A"}`, `{"player1":"A","player2":"B","extra":1}`, `not json`} {
		req := httptest.NewRequest(http.MethodPost, "/v1/suggestions", strings.NewReader(payload))
		rec := f.serve(req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("payload %q: unexpected status got=%d want=%d", payload, rec.Code, http.StatusBadRequest)
		}
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	f := newRouterFixture(t)

	f.serve(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	rec := f.serve(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mlbhr_http_requests_total")
}

func TestRouter_RecoversPanics(t *testing.T) {
	logger := logging.NewNop()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rec := httptest.NewRecorder()
	recoverPanic(logger, mux).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRouter_Docs(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.serve(httptest.NewRequest(http.MethodGet, openAPIPath, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/yaml")
	assert.Contains(t, rec.Body.String(), "/v1/comparisons")

	rec = f.serve(httptest.NewRequest(http.MethodGet, "/docs", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "SwaggerUIBundle")
}
