package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/panjf2000/ants/v2"

	"github.com/Ashenden365/mlb-hr-ai/internal/domain/roster"
	"github.com/Ashenden365/mlb-hr-ai/internal/platform/cache"
	"github.com/Ashenden365/mlb-hr-ai/internal/platform/logging"
	"github.com/Ashenden365/mlb-hr-ai/internal/platform/metrics"
)

const (
	referenceCacheKey    = "reference:snapshot"
	defaultRosterWorkers = 8
	maxPlayerSuggestions = 5
	refreshKindReference = "reference"
)

// Snapshot is one immutable load of teams and active rosters.
type Snapshot struct {
	Teams     []roster.Team
	Index     *roster.Index
	FetchedAt time.Time

	byCode map[string]roster.Team
}

func newSnapshot(teams []roster.Team, rows []roster.Entry, fetchedAt time.Time) *Snapshot {
	sorted := make([]roster.Team, len(teams))
	copy(sorted, teams)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })

	byCode := make(map[string]roster.Team, len(sorted))
	for _, t := range sorted {
		byCode[t.Code] = t
	}

	return &Snapshot{
		Teams:     sorted,
		Index:     roster.NewIndex(rows),
		FetchedAt: fetchedAt,
		byCode:    byCode,
	}
}

func (s *Snapshot) Team(code string) (roster.Team, bool) {
	if s == nil {
		return roster.Team{}, false
	}
	t, ok := s.byCode[code]
	return t, ok
}

type ReferenceConfig struct {
	RosterWorkers int
}

// ReferenceService keeps the team/roster snapshot fresh. The snapshot is
// refreshed at most once per cache TTL; concurrent refreshes share one load.
type ReferenceService struct {
	provider ReferenceProvider
	store    *cache.Store
	workers  int
	clock    clockwork.Clock
	logger   *logging.Logger
	metrics  metrics.Recorder
}

func NewReferenceService(
	provider ReferenceProvider,
	store *cache.Store,
	cfg ReferenceConfig,
	clock clockwork.Clock,
	logger *logging.Logger,
	recorder metrics.Recorder,
) *ReferenceService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = logging.Default()
	}
	workers := cfg.RosterWorkers
	if workers <= 0 {
		workers = defaultRosterWorkers
	}

	return &ReferenceService{
		provider: provider,
		store:    store,
		workers:  workers,
		clock:    clock,
		logger:   logger,
		metrics:  recorder,
	}
}

// Snapshot returns the current reference data, reloading it first when the
// cached copy is stale. If a reload fails and an older snapshot exists, the
// older one is served.
func (s *ReferenceService) Snapshot(ctx context.Context) (*Snapshot, error) {
	if !s.store.IsStale(referenceCacheKey) {
		if value, ok := s.store.Get(ctx, referenceCacheKey); ok {
			return value.(*Snapshot), nil
		}
	}

	value, err := s.store.Refresh(ctx, referenceCacheKey, func(ctx context.Context) (any, error) {
		return s.load(ctx)
	})
	if err != nil {
		if previous, ok := s.store.Peek(referenceCacheKey); ok {
			s.logger.WarnContext(ctx, "reference refresh failed, serving previous snapshot", "error", err)
			return previous.(*Snapshot), nil
		}
		return nil, err
	}
	return value.(*Snapshot), nil
}

// Teams returns every active club grouped by league and division.
func (s *ReferenceService) Teams(ctx context.Context) ([]roster.DivisionGroup, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReferenceService.Teams")
	defer span.End()

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return roster.GroupByDivision(snap.Teams), nil
}

// TeamPlayers lists the names on a club's active roster in source order.
func (s *ReferenceService) TeamPlayers(ctx context.Context, teamCode string) (roster.Team, []string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReferenceService.TeamPlayers")
	defer span.End()

	teamCode = strings.ToUpper(strings.TrimSpace(teamCode))
	if teamCode == "" {
		return roster.Team{}, nil, fmt.Errorf("%w: team code is required", ErrInvalidInput)
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return roster.Team{}, nil, err
	}
	team, ok := snap.Team(teamCode)
	if !ok {
		return roster.Team{}, nil, fmt.Errorf("%w: team=%s", ErrNotFound, teamCode)
	}
	return team, snap.Index.TeamNames(teamCode), nil
}

// ResolvePlayer runs the fuzzy matcher. A miss is reported through the bool,
// not as an error.
func (s *ReferenceService) ResolvePlayer(ctx context.Context, name string) (roster.Entry, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReferenceService.ResolvePlayer")
	defer span.End()

	if strings.TrimSpace(name) == "" {
		return roster.Entry{}, false, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return roster.Entry{}, false, err
	}
	entry, ok := snap.Index.FuzzyLookup(name)
	return entry, ok, nil
}

func (s *ReferenceService) load(ctx context.Context) (*Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReferenceService.load")
	defer span.End()

	started := s.clock.Now()
	snap, err := s.loadSnapshot(ctx)
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeError
	}
	if s.metrics != nil {
		s.metrics.ObserveRefresh(refreshKindReference, outcome, s.clock.Since(started))
	}
	return snap, err
}

func (s *ReferenceService) loadSnapshot(ctx context.Context) (*Snapshot, error) {
	teams, err := s.provider.FetchTeams(ctx)
	if err != nil {
		return nil, dependencyError("load teams", err)
	}
	if len(teams) == 0 {
		return nil, fmt.Errorf("%w: provider returned no active teams", ErrDependencyUnavailable)
	}

	rosters, err := s.fetchRosters(ctx, teams)
	if err != nil {
		return nil, err
	}

	rows := make([]roster.Entry, 0, len(teams)*26)
	for _, r := range rosters {
		rows = append(rows, r...)
	}

	snap := newSnapshot(teams, rows, s.clock.Now())
	s.logger.InfoContext(ctx, "reference snapshot loaded",
		"teams", len(snap.Teams),
		"players", snap.Index.Len(),
	)
	return snap, nil
}

// fetchRosters loads every team's roster on a bounded worker pool. The result
// keeps the team order of the input.
func (s *ReferenceService) fetchRosters(ctx context.Context, teams []roster.Team) ([][]roster.Entry, error) {
	workerCount := min(s.workers, len(teams))
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, fmt.Errorf("create roster worker pool: %w", err)
	}
	defer pool.Release()

	out := make([][]roster.Entry, len(teams))
	errs := make([]error, len(teams))

	var workers sync.WaitGroup
	for i, team := range teams {
		i, team := i, team
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			out[i], errs[i] = s.provider.FetchActiveRoster(ctx, team)
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, fmt.Errorf("submit roster task to worker pool: %w", err)
		}
	}
	workers.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, dependencyError("load roster team="+teams[i].Code, err)
		}
	}
	return out, nil
}
