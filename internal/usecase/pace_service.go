package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sourcegraph/conc/pool"

	"github.com/Ashenden365/mlb-hr-ai/internal/domain/homerun"
	"github.com/Ashenden365/mlb-hr-ai/internal/domain/roster"
	"github.com/Ashenden365/mlb-hr-ai/internal/platform/cache"
	"github.com/Ashenden365/mlb-hr-ai/internal/platform/logging"
)

const (
	DefaultPlayer1 = "Shohei Ohtani"
	DefaultPlayer2 = "Aaron Judge"

	pitcherCacheKeyPrefix = "pitcher:"
)

type ComparisonInput struct {
	Player1 string
	Team1   string
	Player2 string
	Team2   string
	// Start and End default to the first Tokyo Series game and today.
	Start *time.Time
	End   *time.Time
}

// PlayerTimeline is one side of a comparison. Message is set when the player
// has no counted home runs in the window.
type PlayerTimeline struct {
	Player   string
	Entry    roster.Entry
	Team     roster.Team
	ImageURL string
	Records  []homerun.Record
	Message  string
}

type Comparison struct {
	Start      time.Time
	End        time.Time
	Players    []PlayerTimeline
	HeadToHead []homerun.TaggedRecord
	Warnings   []string
}

type PaceService struct {
	reference    *ReferenceService
	feed         EventFeed
	people       PeopleDirectory
	pitcherCache *cache.Store
	clock        clockwork.Clock
	logger       *logging.Logger
}

func NewPaceService(
	reference *ReferenceService,
	feed EventFeed,
	people PeopleDirectory,
	pitcherCache *cache.Store,
	clock clockwork.Clock,
	logger *logging.Logger,
) *PaceService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PaceService{
		reference:    reference,
		feed:         feed,
		people:       people,
		pitcherCache: pitcherCache,
		clock:        clock,
		logger:       logger,
	}
}

// Compare builds both players' home-run timelines for the requested window.
func (s *PaceService) Compare(ctx context.Context, input ComparisonInput) (Comparison, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PaceService.Compare")
	defer span.End()

	start, end, err := s.window(input)
	if err != nil {
		return Comparison{}, err
	}

	snap, err := s.reference.Snapshot(ctx)
	if err != nil {
		return Comparison{}, err
	}

	selections := []struct{ name, team string }{
		{name: firstNonEmpty(input.Player1, DefaultPlayer1), team: input.Team1},
		{name: firstNonEmpty(input.Player2, DefaultPlayer2), team: input.Team2},
	}

	timelines := make([]PlayerTimeline, len(selections))
	for i, sel := range selections {
		tl, err := resolveSelection(snap, sel.name, sel.team)
		if err != nil {
			return Comparison{}, err
		}
		timelines[i] = tl
	}

	fetch := pool.New().WithErrors().WithContext(ctx).WithCancelOnError()
	for i := range timelines {
		i := i
		fetch.Go(func(ctx context.Context) error {
			events, err := s.feed.FetchBatterEvents(ctx, timelines[i].Entry.PlayerID, start, end)
			if err != nil {
				return dependencyError("fetch events player="+timelines[i].Player, err)
			}
			timelines[i].Records = homerun.BuildTimeline(ctx, events, timelines[i].Entry.TeamCode, s)
			if len(timelines[i].Records) == 0 {
				timelines[i].Message = homerun.EmptyLogMessage
			}
			return nil
		})
	}
	if err := fetch.Wait(); err != nil {
		return Comparison{}, err
	}

	warnings := homerun.EarlyStartWarnings(start,
		homerun.Selection{Player: timelines[0].Player, TeamCode: timelines[0].Entry.TeamCode},
		homerun.Selection{Player: timelines[1].Player, TeamCode: timelines[1].Entry.TeamCode},
	)

	s.logger.DebugContext(ctx, "comparison built",
		"player1", timelines[0].Player,
		"player1_hr", len(timelines[0].Records),
		"player2", timelines[1].Player,
		"player2_hr", len(timelines[1].Records),
	)

	return Comparison{
		Start:      start,
		End:        end,
		Players:    timelines,
		HeadToHead: homerun.HeadToHead(timelines[0].Player, timelines[0].Records, timelines[1].Player, timelines[1].Records),
		Warnings:   warnings,
	}, nil
}

// PitcherName resolves a pitcher through the shared name cache.
func (s *PaceService) PitcherName(ctx context.Context, pitcherID int64) (string, error) {
	key := pitcherCacheKeyPrefix + strconv.FormatInt(pitcherID, 10)
	value, err := s.pitcherCache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		name, err := s.people.FetchPersonName(ctx, pitcherID)
		if err != nil {
			return nil, err
		}
		return name, nil
	})
	if err != nil {
		s.logger.DebugContext(ctx, "pitcher lookup failed", "pitcher_id", pitcherID, "error", err)
		return "", err
	}
	return value.(string), nil
}

func (s *PaceService) window(input ComparisonInput) (time.Time, time.Time, error) {
	start := homerun.TokyoOpener
	if input.Start != nil {
		start = homerun.Day(*input.Start)
	}
	end := homerun.Day(s.clock.Now())
	if input.End != nil {
		end = homerun.Day(*input.End)
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start %s is after end %s",
			ErrInvalidInput, start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	return start, end, nil
}

// resolveSelection maps a chosen name to its roster entry. When teamCode is
// set the name must appear on that team's roster.
func resolveSelection(snap *Snapshot, name, teamCode string) (PlayerTimeline, error) {
	name = strings.TrimSpace(name)
	teamCode = strings.ToUpper(strings.TrimSpace(teamCode))

	if teamCode != "" {
		if _, ok := snap.Team(teamCode); !ok {
			return PlayerTimeline{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamCode)
		}
		if !containsName(snap.Index.TeamNames(teamCode), name) {
			return PlayerTimeline{}, &PlayerNotFoundError{
				Name:        name,
				TeamCode:    teamCode,
				Suggestions: suggestionNames(snap.Index, name),
			}
		}
	}

	entry, ok := snap.Index.Lookup(name)
	if !ok {
		return PlayerTimeline{}, &PlayerNotFoundError{
			Name:        name,
			Suggestions: suggestionNames(snap.Index, name),
		}
	}

	team, _ := snap.Team(entry.TeamCode)
	return PlayerTimeline{
		Player:   name,
		Entry:    entry,
		Team:     team,
		ImageURL: roster.HeadshotURL(entry.PlayerID),
	}, nil
}

func suggestionNames(idx *roster.Index, name string) []string {
	candidates := idx.Suggest(name, maxPlayerSuggestions, roster.DefaultMinSimilarity)
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.Name)
	}
	return out
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
