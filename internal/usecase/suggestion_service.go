package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Ashenden365/mlb-hr-ai/internal/domain/roster"
	"github.com/Ashenden365/mlb-hr-ai/internal/domain/suggestion"
	"github.com/Ashenden365/mlb-hr-ai/internal/platform/logging"
)

const (
	defaultSuggestionTries   = 3
	defaultSuggestionTimeout = 60 * time.Second
)

type SuggestionConfig struct {
	Tries   int
	Timeout time.Duration
}

type SuggestionResult struct {
	State   suggestion.State
	Elapsed time.Duration
}

type SuggestionService struct {
	reference *ReferenceService
	generator TextGenerator
	tries     int
	timeout   time.Duration
	clock     clockwork.Clock
	logger    *logging.Logger
}

func NewSuggestionService(
	reference *ReferenceService,
	generator TextGenerator,
	cfg SuggestionConfig,
	clock clockwork.Clock,
	logger *logging.Logger,
) *SuggestionService {
	if cfg.Tries <= 0 {
		cfg.Tries = defaultSuggestionTries
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultSuggestionTimeout
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SuggestionService{
		reference: reference,
		generator: generator,
		tries:     cfg.Tries,
		timeout:   cfg.Timeout,
		clock:     clock,
		logger:    logger,
	}
}

// Suggest asks the model for another pair to compare. Model and parse
// failures are reported inside the returned state, not as an error.
func (s *SuggestionService) Suggest(ctx context.Context, player1, player2 string) (SuggestionResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SuggestionService.Suggest")
	defer span.End()

	player1 = strings.TrimSpace(player1)
	player2 = strings.TrimSpace(player2)
	if player1 == "" || player2 == "" {
		return SuggestionResult{}, fmt.Errorf("%w: player1 and player2 are required", ErrInvalidInput)
	}

	started := s.clock.Now()
	prompt := suggestion.BuildPrompt(player1, player2)

	var (
		pair    suggestion.Pair
		parsed  bool
		lastErr error
	)
	for attempt := 1; attempt <= s.tries && !parsed; attempt++ {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}

		reply, err := s.generate(ctx, prompt)
		if err != nil {
			lastErr = err
			s.logger.WarnContext(ctx, "suggestion request failed",
				"attempt", attempt,
				"tries", s.tries,
				"error", err,
			)
			continue
		}

		lastErr = nil
		pair, parsed = suggestion.ParseReply(reply)
		if !parsed {
			s.logger.DebugContext(ctx, "suggestion reply not parseable", "attempt", attempt)
		}
	}

	var state suggestion.State
	switch {
	case parsed:
		state = suggestion.Succeeded([]suggestion.ResolvedPair{suggestion.Resolve(pair, s.index(ctx))})
	case lastErr != nil:
		state = suggestion.TransportFailed(lastErr)
	default:
		state = suggestion.NotFound()
	}

	return SuggestionResult{
		State:   state,
		Elapsed: s.clock.Since(started),
	}, nil
}

func (s *SuggestionService) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.generator.Generate(ctx, prompt)
}

// index returns nil when reference data is unavailable; suggested names then
// stay unresolved.
func (s *SuggestionService) index(ctx context.Context) *roster.Index {
	snap, err := s.reference.Snapshot(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "reference data unavailable for suggestion", "error", err)
		return nil
	}
	return snap.Index
}
