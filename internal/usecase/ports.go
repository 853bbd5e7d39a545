package usecase

import (
	"context"
	"time"

	"github.com/Ashenden365/mlb-hr-ai/internal/domain/homerun"
	"github.com/Ashenden365/mlb-hr-ai/internal/domain/roster"
)

// ReferenceProvider supplies the team list and per-team active rosters.
type ReferenceProvider interface {
	FetchTeams(ctx context.Context) ([]roster.Team, error)
	FetchActiveRoster(ctx context.Context, team roster.Team) ([]roster.Entry, error)
}

// PeopleDirectory resolves MLB person ids to display names.
type PeopleDirectory interface {
	FetchPersonName(ctx context.Context, personID int64) (string, error)
}

// EventFeed returns a batter's pitch log for an inclusive date window.
type EventFeed interface {
	FetchBatterEvents(ctx context.Context, batterID int64, start, end time.Time) ([]homerun.PitchEvent, error)
}

// TextGenerator sends one prompt to a hosted language model.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
