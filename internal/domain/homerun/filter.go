package homerun

import (
	"context"
	"sort"
	"strconv"
)

const labelLayout = "01-02"

// PitcherNamer resolves a pitcher id to a display name.
type PitcherNamer interface {
	PitcherName(ctx context.Context, pitcherID int64) (string, error)
}

// BuildTimeline turns a batter's pitch log into numbered home-run records:
// ineligible dates for teamCode are dropped, then non home runs, then the rest
// is stably sorted by day and numbered 1..N. A missing pitcher id yields an
// empty pitcher name; a failed lookup yields the id in decimal. An empty
// result is not an error.
func BuildTimeline(ctx context.Context, events []PitchEvent, teamCode string, namer PitcherNamer) []Record {
	kept := make([]PitchEvent, 0, len(events))
	for _, ev := range events {
		if !IsEligible(teamCode, ev.GameDate) {
			continue
		}
		if !ev.IsHomeRun() {
			continue
		}
		kept = append(kept, ev)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return Day(kept[i].GameDate).Before(Day(kept[j].GameDate))
	})

	names := make(map[int64]string)
	out := make([]Record, 0, len(kept))
	for i, ev := range kept {
		day := Day(ev.GameDate)
		out = append(out, Record{
			Number:    i + 1,
			Date:      day,
			Label:     day.Format(labelLayout),
			HomeTeam:  ev.HomeTeam,
			AwayTeam:  ev.AwayTeam,
			PitcherID: ev.PitcherID,
			Pitcher:   pitcherName(ctx, namer, ev.PitcherID, names),
		})
	}

	return out
}

func pitcherName(ctx context.Context, namer PitcherNamer, pitcherID *int64, seen map[int64]string) string {
	if pitcherID == nil {
		return ""
	}
	id := *pitcherID
	if name, ok := seen[id]; ok {
		return name
	}

	name := strconv.FormatInt(id, 10)
	if namer != nil {
		if resolved, err := namer.PitcherName(ctx, id); err == nil && resolved != "" {
			name = resolved
		}
	}
	seen[id] = name
	return name
}
