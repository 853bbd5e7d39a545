package homerun

import (
	"fmt"
	"sort"
	"time"
)

// TaggedRecord is a Record attributed to one of the compared players.
type TaggedRecord struct {
	Player string
	Record
}

// HeadToHead merges both players' records into one series ordered by date,
// player one first on equal dates. It returns nil unless both players have
// at least one record.
func HeadToHead(player1 string, records1 []Record, player2 string, records2 []Record) []TaggedRecord {
	if len(records1) == 0 || len(records2) == 0 {
		return nil
	}

	out := make([]TaggedRecord, 0, len(records1)+len(records2))
	for _, r := range records1 {
		out = append(out, TaggedRecord{Player: player1, Record: r})
	}
	for _, r := range records2 {
		out = append(out, TaggedRecord{Player: player2, Record: r})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// Selection is one compared player as the caller chose them.
type Selection struct {
	Player   string
	TeamCode string
}

// EarlyStartWarnings lists a notice for every selected player whose team had
// no official games before the regular season when start precedes it.
func EarlyStartWarnings(start time.Time, selections ...Selection) []string {
	if !Day(start).Before(RegularSeasonStart) {
		return nil
	}

	var out []string
	for _, s := range selections {
		if IsExhibitionTeam(s.TeamCode) {
			continue
		}
		out = append(out, fmt.Sprintf(
			"No official MLB games for %s (%s) before %s.",
			s.Player, s.TeamCode, RegularSeasonStart.Format(time.DateOnly),
		))
	}
	return out
}

// EmptyLogMessage is shown in place of a player's table when no record
// survives filtering.
const EmptyLogMessage = "No HR data in selected period."
