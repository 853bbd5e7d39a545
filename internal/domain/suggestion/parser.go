package suggestion

import (
	"regexp"
	"strings"
)

var (
	replyPattern   = regexp.MustCompile(`(?s)Pair:\s*(.+?)\nReason:\s*(.+)`)
	nameSeparators = regexp.MustCompile(` and | & `)
)

// Pair is one suggested pairing as written by the model.
type Pair struct {
	Players []string
	Reason  string
}

// ParseReply extracts the "Pair: A and B\nReason: ..." block from free model
// text. The second return is false when the markers are missing.
func ParseReply(text string) (Pair, bool) {
	m := replyPattern.FindStringSubmatch(text)
	if m == nil {
		return Pair{}, false
	}

	parts := nameSeparators.Split(m[1], -1)
	players := make([]string, 0, len(parts))
	for _, p := range parts {
		players = append(players, strings.TrimSpace(p))
	}

	return Pair{
		Players: players,
		Reason:  strings.TrimSpace(m[2]),
	}, true
}
