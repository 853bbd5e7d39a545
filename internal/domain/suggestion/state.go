package suggestion

import (
	"github.com/Ashenden365/mlb-hr-ai/internal/domain/roster"
)

// Status is the outcome of the latest suggestion request.
type Status string

const (
	StatusNone    Status = "none"
	StatusError   Status = "error"
	StatusSuccess Status = "success"
)

const (
	NotFoundMessage    = "No suitable suggestion found. Please try again."
	transportErrPrefix = "Error: "
)

// Player is a suggested name together with the roster entry it resolved to.
// Entry is nil when the name could not be matched.
type Player struct {
	Name  string
	Entry *roster.Entry
}

// ImageURL is empty for unresolved players.
func (p Player) ImageURL() string {
	if p.Entry == nil {
		return ""
	}
	return roster.HeadshotURL(p.Entry.PlayerID)
}

type ResolvedPair struct {
	Players []Player
	Reason  string
}

// State holds exactly one of: nothing yet, an error message, or the pairs.
type State struct {
	status  Status
	message string
	pairs   []ResolvedPair
}

func Failed(message string) State {
	return State{status: StatusError, message: message}
}

// TransportFailed is the state after the model endpoint could not be reached.
func TransportFailed(err error) State {
	return Failed(transportErrPrefix + err.Error())
}

func NotFound() State {
	return Failed(NotFoundMessage)
}

func Succeeded(pairs []ResolvedPair) State {
	return State{status: StatusSuccess, pairs: pairs}
}

func (s State) Status() Status {
	if s.status == "" {
		return StatusNone
	}
	return s.status
}

// Message is set only in the error state.
func (s State) Message() string {
	return s.message
}

// Pairs is set only in the success state.
func (s State) Pairs() []ResolvedPair {
	return s.pairs
}

// Resolve decorates a parsed pair with roster entries: exact lookup first,
// then the fuzzy matcher.
func Resolve(pair Pair, idx *roster.Index) ResolvedPair {
	out := ResolvedPair{
		Players: make([]Player, 0, len(pair.Players)),
		Reason:  pair.Reason,
	}
	for _, name := range pair.Players {
		player := Player{Name: name}
		if entry, ok := idx.Lookup(name); ok {
			player.Entry = &entry
		} else if entry, ok := idx.FuzzyLookup(name); ok {
			player.Entry = &entry
		}
		out.Players = append(out.Players, player)
	}
	return out
}
