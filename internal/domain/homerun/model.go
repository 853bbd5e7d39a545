package homerun

import "time"

const EventHomeRun = "home_run"

// PitchEvent is one row of a batter's Statcast pitch log. PitcherID is nil
// when the feed leaves the pitcher column empty.
type PitchEvent struct {
	GameDate  time.Time
	Event     string
	BatterID  int64
	PitcherID *int64
	HomeTeam  string
	AwayTeam  string
	GamePK    int64
	Inning    int
}

func (e PitchEvent) IsHomeRun() bool {
	return e.Event == EventHomeRun
}

// Record is one counted home run. Number is the running total, starting at 1.
type Record struct {
	Number    int
	Date      time.Time
	Label     string
	HomeTeam  string
	AwayTeam  string
	PitcherID *int64
	Pitcher   string
}

// Day truncates t to its calendar date in UTC, keeping t's wall-clock
// year/month/day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
