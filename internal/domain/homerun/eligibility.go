package homerun

import "time"

var (
	// TokyoOpener and TokyoSecond are the two Tokyo Series games played by
	// the exhibition teams before the rest of the league opened.
	TokyoOpener        = time.Date(2025, time.March, 18, 0, 0, 0, 0, time.UTC)
	TokyoSecond        = time.Date(2025, time.March, 19, 0, 0, 0, 0, time.UTC)
	RegularSeasonStart = time.Date(2025, time.March, 27, 0, 0, 0, 0, time.UTC)
)

var exhibitionTeams = map[string]struct{}{
	"LAD": {},
	"CHC": {},
}

func IsExhibitionTeam(teamCode string) bool {
	_, ok := exhibitionTeams[teamCode]
	return ok
}

// IsEligible reports whether a game on date counts toward teamCode's official
// tally. Only the calendar day of date is considered.
func IsEligible(teamCode string, date time.Time) bool {
	day := Day(date)
	if !day.Before(RegularSeasonStart) {
		return true
	}
	if !IsExhibitionTeam(teamCode) {
		return false
	}
	return day.Equal(TokyoOpener) || day.Equal(TokyoSecond)
}
