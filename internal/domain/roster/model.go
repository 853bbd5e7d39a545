package roster

import (
	"fmt"
	"sort"
	"strings"
)

const (
	logoURLFormat     = "https://www.mlbstatic.com/team-logos/%d.svg"
	siteURLFormat     = "https://www.mlb.com/%s"
	headshotURLFormat = "https://img.mlbstatic.com/mlb-photos/image/upload/w_180,q_100/v1/people/%d/headshot/67/current.png"
)

// Team is an active MLB club keyed by its abbreviation.
type Team struct {
	Code     string
	ID       int64
	Name     string
	TeamName string
	Division string
}

func (t Team) Validate() error {
	if t.Code == "" {
		return fmt.Errorf("team code is required")
	}
	if t.ID <= 0 {
		return fmt.Errorf("team id must be greater than zero")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}

func (t Team) LogoURL() string {
	return fmt.Sprintf(logoURLFormat, t.ID)
}

// Slug is the club's mlb.com path segment, e.g. "red-sox".
func (t Team) Slug() string {
	return strings.ReplaceAll(strings.ToLower(t.TeamName), " ", "-")
}

func (t Team) SiteURL() string {
	return fmt.Sprintf(siteURLFormat, t.Slug())
}

// Entry is one row of a team's active roster.
type Entry struct {
	Name     string
	PlayerID int64
	TeamCode string
}

func (e Entry) Valid() bool {
	return e.Name != "" && e.PlayerID != 0
}

func HeadshotURL(playerID int64) string {
	return fmt.Sprintf(headshotURLFormat, playerID)
}

// DivisionGroup is one of the six league/division blocks.
type DivisionGroup struct {
	League   string
	Division string
	Teams    []Team
}

var (
	leagues   = []string{"American", "National"}
	divisions = []string{"East", "Central", "West"}
)

// GroupByDivision buckets teams into the six league/division blocks, in
// AL East..NL West order with teams sorted by code. A team whose division
// name matches no block is left out.
func GroupByDivision(teams []Team) []DivisionGroup {
	out := make([]DivisionGroup, 0, len(leagues)*len(divisions))
	for _, league := range leagues {
		for _, division := range divisions {
			group := DivisionGroup{League: league, Division: division}
			for _, t := range teams {
				if strings.Contains(t.Division, league) && strings.Contains(t.Division, division) {
					group.Teams = append(group.Teams, t)
				}
			}
			sort.Slice(group.Teams, func(i, j int) bool {
				return group.Teams[i].Code < group.Teams[j].Code
			})
			out = append(out, group)
		}
	}
	return out
}
