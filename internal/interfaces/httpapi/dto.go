package httpapi

import (
	"time"

	"github.com/Ashenden365/mlb-hr-ai/internal/domain/homerun"
	"github.com/Ashenden365/mlb-hr-ai/internal/domain/roster"
	"github.com/Ashenden365/mlb-hr-ai/internal/domain/suggestion"
	"github.com/Ashenden365/mlb-hr-ai/internal/usecase"
)

type suggestRequest struct {
	Player1 string `json:"player1" validate:"required,max=100"`
	Player2 string `json:"player2" validate:"required,max=100"`
}

type teamDTO struct {
	Code     string `json:"code"`
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	TeamName string `json:"team_name"`
	Division string `json:"division,omitempty"`
	LogoURL  string `json:"logo_url"`
	SiteURL  string `json:"site_url"`
}

type divisionGroupDTO struct {
	League   string    `json:"league"`
	Division string    `json:"division"`
	Teams    []teamDTO `json:"teams"`
}

type teamPlayersDTO struct {
	Team    teamDTO  `json:"team"`
	Players []string `json:"players"`
}

type playerDTO struct {
	Name     string `json:"name"`
	PlayerID int64  `json:"player_id"`
	TeamCode string `json:"team_code"`
	ImageURL string `json:"image_url"`
}

type resolvePlayerDTO struct {
	Query   string     `json:"query"`
	Matched bool       `json:"matched"`
	Player  *playerDTO `json:"player,omitempty"`
}

type homeRunDTO struct {
	Number    int    `json:"number"`
	Date      string `json:"date"`
	Label     string `json:"label"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	PitcherID *int64 `json:"pitcher_id,omitempty"`
	Pitcher   string `json:"pitcher"`
}

type headToHeadDTO struct {
	Player string `json:"player"`
	homeRunDTO
}

type playerTimelineDTO struct {
	Player   string       `json:"player"`
	PlayerID int64        `json:"player_id"`
	Team     teamDTO      `json:"team"`
	ImageURL string       `json:"image_url"`
	HomeRuns []homeRunDTO `json:"home_runs"`
	Total    int          `json:"total"`
	Message  string       `json:"message,omitempty"`
}

type comparisonDTO struct {
	Start      string              `json:"start"`
	End        string              `json:"end"`
	Players    []playerTimelineDTO `json:"players"`
	HeadToHead []headToHeadDTO     `json:"head_to_head,omitempty"`
	Warnings   []string            `json:"warnings,omitempty"`
}

type suggestedPlayerDTO struct {
	Name     string `json:"name"`
	PlayerID *int64 `json:"player_id,omitempty"`
	TeamCode string `json:"team_code,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type suggestedPairDTO struct {
	Players []suggestedPlayerDTO `json:"players"`
	Reason  string               `json:"reason"`
}

type suggestionDTO struct {
	State          string             `json:"state"`
	Message        string             `json:"message,omitempty"`
	Pairs          []suggestedPairDTO `json:"pairs,omitempty"`
	ElapsedSeconds float64            `json:"elapsed_seconds"`
}

func teamToDTO(t roster.Team) teamDTO {
	return teamDTO{
		Code:     t.Code,
		ID:       t.ID,
		Name:     t.Name,
		TeamName: t.TeamName,
		Division: t.Division,
		LogoURL:  t.LogoURL(),
		SiteURL:  t.SiteURL(),
	}
}

func divisionGroupsToDTO(groups []roster.DivisionGroup) []divisionGroupDTO {
	out := make([]divisionGroupDTO, 0, len(groups))
	for _, g := range groups {
		teams := make([]teamDTO, 0, len(g.Teams))
		for _, t := range g.Teams {
			teams = append(teams, teamToDTO(t))
		}
		out = append(out, divisionGroupDTO{League: g.League, Division: g.Division, Teams: teams})
	}
	return out
}

func homeRunToDTO(r homerun.Record) homeRunDTO {
	return homeRunDTO{
		Number:    r.Number,
		Date:      r.Date.Format(time.DateOnly),
		Label:     r.Label,
		HomeTeam:  r.HomeTeam,
		AwayTeam:  r.AwayTeam,
		PitcherID: r.PitcherID,
		Pitcher:   r.Pitcher,
	}
}

func comparisonToDTO(c usecase.Comparison) comparisonDTO {
	players := make([]playerTimelineDTO, 0, len(c.Players))
	for _, p := range c.Players {
		homeRuns := make([]homeRunDTO, 0, len(p.Records))
		for _, r := range p.Records {
			homeRuns = append(homeRuns, homeRunToDTO(r))
		}
		players = append(players, playerTimelineDTO{
			Player:   p.Player,
			PlayerID: p.Entry.PlayerID,
			Team:     teamToDTO(p.Team),
			ImageURL: p.ImageURL,
			HomeRuns: homeRuns,
			Total:    len(homeRuns),
			Message:  p.Message,
		})
	}

	var h2h []headToHeadDTO
	for _, r := range c.HeadToHead {
		h2h = append(h2h, headToHeadDTO{Player: r.Player, homeRunDTO: homeRunToDTO(r.Record)})
	}

	return comparisonDTO{
		Start:      c.Start.Format(time.DateOnly),
		End:        c.End.Format(time.DateOnly),
		Players:    players,
		HeadToHead: h2h,
		Warnings:   c.Warnings,
	}
}

func suggestionToDTO(result usecase.SuggestionResult) suggestionDTO {
	state := result.State
	out := suggestionDTO{
		State:          string(state.Status()),
		Message:        state.Message(),
		ElapsedSeconds: result.Elapsed.Seconds(),
	}
	for _, pair := range state.Pairs() {
		out.Pairs = append(out.Pairs, suggestedPairToDTO(pair))
	}
	return out
}

func suggestedPairToDTO(pair suggestion.ResolvedPair) suggestedPairDTO {
	players := make([]suggestedPlayerDTO, 0, len(pair.Players))
	for _, p := range pair.Players {
		item := suggestedPlayerDTO{Name: p.Name, ImageURL: p.ImageURL()}
		if p.Entry != nil {
			id := p.Entry.PlayerID
			item.PlayerID = &id
			item.TeamCode = p.Entry.TeamCode
		}
		players = append(players, item)
	}
	return suggestedPairDTO{Players: players, Reason: pair.Reason}
}
