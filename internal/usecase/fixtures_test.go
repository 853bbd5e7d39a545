package usecase

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/mock"

	"github.com/Ashenden365/mlb-hr-ai/internal/domain/roster"
	"github.com/Ashenden365/mlb-hr-ai/internal/platform/cache"
	"github.com/Ashenden365/mlb-hr-ai/internal/platform/logging"
	usecasemock "github.com/Ashenden365/mlb-hr-ai/internal/mocks/usecase"
)

const (
	ohtaniID = int64(660271)
	bettsID  = int64(605141)
	judgeID  = int64(592450)
	suzukiID = int64(673548)
)

var (
	teamLAD = roster.Team{Code: "LAD", ID: 119, Name: "Los Angeles Dodgers", TeamName: "Dodgers", Division: "National League West"}
	teamNYY = roster.Team{Code: "NYY", ID: 147, Name: "New York Yankees", TeamName: "Yankees", Division: "American League East"}
	teamCHC = roster.Team{Code: "CHC", ID: 112, Name: "Chicago Cubs", TeamName: "Cubs", Division: "National League Central"}

	fixtureRosters = map[string][]roster.Entry{
		"LAD": {
			{Name: "Shohei Ohtani", PlayerID: ohtaniID, TeamCode: "LAD"},
			{Name: "Mookie Betts", PlayerID: bettsID, TeamCode: "LAD"},
		},
		"NYY": {
			{Name: "Aaron Judge", PlayerID: judgeID, TeamCode: "NYY"},
		},
		"CHC": {
			{Name: "Seiya Suzuki", PlayerID: suzukiID, TeamCode: "CHC"},
		},
	}
)

func newFixtureClock() *clockwork.FakeClock {
	return clockwork.NewFakeClockAt(time.Date(2025, 4, 2, 12, 0, 0, 0, time.UTC))
}

// expectReferenceLoad registers one full teams + rosters load on provider.
func expectReferenceLoad(provider *usecasemock.ReferenceProvider) {
	provider.
		On("FetchTeams", mock.Anything).
		Return([]roster.Team{teamNYY, teamLAD, teamCHC}, nil).
		Once()
	for _, team := range []roster.Team{teamNYY, teamLAD, teamCHC} {
		provider.
			On("FetchActiveRoster", mock.Anything, team).
			Return(fixtureRosters[team.Code], nil).
			Once()
	}
}

func newFixtureReferenceService(provider ReferenceProvider, clock clockwork.Clock) *ReferenceService {
	return NewReferenceService(
		provider,
		cache.NewStore(12*time.Hour, clock),
		ReferenceConfig{RosterWorkers: 2},
		clock,
		logging.NewNop(),
		nil,
	)
}
