package mlbstats

type teamsEnvelope struct {
	Teams []teamItem `json:"teams"`
}

type teamItem struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	TeamName     string       `json:"teamName"`
	Abbreviation string       `json:"abbreviation"`
	Active       bool         `json:"active"`
	Division     divisionItem `json:"division"`
}

type divisionItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type rosterEnvelope struct {
	Roster []rosterItem `json:"roster"`
}

type rosterItem struct {
	Person personRef `json:"person"`
}

type personRef struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
}

type peopleEnvelope struct {
	People []personItem `json:"people"`
}

type personItem struct {
	ID        int64  `json:"id"`
	FullName  string `json:"fullName"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	UseName   string `json:"useName"`
}
