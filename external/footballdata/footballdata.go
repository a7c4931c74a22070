package footballdata

// Envelope types for the football-data.org v4 API. Only the fields the
// predictor reads are mapped; everything else in the payload is ignored.

type standingsEnvelope struct {
	Standings []standingsTable `json:"standings"`
}

type standingsTable struct {
	Stage string         `json:"stage"`
	Type  string         `json:"type"`
	Table []standingsRow `json:"table"`
}

type standingsRow struct {
	Position       int     `json:"position"`
	Team           teamRef `json:"team"`
	PlayedGames    int     `json:"playedGames"`
	Form           string  `json:"form"`
	Won            int     `json:"won"`
	Draw           int     `json:"draw"`
	Lost           int     `json:"lost"`
	Points         int     `json:"points"`
	GoalsFor       int     `json:"goalsFor"`
	GoalsAgainst   int     `json:"goalsAgainst"`
	GoalDifference int     `json:"goalDifference"`
}

type matchesEnvelope struct {
	Matches []matchItem `json:"matches"`
}

type matchItem struct {
	ID       int64   `json:"id"`
	UTCDate  string  `json:"utcDate"`
	Status   string  `json:"status"`
	Matchday int     `json:"matchday"`
	HomeTeam teamRef `json:"homeTeam"`
	AwayTeam teamRef `json:"awayTeam"`
}

type teamRef struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	TLA       string `json:"tla"`
	Crest     string `json:"crest"`
}
