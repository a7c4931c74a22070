package standings

import "github.com/riskibarqy/matchday-predictor/internal/domain/team"

// Entry represents a league table row for one team.
type Entry struct {
	Position       int
	Team           team.Team
	PlayedGames    int
	Won            int
	Draw           int
	Lost           int
	Points         int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Form           string
}
