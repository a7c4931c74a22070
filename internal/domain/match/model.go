package match

import (
	"strings"
	"time"

	"github.com/riskibarqy/matchday-predictor/internal/domain/team"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusTimed     = "TIMED"
	StatusInPlay    = "IN_PLAY"
	StatusPaused    = "PAUSED"
	StatusFinished  = "FINISHED"
	StatusSuspended = "SUSPENDED"
	StatusPostponed = "POSTPONED"
	StatusCancelled = "CANCELLED"
)

// Match represents one fixture on the league calendar.
type Match struct {
	ID       int64
	Matchday int
	UTCDate  time.Time
	Status   string
	HomeTeam team.Team
	AwayTeam team.Team
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

// IsUpcomingStatus reports whether the match has yet to kick off.
func IsUpcomingStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusScheduled, StatusTimed:
		return true
	default:
		return false
	}
}
