package models

import "time"

type MatchStatus string

const (
	MatchScheduled  MatchStatus = "scheduled"
	MatchInProgress MatchStatus = "in_progress"
	MatchFinished   MatchStatus = "finished"
	MatchCanceled   MatchStatus = "canceled"
	MatchPostponed  MatchStatus = "postponed"
)

// Match is a single contest between two distinct teams of one championship.
// Scores and the winner reference are set exactly once, when the match is
// finalized; WinnerTeamID is nil for a draw.
type Match struct {
	ID             int         `json:"id" db:"id"`
	ChampionshipID int         `json:"championship_id" db:"championship_id"`
	TeamAID        int         `json:"team_a_id" db:"team_a_id"`
	TeamBID        int         `json:"team_b_id" db:"team_b_id"`
	ScoreA         *int        `json:"score_a,omitempty" db:"score_a"`
	ScoreB         *int        `json:"score_b,omitempty" db:"score_b"`
	WinnerTeamID   *int        `json:"winner_team_id,omitempty" db:"winner_team_id"`
	ScheduledAt    time.Time   `json:"scheduled_at" db:"scheduled_at"`
	Status         MatchStatus `json:"status" db:"status"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`

	TeamA *Team `json:"team_a,omitempty" db:"-"`
	TeamB *Team `json:"team_b,omitempty" db:"-"`
}
