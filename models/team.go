package models

import "time"

// Team carries the federation-wide competitive record alongside identity.
// Wins, losses, draws and points are mutated only by match settlement;
// rank positions only by the standings recompute. A zero RankPosition
// means the team has not been ranked yet.
type Team struct {
	ID                   int       `json:"id" db:"id"`
	Name                 string    `json:"name" db:"name"`
	Slug                 string    `json:"slug" db:"slug"`
	CaptainID            *int      `json:"captain_id,omitempty" db:"captain_id"`
	Wins                 int       `json:"wins" db:"wins"`
	Losses               int       `json:"losses" db:"losses"`
	Draws                int       `json:"draws" db:"draws"`
	Points               int       `json:"points" db:"points"`
	RankPosition         int       `json:"rank_position" db:"rank_position"`
	PreviousRankPosition int       `json:"previous_rank_position" db:"previous_rank_position"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`

	Players []Player `json:"players,omitempty" db:"-"`
}
