package models

import "time"

// Player is a roster entry of a team. A player may optionally be linked
// to a platform user account.
type Player struct {
	ID       int       `json:"id" db:"id"`
	TeamID   int       `json:"team_id" db:"team_id"`
	UserID   *int      `json:"user_id,omitempty" db:"user_id"`
	Handle   string    `json:"handle" db:"handle"`
	RealName *string   `json:"real_name,omitempty" db:"real_name"`
	JoinedAt time.Time `json:"joined_at" db:"joined_at"`
}
