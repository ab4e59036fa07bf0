package models

import "time"

// RegistrationStatus mirrors the registration_status ENUM in the database.
// Approved and rejected are terminal.
type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "pending"
	RegistrationApproved RegistrationStatus = "approved"
	RegistrationRejected RegistrationStatus = "rejected"
)

type Registration struct {
	ID             int                `json:"id" db:"id"`
	ChampionshipID int                `json:"championship_id" db:"championship_id"`
	TeamID         int                `json:"team_id" db:"team_id"`
	Status         RegistrationStatus `json:"status" db:"status"`
	ContactEmail   string             `json:"contact_email" db:"contact_email"`
	ContactPhone   *string            `json:"contact_phone,omitempty" db:"contact_phone"`
	RejectReason   *string            `json:"reject_reason,omitempty" db:"reject_reason"`
	RegisteredAt   time.Time          `json:"registered_at" db:"registered_at"`

	Team         *Team         `json:"team,omitempty" db:"-"`
	Championship *Championship `json:"-" db:"-"`
}
