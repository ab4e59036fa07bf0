package models

import "time"

// ChampionshipStatus mirrors the championship_status ENUM in the database.
type ChampionshipStatus string

const (
	ChampionshipUpcoming   ChampionshipStatus = "upcoming"
	ChampionshipOpen       ChampionshipStatus = "open"
	ChampionshipInProgress ChampionshipStatus = "in_progress"
	ChampionshipCompleted  ChampionshipStatus = "completed"
	ChampionshipCanceled   ChampionshipStatus = "canceled"
)

type Championship struct {
	ID                   int                `json:"id" db:"id"`
	Name                 string             `json:"name" db:"name"`
	Slug                 string             `json:"slug" db:"slug"`
	Description          *string            `json:"description,omitempty" db:"description"`
	Discipline           string             `json:"discipline" db:"discipline"`
	OrganizerID          int                `json:"organizer_id" db:"organizer_id"`
	SlotsTotal           int                `json:"slots_total" db:"slots_total"`
	SlotsFilled          int                `json:"slots_filled" db:"slots_filled"`
	RegistrationDeadline time.Time          `json:"registration_deadline" db:"registration_deadline"`
	StartDate            time.Time          `json:"start_date" db:"start_date"`
	EndDate              time.Time          `json:"end_date" db:"end_date"`
	Status               ChampionshipStatus `json:"status" db:"status"`
	CreatedAt            time.Time          `json:"created_at" db:"created_at"`
	LogoKey              *string            `json:"-" db:"logo_key"`
	LogoURL              *string            `json:"logo_url,omitempty" db:"-"`

	// Optional linked data, populated by the service layer.
	Organizer     *User          `json:"organizer,omitempty" db:"-"`
	Registrations []Registration `json:"registrations,omitempty" db:"-"`
	Matches       []Match        `json:"matches,omitempty" db:"-"`
}
