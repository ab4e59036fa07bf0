package models

import "time"

type NewsPost struct {
	ID          int        `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Slug        string     `json:"slug" db:"slug"`
	Body        string     `json:"body" db:"body"`
	AuthorID    int        `json:"author_id" db:"author_id"`
	PublishedAt *time.Time `json:"published_at,omitempty" db:"published_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`

	Author *User `json:"author,omitempty" db:"-"`
}
