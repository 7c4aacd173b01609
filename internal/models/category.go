package models

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the visibility state of a category or post.
// It is only ever toggled between the two values, never set arbitrarily.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// Toggled returns the opposite status.
func (s Status) Toggled() Status {
	if s == StatusActive {
		return StatusInactive
	}
	return StatusActive
}

// Category groups posts for one author. Titles are unique per author, checked
// at the application level before insert — two authors may share a title.
type Category struct {
	ID          uuid.UUID `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	AuthorID    uuid.UUID `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Virtual fields populated by the resolver layer (read-through join).
	Posts  []Post `json:"posts,omitempty"`
	Author *User  `json:"author,omitempty"`
}
