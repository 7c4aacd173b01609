package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is an article belonging to exactly one category and one author.
// The owning category and user keep back-references to it in their
// owned-set columns, maintained procedurally by the resolver layer.
type Post struct {
	ID          uuid.UUID `json:"_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Content     string    `json:"content"`
	Thumbnail   string    `json:"thumbnail"`
	Status      Status    `json:"status"`
	CategoryID  uuid.UUID `json:"-"`
	AuthorID    uuid.UUID `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Virtual fields populated by the resolver layer (read-through join).
	Category *Category `json:"category,omitempty"`
	Author   *User     `json:"author,omitempty"`
}
