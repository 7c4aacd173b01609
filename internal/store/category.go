package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

// CategoryStore manages categories in the database. Every read and write is
// scoped by the owning author's ID; no method bypasses the owner filter.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, title, description, status, author_id, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Title, &c.Description, &c.Status,
		&c.AuthorID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByAuthor returns all categories owned by the author, newest first.
func (s *CategoryStore) ListByAuthor(ownerID uuid.UUID) ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT `+categoryColumns+` FROM categories
		WHERE author_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID, scoped to the owner. Returns nil if
// no category with that ID belongs to the owner.
func (s *CategoryStore) FindByID(id, ownerID uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`
		SELECT `+categoryColumns+` FROM categories
		WHERE id = $1 AND author_id = $2
	`, id, ownerID)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindByTitle retrieves a category by exact title, scoped to the owner.
// Used for the per-author title uniqueness check before insert.
func (s *CategoryStore) FindByTitle(title string, ownerID uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`
		SELECT `+categoryColumns+` FROM categories
		WHERE title = $1 AND author_id = $2
	`, title, ownerID)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by title: %w", err)
	}
	return c, nil
}

// Create inserts a new category for the owner and returns it. Status
// defaults to Active.
func (s *CategoryStore) Create(title, description string, ownerID uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`
		INSERT INTO categories (title, description, author_id)
		VALUES ($1, $2, $3)
		RETURNING `+categoryColumns,
		title, description, ownerID,
	)
	c, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

// Update modifies title and description of an owner's category and returns
// the updated row. Returns nil if the owner has no category with that ID.
func (s *CategoryStore) Update(id, ownerID uuid.UUID, title, description string) (*models.Category, error) {
	row := s.db.QueryRow(`
		UPDATE categories SET title = $1, description = $2, updated_at = NOW()
		WHERE id = $3 AND author_id = $4
		RETURNING `+categoryColumns,
		title, description, id, ownerID,
	)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return c, nil
}

// UpdateStatus writes a new status to an owner's category and returns the
// updated row. Returns nil if the owner has no category with that ID.
func (s *CategoryStore) UpdateStatus(id, ownerID uuid.UUID, status models.Status) (*models.Category, error) {
	row := s.db.QueryRow(`
		UPDATE categories SET status = $1, updated_at = NOW()
		WHERE id = $2 AND author_id = $3
		RETURNING `+categoryColumns,
		status, id, ownerID,
	)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update category status: %w", err)
	}
	return c, nil
}

// Delete removes a category row by ID. The caller has already verified
// ownership; this is one leg of the cascading delete.
func (s *CategoryStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// AddPost appends a post ID to the category's owned-set back-reference.
func (s *CategoryStore) AddPost(categoryID, postID uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE categories SET post_ids = array_append(post_ids, $1), updated_at = NOW()
		WHERE id = $2
	`, postID, categoryID)
	if err != nil {
		return fmt.Errorf("add post to category: %w", err)
	}
	return nil
}
