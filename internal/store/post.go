package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

// PostStore manages posts in the database, scoped by the owning author.
type PostStore struct {
	db *sql.DB
}

// NewPostStore returns a new PostStore.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `id, title, description, content, thumbnail, status, category_id, author_id, created_at, updated_at`

// scanPost scans a row into a Post struct.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Description, &p.Content, &p.Thumbnail,
		&p.Status, &p.CategoryID, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByAuthor returns all posts owned by the author, newest first.
func (s *PostStore) ListByAuthor(ownerID uuid.UUID) ([]models.Post, error) {
	rows, err := s.db.Query(`
		SELECT `+postColumns+` FROM posts
		WHERE author_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// ListByCategory returns the owner's posts inside one category, newest first.
func (s *PostStore) ListByCategory(categoryID, ownerID uuid.UUID) ([]models.Post, error) {
	rows, err := s.db.Query(`
		SELECT `+postColumns+` FROM posts
		WHERE category_id = $1 AND author_id = $2
		ORDER BY created_at DESC
	`, categoryID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list posts by category: %w", err)
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// FindByID retrieves a post by ID, scoped to the owner. Returns nil if no
// post with that ID belongs to the owner.
func (s *PostStore) FindByID(id, ownerID uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(`
		SELECT `+postColumns+` FROM posts
		WHERE id = $1 AND author_id = $2
	`, id, ownerID)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// FindByTitle retrieves a post by exact title, scoped to the owner.
// Used for the per-author title uniqueness check before insert.
func (s *PostStore) FindByTitle(title string, ownerID uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(`
		SELECT `+postColumns+` FROM posts
		WHERE title = $1 AND author_id = $2
	`, title, ownerID)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by title: %w", err)
	}
	return p, nil
}

// Create inserts a new post for the owner and returns it.
func (s *PostStore) Create(title string, description *string, content, thumbnail string, categoryID, ownerID uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(`
		INSERT INTO posts (title, description, content, thumbnail, category_id, author_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+postColumns,
		title, description, content, thumbnail, categoryID, ownerID,
	)
	p, err := scanPost(row)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return p, nil
}

// DeleteByCategory removes every post referencing the category and returns
// the number of rows deleted. One leg of the cascading category delete.
func (s *PostStore) DeleteByCategory(categoryID uuid.UUID) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM posts WHERE category_id = $1`, categoryID)
	if err != nil {
		return 0, fmt.Errorf("delete posts by category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete posts by category: %w", err)
	}
	return n, nil
}
