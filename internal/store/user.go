// Package store provides database access methods for all inkpress entities.
// Each store struct wraps a *sql.DB and exposes typed query methods. Reads
// and writes on categories and posts are scoped by the owning author's ID so
// that no caller can reach another user's records, even with a leaked entity
// ID. Absence of a matching record is reported as (nil, nil), distinct from
// a storage failure.
package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"inkpress/internal/models"
)

// UserStore handles all user-related database operations, including the
// owned-set back-reference arrays (category_ids, post_ids).
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, email, password_hash, name, totp_secret, totp_enabled, created_at, updated_at`

// scanUser scans a row into a User struct.
func scanUser(scanner interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := scanner.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name,
		&u.TOTPSecret, &u.TOTPEnabled, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByEmail retrieves a user by their email address. Returns nil if not found.
func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by their UUID. Returns nil if not found.
func (s *UserStore) FindByID(id uuid.UUID) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// Create inserts a new user with a bcrypt-hashed password.
func (s *UserStore) Create(email, password, name string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	row := s.db.QueryRow(`
		INSERT INTO users (email, password_hash, name)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		email, string(hash), name,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// CheckPassword verifies a plaintext password against the user's stored hash.
func (s *UserStore) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// AddCategory appends a category ID to the user's owned-set back-reference.
func (s *UserStore) AddCategory(userID, categoryID uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE users SET category_ids = array_append(category_ids, $1), updated_at = NOW()
		WHERE id = $2
	`, categoryID, userID)
	if err != nil {
		return fmt.Errorf("add category to user: %w", err)
	}
	return nil
}

// RemoveCategory removes a category ID from the user's owned-set back-reference.
func (s *UserStore) RemoveCategory(userID, categoryID uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE users SET category_ids = array_remove(category_ids, $1), updated_at = NOW()
		WHERE id = $2
	`, categoryID, userID)
	if err != nil {
		return fmt.Errorf("remove category from user: %w", err)
	}
	return nil
}

// AddPost appends a post ID to the user's owned-set back-reference.
func (s *UserStore) AddPost(userID, postID uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE users SET post_ids = array_append(post_ids, $1), updated_at = NOW()
		WHERE id = $2
	`, postID, userID)
	if err != nil {
		return fmt.Errorf("add post to user: %w", err)
	}
	return nil
}

// OwnsCategory reports whether the category ID is present in the user's
// owned-set back-reference array.
func (s *UserStore) OwnsCategory(userID, categoryID uuid.UUID) (bool, error) {
	var owns bool
	err := s.db.QueryRow(`
		SELECT $1 = ANY(category_ids) FROM users WHERE id = $2
	`, categoryID, userID).Scan(&owns)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check owned category: %w", err)
	}
	return owns, nil
}

// SetTOTPSecret saves the TOTP secret for a user (during 2FA setup).
func (s *UserStore) SetTOTPSecret(userID uuid.UUID, secret string) error {
	_, err := s.db.Exec(`
		UPDATE users SET totp_secret = $1, updated_at = NOW() WHERE id = $2
	`, secret, userID)
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	return nil
}

// EnableTOTP marks 2FA as active for a user (after successful code verification).
func (s *UserStore) EnableTOTP(userID uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE users SET totp_enabled = TRUE, updated_at = NOW() WHERE id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	return nil
}
