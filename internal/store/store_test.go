// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"inkpress/internal/database"
	"inkpress/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with the development defaults.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkpress")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkpress")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testUser creates a throwaway user and registers cleanup for it and its
// categories and posts.
func testUser(t *testing.T, db *sql.DB, email string) *models.User {
	t.Helper()

	users := NewUserStore(db)
	user, err := users.Create(email, "password123", "Test Author")
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM posts WHERE author_id = $1", user.ID)
		db.Exec("DELETE FROM categories WHERE author_id = $1", user.ID)
		db.Exec("DELETE FROM users WHERE id = $1", user.ID)
	})
	return user
}

// testCategory inserts a category for the given owner. Cleanup rides on the
// owner's cascade in testUser.
func testCategory(t *testing.T, db *sql.DB, title string, ownerID uuid.UUID) *models.Category {
	t.Helper()

	cats := NewCategoryStore(db)
	c, err := cats.Create(title, "test description", ownerID)
	if err != nil {
		t.Fatalf("create test category: %v", err)
	}
	return c
}
