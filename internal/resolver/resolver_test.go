// resolver_test.go provides shared fixtures for resolver integration tests.
// Tests needing PostgreSQL are skipped when it is not reachable.
package resolver

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"inkpress/internal/database"
	"inkpress/internal/models"
	"inkpress/internal/store"
)

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

// fixture bundles the stores and resolvers over one test database.
type fixture struct {
	db         *sql.DB
	users      *store.UserStore
	categories *Category
	posts      *Post
}

func newFixture(t *testing.T) *fixture {
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

	users := store.NewUserStore(db)
	categories := store.NewCategoryStore(db)
	posts := store.NewPostStore(db)

	return &fixture{
		db:         db,
		users:      users,
		categories: NewCategory(categories, posts, users),
		posts:      NewPost(posts, categories, users),
	}
}

// user creates a throwaway account and registers cleanup of everything it owns.
func (f *fixture) user(t *testing.T, email string) *models.User {
	t.Helper()

	u, err := f.users.Create(email, "password123", "Test Author")
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() {
		f.db.Exec("DELETE FROM posts WHERE author_id = $1", u.ID)
		f.db.Exec("DELETE FROM categories WHERE author_id = $1", u.ID)
		f.db.Exec("DELETE FROM users WHERE id = $1", u.ID)
	})
	return u
}

// category creates a category through the resolver and fails the test on a
// non-success envelope.
func (f *fixture) category(t *testing.T, title string, owner *models.User) *models.Category {
	t.Helper()

	env := f.categories.Create(title, fmt.Sprintf("%s description", title), owner.ID)
	if !env.Success {
		t.Fatalf("create category %q: %+v", title, env)
	}
	return env.Data.(*models.Category)
}
