package store

import (
	"testing"

	"github.com/google/uuid"
)

func TestPostCreateAndFind(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)

	owner := testUser(t, db, "post-create@test.local")
	category := testCategory(t, db, "Posts Home", owner.ID)

	desc := "a short description"
	created, err := posts.Create("Hello", &desc, "<p>content</p>", "/public/hello.png", category.ID, owner.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("created post has no ID")
	}

	found, err := posts.FindByID(created.ID, owner.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found == nil || found.Title != "Hello" {
		t.Fatalf("FindByID = %+v", found)
	}
	if found.Description == nil || *found.Description != desc {
		t.Fatalf("description = %v", found.Description)
	}

	byTitle, err := posts.FindByTitle("Hello", owner.ID)
	if err != nil {
		t.Fatalf("FindByTitle: %v", err)
	}
	if byTitle == nil || byTitle.ID != created.ID {
		t.Fatalf("FindByTitle = %+v", byTitle)
	}
}

func TestPostNilDescription(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)

	owner := testUser(t, db, "post-nildesc@test.local")
	category := testCategory(t, db, "No Description", owner.ID)

	created, err := posts.Create("Bare", nil, "content", "", category.ID, owner.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Description != nil {
		t.Fatalf("description = %v, want nil", created.Description)
	}
}

func TestPostOwnerScoping(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)

	owner := testUser(t, db, "post-owner@test.local")
	other := testUser(t, db, "post-other@test.local")
	category := testCategory(t, db, "Scoped", owner.ID)

	created, err := posts.Create("Secret", nil, "content", "", category.ID, owner.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := posts.FindByID(created.ID, other.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found != nil {
		t.Fatalf("foreign owner can see post: %+v", found)
	}

	list, err := posts.ListByCategory(category.ID, other.ID)
	if err != nil {
		t.Fatalf("ListByCategory: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("foreign owner sees %d posts in category", len(list))
	}
}

func TestPostListByCategory(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)

	owner := testUser(t, db, "post-bycat@test.local")
	tech := testCategory(t, db, "Tech List", owner.ID)
	life := testCategory(t, db, "Life List", owner.ID)

	if _, err := posts.Create("In Tech", nil, "content", "", tech.ID, owner.ID); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := posts.Create("In Life", nil, "content", "", life.ID, owner.ID); err != nil {
		t.Fatalf("Create: %v", err)
	}

	list, err := posts.ListByCategory(tech.ID, owner.ID)
	if err != nil {
		t.Fatalf("ListByCategory: %v", err)
	}
	if len(list) != 1 || list[0].Title != "In Tech" {
		t.Fatalf("ListByCategory = %+v", list)
	}

	all, err := posts.ListByAuthor(owner.ID)
	if err != nil {
		t.Fatalf("ListByAuthor: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("ListByAuthor returned %d posts, want 2", len(all))
	}
}

func TestPostDeleteByCategory(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)

	owner := testUser(t, db, "post-cascade@test.local")
	doomed := testCategory(t, db, "Doomed Posts", owner.ID)
	kept := testCategory(t, db, "Kept Posts", owner.ID)

	for _, title := range []string{"One", "Two", "Three"} {
		if _, err := posts.Create(title, nil, "content", "", doomed.ID, owner.ID); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if _, err := posts.Create("Survivor", nil, "content", "", kept.ID, owner.ID); err != nil {
		t.Fatalf("Create: %v", err)
	}

	n, err := posts.DeleteByCategory(doomed.ID)
	if err != nil {
		t.Fatalf("DeleteByCategory: %v", err)
	}
	if n != 3 {
		t.Fatalf("deleted %d posts, want 3", n)
	}

	remaining, err := posts.ListByAuthor(owner.ID)
	if err != nil {
		t.Fatalf("ListByAuthor: %v", err)
	}
	if len(remaining) != 1 || remaining[0].Title != "Survivor" {
		t.Fatalf("remaining = %+v", remaining)
	}

	// Deleting from an empty category reports zero rows, no error.
	n, err = posts.DeleteByCategory(uuid.New())
	if err != nil {
		t.Fatalf("DeleteByCategory of missing category: %v", err)
	}
	if n != 0 {
		t.Fatalf("deleted %d posts, want 0", n)
	}
}
