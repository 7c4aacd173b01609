package resolver

import (
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"inkpress/internal/models"
	"inkpress/internal/store"
)

// Category handles the category operations. Every method takes the
// authenticated owner's ID explicitly; nothing is read from ambient state.
type Category struct {
	categories *store.CategoryStore
	posts      *store.PostStore
	users      *store.UserStore
}

// NewCategory creates the category resolver with its store dependencies.
func NewCategory(categories *store.CategoryStore, posts *store.PostStore, users *store.UserStore) *Category {
	return &Category{categories: categories, posts: posts, users: users}
}

// List returns all of the owner's categories with their posts and author
// expanded (read-through join).
func (r *Category) List(ownerID uuid.UUID) Envelope {
	cats, err := r.categories.ListByAuthor(ownerID)
	if err != nil {
		return catchErr("getAllCategories", err)
	}
	if cats == nil {
		cats = []models.Category{}
	}

	author, err := r.users.FindByID(ownerID)
	if err != nil {
		return catchErr("getAllCategories", err)
	}

	posts, err := r.posts.ListByAuthor(ownerID)
	if err != nil {
		return catchErr("getAllCategories", err)
	}

	byCategory := make(map[uuid.UUID][]models.Post, len(cats))
	for _, p := range posts {
		byCategory[p.CategoryID] = append(byCategory[p.CategoryID], p)
	}
	for i := range cats {
		cats[i].Posts = byCategory[cats[i].ID]
		cats[i].Author = author
	}

	return ok("", cats)
}

// Get returns one category scoped to the owner, expanded with its posts and
// author. A missing or foreign-owned category is an explicit not-found.
func (r *Category) Get(id string, ownerID uuid.UUID) Envelope {
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return fail("Category not found")
	}

	category, err := r.categories.FindByID(categoryID, ownerID)
	if err != nil {
		return catchErr("getCategoryById", err)
	}
	if category == nil {
		return fail("Category not found")
	}

	posts, err := r.posts.ListByCategory(category.ID, ownerID)
	if err != nil {
		return catchErr("getCategoryById", err)
	}
	author, err := r.users.FindByID(ownerID)
	if err != nil {
		return catchErr("getCategoryById", err)
	}
	category.Posts = posts
	category.Author = author

	return ok("", category)
}

// Create inserts a new category after the per-author duplicate-title check,
// then appends its reference to the owner's owned-set. The two writes are
// not transactional: a failed back-reference push after a successful insert
// is logged and surfaced as a partial failure, never as silent success.
func (r *Category) Create(title, description string, ownerID uuid.UUID) Envelope {
	existing, err := r.categories.FindByTitle(title, ownerID)
	if err != nil {
		return catchErr("createCategory", err)
	}
	if existing != nil {
		return fail("Category title is existing... Please input another one!")
	}

	category, err := r.categories.Create(title, description, ownerID)
	if err != nil {
		return catchErr("createCategory", err)
	}

	if err := r.users.AddCategory(ownerID, category.ID); err != nil {
		slog.Error("category created but owner back-reference failed",
			"category_id", category.ID, "owner_id", ownerID, "error", err)
		return fail("Category was created but could not be linked to your account... Please check again!")
	}

	return ok("Successfully create a new category!", category)
}

// Update modifies title and description of an owner's category.
func (r *Category) Update(id, title, description string, ownerID uuid.UUID) Envelope {
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return fail("Category not found")
	}

	category, err := r.categories.Update(categoryID, ownerID, title, description)
	if err != nil {
		return catchErr("updateCategory", err)
	}
	if category == nil {
		return fail("Category not found")
	}

	return ok("Successfully update category!", category)
}

// ToggleStatus flips a category between Active and Inactive. Read-then-write
// in two round-trips; concurrent toggles from the same owner can race and
// both compute the same flip (known lost-update, accepted).
func (r *Category) ToggleStatus(id string, ownerID uuid.UUID) Envelope {
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return fail("Category not found")
	}

	category, err := r.categories.FindByID(categoryID, ownerID)
	if err != nil {
		return catchErr("updateStatusCategory", err)
	}
	if category == nil {
		return fail("Category not found")
	}

	updated, err := r.categories.UpdateStatus(categoryID, ownerID, category.Status.Toggled())
	if err != nil {
		return catchErr("updateStatusCategory", err)
	}
	if updated == nil {
		return fail("Category not found")
	}

	return ok("Successfully update category's status!", updated)
}

// Remove verifies the owner's category exists, then runs three independent
// operations concurrently: detach the category from the owner's owned-set,
// delete every post referencing it, and delete the category row. The join
// fails the whole operation if any leg reports an error — partial failure
// is surfaced, not swallowed — but there is no rollback of legs that
// already completed.
func (r *Category) Remove(id string, ownerID uuid.UUID) Envelope {
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return fail("Have no category ID")
	}

	existing, err := r.categories.FindByID(categoryID, ownerID)
	if err != nil {
		return catchErr("removeCategory", err)
	}
	if existing == nil {
		return fail("Have no category ID")
	}

	var g errgroup.Group
	g.Go(func() error {
		return r.users.RemoveCategory(ownerID, categoryID)
	})
	g.Go(func() error {
		n, err := r.posts.DeleteByCategory(categoryID)
		if err == nil {
			slog.Info("cascade deleted posts", "category_id", categoryID, "count", n)
		}
		return err
	})
	g.Go(func() error {
		return r.categories.Delete(categoryID)
	})

	if err := g.Wait(); err != nil {
		slog.Error("category cascade delete failed", "category_id", categoryID, "error", err)
		return fail("Can not remove category... Please check again!")
	}

	return ok("Successfully delete category!", nil)
}
