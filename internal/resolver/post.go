package resolver

import (
	"log/slog"

	"github.com/google/uuid"

	"inkpress/internal/models"
	"inkpress/internal/store"
)

// Post handles the post operations, scoped by the authenticated owner.
type Post struct {
	posts      *store.PostStore
	categories *store.CategoryStore
	users      *store.UserStore
}

// NewPost creates the post resolver with its store dependencies.
func NewPost(posts *store.PostStore, categories *store.CategoryStore, users *store.UserStore) *Post {
	return &Post{posts: posts, categories: categories, users: users}
}

// List returns all of the owner's posts with category and author expanded.
func (r *Post) List(ownerID uuid.UUID) Envelope {
	posts, err := r.posts.ListByAuthor(ownerID)
	if err != nil {
		return catchErr("getAllPosts", err)
	}
	if posts == nil {
		posts = []models.Post{}
	}

	author, err := r.users.FindByID(ownerID)
	if err != nil {
		return catchErr("getAllPosts", err)
	}

	cats, err := r.categories.ListByAuthor(ownerID)
	if err != nil {
		return catchErr("getAllPosts", err)
	}
	byID := make(map[uuid.UUID]int, len(cats))
	for i := range cats {
		byID[cats[i].ID] = i
	}

	for i := range posts {
		if j, found := byID[posts[i].CategoryID]; found {
			posts[i].Category = &cats[j]
		}
		posts[i].Author = author
	}

	return ok("", posts)
}

// Get returns one post scoped to the owner, expanded with its category and
// author. A missing or foreign-owned post is an explicit not-found.
func (r *Post) Get(id string, ownerID uuid.UUID) Envelope {
	postID, err := uuid.Parse(id)
	if err != nil {
		return fail("Post not found")
	}

	post, err := r.posts.FindByID(postID, ownerID)
	if err != nil {
		return catchErr("getPostById", err)
	}
	if post == nil {
		return fail("Post not found")
	}

	category, err := r.categories.FindByID(post.CategoryID, ownerID)
	if err != nil {
		return catchErr("getPostById", err)
	}
	author, err := r.users.FindByID(ownerID)
	if err != nil {
		return catchErr("getPostById", err)
	}
	post.Category = category
	post.Author = author

	return ok("", post)
}

// ListByCategory returns the owner's posts in one category, unexpanded.
func (r *Post) ListByCategory(cateID string, ownerID uuid.UUID) Envelope {
	categoryID, err := uuid.Parse(cateID)
	if err != nil {
		return fail("Category not found")
	}

	posts, err := r.posts.ListByCategory(categoryID, ownerID)
	if err != nil {
		return catchErr("getPostsByCategoryId", err)
	}
	if posts == nil {
		posts = []models.Post{}
	}

	return ok("", posts)
}

// Create inserts a new post after the per-author duplicate-title check, then
// appends its reference to both the owner's and the category's owned-sets.
// Three sequential, non-transactional writes: a back-reference failure after
// the insert is logged and surfaced as a partial failure.
func (r *Post) Create(title string, description *string, content, thumbnail, cateID string, ownerID uuid.UUID) Envelope {
	categoryID, err := uuid.Parse(cateID)
	if err != nil {
		return fail("Category not found")
	}

	existing, err := r.posts.FindByTitle(title, ownerID)
	if err != nil {
		return catchErr("createPost", err)
	}
	if existing != nil {
		return fail("Post title is existed... Please input another one!")
	}

	post, err := r.posts.Create(title, description, content, thumbnail, categoryID, ownerID)
	if err != nil {
		return catchErr("createPost", err)
	}

	if err := r.users.AddPost(ownerID, post.ID); err != nil {
		slog.Error("post created but owner back-reference failed",
			"post_id", post.ID, "owner_id", ownerID, "error", err)
		return fail("Post was created but could not be linked to your account... Please check again!")
	}
	if err := r.categories.AddPost(categoryID, post.ID); err != nil {
		slog.Error("post created but category back-reference failed",
			"post_id", post.ID, "category_id", categoryID, "error", err)
		return fail("Post was created but could not be linked to its category... Please check again!")
	}

	return ok("Successfully create a new post!", post)
}
