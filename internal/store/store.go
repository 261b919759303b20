// Package store is the persistence port used by the services, with a gorm
// implementation backed by the models in internal/db.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/inkwell/internal/db"
)

// ErrNotFound is returned when a lookup or mutation targets a missing row.
var ErrNotFound = errors.New("record not found")

// PostRepository persists posts.
type PostRepository interface {
	Get(ctx context.Context, id uint) (*db.Post, error)
	ListPublished(ctx context.Context) ([]db.Post, error)
	ListDrafts(ctx context.Context) ([]db.Post, error)
	Create(ctx context.Context, post *db.Post) error
	// UpdateContent writes title and text only; the publish state is never touched.
	UpdateContent(ctx context.Context, id uint, title, text string) error
	// Publish sets published_date only while it is still NULL. Publishing an
	// already published post is a no-op; a missing post is ErrNotFound.
	Publish(ctx context.Context, id uint, at time.Time) error
	// Delete removes the post and all of its comments in one transaction.
	Delete(ctx context.Context, id uint) error
}

// CommentRepository persists comments.
type CommentRepository interface {
	Get(ctx context.Context, id uint) (*db.Comment, error)
	ListForPost(ctx context.Context, postID uint, includePending bool) ([]db.Comment, error)
	CountPending(ctx context.Context, postID uint) (int64, error)
	Create(ctx context.Context, comment *db.Comment) error
	Update(ctx context.Context, comment *db.Comment) error
	Delete(ctx context.Context, id uint) error
}
