package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/inkwell/internal/auth"
	"github.com/inkwell/internal/db"
	"github.com/inkwell/internal/store"
)

// CommentService handles comment submission and moderation.
type CommentService struct {
	posts    *PostService
	comments store.CommentRepository
	now      func() time.Time
}

// CommentInput represents a comment submission.
type CommentInput struct {
	Author string
	Text   string
}

// NewCommentService creates a CommentService. Posts are resolved through the
// post service so comment submission follows the same visibility rules.
func NewCommentService(posts *PostService, comments store.CommentRepository) *CommentService {
	return &CommentService{posts: posts, comments: comments, now: time.Now}
}

// Add attaches an unapproved comment to a post visible to the principal.
// Anonymous callers may comment.
func (s *CommentService) Add(ctx context.Context, principal auth.Principal, postID uint, input CommentInput) (*db.Comment, error) {
	author := strings.TrimSpace(input.Author)
	text := strings.TrimSpace(input.Text)
	if author == "" || text == "" {
		return nil, invalidInput("Author and text are required.")
	}
	if len([]rune(author)) > MaxTitleLength {
		return nil, invalidInput(fmt.Sprintf("Author exceeds %d characters.", MaxTitleLength))
	}

	post, err := s.posts.Get(ctx, principal, postID)
	if err != nil {
		return nil, err
	}

	comment := db.Comment{
		PostID:      post.ID,
		Author:      author,
		Text:        text,
		CreatedDate: s.now(),
	}
	if err := s.comments.Create(ctx, &comment); err != nil {
		return nil, err
	}

	log.Printf("[comment] new comment %d on post %d awaiting approval", comment.ID, post.ID)
	return &comment, nil
}

// Approve marks the comment as approved. Approving twice is a no-op.
func (s *CommentService) Approve(ctx context.Context, principal auth.Principal, id uint) (*db.Comment, error) {
	if !principal.Authenticated() {
		return nil, ErrUnauthenticated
	}

	comment, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.Approved {
		return comment, nil
	}

	comment.Approve()
	if err := s.comments.Update(ctx, comment); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	log.Printf("[comment] %s approved comment %d", principal.Username, comment.ID)
	return comment, nil
}

// Delete removes the comment and returns it so callers know the owning post.
func (s *CommentService) Delete(ctx context.Context, principal auth.Principal, id uint) (*db.Comment, error) {
	if !principal.Authenticated() {
		return nil, ErrUnauthenticated
	}

	comment, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.comments.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	log.Printf("[comment] %s deleted comment %d", principal.Username, id)
	return comment, nil
}

func (s *CommentService) get(ctx context.Context, id uint) (*db.Comment, error) {
	comment, err := s.comments.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}
