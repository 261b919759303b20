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

// PostService applies visibility and authorization rules to posts.
type PostService struct {
	posts    store.PostRepository
	comments store.CommentRepository
	now      func() time.Time
}

// PostInput represents fields accepted when creating or updating a post.
type PostInput struct {
	Title string
	Text  string
}

// PostDetail is a post together with the comments the caller may see.
type PostDetail struct {
	Post            *db.Post
	Comments        []db.Comment
	PendingComments int64
}

// NewPostService creates a PostService instance.
func NewPostService(posts store.PostRepository, comments store.CommentRepository) *PostService {
	return &PostService{posts: posts, comments: comments, now: time.Now}
}

// ListPublished returns published posts for any caller, newest first.
func (s *PostService) ListPublished(ctx context.Context) ([]db.Post, error) {
	return s.posts.ListPublished(ctx)
}

// ListDrafts returns unpublished posts. Only authenticated callers may see drafts.
func (s *PostService) ListDrafts(ctx context.Context, principal auth.Principal) ([]db.Post, error) {
	if !principal.Authenticated() {
		return nil, ErrUnauthenticated
	}
	return s.posts.ListDrafts(ctx)
}

// Get fetches a post visible to the principal. Drafts are reported as missing
// to anonymous callers.
func (s *PostService) Get(ctx context.Context, principal auth.Principal, id uint) (*db.Post, error) {
	post, err := s.posts.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if !post.IsPublished() && !principal.Authenticated() {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// Detail returns the post plus its comments. Anonymous callers only receive
// approved comments; authenticated callers receive every comment.
func (s *PostService) Detail(ctx context.Context, principal auth.Principal, id uint) (*PostDetail, error) {
	post, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	moderator := principal.Authenticated()
	comments, err := s.comments.ListForPost(ctx, post.ID, moderator)
	if err != nil {
		return nil, fmt.Errorf("list comments for post %d: %w", post.ID, err)
	}

	detail := &PostDetail{Post: post, Comments: comments}
	if moderator {
		for _, comment := range comments {
			if !comment.Approved {
				detail.PendingComments++
			}
		}
	}
	return detail, nil
}

// Create stores a new draft authored by the principal.
func (s *PostService) Create(ctx context.Context, principal auth.Principal, input PostInput) (*db.Post, error) {
	if !principal.Authenticated() {
		return nil, ErrUnauthenticated
	}

	title, text, err := normalizePostInput(input)
	if err != nil {
		return nil, err
	}

	post := db.Post{
		AuthorID:    principal.UserID,
		Title:       title,
		Text:        text,
		CreatedDate: s.now(),
	}
	if err := s.posts.Create(ctx, &post); err != nil {
		return nil, err
	}

	log.Printf("[post] %s created draft %d", principal.Username, post.ID)
	return s.reload(ctx, post.ID)
}

// Update replaces title and text in place; the publish state is unchanged.
func (s *PostService) Update(ctx context.Context, principal auth.Principal, id uint, input PostInput) (*db.Post, error) {
	if !principal.Authenticated() {
		return nil, ErrUnauthenticated
	}

	title, text, err := normalizePostInput(input)
	if err != nil {
		return nil, err
	}

	post, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	if err := s.posts.UpdateContent(ctx, post.ID, title, text); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return s.reload(ctx, post.ID)
}

// Publish marks the post as published. Publishing twice keeps the first date.
func (s *PostService) Publish(ctx context.Context, principal auth.Principal, id uint) (*db.Post, error) {
	if !principal.Authenticated() {
		return nil, ErrUnauthenticated
	}

	post, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if post.IsPublished() {
		return post, nil
	}

	// 只计算时间，写入由仓储按 published_date IS NULL 条件完成
	post.Publish(s.now())
	if err := s.posts.Publish(ctx, post.ID, *post.PublishedDate); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	log.Printf("[post] %s published post %d", principal.Username, post.ID)
	return s.reload(ctx, post.ID)
}

// Delete removes a post and every comment attached to it.
func (s *PostService) Delete(ctx context.Context, principal auth.Principal, id uint) error {
	if !principal.Authenticated() {
		return ErrUnauthenticated
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	log.Printf("[post] %s deleted post %d", principal.Username, id)
	return nil
}

func (s *PostService) reload(ctx context.Context, id uint) (*db.Post, error) {
	post, err := s.posts.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func normalizePostInput(input PostInput) (string, string, error) {
	title := strings.TrimSpace(input.Title)
	text := strings.TrimSpace(input.Text)
	if title == "" || text == "" {
		return "", "", invalidInput("Title and text are required.")
	}
	if len([]rune(title)) > MaxTitleLength {
		return "", "", invalidInput(fmt.Sprintf("Title exceeds %d characters.", MaxTitleLength))
	}
	return title, text, nil
}
