package store

import (
	"context"
	"errors"
	"time"

	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

// GormPostRepository implements PostRepository on top of gorm.
type GormPostRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a gorm backed post repository.
func NewPostRepository(gdb *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: gdb}
}

// Get loads a post with its author.
func (r *GormPostRepository) Get(ctx context.Context, id uint) (*db.Post, error) {
	var post db.Post
	if err := r.db.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// ListPublished returns published posts, newest first.
func (r *GormPostRepository) ListPublished(ctx context.Context) ([]db.Post, error) {
	var posts []db.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("published_date IS NOT NULL").
		Order("published_date desc, id desc").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListDrafts returns unpublished posts, most recently created first.
func (r *GormPostRepository) ListDrafts(ctx context.Context) ([]db.Post, error) {
	var posts []db.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("published_date IS NULL").
		Order("created_date desc, id desc").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Create inserts a post without touching its associations.
func (r *GormPostRepository) Create(ctx context.Context, post *db.Post) error {
	return r.db.WithContext(ctx).Omit("Author", "Comments").Create(post).Error
}

// UpdateContent replaces title and text of a post.
func (r *GormPostRepository) UpdateContent(ctx context.Context, id uint, title, text string) error {
	result := r.db.WithContext(ctx).
		Model(&db.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title": title,
			"text":  text,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Publish stamps published_date with at unless the post is already published.
func (r *GormPostRepository) Publish(ctx context.Context, id uint, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&db.Post{}).
		Where("id = ? AND published_date IS NULL", id).
		Update("published_date", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// 没有行被更新：要么已发布，要么不存在
	var count int64
	if err := r.db.WithContext(ctx).Model(&db.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the post and its comments.
func (r *GormPostRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&db.Comment{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&db.Post{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
