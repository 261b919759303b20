package store

import (
	"context"
	"errors"

	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

// GormCommentRepository implements CommentRepository on top of gorm.
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a gorm backed comment repository.
func NewCommentRepository(gdb *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: gdb}
}

// Get loads a single comment.
func (r *GormCommentRepository) Get(ctx context.Context, id uint) (*db.Comment, error) {
	var comment db.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// ListForPost returns comments of a post, oldest first. Pending ones are
// included only when includePending is set.
func (r *GormCommentRepository) ListForPost(ctx context.Context, postID uint, includePending bool) ([]db.Comment, error) {
	query := r.db.WithContext(ctx).Where("post_id = ?", postID)
	if !includePending {
		query = query.Where("approved = ?", true)
	}

	var comments []db.Comment
	if err := query.Order("created_date asc, id asc").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// CountPending counts unapproved comments of a post.
func (r *GormCommentRepository) CountPending(ctx context.Context, postID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&db.Comment{}).
		Where("post_id = ? AND approved = ?", postID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a comment.
func (r *GormCommentRepository) Create(ctx context.Context, comment *db.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// Update writes author, text and approval state.
func (r *GormCommentRepository) Update(ctx context.Context, comment *db.Comment) error {
	result := r.db.WithContext(ctx).
		Model(&db.Comment{}).
		Where("id = ?", comment.ID).
		Updates(map[string]interface{}{
			"author":   comment.Author,
			"text":     comment.Text,
			"approved": comment.Approved,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a comment.
func (r *GormCommentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&db.Comment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
