package db

import (
	"time"

	"gorm.io/gorm"
)

// Post 定义了文章模型。PublishedDate 为空表示草稿。
type Post struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	AuthorID      uint       `gorm:"not null;index" json:"author_id"`
	Author        User       `json:"-"`
	Title         string     `gorm:"size:200;not null" json:"title"`
	Text          string     `gorm:"type:text;not null" json:"text"`
	CreatedDate   time.Time  `gorm:"not null" json:"created_date"`
	PublishedDate *time.Time `gorm:"index" json:"published_date"`
	Comments      []Comment  `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}

// BeforeCreate 在写入前补齐创建时间。
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.CreatedDate.IsZero() {
		p.CreatedDate = time.Now()
	}
	return nil
}

// IsPublished 判断文章是否已发布。
func (p *Post) IsPublished() bool {
	return p.PublishedDate != nil
}

// Publish 将草稿标记为已发布。已发布的文章保持原发布时间不变，
// 发布时间不会早于创建时间。
func (p *Post) Publish(now time.Time) {
	if p.PublishedDate != nil {
		return
	}
	if now.Before(p.CreatedDate) {
		now = p.CreatedDate
	}
	published := now
	p.PublishedDate = &published
}
