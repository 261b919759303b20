package db

import (
	"time"

	"gorm.io/gorm"
)

// Comment 是访客提交的评论，Author 为自由填写的昵称，不关联用户。
type Comment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PostID      uint      `gorm:"not null;index" json:"post_id"`
	Author      string    `gorm:"size:200;not null" json:"author"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	CreatedDate time.Time `gorm:"not null" json:"created_date"`
	Approved    bool      `gorm:"not null;default:false" json:"approved"`
}

// BeforeCreate 在写入前补齐创建时间。
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.CreatedDate.IsZero() {
		c.CreatedDate = time.Now()
	}
	return nil
}

// Approve 审核通过评论，重复调用没有副作用。
func (c *Comment) Approve() {
	c.Approved = true
}
