// Package seed fills an empty database with demo content.
package seed

import (
	"fmt"
	"log"
	"time"

	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

const (
	DefaultUsername = "admin"
	DefaultPassword = "admin123"
)

// Summary 记录一次填充写入了多少数据
type Summary struct {
	Username string
	Posts    int
	Drafts   int
	Comments int
	Skipped  bool
}

type samplePost struct {
	title     string
	text      string
	published bool
	comments  []sampleComment
}

type sampleComment struct {
	author   string
	text     string
	approved bool
}

var samplePosts = []samplePost{
	{
		title:     "Hello, Inkwell",
		text:      "Welcome to the blog.\n\nPosts are written in **markdown** and stay drafts until published.",
		published: true,
		comments: []sampleComment{
			{author: "Ada", text: "Nice to see this up and running.", approved: true},
			{author: "Grace", text: "Looking forward to the next post.", approved: false},
		},
	},
	{
		title:     "Working with drafts",
		text:      "Drafts are only visible to signed-in authors. Use the *Drafts* page to find them.",
		published: true,
		comments: []sampleComment{
			{author: "Linus", text: "Short and useful.", approved: true},
		},
	},
	{
		title:     "Moderating comments",
		text:      "New comments wait for approval.\n\n- approve keeps a comment\n- remove deletes it",
		published: true,
	},
	{
		title: "Notes for a future post",
		text:  "Nothing to see here yet.",
	},
}

// Run 创建演示用户、文章与评论。已有文章时不做任何写入。
func Run(gdb *gorm.DB) (*Summary, error) {
	if gdb == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	user, err := db.EnsureUser(gdb, DefaultUsername, DefaultPassword)
	if err != nil {
		return nil, fmt.Errorf("ensure demo user: %w", err)
	}
	summary := &Summary{Username: user.Username}

	var count int64
	if err := gdb.Model(&db.Post{}).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		log.Printf("[seed] %d posts already exist, skipping", count)
		summary.Skipped = true
		return summary, nil
	}

	base := time.Now().Add(-time.Duration(len(samplePosts)) * 24 * time.Hour)
	err = gdb.Transaction(func(tx *gorm.DB) error {
		for idx, sample := range samplePosts {
			created := base.Add(time.Duration(idx) * 24 * time.Hour)
			post := db.Post{
				AuthorID:    user.ID,
				Title:       sample.title,
				Text:        sample.text,
				CreatedDate: created,
			}
			if sample.published {
				post.Publish(created.Add(time.Hour))
			}
			if err := tx.Omit("Author", "Comments").Create(&post).Error; err != nil {
				return fmt.Errorf("create post %q: %w", sample.title, err)
			}
			if post.IsPublished() {
				summary.Posts++
			} else {
				summary.Drafts++
			}

			for cidx, sc := range sample.comments {
				comment := db.Comment{
					PostID:      post.ID,
					Author:      sc.author,
					Text:        sc.text,
					CreatedDate: created.Add(time.Duration(cidx+2) * time.Hour),
				}
				if sc.approved {
					comment.Approve()
				}
				if err := tx.Create(&comment).Error; err != nil {
					return fmt.Errorf("create comment on %q: %w", sample.title, err)
				}
				summary.Comments++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[seed] created %d posts, %d drafts, %d comments", summary.Posts, summary.Drafts, summary.Comments)
	return summary, nil
}
