package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/inkwell/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupStoreTestDB(t *testing.T) (*gorm.DB, db.User) {
	t.Helper()
	dsn := fmt.Sprintf("file:store-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	user := db.User{Username: "author", Password: "hashed"}
	require.NoError(t, gdb.Create(&user).Error)
	return gdb, user
}

func createPost(t *testing.T, repo *GormPostRepository, authorID uint, title string, published bool) *db.Post {
	t.Helper()
	post := &db.Post{AuthorID: authorID, Title: title, Text: "body of " + title}
	if published {
		post.CreatedDate = time.Now()
		post.Publish(time.Now())
	}
	require.NoError(t, repo.Create(context.Background(), post))
	return post
}
