package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/auth"
	"github.com/inkwell/internal/service"
	"github.com/inkwell/internal/store"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db       *gorm.DB
	posts    *service.PostService
	comments *service.CommentService
	users    *service.UserService
	siteName string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, siteName string) *API {
	postRepo := store.NewPostRepository(db)
	commentRepo := store.NewCommentRepository(db)
	posts := service.NewPostService(postRepo, commentRepo)

	name := strings.TrimSpace(siteName)
	if name == "" {
		name = "Inkwell"
	}

	return &API{
		db:       db,
		posts:    posts,
		comments: service.NewCommentService(posts, commentRepo),
		users:    service.NewUserService(db),
		siteName: name,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

// Users exposes the user directory for provisioning.
func (a *API) Users() *service.UserService {
	return a.users
}

func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	if _, exists := payload["siteName"]; !exists {
		payload["siteName"] = a.siteName
	}
	if _, exists := payload["year"]; !exists {
		payload["year"] = time.Now().Year()
	}
	payload["principal"] = auth.FromContext(c)

	c.HTML(status, template, payload)
}
