package router

import (
	"html/template"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/auth"
	"github.com/inkwell/internal/config"
	"github.com/inkwell/internal/handler"
	"github.com/inkwell/internal/view"
	"gorm.io/gorm"
)

const sessionName = "inkwell_session"

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(gdb *gorm.DB, cfg config.AppConfig) *gin.Engine {
	api := handler.NewAPI(gdb, cfg.SiteName)

	r := gin.New()
	r.Use(handler.RequestID(), gin.Logger(), gin.Recovery())

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(auth.LoadPrincipal(api.Users().Lookup))

	// 模板内嵌在二进制中
	r.SetHTMLTemplate(template.Must(view.Templates()))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// 公开页面
	r.GET("/", api.ShowPostList)
	r.GET("/posts/:id", api.ShowPostDetail)
	r.GET("/posts/:id/comments", api.ShowCommentForm)
	r.POST("/posts/:id/comments", api.AddComment)

	accounts := r.Group("/accounts")
	{
		accounts.GET("/login", api.ShowLoginPage)
		accounts.POST("/login", api.Login)
		accounts.GET("/logout", api.Logout)
		accounts.POST("/logout", api.Logout)
	}

	// 需要认证的路由
	authed := r.Group("")
	authed.Use(auth.AuthRequired())
	{
		authed.GET("/drafts", api.ShowDraftList)
		authed.GET("/posts/new", api.ShowPostNew)
		authed.POST("/posts/new", api.CreatePost)
		authed.GET("/posts/:id/edit", api.ShowPostEdit)
		authed.POST("/posts/:id/edit", api.UpdatePost)
		authed.POST("/posts/:id/publish", api.PublishPost)
		authed.POST("/posts/:id/remove", api.RemovePost)
		authed.POST("/comments/:id/approve", api.ApproveComment)
		authed.POST("/comments/:id/remove", api.RemoveComment)
	}

	// 只读 JSON 接口，与页面遵循相同的可见性规则
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/posts", api.GetPosts)
		apiGroup.GET("/posts/:id", api.GetPost)
	}

	r.NoRoute(api.NotFound)

	return r
}
