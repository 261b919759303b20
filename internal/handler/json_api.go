package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/auth"
	"github.com/inkwell/internal/db"
	"github.com/inkwell/internal/service"
)

// GetPosts 返回已发布文章列表
func (a *API) GetPosts(c *gin.Context) {
	posts, err := a.posts.ListPublished(c.Request.Context())
	if err != nil {
		logRequestError(c, "api", err)
		respondError(c, http.StatusInternalServerError, "failed to list posts")
		return
	}

	items := make([]gin.H, 0, len(posts))
	for i := range posts {
		items = append(items, postPayload(&posts[i]))
	}
	c.JSON(http.StatusOK, gin.H{"posts": items})
}

// GetPost 返回单篇文章及调用者可见的评论
func (a *API) GetPost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, service.ErrPostNotFound.Error())
		return
	}

	detail, err := a.posts.Detail(c.Request.Context(), auth.FromContext(c), id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		logRequestError(c, "api", err)
		respondError(c, http.StatusInternalServerError, "failed to load post")
		return
	}

	comments := detail.Comments
	if comments == nil {
		comments = []db.Comment{}
	}
	c.JSON(http.StatusOK, gin.H{
		"post":     postPayload(detail.Post),
		"comments": comments,
	})
}

func postPayload(post *db.Post) gin.H {
	return gin.H{
		"id":             post.ID,
		"title":          post.Title,
		"text":           post.Text,
		"author":         post.Author.Username,
		"created_date":   post.CreatedDate,
		"published_date": post.PublishedDate,
	}
}
