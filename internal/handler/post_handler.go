package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/auth"
	"github.com/inkwell/internal/service"
	"github.com/inkwell/internal/view"
)

type postForm struct {
	Title string `form:"title" binding:"required,max=200"`
	Text  string `form:"text" binding:"required"`
}

// ShowPostList renders published posts for every visitor.
func (a *API) ShowPostList(c *gin.Context) {
	posts, err := a.posts.ListPublished(c.Request.Context())
	if err != nil {
		a.handleServiceError(c, "post", err)
		return
	}

	a.renderHTML(c, http.StatusOK, "post_list.html", gin.H{
		"title": "Posts",
		"posts": posts,
	})
}

// ShowDraftList renders unpublished posts for signed-in users.
func (a *API) ShowDraftList(c *gin.Context) {
	posts, err := a.posts.ListDrafts(c.Request.Context(), auth.FromContext(c))
	if err != nil {
		a.handleServiceError(c, "post", err)
		return
	}

	a.renderHTML(c, http.StatusOK, "post_draft_list.html", gin.H{
		"title": "Drafts",
		"posts": posts,
	})
}

// ShowPostDetail renders a post with the comments visible to the caller.
// Drafts are reported as 404 to anonymous visitors.
func (a *API) ShowPostDetail(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.notFound(c)
		return
	}

	a.renderPostDetail(c, http.StatusOK, id)
}

// ShowPostNew renders an empty post form.
func (a *API) ShowPostNew(c *gin.Context) {
	a.renderPostForm(c, http.StatusOK, "New post", "/posts/new", postForm{}, nil)
}

// CreatePost stores a draft and renders it.
func (a *API) CreatePost(c *gin.Context) {
	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		a.renderPostForm(c, http.StatusBadRequest, "New post", "/posts/new", form, validationMessages(err))
		return
	}

	post, err := a.posts.Create(c.Request.Context(), auth.FromContext(c), service.PostInput{
		Title: form.Title,
		Text:  form.Text,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			a.renderPostForm(c, http.StatusBadRequest, "New post", "/posts/new", form, []string{inputMessage(err)})
			return
		}
		a.handleServiceError(c, "post", err)
		return
	}

	a.renderPostDetail(c, http.StatusOK, post.ID)
}

// ShowPostEdit renders the edit form filled with the current post.
func (a *API) ShowPostEdit(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.notFound(c)
		return
	}

	post, err := a.posts.Get(c.Request.Context(), auth.FromContext(c), id)
	if err != nil {
		a.handleServiceError(c, "post", err)
		return
	}

	a.renderPostForm(c, http.StatusOK, "Edit post", editAction(id), postForm{Title: post.Title, Text: post.Text}, nil)
}

// UpdatePost replaces title and text and renders the updated post.
func (a *API) UpdatePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.notFound(c)
		return
	}

	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		a.renderPostForm(c, http.StatusBadRequest, "Edit post", editAction(id), form, validationMessages(err))
		return
	}

	post, err := a.posts.Update(c.Request.Context(), auth.FromContext(c), id, service.PostInput{
		Title: form.Title,
		Text:  form.Text,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			a.renderPostForm(c, http.StatusBadRequest, "Edit post", editAction(id), form, []string{inputMessage(err)})
			return
		}
		a.handleServiceError(c, "post", err)
		return
	}

	a.renderPostDetail(c, http.StatusOK, post.ID)
}

// PublishPost publishes a draft and redirects to it.
func (a *API) PublishPost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.notFound(c)
		return
	}

	if _, err := a.posts.Publish(c.Request.Context(), auth.FromContext(c), id); err != nil {
		a.handleServiceError(c, "post", err)
		return
	}

	c.Redirect(http.StatusFound, detailPath(id))
}

// RemovePost deletes a post with its comments and returns to the list.
func (a *API) RemovePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.notFound(c)
		return
	}

	if err := a.posts.Delete(c.Request.Context(), auth.FromContext(c), id); err != nil {
		a.handleServiceError(c, "post", err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

func (a *API) renderPostDetail(c *gin.Context, status int, id uint) {
	detail, err := a.posts.Detail(c.Request.Context(), auth.FromContext(c), id)
	if err != nil {
		a.handleServiceError(c, "post", err)
		return
	}

	content, err := view.RenderMarkdown(detail.Post.Text)
	if err != nil {
		logRequestError(c, "post", err)
		a.renderHTML(c, http.StatusInternalServerError, "500.html", gin.H{
			"title": detail.Post.Title,
			"error": "Failed to render post content.",
		})
		return
	}

	c.Header("Content-Location", detailPath(detail.Post.ID))
	a.renderHTML(c, status, "post_detail.html", gin.H{
		"title":           detail.Post.Title,
		"post":            detail.Post,
		"content":         content,
		"comments":        detail.Comments,
		"pendingComments": detail.PendingComments,
	})
}

func (a *API) renderPostForm(c *gin.Context, status int, heading, action string, form postForm, errs []string) {
	a.renderHTML(c, status, "post_edit.html", gin.H{
		"title":   heading,
		"heading": heading,
		"action":  action,
		"form":    form,
		"errors":  errs,
	})
}

func detailPath(id uint) string {
	return fmt.Sprintf("/posts/%d", id)
}

func editAction(id uint) string {
	return fmt.Sprintf("/posts/%d/edit", id)
}
