package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/auth"
	"github.com/inkwell/internal/db"
	"github.com/inkwell/internal/service"
)

type commentForm struct {
	Author string `form:"author" binding:"required,max=200"`
	Text   string `form:"text" binding:"required"`
}

// ShowCommentForm renders the comment form for a visible post.
func (a *API) ShowCommentForm(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.notFound(c)
		return
	}

	post, err := a.posts.Get(c.Request.Context(), auth.FromContext(c), id)
	if err != nil {
		a.handleServiceError(c, "comment", err)
		return
	}

	a.renderCommentForm(c, http.StatusOK, post, commentForm{}, nil)
}

// AddComment stores an unapproved comment and redirects back to the post.
func (a *API) AddComment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.notFound(c)
		return
	}

	principal := auth.FromContext(c)
	post, err := a.posts.Get(c.Request.Context(), principal, id)
	if err != nil {
		a.handleServiceError(c, "comment", err)
		return
	}

	var form commentForm
	if err := c.ShouldBind(&form); err != nil {
		a.renderCommentForm(c, http.StatusBadRequest, post, form, validationMessages(err))
		return
	}

	if _, err := a.comments.Add(c.Request.Context(), principal, post.ID, service.CommentInput{
		Author: form.Author,
		Text:   form.Text,
	}); err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			a.renderCommentForm(c, http.StatusBadRequest, post, form, []string{inputMessage(err)})
			return
		}
		a.handleServiceError(c, "comment", err)
		return
	}

	c.Redirect(http.StatusFound, detailPath(post.ID))
}

// ApproveComment approves a pending comment.
func (a *API) ApproveComment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.notFound(c)
		return
	}

	comment, err := a.comments.Approve(c.Request.Context(), auth.FromContext(c), id)
	if err != nil {
		a.handleServiceError(c, "comment", err)
		return
	}

	c.Redirect(http.StatusFound, detailPath(comment.PostID))
}

// RemoveComment deletes a comment.
func (a *API) RemoveComment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.notFound(c)
		return
	}

	comment, err := a.comments.Delete(c.Request.Context(), auth.FromContext(c), id)
	if err != nil {
		a.handleServiceError(c, "comment", err)
		return
	}

	c.Redirect(http.StatusFound, detailPath(comment.PostID))
}

func (a *API) renderCommentForm(c *gin.Context, status int, post *db.Post, form commentForm, errs []string) {
	a.renderHTML(c, status, "comment_form.html", gin.H{
		"title":  "New comment",
		"post":   post,
		"action": fmt.Sprintf("/posts/%d/comments", post.ID),
		"form":   form,
		"errors": errs,
	})
}
