package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/auth"
	"github.com/inkwell/internal/service"
)

// ShowLoginPage 渲染登录页面
func (a *API) ShowLoginPage(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "login.html", gin.H{
		"title": "Log in",
		"next":  safeNext(c.Query("next")),
	})
}

// Login 处理用户登录请求
func (a *API) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	next := safeNext(c.PostForm("next"))

	principal, err := a.users.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			logRequestError(c, "auth", err)
		}
		a.renderHTML(c, http.StatusUnauthorized, "login.html", gin.H{
			"title":    "Log in",
			"error":    "Please enter a correct username and password.",
			"username": username,
			"next":     next,
		})
		return
	}

	// 设置会话
	if err := auth.SignIn(c, principal); err != nil {
		logRequestError(c, "auth", err)
		a.renderHTML(c, http.StatusInternalServerError, "login.html", gin.H{
			"title": "Log in",
			"error": "Could not start a session.",
			"next":  next,
		})
		return
	}

	log.Printf("[auth] %s signed in", principal.Username)
	if next == "" {
		next = "/"
	}
	c.Redirect(http.StatusFound, next)
}

// Logout 处理用户登出
func (a *API) Logout(c *gin.Context) {
	if err := auth.SignOut(c); err != nil {
		logRequestError(c, "auth", err)
	}
	c.Redirect(http.StatusFound, "/")
}

func safeNext(next string) string {
	trimmed := strings.TrimSpace(next)
	if !auth.IsSafeRedirect(trimmed) {
		return ""
	}
	return trimmed
}
