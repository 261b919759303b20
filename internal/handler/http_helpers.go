package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/inkwell/internal/auth"
	"github.com/inkwell/internal/service"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// validationMessages 将表单绑定错误转换为可展示的提示
func validationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"Invalid form submission."}
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("The %s field is required.", field))
		case "max":
			messages = append(messages, fmt.Sprintf("The %s field must be at most %s characters.", field, fe.Param()))
		default:
			messages = append(messages, fmt.Sprintf("The %s field is invalid.", field))
		}
	}
	return messages
}

// inputMessage 返回服务层输入校验错误中可展示的说明
func inputMessage(err error) string {
	var inputErr *service.InputError
	if errors.As(err, &inputErr) && inputErr.Message != "" {
		return inputErr.Message
	}
	return "Invalid input."
}

func (a *API) notFound(c *gin.Context) {
	a.renderHTML(c, http.StatusNotFound, "404.html", gin.H{"title": "Not found"})
	c.Abort()
}

// handleServiceError 根据服务层错误类型选择 404、登录跳转或 500
func (a *API) handleServiceError(c *gin.Context, scope string, err error) {
	switch {
	case errors.Is(err, service.ErrPostNotFound), errors.Is(err, service.ErrCommentNotFound):
		a.notFound(c)
	case errors.Is(err, service.ErrUnauthenticated):
		c.Redirect(http.StatusFound, auth.LoginURL(c.Request.URL.RequestURI()))
		c.Abort()
	default:
		logRequestError(c, scope, err)
		a.renderHTML(c, http.StatusInternalServerError, "500.html", gin.H{"title": "Error"})
		c.Abort()
	}
}

func logRequestError(c *gin.Context, scope string, err error) {
	log.Printf("[%s] request=%s %s %s: %v", scope, RequestIDFrom(c), c.Request.Method, c.Request.URL.Path, err)
	c.Error(err)
}

// NotFound 渲染 404 页面，用作路由兜底
func (a *API) NotFound(c *gin.Context) {
	a.notFound(c)
}
