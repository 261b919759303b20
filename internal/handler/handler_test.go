package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/inkwell/internal/auth"
	"github.com/inkwell/internal/db"
	"github.com/inkwell/internal/service"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubHTMLRender struct {
	last *stubHTMLInstance
}

type stubHTMLInstance struct {
	name string
	data interface{}
}

func (r *stubHTMLRender) Instance(name string, data interface{}) render.Render {
	instance := &stubHTMLInstance{name: name, data: data}
	r.last = instance
	return instance
}

func (r *stubHTMLInstance) Render(http.ResponseWriter) error {
	return nil
}

func (r *stubHTMLInstance) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}

func (r *stubHTMLRender) payload(t *testing.T) gin.H {
	t.Helper()
	if r.last == nil {
		t.Fatalf("no template rendered")
	}
	data, ok := r.last.data.(gin.H)
	if !ok {
		t.Fatalf("unexpected payload type %T", r.last.data)
	}
	return data
}

type handlerEnv struct {
	db     *gorm.DB
	api    *API
	html   *stubHTMLRender
	user   *db.User
	engine *gin.Engine
}

// setupHandlerTest 构建带会话与模板桩的引擎；signedIn 为 true 时每个请求都以测试用户登录
func setupHandlerTest(t *testing.T, signedIn bool) *handlerEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	user, err := db.EnsureUser(gdb, "author", "secret")
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	env := &handlerEnv{
		db:   gdb,
		api:  NewAPI(gdb, "Test Blog"),
		html: &stubHTMLRender{},
		user: user,
	}

	r := gin.New()
	r.HTMLRender = env.html
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))
	r.Use(auth.LoadPrincipal(nil))
	if signedIn {
		r.Use(func(c *gin.Context) {
			if err := auth.SignIn(c, auth.Principal{UserID: user.ID, Username: user.Username}); err != nil {
				t.Errorf("sign in: %v", err)
			}
			c.Next()
		})
	}
	r.GET("/posts/:id", env.api.ShowPostDetail)
	r.POST("/posts/new", env.api.CreatePost)
	r.POST("/posts/:id/comments", env.api.AddComment)
	r.POST("/accounts/login", env.api.Login)
	r.GET("/api/posts", env.api.GetPosts)
	r.GET("/api/posts/:id", env.api.GetPost)
	env.engine = r

	return env
}

func (e *handlerEnv) createPost(t *testing.T, title string, published bool) *db.Post {
	t.Helper()
	post := db.Post{AuthorID: e.user.ID, Title: title, Text: "body of " + title}
	if published {
		post.CreatedDate = time.Now()
		post.Publish(time.Now())
	}
	if err := e.db.Create(&post).Error; err != nil {
		t.Fatalf("failed to create post: %v", err)
	}
	return &post
}

func (e *handlerEnv) serve(method, path string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func TestShowPostDetailFiltersCommentsForAnonymous(t *testing.T) {
	env := setupHandlerTest(t, false)
	post := env.createPost(t, "Visible", true)
	approved := db.Comment{PostID: post.ID, Author: "a", Text: "approved"}
	approved.Approve()
	env.db.Create(&approved)
	env.db.Create(&db.Comment{PostID: post.ID, Author: "b", Text: "pending"})

	w := env.serve(http.MethodGet, fmt.Sprintf("/posts/%d", post.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if env.html.last.name != "post_detail.html" {
		t.Fatalf("unexpected template %q", env.html.last.name)
	}

	data := env.html.payload(t)
	comments, ok := data["comments"].([]db.Comment)
	if !ok || len(comments) != 1 || comments[0].Text != "approved" {
		t.Fatalf("expected only the approved comment, got %#v", data["comments"])
	}
	if pending, _ := data["pendingComments"].(int64); pending != 0 {
		t.Fatalf("anonymous callers must not see a pending count, got %d", pending)
	}
	if principal, _ := data["principal"].(auth.Principal); principal.Authenticated() {
		t.Fatalf("expected anonymous principal in payload")
	}
	if w.Header().Get("Content-Location") != fmt.Sprintf("/posts/%d", post.ID) {
		t.Fatalf("missing content location header")
	}
}

func TestShowPostDetailShowsPendingToAuthors(t *testing.T) {
	env := setupHandlerTest(t, true)
	post := env.createPost(t, "Draft for author", false)
	env.db.Create(&db.Comment{PostID: post.ID, Author: "b", Text: "pending"})

	w := env.serve(http.MethodGet, fmt.Sprintf("/posts/%d", post.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	data := env.html.payload(t)
	comments, _ := data["comments"].([]db.Comment)
	if len(comments) != 1 {
		t.Fatalf("expected pending comment for author, got %d", len(comments))
	}
	if pending, _ := data["pendingComments"].(int64); pending != 1 {
		t.Fatalf("expected pending count 1, got %d", pending)
	}
	if data["siteName"] != "Test Blog" {
		t.Fatalf("expected site name in payload, got %v", data["siteName"])
	}
}

func TestShowPostDetailRejectsBadIDs(t *testing.T) {
	env := setupHandlerTest(t, false)
	draft := env.createPost(t, "Hidden", false)

	for _, path := range []string{"/posts/0", "/posts/-1", "/posts/abc", fmt.Sprintf("/posts/%d", draft.ID)} {
		w := env.serve(http.MethodGet, path, nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, w.Code)
		}
		if env.html.last.name != "404.html" {
			t.Fatalf("%s: expected 404 template, got %q", path, env.html.last.name)
		}
	}
}

func TestCreatePostValidationErrors(t *testing.T) {
	env := setupHandlerTest(t, true)

	w := env.serve(http.MethodPost, "/posts/new", url.Values{"title": {strings.Repeat("t", 201)}, "text": {""}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if env.html.last.name != "post_edit.html" {
		t.Fatalf("expected form template, got %q", env.html.last.name)
	}

	errs, _ := env.html.payload(t)["errors"].([]string)
	joined := strings.Join(errs, "\n")
	if !strings.Contains(joined, "The title field must be at most 200 characters.") {
		t.Fatalf("missing max length message: %q", joined)
	}
	if !strings.Contains(joined, "The text field is required.") {
		t.Fatalf("missing required message: %q", joined)
	}

	var count int64
	env.db.Model(&db.Post{}).Count(&count)
	if count != 0 {
		t.Fatalf("invalid form must not create posts")
	}
}

func TestCreatePostRejectsBlankTitleAfterTrim(t *testing.T) {
	env := setupHandlerTest(t, true)

	w := env.serve(http.MethodPost, "/posts/new", url.Values{"title": {"   "}, "text": {"body"}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	errs, _ := env.html.payload(t)["errors"].([]string)
	if len(errs) != 1 || errs[0] != "Title and text are required." {
		t.Fatalf("unexpected errors: %#v", errs)
	}
}

func TestAddCommentStoresUnapproved(t *testing.T) {
	env := setupHandlerTest(t, false)
	post := env.createPost(t, "Commentable", true)

	w := env.serve(http.MethodPost, fmt.Sprintf("/posts/%d/comments", post.ID), url.Values{"author": {" Reader "}, "text": {"Hi"}})
	if w.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", w.Code)
	}

	var comment db.Comment
	if err := env.db.Where("post_id = ?", post.ID).First(&comment).Error; err != nil {
		t.Fatalf("comment missing: %v", err)
	}
	if comment.Approved || comment.Author != "Reader" {
		t.Fatalf("unexpected comment: %+v", comment)
	}
}

func TestLoginFailureRendersForm(t *testing.T) {
	env := setupHandlerTest(t, false)

	w := env.serve(http.MethodPost, "/accounts/login", url.Values{"username": {"author"}, "password": {"nope"}, "next": {"//evil.example"}})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	data := env.html.payload(t)
	if env.html.last.name != "login.html" || data["error"] == nil {
		t.Fatalf("expected login template with error")
	}
	if data["next"] != "" {
		t.Fatalf("unsafe next must be dropped, got %v", data["next"])
	}
	if data["username"] != "author" {
		t.Fatalf("expected username to be kept, got %v", data["username"])
	}
}

func TestLoginSuccessRedirects(t *testing.T) {
	env := setupHandlerTest(t, false)

	w := env.serve(http.MethodPost, "/accounts/login", url.Values{"username": {"author"}, "password": {"secret"}, "next": {"/drafts"}})
	if w.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", w.Code)
	}
	if w.Header().Get("Location") != "/drafts" {
		t.Fatalf("unexpected location %q", w.Header().Get("Location"))
	}
	if !strings.Contains(w.Header().Get("Set-Cookie"), "test_session=") {
		t.Fatalf("expected session cookie")
	}
}

func TestGetPostsReturnsPublishedOnly(t *testing.T) {
	env := setupHandlerTest(t, false)
	published := env.createPost(t, "Public", true)
	env.createPost(t, "Private", false)

	w := env.serve(http.MethodGet, "/api/posts", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Posts []struct {
			ID     uint   `json:"id"`
			Title  string `json:"title"`
			Author string `json:"author"`
		} `json:"posts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Posts) != 1 || body.Posts[0].ID != published.ID {
		t.Fatalf("unexpected posts: %+v", body.Posts)
	}
	if body.Posts[0].Author != "author" {
		t.Fatalf("expected author username, got %q", body.Posts[0].Author)
	}
}

func TestGetPostHidesDraftsFromAnonymous(t *testing.T) {
	env := setupHandlerTest(t, false)
	draft := env.createPost(t, "Private", false)

	for _, path := range []string{fmt.Sprintf("/api/posts/%d", draft.ID), "/api/posts/999", "/api/posts/x"} {
		w := env.serve(http.MethodGet, path, nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, w.Code)
		}
		if !strings.Contains(w.Body.String(), `"error":"post not found"`) {
			t.Fatalf("%s: unexpected body %s", path, w.Body.String())
		}
	}
}

func TestParseUintParam(t *testing.T) {
	cases := map[string]bool{"1": true, "42": true, "0": false, "-3": false, "abc": false, "": false, "99999999999": false}
	for raw, ok := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Params = gin.Params{{Key: "id", Value: raw}}
		_, err := parseUintParam(c, "id")
		if (err == nil) != ok {
			t.Fatalf("parseUintParam(%q) error = %v, want ok=%v", raw, err, ok)
		}
	}
}

func TestSafeNext(t *testing.T) {
	cases := map[string]string{
		"/drafts":              "/drafts",
		" /posts/1/edit ":      "/posts/1/edit",
		"//evil.example":       "",
		"https://evil.example": "",
		"":                     "",
	}
	for in, want := range cases {
		if got := safeNext(in); got != want {
			t.Fatalf("safeNext(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRequestIDKeepsValidHeader(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFrom(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "2f1b7e3c-5d0a-4c6e-9f51-0d3e6c1a7b22")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "2f1b7e3c-5d0a-4c6e-9f51-0d3e6c1a7b22" {
		t.Fatalf("expected incoming id to be kept, got %q", w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "not-a-uuid")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() == "not-a-uuid" || w.Header().Get("X-Request-ID") != w.Body.String() {
		t.Fatalf("expected a fresh id, got %q", w.Body.String())
	}
}

func TestInputMessageSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("update post 3: %w", &service.InputError{Message: "Title and text are required."})
	if !errors.Is(err, service.ErrInvalidInput) {
		t.Fatalf("wrapped input error must match ErrInvalidInput")
	}
	if got := inputMessage(err); got != "Title and text are required." {
		t.Fatalf("unexpected message %q", got)
	}
	if got := inputMessage(errors.New("storage: disk full")); got != "Invalid input." {
		t.Fatalf("unexpected fallback %q", got)
	}
}
