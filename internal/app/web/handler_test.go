package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"crudboard/internal/app/board"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestBoardService(t *testing.T) board.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&board.Board{}))

	return board.NewService(board.NewRepository(db), nil, nil, nil, zap.NewNop())
}

func setupRouter(t *testing.T, svc board.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tmpl, err := LoadTemplates()
	require.NoError(t, err)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	RegisterRoutes(r, NewHandler(svc, zap.NewNop()))
	return r
}

func get(r http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postForm(r http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestWeb_CreateRedirectsToDetail(t *testing.T) {
	svc := newTestBoardService(t)
	r := setupRouter(t, svc)

	w := postForm(r, "/boards/new", url.Values{"title": {"Hello"}, "author": {"me"}, "content": {"body"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/boards/1", w.Header().Get("Location"))

	flash := findCookie(w, flashMessageCookie)
	require.NotNil(t, flash)

	w = get(r, "/boards/1", flash)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Hello")
	assert.Contains(t, body, "Post created.")
	assert.Contains(t, body, "1 views")

	cleared := findCookie(w, flashMessageCookie)
	require.NotNil(t, cleared)
	assert.True(t, cleared.MaxAge < 0)
}

func TestWeb_CreateValidationRedirectsToForm(t *testing.T) {
	r := setupRouter(t, newTestBoardService(t))

	w := postForm(r, "/boards/new", url.Values{"title": {"  "}, "author": {"me"}, "content": {"body"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/boards/new", w.Header().Get("Location"))

	flash := findCookie(w, flashErrorCookie)
	require.NotNil(t, flash)
	value, err := url.QueryUnescape(flash.Value)
	require.NoError(t, err)
	assert.Contains(t, value, "title")
}

func TestWeb_DetailNotFoundRedirects(t *testing.T) {
	r := setupRouter(t, newTestBoardService(t))

	for _, path := range []string{"/boards/42", "/boards/42/edit", "/boards/abc"} {
		w := get(r, path)
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/boards", w.Header().Get("Location"), path)
		assert.NotNil(t, findCookie(w, flashErrorCookie), path)
	}
}

func TestWeb_EditFormDoesNotCountView(t *testing.T) {
	svc := newTestBoardService(t)
	r := setupRouter(t, svc)

	created, err := svc.Create(context.Background(), board.BoardRequest{Title: "T", Author: "A", Content: "C"})
	require.NoError(t, err)

	w := get(r, "/boards/1/edit")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/boards/1/edit"`)

	found, err := svc.Find(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), found.ViewCount)
}

func TestWeb_UpdateFlow(t *testing.T) {
	svc := newTestBoardService(t)
	r := setupRouter(t, svc)
	_, err := svc.Create(context.Background(), board.BoardRequest{Title: "T", Author: "A", Content: "C"})
	require.NoError(t, err)

	w := postForm(r, "/boards/1/edit", url.Values{"title": {"T2"}, "author": {"A"}, "content": {"C2"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/boards/1", w.Header().Get("Location"))

	w = postForm(r, "/boards/1/edit", url.Values{"title": {"T3"}, "author": {""}, "content": {"C"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/boards/1/edit", w.Header().Get("Location"))

	w = postForm(r, "/boards/9/edit", url.Values{"title": {"T"}, "author": {"A"}, "content": {"C"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/boards", w.Header().Get("Location"))

	found, err := svc.Find(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "T2", found.Title)
}

func TestWeb_DeleteFlow(t *testing.T) {
	svc := newTestBoardService(t)
	r := setupRouter(t, svc)
	_, err := svc.Create(context.Background(), board.BoardRequest{Title: "T", Author: "A", Content: "C"})
	require.NoError(t, err)

	w := postForm(r, "/boards/1/delete", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/boards", w.Header().Get("Location"))

	w = postForm(r, "/boards/1/delete", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/boards/1", w.Header().Get("Location"))
	assert.NotNil(t, findCookie(w, flashErrorCookie))
}

func TestWeb_ListAndSearch(t *testing.T) {
	svc := newTestBoardService(t)
	r := setupRouter(t, svc)
	ctx := context.Background()
	for _, title := range []string{"Go tips", "Rust notes", "Cooking"} {
		_, err := svc.Create(ctx, board.BoardRequest{Title: title, Author: "A", Content: "C"})
		require.NoError(t, err)
	}

	w := get(r, "/boards")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "3 posts")

	w = get(r, "/boards?keyword=rust&type=title")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Rust notes")
	assert.NotContains(t, body, "Go tips")

	w = get(r, "/boards?keyword=%20%20")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "3 posts")
}

func TestWeb_HomeShowsHighlights(t *testing.T) {
	svc := newTestBoardService(t)
	r := setupRouter(t, svc)
	_, err := svc.Create(context.Background(), board.BoardRequest{Title: "Fresh post", Author: "A", Content: "C"})
	require.NoError(t, err)

	w := get(r, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Fresh post")
}

type brokenService struct {
	board.Service
}

func (brokenService) Recent(context.Context) ([]board.BoardResponse, error) {
	return nil, errors.New("db down")
}

func (brokenService) Popular(context.Context) ([]board.BoardResponse, error) {
	return nil, errors.New("db down")
}

func (brokenService) List(context.Context, int, int) (*board.Page, error) {
	return nil, errors.New("db down")
}

func TestWeb_HomeDegradesOnStorageFailure(t *testing.T) {
	r := setupRouter(t, brokenService{})

	w := get(r, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No posts yet.")

	w = get(r, "/boards")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db down")
}
