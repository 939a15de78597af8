package board

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group("/api"), NewHandler(svc, zap.NewNop()))
	return r
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_CreateAndGet(t *testing.T) {
	svc, _ := newTestService(t)
	r := setupRouter(svc)

	w := doRequest(r, http.MethodPost, "/api/boards", `{"title":" Hi ","author":"me","content":"body"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created BoardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Hi", created.Title)
	assert.Contains(t, w.Body.String(), `"viewCount":0`)

	w = doRequest(r, http.MethodGet, "/api/boards/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got BoardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, int64(1), got.ViewCount)
}

func TestHandler_StatusMapping(t *testing.T) {
	svc, _ := newTestService(t)
	r := setupRouter(svc)
	seedBoards(t, svc, 1)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"validation", http.MethodPost, "/api/boards", `{"title":"","author":"a","content":"c"}`, http.StatusBadRequest},
		{"malformed json", http.MethodPost, "/api/boards", `{"title":`, http.StatusBadRequest},
		{"bad id", http.MethodGet, "/api/boards/abc", "", http.StatusBadRequest},
		{"missing", http.MethodGet, "/api/boards/99", "", http.StatusNotFound},
		{"update missing", http.MethodPut, "/api/boards/99", `{"title":"t","author":"a","content":"c"}`, http.StatusNotFound},
		{"update invalid", http.MethodPut, "/api/boards/1", `{"title":"t","author":"","content":"c"}`, http.StatusBadRequest},
		{"update ok", http.MethodPut, "/api/boards/1", `{"title":"t","author":"a","content":"c"}`, http.StatusOK},
		{"delete missing", http.MethodDelete, "/api/boards/99", "", http.StatusNotFound},
		{"search without keyword", http.MethodGet, "/api/boards/search", "", http.StatusBadRequest},
		{"bad page", http.MethodGet, "/api/boards?page=x", "", http.StatusBadRequest},
		{"delete ok", http.MethodDelete, "/api/boards/1", "", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			if w.Code >= 400 {
				var body map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.NotEmpty(t, body["error"])
			}
		})
	}
}

func TestHandler_ListAndSearch(t *testing.T) {
	svc, _ := newTestService(t)
	r := setupRouter(svc)
	seedBoards(t, svc, 12)

	w := doRequest(r, http.MethodGet, "/api/boards", "")
	require.Equal(t, http.StatusOK, w.Code)
	var page Page
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Content, 10)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, int64(12), page.TotalElements)

	w = doRequest(r, http.MethodGet, "/api/boards/search?keyword=Post%2011&type=title", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Post 11", page.Content[0].Title)

	w = doRequest(r, http.MethodGet, "/api/boards?page=922337203685477581&size=10", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Empty(t, page.Content)
	assert.Equal(t, int64(12), page.TotalElements)

	w = doRequest(r, http.MethodGet, "/api/boards/recent", "")
	require.Equal(t, http.StatusOK, w.Code)
	var recent []BoardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recent))
	assert.Len(t, recent, 5)

	w = doRequest(r, http.MethodGet, "/api/boards/popular", "")
	require.Equal(t, http.StatusOK, w.Code)
}

type failingService struct {
	Service
}

func (failingService) List(context.Context, int, int) (*Page, error) {
	return nil, errors.New("connection refused")
}

func TestHandler_InternalErrorIsGeneric(t *testing.T) {
	r := setupRouter(failingService{})

	w := doRequest(r, http.MethodGet, "/api/boards", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}
