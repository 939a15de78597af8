package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"crudboard/internal/app/board"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler interface {
	Home(c *gin.Context)
	List(c *gin.Context)
	NewForm(c *gin.Context)
	Create(c *gin.Context)
	Detail(c *gin.Context)
	EditForm(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type handler struct {
	service board.Service
	logger  *zap.SugaredLogger
}

func NewHandler(service board.Service, logger *zap.Logger) Handler {
	return &handler{
		service: service,
		logger:  logger.Sugar(),
	}
}

// Home shows the landing page. Storage failures degrade to empty lists.
func (h *handler) Home(c *gin.Context) {
	ctx := c.Request.Context()

	recent, err := h.service.Recent(ctx)
	if err != nil {
		h.logger.Warnw("Failed to load recent boards for home page", "error", err)
		recent = []board.BoardResponse{}
	}
	popular, err := h.service.Popular(ctx)
	if err != nil {
		h.logger.Warnw("Failed to load popular boards for home page", "error", err)
		popular = []board.BoardResponse{}
	}

	h.render(c, http.StatusOK, "index.html", gin.H{
		"RecentBoards":  recent,
		"PopularBoards": popular,
	})
}

func (h *handler) List(c *gin.Context) {
	page := queryInt(c, "page", 0)
	size := queryInt(c, "size", board.DefaultPageSize)
	keyword := strings.TrimSpace(c.Query("keyword"))
	searchType := c.DefaultQuery("type", "content")

	var (
		result *board.Page
		err    error
	)
	if keyword != "" {
		result, err = h.service.Search(c.Request.Context(), keyword, board.ParseSearchType(searchType), page, size)
	} else {
		result, err = h.service.List(c.Request.Context(), page, size)
	}
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.render(c, http.StatusOK, "list.html", gin.H{
		"Boards":  result,
		"Keyword": keyword,
		"Type":    searchType,
	})
}

func (h *handler) NewForm(c *gin.Context) {
	h.render(c, http.StatusOK, "form.html", gin.H{
		"Board": board.BoardRequest{},
	})
}

func (h *handler) Create(c *gin.Context) {
	var req board.BoardRequest
	if err := c.ShouldBind(&req); err != nil {
		setFlash(c, flashErrorCookie, "Failed to create post: invalid form")
		c.Redirect(http.StatusSeeOther, "/boards/new")
		return
	}

	created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.logger.Warnw("Failed to create board", "error", err)
		setFlash(c, flashErrorCookie, "Failed to create post: "+userMessage(err))
		c.Redirect(http.StatusSeeOther, "/boards/new")
		return
	}

	setFlash(c, flashMessageCookie, "Post created.")
	c.Redirect(http.StatusSeeOther, boardPath(created.ID))
}

func (h *handler) Detail(c *gin.Context) {
	id, ok := h.parseID(c, http.StatusFound)
	if !ok {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.redirectIfNotFound(c, err)
		return
	}

	h.render(c, http.StatusOK, "detail.html", gin.H{"Board": b})
}

// EditForm loads the post without recording a view.
func (h *handler) EditForm(c *gin.Context) {
	id, ok := h.parseID(c, http.StatusFound)
	if !ok {
		return
	}

	b, err := h.service.Find(c.Request.Context(), id)
	if err != nil {
		h.redirectIfNotFound(c, err)
		return
	}

	h.render(c, http.StatusOK, "edit.html", gin.H{
		"BoardID": b.ID,
		"Board": board.BoardRequest{
			Title:   b.Title,
			Author:  b.Author,
			Content: b.Content,
		},
	})
}

func (h *handler) Update(c *gin.Context) {
	id, ok := h.parseID(c, http.StatusSeeOther)
	if !ok {
		return
	}

	var req board.BoardRequest
	if err := c.ShouldBind(&req); err != nil {
		setFlash(c, flashErrorCookie, "Failed to update post: invalid form")
		c.Redirect(http.StatusSeeOther, boardPath(id)+"/edit")
		return
	}

	_, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.logger.Warnw("Failed to update board", "board_id", id, "error", err)
		setFlash(c, flashErrorCookie, "Failed to update post: "+userMessage(err))

		var notFound *board.NotFoundError
		if errors.As(err, &notFound) {
			c.Redirect(http.StatusSeeOther, "/boards")
			return
		}
		c.Redirect(http.StatusSeeOther, boardPath(id)+"/edit")
		return
	}

	setFlash(c, flashMessageCookie, "Post updated.")
	c.Redirect(http.StatusSeeOther, boardPath(id))
}

func (h *handler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, http.StatusSeeOther)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.logger.Warnw("Failed to delete board", "board_id", id, "error", err)
		setFlash(c, flashErrorCookie, "Failed to delete post: "+userMessage(err))
		c.Redirect(http.StatusSeeOther, boardPath(id))
		return
	}

	setFlash(c, flashMessageCookie, "Post deleted.")
	c.Redirect(http.StatusSeeOther, "/boards")
}

func (h *handler) render(c *gin.Context, status int, name string, data gin.H) {
	data["Message"], data["Error"] = popFlash(c)
	c.HTML(status, name, data)
}

func (h *handler) renderError(c *gin.Context, err error) {
	h.logger.Errorw("Page request failed",
		"path", c.Request.URL.Path,
		"error", err,
	)
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"Error": "Something went wrong. Please try again later.",
	})
}

// redirectIfNotFound sends missing posts back to the list and renders the error page otherwise.
func (h *handler) redirectIfNotFound(c *gin.Context, err error) {
	var notFound *board.NotFoundError
	if errors.As(err, &notFound) {
		h.logger.Infow("Board not found", "board_id", notFound.ID)
		setFlash(c, flashErrorCookie, "The requested post does not exist.")
		c.Redirect(http.StatusFound, "/boards")
		return
	}
	h.renderError(c, err)
}

func (h *handler) parseID(c *gin.Context, redirectStatus int) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		setFlash(c, flashErrorCookie, "Invalid post ID.")
		c.Redirect(redirectStatus, "/boards")
		return 0, false
	}
	return id, true
}

func userMessage(err error) string {
	var validationErr *board.ValidationError
	var notFoundErr *board.NotFoundError
	switch {
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.As(err, &notFoundErr):
		return notFoundErr.Error()
	default:
		return "unexpected error"
	}
}

func boardPath(id uint64) string {
	return fmt.Sprintf("/boards/%d", id)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return v
}
