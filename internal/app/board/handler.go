package board

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler interface {
	CreateBoard(c *gin.Context)
	GetBoards(c *gin.Context)
	GetBoardByID(c *gin.Context)
	UpdateBoard(c *gin.Context)
	DeleteBoard(c *gin.Context)
	SearchBoards(c *gin.Context)
	GetRecentBoards(c *gin.Context)
	GetPopularBoards(c *gin.Context)
}

type handler struct {
	service Service
	logger  *zap.SugaredLogger
}

func NewHandler(service Service, logger *zap.Logger) Handler {
	return &handler{
		service: service,
		logger:  logger.Sugar(),
	}
}

// @Summary Create board
// @Description Create a new board post
// @Tags Board
// @Accept json
// @Produce json
// @Param board body BoardRequest true "Board payload"
// @Success 201 {object} BoardResponse
// @Failure 400 {object} map[string]string
// @Router /api/boards [post]
func (h *handler) CreateBoard(c *gin.Context) {
	var req BoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	board, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, board)
}

// @Summary List boards
// @Description Get a page of boards, newest first
// @Tags Board
// @Produce json
// @Param page query int false "Zero-based page" default(0)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} Page
// @Router /api/boards [get]
func (h *handler) GetBoards(c *gin.Context) {
	page, size, ok := parsePaging(c)
	if !ok {
		return
	}

	result, err := h.service.List(c.Request.Context(), page, size)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary Get board by ID
// @Description Get a board and record a view
// @Tags Board
// @Produce json
// @Param id path int true "Board ID"
// @Success 200 {object} BoardResponse
// @Failure 404 {object} map[string]string
// @Router /api/boards/{id} [get]
func (h *handler) GetBoardByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	board, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, board)
}

// @Summary Update board
// @Tags Board
// @Accept json
// @Produce json
// @Param id path int true "Board ID"
// @Param board body BoardRequest true "Board payload"
// @Success 200 {object} BoardResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/boards/{id} [put]
func (h *handler) UpdateBoard(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req BoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	board, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, board)
}

// @Summary Delete board
// @Tags Board
// @Param id path int true "Board ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /api/boards/{id} [delete]
func (h *handler) DeleteBoard(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Search boards
// @Description Search by title, author, or title and content
// @Tags Board
// @Produce json
// @Param keyword query string true "Keyword"
// @Param type query string false "title | author | content" default(content)
// @Param page query int false "Zero-based page" default(0)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} Page
// @Failure 400 {object} map[string]string
// @Router /api/boards/search [get]
func (h *handler) SearchBoards(c *gin.Context) {
	keyword, exists := c.GetQuery("keyword")
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "keyword is required"})
		return
	}

	page, size, ok := parsePaging(c)
	if !ok {
		return
	}

	searchType := ParseSearchType(c.DefaultQuery("type", "content"))
	result, err := h.service.Search(c.Request.Context(), keyword, searchType, page, size)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary Recent boards
// @Tags Board
// @Produce json
// @Success 200 {array} BoardResponse
// @Router /api/boards/recent [get]
func (h *handler) GetRecentBoards(c *gin.Context) {
	boards, err := h.service.Recent(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, boards)
}

// @Summary Popular boards
// @Tags Board
// @Produce json
// @Success 200 {array} BoardResponse
// @Router /api/boards/popular [get]
func (h *handler) GetPopularBoards(c *gin.Context) {
	boards, err := h.service.Popular(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, boards)
}

func (h *handler) respondError(c *gin.Context, err error) {
	var validationErr *ValidationError
	var notFoundErr *NotFoundError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	default:
		h.logger.Errorw("Board request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func parseID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid board ID"})
		return 0, false
	}
	return id, true
}

func parsePaging(c *gin.Context) (int, int, bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
		return 0, 0, false
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(DefaultPageSize)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid size"})
		return 0, 0, false
	}
	return page, size, true
}
