package board

import (
	"math"
	"strings"
	"time"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	highlightLimit  = 5
)

type Board struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	Title     string    `gorm:"size:200;not null"`
	Author    string    `gorm:"size:50;not null"`
	Content   string    `gorm:"type:text;not null"`
	ViewCount int64     `gorm:"not null;default:0;index"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Board) TableName() string {
	return "board"
}

// BoardRequest is the payload for create and update, bound from JSON or a form.
type BoardRequest struct {
	Title   string `json:"title" form:"title" validate:"required,max=200"`
	Author  string `json:"author" form:"author" validate:"required,max=50"`
	Content string `json:"content" form:"content" validate:"required"`
}

func (r BoardRequest) trimmed() BoardRequest {
	return BoardRequest{
		Title:   strings.TrimSpace(r.Title),
		Author:  strings.TrimSpace(r.Author),
		Content: strings.TrimSpace(r.Content),
	}
}

type BoardResponse struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	ViewCount int64     `json:"viewCount"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewBoardResponse(b *Board) BoardResponse {
	return BoardResponse{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		Content:   b.Content,
		ViewCount: b.ViewCount,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func newBoardResponses(boards []*Board) []BoardResponse {
	out := make([]BoardResponse, 0, len(boards))
	for _, b := range boards {
		out = append(out, NewBoardResponse(b))
	}
	return out
}

type Page struct {
	Content       []BoardResponse `json:"content"`
	Page          int             `json:"page"`
	Size          int             `json:"size"`
	TotalElements int64           `json:"totalElements"`
	TotalPages    int             `json:"totalPages"`
	First         bool            `json:"first"`
	Last          bool            `json:"last"`
}

func newPage(boards []*Board, total int64, page, size int) *Page {
	totalPages := int((total + int64(size) - 1) / int64(size))
	return &Page{
		Content:       newBoardResponses(boards),
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
		First:         page == 0,
		Last:          page >= totalPages-1,
	}
}

// ClampPage normalizes caller supplied paging values. Negative pages become 0,
// non-positive sizes fall back to DefaultPageSize and sizes above MaxPageSize are capped.
// page is capped so that page*size never overflows the row offset.
func ClampPage(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if maxPage := math.MaxInt32 / size; page > maxPage {
		page = maxPage
	}
	return page, size
}

type SearchType int

const (
	SearchByTitleOrContent SearchType = iota
	SearchByTitle
	SearchByAuthor
)

func ParseSearchType(s string) SearchType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "title":
		return SearchByTitle
	case "author":
		return SearchByAuthor
	default:
		return SearchByTitleOrContent
	}
}

func (t SearchType) String() string {
	switch t {
	case SearchByTitle:
		return "title"
	case SearchByAuthor:
		return "author"
	default:
		return "content"
	}
}
