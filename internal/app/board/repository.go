package board

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, board *Board) error
	FindByID(ctx context.Context, id uint64) (*Board, error)
	Update(ctx context.Context, board *Board) (int64, error)
	IncrementViewCount(ctx context.Context, id uint64) (int64, error)
	Delete(ctx context.Context, id uint64) (int64, error)
	FindAll(ctx context.Context, page, size int) ([]*Board, int64, error)
	FindByTitle(ctx context.Context, keyword string, page, size int) ([]*Board, int64, error)
	FindByAuthor(ctx context.Context, keyword string, page, size int) ([]*Board, int64, error)
	FindByTitleOrContent(ctx context.Context, keyword string, page, size int) ([]*Board, int64, error)
	FindRecent(ctx context.Context, limit int) ([]*Board, error)
	FindPopular(ctx context.Context, limit int) ([]*Board, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, board *Board) error {
	return r.db.WithContext(ctx).Create(board).Error
}

func (r *repository) FindByID(ctx context.Context, id uint64) (*Board, error) {
	var board Board
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&board).Error
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// Update writes the text fields only, so concurrent view increments are never overwritten.
func (r *repository) Update(ctx context.Context, board *Board) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Board{}).
		Where("id = ?", board.ID).
		Updates(map[string]interface{}{
			"title":      board.Title,
			"author":     board.Author,
			"content":    board.Content,
			"updated_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}

func (r *repository) IncrementViewCount(ctx context.Context, id uint64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Board{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"view_count": gorm.Expr("view_count + ?", 1),
			"updated_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}

func (r *repository) Delete(ctx context.Context, id uint64) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&Board{}, id)
	return res.RowsAffected, res.Error
}

func (r *repository) FindAll(ctx context.Context, page, size int) ([]*Board, int64, error) {
	return r.findPage(ctx, page, size, func(db *gorm.DB) *gorm.DB { return db })
}

func (r *repository) FindByTitle(ctx context.Context, keyword string, page, size int) ([]*Board, int64, error) {
	pattern := likePattern(strings.ToLower(keyword))
	return r.findPage(ctx, page, size, func(db *gorm.DB) *gorm.DB {
		return db.Where(`LOWER(title) LIKE ? ESCAPE '\'`, pattern)
	})
}

func (r *repository) FindByAuthor(ctx context.Context, keyword string, page, size int) ([]*Board, int64, error) {
	pattern := likePattern(strings.ToLower(keyword))
	return r.findPage(ctx, page, size, func(db *gorm.DB) *gorm.DB {
		return db.Where(`LOWER(author) LIKE ? ESCAPE '\'`, pattern)
	})
}

func (r *repository) FindByTitleOrContent(ctx context.Context, keyword string, page, size int) ([]*Board, int64, error) {
	pattern := likePattern(keyword)
	return r.findPage(ctx, page, size, func(db *gorm.DB) *gorm.DB {
		return db.Where(`title LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\'`, pattern, pattern)
	})
}

func (r *repository) FindRecent(ctx context.Context, limit int) ([]*Board, error) {
	var boards []*Board
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&boards).Error
	return boards, err
}

func (r *repository) FindPopular(ctx context.Context, limit int) ([]*Board, error) {
	var boards []*Board
	err := r.db.WithContext(ctx).
		Order("view_count DESC").
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&boards).Error
	return boards, err
}

func (r *repository) findPage(ctx context.Context, page, size int, filter func(*gorm.DB) *gorm.DB) ([]*Board, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&Board{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var boards []*Board
	err := r.db.WithContext(ctx).
		Scopes(filter).
		Order("created_at DESC").
		Order("id DESC").
		Offset(page * size).
		Limit(size).
		Find(&boards).Error
	if err != nil {
		return nil, 0, err
	}

	return boards, total, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(keyword string) string {
	return "%" + likeEscaper.Replace(keyword) + "%"
}
