package board

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"crudboard/internal/metrics"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	EventBoardCreated = "board_created"
	EventBoardUpdated = "board_updated"
	EventBoardDeleted = "board_deleted"
)

type Service interface {
	Create(ctx context.Context, req BoardRequest) (*BoardResponse, error)
	GetByID(ctx context.Context, id uint64) (*BoardResponse, error)
	Find(ctx context.Context, id uint64) (*BoardResponse, error)
	Update(ctx context.Context, id uint64, req BoardRequest) (*BoardResponse, error)
	Delete(ctx context.Context, id uint64) error
	List(ctx context.Context, page, size int) (*Page, error)
	Search(ctx context.Context, keyword string, searchType SearchType, page, size int) (*Page, error)
	Recent(ctx context.Context) ([]BoardResponse, error)
	Popular(ctx context.Context) ([]BoardResponse, error)
}

// EventPublisher is satisfied by utils.EventBus.
type EventPublisher interface {
	Publish(event string, data interface{})
}

type service struct {
	repo     Repository
	cache    Cache
	events   EventPublisher
	metrics  *metrics.Metrics
	validate *validator.Validate
	logger   *zap.SugaredLogger
}

// NewService builds the board service. cache, events and m may be nil.
func NewService(
	repo Repository,
	cache Cache,
	events EventPublisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) Service {
	return &service{
		repo:     repo,
		cache:    cache,
		events:   events,
		metrics:  m,
		validate: newValidator(),
		logger:   logger.Sugar(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

func (s *service) Create(ctx context.Context, req BoardRequest) (*BoardResponse, error) {
	req, err := s.validateRequest(req)
	if err != nil {
		return nil, err
	}

	board := &Board{
		Title:   req.Title,
		Author:  req.Author,
		Content: req.Content,
	}
	if err := s.repo.Create(ctx, board); err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	resp := NewBoardResponse(board)
	s.logger.Infow("Board created", "board_id", board.ID, "author", board.Author)
	s.metrics.IncrementBoardCreated()
	s.afterMutation(ctx, EventBoardCreated, resp)

	return &resp, nil
}

// GetByID records a view and returns the post-increment state.
func (s *service) GetByID(ctx context.Context, id uint64) (*BoardResponse, error) {
	rows, err := s.repo.IncrementViewCount(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to record view for board %d: %w", id, err)
	}
	if rows == 0 {
		return nil, &NotFoundError{ID: id}
	}
	s.metrics.IncrementBoardViews()
	if s.cache != nil {
		s.cache.Invalidate(ctx, popularCacheKey)
	}

	return s.Find(ctx, id)
}

func (s *service) Find(ctx context.Context, id uint64) (*BoardResponse, error) {
	board, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("failed to get board %d: %w", id, err)
	}

	resp := NewBoardResponse(board)
	return &resp, nil
}

func (s *service) Update(ctx context.Context, id uint64, req BoardRequest) (*BoardResponse, error) {
	req, err := s.validateRequest(req)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.Update(ctx, &Board{
		ID:      id,
		Title:   req.Title,
		Author:  req.Author,
		Content: req.Content,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update board %d: %w", id, err)
	}
	if rows == 0 {
		return nil, &NotFoundError{ID: id}
	}

	resp, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Board updated", "board_id", id)
	s.afterMutation(ctx, EventBoardUpdated, *resp)

	return resp, nil
}

func (s *service) Delete(ctx context.Context, id uint64) error {
	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete board %d: %w", id, err)
	}
	if rows == 0 {
		return &NotFoundError{ID: id}
	}

	s.logger.Infow("Board deleted", "board_id", id)
	s.metrics.IncrementBoardDeleted()
	s.afterMutation(ctx, EventBoardDeleted, map[string]uint64{"id": id})

	return nil
}

func (s *service) List(ctx context.Context, page, size int) (*Page, error) {
	page, size = ClampPage(page, size)

	boards, total, err := s.repo.FindAll(ctx, page, size)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	return newPage(boards, total, page, size), nil
}

func (s *service) Search(ctx context.Context, keyword string, searchType SearchType, page, size int) (*Page, error) {
	page, size = ClampPage(page, size)

	var (
		boards []*Board
		total  int64
		err    error
	)
	switch searchType {
	case SearchByTitle:
		boards, total, err = s.repo.FindByTitle(ctx, keyword, page, size)
	case SearchByAuthor:
		boards, total, err = s.repo.FindByAuthor(ctx, keyword, page, size)
	default:
		boards, total, err = s.repo.FindByTitleOrContent(ctx, keyword, page, size)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to search boards by %s: %w", searchType, err)
	}

	s.metrics.IncrementBoardSearch(searchType.String())
	return newPage(boards, total, page, size), nil
}

func (s *service) Recent(ctx context.Context) ([]BoardResponse, error) {
	return s.highlights(ctx, recentCacheKey, s.repo.FindRecent)
}

func (s *service) Popular(ctx context.Context) ([]BoardResponse, error) {
	return s.highlights(ctx, popularCacheKey, s.repo.FindPopular)
}

func (s *service) highlights(
	ctx context.Context,
	key string,
	load func(ctx context.Context, limit int) ([]*Board, error),
) ([]BoardResponse, error) {
	if s.cache != nil {
		if cached, ok := s.cache.GetBoards(ctx, key); ok {
			return cached, nil
		}
	}

	boards, err := load(ctx, highlightLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}

	resp := newBoardResponses(boards)
	if s.cache != nil {
		s.cache.SetBoards(ctx, key, resp)
	}
	return resp, nil
}

func (s *service) afterMutation(ctx context.Context, event string, data interface{}) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, recentCacheKey, popularCacheKey)
	}
	if s.events != nil {
		s.events.Publish(event, data)
	}
}

func (s *service) validateRequest(req BoardRequest) (BoardRequest, error) {
	req = req.trimmed()

	err := s.validate.Struct(req)
	if err == nil {
		return req, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return req, &ValidationError{Message: err.Error()}
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return req, &ValidationError{Field: fe.Field(), Message: "must not be blank"}
	case "max":
		return req, &ValidationError{Field: fe.Field(), Message: fmt.Sprintf("must be at most %s characters", fe.Param())}
	default:
		return req, &ValidationError{Field: fe.Field(), Message: "is invalid"}
	}
}
