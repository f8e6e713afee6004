package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"taskdeck/internal/apperr"
	"taskdeck/internal/domain"
	"taskdeck/internal/repository"
)

// CreateTodoRequest holds the data needed to create a new todo.
type CreateTodoRequest struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	Date         *time.Time `json:"date"`
	IsBookmarked bool       `json:"is_bookmarked"`
	EditorIDs    []uint     `json:"editor_ids"`
}

// UpdateTodoRequest holds the data for updating an existing todo. Pointers
// distinguish a field being omitted from one set to its zero value.
type UpdateTodoRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Status       *string    `json:"status"`
	Date         *time.Time `json:"date"`
	IsBookmarked *bool      `json:"is_bookmarked"`
	EditorIDs    *[]uint    `json:"editor_ids"`
}

// TodoResponse is the standard representation of a todo returned by the
// service.
type TodoResponse struct {
	ID           uint    `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Status       string  `json:"status"`
	Date         string  `json:"date"`
	IsBookmarked bool    `json:"is_bookmarked"`
	OwnerID      uint    `json:"owner_id"`
	CreatedBy    string  `json:"created_by"`
	UpdatedBy    *string `json:"updated_by"`
	EditorIDs    []uint  `json:"editor_ids"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

// Sort keys accepted by SortTodos.
const (
	SortKeyID   = "id"
	SortKeyDate = "date"
)

// TodoService contains the business logic for managing todos. Every call
// takes the acting principal explicitly; authorization is never implicit.
type TodoService interface {
	CreateTodo(ctx context.Context, user *domain.User, req CreateTodoRequest) (*TodoResponse, error)
	GetTodoByID(ctx context.Context, user *domain.User, id uint) (*TodoResponse, error)
	// ListTodos returns every todo the user owns or edits, each exactly
	// once, ordered by id.
	ListTodos(ctx context.Context, user *domain.User) ([]TodoResponse, error)
	UpdateTodo(ctx context.Context, user *domain.User, id uint, req UpdateTodoRequest) (*TodoResponse, error)
	DeleteTodo(ctx context.Context, user *domain.User, id uint) error
	// SearchTodos filters the visible set by a case-insensitive substring
	// match over title and description.
	SearchTodos(ctx context.Context, user *domain.User, query string) ([]TodoResponse, error)
	// SortTodos orders the visible set descending by id or date. Unknown
	// keys are an error, never a silent default.
	SortTodos(ctx context.Context, user *domain.User, key string) ([]TodoResponse, error)
}

type todoService struct {
	todos repository.TodoRepository
	users repository.UserRepository
	log   zerolog.Logger
}

// NewTodoService creates a new todoService with its repository dependencies.
func NewTodoService(todos repository.TodoRepository, users repository.UserRepository, log zerolog.Logger) TodoService {
	return &todoService{
		todos: todos,
		users: users,
		log:   log,
	}
}

func (s *todoService) CreateTodo(ctx context.Context, user *domain.User, req CreateTodoRequest) (*TodoResponse, error) {
	if req.Title == "" {
		return nil, apperr.ErrTitleRequired
	}

	status := req.Status
	if status == "" {
		status = domain.StatusInProgress
	}
	if !domain.ValidStatus(status) {
		return nil, apperr.ErrInvalidStatus
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	editors, err := s.resolveEditors(ctx, req.EditorIDs)
	if err != nil {
		return nil, err
	}

	todo := &domain.Todo{
		Title:        req.Title,
		Description:  req.Description,
		Status:       status,
		Date:         date,
		IsBookmarked: req.IsBookmarked,
		OwnerID:      user.ID,
		CreatedBy:    user.Name,
		Editors:      editors,
	}
	if err := s.todos.Create(ctx, todo); err != nil {
		s.log.Error().Err(err).Msg("creating todo")
		return nil, apperr.Wrap(apperr.CodeInternal, "failed to create todo", err)
	}

	resp := toTodoResponse(todo)
	return &resp, nil
}

func (s *todoService) GetTodoByID(ctx context.Context, user *domain.User, id uint) (*TodoResponse, error) {
	todo, err := s.findTodo(ctx, id)
	if err != nil {
		return nil, err
	}
	if !todo.CanBeMutatedBy(user.ID) {
		return nil, apperr.ErrNotAllowed
	}

	resp := toTodoResponse(todo)
	return &resp, nil
}

func (s *todoService) ListTodos(ctx context.Context, user *domain.User) ([]TodoResponse, error) {
	todos, err := s.todos.ListVisible(ctx, user.ID)
	if err != nil {
		s.log.Error().Err(err).Msg("listing todos")
		return nil, apperr.Wrap(apperr.CodeInternal, "failed to list todos", err)
	}
	return toTodoResponses(todos), nil
}

func (s *todoService) UpdateTodo(ctx context.Context, user *domain.User, id uint, req UpdateTodoRequest) (*TodoResponse, error) {
	todo, err := s.findTodo(ctx, id)
	if err != nil {
		return nil, err
	}
	if !todo.CanBeMutatedBy(user.ID) {
		return nil, apperr.ErrNotAllowed
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, apperr.ErrTitleRequired
		}
		todo.Title = *req.Title
	}
	if req.Description != nil {
		todo.Description = *req.Description
	}
	if req.Status != nil {
		if !domain.ValidStatus(*req.Status) {
			return nil, apperr.ErrInvalidStatus
		}
		todo.Status = *req.Status
	}
	if req.Date != nil {
		todo.Date = *req.Date
	}
	if req.IsBookmarked != nil {
		todo.IsBookmarked = *req.IsBookmarked
	}

	updatedBy := user.Name
	todo.UpdatedBy = &updatedBy

	if req.EditorIDs != nil {
		editors, err := s.resolveEditors(ctx, *req.EditorIDs)
		if err != nil {
			return nil, err
		}
		if err := s.todos.ReplaceEditors(ctx, todo, editors); err != nil {
			s.log.Error().Err(err).Uint("todo_id", id).Msg("replacing editors")
			return nil, apperr.Wrap(apperr.CodeInternal, "failed to update todo", err)
		}
		todo.Editors = editors
	}

	if err := s.todos.Update(ctx, todo); err != nil {
		s.log.Error().Err(err).Uint("todo_id", id).Msg("updating todo")
		return nil, apperr.Wrap(apperr.CodeInternal, "failed to update todo", err)
	}

	resp := toTodoResponse(todo)
	return &resp, nil
}

func (s *todoService) DeleteTodo(ctx context.Context, user *domain.User, id uint) error {
	todo, err := s.findTodo(ctx, id)
	if err != nil {
		return err
	}
	if !todo.CanBeMutatedBy(user.ID) {
		return apperr.ErrNotAllowed
	}

	if err := s.todos.Delete(ctx, id); err != nil {
		s.log.Error().Err(err).Uint("todo_id", id).Msg("deleting todo")
		return apperr.Wrap(apperr.CodeInternal, "failed to delete todo", err)
	}
	return nil
}

func (s *todoService) SearchTodos(ctx context.Context, user *domain.User, query string) ([]TodoResponse, error) {
	todos, err := s.todos.SearchVisible(ctx, user.ID, query)
	if err != nil {
		s.log.Error().Err(err).Msg("searching todos")
		return nil, apperr.Wrap(apperr.CodeInternal, "failed to search todos", err)
	}
	return toTodoResponses(todos), nil
}

func (s *todoService) SortTodos(ctx context.Context, user *domain.User, key string) ([]TodoResponse, error) {
	if key != SortKeyID && key != SortKeyDate {
		return nil, apperr.ErrInvalidSortKey
	}

	todos, err := s.todos.ListVisible(ctx, user.ID)
	if err != nil {
		s.log.Error().Err(err).Msg("listing todos for sort")
		return nil, apperr.Wrap(apperr.CodeInternal, "failed to sort todos", err)
	}

	// Stable sort over the id-ordered list: equal keys keep their
	// original relative order.
	switch key {
	case SortKeyID:
		sort.SliceStable(todos, func(i, j int) bool {
			return todos[i].ID > todos[j].ID
		})
	case SortKeyDate:
		sort.SliceStable(todos, func(i, j int) bool {
			return todos[i].Date.After(todos[j].Date)
		})
	}

	return toTodoResponses(todos), nil
}

func (s *todoService) findTodo(ctx context.Context, id uint) (*domain.Todo, error) {
	todo, err := s.todos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrTodoNotFound
		}
		s.log.Error().Err(err).Uint("todo_id", id).Msg("fetching todo")
		return nil, apperr.Wrap(apperr.CodeInternal, "failed to retrieve todo", err)
	}
	return todo, nil
}

func (s *todoService) resolveEditors(ctx context.Context, ids []uint) ([]domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	seen := make(map[uint]bool, len(ids))
	unique := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	editors, err := s.users.FindByIDs(ctx, unique)
	if err != nil {
		s.log.Error().Err(err).Msg("resolving editors")
		return nil, apperr.Wrap(apperr.CodeInternal, "failed to resolve editors", err)
	}
	if len(editors) != len(unique) {
		return nil, apperr.InvalidArg("one or more editor ids do not exist")
	}
	return editors, nil
}

func toTodoResponse(todo *domain.Todo) TodoResponse {
	editorIDs := make([]uint, 0, len(todo.Editors))
	for _, e := range todo.Editors {
		editorIDs = append(editorIDs, e.ID)
	}
	return TodoResponse{
		ID:           todo.ID,
		Title:        todo.Title,
		Description:  todo.Description,
		Status:       todo.Status,
		Date:         todo.Date.Format(time.RFC3339),
		IsBookmarked: todo.IsBookmarked,
		OwnerID:      todo.OwnerID,
		CreatedBy:    todo.CreatedBy,
		UpdatedBy:    todo.UpdatedBy,
		EditorIDs:    editorIDs,
		CreatedAt:    todo.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    todo.UpdatedAt.Format(time.RFC3339),
	}
}

func toTodoResponses(todos []domain.Todo) []TodoResponse {
	responses := make([]TodoResponse, 0, len(todos))
	for i := range todos {
		responses = append(responses, toTodoResponse(&todos[i]))
	}
	return responses
}
