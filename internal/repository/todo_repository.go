package repository

import (
	"context"

	"gorm.io/gorm"

	"taskdeck/internal/domain"
)

// TodoRepository defines the interface for todo data operations.
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) error
	FindByID(ctx context.Context, id uint) (*domain.Todo, error)
	// ListVisible returns todos the user owns or edits, ordered by id.
	ListVisible(ctx context.Context, userID uint) ([]domain.Todo, error)
	// SearchVisible narrows ListVisible to rows whose title or description
	// contains the query, case-insensitively.
	SearchVisible(ctx context.Context, userID uint, query string) ([]domain.Todo, error)
	Update(ctx context.Context, todo *domain.Todo) error
	ReplaceEditors(ctx context.Context, todo *domain.Todo, editors []domain.User) error
	Delete(ctx context.Context, id uint) error
}

// gormTodoRepository implements TodoRepository using GORM.
type gormTodoRepository struct {
	db *gorm.DB
}

// NewGormTodoRepository creates a new GORM todo repository.
func NewGormTodoRepository(db *gorm.DB) TodoRepository {
	return &gormTodoRepository{db: db}
}

func (r *gormTodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	return r.db.WithContext(ctx).Create(todo).Error
}

func (r *gormTodoRepository) FindByID(ctx context.Context, id uint) (*domain.Todo, error) {
	var todo domain.Todo
	result := r.db.WithContext(ctx).Preload("Editors").First(&todo, id)
	if result.Error != nil {
		return nil, result.Error
	}
	return &todo, nil
}

// visible builds the owner-or-editor filter. It must agree row-for-row with
// domain.Todo.CanBeMutatedBy for every row it returns.
func (r *gormTodoRepository) visible(ctx context.Context, userID uint) *gorm.DB {
	editorOf := r.db.Table("todo_editors").Select("todo_id").Where("user_id = ?", userID)
	return r.db.WithContext(ctx).
		Preload("Editors").
		Where("(owner_id = ? OR id IN (?))", userID, editorOf)
}

func (r *gormTodoRepository) ListVisible(ctx context.Context, userID uint) ([]domain.Todo, error) {
	var todos []domain.Todo
	result := r.visible(ctx, userID).Order("id asc").Find(&todos)
	if result.Error != nil {
		return nil, result.Error
	}
	return todos, nil
}

func (r *gormTodoRepository) SearchVisible(ctx context.Context, userID uint, query string) ([]domain.Todo, error) {
	pattern := "%" + query + "%"
	var todos []domain.Todo
	result := r.visible(ctx, userID).
		Where("title ILIKE ? OR description ILIKE ?", pattern, pattern).
		Order("id asc").
		Find(&todos)
	if result.Error != nil {
		return nil, result.Error
	}
	return todos, nil
}

func (r *gormTodoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	return r.db.WithContext(ctx).Save(todo).Error
}

func (r *gormTodoRepository) ReplaceEditors(ctx context.Context, todo *domain.Todo, editors []domain.User) error {
	return r.db.WithContext(ctx).Model(todo).Association("Editors").Replace(editors)
}

func (r *gormTodoRepository) Delete(ctx context.Context, id uint) error {
	todo := domain.Todo{ID: id}
	if err := r.db.WithContext(ctx).Model(&todo).Association("Editors").Clear(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&todo).Error
}
