package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"gorm.io/gorm"

	"taskdeck/internal/domain"
)

// In-memory repositories mirroring the gorm implementations closely enough
// for service-level tests: gorm.ErrRecordNotFound on misses, id-ascending
// list order, owner-or-editor visibility.

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByIDs(_ context.Context, ids []uint) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []domain.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (r *fakeUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) delete(id uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

type fakeTodoRepo struct {
	mu     sync.Mutex
	nextID uint
	todos  map[uint]domain.Todo
}

func newFakeTodoRepo() *fakeTodoRepo {
	return &fakeTodoRepo{todos: map[uint]domain.Todo{}}
}

func (r *fakeTodoRepo) Create(_ context.Context, todo *domain.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	todo.ID = r.nextID
	r.todos[todo.ID] = *todo
	return nil
}

func (r *fakeTodoRepo) FindByID(_ context.Context, id uint) (*domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.todos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &t, nil
}

func (r *fakeTodoRepo) ListVisible(_ context.Context, userID uint) ([]domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var todos []domain.Todo
	for _, t := range r.todos {
		if t.OwnerID == userID || isEditor(&t, userID) {
			todos = append(todos, t)
		}
	}
	sort.Slice(todos, func(i, j int) bool { return todos[i].ID < todos[j].ID })
	return todos, nil
}

func (r *fakeTodoRepo) SearchVisible(ctx context.Context, userID uint, query string) ([]domain.Todo, error) {
	visible, err := r.ListVisible(ctx, userID)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	var todos []domain.Todo
	for _, t := range visible {
		if strings.Contains(strings.ToLower(t.Title), q) || strings.Contains(strings.ToLower(t.Description), q) {
			todos = append(todos, t)
		}
	}
	return todos, nil
}

func (r *fakeTodoRepo) Update(_ context.Context, todo *domain.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.todos[todo.ID] = *todo
	return nil
}

func (r *fakeTodoRepo) ReplaceEditors(_ context.Context, todo *domain.Todo, editors []domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.todos[todo.ID]
	stored.Editors = editors
	r.todos[todo.ID] = stored
	return nil
}

func (r *fakeTodoRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.todos, id)
	return nil
}

func isEditor(t *domain.Todo, userID uint) bool {
	for _, e := range t.Editors {
		if e.ID == userID {
			return true
		}
	}
	return false
}
