package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/apperr"
	"taskdeck/internal/domain"
)

func newTestTodoService(t *testing.T) (TodoService, *fakeTodoRepo, *fakeUserRepo) {
	t.Helper()
	todos := newFakeTodoRepo()
	users := newFakeUserRepo()
	return NewTodoService(todos, users, zerolog.Nop()), todos, users
}

func addUser(t *testing.T, users *fakeUserRepo, name string) *domain.User {
	t.Helper()
	u := &domain.User{Name: name, Email: name + "@x.com", PasswordHash: "x"}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func TestCreateTodo(t *testing.T) {
	ctx := context.Background()
	svc, _, users := newTestTodoService(t)
	alice := addUser(t, users, "alice")
	bob := addUser(t, users, "bob")

	resp, err := svc.CreateTodo(ctx, alice, CreateTodoRequest{
		Title:     "write report",
		EditorIDs: []uint{bob.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "write report", resp.Title)
	assert.Equal(t, domain.StatusInProgress, resp.Status)
	assert.Equal(t, alice.ID, resp.OwnerID)
	assert.Equal(t, "alice", resp.CreatedBy)
	assert.Nil(t, resp.UpdatedBy)
	assert.Equal(t, []uint{bob.ID}, resp.EditorIDs)
}

func TestCreateTodoValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, users := newTestTodoService(t)
	alice := addUser(t, users, "alice")

	_, err := svc.CreateTodo(ctx, alice, CreateTodoRequest{})
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))

	_, err = svc.CreateTodo(ctx, alice, CreateTodoRequest{Title: "t", Status: "paused"})
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))

	_, err = svc.CreateTodo(ctx, alice, CreateTodoRequest{Title: "t", EditorIDs: []uint{999}})
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
}

func TestListTodosVisibility(t *testing.T) {
	ctx := context.Background()
	svc, todos, users := newTestTodoService(t)
	alice := addUser(t, users, "alice")
	bob := addUser(t, users, "bob")
	carol := addUser(t, users, "carol")

	_, err := svc.CreateTodo(ctx, alice, CreateTodoRequest{Title: "own"})
	require.NoError(t, err)
	_, err = svc.CreateTodo(ctx, alice, CreateTodoRequest{Title: "shared", EditorIDs: []uint{bob.ID}})
	require.NoError(t, err)
	_, err = svc.CreateTodo(ctx, bob, CreateTodoRequest{Title: "bobs"})
	require.NoError(t, err)

	aliceList, err := svc.ListTodos(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, aliceList, 2)

	bobList, err := svc.ListTodos(ctx, bob)
	require.NoError(t, err)
	assert.Len(t, bobList, 2)

	carolList, err := svc.ListTodos(ctx, carol)
	require.NoError(t, err)
	assert.Empty(t, carolList)

	// List membership and the mutation predicate must agree for every
	// (user, todo) pair.
	for _, user := range []*domain.User{alice, bob, carol} {
		list, err := svc.ListTodos(ctx, user)
		require.NoError(t, err)
		listed := map[uint]bool{}
		for _, item := range list {
			listed[item.ID] = true
		}
		for id := range todos.todos {
			todo, err := todos.FindByID(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, todo.CanBeMutatedBy(user.ID), listed[id],
				"list/predicate disagreement for user %d todo %d", user.ID, id)
		}
	}
}

func TestUpdateTodoByEditor(t *testing.T) {
	ctx := context.Background()
	svc, _, users := newTestTodoService(t)
	alice := addUser(t, users, "alice")
	bob := addUser(t, users, "bob")

	created, err := svc.CreateTodo(ctx, alice, CreateTodoRequest{Title: "shared", EditorIDs: []uint{bob.ID}})
	require.NoError(t, err)

	status := domain.StatusCompleted
	updated, err := svc.UpdateTodo(ctx, bob, created.ID, UpdateTodoRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, updated.Status)
	require.NotNil(t, updated.UpdatedBy)
	assert.Equal(t, "bob", *updated.UpdatedBy)
	// Ownership does not transfer on edit.
	assert.Equal(t, alice.ID, updated.OwnerID)
}

func TestUpdateTodoForbidden(t *testing.T) {
	ctx := context.Background()
	svc, _, users := newTestTodoService(t)
	alice := addUser(t, users, "alice")
	carol := addUser(t, users, "carol")

	created, err := svc.CreateTodo(ctx, alice, CreateTodoRequest{Title: "private"})
	require.NoError(t, err)

	title := "hijacked"
	_, err = svc.UpdateTodo(ctx, carol, created.ID, UpdateTodoRequest{Title: &title})
	assert.Equal(t, apperr.CodePermissionDenied, apperr.CodeOf(err))

	// The mutation must not have been applied.
	got, err := svc.GetTodoByID(ctx, alice, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "private", got.Title)
}

func TestUpdateTodoValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, users := newTestTodoService(t)
	alice := addUser(t, users, "alice")

	created, err := svc.CreateTodo(ctx, alice, CreateTodoRequest{Title: "t"})
	require.NoError(t, err)

	empty := ""
	_, err = svc.UpdateTodo(ctx, alice, created.ID, UpdateTodoRequest{Title: &empty})
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))

	bad := "paused"
	_, err = svc.UpdateTodo(ctx, alice, created.ID, UpdateTodoRequest{Status: &bad})
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))

	_, err = svc.UpdateTodo(ctx, alice, 999, UpdateTodoRequest{})
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestDeleteTodo(t *testing.T) {
	ctx := context.Background()
	svc, _, users := newTestTodoService(t)
	alice := addUser(t, users, "alice")
	carol := addUser(t, users, "carol")

	created, err := svc.CreateTodo(ctx, alice, CreateTodoRequest{Title: "t"})
	require.NoError(t, err)

	// A stranger's delete is refused and changes nothing.
	err = svc.DeleteTodo(ctx, carol, created.ID)
	assert.Equal(t, apperr.CodePermissionDenied, apperr.CodeOf(err))
	_, err = svc.GetTodoByID(ctx, alice, created.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTodo(ctx, alice, created.ID))

	// Re-deleting is NotFound, the todo is permanently gone.
	err = svc.DeleteTodo(ctx, alice, created.ID)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestSearchTodos(t *testing.T) {
	ctx := context.Background()
	svc, _, users := newTestTodoService(t)
	alice := addUser(t, users, "alice")
	bob := addUser(t, users, "bob")

	_, err := svc.CreateTodo(ctx, alice, CreateTodoRequest{Title: "Buy groceries"})
	require.NoError(t, err)
	_, err = svc.CreateTodo(ctx, alice, CreateTodoRequest{Title: "Call plumber", Description: "kitchen sink"})
	require.NoError(t, err)
	_, err = svc.CreateTodo(ctx, bob, CreateTodoRequest{Title: "groceries for bob"})
	require.NoError(t, err)

	// Case-insensitive, and scoped to the caller's visible set.
	results, err := svc.SearchTodos(ctx, alice, "GROCERIES")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Buy groceries", results[0].Title)

	results, err = svc.SearchTodos(ctx, alice, "sink")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Call plumber", results[0].Title)
}

func TestSortTodos(t *testing.T) {
	ctx := context.Background()
	svc, _, users := newTestTodoService(t)
	alice := addUser(t, users, "alice")

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, title := range []string{"oldest", "middle", "newest"} {
		date := base.AddDate(0, 0, i)
		_, err := svc.CreateTodo(ctx, alice, CreateTodoRequest{Title: title, Date: &date})
		require.NoError(t, err)
	}

	byDate, err := svc.SortTodos(ctx, alice, SortKeyDate)
	require.NoError(t, err)
	require.Len(t, byDate, 3)
	assert.Equal(t, "newest", byDate[0].Title)
	assert.Equal(t, "middle", byDate[1].Title)
	assert.Equal(t, "oldest", byDate[2].Title)

	byID, err := svc.SortTodos(ctx, alice, SortKeyID)
	require.NoError(t, err)
	assert.Greater(t, byID[0].ID, byID[1].ID)
	assert.Greater(t, byID[1].ID, byID[2].ID)

	_, err = svc.SortTodos(ctx, alice, "title")
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
}

func TestSortTodosStableOnEqualKeys(t *testing.T) {
	ctx := context.Background()
	svc, _, users := newTestTodoService(t)
	alice := addUser(t, users, "alice")

	date := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, title := range []string{"first", "second", "third"} {
		d := date
		_, err := svc.CreateTodo(ctx, alice, CreateTodoRequest{Title: title, Date: &d})
		require.NoError(t, err)
	}

	// Equal dates keep the original id-ascending order.
	sorted, err := svc.SortTodos(ctx, alice, SortKeyDate)
	require.NoError(t, err)
	require.Len(t, sorted, 3)
	assert.Equal(t, "first", sorted[0].Title)
	assert.Equal(t, "second", sorted[1].Title)
	assert.Equal(t, "third", sorted[2].Title)
}

func TestGetTodoByID(t *testing.T) {
	ctx := context.Background()
	svc, _, users := newTestTodoService(t)
	alice := addUser(t, users, "alice")
	bob := addUser(t, users, "bob")
	carol := addUser(t, users, "carol")

	created, err := svc.CreateTodo(ctx, alice, CreateTodoRequest{Title: "t", EditorIDs: []uint{bob.ID}})
	require.NoError(t, err)

	_, err = svc.GetTodoByID(ctx, bob, created.ID)
	require.NoError(t, err)

	_, err = svc.GetTodoByID(ctx, carol, created.ID)
	assert.Equal(t, apperr.CodePermissionDenied, apperr.CodeOf(err))

	_, err = svc.GetTodoByID(ctx, alice, 999)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}
