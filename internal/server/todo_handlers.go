package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"taskdeck/internal/service"
)

func (s *Server) createTodoHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTodoRequest
	if !s.decodeJSONBody(w, r, &req) {
		return
	}

	todo, err := s.todos.CreateTodo(r.Context(), principalFrom(r), req)
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusCreated, todo)
}

func (s *Server) listTodosHandler(w http.ResponseWriter, r *http.Request) {
	todos, err := s.todos.ListTodos(r.Context(), principalFrom(r))
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, todos)
}

func (s *Server) getTodoByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := s.todoIDParam(w, r)
	if !ok {
		return
	}

	todo, err := s.todos.GetTodoByID(r.Context(), principalFrom(r), id)
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) updateTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := s.todoIDParam(w, r)
	if !ok {
		return
	}

	var req service.UpdateTodoRequest
	if !s.decodeJSONBody(w, r, &req) {
		return
	}

	todo, err := s.todos.UpdateTodo(r.Context(), principalFrom(r), id, req)
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) deleteTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := s.todoIDParam(w, r)
	if !ok {
		return
	}

	if err := s.todos.DeleteTodo(r.Context(), principalFrom(r), id); err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, map[string]string{"message": "Todo removed"})
}

func (s *Server) searchTodosHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	todos, err := s.todos.SearchTodos(r.Context(), principalFrom(r), query)
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, todos)
}

func (s *Server) sortTodosHandler(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	todos, err := s.todos.SortTodos(r.Context(), principalFrom(r), key)
	if err != nil {
		s.respondWithServiceError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, todos)
}

func (s *Server) todoIDParam(w http.ResponseWriter, r *http.Request) (uint, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		s.respondWithError(w, http.StatusBadRequest, "Invalid todo ID provided")
		return 0, false
	}
	return uint(id), true
}
