package server

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"taskdeck/internal/config"
	"taskdeck/internal/database"
	"taskdeck/internal/service"
)

type Server struct {
	cfg   config.Config
	auth  service.AuthService
	todos service.TodoService
	db    database.Service
	log   zerolog.Logger
}

func NewServer(cfg config.Config, auth service.AuthService, todos service.TodoService, db database.Service, log zerolog.Logger) *http.Server {
	appServer := &Server{
		cfg:   cfg,
		auth:  auth,
		todos: todos,
		db:    db,
		log:   log,
	}

	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
