package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/edu-api/internal/api"
	apiMiddleware "github.com/phrazzld/edu-api/internal/api/middleware"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	mathHandler := api.NewMathHandler(app.problemService, app.explanationService, app.checker, app.logger)
	authHandler := api.NewAuthHandler(app.jwtService, &app.config.Auth, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.logger)

	api.RegisterRoutes(r, mathHandler, authHandler, authMiddleware.Authenticate)
	return r
}
