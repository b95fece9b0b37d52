package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/scry-completion/internal/api"
	apiMiddleware "github.com/phrazzld/scry-completion/internal/api/middleware"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace(app.logger))

	completionHandler := api.NewCompletionHandler(app.client)

	r.Route("/api", func(r chi.Router) {
		if app.auth != nil {
			r.Use(app.auth.Authenticate)
		}

		r.Post("/completions", completionHandler.CreateCompletion)
		r.Post("/study/flashcards", completionHandler.GenerateFlashcards)
		r.Post("/study/quiz", completionHandler.GenerateQuiz)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
