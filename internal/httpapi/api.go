package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/AnushM55/autoforms-backend/internal/service"
)

// API holds shared dependencies for HTTP handlers.
type API struct {
	service *service.Service
}

func NewAPI(svc *service.Service) *API {
	return &API{service: svc}
}

// NewRouter builds the full HTTP handler with logging and panic recovery.
func NewRouter(svc *service.Service) http.Handler {
	api := NewAPI(svc)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	api.Routes(r)
	return r
}

// Routes registers all HTTP routes.
func (a *API) Routes(r chi.Router) {
	r.Get("/", a.handleRoot)
	r.Route("/quizzes", func(r chi.Router) {
		r.Post("/", a.handleCreateQuiz)
		r.Get("/", a.handleListQuizzes)
		r.Get("/{quizID}", a.handleGetQuiz)
		r.Post("/{quizID}/approve", a.handleApproveQuiz)
		r.Delete("/{quizID}", a.handleDeleteQuiz)
	})
}
