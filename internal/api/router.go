package api

import (
	"net/http"
	"time"

	"contestjam/internal/api/handler"
	"contestjam/internal/app/service"
	"contestjam/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	problemService *service.ProblemService,
	partService *service.PartService,
	submissionService *service.SubmissionService,
	scoreService *service.ScoreService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	// Verifies a bearer token when present, puts claims in context. Routes
	// that require identity add middleware.Authenticator on top.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		authHandler.RegisterRoutes(v1)

		problemHandler := handler.NewProblemHandler(problemService)
		partHandler := handler.NewPartHandler(partService)
		submissionHandler := handler.NewSubmissionHandler(submissionService, partService)

		v1.Route("/problems", func(pr chi.Router) {
			problemHandler.RegisterRoutes(pr)
			pr.Route("/{problemSlug}/parts", func(partRouter chi.Router) {
				partHandler.RegisterRoutes(partRouter)
				submissionHandler.RegisterSubmitRoute(partRouter)
			})
		})

		v1.Route("/submissions", submissionHandler.RegisterRoutes)

		scoreboardHandler := handler.NewScoreboardHandler(scoreService)
		v1.Route("/scoreboard", scoreboardHandler.RegisterRoutes)
	})

	return r
}
