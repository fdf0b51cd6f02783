package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jobtrail/jobtrail-api/internal/api"
	apiMiddleware "github.com/jobtrail/jobtrail-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. It accepts the application dependencies to create handlers
// and register routes. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	// Create API handlers using the application's services
	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.passwordVerifier)
	applicationHandler := api.NewApplicationHandler(app.applicationService, app.statsService)
	resumeHandler := api.NewResumeHandler(app.resumeService)
	aiHandler := api.NewAIHandler(app.aiService)
	notificationHandler := api.NewNotificationHandler(app.followUpService)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.Refresh)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Application endpoints
			r.Post("/applications", applicationHandler.Create)
			r.Get("/applications", applicationHandler.List)
			r.Get("/applications/stats", applicationHandler.Stats)
			r.Get("/applications/{id}", applicationHandler.Get)
			r.Put("/applications/{id}", applicationHandler.Update)
			r.Patch("/applications/{id}/status", applicationHandler.UpdateStatus)
			r.Delete("/applications/{id}", applicationHandler.Delete)

			// Resume endpoints
			r.Post("/resumes", resumeHandler.Create)
			r.Get("/resumes", resumeHandler.List)
			r.Get("/resumes/{id}", resumeHandler.Get)
			r.Put("/resumes/{id}/default", resumeHandler.SetDefault)
			r.Delete("/resumes/{id}", resumeHandler.Delete)

			// AI job endpoints
			r.Post("/ai/analyze-resume", aiHandler.AnalyzeResume)
			r.Post("/ai/generate-cover-letter", aiHandler.GenerateCoverLetter)
			r.Get("/ai/jobs/{id}", aiHandler.GetJobStatus)

			// Notification endpoints
			r.Get("/notifications", notificationHandler.List)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
