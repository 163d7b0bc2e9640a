package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/afzalbekoribjonov/zzz/internal/api/handlers"
	"github.com/afzalbekoribjonov/zzz/internal/auth"
	"github.com/afzalbekoribjonov/zzz/internal/services"
	"github.com/afzalbekoribjonov/zzz/internal/storage"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	userService services.UserServiceProvider,
	postService services.PostServiceProvider,
	followService services.FollowServiceProvider,
	feedService services.FeedServiceProvider,
	files *storage.FileStore,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	postHandler := handlers.NewPostHandler(postService)
	followHandler := handlers.NewFollowHandler(followService)
	feedHandler := handlers.NewFeedHandler(feedService)
	fileHandler := handlers.NewFileHandler(files)

	// Attachments are public, keyed by their generated name
	r.Get("/user_files/{name}", fileHandler.Serve)

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", userHandler.Register)
			r.Post("/login", userHandler.Login)
			r.Post("/forgot-password", userHandler.ForgotPassword)
			r.Post("/reset-password", userHandler.ResetPassword)
			r.With(auth.JWTMiddleware()).Get("/me", userHandler.GetMe)
		})

		// Everything below requires a session
		r.Group(func(r chi.Router) {
			r.Use(auth.JWTMiddleware())

			r.Route("/users/{id}", func(r chi.Router) {
				r.Put("/", userHandler.UpdateProfile)
				r.Delete("/", userHandler.DeleteAccount)
				r.Post("/follow", followHandler.Follow)
				r.Delete("/follow", followHandler.Unfollow)
			})

			r.Route("/posts", func(r chi.Router) {
				r.Post("/", postHandler.Create)
				r.Put("/{id}", postHandler.Update)
				r.Delete("/{id}", postHandler.Delete)
			})

			r.Get("/feed", feedHandler.Global)
			r.Get("/feed/following", feedHandler.Following)
		})
	})

	return r
}
