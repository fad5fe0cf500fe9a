package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"comic-auth/internal/config"
	"comic-auth/internal/handler"
	"comic-auth/internal/middleware"
	"comic-auth/internal/model"
)

func New(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	roleHandler *handler.RoleHandler,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", authHandler.Login)
			auth.Post("/register", authHandler.Register)
			auth.Post("/logout", authHandler.Logout)
			auth.With(authMiddleware.RequireAuth).Get("/me", authHandler.Me)
		})

		api.Route("/users", func(users chi.Router) {
			users.Use(authMiddleware.RequireAuth)
			users.Put("/me", userHandler.UpdateProfile)
			users.Put("/me/password", userHandler.ChangePassword)
			users.With(authMiddleware.RequireRoles(model.RoleAdmin)).Get("/", userHandler.List)
			users.With(authMiddleware.RequireRoles(model.RoleAdmin)).Get("/{user_id}", userHandler.Get)
		})

		api.Route("/roles", func(roles chi.Router) {
			roles.Use(authMiddleware.RequireAuth, authMiddleware.RequireRoles(model.RoleAdmin, model.RoleModerator))
			roles.Get("/", roleHandler.List)
			roles.Get("/{role_name}", roleHandler.Get)
		})
	})

	return r
}
