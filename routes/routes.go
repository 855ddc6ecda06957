package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sahilkapur/patti-tracker/handlers"
	"github.com/sahilkapur/patti-tracker/middleware"
)

// SetupRoutes wires every HTTP endpoint onto the router. Destructive
// operations (player and game deletion) sit behind the delete-token gate.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	playerHandler *handlers.PlayerHandler,
	gameHandler *handlers.GameHandler,
	statsHandler *handlers.StatsHandler,
	dashboardHandler *handlers.DashboardHandler,
	authHandler *handlers.AuthHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	requireDeleteToken := middleware.RequireDeleteToken(jwtSecret)

	router.Route("/players", func(r chi.Router) {
		r.Get("/", playerHandler.ListPlayers)
		r.Post("/", playerHandler.CreatePlayer)
		r.Get("/{id}", playerHandler.GetPlayerByID)
		r.Put("/{id}", playerHandler.UpdatePlayerByID)
		r.Post("/{id}/avatar", playerHandler.UploadPlayerAvatar)
		r.Get("/{id}/analytics", statsHandler.GetPlayerAnalytics)
		r.Get("/{id}/progression", statsHandler.GetScoreProgression)

		r.Group(func(r chi.Router) {
			r.Use(requireDeleteToken)
			r.Delete("/{id}", playerHandler.DeletePlayerByID)
		})
	})

	router.Route("/games", func(r chi.Router) {
		r.Get("/", gameHandler.ListGames)
		r.Post("/", gameHandler.CreateGame)
		r.Get("/{id}", gameHandler.GetGameByID)
		r.Put("/{id}", gameHandler.UpdateGameByID)
		r.Get("/{id}/cumulative-scores", statsHandler.GetCumulativeScoresAsOf)

		r.Group(func(r chi.Router) {
			r.Use(requireDeleteToken)
			r.Delete("/{id}", gameHandler.DeleteGameByID)
		})
	})

	router.Get("/leaderboard", statsHandler.GetLeaderboard)
	router.Get("/dashboard", dashboardHandler.GetStats)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/verify-delete", authHandler.VerifyDeletePassword)
		r.Post("/request-reset", authHandler.RequestPasswordReset)
		r.Post("/reset-password", authHandler.ResetPassword)
	})

	router.Get("/ws/leaderboard", webSocketHandler.ServeWs)
}
