package routes

import (
	"github.com/esportsfed/platform/handlers"
	"github.com/esportsfed/platform/middleware"
	"github.com/esportsfed/platform/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	User         *handlers.UserHandler
	Team         *handlers.TeamHandler
	Championship *handlers.ChampionshipHandler
	Registration *handlers.RegistrationHandler
	Match        *handlers.MatchHandler
	Standings    *handlers.StandingsHandler
	News         *handlers.NewsHandler
	Store        *handlers.StoreHandler
	WebSocket    *handlers.WebSocketHandler
}

func InitRoutes(h Handlers, auth *middleware.Authenticator, allowedOrigins []string) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	router.Post("/users/signup", h.Auth.SignUp)
	router.Post("/users/signin", h.Auth.SignIn)

	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Get("/users/me", h.User.GetMe)
		r.Patch("/users/me", h.User.UpdateMe)
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", h.Team.ListTeams)
		r.Get("/{teamID}", h.Team.GetTeam)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Post("/", h.Team.CreateTeam)
			r.Put("/{teamID}", h.Team.UpdateTeam)
			r.Post("/{teamID}/logo", h.Team.UploadLogo)
			r.Post("/{teamID}/players", h.Team.AddPlayer)
			r.Delete("/{teamID}/players/{playerID}", h.Team.RemovePlayer)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authorize(models.RoleAdmin))
				r.Delete("/{teamID}", h.Team.DeleteTeam)
			})
		})
	})

	router.Route("/championships", func(r chi.Router) {
		r.Get("/", h.Championship.ListChampionships)
		r.Get("/{championshipID}", h.Championship.GetChampionship)
		r.Get("/{championshipID}/standings", h.Championship.GetStandings)
		r.Get("/{championshipID}/matches", h.Match.ListMatches)
		r.Get("/{championshipID}/registrations", h.Registration.ListRegistrations)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Post("/{championshipID}/registrations", h.Registration.SubmitRegistration)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authorize(models.RoleAdmin))
				r.Post("/", h.Championship.CreateChampionship)
				r.Put("/{championshipID}", h.Championship.UpdateChampionship)
				r.Patch("/{championshipID}/status", h.Championship.UpdateStatus)
				r.Post("/{championshipID}/logo", h.Championship.UploadLogo)
				r.Delete("/{championshipID}", h.Championship.DeleteChampionship)
				r.Post("/{championshipID}/matches", h.Match.CreateMatch)
			})
		})
	})

	router.Route("/registrations", func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(middleware.Authorize(models.RoleAdmin))
		r.Post("/{registrationID}/approve", h.Registration.ApproveRegistration)
		r.Post("/{registrationID}/reject", h.Registration.RejectRegistration)
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", h.Match.GetMatch)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize(models.RoleAdmin))
			r.Post("/{matchID}/finalize", h.Match.FinalizeMatch)
			r.Post("/{matchID}/postpone", h.Match.PostponeMatch)
			r.Post("/{matchID}/cancel", h.Match.CancelMatch)
		})
	})

	router.Get("/standings", h.Standings.GetFederationTable)

	router.Route("/news", func(r chi.Router) {
		r.Get("/", h.News.ListPosts)
		r.Get("/{slug}", h.News.GetPost)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize(models.RoleAdmin))
			r.Post("/", h.News.CreatePost)
			r.Post("/{postID}/publish", h.News.PublishPost)
			r.Delete("/{postID}", h.News.DeletePost)
		})
	})

	router.Route("/store", func(r chi.Router) {
		r.Get("/products", h.Store.ListProducts)
		r.Get("/products/{productID}", h.Store.GetProduct)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Post("/orders", h.Store.PlaceOrder)
			r.Get("/orders", h.Store.ListMyOrders)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authorize(models.RoleAdmin))
				r.Post("/products", h.Store.CreateProduct)
			})
		})
	})

	router.Get("/ws/championships/{championshipID}", h.WebSocket.ServeWs)

	return router
}
