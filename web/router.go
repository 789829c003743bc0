package web

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"github.com/unrolled/render"

	"github.com/Grant-Perry/BigWarRoom-sub012/settings"
	"github.com/Grant-Perry/BigWarRoom-sub012/store"
)

func getRouter(st store.Store, prefs *settings.Prefs, season int, render *render.Render, log *logrus.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// The watch endpoint holds its connection open for the life of the
	// subscription, so the request timeout only wraps the plain handlers.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(10 * time.Second))

		r.Get("/", rootHandler(render))

		r.Route("/leagues", func(r chi.Router) {
			r.Get("/", leaguesHandler(st, render))
			r.Post("/warm", warmHandler(st, render))
			r.Get("/{platform}/{leagueID}/{week:\\d+}", leagueHandler(st, season, render))
			r.Get("/{platform}/{leagueID}/{week:\\d+}/matchups", leagueMatchupsHandler(st, season, render))
		})

		r.Route("/matchups/{platform}/{leagueID}/{week:\\d+}/{matchupID}", func(r chi.Router) {
			r.Get("/", cachedMatchupHandler(st, render))
			r.Post("/hydrate", hydrateMatchupHandler(st, render))
		})

		r.Post("/refresh", refreshHandler(st, season, render))

		r.Route("/players", func(r chi.Router) {
			r.Get("/", allPlayersHandler(st, render))
			r.Get("/changed", changedPlayersHandler(st, render))
		})

		r.Route("/caches", func(r chi.Router) {
			r.Delete("/", clearCachesHandler(st, render))
			r.Post("/cleanup", cleanupStaleLeaguesHandler(st, render))
		})

		r.Route("/settings/show-eliminated", func(r chi.Router) {
			r.Get("/", getShowEliminatedHandler(prefs, render))
			r.Put("/", setShowEliminatedHandler(prefs, render))
		})
	})

	r.Get("/watch/{platform}/{leagueID}/{week:\\d+}", watchHandler(st, season, log))

	return r
}
