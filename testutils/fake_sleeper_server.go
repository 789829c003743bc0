package testutils

import (
	"embed"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
)

//go:embed sleeperdata
var sleeperdata embed.FS

// Fixture universe served by the fake: user "warroom" (12345678) plays in a
// head-to-head league and a guillotine league during week 14 of 2025.
const (
	h2hLeagueID     = "992099246872833024"
	choppedLeagueID = "1005178517580746753"
)

type FakeSleeperServer struct {
	s        *httptest.Server
	requests atomic.Int64
}

func NewFakeSleeperServer() *FakeSleeperServer {
	f := &FakeSleeperServer{}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			f.requests.Add(1)
			next.ServeHTTP(w, req)
		})
	})
	r.Route("/v1", func(r chi.Router) {
		r.Get("/players/nfl", nflPlayersHandler)
		r.Get("/state/nfl", nflStateHandler)

		r.Route("/user", func(r chi.Router) {
			r.Get("/{userID}/leagues/nfl/{year}", userLeaguesHandler)
			r.Get("/{username}", sleeperUserHandler)
		})

		r.Route("/league/{leagueID}", func(r chi.Router) {
			r.Get("/", leagueHandler)
			r.Get("/rosters", rostersHandler)
			r.Get("/users", leagueUsersHandler)
			r.Get("/matchups/{week}", matchupsHandler)
			r.Get("/winners_bracket", bracketHandler)
		})
	})

	// The projections feed lives on a different host in production. Tests
	// point both bases at this server.
	r.Get("/projections/nfl/{season}/{week}", projectionsHandler)

	f.s = httptest.NewServer(r)
	return f
}

func (f *FakeSleeperServer) Close() {
	f.s.Close()
}

func (f *FakeSleeperServer) URL() string {
	return f.s.URL
}

// Requests reports how many calls the fake has served, for tests asserting
// that providers reuse fetched state instead of refetching.
func (f *FakeSleeperServer) Requests() int {
	return int(f.requests.Load())
}

func nflPlayersHandler(w http.ResponseWriter, r *http.Request) {
	serveFile(w, "players.json")
}

func nflStateHandler(w http.ResponseWriter, r *http.Request) {
	serveFile(w, "nfl_state.json")
}

func userLeaguesHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	year := chi.URLParam(r, "year")

	if userID == "12345678" && year == "2025" {
		serveFile(w, "user_leagues.json")
	} else {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("[]"))
	}
}

func sleeperUserHandler(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "warroom" {
		serveFile(w, "user.json")
	} else {
		// requesting a user that doesn't exist returns a 200 with "null" as the response body
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("null"))
	}
}

func leagueHandler(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "leagueID") {
	case h2hLeagueID:
		serveFile(w, "league_h2h.json")
	case choppedLeagueID:
		serveFile(w, "league_chopped.json")
	default:
		// unknown leagues also come back as a 200 "null"
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("null"))
	}
}

func rostersHandler(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "leagueID") {
	case h2hLeagueID:
		serveFile(w, "rosters.json")
	case choppedLeagueID:
		serveFile(w, "chopped_rosters.json")
	default:
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("[]"))
	}
}

func leagueUsersHandler(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "leagueID") {
	case h2hLeagueID, choppedLeagueID:
		serveFile(w, "league_users.json")
	default:
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("[]"))
	}
}

func matchupsHandler(w http.ResponseWriter, r *http.Request) {
	leagueID := chi.URLParam(r, "leagueID")
	week := chi.URLParam(r, "week")

	switch {
	case leagueID == h2hLeagueID && week == "14":
		serveFile(w, "matchups_14.json")
	case leagueID == choppedLeagueID && week == "14":
		serveFile(w, "chopped_matchups_14.json")
	default:
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("[]"))
	}
}

func bracketHandler(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "leagueID") == h2hLeagueID {
		serveFile(w, "winners_bracket.json")
	} else {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("[]"))
	}
}

func projectionsHandler(w http.ResponseWriter, r *http.Request) {
	season := chi.URLParam(r, "season")
	week := chi.URLParam(r, "week")

	if season == "2025" && week == "14" {
		serveFile(w, "projections_14.json")
	} else {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("[]"))
	}
}

func serveFile(w http.ResponseWriter, name string) {
	b, err := sleeperdata.ReadFile(fmt.Sprintf("sleeperdata/%s", name))
	if err != nil {
		log.Printf("error reading sleeperdata/%s: %v", name, err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
