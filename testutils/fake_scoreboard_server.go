package testutils

import (
	"embed"
	"log"
	"net/http"
	"net/http/httptest"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
)

//go:embed espndata
var espndata embed.FS

// FakeScoreboardServer stands in for ESPN's public NFL scoreboard. It serves
// week 14 of 2025 and an empty slate for every other week, and counts
// requests so tests can assert on caching.
type FakeScoreboardServer struct {
	s        *httptest.Server
	requests atomic.Int64
}

func NewFakeScoreboardServer() *FakeScoreboardServer {
	f := &FakeScoreboardServer{}

	r := chi.NewRouter()
	r.Get("/scoreboard", func(w http.ResponseWriter, req *http.Request) {
		f.requests.Add(1)
		if req.URL.Query().Get("week") == "14" {
			serveESPNFile(w, "scoreboard_14.json")
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"events": []}`))
	})

	f.s = httptest.NewServer(r)
	return f
}

func (f *FakeScoreboardServer) Close() {
	f.s.Close()
}

func (f *FakeScoreboardServer) URL() string {
	return f.s.URL
}

func (f *FakeScoreboardServer) Requests() int {
	return int(f.requests.Load())
}

func serveESPNFile(w http.ResponseWriter, name string) {
	b, err := espndata.ReadFile("espndata/" + name)
	if err != nil {
		log.Printf("error reading espndata/%s: %v", name, err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
