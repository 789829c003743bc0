// Package espn reads ESPN's public NFL scoreboard. It is the schedule-state
// side feed: which teams play this week, when they kick off, and whether
// their game is underway.
package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/sirupsen/logrus"

	"github.com/Grant-Perry/BigWarRoom-sub012/model"
	"github.com/Grant-Perry/BigWarRoom-sub012/provider"
)

const (
	espnURL = "https://site.api.espn.com/apis/site/v2/sports/football/nfl"

	// espnDateFormat is RFC 3339 truncated to minutes, ESPN's event date.
	espnDateFormat = "2006-01-02T15:04Z"

	// scoreboardTTL bounds how often one week's scoreboard is refetched.
	// Every league refresh asks for the same week, so even a short TTL
	// collapses most of the traffic.
	scoreboardTTL = 30 * time.Second
)

type Scoreboard struct {
	url        string
	httpClient *http.Client
	clock      clock.Clock
	log        *logrus.Logger

	mu    sync.Mutex
	cache map[string]cachedWeek
}

type cachedWeek struct {
	games   map[string]provider.GameInfo
	fetched time.Time
}

func NewScoreboard(clk clock.Clock, log *logrus.Logger) *Scoreboard {
	return &Scoreboard{
		url: espnURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		clock: clk,
		log:   log,
		cache: make(map[string]cachedWeek),
	}
}

func NewForTest(url string, clk clock.Clock, log *logrus.Logger) *Scoreboard {
	s := NewScoreboard(clk, log)
	s.url = url
	s.httpClient = http.DefaultClient
	return s
}

type scoreboardResponse struct {
	Events []espnEvent `json:"events"`
}

type espnEvent struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Status struct {
		Type struct {
			State     string `json:"state"`
			Completed bool   `json:"completed"`
		} `json:"type"`
	} `json:"status"`
	Competitions []struct {
		Competitors []struct {
			HomeAway string `json:"homeAway"`
			Team     struct {
				Abbreviation string `json:"abbreviation"`
			} `json:"team"`
		} `json:"competitors"`
	} `json:"competitions"`
}

// WeekGames returns the schedule state for every team playing in the given
// week, keyed by canonical team abbreviation. Teams on bye are absent.
func (s *Scoreboard) WeekGames(ctx context.Context, season, week int) (map[string]provider.GameInfo, error) {
	key := fmt.Sprintf("%d-%d", season, week)

	s.mu.Lock()
	if entry, ok := s.cache[key]; ok && s.clock.Now().Sub(entry.fetched) < scoreboardTTL {
		s.mu.Unlock()
		return entry.games, nil
	}
	s.mu.Unlock()

	var parsed scoreboardResponse
	if err := s.espnRequest(ctx, &parsed, "/scoreboard?seasontype=2&week=%d&dates=%d", week, season); err != nil {
		return nil, err
	}

	games := make(map[string]provider.GameInfo)
	for _, ev := range parsed.Events {
		status := parseGameState(ev.Status.Type.State)
		kickoff, err := time.Parse(espnDateFormat, ev.Date)
		if err != nil {
			s.log.WithField("event", ev.ID).WithError(err).Debug("unparseable espn event date")
			kickoff = time.Time{}
		}
		for _, comp := range ev.Competitions {
			for _, competitor := range comp.Competitors {
				team := model.ParseTeam(competitor.Team.Abbreviation)
				if team.Equals(model.TEAM_FA) {
					continue
				}
				games[team.String()] = provider.GameInfo{Status: status, Kickoff: kickoff}
			}
		}
	}

	s.mu.Lock()
	s.cache[key] = cachedWeek{games: games, fetched: s.clock.Now()}
	s.mu.Unlock()
	return games, nil
}

func (s *Scoreboard) espnRequest(ctx context.Context, res any, path string, args ...any) error {
	p := fmt.Sprintf(path, args...)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s%s", s.url, p), nil)
	if err != nil {
		return fmt.Errorf("error creating espn http request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending espn http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code from espn: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(res); err != nil {
		return fmt.Errorf("error parsing response from espn: %w", err)
	}
	return nil
}

// parseGameState maps ESPN's pre/in/post event states onto game statuses.
func parseGameState(state string) model.GameStatus {
	switch state {
	case "in":
		return model.GameStatusLive
	case "post":
		return model.GameStatusFinal
	default:
		return model.GameStatusScheduled
	}
}
