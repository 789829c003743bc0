package sleeper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/Grant-Perry/BigWarRoom-sub012/model"
)

const (
	// SleeperURL hosts the league, roster, and matchup endpoints.
	SleeperURL = "https://api.sleeper.app"
	// ProjectionsURL hosts the weekly projection feed. Sleeper serves it
	// from a different domain than the rest of the API.
	ProjectionsURL = "https://api.sleeper.com"
)

// ErrNotFound reports that Sleeper has no record of the requested entity.
// Sleeper signals this two ways: a 404, or a 200 with a literal null body.
var ErrNotFound = errors.New("not found on sleeper")

type Client struct {
	url            string
	projectionsURL string
	httpClient     *http.Client
	limiter        *rate.Limiter
	breaker        *gobreaker.CircuitBreaker
	log            *logrus.Logger
}

func New(log *logrus.Logger) (*Client, error) {
	if log == nil {
		return nil, errors.New("logger is required")
	}
	return newClient(SleeperURL, ProjectionsURL, log), nil
}

// NewForTest points every endpoint, projections included, at a fake server.
// The rate limiter is disabled so tests never sleep.
func NewForTest(url string, log *logrus.Logger) *Client {
	c := newClient(url, url, log)
	c.httpClient = http.DefaultClient
	c.limiter = rate.NewLimiter(rate.Inf, 0)
	return c
}

func newClient(url, projectionsURL string, log *logrus.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "sleeper",
		MaxRequests: 3,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		IsSuccessful: func(err error) bool {
			// A missing league or user is an answer, not an outage.
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("sleeper circuit breaker state changed")
		},
	})

	return &Client{
		url:            url,
		projectionsURL: projectionsURL,
		httpClient: &http.Client{
			Timeout: 1 * time.Minute,
		},
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 10),
		breaker: breaker,
		log:     log,
	}
}

func (c *Client) sleeperRequest(ctx context.Context, res any, base, path string, args ...any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("error waiting on sleeper rate limit: %w", err)
	}
	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.doRequest(ctx, res, base, path, args...)
	})
	return err
}

func (c *Client) doRequest(ctx context.Context, res any, base, path string, args ...any) error {
	p := fmt.Sprintf(path, args...)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s%s", base, p), nil)
	if err != nil {
		return fmt.Errorf("error creating sleeper http request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending sleeper http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code from sleeper: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(res); err != nil {
		return fmt.Errorf("error parsing response from sleeper: %w", err)
	}
	return nil
}

func (c *Client) getUser(ctx context.Context, username string) (*user, error) {
	var u *user
	if err := c.sleeperRequest(ctx, &u, c.url, "/v1/user/%s", username); err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

func (c *Client) leaguesForUser(ctx context.Context, userID string, season int) ([]league, error) {
	var leagues []league
	if err := c.sleeperRequest(ctx, &leagues, c.url, "/v1/user/%s/leagues/nfl/%d", userID, season); err != nil {
		return nil, err
	}
	return leagues, nil
}

func (c *Client) getLeague(ctx context.Context, leagueID string) (*league, error) {
	var l *league
	if err := c.sleeperRequest(ctx, &l, c.url, "/v1/league/%s", leagueID); err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrNotFound
	}
	return l, nil
}

func (c *Client) getRosters(ctx context.Context, leagueID string) ([]roster, error) {
	var rosters []roster
	if err := c.sleeperRequest(ctx, &rosters, c.url, "/v1/league/%s/rosters", leagueID); err != nil {
		return nil, err
	}
	return rosters, nil
}

func (c *Client) getLeagueUsers(ctx context.Context, leagueID string) ([]leagueUser, error) {
	var users []leagueUser
	if err := c.sleeperRequest(ctx, &users, c.url, "/v1/league/%s/users", leagueID); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) getMatchups(ctx context.Context, leagueID string, week int) ([]matchupRow, error) {
	var rows []matchupRow
	if err := c.sleeperRequest(ctx, &rows, c.url, "/v1/league/%s/matchups/%d", leagueID, week); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) winnersBracket(ctx context.Context, leagueID string) ([]bracketMatch, error) {
	var matches []bracketMatch
	if err := c.sleeperRequest(ctx, &matches, c.url, "/v1/league/%s/winners_bracket", leagueID); err != nil {
		return nil, err
	}
	return matches, nil
}

// projections returns projected PPR points keyed by player ID for one week.
// Players without a projection are absent from the map.
func (c *Client) projections(ctx context.Context, season, week int) (map[string]float64, error) {
	var rows []projectionRow
	if err := c.sleeperRequest(ctx, &rows, c.projectionsURL, "/projections/nfl/%d/%d?season_type=regular", season, week); err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(rows))
	for _, row := range rows {
		if row.PlayerID == "" {
			continue
		}
		if pts, ok := row.Stats["pts_ppr"]; ok {
			out[row.PlayerID] = pts
		}
	}
	return out, nil
}

// SeasonState is where the NFL calendar currently stands according to
// Sleeper. Week is the display week, the one apps should show.
type SeasonState struct {
	Season     int
	Week       int
	SeasonType string
}

func (c *Client) State(ctx context.Context) (SeasonState, error) {
	var st nflState
	if err := c.sleeperRequest(ctx, &st, c.url, "/v1/state/nfl"); err != nil {
		return SeasonState{}, err
	}

	season, err := strconv.Atoi(st.Season)
	if err != nil {
		return SeasonState{}, fmt.Errorf("error parsing sleeper season %q: %w", st.Season, err)
	}

	week := st.Week
	if st.DisplayWeek > 0 {
		week = st.DisplayWeek
	}
	return SeasonState{Season: season, Week: week, SeasonType: st.SeasonType}, nil
}

// LoadPlayers fetches the full NFL player directory. The payload is large,
// around 5MB, so callers should refresh on a long interval.
func (c *Client) LoadPlayers(ctx context.Context) ([]model.Player, error) {
	var parsed map[string]sleeperPlayer
	if err := c.sleeperRequest(ctx, &parsed, c.url, "/v1/players/nfl"); err != nil {
		return nil, err
	}

	// Convert the players into model.Players
	result := make([]model.Player, 0, len(parsed))
	for _, p := range parsed {
		pos := model.ParsePosition(p.Position)
		if pos == model.POS_UNKNOWN || (p.FirstName == "Player" && p.LastName == "Invalid") {
			continue
		}
		result = append(result, *p.toPlayer())
	}
	return result, nil
}
