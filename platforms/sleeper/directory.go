package sleeper

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Grant-Perry/BigWarRoom-sub012/model"
	"github.com/Grant-Perry/BigWarRoom-sub012/provider"
)

// Directory answers league questions for one Sleeper account. The account's
// user ID is resolved from the username once and reused.
type Directory struct {
	client   *Client
	username string
	season   int
	log      *logrus.Logger

	mu     sync.Mutex
	userID string
}

func NewDirectory(client *Client, username string, season int, log *logrus.Logger) (*Directory, error) {
	if client == nil {
		return nil, errors.New("sleeper client is required")
	}
	if username == "" {
		return nil, errors.New("sleeper username is required")
	}
	return &Directory{
		client:   client,
		username: username,
		season:   season,
		log:      log,
	}, nil
}

// UserID resolves the configured username to a Sleeper user ID, caching the
// answer. Usernames can change; user IDs cannot.
func (d *Directory) UserID(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.userID != "" {
		return d.userID, nil
	}

	u, err := d.client.getUser(ctx, d.username)
	if err != nil {
		return "", fmt.Errorf("error resolving sleeper user %s: %w", d.username, err)
	}
	d.userID = u.UserID
	d.log.WithFields(logrus.Fields{
		"username": d.username,
		"userID":   u.UserID,
	}).Debug("resolved sleeper user")
	return d.userID, nil
}

func (d *Directory) ResolveLeague(ctx context.Context, leagueID string) (*provider.League, error) {
	l, err := d.client.getLeague(ctx, leagueID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("league %s: %w", leagueID, provider.ErrLeagueNotFound)
		}
		return nil, err
	}
	return toLeague(l), nil
}

func (d *Directory) ActiveLeagues(ctx context.Context) ([]provider.League, error) {
	userID, err := d.UserID(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := d.client.leaguesForUser(ctx, userID, d.season)
	if err != nil {
		return nil, fmt.Errorf("error listing sleeper leagues for %s: %w", d.username, err)
	}

	leagues := make([]provider.League, 0, len(raw))
	for i := range raw {
		leagues = append(leagues, *toLeague(&raw[i]))
	}
	return leagues, nil
}

func toLeague(l *league) *provider.League {
	// Sleeper sends the season as a string.
	season, err := strconv.Atoi(l.Season)
	if err != nil {
		season = 0
	}
	return &provider.League{
		ID:               l.LeagueID,
		Name:             l.Name,
		Platform:         model.PlatformSleeper,
		Season:           season,
		TotalRosters:     l.TotalRosters,
		PlayoffWeekStart: l.Settings.PlayoffWeekStart,
		IsChopped:        l.chopped(),
	}
}

// Oracle answers playoff-bracket questions from the winners bracket feed.
// fallbackWeek stands in for leagues that never report a playoff start.
type Oracle struct {
	client       *Client
	fallbackWeek int
}

func NewOracle(client *Client, fallbackWeek int) *Oracle {
	return &Oracle{client: client, fallbackWeek: fallbackWeek}
}

func (o *Oracle) IsPlayoffWeek(ctx context.Context, league provider.League, week int) (bool, error) {
	start := o.playoffStart(league)
	if start <= 0 {
		return false, nil
	}
	return week >= start, nil
}

func (o *Oracle) InWinnersBracket(ctx context.Context, league provider.League, week int, teamID string) (bool, error) {
	rosterID, err := strconv.Atoi(teamID)
	if err != nil {
		return false, fmt.Errorf("team id %q is not a sleeper roster id: %w", teamID, err)
	}

	start := o.playoffStart(league)
	if start <= 0 {
		return false, nil
	}
	round := week - start + 1
	if round < 1 {
		round = 1
	}

	matches, err := o.client.winnersBracket(ctx, league.ID)
	if err != nil {
		return false, fmt.Errorf("error fetching winners bracket for league %s: %w", league.ID, err)
	}
	return alive(matches, rosterID, round), nil
}

func (o *Oracle) playoffStart(league provider.League) int {
	if league.PlayoffWeekStart > 0 {
		return league.PlayoffWeekStart
	}
	return o.fallbackWeek
}

// alive reports whether the roster is still playing for the title in the
// given bracket round. Bye seeds first appear in round two, so the check
// looks at the roster's latest appearance rather than the round itself.
func alive(matches []bracketMatch, rosterID, round int) bool {
	latest := -1
	var latestMatch bracketMatch
	for _, m := range matches {
		if m.has(rosterID) && m.Round > latest {
			latest = m.Round
			latestMatch = m
		}
	}
	if latest < 0 {
		// Never seeded into the bracket.
		return false
	}
	if latest >= round {
		return true
	}
	// The roster's last appearance was an earlier round. Still alive only
	// if that match is unplayed, or they won it and the next round's slot
	// has not been filled in yet.
	if latestMatch.Winner == nil {
		return true
	}
	return *latestMatch.Winner == rosterID
}
