// Package provider defines the seam between the matchup store and the
// fantasy platforms it reads from. The store only ever sees these
// interfaces; platform packages implement them.
package provider

import (
	"context"
	"errors"
	"time"

	"github.com/Grant-Perry/BigWarRoom-sub012/model"
)

var (
	// ErrLeagueNotFound means the platform no longer knows the league. The
	// store treats this as a signal to evict, not as a transient failure.
	ErrLeagueNotFound = errors.New("league not found")

	// ErrMatchupNotFound means the league week has matchups but none of
	// them include the user's team.
	ErrMatchupNotFound = errors.New("no matchup found for team")

	// ErrTeamNotIdentified means the user's team could not be located in
	// the league at all.
	ErrTeamNotIdentified = errors.New("unable to identify my team in league")
)

// League is a platform-resolved league: the fields a skeleton LeagueRef
// cannot know without asking the platform.
type League struct {
	ID           string
	Name         string
	Platform     model.Platform
	Season       int
	TotalRosters int
	// PlayoffWeekStart is zero when the league has no playoff bracket.
	PlayoffWeekStart int
	// IsChopped marks elimination-format leagues that score starters
	// against the whole field instead of head-to-head.
	IsChopped bool
}

func (l League) Ref() model.LeagueRef {
	return model.LeagueRef{LeagueID: l.ID, Name: l.Name, Platform: l.Platform}
}

func (l League) Details() model.LeagueDetails {
	return model.LeagueDetails{PlayoffWeekStart: l.PlayoffWeekStart, IsChopped: l.IsChopped}
}

// MatchupProvider reads one league-week's matchup data. A provider instance
// is scoped to a single league, season, and week; implementations may cache
// fetched payloads for their lifetime so FindMyMatchup does not refetch what
// FetchMatchups already pulled.
type MatchupProvider interface {
	// IdentifyMyTeamID returns the user's team ID within the league, or
	// ErrTeamNotIdentified wrapped in context.
	IdentifyMyTeamID(ctx context.Context) (string, error)

	// FetchMatchups returns every matchup in the league week. An empty
	// slice with a nil error is a valid answer for bye or bracket weeks.
	FetchMatchups(ctx context.Context) ([]RawMatchup, error)

	// FindMyMatchup returns the matchup containing the given team, or nil
	// when the team does not appear in any matchup this week.
	FindMyMatchup(ctx context.Context, myTeamID string) (*RawMatchup, error)

	// FetchMyRoster returns the given team with its full roster, for
	// weeks where there is no head-to-head opponent to pair against.
	FetchMyRoster(ctx context.Context, myTeamID string) (*RawTeam, error)
}

// Factory builds a MatchupProvider for one league-week. The store calls it
// on every fetch so providers stay scoped and disposable.
type Factory interface {
	MatchupProvider(league League, season, week int) (MatchupProvider, error)
}

// LeagueDirectory answers questions about which leagues exist for the
// configured user.
type LeagueDirectory interface {
	// ResolveLeague returns the platform's view of a league, or an error
	// wrapping ErrLeagueNotFound when the platform no longer has it.
	ResolveLeague(ctx context.Context, leagueID string) (*League, error)

	// ActiveLeagues lists every league currently on the user's account.
	ActiveLeagues(ctx context.Context) ([]League, error)
}

// PlayoffOracle answers bracket questions for playoff weeks.
type PlayoffOracle interface {
	IsPlayoffWeek(ctx context.Context, league League, week int) (bool, error)

	// InWinnersBracket reports whether the team is still alive in the
	// winners bracket for the given week.
	InWinnersBracket(ctx context.Context, league League, week int, teamID string) (bool, error)
}

// GameInfo is the real-world schedule state for one NFL team's game.
type GameInfo struct {
	Status  model.GameStatus
	Kickoff time.Time
}

// Scoreboard exposes the NFL schedule so rostered players can be tagged
// with their game's status. Keys are canonical team abbreviations as
// returned by model.ParseTeam(...).String().
type Scoreboard interface {
	WeekGames(ctx context.Context, season, week int) (map[string]GameInfo, error)
}
