package sleeper

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Grant-Perry/BigWarRoom-sub012/model"
	"github.com/Grant-Perry/BigWarRoom-sub012/provider"
)

const avatarBaseURL = "https://sleepercdn.com/avatars/thumbs/"

// PlayerSource is the slice of the player directory the provider needs:
// identity, position, and injury state for a Sleeper player ID.
type PlayerSource interface {
	Lookup(id string) (model.Player, bool)
}

// Factory builds matchup providers backed by the Sleeper API. Each provider
// is scoped to one league week and memoizes its fetches, so a hydrate and
// the FindMyMatchup that follows it share one set of API calls.
type Factory struct {
	client     *Client
	directory  *Directory
	players    PlayerSource
	scoreboard provider.Scoreboard
	log        *logrus.Logger
}

func NewFactory(client *Client, directory *Directory, players PlayerSource, scoreboard provider.Scoreboard, log *logrus.Logger) (*Factory, error) {
	if client == nil || directory == nil || players == nil || scoreboard == nil {
		return nil, errors.New("sleeper factory requires a client, directory, player source, and scoreboard")
	}
	return &Factory{
		client:     client,
		directory:  directory,
		players:    players,
		scoreboard: scoreboard,
		log:        log,
	}, nil
}

func (f *Factory) MatchupProvider(league provider.League, season, week int) (provider.MatchupProvider, error) {
	if week < 1 {
		return nil, fmt.Errorf("invalid week %d for league %s", week, league.ID)
	}
	return &matchupProvider{
		client:     f.client,
		directory:  f.directory,
		players:    f.players,
		scoreboard: f.scoreboard,
		log:        f.log,
		league:     league,
		season:     season,
		week:       week,
	}, nil
}

// weekState is everything pulled for one league week: core league docs,
// matchup rows, and the side feeds that enrich them.
type weekState struct {
	doc         *league
	rosters     map[int]roster
	users       map[string]leagueUser
	rows        []matchupRow
	rowByRoster map[int]matchupRow
	projections map[string]float64
	games       map[string]provider.GameInfo
	matchups    []provider.RawMatchup
}

type matchupProvider struct {
	client     *Client
	directory  *Directory
	players    PlayerSource
	scoreboard provider.Scoreboard
	log        *logrus.Logger

	league provider.League
	season int
	week   int

	mu    sync.Mutex
	state *weekState
}

// load fetches the league week once. Projections and the NFL scoreboard are
// best-effort; losing them degrades the snapshot but never blocks scores.
func (p *matchupProvider) load(ctx context.Context) (*weekState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != nil {
		return p.state, nil
	}

	doc, err := p.client.getLeague(ctx, p.league.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("league %s: %w", p.league.ID, provider.ErrLeagueNotFound)
		}
		return nil, fmt.Errorf("error fetching league %s: %w", p.league.ID, err)
	}

	rosters, err := p.client.getRosters(ctx, p.league.ID)
	if err != nil {
		return nil, fmt.Errorf("error fetching rosters for league %s: %w", p.league.ID, err)
	}

	users, err := p.client.getLeagueUsers(ctx, p.league.ID)
	if err != nil {
		return nil, fmt.Errorf("error fetching users for league %s: %w", p.league.ID, err)
	}

	rows, err := p.client.getMatchups(ctx, p.league.ID, p.week)
	if err != nil {
		return nil, fmt.Errorf("error fetching matchups for league %s week %d: %w", p.league.ID, p.week, err)
	}

	projections, err := p.client.projections(ctx, p.season, p.week)
	if err != nil {
		p.log.WithError(err).WithField("league", p.league.ID).Warn("projections unavailable, snapshots will show zero projected points")
		projections = map[string]float64{}
	}

	games, err := p.scoreboard.WeekGames(ctx, p.season, p.week)
	if err != nil {
		p.log.WithError(err).WithField("league", p.league.ID).Warn("nfl scoreboard unavailable, snapshots will show scheduled games")
		games = nil
	}

	st := &weekState{
		doc:         doc,
		rosters:     make(map[int]roster, len(rosters)),
		users:       make(map[string]leagueUser, len(users)),
		rows:        rows,
		rowByRoster: make(map[int]matchupRow, len(rows)),
		projections: projections,
		games:       games,
	}
	for _, r := range rosters {
		st.rosters[r.RosterID] = r
	}
	for _, u := range users {
		st.users[u.UserID] = u
	}
	for _, row := range rows {
		st.rowByRoster[row.RosterID] = row
	}
	st.matchups = p.assembleMatchups(st)

	p.state = st
	return st, nil
}

func (p *matchupProvider) IdentifyMyTeamID(ctx context.Context) (string, error) {
	userID, err := p.directory.UserID(ctx)
	if err != nil {
		return "", err
	}

	st, err := p.load(ctx)
	if err != nil {
		return "", err
	}

	for _, r := range st.rosters {
		if r.OwnerID == userID {
			return strconv.Itoa(r.RosterID), nil
		}
		for _, co := range r.CoOwners {
			if co == userID {
				return strconv.Itoa(r.RosterID), nil
			}
		}
	}
	return "", fmt.Errorf("user %s has no roster in league %s: %w", userID, p.league.ID, provider.ErrTeamNotIdentified)
}

func (p *matchupProvider) FetchMatchups(ctx context.Context) ([]provider.RawMatchup, error) {
	st, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	return st.matchups, nil
}

func (p *matchupProvider) FindMyMatchup(ctx context.Context, myTeamID string) (*provider.RawMatchup, error) {
	st, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range st.matchups {
		if st.matchups[i].HasTeam(myTeamID) {
			return &st.matchups[i], nil
		}
	}
	return nil, nil
}

func (p *matchupProvider) FetchMyRoster(ctx context.Context, myTeamID string) (*provider.RawTeam, error) {
	st, err := p.load(ctx)
	if err != nil {
		return nil, err
	}

	rosterID, err := strconv.Atoi(myTeamID)
	if err != nil {
		return nil, fmt.Errorf("team id %q is not a sleeper roster id: %w", myTeamID, err)
	}
	r, ok := st.rosters[rosterID]
	if !ok {
		return nil, fmt.Errorf("roster %d not in league %s: %w", rosterID, p.league.ID, provider.ErrTeamNotIdentified)
	}

	// Chopped and bracket-less weeks still produce matchup rows with
	// weekly scoring. Fall back to the season roster doc without them.
	if row, ok := st.rowByRoster[rosterID]; ok {
		team := p.buildTeam(st, row)
		return &team, nil
	}
	team := p.buildTeam(st, matchupRow{
		RosterID: r.RosterID,
		Players:  r.Players,
		Starters: r.Starters,
	})
	return &team, nil
}

// assembleMatchups pairs the week's rows into head-to-head matchups. Rows
// without a matchup_id (chopped leagues, byes) stay unpaired and are served
// through FetchMyRoster instead.
func (p *matchupProvider) assembleMatchups(st *weekState) []provider.RawMatchup {
	pairs := make(map[int][]matchupRow)
	for _, row := range st.rows {
		if row.MatchupID <= 0 {
			continue
		}
		pairs[row.MatchupID] = append(pairs[row.MatchupID], row)
	}

	ids := make([]int, 0, len(pairs))
	for id, rows := range pairs {
		if len(rows) == 2 {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	matchups := make([]provider.RawMatchup, 0, len(ids))
	for _, id := range ids {
		pair := pairs[id]
		a, b := pair[0], pair[1]
		// Sleeper has no home team. The lower roster ID takes the home
		// side so orientation is stable across refreshes.
		if a.RosterID > b.RosterID {
			a, b = b, a
		}
		home := p.buildTeam(st, a)
		away := p.buildTeam(st, b)

		m := provider.RawMatchup{
			MatchupID:          strconv.Itoa(id),
			Status:             matchupStatus(home, away),
			Home:               home,
			Away:               away,
			HomeWinProbability: winProbability(home, away),
		}
		if kick := earliestKickoff(home, away); !kick.IsZero() {
			m.StartTime = &kick
		}
		matchups = append(matchups, m)
	}
	return matchups
}

func (p *matchupProvider) buildTeam(st *weekState, row matchupRow) provider.RawTeam {
	r := st.rosters[row.RosterID]
	u, hasUser := st.users[r.OwnerID]

	team := provider.RawTeam{
		TeamID:    strconv.Itoa(row.RosterID),
		OwnerName: fmt.Sprintf("Roster %d", row.RosterID),
		Record:    r.record(),
		Score:     row.Points,
	}
	if hasUser {
		team.OwnerName = u.teamName()
		if u.Avatar != "" {
			team.AvatarURL = avatarBaseURL + u.Avatar
		}
	}

	starterSlot := make(map[string]int, len(row.Starters))
	for i, id := range row.Starters {
		// Sleeper pads empty lineup slots with "0".
		if id == "" || id == "0" {
			continue
		}
		starterSlot[id] = i
	}

	bench := make([]string, 0, len(row.Players))
	for _, id := range row.Players {
		if id == "" || id == "0" {
			continue
		}
		if _, ok := starterSlot[id]; !ok {
			bench = append(bench, id)
		}
	}
	sort.Strings(bench)

	team.Players = make([]provider.RawPlayer, 0, len(starterSlot)+len(bench))
	for i, id := range row.Starters {
		if id == "" || id == "0" {
			continue
		}
		pl := p.buildPlayer(st, id, row, true, i)
		team.Players = append(team.Players, pl)
		team.Projected += pl.Projected
	}
	for _, id := range bench {
		team.Players = append(team.Players, p.buildPlayer(st, id, row, false, -1))
	}
	return team
}

func (p *matchupProvider) buildPlayer(st *weekState, id string, row matchupRow, starter bool, slot int) provider.RawPlayer {
	rp := provider.RawPlayer{
		SleeperID: id,
		Name:      id,
		IsStarter: starter,
		Score:     row.PlayersPoints[id],
		Projected: st.projections[id],
	}
	if starter && slot >= 0 && slot < len(st.doc.RosterPositions) {
		rp.LineupSlot = st.doc.RosterPositions[slot]
	}

	if pl, ok := p.players.Lookup(id); ok {
		rp.Name = pl.FullName()
		rp.Position = string(pl.Position)
		rp.ESPNID = pl.ESPNID
		rp.InjuryStatus = pl.InjuryStatus
		rp.Jersey = pl.Jersey
		if pl.Team != nil {
			rp.NFLTeam = pl.Team.String()
		}
	}

	rp.GameStatus, rp.Kickoff = gameState(st.games, rp.NFLTeam)
	return rp
}

// gameState maps a player's NFL team onto the week's scoreboard. A team
// missing from a populated scoreboard is on bye; without a scoreboard at
// all, everyone reads as scheduled.
func gameState(games map[string]provider.GameInfo, team string) (model.GameStatus, time.Time) {
	if games == nil || team == "" {
		return model.GameStatusScheduled, time.Time{}
	}
	if gi, ok := games[team]; ok {
		return gi.Status, gi.Kickoff
	}
	return model.GameStatusBye, time.Time{}
}

func matchupStatus(home, away provider.RawTeam) string {
	started := 0
	finished := 0
	starters := 0
	for _, t := range []provider.RawTeam{home, away} {
		for _, pl := range t.Players {
			if !pl.IsStarter {
				continue
			}
			starters++
			switch pl.GameStatus {
			case model.GameStatusLive:
				started++
			case model.GameStatusFinal:
				finished++
			}
		}
	}
	if started > 0 {
		return "in_progress"
	}
	if starters > 0 && finished == starters {
		return "final"
	}
	return "scheduled"
}

// winProbability estimates the home side's chance from expected final
// scores: banked points plus what unplayed starters still project for.
func winProbability(home, away provider.RawTeam) float64 {
	h := expectedFinal(home)
	a := expectedFinal(away)
	if h < 0 {
		h = 0
	}
	if a < 0 {
		a = 0
	}
	if h+a == 0 {
		return 0.5
	}
	prob := h / (h + a)
	if prob < 0 {
		return 0
	}
	if prob > 1 {
		return 1
	}
	return prob
}

func expectedFinal(t provider.RawTeam) float64 {
	total := t.Score
	for _, pl := range t.Players {
		if !pl.IsStarter {
			continue
		}
		switch pl.GameStatus {
		case model.GameStatusFinal:
			// Already banked in the team score.
		case model.GameStatusLive:
			if rem := pl.Projected - pl.Score; rem > 0 {
				total += rem
			}
		default:
			total += pl.Projected
		}
	}
	return total
}

func earliestKickoff(home, away provider.RawTeam) time.Time {
	var earliest time.Time
	for _, t := range []provider.RawTeam{home, away} {
		for _, pl := range t.Players {
			if !pl.IsStarter || pl.Kickoff.IsZero() {
				continue
			}
			if earliest.IsZero() || pl.Kickoff.Before(earliest) {
				earliest = pl.Kickoff
			}
		}
	}
	return earliest
}
