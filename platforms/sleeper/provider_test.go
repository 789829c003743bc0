package sleeper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/itbasis/go-clock"

	"github.com/Grant-Perry/BigWarRoom-sub012/model"
	"github.com/Grant-Perry/BigWarRoom-sub012/platforms/espn"
	"github.com/Grant-Perry/BigWarRoom-sub012/players"
	"github.com/Grant-Perry/BigWarRoom-sub012/provider"
	"github.com/Grant-Perry/BigWarRoom-sub012/testutils"
)

// League IDs from the fake server's fixture universe: user "warroom" plays
// roster 4 in the head-to-head league and roster 3 in the guillotine league.
const (
	h2hLeagueID     = "992099246872833024"
	choppedLeagueID = "1005178517580746753"
)

type providerEnv struct {
	factory     *Factory
	directory   *Directory
	fakeSleeper *testutils.FakeSleeperServer
	fakeESPN    *testutils.FakeScoreboardServer
}

func newProviderEnv(t *testing.T, username string) *providerEnv {
	t.Helper()

	fakeSleeper := testutils.NewFakeSleeperServer()
	t.Cleanup(fakeSleeper.Close)
	fakeESPN := testutils.NewFakeScoreboardServer()
	t.Cleanup(fakeESPN.Close)

	log := testLogger()
	client := NewForTest(fakeSleeper.URL(), log)

	dir, err := players.NewDirectory(client, clock.New(), log)
	if err != nil {
		t.Fatalf("error creating player directory: %v", err)
	}
	if err := dir.UpdatePlayers(context.Background()); err != nil {
		t.Fatalf("error loading player directory: %v", err)
	}

	leagueDir, err := NewDirectory(client, username, 2025, log)
	if err != nil {
		t.Fatalf("error creating league directory: %v", err)
	}

	scoreboard := espn.NewForTest(fakeESPN.URL(), clock.New(), log)

	factory, err := NewFactory(client, leagueDir, dir, scoreboard, log)
	if err != nil {
		t.Fatalf("error creating factory: %v", err)
	}

	return &providerEnv{
		factory:     factory,
		directory:   leagueDir,
		fakeSleeper: fakeSleeper,
		fakeESPN:    fakeESPN,
	}
}

func (e *providerEnv) provider(t *testing.T, leagueID string, week int) provider.MatchupProvider {
	t.Helper()
	p, err := e.factory.MatchupProvider(provider.League{ID: leagueID, Platform: model.PlatformSleeper}, 2025, week)
	if err != nil {
		t.Fatalf("error creating provider: %v", err)
	}
	return p
}

func TestProviderIdentifyMyTeamID(t *testing.T) {
	env := newProviderEnv(t, "warroom")
	p := env.provider(t, h2hLeagueID, 14)

	teamID, err := p.IdentifyMyTeamID(context.Background())
	if err != nil {
		t.Fatalf("error identifying team: %v", err)
	}
	if teamID != "4" {
		t.Errorf("expected roster 4, got %s", teamID)
	}
}

func TestProviderIdentifyMyTeamID_unknownUser(t *testing.T) {
	env := newProviderEnv(t, "nobody")
	p := env.provider(t, h2hLeagueID, 14)

	if _, err := p.IdentifyMyTeamID(context.Background()); err == nil {
		t.Fatal("expected an error for a user sleeper doesn't know")
	}
}

func TestProviderFetchMatchups(t *testing.T) {
	env := newProviderEnv(t, "warroom")
	p := env.provider(t, h2hLeagueID, 14)

	matchups, err := p.FetchMatchups(context.Background())
	if err != nil {
		t.Fatalf("error fetching matchups: %v", err)
	}
	if len(matchups) != 5 {
		t.Fatalf("expected 5 matchups, got %d", len(matchups))
	}

	var mine *provider.RawMatchup
	for i := range matchups {
		if matchups[i].MatchupID == "2" {
			mine = &matchups[i]
		}
	}
	if mine == nil {
		t.Fatal("matchup 2 missing from results")
	}

	// The lower roster ID takes the home side.
	if mine.Home.TeamID != "4" || mine.Away.TeamID != "7" {
		t.Errorf("unexpected orientation: home=%s away=%s", mine.Home.TeamID, mine.Away.TeamID)
	}
	if mine.Home.Score != 112.34 || mine.Away.Score != 98.72 {
		t.Errorf("unexpected scores: home=%v away=%v", mine.Home.Score, mine.Away.Score)
	}
	if mine.Home.OwnerName != "Grant's Gridiron" {
		t.Errorf("expected the custom team name, got '%s'", mine.Home.OwnerName)
	}
	if mine.Away.OwnerName != "Dave's Destroyers" {
		t.Errorf("unexpected away owner: '%s'", mine.Away.OwnerName)
	}
	if mine.Home.Record != "9-4" {
		t.Errorf("unexpected home record: %s", mine.Home.Record)
	}
	if mine.Away.Record != "8-4-1" {
		t.Errorf("expected the tie rendered in the record, got %s", mine.Away.Record)
	}

	if len(mine.Home.Players) != 7 {
		t.Fatalf("expected 7 rostered players, got %d", len(mine.Home.Players))
	}
	starters := 0
	for _, pl := range mine.Home.Players {
		if pl.IsStarter {
			starters++
		}
	}
	if starters != 5 {
		t.Errorf("expected 5 starters, got %d", starters)
	}

	// Starters come first, in lineup order, with slots from the league's
	// roster positions.
	qb := mine.Home.Players[0]
	if qb.SleeperID != "4046" || qb.Name != "Patrick Mahomes" {
		t.Fatalf("unexpected first starter: %+v", qb)
	}
	if qb.LineupSlot != "QB" || qb.Position != "QB" {
		t.Errorf("unexpected slot/position: %s/%s", qb.LineupSlot, qb.Position)
	}
	if qb.Score != 24.54 || qb.Projected != 22.1 {
		t.Errorf("unexpected scoring: actual=%v projected=%v", qb.Score, qb.Projected)
	}
	// Kansas City is mid-game on the fixture scoreboard.
	if qb.GameStatus != model.GameStatusLive {
		t.Errorf("expected a live game for KC, got %s", qb.GameStatus)
	}
	if qb.Kickoff.IsZero() {
		t.Error("expected a kickoff time from the scoreboard")
	}

	// Seattle hasn't kicked off yet.
	for _, pl := range mine.Home.Players {
		if pl.SleeperID == "8146" && pl.GameStatus != model.GameStatusScheduled {
			t.Errorf("expected a scheduled game for SEA, got %s", pl.GameStatus)
		}
	}

	if mine.Status != "in_progress" {
		t.Errorf("expected an in_progress matchup, got %s", mine.Status)
	}
	if mine.HomeWinProbability <= 0 || mine.HomeWinProbability >= 1 {
		t.Errorf("win probability out of range: %v", mine.HomeWinProbability)
	}
}

func TestProviderFindMyMatchup(t *testing.T) {
	env := newProviderEnv(t, "warroom")
	p := env.provider(t, h2hLeagueID, 14)

	m, err := p.FindMyMatchup(context.Background(), "4")
	if err != nil {
		t.Fatalf("error finding matchup: %v", err)
	}
	if m == nil || m.MatchupID != "2" {
		t.Fatalf("expected matchup 2, got %+v", m)
	}

	// A team with no matchup this week is an answer, not an error.
	m, err = p.FindMyMatchup(context.Background(), "99")
	if err != nil {
		t.Fatalf("error finding matchup: %v", err)
	}
	if m != nil {
		t.Errorf("expected no matchup for roster 99, got %+v", m)
	}
}

func TestProviderMemoizesFetches(t *testing.T) {
	env := newProviderEnv(t, "warroom")
	p := env.provider(t, h2hLeagueID, 14)

	if _, err := p.IdentifyMyTeamID(context.Background()); err != nil {
		t.Fatalf("error identifying team: %v", err)
	}
	before := env.fakeSleeper.Requests()

	if _, err := p.FetchMatchups(context.Background()); err != nil {
		t.Fatalf("error fetching matchups: %v", err)
	}
	if _, err := p.FindMyMatchup(context.Background(), "4"); err != nil {
		t.Fatalf("error finding matchup: %v", err)
	}
	if _, err := p.FetchMyRoster(context.Background(), "4"); err != nil {
		t.Fatalf("error fetching roster: %v", err)
	}

	if after := env.fakeSleeper.Requests(); after != before {
		t.Errorf("provider refetched: %d requests before, %d after", before, after)
	}
}

func TestProviderUnknownLeague(t *testing.T) {
	env := newProviderEnv(t, "warroom")
	p := env.provider(t, "404404404", 14)

	_, err := p.FetchMatchups(context.Background())
	if !errors.Is(err, provider.ErrLeagueNotFound) {
		t.Fatalf("expected ErrLeagueNotFound, got: %v", err)
	}
}

func TestProviderChoppedLeague(t *testing.T) {
	env := newProviderEnv(t, "warroom")
	p := env.provider(t, choppedLeagueID, 14)

	// Guillotine rows carry no matchup_id, so there is nothing to pair.
	matchups, err := p.FetchMatchups(context.Background())
	if err != nil {
		t.Fatalf("error fetching matchups: %v", err)
	}
	if len(matchups) != 0 {
		t.Fatalf("expected no head-to-head matchups, got %d", len(matchups))
	}

	team, err := p.FetchMyRoster(context.Background(), "3")
	if err != nil {
		t.Fatalf("error fetching roster: %v", err)
	}
	if team.TeamID != "3" {
		t.Errorf("unexpected team: %s", team.TeamID)
	}
	if team.Score != 106.7 {
		t.Errorf("expected the weekly score from the matchup row, got %v", team.Score)
	}
	if len(team.Players) != 6 {
		t.Errorf("expected 6 rostered players, got %d", len(team.Players))
	}
}

func TestWinProbability(t *testing.T) {
	tests := map[string]struct {
		home, away provider.RawTeam
		want       float64
	}{
		"all final, home ahead": {
			home: provider.RawTeam{Score: 120},
			away: provider.RawTeam{Score: 80},
			want: 0.6,
		},
		"scoreless": {
			home: provider.RawTeam{},
			away: provider.RawTeam{},
			want: 0.5,
		},
		"unplayed starters add projection": {
			home: provider.RawTeam{Score: 50, Players: []provider.RawPlayer{
				{IsStarter: true, Projected: 50, GameStatus: model.GameStatusScheduled},
			}},
			away: provider.RawTeam{Score: 100},
			want: 0.5,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := winProbability(tc.home, tc.away); got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestMatchupStatus(t *testing.T) {
	starter := func(status model.GameStatus) provider.RawPlayer {
		return provider.RawPlayer{IsStarter: true, GameStatus: status}
	}

	tests := map[string]struct {
		home, away provider.RawTeam
		want       string
	}{
		"nothing started": {
			home: provider.RawTeam{Players: []provider.RawPlayer{starter(model.GameStatusScheduled)}},
			away: provider.RawTeam{Players: []provider.RawPlayer{starter(model.GameStatusScheduled)}},
			want: "scheduled",
		},
		"one live game": {
			home: provider.RawTeam{Players: []provider.RawPlayer{starter(model.GameStatusLive)}},
			away: provider.RawTeam{Players: []provider.RawPlayer{starter(model.GameStatusScheduled)}},
			want: "in_progress",
		},
		"everything final": {
			home: provider.RawTeam{Players: []provider.RawPlayer{starter(model.GameStatusFinal)}},
			away: provider.RawTeam{Players: []provider.RawPlayer{starter(model.GameStatusFinal)}},
			want: "final",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := matchupStatus(tc.home, tc.away); got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestEarliestKickoff(t *testing.T) {
	early := time.Date(2025, 12, 7, 18, 0, 0, 0, time.UTC)
	late := time.Date(2025, 12, 7, 21, 25, 0, 0, time.UTC)

	home := provider.RawTeam{Players: []provider.RawPlayer{
		{IsStarter: true, Kickoff: late},
		{IsStarter: false, Kickoff: early.Add(-time.Hour)}, // bench doesn't count
	}}
	away := provider.RawTeam{Players: []provider.RawPlayer{
		{IsStarter: true, Kickoff: early},
	}}

	if got := earliestKickoff(home, away); !got.Equal(early) {
		t.Errorf("expected %v, got %v", early, got)
	}
}
