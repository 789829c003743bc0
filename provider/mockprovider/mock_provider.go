package mockprovider

import (
	"context"

	"github.com/Grant-Perry/BigWarRoom-sub012/provider"
	"github.com/stretchr/testify/mock"
)

type MatchupProvider struct {
	mock.Mock
}

func (p *MatchupProvider) IdentifyMyTeamID(ctx context.Context) (string, error) {
	args := p.Called(ctx)
	return args.String(0), args.Error(1)
}

func (p *MatchupProvider) FetchMatchups(ctx context.Context) ([]provider.RawMatchup, error) {
	args := p.Called(ctx)

	var res []provider.RawMatchup
	if args.Get(0) != nil {
		res = args.Get(0).([]provider.RawMatchup)
	}

	return res, args.Error(1)
}

func (p *MatchupProvider) FindMyMatchup(ctx context.Context, myTeamID string) (*provider.RawMatchup, error) {
	args := p.Called(ctx, myTeamID)

	var res *provider.RawMatchup
	if args.Get(0) != nil {
		res = args.Get(0).(*provider.RawMatchup)
	}

	return res, args.Error(1)
}

func (p *MatchupProvider) FetchMyRoster(ctx context.Context, myTeamID string) (*provider.RawTeam, error) {
	args := p.Called(ctx, myTeamID)

	var res *provider.RawTeam
	if args.Get(0) != nil {
		res = args.Get(0).(*provider.RawTeam)
	}

	return res, args.Error(1)
}

type Factory struct {
	mock.Mock
}

func (f *Factory) MatchupProvider(league provider.League, season, week int) (provider.MatchupProvider, error) {
	args := f.Called(league, season, week)

	var res provider.MatchupProvider
	if args.Get(0) != nil {
		res = args.Get(0).(provider.MatchupProvider)
	}

	return res, args.Error(1)
}

type LeagueDirectory struct {
	mock.Mock
}

func (d *LeagueDirectory) ResolveLeague(ctx context.Context, leagueID string) (*provider.League, error) {
	args := d.Called(ctx, leagueID)

	var res *provider.League
	if args.Get(0) != nil {
		res = args.Get(0).(*provider.League)
	}

	return res, args.Error(1)
}

func (d *LeagueDirectory) ActiveLeagues(ctx context.Context) ([]provider.League, error) {
	args := d.Called(ctx)

	var res []provider.League
	if args.Get(0) != nil {
		res = args.Get(0).([]provider.League)
	}

	return res, args.Error(1)
}

type PlayoffOracle struct {
	mock.Mock
}

func (o *PlayoffOracle) IsPlayoffWeek(ctx context.Context, league provider.League, week int) (bool, error) {
	args := o.Called(ctx, league, week)
	return args.Bool(0), args.Error(1)
}

func (o *PlayoffOracle) InWinnersBracket(ctx context.Context, league provider.League, week int, teamID string) (bool, error) {
	args := o.Called(ctx, league, week, teamID)
	return args.Bool(0), args.Error(1)
}

type Scoreboard struct {
	mock.Mock
}

func (s *Scoreboard) WeekGames(ctx context.Context, season, week int) (map[string]provider.GameInfo, error) {
	args := s.Called(ctx, season, week)

	var res map[string]provider.GameInfo
	if args.Get(0) != nil {
		res = args.Get(0).(map[string]provider.GameInfo)
	}

	return res, args.Error(1)
}
