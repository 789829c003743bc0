// Package mockstore provides a testify mock of the matchup data store for
// handler tests.
package mockstore

import (
	"context"
	"sync"
	"time"

	"github.com/Grant-Perry/BigWarRoom-sub012/model"
	"github.com/Grant-Perry/BigWarRoom-sub012/store"
	"github.com/stretchr/testify/mock"
)

type Store struct {
	mock.Mock
}

func (s *Store) WarmLeagues(leagues []model.LeagueRef, week int) {
	s.Called(leagues, week)
}

func (s *Store) HydrateMatchup(ctx context.Context, id model.SnapshotID) (*model.MatchupSnapshot, error) {
	args := s.Called(ctx, id)

	var snap *model.MatchupSnapshot
	if args.Get(0) != nil {
		snap = args.Get(0).(*model.MatchupSnapshot)
	}
	return snap, args.Error(1)
}

func (s *Store) CachedMatchup(id model.SnapshotID) (*model.MatchupSnapshot, bool) {
	args := s.Called(id)

	var snap *model.MatchupSnapshot
	if args.Get(0) != nil {
		snap = args.Get(0).(*model.MatchupSnapshot)
	}
	return snap, args.Bool(1)
}

func (s *Store) CachedMatchups(key model.LeagueKey) []model.MatchupSnapshot {
	args := s.Called(key)

	var snaps []model.MatchupSnapshot
	if args.Get(0) != nil {
		snaps = args.Get(0).([]model.MatchupSnapshot)
	}
	return snaps
}

func (s *Store) LeagueState(key model.LeagueKey) (model.LeagueSnapshot, bool) {
	args := s.Called(key)

	var snap model.LeagueSnapshot
	if args.Get(0) != nil {
		snap = args.Get(0).(model.LeagueSnapshot)
	}
	return snap, args.Bool(1)
}

func (s *Store) Leagues() []model.LeagueSnapshot {
	args := s.Called()

	var snaps []model.LeagueSnapshot
	if args.Get(0) != nil {
		snaps = args.Get(0).([]model.LeagueSnapshot)
	}
	return snaps
}

func (s *Store) ObserveLeague(key model.LeagueKey) *store.Subscription {
	args := s.Called(key)

	var sub *store.Subscription
	if args.Get(0) != nil {
		sub = args.Get(0).(*store.Subscription)
	}
	return sub
}

func (s *Store) Refresh(ctx context.Context, key *model.LeagueKey, force bool) error {
	args := s.Called(ctx, key, force)
	return args.Error(0)
}

func (s *Store) RunPeriodicRefresh(frequency time.Duration, shutdown chan bool, wg *sync.WaitGroup) {
	s.Called(frequency, shutdown, wg)
}

func (s *Store) ChangedPlayers() []string {
	args := s.Called()

	var ids []string
	if args.Get(0) != nil {
		ids = args.Get(0).([]string)
	}
	return ids
}

func (s *Store) AllPlayers() []model.PlayerSnapshot {
	args := s.Called()

	var players []model.PlayerSnapshot
	if args.Get(0) != nil {
		players = args.Get(0).([]model.PlayerSnapshot)
	}
	return players
}

func (s *Store) ClearCaches() {
	s.Called()
}

func (s *Store) CleanupStaleLeagues(ctx context.Context) error {
	args := s.Called(ctx)
	return args.Error(0)
}
