package store

import (
	"sync"

	"github.com/Grant-Perry/BigWarRoom-sub012/model"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// subscriptionBuffer is how far a slow consumer may fall behind before
// updates are dropped for it.
const subscriptionBuffer = 16

// Subscription is one observer of a league key. Updates carries the current
// state at subscribe time (when the key is cached) followed by one value per
// state change. The channel closes when the subscription is cancelled or the
// league is evicted.
type Subscription struct {
	id   string
	key  model.LeagueKey
	ch   chan model.LeagueSnapshot
	stop func()
	once sync.Once
}

func (sub *Subscription) Updates() <-chan model.LeagueSnapshot {
	return sub.ch
}

// Cancel detaches the subscription and closes its channel. Safe to call more
// than once and after eviction.
func (sub *Subscription) Cancel() {
	sub.once.Do(sub.stop)
}

func (s *store) ObserveLeague(key model.LeagueKey) *Subscription {
	sub := &Subscription{
		id:  uuid.NewString(),
		key: key,
		ch:  make(chan model.LeagueSnapshot, subscriptionBuffer),
	}
	sub.stop = func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		subs := s.subs[key]
		if _, ok := subs[sub.id]; !ok {
			// Eviction already closed the channel.
			return
		}
		delete(subs, sub.id)
		if len(subs) == 0 {
			delete(s.subs, key)
		}
		close(sub.ch)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subs[key] == nil {
		s.subs[key] = make(map[string]*Subscription)
	}
	s.subs[key][sub.id] = sub
	s.logger.WithFields(logrus.Fields{"league": key.String(), "subscriber": sub.id}).
		Debug("league observer attached")

	if lc, ok := s.caches[key]; ok {
		sub.send(s.leagueSnapshotLocked(key, lc), s.logger)
	}
	return sub
}

// emitLocked pushes the league's current state to every observer of the key.
func (s *store) emitLocked(key model.LeagueKey) {
	lc, ok := s.caches[key]
	if !ok {
		return
	}
	subs := s.subs[key]
	if len(subs) == 0 {
		return
	}

	snap := s.leagueSnapshotLocked(key, lc)
	for _, sub := range subs {
		sub.send(snap, s.logger)
	}
}

func (s *store) leagueSnapshotLocked(key model.LeagueKey, lc *leagueCache) model.LeagueSnapshot {
	return model.LeagueSnapshot{
		Key:           key,
		Summary:       lc.summary.Clone(),
		State:         lc.state,
		Matchups:      sortedMatchupsLocked(lc),
		LastRefreshed: lc.lastRefreshed,
	}
}

// send never blocks: a consumer that stops draining loses updates instead of
// stalling emission for everyone else.
func (sub *Subscription) send(snap model.LeagueSnapshot, logger *logrus.Logger) {
	select {
	case sub.ch <- snap:
	default:
		logger.WithFields(logrus.Fields{"league": sub.key.String(), "subscriber": sub.id}).
			Warn("observer buffer full, dropping update")
	}
}
