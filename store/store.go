// Package store implements the matchup data store: lazy per-matchup
// hydration with request coalescing, adaptive TTL caching, refresh-cycle
// change detection, and push-style observation of league state.
//
// All cache state lives behind one mutex. League partitions are independent
// (keys never share snapshots), so the lock is only ever held for map and
// struct bookkeeping; network fetches always run outside it.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Grant-Perry/BigWarRoom-sub012/model"
	"github.com/Grant-Perry/BigWarRoom-sub012/provider"
	"github.com/Grant-Perry/BigWarRoom-sub012/settings"
	"github.com/itbasis/go-clock"
	"github.com/sirupsen/logrus"
)

// Store is the interface to all of the matchup data store methods.
type Store interface {
	// WarmLeagues creates skeleton cache entries for each league at the
	// given week. Entries that already exist are left alone. No network
	// calls are made; observers of a newly-warmed key get an initial
	// snapshot immediately.
	WarmLeagues(leagues []model.LeagueRef, week int)

	// HydrateMatchup returns the snapshot for the given ID, fetching it if
	// the cache is cold or stale. Concurrent calls for the same ID share a
	// single upstream fetch. A ctx cancellation releases the caller but
	// never aborts the underlying fetch.
	HydrateMatchup(ctx context.Context, id model.SnapshotID) (*model.MatchupSnapshot, error)

	// CachedMatchup is a synchronous cache lookup with no freshness check
	// and no fetching.
	CachedMatchup(id model.SnapshotID) (*model.MatchupSnapshot, bool)

	// CachedMatchups returns every cached snapshot for a league key,
	// ordered by matchup ID.
	CachedMatchups(key model.LeagueKey) []model.MatchupSnapshot

	// LeagueState returns the observable state of one league key.
	LeagueState(key model.LeagueKey) (model.LeagueSnapshot, bool)

	// Leagues returns the observable state of every cached league key.
	Leagues() []model.LeagueSnapshot

	// ObserveLeague subscribes to a league key. The subscription receives
	// the current state immediately if the key is cached, then one value
	// per state change until it is cancelled or the key is evicted.
	ObserveLeague(key model.LeagueKey) *Subscription

	// Refresh refetches cached matchups. A nil key refreshes every cached
	// league. Unless force is set, leagues still inside their TTL are
	// skipped. Each call starts a new change report; per-matchup fetch
	// failures are logged and tolerated.
	Refresh(ctx context.Context, key *model.LeagueKey, force bool) error

	// RunPeriodicRefresh runs Refresh on a fixed cadence until shutdown is
	// signaled. Call as a goroutine after wg.Add(1).
	RunPeriodicRefresh(frequency time.Duration, shutdown chan bool, wg *sync.WaitGroup)

	// ChangedPlayers returns the IDs of players whose score, game status,
	// or injury status moved during the most recent refresh cycle.
	ChangedPlayers() []string

	// AllPlayers returns every distinct player across all cached
	// matchups, ordered by name.
	AllPlayers() []model.PlayerSnapshot

	// ClearCaches drops every league cache, terminates every observer
	// stream, and clears change tracking. Used on logout and reset.
	ClearCaches()

	// CleanupStaleLeagues evicts cache entries for leagues the platform no
	// longer reports on the user's account.
	CleanupStaleLeagues(ctx context.Context) error
}

// Config carries the store's collaborators and tuning knobs. Leagues,
// Providers, Playoffs, and Prefs are required; everything else defaults.
type Config struct {
	Clock     clock.Clock
	Logger    *logrus.Logger
	Leagues   provider.LeagueDirectory
	Providers provider.Factory
	Playoffs  provider.PlayoffOracle
	Prefs     settings.Store

	Season int

	// LiveTTL is the freshness window while any starter in a league has a
	// live game; IdleTTL applies otherwise.
	LiveTTL time.Duration
	IdleTTL time.Duration

	// FetchTimeout bounds a single matchup fetch, which runs detached
	// from the requesting caller's context.
	FetchTimeout time.Duration

	// PlayoffFallbackWeek marks weeks as playoffs when league settings
	// don't say. Zero disables the fallback.
	PlayoffFallbackWeek int
}

const (
	defaultLiveTTL             = 15 * time.Second
	defaultIdleTTL             = 5 * time.Minute
	defaultFetchTimeout        = 30 * time.Second
	defaultPlayoffFallbackWeek = 15
)

func New(cfg Config) (Store, error) {
	if cfg.Leagues == nil {
		return nil, errors.New("store requires a league directory")
	}
	if cfg.Providers == nil {
		return nil, errors.New("store requires a provider factory")
	}
	if cfg.Playoffs == nil {
		return nil, errors.New("store requires a playoff oracle")
	}
	if cfg.Prefs == nil {
		return nil, errors.New("store requires a settings store")
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	if cfg.LiveTTL <= 0 {
		cfg.LiveTTL = defaultLiveTTL
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = defaultIdleTTL
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	if cfg.PlayoffFallbackWeek == 0 {
		cfg.PlayoffFallbackWeek = defaultPlayoffFallbackWeek
	}

	return &store{
		clock:        cfg.Clock,
		logger:       cfg.Logger,
		leagues:      cfg.Leagues,
		providers:    cfg.Providers,
		playoffs:     cfg.Playoffs,
		prefs:        cfg.Prefs,
		builder:      Builder{PlayoffFallbackWeek: cfg.PlayoffFallbackWeek},
		season:       cfg.Season,
		liveTTL:      cfg.LiveTTL,
		idleTTL:      cfg.IdleTTL,
		fetchTimeout: cfg.FetchTimeout,
		caches:       make(map[model.LeagueKey]*leagueCache),
		subs:         make(map[model.LeagueKey]map[string]*Subscription),
		changed:      make(map[string]struct{}),
	}, nil
}

type store struct {
	clock     clock.Clock
	logger    *logrus.Logger
	leagues   provider.LeagueDirectory
	providers provider.Factory
	playoffs  provider.PlayoffOracle
	prefs     settings.Store
	builder   Builder

	season       int
	liveTTL      time.Duration
	idleTTL      time.Duration
	fetchTimeout time.Duration

	mu      sync.Mutex
	caches  map[model.LeagueKey]*leagueCache
	subs    map[model.LeagueKey]map[string]*Subscription
	changed map[string]struct{}
}

// leagueCache is the per-key partition: summary, snapshots, in-flight
// fetches, and load state. Only ever touched with store.mu held.
type leagueCache struct {
	summary       *model.LeagueSummary
	matchups      map[model.SnapshotID]*model.MatchupSnapshot
	pending       map[model.SnapshotID]*fetchTask
	state         model.LoadState
	lastRefreshed time.Time
}

func (s *store) keyFor(id model.SnapshotID) model.LeagueKey {
	return model.LeagueKey{
		LeagueID: id.LeagueID,
		Platform: id.Platform,
		Season:   s.season,
		Week:     id.Week,
	}
}

func (s *store) ensureCacheLocked(key model.LeagueKey, ref model.LeagueRef) *leagueCache {
	if lc, ok := s.caches[key]; ok {
		return lc
	}
	lc := &leagueCache{
		summary: &model.LeagueSummary{
			LeagueID: key.LeagueID,
			Name:     ref.Name,
			Platform: key.Platform,
			Week:     key.Week,
		},
		matchups: make(map[model.SnapshotID]*model.MatchupSnapshot),
		pending:  make(map[model.SnapshotID]*fetchTask),
		state:    model.LoadingBasic(),
	}
	s.caches[key] = lc
	return lc
}

// resolveSummary folds a platform-resolved league into the cached summary
// and returns an isolated copy for snapshot building. If the entry was
// evicted while the fetch was in flight, a detached summary is returned so
// the result can still complete for its waiters without resurrecting the
// entry.
func (s *store) resolveSummary(key model.LeagueKey, league provider.League) model.LeagueSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	lc, ok := s.caches[key]
	if !ok {
		sum := model.LeagueSummary{
			LeagueID: league.ID,
			Name:     league.Name,
			Platform: key.Platform,
			Week:     key.Week,
		}
		if league.TotalRosters > 0 {
			sum.TotalMatchups = league.TotalRosters / 2
		}
		sum.Resolve(league.Details())
		return sum
	}

	if lc.summary.Name == "" {
		lc.summary.Name = league.Name
	}
	if lc.summary.TotalMatchups == 0 && league.TotalRosters > 0 {
		lc.summary.TotalMatchups = league.TotalRosters / 2
	}
	lc.summary.Resolve(league.Details())
	return lc.summary.Clone()
}

// dropLeagueLocked removes a partition and terminates its observers. Any
// fetch still in flight for the key completes for its waiters but is not
// cached.
func (s *store) dropLeagueLocked(key model.LeagueKey) {
	delete(s.caches, key)
	for id, sub := range s.subs[key] {
		close(sub.ch)
		delete(s.subs[key], id)
	}
	delete(s.subs, key)
}

func (s *store) WarmLeagues(leagues []model.LeagueRef, week int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ref := range leagues {
		key := model.LeagueKey{
			LeagueID: ref.LeagueID,
			Platform: ref.Platform,
			Season:   s.season,
			Week:     week,
		}
		if _, ok := s.caches[key]; ok {
			continue
		}
		s.ensureCacheLocked(key, ref)
		s.logger.WithField("league", key.String()).Debug("warmed league cache")
		s.emitLocked(key)
	}
}

func (s *store) CachedMatchup(id model.SnapshotID) (*model.MatchupSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lc, ok := s.caches[s.keyFor(id)]
	if !ok {
		return nil, false
	}
	snap, ok := lc.matchups[id]
	return snap, ok
}

func (s *store) CachedMatchups(key model.LeagueKey) []model.MatchupSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	lc, ok := s.caches[key]
	if !ok {
		return nil
	}
	return sortedMatchupsLocked(lc)
}

func (s *store) LeagueState(key model.LeagueKey) (model.LeagueSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lc, ok := s.caches[key]
	if !ok {
		return model.LeagueSnapshot{}, false
	}
	return s.leagueSnapshotLocked(key, lc), true
}

func (s *store) Leagues() []model.LeagueSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]model.LeagueKey, 0, len(s.caches))
	for key := range s.caches {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	out := make([]model.LeagueSnapshot, 0, len(keys))
	for _, key := range keys {
		out = append(out, s.leagueSnapshotLocked(key, s.caches[key]))
	}
	return out
}

func (s *store) AllPlayers() []model.PlayerSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	var players []model.PlayerSnapshot
	for _, lc := range s.caches {
		for _, m := range lc.matchups {
			for _, team := range []*model.TeamSnapshot{&m.HomeTeam, &m.AwayTeam} {
				for _, p := range team.Roster {
					id := p.Identity.ID()
					if id == "" {
						continue
					}
					if _, dup := seen[id]; dup {
						continue
					}
					seen[id] = struct{}{}
					players = append(players, p)
				}
			}
		}
	}

	sort.Slice(players, func(i, j int) bool {
		if players[i].Identity.Name != players[j].Identity.Name {
			return players[i].Identity.Name < players[j].Identity.Name
		}
		return players[i].Identity.ID() < players[j].Identity.ID()
	})
	return players
}

func (s *store) ClearCaches() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.caches {
		s.dropLeagueLocked(key)
	}
	// Streams may exist for keys that were never warmed.
	for key := range s.subs {
		s.dropLeagueLocked(key)
	}
	s.changed = make(map[string]struct{})
	s.logger.Info("cleared all league caches")
}

func (s *store) CleanupStaleLeagues(ctx context.Context) error {
	leagues, err := s.leagues.ActiveLeagues(ctx)
	if err != nil {
		return fmt.Errorf("listing active leagues: %w", err)
	}

	active := make(map[string]struct{}, len(leagues))
	for _, l := range leagues {
		active[l.ID] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.caches {
		if _, ok := active[key.LeagueID]; ok {
			continue
		}
		s.logger.WithField("league", key.String()).Info("evicting league no longer on account")
		s.dropLeagueLocked(key)
	}
	return nil
}

func sortedMatchupsLocked(lc *leagueCache) []model.MatchupSnapshot {
	out := make([]model.MatchupSnapshot, 0, len(lc.matchups))
	for _, m := range lc.matchups {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.MatchupID < out[j].ID.MatchupID })
	return out
}
