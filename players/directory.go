// Package players keeps the NFL player directory in memory. Matchup payloads
// carry bare player IDs; this directory turns them back into names,
// positions, and injury designations.
package players

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/sirupsen/logrus"

	"github.com/Grant-Perry/BigWarRoom-sub012/model"
)

const updateTimeout = 2 * time.Minute

// Loader fetches the full player list from a platform.
type Loader interface {
	LoadPlayers(ctx context.Context) ([]model.Player, error)
}

type Directory struct {
	loader Loader
	clock  clock.Clock
	log    *logrus.Logger

	mu      sync.RWMutex
	players map[string]model.Player
	updated time.Time
}

func NewDirectory(loader Loader, clk clock.Clock, log *logrus.Logger) (*Directory, error) {
	if loader == nil {
		return nil, errors.New("player loader is required")
	}
	return &Directory{
		loader:  loader,
		clock:   clk,
		log:     log,
		players: make(map[string]model.Player),
	}, nil
}

// Lookup returns the directory entry for a player ID. The returned value is
// a copy; mutating it does not touch the directory.
func (d *Directory) Lookup(id string) (model.Player, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.players[id]
	return p, ok
}

func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.players)
}

func (d *Directory) LastUpdated() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.updated
}

// UpdatePlayers replaces the directory with a fresh pull from the loader.
// The old map keeps serving lookups until the new one is ready.
func (d *Directory) UpdatePlayers(ctx context.Context) error {
	start := time.Now()

	players, err := d.loader.LoadPlayers(ctx)
	if err != nil {
		return err
	}

	now := d.clock.Now()
	next := make(map[string]model.Player, len(players))
	for _, p := range players {
		p.Updated = now
		next[p.ID] = p
	}

	d.mu.Lock()
	d.players = next
	d.updated = now
	d.mu.Unlock()

	d.log.WithFields(logrus.Fields{
		"players": len(next),
		"took":    time.Since(start).Round(time.Millisecond).String(),
	}).Info("player directory updated")
	return nil
}

func (d *Directory) RunPeriodicUpdates(frequency time.Duration, shutdown chan bool, wg *sync.WaitGroup) {
	ticker := time.NewTicker(frequency)
	defer ticker.Stop()
	defer wg.Done()

	for {
		select {
		case <-shutdown:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
			if err := d.UpdatePlayers(ctx); err != nil {
				d.log.WithError(err).Warn("periodic player update failed")
			}
			cancel()
		}
	}
}
