// Package settings holds the user preferences that change how matchups are
// hydrated. Preferences live in memory and reset with the process.
package settings

import "sync"

// Store is the read-only view consumed by the matchup store.
type Store interface {
	ShowEliminatedLeagues() bool
}

// Prefs is an in-memory preference set, safe for concurrent use.
type Prefs struct {
	mu                    sync.RWMutex
	showEliminatedLeagues bool
}

func New(showEliminatedLeagues bool) *Prefs {
	return &Prefs{showEliminatedLeagues: showEliminatedLeagues}
}

func (p *Prefs) ShowEliminatedLeagues() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.showEliminatedLeagues
}

func (p *Prefs) SetShowEliminatedLeagues(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.showEliminatedLeagues = v
}
