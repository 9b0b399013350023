package session

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper periodically resets conversations that were abandoned mid-flow.
// It is opt-in: deployments that want the original leave-it-forever behavior
// simply never start one.
type Sweeper struct {
	cron *cron.Cron
}

// StartSweeper launches a background sweep of sessions idle longer than ttl.
func StartSweeper(store *InMemoryStore, ttl time.Duration) (*Sweeper, error) {
	c := cron.New()
	_, err := c.AddFunc("@every 1m", func() {
		if n := store.ExpireIdle(ttl); n > 0 {
			slog.Info("Session sweeper reset idle conversations", "count", n, "ttl", ttl)
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	slog.Info("Session sweeper started", "ttl", ttl)
	return &Sweeper{cron: c}, nil
}

// Stop halts the sweep schedule.
func (s *Sweeper) Stop() {
	s.cron.Stop()
}
