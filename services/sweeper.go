package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Sweeper deletes expired sessions on a fixed interval. Each run gets its
// own timeout so a slow database never wedges the loop.
type Sweeper struct {
	sessions SessionStore
	interval time.Duration
	timeout  time.Duration
	ticker   *time.Ticker
	done     chan struct{}
	logger   zerolog.Logger
}

func NewSweeper(sessions SessionStore, interval, timeout time.Duration) *Sweeper {
	return &Sweeper{
		sessions: sessions,
		interval: interval,
		timeout:  timeout,
		done:     make(chan struct{}),
		logger:   log.With().Str("serviceName", "sessionSweeper").Logger(),
	}
}

// Start runs a sweep immediately, then on every tick until Stop.
func (s *Sweeper) Start() {
	s.logger.Info().Dur("interval", s.interval).Msg("session sweeper started")

	s.sweep()
	s.ticker = time.NewTicker(s.interval)

	go func() {
		for {
			select {
			case <-s.ticker.C:
				s.sweep()
			case <-s.done:
				return
			}
		}
	}()
}

// Stop halts the sweep loop. Safe to call once after Start.
func (s *Sweeper) Stop() {
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.done)
	s.logger.Info().Msg("session sweeper stopped")
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	removed, err := s.sessions.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.logger.Error().Err(err).Msg("session sweep failed")
		return
	}
	if removed > 0 {
		s.logger.Info().Int64("removed", removed).Msg("expired sessions removed")
	}
}
