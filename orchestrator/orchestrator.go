// Package orchestrator runs multiple receiver sessions concurrently, one
// goroutine per session, each owning a disjoint transport channel — the
// multi-receiver deployment spec.md's concurrency model explicitly allows.
package orchestrator

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/cwsl/fskrx/session"
)

// Group supervises a fixed set of sessions and stops all of them together,
// either on request or when the parent context is canceled.
type Group struct {
	sessions []*session.Session
}

// New wraps the given sessions for joint lifecycle management. Each
// session must already own a disjoint transport.Channel.
func New(sessions ...*session.Session) *Group {
	return &Group{sessions: sessions}
}

// Run starts every session and blocks until ctx is canceled, at which
// point it stops them all and returns ctx.Err(). Stopping one session
// never affects the others; each runs its own receive loop independently.
// Each Stop waits for its session's loop to exit, including any transport
// Read already in progress, so Run returns only once every such Read has
// returned.
func (g *Group) Run(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	for _, s := range g.sessions {
		s := s
		s.Start()
		eg.Go(func() error {
			<-ctx.Done()
			s.Stop()
			return nil
		})
	}
	_ = eg.Wait()
	return ctx.Err()
}

// StopAll stops every session and waits for each to exit. Safe to call
// even if Run was never invoked, or after ctx cancellation already did so.
func (g *Group) StopAll() {
	for _, s := range g.sessions {
		s.Stop()
	}
}
