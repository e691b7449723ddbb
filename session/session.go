// Package session wraps one framer.Receiver and one transport.Channel
// with a lifecycle and identity, following the start/stop/waitgroup shape
// this codebase's own FSKDecoder.Start/Stop uses to run its demodulator on
// a background goroutine.
package session

import (
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/cwsl/fskrx/framer"
	"github.com/cwsl/fskrx/metrics"
	"github.com/cwsl/fskrx/transport"
)

// Session owns exactly one Receiver over one Channel, tagged with a UUID
// used in log lines and Prometheus labels. All framer state (the symbol
// stream, the body buffer) belongs exclusively to the goroutine Start
// spawns; the transport channel is borrowed for the session's lifetime and
// the caller's listener is borrowed and must outlive the session.
type Session struct {
	ID       string
	receiver *framer.Receiver
	counters metrics.SessionCounters

	mu      sync.Mutex
	running bool
	wg      sync.WaitGroup
}

// New creates a Session with a fresh UUID. The listener supplied is
// wrapped so every callback also updates m's per-session counters before
// forwarding to the caller.
func New(params framer.Params, channel transport.Channel, listener framer.Listener, m *metrics.Receiver) *Session {
	id := uuid.NewString()
	counters := m.Session(id)

	wrapped := framer.Listener{
		OnSymbol: func(sym int) {
			counters.Symbol()
			if listener.OnSymbol != nil {
				listener.OnSymbol(sym)
			}
		},
		OnByteProgress: func(b []byte) {
			counters.ByteProgress()
			if listener.OnByteProgress != nil {
				listener.OnByteProgress(b)
			}
		},
		OnPacket: func(p []byte) {
			counters.Packet()
			if listener.OnPacket != nil {
				listener.OnPacket(p)
			}
		},
	}

	return &Session{
		ID:       id,
		receiver: framer.New(params, channel, wrapped),
		counters: counters,
	}
}

// Start runs the receive loop on a new goroutine. Calling Start twice is a
// no-op.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.wg.Add(1)
	log.Printf("[fskrx session %s] starting", s.ID)
	go func() {
		defer s.wg.Done()
		s.receiver.Run()
		log.Printf("[fskrx session %s] stopped", s.ID)
	}()
}

// Stop requests the receive loop exit and blocks until it has.
func (s *Session) Stop() {
	s.receiver.Stop()
	s.wg.Wait()
}
