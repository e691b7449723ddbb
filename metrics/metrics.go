// Package metrics exposes the receiver pipeline's counters as Prometheus
// collectors, following this codebase's own promauto-registration style
// (see its main noise-floor and decode metrics).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Receiver holds the counters for a single receiver session, labeled by
// session ID so a process running several concurrent receivers reports
// them separately. These three counters are deliberately the only ones
// wired to the framer: its Listener contract exposes exactly OnSymbol,
// OnByteProgress, and OnPacket, and bad wire data (CRC mismatch, sync
// mismatch, desync overshoot) is never surfaced through it, by design.
type Receiver struct {
	symbolsTotal      *prometheus.CounterVec
	byteProgressTotal *prometheus.CounterVec
	packetsTotal      *prometheus.CounterVec
}

// NewReceiver registers and returns a fresh set of session-scoped
// counters against the default Prometheus registerer. Call it once per
// process; use Session to get the per-session label view.
func NewReceiver() *Receiver {
	return NewReceiverWith(prometheus.DefaultRegisterer)
}

// NewReceiverWith is NewReceiver against an explicit registerer, so tests
// and multi-tenant hosts can avoid colliding with the default registry.
func NewReceiverWith(reg prometheus.Registerer) *Receiver {
	factory := promauto.With(reg)
	return &Receiver{
		symbolsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fskrx_symbols_total",
				Help: "Total number of 4-FSK symbols detected.",
			},
			[]string{"session"},
		),
		byteProgressTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fskrx_byte_progress_total",
				Help: "Total number of byte-progress observations published.",
			},
			[]string{"session"},
		),
		packetsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fskrx_packets_total",
				Help: "Total number of packets that passed CRC validation.",
			},
			[]string{"session"},
		),
	}
}

// Session returns the label-bound counters for one session ID.
func (r *Receiver) Session(sessionID string) SessionCounters {
	return SessionCounters{
		symbols:      r.symbolsTotal.WithLabelValues(sessionID),
		byteProgress: r.byteProgressTotal.WithLabelValues(sessionID),
		packets:      r.packetsTotal.WithLabelValues(sessionID),
	}
}

// SessionCounters is the pre-labeled counter set a single session
// increments as it runs.
type SessionCounters struct {
	symbols      prometheus.Counter
	byteProgress prometheus.Counter
	packets      prometheus.Counter
}

func (c SessionCounters) Symbol()       { c.symbols.Inc() }
func (c SessionCounters) ByteProgress() { c.byteProgress.Inc() }
func (c SessionCounters) Packet()       { c.packets.Inc() }
