// Package framer drives the sample-to-symbol detector against a transport
// channel and threads the resulting symbol stream through the
// preamble/sync/length/CRC state machine described by this codebase's
// wire format, emitting the three observation streams as it goes.
package framer

import (
	"sync/atomic"

	"github.com/cwsl/fskrx/packet"
	"github.com/cwsl/fskrx/symbol"
	"github.com/cwsl/fskrx/tone"
	"github.com/cwsl/fskrx/transport"
)

// Receiver owns one detector and drives exactly one state machine over
// one transport channel. It is not safe for concurrent use: one goroutine
// must own the Receiver for the duration of Run. Multiple Receivers may
// run concurrently on separate goroutines provided each owns a disjoint
// Channel.
type Receiver struct {
	params   Params
	channel  transport.Channel
	listener Listener
	detector *tone.Detector

	stopRequested atomic.Bool

	// Session-lifetime observation state.
	tail       []int // 0-3 symbols not yet folded into bytesSoFar
	bytesSoFar []byte

	// State machine.
	state       stateKind
	preambleRun int
	bodySyms    []int

	readBuf []byte
}

// New creates a Receiver for the given parameters, channel, and listener.
// The listener may be the zero value (all callbacks nil).
func New(params Params, channel transport.Channel, listener Listener) *Receiver {
	freqs := params.Freq[:]
	return &Receiver{
		params:   params,
		channel:  channel,
		listener: listener,
		detector: tone.NewDetector(freqs, params.SymFrames, params.SR),
		readBuf:  make([]byte, params.SymBytes),
	}
}

// Stop requests the receive loop exit at the next iteration boundary. It
// may be called from any goroutine. Termination latency is bounded by at
// most one symbol window plus however long the transport's own Read call
// blocks.
func (r *Receiver) Stop() {
	r.stopRequested.Store(true)
}

// Run drives the receive loop until the transport signals a short read
// (EOF) or Stop is called. It never returns an error: all malformed wire
// data is silently dropped per the framer's error-handling policy, and
// clean shutdown is not itself an error condition.
func (r *Receiver) Run() {
	for {
		if r.stopRequested.Load() {
			return
		}
		if !r.tick() {
			return
		}
	}
}

// tick reads and processes exactly one symbol window, returning false if
// the transport signaled EOF (including mid-sync-burst).
func (r *Receiver) tick() bool {
	sym, ok := r.readSymbol()
	if !ok {
		return false
	}
	r.observe(sym)
	return r.step(sym)
}

// readSymbol pulls one symbol window off the transport and detects its
// tone. A short read is reported as (symbol.EOF, false).
func (r *Receiver) readSymbol() (int, bool) {
	n, err := r.channel.Read(r.readBuf)
	if err != nil || n != len(r.readBuf) {
		return symbol.EOF, false
	}
	samples := tone.NormalizePCM16LE(r.readBuf)
	return r.detector.Detect(samples), true
}

// observe reports sym to the symbol listener and folds it into the
// running byte view, publishing a byte-progress event exactly when the
// cumulative symbol count crosses a multiple of 4.
func (r *Receiver) observe(sym int) {
	r.listener.emitSymbol(sym)

	r.tail = append(r.tail, sym)
	if len(r.tail) < 4 {
		return
	}
	r.bytesSoFar = append(r.bytesSoFar, symbol.ToBytes(r.tail)[0])
	r.tail = r.tail[:0]

	out := make([]byte, len(r.bytesSoFar))
	copy(out, r.bytesSoFar)
	r.listener.emitByteProgress(out)
}

// step feeds sym into the preamble/sync/body state machine. It returns
// false only when a mid-sync-burst read fails, terminating the session.
func (r *Receiver) step(sym int) bool {
	switch r.state {
	case stateCollecting:
		r.stepCollecting(sym)
		return true
	default:
		return r.stepHunt(sym)
	}
}

// stepHunt updates the alternating-preamble run counter and, once it
// reaches params.PreambleSyms, consumes three more symbol windows as the
// candidate sync word.
func (r *Receiver) stepHunt(sym int) bool {
	expectZero := r.preambleRun%2 == 0
	switch {
	case expectZero && sym == 0, !expectZero && sym == 2:
		r.preambleRun++
	case sym == 0:
		r.preambleRun = 1
	default:
		r.preambleRun = 0
	}

	if r.preambleRun < r.params.PreambleSyms {
		return true
	}

	var cand [3]int
	for i := range cand {
		s, ok := r.readSymbol()
		if !ok {
			return false
		}
		r.observe(s)
		cand[i] = s
	}

	if cand == r.params.Sync {
		r.state = stateCollecting
		r.bodySyms = r.bodySyms[:0]
	} else {
		r.preambleRun = 0
	}
	return true
}

// stepCollecting appends sym to the current packet body and checks
// whether the body is now complete, overshot, or still incomplete.
func (r *Receiver) stepCollecting(sym int) {
	r.bodySyms = append(r.bodySyms, sym)
	if len(r.bodySyms) < 4 {
		return
	}

	length := int(symbol.ToBytes(r.bodySyms[:4])[0])
	need := (1 + length + 2) * 4

	switch {
	case len(r.bodySyms) == need:
		pkt := symbol.ToBytes(r.bodySyms)
		if payload, ok := packet.TryParse(pkt); ok {
			r.listener.emitPacket(payload)
		}
		r.resetToHunt()
	case len(r.bodySyms) > need:
		r.resetToHunt()
	}
}

func (r *Receiver) resetToHunt() {
	r.preambleRun = 0
	r.state = stateHunt
	r.bodySyms = r.bodySyms[:0]
}
