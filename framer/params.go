package framer

import "math"

// Params holds the receiver's build-time configuration. It is fixed for
// the lifetime of a session and never mutated once a Receiver is running.
type Params struct {
	SR           float64    // PCM sample rate in Hz
	SymbolMS     float64    // symbol window duration in ms
	Freq         [4]float64 // four tone frequencies in Hz
	PreambleSyms int        // minimum alternating preamble symbols before sync
	Sync         [3]int     // three-symbol sync word

	// Derived, computed by NewParams.
	SymFrames int // samples per symbol window
	SymBytes  int // bytes per symbol window (16-bit mono PCM)
}

// BytesPerSample is fixed by the PCM format this receiver understands:
// signed 16-bit little-endian mono.
const BytesPerSample = 2

// NewParams derives SymFrames and SymBytes from SR and SymbolMS.
func NewParams(sr, symbolMS float64, freq [4]float64, preambleSyms int, sync [3]int) Params {
	symFrames := int(math.Round(sr * symbolMS / 1000.0))
	return Params{
		SR:           sr,
		SymbolMS:     symbolMS,
		Freq:         freq,
		PreambleSyms: preambleSyms,
		Sync:         sync,
		SymFrames:    symFrames,
		SymBytes:     symFrames * BytesPerSample,
	}
}

// DefaultParams matches the reference tone plan used throughout this
// codebase's tests and tooling: SR=48000, 20ms symbols, tones at
// 1000/1400/1800/2200 Hz, an 8-symbol alternating preamble and sync word
// (1,3,0).
func DefaultParams() Params {
	return NewParams(48000, 20, [4]float64{1000, 1400, 1800, 2200}, 8, [3]int{1, 3, 0})
}
