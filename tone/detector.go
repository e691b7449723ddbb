// Package tone implements the narrowband power estimator that turns one
// symbol window of PCM into a detected 4-FSK tone index. The recurrence is
// the classic fixed-bin Goertzel filter, the same shape used elsewhere in
// this codebase for single-tone detection (see the morse extension's
// GoertzelFilter), specialized here to run 4 bins in parallel over one
// fixed-length window and pick the strongest.
package tone

import "math"

// goertzel is a fixed-bin Goertzel resonator scoped to exactly one symbol
// window. It is reset (via Reset) at the start of every window.
type goertzel struct {
	coeff  float64
	s1, s2 float64
}

func newGoertzel(freq float64, windowSamples int, sampleRate float64) *goertzel {
	bin := math.Round(float64(windowSamples) * freq / sampleRate)
	omega := 2 * math.Pi * bin / float64(windowSamples)
	return &goertzel{coeff: 2 * math.Cos(omega)}
}

func (g *goertzel) Reset() {
	g.s1, g.s2 = 0, 0
}

func (g *goertzel) Push(x float64) {
	s0 := x + g.coeff*g.s1 - g.s2
	g.s2 = g.s1
	g.s1 = s0
}

func (g *goertzel) Power() float64 {
	return g.s1*g.s1 + g.s2*g.s2 - g.coeff*g.s1*g.s2
}

// Detector estimates, for a fixed window of samples, which of a small set
// of target frequencies carries the most narrowband power. It is safe to
// reuse across windows; each window resets the internal filters.
type Detector struct {
	bands []*goertzel
}

// NewDetector builds a Detector for the given target frequencies, sample
// rate, and window length in samples. windowSamples must match the window
// size every subsequent call to Detect will be given.
func NewDetector(freqs []float64, windowSamples int, sampleRate float64) *Detector {
	d := &Detector{bands: make([]*goertzel, len(freqs))}
	for i, f := range freqs {
		d.bands[i] = newGoertzel(f, windowSamples, sampleRate)
	}
	return d
}

// Detect consumes a slice of samples normalized to [-1, 1] and returns the
// index of the band with the greatest estimated power. Ties resolve to the
// lowest index.
func (d *Detector) Detect(samples []float64) int {
	for _, g := range d.bands {
		g.Reset()
	}
	for _, x := range samples {
		for _, g := range d.bands {
			g.Push(x)
		}
	}
	best := 0
	bestPower := -1.0
	for i, g := range d.bands {
		p := g.Power()
		if p > bestPower {
			bestPower = p
			best = i
		}
	}
	return best
}

// NormalizePCM16LE interprets buf as little-endian signed 16-bit PCM and
// returns the samples scaled to [-1, 1]. len(buf) must be even.
func NormalizePCM16LE(buf []byte) []float64 {
	n := len(buf) / 2
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		lo := uint16(buf[i*2])
		hi := uint16(buf[i*2+1])
		s := int16(hi<<8 | lo)
		out[i] = float64(s) / 32768.0
	}
	return out
}
