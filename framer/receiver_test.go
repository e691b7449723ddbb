package framer

import (
	"bytes"
	"math"
	"testing"

	"github.com/cwsl/fskrx/packet"
	"github.com/cwsl/fskrx/symbol"
	"github.com/cwsl/fskrx/transport"
)

func testParams() Params {
	return DefaultParams()
}

// renderSymbolPCM renders one symbol window of PCM for the given tone
// frequency at full scale.
func renderSymbolPCM(p Params, freq float64) []byte {
	buf := make([]byte, p.SymBytes)
	for i := 0; i < p.SymFrames; i++ {
		v := math.Sin(2 * math.Pi * freq * float64(i) / p.SR)
		s := int16(v * 32000)
		buf[i*2] = byte(uint16(s))
		buf[i*2+1] = byte(uint16(s) >> 8)
	}
	return buf
}

// renderSymbols renders a sequence of symbol values into a contiguous PCM
// byte stream.
func renderSymbols(p Params, syms []int) []byte {
	var out bytes.Buffer
	for _, s := range syms {
		out.Write(renderSymbolPCM(p, p.Freq[s]))
	}
	return out.Bytes()
}

func preambleSyms(p Params) []int {
	syms := make([]int, p.PreambleSyms)
	for i := range syms {
		if i%2 == 0 {
			syms[i] = 0
		} else {
			syms[i] = 2
		}
	}
	return syms
}

func framedPacketSyms(p Params, payload []byte) []int {
	pkt := packet.Make(payload)
	syms := append([]int{}, preambleSyms(p)...)
	syms = append(syms, p.Sync[0], p.Sync[1], p.Sync[2])
	syms = append(syms, symbol.ToSymbols(pkt)...)
	return syms
}

type collector struct {
	symbols      []int
	byteProgress [][]byte
	packets      [][]byte
}

func (c *collector) listener() Listener {
	return Listener{
		OnSymbol: func(sym int) { c.symbols = append(c.symbols, sym) },
		OnByteProgress: func(b []byte) {
			cp := make([]byte, len(b))
			copy(cp, b)
			c.byteProgress = append(c.byteProgress, cp)
		},
		OnPacket: func(p []byte) {
			cp := make([]byte, len(p))
			copy(cp, p)
			c.packets = append(c.packets, cp)
		},
	}
}

func runOverLoopback(p Params, pcm []byte, l Listener) {
	lb := transport.NewLoopback()
	lb.Write(pcm)
	lb.Close()
	New(p, lb, l).Run()
}

func TestEndToEndEmptyPayload(t *testing.T) {
	p := testParams()
	syms := framedPacketSyms(p, nil)
	pcm := renderSymbols(p, syms)

	c := &collector{}
	runOverLoopback(p, pcm, c.listener())

	if len(c.packets) != 1 {
		t.Fatalf("got %d packets, want 1", len(c.packets))
	}
	if len(c.packets[0]) != 0 {
		t.Fatalf("packet payload = %v, want empty", c.packets[0])
	}
	if len(c.symbols) != len(syms) {
		t.Fatalf("got %d onSymbol calls, want %d", len(c.symbols), len(syms))
	}
}

func TestEndToEndUTF8Payload(t *testing.T) {
	p := testParams()
	payload := []byte("hi")
	syms := framedPacketSyms(p, payload)
	pcm := renderSymbols(p, syms)

	c := &collector{}
	runOverLoopback(p, pcm, c.listener())

	if len(c.packets) != 1 {
		t.Fatalf("got %d packets, want 1", len(c.packets))
	}
	if !bytes.Equal(c.packets[0], payload) {
		t.Fatalf("packet payload = %v, want %v", c.packets[0], payload)
	}
}

func TestEndToEndCRCCorruptionYieldsNoPacket(t *testing.T) {
	p := testParams()
	payload := []byte("hi")
	pkt := packet.Make(payload)
	pkt[1] ^= 0x01 // corrupt payload after CRC computed

	syms := append([]int{}, preambleSyms(p)...)
	syms = append(syms, p.Sync[0], p.Sync[1], p.Sync[2])
	syms = append(syms, symbol.ToSymbols(pkt)...)
	pcm := renderSymbols(p, syms)

	c := &collector{}
	runOverLoopback(p, pcm, c.listener())

	if len(c.packets) != 0 {
		t.Fatalf("got %d packets, want 0 for a CRC-corrupted frame", len(c.packets))
	}
	if len(c.symbols) != len(syms) {
		t.Fatalf("got %d onSymbol calls, want %d even though the packet was dropped", len(c.symbols), len(syms))
	}
}

func TestEndToEndPreambleFalseStart(t *testing.T) {
	p := testParams()
	// A run of 5 alternating symbols broken by a stray 1, then a clean
	// preamble, sync, and packet.
	falseStart := []int{0, 2, 0, 2, 0, 1}
	syms := append([]int{}, falseStart...)
	syms = append(syms, preambleSyms(p)...)
	syms = append(syms, p.Sync[0], p.Sync[1], p.Sync[2])

	payload := []byte("ok")
	pkt := packet.Make(payload)
	syms = append(syms, symbol.ToSymbols(pkt)...)

	pcm := renderSymbols(p, syms)
	c := &collector{}
	runOverLoopback(p, pcm, c.listener())

	if len(c.packets) != 1 {
		t.Fatalf("got %d packets, want 1", len(c.packets))
	}
	if !bytes.Equal(c.packets[0], payload) {
		t.Fatalf("packet payload = %v, want %v", c.packets[0], payload)
	}
}

func TestEndToEndBackToBackPackets(t *testing.T) {
	p := testParams()
	first := framedPacketSyms(p, []byte("aa"))
	second := framedPacketSyms(p, []byte("bb"))
	syms := append(append([]int{}, first...), second...)
	pcm := renderSymbols(p, syms)

	c := &collector{}
	runOverLoopback(p, pcm, c.listener())

	if len(c.packets) != 2 {
		t.Fatalf("got %d packets, want 2", len(c.packets))
	}
	if !bytes.Equal(c.packets[0], []byte("aa")) || !bytes.Equal(c.packets[1], []byte("bb")) {
		t.Fatalf("packets = %v, want [aa bb]", c.packets)
	}
	if len(c.symbols) != len(syms) {
		t.Fatalf("got %d onSymbol calls, want %d", len(c.symbols), len(syms))
	}
}

func TestEndToEndTruncatedMidBody(t *testing.T) {
	p := testParams()
	payload := []byte("truncate-me")
	full := framedPacketSyms(p, payload)
	bodyLen := len(symbol.ToSymbols(packet.Make(payload)))
	half := full[:len(full)-bodyLen/2]
	pcm := renderSymbols(p, half)

	c := &collector{}
	runOverLoopback(p, pcm, c.listener())

	if len(c.packets) != 0 {
		t.Fatalf("got %d packets, want 0 for a mid-body truncation", len(c.packets))
	}
	if len(c.symbols) != len(half) {
		t.Fatalf("got %d onSymbol calls, want %d", len(c.symbols), len(half))
	}
}

func TestByteProgressMatchesSymbolsToBytes(t *testing.T) {
	p := testParams()
	syms := framedPacketSyms(p, []byte("progress"))
	pcm := renderSymbols(p, syms)

	c := &collector{}
	runOverLoopback(p, pcm, c.listener())

	wantCount := len(syms) / 4
	if len(c.byteProgress) != wantCount {
		t.Fatalf("got %d onByteProgress calls, want %d", len(c.byteProgress), wantCount)
	}
	last := c.byteProgress[len(c.byteProgress)-1]
	want := symbol.ToBytes(syms[:wantCount*4])
	if !bytes.Equal(last, want) {
		t.Fatalf("final byte progress = %v, want %v", last, want)
	}
}

func TestNilListenerFieldsDoNotPanic(t *testing.T) {
	p := testParams()
	syms := framedPacketSyms(p, []byte("quiet"))
	pcm := renderSymbols(p, syms)

	// Zero-value Listener: every callback is nil.
	runOverLoopback(p, pcm, Listener{})
}
