// Package symbol packs and unpacks the 2-bit-per-symbol alphabet used by
// the 4-FSK link into whole bytes.
package symbol

// EOF is the sentinel symbol value used by callers to signal a short read
// from the transport; it is never packed into a byte.
const EOF = -1

// ToBytes packs the first floor(len(syms)/4)*4 symbols of syms into bytes,
// MSB-first within each byte: syms[0] occupies bits 7..6, syms[1] bits
// 5..4, syms[2] bits 3..2, syms[3] bits 1..0. A trailing group of 1-3
// symbols is dropped.
func ToBytes(syms []int) []byte {
	n := len(syms) / 4
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		s := syms[i*4 : i*4+4]
		out[i] = byte(s[0]<<6 | s[1]<<4 | s[2]<<2 | s[3])
	}
	return out
}

// ToSymbols is the inverse of ToBytes: it expands each byte into exactly
// 4 symbols.
func ToSymbols(b []byte) []int {
	out := make([]int, 0, len(b)*4)
	for _, v := range b {
		out = append(out,
			int(v>>6)&0x3,
			int(v>>4)&0x3,
			int(v>>2)&0x3,
			int(v)&0x3,
		)
	}
	return out
}
