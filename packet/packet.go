// Package packet implements the outer wire frame:
//
//	LEN (1 byte) || PAYLOAD (LEN bytes) || CRC16 (2 bytes, big-endian)
//
// CRC16 is CRC-16/CCITT-FALSE computed over LEN||PAYLOAD.
package packet

import "github.com/cwsl/fskrx/crc16"

// MaxPayload is the largest payload a single outer packet can carry.
const MaxPayload = 255

// Make builds an outer packet from payload, truncating to MaxPayload bytes
// if necessary so sender and receiver stay symmetric.
func Make(payload []byte) []byte {
	if len(payload) > MaxPayload {
		payload = payload[:MaxPayload]
	}
	body := make([]byte, 1+len(payload))
	body[0] = byte(len(payload))
	copy(body[1:], payload)

	crc := crc16.CCITT(body)
	pkt := make([]byte, len(body)+2)
	copy(pkt, body)
	pkt[len(pkt)-2] = byte(crc >> 8)
	pkt[len(pkt)-1] = byte(crc)
	return pkt
}

// TryParse validates and extracts the payload from pkt. It returns
// (payload, true) only if pkt is at least 3 bytes, its length matches
// 1+LEN+2, and the trailing CRC matches the recomputed CRC over LEN||PAYLOAD.
func TryParse(pkt []byte) ([]byte, bool) {
	if len(pkt) < 3 {
		return nil, false
	}
	length := int(pkt[0])
	if len(pkt) != 1+length+2 {
		return nil, false
	}
	got := uint16(pkt[len(pkt)-2])<<8 | uint16(pkt[len(pkt)-1])
	calc := crc16.CCITT(pkt[:len(pkt)-2])
	if got != calc {
		return nil, false
	}
	payload := make([]byte, length)
	copy(payload, pkt[1:1+length])
	return payload, true
}
