// Package transport defines the byte-oriented channel a Receiver pulls PCM
// symbol windows from, and supplies a couple of concrete channels. The
// audio/loopback transport itself is an external collaborator of the
// receiver pipeline, not part of its core; this package exists so the rest
// of the module has something real to run against.
package transport

import (
	"bytes"
	"errors"
	"io"
	"sync"
)

// Channel is a blocking byte-oriented source. Read must either fill buf
// completely or return a short count; a short count is interpreted by
// callers as end-of-stream, exactly like the underlying transport running
// dry or being closed. No message framing is assumed at this layer.
type Channel interface {
	Read(buf []byte) (n int, err error)
}

// ErrClosed is returned by a Loopback's Write after Close. A Read after
// Close that cannot fill its buffer returns a short count and io.EOF.
var ErrClosed = errors.New("transport: channel closed")

// Loopback is an in-memory Channel fed by Write, used to drive a Receiver
// in tests or to bridge an in-process transmitter and receiver without any
// real audio path.
type Loopback struct {
	mu     sync.Mutex
	cond   *sync.Cond
	buf    bytes.Buffer
	closed bool
}

// NewLoopback creates an empty Loopback channel.
func NewLoopback() *Loopback {
	l := &Loopback{}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// Write appends bytes for a later Read to consume. Safe to call from a
// different goroutine than the one calling Read.
func (l *Loopback) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return 0, ErrClosed
	}
	n, err := l.buf.Write(p)
	l.cond.Broadcast()
	return n, err
}

// Close marks the channel closed; pending and future Reads observe EOF
// once buffered bytes are drained.
func (l *Loopback) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	l.cond.Broadcast()
}

// Read blocks until buf can be filled fully, the channel is closed, or a
// prior write leaves fewer than len(buf) bytes forever obtainable (i.e.
// the channel is closed with a partial window still buffered).
func (l *Loopback) Read(buf []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for l.buf.Len() < len(buf) && !l.closed {
		l.cond.Wait()
	}
	n, _ := l.buf.Read(buf)
	if n < len(buf) {
		return n, io.EOF
	}
	return n, nil
}
