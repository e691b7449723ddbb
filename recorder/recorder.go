// Package recorder persists the receiver's raw byte-progress stream to
// disk for later replay or debugging, optionally zstd-compressed the way
// this codebase's own PCM capture path compresses audio frames before
// writing them out.
package recorder

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// Recorder is a passive framer.Listener attachment: its OnByteProgress
// method never blocks the caller more than a buffered channel send, and
// drops the newest sample rather than applying backpressure to the
// receiver, matching the "no backpressure at the framer level" rule.
type Recorder struct {
	updates chan []byte
	done    chan struct{}
}

// New opens path (creating or truncating it) and starts a background
// writer goroutine. If compressed is true, the byte-progress stream is
// wrapped in a zstd writer.
func New(path string, compressed bool) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("recorder: creating %s: %w", path, err)
	}

	var w io.WriteCloser
	bw := bufio.NewWriter(f)
	if compressed {
		zw, err := zstd.NewWriter(bw)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("recorder: creating zstd writer: %w", err)
		}
		w = &flushingCloser{zw, bw, f}
	} else {
		w = &flushingCloser{bw, bw, f}
	}

	r := &Recorder{
		updates: make(chan []byte, 64),
		done:    make(chan struct{}),
	}
	go r.run(w)
	return r, nil
}

func (r *Recorder) run(w io.WriteCloser) {
	defer close(r.done)
	defer w.Close()
	for b := range r.updates {
		if _, err := w.Write(b); err != nil {
			return
		}
	}
}

// OnByteProgress is a framer.Listener.OnByteProgress-compatible callback:
// it records the delta since the last observation, not the cumulative
// stream, so while no update is dropped the recorded file is exactly the
// raw byte stream in order. A delta dropped on a full buffer is not
// retried and leaves a gap in the file.
func (r *Recorder) OnByteProgress() func([]byte) {
	var last int
	return func(bytesSoFar []byte) {
		if len(bytesSoFar) <= last {
			return
		}
		delta := make([]byte, len(bytesSoFar)-last)
		copy(delta, bytesSoFar[last:])
		last = len(bytesSoFar)

		select {
		case r.updates <- delta:
		default:
			// Buffer full: drop rather than stall the receiver.
		}
	}
}

// Close stops accepting new updates and waits for the writer goroutine to
// flush and close the underlying file.
func (r *Recorder) Close() {
	close(r.updates)
	<-r.done
}

// flushingCloser wires an inner writer (raw or zstd) through a buffered
// writer and finally the backing file, closing/flushing each layer in
// order.
type flushingCloser struct {
	inner io.Writer
	buf   *bufio.Writer
	file  *os.File
}

func (fc *flushingCloser) Write(p []byte) (int, error) {
	return fc.inner.Write(p)
}

func (fc *flushingCloser) Close() error {
	if c, ok := fc.inner.(io.Closer); ok {
		if err := c.Close(); err != nil {
			fc.file.Close()
			return err
		}
	}
	if err := fc.buf.Flush(); err != nil {
		fc.file.Close()
		return err
	}
	return fc.file.Close()
}
