package transport

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gorilla/websocket"
)

// WebSocketChannel adapts a gorilla/websocket connection carrying binary
// PCM frames into a Channel. Each inbound binary message is buffered and
// drained by Read, mirroring how this codebase's own audio bridges
// (its kiwi and user-spectrum websocket handlers) push binary PCM frames
// to a consumer that reads them at its own pace.
type WebSocketChannel struct {
	conn    *websocket.Conn
	pending bytes.Buffer
}

// NewWebSocketChannel wraps an already-established websocket connection.
func NewWebSocketChannel(conn *websocket.Conn) *WebSocketChannel {
	return &WebSocketChannel{conn: conn}
}

// Read fills buf from buffered websocket frames, pulling additional
// binary messages off the connection as needed. A close frame or read
// error surfaces as a short count so the receiver treats it as EOF.
func (w *WebSocketChannel) Read(buf []byte) (int, error) {
	for w.pending.Len() < len(buf) {
		msgType, data, err := w.conn.ReadMessage()
		if err != nil {
			n, _ := w.pending.Read(buf)
			return n, io.EOF
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		w.pending.Write(data)
	}
	n, err := w.pending.Read(buf)
	if err != nil {
		return n, fmt.Errorf("transport: draining websocket buffer: %w", err)
	}
	return n, nil
}
