package transport

import (
	"context"
	"encoding/binary"

	"github.com/gorilla/websocket"
)

// WebsocketDialer is the alternate Dialer for servers that speak the
// notary protocol over a raw websocket connection rather than gRPC —
// the shape the original ZMQ/OpenSSL socket layer (spec §1, out of
// scope) is replaced with here. One binary frame is written per
// request, one binary frame is read per reply; the first byte of each
// frame is the cleartext flag.
type WebsocketDialer struct {
	conn *websocket.Conn
}

// DialWebsocket opens a websocket connection to url and wraps it in a
// Dialer.
func DialWebsocket(ctx context.Context, url string) (*WebsocketDialer, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}

	return &WebsocketDialer{conn: conn}, nil
}

// RoundTrip writes req as one binary frame and blocks for the single
// reply frame.
func (d *WebsocketDialer) RoundTrip(ctx context.Context, req Envelope) (Envelope, error) {
	if deadline, ok := ctx.Deadline(); ok {
		if err := d.conn.SetWriteDeadline(deadline); err != nil {
			return Envelope{}, err
		}
		if err := d.conn.SetReadDeadline(deadline); err != nil {
			return Envelope{}, err
		}
	}

	if err := d.conn.WriteMessage(websocket.BinaryMessage, encodeFrame(req)); err != nil {
		return Envelope{}, err
	}

	_, data, err := d.conn.ReadMessage()
	if err != nil {
		return Envelope{}, err
	}

	return decodeFrame(data), nil
}

// Close closes the underlying websocket connection.
func (d *WebsocketDialer) Close() error {
	return d.conn.Close()
}

func encodeFrame(e Envelope) []byte {
	flag := byte(0)
	if e.Cleartext {
		flag = 1
	}

	frame := make([]byte, 1+4+len(e.Payload))
	frame[0] = flag
	binary.BigEndian.PutUint32(frame[1:5], uint32(len(e.Payload)))
	copy(frame[5:], e.Payload)

	return frame
}

func decodeFrame(data []byte) Envelope {
	if len(data) < 5 {
		return Envelope{}
	}

	n := binary.BigEndian.Uint32(data[1:5])
	payload := data[5:]
	if uint32(len(payload)) > n {
		payload = payload[:n]
	}

	return Envelope{Payload: payload, Cleartext: data[0] == 1}
}
