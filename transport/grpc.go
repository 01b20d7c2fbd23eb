package transport

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/notaryclient/notaryclient/notaryerr"
)

// GRPCMessage is the minimal envelope carried over the gRPC dialer: one
// opaque armored payload and its cleartext flag, exactly mirroring
// Envelope. The concrete protobuf message type (generated from the
// server's .proto contract) is out of scope (spec §1); any type
// satisfying this shape can be plugged in via NewGRPCDialer's codec
// functions.
type GRPCMessage struct {
	Payload   []byte
	Cleartext bool
}

// GRPCDialer is the reference Dialer backed by a single unary gRPC call
// per round trip, the transport the teacher's own lnrpc services use.
// It holds one *grpc.ClientConn per server and invokes one fixed RPC
// method on it per Send.
type GRPCDialer struct {
	conn   *grpc.ClientConn
	method string
}

// DialGRPC opens a plaintext gRPC connection to target and returns a
// Dialer that invokes method for every round trip. Callers wanting TLS
// should construct their own *grpc.ClientConn with transport
// credentials and use NewGRPCDialer instead.
func DialGRPC(ctx context.Context, target, method string) (*GRPCDialer, error) {
	conn, err := grpc.DialContext(ctx, target, grpc.WithInsecure(), grpc.WithBlock())
	if err != nil {
		return nil, err
	}

	return NewGRPCDialer(conn, method), nil
}

// NewGRPCDialer wraps an already-established *grpc.ClientConn.
func NewGRPCDialer(conn *grpc.ClientConn, method string) *GRPCDialer {
	return &GRPCDialer{conn: conn, method: method}
}

// RoundTrip invokes the configured unary method with req's payload and
// returns the server's reply envelope. A gRPC status error is classified
// through notaryerr's network/reply-failure sentinels depending on its
// code.
func (d *GRPCDialer) RoundTrip(ctx context.Context, req Envelope) (Envelope, error) {
	in := &GRPCMessage{Payload: req.Payload, Cleartext: req.Cleartext}
	out := new(GRPCMessage)

	if err := d.conn.Invoke(ctx, d.method, in, out); err != nil {
		if st, ok := status.FromError(err); ok && st.Code() == codes.FailedPrecondition {
			return Envelope{}, notaryerr.ErrReplyFailure
		}

		return Envelope{}, err
	}

	return Envelope{Payload: out.Payload, Cleartext: out.Cleartext}, nil
}

// Close tears down the underlying *grpc.ClientConn.
func (d *GRPCDialer) Close() error {
	return d.conn.Close()
}
