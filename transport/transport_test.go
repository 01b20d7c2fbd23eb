package transport

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeDialer struct {
	mu       sync.Mutex
	inFlight int
	maxSeen  int
	delay    time.Duration
	err      error
}

func (f *fakeDialer) RoundTrip(ctx context.Context, req Envelope) (Envelope, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxSeen {
		f.maxSeen = f.inFlight
	}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return Envelope{}, ctx.Err()
		}
	}

	if f.err != nil {
		return Envelope{}, f.err
	}

	return Envelope{Payload: append([]byte(nil), req.Payload...)}, nil
}

func (f *fakeDialer) Close() error { return nil }

// TestSendSerializesConcurrentCalls covers spec §5: no pipelining, so two
// concurrent Send calls on the same Conn never reach the dialer at once.
func TestSendSerializesConcurrentCalls(t *testing.T) {
	dialer := &fakeDialer{delay: 20 * time.Millisecond}
	conn := New(dialer, time.Second)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := conn.Send(context.Background(), Envelope{Payload: []byte("x")})
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Equal(t, 1, dialer.maxSeen)
}

func TestSendReturnsReplyPayload(t *testing.T) {
	conn := New(&fakeDialer{}, time.Second)

	reply, err := conn.Send(context.Background(), Envelope{Payload: []byte("hello")})
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), reply.Payload)
}

func TestSendWrapsDialerError(t *testing.T) {
	conn := New(&fakeDialer{err: errors.New("boom")}, time.Second)

	_, err := conn.Send(context.Background(), Envelope{})
	require.Error(t, err)
}

func TestSendRespectsTimeout(t *testing.T) {
	conn := New(&fakeDialer{delay: 50 * time.Millisecond}, 5*time.Millisecond)

	_, err := conn.Send(context.Background(), Envelope{})
	require.Error(t, err)
}

func TestEncodeDecodeFrameRoundTrip(t *testing.T) {
	e := Envelope{Payload: []byte("armored-contract-blob"), Cleartext: true}

	frame := encodeFrame(e)
	decoded := decodeFrame(frame)

	require.Equal(t, e.Payload, decoded.Payload)
	require.Equal(t, e.Cleartext, decoded.Cleartext)
}
