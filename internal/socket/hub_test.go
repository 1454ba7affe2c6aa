package socket

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingConn struct {
	mu       sync.Mutex
	messages [][]byte
	fail     bool
	closed   bool
}

func (c *recordingConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("broken pipe")
	}
	if messageType != websocket.TextMessage {
		return errors.New("unexpected message type")
	}
	c.messages = append(c.messages, data)
	return nil
}

func (c *recordingConn) SetWriteDeadline(time.Time) error { return nil }

func (c *recordingConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *recordingConn) received() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.messages...)
}

func (c *recordingConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// stalledConn never completes a write until it is closed, like a peer that
// stopped reading with a full TCP window.
type stalledConn struct {
	release chan struct{}
	once    sync.Once
}

func newStalledConn() *stalledConn {
	return &stalledConn{release: make(chan struct{})}
}

func (c *stalledConn) WriteMessage(int, []byte) error {
	<-c.release
	return errors.New("use of closed network connection")
}

func (c *stalledConn) SetWriteDeadline(time.Time) error { return nil }

func (c *stalledConn) Close() error {
	c.once.Do(func() { close(c.release) })
	return nil
}

func TestHub_Broadcast(t *testing.T) {
	hub := NewHub()
	a, b := &recordingConn{}, &recordingConn{}
	hub.Register("a", a)
	hub.Register("b", b)

	count := 3
	hub.Broadcast(CampEvent{Type: CampUpdated, CampID: "c1", ParticipantCount: &count})

	assert.Eventually(t, func() bool { return len(a.received()) == 1 && len(b.received()) == 1 }, time.Second, 5*time.Millisecond)

	var got CampEvent
	require.NoError(t, json.Unmarshal(a.received()[0], &got))
	assert.Equal(t, CampUpdated, got.Type)
	assert.Equal(t, "c1", got.CampID)
	require.NotNil(t, got.ParticipantCount)
	assert.Equal(t, 3, *got.ParticipantCount)
}

func TestHub_DropsBrokenClients(t *testing.T) {
	hub := NewHub()
	ok, broken := &recordingConn{}, &recordingConn{fail: true}
	hub.Register("ok", ok)
	hub.Register("broken", broken)

	hub.Broadcast(CampEvent{Type: CampDeleted, CampID: "c1"})
	assert.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, broken.isClosed, time.Second, 5*time.Millisecond)

	hub.Unregister("ok")
	assert.Equal(t, 0, hub.Len())
	assert.False(t, ok.isClosed())
}

func TestHub_StalledClientDoesNotBlockBroadcast(t *testing.T) {
	hub := NewHub()
	stalled := newStalledConn()
	hub.Register("stalled", stalled)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < sendBuffer+2; i++ {
			hub.Broadcast(CampEvent{Type: CampUpdated, CampID: "c1"})
		}
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a stalled subscriber")
	}

	assert.Eventually(t, func() bool { return hub.Len() == 0 }, time.Second, 5*time.Millisecond)

	// The hub keeps serving everyone else.
	fresh := &recordingConn{}
	hub.Register("fresh", fresh)
	hub.Broadcast(CampEvent{Type: CampCreated, CampID: "c2"})
	assert.Eventually(t, func() bool { return len(fresh.received()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestHub_UnregisterIsIdempotent(t *testing.T) {
	hub := NewHub()
	hub.Register("a", &recordingConn{})
	hub.Unregister("a")
	hub.Unregister("a")
	hub.Unregister("never")
	assert.Equal(t, 0, hub.Len())

	hub.Broadcast(CampEvent{Type: CampDeleted, CampID: "c1"})
}
