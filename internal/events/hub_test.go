package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg, ok := <-c.Messages():
		require.True(t, ok, "channel closed unexpectedly")
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestHubBroadcastsToAllClients(t *testing.T) {
	hub, _ := startHub(t)
	a, b := NewClient("a"), NewClient("b")
	require.True(t, hub.Register(a))
	require.True(t, hub.Register(b))

	hub.Broadcast([]byte("hello"))

	assert.Equal(t, "hello", string(receive(t, a)))
	assert.Equal(t, "hello", string(receive(t, b)))
}

func TestHubUnregisterClosesClient(t *testing.T) {
	hub, _ := startHub(t)
	c := NewClient("a")
	require.True(t, hub.Register(c))
	hub.Unregister(c)

	select {
	case _, ok := <-c.Messages():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("expected channel to close")
	}
}

func TestHubDropsSlowClients(t *testing.T) {
	hub, _ := startHub(t)
	slow := NewClient("slow")
	require.True(t, hub.Register(slow))

	for i := 0; i < clientSendBuffer+1; i++ {
		hub.Broadcast([]byte("x"))
	}
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, time.Second, 5*time.Millisecond)

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-slow.Messages():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("slow client was not dropped")
		}
	}
}

func TestHubStopsOnCancel(t *testing.T) {
	hub, cancel := startHub(t)
	c := NewClient("a")
	require.True(t, hub.Register(c))
	cancel()

	select {
	case _, ok := <-c.Messages():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("expected close on shutdown")
	}
	assert.Eventually(t, func() bool { return !hub.Register(NewClient("late")) }, time.Second, 10*time.Millisecond)
}
