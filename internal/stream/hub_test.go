package stream

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("user-1")
	defer hub.Unregister(client)

	payload := []byte("hello")
	hub.Broadcast("user-1", payload)

	select {
	case msg := <-client.Send:
		if string(msg) != "hello" {
			t.Fatalf("unexpected message")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for message")
	}
}

func TestHubHelpers(t *testing.T) {
	ch := redisChannel("abc")
	if ch != "tracking:abc:broadcast" {
		t.Fatalf("unexpected channel %q", ch)
	}
	if userIDFromChannel(ch) != "abc" {
		t.Fatalf("unexpected user id")
	}
	if userIDFromChannel("bad") != "" {
		t.Fatalf("expected empty user id")
	}
}

func TestUnregisterCloses(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("user-2")
	hub.Unregister(client)
	_, ok := <-client.Send
	if ok {
		t.Fatalf("expected channel closed")
	}
}

func TestHubBroadcastIsolatesUsers(t *testing.T) {
	hub := NewHub(nil)
	a := hub.Register("user-a")
	b := hub.Register("user-b")
	defer hub.Unregister(a)
	defer hub.Unregister(b)

	hub.Broadcast("user-a", []byte("only-a"))

	select {
	case <-a.Send:
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("user-a missed its broadcast")
	}
	select {
	case msg := <-b.Send:
		t.Fatalf("user-b received %q", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubRedisBroadcastDeliversOnce(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	hub := NewHub(client)
	ws := hub.Register("user-redis")
	defer hub.Unregister(ws)

	time.Sleep(20 * time.Millisecond) // let the subscription attach
	hub.Broadcast("user-redis", []byte("ping"))

	select {
	case msg := <-ws.Send:
		if string(msg) != "ping" {
			t.Fatalf("unexpected message %q", msg)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("timeout waiting for broadcast")
	}

	// The hub's own publish must not echo back as a second copy.
	select {
	case msg := <-ws.Send:
		t.Fatalf("duplicate delivery %q", msg)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHubRedisForwardsOtherInstances(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	hub := NewHub(client)
	ws := hub.Register("user-redis")
	defer hub.Unregister(ws)

	// A publish tagged with a different hub id is a foreign instance's
	// event and must reach local subscribers.
	time.Sleep(20 * time.Millisecond)
	msg := wrapEnvelope("another-instance", []byte("pong"))
	if err := client.Publish(context.Background(), "tracking:user-redis:broadcast", msg).Err(); err != nil {
		t.Fatalf("publish error: %v", err)
	}

	select {
	case got := <-ws.Send:
		if string(got) != "pong" {
			t.Fatalf("unexpected message %q", got)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timeout waiting for redis message")
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	src, payload := splitEnvelope(wrapEnvelope("hub-1", []byte(`{"type":"position"}`)))
	if src != "hub-1" || string(payload) != `{"type":"position"}` {
		t.Fatalf("unexpected envelope parts %q %q", src, payload)
	}
	// An unwrapped message is treated as payload from an unknown source.
	src, payload = splitEnvelope([]byte("bare"))
	if src != "" || string(payload) != "bare" {
		t.Fatalf("unexpected bare parts %q %q", src, payload)
	}
}

func TestHubRedisPublishError(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	server.Close()
	defer client.Close()

	hub := NewHub(client)
	clientNode := hub.Register("user-bad")
	defer hub.Unregister(clientNode)

	hub.Broadcast("user-bad", []byte("ping"))
}
