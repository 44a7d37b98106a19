package notifier

import (
	"testing"
)

func drained(c <-chan struct{}) bool {
	select {
	case <-c:
		return true
	default:
		return false
	}
}

func TestBroadcastReachesSameOwner(t *testing.T) {
	hub := NewHub()
	a1 := hub.Join("alice")
	a2 := hub.Join("alice")
	defer a1.Close()
	defer a2.Close()

	hub.Broadcast("alice")

	if !drained(a1.C()) {
		t.Error("first listener did not receive broadcast")
	}
	if !drained(a2.C()) {
		t.Error("sibling listener did not receive broadcast")
	}
}

func TestBroadcastNeverCrossesOwners(t *testing.T) {
	hub := NewHub()
	alice := hub.Join("alice")
	bob := hub.Join("bob")
	defer alice.Close()
	defer bob.Close()

	hub.Broadcast("alice")

	if !drained(alice.C()) {
		t.Error("owner's listener did not receive broadcast")
	}
	if drained(bob.C()) {
		t.Error("broadcast crossed into a different owner's channel")
	}
}

func TestBroadcastCoalesces(t *testing.T) {
	hub := NewHub()
	l := hub.Join("alice")
	defer l.Close()

	hub.Broadcast("alice")
	hub.Broadcast("alice")
	hub.Broadcast("alice")

	if !drained(l.C()) {
		t.Fatal("listener did not receive broadcast")
	}
	// Pending notifications coalesce into one; a reload covers them all.
	if drained(l.C()) {
		t.Error("listener queued more than one pending notification")
	}
}

func TestClosedListenerStopsReceiving(t *testing.T) {
	hub := NewHub()
	l := hub.Join("alice")
	l.Close()
	l.Close() // safe twice

	hub.Broadcast("alice") // must not reach or panic

	// The channel is closed, so receives complete with ok=false and a
	// range loop over C() terminates.
	if _, ok := <-l.C(); ok {
		t.Error("closed listener received broadcast")
	}
}

func TestNilHubDegradesSilently(t *testing.T) {
	var hub *Hub

	l := hub.Join("alice")
	if l != nil {
		t.Fatal("Join() on nil hub should return nil")
	}
	hub.Broadcast("alice") // must not panic
	l.Close()              // must not panic

	if l.C() != nil {
		t.Error("C() on nil listener should be nil")
	}
}

func TestChannelName(t *testing.T) {
	if got := ChannelName("alice"); got != "bookmarks-sync-alice" {
		t.Errorf("ChannelName() = %q, want %q", got, "bookmarks-sync-alice")
	}
}
