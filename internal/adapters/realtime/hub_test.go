package realtime

import "testing"

// TestHub_SubscribePublishUnsubscribe delivers only to live subscribers of the topic.
func TestHub_SubscribePublishUnsubscribe(t *testing.T) {
	h := NewHub()
	var a, b int
	unsubA := h.Subscribe(RoomTopic("r1"), func(Event) { a++ })
	h.Subscribe(RoomTopic("r2"), func(Event) { b++ })

	h.Publish(Event{Topic: RoomTopic("r1"), Kind: "message"})
	if a != 1 || b != 0 {
		t.Fatalf("after publish a=%d b=%d", a, b)
	}

	unsubA()
	unsubA()
	h.Publish(Event{Topic: RoomTopic("r1")})
	if a != 1 {
		t.Errorf("unsubscribed handler ran: a=%d", a)
	}
	if n := h.Subscribers(RoomTopic("r1")); n != 0 {
		t.Errorf("Subscribers = %d, want 0", n)
	}
}

// TestHub_UnsubscribeDuringPublish does not deadlock.
func TestHub_UnsubscribeDuringPublish(t *testing.T) {
	h := NewHub()
	calls := 0
	var unsub Unsubscribe
	unsub = h.Subscribe("t", func(Event) {
		calls++
		unsub()
	})
	h.Publish(Event{Topic: "t"})
	h.Publish(Event{Topic: "t"})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
