package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/quill/internal/domain"
)

func receive(t *testing.T, c *Client) *Event {
	t.Helper()
	select {
	case data, ok := <-c.send:
		if !ok {
			t.Fatal("send channel closed")
		}
		var evt Event
		if err := json.Unmarshal(data, &evt); err != nil {
			t.Fatal(err)
		}
		return &evt
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
	return nil
}

func expectNothing(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("unexpected event %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubFansOutToSubscribers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)
	notifier := NewHubNotifier(hub)

	postID := uuid.New()
	watcher := NewClient(hub, nil, uuid.New())
	bystander := NewClient(hub, nil, uuid.New())
	if !hub.Register(watcher) || !hub.Register(bystander) {
		t.Fatal("register failed")
	}
	watcher.Subscribe(postID)

	notifier.NotifyReactions(postID, domain.ReactionCounts{Likes: 2, Dislikes: 1})

	evt := receive(t, watcher)
	if evt.Type != EventTypeReactionUpdated || evt.PostID == nil || *evt.PostID != postID {
		t.Fatalf("event = %+v", evt)
	}
	var counts domain.ReactionCounts
	if err := json.Unmarshal(evt.Payload, &counts); err != nil {
		t.Fatal(err)
	}
	if counts != (domain.ReactionCounts{Likes: 2, Dislikes: 1}) {
		t.Errorf("payload = %+v", counts)
	}
	expectNothing(t, bystander)

	watcher.Unsubscribe(postID)
	notifier.NotifyDeletedPost(postID)
	expectNothing(t, watcher)
}

func TestHubStopClosesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	hub := NewHub()
	go hub.Run(ctx)

	client := NewClient(hub, nil, uuid.New())
	if !hub.Register(client) {
		t.Fatal("register failed")
	}
	cancel()

	select {
	case <-client.done:
	case <-time.After(time.Second):
		t.Fatal("client not shut down with the hub")
	}
	if hub.Register(NewClient(hub, nil, uuid.New())) {
		t.Error("register succeeded after stop")
	}
	if client.enqueue([]byte("late")) {
		t.Error("enqueue succeeded on a closed client")
	}
}

func TestClientHandleEvent(t *testing.T) {
	hub := NewHub()
	client := NewClient(hub, nil, uuid.New())
	postID := uuid.New()

	payload, _ := json.Marshal(PostPayload{PostID: postID})
	client.handleEvent(&Event{Type: EventTypePostSubscribe, Payload: payload})
	if !client.IsSubscribed(postID) {
		t.Fatal("subscribe not applied")
	}

	client.handleEvent(&Event{Type: EventTypePing})
	if evt := receive(t, client); evt.Type != EventTypePong {
		t.Errorf("ping answered with %q", evt.Type)
	}

	client.handleEvent(&Event{Type: EventTypePostUnsubscribe, Payload: payload})
	if client.IsSubscribed(postID) {
		t.Error("unsubscribe not applied")
	}

	client.handleEvent(&Event{Type: "post.explode"})
	evt := receive(t, client)
	var perr ErrorPayload
	if err := json.Unmarshal(evt.Payload, &perr); err != nil {
		t.Fatal(err)
	}
	if evt.Type != EventTypeError || perr.Code != "UNKNOWN_EVENT" {
		t.Errorf("unknown event answered with %+v / %+v", evt, perr)
	}

	client.handleEvent(&Event{Type: EventTypePostSubscribe, Payload: json.RawMessage(`{"post_id":"nope"}`)})
	if evt := receive(t, client); evt.Type != EventTypeError {
		t.Errorf("bad payload answered with %q", evt.Type)
	}
}
