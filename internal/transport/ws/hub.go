package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
)

// Hub manages all active WebSocket clients and fans post events out to subscribers.
type Hub struct {
	// clients holds every live connection; a user may have several.
	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcastMsg
	done       chan struct{}
}

type broadcastMsg struct {
	postID uuid.UUID
	data   []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *broadcastMsg, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the Hub's main event loop and returns when ctx is cancelled.
// Call this in a goroutine.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
			log.Printf("ws hub: user %s connected (%d total)", client.userID, len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				log.Printf("ws hub: user %s disconnected (%d total)", client.userID, len(h.clients))
			}

		case msg := <-h.broadcast:
			for client := range h.clients {
				if !client.IsSubscribed(msg.postID) {
					continue
				}
				if !client.enqueue(msg.data) {
					// Client buffer full - disconnect
					h.drop(client)
				}
			}

		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			log.Println("ws hub: stopped")
			return
		}
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	client.shutdown()
}

// BroadcastToPost sends an event to all subscribers of a post.
func (h *Hub) BroadcastToPost(postID uuid.UUID, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws hub: marshal error: %v", err)
		return
	}
	select {
	case h.broadcast <- &broadcastMsg{postID: postID, data: data}:
	case <-h.done:
	}
}

// Register hands a client to the event loop. It reports false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}
