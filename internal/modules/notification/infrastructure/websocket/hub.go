package websocket

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

type UnicastMessage struct {
	UserID  uuid.UUID
	Message []byte
}

// Hub keeps the registry of live connections, grouped by the user id each
// connection authenticated as. A connection only ever belongs to its own
// user's set, so cross-user delivery is structurally impossible.
type Hub struct {
	// Registered clients, keyed by authenticated user.
	clients map[uuid.UUID]map[*Client]bool

	// Unicast messages bound for every live connection of one user.
	unicast chan UnicastMessage

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Channel to signal termination
	stop     chan struct{}
	stopOnce sync.Once
}

func NewHub() *Hub {
	return &Hub{
		unicast:    make(chan UnicastMessage),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID]map[*Client]bool),
		stop:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			set := h.clients[client.userID]
			if set == nil {
				set = make(map[*Client]bool)
				h.clients[client.userID] = set
			}
			set[client] = true
			log.Printf("[Notification Hub] Client registered: %v (user: %s)", client.addr(), client.userID)
		case client := <-h.unregister:
			if set, ok := h.clients[client.userID]; ok && set[client] {
				delete(set, client)
				if len(set) == 0 {
					delete(h.clients, client.userID)
				}
				close(client.send)
				log.Printf("[Notification Hub] Client unregistered: %v (user: %s)", client.addr(), client.userID)
			}
		case msg := <-h.unicast:
			set := h.clients[msg.UserID]
			for client := range set {
				select {
				case client.send <- msg.Message:
				default:
					// Slow consumer: drop the connection rather than block
					// delivery to the user's other connections.
					delete(set, client)
					if len(set) == 0 {
						delete(h.clients, msg.UserID)
					}
					close(client.send)
				}
			}
		case <-h.stop:
			log.Println("[Notification Hub] Stopping hub")
			for userID, set := range h.clients {
				for client := range set {
					close(client.send)
				}
				delete(h.clients, userID)
			}
			return
		}
	}
}

// SendToUser delivers message to every live connection of userID,
// best-effort, at most once per connection.
func (h *Hub) SendToUser(userID uuid.UUID, message []byte) {
	select {
	case h.unicast <- UnicastMessage{UserID: userID, Message: message}:
	case <-h.stop:
	}
}

func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.stop)
	})
}
