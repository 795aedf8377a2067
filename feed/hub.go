package feed

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/utils"
)

// Event types
const (
	EventCustomerCreate      = "customer_create"
	EventCustomerUpdate      = "customer_update"
	EventReservationCreate   = "reservation_create"
	EventReservationUpdate   = "reservation_update"
	EventReservationSnapshot = "reservation_snapshot"
)

const writeWait = 5 * time.Second

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// ReservationPayload is a reservation plus its display time.
type ReservationPayload struct {
	models.Reservation
	FormattedStartAt string `json:"formatted_start_at"`
}

func NewReservationPayload(r models.Reservation) ReservationPayload {
	return ReservationPayload{Reservation: r, FormattedStartAt: r.FormattedStartAt()}
}

// Hub fans messages out to every connected feed client. A nil *Hub
// ignores all calls so handlers can run without a feed.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> remote address
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]string)}
}

// Register adds a client and sends it the snapshot before any broadcast
// can reach it.
func (h *Hub) Register(conn *websocket.Conn, snapshot *Message) error {
	if h == nil {
		return nil
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if snapshot != nil {
		data, err := json.Marshal(snapshot)
		if err != nil {
			return err
		}
		if err := write(conn, data); err != nil {
			return err
		}
	}
	h.clients[conn] = conn.RemoteAddr().String()
	return nil
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	if h == nil {
		return
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.remove(conn)
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

func (h *Hub) BroadcastCustomer(event string, c models.Customer) {
	h.Broadcast(Message{Event: event, Data: c})
}

func (h *Hub) BroadcastReservation(event string, r models.Reservation) {
	h.Broadcast(Message{Event: event, Data: NewReservationPayload(r)})
}

// Broadcast sends msg to all clients; a client whose write fails is dropped.
func (h *Hub) Broadcast(msg Message) {
	if h == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling message: %v", err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	utils.InfoLogger.WithFields(logrus.Fields{
		"event":   msg.Event,
		"clients": len(h.clients),
	}).Debug("Broadcasting feed message")

	for conn, addr := range h.clients {
		if err := write(conn, data); err != nil {
			utils.ErrorLogger.WithField("client", addr).Errorf("Error sending message to client: %v", err)
			h.remove(conn)
		}
	}
}

// remove must be called with the mutex held.
func (h *Hub) remove(conn *websocket.Conn) {
	if _, ok := h.clients[conn]; !ok {
		return
	}
	delete(h.clients, conn)
	conn.Close()
}

func write(conn *websocket.Conn, data []byte) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}
