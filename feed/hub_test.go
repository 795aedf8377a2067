package feed

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

// startHubServer serves a websocket endpoint that registers every
// connection on hub with the given snapshot.
func startHubServer(t *testing.T, hub *Hub, snapshot *Message) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		if err := hub.Register(conn, snapshot); err != nil {
			conn.Close()
			return
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		hub.Unregister(conn)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHubSnapshotThenBroadcast(t *testing.T) {
	hub := NewHub()
	url := startHubServer(t, hub, &Message{Event: EventReservationSnapshot, Data: []string{}})

	a := dial(t, url)
	b := dial(t, url)
	assert.Equal(t, EventReservationSnapshot, readMessage(t, a).Event)
	assert.Equal(t, EventReservationSnapshot, readMessage(t, b).Event)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, 2*time.Second, 10*time.Millisecond)

	start := time.Date(2024, time.January, 1, 18, 0, 0, 0, time.UTC)
	hub.BroadcastReservation(EventReservationCreate, models.Reservation{ID: 7, CustomerID: 5, NumGuests: 2, StartAt: start})

	for _, conn := range []*websocket.Conn{a, b} {
		msg := readMessage(t, conn)
		assert.Equal(t, EventReservationCreate, msg.Event)
		data := msg.Data.(map[string]interface{})
		assert.Equal(t, float64(7), data["id"])
		assert.Equal(t, "January 1st 2024, 6:00 pm", data["formatted_start_at"])
	}
}

func TestHubDropsClosedClients(t *testing.T) {
	hub := NewHub()
	url := startHubServer(t, hub, nil)

	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)

	hub.BroadcastCustomer(EventCustomerUpdate, models.Customer{ID: 1})
	assert.Equal(t, 0, hub.ClientCount())
}

func TestNilHubIsNoop(t *testing.T) {
	var hub *Hub
	assert.NotPanics(t, func() {
		hub.Broadcast(Message{Event: EventCustomerCreate})
		hub.Unregister(nil)
		assert.NoError(t, hub.Register(nil, nil))
		assert.Equal(t, 0, hub.ClientCount())
	})
}
