package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/reservation-app/feed"
	"github.com/yeremiapane/reservation-app/repository"
	"github.com/yeremiapane/reservation-app/utils"
)

// SnapshotSize caps the upcoming reservations sent to a new feed client.
const SnapshotSize = 50

type FeedController struct {
	Reservations repository.ReservationRepository
	Hub          *feed.Hub
	upgrader     websocket.Upgrader
}

// NewFeedController accepts websocket upgrades from allowedOrigin, from
// any origin when it is "*", and from clients that send no Origin.
func NewFeedController(reservations repository.ReservationRepository, hub *feed.Hub, allowedOrigin string) *FeedController {
	return &FeedController{
		Reservations: reservations,
		Hub:          hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowedOrigin == "*" || origin == allowedOrigin
			},
		},
	}
}

// FeedHandler -> websocket endpoint streaming reservation changes
func (fc *FeedController) FeedHandler(c *gin.Context) {
	upcoming, err := fc.Reservations.Upcoming(c.Request.Context(), time.Now(), SnapshotSize)
	if err != nil {
		respondRepoError(c, err)
		return
	}

	ws, err := fc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("Websocket upgrade failed: %v", err)
		return
	}

	snapshot := &feed.Message{Event: feed.EventReservationSnapshot, Data: reservationPayloads(upcoming)}
	if err := fc.Hub.Register(ws, snapshot); err != nil {
		utils.ErrorLogger.Printf("Error sending snapshot: %v", err)
		ws.Close()
		return
	}

	// Clients only listen; reading detects the disconnect.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	fc.Hub.Unregister(ws)
}
