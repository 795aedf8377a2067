package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/feed"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/repository"
	"github.com/yeremiapane/reservation-app/utils"
)

type ReservationController struct {
	Customers    repository.CustomerRepository
	Reservations repository.ReservationRepository
	Hub          *feed.Hub
}

func NewReservationController(customers repository.CustomerRepository, reservations repository.ReservationRepository, hub *feed.Hub) *ReservationController {
	return &ReservationController{Customers: customers, Reservations: reservations, Hub: hub}
}

// start_at accepts anything models.ParseStartAt understands.
type reservationRequest struct {
	CustomerID *uint  `json:"customer_id"`
	NumGuests  *int   `json:"num_guests" binding:"required"`
	StartAt    string `json:"start_at" binding:"required"`
	Notes      string `json:"notes"`
}

// GetCustomerReservations -> reservations held by one customer
func (rc *ReservationController) GetCustomerReservations(c *gin.Context) {
	id, ok := paramID(c, "customer_id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	customer, err := rc.Customers.GetByID(ctx, id)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	reservations, err := rc.Customers.Reservations(ctx, customer)
	if err != nil {
		respondRepoError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of reservations", reservationPayloads(reservations))
}

// CreateReservation books a table for the customer in the path.
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	customerID, ok := paramID(c, "customer_id")
	if !ok {
		return
	}

	var req reservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.CustomerID != nil && *req.CustomerID != customerID {
		utils.RespondError(c, http.StatusBadRequest, models.ErrCustomerIDImmutable)
		return
	}

	ctx := c.Request.Context()
	if _, err := rc.Customers.GetByID(ctx, customerID); err != nil {
		respondRepoError(c, err)
		return
	}

	startAt, err := models.ParseStartAt(req.StartAt)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	reservation, err := models.NewReservation(customerID, *req.NumGuests, startAt, req.Notes)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	if err := rc.Reservations.Create(ctx, reservation); err != nil {
		respondRepoError(c, err)
		return
	}

	utils.InfoLogger.Printf("New reservation created (ID=%d) for CustomerID=%d", reservation.ID, customerID)
	rc.Hub.BroadcastReservation(feed.EventReservationCreate, *reservation)

	utils.RespondJSON(c, http.StatusCreated, "Reservation created", feed.NewReservationPayload(*reservation))
}

func (rc *ReservationController) GetReservationByID(c *gin.Context) {
	id, ok := paramID(c, "reservation_id")
	if !ok {
		return
	}

	reservation, err := rc.Reservations.GetByID(c.Request.Context(), id)
	if err != nil {
		respondRepoError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Reservation detail", feed.NewReservationPayload(*reservation))
}

// UpdateReservation replaces guests, start time and notes. A customer_id
// in the body must match the stored owner.
func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	id, ok := paramID(c, "reservation_id")
	if !ok {
		return
	}

	var req reservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	ctx := c.Request.Context()
	reservation, err := rc.Reservations.GetByID(ctx, id)
	if err != nil {
		respondRepoError(c, err)
		return
	}

	if req.CustomerID != nil {
		if err := reservation.SetCustomerID(*req.CustomerID); err != nil {
			respondRepoError(c, err)
			return
		}
	}
	if err := reservation.SetNumGuests(*req.NumGuests); err != nil {
		respondRepoError(c, err)
		return
	}
	startAt, err := models.ParseStartAt(req.StartAt)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	if err := reservation.SetStartAt(startAt); err != nil {
		respondRepoError(c, err)
		return
	}
	reservation.SetNotes(req.Notes)

	if err := rc.Reservations.Update(ctx, reservation); err != nil {
		respondRepoError(c, err)
		return
	}

	utils.InfoLogger.Printf("Reservation updated (ID=%d)", reservation.ID)
	rc.Hub.BroadcastReservation(feed.EventReservationUpdate, *reservation)

	utils.RespondJSON(c, http.StatusOK, "Reservation updated", feed.NewReservationPayload(*reservation))
}

// GetUpcomingReservations -> reservations from now on, soonest first.
// ?limit= caps the result; omitted means all.
func (rc *ReservationController) GetUpcomingReservations(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			utils.RespondError(c, http.StatusBadRequest, &CustomError{"limit must be a positive integer"})
			return
		}
		limit = n
	}

	reservations, err := rc.Reservations.Upcoming(c.Request.Context(), time.Now(), limit)
	if err != nil {
		respondRepoError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Upcoming reservations", reservationPayloads(reservations))
}
