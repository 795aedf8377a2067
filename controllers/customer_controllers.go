package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/feed"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/repository"
	"github.com/yeremiapane/reservation-app/utils"
)

type CustomerController struct {
	Customers repository.CustomerRepository
	Hub       *feed.Hub
}

func NewCustomerController(customers repository.CustomerRepository, hub *feed.Hub) *CustomerController {
	return &CustomerController{Customers: customers, Hub: hub}
}

type customerRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
	Phone     string `json:"phone" binding:"max=50"`
	Notes     string `json:"notes"`
}

// CustomerDetail is a customer with the reservations it holds.
type CustomerDetail struct {
	Customer     models.Customer           `json:"customer"`
	Reservations []feed.ReservationPayload `json:"reservations"`
}

// GetAllCustomers -> every customer, or those matching ?search=
func (cc *CustomerController) GetAllCustomers(c *gin.Context) {
	customers, err := cc.Customers.Search(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondRepoError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of customers", customers)
}

// GetBestCustomers -> customers ranked by reservation count
func (cc *CustomerController) GetBestCustomers(c *gin.Context) {
	limit := repository.BestCustomersLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			utils.RespondError(c, http.StatusBadRequest, &CustomError{"limit must be a positive integer"})
			return
		}
		limit = n
	}

	best, err := cc.Customers.BestCustomers(c.Request.Context(), limit)
	if err != nil {
		respondRepoError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Best customers", best)
}

func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	customer := models.NewCustomer(req.FirstName, req.LastName, req.Phone, req.Notes)
	if err := cc.Customers.Create(c.Request.Context(), customer); err != nil {
		respondRepoError(c, err)
		return
	}

	utils.InfoLogger.Printf("New customer created (ID=%d)", customer.ID)
	cc.Hub.BroadcastCustomer(feed.EventCustomerCreate, *customer)

	utils.RespondJSON(c, http.StatusCreated, "Customer created", customer)
}

// GetCustomerByID -> customer detail with its reservations
func (cc *CustomerController) GetCustomerByID(c *gin.Context) {
	id, ok := paramID(c, "customer_id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	customer, err := cc.Customers.GetByID(ctx, id)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	reservations, err := cc.Customers.Reservations(ctx, customer)
	if err != nil {
		respondRepoError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Customer detail", CustomerDetail{
		Customer:     *customer,
		Reservations: reservationPayloads(reservations),
	})
}

// UpdateCustomer replaces every editable field of the customer.
func (cc *CustomerController) UpdateCustomer(c *gin.Context) {
	id, ok := paramID(c, "customer_id")
	if !ok {
		return
	}

	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	ctx := c.Request.Context()
	customer, err := cc.Customers.GetByID(ctx, id)
	if err != nil {
		respondRepoError(c, err)
		return
	}

	customer.FirstName = req.FirstName
	customer.LastName = req.LastName
	customer.SetPhone(req.Phone)
	customer.SetNotes(req.Notes)
	if err := cc.Customers.Update(ctx, customer); err != nil {
		respondRepoError(c, err)
		return
	}

	utils.InfoLogger.Printf("Customer updated (ID=%d)", customer.ID)
	cc.Hub.BroadcastCustomer(feed.EventCustomerUpdate, *customer)

	utils.RespondJSON(c, http.StatusOK, "Customer updated", customer)
}

func reservationPayloads(reservations []models.Reservation) []feed.ReservationPayload {
	payloads := make([]feed.ReservationPayload, 0, len(reservations))
	for _, r := range reservations {
		payloads = append(payloads, feed.NewReservationPayload(r))
	}
	return payloads
}
