package Controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/reservation-app/feed"
	"github.com/yeremiapane/reservation-app/models"
)

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := models.ParseStartAt(s)
	require.NoError(t, err)
	return ts
}

func reservationURL(id uint) string {
	return "/reservations/" + strconv.FormatUint(uint64(id), 10)
}

func TestCreateReservation(t *testing.T) {
	env := setupTestEnv(t)
	c := env.seedCustomer(t, "Ann", "Lee", "")

	w, resp := env.do(t, "POST", customerURL(c.ID)+"/reservations", map[string]interface{}{
		"num_guests": 4,
		"start_at":   "2030-02-14 7:30 pm",
		"notes":      "Anniversary",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Reservation created", resp.Message)

	var created feed.ReservationPayload
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, c.ID, created.CustomerID)
	assert.Equal(t, 4, created.NumGuests)
	assert.Equal(t, "February 14th 2030, 7:30 pm", created.FormattedStartAt)

	stored, err := env.reservations.ForCustomer(context.Background(), c.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Anniversary", stored[0].Notes)
}

func TestCreateReservationRejectsInvalidInput(t *testing.T) {
	env := setupTestEnv(t)
	c := env.seedCustomer(t, "Ann", "Lee", "")
	url := customerURL(c.ID) + "/reservations"

	tests := []struct {
		name string
		url  string
		body map[string]interface{}
		code int
	}{
		{name: "negative guests", url: url, body: map[string]interface{}{"num_guests": -1, "start_at": "2030-01-01 18:00"}, code: http.StatusBadRequest},
		{name: "missing guests", url: url, body: map[string]interface{}{"start_at": "2030-01-01 18:00"}, code: http.StatusBadRequest},
		{name: "bad start", url: url, body: map[string]interface{}{"num_guests": 2, "start_at": "tomorrow"}, code: http.StatusBadRequest},
		{name: "other customer in body", url: url, body: map[string]interface{}{"customer_id": c.ID + 1, "num_guests": 2, "start_at": "2030-01-01 18:00"}, code: http.StatusBadRequest},
		{name: "unknown customer", url: "/customers/999/reservations", body: map[string]interface{}{"num_guests": 2, "start_at": "2030-01-01 18:00"}, code: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := env.do(t, "POST", tt.url, tt.body)
			assert.Equal(t, tt.code, w.Code)
			assert.False(t, resp.Status)
		})
	}

	stored, err := env.reservations.ForCustomer(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestZeroGuestsReportsGuestCount(t *testing.T) {
	env := setupTestEnv(t)
	c := env.seedCustomer(t, "Ann", "Lee", "")

	w, resp := env.do(t, "POST", customerURL(c.ID)+"/reservations", map[string]interface{}{
		"num_guests": 0,
		"start_at":   "2030-01-01 18:00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.ErrInvalidGuestCount.Error(), resp.Message)

	r, err := models.NewReservation(c.ID, 2, mustParse(t, "2030-01-01 18:00"), "")
	require.NoError(t, err)
	require.NoError(t, env.reservations.Create(context.Background(), r))

	w, resp = env.do(t, "PUT", reservationURL(r.ID), map[string]interface{}{
		"num_guests": 0,
		"start_at":   "2030-01-01 18:00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.ErrInvalidGuestCount.Error(), resp.Message)
}

func TestGetCustomerReservations(t *testing.T) {
	env := setupTestEnv(t)
	ann := env.seedCustomer(t, "Ann", "Lee", "")
	bob := env.seedCustomer(t, "Bob", "Stone", "")

	for _, id := range []uint{ann.ID, bob.ID, ann.ID} {
		r, err := models.NewReservation(id, 2, mustParse(t, "2030-01-01 18:00"), "")
		require.NoError(t, err)
		require.NoError(t, env.reservations.Create(context.Background(), r))
	}

	w, resp := env.do(t, "GET", customerURL(ann.ID)+"/reservations", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var list []feed.ReservationPayload
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	require.Len(t, list, 2)
	for _, r := range list {
		assert.Equal(t, ann.ID, r.CustomerID)
	}

	w, _ = env.do(t, "GET", "/customers/999/reservations", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateReservation(t *testing.T) {
	env := setupTestEnv(t)
	c := env.seedCustomer(t, "Ann", "Lee", "")
	r, err := models.NewReservation(c.ID, 2, mustParse(t, "2030-01-01 18:00"), "")
	require.NoError(t, err)
	require.NoError(t, env.reservations.Create(context.Background(), r))

	w, resp := env.do(t, "PUT", reservationURL(r.ID), map[string]interface{}{
		"customer_id": c.ID,
		"num_guests":  6,
		"start_at":    "2030-01-02T20:00",
		"notes":       "Birthday",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	var updated feed.ReservationPayload
	require.NoError(t, json.Unmarshal(resp.Data, &updated))
	assert.Equal(t, r.ID, updated.ID)
	assert.Equal(t, "January 2nd 2030, 8:00 pm", updated.FormattedStartAt)

	stored, err := env.reservations.GetByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, stored.NumGuests)
	assert.Equal(t, "Birthday", stored.Notes)

	// owner cannot change
	w, resp = env.do(t, "PUT", reservationURL(r.ID), map[string]interface{}{
		"customer_id": c.ID + 1,
		"num_guests":  2,
		"start_at":    "2030-01-02T20:00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.ErrCustomerIDImmutable.Error(), resp.Message)

	w, _ = env.do(t, "PUT", "/reservations/999", map[string]interface{}{"num_guests": 2, "start_at": "2030-01-02T20:00"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetReservationByID(t *testing.T) {
	env := setupTestEnv(t)
	c := env.seedCustomer(t, "Ann", "Lee", "")
	r, err := models.NewReservation(c.ID, 3, mustParse(t, "2030-03-03 12:15"), "")
	require.NoError(t, err)
	require.NoError(t, env.reservations.Create(context.Background(), r))

	w, resp := env.do(t, "GET", reservationURL(r.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var got feed.ReservationPayload
	require.NoError(t, json.Unmarshal(resp.Data, &got))
	assert.Equal(t, "March 3rd 2030, 12:15 pm", got.FormattedStartAt)

	w, resp = env.do(t, "GET", "/reservations/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "no such reservation: 999", resp.Message)
}

func TestGetUpcomingReservations(t *testing.T) {
	env := setupTestEnv(t)
	c := env.seedCustomer(t, "Ann", "Lee", "")

	now := time.Now()
	for _, start := range []time.Time{now.Add(-24 * time.Hour), now.Add(48 * time.Hour), now.Add(24 * time.Hour)} {
		r, err := models.NewReservation(c.ID, 2, start, "")
		require.NoError(t, err)
		require.NoError(t, env.reservations.Create(context.Background(), r))
	}

	w, resp := env.do(t, "GET", "/reservations/upcoming", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var list []feed.ReservationPayload
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	require.Len(t, list, 2)
	assert.True(t, list[0].StartAt.Before(list[1].StartAt))

	w, resp = env.do(t, "GET", "/reservations/upcoming?limit=1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	assert.Len(t, list, 1)
}
