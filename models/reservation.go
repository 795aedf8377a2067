package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Reservation is a booking held by exactly one customer.
type Reservation struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CustomerID uint      `gorm:"not null;index" json:"customer_id"`
	Customer   *Customer `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	NumGuests  int       `gorm:"not null" json:"num_guests"`
	StartAt    time.Time `gorm:"not null;index" json:"start_at"`
	Notes      string    `gorm:"type:text;not null" json:"notes"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

// startAtLayouts are the inputs accepted by ParseStartAt, tried in order.
var startAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02 3:04 pm",
}

// NewReservation builds a transient reservation and reports the first
// invalid field.
func NewReservation(customerID uint, numGuests int, startAt time.Time, notes string) (*Reservation, error) {
	if customerID == 0 {
		return nil, ErrMissingCustomer
	}
	r := &Reservation{}
	if err := r.SetCustomerID(customerID); err != nil {
		return nil, err
	}
	if err := r.SetNumGuests(numGuests); err != nil {
		return nil, err
	}
	if err := r.SetStartAt(startAt); err != nil {
		return nil, err
	}
	r.SetNotes(notes)
	return r, nil
}

// SetCustomerID assigns the owning customer. Once a non-zero id is set,
// assigning a different value fails; re-assigning the same id is allowed.
func (r *Reservation) SetCustomerID(id uint) error {
	if r.CustomerID != 0 && r.CustomerID != id {
		return ErrCustomerIDImmutable
	}
	r.CustomerID = id
	return nil
}

func (r *Reservation) SetNumGuests(n int) error {
	if n < 1 {
		return ErrInvalidGuestCount
	}
	r.NumGuests = n
	return nil
}

func (r *Reservation) SetStartAt(t time.Time) error {
	if t.IsZero() {
		return ErrInvalidStartAt
	}
	r.StartAt = t
	return nil
}

func (r *Reservation) SetNotes(notes string) {
	r.Notes = notes
}

func (r *Reservation) IsPersisted() bool {
	return r.ID != 0
}

// Validate checks the invariants a stored reservation must hold.
func (r *Reservation) Validate() error {
	if r.CustomerID == 0 {
		return ErrMissingCustomer
	}
	if r.NumGuests < 1 {
		return ErrInvalidGuestCount
	}
	if r.StartAt.IsZero() {
		return ErrInvalidStartAt
	}
	return nil
}

func (r *Reservation) BeforeSave(tx *gorm.DB) error {
	return r.Validate()
}

// FormattedStartAt renders the start time as "January 1st 2024, 6:00 pm".
func (r *Reservation) FormattedStartAt() string {
	if r.StartAt.IsZero() {
		return ""
	}
	t := r.StartAt
	return fmt.Sprintf("%s %d%s %d, %s",
		t.Month(), t.Day(), ordinalSuffix(t.Day()), t.Year(),
		strings.ToLower(t.Format("3:04 PM")))
}

// ParseStartAt parses a start time from request input.
func ParseStartAt(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidStartAt
	}
	for _, layout := range startAtLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidStartAt, s)
}

func ordinalSuffix(day int) string {
	if day%100 >= 11 && day%100 <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}
