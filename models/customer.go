package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer is a person who can hold reservations.
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FirstName string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName  string    `gorm:"type:varchar(100);not null;index" json:"last_name"`
	Phone     *string   `gorm:"type:varchar(50)" json:"phone"`
	Notes     string    `gorm:"type:text;not null" json:"notes"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// NewCustomer builds a transient customer; phone and notes go through
// their setters so empty values are normalized.
func NewCustomer(firstName, lastName, phone, notes string) *Customer {
	c := &Customer{FirstName: firstName, LastName: lastName}
	c.SetPhone(phone)
	c.SetNotes(notes)
	return c
}

func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// SetPhone stores nil for an empty number.
func (c *Customer) SetPhone(phone string) {
	if phone == "" {
		c.Phone = nil
		return
	}
	c.Phone = &phone
}

func (c *Customer) SetNotes(notes string) {
	c.Notes = notes
}

func (c *Customer) IsPersisted() bool {
	return c.ID != 0
}

// BeforeSave keeps an empty phone stored as NULL even when the field was
// assigned directly.
func (c *Customer) BeforeSave(tx *gorm.DB) error {
	if c.Phone != nil && *c.Phone == "" {
		c.Phone = nil
	}
	return nil
}

// BestCustomer is a customer row annotated with its reservation count.
type BestCustomer struct {
	Customer
	ReservationCount int64 `json:"reservation_count"`
}
