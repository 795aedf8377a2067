package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yeremiapane/reservation-app/models"
	"gorm.io/gorm"
)

type ReservationRepository interface {
	ForCustomer(ctx context.Context, customerID uint) ([]models.Reservation, error)
	GetByID(ctx context.Context, id uint) (*models.Reservation, error)
	Upcoming(ctx context.Context, from time.Time, limit int) ([]models.Reservation, error)
	Create(ctx context.Context, r *models.Reservation) error
	Update(ctx context.Context, r *models.Reservation) error
	Save(ctx context.Context, r *models.Reservation) error
}

type ReservationRepositoryImpl struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepositoryImpl {
	return &ReservationRepositoryImpl{db: db}
}

// ForCustomer returns every reservation held by the customer in id order.
func (r *ReservationRepositoryImpl) ForCustomer(ctx context.Context, customerID uint) ([]models.Reservation, error) {
	reservations := []models.Reservation{}
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("id").
		Find(&reservations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations for customer %d: %w", customerID, err)
	}
	return reservations, nil
}

func (r *ReservationRepositoryImpl) GetByID(ctx context.Context, id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&reservation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFound("reservation", id)
		}
		return nil, fmt.Errorf("failed to get reservation %d: %w", id, err)
	}
	return &reservation, nil
}

// Upcoming returns reservations starting at or after from, soonest first.
// A limit <= 0 returns all of them.
func (r *ReservationRepositoryImpl) Upcoming(ctx context.Context, from time.Time, limit int) ([]models.Reservation, error) {
	if limit <= 0 {
		limit = -1
	}
	reservations := []models.Reservation{}
	err := r.db.WithContext(ctx).
		Where("start_at >= ?", from).
		Order("start_at, id").
		Limit(limit).
		Find(&reservations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming reservations: %w", err)
	}
	return reservations, nil
}

// Create inserts a transient reservation and assigns its generated id.
func (r *ReservationRepositoryImpl) Create(ctx context.Context, reservation *models.Reservation) error {
	if reservation.IsPersisted() {
		return models.ErrAlreadyPersisted
	}
	if err := reservation.Validate(); err != nil {
		return err
	}
	if err := r.customerExists(ctx, reservation.CustomerID); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Omit("Customer").Create(reservation).Error; err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}
	return nil
}

// Update writes every mutable column of a persisted reservation.
func (r *ReservationRepositoryImpl) Update(ctx context.Context, reservation *models.Reservation) error {
	if !reservation.IsPersisted() {
		return models.ErrNotPersisted
	}
	if err := reservation.Validate(); err != nil {
		return err
	}

	// The owner is fixed once stored, even if CustomerID was assigned directly.
	var stored models.Reservation
	err := r.db.WithContext(ctx).Select("customer_id").Where("id = ?", reservation.ID).First(&stored).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFound("reservation", reservation.ID)
		}
		return fmt.Errorf("failed to get reservation %d: %w", reservation.ID, err)
	}
	if stored.CustomerID != reservation.CustomerID {
		return models.ErrCustomerIDImmutable
	}

	result := r.db.WithContext(ctx).
		Model(reservation).
		Select("customer_id", "num_guests", "start_at", "notes", "updated_at").
		Updates(reservation)
	if result.Error != nil {
		return fmt.Errorf("failed to update reservation %d: %w", reservation.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFound("reservation", reservation.ID)
	}
	return nil
}

func (r *ReservationRepositoryImpl) Save(ctx context.Context, reservation *models.Reservation) error {
	if reservation.IsPersisted() {
		return r.Update(ctx, reservation)
	}
	return r.Create(ctx, reservation)
}

func (r *ReservationRepositoryImpl) customerExists(ctx context.Context, customerID uint) error {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", customerID).Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check customer %d: %w", customerID, err)
	}
	if count == 0 {
		return models.NewNotFound("customer", customerID)
	}
	return nil
}

var _ ReservationRepository = (*ReservationRepositoryImpl)(nil)
