package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yeremiapane/reservation-app/models"
	"gorm.io/gorm"
)

// BestCustomersLimit is the default size of the best customers ranking.
const BestCustomersLimit = 10

const customerColumns = "customers.id, customers.first_name, customers.last_name, customers.phone, customers.notes, customers.created_at, customers.updated_at"

// likeEscaper escapes LIKE wildcards with '!', which needs no quoting in
// either MySQL or SQLite string literals.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

type CustomerRepository interface {
	All(ctx context.Context) ([]models.Customer, error)
	Search(ctx context.Context, name string) ([]models.Customer, error)
	GetByID(ctx context.Context, id uint) (*models.Customer, error)
	BestCustomers(ctx context.Context, limit int) ([]models.BestCustomer, error)
	Reservations(ctx context.Context, customer *models.Customer) ([]models.Reservation, error)
	Create(ctx context.Context, c *models.Customer) error
	Update(ctx context.Context, c *models.Customer) error
	Save(ctx context.Context, c *models.Customer) error
}

type CustomerRepositoryImpl struct {
	db           *gorm.DB
	reservations ReservationRepository
}

func NewCustomerRepository(db *gorm.DB, reservations ReservationRepository) *CustomerRepositoryImpl {
	return &CustomerRepositoryImpl{db: db, reservations: reservations}
}

// All returns every customer ordered by last name, then first name.
func (r *CustomerRepositoryImpl) All(ctx context.Context) ([]models.Customer, error) {
	customers := []models.Customer{}
	err := r.db.WithContext(ctx).
		Order("last_name, first_name").
		Find(&customers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// Search returns customers whose first or last name contains name,
// ignoring case. Both sides go through the database's LOWER, so a name
// always matches itself as typed. A blank name returns every customer.
func (r *CustomerRepositoryImpl) Search(ctx context.Context, name string) ([]models.Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return r.All(ctx)
	}

	pattern := "%" + likeEscaper.Replace(name) + "%"
	customers := []models.Customer{}
	err := r.db.WithContext(ctx).
		Where("LOWER(first_name) LIKE LOWER(?) ESCAPE '!' OR LOWER(last_name) LIKE LOWER(?) ESCAPE '!'", pattern, pattern).
		Order("last_name, first_name").
		Find(&customers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search customers for %q: %w", name, err)
	}
	return customers, nil
}

func (r *CustomerRepositoryImpl) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFound("customer", id)
		}
		return nil, fmt.Errorf("failed to get customer %d: %w", id, err)
	}
	return &customer, nil
}

// BestCustomers ranks customers by how many reservations they hold.
// Customers without reservations are not ranked.
func (r *CustomerRepositoryImpl) BestCustomers(ctx context.Context, limit int) ([]models.BestCustomer, error) {
	if limit <= 0 {
		limit = BestCustomersLimit
	}

	best := []models.BestCustomer{}
	err := r.db.WithContext(ctx).
		Table("customers").
		Select(customerColumns + ", COUNT(reservations.id) AS reservation_count").
		Joins("JOIN reservations ON reservations.customer_id = customers.id").
		Group(customerColumns).
		Order("reservation_count DESC, customers.last_name, customers.first_name").
		Limit(limit).
		Scan(&best).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank customers: %w", err)
	}
	return best, nil
}

func (r *CustomerRepositoryImpl) Reservations(ctx context.Context, customer *models.Customer) ([]models.Reservation, error) {
	return r.reservations.ForCustomer(ctx, customer.ID)
}

// Create inserts a transient customer and assigns its generated id.
func (r *CustomerRepositoryImpl) Create(ctx context.Context, customer *models.Customer) error {
	if customer.IsPersisted() {
		return models.ErrAlreadyPersisted
	}
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// Update writes every mutable column of a persisted customer.
func (r *CustomerRepositoryImpl) Update(ctx context.Context, customer *models.Customer) error {
	if !customer.IsPersisted() {
		return models.ErrNotPersisted
	}

	result := r.db.WithContext(ctx).
		Model(customer).
		Select("first_name", "last_name", "phone", "notes", "updated_at").
		Updates(customer)
	if result.Error != nil {
		return fmt.Errorf("failed to update customer %d: %w", customer.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFound("customer", customer.ID)
	}
	return nil
}

func (r *CustomerRepositoryImpl) Save(ctx context.Context, customer *models.Customer) error {
	if customer.IsPersisted() {
		return r.Update(ctx, customer)
	}
	return r.Create(ctx, customer)
}

var _ CustomerRepository = (*CustomerRepositoryImpl)(nil)
