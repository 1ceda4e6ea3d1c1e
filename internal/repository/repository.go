package repository

import (
	"context"
	"errors"
	"time"

	"github.com/wanderio/travel-server/internal/models"
)

var (
	// ErrNotFound signals an absent record.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists signals a create-if-absent collision.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrVersionConflict signals a lost optimistic-concurrency race; the
	// caller should refetch and retry.
	ErrVersionConflict = errors.New("version conflict")
)

// Repository interface defines the methods that any repository implementation must satisfy
type Repository interface {
	// Inventory lookups. Statements are produced by the query package;
	// values arrive as bound parameters only.
	SelectAirports(ctx context.Context, query string, args []interface{}) ([]models.Airport, error)
	SelectAirportCodes(ctx context.Context, query string, args []interface{}) ([]models.AirportCode, error)
	SelectFlights(ctx context.Context, query string, args []interface{}) ([]models.Flight, error)
	SelectHotels(ctx context.Context, query string, args []interface{}) ([]models.Hotel, error)
	SelectUsers(ctx context.Context, query string, args []interface{}) ([]models.User, error)

	// Tenant user documents.
	GetTenantUser(ctx context.Context, tenant, username string) (*models.TenantUser, error)
	CreateTenantUser(ctx context.Context, user *models.TenantUser, expiry time.Duration) error
	UpdateTenantUserFlights(ctx context.Context, tenant, username string, flights []string, version int64) error

	// Booking documents.
	CreateBooking(ctx context.Context, tenant, id string, booking *models.Booking) error
	GetBooking(ctx context.Context, tenant, id string) (*models.Booking, error)

	// Legacy user records.
	SaveUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
