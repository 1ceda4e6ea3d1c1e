package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/wanderio/travel-server/internal/models"
)

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// GetDB returns the underlying database connection
func (r *PostgresRepository) GetDB() *sqlx.DB {
	return r.db
}

// Inventory lookup methods
func (r *PostgresRepository) SelectAirports(ctx context.Context, query string, args []interface{}) ([]models.Airport, error) {
	var rows []models.Airport
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) SelectAirportCodes(ctx context.Context, query string, args []interface{}) ([]models.AirportCode, error) {
	var rows []models.AirportCode
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) SelectFlights(ctx context.Context, query string, args []interface{}) ([]models.Flight, error) {
	var rows []models.Flight
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) SelectHotels(ctx context.Context, query string, args []interface{}) ([]models.Hotel, error) {
	var rows []models.Hotel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) SelectUsers(ctx context.Context, query string, args []interface{}) ([]models.User, error) {
	var rows []models.User
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// Tenant user repository methods
func (r *PostgresRepository) GetTenantUser(ctx context.Context, tenant, username string) (*models.TenantUser, error) {
	query := `
		SELECT tenant, name, password, flights, version, expires_at
		FROM tenant_users
		WHERE tenant = $1 AND name = $2
		AND (expires_at IS NULL OR expires_at > NOW())
	`

	var user models.TenantUser
	err := r.db.GetContext(ctx, &user, query, tenant, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &user, nil
}

func (r *PostgresRepository) CreateTenantUser(ctx context.Context, user *models.TenantUser, expiry time.Duration) error {
	if expiry > 0 {
		expiresAt := time.Now().UTC().Add(expiry)
		user.ExpiresAt = &expiresAt
	}

	// Create-if-absent, not read-then-write: the unique key decides races.
	query := `
		INSERT INTO tenant_users (tenant, name, password, flights, version, expires_at)
		VALUES ($1, $2, $3, $4, 0, $5)
		ON CONFLICT (tenant, name) DO NOTHING
	`

	res, err := r.db.ExecContext(ctx, query,
		user.Tenant, user.Name, user.Password, pq.StringArray(user.Flights), user.ExpiresAt)
	if err != nil {
		return err
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if inserted == 0 {
		return ErrAlreadyExists
	}

	return nil
}

func (r *PostgresRepository) UpdateTenantUserFlights(ctx context.Context, tenant, username string, flights []string, version int64) error {
	query := `
		UPDATE tenant_users
		SET flights = $1, version = version + 1
		WHERE tenant = $2 AND name = $3 AND version = $4
	`

	res, err := r.db.ExecContext(ctx, query, pq.StringArray(flights), tenant, username, version)
	if err != nil {
		return err
	}

	updated, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if updated == 0 {
		return ErrVersionConflict
	}

	return nil
}

// Booking repository methods
func (r *PostgresRepository) CreateBooking(ctx context.Context, tenant, id string, booking *models.Booking) error {
	query := `INSERT INTO bookings (tenant, id, data) VALUES ($1, $2, $3)`

	_, err := r.db.ExecContext(ctx, query, tenant, id, booking)
	return err
}

func (r *PostgresRepository) GetBooking(ctx context.Context, tenant, id string) (*models.Booking, error) {
	query := `SELECT data FROM bookings WHERE tenant = $1 AND id = $2`

	var booking models.Booking
	err := r.db.GetContext(ctx, &booking, query, tenant, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &booking, nil
}

// Legacy user repository methods
func (r *PostgresRepository) SaveUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, address, preferences, security_roles)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			preferences = EXCLUDED.preferences,
			security_roles = EXCLUDED.security_roles
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Address, user.Preferences, user.SecurityRoles)
	return err
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT id, name, address, preferences, security_roles FROM users WHERE id = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &user, nil
}
