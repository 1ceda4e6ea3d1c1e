package repository

import (
	"context"
	"sync"
	"time"

	"github.com/wanderio/travel-server/internal/models"
)

// ExecutedQuery records one inventory statement executed against the
// in-memory repository, for assertions in tests.
type ExecutedQuery struct {
	Query string
	Args  []interface{}
}

// MemoryRepository is an in-memory Repository used by tests. Document
// operations behave like the real store, including create-if-absent and
// version-conflict semantics. Inventory Select* methods return the seeded
// fixtures unfiltered and record the statement they were handed; predicate
// construction itself is covered by the query package tests.
type MemoryRepository struct {
	mu sync.Mutex

	tenantUsers map[string]map[string]*models.TenantUser
	bookings    map[string]map[string]*models.Booking
	users       map[string]*models.User

	Airports     []models.Airport
	AirportCodes []models.AirportCode
	Flights      []models.Flight
	Hotels       []models.Hotel
	LegacyUsers  []models.User

	Executed []ExecutedQuery
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		tenantUsers: make(map[string]map[string]*models.TenantUser),
		bookings:    make(map[string]map[string]*models.Booking),
		users:       make(map[string]*models.User),
	}
}

// LastExecuted returns the most recently executed inventory statement.
func (r *MemoryRepository) LastExecuted() ExecutedQuery {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Executed) == 0 {
		return ExecutedQuery{}
	}
	return r.Executed[len(r.Executed)-1]
}

func (r *MemoryRepository) record(query string, args []interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Executed = append(r.Executed, ExecutedQuery{Query: query, Args: args})
}

// Inventory lookup methods
func (r *MemoryRepository) SelectAirports(ctx context.Context, query string, args []interface{}) ([]models.Airport, error) {
	r.record(query, args)
	return append([]models.Airport(nil), r.Airports...), nil
}

func (r *MemoryRepository) SelectAirportCodes(ctx context.Context, query string, args []interface{}) ([]models.AirportCode, error) {
	r.record(query, args)
	return append([]models.AirportCode(nil), r.AirportCodes...), nil
}

func (r *MemoryRepository) SelectFlights(ctx context.Context, query string, args []interface{}) ([]models.Flight, error) {
	r.record(query, args)
	return append([]models.Flight(nil), r.Flights...), nil
}

func (r *MemoryRepository) SelectHotels(ctx context.Context, query string, args []interface{}) ([]models.Hotel, error) {
	r.record(query, args)
	return append([]models.Hotel(nil), r.Hotels...), nil
}

func (r *MemoryRepository) SelectUsers(ctx context.Context, query string, args []interface{}) ([]models.User, error) {
	r.record(query, args)
	return append([]models.User(nil), r.LegacyUsers...), nil
}

// Tenant user repository methods
func (r *MemoryRepository) GetTenantUser(ctx context.Context, tenant, username string) (*models.TenantUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.tenantUsers[tenant][username]
	if !ok {
		return nil, ErrNotFound
	}
	if user.ExpiresAt != nil && !user.ExpiresAt.After(time.Now()) {
		return nil, ErrNotFound
	}

	copied := *user
	copied.Flights = append([]string(nil), user.Flights...)
	return &copied, nil
}

func (r *MemoryRepository) CreateTenantUser(ctx context.Context, user *models.TenantUser, expiry time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if expiry > 0 {
		expiresAt := time.Now().UTC().Add(expiry)
		user.ExpiresAt = &expiresAt
	}

	if r.tenantUsers[user.Tenant] == nil {
		r.tenantUsers[user.Tenant] = make(map[string]*models.TenantUser)
	}
	if _, exists := r.tenantUsers[user.Tenant][user.Name]; exists {
		return ErrAlreadyExists
	}

	stored := *user
	stored.Flights = append([]string(nil), user.Flights...)
	r.tenantUsers[user.Tenant][user.Name] = &stored
	return nil
}

func (r *MemoryRepository) UpdateTenantUserFlights(ctx context.Context, tenant, username string, flights []string, version int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.tenantUsers[tenant][username]
	if !ok {
		return ErrVersionConflict
	}
	if user.Version != version {
		return ErrVersionConflict
	}

	user.Flights = append([]string(nil), flights...)
	user.Version++
	return nil
}

// Booking repository methods
func (r *MemoryRepository) CreateBooking(ctx context.Context, tenant, id string, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bookings[tenant] == nil {
		r.bookings[tenant] = make(map[string]*models.Booking)
	}
	if _, exists := r.bookings[tenant][id]; exists {
		return ErrAlreadyExists
	}

	stored := *booking
	r.bookings[tenant][id] = &stored
	return nil
}

func (r *MemoryRepository) GetBooking(ctx context.Context, tenant, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, ok := r.bookings[tenant][id]
	if !ok {
		return nil, ErrNotFound
	}

	copied := *booking
	return &copied, nil
}

// Legacy user repository methods
func (r *MemoryRepository) SaveUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *MemoryRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}

	copied := *user
	return &copied, nil
}
