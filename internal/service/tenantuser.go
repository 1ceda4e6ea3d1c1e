package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/wanderio/travel-server/internal/auth"
	"github.com/wanderio/travel-server/internal/models"
	"github.com/wanderio/travel-server/internal/repository"
)

// bookedOnTag marks booking records created by this backend.
const bookedOnTag = "travel-server"

// maxFlightsUpdateRetries bounds the optimistic-concurrency retry loop
// when appending booking ids to an account.
const maxFlightsUpdateRetries = 8

// TenantUserService owns the tenant-user lifecycle: signup, login,
// flight registration and booking retrieval.
type TenantUserService struct {
	repo   repository.Repository
	tokens auth.TokenService
	expiry time.Duration
	log    *zap.Logger
}

// NewTenantUserService creates a new TenantUserService
func NewTenantUserService(repo repository.Repository, tokens auth.TokenService, expiry time.Duration, log *zap.Logger) *TenantUserService {
	return &TenantUserService{
		repo:   repo,
		tokens: tokens,
		expiry: expiry,
		log:    log,
	}
}

// Login verifies the password against the stored hash and issues a token.
// An absent account and a wrong password both surface as bad credentials.
func (s *TenantUserService) Login(ctx context.Context, tenant, username, password string) (models.Envelope[models.TokenResponse], error) {
	var zero models.Envelope[models.TokenResponse]

	user, err := s.repo.GetTenantUser(ctx, tenant, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return zero, ErrBadCredentials
		}
		return zero, fmt.Errorf("fetching user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return zero, ErrBadCredentials
	}

	token, err := s.tokens.Issue(username)
	if err != nil {
		return zero, fmt.Errorf("issuing token: %w", err)
	}

	return models.NewEnvelope(models.TokenResponse{Token: token},
		fmt.Sprintf("KV get - scoped to %s.users: for password field in document %s", tenant, username),
	), nil
}

// CreateLogin creates the account with a hashed password and issues a
// token. The store's create-if-absent semantics decide duplicate races.
func (s *TenantUserService) CreateLogin(ctx context.Context, tenant, username, password string) (models.Envelope[models.TokenResponse], error) {
	var zero models.Envelope[models.TokenResponse]

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return zero, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.TenantUser{
		Tenant:   tenant,
		Name:     username,
		Password: string(hash),
		Flights:  []string{},
	}

	if err := s.repo.CreateTenantUser(ctx, user, s.expiry); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return zero, ErrConflict
		}
		return zero, fmt.Errorf("creating user: %w", err)
	}

	token, err := s.tokens.Issue(username)
	if err != nil {
		return zero, fmt.Errorf("issuing token: %w", err)
	}

	return models.NewEnvelope(models.TokenResponse{Token: token},
		fmt.Sprintf("KV insert - scoped to %s.users: document %s", tenant, username),
	), nil
}

// RegisterFlights validates and persists each flight as its own booking
// record, then appends the new ids to the account's flights list with a
// version-checked update, retrying on conflict so concurrent
// registrations cannot drop each other's ids.
func (s *TenantUserService) RegisterFlights(ctx context.Context, tenant, username string, flights []models.Booking) (models.Envelope[models.BookFlightsResponse], error) {
	var zero models.Envelope[models.BookFlightsResponse]

	user, err := s.repo.GetTenantUser(ctx, tenant, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return zero, ErrNotFound
		}
		return zero, fmt.Errorf("fetching user: %w", err)
	}

	// Validate everything up front; nothing persists on a bad payload.
	for i := range flights {
		if err := validateFlight(&flights[i]); err != nil {
			return zero, err
		}
	}

	added := make([]models.Booking, 0, len(flights))
	ids := make([]string, 0, len(flights))
	for i := range flights {
		flights[i].BookedOn = bookedOnTag
		id := uuid.New().String()
		if err := s.repo.CreateBooking(ctx, tenant, id, &flights[i]); err != nil {
			return zero, fmt.Errorf("persisting booking: %w", err)
		}
		ids = append(ids, id)
		added = append(added, flights[i])
	}

	for attempt := 0; ; attempt++ {
		updated := append(append([]string{}, user.Flights...), ids...)
		err = s.repo.UpdateTenantUserFlights(ctx, tenant, username, updated, user.Version)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrVersionConflict) || attempt >= maxFlightsUpdateRetries {
			return zero, fmt.Errorf("updating booked flights: %w", err)
		}
		s.log.Info("retrying flights update after version conflict",
			zap.String("tenant", tenant), zap.String("user", username))
		user, err = s.repo.GetTenantUser(ctx, tenant, username)
		if err != nil {
			return zero, fmt.Errorf("refreshing user: %w", err)
		}
	}

	return models.NewEnvelope(models.BookFlightsResponse{Added: added},
		fmt.Sprintf("KV update - scoped to %s.users: for bookings field in document %s", tenant, username),
	), nil
}

// ListFlights resolves the account's booking ids to booking records. An
// absent account or an empty flights list is an empty result, not an
// error; a dangling booking reference is a consistency bug and fails.
func (s *TenantUserService) ListFlights(ctx context.Context, tenant, username string) (models.Envelope[[]models.Booking], error) {
	var zero models.Envelope[[]models.Booking]

	user, err := s.repo.GetTenantUser(ctx, tenant, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.NewEnvelope([]models.Booking{}), nil
		}
		return zero, fmt.Errorf("fetching user: %w", err)
	}

	bookings := make([]models.Booking, 0, len(user.Flights))
	for _, id := range user.Flights {
		booking, err := s.repo.GetBooking(ctx, tenant, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return zero, fmt.Errorf("dangling booking reference %s for user %s", id, username)
			}
			return zero, fmt.Errorf("fetching booking %s: %w", id, err)
		}
		bookings = append(bookings, *booking)
	}

	return models.NewEnvelope(bookings,
		fmt.Sprintf("KV get - scoped to %s.users: for %d bookings in document %s", tenant, len(bookings), username),
	), nil
}

func validateFlight(f *models.Booking) error {
	if f.Name == "" || f.Date == "" || f.SourceAirport == "" || f.DestinationAirport == "" {
		raw, _ := json.Marshal(f)
		return &ValidationError{Message: "malformed flight inside flights payload: " + string(raw)}
	}
	return nil
}
