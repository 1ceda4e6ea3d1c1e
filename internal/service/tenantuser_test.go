package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wanderio/travel-server/internal/auth"
	"github.com/wanderio/travel-server/internal/models"
	"github.com/wanderio/travel-server/internal/repository"
	"github.com/wanderio/travel-server/internal/service"
)

const testTenant = "tenant_agent_00"

func newTenantUserService() (*service.TenantUserService, *repository.MemoryRepository, auth.TokenService) {
	repo := repository.NewMemoryRepository()
	tokens := auth.NewTokenService(true, "test-secret-key")
	svc := service.NewTenantUserService(repo, tokens, 0, zap.NewNop())
	return svc, repo, tokens
}

func validFlight(name string) models.Booking {
	return models.Booking{
		Name:               name,
		Date:               "2024-01-01",
		SourceAirport:      "SFO",
		DestinationAirport: "LAX",
	}
}

func TestSignupAndLogin(t *testing.T) {
	svc, _, tokens := newTenantUserService()
	ctx := context.Background()

	env, err := svc.CreateLogin(ctx, testTenant, "alice", "pw123")
	require.NoError(t, err)
	require.NotEmpty(t, env.Data.Token)
	assert.NotEmpty(t, env.Context)

	subject, err := tokens.Verify(env.Data.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)

	// Duplicate signup conflicts.
	_, err = svc.CreateLogin(ctx, testTenant, "alice", "pw123")
	assert.ErrorIs(t, err, service.ErrConflict)

	// Correct password logs in.
	env, err = svc.Login(ctx, testTenant, "alice", "pw123")
	require.NoError(t, err)
	subject, err = tokens.Verify(env.Data.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)

	// Wrong password and unknown user look identical to the caller.
	_, err = svc.Login(ctx, testTenant, "alice", "wrong")
	assert.ErrorIs(t, err, service.ErrBadCredentials)
	_, err = svc.Login(ctx, testTenant, "nobody", "pw123")
	assert.ErrorIs(t, err, service.ErrBadCredentials)
}

func TestRegisterAndListFlights(t *testing.T) {
	svc, _, _ := newTenantUserService()
	ctx := context.Background()

	_, err := svc.CreateLogin(ctx, testTenant, "alice", "pw123")
	require.NoError(t, err)

	env, err := svc.RegisterFlights(ctx, testTenant, "alice", []models.Booking{validFlight("F1")})
	require.NoError(t, err)
	require.Len(t, env.Data.Added, 1)
	assert.Equal(t, "F1", env.Data.Added[0].Name)
	assert.NotEmpty(t, env.Data.Added[0].BookedOn)

	listed, err := svc.ListFlights(ctx, testTenant, "alice")
	require.NoError(t, err)
	require.Len(t, listed.Data, 1)
	assert.Equal(t, "F1", listed.Data[0].Name)
	assert.Equal(t, "SFO", listed.Data[0].SourceAirport)
	assert.NotEmpty(t, listed.Context)
}

func TestRegisterFlightsValidation(t *testing.T) {
	svc, _, _ := newTenantUserService()
	ctx := context.Background()

	_, err := svc.CreateLogin(ctx, testTenant, "alice", "pw123")
	require.NoError(t, err)

	missingDate := validFlight("F1")
	missingDate.Date = ""

	_, err = svc.RegisterFlights(ctx, testTenant, "alice", []models.Booking{missingDate})
	var validation *service.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Message, "F1")

	// Nothing persisted, no id appended.
	listed, err := svc.ListFlights(ctx, testTenant, "alice")
	require.NoError(t, err)
	assert.Empty(t, listed.Data)
}

func TestRegisterFlightsUnknownUser(t *testing.T) {
	svc, _, _ := newTenantUserService()

	_, err := svc.RegisterFlights(context.Background(), testTenant, "ghost", []models.Booking{validFlight("F1")})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestListFlightsAbsentUserIsEmpty(t *testing.T) {
	svc, _, _ := newTenantUserService()

	listed, err := svc.ListFlights(context.Background(), testTenant, "ghost")
	require.NoError(t, err)
	assert.Empty(t, listed.Data)
}

func TestListFlightsDanglingReference(t *testing.T) {
	svc, repo, _ := newTenantUserService()
	ctx := context.Background()

	_, err := svc.CreateLogin(ctx, testTenant, "alice", "pw123")
	require.NoError(t, err)

	// Point the account at a booking that was never written.
	require.NoError(t, repo.UpdateTenantUserFlights(ctx, testTenant, "alice", []string{"no-such-booking"}, 0))

	_, err = svc.ListFlights(ctx, testTenant, "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-booking")
}

func TestConcurrentRegistrationsKeepAllBookings(t *testing.T) {
	svc, _, _ := newTenantUserService()
	ctx := context.Background()

	_, err := svc.CreateLogin(ctx, testTenant, "alice", "pw123")
	require.NoError(t, err)

	const writers = 4
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := svc.RegisterFlights(ctx, testTenant, "alice",
				[]models.Booking{validFlight(fmt.Sprintf("F%d", n))})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	listed, err := svc.ListFlights(ctx, testTenant, "alice")
	require.NoError(t, err)
	assert.Len(t, listed.Data, writers)
}
