package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wanderio/travel-server/internal/models"
	"github.com/wanderio/travel-server/internal/repository"
	"github.com/wanderio/travel-server/internal/service"
)

func newUserService() (*service.UserService, *repository.MemoryRepository) {
	repo := repository.NewMemoryRepository()
	return service.NewUserService(repo, zap.NewNop()), repo
}

func TestUserSaveGeneratesIDAndRoundTrips(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	saved, err := svc.Save(ctx, &models.User{
		Name:        "Carol",
		Address:     models.Address{City: "Berlin", Country: "DE"},
		Preferences: models.PreferenceList{{Name: "seat", Value: "window"}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	fetched, err := svc.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Carol", fetched.Name)
	assert.Equal(t, "Berlin", fetched.Address.City)

	// A caller-supplied id is kept as-is.
	saved, err = svc.Save(ctx, &models.User{ID: "fixed-id", Name: "Dave"})
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", saved.ID)
}

func TestUserFindByIDMissing(t *testing.T) {
	svc, _ := newUserService()

	_, err := svc.FindByID(context.Background(), "absent")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestUserFindByNameQueryShape(t *testing.T) {
	svc, repo := newUserService()

	_, err := svc.FindByName(context.Background(), "Carol")
	require.NoError(t, err)

	executed := repo.LastExecuted()
	assert.Contains(t, executed.Query, "WHERE name = $1")
	assert.Equal(t, []interface{}{"Carol"}, executed.Args)
}

func TestUserFindByPreferenceNameQueryShape(t *testing.T) {
	svc, repo := newUserService()

	_, err := svc.FindByPreferenceName(context.Background(), "seat")
	require.NoError(t, err)

	executed := repo.LastExecuted()
	assert.Contains(t, executed.Query, "jsonb_array_elements(preferences)")
	assert.Contains(t, executed.Query, "p->>'name' = $1")
	assert.Equal(t, []interface{}{"seat"}, executed.Args)
}

func TestUserHasRoleQueryShape(t *testing.T) {
	svc, repo := newUserService()
	repo.LegacyUsers = []models.User{{ID: "u1", Name: "Carol", SecurityRoles: []string{"admin"}}}

	ok, err := svc.HasRole(context.Background(), "u1", "admin")
	require.NoError(t, err)
	assert.True(t, ok)

	executed := repo.LastExecuted()
	assert.Contains(t, executed.Query, "WHERE id = $1")
	assert.Contains(t, executed.Query, "$2 = ANY(security_roles)")
	assert.Equal(t, []interface{}{"u1", "admin"}, executed.Args)
}

func TestUserFindByAddressBindsValues(t *testing.T) {
	svc, repo := newUserService()

	// A hostile value stays a bound parameter, never statement text.
	hostile := "x' OR '1'='1"
	_, err := svc.FindByAddress(context.Background(), models.AddressCriteria{
		City:    hostile,
		Country: "DE",
	})
	require.NoError(t, err)

	executed := repo.LastExecuted()
	assert.Equal(t,
		"SELECT id, name, address, preferences, security_roles FROM users"+
			" WHERE address->>'city' = $1 AND address->>'country' = $2",
		executed.Query)
	assert.NotContains(t, executed.Query, hostile)
	assert.Equal(t, []interface{}{hostile, "DE"}, executed.Args)
}

func TestUserFindByAddressNoCriteria(t *testing.T) {
	svc, repo := newUserService()

	_, err := svc.FindByAddress(context.Background(), models.AddressCriteria{})
	require.NoError(t, err)

	executed := repo.LastExecuted()
	assert.NotContains(t, executed.Query, "WHERE")
	assert.Empty(t, executed.Args)
}
