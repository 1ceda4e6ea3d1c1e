package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wanderio/travel-server/internal/models"
	"github.com/wanderio/travel-server/internal/repository"
	"github.com/wanderio/travel-server/internal/service"
)

func newFlightPathFixture() (*service.FlightPathService, *repository.MemoryRepository) {
	repo := repository.NewMemoryRepository()
	repo.AirportCodes = []models.AirportCode{
		{FAA: "SFO", AirportName: "San Francisco Intl"},
		{FAA: "LAX", AirportName: "Los Angeles Intl"},
	}
	repo.Flights = []models.Flight{
		{Name: "United Airlines", Flight: "UA123", UTC: "10:05:00", SourceAirport: "SFO", DestinationAirport: "LAX", Equipment: "738"},
		{Name: "American Airlines", Flight: "AA456", UTC: "19:10:00", SourceAirport: "SFO", DestinationAirport: "LAX", Equipment: "321"},
	}
	return service.NewFlightPathService(repo, zap.NewNop()), repo
}

func TestFlightPathFindAll(t *testing.T) {
	svc, repo := newFlightPathFixture()

	// 2024-01-01 is a Monday, which the schedule data stores as day 0.
	leave := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	env, err := svc.FindAll(context.Background(), "San Francisco Intl", "Los Angeles Intl", leave)
	require.NoError(t, err)

	require.Len(t, repo.Executed, 2)
	codeQuery := repo.Executed[0]
	assert.Contains(t, codeQuery.Query, "UNION")
	assert.Equal(t, []interface{}{"San Francisco Intl", "Los Angeles Intl"}, codeQuery.Args)

	joinQuery := repo.Executed[1]
	assert.Contains(t, joinQuery.Query, "JOIN schedules")
	assert.Contains(t, joinQuery.Query, "ORDER BY a.name ASC")
	assert.Equal(t, []interface{}{"SFO", "LAX", 0}, joinQuery.Args)

	require.Len(t, env.Data, 2)
	for _, f := range env.Data {
		assert.GreaterOrEqual(t, f.FlightTime, 0)
		assert.Less(t, f.FlightTime, 8000)
		assert.InDelta(t, f.Price, float64(f.FlightTime)/8, 0.01)
		assert.GreaterOrEqual(t, f.Price, float64(f.FlightTime)/8)
	}
	assert.Len(t, env.Context, 2)
}

func TestFlightPathPricingIsDeterministic(t *testing.T) {
	svc, _ := newFlightPathFixture()
	leave := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	first, err := svc.FindAll(context.Background(), "San Francisco Intl", "Los Angeles Intl", leave)
	require.NoError(t, err)
	second, err := svc.FindAll(context.Background(), "San Francisco Intl", "Los Angeles Intl", leave)
	require.NoError(t, err)

	require.Len(t, second.Data, len(first.Data))
	for i := range first.Data {
		assert.Equal(t, first.Data[i].FlightTime, second.Data[i].FlightTime)
		assert.Equal(t, first.Data[i].Price, second.Data[i].Price)
	}
}

func TestFlightPathWeekdayMapping(t *testing.T) {
	svc, repo := newFlightPathFixture()

	// 2024-01-07 is a Sunday, the last slot of the week.
	leave := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	_, err := svc.FindAll(context.Background(), "San Francisco Intl", "Los Angeles Intl", leave)
	require.NoError(t, err)

	joinQuery := repo.Executed[1]
	assert.Equal(t, 6, joinQuery.Args[2])
}
