package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/wanderio/travel-server/internal/models"
	"github.com/wanderio/travel-server/internal/repository"
)

// Both flight-path statements are fixed templates with mandatory
// parameters, so they bypass the query builder.
const (
	airportCodesQuery = `SELECT faa, airportname FROM airports WHERE airportname = $1 ` +
		`UNION SELECT faa, airportname FROM airports WHERE airportname = $2`

	flightJoinQuery = `SELECT a.name, s.flight, s.utc, r.sourceairport, r.destinationairport, r.equipment ` +
		`FROM routes AS r ` +
		`JOIN schedules AS s ON s.route_id = r.id ` +
		`JOIN airlines AS a ON a.id = r.airlineid ` +
		`WHERE r.sourceairport = $1 AND r.destinationairport = $2 AND s.day = $3 ` +
		`ORDER BY a.name ASC`
)

// FlightPathService answers flight-path searches between two airports on
// a given day.
type FlightPathService struct {
	repo repository.Repository
	log  *zap.Logger
}

// NewFlightPathService creates a new FlightPathService
func NewFlightPathService(repo repository.Repository, log *zap.Logger) *FlightPathService {
	return &FlightPathService{repo: repo, log: log}
}

// FindAll resolves the FAA codes of the two named airports, then joins
// routes, schedules and airlines for legs flying on the leave date's
// weekday, ordered by airline name.
func (s *FlightPathService) FindAll(ctx context.Context, from, to string, leave time.Time) (models.Envelope[[]models.Flight], error) {
	var zero models.Envelope[[]models.Flight]

	s.log.Info("executing query", zap.String("query", airportCodesQuery))
	codes, err := s.repo.SelectAirportCodes(ctx, airportCodesQuery, []interface{}{from, to})
	if err != nil {
		return zero, fmt.Errorf("airport code query: %w", err)
	}

	var fromAirport, toAirport string
	for _, code := range codes {
		switch code.AirportName {
		case from:
			fromAirport = code.FAA
		case to:
			toAirport = code.FAA
		}
	}

	// Monday = 0, matching the schedule data.
	leaveDay := (int(leave.Weekday()) + 6) % 7

	s.log.Info("executing query", zap.String("query", flightJoinQuery))
	flights, err := s.repo.SelectFlights(ctx, flightJoinQuery, []interface{}{fromAirport, toAirport, leaveDay})
	if err != nil {
		return zero, fmt.Errorf("flight path query: %w", err)
	}
	if flights == nil {
		flights = []models.Flight{}
	}

	for i := range flights {
		ft := flightTime(&flights[i], leave)
		flights[i].FlightTime = ft
		flights[i].Price = math.Ceil(float64(ft)/8*100) / 100
	}

	return models.NewEnvelope(flights,
		"SQL query - airport inventory: "+airportCodesQuery,
		"SQL query - route inventory: "+flightJoinQuery,
	), nil
}

// flightTime derives a stable placeholder duration from the leg identity.
// The value carries no pricing meaning; only its shape matters.
func flightTime(f *models.Flight, leave time.Time) int {
	h := fnv.New32a()
	io.WriteString(h, f.Name)
	io.WriteString(h, f.Flight)
	io.WriteString(h, leave.Format("2006-01-02"))
	return int(h.Sum32() % 8000)
}
