package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/wanderio/travel-server/internal/models"
	"github.com/wanderio/travel-server/internal/query"
	"github.com/wanderio/travel-server/internal/repository"
)

// AirportService answers airport name searches.
type AirportService struct {
	repo repository.Repository
	log  *zap.Logger
}

// NewAirportService creates a new AirportService
func NewAirportService(repo repository.Repository, log *zap.Logger) *AirportService {
	return &AirportService{repo: repo, log: log}
}

// FindAll looks airports up by FAA code, ICAO code or name prefix. A
// 3-letter term in a single case is treated as an FAA code and a 4-letter
// one as an ICAO code, both compared uppercased; anything else matches
// case-insensitively against the start of the airport name.
func (s *AirportService) FindAll(ctx context.Context, term string) (models.Envelope[[]models.Airport], error) {
	b := query.New("SELECT airportname FROM airports")

	sameCase := term == strings.ToUpper(term) || term == strings.ToLower(term)
	switch {
	case len(term) == 3 && sameCase:
		b.Where("faa = ?", strings.ToUpper(term))
	case len(term) == 4 && sameCase:
		b.Where("icao = ?", strings.ToUpper(term))
	default:
		b.Where("POSITION(? IN LOWER(airportname)) = 1", strings.ToLower(term))
	}

	statement := b.String()
	s.log.Info("executing query", zap.String("query", statement))

	airports, err := s.repo.SelectAirports(ctx, statement, b.Args())
	if err != nil {
		return models.Envelope[[]models.Airport]{}, fmt.Errorf("airport query: %w", err)
	}
	if airports == nil {
		airports = []models.Airport{}
	}

	return models.NewEnvelope(airports, "SQL query - airport inventory: "+statement), nil
}
