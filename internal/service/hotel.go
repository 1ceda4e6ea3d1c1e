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

// HotelService answers hotel searches by location and description.
type HotelService struct {
	repo repository.Repository
	log  *zap.Logger
}

// NewHotelService creates a new HotelService
func NewHotelService(repo repository.Repository, log *zap.Logger) *HotelService {
	return &HotelService{repo: repo, log: log}
}

// FindHotels searches hotels matching an optional location phrase across
// the address fields and an optional description phrase across name and
// description. Blank or wildcard terms drop their clause entirely.
func (s *HotelService) FindHotels(ctx context.Context, location, description string) (models.Envelope[[]models.HotelSummary], error) {
	b := query.New("SELECT name, description, address, city, state, country FROM hotels").
		Where("type = ?", "hotel").
		WhereAnyMatch(location, "country", "city", "state", "address").
		WhereAnyMatch(description, "description", "name").
		Suffix("LIMIT 100")

	statement := b.String()
	s.log.Info("executing query", zap.String("query", statement))

	hotels, err := s.repo.SelectHotels(ctx, statement, b.Args())
	if err != nil {
		return models.Envelope[[]models.HotelSummary]{}, fmt.Errorf("hotel query: %w", err)
	}

	summaries := make([]models.HotelSummary, 0, len(hotels))
	for _, h := range hotels {
		summaries = append(summaries, models.HotelSummary{
			Name:        h.Name,
			Description: h.Description,
			Address:     joinNonEmpty(h.Address, h.City, h.State, h.Country),
		})
	}

	narration := "SQL search - hotel inventory within fields country, city, state, address, name, description: " + statement
	return models.NewEnvelope(summaries, narration), nil
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
