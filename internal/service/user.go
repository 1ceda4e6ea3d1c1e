package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wanderio/travel-server/internal/models"
	"github.com/wanderio/travel-server/internal/query"
	"github.com/wanderio/travel-server/internal/repository"
)

const selectUserBase = "SELECT id, name, address, preferences, security_roles FROM users"

// UserService is the legacy generic user module: plain CRUD plus a few
// field lookups.
type UserService struct {
	repo repository.Repository
	log  *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(repo repository.Repository, log *zap.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

// Save upserts a user record, generating an id when absent.
func (s *UserService) Save(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := s.repo.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("saving user: %w", err)
	}
	return user, nil
}

// FindByID fetches a single user record.
func (s *UserService) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	return user, nil
}

// FindByName lists users with the exact given name.
func (s *UserService) FindByName(ctx context.Context, name string) ([]models.User, error) {
	b := query.New(selectUserBase).Where("name = ?", name)
	return s.selectUsers(ctx, b)
}

// FindByPreferenceName lists users holding a preference with the given name.
func (s *UserService) FindByPreferenceName(ctx context.Context, name string) ([]models.User, error) {
	b := query.New(selectUserBase).
		Where("EXISTS (SELECT 1 FROM jsonb_array_elements(preferences) AS p WHERE p->>'name' = ?)", name)
	return s.selectUsers(ctx, b)
}

// HasRole reports whether the user carries the given security role.
func (s *UserService) HasRole(ctx context.Context, id, role string) (bool, error) {
	b := query.New(selectUserBase).
		Where("id = ?", id).
		Where("? = ANY(security_roles)", role)
	users, err := s.selectUsers(ctx, b)
	if err != nil {
		return false, err
	}
	return len(users) > 0, nil
}

// FindByAddress lists users matching the present address criteria. Blank
// criteria are excluded from the predicate; all values are bound, never
// spliced into the statement.
func (s *UserService) FindByAddress(ctx context.Context, criteria models.AddressCriteria) ([]models.User, error) {
	b := query.New(selectUserBase).
		WhereOptional("address->>'streetName' = ?", criteria.StreetName).
		WhereOptional("address->>'houseNumber' = ?", criteria.HouseNumber).
		WhereOptional("address->>'postalCode' = ?", criteria.PostalCode).
		WhereOptional("address->>'city' = ?", criteria.City).
		WhereOptional("address->>'country' = ?", criteria.Country)
	return s.selectUsers(ctx, b)
}

func (s *UserService) selectUsers(ctx context.Context, b *query.Builder) ([]models.User, error) {
	statement := b.String()
	s.log.Info("executing query", zap.String("query", statement))

	users, err := s.repo.SelectUsers(ctx, statement, b.Args())
	if err != nil {
		return nil, fmt.Errorf("user query: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}
