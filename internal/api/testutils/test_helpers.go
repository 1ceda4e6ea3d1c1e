package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/wanderio/travel-server/internal/api"
	"github.com/wanderio/travel-server/internal/auth"
	"github.com/wanderio/travel-server/internal/models"
	"github.com/wanderio/travel-server/internal/repository"
	"github.com/wanderio/travel-server/internal/service"
)

// TestTenant is the tenant all API tests operate under.
const TestTenant = "tenant_agent_00"

// TestUserName and TestPassword identify the pre-created test account.
const (
	TestUserName = "testuser"
	TestPassword = "testpassword"
)

// TestContext holds all dependencies for tests
type TestContext struct {
	Router        *gin.Engine
	Repository    *repository.MemoryRepository
	Tokens        auth.TokenService
	TestUserToken string
}

// SetupTestContext creates a new test context with initialized dependencies
func SetupTestContext(t *testing.T) *TestContext {
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	repo := repository.NewMemoryRepository()
	seedInventory(repo)

	tokens := auth.NewTokenService(true, "test-secret-key")

	handler := api.NewHandler(
		service.NewAirportService(repo, logger),
		service.NewFlightPathService(repo, logger),
		service.NewHotelService(repo, logger),
		service.NewTenantUserService(repo, tokens, 0, logger),
		service.NewUserService(repo, logger),
		tokens,
		logger,
	)

	router := gin.New()
	router.Use(api.CORSMiddleware())
	handler.SetupRoutes(router)

	token := createTestUser(t, repo, tokens)

	return &TestContext{
		Router:        router,
		Repository:    repo,
		Tokens:        tokens,
		TestUserToken: token,
	}
}

// seedInventory loads a small travel-sample slice into the repository.
func seedInventory(repo *repository.MemoryRepository) {
	repo.Airports = []models.Airport{
		{AirportName: "San Francisco Intl"},
		{AirportName: "Los Angeles Intl"},
	}
	repo.AirportCodes = []models.AirportCode{
		{FAA: "SFO", AirportName: "San Francisco Intl"},
		{FAA: "LAX", AirportName: "Los Angeles Intl"},
	}
	repo.Flights = []models.Flight{
		{Name: "United Airlines", Flight: "UA123", UTC: "10:05:00", SourceAirport: "SFO", DestinationAirport: "LAX", Equipment: "738"},
	}
	repo.Hotels = []models.Hotel{
		{Name: "Hotel Lutetia", Description: "Art deco landmark", Address: "45 Boulevard Raspail", City: "Paris", Country: "France"},
	}
}

// createTestUser creates the standing test account and issues its token.
func createTestUser(t *testing.T, repo repository.Repository, tokens auth.TokenService) string {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.DefaultCost)
	assert.NoError(t, err, "Failed to hash test password")

	err = repo.CreateTenantUser(context.Background(), &models.TenantUser{
		Tenant:   TestTenant,
		Name:     TestUserName,
		Password: string(hashedPassword),
		Flights:  []string{},
	}, 0)
	assert.NoError(t, err, "Failed to create test user")

	token, err := tokens.Issue(TestUserName)
	assert.NoError(t, err, "Failed to issue test token")
	return token
}

// PerformRequest executes an HTTP request against the router
func PerformRequest(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer

	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// AuthHeaders returns headers with Authorization token
func AuthHeaders(token string) map[string]string {
	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", token),
	}
}
