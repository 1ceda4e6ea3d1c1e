package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/wanderio/travel-server/internal/auth"
	"github.com/wanderio/travel-server/internal/models"
	"github.com/wanderio/travel-server/internal/service"
)

// Handler wires the HTTP surface to the business services.
type Handler struct {
	airports    *service.AirportService
	flightPaths *service.FlightPathService
	hotels      *service.HotelService
	tenantUsers *service.TenantUserService
	users       *service.UserService
	tokens      auth.TokenService
	log         *zap.Logger
}

// NewHandler creates a new API handler
func NewHandler(
	airports *service.AirportService,
	flightPaths *service.FlightPathService,
	hotels *service.HotelService,
	tenantUsers *service.TenantUserService,
	users *service.UserService,
	tokens auth.TokenService,
	log *zap.Logger,
) *Handler {
	return &Handler{
		airports:    airports,
		flightPaths: flightPaths,
		hotels:      hotels,
		tenantUsers: tenantUsers,
		users:       users,
		tokens:      tokens,
		log:         log,
	}
}

// SetupRoutes registers all routes on the router
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/airports", h.SearchAirports)
		api.GET("/flightPaths/:from/:to", h.SearchFlightPaths)
		api.GET("/hotels", h.SearchHotels)

		tenants := api.Group("/tenants/:tenant/user")
		{
			tenants.POST("/login", h.Login)
			tenants.POST("/signup", h.Signup)
			tenants.PUT("/:username/flights", h.BookFlights)
			tenants.GET("/:username/flights", h.ListFlights)
		}

		user := api.Group("/user")
		{
			user.POST("/save", h.SaveUser)
			user.GET("/find", h.FindUsersByName)
			user.GET("/preference", h.FindUsersByPreference)
			user.GET("/findByAddress", h.FindUsersByAddress)
			user.GET("/:id", h.GetUser)
		}
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) SearchAirports(c *gin.Context) {
	env, err := h.airports.FindAll(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, env)
}

func (h *Handler) SearchFlightPaths(c *gin.Context) {
	leave, err := time.Parse("2006-01-02", c.Query("leave"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "invalid 'leave' date, expected YYYY-MM-DD"})
		return
	}

	env, err := h.flightPaths.FindAll(c.Request.Context(), c.Param("from"), c.Param("to"), leave)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, env)
}

func (h *Handler) SearchHotels(c *gin.Context) {
	env, err := h.hotels.FindHotels(c.Request.Context(), c.Query("location"), c.Query("description"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, env)
}

func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: err.Error()})
		return
	}

	env, err := h.tenantUsers.Login(c.Request.Context(), c.Param("tenant"), req.User, req.Password)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, env)
}

func (h *Handler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: err.Error()})
		return
	}

	env, err := h.tenantUsers.CreateLogin(c.Request.Context(), c.Param("tenant"), req.User, req.Password)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, env)
}

func (h *Handler) BookFlights(c *gin.Context) {
	username := c.Param("username")
	if !h.authorize(c, username) {
		return
	}

	var req models.BookFlightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: err.Error()})
		return
	}

	env, err := h.tenantUsers.RegisterFlights(c.Request.Context(), c.Param("tenant"), username, req.Flights)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, env)
}

func (h *Handler) ListFlights(c *gin.Context) {
	username := c.Param("username")
	if !h.authorize(c, username) {
		return
	}

	env, err := h.tenantUsers.ListFlights(c.Request.Context(), c.Param("tenant"), username)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, env)
}

func (h *Handler) SaveUser(c *gin.Context) {
	var user models.User
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: err.Error()})
		return
	}

	saved, err := h.users.Save(c.Request.Context(), &user)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.users.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) FindUsersByName(c *gin.Context) {
	users, err := h.users.FindByName(c.Request.Context(), c.Query("name"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) FindUsersByPreference(c *gin.Context) {
	users, err := h.users.FindByPreferenceName(c.Request.Context(), c.Query("name"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) FindUsersByAddress(c *gin.Context) {
	criteria := models.AddressCriteria{
		StreetName:  c.Query("streetName"),
		HouseNumber: c.Query("number"),
		PostalCode:  c.Query("postalCode"),
		City:        c.Query("city"),
		Country:     c.Query("country"),
	}

	users, err := h.users.FindByAddress(c.Request.Context(), criteria)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// authorize enforces bearer authentication for the per-user booking
// endpoints: a missing or non-bearer header is 401, a token that fails
// verification or names another user is 403.
func (h *Handler) authorize(c *gin.Context, username string) bool {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Bearer authentication must be used"})
		return false
	}

	if err := auth.VerifyAuthorizationHeader(h.tokens, header, username); err != nil {
		h.log.Warn("auth check failed", zap.Error(err))
		c.JSON(http.StatusForbidden, models.ErrorResponse{Message: "bad credentials"})
		return false
	}
	return true
}

func (h *Handler) renderError(c *gin.Context, err error) {
	var validation *service.ValidationError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: validation.Message})
	case errors.Is(err, service.ErrBadCredentials):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: service.ErrBadCredentials.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, models.ErrorResponse{Message: service.ErrConflict.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Message: service.ErrNotFound.Error()})
	default:
		h.log.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "internal server error"})
	}
}
