package models

// Request models
type LoginRequest struct {
	User     string `json:"user" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SignupRequest struct {
	User     string `json:"user" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type BookFlightsRequest struct {
	Flights []Booking `json:"flights" binding:"required"`
}

// Response models
type TokenResponse struct {
	Token string `json:"token"`
}

type BookFlightsResponse struct {
	Added []Booking `json:"added"`
}

// ErrorResponse is the uniform failure body.
type ErrorResponse struct {
	Message string `json:"message"`
}
