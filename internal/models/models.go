package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Airport is a row returned by the airport search.
type Airport struct {
	AirportName string `db:"airportname" json:"airportname"`
}

// AirportCode pairs an airport name with its FAA code. Used to resolve
// the endpoints of a flight-path search.
type AirportCode struct {
	FAA         string `db:"faa" json:"faa"`
	AirportName string `db:"airportname" json:"airportname"`
}

// Flight is one leg returned by the flight-path search. FlightTime and
// Price are computed per request, not stored.
type Flight struct {
	Name               string  `db:"name" json:"name"`
	Flight             string  `db:"flight" json:"flight"`
	Equipment          string  `db:"equipment" json:"equipment"`
	UTC                string  `db:"utc" json:"utc"`
	SourceAirport      string  `db:"sourceairport" json:"sourceairport"`
	DestinationAirport string  `db:"destinationairport" json:"destinationairport"`
	FlightTime         int     `db:"-" json:"flighttime"`
	Price              float64 `db:"-" json:"price"`
}

// Hotel is a row returned by the hotel search.
type Hotel struct {
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	Address     string `db:"address" json:"address"`
	City        string `db:"city" json:"city"`
	State       string `db:"state" json:"state"`
	Country     string `db:"country" json:"country"`
}

// HotelSummary is the wire shape of a hotel search result. Address is the
// comma-joined non-empty address parts of the underlying record.
type HotelSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
}

// TenantUser is a user account scoped to a tenant. Flights holds booking
// ids, not booking records. Version backs the optimistic-concurrency
// update of the flights list.
type TenantUser struct {
	Tenant    string         `db:"tenant" json:"-"`
	Name      string         `db:"name" json:"name"`
	Password  string         `db:"password" json:"-"`
	Flights   pq.StringArray `db:"flights" json:"flights"`
	Version   int64          `db:"version" json:"-"`
	ExpiresAt *time.Time     `db:"expires_at" json:"-"`
}

// Booking is a booked flight. Created once at registration time and
// immutable afterward; referenced by id from TenantUser.Flights.
type Booking struct {
	Name               string  `json:"name"`
	Flight             string  `json:"flight,omitempty"`
	Price              float64 `json:"price,omitempty"`
	Date               string  `json:"date"`
	SourceAirport      string  `json:"sourceairport"`
	DestinationAirport string  `json:"destinationairport"`
	BookedOn           string  `json:"bookedon,omitempty"`
}

// Value implements driver.Valuer so bookings persist as JSONB.
func (b Booking) Value() (driver.Value, error) {
	return json.Marshal(b)
}

// Scan implements sql.Scanner for JSONB booking columns.
func (b *Booking) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, b)
	case string:
		return json.Unmarshal([]byte(v), b)
	default:
		return fmt.Errorf("unsupported booking column type %T", src)
	}
}

// Address is the postal address of a legacy user record.
type Address struct {
	StreetName  string `json:"streetName,omitempty"`
	HouseNumber string `json:"houseNumber,omitempty"`
	PostalCode  string `json:"postalCode,omitempty"`
	City        string `json:"city,omitempty"`
	Country     string `json:"country,omitempty"`
}

func (a Address) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *Address) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("unsupported address column type %T", src)
	}
}

// Preference is a named setting on a legacy user record.
type Preference struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PreferenceList persists as a JSONB array.
type PreferenceList []Preference

func (p PreferenceList) Value() (driver.Value, error) {
	if p == nil {
		p = PreferenceList{}
	}
	return json.Marshal(p)
}

func (p *PreferenceList) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("unsupported preferences column type %T", src)
	}
}

// User is the legacy generic user record.
type User struct {
	ID            string         `db:"id" json:"id"`
	Name          string         `db:"name" json:"name"`
	Address       Address        `db:"address" json:"address"`
	Preferences   PreferenceList `db:"preferences" json:"preferences"`
	SecurityRoles pq.StringArray `db:"security_roles" json:"securityRoles"`
}

// AddressCriteria is the optional criteria set of the legacy
// find-by-address lookup. Blank fields are excluded from the query.
type AddressCriteria struct {
	StreetName  string
	HouseNumber string
	PostalCode  string
	City        string
	Country     string
}
