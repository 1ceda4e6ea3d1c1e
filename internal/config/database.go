package config

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// SetupDatabase initializes the database connection
func SetupDatabase(cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	// Create tables if they don't exist
	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

// createTables creates the necessary tables in the database
func createTables(db *sqlx.DB) error {
	// Tenant user accounts. The version column backs the
	// optimistic-concurrency update of the flights list.
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS tenant_users (
			tenant VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			password VARCHAR(255) NOT NULL,
			flights TEXT[] NOT NULL DEFAULT '{}',
			version BIGINT NOT NULL DEFAULT 0,
			expires_at TIMESTAMP,
			PRIMARY KEY (tenant, name)
		)
	`)
	if err != nil {
		return err
	}

	// Booking records, keyed by generated UUID within a tenant.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS bookings (
			tenant VARCHAR(255) NOT NULL,
			id VARCHAR(36) NOT NULL,
			data JSONB NOT NULL,
			PRIMARY KEY (tenant, id)
		)
	`)
	if err != nil {
		return err
	}

	// Travel inventory.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS airports (
			id SERIAL PRIMARY KEY,
			airportname VARCHAR(255) NOT NULL,
			faa VARCHAR(3),
			icao VARCHAR(4),
			city VARCHAR(255),
			country VARCHAR(255)
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS airlines (
			id VARCHAR(36) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			callsign VARCHAR(255)
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS routes (
			id VARCHAR(36) PRIMARY KEY,
			airlineid VARCHAR(36) NOT NULL REFERENCES airlines(id),
			sourceairport VARCHAR(4) NOT NULL,
			destinationairport VARCHAR(4) NOT NULL,
			equipment VARCHAR(255)
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS schedules (
			route_id VARCHAR(36) NOT NULL REFERENCES routes(id) ON DELETE CASCADE,
			day SMALLINT NOT NULL,
			flight VARCHAR(10) NOT NULL,
			utc VARCHAR(8) NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS hotels (
			id SERIAL PRIMARY KEY,
			type VARCHAR(20) NOT NULL DEFAULT 'hotel',
			name VARCHAR(255) NOT NULL,
			description TEXT,
			address VARCHAR(255),
			city VARCHAR(255),
			state VARCHAR(255),
			country VARCHAR(255)
		)
	`)
	if err != nil {
		return err
	}

	// Legacy generic user records.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(36) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			address JSONB,
			preferences JSONB NOT NULL DEFAULT '[]',
			security_roles TEXT[] NOT NULL DEFAULT '{}'
		)
	`)
	if err != nil {
		return err
	}

	// Create indexes for better performance
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_airports_faa ON airports(faa)",
		"CREATE INDEX IF NOT EXISTS idx_airports_icao ON airports(icao)",
		"CREATE INDEX IF NOT EXISTS idx_routes_src_dst ON routes(sourceairport, destinationairport)",
		"CREATE INDEX IF NOT EXISTS idx_schedules_route_day ON schedules(route_id, day)",
	}

	for _, idx := range indexes {
		_, err = db.Exec(idx)
		if err != nil {
			log.Printf("Warning: Failed to create index: %v", err)
			// Don't return error here, indexes are not critical
		}
	}

	return nil
}
