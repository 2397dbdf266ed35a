package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    email         TEXT,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'customer'
                  CHECK (role IN ('admin', 'manufacturer', 'distributor', 'pharmacy', 'customer')),
    name          TEXT,
    organization  TEXT,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    last_login    DATETIME,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS drugs (
    id               INTEGER PRIMARY KEY,
    batch_number     TEXT NOT NULL UNIQUE,
    name             TEXT NOT NULL,
    manufacturer     TEXT NOT NULL,
    composition      TEXT,
    production_date  DATETIME NOT NULL,
    expiry_date      DATETIME NOT NULL,
    price            REAL NOT NULL DEFAULT 0,
    discounted_price REAL,
    status           TEXT NOT NULL DEFAULT 'manufactured'
                     CHECK (status IN ('manufactured', 'distributed', 'sold', 'expired')),
    is_expired       INTEGER NOT NULL DEFAULT 0,
    is_blacklisted   INTEGER NOT NULL DEFAULT 0,
    qr_generated     INTEGER NOT NULL DEFAULT 0,
    qr_payload       TEXT,
    created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS drug_events (
    id          INTEGER PRIMARY KEY,
    drug_id     INTEGER NOT NULL REFERENCES drugs(id),
    type        TEXT NOT NULL CHECK (type IN ('manufactured', 'transferred', 'sold')),
    event_time  DATETIME NOT NULL,
    entity      TEXT,
    location    TEXT,
    from_entity TEXT,
    to_entity   TEXT,
    price       REAL,
    recorded_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_drug_events_drug ON drug_events(drug_id);

CREATE TABLE IF NOT EXISTS orders (
    id                     INTEGER PRIMARY KEY,
    order_number           TEXT NOT NULL UNIQUE,
    customer_name          TEXT NOT NULL,
    customer_email         TEXT,
    pharmacy               TEXT NOT NULL,
    batch_number           TEXT NOT NULL,
    drug_name              TEXT NOT NULL,
    quantity               INTEGER NOT NULL CHECK (quantity > 0),
    total_price            REAL NOT NULL DEFAULT 0,
    status                 TEXT NOT NULL DEFAULT 'pending'
                           CHECK (status IN ('pending', 'confirmed', 'processing', 'shipped', 'delivered', 'cancelled')),
    tracking_number        TEXT,
    notes                  TEXT,
    order_date             DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    expected_delivery_date DATETIME,
    actual_delivery_date   DATETIME
);

CREATE TABLE IF NOT EXISTS inventory (
    id                INTEGER PRIMARY KEY,
    batch_number      TEXT NOT NULL,
    drug_name         TEXT NOT NULL,
    location          TEXT NOT NULL CHECK (location IN ('manufacturer', 'distributor', 'pharmacy')),
    location_name     TEXT NOT NULL,
    quantity          INTEGER NOT NULL CHECK (quantity >= 0),
    reserved_quantity INTEGER NOT NULL DEFAULT 0 CHECK (reserved_quantity >= 0),
    unit_price        REAL NOT NULL DEFAULT 0,
    last_updated      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (batch_number, location, location_name)
);

CREATE TABLE IF NOT EXISTS deliveries (
    id              INTEGER PRIMARY KEY,
    order_number    TEXT NOT NULL,
    from_location   TEXT NOT NULL,
    to_location     TEXT NOT NULL,
    batch_number    TEXT NOT NULL,
    drug_name       TEXT NOT NULL,
    quantity        INTEGER NOT NULL CHECK (quantity > 0),
    status          TEXT NOT NULL DEFAULT 'scheduled'
                    CHECK (status IN ('scheduled', 'in_transit', 'delivered', 'cancelled')),
    tracking_number TEXT NOT NULL,
    notes           TEXT,
    scheduled_date  DATETIME NOT NULL,
    actual_date     DATETIME
);

CREATE TABLE IF NOT EXISTS quality_checks (
    id             INTEGER PRIMARY KEY,
    batch_number   TEXT NOT NULL,
    manufacturer   TEXT NOT NULL,
    check_date     DATETIME NOT NULL,
    quality_score  INTEGER NOT NULL CHECK (quality_score BETWEEN 0 AND 100),
    passed         INTEGER NOT NULL DEFAULT 0,
    inspector_name TEXT NOT NULL,
    notes          TEXT
);

CREATE TABLE IF NOT EXISTS production_requests (
    id                       INTEGER PRIMARY KEY,
    request_number           TEXT NOT NULL UNIQUE,
    distributor              TEXT NOT NULL,
    drug_name                TEXT NOT NULL,
    requested_quantity       INTEGER NOT NULL CHECK (requested_quantity > 0),
    status                   TEXT NOT NULL DEFAULT 'pending'
                             CHECK (status IN ('pending', 'approved', 'in_production', 'completed', 'cancelled')),
    notes                    TEXT,
    requested_at             DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    expected_completion_date DATETIME,
    actual_completion_date   DATETIME
);

CREATE TABLE IF NOT EXISTS qr_scans (
    id           INTEGER PRIMARY KEY,
    batch_number TEXT NOT NULL,
    drug_name    TEXT NOT NULL,
    manufacturer TEXT NOT NULL,
    verified     INTEGER NOT NULL DEFAULT 0,
    scanned_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
