package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Schema is the full database schema. Every statement is idempotent so it can
// be applied on each deploy.
const Schema = `
CREATE TABLE IF NOT EXISTS counters (
	name     TEXT PRIMARY KEY,
	sequence BIGINT NOT NULL CHECK (sequence >= 0)
);

INSERT INTO counters (name, sequence) VALUES
	('shoeId', 100),
	('requestId', 0),
	('donationId', 0),
	('orderId', 0)
ON CONFLICT (name) DO NOTHING;

CREATE TABLE IF NOT EXISTS users (
	id         UUID PRIMARY KEY,
	email      TEXT NOT NULL UNIQUE,
	first_name TEXT NOT NULL DEFAULT '',
	last_name  TEXT NOT NULL DEFAULT '',
	phone      TEXT NOT NULL DEFAULT '',
	bay_area   BOOLEAN NOT NULL DEFAULT FALSE,
	role       TEXT NOT NULL DEFAULT 'user',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS donations (
	id          UUID PRIMARY KEY,
	donation_id TEXT NOT NULL UNIQUE,
	kind        TEXT NOT NULL CHECK (kind IN ('shoe', 'money')),
	user_id     UUID,
	first_name  TEXT NOT NULL,
	last_name   TEXT NOT NULL DEFAULT '',
	email       TEXT NOT NULL,
	phone       TEXT NOT NULL DEFAULT '',
	address     TEXT NOT NULL DEFAULT '',
	amount      NUMERIC(10, 2) NOT NULL DEFAULT 0 CHECK (amount >= 0),
	admin_notes TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS donation_items (
	id          UUID PRIMARY KEY,
	donation_id UUID NOT NULL REFERENCES donations(id) ON DELETE CASCADE,
	brand       TEXT NOT NULL,
	model_name  TEXT NOT NULL DEFAULT '',
	size        TEXT NOT NULL,
	gender      TEXT NOT NULL DEFAULT '',
	sport       TEXT NOT NULL DEFAULT '',
	condition   TEXT NOT NULL DEFAULT '',
	quantity    INTEGER NOT NULL CHECK (quantity > 0)
);

CREATE TABLE IF NOT EXISTS shoes (
	id              UUID PRIMARY KEY,
	shoe_id         BIGINT NOT NULL UNIQUE,
	brand           TEXT NOT NULL,
	model_name      TEXT NOT NULL DEFAULT '',
	size            TEXT NOT NULL,
	gender          TEXT NOT NULL DEFAULT '',
	sport           TEXT NOT NULL DEFAULT '',
	condition       TEXT NOT NULL DEFAULT '',
	status          TEXT NOT NULL DEFAULT 'available',
	inventory_count INTEGER NOT NULL DEFAULT 1 CHECK (inventory_count >= 0),
	donation_id     UUID,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_shoes_status ON shoes(status);

CREATE TABLE IF NOT EXISTS requests (
	id              UUID PRIMARY KEY,
	request_id      TEXT NOT NULL UNIQUE,
	user_id         UUID NOT NULL,
	first_name      TEXT NOT NULL,
	last_name       TEXT NOT NULL,
	email           TEXT NOT NULL,
	phone           TEXT NOT NULL,
	delivery_method TEXT NOT NULL,
	address_line1   TEXT NOT NULL DEFAULT '',
	address_line2   TEXT NOT NULL DEFAULT '',
	city            TEXT NOT NULL DEFAULT '',
	state           TEXT NOT NULL DEFAULT '',
	zip_code        TEXT NOT NULL DEFAULT '',
	shipping_fee    NUMERIC(10, 2) NOT NULL DEFAULT 0,
	total_cost      NUMERIC(10, 2) NOT NULL DEFAULT 0,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_requests_user_id ON requests(user_id);

CREATE TABLE IF NOT EXISTS request_items (
	id           UUID PRIMARY KEY,
	request_id   UUID NOT NULL REFERENCES requests(id) ON DELETE CASCADE,
	inventory_id UUID NOT NULL,
	shoe_id      BIGINT NOT NULL,
	brand        TEXT NOT NULL DEFAULT '',
	name         TEXT NOT NULL DEFAULT '',
	size         TEXT NOT NULL DEFAULT '',
	gender       TEXT NOT NULL DEFAULT '',
	sport        TEXT NOT NULL DEFAULT '',
	condition    TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_request_items_request_id ON request_items(request_id);

CREATE TABLE IF NOT EXISTS status_history (
	id          BIGSERIAL PRIMARY KEY,
	entity_kind TEXT NOT NULL CHECK (entity_kind IN ('request', 'donation')),
	entity_id   UUID NOT NULL,
	status      TEXT NOT NULL,
	note        TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_status_history_entity ON status_history(entity_kind, entity_id, id);
`

// Migrate applies the schema to the database.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	logger.Info().Msg("applying database schema")

	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	logger.Info().Msg("database schema applied")
	return nil
}
