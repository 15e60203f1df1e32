package crm

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const customersSchema = `
CREATE TABLE IF NOT EXISTS customers (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL UNIQUE,
	created_at TIMESTAMPTZ NOT NULL
)`

const ordersSchemaShared = `
CREATE TABLE IF NOT EXISTS orders (
	id           TEXT PRIMARY KEY,
	customer_id  TEXT NOT NULL,
	product_name TEXT NOT NULL,
	price        NUMERIC(10,2) NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL,
	CONSTRAINT valid_price CHECK (price > 0),
	CONSTRAINT fk_customer
		FOREIGN KEY (customer_id)
		REFERENCES customers(id)
		ON DELETE CASCADE
)`

const ordersSchemaSplit = `
CREATE TABLE IF NOT EXISTS orders (
	id           TEXT PRIMARY KEY,
	customer_id  TEXT NOT NULL,
	product_name TEXT NOT NULL,
	price        NUMERIC(10,2) NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL,
	CONSTRAINT valid_price CHECK (price > 0)
)`

const ordersCustomerIndex = `
CREATE INDEX IF NOT EXISTS idx_orders_customer_id ON orders(customer_id)`

// EnsureCustomerSchema runs the idempotent bootstrap for the customers table.
// Services call this before accepting traffic.
func EnsureCustomerSchema(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, customersSchema)
	return err
}

// EnsureOrderSchema bootstraps the orders table. In shared mode the customers
// table must already exist: the foreign key (with cascade) is declared here,
// so start the customer service first.
func EnsureOrderSchema(ctx context.Context, db *pgxpool.Pool, mode Mode) error {
	schema := ordersSchemaSplit
	if mode == ModeShared {
		schema = ordersSchemaShared
	}
	if _, err := db.Exec(ctx, schema); err != nil {
		return err
	}
	_, err := db.Exec(ctx, ordersCustomerIndex)
	return err
}
