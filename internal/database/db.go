package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/gayanfadna-spec/OMS-backend/internal/config"
	"github.com/gayanfadna-spec/OMS-backend/pkg/logger"
)

// Database represents a database connection
type Database struct {
	DB     *sqlx.DB
	logger logger.Logger
}

// New creates a new database connection
func New(cfg *config.Config, logger logger.Logger) (*Database, error) {
	db, err := sqlx.Connect("postgres", cfg.GetDBConnString())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	logger.Info("Connected to database", "host", cfg.DB.Host, "database", cfg.DB.Name)

	return &Database{
		DB:     db,
		logger: logger,
	}, nil
}

// Ping checks the database connection
func (d *Database) Ping(ctx context.Context) error {
	return d.DB.PingContext(ctx)
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.DB.Close()
}

// RunMigrations creates the schema. Tables are created directly here; a
// dedicated migration tool is overkill at this size.
func (d *Database) RunMigrations() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(50) PRIMARY KEY,
		name VARCHAR(200) NOT NULL,
		username VARCHAR(100) UNIQUE,
		phone VARCHAR(50) NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		email VARCHAR(200) NOT NULL UNIQUE,
		password VARCHAR(200) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'Agent',
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS customers (
		id VARCHAR(50) PRIMARY KEY,
		name VARCHAR(200) NOT NULL,
		phone VARCHAR(50) NOT NULL UNIQUE,
		phone2 VARCHAR(50) NOT NULL DEFAULT '',
		address TEXT NOT NULL,
		city VARCHAR(100) NOT NULL DEFAULT '',
		country VARCHAR(100) NOT NULL DEFAULT 'Sri Lanka',
		email VARCHAR(200) NOT NULL DEFAULT '',
		order_history TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS products (
		id VARCHAR(50) PRIMARY KEY,
		name VARCHAR(300) NOT NULL,
		price DECIMAL(10, 2) NOT NULL,
		weight DECIMAL(10, 2) NOT NULL DEFAULT 0,
		unit VARCHAR(20) NOT NULL DEFAULT 'g',
		description TEXT NOT NULL DEFAULT '',
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_products_name ON products(name);

	CREATE TABLE IF NOT EXISTS orders (
		id VARCHAR(50) PRIMARY KEY,
		customer_id VARCHAR(50) NOT NULL,
		agent_id VARCHAR(50) NOT NULL,
		items JSONB NOT NULL DEFAULT '[]',
		total_amount DECIMAL(12, 2) NOT NULL,
		discount_amount DECIMAL(12, 2) NOT NULL DEFAULT 0,
		delivery_charge DECIMAL(12, 2) NOT NULL DEFAULT 0,
		final_amount DECIMAL(12, 2) NOT NULL,
		remark TEXT NOT NULL DEFAULT '',
		additional_remark TEXT NOT NULL DEFAULT '',
		status VARCHAR(20) NOT NULL DEFAULT 'Pending',
		payment_status VARCHAR(20) NOT NULL DEFAULT 'COD',
		edited_by JSONB NOT NULL DEFAULT '[]',
		edit_request JSONB NOT NULL DEFAULT '{"pending": false}',
		is_downloaded BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_orders_customer_id ON orders(customer_id);
	CREATE INDEX IF NOT EXISTS idx_orders_agent_id ON orders(agent_id);
	CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

	CREATE TABLE IF NOT EXISTS report_logs (
		id VARCHAR(50) PRIMARY KEY,
		generated_by VARCHAR(50) NOT NULL,
		start_date TIMESTAMP NOT NULL,
		end_date TIMESTAMP NOT NULL,
		order_count INT NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'Success',
		payment_status VARCHAR(20) NOT NULL DEFAULT 'All',
		agent_id VARCHAR(50),
		is_dispatch BOOLEAN NOT NULL DEFAULT FALSE,
		generated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	-- Outbox table for message publishing
	CREATE TABLE IF NOT EXISTS outbox_messages (
		id SERIAL PRIMARY KEY,
		aggregate_type VARCHAR(50) NOT NULL,
		aggregate_id VARCHAR(50) NOT NULL,
		event_type VARCHAR(50) NOT NULL,
		payload JSONB NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		processed_at TIMESTAMP,
		processing_attempts INT NOT NULL DEFAULT 0,
		last_error TEXT,
		status VARCHAR(20) NOT NULL DEFAULT 'pending'
	);

	CREATE INDEX IF NOT EXISTS idx_outbox_status ON outbox_messages(status);
	CREATE INDEX IF NOT EXISTS idx_outbox_aggregate ON outbox_messages(aggregate_type, aggregate_id);
	`

	_, err := d.DB.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.logger.Info("Database migrations completed successfully")
	return nil
}
