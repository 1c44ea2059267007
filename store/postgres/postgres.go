package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chainroute/chainroute/store"
	"github.com/chainroute/chainroute/types"
	"github.com/juju/errors"
	_ "github.com/lib/pq"
)

var (
	_ store.Store = &pgStore{}
)

// Config holds PostgreSQL connection configuration
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string // disable, require, verify-ca, verify-full
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Database: "chainroute",
		SSLMode:  "disable",
	}
}

// pgStore implements the snapshot Store interface using PostgreSQL
type pgStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL store with the given configuration
func NewPostgresStore(config *Config) (store.Store, error) {
	if config == nil {
		config = DefaultConfig()
	}

	db, err := sql.Open("postgres", config.DSN())
	if err != nil {
		return nil, errors.Annotatef(err, "failed to open postgres connection")
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Annotatef(err, "failed to ping postgres")
	}

	s := &pgStore{db: db}

	if err := s.initTable(context.Background()); err != nil {
		db.Close()
		return nil, errors.Annotatef(err, "failed to initialize table")
	}

	return s, nil
}

// NewPostgresStoreWithDB creates a new PostgreSQL store with an existing database connection
func NewPostgresStoreWithDB(db *sql.DB) (store.Store, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}

	s := &pgStore{db: db}

	if err := s.initTable(context.Background()); err != nil {
		return nil, errors.Annotatef(err, "failed to initialize table")
	}

	return s, nil
}

// initTable creates the route_snapshots table if it doesn't exist
func (p *pgStore) initTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS route_snapshots (
			id VARCHAR(255) NOT NULL,
			value BYTEA,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (id)
		);
	`

	_, err := p.db.ExecContext(ctx, query)
	if err != nil {
		return errors.Annotatef(err, "failed to create table")
	}

	return nil
}

func (p *pgStore) SaveRoute(ctx context.Context, route *types.Route) error {
	b, err := json.Marshal(route)
	if err != nil {
		return errors.Trace(err)
	}

	query := `
		INSERT INTO route_snapshots (id, value, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (id)
		DO UPDATE SET value = EXCLUDED.value, updated_at = CURRENT_TIMESTAMP
	`

	if _, err := p.db.ExecContext(ctx, query, route.ID, b); err != nil {
		return errors.Annotatef(err, "failed to save route %s", route.ID)
	}

	return nil
}

func (p *pgStore) LoadRoute(ctx context.Context, id string) (*types.Route, error) {
	query := `SELECT value FROM route_snapshots WHERE id = $1`

	var value []byte
	err := p.db.QueryRowContext(ctx, query, id).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // no snapshot for this id
		}
		return nil, errors.Annotatef(err, "failed to load route %s", id)
	}

	route := &types.Route{}
	if err := json.Unmarshal(value, route); err != nil {
		return nil, errors.Annotatef(err, "failed to decode route %s", id)
	}

	return route, nil
}

func (p *pgStore) DeleteRoute(ctx context.Context, id string) error {
	query := `DELETE FROM route_snapshots WHERE id = $1`

	if _, err := p.db.ExecContext(ctx, query, id); err != nil {
		return errors.Annotatef(err, "failed to delete route %s", id)
	}

	return nil
}

func (p *pgStore) ListRoutes(ctx context.Context) ([]*types.Route, error) {
	query := `SELECT value FROM route_snapshots ORDER BY id`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Annotatef(err, "failed to list routes")
	}
	defer rows.Close()

	routes := make([]*types.Route, 0)
	for rows.Next() {
		var value []byte
		if err := rows.Scan(&value); err != nil {
			return nil, errors.Annotatef(err, "failed to scan route")
		}

		route := &types.Route{}
		if err := json.Unmarshal(value, route); err != nil {
			return nil, errors.Annotatef(err, "failed to decode route")
		}
		routes = append(routes, route)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Annotatef(err, "error iterating rows")
	}

	return routes, nil
}

// Close closes the database connection
func (p *pgStore) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// DSN builds a PostgreSQL connection string from Config
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("host cannot be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}
	if c.User == "" {
		return errors.New("user cannot be empty")
	}
	if c.Database == "" {
		return errors.New("database cannot be empty")
	}
	if c.SSLMode == "" {
		c.SSLMode = "disable"
	}
	validSSLModes := map[string]bool{
		"disable":     true,
		"require":     true,
		"verify-ca":   true,
		"verify-full": true,
	}
	if !validSSLModes[c.SSLMode] {
		return errors.Errorf("invalid sslmode: %s", c.SSLMode)
	}
	return nil
}

// ParseDSN parses a PostgreSQL connection string into a Config
// Format: "host=localhost port=5432 user=postgres password=secret dbname=chainroute sslmode=disable"
func ParseDSN(dsn string) (*Config, error) {
	config := DefaultConfig()

	parts := strings.Fields(dsn)
	for _, part := range parts {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key, value := kv[0], kv[1]
		switch key {
		case "host":
			config.Host = value
		case "port":
			var port int
			if _, err := fmt.Sscanf(value, "%d", &port); err == nil {
				config.Port = port
			}
		case "user":
			config.User = value
		case "password":
			config.Password = value
		case "dbname":
			config.Database = value
		case "sslmode":
			config.SSLMode = value
		}
	}

	return config, config.Validate()
}
