package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConfig holds the connection settings for the Postgres backend.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// PostgresBackend keeps each document as a row in the documents table. See
// migrations/001_initial_schema.sql.
type PostgresBackend struct {
	pool *pgxpool.Pool
}

func NewPostgresBackend(config PostgresConfig) (*PostgresBackend, error) {
	cfg, err := pgxpool.ParseConfig(fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		config.User, config.Password, config.Host, config.Port, config.DBName, config.SSLMode,
	))
	if err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating connection pool: %w", err)
	}

	return &PostgresBackend{pool: pool}, nil
}

func (p *PostgresBackend) Load(ctx context.Context, key string) ([]byte, error) {
	query := `
		SELECT data
		FROM documents
		WHERE key = $1`

	var data []byte
	err := p.pool.QueryRow(ctx, query, key).Scan(&data)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error loading document %s: %w", key, err)
	}
	return data, nil
}

func (p *PostgresBackend) Save(ctx context.Context, key string, data []byte) error {
	query := `
		INSERT INTO documents (key, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET data = EXCLUDED.data, updated_at = now()`

	_, err := p.pool.Exec(ctx, query, key, data)
	if err != nil {
		return fmt.Errorf("error saving document %s: %w", key, err)
	}
	return nil
}

// Close releases the connection pool.
func (p *PostgresBackend) Close() {
	p.pool.Close()
}
