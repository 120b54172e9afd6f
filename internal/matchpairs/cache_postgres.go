package matchpairs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// PostgresPairCache implements PairCache using PostgreSQL, replacing the
// opportunity-persistence role the same driver previously served: match
// decisions, not opportunities, are the durable state this module needs.
type PostgresPairCache struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Logger   *zap.Logger
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS fuzzy_match_decisions (
	event_a_id TEXT NOT NULL,
	event_b_id TEXT NOT NULL,
	confirmed  BOOLEAN NOT NULL,
	decided_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (event_a_id, event_b_id)
)`

// NewPostgresPairCache opens a PostgreSQL connection and ensures the
// decisions table exists.
func NewPostgresPairCache(cfg *PostgresConfig) (*PostgresPairCache, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(createTableSQL); err != nil {
		return nil, fmt.Errorf("ensure decisions table: %w", err)
	}

	cfg.Logger.Info("postgres-pair-cache-connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return &PostgresPairCache{db: db, logger: cfg.Logger}, nil
}

func (p *PostgresPairCache) RecordConfirmed(ctx context.Context, eventAID, eventBID string) error {
	return p.upsert(ctx, eventAID, eventBID, true)
}

func (p *PostgresPairCache) RecordRejected(ctx context.Context, eventAID, eventBID string) error {
	return p.upsert(ctx, eventAID, eventBID, false)
}

func (p *PostgresPairCache) upsert(ctx context.Context, eventAID, eventBID string, confirmed bool) error {
	query := `
		INSERT INTO fuzzy_match_decisions (event_a_id, event_b_id, confirmed)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_a_id, event_b_id) DO UPDATE SET confirmed = EXCLUDED.confirmed, decided_at = now()
	`
	_, err := p.db.ExecContext(ctx, query, eventAID, eventBID, confirmed)
	if err != nil {
		return fmt.Errorf("record decision: %w", err)
	}

	p.logger.Debug("fuzzy-pair-decision-stored",
		zap.String("event-a", eventAID), zap.String("event-b", eventBID), zap.Bool("confirmed", confirmed))
	return nil
}

func (p *PostgresPairCache) Decision(ctx context.Context, eventAID, eventBID string) (bool, bool, error) {
	var confirmed bool
	err := p.db.QueryRowContext(ctx,
		`SELECT confirmed FROM fuzzy_match_decisions WHERE event_a_id = $1 AND event_b_id = $2`,
		eventAID, eventBID,
	).Scan(&confirmed)

	if errors.Is(err, sql.ErrNoRows) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("query decision: %w", err)
	}

	return true, confirmed, nil
}

func (p *PostgresPairCache) Close() error {
	p.logger.Info("closing-postgres-pair-cache")
	return p.db.Close()
}
