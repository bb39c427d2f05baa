package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/outboundiq/leadpipe/internal/model"
	"github.com/outboundiq/leadpipe/internal/report"
)

// pgxDB is the subset of pgxpool.Pool the store uses; pgxmock satisfies it
// in tests.
type pgxDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	db pgxDB
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{db: pool}, nil
}

// newPostgresWithDB wires an arbitrary pgxDB; used by tests.
func newPostgresWithDB(db pgxDB) *PostgresStore {
	return &PostgresStore{db: db}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id              TEXT PRIMARY KEY,
	profile_count   INTEGER NOT NULL,
	directory_count INTEGER NOT NULL,
	status          TEXT NOT NULL DEFAULT 'running',
	summary         JSONB,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	completed_at    TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS leads (
	id         TEXT PRIMARY KEY,
	run_id     TEXT NOT NULL REFERENCES runs(id),
	lead_key   TEXT NOT NULL,
	lead       JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_leads_run_id ON leads(run_id);
CREATE INDEX IF NOT EXISTS idx_leads_lead_key ON leads(lead_key);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, profileCount, directoryCount int) (string, error) {
	id := uuid.New().String()
	_, err := s.db.Exec(ctx,
		`INSERT INTO runs (id, profile_count, directory_count, status, created_at) VALUES ($1, $2, $3, 'running', $4)`,
		id, profileCount, directoryCount, time.Now().UTC(),
	)
	if err != nil {
		return "", eris.Wrap(err, "postgres: insert run")
	}
	return id, nil
}

func (s *PostgresStore) CompleteRun(ctx context.Context, runID string, summary report.Summary) error {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal summary")
	}
	tag, err := s.db.Exec(ctx,
		`UPDATE runs SET status = 'complete', summary = $1, completed_at = $2 WHERE id = $3`,
		summaryJSON, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: run %s not found", runID)
	}
	return nil
}

func (s *PostgresStore) SaveLeads(ctx context.Context, runID string, leads []KeyedLead) error {
	now := time.Now().UTC()
	for _, kl := range leads {
		leadJSON, err := json.Marshal(kl.Lead)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal lead")
		}
		key := kl.Key
		if key == "" {
			key = uuid.New().String()
		}
		_, err = s.db.Exec(ctx,
			`INSERT INTO leads (id, run_id, lead_key, lead, created_at) VALUES ($1, $2, $3, $4, $5)`,
			uuid.New().String(), runID, key, leadJSON, now,
		)
		if err != nil {
			return eris.Wrap(err, "postgres: insert lead")
		}
	}
	return nil
}

func (s *PostgresStore) ListLeads(ctx context.Context, runID string) ([]model.UnifiedLead, error) {
	rows, err := s.db.Query(ctx,
		`SELECT lead FROM leads WHERE run_id = $1 ORDER BY created_at, id`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: query leads for run %s", runID)
	}
	defer rows.Close()

	var leads []model.UnifiedLead
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, eris.Wrap(err, "postgres: scan lead")
		}
		var lead model.UnifiedLead
		if err := json.Unmarshal(raw, &lead); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal lead")
		}
		leads = append(leads, lead)
	}
	return leads, eris.Wrap(rows.Err(), "postgres: iterate leads")
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRow(ctx,
		`SELECT id, profile_count, directory_count, status, summary, created_at, completed_at FROM runs WHERE id = $1`,
		runID,
	)

	var run Run
	var summaryJSON []byte
	var completedAt *time.Time
	if err := row.Scan(&run.ID, &run.ProfileCount, &run.DirectoryCount, &run.Status, &summaryJSON, &run.CreatedAt, &completedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, eris.Errorf("postgres: run %s not found", runID)
		}
		return nil, eris.Wrap(err, "postgres: scan run")
	}
	if len(summaryJSON) > 0 {
		var summary report.Summary
		if err := json.Unmarshal(summaryJSON, &summary); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal summary")
		}
		run.Summary = &summary
	}
	run.CompletedAt = completedAt
	return &run, nil
}
