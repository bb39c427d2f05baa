// Package store persists run records and the flat enriched-leads dump.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/outboundiq/leadpipe/internal/config"
	"github.com/outboundiq/leadpipe/internal/model"
	"github.com/outboundiq/leadpipe/internal/report"
)

// KeyedLead pairs a lead with its flat dump key (the dedupe composite key,
// or a generated ID when the key is empty).
type KeyedLead struct {
	Key  string
	Lead model.UnifiedLead
}

// Run is a stored pipeline run.
type Run struct {
	ID             string
	ProfileCount   int
	DirectoryCount int
	Status         string
	Summary        *report.Summary
	CreatedAt      time.Time
	CompletedAt    *time.Time
}

// Store persists runs and their enriched-lead dumps.
type Store interface {
	Migrate(ctx context.Context) error
	CreateRun(ctx context.Context, profileCount, directoryCount int) (string, error)
	CompleteRun(ctx context.Context, runID string, summary report.Summary) error
	SaveLeads(ctx context.Context, runID string, leads []KeyedLead) error
	ListLeads(ctx context.Context, runID string) ([]model.UnifiedLead, error)
	GetRun(ctx context.Context, runID string) (*Run, error)
	Close() error
}

// Open creates a store for the configured driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLite(cfg.SQLitePath)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
