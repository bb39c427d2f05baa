// Package pipeline orchestrates the batch lead flow: merge, enrichment,
// validation, scoring, threshold filtering, deduplication, and export.
package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/outboundiq/leadpipe/internal/config"
	"github.com/outboundiq/leadpipe/internal/dedupe"
	"github.com/outboundiq/leadpipe/internal/enrich"
	"github.com/outboundiq/leadpipe/internal/export"
	"github.com/outboundiq/leadpipe/internal/matcher"
	"github.com/outboundiq/leadpipe/internal/merge"
	"github.com/outboundiq/leadpipe/internal/model"
	"github.com/outboundiq/leadpipe/internal/report"
	"github.com/outboundiq/leadpipe/internal/score"
	"github.com/outboundiq/leadpipe/internal/store"
	"github.com/outboundiq/leadpipe/internal/validate"
)

// Pipeline runs the full batch over two raw record sets.
type Pipeline struct {
	cfg      *config.Config
	store    store.Store
	enricher *enrich.Enricher
	scorer   score.Scorer
}

// Result is the complete outcome of one batch run.
type Result struct {
	RunID     string
	Leads     []model.UnifiedLead
	Rejected  []model.UnifiedLead
	Instantly []export.InstantlyRecord
	Smartlead []export.SmartleadRecord
	Summary   report.Summary
	Report    string
}

// New creates a Pipeline. The store may be nil to skip persistence.
func New(cfg *config.Config, st store.Store, enricher *enrich.Enricher) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		store:    st,
		enricher: enricher,
		scorer:   score.New(cfg.Score),
	}
}

// Run executes the batch. It always produces a summary and report when it
// returns successfully, even if every lead was rejected. The only fatal
// conditions are empty input, an invalid configuration, and cancellation.
func (p *Pipeline) Run(ctx context.Context, profiles []model.ProfileRecord, directories []model.DirectoryRecord) (*Result, error) {
	log := zap.L()

	if len(profiles) == 0 && len(directories) == 0 {
		return nil, eris.New("pipeline: no input records supplied for either source")
	}
	if err := p.cfg.Validate(); err != nil {
		return nil, err
	}

	result := &Result{}
	if p.store != nil {
		runID, err := p.store.CreateRun(ctx, len(profiles), len(directories))
		if err != nil {
			log.Warn("pipeline: failed to create run record", zap.Error(err))
		} else {
			result.RunID = runID
		}
	}

	// Merge is single-flow so the consumed-domain tracking stays
	// deterministic.
	engine := merge.New(matcher.NewDomainThenFuzzy(p.cfg.Pipeline.FuzzyMatchThreshold))
	leads := engine.Merge(profiles, directories)

	// Per-lead stages are independent; fan out with a bound, writing each
	// lead back at its own index to preserve input order.
	workers := p.cfg.Pipeline.MaxConcurrentLeads
	if workers <= 0 {
		workers = 1
	}
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range leads {
		g.Go(func() error {
			if gCtx.Err() != nil {
				return nil
			}
			p.enricher.Enrich(gCtx, &leads[i])
			validate.Validate(&leads[i])
			if leads[i].ValidationStatus == model.StatusValid {
				s := p.scorer.Score(leads[i])
				leads[i].QualityScore = &s
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "pipeline: batch cancelled")
	}

	// Partition and filter.
	var passed []model.UnifiedLead
	belowThreshold := 0
	for _, l := range leads {
		if l.ValidationStatus == model.StatusInvalid {
			result.Rejected = append(result.Rejected, l)
			continue
		}
		if l.Score() < p.cfg.Pipeline.MinQualityScore {
			belowThreshold++
			continue
		}
		passed = append(passed, l)
	}

	deduped := dedupe.Deduplicate(passed, p.cfg.Dedupe.Keys)
	duplicates := len(passed) - len(deduped)
	result.Leads = deduped

	switch p.cfg.Export.Target {
	case config.TargetInstantly:
		result.Instantly = export.BuildInstantly(deduped, p.cfg.Export.Vertical)
	case config.TargetSmartlead:
		result.Smartlead = export.BuildSmartlead(deduped, p.cfg.Export.Vertical)
	case config.TargetBoth:
		result.Instantly = export.BuildInstantly(deduped, p.cfg.Export.Vertical)
		result.Smartlead = export.BuildSmartlead(deduped, p.cfg.Export.Vertical)
	}

	result.Summary = report.BuildSummary(leads, deduped, report.Counts{
		ProfileInput:      len(profiles),
		DirectoryInput:    len(directories),
		BelowThreshold:    belowThreshold,
		DuplicatesDropped: duplicates,
	}, p.cfg.Export.GroupBy)
	result.Report = report.FormatReport(result.Summary)

	p.persist(ctx, result)

	log.Info("pipeline: batch complete",
		zap.Int("profiles", len(profiles)),
		zap.Int("directories", len(directories)),
		zap.Int("exported", len(deduped)),
		zap.Int("rejected", len(result.Rejected)),
		zap.Int("below_threshold", belowThreshold),
		zap.Int("duplicates", duplicates),
	)

	return result, nil
}

// persist writes the leads dump and run summary. Store failures degrade to
// warnings; the batch result stands on its own.
func (p *Pipeline) persist(ctx context.Context, result *Result) {
	if p.store == nil || result.RunID == "" {
		return
	}

	keyed := make([]store.KeyedLead, len(result.Leads))
	for i, l := range result.Leads {
		keyed[i] = store.KeyedLead{
			Key:  dedupe.CompositeKey(l, p.cfg.Dedupe.Keys),
			Lead: l,
		}
	}
	if err := p.store.SaveLeads(ctx, result.RunID, keyed); err != nil {
		zap.L().Warn("pipeline: failed to save leads dump", zap.Error(err))
	}
	if err := p.store.CompleteRun(ctx, result.RunID, result.Summary); err != nil {
		zap.L().Warn("pipeline: failed to complete run record", zap.Error(err))
	}
}
