// Package enrich fills gaps on unified leads: email inference, phone and
// location normalization, company-size parsing, and a best-effort MX
// liveness check. Every operation is idempotent and degrades locally; a
// single failed field never aborts the record or the batch.
package enrich

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/outboundiq/leadpipe/internal/config"
	"github.com/outboundiq/leadpipe/internal/model"
)

// Enricher fills missing fields on unified leads without overwriting
// present values.
type Enricher struct {
	resolver  MXResolver
	limiter   *rate.Limiter
	mxTimeout time.Duration
}

// New creates an Enricher backed by the system DNS resolver.
func New(cfg config.PipelineConfig) *Enricher {
	return NewWithResolver(cfg, NewNetResolver())
}

// NewWithResolver creates an Enricher with an injected MX resolver.
// Tests use this to avoid real DNS traffic.
func NewWithResolver(cfg config.PipelineConfig, resolver MXResolver) *Enricher {
	timeout := time.Duration(cfg.MXTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	limit := cfg.MXRateLimit
	if limit <= 0 {
		limit = 20
	}
	return &Enricher{
		resolver:  resolver,
		limiter:   rate.NewLimiter(rate.Limit(limit), 1),
		mxTimeout: timeout,
	}
}

// Enrich fills missing fields in place. Re-running on an already-enriched
// lead changes nothing that is already set.
func (e *Enricher) Enrich(ctx context.Context, lead *model.UnifiedLead) {
	if lead.Email == "" {
		if email := InferEmail(lead.FirstName, lead.LastName, lead.Domain); email != "" {
			lead.Email = email
			lead.EmailInferred = true
		}
	}

	if lead.CompanySizeRange != "" {
		lead.CompanySizeRange = ParseCompanySize(lead.CompanySizeRange)
	}

	if lead.Phone != "" {
		lead.Phone = StandardizePhone(lead.Phone)
	}

	if lead.Location != "" {
		lead.Location = StandardizeLocation(lead.Location)
	}

	if lead.Domain != "" && !lead.MXChecked {
		lead.HasMailExchange = e.checkMX(ctx, lead.Domain)
		lead.MXChecked = true
	}

	if lead.EnrichedAt.IsZero() {
		lead.EnrichedAt = time.Now().UTC()
	}
}

// InferEmail builds the deterministic firstname.lastname@domain pattern.
// Non-alphabetic characters are stripped from the name parts. Returns ""
// when any piece is missing; no permutation search is attempted.
func InferEmail(firstName, lastName, domain string) string {
	first := alphaOnly(firstName)
	last := alphaOnly(lastName)
	if first == "" || last == "" || domain == "" {
		return ""
	}
	return first + "." + last + "@" + strings.ToLower(domain)
}

func alphaOnly(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// checkMX performs the rate-limited DNS MX lookup. Any failure, including
// timeout or a domain with no MX records, degrades to false.
func (e *Enricher) checkMX(ctx context.Context, domain string) bool {
	if err := e.limiter.Wait(ctx); err != nil {
		zap.L().Warn("enrich: mx rate limiter interrupted", zap.String("domain", domain), zap.Error(err))
		return false
	}

	lookupCtx, cancel := context.WithTimeout(ctx, e.mxTimeout)
	defer cancel()

	records, err := e.resolver.LookupMX(lookupCtx, domain)
	if err != nil {
		zap.L().Warn("enrich: mx lookup failed", zap.String("domain", domain), zap.Error(err))
		return false
	}
	return len(records) > 0
}
