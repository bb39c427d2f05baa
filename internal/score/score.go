// Package score computes the deterministic 0-100 lead quality score.
package score

import (
	"github.com/outboundiq/leadpipe/internal/config"
	"github.com/outboundiq/leadpipe/internal/model"
	"github.com/outboundiq/leadpipe/internal/validate"
)

// DefaultWeights returns the inherited additive weights. The raw sum
// exceeds 100; Score caps the total.
func DefaultWeights() config.ScoreWeights {
	return config.ScoreWeights{
		ValidEmail:       40,
		NonInferredEmail: 10,
		NonRoleEmail:     5,
		CompanyName:      10,
		Domain:           10,
		Phone:            10,
		FullName:         5,
		HighRating:       8,
		ReviewVolume:     7,
		ProfileIdentity:  5,
		RecentActivity:   5,
		MergedSources:    5,
		MailExchange:     5,
		MinRating:        4.0,
		MinReviews:       10,
	}
}

// Scorer computes quality scores from configurable weights.
type Scorer struct {
	w config.ScoreWeights
}

// New creates a Scorer. Zero-valued weights fall back to the defaults.
func New(w config.ScoreWeights) Scorer {
	if w == (config.ScoreWeights{}) {
		w = DefaultWeights()
	}
	return Scorer{w: w}
}

// Score computes the additive quality score for a validated lead. The
// result is deterministic for identical input and clamped to [0,100].
// Calling Score on an unvalidated lead is a programming error and panics.
func (s Scorer) Score(lead model.UnifiedLead) int {
	if lead.ValidationStatus == model.StatusUnvalidated {
		panic("score: lead has not been validated")
	}

	total := 0

	if lead.Email != "" && lead.ValidationStatus == model.StatusValid {
		total += s.w.ValidEmail
		if !lead.EmailInferred {
			total += s.w.NonInferredEmail
		}
		if !validate.IsRoleBased(lead.Email) {
			total += s.w.NonRoleEmail
		}
	}

	if lead.CompanyName != "" {
		total += s.w.CompanyName
	}
	if lead.Domain != "" {
		total += s.w.Domain
	}
	if lead.Phone != "" {
		total += s.w.Phone
	}
	if lead.FirstName != "" && lead.LastName != "" {
		total += s.w.FullName
	}
	if lead.Rating != nil && *lead.Rating >= s.w.MinRating {
		total += s.w.HighRating
	}
	if lead.ReviewCount != nil && *lead.ReviewCount >= s.w.MinReviews {
		total += s.w.ReviewVolume
	}
	if lead.ProfileURL != "" {
		total += s.w.ProfileIdentity
	}
	if lead.RecentActivity {
		total += s.w.RecentActivity
	}
	if lead.LeadSource == model.SourceMerged {
		total += s.w.MergedSources
	}
	if lead.HasMailExchange {
		total += s.w.MailExchange
	}

	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}
	return total
}
