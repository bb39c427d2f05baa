// Package merge pairs records across the profile and directory sources,
// producing one unified lead per distinct business.
package merge

import (
	"go.uber.org/zap"

	"github.com/outboundiq/leadpipe/internal/matcher"
	"github.com/outboundiq/leadpipe/internal/model"
)

// Engine pairs profile records with directory records using a pluggable
// match strategy.
type Engine struct {
	strategy matcher.Strategy
}

// New creates a merge engine. A nil strategy uses the default
// domain-then-fuzzy policy.
func New(strategy matcher.Strategy) *Engine {
	if strategy == nil {
		strategy = matcher.NewDomainThenFuzzy(matcher.DefaultThreshold)
	}
	return &Engine{strategy: strategy}
}

// Merge produces exactly one UnifiedLead per distinct business. Profile
// records are iterated first (they carry decision-maker identity); each is
// paired with at most one directory record. Directory records left
// unconsumed become directory-only leads. Every input record contributes
// to exactly one lead.
func (e *Engine) Merge(profiles []model.ProfileRecord, directories []model.DirectoryRecord) []model.UnifiedLead {
	log := zap.L()

	candidates := make([]matcher.Candidate, len(directories))
	for i, d := range directories {
		candidates[i] = matcher.Candidate{
			Domain: matcher.ExtractDomain(d.Website),
			Name:   d.Name,
		}
	}

	consumed := make(map[int]bool, len(directories))
	leads := make([]model.UnifiedLead, 0, len(profiles)+len(directories))
	matchedPairs := 0

	for _, p := range profiles {
		profileDomain := matcher.ExtractDomain(p.CompanyURL)

		matchIdx := -1
		var method matcher.Method
		for i, c := range candidates {
			if consumed[i] {
				continue
			}
			if m := e.strategy.Match(profileDomain, p.CompanyName, c); m != matcher.MethodNone {
				matchIdx = i
				method = m
				break
			}
		}

		if matchIdx < 0 {
			leads = append(leads, fromProfile(p, profileDomain))
			continue
		}

		consumed[matchIdx] = true
		matchedPairs++
		leads = append(leads, merged(p, directories[matchIdx], profileDomain, candidates[matchIdx].Domain))
		log.Debug("merge: paired records",
			zap.String("company", p.CompanyName),
			zap.String("directory_name", directories[matchIdx].Name),
			zap.String("method", string(method)),
		)
	}

	for i, d := range directories {
		if consumed[i] {
			continue
		}
		leads = append(leads, fromDirectory(d, candidates[i].Domain))
	}

	log.Info("merge: complete",
		zap.Int("profiles", len(profiles)),
		zap.Int("directories", len(directories)),
		zap.Int("matched_pairs", matchedPairs),
		zap.Int("leads", len(leads)),
	)

	return leads
}

// fromProfile builds a profile-only lead.
func fromProfile(p model.ProfileRecord, domain string) model.UnifiedLead {
	return model.UnifiedLead{
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		CompanyName:      p.CompanyName,
		JobTitle:         p.JobTitle,
		Domain:           domain,
		Phone:            p.Phone,
		Location:         p.Location,
		CompanySizeRange: p.CompanySize,
		ProfileURL:       p.ProfileURL,
		RecentActivity:   p.RecentActivity,
		LeadSource:       model.SourceProfileOnly,
		ValidationStatus: model.StatusUnvalidated,
	}
}

// fromDirectory builds a directory-only lead. The directory business name
// serves as the company name.
func fromDirectory(d model.DirectoryRecord, domain string) model.UnifiedLead {
	return model.UnifiedLead{
		CompanyName:      d.Name,
		Domain:           domain,
		Phone:            d.Phone,
		Location:         d.Address,
		Rating:           d.Rating,
		ReviewCount:      d.ReviewCount,
		MapURL:           d.MapURL,
		Category:         d.Category,
		LeadSource:       model.SourceDirectoryOnly,
		ValidationStatus: model.StatusUnvalidated,
	}
}

// merged combines a matched pair. The directory side wins phone, location,
// rating, review count, and map URL when present; profile identity fields
// are retained unconditionally.
func merged(p model.ProfileRecord, d model.DirectoryRecord, profileDomain, dirDomain string) model.UnifiedLead {
	domain := profileDomain
	if domain == "" {
		domain = dirDomain
	}

	lead := model.UnifiedLead{
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		CompanyName:      p.CompanyName,
		JobTitle:         p.JobTitle,
		Domain:           domain,
		Phone:            firstNonEmpty(d.Phone, p.Phone),
		Location:         firstNonEmpty(d.Address, p.Location),
		CompanySizeRange: p.CompanySize,
		Rating:           d.Rating,
		ReviewCount:      d.ReviewCount,
		MapURL:           d.MapURL,
		ProfileURL:       p.ProfileURL,
		RecentActivity:   p.RecentActivity,
		Category:         d.Category,
		LeadSource:       model.SourceMerged,
		ValidationStatus: model.StatusUnvalidated,
	}
	if lead.CompanyName == "" {
		lead.CompanyName = d.Name
	}
	return lead
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
