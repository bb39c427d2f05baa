// Package dedupe collapses leads sharing a composite key, keeping the
// first occurrence. Unlike the merge engine it only discards, never
// combines.
package dedupe

import (
	"strings"

	"go.uber.org/zap"

	"github.com/outboundiq/leadpipe/internal/matcher"
	"github.com/outboundiq/leadpipe/internal/model"
)

const keySeparator = "|"

// Deduplicate returns the leads with one record per distinct composite
// key, preserving first-seen order. Records whose configured key fields
// are all absent produce an empty key and are always retained.
func Deduplicate(leads []model.UnifiedLead, keys []string) []model.UnifiedLead {
	seen := make(map[string]bool, len(leads))
	out := make([]model.UnifiedLead, 0, len(leads))
	dropped := 0

	for _, lead := range leads {
		key := CompositeKey(lead, keys)
		if key == "" {
			out = append(out, lead)
			continue
		}
		if seen[key] {
			dropped++
			continue
		}
		seen[key] = true
		out = append(out, lead)
	}

	if dropped > 0 {
		zap.L().Info("dedupe: dropped duplicates",
			zap.Int("input", len(leads)),
			zap.Int("dropped", dropped),
			zap.Strings("keys", keys),
		)
	}

	return out
}

// CompositeKey joins the resolved, present key-field values with a fixed
// separator and lower-cases the result. The domain field is recomputed
// through the matcher rather than read as a stored literal.
func CompositeKey(lead model.UnifiedLead, keys []string) string {
	var parts []string
	for _, k := range keys {
		if v := resolveField(lead, k); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.ToLower(strings.Join(parts, keySeparator))
}

func resolveField(lead model.UnifiedLead, key string) string {
	switch key {
	case "email":
		return lead.Email
	case "domain":
		if lead.Email != "" {
			return matcher.ExtractDomain(lead.Email)
		}
		return matcher.ExtractDomain(lead.Domain)
	case "company_name":
		return lead.CompanyName
	case "phone":
		return lead.Phone
	case "first_name":
		return lead.FirstName
	case "last_name":
		return lead.LastName
	default:
		zap.L().Warn("dedupe: unknown key field", zap.String("key", key))
		return ""
	}
}
