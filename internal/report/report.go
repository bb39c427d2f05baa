// Package report builds the batch summary and renders it for humans and
// machines.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/outboundiq/leadpipe/internal/model"
)

// Score bucket boundaries.
const (
	highScoreFloor   = 80
	mediumScoreFloor = 50
)

// Summary aggregates batch statistics for the run report.
type Summary struct {
	ProfileInput   int `yaml:"profile_input" json:"profile_input"`
	DirectoryInput int `yaml:"directory_input" json:"directory_input"`

	Merged        int `yaml:"merged" json:"merged"`
	ProfileOnly   int `yaml:"profile_only" json:"profile_only"`
	DirectoryOnly int `yaml:"directory_only" json:"directory_only"`

	ValidLeads         int     `yaml:"valid_leads" json:"valid_leads"`
	InvalidLeads       int     `yaml:"invalid_leads" json:"invalid_leads"`
	ValidationPassRate float64 `yaml:"validation_pass_rate" json:"validation_pass_rate"`

	InferredEmails    int     `yaml:"inferred_emails" json:"inferred_emails"`
	RoleEmails        int     `yaml:"role_emails" json:"role_emails"`
	BelowThreshold    int     `yaml:"below_threshold" json:"below_threshold"`
	DuplicatesDropped int     `yaml:"duplicates_dropped" json:"duplicates_dropped"`
	DedupeRate        float64 `yaml:"dedupe_rate" json:"dedupe_rate"`

	Exported      int     `yaml:"exported" json:"exported"`
	AverageScore  float64 `yaml:"average_score" json:"average_score"`
	HighQuality   int     `yaml:"high_quality" json:"high_quality"`
	MediumQuality int     `yaml:"medium_quality" json:"medium_quality"`
	LowQuality    int     `yaml:"low_quality" json:"low_quality"`

	ByGroup          map[string]int `yaml:"by_group,omitempty" json:"by_group,omitempty"`
	RejectionReasons map[string]int `yaml:"rejection_reasons,omitempty" json:"rejection_reasons,omitempty"`
}

// Counts holds the stage tallies the pipeline feeds into BuildSummary.
type Counts struct {
	ProfileInput      int
	DirectoryInput    int
	BelowThreshold    int
	DuplicatesDropped int
}

// BuildSummary computes the run summary. all is every lead the merge
// engine produced (including invalid ones, whose reasons feed the
// diagnostic section); final is the post-filter, post-dedupe set that was
// exported. groupBy names the categorical lead field used for grouped
// counts.
func BuildSummary(all, final []model.UnifiedLead, counts Counts, groupBy string) Summary {
	s := Summary{
		ProfileInput:      counts.ProfileInput,
		DirectoryInput:    counts.DirectoryInput,
		BelowThreshold:    counts.BelowThreshold,
		DuplicatesDropped: counts.DuplicatesDropped,
		RejectionReasons:  make(map[string]int),
	}

	for _, l := range all {
		switch l.LeadSource {
		case model.SourceMerged:
			s.Merged++
		case model.SourceProfileOnly:
			s.ProfileOnly++
		case model.SourceDirectoryOnly:
			s.DirectoryOnly++
		}

		switch l.ValidationStatus {
		case model.StatusValid:
			s.ValidLeads++
		case model.StatusInvalid:
			s.InvalidLeads++
		}

		if l.EmailInferred {
			s.InferredEmails++
		}
		if l.HasReason(model.ReasonRoleBasedEmail) {
			s.RoleEmails++
		}
		for _, r := range l.ValidationReasons {
			s.RejectionReasons[r]++
		}
	}

	if len(all) > 0 {
		s.ValidationPassRate = float64(s.ValidLeads) / float64(len(all))
	}
	if s.ValidLeads > 0 {
		s.DedupeRate = float64(counts.DuplicatesDropped) / float64(s.ValidLeads)
	}

	s.Exported = len(final)
	total := 0
	for _, l := range final {
		score := l.Score()
		total += score
		switch {
		case score >= highScoreFloor:
			s.HighQuality++
		case score >= mediumScoreFloor:
			s.MediumQuality++
		default:
			s.LowQuality++
		}
	}
	if len(final) > 0 {
		s.AverageScore = float64(total) / float64(len(final))
	}

	if groupBy != "" {
		s.ByGroup = groupCounts(final, groupBy)
	}

	return s
}

// groupCounts tallies final leads by an arbitrary categorical field.
// Leads without a value land under "unknown".
func groupCounts(leads []model.UnifiedLead, field string) map[string]int {
	groups := make(map[string]int)
	for _, l := range leads {
		v := groupValue(l, field)
		if v == "" {
			v = "unknown"
		}
		groups[v]++
	}
	return groups
}

func groupValue(lead model.UnifiedLead, field string) string {
	switch field {
	case "category", "vertical":
		return lead.Category
	case "lead_source":
		return string(lead.LeadSource)
	case "company_size_range":
		return lead.CompanySizeRange
	case "location":
		return lead.Location
	default:
		return ""
	}
}

// FormatReport renders the summary as a human-readable markdown report.
func FormatReport(s Summary) string {
	var b strings.Builder

	b.WriteString("# Lead Pipeline Report\n\n")

	b.WriteString("## Input\n")
	fmt.Fprintf(&b, "- Profile records: %d\n", s.ProfileInput)
	fmt.Fprintf(&b, "- Directory records: %d\n\n", s.DirectoryInput)

	b.WriteString("## Merge\n")
	fmt.Fprintf(&b, "- Merged: %d\n", s.Merged)
	fmt.Fprintf(&b, "- Profile only: %d\n", s.ProfileOnly)
	fmt.Fprintf(&b, "- Directory only: %d\n\n", s.DirectoryOnly)

	b.WriteString("## Validation\n")
	fmt.Fprintf(&b, "- Valid: %d\n", s.ValidLeads)
	fmt.Fprintf(&b, "- Invalid: %d\n", s.InvalidLeads)
	fmt.Fprintf(&b, "- Pass rate: %.1f%%\n", s.ValidationPassRate*100)
	fmt.Fprintf(&b, "- Inferred emails: %d\n", s.InferredEmails)
	fmt.Fprintf(&b, "- Role-based emails: %d\n", s.RoleEmails)
	if len(s.RejectionReasons) > 0 {
		b.WriteString("- Reasons:\n")
		for _, code := range sortedKeys(s.RejectionReasons) {
			fmt.Fprintf(&b, "  - %s: %d\n", code, s.RejectionReasons[code])
		}
	}
	b.WriteString("\n")

	b.WriteString("## Output\n")
	fmt.Fprintf(&b, "- Below score threshold: %d\n", s.BelowThreshold)
	fmt.Fprintf(&b, "- Duplicates dropped: %d (%.1f%%)\n", s.DuplicatesDropped, s.DedupeRate*100)
	fmt.Fprintf(&b, "- Exported: %d\n", s.Exported)
	fmt.Fprintf(&b, "- Average score: %.1f\n", s.AverageScore)
	fmt.Fprintf(&b, "- Quality buckets: %d high / %d medium / %d low\n", s.HighQuality, s.MediumQuality, s.LowQuality)

	if len(s.ByGroup) > 0 {
		b.WriteString("\n## By Group\n")
		for _, g := range sortedKeys(s.ByGroup) {
			fmt.Fprintf(&b, "- %s: %d\n", g, s.ByGroup[g])
		}
	}

	return b.String()
}

// WriteYAML dumps the summary for machine consumption.
func WriteYAML(w io.Writer, s Summary) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(s); err != nil {
		return eris.Wrap(err, "report: encode yaml")
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
