// Package model defines the raw record and unified lead types shared by
// every pipeline stage.
package model

import "time"

// LeadSource records which scrape sources contributed to a unified lead.
type LeadSource string

const (
	SourceProfileOnly   LeadSource = "profile_only"
	SourceDirectoryOnly LeadSource = "directory_only"
	SourceMerged        LeadSource = "merged"
)

// ValidationStatus represents the contactability verdict on a lead.
type ValidationStatus string

const (
	StatusUnvalidated ValidationStatus = "unvalidated"
	StatusValid       ValidationStatus = "valid"
	StatusInvalid     ValidationStatus = "invalid"
)

// Validation reason codes, appended in rule-evaluation order.
const (
	ReasonMissingEmail       = "missing_email"
	ReasonInvalidEmailFormat = "invalid_email_format"
	ReasonDisposableEmail    = "disposable_email"
	ReasonRoleBasedEmail     = "role_based_email"
	ReasonMissingCompanyName = "missing_company_name"
	ReasonMissingName        = "missing_name"
)

// ProfileRecord is an immutable raw record from the professional-profile
// source. Fields are canonical; header aliases are resolved at load time.
type ProfileRecord struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	JobTitle       string `json:"job_title"`
	CompanyName    string `json:"company_name"`
	CompanyURL     string `json:"company_url"`
	CompanySize    string `json:"company_size,omitempty"`
	Location       string `json:"location,omitempty"`
	Phone          string `json:"phone,omitempty"`
	ProfileURL     string `json:"profile_url,omitempty"`
	RecentActivity bool   `json:"recent_activity,omitempty"`
}

// DirectoryRecord is an immutable raw record from the map/directory source.
type DirectoryRecord struct {
	Name        string   `json:"name"`
	Phone       string   `json:"phone,omitempty"`
	Address     string   `json:"address,omitempty"`
	Website     string   `json:"website,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"review_count,omitempty"`
	MapURL      string   `json:"map_url,omitempty"`
	Category    string   `json:"category,omitempty"`
}

// UnifiedLead is the merged, enriched, validated, and scored business
// contact. Created once by the merge engine; later stages add fields but
// never remove them.
type UnifiedLead struct {
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
	JobTitle    string `json:"job_title,omitempty"`
	Domain      string `json:"domain,omitempty"`

	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`

	CompanySizeRange string   `json:"company_size_range,omitempty"`
	Rating           *float64 `json:"rating,omitempty"`
	ReviewCount      *int     `json:"review_count,omitempty"`
	MapURL           string   `json:"map_url,omitempty"`
	ProfileURL       string   `json:"profile_url,omitempty"`
	RecentActivity   bool     `json:"recent_activity,omitempty"`
	Category         string   `json:"category,omitempty"`

	LeadSource LeadSource `json:"lead_source"`
	EnrichedAt time.Time  `json:"enriched_at,omitempty"`

	EmailInferred   bool `json:"email_inferred,omitempty"`
	MXChecked       bool `json:"mx_checked,omitempty"`
	HasMailExchange bool `json:"has_mail_exchange,omitempty"`

	ValidationStatus  ValidationStatus `json:"validation_status"`
	ValidationReasons []string         `json:"validation_reasons,omitempty"`

	QualityScore *int `json:"quality_score,omitempty"`
}

// Score returns the quality score, or 0 if the lead has not been scored.
func (l *UnifiedLead) Score() int {
	if l.QualityScore == nil {
		return 0
	}
	return *l.QualityScore
}

// HasReason reports whether a validation reason code is present.
func (l *UnifiedLead) HasReason(code string) bool {
	for _, r := range l.ValidationReasons {
		if r == code {
			return true
		}
	}
	return false
}
