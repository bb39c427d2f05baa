package model

import "strings"

// fieldAliases maps canonical field names to the header spellings seen in
// exports from the two scrape sources. Resolution happens once per file at
// ingestion, so downstream code only ever sees canonical struct fields.
var fieldAliases = map[string][]string{
	"first_name":      {"first_name", "firstName", "First Name", "firstname", "first"},
	"last_name":       {"last_name", "lastName", "Last Name", "lastname", "last"},
	"job_title":       {"job_title", "jobTitle", "Job Title", "title", "headline"},
	"company_name":    {"company_name", "companyName", "Company Name", "company", "name", "business_name", "Business Name"},
	"company_url":     {"company_url", "companyUrl", "Company URL", "company_website", "website", "Website", "url"},
	"company_size":    {"company_size", "companySize", "Company Size", "size", "employees"},
	"location":        {"location", "Location", "location_text", "address", "Address", "full_address"},
	"phone":           {"phone", "Phone", "phone_number", "phoneNumber", "Phone Number"},
	"profile_url":     {"profile_url", "profileUrl", "Profile URL", "linkedin_url", "linkedinUrl"},
	"recent_activity": {"recent_activity", "recentActivity", "Recently Active", "last_activity"},
	"rating":          {"rating", "Rating", "aggregate_rating", "stars"},
	"review_count":    {"review_count", "reviewCount", "Review Count", "reviews", "user_ratings_total"},
	"map_url":         {"map_url", "mapUrl", "Map URL", "maps_url", "place_url"},
	"category":        {"category", "Category", "vertical", "business_category"},
}

// headerToCanonical is the inverted alias table keyed by folded header text.
var headerToCanonical = func() map[string]string {
	m := make(map[string]string)
	for canonical, aliases := range fieldAliases {
		for _, a := range aliases {
			m[foldHeader(a)] = canonical
		}
	}
	return m
}()

// foldHeader normalizes a header cell for alias comparison: lower-cased
// with spaces, underscores, and hyphens removed.
func foldHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-':
			return -1
		}
		return r
	}, h)
}

// CanonicalKey resolves a raw header cell to its canonical field name.
// Returns false for headers the pipeline does not consume.
func CanonicalKey(header string) (string, bool) {
	key, ok := headerToCanonical[foldHeader(header)]
	return key, ok
}
