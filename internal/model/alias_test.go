package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalKeyExact(t *testing.T) {
	key, ok := CanonicalKey("first_name")
	assert.True(t, ok)
	assert.Equal(t, "first_name", key)
}

func TestCanonicalKeyAliases(t *testing.T) {
	cases := map[string]string{
		"First Name":         "first_name",
		"firstName":          "first_name",
		"headline":           "job_title",
		"business_name":      "company_name",
		"Website":            "company_url",
		"linkedin_url":       "profile_url",
		"user_ratings_total": "review_count",
		"full_address":       "location",
		"stars":              "rating",
	}
	for header, want := range cases {
		key, ok := CanonicalKey(header)
		assert.True(t, ok, header)
		assert.Equal(t, want, key, header)
	}
}

func TestCanonicalKeyFoldsSeparatorsAndCase(t *testing.T) {
	for _, header := range []string{"FIRST_NAME", "first-name", " First Name ", "FirstName"} {
		key, ok := CanonicalKey(header)
		assert.True(t, ok, header)
		assert.Equal(t, "first_name", key, header)
	}
}

func TestCanonicalKeyUnknownHeader(t *testing.T) {
	_, ok := CanonicalKey("shoe_size")
	assert.False(t, ok)
}

func TestLeadScoreNilSafe(t *testing.T) {
	l := UnifiedLead{}
	assert.Equal(t, 0, l.Score())

	n := 85
	l.QualityScore = &n
	assert.Equal(t, 85, l.Score())
}

func TestLeadHasReason(t *testing.T) {
	l := UnifiedLead{ValidationReasons: []string{ReasonRoleBasedEmail}}
	assert.True(t, l.HasReason(ReasonRoleBasedEmail))
	assert.False(t, l.HasReason(ReasonMissingEmail))
}
