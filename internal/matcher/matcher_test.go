package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractDomainFromEmail(t *testing.T) {
	assert.Equal(t, "acme.io", ExtractDomain("sam.lee@acme.io"))
	assert.Equal(t, "acme.io", ExtractDomain("Sam.Lee@ACME.IO"))
}

func TestExtractDomainFromURL(t *testing.T) {
	assert.Equal(t, "acme.io", ExtractDomain("https://acme.io"))
	assert.Equal(t, "acme.io", ExtractDomain("https://www.acme.io/about"))
	assert.Equal(t, "acme.io", ExtractDomain("acme.io"))
	assert.Equal(t, "acme.io", ExtractDomain("http://acme.io:8080/path?q=1"))
}

func TestExtractDomainStripsWWWOnly(t *testing.T) {
	assert.Equal(t, "shop.acme.io", ExtractDomain("https://shop.acme.io"))
}

func TestExtractDomainUnparseable(t *testing.T) {
	assert.Equal(t, "", ExtractDomain(""))
	assert.Equal(t, "", ExtractDomain("   "))
	assert.Equal(t, "", ExtractDomain("http://%zz"))
}

func TestFuzzyMatchExact(t *testing.T) {
	assert.True(t, FuzzyMatch("Acme Software", "Acme Software", 0.8))
}

func TestFuzzyMatchIgnoresCaseAndPunctuation(t *testing.T) {
	assert.True(t, FuzzyMatch("Acme Software, Inc.", "acme software inc", 0.8))
	assert.True(t, FuzzyMatch("O'Brien & Sons", "obrien-sons", 0.8))
}

func TestFuzzyMatchNearMiss(t *testing.T) {
	// One transposition on a long name stays above the cutoff.
	assert.True(t, FuzzyMatch("Acme Softwrae", "Acme Software", 0.8))
}

func TestFuzzyMatchDifferentCompanies(t *testing.T) {
	assert.False(t, FuzzyMatch("Acme Software", "Zenith Plumbing", 0.8))
}

func TestFuzzyMatchEmptyNeverMatches(t *testing.T) {
	assert.False(t, FuzzyMatch("", "Acme", 0.8))
	assert.False(t, FuzzyMatch("Acme", "", 0.8))
	assert.False(t, FuzzyMatch("", "", 0.8))
}

func TestDomainThenFuzzyPrefersDomain(t *testing.T) {
	s := NewDomainThenFuzzy(0.8)
	m := s.Match("acme.io", "Totally Different Name", Candidate{Domain: "acme.io", Name: "Zenith"})
	assert.Equal(t, MethodDomain, m)
}

func TestDomainThenFuzzyFallsBackToName(t *testing.T) {
	s := NewDomainThenFuzzy(0.8)
	m := s.Match("acme.io", "Acme Software", Candidate{Domain: "", Name: "Acme Software Inc"})
	assert.Equal(t, MethodFuzzy, m)
}

func TestDomainThenFuzzyNoMatch(t *testing.T) {
	s := NewDomainThenFuzzy(0.8)
	m := s.Match("acme.io", "Acme Software", Candidate{Domain: "zenith.com", Name: "Zenith Plumbing"})
	assert.Equal(t, MethodNone, m)
}

func TestDomainThenFuzzyEmptyDomainsNeverMatch(t *testing.T) {
	s := NewDomainThenFuzzy(0.8)
	m := s.Match("", "Acme Software", Candidate{Domain: "", Name: "Zenith Plumbing"})
	assert.Equal(t, MethodNone, m)
}

func TestNewDomainThenFuzzyDefaultsThreshold(t *testing.T) {
	s := NewDomainThenFuzzy(0)
	assert.Equal(t, DefaultThreshold, s.Threshold)
}
