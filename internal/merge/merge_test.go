package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outboundiq/leadpipe/internal/matcher"
	"github.com/outboundiq/leadpipe/internal/model"
)

func float64Ptr(f float64) *float64 { return &f }
func intPtr(n int) *int             { return &n }

func TestMergePairsOnDomain(t *testing.T) {
	engine := New(nil)

	profiles := []model.ProfileRecord{
		{FirstName: "Sam", LastName: "Lee", CompanyName: "Acme Software", CompanyURL: "https://acme.io"},
	}
	directories := []model.DirectoryRecord{
		{Name: "Acme Software Inc", Website: "www.acme.io", Phone: "(512) 555-1234", Rating: float64Ptr(4.5)},
	}

	leads := engine.Merge(profiles, directories)
	require.Len(t, leads, 1)

	lead := leads[0]
	assert.Equal(t, model.SourceMerged, lead.LeadSource)
	assert.Equal(t, "Acme Software", lead.CompanyName)
	assert.Equal(t, "acme.io", lead.Domain)
	assert.Equal(t, "(512) 555-1234", lead.Phone)
	require.NotNil(t, lead.Rating)
	assert.Equal(t, 4.5, *lead.Rating)
	assert.Equal(t, model.StatusUnvalidated, lead.ValidationStatus)
}

func TestMergePairsOnFuzzyName(t *testing.T) {
	engine := New(nil)

	profiles := []model.ProfileRecord{
		{FirstName: "Dana", LastName: "Fox", CompanyName: "Zenith Plumbing"},
	}
	directories := []model.DirectoryRecord{
		{Name: "Zenith Plumbing LLC", Website: "", Category: "plumbing"},
	}

	leads := engine.Merge(profiles, directories)
	require.Len(t, leads, 1)
	assert.Equal(t, model.SourceMerged, leads[0].LeadSource)
	assert.Equal(t, "plumbing", leads[0].Category)
}

func TestMergeLeadCountIdentity(t *testing.T) {
	// |leads| must equal |profiles| + |directories| - matched pairs.
	engine := New(nil)

	profiles := []model.ProfileRecord{
		{FirstName: "Sam", LastName: "Lee", CompanyName: "Acme Software", CompanyURL: "acme.io"},
		{FirstName: "Pat", LastName: "Kim", CompanyName: "Solo Consulting", CompanyURL: "solokim.com"},
	}
	directories := []model.DirectoryRecord{
		{Name: "Acme Software", Website: "acme.io"},
		{Name: "Corner Bakery", Website: "cornerbakery.com"},
	}

	leads := engine.Merge(profiles, directories)
	assert.Len(t, leads, 3) // 2 + 2 - 1 matched pair

	sources := map[model.LeadSource]int{}
	for _, l := range leads {
		sources[l.LeadSource]++
	}
	assert.Equal(t, 1, sources[model.SourceMerged])
	assert.Equal(t, 1, sources[model.SourceProfileOnly])
	assert.Equal(t, 1, sources[model.SourceDirectoryOnly])
}

func TestMergeDirectoryConsumedOnce(t *testing.T) {
	// Two profiles sharing a domain: only the first gets the directory
	// record, the second falls back to profile-only.
	engine := New(nil)

	profiles := []model.ProfileRecord{
		{FirstName: "Sam", LastName: "Lee", CompanyName: "Acme Software", CompanyURL: "acme.io"},
		{FirstName: "Ana", LastName: "Cruz", CompanyName: "Acme Software", CompanyURL: "acme.io"},
	}
	directories := []model.DirectoryRecord{
		{Name: "Acme Software", Website: "acme.io"},
	}

	leads := engine.Merge(profiles, directories)
	require.Len(t, leads, 2)
	assert.Equal(t, model.SourceMerged, leads[0].LeadSource)
	assert.Equal(t, model.SourceProfileOnly, leads[1].LeadSource)
}

func TestMergeDirectoryWinsSharedFields(t *testing.T) {
	engine := New(nil)

	profiles := []model.ProfileRecord{
		{
			FirstName:   "Sam",
			LastName:    "Lee",
			CompanyName: "Acme Software",
			CompanyURL:  "acme.io",
			Phone:       "555-0000",
			Location:    "Somewhere, TX",
		},
	}
	directories := []model.DirectoryRecord{
		{
			Name:        "Acme Software",
			Website:     "acme.io",
			Phone:       "555-9999",
			Address:     "Austin, TX",
			ReviewCount: intPtr(42),
		},
	}

	leads := engine.Merge(profiles, directories)
	require.Len(t, leads, 1)
	assert.Equal(t, "555-9999", leads[0].Phone)
	assert.Equal(t, "Austin, TX", leads[0].Location)
	require.NotNil(t, leads[0].ReviewCount)
	assert.Equal(t, 42, *leads[0].ReviewCount)
}

func TestMergeProfileFieldsFillDirectoryGaps(t *testing.T) {
	engine := New(nil)

	profiles := []model.ProfileRecord{
		{FirstName: "Sam", LastName: "Lee", CompanyName: "Acme Software", CompanyURL: "acme.io", Phone: "555-0000"},
	}
	directories := []model.DirectoryRecord{
		{Name: "Acme Software", Website: "acme.io"},
	}

	leads := engine.Merge(profiles, directories)
	require.Len(t, leads, 1)
	assert.Equal(t, "555-0000", leads[0].Phone)
}

func TestMergeDirectoryOnlyLead(t *testing.T) {
	engine := New(nil)

	directories := []model.DirectoryRecord{
		{Name: "Corner Bakery", Website: "cornerbakery.com", Address: "Dallas, TX", Category: "bakery"},
	}

	leads := engine.Merge(nil, directories)
	require.Len(t, leads, 1)

	lead := leads[0]
	assert.Equal(t, model.SourceDirectoryOnly, lead.LeadSource)
	assert.Equal(t, "Corner Bakery", lead.CompanyName)
	assert.Equal(t, "cornerbakery.com", lead.Domain)
	assert.Equal(t, "Dallas, TX", lead.Location)
	assert.Empty(t, lead.FirstName)
	assert.Empty(t, lead.LastName)
}

func TestMergeDirectoryDomainFillsMissingProfileDomain(t *testing.T) {
	engine := New(matcher.NewDomainThenFuzzy(0.8))

	profiles := []model.ProfileRecord{
		{FirstName: "Dana", LastName: "Fox", CompanyName: "Zenith Plumbing"},
	}
	directories := []model.DirectoryRecord{
		{Name: "Zenith Plumbing", Website: "zenithplumbing.com"},
	}

	leads := engine.Merge(profiles, directories)
	require.Len(t, leads, 1)
	assert.Equal(t, "zenithplumbing.com", leads[0].Domain)
}

func TestMergeEmptyInputs(t *testing.T) {
	engine := New(nil)
	leads := engine.Merge(nil, nil)
	assert.Empty(t, leads)
}
