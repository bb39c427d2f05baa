package matcher

// Method identifies how a cross-source pair was matched.
type Method string

const (
	MethodDomain Method = "domain"
	MethodFuzzy  Method = "fuzzy"
	MethodNone   Method = "none"
)

// Candidate carries the directory-side attributes a strategy compares
// against.
type Candidate struct {
	Domain string
	Name   string
}

// Strategy decides whether a profile record and a directory candidate
// describe the same business. Keeping the policy behind an interface lets
// the merge engine iterate independently of how matching is done.
type Strategy interface {
	Match(profileDomain, profileCompany string, c Candidate) Method
}

// DomainThenFuzzy matches on exact domain first (authoritative), then
// falls back to fuzzy company-name similarity.
type DomainThenFuzzy struct {
	Threshold float64
}

// NewDomainThenFuzzy returns the default strategy. A non-positive
// threshold falls back to DefaultThreshold.
func NewDomainThenFuzzy(threshold float64) DomainThenFuzzy {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return DomainThenFuzzy{Threshold: threshold}
}

func (s DomainThenFuzzy) Match(profileDomain, profileCompany string, c Candidate) Method {
	if profileDomain != "" && profileDomain == c.Domain {
		return MethodDomain
	}
	if FuzzyMatch(profileCompany, c.Name, s.Threshold) {
		return MethodFuzzy
	}
	return MethodNone
}
