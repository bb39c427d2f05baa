package enrich

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var digitsRe = regexp.MustCompile(`\D`)

// StandardizePhone strips non-digit characters and prefixes the country
// code for NANP-shaped numbers. 10 digits get "+1", 11 digits starting
// with "1" get "+". Anything else is returned unchanged — this is a
// best-effort normalization, not a validation.
func StandardizePhone(phone string) string {
	digits := digitsRe.ReplaceAllString(phone, "")
	switch {
	case len(digits) == 10:
		return "+1" + digits
	case len(digits) == 11 && strings.HasPrefix(digits, "1"):
		return "+" + digits
	default:
		return phone
	}
}

// cityStateRe matches a "City, ST" pattern with a two-letter state code.
var cityStateRe = regexp.MustCompile(`([A-Za-z][A-Za-z .'\-]*?),\s*([A-Za-z]{2})\b`)

var titleCaser = cases.Title(language.AmericanEnglish)

// StandardizeLocation extracts a "City, ST" form from free text. The city
// is title-cased and the state upper-cased. Text without a recognizable
// city/state pair passes through unchanged.
func StandardizeLocation(location string) string {
	m := cityStateRe.FindStringSubmatch(location)
	if m == nil {
		return location
	}
	city := titleCaser.String(strings.ToLower(strings.TrimSpace(m[1])))
	state := strings.ToUpper(m[2])
	return city + ", " + state
}

var numberRe = regexp.MustCompile(`\d+`)

// ParseCompanySize normalizes a free-text company-size string. Two numbers
// become an "N1-N2" range; a single number is bucketed into fixed ranges;
// text with no numbers passes through unchanged.
func ParseCompanySize(size string) string {
	nums := numberRe.FindAllString(size, 2)
	switch len(nums) {
	case 2:
		return nums[0] + "-" + nums[1]
	case 1:
		n, err := strconv.Atoi(nums[0])
		if err != nil {
			return size
		}
		return sizeBucket(n)
	default:
		return size
	}
}

func sizeBucket(n int) string {
	switch {
	case n < 10:
		return "1-10"
	case n < 50:
		return "10-50"
	case n < 200:
		return "50-200"
	case n < 500:
		return "200-500"
	default:
		return "500+"
	}
}
