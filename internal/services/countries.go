package services

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pariz/gountries"
)

// countryAliases maps abbreviations users type instead of a country name
var countryAliases = map[string]string{
	"KSA": "Saudi Arabia",
	"UAE": "United Arab Emirates",
	"UK":  "United Kingdom",
	"USA": "United States",
	"US":  "United States",
	"PK":  "Pakistan",
}

var (
	countryQuery = gountries.New()

	// countryNames are the canonical (common) names, sorted
	countryNames []string
	// countryByName maps a lower-cased common or official name to the
	// canonical name
	countryByName = map[string]string{}
	countryRe     *regexp.Regexp
)

func init() {
	var patterns []string
	for _, c := range countryQuery.FindAllCountries() {
		common := c.Name.Common
		if common == "" {
			continue
		}
		countryNames = append(countryNames, common)
		for _, n := range []string{common, c.Name.Official} {
			if n == "" {
				continue
			}
			countryByName[strings.ToLower(n)] = common
			patterns = append(patterns, regexp.QuoteMeta(n))
		}
	}
	sort.Strings(countryNames)
	// Longest first so "South Sudan" beats "Sudan"
	sort.Slice(patterns, func(i, j int) bool {
		if len(patterns[i]) != len(patterns[j]) {
			return len(patterns[i]) > len(patterns[j])
		}
		return patterns[i] < patterns[j]
	})
	countryRe = regexp.MustCompile(`(?i)\b(` + strings.Join(patterns, "|") + `)\b`)
}

// lookupCountry resolves an exact common or official name
func lookupCountry(name string) (string, bool) {
	if c, err := countryQuery.FindCountryByName(name); err == nil && c.Name.Common != "" {
		return c.Name.Common, true
	}
	common, ok := countryByName[strings.ToLower(name)]
	return common, ok
}
