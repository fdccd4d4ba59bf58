package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/SyedMHaroon/NamazBot/domain"
	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// "US" only matches in capitals so the pronoun "us" is not a country
var aliasRe = regexp.MustCompile(`\bUS\b|(?i:\b(?:ksa|uae|usa|uk|pk)\b)`)

// TitleCase upper-cases the first letter of every word and lowers the rest
func TitleCase(s string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(s))
}

// NormalizeCountry maps user input onto a canonical (common) country name.
// Aliases win, then an official or common name, then a prefix of a common
// name. Unknown input returns "".
func NormalizeCountry(name string) string {
	n := strings.TrimSpace(name)
	if n == "" {
		return ""
	}
	if full, ok := countryAliases[strings.ToUpper(n)]; ok {
		return full
	}

	if common, ok := lookupCountry(n); ok {
		return common
	}
	lower := strings.ToLower(n)
	for _, c := range countryNames {
		if strings.HasPrefix(strings.ToLower(c), lower) {
			return c
		}
	}
	return ""
}

// FindCountryInText returns the country the user typed in free text, or ""
func FindCountryInText(text string) string {
	if text == "" {
		return ""
	}
	if m := aliasRe.FindString(text); m != "" {
		return countryAliases[strings.ToUpper(m)]
	}
	if m := countryRe.FindString(text); m != "" {
		return countryByName[strings.ToLower(m)]
	}
	return ""
}

// LocationValidatorImpl implements domain.LocationValidator
type LocationValidatorImpl struct {
	prayers domain.PrayerTimesAPI
	logger  *zap.Logger
}

// NewLocationValidator creates a new location validator
func NewLocationValidator(prayers domain.PrayerTimesAPI, logger *zap.Logger) *LocationValidatorImpl {
	return &LocationValidatorImpl{prayers: prayers, logger: logger}
}

// ParseCityCountry splits "City - Country". Malformed input returns ("", "");
// a city with an unrecognized country returns (city, "").
func (v *LocationValidatorImpl) ParseCityCountry(line string) (string, string) {
	left, right, found := strings.Cut(line, "-")
	if !found {
		return "", ""
	}
	cityRaw := strings.TrimSpace(left)
	countryRaw := strings.TrimSpace(right)
	if utf8.RuneCountInString(cityRaw) < 2 || utf8.RuneCountInString(countryRaw) < 2 {
		return "", ""
	}
	return TitleCase(cityRaw), NormalizeCountry(countryRaw)
}

// SuggestCountry returns the closest country name for a misspelling, or ""
func (v *LocationValidatorImpl) SuggestCountry(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	matches := fuzzy.Find(name, countryNames)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}

// Validate probes the prayer-times API once. Ok carries the timezone.
func (v *LocationValidatorImpl) Validate(ctx context.Context, city, country string) domain.Result[string] {
	day, err := v.prayers.Fetch(ctx, city, country, "")
	if err != nil {
		v.logger.Warn("location probe failed",
			zap.String("city", city), zap.String("country", country), zap.Error(err))
		return domain.Err[string](fmt.Errorf("%w: %v", domain.ErrLocationInvalid, err))
	}
	for _, p := range domain.PrayerOrder {
		if day.Timings[p] == "" {
			return domain.Err[string](fmt.Errorf("%w: missing %s", domain.ErrLocationInvalid, p))
		}
	}
	if day.Timezone == "" {
		return domain.Err[string](fmt.Errorf("%w: missing timezone", domain.ErrLocationInvalid))
	}
	return domain.Ok(day.Timezone)
}

var _ domain.LocationValidator = (*LocationValidatorImpl)(nil)
