package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SyedMHaroon/NamazBot/domain"
	"go.uber.org/zap"
)

// aladhanDate is the DD-MM-YYYY layout the prayer-times API expects
const aladhanDate = "02-01-2006"

// PrayerHandlers answers date, prayer time and next prayer questions
type PrayerHandlers struct {
	prayers domain.PrayerTimesAPI
	now     func() time.Time
	logger  *zap.Logger
}

// NewPrayerHandlers creates the prayer handlers with the wall clock
func NewPrayerHandlers(prayers domain.PrayerTimesAPI, logger *zap.Logger) *PrayerHandlers {
	return &PrayerHandlers{prayers: prayers, now: time.Now, logger: logger}
}

func (h *PrayerHandlers) fetchFailed(p *domain.Profile, place string, err error) string {
	h.logger.Warn("prayer times fetch failed", zap.String("user_id", p.UserID), zap.String("place", place), zap.Error(err))
	return fmt.Sprintf("Sorry, I couldn't fetch prayer times for %s right now. Please try again later.", place)
}

// location loads the zone named by the API, falling back to the profile
// zone and then UTC
func location(tz, fallback string) *time.Location {
	for _, name := range []string{tz, fallback} {
		if name == "" {
			continue
		}
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return time.UTC
}

// IslamicDate replies with today's Hijri and Gregorian date
func (h *PrayerHandlers) IslamicDate(ctx context.Context, turn *domain.Turn) string {
	p := turn.Profile
	defer p.Overrides.ClearConsumed()

	city, country, addressMode := effectiveLocation(p)
	place := FormatPlace(city, country, addressMode)

	day, err := h.prayers.Fetch(ctx, city, country, "")
	if err != nil {
		return h.fetchFailed(p, place, err)
	}

	if p.Language == domain.LanguageArabic {
		return fmt.Sprintf("التاريخ الهجري في %s: %s\nالتاريخ الميلادي: %s",
			place, FormatHijri(day.Hijri, day.Gregorian, domain.LanguageArabic),
			ExpandGregorian(day.Gregorian, domain.LanguageArabic))
	}
	return fmt.Sprintf("Islamic (Hijri) date in %s: %s\nGregorian: %s",
		place, FormatHijri(day.Hijri, day.Gregorian, domain.LanguageEnglish),
		ExpandGregorian(day.Gregorian, domain.LanguageEnglish))
}

// resolveDate turns the requested date into the API's DD-MM-YYYY form.
// Today and anything unparseable return "".
func (h *PrayerHandlers) resolveDate(ctx context.Context, p *domain.Profile, city, country string) string {
	req := strings.ToLower(strings.TrimSpace(p.Overrides.Date))
	switch req {
	case "", "today":
		return ""
	case "tomorrow":
		tz := ""
		if city == p.City && country == p.Country {
			tz = p.Timezone
		}
		if tz == "" {
			if day, err := h.prayers.Fetch(ctx, city, country, ""); err == nil {
				tz = day.Timezone
			}
		}
		return h.now().In(location(tz, "")).AddDate(0, 0, 1).Format(aladhanDate)
	}

	d, err := time.Parse("2006-01-02", req)
	if err != nil {
		return ""
	}
	return d.Format(aladhanDate)
}

// PrayerTimes replies with one requested prayer or all five in order
func (h *PrayerHandlers) PrayerTimes(ctx context.Context, turn *domain.Turn) string {
	p := turn.Profile
	defer p.Overrides.ClearConsumed()

	city, country, addressMode := effectiveLocation(p)
	place := FormatPlace(city, country, addressMode)
	date := h.resolveDate(ctx, p, city, country)

	day, err := h.prayers.Fetch(ctx, city, country, date)
	if err != nil {
		return h.fetchFailed(p, place, err)
	}

	if prayer := p.Overrides.Prayer; prayer != "" {
		return fmt.Sprintf("%s time in %s: %s", prayer, place, timing(day, prayer))
	}

	when := "today"
	if date != "" {
		when = p.Overrides.Date
	}
	lines := make([]string, 0, len(domain.PrayerOrder))
	for _, name := range domain.PrayerOrder {
		lines = append(lines, fmt.Sprintf("%s: %s", name, timing(day, name)))
	}
	return fmt.Sprintf("Prayer times %s for %s:\n%s", when, place, strings.Join(lines, "\n"))
}

// NextPrayer replies with the first prayer after the current local time.
// After Isha it reports tomorrow's Fajr.
func (h *PrayerHandlers) NextPrayer(ctx context.Context, turn *domain.Turn) string {
	p := turn.Profile
	defer p.Overrides.ClearConsumed()

	city, country, addressMode := effectiveLocation(p)
	place := FormatPlace(city, country, addressMode)

	day, err := h.prayers.Fetch(ctx, city, country, "")
	if err != nil {
		return h.fetchFailed(p, place, err)
	}
	loc := location(day.Timezone, p.Timezone)
	now := h.now().In(loc)

	at := func(base time.Time, hhmm string) (time.Time, bool) {
		hh, mm, ok := parseHHMM(hhmm)
		if !ok {
			return time.Time{}, false
		}
		return time.Date(base.Year(), base.Month(), base.Day(), hh, mm, 0, 0, loc), true
	}

	name, next := "", time.Time{}
	for _, prayer := range domain.PrayerOrder {
		if t, ok := at(now, day.Timings[prayer]); ok && t.After(now) {
			name, next = prayer, t
			break
		}
	}

	if name == "" {
		tomorrow := now.AddDate(0, 0, 1)
		fajr := day.Timings["Fajr"]
		if d2, err := h.prayers.Fetch(ctx, city, country, tomorrow.Format(aladhanDate)); err == nil && d2.Timings["Fajr"] != "" {
			fajr = d2.Timings["Fajr"]
		}
		t, ok := at(tomorrow, fajr)
		if !ok {
			return h.fetchFailed(p, place, fmt.Errorf("%w: bad Fajr time %q", domain.ErrPrayerAPI, fajr))
		}
		name, next = "Fajr", t
	}

	total := int(next.Sub(now).Minutes())
	return fmt.Sprintf("Next prayer in %s: %s at %s (%dh %dm left)",
		place, name, next.Format("15:04"), total/60, total%60)
}
