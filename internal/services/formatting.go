package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/SyedMHaroon/NamazBot/domain"
)

var hijriMonthsEn = [...]string{
	"Muharram", "Safar", "Rabi al-Awwal", "Rabi al-Thani", "Jumada al-Awwal", "Jumada al-Thani",
	"Rajab", "Shaban", "Ramadan", "Shawwal", "Dhul Qadah", "Dhul Hijjah",
}

var hijriMonthsAr = [...]string{
	"محرم", "صفر", "ربيع الأول", "ربيع الآخر", "جمادى الأولى", "جمادى الآخرة",
	"رجب", "شعبان", "رمضان", "شوال", "ذو القعدة", "ذو الحجة",
}

var weekdaysAr = map[time.Weekday]string{
	time.Monday:    "الاثنين",
	time.Tuesday:   "الثلاثاء",
	time.Wednesday: "الأربعاء",
	time.Thursday:  "الخميس",
	time.Friday:    "الجمعة",
	time.Saturday:  "السبت",
	time.Sunday:    "الأحد",
}

var gregorianMonthsAr = map[time.Month]string{
	time.January:   "يناير",
	time.February:  "فبراير",
	time.March:     "مارس",
	time.April:     "أبريل",
	time.May:       "مايو",
	time.June:      "يونيو",
	time.July:      "يوليو",
	time.August:    "أغسطس",
	time.September: "سبتمبر",
	time.October:   "أكتوبر",
	time.November:  "نوفمبر",
	time.December:  "ديسمبر",
}

var shortWeekdays = map[string]time.Weekday{
	"Mon": time.Monday,
	"Tue": time.Tuesday,
	"Wed": time.Wednesday,
	"Thu": time.Thursday,
	"Fri": time.Friday,
	"Sat": time.Saturday,
	"Sun": time.Sunday,
}

// PrayerNamesAr holds the Arabic name of each canonical prayer
var PrayerNamesAr = map[string]string{
	"Fajr":    "الفجر",
	"Dhuhr":   "الظهر",
	"Asr":     "العصر",
	"Maghrib": "المغرب",
	"Isha":    "العشاء",
}

var (
	hhmmRe    = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	shortDate = regexp.MustCompile(`\b(?:(Mon|Tue|Wed|Thu|Fri|Sat|Sun),?\s*)?(\d{1,2})\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+(\d{4})\b`)
)

// parseHHMM reads a 24h "HH:MM" clock value
func parseHHMM(s string) (int, int, bool) {
	m := hhmmRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, false
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	if h > 23 || mm > 59 {
		return 0, 0, false
	}
	return h, mm, true
}

// gregorianWeekday derives the weekday from a readable date like "29 Oct 2025"
func gregorianWeekday(readable string) (time.Weekday, bool) {
	t, err := time.Parse("2 Jan 2006", strings.TrimSpace(readable))
	if err != nil {
		return 0, false
	}
	return t.Weekday(), true
}

// FormatHijri renders a Hijri date in words, e.g.
// "Wednesday, 7 Jumada al-Awwal 1447 AH". It falls back to the numeric date
// when the structured fields are missing.
func FormatHijri(h domain.HijriDate, gregorian string, lang domain.Language) string {
	if h.Day == "" || h.Year == "" {
		return h.Date
	}
	day := h.Day
	if n, err := strconv.Atoi(h.Day); err == nil {
		day = strconv.Itoa(n)
	}

	wd, hasWd := gregorianWeekday(gregorian)
	valid := h.MonthNumber >= 1 && h.MonthNumber <= 12

	if lang == domain.LanguageArabic {
		month := h.MonthAr
		if valid {
			month = hijriMonthsAr[h.MonthNumber-1]
		}
		weekday := h.WeekdayAr
		if hasWd {
			weekday = weekdaysAr[wd]
		}
		if weekday != "" {
			return fmt.Sprintf("%s، %s %s %s", weekday, day, month, h.Year)
		}
		return fmt.Sprintf("%s %s %s", day, month, h.Year)
	}

	month := h.MonthEn
	if valid {
		month = hijriMonthsEn[h.MonthNumber-1]
	}
	weekday := h.WeekdayEn
	if hasWd {
		weekday = wd.String()
	}
	if weekday != "" {
		return fmt.Sprintf("%s, %s %s %s AH", weekday, day, month, h.Year)
	}
	return fmt.Sprintf("%s %s %s AH", day, month, h.Year)
}

// ExpandGregorian spells out abbreviated dates such as "Wed, 28 Oct 2025"
func ExpandGregorian(text string, lang domain.Language) string {
	return shortDate.ReplaceAllStringFunc(text, func(m string) string {
		g := shortDate.FindStringSubmatch(m)
		d, _ := strconv.Atoi(g[2])
		t, err := time.Parse("Jan", g[3])
		if err != nil {
			return m
		}
		month := t.Month()

		var wd string
		if w, ok := shortWeekdays[g[1]]; ok {
			wd = w.String()
			if lang == domain.LanguageArabic {
				wd = weekdaysAr[w]
			}
		}

		if lang == domain.LanguageArabic {
			out := fmt.Sprintf("%d %s %s", d, gregorianMonthsAr[month], g[4])
			if wd != "" {
				out = wd + "، " + out
			}
			return out
		}
		out := fmt.Sprintf("%d %s %s", d, month.String(), g[4])
		if wd != "" {
			out = wd + ", " + out
		}
		return out
	})
}

// FormatPlace renders the location shown in replies. Address mode shows
// the city alone.
func FormatPlace(city, country string, addressMode bool) string {
	if addressMode || country == "" {
		return city
	}
	return city + ", " + country
}

func timing(day *domain.PrayerDay, prayer string) string {
	if t := day.Timings[prayer]; t != "" {
		return t
	}
	return "N/A"
}

// digestGreeting picks the bilingual greeting for a local hour
func digestGreeting(hour int) string {
	switch {
	case hour < 12:
		return "صباح الخير! / Good morning!"
	case hour < 17:
		return "مساء الخير! / Good afternoon!"
	default:
		return "مساء الخير! / Good evening!"
	}
}

// DigestMessage builds the bilingual morning digest
func DigestMessage(city, country string, day *domain.PrayerDay, localHour int) string {
	lines := []string{
		digestGreeting(localHour),
		fmt.Sprintf("📍 %s, %s", city, country),
		"",
		"التاريخ الهجري / Hijri date: " + FormatHijri(day.Hijri, day.Gregorian, domain.LanguageEnglish),
		"التاريخ الميلادي / Gregorian: " + ExpandGregorian(day.Gregorian, domain.LanguageEnglish),
		"",
		"أوقات الصلاة اليوم / Today's prayer times:",
	}
	for _, p := range domain.PrayerOrder {
		lines = append(lines, fmt.Sprintf("%s / %s: %s", PrayerNamesAr[p], p, timing(day, p)))
	}
	return strings.Join(lines, "\n")
}

// PrayerReminderMessage is sent shortly before a prayer
func PrayerReminderMessage(lang domain.Language, prayer, at string, lead time.Duration) string {
	mins := int(lead.Minutes())
	if lang == domain.LanguageArabic {
		return fmt.Sprintf("⏰ تذكير: صلاة %s في الساعة %s (خلال %d دقائق)", PrayerNamesAr[prayer], at, mins)
	}
	return fmt.Sprintf("⏰ Reminder: %s prayer at %s (in %d minutes)", prayer, at, mins)
}

// ReminderMessage wraps a user reminder for delivery
func ReminderMessage(text string) string {
	return "⏰ Reminder: " + text
}
