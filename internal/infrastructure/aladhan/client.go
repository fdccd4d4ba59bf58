package aladhan

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/SyedMHaroon/NamazBot/domain"
)

const DefaultBaseURL = "https://api.aladhan.com/v1"

// DefaultMethod is ISNA, used for interactive replies
const DefaultMethod = 2

var timeRe = regexp.MustCompile(`(\d{1,2}:\d{2})`)

// Client implements domain.PrayerTimesAPI against the Aladhan REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	method     func(country string) int
}

// NewClient creates an Aladhan client that always uses DefaultMethod
func NewClient(baseURL string, timeout time.Duration) domain.PrayerTimesAPI {
	return newClient(baseURL, timeout, func(string) int { return DefaultMethod })
}

// NewRegionalClient creates an Aladhan client that picks the calculation
// method from the country, for scheduled messages
func NewRegionalClient(baseURL string, timeout time.Duration) domain.PrayerTimesAPI {
	return newClient(baseURL, timeout, MethodForCountry)
}

func newClient(baseURL string, timeout time.Duration, method func(string) int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		method:     method,
	}
}

type apiResponse struct {
	Code   int     `json:"code"`
	Status string  `json:"status"`
	Data   apiData `json:"data"`
}

type apiData struct {
	Timings map[string]string `json:"timings"`
	Date    struct {
		Readable string   `json:"readable"`
		Hijri    apiHijri `json:"hijri"`
	} `json:"date"`
	Meta struct {
		Timezone string `json:"timezone"`
	} `json:"meta"`
}

type apiHijri struct {
	Date    string `json:"date"`
	Day     string `json:"day"`
	Year    string `json:"year"`
	Weekday struct {
		En string `json:"en"`
		Ar string `json:"ar"`
	} `json:"weekday"`
	Month struct {
		Number int    `json:"number"`
		En     string `json:"en"`
		Ar     string `json:"ar"`
	} `json:"month"`
}

// Fetch implements domain.PrayerTimesAPI. With an empty country the city is
// sent as a free-form address. date is DD-MM-YYYY or empty for today.
func (c *Client) Fetch(ctx context.Context, city, country, date string) (*domain.PrayerDay, error) {
	if city == "" {
		return nil, fmt.Errorf("%w: city is required", domain.ErrPrayerAPI)
	}

	params := url.Values{}
	params.Set("method", strconv.Itoa(c.method(country)))
	endpoint := "/timingsByAddress"
	if country != "" {
		endpoint = "/timingsByCity"
		params.Set("city", city)
		params.Set("country", country)
	} else {
		params.Set("address", city)
	}
	if date != "" {
		endpoint += "/" + url.PathEscape(date)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPrayerAPI, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPrayerAPI, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrPrayerAPI, resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrPrayerAPI, err)
	}
	if body.Code != 0 && body.Code != http.StatusOK {
		return nil, fmt.Errorf("%w: code %d %s", domain.ErrPrayerAPI, body.Code, body.Status)
	}

	return toDomain(&body.Data), nil
}

func toDomain(d *apiData) *domain.PrayerDay {
	timings := make(map[string]string, len(d.Timings))
	for k, v := range d.Timings {
		timings[k] = CleanTime(v)
	}
	h := d.Date.Hijri
	return &domain.PrayerDay{
		Timings:   timings,
		Timezone:  d.Meta.Timezone,
		Gregorian: d.Date.Readable,
		Hijri: domain.HijriDate{
			Date:        h.Date,
			Day:         h.Day,
			Year:        h.Year,
			MonthNumber: h.Month.Number,
			MonthEn:     h.Month.En,
			MonthAr:     h.Month.Ar,
			WeekdayEn:   h.Weekday.En,
			WeekdayAr:   h.Weekday.Ar,
		},
	}
}

// CleanTime strips timezone suffixes such as "05:01 (PKT)"
func CleanTime(t string) string {
	if m := timeRe.FindString(t); m != "" {
		return m
	}
	return t
}

// MethodForCountry picks the calculation method customary for a region.
// Keywords match whole words of the country name.
func MethodForCountry(country string) int {
	words := " " + strings.Join(strings.FieldsFunc(strings.ToLower(country), func(r rune) bool {
		return !unicode.IsLetter(r)
	}), " ") + " "
	hasAny := func(keys ...string) bool {
		for _, k := range keys {
			if strings.Contains(words, " "+k+" ") {
				return true
			}
		}
		return false
	}

	switch {
	case hasAny("pakistan"):
		return 1 // University of Islamic Sciences, Karachi
	case hasAny("canada", "usa", "united states", "america"):
		return 2 // ISNA
	case hasAny("uk", "united kingdom", "england", "britain", "ireland", "france", "germany", "netherlands", "belgium"):
		return 3 // Muslim World League
	case hasAny("saudi arabia", "united arab emirates", "uae", "qatar", "oman", "bahrain", "kuwait"):
		return 4 // Umm al-Qura
	}
	return DefaultMethod
}
