package aladhan

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SyedMHaroon/NamazBot/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lahoreBody = `{
  "code": 200,
  "status": "OK",
  "data": {
    "timings": {"Fajr": "05:01 (PKT)", "Sunrise": "06:20", "Dhuhr": "11:55", "Asr": "15:05", "Maghrib": "17:30", "Isha": "18:48"},
    "date": {
      "readable": "28 Oct 2025",
      "hijri": {
        "date": "06-05-1447",
        "day": "06",
        "year": "1447",
        "weekday": {"en": "Al Thalaata", "ar": "الثلاثاء"},
        "month": {"number": 5, "en": "Jumādá al-ūlá", "ar": "جُمادى الأولى"}
      }
    },
    "meta": {"timezone": "Asia/Karachi"}
  }
}`

func TestClient_Fetch(t *testing.T) {
	tests := []struct {
		name          string
		city          string
		country       string
		date          string
		handler       func(t *testing.T) http.HandlerFunc
		expectedError error
		validate      func(t *testing.T, day *domain.PrayerDay)
	}{
		{
			name:    "city and country uses timingsByCity",
			city:    "Lahore",
			country: "Pakistan",
			handler: func(t *testing.T) http.HandlerFunc {
				return func(w http.ResponseWriter, r *http.Request) {
					assert.Equal(t, "/timingsByCity", r.URL.Path)
					assert.Equal(t, "Lahore", r.URL.Query().Get("city"))
					assert.Equal(t, "Pakistan", r.URL.Query().Get("country"))
					assert.Equal(t, "2", r.URL.Query().Get("method"))
					w.Write([]byte(lahoreBody))
				}
			},
			validate: func(t *testing.T, day *domain.PrayerDay) {
				assert.Equal(t, "05:01", day.Timings["Fajr"])
				assert.Equal(t, "18:48", day.Timings["Isha"])
				assert.Equal(t, "Asia/Karachi", day.Timezone)
				assert.Equal(t, "28 Oct 2025", day.Gregorian)
				assert.Equal(t, "06-05-1447", day.Hijri.Date)
				assert.Equal(t, 5, day.Hijri.MonthNumber)
				assert.Equal(t, "الثلاثاء", day.Hijri.WeekdayAr)
			},
		},
		{
			name: "city only uses address mode",
			city: "Makkah",
			date: "29-10-2025",
			handler: func(t *testing.T) http.HandlerFunc {
				return func(w http.ResponseWriter, r *http.Request) {
					assert.Equal(t, "/timingsByAddress/29-10-2025", r.URL.Path)
					assert.Equal(t, "Makkah", r.URL.Query().Get("address"))
					assert.Empty(t, r.URL.Query().Get("country"))
					w.Write([]byte(lahoreBody))
				}
			},
			validate: func(t *testing.T, day *domain.PrayerDay) {
				assert.Len(t, day.Timings, 6)
			},
		},
		{
			name:    "upstream error status",
			city:    "Nowhere",
			country: "Pakistan",
			handler: func(t *testing.T) http.HandlerFunc {
				return func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusBadRequest)
				}
			},
			expectedError: domain.ErrPrayerAPI,
		},
		{
			name:    "malformed body",
			city:    "Lahore",
			country: "Pakistan",
			handler: func(t *testing.T) http.HandlerFunc {
				return func(w http.ResponseWriter, r *http.Request) {
					w.Write([]byte("<html>"))
				}
			},
			expectedError: domain.ErrPrayerAPI,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler(t))
			defer srv.Close()

			client := NewClient(srv.URL, 5*time.Second)
			day, err := client.Fetch(context.Background(), tt.city, tt.country, tt.date)
			if tt.expectedError != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.expectedError))
				return
			}
			require.NoError(t, err)
			tt.validate(t, day)
		})
	}
}

func TestClient_CalculationMethod(t *testing.T) {
	tests := []struct {
		name     string
		regional bool
		country  string
		expected string
	}{
		{"interactive ignores region", false, "Pakistan", "2"},
		{"regional karachi method", true, "Pakistan", "1"},
		{"regional umm al-qura", true, "Saudi Arabia", "4"},
		{"regional address mode", true, "", "2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.URL.Query().Get("method")
				w.Write([]byte(lahoreBody))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, 5*time.Second)
			if tt.regional {
				client = NewRegionalClient(srv.URL, 5*time.Second)
			}
			_, err := client.Fetch(context.Background(), "Lahore", tt.country, "")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestClient_FetchRequiresCity(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", time.Second)
	_, err := client.Fetch(context.Background(), "", "Pakistan", "")
	assert.ErrorIs(t, err, domain.ErrPrayerAPI)
}

func TestCleanTime(t *testing.T) {
	assert.Equal(t, "05:01", CleanTime("05:01 (PKT)"))
	assert.Equal(t, "5:01", CleanTime("5:01"))
	assert.Equal(t, "N/A", CleanTime("N/A"))
}

func TestMethodForCountry(t *testing.T) {
	tests := []struct {
		country  string
		expected int
	}{
		{"Pakistan", 1},
		{"United States", 2},
		{"Canada", 2},
		{"United Kingdom", 3},
		{"Saudi Arabia", 4},
		{"United Arab Emirates", 4},
		{"Indonesia", 2},
		{"Romania", 2},
		{"Ukraine", 2},
		{"Oman", 4},
		{"Republic of Ireland", 3},
		{"", 2},
	}
	for _, tt := range tests {
		t.Run(tt.country, func(t *testing.T) {
			assert.Equal(t, tt.expected, MethodForCountry(tt.country))
		})
	}
}
