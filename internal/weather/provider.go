// Package weather fetches per-day festival flags and weather features used
// by the sales forecaster (internal/forecast). It is the scheduling engine's
// C1 collaborator — HTTP transport and caching live here so the rest of the
// engine never touches a socket.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v4"

	"pos-saas/internal/domain"
)

// Tokyo is the fixed time zone all weather and festival lookups are
// evaluated in, per spec.
var Tokyo = mustLoadLocation("Asia/Tokyo")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		// Asia/Tokyo ships with every tzdata build Go targets; a missing
		// zoneinfo database is an environment defect, not a recoverable
		// runtime condition.
		return time.UTC
	}
	return loc
}

// Location identifies where the forecast applies.
type Location struct {
	Latitude  float64
	Longitude float64
}

// DailyWeather is one day's weather features, date stripped of time-of-day.
type DailyWeather struct {
	Date        time.Time
	Rain        float64
	Snowfall    float64
	WeatherCode int
	Temperature float64
}

// Provider produces festival flags and weather rows for a date range. It is
// the capability interface the grid builder and forecaster depend on — HTTP
// transport and any caching/retrying live behind it.
type Provider interface {
	FestivalsInRange(start, end time.Time) ([]int, error)
	WeatherInRange(ctx context.Context, loc Location, start, end time.Time) ([]DailyWeather, error)
}

// OpenMeteoProvider fetches weather from the Open-Meteo forecast API over
// HTTPS, with a caching layer and exponential-backoff retries in front of the
// HTTP client, grounded on the corpus's weather/service aggregator examples.
type OpenMeteoProvider struct {
	client  *http.Client
	baseURL string
	cache   *cache
	retries uint64
}

// NewOpenMeteoProvider constructs a provider with a 1-hour response cache and
// up to 5 retried attempts with exponential backoff on transient failures.
func NewOpenMeteoProvider(client *http.Client, baseURL string) *OpenMeteoProvider {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if baseURL == "" {
		baseURL = "https://api.open-meteo.com/v1/forecast"
	}
	return &OpenMeteoProvider{
		client:  client,
		baseURL: baseURL,
		cache:   newCache(time.Hour),
		retries: 5,
	}
}

// FestivalsInRange returns, for each day in [start, end], 1 if that day's
// MM-DD appears in the known festival table, else 0.
func (p *OpenMeteoProvider) FestivalsInRange(start, end time.Time) ([]int, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end before start", domain.ErrBadRequest)
	}
	flags := make([]int, 0, daySpan(start, end))
	for d := stripTime(start); !d.After(stripTime(end)); d = d.AddDate(0, 0, 1) {
		if IsFestival(d) {
			flags = append(flags, 1)
		} else {
			flags = append(flags, 0)
		}
	}
	return flags, nil
}

// openMeteoResponse mirrors the subset of the Open-Meteo daily response this
// provider consumes.
type openMeteoResponse struct {
	Daily struct {
		Time               []string  `json:"time"`
		Rain               []float64 `json:"rain_sum"`
		Snowfall           []float64 `json:"snowfall_sum"`
		WeatherCode        []int     `json:"weather_code"`
		TemperatureMean    []float64 `json:"temperature_2m_mean"`
	} `json:"daily"`
}

// WeatherInRange fetches per-day weather for [start, end] at loc, caching
// results for an hour and retrying transient HTTP failures up to 5 times
// with exponential backoff. An empty response (the upstream genuinely
// returned nothing) yields an empty, non-error slice — the caller is
// responsible for detecting and surfacing "weather unavailable".
func (p *OpenMeteoProvider) WeatherInRange(ctx context.Context, loc Location, start, end time.Time) ([]DailyWeather, error) {
	key := cacheKey(loc, start, end)
	if rows, ok := p.cache.get(key); ok {
		return rows, nil
	}

	url := fmt.Sprintf(
		"%s?latitude=%f&longitude=%f&daily=rain_sum,snowfall_sum,weather_code,temperature_2m_mean&timezone=Asia%%2FTokyo&start_date=%s&end_date=%s",
		p.baseURL, loc.Latitude, loc.Longitude, formatDate(start), formatDate(end),
	)

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := p.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			return fmt.Errorf("weather provider returned %d", resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("weather provider returned %d", resp.StatusCode))
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		body = data
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), p.retries)
	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}

	var parsed openMeteoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decoding weather response: %v", domain.ErrUnavailable, err)
	}

	rows := make([]DailyWeather, 0, len(parsed.Daily.Time))
	for i, dateStr := range parsed.Daily.Time {
		date, err := time.ParseInLocation("2006-01-02", dateStr, Tokyo)
		if err != nil {
			continue
		}
		row := DailyWeather{Date: date}
		if i < len(parsed.Daily.Rain) {
			row.Rain = parsed.Daily.Rain[i]
		}
		if i < len(parsed.Daily.Snowfall) {
			row.Snowfall = parsed.Daily.Snowfall[i]
		}
		if i < len(parsed.Daily.WeatherCode) {
			row.WeatherCode = parsed.Daily.WeatherCode[i]
		}
		if i < len(parsed.Daily.TemperatureMean) {
			row.Temperature = parsed.Daily.TemperatureMean[i]
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })

	p.cache.set(key, rows)
	return rows, nil
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func stripTime(t time.Time) time.Time {
	y, m, d := t.In(Tokyo).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, Tokyo)
}

func daySpan(start, end time.Time) int {
	days := int(stripTime(end).Sub(stripTime(start)).Hours()/24) + 1
	if days < 0 {
		return 0
	}
	return days
}
