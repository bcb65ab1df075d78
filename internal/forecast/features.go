package forecast

import (
	"time"

	"pos-saas/internal/weather"
)

// Season codes, in the order the frozen categorical encoder expects them.
const (
	SeasonWinter = iota
	SeasonSpring
	SeasonSummer
	SeasonAutumn
)

// SeasonForMonth derives the season from a calendar month: Dec-Feb=winter,
// Mar-May=spring, Jun-Aug=summer, Sep-Nov=autumn.
func SeasonForMonth(month time.Month) int {
	switch month {
	case time.December, time.January, time.February:
		return SeasonWinter
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	default:
		return SeasonAutumn
	}
}

// FeatureRow is one date's worth of model inputs, matching spec.md §4.2.
type FeatureRow struct {
	Date        time.Time
	Weekday     int // 0=Sunday .. 6=Saturday
	Month       int
	Day         int
	ISOYear     int
	ISOWeek     int
	IsFestival  int // 0 or 1
	Season      int
	WeatherCode int
	Temperature float64
	Rain        float64
	Snowfall    float64
}

// BuildFeatureRows assembles one FeatureRow per date in [start, end],
// fusing festival flags and weather rows by date. Every date in range must
// have a corresponding weather row; callers supply festival flags aligned
// 1:1 with dates (as produced by weather.Provider.FestivalsInRange).
func BuildFeatureRows(start, end time.Time, festivalFlags []int, weatherRows []weather.DailyWeather) ([]FeatureRow, error) {
	weatherByDate := make(map[string]weather.DailyWeather, len(weatherRows))
	for _, w := range weatherRows {
		weatherByDate[w.Date.Format("2006-01-02")] = w
	}

	var rows []FeatureRow
	i := 0
	for d := dateOnly(start); !d.After(dateOnly(end)); d = d.AddDate(0, 0, 1) {
		isoYear, isoWeek := d.ISOWeek()

		row := FeatureRow{
			Date:    d,
			Weekday: int(d.Weekday()),
			Month:   int(d.Month()),
			Day:     d.Day(),
			ISOYear: isoYear,
			ISOWeek: isoWeek,
			Season:  SeasonForMonth(d.Month()),
		}
		if i < len(festivalFlags) {
			row.IsFestival = festivalFlags[i]
		}
		if w, ok := weatherByDate[d.Format("2006-01-02")]; ok {
			row.WeatherCode = w.WeatherCode
			row.Temperature = w.Temperature
			row.Rain = w.Rain
			row.Snowfall = w.Snowfall
		}
		rows = append(rows, row)
		i++
	}
	return rows, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Vector encodes the feature row into the fixed-order numeric vector the
// regression model expects: an intercept term, the raw weekday/month/day/
// isoyear/isoweek/festival fields, a one-hot season encoding (the frozen
// categorical encoder shipped with the model), and the weather fields.
func (f FeatureRow) Vector() []float64 {
	season := make([]float64, 4)
	if f.Season >= 0 && f.Season < len(season) {
		season[f.Season] = 1
	}

	vec := []float64{
		1, // intercept
		float64(f.Weekday),
		float64(f.Month),
		float64(f.Day),
		float64(f.ISOYear),
		float64(f.ISOWeek),
		float64(f.IsFestival),
	}
	vec = append(vec, season...)
	vec = append(vec, float64(f.WeatherCode), f.Temperature, f.Rain, f.Snowfall)
	return vec
}

// VectorLen is the length of the vector Vector() produces; used to validate
// a loaded model artifact's weight count against the feature schema.
const VectorLen = 1 /*intercept*/ + 6 /*weekday,month,day,isoyear,isoweek,festival*/ + 4 /*season one-hot*/ + 4 /*weather,temp,rain,snow*/
