package weather

import "time"

// festivalDays is the process-wide table of known festival MM-DD pairs,
// initialized once and read-only thereafter — the same "global constant"
// treatment spec.md mandates for IntradaySalesProfile/SalaryTable.
var festivalDays = map[string]bool{
	"01-01": true, // New Year's Day
	"01-02": true,
	"01-03": true,
	"02-11": true, // National Foundation Day
	"02-23": true, // Emperor's Birthday
	"03-20": true, // Vernal Equinox (approximate, fixed for simplicity)
	"04-29": true, // Showa Day
	"05-03": true, // Constitution Memorial Day
	"05-04": true, // Greenery Day
	"05-05": true, // Children's Day
	"07-07": true, // Tanabata
	"08-11": true, // Mountain Day
	"09-23": true, // Autumnal Equinox (approximate)
	"10-31": true, // Halloween
	"11-03": true, // Culture Day
	"11-23": true, // Labor Thanksgiving Day
	"12-24": true, // Christmas Eve
	"12-25": true, // Christmas Day
	"12-31": true, // New Year's Eve
}

// IsFestival reports whether date's MM-DD falls on a known festival day.
func IsFestival(date time.Time) bool {
	return festivalDays[date.In(Tokyo).Format("01-02")]
}
