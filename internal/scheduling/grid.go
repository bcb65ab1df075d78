// Package scheduling builds the per-(staff,date,hour) decision grid and
// drives the constraint scheduler over it.
package scheduling

import (
	"context"
	"fmt"
	"sort"
	"time"

	"pos-saas/internal/domain"
	"pos-saas/internal/forecast"
	"pos-saas/internal/repository"
	"pos-saas/internal/weather"
)

// BuildGrid fuses staff, preferences, and predicted sales into the decision
// grid the constraint scheduler consumes. Missing predictions are forecast
// on demand via weatherProvider + forecaster. Implements spec.md §4.4's
// 8-step algorithm.
func BuildGrid(
	ctx context.Context,
	start, end time.Time,
	repo repository.SchedulingRepository,
	forecaster forecast.Forecaster,
	weatherProvider weather.Provider,
	loc weather.Location,
) ([]domain.HourSlot, error) {
	prefs, err := repo.ListPreferencesInRange(start, end)
	if err != nil {
		return nil, fmt.Errorf("fetching preferences: %w", err)
	}

	staffList, err := repo.ListStaff()
	if err != nil {
		return nil, fmt.Errorf("fetching staff: %w", err)
	}
	staffByID := make(map[int]domain.Staff, len(staffList))
	for _, s := range staffList {
		staffByID[s.ID] = s
	}

	predictions, err := repo.GetPredictionRange(start, end)
	if err != nil {
		return nil, fmt.Errorf("fetching predictions: %w", err)
	}
	predByDate := make(map[string]domain.DailyPrediction, len(predictions))
	for _, p := range predictions {
		predByDate[dateKey(p.Date)] = p
	}

	if len(missingDates(start, end, predByDate)) > 0 {
		festivalFlags, err := weatherProvider.FestivalsInRange(start, end)
		if err != nil {
			return nil, fmt.Errorf("fetching festival calendar: %w", err)
		}
		weatherRows, err := weatherProvider.WeatherInRange(ctx, loc, start, end)
		if err != nil {
			return nil, fmt.Errorf("fetching weather: %w", err)
		}
		forecasted, err := forecaster.PredictDailySales(ctx, start, end, festivalFlags, weatherRows)
		if err != nil {
			return nil, fmt.Errorf("forecasting demand: %w", err)
		}

		var toPersist []domain.DailyPrediction
		for _, p := range forecasted {
			key := dateKey(p.Date)
			if _, already := predByDate[key]; already {
				continue
			}
			predByDate[key] = p
			toPersist = append(toPersist, p)
		}
		if err := repo.UpsertPredictions(toPersist); err != nil {
			return nil, fmt.Errorf("persisting forecast: %w", err)
		}
	}

	var grid []domain.HourSlot
	for _, pref := range prefs {
		joined := joinStaffPreference(pref, staffByID)
		pred := joinPrediction(joined.date, predByDate)
		grid = append(grid, explode(joined, pred)...)
	}

	for _, d := range dateRange(start, end) {
		pred := joinPrediction(d, predByDate)
		grid = append(grid, overflowRows(d, pred)...)
	}

	sort.Slice(grid, func(i, j int) bool {
		if !grid[i].Date.Equal(grid[j].Date) {
			return grid[i].Date.Before(grid[j].Date)
		}
		if grid[i].Hour != grid[j].Hour {
			return grid[i].Hour < grid[j].Hour
		}
		return grid[i].StaffID < grid[j].StaffID
	})

	return grid, nil
}

// joinedRow is the typed join helper's output: one staff-preference pair
// fused with roster data, ready to explode into an hour-by-hour grid slice.
// Rejects silent drops except the four documented defaults (spec.md §4.4
// step 2, §9).
type joinedRow struct {
	staffID int
	date    time.Time
	name    string
	level   int
	status  string
	pref    domain.ShiftPreference
}

// joinStaffPreference left-joins a preference record onto the staff roster.
// Missing staff (a preference referencing a deleted staff_id) fill the three
// documented defaults rather than dropping the row.
func joinStaffPreference(pref domain.ShiftPreference, staffByID map[int]domain.Staff) joinedRow {
	row := joinedRow{
		staffID: pref.StaffID,
		date:    pref.Date,
		pref:    pref,
		name:    "unknown",
		status:  "unknown",
		level:   0,
	}
	if staff, ok := staffByID[pref.StaffID]; ok {
		row.name = staff.Name
		row.level = staff.Level
		row.status = staff.Status
	}
	return row
}

// joinPrediction joins a date against the prediction map, defaulting missing
// predicted_sales to 0 (spec.md §4.4 step 3).
func joinPrediction(date time.Time, predByDate map[string]domain.DailyPrediction) domain.DailyPrediction {
	if pred, ok := predByDate[dateKey(date)]; ok {
		return pred
	}
	return domain.DailyPrediction{Date: date, PredictedSales: 0}
}

// explode expands one joined (staff, date) row into 16 HourSlot rows, one
// per hour in [domain.FirstHour, domain.LastHour]. A plain slice-builder —
// the expansion is small and fixed-size per group, so a lazy
// generator/iterator would add ceremony without benefit.
func explode(row joinedRow, pred domain.DailyPrediction) []domain.HourSlot {
	slots := make([]domain.HourSlot, 0, domain.LastHour-domain.FirstHour+1)
	for hour := domain.FirstHour; hour <= domain.LastHour; hour++ {
		salesPerHour := pred.PredictedSales * domain.IntradaySalesProfile[hour]
		slots = append(slots, domain.HourSlot{
			Date:              row.date,
			Hour:              hour,
			StaffID:           row.staffID,
			Name:              row.name,
			Level:             row.level,
			Status:            row.status,
			PredictedSales:    pred.PredictedSales,
			PredSalesPerHour:  salesPerHour,
			Salary:            domain.SalaryForLevel(row.level),
			PreferenceAllowed: row.pref.Allows(hour),
		})
	}
	return slots
}

// overflowRows builds the 16 synthetic overflow-staff rows for a date
// (spec.md §4.4 step 5). The overflow worker is always preference-eligible
// — it exists precisely to absorb demand no real staff can cover.
func overflowRows(date time.Time, pred domain.DailyPrediction) []domain.HourSlot {
	slots := make([]domain.HourSlot, 0, domain.LastHour-domain.FirstHour+1)
	for hour := domain.FirstHour; hour <= domain.LastHour; hour++ {
		salesPerHour := pred.PredictedSales * domain.IntradaySalesProfile[hour]
		slots = append(slots, domain.HourSlot{
			Date:              date,
			Hour:              hour,
			StaffID:           domain.OverflowStaffID,
			Name:              domain.OverflowStaffName,
			Level:             0,
			Status:            domain.StaffStatusOverflow,
			PredictedSales:    pred.PredictedSales,
			PredSalesPerHour:  salesPerHour,
			Salary:            domain.OverflowSalary,
			PreferenceAllowed: true,
		})
	}
	return slots
}

// missingDates returns every date in [start,end] absent from predByDate.
func missingDates(start, end time.Time, predByDate map[string]domain.DailyPrediction) []time.Time {
	var missing []time.Time
	for _, d := range dateRange(start, end) {
		if _, ok := predByDate[dateKey(d)]; !ok {
			missing = append(missing, d)
		}
	}
	return missing
}

// dateRange enumerates every date in [start,end] inclusive.
func dateRange(start, end time.Time) []time.Time {
	var dates []time.Time
	for d := stripTime(start); !d.After(stripTime(end)); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

func dateKey(t time.Time) string {
	return stripTime(t).Format("2006-01-02")
}

func stripTime(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
