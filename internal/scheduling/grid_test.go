package scheduling

import (
	"context"
	"testing"
	"time"

	"pos-saas/internal/domain"
	"pos-saas/internal/weather"
)

// fakeRepo is a minimal in-memory SchedulingRepository double for grid tests.
type fakeRepo struct {
	staff       []domain.Staff
	preferences []domain.ShiftPreference
	predictions map[string]domain.DailyPrediction
	upserted    []domain.DailyPrediction
	replaced    []domain.Assignment
}

func (r *fakeRepo) ListStaff() ([]domain.Staff, error) { return r.staff, nil }
func (r *fakeRepo) GetStaff(id int) (*domain.Staff, error) {
	for _, s := range r.staff {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, domain.ErrNotFound
}
func (r *fakeRepo) CreateStaff(fields domain.Staff) (*domain.Staff, error) { return &fields, nil }
func (r *fakeRepo) UpdateStaff(id int, patch domain.Staff) (*domain.Staff, error) {
	return &patch, nil
}
func (r *fakeRepo) DeleteStaff(id int) error { return nil }

func (r *fakeRepo) ListPreferencesInRange(start, end time.Time) ([]domain.ShiftPreference, error) {
	return r.preferences, nil
}
func (r *fakeRepo) UpsertPreference(pref domain.ShiftPreference) (*domain.ShiftPreference, error) {
	return &pref, nil
}

func (r *fakeRepo) GetPredictionRange(start, end time.Time) ([]domain.DailyPrediction, error) {
	var out []domain.DailyPrediction
	for _, p := range r.predictions {
		out = append(out, p)
	}
	return out, nil
}
func (r *fakeRepo) UpsertPredictions(predictions []domain.DailyPrediction) error {
	r.upserted = append(r.upserted, predictions...)
	return nil
}

func (r *fakeRepo) ReplaceAssignmentsInRange(start, end time.Time, assignments []domain.Assignment) error {
	r.replaced = assignments
	return nil
}
func (r *fakeRepo) ListAssignmentsInRange(start, end time.Time) ([]domain.Assignment, error) {
	return nil, nil
}

// fakeForecaster never calls into the regression model; it returns a fixed
// prediction per date, so grid tests don't depend on the forecaster's math.
type fakeForecaster struct {
	sales float64
}

func (f *fakeForecaster) PredictDailySales(ctx context.Context, start, end time.Time, festivalFlags []int, weatherRows []weather.DailyWeather) ([]domain.DailyPrediction, error) {
	var out []domain.DailyPrediction
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, domain.DailyPrediction{Date: d, PredictedSales: f.sales})
	}
	return out, nil
}
func (f *fakeForecaster) HourlySales(predictedSales float64, hour int) float64 {
	return predictedSales * domain.IntradaySalesProfile[hour]
}

type fakeWeatherProvider struct{}

func (fakeWeatherProvider) FestivalsInRange(start, end time.Time) ([]int, error) {
	return []int{0}, nil
}
func (fakeWeatherProvider) WeatherInRange(ctx context.Context, loc weather.Location, start, end time.Time) ([]weather.DailyWeather, error) {
	return nil, nil
}

func hoursPerDate(grid []domain.HourSlot) int {
	return domain.LastHour - domain.FirstHour + 1
}

func TestBuildGridExplodesExactlyOnceDataPerStaffDateHour(t *testing.T) {
	date := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		staff: []domain.Staff{
			{ID: 1001, Name: "Aya", Level: 3, Status: domain.StaffStatusFullTime},
		},
		preferences: []domain.ShiftPreference{
			{StaffID: 1001, Date: date, Morning: true, Afternoon: true, Night: true},
		},
		predictions: map[string]domain.DailyPrediction{
			dateKey(date): {Date: date, PredictedSales: 100000},
		},
	}

	grid, err := BuildGrid(context.Background(), date, date, repo, &fakeForecaster{}, fakeWeatherProvider{}, weather.Location{})
	if err != nil {
		t.Fatalf("BuildGrid: %v", err)
	}

	perHours := hoursPerDate(grid)
	wantRows := 2 * perHours // one real staff + overflow
	if len(grid) != wantRows {
		t.Fatalf("expected %d rows, got %d", wantRows, len(grid))
	}

	seen := make(map[[2]int]bool)
	for _, slot := range grid {
		key := [2]int{slot.StaffID, slot.Hour}
		if seen[key] {
			t.Fatalf("duplicate row for staff %d hour %d", slot.StaffID, slot.Hour)
		}
		seen[key] = true
	}
}

func TestBuildGridStaffWithoutPreferenceIsAbsent(t *testing.T) {
	date := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		staff: []domain.Staff{
			{ID: 1001, Name: "Aya", Level: 3},
			{ID: 1002, Name: "Kenji", Level: 2},
		},
		preferences: []domain.ShiftPreference{
			{StaffID: 1001, Date: date, Morning: true, Afternoon: true, Night: true},
		},
		predictions: map[string]domain.DailyPrediction{
			dateKey(date): {Date: date, PredictedSales: 100000},
		},
	}

	grid, err := BuildGrid(context.Background(), date, date, repo, &fakeForecaster{}, fakeWeatherProvider{}, weather.Location{})
	if err != nil {
		t.Fatalf("BuildGrid: %v", err)
	}
	for _, slot := range grid {
		if slot.StaffID == 1002 {
			t.Fatalf("staff 1002 has no preference record and should contribute no rows")
		}
	}
}

func TestBuildGridMissingStaffFieldsDefaultPerSpec(t *testing.T) {
	date := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		staff: nil, // preference references a staff_id not in the roster
		preferences: []domain.ShiftPreference{
			{StaffID: 9999, Date: date, Morning: true},
		},
		predictions: map[string]domain.DailyPrediction{
			dateKey(date): {Date: date, PredictedSales: 50000},
		},
	}

	grid, err := BuildGrid(context.Background(), date, date, repo, &fakeForecaster{}, fakeWeatherProvider{}, weather.Location{})
	if err != nil {
		t.Fatalf("BuildGrid: %v", err)
	}
	found := false
	for _, slot := range grid {
		if slot.StaffID == 9999 {
			found = true
			if slot.Name != "unknown" || slot.Status != "unknown" || slot.Level != 0 {
				t.Fatalf("expected defaulted fields, got %+v", slot)
			}
		}
	}
	if !found {
		t.Fatalf("expected rows for staff 9999 despite missing roster entry")
	}
}

func TestBuildGridForecastsMissingPredictionsAndPersists(t *testing.T) {
	date := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		staff:       nil,
		preferences: nil,
		predictions: map[string]domain.DailyPrediction{},
	}

	_, err := BuildGrid(context.Background(), date, date, repo, &fakeForecaster{sales: 75000}, fakeWeatherProvider{}, weather.Location{})
	if err != nil {
		t.Fatalf("BuildGrid: %v", err)
	}
	if len(repo.upserted) != 1 {
		t.Fatalf("expected the forecast to be persisted once, got %d", len(repo.upserted))
	}
	if repo.upserted[0].PredictedSales != 75000 {
		t.Fatalf("expected persisted prediction of 75000, got %v", repo.upserted[0].PredictedSales)
	}
}

func TestBuildGridSortedByDateHourStaffID(t *testing.T) {
	date := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		staff: []domain.Staff{
			{ID: 1001, Name: "Aya", Level: 3},
			{ID: 1002, Name: "Kenji", Level: 2},
		},
		preferences: []domain.ShiftPreference{
			{StaffID: 1002, Date: date, Morning: true, Afternoon: true, Night: true},
			{StaffID: 1001, Date: date, Morning: true, Afternoon: true, Night: true},
		},
		predictions: map[string]domain.DailyPrediction{
			dateKey(date): {Date: date, PredictedSales: 100000},
		},
	}

	grid, err := BuildGrid(context.Background(), date, date, repo, &fakeForecaster{}, fakeWeatherProvider{}, weather.Location{})
	if err != nil {
		t.Fatalf("BuildGrid: %v", err)
	}
	for i := 1; i < len(grid); i++ {
		prev, cur := grid[i-1], grid[i]
		if cur.Hour < prev.Hour || (cur.Hour == prev.Hour && cur.StaffID < prev.StaffID) {
			t.Fatalf("grid not sorted at index %d: %+v then %+v", i, prev, cur)
		}
	}
}
