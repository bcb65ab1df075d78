package forecast

import (
	"context"
	"testing"
	"time"

	"pos-saas/internal/weather"
)

func TestPredictDailySales(t *testing.T) {
	model := NewLinearModel()
	model.LoadDefault()
	f := NewRegressionForecaster(model)

	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	end := start

	festivals := []int{0}
	rows := []weather.DailyWeather{{Date: start, Temperature: 10, Rain: 0, Snowfall: 0, WeatherCode: 1}}

	predictions, err := f.PredictDailySales(context.Background(), start, end, festivals, rows)
	if err != nil {
		t.Fatalf("PredictDailySales: %v", err)
	}
	if len(predictions) != 1 {
		t.Fatalf("expected 1 prediction, got %d", len(predictions))
	}
	if predictions[0].PredictedSales <= 0 {
		t.Fatalf("expected positive predicted sales, got %v", predictions[0].PredictedSales)
	}
}

func TestPredictDailySalesFestivalBump(t *testing.T) {
	model := NewLinearModel()
	model.LoadDefault()
	f := NewRegressionForecaster(model)

	date := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	weatherRows := []weather.DailyWeather{{Date: date, Temperature: 20}}

	base, err := f.PredictDailySales(context.Background(), date, date, []int{0}, weatherRows)
	if err != nil {
		t.Fatalf("base predict: %v", err)
	}
	festival, err := f.PredictDailySales(context.Background(), date, date, []int{1}, weatherRows)
	if err != nil {
		t.Fatalf("festival predict: %v", err)
	}

	if festival[0].PredictedSales <= base[0].PredictedSales {
		t.Fatalf("expected festival day sales (%v) to exceed baseline (%v)", festival[0].PredictedSales, base[0].PredictedSales)
	}
}

func TestHourlySales(t *testing.T) {
	model := NewLinearModel()
	model.LoadDefault()
	f := NewRegressionForecaster(model)

	got := f.HourlySales(50000, 12)
	want := 50000 * 0.10
	if got != want {
		t.Fatalf("HourlySales(50000, 12) = %v, want %v", got, want)
	}
}

func TestScoreRejectsUnloadedModel(t *testing.T) {
	model := NewLinearModel()
	_, err := model.Score(FeatureRow{})
	if err == nil {
		t.Fatal("expected error scoring an unloaded model")
	}
}

func TestLoadRejectsMismatchedWeights(t *testing.T) {
	model := NewLinearModel()
	err := model.Load([]byte(`{"weights":[1,2,3]}`))
	if err == nil {
		t.Fatal("expected feature mismatch error")
	}
}

func TestLoadRejectsEmptyArtifact(t *testing.T) {
	model := NewLinearModel()
	if err := model.Load(nil); err == nil {
		t.Fatal("expected model unavailable error for empty artifact")
	}
}
