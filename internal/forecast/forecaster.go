package forecast

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"pos-saas/internal/domain"
	"pos-saas/internal/weather"
)

// Forecaster is the C2 sales-forecasting collaborator: it turns feature rows
// into predicted daily sales, and predicted daily sales into predicted
// hourly sales via the intraday profile.
type Forecaster interface {
	PredictDailySales(ctx context.Context, start, end time.Time, festivalFlags []int, weatherRows []weather.DailyWeather) ([]domain.DailyPrediction, error)
	HourlySales(predictedSales float64, hour int) float64
}

// RegressionForecaster is the default Forecaster, backed by a Regressor
// (internal/forecast/model.go).
type RegressionForecaster struct {
	model Regressor
}

// NewRegressionForecaster wires a forecaster around a loaded Regressor.
func NewRegressionForecaster(model Regressor) *RegressionForecaster {
	return &RegressionForecaster{model: model}
}

// PredictDailySales builds one feature row per date and scores it against
// the frozen regression model.
func (f *RegressionForecaster) PredictDailySales(
	ctx context.Context,
	start, end time.Time,
	festivalFlags []int,
	weatherRows []weather.DailyWeather,
) ([]domain.DailyPrediction, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	rows, err := BuildFeatureRows(start, end, festivalFlags, weatherRows)
	if err != nil {
		return nil, fmt.Errorf("building feature rows: %w", err)
	}

	predictions := make([]domain.DailyPrediction, 0, len(rows))
	for _, row := range rows {
		sales, err := f.model.Score(row)
		if err != nil {
			log.Printf("[FORECAST] scoring %s failed: %v", row.Date.Format("2006-01-02"), err)
			return nil, err
		}
		predictions = append(predictions, domain.DailyPrediction{
			Date:           row.Date,
			PredictedSales: sales,
		})
	}

	sort.Slice(predictions, func(i, j int) bool { return predictions[i].Date.Before(predictions[j].Date) })
	return predictions, nil
}

// HourlySales multiplies predicted daily sales by the intraday profile
// fraction for hour.
func (f *RegressionForecaster) HourlySales(predictedSales float64, hour int) float64 {
	fraction := domain.IntradaySalesProfile[hour]
	return predictedSales * fraction
}

// ForecastConfidence derives optimistic/pessimistic percentile bands from a
// short run of historical daily sales figures, the same shape as the
// teacher's RevenueForecastingService.sumForecasts percentile bands. This is
// a diagnostic supplement (SPEC_FULL §"SUPPLEMENTED FEATURES") — it is never
// consulted by the grid builder or the constraint scheduler.
func ForecastConfidence(history []float64) (optimisticFactor, pessimisticFactor, confidence float64) {
	if len(history) == 0 {
		return 1.0, 1.0, 0
	}
	mean, std := standardDeviation(history)
	if mean == 0 {
		return 1.0, 1.0, 0
	}
	optimisticFactor = (mean + std) / mean
	pessimisticFactor = (mean - std) / mean
	confidence = clamp(float64(len(history))/30.0, 0, 1)
	return optimisticFactor, pessimisticFactor, confidence
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
