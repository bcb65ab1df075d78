package repository

import (
	"database/sql"
	"fmt"
	"time"

	"pos-saas/internal/domain"
)

// PredictionRepository persists the forecaster's daily sales output.
//
// Table: daily_prediction(date PK, predicted_sales).
type PredictionRepository struct {
	db *sql.DB
}

// NewPredictionRepository creates a new prediction repository.
func NewPredictionRepository(db *sql.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// GetPredictionRange retrieves persisted predictions for [start, end].
func (r *PredictionRepository) GetPredictionRange(start, end time.Time) ([]domain.DailyPrediction, error) {
	rows, err := r.db.Query(`
		SELECT date, predicted_sales
		FROM daily_prediction
		WHERE date >= $1 AND date <= $2
		ORDER BY date ASC
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("listing predictions: %w", err)
	}
	defer rows.Close()

	var predictions []domain.DailyPrediction
	for rows.Next() {
		var p domain.DailyPrediction
		if err := rows.Scan(&p.Date, &p.PredictedSales); err != nil {
			return nil, fmt.Errorf("scanning prediction row: %w", err)
		}
		predictions = append(predictions, p)
	}
	if predictions == nil {
		predictions = []domain.DailyPrediction{}
	}
	return predictions, rows.Err()
}

// UpsertPredictions writes predictions for a batch of dates. Most recent
// write wins per date, per spec — implemented as ON CONFLICT (date) DO
// UPDATE inside a single transaction so a partial batch failure never leaves
// half the range overwritten.
func (r *PredictionRepository) UpsertPredictions(predictions []domain.DailyPrediction) error {
	if len(predictions) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning prediction upsert transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO daily_prediction (date, predicted_sales)
		VALUES ($1, $2)
		ON CONFLICT (date) DO UPDATE SET predicted_sales = $2
	`)
	if err != nil {
		return fmt.Errorf("preparing prediction upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range predictions {
		if _, err := stmt.Exec(p.Date, p.PredictedSales); err != nil {
			return fmt.Errorf("upserting prediction for %s: %w", p.Date.Format("2006-01-02"), err)
		}
	}

	return tx.Commit()
}
