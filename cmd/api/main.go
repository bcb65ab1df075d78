package main

import (
	"log"
	"net/http"

	"pos-saas/internal/config"
	"pos-saas/internal/forecast"
	handler "pos-saas/internal/handler/http"
	"pos-saas/internal/pkg/database"
	"pos-saas/internal/repository"
	"pos-saas/internal/scheduling"
	"pos-saas/internal/scheduling/solver"
	"pos-saas/internal/weather"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.Connect(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Scheduling module repositories
	staffRepo := repository.NewStaffRepository(db)
	preferenceRepo := repository.NewPreferenceRepository(db)
	predictionRepo := repository.NewPredictionRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	schedulingRepo := repository.NewSchedulingRepo(staffRepo, preferenceRepo, predictionRepo, assignmentRepo)

	// Scheduling module: weather + forecaster + constraint scheduler
	weatherProvider := weather.NewOpenMeteoProvider(nil, cfg.Weather.BaseURL)
	forecastModel := forecast.NewLinearModel()
	forecastModel.LoadDefault()
	forecaster := forecast.NewRegressionForecaster(forecastModel)
	schedulingEngine := scheduling.NewEngine(
		schedulingRepo,
		forecaster,
		weatherProvider,
		solver.NewCPSATSolver(),
		weather.Location{Latitude: cfg.Weather.Latitude, Longitude: cfg.Weather.Longitude},
	)
	schedulingHandler := handler.NewSchedulingHandler(schedulingRepo, schedulingEngine)

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("GET /api/v1/staff", schedulingHandler.ListStaff)
	mux.HandleFunc("GET /api/v1/staff/{id}", schedulingHandler.GetStaff)
	mux.HandleFunc("POST /api/v1/staff", schedulingHandler.CreateStaff)
	mux.HandleFunc("PUT /api/v1/staff/{id}", schedulingHandler.UpdateStaff)
	mux.HandleFunc("DELETE /api/v1/staff/{id}", schedulingHandler.DeleteStaff)
	mux.HandleFunc("POST /api/v1/shift_pre", schedulingHandler.UpsertShiftPreference)
	mux.HandleFunc("POST /api/v1/pred_sales", schedulingHandler.TriggerForecast)
	mux.HandleFunc("GET /api/v1/pred_sales", schedulingHandler.ListPredictedSales)
	mux.HandleFunc("POST /api/v1/shift_ass", schedulingHandler.RunSchedule)
	mux.HandleFunc("GET /api/v1/shift_ass_dash_board", schedulingHandler.DashboardToday)
	mux.HandleFunc("GET /api/v1/shift_ass_data_main", schedulingHandler.DashboardRange)

	log.Printf("🚀 Scheduling API listening on :%s", cfg.Server.Port)
	if err := http.ListenAndServe(":"+cfg.Server.Port, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
