package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"pos-saas/internal/domain"
	"pos-saas/internal/repository"
	"pos-saas/internal/scheduling"
	"pos-saas/internal/weather"
)

const dateLayout = "2006-01-02"

// SchedulingHandler adapts spec.md §6's HTTP table onto the scheduling
// engine and its supporting repositories, following the same thin-adapter
// style as CategoryHandler — parse request, call a collaborator, respond
// JSON.
type SchedulingHandler struct {
	repo   repository.SchedulingRepository
	engine *scheduling.Engine
}

// NewSchedulingHandler wires a scheduling handler.
func NewSchedulingHandler(repo repository.SchedulingRepository, engine *scheduling.Engine) *SchedulingHandler {
	return &SchedulingHandler{repo: repo, engine: engine}
}

// ListStaff handles GET /api/v1/staff.
func (h *SchedulingHandler) ListStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.repo.ListStaff()
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, staff)
}

// GetStaff handles GET /api/v1/staff/{id}.
func (h *SchedulingHandler) GetStaff(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid staff id")
		return
	}

	staff, err := h.repo.GetStaff(id)
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, staff)
}

// CreateStaff handles POST /api/v1/staff.
func (h *SchedulingHandler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var input domain.Staff
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.Name == "" || input.Email == "" {
		respondError(w, http.StatusBadRequest, "name and e_mail are required")
		return
	}

	created, err := h.repo.CreateStaff(input)
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// UpdateStaff handles PUT /api/v1/staff/{id}.
func (h *SchedulingHandler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid staff id")
		return
	}

	var patch domain.Staff
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.repo.UpdateStaff(id, patch)
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// DeleteStaff handles DELETE /api/v1/staff/{id}.
func (h *SchedulingHandler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid staff id")
		return
	}

	if err := h.repo.DeleteStaff(id); err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpsertShiftPreference handles POST /api/v1/shift_pre.
func (h *SchedulingHandler) UpsertShiftPreference(w http.ResponseWriter, r *http.Request) {
	var input struct {
		StaffID   int    `json:"staff_id"`
		Date      string `json:"date"`
		Morning   bool   `json:"morning"`
		Afternoon bool   `json:"afternoon"`
		Night     bool   `json:"night"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.StaffID == 0 || input.Date == "" {
		respondError(w, http.StatusBadRequest, "staff_id and date are required")
		return
	}

	date, err := time.Parse(dateLayout, input.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	pref := domain.ShiftPreference{
		StaffID:   input.StaffID,
		Date:      date,
		Morning:   input.Morning,
		Afternoon: input.Afternoon,
		Night:     input.Night,
	}
	stored, err := h.repo.UpsertPreference(pref)
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, stored)
}

// dateRangeRequest is the shared {start_date, end_date} body shape for
// /pred_sales and /shift_ass.
type dateRangeRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (req dateRangeRequest) parse() (time.Time, time.Time, error) {
	if req.StartDate == "" || req.EndDate == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date and end_date are required", domain.ErrBadRequest)
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date must be YYYY-MM-DD", domain.ErrBadRequest)
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date must be YYYY-MM-DD", domain.ErrBadRequest)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date before start_date", domain.ErrBadRequest)
	}
	return start, end, nil
}

// TriggerForecast handles POST /api/v1/pred_sales. It runs a full scheduling
// pass (engine.Run) over [start_date, end_date]: dates with no stored
// prediction are forecast and persisted, and the range's assignments are
// re-solved and replaced in the same run. Dates that already have a stored
// prediction are not re-forecast. Responds with the stored predictions for
// the range.
func (h *SchedulingHandler) TriggerForecast(w http.ResponseWriter, r *http.Request) {
	var req dateRangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	start, end, err := req.parse()
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}

	result := h.engine.Run(r.Context(), start, end)
	if result.State == scheduling.RunFailed && result.Err != nil {
		respondError(w, statusForError(result.Err), result.Err.Error())
		return
	}

	predictions, err := h.repo.GetPredictionRange(start, end)
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, predictions)
}

// ListPredictedSales handles GET /api/v1/pred_sales for the default window
// (today - 1 .. today + 7 days).
func (h *SchedulingHandler) ListPredictedSales(w http.ResponseWriter, r *http.Request) {
	now := currentDate()
	start := now.AddDate(0, 0, -1)
	end := now.AddDate(0, 0, 7)

	predictions, err := h.repo.GetPredictionRange(start, end)
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, predictions)
}

// RunSchedule handles POST /api/v1/shift_ass: builds the grid, solves it,
// and returns the resulting assignments. On NoSchedule, returns 200 with an
// empty array rather than an error — assignment endpoints always serialize
// a JSON array.
func (h *SchedulingHandler) RunSchedule(w http.ResponseWriter, r *http.Request) {
	var req dateRangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	start, end, err := req.parse()
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}

	result := h.engine.Run(r.Context(), start, end)
	w.Header().Set("X-Scheduler-Run-Id", result.RunID)
	switch {
	case result.State == scheduling.RunFailed:
		respondJSON(w, http.StatusOK, []domain.Assignment{})
		return
	case result.Err != nil:
		// SOLVED(INFEASIBLE|TIMEOUT) surfaces as ErrNoSchedule.
		respondJSON(w, http.StatusOK, []domain.Assignment{})
		return
	}
	respondJSON(w, http.StatusOK, result.Assignments)
}

// DashboardToday handles GET /api/v1/shift_ass_dash_board for the fixed
// today..tomorrow window.
func (h *SchedulingHandler) DashboardToday(w http.ResponseWriter, r *http.Request) {
	start := currentDate()
	end := start.AddDate(0, 0, 1)

	assignments, err := h.repo.ListAssignmentsInRange(start, end)
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, assignments)
}

// DashboardRange handles GET /api/v1/shift_ass_data_main?start_date=&end_date=:
// it responds with the persisted assignment rows for the range as a JSON
// array. No summary totals are computed.
func (h *SchedulingHandler) DashboardRange(w http.ResponseWriter, r *http.Request) {
	startStr := r.URL.Query().Get("start_date")
	endStr := r.URL.Query().Get("end_date")
	if startStr == "" || endStr == "" {
		respondError(w, http.StatusBadRequest, "start_date and end_date are required")
		return
	}
	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		respondError(w, http.StatusBadRequest, "end_date before start_date")
		return
	}

	assignments, err := h.repo.ListAssignmentsInRange(start, end)
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, assignments)
}

// currentDate returns today's date at midnight in the store's Asia/Tokyo
// time zone, matching the weather/festival calendar. Broken out so tests
// could substitute it; the engine itself never needs "now" beyond this
// handler-level convenience.
func currentDate() time.Time {
	now := time.Now().In(weather.Tokyo)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, weather.Tokyo)
}
