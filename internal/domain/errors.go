package domain

import "errors"

// Scheduling error taxonomy. Grid construction, forecasting and the
// constraint scheduler never recover these locally — they bubble up to the
// HTTP handler, which maps them onto status codes (see
// internal/handler/http/scheduling_errors.go).
var (
	ErrBadRequest  = errors.New("bad request")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
	ErrNoSchedule  = errors.New("no schedule")
	ErrInternal    = errors.New("internal error")
)
