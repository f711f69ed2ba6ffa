/*
handlers.go - HTTP API handlers for the cylinder traceability engine

PURPOSE:
  Exposes the traceability engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  NITs:
    GET    /api/nits                       List all NITs
    POST   /api/nits                       Register a NIT
    POST   /api/nits/{code}/deactivate     Deactivate a NIT

  Cylinders:
    GET    /api/cylinders                  List all cylinders
    POST   /api/cylinders                  Register a cylinder
    GET    /api/cylinders/{id}             Get cylinder details
    GET    /api/cylinders/{id}/traces      Trace history
    POST   /api/cylinders/{id}/traces      Record an action

  Reports:
    GET    /api/reports/daily/{date}       Daily report with activity lines
    GET    /api/reports/monthly            List computed monthly reports
    GET    /api/reports/monthly/{month}    One monthly report
    POST   /api/reports/monthly/{month}/compute Recompute a month

ARCHITECTURE:
  Handler struct holds the store plus the domain components built on it.
  NewHandler wires the recorder's creation notifier to the daily
  aggregator, so every recorded trace updates that day's report inline.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Cylinder or NIT not found
  - 409: Conflict (same-day duplicate trace, NIT reuse)
  - 500: Internal errors (including aggregation failures)

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andina/cylinder-engine/report"
	"github.com/andina/cylinder-engine/tracking"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Store is everything the API needs from a storage backend. Both the
// SQLite store and the in-memory store satisfy it.
type Store interface {
	tracking.NitStore
	tracking.CylinderStore
	tracking.TraceStore
	report.DailyStore
	report.MonthlyStore
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    Store
	Registry *tracking.Registry
	Recorder *tracking.Recorder
	Daily    *report.DailyAggregator
	Monthly  *report.MonthlyAggregator
}

// NewHandler builds the domain components on the given store and wires
// the recorder's creation notifier to the daily aggregator. A nil clock
// defaults to the system clock.
func NewHandler(store Store, clock tracking.Clock) *Handler {
	registry := tracking.NewRegistry(store, store, clock)
	recorder := tracking.NewRecorder(store, store, clock)
	daily := report.NewDailyAggregator(store, clock)
	monthly := report.NewMonthlyAggregator(store, store)

	recorder.OnTraceCreated(daily.Apply)

	return &Handler{
		Store:    store,
		Registry: registry,
		Recorder: recorder,
		Daily:    daily,
		Monthly:  monthly,
	}
}

// =============================================================================
// NIT HANDLERS
// =============================================================================

// ListNits returns all registered NITs.
func (h *Handler) ListNits(w http.ResponseWriter, r *http.Request) {
	nits, err := h.Store.ListNits(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list nits", err)
		return
	}

	dtos := make([]NitDTO, len(nits))
	for i, nit := range nits {
		dtos[i] = toNitDTO(nit)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateNit registers a new NIT code.
func (h *Handler) CreateNit(w http.ResponseWriter, r *http.Request) {
	var req CreateNitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	nit, err := h.Registry.CreateNit(r.Context(), req.Code, req.CreatedBy)
	if err != nil {
		writeDomainError(w, "Failed to create nit", err)
		return
	}
	writeJSON(w, http.StatusCreated, toNitDTO(nit))
}

// DeactivateNit flips a NIT's active flag off.
func (h *Handler) DeactivateNit(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	nit, err := h.Registry.DeactivateNit(r.Context(), code)
	if err != nil {
		writeDomainError(w, "Failed to deactivate nit", err)
		return
	}
	writeJSON(w, http.StatusOK, toNitDTO(nit))
}

// =============================================================================
// CYLINDER HANDLERS
// =============================================================================

// ListCylinders returns all registered cylinders.
func (h *Handler) ListCylinders(w http.ResponseWriter, r *http.Request) {
	cylinders, err := h.Store.ListCylinders(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list cylinders", err)
		return
	}

	dtos := make([]CylinderDTO, len(cylinders))
	for i, c := range cylinders {
		dtos[i] = toCylinderDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateCylinder registers a cylinder against an existing NIT.
func (h *Handler) CreateCylinder(w http.ResponseWriter, r *http.Request) {
	var req CreateCylinderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	c, err := h.Registry.CreateCylinder(r.Context(), req.EngravedNumber, req.NitCode, req.Notes)
	if err != nil {
		writeDomainError(w, "Failed to create cylinder", err)
		return
	}
	writeJSON(w, http.StatusCreated, toCylinderDTO(c))
}

// GetCylinder returns a single cylinder.
func (h *Handler) GetCylinder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	c, err := h.Store.GetCylinder(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get cylinder", err)
		return
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "Cylinder not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toCylinderDTO(*c))
}

// GetCylinderTraces returns the full trace history of a cylinder, oldest
// first.
func (h *Handler) GetCylinderTraces(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	c, err := h.Store.GetCylinder(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get cylinder", err)
		return
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "Cylinder not found", nil)
		return
	}

	traces, err := h.Store.TracesByCylinder(ctx, c.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get traces", err)
		return
	}
	writeJSON(w, http.StatusOK, toTraceDTOs(traces))
}

// RecordTrace records one action against a cylinder.
func (h *Handler) RecordTrace(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req RecordTraceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	tr, err := h.Recorder.Record(r.Context(), id, tracking.ActionKind(req.Action), req.UserID, req.Comment)
	if err != nil {
		// The trace is durably saved even when its report update failed;
		// surface the failure but do not pretend the trace is gone.
		if errors.Is(err, tracking.ErrAggregation) {
			writeError(w, http.StatusInternalServerError, "Trace recorded but report update failed", err)
			return
		}
		writeDomainError(w, "Failed to record trace", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTraceDTO(tr))
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetDailyReport returns one day's report with its activity lines.
func (h *Handler) GetDailyReport(w http.ResponseWriter, r *http.Request) {
	day, err := tracking.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	ctx := r.Context()
	rep, err := h.Store.GetDaily(ctx, day)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get daily report", err)
		return
	}
	if rep == nil {
		writeError(w, http.StatusNotFound, "No daily report for that date", nil)
		return
	}

	lines, err := h.Store.LinesFor(ctx, day)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get activity lines", err)
		return
	}
	writeJSON(w, http.StatusOK, toDailyReportDTO(*rep, lines))
}

// ListMonthlyReports returns every computed monthly report, oldest first.
func (h *Handler) ListMonthlyReports(w http.ResponseWriter, r *http.Request) {
	reps, err := h.Store.ListMonthly(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list monthly reports", err)
		return
	}

	dtos := make([]MonthlyReportDTO, len(reps))
	for i, rep := range reps {
		dtos[i] = toMonthlyReportDTO(rep)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetMonthlyReport returns the stored report for one month.
func (h *Handler) GetMonthlyReport(w http.ResponseWriter, r *http.Request) {
	month, err := parseMonthParam(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month format (use YYYY-MM)", err)
		return
	}

	rep, err := h.Store.GetMonthly(r.Context(), month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get monthly report", err)
		return
	}
	if rep == nil {
		writeError(w, http.StatusNotFound, "No monthly report for that month", nil)
		return
	}
	writeJSON(w, http.StatusOK, toMonthlyReportDTO(*rep))
}

// ComputeMonthlyReport recomputes a month's report from the daily
// reports, overwriting any prior computation.
func (h *Handler) ComputeMonthlyReport(w http.ResponseWriter, r *http.Request) {
	month, err := parseMonthParam(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month format (use YYYY-MM)", err)
		return
	}

	rep, err := h.Monthly.Compute(r.Context(), month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute monthly report", err)
		return
	}
	writeJSON(w, http.StatusOK, toMonthlyReportDTO(rep))
}

// =============================================================================
// HELPERS
// =============================================================================

// parseMonthParam accepts YYYY-MM and normalizes it to the first of the
// month. YYYY-MM-DD also works and is truncated.
func parseMonthParam(raw string) (tracking.Date, error) {
	if len(raw) == 7 {
		raw += "-01"
	}
	day, err := tracking.ParseDate(raw)
	if err != nil {
		return tracking.Date{}, err
	}
	return day.FirstOfMonth(), nil
}

// writeDomainError maps domain errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, tracking.ErrDuplicateAction),
		errors.Is(err, tracking.ErrDuplicateNit),
		errors.Is(err, tracking.ErrNitAssigned):
		writeError(w, http.StatusConflict, message, err)
	case tracking.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case tracking.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
