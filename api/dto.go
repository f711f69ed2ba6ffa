/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers and domain logic, not in DTOs. DTOs are
  pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/andina/cylinder-engine/report"
	"github.com/andina/cylinder-engine/tracking"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// NitDTO represents a NIT in API responses.
type NitDTO struct {
	Code      string `json:"code"`
	Active    bool   `json:"active"`
	CreatedBy string `json:"created_by,omitempty"`
	CreatedAt string `json:"created_at"`
}

// CreateNitRequest is the request to register a NIT.
type CreateNitRequest struct {
	Code      string `json:"code"`
	CreatedBy string `json:"created_by,omitempty"`
}

// CylinderDTO represents a cylinder in API responses.
type CylinderDTO struct {
	ID             string `json:"id"`
	EngravedNumber string `json:"engraved_number"`
	NitCode        string `json:"nit_code"`
	CurrentState   string `json:"current_state"`
	IntakeDate     string `json:"intake_date"`
	Notes          string `json:"notes,omitempty"`
}

// CreateCylinderRequest is the request to register a cylinder.
type CreateCylinderRequest struct {
	EngravedNumber string `json:"engraved_number"`
	NitCode        string `json:"nit_code"`
	Notes          string `json:"notes,omitempty"`
}

// TraceDTO represents a recorded trace.
type TraceDTO struct {
	ID         string `json:"id"`
	CylinderID string `json:"cylinder_id"`
	Action     string `json:"action"`
	Activity   string `json:"activity"`
	UserID     string `json:"user_id,omitempty"`
	At         string `json:"at"`
	Comment    string `json:"comment,omitempty"`
}

// RecordTraceRequest is the request to record an action on a cylinder.
type RecordTraceRequest struct {
	Action  string `json:"action"`
	UserID  string `json:"user_id,omitempty"`
	Comment string `json:"comment,omitempty"`
}

// ActivityLineDTO is one counter within a daily report.
type ActivityLineDTO struct {
	Activity string `json:"activity"`
	Count    int    `json:"count"`
}

// DailyReportDTO represents a daily report with its activity lines.
type DailyReportDTO struct {
	Date         string            `json:"date"`
	TotalGeneral int               `json:"total_general"`
	Activities   []ActivityLineDTO `json:"activities"`
}

// MonthlyReportDTO represents a computed monthly report.
type MonthlyReportDTO struct {
	Month            string  `json:"month"`
	TotalMonth       int     `json:"total_month"`
	PercentVariation float64 `json:"percent_variation"`
	StandoutActivity string  `json:"standout_activity,omitempty"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toNitDTO(nit tracking.Nit) NitDTO {
	return NitDTO{
		Code:      nit.Code,
		Active:    nit.Active,
		CreatedBy: nit.CreatedBy,
		CreatedAt: nit.CreatedAt.Format(time.RFC3339),
	}
}

func toCylinderDTO(c tracking.Cylinder) CylinderDTO {
	return CylinderDTO{
		ID:             c.ID,
		EngravedNumber: c.EngravedNumber,
		NitCode:        c.NitCode,
		CurrentState:   string(c.CurrentState),
		IntakeDate:     c.IntakeDate.String(),
		Notes:          c.Notes,
	}
}

func toTraceDTO(tr tracking.Trace) TraceDTO {
	return TraceDTO{
		ID:         tr.ID,
		CylinderID: tr.CylinderID,
		Action:     string(tr.Action),
		Activity:   tr.Action.Label(),
		UserID:     tr.UserID,
		At:         tr.At.Format(time.RFC3339),
		Comment:    tr.Comment,
	}
}

func toTraceDTOs(traces []tracking.Trace) []TraceDTO {
	dtos := make([]TraceDTO, len(traces))
	for i, tr := range traces {
		dtos[i] = toTraceDTO(tr)
	}
	return dtos
}

func toDailyReportDTO(rep report.DailyReport, lines []report.ActivityLine) DailyReportDTO {
	dto := DailyReportDTO{
		Date:         rep.Date.String(),
		TotalGeneral: rep.TotalGeneral,
		Activities:   make([]ActivityLineDTO, len(lines)),
	}
	for i, line := range lines {
		dto.Activities[i] = ActivityLineDTO{Activity: line.Activity, Count: line.Count}
	}
	return dto
}

func toMonthlyReportDTO(rep report.MonthlyReport) MonthlyReportDTO {
	return MonthlyReportDTO{
		Month:            rep.Month.String(),
		TotalMonth:       rep.TotalMonth,
		PercentVariation: rep.PercentVariation,
		StandoutActivity: rep.StandoutActivity,
	}
}
