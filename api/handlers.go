/*
handlers.go - HTTP API handlers for the cost split engine

PURPOSE:
  Exposes the allocation engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the engine.

ENDPOINTS:
  POST /api/allocate   Run an allocation over the submitted tables
  POST /api/export     Same input, returns an .xlsx workbook
  GET  /api/sample     Built-in demo dataset
  GET  /api/health     Liveness probe

REQUEST FLOW:
  1. Parse HTTP request
  2. Reject empty tables up front (engine checks again defensively)
  3. Call the engine as one atomic call-and-return
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Empty tables, unparseable dates, malformed body
  - 500: Internal errors (workbook serialization)
  A validation error names only the offending table; anomalies are not
  errors and ride along on a 200 response.

SEE ALSO:
  - dto.go: Request/response data structures
  - sample.go: Demo dataset
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/warp/split-engine/allocation"
	"github.com/warp/split-engine/export"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds the dependencies for HTTP handlers. The engine is a
// pure function, so there is no store and nothing survives a request.
type Handler struct{}

// NewHandler creates a new handler.
func NewHandler() *Handler {
	return &Handler{}
}

// =============================================================================
// ALLOCATION HANDLERS
// =============================================================================

// Allocate runs one allocation over the submitted tables.
func (h *Handler) Allocate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeTables(w, r)
	if !ok {
		return
	}

	bills, residencies := toDomainTables(req)
	result, err := allocation.Allocate(bills, residencies)
	if err != nil {
		writeAllocationError(w, err)
		return
	}

	runID := uuid.NewString()
	slog.Info("allocation complete",
		"run_id", runID,
		"bills", len(bills),
		"residents", len(result.Residents),
		"anomalies", len(result.Anomalies),
	)

	writeJSON(w, http.StatusOK, toAllocationResponse(runID, result))
}

// Export runs an allocation and returns the four-sheet workbook.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeTables(w, r)
	if !ok {
		return
	}

	bills, residencies := toDomainTables(req)
	result, err := allocation.Allocate(bills, residencies)
	if err != nil {
		writeAllocationError(w, err)
		return
	}

	workbook, err := export.Workbook(result, bills, residencies)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build workbook", err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="dorm-cost-split.xlsx"`)
	if err := workbook.Write(w); err != nil {
		// Headers are already gone; nothing left to do but log.
		slog.Error("workbook write failed", "error", err)
	}
}

// Sample returns the built-in demo dataset.
func (h *Handler) Sample(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sampleDataset())
}

// Health is a liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeTables parses the request body and enforces the non-empty
// precondition. Returns ok=false if a response has been written.
func (h *Handler) decodeTables(w http.ResponseWriter, r *http.Request) (AllocateRequest, bool) {
	var req AllocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return req, false
	}
	if len(req.Bills) == 0 {
		writeError(w, http.StatusBadRequest, "Bill table is empty", allocation.ErrNoBills)
		return req, false
	}
	if len(req.Residents) == 0 {
		writeError(w, http.StatusBadRequest, "Residency table is empty", allocation.ErrNoResidents)
		return req, false
	}
	return req, true
}

func writeAllocationError(w http.ResponseWriter, err error) {
	if allocation.IsClientError(err) {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	writeError(w, http.StatusInternalServerError, "Allocation failed", err)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
