/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's decimal-based domain model from the external API contract:
  amounts cross the wire as plain numbers, date fields as the raw
  Minguo-year text the user typed.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TABLE SHAPE:
  Result rows carry per-bill values as arrays aligned with the top-level
  "bills" column list rather than maps, because bill names are a
  reporting key and are not required to be unique.

SEE ALSO:
  - handlers.go: Uses these types
  - allocation/types.go: Domain model
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/split-engine/allocation"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// BillDTO is one bill row as submitted by the client.
type BillDTO struct {
	Name        string  `json:"name"`
	Amount      float64 `json:"amount"`
	PeriodStart string  `json:"period_start"`
	PeriodEnd   string  `json:"period_end"`
}

// ResidencyDTO is one residency row as submitted by the client.
type ResidencyDTO struct {
	Resident  string `json:"resident"`
	StayStart string `json:"stay_start"`
	StayEnd   string `json:"stay_end"`
}

// AllocateRequest carries the two input tables.
type AllocateRequest struct {
	Bills     []BillDTO      `json:"bills"`
	Residents []ResidencyDTO `json:"residents"`
}

// CostRowDTO is one row of the cost table. ByBill aligns with the
// response's Bills list.
type CostRowDTO struct {
	Resident string    `json:"resident"`
	Total    float64   `json:"total"`
	ByBill   []float64 `json:"by_bill"`
}

// DayRowDTO is one row of the display day table ("N 天" strings).
type DayRowDTO struct {
	Resident string   `json:"resident"`
	ByBill   []string `json:"by_bill"`
}

// DayRowRawDTO is one row of the machine-readable day table.
type DayRowRawDTO struct {
	Resident string `json:"resident"`
	ByBill   []int  `json:"by_bill"`
}

// AllocationResponse is the result of one allocation run.
type AllocationResponse struct {
	RunID     string         `json:"run_id"`
	Bills     []string       `json:"bills"`
	Costs     []CostRowDTO   `json:"costs"`
	Days      []DayRowDTO    `json:"days"`
	DaysRaw   []DayRowRawDTO `json:"days_raw"`
	Anomalies []string       `json:"anomalies"`
}

// SampleResponse is the built-in demo dataset.
type SampleResponse struct {
	Bills     []BillDTO      `json:"bills"`
	Residents []ResidencyDTO `json:"residents"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toDomainTables(req AllocateRequest) ([]allocation.Bill, []allocation.ResidencyRecord) {
	bills := make([]allocation.Bill, len(req.Bills))
	for i, b := range req.Bills {
		bills[i] = allocation.Bill{
			Name:        b.Name,
			Amount:      decimal.NewFromFloat(b.Amount),
			PeriodStart: b.PeriodStart,
			PeriodEnd:   b.PeriodEnd,
		}
	}

	residencies := make([]allocation.ResidencyRecord, len(req.Residents))
	for i, r := range req.Residents {
		residencies[i] = allocation.ResidencyRecord{
			Resident:  r.Resident,
			StayStart: r.StayStart,
			StayEnd:   r.StayEnd,
		}
	}
	return bills, residencies
}

func toAllocationResponse(runID string, res *allocation.Result) AllocationResponse {
	costs := make([]CostRowDTO, len(res.Costs))
	for i, row := range res.Costs {
		byBill := make([]float64, len(row.ByBill))
		for b, share := range row.ByBill {
			byBill[b] = share.InexactFloat64()
		}
		costs[i] = CostRowDTO{
			Resident: row.Resident,
			Total:    row.Total.InexactFloat64(),
			ByBill:   byBill,
		}
	}

	days := make([]DayRowDTO, len(res.Days))
	daysRaw := make([]DayRowRawDTO, len(res.Days))
	for i, row := range res.Days {
		days[i] = DayRowDTO{Resident: row.Resident, ByBill: row.Display()}
		daysRaw[i] = DayRowRawDTO{Resident: row.Resident, ByBill: row.ByBill}
	}

	return AllocationResponse{
		RunID:     runID,
		Bills:     res.Bills,
		Costs:     costs,
		Days:      days,
		DaysRaw:   daysRaw,
		Anomalies: res.Anomalies,
	}
}
