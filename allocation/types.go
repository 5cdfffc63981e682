/*
types.go - Input and output tables for the allocation engine

PURPOSE:
  Defines the two input tables (bills, residency records) and the result
  tables the engine produces. Date fields on inputs are raw Minguo-year
  text exactly as the user typed it; the engine normalizes them itself
  so that export layers can pass the original strings through verbatim.

DESIGN PRINCIPLES:
  1. Precision: amounts and shares use decimal.Decimal, never float64
  2. Determinism: result rows and columns follow input order, so two
     runs over identical tables produce identical output
  3. Transience: nothing here persists; every run rebuilds its results
     from scratch

SEE ALSO:
  - engine.go: Produces Result from the two input tables
  - errors.go: Validation failures
*/
package allocation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// INPUT TABLES
// =============================================================================

// Bill is one shared expense covering an inclusive billing period.
// Name is a reporting key; uniqueness is not enforced. PeriodStart and
// PeriodEnd hold raw Minguo date text (e.g. "112/09/01").
type Bill struct {
	Name        string
	Amount      decimal.Decimal
	PeriodStart string
	PeriodEnd   string
}

// ResidencyRecord is one stay interval for one resident. The same
// resident name may appear on multiple rows; each row is matched
// against each bill independently and the day counts add up. Rows are
// never merged, even when their intervals overlap.
type ResidencyRecord struct {
	Resident  string
	StayStart string
	StayEnd   string
}

// =============================================================================
// RESULT TABLES
// =============================================================================

// ResidentCost is one row of the cost table. ByBill is aligned with
// Result.Bills. All values are rounded to whole currency units with
// banker's rounding; Total is the rounded sum of the unrounded shares,
// so it can differ from the sum of ByBill by rounding.
type ResidentCost struct {
	Resident string
	Total    decimal.Decimal
	ByBill   []decimal.Decimal
}

// ResidentDays is one row of the day-count table, aligned with
// Result.Bills. Raw integers for machine consumption; Display renders
// the human-readable form.
type ResidentDays struct {
	Resident string
	ByBill   []int
}

// Display returns the day counts as "N 天" strings, parallel to ByBill.
func (rd ResidentDays) Display() []string {
	out := make([]string, len(rd.ByBill))
	for i, n := range rd.ByBill {
		out[i] = fmt.Sprintf("%d 天", n)
	}
	return out
}

// Result is the full outcome of one allocation run.
//
// Bills holds the bill names in input order; these are the columns of
// both tables. Residents holds unique resident names in order of first
// appearance in the residency table; Costs and Days are parallel to it.
// Anomalies lists bills whose period had zero person-days; an empty
// slice signals a clean run.
type Result struct {
	Bills     []string
	Residents []string
	Costs     []ResidentCost
	Days      []ResidentDays
	Anomalies []string
}
