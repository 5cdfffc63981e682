/*
engine.go - Person-day weighted cost allocation

PURPOSE:
  The core computation: normalize every date field, compute per-bill
  per-record inclusive overlap days, distribute each bill's amount
  proportionally to person-days, and aggregate per-resident totals.

ALGORITHM:
  For each bill B with total person-days T > 0:
    rate        = B.Amount / T
    share(rec)  = overlapDays(B, rec) * rate
  A resident's figure for B is the sum of shares over all of their
  residency rows. Bills with T = 0 contribute nothing anywhere and are
  reported on the anomaly log; their amount is deliberately dropped,
  not redistributed.

GUARANTEES:
  - All-or-nothing validation: one bad date anywhere in either table
    aborts the run with a single table-level error
  - Pure function: no state survives between calls
  - Deterministic: iteration follows input row order everywhere, and
    decimal arithmetic keeps accumulation exact until the final
    banker's rounding to whole currency units

SEE ALSO:
  - types.go: Input/output shapes
  - rocdate/rocdate.go: Date normalization
*/
package allocation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/split-engine/rocdate"
)

// Allocate runs one full allocation over the two input tables.
//
// It returns ErrNoBills/ErrNoResidents on empty tables, a
// *DateValidationError if any date field in either table fails to
// parse, and otherwise a fully populated Result. Partial results are
// never returned.
func Allocate(bills []Bill, residencies []ResidencyRecord) (*Result, error) {
	if len(bills) == 0 {
		return nil, ErrNoBills
	}
	if len(residencies) == 0 {
		return nil, ErrNoResidents
	}

	billSpans, err := normalizeBills(bills)
	if err != nil {
		return nil, err
	}
	staySpans, err := normalizeResidencies(residencies)
	if err != nil {
		return nil, err
	}

	// Unique residents in order of first appearance.
	residents := make([]string, 0, len(residencies))
	rowOf := make(map[string]int)
	for _, rec := range residencies {
		if _, seen := rowOf[rec.Resident]; !seen {
			rowOf[rec.Resident] = len(residents)
			residents = append(residents, rec.Resident)
		}
	}

	shares := make([][]decimal.Decimal, len(residents)) // exact, rounded at emission
	days := make([][]int, len(residents))
	totals := make([]decimal.Decimal, len(residents))
	for i := range residents {
		shares[i] = make([]decimal.Decimal, len(bills))
		days[i] = make([]int, len(bills))
		totals[i] = decimal.Zero
		for b := range bills {
			shares[i][b] = decimal.Zero
		}
	}

	var anomalies []string

	for bi, bill := range bills {
		perResident := make([]int, len(residents))
		totalPersonDays := 0

		// An inverted bill period overlaps nothing; the bill itself is
		// still accepted and lands on the anomaly log below.
		for ri, rec := range residencies {
			overlap := billSpans[bi].OverlapDays(staySpans[ri])
			perResident[rowOf[rec.Resident]] += overlap
			totalPersonDays += overlap
		}

		for i, n := range perResident {
			days[i][bi] = n
		}

		if totalPersonDays == 0 {
			anomalies = append(anomalies, fmt.Sprintf(
				"Bill [%s]: no residency during period, amount %s unallocated",
				bill.Name, bill.Amount))
			continue
		}

		rate := bill.Amount.Div(decimal.NewFromInt(int64(totalPersonDays)))
		for i, n := range perResident {
			if n == 0 {
				continue
			}
			share := rate.Mul(decimal.NewFromInt(int64(n)))
			shares[i][bi] = shares[i][bi].Add(share)
			totals[i] = totals[i].Add(share)
		}
	}

	result := &Result{
		Bills:     billNames(bills),
		Residents: residents,
		Costs:     make([]ResidentCost, len(residents)),
		Days:      make([]ResidentDays, len(residents)),
		Anomalies: anomalies,
	}
	if result.Anomalies == nil {
		result.Anomalies = []string{}
	}

	for i, name := range residents {
		byBill := make([]decimal.Decimal, len(bills))
		for b := range bills {
			byBill[b] = shares[i][b].RoundBank(0)
		}
		result.Costs[i] = ResidentCost{
			Resident: name,
			Total:    totals[i].RoundBank(0),
			ByBill:   byBill,
		}
		result.Days[i] = ResidentDays{Resident: name, ByBill: days[i]}
	}

	return result, nil
}

// =============================================================================
// DATE NORMALIZATION PASS
// =============================================================================

func normalizeBills(bills []Bill) ([]rocdate.Span, error) {
	spans := make([]rocdate.Span, len(bills))
	var failures []FieldFailure
	for i, b := range bills {
		start, err := rocdate.Parse(b.PeriodStart)
		if err != nil {
			failures = append(failures, FieldFailure{Row: i, Field: "period_start", Value: b.PeriodStart, Err: err})
		}
		end, err := rocdate.Parse(b.PeriodEnd)
		if err != nil {
			failures = append(failures, FieldFailure{Row: i, Field: "period_end", Value: b.PeriodEnd, Err: err})
		}
		spans[i] = rocdate.Span{Start: start, End: end}
	}
	if len(failures) > 0 {
		return nil, &DateValidationError{Table: TableBills, Failures: failures}
	}
	return spans, nil
}

func normalizeResidencies(residencies []ResidencyRecord) ([]rocdate.Span, error) {
	spans := make([]rocdate.Span, len(residencies))
	var failures []FieldFailure
	for i, rec := range residencies {
		start, err := rocdate.Parse(rec.StayStart)
		if err != nil {
			failures = append(failures, FieldFailure{Row: i, Field: "stay_start", Value: rec.StayStart, Err: err})
		}
		end, err := rocdate.Parse(rec.StayEnd)
		if err != nil {
			failures = append(failures, FieldFailure{Row: i, Field: "stay_end", Value: rec.StayEnd, Err: err})
		}
		spans[i] = rocdate.Span{Start: start, End: end}
	}
	if len(failures) > 0 {
		return nil, &DateValidationError{Table: TableResidents, Failures: failures}
	}
	return spans, nil
}

func billNames(bills []Bill) []string {
	names := make([]string, len(bills))
	for i, b := range bills {
		names[i] = b.Name
	}
	return names
}
