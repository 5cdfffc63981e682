package allocation_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/split-engine/allocation"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func bill(name string, amount float64, start, end string) allocation.Bill {
	return allocation.Bill{
		Name:        name,
		Amount:      decimal.NewFromFloat(amount),
		PeriodStart: start,
		PeriodEnd:   end,
	}
}

func stay(resident, start, end string) allocation.ResidencyRecord {
	return allocation.ResidencyRecord{Resident: resident, StayStart: start, StayEnd: end}
}

func whole(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// =============================================================================
// CORE ALLOCATION
// =============================================================================

func TestAllocate_PersonDayWeightedShares(t *testing.T) {
	// GIVEN: A 61-day water bill of 450 over 112/09/01-112/10/31,
	//        小明 present twice (30 days + 12 overlapping days) and
	//        小華 present once (47 overlapping days)
	// WHEN: Allocating
	// THEN: Shares follow days/89 of 450 and sum back to 450

	bills := []allocation.Bill{bill("水費", 450, "112/09/01", "112/10/31")}
	residencies := []allocation.ResidencyRecord{
		stay("小明", "112/09/01", "112/09/30"),
		stay("小華", "112/09/15", "112/11/04"),
		stay("小明", "112/10/20", "112/11/04"),
	}

	res, err := allocation.Allocate(bills, residencies)
	require.NoError(t, err)

	require.Equal(t, []string{"小明", "小華"}, res.Residents)
	require.Len(t, res.Days, 2)

	// Day counts: 30 + 12 for 小明, 47 for 小華, 89 person-days total
	assert.Equal(t, []int{42}, res.Days[0].ByBill)
	assert.Equal(t, []int{47}, res.Days[1].ByBill)

	// 42/89 of 450 = 212.36, 47/89 of 450 = 237.64
	assert.True(t, res.Costs[0].Total.Equal(whole(212)), "小明 total = %s", res.Costs[0].Total)
	assert.True(t, res.Costs[1].Total.Equal(whole(238)), "小華 total = %s", res.Costs[1].Total)

	// Conservation: the distributed shares sum back to the bill amount
	sum := res.Costs[0].Total.Add(res.Costs[1].Total)
	assert.True(t, sum.Equal(whole(450)), "sum = %s", sum)

	assert.Empty(t, res.Anomalies)
}

func TestAllocate_RepeatedNameRowsAreAdditive(t *testing.T) {
	// Two rows for the same resident are separate stays whose day
	// counts add; they are never merged, even when they overlap.
	bills := []allocation.Bill{bill("電費", 100, "112/09/01", "112/09/10")}
	residencies := []allocation.ResidencyRecord{
		stay("小明", "112/09/01", "112/09/05"),
		stay("小明", "112/09/03", "112/09/07"), // overlaps the first row
	}

	res, err := allocation.Allocate(bills, residencies)
	require.NoError(t, err)

	require.Equal(t, []string{"小明"}, res.Residents)
	assert.Equal(t, []int{10}, res.Days[0].ByBill) // 5 + 5, not the union's 7
	assert.True(t, res.Costs[0].Total.Equal(whole(100)))
}

func TestAllocate_ResidentsEmitInFirstAppearanceOrder(t *testing.T) {
	bills := []allocation.Bill{bill("水費", 90, "112/09/01", "112/09/30")}
	residencies := []allocation.ResidencyRecord{
		stay("丙", "112/09/01", "112/09/10"),
		stay("甲", "112/09/01", "112/09/10"),
		stay("乙", "112/09/01", "112/09/10"),
		stay("甲", "112/09/11", "112/09/20"),
	}

	res, err := allocation.Allocate(bills, residencies)
	require.NoError(t, err)

	assert.Equal(t, []string{"丙", "甲", "乙"}, res.Residents)
}

func TestAllocate_ZeroOverlapContributesNothing(t *testing.T) {
	// A stay disjoint from the bill period yields exactly 0 days and a
	// zero share for that bill.
	bills := []allocation.Bill{bill("水費", 300, "112/09/01", "112/09/30")}
	residencies := []allocation.ResidencyRecord{
		stay("在宿", "112/09/01", "112/09/30"),
		stay("已退", "112/10/01", "112/10/31"),
	}

	res, err := allocation.Allocate(bills, residencies)
	require.NoError(t, err)

	assert.Equal(t, []int{30}, res.Days[0].ByBill)
	assert.Equal(t, []int{0}, res.Days[1].ByBill)
	assert.True(t, res.Costs[0].Total.Equal(whole(300)))
	assert.True(t, res.Costs[1].Total.Equal(whole(0)))
}

func TestAllocate_SingleDayBillSingleDayStay(t *testing.T) {
	// Both endpoints count as chargeable days: stay == bill == one day
	// yields exactly 1 person-day carrying the whole amount.
	bills := []allocation.Bill{bill("清潔費", 200, "112/09/15", "112/09/15")}
	residencies := []allocation.ResidencyRecord{stay("小美", "112/09/15", "112/09/15")}

	res, err := allocation.Allocate(bills, residencies)
	require.NoError(t, err)

	assert.Equal(t, []int{1}, res.Days[0].ByBill)
	assert.True(t, res.Costs[0].Total.Equal(whole(200)))
}

func TestAllocate_NonNegativity(t *testing.T) {
	// Day counts and shares stay >= 0 across a mix of disjoint,
	// clipped, and inverted inputs.
	bills := []allocation.Bill{
		bill("甲", 500, "112/09/01", "112/09/30"),
		bill("乙", 700, "112/10/31", "112/10/01"), // inverted period
	}
	residencies := []allocation.ResidencyRecord{
		stay("A", "112/08/01", "112/08/31"),
		stay("B", "112/09/10", "112/10/10"),
	}

	res, err := allocation.Allocate(bills, residencies)
	require.NoError(t, err)

	for i := range res.Residents {
		assert.False(t, res.Costs[i].Total.IsNegative())
		for _, share := range res.Costs[i].ByBill {
			assert.False(t, share.IsNegative())
		}
		for _, n := range res.Days[i].ByBill {
			assert.GreaterOrEqual(t, n, 0)
		}
	}
}

// =============================================================================
// ANOMALIES
// =============================================================================

func TestAllocate_ZeroPersonDayBillIsLoggedAndDropped(t *testing.T) {
	// GIVEN: One bill nobody overlaps and one fully covered bill
	// WHEN: Allocating
	// THEN: Exactly one anomaly names the empty bill and its amount;
	//       the covered bill still distributes; the empty bill's
	//       amount lands in no one's total

	bills := []allocation.Bill{
		bill("水費", 450, "112/09/01", "112/09/30"),
		bill("瓦斯費", 1150, "112/12/01", "112/12/31"),
	}
	residencies := []allocation.ResidencyRecord{stay("小明", "112/09/01", "112/09/30")}

	res, err := allocation.Allocate(bills, residencies)
	require.NoError(t, err)

	require.Len(t, res.Anomalies, 1)
	assert.Equal(t, "Bill [瓦斯費]: no residency during period, amount 1150 unallocated", res.Anomalies[0])

	assert.Equal(t, []int{30, 0}, res.Days[0].ByBill)
	assert.True(t, res.Costs[0].Total.Equal(whole(450)), "dropped amount must not leak into totals")
}

func TestAllocate_InvertedBillPeriodBecomesAnomaly(t *testing.T) {
	// An end-before-start bill is accepted but can overlap nothing, so
	// it surfaces as a zero-person-day anomaly rather than an error.
	bills := []allocation.Bill{bill("電費", 999, "112/10/31", "112/10/01")}
	residencies := []allocation.ResidencyRecord{stay("小明", "112/09/01", "112/11/30")}

	res, err := allocation.Allocate(bills, residencies)
	require.NoError(t, err)

	require.Len(t, res.Anomalies, 1)
	assert.Contains(t, res.Anomalies[0], "電費")
	assert.Equal(t, []int{0}, res.Days[0].ByBill)
}

// =============================================================================
// ROUNDING
// =============================================================================

func TestAllocate_BankersRoundingOnHalves(t *testing.T) {
	// Two residents, one day each: rate = amount/2, so odd amounts put
	// every share exactly on the .5 boundary. Half-to-even rounds 2.5
	// down to 2 and 7.5 up to 8.
	bills := []allocation.Bill{
		bill("甲", 5, "112/09/01", "112/09/01"),
		bill("乙", 15, "112/09/01", "112/09/01"),
	}
	residencies := []allocation.ResidencyRecord{
		stay("A", "112/09/01", "112/09/01"),
		stay("B", "112/09/01", "112/09/01"),
	}

	res, err := allocation.Allocate(bills, residencies)
	require.NoError(t, err)

	for i := range res.Residents {
		assert.True(t, res.Costs[i].ByBill[0].Equal(whole(2)), "2.5 rounds to 2")
		assert.True(t, res.Costs[i].ByBill[1].Equal(whole(8)), "7.5 rounds to 8")
		// Total rounds the exact sum 2.5 + 7.5 = 10, not the sum of
		// the already-rounded cells.
		assert.True(t, res.Costs[i].Total.Equal(whole(10)))
	}
}

func TestAllocate_ConservationWithinRoundingTolerance(t *testing.T) {
	// For a fully covered bill, distributed shares reconstruct the
	// amount within one unit per resident.
	bills := []allocation.Bill{bill("電費", 1000, "112/09/01", "112/09/30")}
	residencies := []allocation.ResidencyRecord{
		stay("A", "112/09/01", "112/09/30"),
		stay("B", "112/09/01", "112/09/12"),
		stay("C", "112/09/07", "112/09/30"),
	}

	res, err := allocation.Allocate(bills, residencies)
	require.NoError(t, err)

	sum := decimal.Zero
	for _, c := range res.Costs {
		sum = sum.Add(c.ByBill[0])
	}
	diff := sum.Sub(whole(1000)).Abs()
	assert.True(t, diff.LessThanOrEqual(whole(3)), "off by %s", diff)
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestAllocate_EmptyTablesRejected(t *testing.T) {
	_, err := allocation.Allocate(nil, []allocation.ResidencyRecord{stay("A", "112/09/01", "112/09/30")})
	assert.ErrorIs(t, err, allocation.ErrNoBills)

	_, err = allocation.Allocate([]allocation.Bill{bill("水費", 450, "112/09/01", "112/09/30")}, nil)
	assert.ErrorIs(t, err, allocation.ErrNoResidents)

	assert.True(t, allocation.IsEmptyInput(allocation.ErrNoBills))
}

func TestAllocate_BadBillDateAbortsWholeRun(t *testing.T) {
	// GIVEN: Many valid date fields and one malformed bill date
	// WHEN: Allocating
	// THEN: A single table-level validation error, no partial result

	bills := []allocation.Bill{
		bill("水費", 450, "112/09/01", "112/10/31"),
		bill("電費", 3000, "13/45/99", "112/09/30"),
	}
	residencies := []allocation.ResidencyRecord{
		stay("小明", "112/09/01", "112/09/30"),
		stay("小華", "112/09/15", "112/11/04"),
	}

	res, err := allocation.Allocate(bills, residencies)
	assert.Nil(t, res)

	var validation *allocation.DateValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, allocation.TableBills, validation.Table)
	assert.True(t, allocation.IsClientError(err))

	// The message stays coarse; the row detail rides on the error.
	assert.Contains(t, validation.Error(), "bill data")
	require.Len(t, validation.Failures, 1)
	assert.Equal(t, 1, validation.Failures[0].Row)
	assert.Equal(t, "period_start", validation.Failures[0].Field)
}

func TestAllocate_BadResidentDateNamesResidentTable(t *testing.T) {
	bills := []allocation.Bill{bill("水費", 450, "112/09/01", "112/10/31")}
	residencies := []allocation.ResidencyRecord{
		stay("小明", "112/09/01", ""), // missing value
	}

	_, err := allocation.Allocate(bills, residencies)

	var validation *allocation.DateValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, allocation.TableResidents, validation.Table)
	assert.Contains(t, validation.Error(), "resident data")
}

func TestAllocate_BillFailuresReportedBeforeResidentFailures(t *testing.T) {
	// When both tables contain bad dates, the bill table is validated
	// first and names the error.
	bills := []allocation.Bill{bill("水費", 450, "bogus", "112/10/31")}
	residencies := []allocation.ResidencyRecord{stay("小明", "also bogus", "112/09/30")}

	_, err := allocation.Allocate(bills, residencies)

	var validation *allocation.DateValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, allocation.TableBills, validation.Table)
}

func TestAllocate_CollectsEveryFailureInTheTable(t *testing.T) {
	bills := []allocation.Bill{
		bill("水費", 450, "nope", "112/10/31"),
		bill("電費", 3000, "112/09/01", "still nope"),
	}
	residencies := []allocation.ResidencyRecord{stay("小明", "112/09/01", "112/09/30")}

	_, err := allocation.Allocate(bills, residencies)

	var validation *allocation.DateValidationError
	require.ErrorAs(t, err, &validation)
	require.Len(t, validation.Failures, 2)
	assert.Equal(t, 0, validation.Failures[0].Row)
	assert.Equal(t, 1, validation.Failures[1].Row)
}

// =============================================================================
// DETERMINISM
// =============================================================================

func TestAllocate_IdenticalInputsIdenticalResults(t *testing.T) {
	bills := []allocation.Bill{
		bill("水費", 450, "112/09/01", "112/10/31"),
		bill("電費9月", 3000, "112/09/01", "112/09/30"),
	}
	residencies := []allocation.ResidencyRecord{
		stay("小明", "112/09/01", "112/09/30"),
		stay("小華", "112/09/15", "112/11/04"),
		stay("小美", "112/09/01", "112/10/15"),
	}

	first, err := allocation.Allocate(bills, residencies)
	require.NoError(t, err)
	second, err := allocation.Allocate(bills, residencies)
	require.NoError(t, err)

	require.Equal(t, first.Residents, second.Residents)
	require.Equal(t, first.Bills, second.Bills)
	for i := range first.Costs {
		for b := range first.Costs[i].ByBill {
			assert.True(t, first.Costs[i].ByBill[b].Equal(second.Costs[i].ByBill[b]))
		}
		assert.True(t, first.Costs[i].Total.Equal(second.Costs[i].Total))
		assert.Equal(t, first.Days[i].ByBill, second.Days[i].ByBill)
	}
}

func TestResidentDays_Display(t *testing.T) {
	rd := allocation.ResidentDays{Resident: "小明", ByBill: []int{42, 0}}
	assert.Equal(t, []string{"42 天", "0 天"}, rd.Display())
}
