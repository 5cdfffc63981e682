/*
export.go - Multi-sheet workbook serialization of an allocation run

PURPOSE:
  Turns one allocation result plus the original input tables into an
  .xlsx workbook with four sheets: the cost table, the raw day-count
  table, and the two input tables exactly as entered.

RAW-PASSTHROUGH RULE:
  The original-data sheets carry the user's date strings verbatim.
  They are never round-tripped through parse+format; what was typed is
  what lands in the file. rocdate.Format is reserved for computed date
  values only.

SEE ALSO:
  - allocation/types.go: Result shape
  - api/handlers.go: Serves the workbook as a download
*/
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/warp/split-engine/allocation"
)

// Sheet names match the original report layout.
const (
	SheetCosts        = "費用分攤表"
	SheetDays         = "天數統計表"
	SheetRawBills     = "原始帳單資料"
	SheetRawResidents = "原始學生資料"
)

// Workbook builds the four-sheet report for one allocation run.
func Workbook(res *allocation.Result, bills []allocation.Bill, residencies []allocation.ResidencyRecord) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetCosts); err != nil {
		return nil, fmt.Errorf("rename cost sheet: %w", err)
	}
	for _, name := range []string{SheetDays, SheetRawBills, SheetRawResidents} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	if err := writeCostSheet(f, res); err != nil {
		return nil, err
	}
	if err := writeDaySheet(f, res); err != nil {
		return nil, err
	}
	if err := writeRawBillSheet(f, bills); err != nil {
		return nil, err
	}
	if err := writeRawResidentSheet(f, residencies); err != nil {
		return nil, err
	}

	return f, nil
}

func writeCostSheet(f *excelize.File, res *allocation.Result) error {
	header := []interface{}{"學生姓名", "應付總額"}
	for _, bill := range res.Bills {
		header = append(header, bill)
	}
	if err := setRow(f, SheetCosts, 1, header); err != nil {
		return err
	}

	for i, row := range res.Costs {
		cells := []interface{}{row.Resident, row.Total.IntPart()}
		for _, share := range row.ByBill {
			cells = append(cells, share.IntPart())
		}
		if err := setRow(f, SheetCosts, i+2, cells); err != nil {
			return err
		}
	}
	return nil
}

// writeDaySheet emits the raw integer day counts, not the display
// strings, so the numbers stay usable in spreadsheet formulas.
func writeDaySheet(f *excelize.File, res *allocation.Result) error {
	header := []interface{}{"學生姓名"}
	for _, bill := range res.Bills {
		header = append(header, bill)
	}
	if err := setRow(f, SheetDays, 1, header); err != nil {
		return err
	}

	for i, row := range res.Days {
		cells := []interface{}{row.Resident}
		for _, n := range row.ByBill {
			cells = append(cells, n)
		}
		if err := setRow(f, SheetDays, i+2, cells); err != nil {
			return err
		}
	}
	return nil
}

func writeRawBillSheet(f *excelize.File, bills []allocation.Bill) error {
	header := []interface{}{"帳單名稱", "金額", "開始日期(民國)", "結束日期(民國)"}
	if err := setRow(f, SheetRawBills, 1, header); err != nil {
		return err
	}
	for i, b := range bills {
		cells := []interface{}{b.Name, b.Amount.InexactFloat64(), b.PeriodStart, b.PeriodEnd}
		if err := setRow(f, SheetRawBills, i+2, cells); err != nil {
			return err
		}
	}
	return nil
}

func writeRawResidentSheet(f *excelize.File, residencies []allocation.ResidencyRecord) error {
	header := []interface{}{"學生姓名", "入住日期(民國)", "退宿日期(民國)"}
	if err := setRow(f, SheetRawResidents, 1, header); err != nil {
		return err
	}
	for i, rec := range residencies {
		cells := []interface{}{rec.Resident, rec.StayStart, rec.StayEnd}
		if err := setRow(f, SheetRawResidents, i+2, cells); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
