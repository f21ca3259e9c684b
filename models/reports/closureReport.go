package reports

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sodipas/negoce_backend/models"
	"github.com/xuri/excelize/v2"
)

type ClosureReport struct {
	ClosureId           int                  `json:"closure_id"`
	CashierId           int                  `json:"cashier_id"`
	HangarId            int                  `json:"hangar_id"`
	ClosureDate         time.Time            `json:"closure_date"`
	OpeningBalance      decimal.Decimal      `json:"opening_balance"`
	TotalPayments       decimal.Decimal      `json:"total_payments"`
	ClosingBalance      decimal.Decimal      `json:"closing_balance"`
	TransactionCount    int                  `json:"transaction_count"`
	CageotMovementCount int                  `json:"cageot_movement_count"`
	Notes               string               `json:"notes"`
	Lines               []models.ClosureLine `json:"lines"`
}

// BuildClosureReport shapes a report from the frozen closure snapshot. Pure:
// no store lookups, deterministic line order.
func BuildClosureReport(closure *models.DailyClosure) *ClosureReport {
	lines := make([]models.ClosureLine, len(closure.Lines))
	copy(lines, closure.Lines)
	sort.SliceStable(lines, func(i, j int) bool {
		if !lines[i].RecordedAt.Equal(lines[j].RecordedAt) {
			return lines[i].RecordedAt.Before(lines[j].RecordedAt)
		}
		return lines[i].ID < lines[j].ID
	})

	return &ClosureReport{
		ClosureId:           closure.ID,
		CashierId:           closure.CashierId,
		HangarId:            closure.HangarId,
		ClosureDate:         closure.ClosureDate,
		OpeningBalance:      closure.OpeningBalance,
		TotalPayments:       closure.TotalPayments,
		ClosingBalance:      closure.ClosingBalance,
		TransactionCount:    closure.TransactionCount,
		CageotMovementCount: closure.CageotMovementCount,
		Notes:               closure.Notes,
		Lines:               lines,
	}
}

// Render emits the report as a stable byte stream. Calling it twice on the
// same report yields byte-identical output.
func (r *ClosureReport) Render() []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "CLOTURE JOURNALIERE %s\n", r.ClosureDate.Format("2006-01-02"))
	fmt.Fprintf(&buf, "caissier=%d hangar=%d cloture=%d\n", r.CashierId, r.HangarId, r.ClosureId)
	fmt.Fprintf(&buf, "solde ouverture: %s\n", r.OpeningBalance.StringFixed(2))
	fmt.Fprintf(&buf, "total encaissements: %s\n", r.TotalPayments.StringFixed(2))
	fmt.Fprintf(&buf, "solde fermeture: %s\n", r.ClosingBalance.StringFixed(2))
	fmt.Fprintf(&buf, "transactions: %d\n", r.TransactionCount)
	fmt.Fprintf(&buf, "mouvements cageots: %d\n", r.CageotMovementCount)
	buf.WriteString("----\n")
	for _, line := range r.Lines {
		fmt.Fprintf(&buf, "%s\t%s\tref=%d\t%s\t%d\n",
			line.LineType, line.Label, line.ReferenceId,
			line.Amount.StringFixed(2), line.Quantity)
	}
	buf.WriteString("----\n")
	if r.Notes != "" {
		fmt.Fprintf(&buf, "notes: %s\n", r.Notes)
	}

	return buf.Bytes()
}

// ExportExcel renders the same snapshot to xlsx.
func (r *ClosureReport) ExportExcel(w io.Writer) error {
	f := excelize.NewFile()
	sheet := "Sheet1"
	_, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}

	// Add headers
	f.SetCellValue(sheet, "A1", "ClosureDate")
	f.SetCellValue(sheet, "B1", r.ClosureDate.Format("2006-01-02"))
	f.SetCellValue(sheet, "A2", "OpeningBalance")
	f.SetCellValue(sheet, "B2", r.OpeningBalance.StringFixed(2))
	f.SetCellValue(sheet, "A3", "TotalPayments")
	f.SetCellValue(sheet, "B3", r.TotalPayments.StringFixed(2))
	f.SetCellValue(sheet, "A4", "ClosingBalance")
	f.SetCellValue(sheet, "B4", r.ClosingBalance.StringFixed(2))
	f.SetCellValue(sheet, "A5", "Transactions")
	f.SetCellValue(sheet, "B5", r.TransactionCount)
	f.SetCellValue(sheet, "A6", "CageotMovements")
	f.SetCellValue(sheet, "B6", r.CageotMovementCount)

	f.SetCellValue(sheet, "A8", "Type")
	f.SetCellValue(sheet, "B8", "Label")
	f.SetCellValue(sheet, "C8", "Reference")
	f.SetCellValue(sheet, "D8", "Amount")
	f.SetCellValue(sheet, "E8", "Quantity")

	// Add data
	for i, line := range r.Lines {
		row := i + 9
		f.SetCellValue(sheet, "A"+fmt.Sprint(row), string(line.LineType))
		f.SetCellValue(sheet, "B"+fmt.Sprint(row), line.Label)
		f.SetCellValue(sheet, "C"+fmt.Sprint(row), line.ReferenceId)
		f.SetCellValue(sheet, "D"+fmt.Sprint(row), line.Amount.StringFixed(2))
		f.SetCellValue(sheet, "E"+fmt.Sprint(row), line.Quantity)
	}

	return f.Write(w)
}
