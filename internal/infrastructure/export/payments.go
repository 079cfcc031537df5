package export

import (
	"fmt"
	"io"

	"github.com/360EntSecGroup-Skylar/excelize"

	"github.com/zatekoja/hms-frontdesk/internal/application/services"
)

// PaymentsSheet is the worksheet holding the payment rows
const PaymentsSheet = "Payments"

var paymentHeaders = map[string]string{
	"A1": "ID",
	"B1": "Date",
	"C1": "Patient",
	"D1": "Amount (ETB)",
	"E1": "Method",
	"F1": "Status",
}

// WritePayments renders rows as an xlsx workbook followed by a totals line
func WritePayments(w io.Writer, rows []services.PaymentRow, stats services.PaymentStats) error {
	file := excelize.NewFile()
	index := file.NewSheet(PaymentsSheet)
	file.SetActiveSheet(index)
	file.DeleteSheet("Sheet1")

	for cell, title := range paymentHeaders {
		file.SetCellValue(PaymentsSheet, cell, title)
	}
	for i := range rows {
		appendPaymentRow(file, i+2, &rows[i])
	}

	totals := len(rows) + 3
	file.SetCellValue(PaymentsSheet, fmt.Sprintf("C%d", totals), "Collected")
	file.SetCellValue(PaymentsSheet, fmt.Sprintf("D%d", totals), stats.TotalCollected)
	file.SetCellValue(PaymentsSheet, fmt.Sprintf("C%d", totals+1), "Pending")
	file.SetCellValue(PaymentsSheet, fmt.Sprintf("D%d", totals+1), stats.PendingAmount)

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write payments workbook: %w", err)
	}
	return nil
}

func appendPaymentRow(file *excelize.File, row int, p *services.PaymentRow) {
	file.SetCellValue(PaymentsSheet, fmt.Sprintf("A%d", row), p.ID)
	file.SetCellValue(PaymentsSheet, fmt.Sprintf("B%d", row), p.CreatedAt.Format("2006-01-02 15:04"))
	file.SetCellValue(PaymentsSheet, fmt.Sprintf("C%d", row), p.PatientName)
	file.SetCellValue(PaymentsSheet, fmt.Sprintf("D%d", row), p.AmountValue())
	file.SetCellValue(PaymentsSheet, fmt.Sprintf("E%d", row), string(p.PaymentMethod))
	file.SetCellValue(PaymentsSheet, fmt.Sprintf("F%d", row), string(p.Status))
}
