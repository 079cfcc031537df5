package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/hms-frontdesk/internal/application/services"
	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/export"
)

func TestWritePayments(t *testing.T) {
	// Arrange
	created := time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC)
	rows := []services.PaymentRow{
		{Payment: entities.Payment{ID: 1, Amount: "500.00", PaymentMethod: entities.PaymentMethodCash, Status: entities.PaymentStatusPaid, CreatedAt: created}, PatientName: "Abebe Kebede"},
		{Payment: entities.Payment{ID: 2, Amount: "250.50", PaymentMethod: entities.PaymentMethodChapa, Status: entities.PaymentStatusPending, CreatedAt: created}, PatientName: "Patient #99"},
	}
	stats := services.SummarizePayments([]entities.Payment{rows[0].Payment, rows[1].Payment})
	var buf bytes.Buffer

	// Act
	err := export.WritePayments(&buf, rows, stats)

	// Assert
	require.NoError(t, err)
	book, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, "Patient", book.GetCellValue(export.PaymentsSheet, "C1"))
	assert.Equal(t, "Abebe Kebede", book.GetCellValue(export.PaymentsSheet, "C2"))
	assert.Equal(t, "2026-03-04 09:30", book.GetCellValue(export.PaymentsSheet, "B2"))
	assert.Equal(t, "chapa", book.GetCellValue(export.PaymentsSheet, "E3"))
	assert.Equal(t, "pending", book.GetCellValue(export.PaymentsSheet, "F3"))
	assert.Equal(t, "Collected", book.GetCellValue(export.PaymentsSheet, "C5"))
	assert.Equal(t, "500", book.GetCellValue(export.PaymentsSheet, "D5"))
}
