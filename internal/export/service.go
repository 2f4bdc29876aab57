package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/talentoz/dbbot/internal/repository"
)

// Service is a tiny façade over repositories that produces XLSX bytes for exports.
type Service struct {
	invoices repository.InvoiceRepository
	logger   *slog.Logger
}

func NewService(invoices repository.InvoiceRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{invoices: invoices, logger: logger}
}

// ExportInvoicesXLSX returns an XLSX workbook (as bytes) for the invoices
// matching the filter. If only a from date is provided the window runs
// from..today; an empty filter exports everything.
func (s *Service) ExportInvoicesXLSX(ctx context.Context, filter repository.InvoiceFilter) ([]byte, error) {
	start := time.Now()

	if filter.FromDate != "" && filter.ToDate == "" {
		filter.ToDate = time.Now().UTC().Format("2006-01-02")
	}

	invs, err := s.invoices.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Invoices"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Invoice Number",
		"Project",
		"Talent",
		"Source",
		"Status",
		"Currency",
		"Total",
		"Issue Date",
		"Due Date",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, inv := range invs {
		source := inv.TimesheetID
		if source == "" {
			source = inv.ExpenseID
		}

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, inv.InvoiceNumber)
		write(2, inv.ProjectID)
		write(3, inv.TalentID)
		write(4, source)
		write(5, inv.Status)
		write(6, inv.Currency)
		write(7, inv.Total())
		write(8, inv.IssueDate)
		write(9, inv.DueDate)

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 18) // invoice number
	_ = f.SetColWidth(sheet, "B", "C", 24) // project / talent
	_ = f.SetColWidth(sheet, "D", "D", 18) // source
	_ = f.SetColWidth(sheet, "E", "F", 10) // status / currency
	_ = f.SetColWidth(sheet, "G", "G", 12) // total
	_ = f.SetColWidth(sheet, "H", "I", 12) // dates

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(invs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
