// Package billing turns timesheets and expenses into invoices.
package billing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/talentoz/dbbot/internal/common"
	"github.com/talentoz/dbbot/internal/entity"
	"github.com/talentoz/dbbot/internal/repository"
)

// Payment term applied to every generated invoice.
const dueDays = 30

type Service struct {
	timesheets repository.TimesheetRepository
	expenses   repository.ExpenseRepository
	invoices   repository.InvoiceRepository
	rates      repository.RateRepository
	log        *slog.Logger
}

func NewService(
	timesheets repository.TimesheetRepository,
	expenses repository.ExpenseRepository,
	invoices repository.InvoiceRepository,
	rates repository.RateRepository,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		timesheets: timesheets,
		expenses:   expenses,
		invoices:   invoices,
		rates:      rates,
		log:        logger,
	}
}

// CreateFromTimesheet generates a single-line invoice for a timesheet using
// the rate settings configured for its (project, talent) pair. The timesheet
// must exist and have rate settings; the invoice starts in draft status.
func (s *Service) CreateFromTimesheet(ctx context.Context, timesheetID string) (*entity.Invoice, error) {
	ts, err := s.timesheets.Get(ctx, timesheetID)
	if err != nil {
		return nil, err
	}
	if ts == nil {
		return nil, common.NewNotFoundErrorf("Timesheet %s not found", timesheetID)
	}

	rs, err := s.rates.GetRateSettings(ctx, ts.ProjectID, ts.UserID)
	if err != nil {
		return nil, err
	}
	if rs == nil {
		return nil, common.NewNotFoundErrorf(
			"Talent invoice settings not found for project %s and talent %s", ts.ProjectID, ts.UserID)
	}

	// Billing information feeds the payment term; today the term is a fixed
	// 30 days whether or not a record exists.
	if _, err := s.rates.GetBillingInfo(ctx, ts.ProjectID); err != nil {
		return nil, err
	}

	amount := entity.InvoiceAmount(rs.RateType, ts.TotalHours, rs.RateValue)

	currency := rs.Currency
	if currency == "" {
		currency = "USD"
	}

	now := time.Now().UTC()
	inv := &entity.Invoice{
		InvoiceNumber: entity.NewInvoiceNumber(now),
		ProjectID:     ts.ProjectID,
		TalentID:      ts.UserID,
		TimesheetID:   ts.TimesheetID,
		Status:        entity.InvoiceStatusDraft,
		Items: []entity.InvoiceItem{{
			Description: fmt.Sprintf("Timesheet %s - %v hours", ts.TimesheetID, ts.TotalHours),
			Quantity:    ts.TotalHours,
			Rate:        rs.RateValue,
			Amount:      amount,
			RateType:    rs.RateType,
		}},
		Currency:  currency,
		IssueDate: now.Format(entity.DateLayout),
		DueDate:   now.AddDate(0, 0, dueDays).Format(entity.DateLayout),
		CreatedAt: now.Format(time.RFC3339),
		UpdatedAt: now.Format(time.RFC3339),
	}

	if err := s.invoices.Insert(ctx, inv); err != nil {
		return nil, err
	}
	s.log.Info("billing.invoice_from_timesheet",
		"invoice_number", inv.InvoiceNumber, "timesheet_id", timesheetID, "amount", amount)
	return inv, nil
}

// CreateFromExpense generates an invoice that mirrors an expense report's
// line items. Items missing a quantity default to 1; an expense with no
// items at all is billed as one line for its total amount.
func (s *Service) CreateFromExpense(ctx context.Context, expenseID, talentID string) (*entity.Invoice, error) {
	exp, err := s.expenses.Get(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return nil, common.NewNotFoundErrorf("Expense %s not found", expenseID)
	}

	var items []entity.InvoiceItem
	for _, item := range exp.Items {
		qty := item.Quantity
		if qty == 0 {
			qty = 1
		}
		items = append(items, entity.InvoiceItem{
			Description: item.Description,
			Quantity:    qty,
			Rate:        item.Amount,
			Amount:      item.Amount,
		})
	}
	if len(items) == 0 {
		items = []entity.InvoiceItem{{
			Description: "Expense " + exp.ExpenseID,
			Quantity:    1,
			Rate:        exp.TotalAmount,
			Amount:      exp.TotalAmount,
		}}
	}

	currency := exp.Currency
	if currency == "" {
		currency = "USD"
	}

	now := time.Now().UTC()
	inv := &entity.Invoice{
		InvoiceNumber: entity.NewInvoiceNumber(now),
		ProjectID:     exp.ProjectID,
		TalentID:      talentID,
		ExpenseID:     exp.ExpenseID,
		Status:        entity.InvoiceStatusDraft,
		Items:         items,
		Currency:      currency,
		IssueDate:     now.Format(entity.DateLayout),
		DueDate:       now.AddDate(0, 0, dueDays).Format(entity.DateLayout),
		CreatedAt:     now.Format(time.RFC3339),
		UpdatedAt:     now.Format(time.RFC3339),
	}

	if err := s.invoices.Insert(ctx, inv); err != nil {
		return nil, err
	}
	s.log.Info("billing.invoice_from_expense",
		"invoice_number", inv.InvoiceNumber, "expense_id", expenseID, "total", inv.Total())
	return inv, nil
}
