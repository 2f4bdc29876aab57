package entity

import (
	"fmt"
	"time"
)

// Date layouts shared across documents.
const (
	DateLayout  = "2006-01-02"
	MonthLayout = "200601"
)

// Invoice statuses.
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusCancelled = "cancelled"
)

// InvoiceStatuses lists the valid invoice statuses.
var InvoiceStatuses = []string{
	InvoiceStatusDraft,
	InvoiceStatusSent,
	InvoiceStatusPaid,
	InvoiceStatusCancelled,
}

// Rate types used to convert accumulated hours into an amount.
const (
	RateTypeHourly  = "Hourly"
	RateTypeDaily   = "Daily"
	RateTypeWeekly  = "Weekly"
	RateTypeMonthly = "Monthly"
)

// InvoiceItem is one billed line on an invoice.
type InvoiceItem struct {
	Description string  `bson:"description" json:"description"`
	Quantity    float64 `bson:"quantity" json:"quantity"`
	Rate        float64 `bson:"rate" json:"rate"`
	Amount      float64 `bson:"amount" json:"amount"`
	RateType    string  `bson:"rate_type,omitempty" json:"rate_type,omitempty"`
}

// Invoice represents an invoice document. Exactly one of TimesheetID or
// ExpenseID is set: the provenance link back to the source entity.
// ProjectID/TalentID are denormalized from the source for query convenience.
// Items never change after creation; only status transitions are allowed.
type Invoice struct {
	InvoiceNumber string        `bson:"invoice_number" json:"invoice_number"`
	ProjectID     string        `bson:"project_id,omitempty" json:"project_id,omitempty"`
	TalentID      string        `bson:"talent_id,omitempty" json:"talent_id,omitempty"`
	TimesheetID   string        `bson:"timesheet_id,omitempty" json:"timesheet_id,omitempty"`
	ExpenseID     string        `bson:"expense_id,omitempty" json:"expense_id,omitempty"`
	Status        string        `bson:"status" json:"status"`
	Items         []InvoiceItem `bson:"items" json:"items"`
	Currency      string        `bson:"currency" json:"currency"`
	IssueDate     string        `bson:"issue_date,omitempty" json:"issue_date,omitempty"`
	DueDate       string        `bson:"due_date,omitempty" json:"due_date,omitempty"`
	CreatedAt     string        `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt     string        `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// Total sums the item amounts.
func (inv *Invoice) Total() float64 {
	var total float64
	for _, item := range inv.Items {
		total += item.Amount
	}
	return total
}

// ValidInvoiceStatus reports whether s is a recognized invoice status.
func ValidInvoiceStatus(s string) bool {
	for _, v := range InvoiceStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// InvoiceAmount converts a timesheet's total hours into a monetary amount
// under the given rate type: Hourly bills per hour, Daily assumes an 8-hour
// day, Weekly a 5-day week, Monthly a 20-day month. An unrecognized rate type
// yields 0 rather than an error; callers relying on a non-zero amount should
// validate the rate settings upstream.
func InvoiceAmount(rateType string, totalHours, rateValue float64) float64 {
	switch rateType {
	case RateTypeHourly:
		return totalHours * rateValue
	case RateTypeDaily:
		return totalHours / 8.0 * rateValue
	case RateTypeWeekly:
		return totalHours / (8.0 * 5) * rateValue
	case RateTypeMonthly:
		return totalHours / (8.0 * 20) * rateValue
	default:
		return 0
	}
}

// NewInvoiceNumber generates an invoice natural key of the form INV-YYYYMM-N.
// Same suffix scheme, and the same collision caveat, as NewTimesheetID.
func NewInvoiceNumber(now time.Time) string {
	return fmt.Sprintf("INV-%s-%d", now.Format(MonthLayout), now.Nanosecond()/1000%1000)
}
