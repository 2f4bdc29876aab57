package bot

import (
	"fmt"
	"strings"

	"github.com/talentoz/dbbot/internal/entity"
)

// Display caps: long entry/item lists and result sets are truncated with a
// trailing "... and N more" line.
const (
	maxDetailRows = 10
	maxListRows   = 20
)

// FormatTimesheet renders one timesheet as display text.
func FormatTimesheet(ts *entity.Timesheet) string {
	lines := []string{
		fmt.Sprintf("Timesheet: %s", orNA(ts.TimesheetID)),
		fmt.Sprintf("Project ID: %s", orNA(ts.ProjectID)),
		fmt.Sprintf("Talent ID: %s", orNA(ts.UserID)),
		fmt.Sprintf("Date Range: %s to %s", orNA(ts.StartDate), orNA(ts.EndDate)),
		fmt.Sprintf("Status: %s", orNA(ts.Status)),
		fmt.Sprintf("Total Hours: %v", ts.TotalHours),
	}

	if len(ts.Entries) > 0 {
		lines = append(lines, fmt.Sprintf("\nEntries (%d):", len(ts.Entries)))
		for i, e := range ts.Entries {
			if i >= maxDetailRows {
				lines = append(lines, fmt.Sprintf("  ... and %d more entries", len(ts.Entries)-maxDetailRows))
				break
			}
			lines = append(lines, fmt.Sprintf("  - %s: %v hours", e.Date, e.Hours))
		}
	}

	return strings.Join(lines, "\n")
}

// FormatInvoice renders one invoice as display text.
func FormatInvoice(inv *entity.Invoice) string {
	lines := []string{
		fmt.Sprintf("Invoice: %s", orNA(inv.InvoiceNumber)),
		fmt.Sprintf("Status: %s", orNA(inv.Status)),
		fmt.Sprintf("Currency: %s", orNA(inv.Currency)),
	}

	if inv.ProjectID != "" {
		lines = append(lines, fmt.Sprintf("Project ID: %s", inv.ProjectID))
	}
	if inv.TalentID != "" {
		lines = append(lines, fmt.Sprintf("Talent ID: %s", inv.TalentID))
	}
	if inv.TimesheetID != "" {
		lines = append(lines, fmt.Sprintf("Timesheet ID: %s", inv.TimesheetID))
	}
	if inv.ExpenseID != "" {
		lines = append(lines, fmt.Sprintf("Expense ID: %s", inv.ExpenseID))
	}
	if inv.IssueDate != "" {
		lines = append(lines, fmt.Sprintf("Issue Date: %s", inv.IssueDate))
	}
	if inv.DueDate != "" {
		lines = append(lines, fmt.Sprintf("Due Date: %s", inv.DueDate))
	}

	if len(inv.Items) > 0 {
		lines = append(lines, fmt.Sprintf("\nItems (%d):", len(inv.Items)))
		for i, item := range inv.Items {
			if i >= maxDetailRows {
				lines = append(lines, fmt.Sprintf("  ... and %d more items", len(inv.Items)-maxDetailRows))
				break
			}
			lines = append(lines, fmt.Sprintf("  - %s: %v", orNA(item.Description), item.Amount))
		}
		lines = append(lines, fmt.Sprintf("Total: %v %s", inv.Total(), inv.Currency))
	}

	return strings.Join(lines, "\n")
}

// FormatExpense renders one expense as display text.
func FormatExpense(exp *entity.Expense) string {
	lines := []string{
		fmt.Sprintf("Expense ID: %s", orNA(exp.ExpenseID)),
		fmt.Sprintf("Project ID: %s", orNA(exp.ProjectID)),
		fmt.Sprintf("User ID: %s", orNA(exp.UserID)),
		fmt.Sprintf("Status: %s", orNA(exp.Status)),
		fmt.Sprintf("Currency: %s", orNA(exp.Currency)),
		fmt.Sprintf("Total Amount: %v", exp.TotalAmount),
	}

	if len(exp.Items) > 0 {
		lines = append(lines, fmt.Sprintf("\nItems (%d):", len(exp.Items)))
		for i, item := range exp.Items {
			if i >= maxDetailRows {
				break
			}
			lines = append(lines, fmt.Sprintf("  - %s: %v", orNA(item.Description), item.Amount))
		}
	}

	return strings.Join(lines, "\n")
}

// FormatProject renders one project as display text.
func FormatProject(p *entity.Project) string {
	lines := []string{
		fmt.Sprintf("Project ID: %s", orNA(p.ProjectID)),
		fmt.Sprintf("Project Name: %s", orNA(p.ProjectName)),
		fmt.Sprintf("Status: %s", orNA(p.Status)),
	}
	if p.ClientID != "" {
		lines = append(lines, fmt.Sprintf("Client ID: %s", p.ClientID))
	}
	if p.TalentID != "" {
		lines = append(lines, fmt.Sprintf("Talent ID: %s", p.TalentID))
	}
	return strings.Join(lines, "\n")
}

// FormatTalent renders one talent as display text.
func FormatTalent(t *entity.Talent) string {
	lines := []string{
		fmt.Sprintf("Talent ID: %s", orNA(t.UserID)),
		fmt.Sprintf("Country: %s", orNA(t.Country)),
		fmt.Sprintf("Company: %s", orNA(t.CompanyLegalName)),
	}
	return strings.Join(lines, "\n")
}

// formatList renders a result set with the per-entity formatter, capped at
// maxListRows rows.
func formatList[T any](results []T, entityType string, format func(T) string) string {
	if len(results) == 0 {
		return fmt.Sprintf("No %ss found.", strings.ToLower(entityType))
	}

	lines := []string{fmt.Sprintf("Found %d %s(s):\n", len(results), strings.ToLower(entityType))}
	for i, r := range results {
		if i >= maxListRows {
			lines = append(lines, fmt.Sprintf("\n... and %d more results", len(results)-maxListRows))
			break
		}
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, format(r)))
		if i+1 < len(results) && i+1 < maxListRows {
			lines = append(lines, "")
		}
	}
	return strings.Join(lines, "\n")
}

// FormatTimesheetList renders a timesheet result set.
func FormatTimesheetList(results []*entity.Timesheet) string {
	return formatList(results, "timesheet", FormatTimesheet)
}

// FormatInvoiceList renders an invoice result set.
func FormatInvoiceList(results []*entity.Invoice) string {
	return formatList(results, "invoice", FormatInvoice)
}

// FormatExpenseList renders an expense result set.
func FormatExpenseList(results []*entity.Expense) string {
	return formatList(results, "expense", FormatExpense)
}

// FormatSuccess renders a create/update confirmation with the record details.
func FormatSuccess(message, details string) string {
	if details == "" {
		return "✓ " + message
	}
	return "✓ " + message + "\n\nDetails:\n" + details
}

// FormatError renders a failure message.
func FormatError(errMsg string) string {
	return "✗ Error: " + errMsg
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
