package bot

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/talentoz/dbbot/internal/llm"
)

// The language model is unreliable at exact-format tokens, so machine-shaped
// fields (natural keys, ISO dates, amounts) are re-extracted from the literal
// query text by regex. Raw-text matches are authoritative for dates and
// numbers; for IDs, status and currency they only fill gaps the model left.
var (
	reTimesheetID   = regexp.MustCompile(`(?i)TS-\d{6}-\d+`)
	reInvoiceNumber = regexp.MustCompile(`(?i)INV-\d{6}-\d+`)
	reUUID          = regexp.MustCompile(`(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)
	reISODate       = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

// Month-name day tokens ("Oct 15", "november 7"), scanned in calendar order.
var monthPatterns = []struct {
	re    *regexp.Regexp
	month int
}{
	{regexp.MustCompile(`(?i)jan(?:uary)?\s+(\d{1,2})`), 1},
	{regexp.MustCompile(`(?i)feb(?:ruary)?\s+(\d{1,2})`), 2},
	{regexp.MustCompile(`(?i)mar(?:ch)?\s+(\d{1,2})`), 3},
	{regexp.MustCompile(`(?i)apr(?:il)?\s+(\d{1,2})`), 4},
	{regexp.MustCompile(`(?i)may\s+(\d{1,2})`), 5},
	{regexp.MustCompile(`(?i)jun(?:e)?\s+(\d{1,2})`), 6},
	{regexp.MustCompile(`(?i)jul(?:y)?\s+(\d{1,2})`), 7},
	{regexp.MustCompile(`(?i)aug(?:ust)?\s+(\d{1,2})`), 8},
	{regexp.MustCompile(`(?i)sep(?:tember)?\s+(\d{1,2})`), 9},
	{regexp.MustCompile(`(?i)oct(?:ober)?\s+(\d{1,2})`), 10},
	{regexp.MustCompile(`(?i)nov(?:ember)?\s+(\d{1,2})`), 11},
	{regexp.MustCompile(`(?i)dec(?:ember)?\s+(\d{1,2})`), 12},
}

var hoursPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*hours?`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*hrs?`),
	regexp.MustCompile(`(?i)hours?\s*[:\s]+(\d+(?:\.\d+)?)`),
}

var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:USD|EUR|GBP|AUD)`),
	regexp.MustCompile(`(?i)amount[:\s]+(\d+(?:\.\d+)?)`),
}

// statuses in fixed priority order; at most one is extracted.
var statusTokens = []string{"draft", "submitted", "approved", "rejected", "sent", "paid", "cancelled"}

var currencyTokens = []string{"USD", "EUR", "GBP", "AUD", "CAD", "JPY"}

// ExtractTimesheetID returns the first timesheet natural key in text, with
// the original casing preserved, or "".
func ExtractTimesheetID(text string) string {
	return reTimesheetID.FindString(text)
}

// ExtractInvoiceNumber returns the first invoice natural key in text, or "".
func ExtractInvoiceNumber(text string) string {
	return reInvoiceNumber.FindString(text)
}

// ExtractUUID returns the first canonical 8-4-4-4-12 UUID in text, or "".
// Expense IDs have no distinguishing marker beyond the UUID shape.
func ExtractUUID(text string) string {
	return reUUID.FindString(text)
}

// ExtractDates scans text for a date range in two passes. Month-name tokens
// assume the current calendar year and are assigned by the keywords preceding
// them (start/from vs end/to, first-fills-start otherwise); explicit
// YYYY-MM-DD tokens are applied last and unconditionally overwrite the
// month-name results. The override is order-dependent: any explicit date
// anywhere in the text displaces a month-name date, related or not.
func ExtractDates(text string) (start, end string) {
	lower := strings.ToLower(text)
	year := time.Now().Year()

	for _, mp := range monthPatterns {
		for _, loc := range mp.re.FindAllStringSubmatchIndex(text, -1) {
			day, err := strconv.Atoi(text[loc[2]:loc[3]])
			if err != nil {
				continue
			}
			dateStr := fmt.Sprintf("%d-%02d-%02d", year, mp.month, day)
			prefix := lower[:loc[0]]
			switch {
			case strings.Contains(prefix, "start") || strings.Contains(prefix, "from"):
				start = dateStr
			case strings.Contains(prefix, "end") || strings.Contains(prefix, "to"):
				end = dateStr
			default:
				if start == "" {
					start = dateStr
				} else {
					end = dateStr
				}
			}
		}
	}

	explicit := reISODate.FindAllString(text, -1)
	if len(explicit) >= 1 {
		start = explicit[0]
	}
	if len(explicit) >= 2 {
		end = explicit[1]
	}
	return start, end
}

// ExtractStatus returns the first status literal found in text, scanning the
// fixed priority order, or "".
func ExtractStatus(text string) string {
	lower := strings.ToLower(text)
	for _, status := range statusTokens {
		if strings.Contains(lower, status) {
			return status
		}
	}
	return ""
}

// ExtractNumbers pulls hours ("<n> hours"/"<n> hrs"/"hours: <n>") and a
// monetary amount ("$<n>", "<n> CCY", "amount: <n>") from text, each by the
// first matching pattern in priority order.
func ExtractNumbers(text string) (hours, amount *float64) {
	for _, re := range hoursPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				hours = &v
			}
			break
		}
	}
	for _, re := range amountPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				amount = &v
			}
			break
		}
	}
	return hours, amount
}

// ExtractCurrency returns the first known 3-letter currency code appearing in
// text (case-insensitive), or "".
func ExtractCurrency(text string) string {
	upper := strings.ToUpper(text)
	for _, ccy := range currencyTokens {
		if strings.Contains(upper, ccy) {
			return ccy
		}
	}
	return ""
}

// ExtractAll merges regex extraction from the raw query text over the model's
// entity guess: IDs, status and currency are filled only where the model left
// them absent, while dates and numeric fields found in the raw text override
// the model's values.
func ExtractAll(parsed *llm.ParsedQuery, originalQuery string) llm.Entities {
	entities := parsed.Entities

	if entities.TimesheetID == "" {
		entities.TimesheetID = ExtractTimesheetID(originalQuery)
	}
	if entities.InvoiceNumber == "" {
		entities.InvoiceNumber = ExtractInvoiceNumber(originalQuery)
	}
	if entities.ExpenseID == "" {
		entities.ExpenseID = ExtractUUID(originalQuery)
	}

	start, end := ExtractDates(originalQuery)
	if start != "" {
		entities.StartDate = start
	}
	if end != "" {
		entities.EndDate = end
	}

	if entities.Status == "" {
		entities.Status = ExtractStatus(originalQuery)
	}

	hours, amount := ExtractNumbers(originalQuery)
	if hours != nil {
		entities.Hours = hours
	}
	if amount != nil {
		entities.Amount = amount
	}

	if entities.Currency == "" {
		entities.Currency = ExtractCurrency(originalQuery)
	}

	return entities
}
