package entity

import (
	"fmt"
	"time"
)

// Timesheet statuses.
const (
	TimesheetStatusDraft     = "draft"
	TimesheetStatusSubmitted = "submitted"
	TimesheetStatusApproved  = "approved"
	TimesheetStatusRejected  = "rejected"
)

// TimesheetStatuses lists the valid timesheet statuses.
var TimesheetStatuses = []string{
	TimesheetStatusDraft,
	TimesheetStatusSubmitted,
	TimesheetStatusApproved,
	TimesheetStatusRejected,
}

// Entry is one worked calendar day inside a timesheet.
type Entry struct {
	Date        string  `bson:"date" json:"date"`
	Hours       float64 `bson:"hours" json:"hours"`
	Description string  `bson:"description,omitempty" json:"description,omitempty"`
}

// Timesheet represents a timesheet document. Calendar dates are YYYY-MM-DD
// strings; user_id holds the owning talent. TotalHours must equal the sum of
// per-entry hours at all times; Create and UpdateDates re-establish it.
type Timesheet struct {
	TimesheetID string  `bson:"timesheet_id" json:"timesheet_id"`
	ProjectID   string  `bson:"project_id" json:"project_id"`
	UserID      string  `bson:"user_id" json:"user_id"`
	StartDate   string  `bson:"start_date" json:"start_date"`
	EndDate     string  `bson:"end_date" json:"end_date"`
	Status      string  `bson:"status" json:"status"`
	Entries     []Entry `bson:"entries" json:"entries"`
	TotalHours  float64 `bson:"total_hours" json:"total_hours"`
	CreatedAt   string  `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt   string  `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// ValidTimesheetStatus reports whether s is a recognized timesheet status.
func ValidTimesheetStatus(s string) bool {
	for _, v := range TimesheetStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// GenerateEntries produces one entry per calendar day from start to end
// inclusive, ascending, each with hoursPerDay and no description. The second
// return value is the exact total: hoursPerDay times the day count.
// start <= end is assumed, matching the create/update preconditions.
func GenerateEntries(start, end string, hoursPerDay float64) ([]Entry, float64, error) {
	from, err := time.Parse(DateLayout, start)
	if err != nil {
		return nil, 0, fmt.Errorf("parse start_date %q: %w", start, err)
	}
	to, err := time.Parse(DateLayout, end)
	if err != nil {
		return nil, 0, fmt.Errorf("parse end_date %q: %w", end, err)
	}

	var entries []Entry
	var totalHours float64
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		entries = append(entries, Entry{
			Date:  d.Format(DateLayout),
			Hours: hoursPerDay,
		})
		totalHours += hoursPerDay
	}
	return entries, totalHours, nil
}

// NewTimesheetID generates a timesheet natural key of the form TS-YYYYMM-N
// where N is the current microsecond-of-second modulo 1000. The suffix is
// time-derived, not unique: concurrent creates in the same month can collide.
func NewTimesheetID(now time.Time) string {
	return fmt.Sprintf("TS-%s-%d", now.Format(MonthLayout), now.Nanosecond()/1000%1000)
}
