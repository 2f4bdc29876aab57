package entity_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentoz/dbbot/internal/entity"
)

func TestGenerateEntries(t *testing.T) {
	type testCase struct {
		name        string
		start       string
		end         string
		hoursPerDay float64
		wantDays    int
		wantTotal   float64
		wantErr     bool
	}

	tests := []testCase{
		{
			name:        "SingleDay",
			start:       "2025-10-15",
			end:         "2025-10-15",
			hoursPerDay: 8,
			wantDays:    1,
			wantTotal:   8,
		},
		{
			name:        "FullWeek",
			start:       "2025-10-13",
			end:         "2025-10-19",
			hoursPerDay: 8,
			wantDays:    7,
			wantTotal:   56,
		},
		{
			name:        "AcrossMonthBoundary",
			start:       "2025-10-30",
			end:         "2025-11-02",
			hoursPerDay: 6,
			wantDays:    4,
			wantTotal:   24,
		},
		{
			name:        "FractionalHours",
			start:       "2025-10-01",
			end:         "2025-10-02",
			hoursPerDay: 7.5,
			wantDays:    2,
			wantTotal:   15,
		},
		{
			name:    "BadStartDate",
			start:   "15/10/2025",
			end:     "2025-10-16",
			wantErr: true,
		},
		{
			name:    "BadEndDate",
			start:   "2025-10-15",
			end:     "not-a-date",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, total, err := entity.GenerateEntries(tt.start, tt.end, tt.hoursPerDay)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Len(t, entries, tt.wantDays)
			assert.Equal(t, tt.wantTotal, total)
			assert.Equal(t, tt.start, entries[0].Date)
			assert.Equal(t, tt.end, entries[len(entries)-1].Date)
			for _, e := range entries {
				assert.Equal(t, tt.hoursPerDay, e.Hours)
			}
		})
	}
}

func TestGenerateEntriesAscending(t *testing.T) {
	entries, _, err := entity.GenerateEntries("2025-09-28", "2025-10-03", 8)
	require.NoError(t, err)

	for i := 1; i < len(entries); i++ {
		assert.Less(t, entries[i-1].Date, entries[i].Date)
	}
}

func TestNewTimesheetID(t *testing.T) {
	now := time.Date(2025, 10, 15, 12, 0, 0, 148_000, time.UTC)
	id := entity.NewTimesheetID(now)
	assert.Equal(t, "TS-202510-148", id)

	// suffix is not zero padded
	now = time.Date(2025, 10, 15, 12, 0, 0, 7_000, time.UTC)
	assert.Equal(t, "TS-202510-7", entity.NewTimesheetID(now))

	assert.Regexp(t, regexp.MustCompile(`^TS-\d{6}-\d{1,3}$`), entity.NewTimesheetID(time.Now()))
}

func TestValidTimesheetStatus(t *testing.T) {
	for _, s := range []string{"draft", "submitted", "approved", "rejected"} {
		assert.True(t, entity.ValidTimesheetStatus(s), s)
	}
	for _, s := range []string{"", "Draft", "paid", "open"} {
		assert.False(t, entity.ValidTimesheetStatus(s), s)
	}
}
