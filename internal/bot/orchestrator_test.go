package bot_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentoz/dbbot/internal/billing"
	"github.com/talentoz/dbbot/internal/bot"
	"github.com/talentoz/dbbot/internal/common"
	"github.com/talentoz/dbbot/internal/entity"
	"github.com/talentoz/dbbot/internal/llm"
	"github.com/talentoz/dbbot/internal/repository"
)

type fakeParser struct {
	parsed *llm.ParsedQuery
	err    error
}

func (f *fakeParser) Parse(_ context.Context, _ string) (*llm.ParsedQuery, error) {
	return f.parsed, f.err
}

type fakeTimesheets struct {
	byID       map[string]*entity.Timesheet
	listResult []*entity.Timesheet
	created    []repository.CreateTimesheetParams
	listCalls  []repository.TimesheetFilter
}

func (f *fakeTimesheets) Get(_ context.Context, id string) (*entity.Timesheet, error) {
	return f.byID[id], nil
}

func (f *fakeTimesheets) List(_ context.Context, filter repository.TimesheetFilter) ([]*entity.Timesheet, error) {
	f.listCalls = append(f.listCalls, filter)
	return f.listResult, nil
}

func (f *fakeTimesheets) Create(_ context.Context, p repository.CreateTimesheetParams) (*entity.Timesheet, error) {
	f.created = append(f.created, p)
	entries, total, err := entity.GenerateEntries(p.StartDate, p.EndDate, p.HoursPerDay)
	if err != nil {
		return nil, common.NewValidationError(err.Error())
	}
	ts := &entity.Timesheet{
		TimesheetID: entity.NewTimesheetID(time.Now()),
		ProjectID:   p.ProjectID,
		UserID:      p.TalentID,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Status:      entity.TimesheetStatusDraft,
		Entries:     entries,
		TotalHours:  total,
	}
	return ts, nil
}

func (f *fakeTimesheets) UpdateStatus(_ context.Context, id, status string) (*entity.Timesheet, error) {
	if !entity.ValidTimesheetStatus(status) {
		return nil, common.NewValidationErrorf("Invalid status: %s", status)
	}
	ts, ok := f.byID[id]
	if !ok {
		return nil, common.NewNotFoundErrorf("Timesheet %s not found", id)
	}
	ts.Status = status
	return ts, nil
}

func (f *fakeTimesheets) UpdateDates(_ context.Context, id, start, end string, hoursPerDay float64) (*entity.Timesheet, error) {
	ts, ok := f.byID[id]
	if !ok {
		return nil, common.NewNotFoundErrorf("Timesheet %s not found", id)
	}
	entries, total, err := entity.GenerateEntries(start, end, hoursPerDay)
	if err != nil {
		return nil, common.NewValidationError(err.Error())
	}
	ts.StartDate, ts.EndDate, ts.Entries, ts.TotalHours = start, end, entries, total
	return ts, nil
}

type fakeInvoices struct {
	byID       map[string]*entity.Invoice
	listResult []*entity.Invoice
	inserted   []*entity.Invoice
}

func (f *fakeInvoices) Get(_ context.Context, number string) (*entity.Invoice, error) {
	return f.byID[number], nil
}

func (f *fakeInvoices) List(_ context.Context, _ repository.InvoiceFilter) ([]*entity.Invoice, error) {
	return f.listResult, nil
}

func (f *fakeInvoices) Insert(_ context.Context, inv *entity.Invoice) error {
	f.inserted = append(f.inserted, inv)
	return nil
}

func (f *fakeInvoices) UpdateStatus(_ context.Context, number, status string) (*entity.Invoice, error) {
	if !entity.ValidInvoiceStatus(status) {
		return nil, common.NewValidationErrorf("Invalid status: %s", status)
	}
	inv, ok := f.byID[number]
	if !ok {
		return nil, common.NewNotFoundErrorf("Invoice %s not found", number)
	}
	inv.Status = status
	return inv, nil
}

type fakeExpenses struct {
	byID       map[string]*entity.Expense
	listResult []*entity.Expense
}

func (f *fakeExpenses) Get(_ context.Context, id string) (*entity.Expense, error) {
	return f.byID[id], nil
}

func (f *fakeExpenses) List(_ context.Context, _ repository.ExpenseFilter) ([]*entity.Expense, error) {
	return f.listResult, nil
}

type fakeProjects struct {
	projects map[string]*entity.Project
	talents  map[string]*entity.Talent
}

func (f *fakeProjects) GetProject(_ context.Context, id string) (*entity.Project, error) {
	return f.projects[id], nil
}

func (f *fakeProjects) ListProjects(_ context.Context) ([]*entity.Project, error) {
	return nil, nil
}

func (f *fakeProjects) GetTalent(_ context.Context, userID string) (*entity.Talent, error) {
	return f.talents[userID], nil
}

type fakeRates struct {
	settings map[string]*entity.RateSettings
}

func (f *fakeRates) GetRateSettings(_ context.Context, projectID, talentID string) (*entity.RateSettings, error) {
	return f.settings[projectID+"/"+talentID], nil
}

func (f *fakeRates) GetBillingInfo(_ context.Context, _ string) (*entity.BillingInfo, error) {
	return nil, nil
}

type fixture struct {
	timesheets *fakeTimesheets
	invoices   *fakeInvoices
	expenses   *fakeExpenses
	projects   *fakeProjects
	rates      *fakeRates
}

func newFixture() *fixture {
	return &fixture{
		timesheets: &fakeTimesheets{byID: map[string]*entity.Timesheet{}},
		invoices:   &fakeInvoices{byID: map[string]*entity.Invoice{}},
		expenses:   &fakeExpenses{byID: map[string]*entity.Expense{}},
		projects:   &fakeProjects{projects: map[string]*entity.Project{}, talents: map[string]*entity.Talent{}},
		rates:      &fakeRates{settings: map[string]*entity.RateSettings{}},
	}
}

func (f *fixture) orchestrator(parsed *llm.ParsedQuery, parseErr error) *bot.Orchestrator {
	parser := &fakeParser{parsed: parsed, err: parseErr}
	billingSvc := billing.NewService(f.timesheets, f.expenses, f.invoices, f.rates, nil)
	return bot.NewOrchestrator(parser, f.timesheets, f.invoices, f.expenses, f.projects, billingSvc, nil)
}

func TestProcessQueryParseFailures(t *testing.T) {
	t.Run("TransportError", func(t *testing.T) {
		f := newFixture()
		o := f.orchestrator(nil, errors.New("connection refused"))

		resp := o.ProcessQuery(context.Background(), "show my timesheets", "")
		assert.False(t, resp.Success)
		assert.Equal(t, "Query parsing failed", resp.Error)
		assert.Contains(t, resp.Message, "connection refused")
	})

	t.Run("UndecodableModelOutput", func(t *testing.T) {
		f := newFixture()
		o := f.orchestrator(llm.DefaultEnvelope("failed to parse query envelope"), nil)

		resp := o.ProcessQuery(context.Background(), "gibberish", "")
		assert.False(t, resp.Success)
		assert.Equal(t, "Query parsing failed", resp.Error)
		assert.Contains(t, resp.Message, "failed to parse query envelope")
	})
}

func TestProcessQueryCreateTimesheet(t *testing.T) {
	t.Run("MissingFields", func(t *testing.T) {
		f := newFixture()
		o := f.orchestrator(&llm.ParsedQuery{
			Intent:     "CREATE",
			EntityType: "TIMESHEET",
			Entities:   llm.Entities{ProjectID: "PRJ-1"},
			Confidence: 0.9,
		}, nil)

		resp := o.ProcessQuery(context.Background(), "create a timesheet for PRJ-1", "")
		assert.False(t, resp.Success)
		assert.Equal(t, "Processing error", resp.Error)
		assert.Equal(t, "Missing required fields: project_id, talent_id, start_date, end_date", resp.Message)
		assert.Empty(t, f.timesheets.created)
	})

	t.Run("Success", func(t *testing.T) {
		f := newFixture()
		o := f.orchestrator(&llm.ParsedQuery{
			Intent:     "CREATE",
			EntityType: "TIMESHEET",
			Entities:   llm.Entities{ProjectID: "PRJ-1", TalentID: "u-1"},
			Confidence: 0.9,
		}, nil)

		resp := o.ProcessQuery(context.Background(),
			"create timesheet 2025-10-01 2025-10-03 at 7.5 hours per day", "")
		require.True(t, resp.Success, resp.Message)
		assert.Contains(t, resp.Result, "✓ Created timesheet TS-")

		require.Len(t, f.timesheets.created, 1)
		created := f.timesheets.created[0]
		assert.Equal(t, "PRJ-1", created.ProjectID)
		assert.Equal(t, "u-1", created.TalentID)
		assert.Equal(t, "2025-10-01", created.StartDate)
		assert.Equal(t, "2025-10-03", created.EndDate)
		assert.Equal(t, 7.5, created.HoursPerDay)

		require.NotNil(t, resp.Metadata)
		assert.Equal(t, "CREATE", resp.Metadata.Intent)
		assert.Equal(t, "TIMESHEET", resp.Metadata.EntityType)
		assert.Equal(t, 0.9, resp.Metadata.Confidence)
	})

	t.Run("DefaultEightHours", func(t *testing.T) {
		f := newFixture()
		o := f.orchestrator(&llm.ParsedQuery{
			Intent:     "CREATE",
			EntityType: "TIMESHEET",
			Entities:   llm.Entities{ProjectID: "PRJ-1", TalentID: "u-1"},
		}, nil)

		resp := o.ProcessQuery(context.Background(), "create timesheet 2025-10-01 2025-10-03", "")
		require.True(t, resp.Success, resp.Message)
		require.Len(t, f.timesheets.created, 1)
		assert.Equal(t, 8.0, f.timesheets.created[0].HoursPerDay)
	})

	t.Run("UserIDFallback", func(t *testing.T) {
		f := newFixture()
		o := f.orchestrator(&llm.ParsedQuery{
			Intent:     "CREATE",
			EntityType: "TIMESHEET",
			Entities:   llm.Entities{ProjectID: "PRJ-1"},
		}, nil)

		resp := o.ProcessQuery(context.Background(), "create timesheet 2025-10-01 2025-10-03", "u-77")
		require.True(t, resp.Success, resp.Message)
		require.Len(t, f.timesheets.created, 1)
		assert.Equal(t, "u-77", f.timesheets.created[0].TalentID)
	})
}

func TestProcessQueryCreateInvoice(t *testing.T) {
	t.Run("FromTimesheet", func(t *testing.T) {
		f := newFixture()
		f.timesheets.byID["TS-202510-148"] = &entity.Timesheet{
			TimesheetID: "TS-202510-148",
			ProjectID:   "PRJ-1",
			UserID:      "u-1",
			TotalHours:  24,
		}
		f.rates.settings["PRJ-1/u-1"] = &entity.RateSettings{
			RateType: entity.RateTypeHourly, RateValue: 50, Currency: "EUR",
		}

		o := f.orchestrator(&llm.ParsedQuery{
			Intent:     "CREATE",
			EntityType: "INVOICE",
			Entities:   llm.Entities{},
		}, nil)

		resp := o.ProcessQuery(context.Background(), "create invoice from TS-202510-148", "")
		require.True(t, resp.Success, resp.Message)
		assert.Contains(t, resp.Result, "from timesheet TS-202510-148")

		require.Len(t, f.invoices.inserted, 1)
		inv := f.invoices.inserted[0]
		assert.Equal(t, "TS-202510-148", inv.TimesheetID)
		assert.Equal(t, "EUR", inv.Currency)
		assert.InDelta(t, 1200, inv.Total(), 1e-9)
	})

	t.Run("MissingRateSettings", func(t *testing.T) {
		f := newFixture()
		f.timesheets.byID["TS-202510-148"] = &entity.Timesheet{
			TimesheetID: "TS-202510-148", ProjectID: "PRJ-1", UserID: "u-1",
		}

		o := f.orchestrator(&llm.ParsedQuery{
			Intent:     "CREATE",
			EntityType: "INVOICE",
		}, nil)

		resp := o.ProcessQuery(context.Background(), "invoice TS-202510-148", "")
		assert.False(t, resp.Success)
		assert.Equal(t, "Processing error", resp.Error)
		assert.Equal(t, "Talent invoice settings not found for project PRJ-1 and talent u-1", resp.Message)
		assert.Empty(t, f.invoices.inserted)
	})

	t.Run("FromExpenseWithoutTalent", func(t *testing.T) {
		f := newFixture()
		expID := "c7ff28de-5b2e-4f8a-9c3d-1a2b3c4d5e6f"
		f.expenses.byID[expID] = &entity.Expense{ExpenseID: expID}

		o := f.orchestrator(&llm.ParsedQuery{
			Intent:     "CREATE",
			EntityType: "INVOICE",
		}, nil)

		resp := o.ProcessQuery(context.Background(), "invoice expense "+expID, "")
		assert.False(t, resp.Success)
		assert.Equal(t, "talent_id required for expense invoice", resp.Message)
		assert.Empty(t, f.invoices.inserted)
	})

	t.Run("NeitherSource", func(t *testing.T) {
		f := newFixture()
		o := f.orchestrator(&llm.ParsedQuery{Intent: "CREATE", EntityType: "INVOICE"}, nil)

		resp := o.ProcessQuery(context.Background(), "create an invoice", "")
		assert.False(t, resp.Success)
		assert.Equal(t, "Either timesheet_id or expense_id required", resp.Message)
	})
}

func TestProcessQueryRead(t *testing.T) {
	t.Run("TimesheetNotFound", func(t *testing.T) {
		f := newFixture()
		o := f.orchestrator(&llm.ParsedQuery{Intent: "READ", EntityType: "TIMESHEET"}, nil)

		resp := o.ProcessQuery(context.Background(), "show TS-202510-999", "")
		assert.False(t, resp.Success)
		assert.Equal(t, "Processing error", resp.Error)
		assert.Equal(t, "Timesheet TS-202510-999 not found", resp.Message)
	})

	t.Run("TimesheetByID", func(t *testing.T) {
		f := newFixture()
		f.timesheets.byID["TS-202510-148"] = &entity.Timesheet{TimesheetID: "TS-202510-148", Status: "approved"}
		o := f.orchestrator(&llm.ParsedQuery{Intent: "READ", EntityType: "TIMESHEET"}, nil)

		resp := o.ProcessQuery(context.Background(), "show TS-202510-148", "")
		require.True(t, resp.Success, resp.Message)
		assert.Contains(t, resp.Result, "Timesheet: TS-202510-148")
	})

	t.Run("TimesheetListWithFilters", func(t *testing.T) {
		f := newFixture()
		f.timesheets.listResult = []*entity.Timesheet{{TimesheetID: "TS-202510-1"}}
		o := f.orchestrator(&llm.ParsedQuery{
			Intent:     "READ",
			EntityType: "TIMESHEET",
			Entities:   llm.Entities{ProjectID: "PRJ-1"},
		}, nil)

		resp := o.ProcessQuery(context.Background(), "show approved timesheets for PRJ-1", "u-1")
		require.True(t, resp.Success, resp.Message)
		assert.Contains(t, resp.Result, "Found 1 timesheet(s):")

		require.Len(t, f.timesheets.listCalls, 1)
		filter := f.timesheets.listCalls[0]
		assert.Equal(t, "PRJ-1", filter.ProjectID)
		assert.Equal(t, "u-1", filter.TalentID)
		assert.Equal(t, "approved", filter.Status)
	})

	t.Run("ProjectRequiresID", func(t *testing.T) {
		f := newFixture()
		o := f.orchestrator(&llm.ParsedQuery{Intent: "READ", EntityType: "PROJECT"}, nil)

		resp := o.ProcessQuery(context.Background(), "show the project", "")
		assert.False(t, resp.Success)
		assert.Equal(t, "project_id required", resp.Message)
	})

	t.Run("TalentRequiresOwner", func(t *testing.T) {
		f := newFixture()
		o := f.orchestrator(&llm.ParsedQuery{Intent: "READ", EntityType: "TALENT"}, nil)

		resp := o.ProcessQuery(context.Background(), "show the talent", "")
		assert.False(t, resp.Success)
		assert.Equal(t, "talent_id or user_id required", resp.Message)
	})
}

func TestProcessQueryUpdateTimesheet(t *testing.T) {
	t.Run("RequiresID", func(t *testing.T) {
		f := newFixture()
		o := f.orchestrator(&llm.ParsedQuery{Intent: "UPDATE", EntityType: "TIMESHEET"}, nil)

		resp := o.ProcessQuery(context.Background(), "update my timesheet", "")
		assert.False(t, resp.Success)
		assert.Equal(t, "timesheet_id required", resp.Message)
	})

	t.Run("StatusWinsOverDates", func(t *testing.T) {
		f := newFixture()
		f.timesheets.byID["TS-202510-148"] = &entity.Timesheet{
			TimesheetID: "TS-202510-148",
			StartDate:   "2025-10-01",
			EndDate:     "2025-10-05",
			Status:      "draft",
		}

		o := f.orchestrator(&llm.ParsedQuery{Intent: "UPDATE", EntityType: "TIMESHEET"}, nil)

		resp := o.ProcessQuery(context.Background(),
			"submitted TS-202510-148 between 2025-11-01 and 2025-11-05", "")
		require.True(t, resp.Success, resp.Message)
		assert.Contains(t, resp.Result, "status to submitted")

		ts := f.timesheets.byID["TS-202510-148"]
		assert.Equal(t, "submitted", ts.Status)
		// the date range was not touched
		assert.Equal(t, "2025-10-01", ts.StartDate)
	})

	t.Run("DateRange", func(t *testing.T) {
		f := newFixture()
		f.timesheets.byID["TS-202510-148"] = &entity.Timesheet{TimesheetID: "TS-202510-148"}

		o := f.orchestrator(&llm.ParsedQuery{Intent: "UPDATE", EntityType: "TIMESHEET"}, nil)

		resp := o.ProcessQuery(context.Background(),
			"change TS-202510-148 covering 2025-11-01 2025-11-03", "")
		require.True(t, resp.Success, resp.Message)
		assert.Contains(t, resp.Result, "date range")

		ts := f.timesheets.byID["TS-202510-148"]
		assert.Equal(t, "2025-11-01", ts.StartDate)
		assert.Equal(t, "2025-11-03", ts.EndDate)
		assert.Equal(t, 24.0, ts.TotalHours)
	})

	t.Run("NothingToChange", func(t *testing.T) {
		f := newFixture()
		o := f.orchestrator(&llm.ParsedQuery{Intent: "UPDATE", EntityType: "TIMESHEET"}, nil)

		resp := o.ProcessQuery(context.Background(), "update TS-202510-148", "")
		assert.False(t, resp.Success)
		assert.Equal(t, "Either status or start_date/end_date required for update", resp.Message)
	})
}

func TestProcessQueryUpdateInvoice(t *testing.T) {
	f := newFixture()
	f.invoices.byID["INV-202511-42"] = &entity.Invoice{InvoiceNumber: "INV-202511-42", Status: "sent"}

	o := f.orchestrator(&llm.ParsedQuery{Intent: "UPDATE", EntityType: "INVOICE"}, nil)

	resp := o.ProcessQuery(context.Background(), "mark INV-202511-42 as paid", "")
	require.True(t, resp.Success, resp.Message)
	assert.Equal(t, "paid", f.invoices.byID["INV-202511-42"].Status)

	resp = o.ProcessQuery(context.Background(), "update INV-202511-42", "")
	assert.False(t, resp.Success)
	assert.Equal(t, "status required for invoice update", resp.Message)
}

func TestProcessQueryGeneric(t *testing.T) {
	t.Run("SniffsInvoiceNumber", func(t *testing.T) {
		f := newFixture()
		f.invoices.byID["INV-202511-42"] = &entity.Invoice{InvoiceNumber: "INV-202511-42"}

		o := f.orchestrator(&llm.ParsedQuery{Intent: "QUERY"}, nil)

		resp := o.ProcessQuery(context.Background(), "what about INV-202511-42", "")
		require.True(t, resp.Success, resp.Message)
		assert.Contains(t, resp.Result, "Invoice: INV-202511-42")
	})

	t.Run("DefaultsToTimesheetList", func(t *testing.T) {
		f := newFixture()
		o := f.orchestrator(&llm.ParsedQuery{Intent: "QUERY"}, nil)

		resp := o.ProcessQuery(context.Background(), "what is going on", "u-1")
		require.True(t, resp.Success, resp.Message)
		assert.Equal(t, "No timesheets found.", resp.Result)
		require.Len(t, f.timesheets.listCalls, 1)
		assert.Equal(t, "u-1", f.timesheets.listCalls[0].TalentID)
	})
}

func TestProcessQueryUnsupported(t *testing.T) {
	t.Run("DeleteIntent", func(t *testing.T) {
		f := newFixture()
		o := f.orchestrator(&llm.ParsedQuery{Intent: "DELETE", EntityType: "TIMESHEET"}, nil)

		resp := o.ProcessQuery(context.Background(), "delete TS-202510-148", "")
		assert.False(t, resp.Success)
		assert.Equal(t, "Unsupported intent: DELETE", resp.Message)
	})

	t.Run("CreateExpense", func(t *testing.T) {
		f := newFixture()
		o := f.orchestrator(&llm.ParsedQuery{Intent: "CREATE", EntityType: "EXPENSE"}, nil)

		resp := o.ProcessQuery(context.Background(), "create an expense", "")
		assert.False(t, resp.Success)
		assert.Equal(t, "Create operation not supported for EXPENSE", resp.Message)
	})
}
