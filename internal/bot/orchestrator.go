package bot

import (
	"context"
	"log/slog"

	"github.com/talentoz/dbbot/internal/billing"
	"github.com/talentoz/dbbot/internal/common"
	"github.com/talentoz/dbbot/internal/llm"
	"github.com/talentoz/dbbot/internal/repository"
)

// Metadata echoes the classification a response was produced under.
type Metadata struct {
	Intent     string       `json:"intent"`
	EntityType string       `json:"entity_type,omitempty"`
	Entities   llm.Entities `json:"entities"`
	Confidence float64      `json:"confidence"`
}

// Response is the full result of processing one query: the entire contract
// the request layer depends on. Error holds the failure category, Message the
// human-readable detail.
type Response struct {
	Success  bool      `json:"success"`
	Result   string    `json:"result,omitempty"`
	Error    string    `json:"error,omitempty"`
	Message  string    `json:"message,omitempty"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

// Orchestrator composes the parser, classifier, extractor and repositories.
// It holds only injected handles and no request state, so one instance serves
// concurrent requests.
type Orchestrator struct {
	parser     llm.QueryParser
	classifier *Classifier
	timesheets repository.TimesheetRepository
	invoices   repository.InvoiceRepository
	expenses   repository.ExpenseRepository
	projects   repository.ProjectRepository
	billing    *billing.Service
	log        *slog.Logger
}

func NewOrchestrator(
	parser llm.QueryParser,
	timesheets repository.TimesheetRepository,
	invoices repository.InvoiceRepository,
	expenses repository.ExpenseRepository,
	projects repository.ProjectRepository,
	billingSvc *billing.Service,
	logger *slog.Logger,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		parser:     parser,
		classifier: NewClassifier(logger),
		timesheets: timesheets,
		invoices:   invoices,
		expenses:   expenses,
		projects:   projects,
		billing:    billingSvc,
		log:        logger,
	}
}

// ProcessQuery runs the full pipeline for one natural-language query:
// parse, extract and merge entities, classify, dispatch, format. Every
// failure is terminal for the request and reported as a structured failure;
// nothing is retried.
func (o *Orchestrator) ProcessQuery(ctx context.Context, query, userID string) *Response {
	if userID == "" {
		userID = common.UserIDFromContext(ctx)
	}
	o.log.Info("bot.process_query",
		"request_id", common.RequestIDFromContext(ctx), "query", query, "user_id", userID)

	parsed, err := o.parser.Parse(ctx, query)
	if err != nil {
		o.log.Error("bot.process_query.parse_error", "error", err)
		return &Response{Success: false, Error: "Query parsing failed", Message: err.Error()}
	}
	if parsed.Err != "" {
		return &Response{Success: false, Error: "Query parsing failed", Message: parsed.Err}
	}

	entities := ExtractAll(parsed, query)
	if entities.Owner() == "" && userID != "" {
		entities.UserID = userID
	}

	intent := o.classifier.Classify(parsed)
	entityType := o.classifier.EntityTypeOf(parsed)

	result, err := o.execute(ctx, intent, entityType, entities)
	if err != nil {
		o.log.Error("bot.process_query.error",
			"intent", intent.String(), "entity_type", entityType.String(), "error", err)
		return &Response{Success: false, Error: "Processing error", Message: common.UserMessage(err)}
	}

	return &Response{
		Success: true,
		Result:  result,
		Metadata: &Metadata{
			Intent:     intent.String(),
			EntityType: entityType.String(),
			Entities:   entities,
			Confidence: parsed.Confidence,
		},
	}
}

// execute selects exactly one handler operation for (intent, entity type).
// Unsupported combinations are fatal to the request.
func (o *Orchestrator) execute(ctx context.Context, intent Intent, entityType EntityType, e llm.Entities) (string, error) {
	switch intent {
	case IntentCreate:
		switch entityType {
		case EntityTimesheet:
			return o.createTimesheet(ctx, e)
		case EntityInvoice:
			return o.createInvoice(ctx, e)
		default:
			return "", common.NewValidationErrorf("Create operation not supported for %s", entityTypeLabel(entityType))
		}

	case IntentRead:
		switch entityType {
		case EntityTimesheet:
			return o.readTimesheet(ctx, e)
		case EntityInvoice:
			return o.readInvoice(ctx, e)
		case EntityExpense:
			return o.readExpense(ctx, e)
		case EntityProject:
			return o.readProject(ctx, e)
		case EntityTalent:
			return o.readTalent(ctx, e)
		default:
			return o.genericQuery(ctx, e)
		}

	case IntentUpdate:
		switch entityType {
		case EntityTimesheet:
			return o.updateTimesheet(ctx, e)
		case EntityInvoice:
			return o.updateInvoice(ctx, e)
		default:
			return "", common.NewValidationErrorf("Update operation not supported for %s", entityTypeLabel(entityType))
		}

	case IntentQuery:
		return o.genericQuery(ctx, e)

	default:
		return "", common.NewValidationErrorf("Unsupported intent: %s", intent.String())
	}
}

func (o *Orchestrator) createTimesheet(ctx context.Context, e llm.Entities) (string, error) {
	projectID := e.ProjectID
	talentID := e.Owner()
	if projectID == "" || talentID == "" || e.StartDate == "" || e.EndDate == "" {
		return "", common.NewValidationError("Missing required fields: project_id, talent_id, start_date, end_date")
	}

	hoursPerDay := 8.0
	if e.Hours != nil {
		hoursPerDay = *e.Hours
	}

	ts, err := o.timesheets.Create(ctx, repository.CreateTimesheetParams{
		ProjectID:   projectID,
		TalentID:    talentID,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		HoursPerDay: hoursPerDay,
	})
	if err != nil {
		return "", err
	}
	return FormatSuccess("Created timesheet "+ts.TimesheetID, FormatTimesheet(ts)), nil
}

func (o *Orchestrator) createInvoice(ctx context.Context, e llm.Entities) (string, error) {
	switch {
	case e.TimesheetID != "":
		inv, err := o.billing.CreateFromTimesheet(ctx, e.TimesheetID)
		if err != nil {
			return "", err
		}
		msg := "Created invoice " + inv.InvoiceNumber + " from timesheet " + e.TimesheetID
		return FormatSuccess(msg, FormatInvoice(inv)), nil

	case e.ExpenseID != "":
		talentID := e.Owner()
		if talentID == "" {
			return "", common.NewValidationError("talent_id required for expense invoice")
		}
		inv, err := o.billing.CreateFromExpense(ctx, e.ExpenseID, talentID)
		if err != nil {
			return "", err
		}
		msg := "Created invoice " + inv.InvoiceNumber + " from expense " + e.ExpenseID
		return FormatSuccess(msg, FormatInvoice(inv)), nil

	default:
		return "", common.NewValidationError("Either timesheet_id or expense_id required")
	}
}

func (o *Orchestrator) readTimesheet(ctx context.Context, e llm.Entities) (string, error) {
	if e.TimesheetID != "" {
		ts, err := o.timesheets.Get(ctx, e.TimesheetID)
		if err != nil {
			return "", err
		}
		if ts == nil {
			return "", common.NewNotFoundErrorf("Timesheet %s not found", e.TimesheetID)
		}
		return FormatTimesheet(ts), nil
	}

	list, err := o.timesheets.List(ctx, repository.TimesheetFilter{
		ProjectID: e.ProjectID,
		TalentID:  e.Owner(),
		Status:    e.Status,
		StartDate: e.StartDate,
		EndDate:   e.EndDate,
	})
	if err != nil {
		return "", err
	}
	return FormatTimesheetList(list), nil
}

func (o *Orchestrator) readInvoice(ctx context.Context, e llm.Entities) (string, error) {
	if e.InvoiceNumber != "" {
		inv, err := o.invoices.Get(ctx, e.InvoiceNumber)
		if err != nil {
			return "", err
		}
		if inv == nil {
			return "", common.NewNotFoundErrorf("Invoice %s not found", e.InvoiceNumber)
		}
		return FormatInvoice(inv), nil
	}

	list, err := o.invoices.List(ctx, repository.InvoiceFilter{
		Status:    e.Status,
		ProjectID: e.ProjectID,
		TalentID:  e.Owner(),
	})
	if err != nil {
		return "", err
	}
	return FormatInvoiceList(list), nil
}

func (o *Orchestrator) readExpense(ctx context.Context, e llm.Entities) (string, error) {
	if e.ExpenseID != "" {
		exp, err := o.expenses.Get(ctx, e.ExpenseID)
		if err != nil {
			return "", err
		}
		if exp == nil {
			return "", common.NewNotFoundErrorf("Expense %s not found", e.ExpenseID)
		}
		return FormatExpense(exp), nil
	}

	list, err := o.expenses.List(ctx, repository.ExpenseFilter{
		ProjectID: e.ProjectID,
		TalentID:  e.Owner(),
		Status:    e.Status,
	})
	if err != nil {
		return "", err
	}
	return FormatExpenseList(list), nil
}

func (o *Orchestrator) readProject(ctx context.Context, e llm.Entities) (string, error) {
	if e.ProjectID == "" {
		return "", common.NewValidationError("project_id required")
	}
	p, err := o.projects.GetProject(ctx, e.ProjectID)
	if err != nil {
		return "", err
	}
	if p == nil {
		return "", common.NewNotFoundErrorf("Project %s not found", e.ProjectID)
	}
	return FormatProject(p), nil
}

func (o *Orchestrator) readTalent(ctx context.Context, e llm.Entities) (string, error) {
	talentID := e.Owner()
	if talentID == "" {
		return "", common.NewValidationError("talent_id or user_id required")
	}
	t, err := o.projects.GetTalent(ctx, talentID)
	if err != nil {
		return "", err
	}
	if t == nil {
		return "", common.NewNotFoundErrorf("Talent %s not found", talentID)
	}
	return FormatTalent(t), nil
}

func (o *Orchestrator) updateTimesheet(ctx context.Context, e llm.Entities) (string, error) {
	if e.TimesheetID == "" {
		return "", common.NewValidationError("timesheet_id required")
	}

	// Status transition wins when both a status and a date range are present.
	if e.Status != "" {
		ts, err := o.timesheets.UpdateStatus(ctx, e.TimesheetID, e.Status)
		if err != nil {
			return "", err
		}
		msg := "Updated timesheet " + e.TimesheetID + " status to " + e.Status
		return FormatSuccess(msg, FormatTimesheet(ts)), nil
	}

	if e.StartDate != "" && e.EndDate != "" {
		hoursPerDay := 8.0
		if e.Hours != nil {
			hoursPerDay = *e.Hours
		}
		ts, err := o.timesheets.UpdateDates(ctx, e.TimesheetID, e.StartDate, e.EndDate, hoursPerDay)
		if err != nil {
			return "", err
		}
		msg := "Updated timesheet " + e.TimesheetID + " date range"
		return FormatSuccess(msg, FormatTimesheet(ts)), nil
	}

	return "", common.NewValidationError("Either status or start_date/end_date required for update")
}

func (o *Orchestrator) updateInvoice(ctx context.Context, e llm.Entities) (string, error) {
	if e.InvoiceNumber == "" {
		return "", common.NewValidationError("invoice_number required")
	}
	if e.Status == "" {
		return "", common.NewValidationError("status required for invoice update")
	}

	inv, err := o.invoices.UpdateStatus(ctx, e.InvoiceNumber, e.Status)
	if err != nil {
		return "", err
	}
	msg := "Updated invoice " + e.InvoiceNumber + " status to " + e.Status
	return FormatSuccess(msg, FormatInvoice(inv)), nil
}

// genericQuery handles QUERY intent and READ without an entity type: the
// first recognizable entity present selects the matching read path, and with
// none present the default is a filtered timesheet listing.
func (o *Orchestrator) genericQuery(ctx context.Context, e llm.Entities) (string, error) {
	switch {
	case e.TimesheetID != "":
		return o.readTimesheet(ctx, e)
	case e.InvoiceNumber != "":
		return o.readInvoice(ctx, e)
	case e.ExpenseID != "":
		return o.readExpense(ctx, e)
	case e.ProjectID != "":
		return o.readProject(ctx, e)
	}

	list, err := o.timesheets.List(ctx, repository.TimesheetFilter{
		ProjectID: e.ProjectID,
		TalentID:  e.Owner(),
		Status:    e.Status,
	})
	if err != nil {
		return "", err
	}
	return FormatTimesheetList(list), nil
}

func entityTypeLabel(et EntityType) string {
	if et == EntityNone {
		return "none"
	}
	return et.String()
}
