package llm

import "context"

// Entities is the normalized entity mapping inside a parsed-query envelope.
// String fields hold IDs, YYYY-MM-DD dates, status and currency tokens;
// Hours/Amount are nil when absent. The model's values are a first guess; the
// extractor overlays regex matches from the raw query text on top.
type Entities struct {
	TimesheetID   string   `json:"timesheet_id,omitempty"`
	InvoiceNumber string   `json:"invoice_number,omitempty"`
	ExpenseID     string   `json:"expense_id,omitempty"`
	ProjectID     string   `json:"project_id,omitempty"`
	TalentID      string   `json:"talent_id,omitempty"`
	UserID        string   `json:"user_id,omitempty"`
	StartDate     string   `json:"start_date,omitempty"`
	EndDate       string   `json:"end_date,omitempty"`
	Status        string   `json:"status,omitempty"`
	Hours         *float64 `json:"hours,omitempty"`
	Amount        *float64 `json:"amount,omitempty"`
	Currency      string   `json:"currency,omitempty"`
}

// Owner returns talent_id, falling back to user_id.
func (e Entities) Owner() string {
	if e.TalentID != "" {
		return e.TalentID
	}
	return e.UserID
}

// ParsedQuery is the entity envelope produced from one model call. Err is set
// when the model's text could not be decoded; the envelope then carries the
// QUERY/none/empty defaults with zero confidence.
type ParsedQuery struct {
	Intent     string   `json:"intent"`
	EntityType string   `json:"entity_type,omitempty"`
	Entities   Entities `json:"entities"`
	Operation  string   `json:"operation,omitempty"`
	Confidence float64  `json:"confidence"`
	Err        string   `json:"error,omitempty"`
}

// DefaultEnvelope returns the recovery envelope for an unparseable response.
func DefaultEnvelope(errMsg string) *ParsedQuery {
	return &ParsedQuery{
		Intent:     "QUERY",
		Confidence: 0.0,
		Err:        errMsg,
	}
}

// QueryParser is the interface the orchestrator depends on. Implementations
// call the external language model; Parse returns an error only for transport
// failures — malformed model output is recovered into the envelope's Err.
type QueryParser interface {
	Parse(ctx context.Context, query string) (*ParsedQuery, error)
}
