package bot

import (
	"log/slog"
	"strings"

	"github.com/talentoz/dbbot/internal/llm"
)

// Intent is the closed set of query intents. The parse is total: anything
// outside the set maps to IntentQuery, mirroring the untrusted-input contract
// with the language model.
type Intent int

const (
	IntentQuery Intent = iota
	IntentCreate
	IntentRead
	IntentUpdate
	IntentDelete
)

func (i Intent) String() string {
	switch i {
	case IntentCreate:
		return "CREATE"
	case IntentRead:
		return "READ"
	case IntentUpdate:
		return "UPDATE"
	case IntentDelete:
		return "DELETE"
	default:
		return "QUERY"
	}
}

// ParseIntent maps a free-text intent label into the closed set. Unrecognized
// input yields IntentQuery; it never fails.
func ParseIntent(s string) Intent {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CREATE":
		return IntentCreate
	case "READ":
		return IntentRead
	case "UPDATE":
		return IntentUpdate
	case "DELETE":
		return IntentDelete
	default:
		return IntentQuery
	}
}

// EntityType is the closed set of entity types, with EntityNone as the
// explicit "no entity type" variant used for generic dispatch.
type EntityType int

const (
	EntityNone EntityType = iota
	EntityTimesheet
	EntityInvoice
	EntityExpense
	EntityProject
	EntityTalent
)

func (e EntityType) String() string {
	switch e {
	case EntityTimesheet:
		return "TIMESHEET"
	case EntityInvoice:
		return "INVOICE"
	case EntityExpense:
		return "EXPENSE"
	case EntityProject:
		return "PROJECT"
	case EntityTalent:
		return "TALENT"
	default:
		return ""
	}
}

// ParseEntityType maps a free-text entity-type label into the closed set.
// Empty input and unrecognized input both yield EntityNone; the second return
// value distinguishes them so callers can log the degradation.
func ParseEntityType(s string) (EntityType, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return EntityNone, true
	case "TIMESHEET":
		return EntityTimesheet, true
	case "INVOICE":
		return EntityInvoice, true
	case "EXPENSE":
		return EntityExpense, true
	case "PROJECT":
		return EntityProject, true
	case "TALENT":
		return EntityTalent, true
	default:
		return EntityNone, false
	}
}

// Classifier validates and coerces the model's intent and entity-type labels.
type Classifier struct {
	log *slog.Logger
}

func NewClassifier(logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{log: logger}
}

// Classify reads the envelope's intent, defaulting to QUERY on anything
// outside the closed set.
func (c *Classifier) Classify(parsed *llm.ParsedQuery) Intent {
	intent := ParseIntent(parsed.Intent)
	if parsed.Intent != "" && intent == IntentQuery && strings.ToUpper(strings.TrimSpace(parsed.Intent)) != "QUERY" {
		c.log.Warn("bot.classify.unknown_intent", "intent", parsed.Intent)
	}
	return intent
}

// EntityTypeOf reads the envelope's entity type. Unrecognized values degrade
// to EntityNone with a warning rather than failing the request.
func (c *Classifier) EntityTypeOf(parsed *llm.ParsedQuery) EntityType {
	et, ok := ParseEntityType(parsed.EntityType)
	if !ok {
		c.log.Warn("bot.classify.unknown_entity_type", "entity_type", parsed.EntityType)
	}
	return et
}
