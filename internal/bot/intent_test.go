package bot_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talentoz/dbbot/internal/bot"
	"github.com/talentoz/dbbot/internal/llm"
)

func TestParseIntent(t *testing.T) {
	type testCase struct {
		in   string
		want bot.Intent
	}

	tests := []testCase{
		{in: "CREATE", want: bot.IntentCreate},
		{in: "read", want: bot.IntentRead},
		{in: " Update ", want: bot.IntentUpdate},
		{in: "DELETE", want: bot.IntentDelete},
		{in: "QUERY", want: bot.IntentQuery},
		{in: "", want: bot.IntentQuery},
		{in: "SUMMARIZE", want: bot.IntentQuery},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, bot.ParseIntent(tt.in))
		})
	}
}

func TestParseEntityType(t *testing.T) {
	type testCase struct {
		in     string
		want   bot.EntityType
		wantOK bool
	}

	tests := []testCase{
		{in: "TIMESHEET", want: bot.EntityTimesheet, wantOK: true},
		{in: "invoice", want: bot.EntityInvoice, wantOK: true},
		{in: "Expense", want: bot.EntityExpense, wantOK: true},
		{in: "PROJECT", want: bot.EntityProject, wantOK: true},
		{in: "TALENT", want: bot.EntityTalent, wantOK: true},
		{in: "", want: bot.EntityNone, wantOK: true},
		{in: "RECEIPT", want: bot.EntityNone, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := bot.ParseEntityType(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestClassifierDegradesUnknowns(t *testing.T) {
	c := bot.NewClassifier(nil)

	parsed := &llm.ParsedQuery{Intent: "EXPLODE", EntityType: "WIDGET"}
	assert.Equal(t, bot.IntentQuery, c.Classify(parsed))
	assert.Equal(t, bot.EntityNone, c.EntityTypeOf(parsed))
}

func TestIntentString(t *testing.T) {
	assert.Equal(t, "CREATE", bot.IntentCreate.String())
	assert.Equal(t, "QUERY", bot.IntentQuery.String())
	assert.Equal(t, "", bot.EntityNone.String())
	assert.Equal(t, "TIMESHEET", bot.EntityTimesheet.String())
}
