package entity

// ExpenseItem is one line on an expense report.
type ExpenseItem struct {
	Description string  `bson:"description,omitempty" json:"description,omitempty"`
	Quantity    float64 `bson:"quantity,omitempty" json:"quantity,omitempty"`
	Amount      float64 `bson:"amount,omitempty" json:"amount,omitempty"`
}

// Expense represents an expense document. Expenses are produced upstream;
// this service only reads them and invoices against them.
type Expense struct {
	ExpenseID   string        `bson:"expense_id" json:"expense_id"`
	ProjectID   string        `bson:"project_id,omitempty" json:"project_id,omitempty"`
	UserID      string        `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Currency    string        `bson:"currency,omitempty" json:"currency,omitempty"`
	Status      string        `bson:"status,omitempty" json:"status,omitempty"`
	Items       []ExpenseItem `bson:"items,omitempty" json:"items,omitempty"`
	TotalAmount float64       `bson:"total_amount,omitempty" json:"total_amount,omitempty"`
}
