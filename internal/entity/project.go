package entity

// Project is a reference document, read-only from this service.
type Project struct {
	ProjectID   string `bson:"project_id" json:"project_id"`
	ProjectName string `bson:"project_name,omitempty" json:"project_name,omitempty"`
	ClientID    string `bson:"client_id,omitempty" json:"client_id,omitempty"`
	TalentID    string `bson:"talent_id,omitempty" json:"talent_id,omitempty"`
	Status      string `bson:"status,omitempty" json:"status,omitempty"`
}

// Talent is a reference document keyed by user_id, read-only.
type Talent struct {
	UserID           string `bson:"user_id" json:"user_id"`
	Country          string `bson:"country,omitempty" json:"country,omitempty"`
	CompanyLegalName string `bson:"companyLegalName,omitempty" json:"companyLegalName,omitempty"`
}

// RateSettings is the per (project, talent) invoicing configuration stored in
// the talentInvoice collection. Consulted only while generating a timesheet
// invoice; never mutated here.
type RateSettings struct {
	ProjectID string  `bson:"project_id" json:"project_id"`
	TalentID  string  `bson:"talent_id" json:"talent_id"`
	RateType  string  `bson:"talentInvoiceRateType,omitempty" json:"rate_type,omitempty"`
	RateValue float64 `bson:"talentInvoiceRateValue,omitempty" json:"rate_value,omitempty"`
	Currency  string  `bson:"talentInvoicingCurrency,omitempty" json:"currency,omitempty"`
}

// BillingInfo is the per-project billing record from billingInformation.
// Looked up for the payment term when invoicing; the term is currently a
// fixed 30 days regardless of its contents.
type BillingInfo struct {
	ProjectID     string `bson:"project_id" json:"project_id"`
	SupplyAddress string `bson:"supply_address,omitempty" json:"supply_address,omitempty"`
}
