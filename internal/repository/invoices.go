package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/talentoz/dbbot/internal/common"
	"github.com/talentoz/dbbot/internal/entity"
)

// InvoiceFilter narrows an invoice listing. Zero-valued fields are ignored.
type InvoiceFilter struct {
	Status    string
	ProjectID string
	TalentID  string
	FromDate  string
	ToDate    string
}

type InvoiceRepository interface {
	Get(ctx context.Context, invoiceNumber string) (*entity.Invoice, error)
	List(ctx context.Context, filter InvoiceFilter) ([]*entity.Invoice, error)
	Insert(ctx context.Context, inv *entity.Invoice) error
	UpdateStatus(ctx context.Context, invoiceNumber, status string) (*entity.Invoice, error)
}

type invoiceRepository struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

func NewInvoiceRepository(db *mongo.Database, logger *slog.Logger) InvoiceRepository {
	return &invoiceRepository{
		coll:   db.Collection(CollInvoices),
		logger: logger,
	}
}

func invoiceQuery(f InvoiceFilter) bson.M {
	q := bson.M{}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.ProjectID != "" {
		q["project_id"] = f.ProjectID
	}
	if f.TalentID != "" {
		q["talent_id"] = f.TalentID
	}
	rng := bson.M{}
	if f.FromDate != "" {
		rng["$gte"] = f.FromDate
	}
	if f.ToDate != "" {
		rng["$lte"] = f.ToDate
	}
	if len(rng) > 0 {
		q["issue_date"] = rng
	}
	return q
}

func (r *invoiceRepository) Get(ctx context.Context, invoiceNumber string) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := r.coll.FindOne(ctx, bson.M{"invoice_number": invoiceNumber}).Decode(&inv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("failed to get invoice", "invoice_number", invoiceNumber, "error", err)
		return nil, common.WrapError(err, "database error")
	}
	return &inv, nil
}

func (r *invoiceRepository) List(ctx context.Context, filter InvoiceFilter) ([]*entity.Invoice, error) {
	cursor, err := r.coll.Find(ctx, invoiceQuery(filter))
	if err != nil {
		r.logger.Error("failed to list invoices", "error", err)
		return nil, common.WrapError(err, "database error")
	}
	var results []*entity.Invoice
	if err := cursor.All(ctx, &results); err != nil {
		r.logger.Error("failed to decode invoices", "error", err)
		return nil, common.WrapError(err, "database error")
	}
	return results, nil
}

func (r *invoiceRepository) Insert(ctx context.Context, inv *entity.Invoice) error {
	if _, err := r.coll.InsertOne(ctx, inv); err != nil {
		r.logger.Error("failed to insert invoice", "invoice_number", inv.InvoiceNumber, "error", err)
		return common.WrapError(err, "database error")
	}
	r.logger.Info("invoice created", "invoice_number", inv.InvoiceNumber, "total", inv.Total())
	return nil
}

func (r *invoiceRepository) UpdateStatus(ctx context.Context, invoiceNumber, status string) (*entity.Invoice, error) {
	if !entity.ValidInvoiceStatus(status) {
		return nil, common.NewValidationErrorf("Invalid status: %s", status)
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"invoice_number": invoiceNumber},
		bson.M{"$set": bson.M{
			"status":     status,
			"updated_at": time.Now().UTC().Format(time.RFC3339),
		}},
	)
	if err != nil {
		r.logger.Error("failed to update invoice status", "invoice_number", invoiceNumber, "error", err)
		return nil, common.WrapError(err, "database error")
	}
	if res.ModifiedCount == 0 {
		return nil, common.NewNotFoundErrorf("Invoice %s not found", invoiceNumber)
	}
	return r.Get(ctx, invoiceNumber)
}
