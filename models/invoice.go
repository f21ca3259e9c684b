package models

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sodipas/negoce_backend/config"
	"github.com/sodipas/negoce_backend/utils"
	"gorm.io/gorm"
)

type Invoice struct {
	ID            int             `gorm:"primary_key" json:"id"`
	ClientId      int             `gorm:"index;not null" json:"client_id" binding:"required"`
	HangarId      int             `gorm:"index;not null" json:"hangar_id"`
	CashierId     int             `gorm:"index;not null" json:"cashier_id"`
	InvoiceNumber string          `gorm:"size:255;not null" json:"invoice_number"`
	SequenceNo    int64           `gorm:"not null" json:"sequence_no"`
	InvoiceDate   time.Time       `gorm:"not null" json:"invoice_date"`
	DueDate       *time.Time      `json:"due_date"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"paid_amount"`
	Notes         string          `gorm:"type:text" json:"notes"`
	Items         []InvoiceItem   `json:"items"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type InvoiceItem struct {
	ID          int             `gorm:"primary_key" json:"id"`
	InvoiceId   int             `gorm:"index;not null" json:"invoice_id"`
	ArticleName string          `gorm:"size:100;not null" json:"article_name"`
	Quantity    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	Cageots     int             `gorm:"default:0" json:"cageots"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewInvoice struct {
	ClientId       int              `json:"client_id" binding:"required"`
	HangarId       int              `json:"hangar_id"`
	Type           InvoiceType      `json:"type" binding:"required"`
	InvoiceDate    time.Time        `json:"invoice_date" binding:"required"`
	DueDate        *time.Time       `json:"due_date"`
	InitialPayment *decimal.Decimal `json:"initial_payment"`
	Notes          string           `json:"notes"`
	Items          []NewInvoiceItem `json:"items" binding:"required"`
}

type NewInvoiceItem struct {
	ArticleName string          `json:"article_name" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	Cageots     int             `json:"cageots"`
}

// Remaining is the unpaid balance. Never negative: paid amount is capped at
// the invoice amount by every write path.
func (inv Invoice) Remaining() decimal.Decimal {
	return inv.Amount.Sub(inv.PaidAmount)
}

// Status is derived, never stored.
func (inv Invoice) Status() InvoiceStatus {
	if inv.PaidAmount.IsZero() {
		return InvoiceStatusUnpaid
	}
	if inv.PaidAmount.LessThan(inv.Amount) {
		return InvoiceStatusPartialPaid
	}
	return InvoiceStatusPaid
}

// total computes the fixed invoice amount from its items.
func (input *NewInvoice) total() decimal.Decimal {
	var total decimal.Decimal
	for _, item := range input.Items {
		total = total.Add(item.Quantity.Mul(item.UnitPrice))
	}
	return total
}

func (input *NewInvoice) validate(ctx context.Context) error {
	// exists client
	if err := utils.ValidateResourceId[Client](ctx, input.ClientId); err != nil {
		return utils.NotFoundError("client not found")
	}
	// exists hangar
	if input.HangarId <= 0 {
		return utils.ValidationError("hangar is required")
	}
	if err := utils.ValidateResourceId[Hangar](ctx, input.HangarId); err != nil {
		return utils.NotFoundError("hangar not found")
	}
	// items
	if len(input.Items) == 0 {
		return utils.ValidationError("invoice requires at least one item")
	}
	for _, item := range input.Items {
		if item.ArticleName == "" {
			return utils.ValidationError("item article name is required")
		}
		if !item.Quantity.IsPositive() {
			return utils.ValidationError("item quantity must be positive")
		}
		if !item.UnitPrice.IsPositive() {
			return utils.ValidationError("item unit price must be positive")
		}
		if item.Cageots < 0 {
			return utils.ValidationError("item cageot count cannot be negative")
		}
	}
	total := input.total()
	// payment consistency per invoice type
	switch input.Type {
	case InvoiceTypeUnpaid:
		if input.InitialPayment != nil && !input.InitialPayment.IsZero() {
			return utils.ValidationError("unpaid invoice cannot carry an initial payment")
		}
	case InvoiceTypePartial:
		if input.InitialPayment == nil || !input.InitialPayment.IsPositive() {
			return utils.ValidationError("partial invoice requires a positive initial payment")
		}
		if !input.InitialPayment.LessThan(total) {
			return utils.ValidationError("initial payment must be less than the invoice amount")
		}
	case InvoiceTypePaid:
		if input.InitialPayment != nil && input.InitialPayment.Cmp(total) != 0 {
			return utils.ValidationError("paid invoice payment must equal the invoice amount")
		}
	default:
		return utils.ValidationError("invalid invoice type")
	}
	// due date required unless settled at creation
	if input.Type != InvoiceTypePaid && input.DueDate == nil {
		return utils.ValidationError("due date is required for an invoice carrying debt")
	}
	return nil
}

func CreateInvoice(ctx context.Context, input *NewInvoice) (*Invoice, error) {
	cashierId, ctxHangarId, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if input.HangarId <= 0 {
		input.HangarId = ctxHangarId
	}

	if err := input.validate(ctx); err != nil {
		return nil, err
	}
	// day must still be open
	if err := validateClosureLock(ctx, cashierId, input.HangarId, input.InvoiceDate); err != nil {
		return nil, err
	}

	total := input.total()
	paidAmount := decimal.Zero
	switch input.Type {
	case InvoiceTypePartial:
		paidAmount = *input.InitialPayment
	case InvoiceTypePaid:
		paidAmount = total
	}

	items := make([]InvoiceItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, InvoiceItem{
			ArticleName: item.ArticleName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Quantity.Mul(item.UnitPrice),
			Cageots:     item.Cageots,
		})
	}

	invoice := Invoice{
		ClientId:    input.ClientId,
		HangarId:    input.HangarId,
		CashierId:   cashierId,
		InvoiceDate: input.InvoiceDate,
		DueDate:     input.DueDate,
		Amount:      total,
		PaidAmount:  paidAmount,
		Notes:       input.Notes,
		Items:       items,
	}

	seqNo, err := utils.GetSequence[Invoice](ctx)
	if err != nil {
		return nil, err
	}
	invoice.SequenceNo = seqNo
	invoice.InvoiceNumber = "FAC-" + fmt.Sprint(seqNo)

	db := config.GetDB()
	tx := db.Begin()

	err = tx.WithContext(ctx).Create(&invoice).Error
	if err != nil {
		tx.Rollback()
		return nil, utils.CollaboratorError(err, "could not create invoice")
	}

	// client takes on the unpaid part
	debtDelta := total.Sub(paidAmount)
	if !debtDelta.IsZero() {
		err = tx.WithContext(ctx).Model(&Client{}).Where("id = ?", input.ClientId).
			Update("debt", gorm.Expr("debt + ?", debtDelta)).Error
		if err != nil {
			tx.Rollback()
			return nil, utils.CollaboratorError(err, "could not update client debt")
		}
	}

	if err = tx.Commit().Error; err != nil {
		return nil, utils.CollaboratorError(err, "could not commit invoice")
	}

	return &invoice, nil
}

func GetInvoice(ctx context.Context, id int) (*Invoice, error) {
	invoice, err := utils.FetchModel[Invoice](ctx, id, "Items")
	if err != nil {
		return nil, utils.NotFoundError("invoice not found")
	}
	return invoice, nil
}

func ListInvoices(ctx context.Context, clientId *int, invoiceNumber *string) ([]*Invoice, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Preload("Items")
	if clientId != nil && *clientId > 0 {
		dbCtx = dbCtx.Where("client_id = ?", *clientId)
	}
	if invoiceNumber != nil && *invoiceNumber != "" {
		dbCtx = dbCtx.Where("invoice_number LIKE ?", "%"+*invoiceNumber+"%")
	}
	var results []*Invoice
	if err := dbCtx.Order("invoice_date, id").Find(&results).Error; err != nil {
		return nil, utils.CollaboratorError(err, "could not list invoices")
	}
	return results, nil
}
