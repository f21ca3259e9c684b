package models

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sodipas/negoce_backend/config"
	"github.com/sodipas/negoce_backend/utils"
	"gorm.io/gorm"
)

type Payment struct {
	ID            int             `gorm:"primary_key" json:"id"`
	ClientId      int             `gorm:"index;not null" json:"client_id" binding:"required"`
	HangarId      int             `gorm:"index;not null" json:"hangar_id"`
	CashierId     int             `gorm:"index;not null" json:"cashier_id"`
	PaymentNumber string          `gorm:"size:255;not null" json:"payment_number"`
	SequenceNo    int64           `gorm:"not null" json:"sequence_no"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount" binding:"required"`
	Method        PaymentMethod   `gorm:"size:20;not null" json:"method"`
	PaymentDate   time.Time       `gorm:"not null" json:"payment_date" binding:"required"`
	Notes         string          `gorm:"type:text" json:"notes"`
	PaidInvoices  []PaidInvoice   `json:"paid_invoices"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type PaidInvoice struct {
	ID         int             `gorm:"primary_key" json:"id"`
	PaymentId  int             `gorm:"index;not null" json:"payment_id"`
	InvoiceId  int             `gorm:"index;not null" json:"invoice_id"`
	PaidAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"paid_amount"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewPayment struct {
	ClientId     int              `json:"client_id" binding:"required"`
	Amount       decimal.Decimal  `json:"amount" binding:"required"`
	Method       PaymentMethod    `json:"method" binding:"required"`
	PaymentDate  time.Time        `json:"payment_date" binding:"required"`
	InvoiceIds   []int            `json:"invoice_ids" binding:"required"`
	Notes        string           `json:"notes"`
	ExpectedDebt *decimal.Decimal `json:"expected_debt"`
}

func (input *NewPayment) validate(ctx context.Context) error {
	if !input.Amount.IsPositive() {
		return utils.ValidationError("payment amount must be positive")
	}
	if len(input.InvoiceIds) == 0 {
		return utils.ValidationError("payment requires at least one selected invoice")
	}
	// exists client
	if err := utils.ValidateResourceId[Client](ctx, input.ClientId); err != nil {
		return utils.NotFoundError("client not found")
	}
	// exists every selected invoice
	if err := utils.ValidateResourcesId[Invoice](ctx, input.InvoiceIds); err != nil {
		return utils.NotFoundError("one or more selected invoices do not exist")
	}
	return nil
}

// RecordPayment allocates the entered amount across the selected invoices,
// ordered by due date then id, each up to its remaining balance. An amount
// exceeding the total remaining of the selection is rejected outright, so the
// client debt can never go below zero.
func RecordPayment(ctx context.Context, input *NewPayment) (*Payment, error) {
	cashierId, hangarId, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	// every payment must land in a closable day
	if hangarId <= 0 {
		return nil, utils.ValidationError("hangar is required")
	}

	if err := input.validate(ctx); err != nil {
		return nil, err
	}
	// day must still be open
	if err := validateClosureLock(ctx, cashierId, hangarId, input.PaymentDate); err != nil {
		return nil, err
	}

	client, err := utils.FetchModel[Client](ctx, input.ClientId)
	if err != nil {
		return nil, utils.NotFoundError("client not found")
	}
	// stale snapshot guard
	if input.ExpectedDebt != nil && input.ExpectedDebt.Cmp(client.Debt) != 0 {
		return nil, utils.ConflictError("client debt changed: expected %s, current %s",
			input.ExpectedDebt.String(), client.Debt.String())
	}

	db := config.GetDB()
	tx := db.Begin()

	paidInvoices, err := allocatePayment(tx, ctx, input)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	payment := Payment{
		ClientId:     input.ClientId,
		HangarId:     hangarId,
		CashierId:    cashierId,
		Amount:       input.Amount,
		Method:       input.Method,
		PaymentDate:  input.PaymentDate,
		Notes:        input.Notes,
		PaidInvoices: paidInvoices,
	}

	seqNo, err := utils.GetSequence[Payment](ctx)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	payment.SequenceNo = seqNo
	payment.PaymentNumber = "REG-" + fmt.Sprint(seqNo)

	err = tx.WithContext(ctx).Create(&payment).Error
	if err != nil {
		tx.Rollback()
		return nil, utils.CollaboratorError(err, "could not create payment")
	}

	// debt decreases by exactly the entered amount
	err = tx.WithContext(ctx).Model(&Client{}).Where("id = ?", input.ClientId).
		Update("debt", gorm.Expr("debt - ?", input.Amount)).Error
	if err != nil {
		tx.Rollback()
		return nil, utils.CollaboratorError(err, "could not update client debt")
	}

	if err = tx.Commit().Error; err != nil {
		return nil, utils.CollaboratorError(err, "could not commit payment")
	}

	return &payment, nil
}

// allocatePayment walks the selected invoices oldest due date first and pays
// each up to its remaining balance. The caller owns the transaction.
func allocatePayment(tx *gorm.DB, ctx context.Context, input *NewPayment) ([]PaidInvoice, error) {

	invoiceIds := utils.UniqueSlice(input.InvoiceIds)

	var invoices []*Invoice
	if err := tx.WithContext(ctx).Where("id IN ?", invoiceIds).Find(&invoices).Error; err != nil {
		return nil, utils.CollaboratorError(err, "could not load selected invoices")
	}
	if len(invoices) != len(invoiceIds) {
		return nil, utils.NotFoundError("one or more selected invoices do not exist")
	}

	var totalRemaining decimal.Decimal
	for _, inv := range invoices {
		if inv.ClientId != input.ClientId {
			return nil, utils.NotFoundError("invoice %s does not belong to this client", inv.InvoiceNumber)
		}
		if inv.Remaining().IsZero() {
			return nil, utils.ConflictError("invoice %s is already fully paid", inv.InvoiceNumber)
		}
		totalRemaining = totalRemaining.Add(inv.Remaining())
	}
	// overpayment rejected outright
	if input.Amount.GreaterThan(totalRemaining) {
		return nil, utils.ValidationError("the amount entered is more than the balance of the selected invoices")
	}

	// oldest due date first, id breaks ties
	sort.SliceStable(invoices, func(i, j int) bool {
		di, dj := invoices[i].DueDate, invoices[j].DueDate
		if di != nil && dj != nil && !di.Equal(*dj) {
			return di.Before(*dj)
		}
		if di != nil && dj == nil {
			return true
		}
		if di == nil && dj != nil {
			return false
		}
		return invoices[i].ID < invoices[j].ID
	})

	var paidInvoices []PaidInvoice
	left := input.Amount
	for _, inv := range invoices {
		if left.IsZero() {
			break
		}
		slice := inv.Remaining()
		if left.LessThan(slice) {
			slice = left
		}

		err := tx.WithContext(ctx).Model(&Invoice{}).Where("id = ?", inv.ID).
			Update("paid_amount", gorm.Expr("paid_amount + ?", slice)).Error
		if err != nil {
			return nil, utils.CollaboratorError(err, "could not update invoice %s", inv.InvoiceNumber)
		}

		paidInvoices = append(paidInvoices, PaidInvoice{
			InvoiceId:  inv.ID,
			PaidAmount: slice,
		})
		left = left.Sub(slice)
	}

	return paidInvoices, nil
}

func GetPayment(ctx context.Context, id int) (*Payment, error) {
	payment, err := utils.FetchModel[Payment](ctx, id, "PaidInvoices")
	if err != nil {
		return nil, utils.NotFoundError("payment not found")
	}
	return payment, nil
}

func ListPayments(ctx context.Context, clientId *int, paymentNumber *string) ([]*Payment, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Preload("PaidInvoices")
	if clientId != nil && *clientId > 0 {
		dbCtx = dbCtx.Where("client_id = ?", *clientId)
	}
	if paymentNumber != nil && *paymentNumber != "" {
		dbCtx = dbCtx.Where("payment_number LIKE ?", "%"+*paymentNumber+"%")
	}
	var results []*Payment
	if err := dbCtx.Order("payment_date, id").Find(&results).Error; err != nil {
		return nil, utils.CollaboratorError(err, "could not list payments")
	}
	return results, nil
}
