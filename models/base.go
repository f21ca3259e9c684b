package models

import (
	"context"
	"time"

	"github.com/sodipas/negoce_backend/utils"
)

// dayRange returns the [start, end) window of t's operating day.
func dayRange(t time.Time) (time.Time, time.Time, error) {
	start, err := utils.ConvertToDate(t, utils.BusinessTimezone())
	if err != nil {
		return time.Time{}, time.Time{}, utils.ValidationError("invalid date: %v", err)
	}
	return start, start.AddDate(0, 0, 1), nil
}

// validateClosureLock rejects any ledger mutation that would be attributed to
// an already-closed operating day of (cashier, hangar). Called before every
// invoice, payment and cageot write.
func validateClosureLock(ctx context.Context, cashierId int, hangarId int, transactionDate time.Time) error {
	start, _, err := dayRange(transactionDate)
	if err != nil {
		return err
	}
	count, err := utils.ResourceCountWhere[DailyClosure](ctx,
		"cashier_id = ? AND hangar_id = ? AND closure_date = ? AND status = ?",
		cashierId, hangarId, start, ClosureStatusClosed)
	if err != nil {
		return err
	}
	if count > 0 {
		return utils.ConflictError("day %s has been closed for this cashier", start.Format("2006-01-02"))
	}
	return nil
}

// actor identity every ledger row is attributed to
func actorFromContext(ctx context.Context) (cashierId int, hangarId int, err error) {
	cashierId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || cashierId <= 0 {
		return 0, 0, utils.ValidationError("cashier identity is required")
	}
	hangarId, _ = utils.GetHangarIdFromContext(ctx)
	return cashierId, hangarId, nil
}
