package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/gnosis/snapp-indexer/model"
)

// HandleWithdrawRequest saves a decoded "WithdrawRequest" event (spec.md
// §4.3.2). Valid starts false; only the state-transition handler flips it,
// once, when the withdraw is actually honored.
func (h *Handlers) HandleWithdrawRequest(ctx context.Context, fields model.Fields) error {
	w, err := model.ParseWithdraw(fields)
	if err != nil {
		return err
	}
	id, err := h.store.WriteWithdraw(ctx, w)
	if err != nil {
		return err
	}
	h.logger.Debug("wrote withdraw request",
		zap.String("id", id), zap.Uint64("account_id", w.AccountID), zap.Uint64("token_id", w.TokenID),
		zap.String("amount", w.Amount.String()), zap.Uint64("slot", w.Slot))
	return nil
}
