package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/gnosis/snapp-indexer/model"
)

// HandleDeposit saves a decoded "Deposit" event (spec.md §4.3.1).
func (h *Handlers) HandleDeposit(ctx context.Context, fields model.Fields) error {
	d, err := model.ParseDeposit(fields)
	if err != nil {
		return err
	}
	if err := h.store.WriteDeposit(ctx, d); err != nil {
		return err
	}
	h.logger.Debug("wrote deposit",
		zap.Uint64("account_id", d.AccountID), zap.Uint64("token_id", d.TokenID),
		zap.String("amount", d.Amount.String()), zap.Uint64("slot", d.Slot))
	return nil
}
