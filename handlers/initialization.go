package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/gnosis/snapp-indexer/model"
)

// HandleSnappInitialization saves a decoded "SnappInitialization" event:
// the snapp-wide token/account counts plus the all-zero genesis
// AccountRecord at state_index 0 (spec.md §4.3.7). Both writes are
// exactly-once; if the constants write fails because this has already run,
// the genesis record is not written either.
func (h *Handlers) HandleSnappInitialization(ctx context.Context, fields model.Fields) error {
	init, err := model.ParseSnappInitialization(fields)
	if err != nil {
		return err
	}
	if err := h.store.WriteSnappConstants(ctx, init.MaxTokens, init.MaxAccounts); err != nil {
		return err
	}
	balances := make([]model.Nat, init.MaxTokens*init.MaxAccounts)
	for i := range balances {
		balances[i] = model.Zero
	}
	genesis, err := model.NewAccountRecord(0, init.StateHash, balances)
	if err != nil {
		return err
	}
	if err := h.store.WriteAccountState(ctx, genesis); err != nil {
		return err
	}
	h.logger.Info("snapp initialized",
		zap.Uint64("num_tokens", init.MaxTokens), zap.Uint64("num_accounts", init.MaxAccounts))
	return nil
}

// HandleAuctionInitialization saves a decoded "AuctionInitialization" event:
// the auction-wide order-capacity constants (spec.md §4.3.8).
func (h *Handlers) HandleAuctionInitialization(ctx context.Context, fields model.Fields) error {
	init, err := model.ParseAuctionInitialization(fields)
	if err != nil {
		return err
	}
	if err := h.store.WriteAuctionConstants(ctx, init.MaxOrders, init.NumReservedAccounts, init.OrdersPerReservedAccount); err != nil {
		return err
	}
	h.logger.Info("auction initialized",
		zap.Uint64("num_orders", init.MaxOrders), zap.Uint64("num_reserved_accounts", init.NumReservedAccounts))
	return nil
}
