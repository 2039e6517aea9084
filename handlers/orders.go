package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/gnosis/snapp-indexer/model"
)

// HandleSellOrder saves a decoded "SellOrder" event (spec.md §4.3.3).
func (h *Handlers) HandleSellOrder(ctx context.Context, fields model.Fields) error {
	o, err := model.ParseOrder(fields)
	if err != nil {
		return err
	}
	if err := h.store.WriteOrder(ctx, o); err != nil {
		return err
	}
	h.logger.Debug("wrote order",
		zap.Uint64("account_id", o.AccountID), zap.Uint64("auction_id", o.Slot), zap.Uint64("slot_index", o.SlotIndex))
	return nil
}

// HandleStandingSellOrderBatch saves a decoded "StandingSellOrderBatch"
// event (spec.md §4.3.4).
func (h *Handlers) HandleStandingSellOrderBatch(ctx context.Context, fields model.Fields) error {
	so, err := model.ParseStandingOrder(fields)
	if err != nil {
		return err
	}
	if err := h.store.WriteStandingOrder(ctx, so); err != nil {
		return err
	}
	h.logger.Debug("wrote standing order batch",
		zap.Uint64("account_id", so.AccountID), zap.Uint64("batch_index", so.BatchIndex),
		zap.Uint64("valid_from_auction_id", so.ValidFromAuctionID), zap.Int("num_orders", len(so.Orders)))
	return nil
}
