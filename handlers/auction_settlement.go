package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/gnosis/snapp-indexer/model"
	"github.com/gnosis/snapp-indexer/settlement"
)

// HandleAuctionSettlement decodes and applies a cleared auction's prices and
// volumes to the prior AccountRecord (spec.md §4.3.5). The payload is
// decoded here, once, because decoding needs num_tokens/num_orders read
// from the store — the header alone (model.ParseAuctionSettlementHeader)
// can't supply them.
func (h *Handlers) HandleAuctionSettlement(ctx context.Context, fields model.Fields) error {
	header, err := model.ParseAuctionSettlementHeader(fields)
	if err != nil {
		return err
	}

	numTokens, err := h.store.GetNumTokens(ctx)
	if err != nil {
		return err
	}
	numOrders, err := h.store.GetNumOrders(ctx)
	if err != nil {
		return err
	}

	results, err := settlement.DecodePricesAndVolumes(header.PayloadHex, int(numTokens), int(numOrders))
	if err != nil {
		return err
	}

	auctionSettlement, err := model.NewAuctionSettlement(header.AuctionID, header.StateIndex, header.StateHash, results)
	if err != nil {
		return err
	}

	prev, err := h.store.GetAccountState(ctx, auctionSettlement.StateIndex-1)
	if err != nil {
		return err
	}
	balances := prev.Clone()

	orders, err := h.store.GetOrders(ctx, auctionSettlement.AuctionID)
	if err != nil {
		return err
	}
	buyAmounts := auctionSettlement.PricesAndVolumes.BuyAmounts
	sellAmounts := auctionSettlement.PricesAndVolumes.SellAmounts
	if len(orders) > len(buyAmounts) {
		return &model.AssertViolationError{Invariant: "settlement volumes cover fewer orders than were submitted"}
	}

	for i, o := range orders {
		buyIdx := model.BalanceIndex(numTokens, o.AccountID, o.BuyToken)
		balances[buyIdx] = balances[buyIdx].Add(buyAmounts[i])

		sellIdx := model.BalanceIndex(numTokens, o.AccountID, o.SellToken)
		balances[sellIdx] = balances[sellIdx].Sub(sellAmounts[i])
	}

	newRecord, err := model.NewAccountRecord(auctionSettlement.StateIndex, auctionSettlement.StateHash, balances)
	if err != nil {
		return err
	}
	h.logger.Info("applied auction settlement",
		zap.Uint64("auction_id", auctionSettlement.AuctionID), zap.Int("orders_cleared", len(orders)))
	return h.store.WriteAccountState(ctx, newRecord)
}
