package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/gnosis/snapp-indexer/model"
)

// HandleStateTransition closes a slot's batch of deposits or withdraws into
// a new AccountRecord (spec.md §4.3.9). Deposits always apply; a withdraw
// applies only if the account's current balance covers it — insufficient
// balance is logged and skipped, not an error (spec.md §9). A withdraw that
// is honored has its Valid flag flipped via UpdateWithdraw, which is itself
// idempotent.
func (h *Handlers) HandleStateTransition(ctx context.Context, fields model.Fields) error {
	transition, err := model.ParseStateTransition(fields)
	if err != nil {
		return err
	}

	prev, err := h.store.GetAccountState(ctx, transition.StateIndex-1)
	if err != nil {
		return err
	}
	balances := prev.Clone()

	numTokens, err := h.store.GetNumTokens(ctx)
	if err != nil {
		return err
	}

	switch transition.TransitionType {
	case model.TransitionDeposit:
		deposits, err := h.store.GetDeposits(ctx, transition.Slot)
		if err != nil {
			return err
		}
		for _, d := range deposits {
			idx := model.BalanceIndex(numTokens, d.AccountID, d.TokenID)
			balances[idx] = balances[idx].Add(d.Amount)
			h.logger.Debug("applied deposit",
				zap.Uint64("account_id", d.AccountID), zap.Uint64("token_id", d.TokenID), zap.String("amount", d.Amount.String()))
		}
	case model.TransitionWithdraw:
		withdraws, err := h.store.GetWithdraws(ctx, transition.Slot)
		if err != nil {
			return err
		}
		for _, w := range withdraws {
			idx := model.BalanceIndex(numTokens, w.AccountID, w.TokenID)
			if balances[idx].Cmp(w.Amount) >= 0 {
				balances[idx] = balances[idx].Sub(w.Amount)
				if err := h.store.UpdateWithdraw(ctx, w, w.WithValid()); err != nil {
					return err
				}
				h.logger.Debug("applied withdraw",
					zap.Uint64("account_id", w.AccountID), zap.Uint64("token_id", w.TokenID), zap.String("amount", w.Amount.String()))
			} else {
				h.logger.Info("insufficient balance for withdraw, skipping",
					zap.Uint64("account_id", w.AccountID), zap.Uint64("token_id", w.TokenID), zap.String("amount", w.Amount.String()))
			}
		}
	default:
		return &model.BadTransitionError{Type: transition.TransitionType}
	}

	newRecord, err := model.NewAccountRecord(transition.StateIndex, transition.StateHash, balances)
	if err != nil {
		return err
	}
	return h.store.WriteAccountState(ctx, newRecord)
}
