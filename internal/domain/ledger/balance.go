package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// SortChronologically orders txs by OccurredAt then ID, in place.
func SortChronologically(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].OccurredAt.Equal(txs[j].OccurredAt) {
			return txs[i].OccurredAt.Before(txs[j].OccurredAt)
		}
		return txs[i].ID < txs[j].ID
	})
}

// RunningBalances maps every transaction ID to opening plus the signed sum of all
// transactions up to and including it in chronological order. The input is not modified.
func RunningBalances(opening decimal.Decimal, txs []Transaction) map[string]decimal.Decimal {
	ordered := make([]Transaction, len(txs))
	copy(ordered, txs)
	SortChronologically(ordered)

	balances := make(map[string]decimal.Decimal, len(ordered))
	balance := opening
	for _, tx := range ordered {
		balance = balance.Add(tx.Signed())
		balances[tx.ID] = balance
	}
	return balances
}

// BalanceAt is the signed sum of txs with OccurredAt <= at.
func BalanceAt(txs []Transaction, at time.Time) decimal.Decimal {
	balance := decimal.Zero
	for _, tx := range txs {
		if tx.OccurredAt.After(at) {
			continue
		}
		balance = balance.Add(tx.Signed())
	}
	return balance
}
