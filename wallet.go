package comptes

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// StockWalletRow is one (account, stock) position in a wallet snapshot:
// held volume, average cost basis and the quotation the snapshot was priced
// at. Rows are fully recomputable from brokerage transactions and carry no
// independent truth.
type StockWalletRow struct {
	Account int64
	Stock   int64
	Volume  decimal.Decimal
	Cost    Money // cost basis of the held volume (average cost)
	Price   Money // quotation used to value the row, zero when never quoted
}

// Value returns the market value of the row.
func (r *StockWalletRow) Value() Money { return r.Price.Mul(r.Volume) }

// WalletReconstructor derives stock-position snapshots from ordered
// brokerage transactions.
type WalletReconstructor struct {
	ledger *Ledger
}

// NewWalletReconstructor creates a reconstructor bound to a ledger.
func NewWalletReconstructor(l *Ledger) *WalletReconstructor {
	return &WalletReconstructor{ledger: l}
}

// Rebuild replays the account's brokerage transactions in canonical order,
// accumulating per-stock volumes: buys and fusion-buys add, sales and
// fusion-sales subtract, dividends leave the volume unchanged. Positions
// with a volume of zero or less are dropped, the remaining ones priced at
// the latest known quotation (zero if none). The resulting rows replace the
// account's previous snapshot wholesale.
func (w *WalletReconstructor) Rebuild(account *Account) ([]*StockWalletRow, error) {
	type accumulator struct {
		volume decimal.Decimal
		cost   Money
	}
	accumulators := make(map[int64]*accumulator)

	for _, t := range w.ledger.TransactionsOf(account.ID) {
		detail := t.Brokerage
		if detail == nil {
			continue
		}
		acc := accumulators[detail.Stock]
		if acc == nil {
			acc = &accumulator{}
			accumulators[detail.Stock] = acc
		}
		switch detail.Kind {
		case Buying, FusionBuy:
			acc.volume = acc.volume.Add(detail.Volume)
			acc.cost = acc.cost.Add(detail.Price.Mul(detail.Volume)).Add(detail.Fee)
		case Selling, FusionSale:
			if acc.volume.IsPositive() {
				// Release the average cost of the sold volume.
				released := acc.cost.Mul(detail.Volume.Div(acc.volume))
				acc.cost = acc.cost.Sub(released)
			}
			acc.volume = acc.volume.Sub(detail.Volume)
		case DividendIncome:
			// income only, the position is untouched
		}
	}

	var rows []*StockWalletRow
	for stockID, acc := range accumulators {
		if acc.volume.Sign() <= 0 {
			continue
		}
		row := &StockWalletRow{
			Account: account.ID,
			Stock:   stockID,
			Volume:  acc.volume,
			Cost:    acc.cost,
		}
		if stock := w.ledger.StockByID(stockID); stock != nil {
			row.Price = stock.Price
		}
		rows = append(rows, row)
	}
	slices.SortFunc(rows, func(a, b *StockWalletRow) int {
		return strings.Compare(w.ledger.stockName(a.Stock), w.ledger.stockName(b.Stock))
	})

	w.ledger.ReplaceWallet(account.ID, rows)
	return rows, nil
}

// Valuation returns the market value of a snapshot: Σ(volume × price).
func (w *WalletReconstructor) Valuation(rows []*StockWalletRow) Money {
	var total Money
	for _, row := range rows {
		total = total.Add(row.Value())
	}
	return total
}

// Invested returns the cost basis of a snapshot: Σ(cost).
func (w *WalletReconstructor) Invested(rows []*StockWalletRow) Money {
	var total Money
	for _, row := range rows {
		total = total.Add(row.Cost)
	}
	return total
}
