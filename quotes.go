package comptes

import (
	"fmt"
	"log"
	"net/http"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// Quotation feed for the stocks carrying a symbol. Boursorama exposes the
// latest quotation of an instrument as JSON; the value is extracted by
// jsonpath because the payload shape drifts over time.
const (
	quoteURL  = "https://www.boursorama.com/bourse/action/graph/ws/GetTicksEOD?symbol=%s&length=1&period=0&guid="
	quotePath = "$.d.qd.c"
)

// latestQuote fetches the latest quotation of one symbol.
func latestQuote(client *http.Client, symbol string) (float64, error) {
	addr := fmt.Sprintf(quoteURL, symbol)
	var jobj any
	if err := jwget(client, addr, &jobj); err != nil {
		return 0, fmt.Errorf("error retrieving %q: %w", symbol, err)
	}
	jval, err := jsonpath.Get(quotePath, jobj)
	if err != nil {
		return 0, fmt.Errorf("error parsing %q: %q %w", symbol, quotePath, err)
	}
	// jsonpath is never clear about whether it returns a list of one answer
	// or a single answer; keep the first one if any.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return 0, fmt.Errorf("error parsing %q: %q not a float %v", symbol, quotePath, jval)
	}
	return val, nil
}

// UpdateQuotes refreshes the latest price of every stock carrying a symbol.
// A failing symbol is logged and skipped; the others still update. It returns
// the names of the stocks actually updated.
func UpdateQuotes(l *Ledger) []string {
	client := daily()
	var updated []string
	for stock := range l.AllStocks() {
		if stock.Symbol == "" {
			continue
		}
		val, err := latestQuote(client, stock.Symbol)
		if err != nil {
			log.Printf("skipping %q: %v", stock.Name, err)
			continue
		}
		stock.Price = M(decimal.NewFromFloat(val), "EUR")
		stock.PriceDate = Today()
		updated = append(updated, stock.Name)
	}
	return updated
}
