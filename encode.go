package comptes

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Record discriminators, one per entity kind in the JSONL data file.
const (
	recAccount     = "account"
	recCategory    = "category"
	recRecipient   = "recipient"
	recStock       = "stock"
	recProject     = "project"
	recTransaction = "transaction"
)

// MarshalJSON encodes the account persistent fields. Balance caches are not
// persisted: they are recomputed on load.
func (a *Account) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("record", recAccount)
	w.Append("id", a.ID)
	w.Append("name", a.Name)
	w.Append("type", a.Type.String())
	w.Optional("cashAccount", a.CashAccount)
	w.Optional("openedOn", a.OpenedOn)
	w.Optional("closedOn", a.ClosedOn)
	return w.MarshalJSON()
}

// MarshalJSON encodes the category in stable key order.
func (c *Category) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("record", recCategory)
	w.Append("id", c.ID)
	w.Append("name", c.Name)
	w.Append("type", c.Type.String())
	w.Optional("code", c.Code)
	w.Optional("parent", c.Parent)
	return w.MarshalJSON()
}

// MarshalJSON encodes the recipient in stable key order.
func (r *Recipient) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("record", recRecipient)
	w.Append("id", r.ID)
	w.Append("name", r.Name)
	return w.MarshalJSON()
}

// MarshalJSON encodes the stock and its latest quotation in stable key order.
func (s *Stock) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("record", recStock)
	w.Append("id", s.ID)
	w.Append("name", s.Name)
	w.Optional("symbol", s.Symbol)
	if !s.Price.IsZero() {
		w.Append("price", s.Price)
	}
	w.Optional("priceDate", s.PriceDate)
	return w.MarshalJSON()
}

// MarshalJSON encodes the project in stable key order.
func (p *Project) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("record", recProject)
	w.Append("id", p.ID)
	w.Append("name", p.Name)
	return w.MarshalJSON()
}

// MarshalJSON encodes the transaction in stable key order. The balance is
// persisted even though it is a cache for standard rows: on revaluation rows
// it is the author-pinned value and the only source of the amount.
func (t *Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("record", recTransaction)
	w.Append("id", t.ID)
	w.Append("date", t.Date)
	w.Append("amount", t.Amount)
	w.Append("account", t.Account)
	w.Append("category", t.Category)
	w.Optional("method", t.PaymentMethod)
	w.Optional("recipient", t.Recipient)
	w.Optional("project", t.Project)
	w.Optional("memo", t.Memo)
	if t.State != Pending {
		w.Append("state", t.State.String())
	}
	w.Append("balance", t.Balance)
	w.Optional("transfer", t.Transfer)
	if b := t.Brokerage; b != nil {
		w.Append("stock", b.Stock)
		w.Append("kind", b.Kind.String())
		w.Append("volume", b.Volume)
		w.Append("price", b.Price)
		w.Append("fee", b.Fee)
	}
	return w.MarshalJSON()
}

// EncodeLedger persists the whole ledger to an io.Writer in JSONL format:
// entities first (so references always point backward), then transactions in
// canonical order. Keys within each record keep a fixed order so data files
// diff cleanly.
func EncodeLedger(w io.Writer, l *Ledger) error {
	decimal.MarshalJSONWithoutQuotes = true

	for _, a := range byID(l.accounts) {
		if err := encodeLine(w, a); err != nil {
			return err
		}
	}
	for _, c := range byID(l.categories) {
		if err := encodeLine(w, c); err != nil {
			return err
		}
	}
	for _, r := range byID(l.recipients) {
		if err := encodeLine(w, r); err != nil {
			return err
		}
	}
	for _, s := range byID(l.stocks) {
		if err := encodeLine(w, s); err != nil {
			return err
		}
	}
	for _, p := range byID(l.projects) {
		if err := encodeLine(w, p); err != nil {
			return err
		}
	}
	for t := range l.Transactions() {
		if err := encodeLine(w, t); err != nil {
			return err
		}
	}
	return nil
}

// byID returns the map values sorted by id, the creation order.
func byID[T any](m map[int64]*T) []*T {
	ids := slices.Collect(maps.Keys(m))
	slices.Sort(ids)
	values := make([]*T, 0, len(ids))
	for _, id := range ids {
		values = append(values, m[id])
	}
	return values
}

func encodeLine(w io.Writer, v json.Marshaler) error {
	data, err := v.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// DecodeLedger reads a stream of JSONL records from an io.Reader and rebuilds
// the ledger. Entity records must precede the transactions referencing them,
// which EncodeLedger guarantees. All cached fields (running balances, account
// aggregates, wallet snapshots) are recomputed after loading.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	l := NewLedger()
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}

		var identifier struct {
			Record string `json:"record"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify record in line %q: %w", string(lineBytes), err)
		}

		var err error
		switch identifier.Record {
		case recAccount:
			err = decodeAccount(l, lineBytes)
		case recCategory:
			err = decodeCategory(l, lineBytes)
		case recRecipient:
			err = decodeRecipient(l, lineBytes)
		case recStock:
			err = decodeStock(l, lineBytes)
		case recProject:
			err = decodeProject(l, lineBytes)
		case recTransaction:
			err = decodeTransaction(l, lineBytes)
		default:
			err = fmt.Errorf("unknown record kind: %q", identifier.Record)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}

	engine := NewBalanceEngine(l)
	if err := engine.RecomputeAll(); err != nil {
		return nil, err
	}
	return l, nil
}

func decodeAccount(l *Ledger, line []byte) error {
	var temp struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		Type        string `json:"type"`
		CashAccount string `json:"cashAccount"`
		OpenedOn    Date   `json:"openedOn"`
		ClosedOn    Date   `json:"closedOn"`
	}
	if err := json.Unmarshal(line, &temp); err != nil {
		return err
	}
	typ, err := ParseAccountType(temp.Type)
	if err != nil {
		return err
	}
	return l.AddAccount(&Account{
		ID:          temp.ID,
		Name:        temp.Name,
		Type:        typ,
		CashAccount: temp.CashAccount,
		OpenedOn:    temp.OpenedOn,
		ClosedOn:    temp.ClosedOn,
	})
}

func decodeCategory(l *Ledger, line []byte) error {
	var temp struct {
		ID     int64  `json:"id"`
		Name   string `json:"name"`
		Type   string `json:"type"`
		Code   string `json:"code"`
		Parent int64  `json:"parent"`
	}
	if err := json.Unmarshal(line, &temp); err != nil {
		return err
	}
	typ, err := ParseCategoryType(temp.Type)
	if err != nil {
		return err
	}
	return l.AddCategory(&Category{
		ID:     temp.ID,
		Name:   temp.Name,
		Type:   typ,
		Code:   temp.Code,
		Parent: temp.Parent,
	})
}

func decodeRecipient(l *Ledger, line []byte) error {
	var temp struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(line, &temp); err != nil {
		return err
	}
	return l.AddRecipient(&Recipient{ID: temp.ID, Name: temp.Name})
}

func decodeStock(l *Ledger, line []byte) error {
	var temp struct {
		ID        int64       `json:"id"`
		Name      string      `json:"name"`
		Symbol    string      `json:"symbol"`
		Price     amountField `json:"price"`
		PriceDate Date        `json:"priceDate"`
	}
	if err := json.Unmarshal(line, &temp); err != nil {
		return err
	}
	return l.AddStock(&Stock{
		ID:        temp.ID,
		Name:      temp.Name,
		Symbol:    temp.Symbol,
		Price:     temp.Price.Money(),
		PriceDate: temp.PriceDate,
	})
}

func decodeProject(l *Ledger, line []byte) error {
	var temp struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(line, &temp); err != nil {
		return err
	}
	return l.AddProject(&Project{ID: temp.ID, Name: temp.Name})
}

func decodeTransaction(l *Ledger, line []byte) error {
	var temp struct {
		ID        int64           `json:"id"`
		Date      Date            `json:"date"`
		Amount    amountField     `json:"amount"`
		Account   int64           `json:"account"`
		Category  int64           `json:"category"`
		Method    string          `json:"method"`
		Recipient int64           `json:"recipient"`
		Project   int64           `json:"project"`
		Memo      string          `json:"memo"`
		State     string          `json:"state"`
		Balance   amountField     `json:"balance"`
		Transfer  int64           `json:"transfer"`
		Stock     int64           `json:"stock"`
		Kind      string          `json:"kind"`
		Volume    decimal.Decimal `json:"volume"`
		Price     amountField     `json:"price"`
		Fee       amountField     `json:"fee"`
	}
	if err := json.Unmarshal(line, &temp); err != nil {
		return err
	}
	state := Pending
	if temp.State != "" {
		var err error
		state, err = ParseReconcileState(temp.State)
		if err != nil {
			return err
		}
	}
	t := &Transaction{
		ID:            temp.ID,
		Date:          temp.Date,
		Amount:        temp.Amount.Money(),
		Account:       temp.Account,
		Category:      temp.Category,
		PaymentMethod: temp.Method,
		Recipient:     temp.Recipient,
		Project:       temp.Project,
		Memo:          temp.Memo,
		State:         state,
		Balance:       temp.Balance.Money(),
		Transfer:      temp.Transfer,
	}
	if temp.Stock != 0 {
		kind, err := ParsePositionKind(temp.Kind)
		if err != nil {
			return err
		}
		t.Brokerage = &BrokerageDetail{
			Stock:  temp.Stock,
			Kind:   kind,
			Volume: temp.Volume,
			Price:  temp.Price.Money(),
			Fee:    temp.Fee.Money(),
		}
	}
	return l.AddTransaction(t)
}
