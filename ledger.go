package comptes

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"
)

// Recipient is a payee or payer referenced by transactions.
type Recipient struct {
	ID   int64
	Name string
}

// Stock is a security traded on a brokerage account. Price is the latest
// known quotation, used to value wallet snapshots; it carries no history.
type Stock struct {
	ID        int64
	Name      string
	Symbol    string // instrument id on the quotation feed, empty when not quoted
	Price     Money  // latest known quotation, zero when never quoted
	PriceDate Date
}

// Project tags transactions belonging to one named undertaking.
type Project struct {
	ID   int64
	Name string
}

// Ledger is the mutable store of accounts, categories and transactions.
//
// Transactions are kept per account in canonical order (date ascending, id
// ascending). All cached balance fields are maintained by the BalanceEngine;
// the ledger itself only guarantees referential consistency.
type Ledger struct {
	accounts     map[int64]*Account
	categories   map[int64]*Category
	recipients   map[int64]*Recipient
	stocks       map[int64]*Stock
	projects     map[int64]*Project
	transactions map[int64]*Transaction
	wallets      map[int64][]*StockWalletRow // replace-all snapshot rows, by account id

	lastID map[string]int64 // id sequences, one per entity kind
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		accounts:     make(map[int64]*Account),
		categories:   make(map[int64]*Category),
		recipients:   make(map[int64]*Recipient),
		stocks:       make(map[int64]*Stock),
		projects:     make(map[int64]*Project),
		transactions: make(map[int64]*Transaction),
		wallets:      make(map[int64][]*StockWalletRow),
		lastID:       make(map[string]int64),
	}
}

func (l *Ledger) nextID(kind string) int64 {
	l.lastID[kind]++
	return l.lastID[kind]
}

// bumpID keeps the sequence ahead of ids read back from a data file.
func (l *Ledger) bumpID(kind string, id int64) {
	if id > l.lastID[kind] {
		l.lastID[kind] = id
	}
}

// --- accounts ---

// AddAccount stores a new account, assigning its id. Account names are unique.
func (l *Ledger) AddAccount(a *Account) error {
	if a.Name == "" {
		return fmt.Errorf("account name is missing")
	}
	if l.AccountByName(a.Name) != nil {
		return fmt.Errorf("account %q already exists", a.Name)
	}
	if a.ID == 0 {
		a.ID = l.nextID("account")
	} else {
		l.bumpID("account", a.ID)
	}
	l.accounts[a.ID] = a
	return nil
}

// AccountByID returns the account with this id, or nil if unknown.
func (l *Ledger) AccountByID(id int64) *Account { return l.accounts[id] }

// AccountByName returns the account with this name, or nil if unknown.
func (l *Ledger) AccountByName(name string) *Account {
	for _, a := range l.accounts {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// AllAccounts iterates over accounts sorted by name.
func (l *Ledger) AllAccounts() iter.Seq[*Account] {
	return func(yield func(*Account) bool) {
		ids := slices.Collect(maps.Keys(l.accounts))
		slices.SortFunc(ids, func(a, b int64) int {
			return strings.Compare(l.accounts[a].Name, l.accounts[b].Name)
		})
		for _, id := range ids {
			if !yield(l.accounts[id]) {
				return
			}
		}
	}
}

// --- categories ---

// AddCategory stores a new category, assigning its id. It enforces the
// two-level hierarchy: a parent, when set, must be an existing root.
func (l *Ledger) AddCategory(c *Category) error {
	if c.Name == "" {
		return fmt.Errorf("category name is missing")
	}
	if c.Parent != 0 {
		parent := l.categories[c.Parent]
		if parent == nil {
			return fmt.Errorf("category %q references unknown parent %d", c.Name, c.Parent)
		}
		if !parent.IsRoot() {
			return fmt.Errorf("category %q is not a root, hierarchy is limited to two levels", parent.Name)
		}
	}
	if c.ID == 0 {
		c.ID = l.nextID("category")
	} else {
		l.bumpID("category", c.ID)
	}
	l.categories[c.ID] = c
	return nil
}

// CategoryByID returns the category with this id, or nil if unknown.
func (l *Ledger) CategoryByID(id int64) *Category { return l.categories[id] }

// CategoryByName resolves a category by name. A qualified "Parent:Child" name
// resolves the child under that root.
func (l *Ledger) CategoryByName(name string) *Category {
	parent, child, qualified := strings.Cut(name, ":")
	for _, c := range l.categories {
		if !qualified && c.Name == name {
			return c
		}
		if qualified && c.Name == child && c.Parent != 0 {
			if p := l.categories[c.Parent]; p != nil && p.Name == parent {
				return c
			}
		}
	}
	return nil
}

// CategoryVariant returns the income or expense variant of a movement code.
func (l *Ledger) CategoryVariant(code string, typ CategoryType) *Category {
	for _, c := range l.categories {
		if c.Code == code && c.Type == typ {
			return c
		}
	}
	return nil
}

// AllCategories iterates over categories sorted by name.
func (l *Ledger) AllCategories() iter.Seq[*Category] {
	return func(yield func(*Category) bool) {
		ids := slices.Collect(maps.Keys(l.categories))
		slices.SortFunc(ids, func(a, b int64) int {
			return strings.Compare(l.categories[a].Name, l.categories[b].Name)
		})
		for _, id := range ids {
			if !yield(l.categories[id]) {
				return
			}
		}
	}
}

// --- recipients, stocks, projects ---

// AddRecipient stores a new recipient, assigning its id.
func (l *Ledger) AddRecipient(r *Recipient) error {
	if r.Name == "" {
		return fmt.Errorf("recipient name is missing")
	}
	if r.ID == 0 {
		r.ID = l.nextID("recipient")
	} else {
		l.bumpID("recipient", r.ID)
	}
	l.recipients[r.ID] = r
	return nil
}

// RecipientByID returns the recipient with this id, or nil if unknown.
func (l *Ledger) RecipientByID(id int64) *Recipient { return l.recipients[id] }

// RecipientByName returns the recipient with this name, or nil if unknown.
func (l *Ledger) RecipientByName(name string) *Recipient {
	for _, r := range l.recipients {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// AddStock stores a new stock, assigning its id.
func (l *Ledger) AddStock(s *Stock) error {
	if s.Name == "" {
		return fmt.Errorf("stock name is missing")
	}
	if s.ID == 0 {
		s.ID = l.nextID("stock")
	} else {
		l.bumpID("stock", s.ID)
	}
	l.stocks[s.ID] = s
	return nil
}

// StockByID returns the stock with this id, or nil if unknown.
func (l *Ledger) StockByID(id int64) *Stock { return l.stocks[id] }

// StockByName returns the stock with this name, or nil if unknown.
func (l *Ledger) StockByName(name string) *Stock {
	for _, s := range l.stocks {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// AllStocks iterates over stocks sorted by name.
func (l *Ledger) AllStocks() iter.Seq[*Stock] {
	return func(yield func(*Stock) bool) {
		ids := slices.Collect(maps.Keys(l.stocks))
		slices.SortFunc(ids, func(a, b int64) int {
			return strings.Compare(l.stocks[a].Name, l.stocks[b].Name)
		})
		for _, id := range ids {
			if !yield(l.stocks[id]) {
				return
			}
		}
	}
}

// SetQuote records the latest known quotation for a stock.
func (l *Ledger) SetQuote(name string, price Money, on Date) error {
	s := l.StockByName(name)
	if s == nil {
		return fmt.Errorf("unknown stock %q", name)
	}
	s.Price = price
	s.PriceDate = on
	return nil
}

// AddProject stores a new project, assigning its id.
func (l *Ledger) AddProject(p *Project) error {
	if p.Name == "" {
		return fmt.Errorf("project name is missing")
	}
	if p.ID == 0 {
		p.ID = l.nextID("project")
	} else {
		l.bumpID("project", p.ID)
	}
	l.projects[p.ID] = p
	return nil
}

// ProjectByName returns the project with this name, or nil if unknown.
func (l *Ledger) ProjectByName(name string) *Project {
	for _, p := range l.projects {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// --- transactions ---

// AddTransaction stores a transaction, assigning its id. It does not touch
// balances: callers run the balance engine once their batch is complete.
func (l *Ledger) AddTransaction(t *Transaction) error {
	if l.accounts[t.Account] == nil {
		return fmt.Errorf("transaction references unknown account %d", t.Account)
	}
	if t.ID == 0 {
		t.ID = l.nextID("transaction")
	} else {
		l.bumpID("transaction", t.ID)
	}
	l.transactions[t.ID] = t
	return nil
}

// TransactionByID returns the transaction with this id, or nil if unknown.
func (l *Ledger) TransactionByID(id int64) *Transaction { return l.transactions[id] }

// removeTransaction drops a row without any pair or balance bookkeeping.
func (l *Ledger) removeTransaction(id int64) { delete(l.transactions, id) }

// TransactionsOf returns the transactions of an account in canonical order
// (date ascending, id ascending).
func (l *Ledger) TransactionsOf(accountID int64) []*Transaction {
	var txs []*Transaction
	for _, t := range l.transactions {
		if t.Account == accountID {
			txs = append(txs, t)
		}
	}
	slices.SortFunc(txs, compareCanonical)
	return txs
}

// HasTransaction reports whether a transaction with this (date, account,
// amount) signature is already stored. It backs the duplicate-import guard.
func (l *Ledger) HasTransaction(accountID int64, on Date, amount Money) bool {
	for _, t := range l.transactions {
		if t.Account == accountID && t.Date == on && t.Amount.Equal(amount) {
			return true
		}
	}
	return false
}

// Transactions iterates over all transactions in canonical order across
// accounts (date, then id).
func (l *Ledger) Transactions() iter.Seq[*Transaction] {
	return func(yield func(*Transaction) bool) {
		txs := slices.Collect(maps.Values(l.transactions))
		slices.SortFunc(txs, compareCanonical)
		for _, t := range txs {
			if !yield(t) {
				return
			}
		}
	}
}

// --- wallet snapshot rows ---

// Wallet returns the stock-position snapshot of an account, sorted by stock name.
func (l *Ledger) Wallet(accountID int64) []*StockWalletRow {
	rows := slices.Clone(l.wallets[accountID])
	slices.SortFunc(rows, func(a, b *StockWalletRow) int {
		return strings.Compare(l.stockName(a.Stock), l.stockName(b.Stock))
	})
	return rows
}

// ReplaceWallet replaces the whole snapshot of an account: prior rows are
// dropped, the new ones stored. Wallet rows carry no independent truth.
func (l *Ledger) ReplaceWallet(accountID int64, rows []*StockWalletRow) {
	if len(rows) == 0 {
		delete(l.wallets, accountID)
		return
	}
	l.wallets[accountID] = rows
}

func (l *Ledger) stockName(id int64) string {
	if s := l.stocks[id]; s != nil {
		return s.Name
	}
	return ""
}

// --- edit operations ---

// CreateTransaction records a single hand-entered transaction and recomputes
// the account balances from its date. Transfer-shaped transactions must be
// created through the TransferSynchronizer instead, so the pair exists before
// any balance runs.
func (l *Ledger) CreateTransaction(t *Transaction) error {
	if c := l.categories[t.Category]; c != nil {
		if a, ok := ArchetypeOf(c.Code); ok && a.Paired {
			return fmt.Errorf("category %q needs a transfer pair, use a transfer operation", c.Name)
		}
	}
	if err := l.AddTransaction(t); err != nil {
		return err
	}
	engine := NewBalanceEngine(l)
	return engine.RecomputeFrom(l.accounts[t.Account], t.Date)
}

// DeleteTransaction removes a transaction. When the row is one side of a
// transfer pair, the pair is unbound first so both rows vanish cleanly, then
// both accounts are recomputed.
func (l *Ledger) DeleteTransaction(id int64) error {
	t := l.transactions[id]
	if t == nil {
		return fmt.Errorf("unknown transaction %d", id)
	}
	engine := NewBalanceEngine(l)
	from := t.Date

	if t.IsTransfer() {
		sync := NewTransferSynchronizer(l)
		pair, err := sync.PairOf(t)
		if err != nil {
			return err
		}
		if pair.Credit.Date.Before(from) {
			from = pair.Credit.Date
		}
		sync.Unbind(pair)
		creditAccount, debitAccount := pair.Credit.Account, pair.Debit.Account
		l.removeTransaction(pair.Credit.ID)
		l.removeTransaction(pair.Debit.ID)
		if err := engine.RecomputeFrom(l.accounts[creditAccount], from); err != nil {
			return err
		}
		return engine.RecomputeFrom(l.accounts[debitAccount], from)
	}

	account := t.Account
	l.removeTransaction(id)
	return engine.RecomputeFrom(l.accounts[account], from)
}

// UpdateTransaction applies an edit to a stored transaction. For one side of
// a transfer pair the synchronizer rebinds the pair so invariants hold, then
// every touched account is recomputed from the earliest affected date.
func (l *Ledger) UpdateTransaction(t *Transaction) error {
	old := l.transactions[t.ID]
	if old == nil {
		return fmt.Errorf("unknown transaction %d", t.ID)
	}
	from := t.Date
	if old.Date.Before(from) {
		from = old.Date
	}
	accounts := map[int64]struct{}{old.Account: {}, t.Account: {}}
	l.transactions[t.ID] = t

	if t.IsTransfer() {
		sync := NewTransferSynchronizer(l)
		pair, err := sync.PairOf(t)
		if err != nil {
			return err
		}
		source := l.accounts[pair.Debit.Account]
		target := l.accounts[pair.Credit.Account]
		if err := sync.Bind(pair, source, target, Money{}); err != nil {
			return err
		}
		accounts[pair.Credit.Account] = struct{}{}
		accounts[pair.Debit.Account] = struct{}{}
	}

	engine := NewBalanceEngine(l)
	for id := range accounts {
		if a := l.accounts[id]; a != nil {
			if err := engine.RecomputeFrom(a, from); err != nil {
				return err
			}
		}
	}
	return nil
}
