package comptes

// EntityResolver memoizes lookup-or-create of named entities for the
// duration of one import run. It is an explicit object created per run and
// passed through the call graph, never global state: its caches must not
// outlive the run that created them.
//
// Newly created entity names are recorded so the end-of-run report can list
// them.
type EntityResolver struct {
	ledger *Ledger

	accounts   map[string]*Account
	categories map[string]*Category
	recipients map[string]*Recipient
	stocks     map[string]*Stock
	projects   map[string]*Project

	CreatedAccounts   []string
	CreatedCategories []string
	CreatedRecipients []string
	CreatedStocks     []string
	CreatedProjects   []string
}

// NewEntityResolver creates a resolver for one import run.
func NewEntityResolver(l *Ledger) *EntityResolver {
	return &EntityResolver{
		ledger:     l,
		accounts:   make(map[string]*Account),
		categories: make(map[string]*Category),
		recipients: make(map[string]*Recipient),
		stocks:     make(map[string]*Stock),
		projects:   make(map[string]*Project),
	}
}

// Account resolves an account by name, creating a cash account if unknown.
func (r *EntityResolver) Account(name string) (*Account, error) {
	return r.AccountOfType(name, AccountCash)
}

// AccountOfType resolves an account by name, creating it with the given type
// if unknown. The type is a creation default only: an existing account keeps
// its own.
func (r *EntityResolver) AccountOfType(name string, typ AccountType) (*Account, error) {
	if a, ok := r.accounts[name]; ok {
		return a, nil
	}
	if a := r.ledger.AccountByName(name); a != nil {
		r.accounts[name] = a
		return a, nil
	}
	a := &Account{Name: name, Type: typ}
	if err := r.ledger.AddAccount(a); err != nil {
		return nil, err
	}
	r.accounts[name] = a
	r.CreatedAccounts = append(r.CreatedAccounts, name)
	return a, nil
}

// Category resolves a category by (possibly "Parent:Child" qualified) name,
// creating a root category of the given type if unknown.
func (r *EntityResolver) Category(name string, typ CategoryType) (*Category, error) {
	key := name + "/" + typ.String()
	if c, ok := r.categories[key]; ok {
		return c, nil
	}
	if c := r.ledger.CategoryByName(name); c != nil {
		r.categories[key] = c
		return c, nil
	}
	c := &Category{Name: name, Type: typ}
	if err := r.ledger.AddCategory(c); err != nil {
		return nil, err
	}
	r.categories[key] = c
	r.CreatedCategories = append(r.CreatedCategories, name)
	return c, nil
}

// MovementCategory resolves the income or expense variant of a movement
// code, creating it from the archetype table if unknown.
func (r *EntityResolver) MovementCategory(code string, typ CategoryType) (*Category, error) {
	key := code + "/" + typ.String()
	if c, ok := r.categories[key]; ok {
		return c, nil
	}
	if c := r.ledger.CategoryVariant(code, typ); c != nil {
		r.categories[key] = c
		return c, nil
	}
	arch, ok := ArchetypeOf(code)
	if !ok {
		return nil, errUnknownMovement(code)
	}
	c := &Category{Name: arch.variantName(typ), Type: typ, Code: code}
	if err := r.ledger.AddCategory(c); err != nil {
		return nil, err
	}
	r.categories[key] = c
	r.CreatedCategories = append(r.CreatedCategories, c.Name)
	return c, nil
}

// Recipient resolves a recipient by name, creating it if unknown.
func (r *EntityResolver) Recipient(name string) (*Recipient, error) {
	if p, ok := r.recipients[name]; ok {
		return p, nil
	}
	if p := r.ledger.RecipientByName(name); p != nil {
		r.recipients[name] = p
		return p, nil
	}
	p := &Recipient{Name: name}
	if err := r.ledger.AddRecipient(p); err != nil {
		return nil, err
	}
	r.recipients[name] = p
	r.CreatedRecipients = append(r.CreatedRecipients, name)
	return p, nil
}

// Stock resolves a stock by name, creating it if unknown.
func (r *EntityResolver) Stock(name string) (*Stock, error) {
	if s, ok := r.stocks[name]; ok {
		return s, nil
	}
	if s := r.ledger.StockByName(name); s != nil {
		r.stocks[name] = s
		return s, nil
	}
	s := &Stock{Name: name}
	if err := r.ledger.AddStock(s); err != nil {
		return nil, err
	}
	r.stocks[name] = s
	r.CreatedStocks = append(r.CreatedStocks, name)
	return s, nil
}

// Project resolves a project by name, creating it if unknown.
func (r *EntityResolver) Project(name string) (*Project, error) {
	if p, ok := r.projects[name]; ok {
		return p, nil
	}
	if p := r.ledger.ProjectByName(name); p != nil {
		r.projects[name] = p
		return p, nil
	}
	p := &Project{Name: name}
	if err := r.ledger.AddProject(p); err != nil {
		return nil, err
	}
	r.projects[name] = p
	r.CreatedProjects = append(r.CreatedProjects, name)
	return p, nil
}
