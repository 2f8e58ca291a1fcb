package comptes

import "fmt"

// Movement codes identify the internal-movement semantics of a category.
// The income and expense variants of one movement share the code; the
// balance engine and the transfer synchronizer dispatch on it.
const (
	CodeTransfer     = "VIRT" // inter-account transfer
	CodeContribution = "VERS" // capital contribution into a capitalization account
	CodeRevaluation  = "EVAL" // pinned-balance revaluation (surplus/deficit variants)
	CodeInvestment   = "INVS" // investment flow, counted in the invested amount
	CodeSecurity     = "TITR" // brokerage trade (buy/sell)
	CodeDividend     = "DIVD" // brokerage dividend income
	CodeVehicle      = "AUTO" // vehicle running costs
)

// Archetype describes one movement code: the category names its two variants
// are created under, the default payment method for imported records, and
// which transaction fields are relevant for that movement.
//
// This table replaces a class-per-movement hierarchy: all movement-specific
// behavior is data, dispatched through the code.
type Archetype struct {
	Code           string
	IncomeName     string // name of the income (credit-side) category variant
	ExpenseName    string // name of the expense (debit-side) category variant
	PaymentMethod  string // default payment method for imported records
	NeedsRecipient bool   // a recipient is meaningful for this movement
	NeedsBrokerage bool   // a brokerage detail is expected on the transaction
	Paired         bool   // transactions of this movement come as transfer pairs
	FreeCredit     bool   // the credit amount may differ from the debited amount
}

var archetypes = map[string]Archetype{
	CodeTransfer: {
		Code:          CodeTransfer,
		IncomeName:    "Virement reçu",
		ExpenseName:   "Virement émis",
		PaymentMethod: "transfer",
		Paired:        true,
	},
	CodeContribution: {
		Code:          CodeContribution,
		IncomeName:    "Versement reçu",
		ExpenseName:   "Versement",
		PaymentMethod: "transfer",
		Paired:        true,
		FreeCredit:    true,
	},
	CodeRevaluation: {
		Code:          CodeRevaluation,
		IncomeName:    "Plus-value",
		ExpenseName:   "Moins-value",
		PaymentMethod: "internal",
	},
	CodeInvestment: {
		Code:          CodeInvestment,
		IncomeName:    "Désinvestissement",
		ExpenseName:   "Investissement",
		PaymentMethod: "transfer",
	},
	CodeSecurity: {
		Code:           CodeSecurity,
		IncomeName:     "Vente de titres",
		ExpenseName:    "Achat de titres",
		PaymentMethod:  "internal",
		NeedsBrokerage: true,
	},
	CodeDividend: {
		Code:           CodeDividend,
		IncomeName:     "Dividendes",
		ExpenseName:    "Frais de courtage",
		PaymentMethod:  "internal",
		NeedsBrokerage: true,
	},
	CodeVehicle: {
		Code:           CodeVehicle,
		IncomeName:     "Remboursement véhicule",
		ExpenseName:    "Frais véhicule",
		PaymentMethod:  "card",
		NeedsRecipient: true,
	},
}

func errUnknownMovement(code string) error {
	return fmt.Errorf("unknown movement code %q", code)
}

// ArchetypeOf returns the archetype table entry for a movement code.
func ArchetypeOf(code string) (Archetype, bool) {
	a, ok := archetypes[code]
	return a, ok
}

// variantName returns the category name of the income or expense variant.
func (a Archetype) variantName(typ CategoryType) string {
	if typ == Income {
		return a.IncomeName
	}
	return a.ExpenseName
}
