package comptes

import (
	"errors"
	"fmt"
)

// CategoryType tells whether a category classifies income or expense amounts.
type CategoryType int

const (
	Expense CategoryType = iota
	Income
)

func (t CategoryType) String() string {
	switch t {
	case Income:
		return "income"
	case Expense:
		return "expense"
	default:
		return "unknown"
	}
}

// ParseCategoryType parses a string into a CategoryType.
func ParseCategoryType(s string) (CategoryType, error) {
	switch s {
	case "income":
		return Income, nil
	case "expense":
		return Expense, nil
	default:
		return 0, fmt.Errorf("unknown category type: %q", s)
	}
}

// Category classifies transactions. The hierarchy has exactly two levels:
// a category is either a root or the child of a root, enforced at
// construction rather than by walking an open-ended tree.
//
// Categories describing internal money movements carry a short movement code
// (see archetype.go); the income and expense variants of one movement share
// the same code.
type Category struct {
	ID     int64
	Name   string
	Type   CategoryType
	Code   string // movement code (VIRT, VERS, EVAL, INVS, ...), empty for ordinary categories
	Parent int64  // id of the root category, 0 for roots
}

// NewRootCategory creates a top-level category.
func NewRootCategory(name string, typ CategoryType) Category {
	return Category{Name: name, Type: typ}
}

// NewChildCategory creates a second-level category attached to a root.
// The parent must be a root: the hierarchy never goes deeper than two levels.
func NewChildCategory(name string, typ CategoryType, parent Category) (Category, error) {
	if parent.ID == 0 {
		return Category{}, errors.New("parent category has no id, save it first")
	}
	if parent.Parent != 0 {
		return Category{}, fmt.Errorf("category %q is not a root, hierarchy is limited to two levels", parent.Name)
	}
	return Category{Name: name, Type: typ, Parent: parent.ID}, nil
}

// IsRoot reports whether the category is a top-level one.
func (c Category) IsRoot() bool { return c.Parent == 0 }
