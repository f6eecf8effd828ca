package core

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Fixed enumerations. Entries are stored in canonical casing; inputs are
// matched case-insensitively and rewritten to the canonical form.
var (
	ExpenseCategories = []string{"Food", "Transport", "Bills", "Shopping", "Entertainment", "Other"}
	IncomeCategories  = []string{"Salary", "Freelance", "Investment", "Gift", "Other"}
	PaymentMethods    = []string{"Cash", "Credit Card", "Debit Card", "Bank Transfer"}
	Currencies        = []string{"USD", "EUR", "GBP"}

	BillTypes = []string{"utility", "rent", "insurance", "subscription", "loan", "credit_card", "other"}

	// BillCategories maps each bill type to its category subset.
	BillCategories = map[string][]string{
		"utility":      {"electricity", "water", "gas", "internet", "phone", "cable"},
		"rent":         {"rent", "mortgage", "property_tax"},
		"insurance":    {"health", "auto", "home", "life"},
		"subscription": {"netflix", "spotify", "gym", "software", "magazine"},
		"loan":         {"personal", "student", "car", "home"},
		"credit_card":  {"visa", "mastercard", "amex", "discover"},
		"other":        {"medical", "legal", "maintenance", "other"},
	}

	RecurrenceIntervals = []RecurrenceInterval{Daily, Weekly, Monthly, Yearly}
)

var titleCaser = cases.Title(language.English)

// CategoriesFor returns the category set of a transaction type, nil for an
// unknown type.
func CategoriesFor(t TransactionType) []string {
	switch t {
	case Expense:
		return ExpenseCategories
	case Income:
		return IncomeCategories
	}
	return nil
}

// Normalize matches input case-insensitively against the candidate set and
// returns the canonical entry. ok is false when no candidate matches; the
// trimmed input is returned unchanged in that case.
func Normalize(input string, candidates []string) (canonical string, ok bool) {
	input = strings.TrimSpace(input)
	for _, c := range candidates {
		if strings.EqualFold(input, c) {
			return c, true
		}
	}
	return input, false
}

// NormalizeType lowercases and validates a transaction type.
func NormalizeType(input string) (TransactionType, bool) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(input)))
	return t, t == Income || t == Expense
}

// NormalizeInterval lowercases and validates a recurrence interval.
func NormalizeInterval(input string) (RecurrenceInterval, bool) {
	iv := RecurrenceInterval(strings.ToLower(strings.TrimSpace(input)))
	for _, known := range RecurrenceIntervals {
		if iv == known {
			return iv, true
		}
	}
	return iv, false
}

// TitleCategory rewrites a category name in title casing, the canonical form
// used by budget keys ("food" -> "Food").
func TitleCategory(s string) string {
	return titleCaser.String(strings.TrimSpace(s))
}
