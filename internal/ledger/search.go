package ledger

import (
	"fmt"
	"sort"
	"strings"

	"finman/internal/core"
)

// Sort keys accepted by Sorted.
const (
	SortByAmount   = "amount"
	SortByDate     = "date"
	SortByCategory = "category"
)

// SearchDateRange returns a user's transactions dated within [start, end],
// bounds inclusive, in stored order.
func (s *Service) SearchDateRange(userID, start, end string) ([]core.Transaction, error) {
	from, err := core.ParseDate(start)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: use YYYY-MM-DD", start)
	}
	to, err := core.ParseDate(end)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: use YYYY-MM-DD", end)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("end date %s is before start date %s", end, start)
	}

	txs, err := s.Transactions(userID)
	if err != nil {
		return nil, err
	}

	var matched []core.Transaction
	for _, tx := range txs {
		d, err := core.ParseDate(tx.Date)
		if err != nil {
			continue
		}
		if !d.Before(from) && !d.After(to) {
			matched = append(matched, tx)
		}
	}
	return matched, nil
}

// FilterCategory returns a user's transactions whose category matches
// case-insensitively.
func (s *Service) FilterCategory(userID, category string) ([]core.Transaction, error) {
	txs, err := s.Transactions(userID)
	if err != nil {
		return nil, err
	}

	var matched []core.Transaction
	for _, tx := range txs {
		if strings.EqualFold(tx.Category, strings.TrimSpace(category)) {
			matched = append(matched, tx)
		}
	}
	return matched, nil
}

// FilterAmountRange returns a user's transactions with min <= amount <= max.
func (s *Service) FilterAmountRange(userID string, min, max float64) ([]core.Transaction, error) {
	if min > max {
		return nil, fmt.Errorf("minimum amount %.2f exceeds maximum %.2f", min, max)
	}

	txs, err := s.Transactions(userID)
	if err != nil {
		return nil, err
	}

	var matched []core.Transaction
	for _, tx := range txs {
		if tx.Amount >= min && tx.Amount <= max {
			matched = append(matched, tx)
		}
	}
	return matched, nil
}

// Sorted returns a user's transactions ordered by the given key. Ties keep
// stored order.
func (s *Service) Sorted(userID, key string, desc bool) ([]core.Transaction, error) {
	txs, err := s.Transactions(userID)
	if err != nil {
		return nil, err
	}

	sorted := make([]core.Transaction, len(txs))
	copy(sorted, txs)

	var less func(a, b core.Transaction) bool
	switch key {
	case SortByAmount:
		less = func(a, b core.Transaction) bool { return a.Amount < b.Amount }
	case SortByDate:
		// ISO dates order lexicographically.
		less = func(a, b core.Transaction) bool { return a.Date < b.Date }
	case SortByCategory:
		less = func(a, b core.Transaction) bool {
			return strings.ToLower(a.Category) < strings.ToLower(b.Category)
		}
	default:
		return nil, fmt.Errorf("unknown sort key %q: use amount, date or category", key)
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if desc {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})
	return sorted, nil
}
