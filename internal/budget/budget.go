// Package budget tracks per-category monthly spending limits and compares
// them against the ledger.
package budget

import (
	"fmt"
	"math"
	"strings"
	"time"

	"finman/internal/core"
	"finman/internal/log"
	"finman/internal/store"
)

type Service struct {
	store  *store.Store
	logger *log.Logger
}

func New(st *store.Store, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Service{store: st, logger: logger.WithComponent(log.ComponentBudget)}
}

// CategoryStatus reports one budget category's standing for a month.
type CategoryStatus struct {
	Budget     float64 `json:"budget"`
	Spent      float64 `json:"spent"`
	Remaining  float64 `json:"remaining"`
	Percentage float64 `json:"percentage"`
}

// Set creates or overwrites the budget of one expense category for a month.
// An empty month defaults to the current one. The category is Title-cased and
// must belong to the expense category set.
func (s *Service) Set(userID, category string, amount float64, month string) error {
	verr := &core.ValidationError{}

	if month == "" {
		month = core.MonthKeyOf(time.Now())
	} else if !validMonth(month) {
		verr.Add(fmt.Sprintf("invalid month %q: use YYYY-MM", month))
	}

	canonical, ok := core.Normalize(core.TitleCategory(category), core.ExpenseCategories)
	if !ok {
		verr.Add(fmt.Sprintf("invalid category %q: must be one of %s",
			category, strings.Join(core.ExpenseCategories, ", ")))
	}

	if amount < 0 || math.IsInf(amount, 0) || math.IsNaN(amount) {
		verr.Add("budget amount cannot be negative")
	}

	if err := verr.Err(); err != nil {
		return err
	}

	budgets, err := s.store.LoadBudgets()
	if err != nil {
		return err
	}

	if budgets[userID] == nil {
		budgets[userID] = map[string]map[string]float64{}
	}
	if budgets[userID][month] == nil {
		budgets[userID][month] = map[string]float64{}
	}
	budgets[userID][month][canonical] = amount

	if err := s.store.SaveBudgets(budgets); err != nil {
		return fmt.Errorf("save budgets: %w", err)
	}

	s.logger.Info("budget set",
		log.FieldOperation, log.OpUpdate,
		log.FieldUserID, userID,
		log.FieldMonth, month,
		log.FieldCategory, canonical,
		log.FieldAmount, amount)
	return nil
}

// Status reports each budgeted category of a month against the spending
// recorded in the ledger for that month. It fails with core.ErrNoBudgets when
// the user has no budget entries for the month, so callers can tell "no data"
// apart from "all budgets untouched".
func (s *Service) Status(userID, month string) (map[string]CategoryStatus, error) {
	if month == "" {
		month = core.MonthKeyOf(time.Now())
	}

	budgets, err := s.store.LoadBudgets()
	if err != nil {
		return nil, err
	}

	monthBudgets := budgets[userID][month]
	if len(monthBudgets) == 0 {
		return nil, core.ErrNoBudgets
	}

	txs, err := s.store.LoadTransactions()
	if err != nil {
		return nil, err
	}

	spentByCategory := map[string]float64{}
	for _, tx := range txs[userID] {
		if tx.Type != core.Expense || core.MonthKey(tx.Date) != month {
			continue
		}
		spentByCategory[core.TitleCategory(tx.Category)] += tx.Amount
	}

	status := make(map[string]CategoryStatus, len(monthBudgets))
	for category, limit := range monthBudgets {
		spent := spentByCategory[core.TitleCategory(category)]
		percentage := 0.0
		if limit > 0 {
			percentage = math.Round(spent/limit*1000) / 10
		}
		status[category] = CategoryStatus{
			Budget:     limit,
			Spent:      spent,
			Remaining:  limit - spent,
			Percentage: percentage,
		}
	}
	return status, nil
}

// Delete removes one category's budget for a month, matching the stored key
// case-insensitively. Returns false without a write when nothing matches.
func (s *Service) Delete(userID, category, month string) (bool, error) {
	if month == "" {
		month = core.MonthKeyOf(time.Now())
	}

	budgets, err := s.store.LoadBudgets()
	if err != nil {
		return false, err
	}

	monthBudgets := budgets[userID][month]
	for stored := range monthBudgets {
		if !strings.EqualFold(stored, strings.TrimSpace(category)) {
			continue
		}
		delete(monthBudgets, stored)
		if err := s.store.SaveBudgets(budgets); err != nil {
			return false, fmt.Errorf("save budgets: %w", err)
		}
		s.logger.Info("budget deleted",
			log.FieldOperation, log.OpDelete,
			log.FieldUserID, userID,
			log.FieldMonth, month,
			log.FieldCategory, stored)
		return true, nil
	}

	return false, nil
}

func validMonth(month string) bool {
	_, err := time.Parse("2006-01", month)
	return err == nil
}
