// Package reports derives read-only aggregations (dashboard, monthly report,
// category breakdown, spending trends) from a user's ledger.
package reports

import (
	"fmt"
	"math"
	"sort"
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
	return &Service{store: st, logger: logger.WithComponent(log.ComponentReports)}
}

// Dashboard summarizes a user's ledger: all-time totals plus the numbers of
// the month containing now.
type Dashboard struct {
	TotalIncome     float64 `json:"total_income"`
	TotalExpenses   float64 `json:"total_expenses"`
	NetWorth        float64 `json:"net_worth"`
	Month           string  `json:"month"`
	MonthlyIncome   float64 `json:"monthly_income"`
	MonthlyExpenses float64 `json:"monthly_expenses"`
	MonthlyNet      float64 `json:"monthly_net"`
}

// MonthlyReport breaks one month down by category.
type MonthlyReport struct {
	Month             string             `json:"month"`
	TotalIncome       float64            `json:"total_income"`
	TotalExpenses     float64            `json:"total_expenses"`
	Net               float64            `json:"net"`
	Count             int                `json:"count"`
	IncomeByCategory  map[string]float64 `json:"income_by_category"`
	ExpenseByCategory map[string]float64 `json:"expense_by_category"`
}

// CategoryTotal is one category's share of an all-time breakdown. Percentage
// is relative to the total of the category's side (income or expense).
type CategoryTotal struct {
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
	Count      int     `json:"count"`
}

// Breakdown is the all-time per-category view of a ledger.
type Breakdown struct {
	TotalIncome   float64                  `json:"total_income"`
	TotalExpenses float64                  `json:"total_expenses"`
	Income        map[string]CategoryTotal `json:"income_by_category"`
	Expenses      map[string]CategoryTotal `json:"expense_by_category"`
}

// MonthTrend is one month's aggregate in a chronological trend line.
type MonthTrend struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
	Count    int     `json:"count"`
}

// Trend directions for the last-two-months delta.
const (
	Increased Direction = "increased"
	Decreased Direction = "decreased"
	Unchanged Direction = "unchanged"
)

type Direction string

// Delta compares the two most recent months of a trend line.
type Delta struct {
	Month            string    `json:"month"`
	PreviousMonth    string    `json:"previous_month"`
	IncomeChange     float64   `json:"income_change"`
	ExpenseChange    float64   `json:"expense_change"`
	IncomeDirection  Direction `json:"income_direction"`
	ExpenseDirection Direction `json:"expense_direction"`
}

// Dashboard computes the summary as of now's month.
func (s *Service) Dashboard(userID string, now time.Time) (Dashboard, error) {
	txs, err := s.userTransactions(userID)
	if err != nil {
		return Dashboard{}, err
	}

	month := core.MonthKeyOf(now)
	d := Dashboard{Month: month}
	for _, tx := range txs {
		inMonth := core.MonthKey(tx.Date) == month
		switch tx.Type {
		case core.Income:
			d.TotalIncome += tx.Amount
			if inMonth {
				d.MonthlyIncome += tx.Amount
			}
		case core.Expense:
			d.TotalExpenses += tx.Amount
			if inMonth {
				d.MonthlyExpenses += tx.Amount
			}
		}
	}
	d.NetWorth = d.TotalIncome - d.TotalExpenses
	d.MonthlyNet = d.MonthlyIncome - d.MonthlyExpenses
	return d, nil
}

// MonthlyReport aggregates the transactions of one exact month. It fails with
// core.ErrNoData when nothing falls in that month.
func (s *Service) MonthlyReport(userID string, year, month int) (MonthlyReport, error) {
	if month < 1 || month > 12 {
		return MonthlyReport{}, fmt.Errorf("invalid month %d: must be 1-12", month)
	}

	txs, err := s.userTransactions(userID)
	if err != nil {
		return MonthlyReport{}, err
	}

	key := fmt.Sprintf("%04d-%02d", year, month)
	r := MonthlyReport{
		Month:             key,
		IncomeByCategory:  map[string]float64{},
		ExpenseByCategory: map[string]float64{},
	}

	for _, tx := range txs {
		if core.MonthKey(tx.Date) != key {
			continue
		}
		r.Count++
		switch tx.Type {
		case core.Income:
			r.TotalIncome += tx.Amount
			r.IncomeByCategory[tx.Category] += tx.Amount
		case core.Expense:
			r.TotalExpenses += tx.Amount
			r.ExpenseByCategory[tx.Category] += tx.Amount
		}
	}

	if r.Count == 0 {
		return MonthlyReport{}, core.ErrNoData
	}
	r.Net = r.TotalIncome - r.TotalExpenses
	return r, nil
}

// CategoryBreakdown aggregates the full ledger per category, with each
// category's percentage taken against its own side's total.
func (s *Service) CategoryBreakdown(userID string) (Breakdown, error) {
	txs, err := s.userTransactions(userID)
	if err != nil {
		return Breakdown{}, err
	}

	b := Breakdown{
		Income:   map[string]CategoryTotal{},
		Expenses: map[string]CategoryTotal{},
	}
	for _, tx := range txs {
		switch tx.Type {
		case core.Income:
			ct := b.Income[tx.Category]
			ct.Amount += tx.Amount
			ct.Count++
			b.Income[tx.Category] = ct
			b.TotalIncome += tx.Amount
		case core.Expense:
			ct := b.Expenses[tx.Category]
			ct.Amount += tx.Amount
			ct.Count++
			b.Expenses[tx.Category] = ct
			b.TotalExpenses += tx.Amount
		}
	}

	fillPercentages(b.Income, b.TotalIncome)
	fillPercentages(b.Expenses, b.TotalExpenses)
	return b, nil
}

// SpendingTrends groups the ledger by month, chronologically. With at least
// two months present it also derives the delta of the last two.
func (s *Service) SpendingTrends(userID string) ([]MonthTrend, *Delta, error) {
	txs, err := s.userTransactions(userID)
	if err != nil {
		return nil, nil, err
	}

	byMonth := map[string]*MonthTrend{}
	for _, tx := range txs {
		key := core.MonthKey(tx.Date)
		trend, ok := byMonth[key]
		if !ok {
			trend = &MonthTrend{Month: key}
			byMonth[key] = trend
		}
		trend.Count++
		switch tx.Type {
		case core.Income:
			trend.Income += tx.Amount
		case core.Expense:
			trend.Expenses += tx.Amount
		}
	}

	months := make([]string, 0, len(byMonth))
	for key := range byMonth {
		months = append(months, key)
	}
	sort.Strings(months)

	trends := make([]MonthTrend, 0, len(months))
	for _, key := range months {
		t := byMonth[key]
		t.Net = t.Income - t.Expenses
		trends = append(trends, *t)
	}

	if len(trends) < 2 {
		return trends, nil, nil
	}

	last, prev := trends[len(trends)-1], trends[len(trends)-2]
	delta := &Delta{
		Month:            last.Month,
		PreviousMonth:    prev.Month,
		IncomeChange:     last.Income - prev.Income,
		ExpenseChange:    last.Expenses - prev.Expenses,
		IncomeDirection:  direction(last.Income - prev.Income),
		ExpenseDirection: direction(last.Expenses - prev.Expenses),
	}
	return trends, delta, nil
}

func (s *Service) userTransactions(userID string) ([]core.Transaction, error) {
	txs, err := s.store.LoadTransactions()
	if err != nil {
		return nil, err
	}
	return txs[userID], nil
}

func fillPercentages(totals map[string]CategoryTotal, total float64) {
	if total <= 0 {
		return
	}
	for category, ct := range totals {
		ct.Percentage = math.Round(ct.Amount/total*1000) / 10
		totals[category] = ct
	}
}

func direction(change float64) Direction {
	switch {
	case change > 0:
		return Increased
	case change < 0:
		return Decreased
	}
	return Unchanged
}
