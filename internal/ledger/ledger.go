// Package ledger creates, edits, deletes and queries a user's transactions.
package ledger

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"finman/internal/core"
	"finman/internal/log"
	"finman/internal/store"
)

// Service owns transaction mutations and lookups. Every operation is a full
// load-mutate-save round trip against the store.
type Service struct {
	store  *store.Store
	logger *log.Logger
}

func New(st *store.Store, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Service{store: st, logger: logger.WithComponent(log.ComponentLedger)}
}

// AddInput carries the fields of a new transaction. Date may be empty, in
// which case it defaults to today.
type AddInput struct {
	Type          string
	Amount        float64
	Category      string
	Date          string
	Description   string
	PaymentMethod string
}

// Add validates, normalizes and persists a new transaction. All violated
// rules are reported together in a single *core.ValidationError.
func (s *Service) Add(userID string, in AddInput) (core.Transaction, error) {
	verr := &core.ValidationError{}

	txType, typeOK := core.NormalizeType(in.Type)
	if !typeOK {
		verr.Add(fmt.Sprintf("invalid transaction type %q: must be 'income' or 'expense'", in.Type))
	}

	if !validAmount(in.Amount) {
		verr.Add("amount must be a positive number")
	}

	category := strings.TrimSpace(in.Category)
	if typeOK {
		canonical, ok := core.Normalize(category, core.CategoriesFor(txType))
		if !ok {
			verr.Add(fmt.Sprintf("invalid category %q for type %q", in.Category, txType))
		}
		category = canonical
	}

	method, ok := core.Normalize(in.PaymentMethod, core.PaymentMethods)
	if !ok {
		verr.Add(fmt.Sprintf("invalid payment method %q", in.PaymentMethod))
	}

	now := time.Now()
	date := strings.TrimSpace(in.Date)
	switch {
	case date == "":
		date = core.FormatDate(now)
	case !core.ValidDate(date):
		verr.Add(fmt.Sprintf("invalid date %q: use YYYY-MM-DD", in.Date))
	case core.IsFutureDate(date, now):
		verr.Add("date cannot be in the future")
	}

	if err := verr.Err(); err != nil {
		return core.Transaction{}, err
	}

	txs, err := s.store.LoadTransactions()
	if err != nil {
		return core.Transaction{}, err
	}

	tx := core.Transaction{
		ID:            uuid.NewString(),
		UserID:        userID,
		Type:          txType,
		Amount:        in.Amount,
		Category:      category,
		Date:          date,
		Description:   strings.TrimSpace(in.Description),
		PaymentMethod: method,
	}
	txs[userID] = append(txs[userID], tx)

	if err := s.store.SaveTransactions(txs); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.logger.Info("transaction added",
		log.FieldOperation, log.OpCreate,
		log.FieldUserID, userID,
		log.FieldRecordID, tx.ID,
		log.FieldCategory, tx.Category,
		log.FieldAmount, tx.Amount)
	return tx, nil
}

// Transactions returns a user's transactions in stored insertion order.
func (s *Service) Transactions(userID string) ([]core.Transaction, error) {
	txs, err := s.store.LoadTransactions()
	if err != nil {
		return nil, err
	}
	return txs[userID], nil
}

// Update is the allow-list of editable transaction fields. Nil fields are
// left untouched; identifiers are never editable.
type Update struct {
	Type          *string
	Amount        *float64
	Category      *string
	Date          *string
	Description   *string
	PaymentMethod *string
}

func (u Update) empty() bool {
	return u.Type == nil && u.Amount == nil && u.Category == nil &&
		u.Date == nil && u.Description == nil && u.PaymentMethod == nil
}

// Edit applies an update to a transaction found by id across all users.
// An empty update fails with core.ErrNoChanges before anything is read or
// written; an unknown id fails with core.ErrNotFound. Updated fields are
// re-validated, including the category-belongs-to-type invariant.
func (s *Service) Edit(txID string, upd Update) (core.Transaction, error) {
	if upd.empty() {
		return core.Transaction{}, core.ErrNoChanges
	}

	txs, err := s.store.LoadTransactions()
	if err != nil {
		return core.Transaction{}, err
	}

	for userID, userTxs := range txs {
		for i, tx := range userTxs {
			if tx.ID != txID {
				continue
			}

			updated, err := applyUpdate(tx, upd)
			if err != nil {
				return core.Transaction{}, err
			}

			txs[userID][i] = updated
			if err := s.store.SaveTransactions(txs); err != nil {
				return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
			}

			s.logger.Info("transaction updated",
				log.FieldOperation, log.OpUpdate,
				log.FieldUserID, userID,
				log.FieldRecordID, txID)
			return updated, nil
		}
	}

	return core.Transaction{}, core.ErrNotFound
}

func applyUpdate(tx core.Transaction, upd Update) (core.Transaction, error) {
	verr := &core.ValidationError{}

	if upd.Type != nil {
		t, ok := core.NormalizeType(*upd.Type)
		if !ok {
			verr.Add(fmt.Sprintf("invalid transaction type %q: must be 'income' or 'expense'", *upd.Type))
		} else {
			tx.Type = t
		}
	}

	if upd.Amount != nil {
		if !validAmount(*upd.Amount) {
			verr.Add("amount must be a positive number")
		} else {
			tx.Amount = *upd.Amount
		}
	}

	if upd.Category != nil {
		tx.Category = strings.TrimSpace(*upd.Category)
	}

	// The category must belong to the (possibly updated) type's set whenever
	// either side of the pair changes.
	if upd.Category != nil || upd.Type != nil {
		canonical, ok := core.Normalize(tx.Category, core.CategoriesFor(tx.Type))
		if !ok {
			verr.Add(fmt.Sprintf("invalid category %q for type %q", tx.Category, tx.Type))
		} else {
			tx.Category = canonical
		}
	}

	if upd.Date != nil {
		date := strings.TrimSpace(*upd.Date)
		switch {
		case !core.ValidDate(date):
			verr.Add(fmt.Sprintf("invalid date %q: use YYYY-MM-DD", *upd.Date))
		case core.IsFutureDate(date, time.Now()):
			verr.Add("date cannot be in the future")
		default:
			tx.Date = date
		}
	}

	if upd.Description != nil {
		tx.Description = strings.TrimSpace(*upd.Description)
	}

	if upd.PaymentMethod != nil {
		method, ok := core.Normalize(*upd.PaymentMethod, core.PaymentMethods)
		if !ok {
			verr.Add(fmt.Sprintf("invalid payment method %q", *upd.PaymentMethod))
		} else {
			tx.PaymentMethod = method
		}
	}

	if err := verr.Err(); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

// Delete removes a transaction by id. It returns false without rewriting the
// document when the id is unknown.
func (s *Service) Delete(txID string) (bool, error) {
	txs, err := s.store.LoadTransactions()
	if err != nil {
		return false, err
	}

	for userID, userTxs := range txs {
		for i, tx := range userTxs {
			if tx.ID != txID {
				continue
			}
			txs[userID] = append(userTxs[:i:i], userTxs[i+1:]...)
			if err := s.store.SaveTransactions(txs); err != nil {
				return false, fmt.Errorf("save transactions: %w", err)
			}
			s.logger.Info("transaction deleted",
				log.FieldOperation, log.OpDelete,
				log.FieldUserID, userID,
				log.FieldRecordID, txID)
			return true, nil
		}
	}

	return false, nil
}

// FindByID scans every user's ledger for a transaction id. Callers often hold
// only the id, so the search is global. A missing id yields (nil, nil).
func (s *Service) FindByID(txID string) (*core.Transaction, error) {
	txs, err := s.store.LoadTransactions()
	if err != nil {
		return nil, err
	}

	for _, userTxs := range txs {
		for _, tx := range userTxs {
			if tx.ID == txID {
				found := tx
				return &found, nil
			}
		}
	}
	return nil, nil
}

func validAmount(amount float64) bool {
	return amount > 0 && !math.IsInf(amount, 0) && !math.IsNaN(amount)
}
