// Package store persists the application's collections as whole JSON
// documents. Every logical operation loads a full document, mutates it in
// memory and writes the full document back; there is no caching between
// calls and no merge on concurrent writers (last write wins).
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"finman/internal/core"
	"finman/internal/log"
)

const (
	usersFile        = "users.json"
	transactionsFile = "transactions.json"
	billsFile        = "bills.json"
	budgetsFile      = "budgets.json"
)

// BudgetDoc maps user id -> "YYYY-MM" month key -> category -> amount.
type BudgetDoc = map[string]map[string]map[string]float64

// Store reads and writes the JSON documents under a single data directory.
// It is constructed once per session and handed to each engine; it holds no
// state beyond the directory path.
type Store struct {
	dir    string
	logger *log.Logger
}

// New creates a store rooted at dir. The directory is created on first save
// if it does not exist.
func New(dir string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentStore)
	}
	return &Store{dir: dir, logger: logger}
}

// Dir returns the data directory path.
func (s *Store) Dir() string {
	return s.dir
}

// LoadUsers loads the users document, keyed by username.
func (s *Store) LoadUsers() (map[string]core.User, error) {
	return loadDoc[core.User](s, usersFile)
}

// SaveUsers writes the users document.
func (s *Store) SaveUsers(users map[string]core.User) error {
	return saveDoc(s, usersFile, users)
}

// LoadTransactions loads the transactions document, keyed by user id.
func (s *Store) LoadTransactions() (map[string][]core.Transaction, error) {
	return loadDoc[[]core.Transaction](s, transactionsFile)
}

// SaveTransactions writes the transactions document.
func (s *Store) SaveTransactions(txs map[string][]core.Transaction) error {
	return saveDoc(s, transactionsFile, txs)
}

// LoadBills loads the bills document, keyed by user id.
func (s *Store) LoadBills() (map[string][]core.BillReminder, error) {
	return loadDoc[[]core.BillReminder](s, billsFile)
}

// SaveBills writes the bills document.
func (s *Store) SaveBills(bills map[string][]core.BillReminder) error {
	return saveDoc(s, billsFile, bills)
}

// LoadBudgets loads the budgets document.
func (s *Store) LoadBudgets() (BudgetDoc, error) {
	return loadDoc[map[string]map[string]float64](s, budgetsFile)
}

// SaveBudgets writes the budgets document.
func (s *Store) SaveBudgets(budgets BudgetDoc) error {
	return saveDoc(s, budgetsFile, budgets)
}

// loadDoc reads one document. A missing file is initialized to an empty
// mapping and persisted; an empty file is treated as an empty mapping.
func loadDoc[T any](s *Store, name string) (map[string]T, error) {
	path := filepath.Join(s.dir, name)

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		empty := map[string]T{}
		if err := saveDoc(s, name, empty); err != nil {
			return nil, fmt.Errorf("initialize %s: %w", name, err)
		}
		return empty, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]T{}, nil
	}

	var doc map[string]T
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	if doc == nil {
		doc = map[string]T{}
	}
	return doc, nil
}

// saveDoc writes one document atomically: marshal, write to a temp file in
// the same directory, rename over the target. A failed write never truncates
// the live file.
func saveDoc[T any](s *Store, name string, doc map[string]T) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", name, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", name, err)
	}

	if err := os.Rename(tmpPath, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpPath)
		s.logger.Error("document save failed", log.FieldDocument, name, log.FieldError, err)
		return fmt.Errorf("replace %s: %w", name, err)
	}

	s.logger.Debug("document saved", log.FieldDocument, name)
	return nil
}
