// Package users manages account registration, authentication and settings.
package users

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

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
	return &Service{store: st, logger: logger.WithComponent(log.ComponentUsers)}
}

// Register creates a new account with a unique username and a bcrypt password
// hash.
func (s *Service) Register(name, password, currency string) (core.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.User{}, core.ErrEmptyUsername
	}
	if strings.TrimSpace(password) == "" {
		return core.User{}, core.ErrEmptyPassword
	}
	currency, ok := core.Normalize(strings.ToUpper(currency), core.Currencies)
	if !ok {
		return core.User{}, core.ErrInvalidCurrency
	}

	allUsers, err := s.store.LoadUsers()
	if err != nil {
		return core.User{}, err
	}
	if _, exists := allUsers[name]; exists {
		return core.User{}, core.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return core.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := core.User{
		ID:           uuid.NewString(),
		Name:         name,
		PasswordHash: string(hash),
		Currency:     currency,
	}
	allUsers[name] = user

	if err := s.store.SaveUsers(allUsers); err != nil {
		return core.User{}, fmt.Errorf("save user: %w", err)
	}

	s.logger.Info("user registered",
		log.FieldOperation, log.OpCreate,
		log.FieldUsername, name,
		log.FieldUserID, user.ID)
	return user, nil
}

// Authenticate verifies a username/password pair and returns the account.
func (s *Service) Authenticate(name, password string) (core.User, error) {
	allUsers, err := s.store.LoadUsers()
	if err != nil {
		return core.User{}, err
	}

	user, exists := allUsers[strings.TrimSpace(name)]
	if !exists {
		return core.User{}, core.ErrUnknownUser
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return core.User{}, core.ErrWrongPassword
	}
	return user, nil
}

// ChangePassword replaces an account's password after verifying the old one.
func (s *Service) ChangePassword(name, oldPassword, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return core.ErrEmptyPassword
	}

	allUsers, err := s.store.LoadUsers()
	if err != nil {
		return err
	}

	user, exists := allUsers[name]
	if !exists {
		return core.ErrUnknownUser
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return core.ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	allUsers[name] = user

	if err := s.store.SaveUsers(allUsers); err != nil {
		return fmt.Errorf("save password change: %w", err)
	}

	s.logger.Info("password changed", log.FieldUsername, name)
	return nil
}

// UpdateCurrency sets an account's preferred currency.
func (s *Service) UpdateCurrency(name, currency string) error {
	currency, ok := core.Normalize(strings.ToUpper(currency), core.Currencies)
	if !ok {
		return core.ErrInvalidCurrency
	}

	allUsers, err := s.store.LoadUsers()
	if err != nil {
		return err
	}

	user, exists := allUsers[name]
	if !exists {
		return core.ErrUnknownUser
	}
	user.Currency = currency
	allUsers[name] = user

	if err := s.store.SaveUsers(allUsers); err != nil {
		return fmt.Errorf("save currency update: %w", err)
	}

	s.logger.Info("currency updated", log.FieldUsername, name, "currency", currency)
	return nil
}

// Delete removes an account after verifying its password. Records owned by
// the account stay in the other documents, keyed by the dead user id, until
// PurgeData is called explicitly.
func (s *Service) Delete(name, password string) error {
	allUsers, err := s.store.LoadUsers()
	if err != nil {
		return err
	}

	user, exists := allUsers[name]
	if !exists {
		return core.ErrUnknownUser
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return core.ErrWrongPassword
	}

	delete(allUsers, name)
	if err := s.store.SaveUsers(allUsers); err != nil {
		return fmt.Errorf("save user deletion: %w", err)
	}

	s.logger.Info("user deleted", log.FieldUsername, name, log.FieldUserID, user.ID)
	return nil
}

// PurgeData removes every transaction, bill and budget keyed by a user id.
// Meant for cleanup after account deletion; no-ops silently per document that
// holds nothing for the id.
func (s *Service) PurgeData(userID string) error {
	txs, err := s.store.LoadTransactions()
	if err != nil {
		return err
	}
	if _, ok := txs[userID]; ok {
		delete(txs, userID)
		if err := s.store.SaveTransactions(txs); err != nil {
			return fmt.Errorf("purge transactions: %w", err)
		}
	}

	userBills, err := s.store.LoadBills()
	if err != nil {
		return err
	}
	if _, ok := userBills[userID]; ok {
		delete(userBills, userID)
		if err := s.store.SaveBills(userBills); err != nil {
			return fmt.Errorf("purge bills: %w", err)
		}
	}

	budgets, err := s.store.LoadBudgets()
	if err != nil {
		return err
	}
	if _, ok := budgets[userID]; ok {
		delete(budgets, userID)
		if err := s.store.SaveBudgets(budgets); err != nil {
			return fmt.Errorf("purge budgets: %w", err)
		}
	}

	s.logger.Info("user data purged", log.FieldUserID, userID)
	return nil
}

// List returns every account.
func (s *Service) List() ([]core.User, error) {
	allUsers, err := s.store.LoadUsers()
	if err != nil {
		return nil, err
	}
	list := make([]core.User, 0, len(allUsers))
	for _, user := range allUsers {
		list = append(list, user)
	}
	return list, nil
}

// ByName looks up an account by username; nil when absent.
func (s *Service) ByName(name string) (*core.User, error) {
	allUsers, err := s.store.LoadUsers()
	if err != nil {
		return nil, err
	}
	if user, ok := allUsers[name]; ok {
		return &user, nil
	}
	return nil, nil
}
