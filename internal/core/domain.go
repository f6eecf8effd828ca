package core

import (
	"errors"
	"strings"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	StatusPending BillStatus = "Pending"
	StatusPaid    BillStatus = "Paid"
)

const (
	Daily   RecurrenceInterval = "daily"
	Weekly  RecurrenceInterval = "weekly"
	Monthly RecurrenceInterval = "monthly"
	Yearly  RecurrenceInterval = "yearly"
)

type (
	TransactionType    string
	BillStatus         string
	RecurrenceInterval string

	// User is an account record, keyed by username in the users document.
	User struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		PasswordHash string `json:"password_hash"`
		Currency     string `json:"currency"`
	}

	// Transaction is a single ledger entry owned by one user.
	Transaction struct {
		ID            string          `json:"transaction_id"`
		UserID        string          `json:"user_id"`
		Type          TransactionType `json:"type"`
		Amount        float64         `json:"amount"`
		Category      string          `json:"category"`
		Date          string          `json:"date"`
		Description   string          `json:"description"`
		PaymentMethod string          `json:"payment_method"`
	}

	// BillReminder tracks an expected payment. Lifecycle: created Pending,
	// surfaces at most one notification, ends Paid (terminal) or deleted.
	BillReminder struct {
		ID                 string              `json:"bill_id"`
		UserID             string              `json:"user_id"`
		Amount             float64             `json:"amount"`
		BillType           string              `json:"bill_type"`
		Category           string              `json:"category"`
		Description        string              `json:"description"`
		ExpectedDate       string              `json:"expected_date"`
		ReminderDate       string              `json:"reminder_date"`
		Status             BillStatus          `json:"status"`
		Recurring          bool                `json:"recurring"`
		RecurrenceInterval *RecurrenceInterval `json:"recurrence_interval"`
		PaidDate           *string             `json:"paid_date"`
		NotificationSent   bool                `json:"notification_sent"`
		CreatedAt          string              `json:"created_at"`
	}
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrNoChanges = errors.New("no valid changes")
	ErrNoBudgets = errors.New("no budgets set for this month")
	ErrNoData    = errors.New("no transactions for this period")

	ErrUserExists      = errors.New("username already exists")
	ErrUnknownUser     = errors.New("username not found")
	ErrWrongPassword   = errors.New("incorrect password")
	ErrEmptyPassword   = errors.New("password cannot be empty")
	ErrEmptyUsername   = errors.New("username cannot be empty")
	ErrInvalidCurrency = errors.New("invalid currency")
)

// ValidationError aggregates every violated rule of one input so callers can
// surface all problems in a single round-trip.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// Add records a violation.
func (e *ValidationError) Add(msg string) {
	e.Violations = append(e.Violations, msg)
}

// Err returns the error when at least one violation was recorded, nil otherwise.
func (e *ValidationError) Err() error {
	if len(e.Violations) == 0 {
		return nil
	}
	return e
}

// IsPaid reports whether the bill reached its terminal state.
func (b BillReminder) IsPaid() bool {
	return b.Status == StatusPaid
}
