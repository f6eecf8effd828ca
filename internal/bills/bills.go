// Package bills manages bill reminders: creation, payment, deletion and the
// due-date queries behind reminders and notifications.
package bills

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

type Service struct {
	store  *store.Store
	logger *log.Logger
}

func New(st *store.Store, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Service{store: st, logger: logger.WithComponent(log.ComponentBills)}
}

// AddInput carries the fields of a new bill reminder.
type AddInput struct {
	Amount             float64
	BillType           string
	Category           string
	Description        string
	ExpectedDate       string
	ReminderDate       string
	Recurring          bool
	RecurrenceInterval string
}

// Add validates and persists a new bill reminder. New bills start Pending
// with no notification sent. All violated rules are reported together.
func (s *Service) Add(userID string, in AddInput) (core.BillReminder, error) {
	verr := &core.ValidationError{}

	if !(in.Amount > 0) || math.IsInf(in.Amount, 0) || math.IsNaN(in.Amount) {
		verr.Add("amount must be a positive number")
	}

	billType, typeOK := core.Normalize(in.BillType, core.BillTypes)
	if !typeOK {
		verr.Add(fmt.Sprintf("invalid bill type %q", in.BillType))
	}

	category := strings.ToLower(strings.TrimSpace(in.Category))
	if typeOK {
		canonical, ok := core.Normalize(category, core.BillCategories[billType])
		if !ok {
			verr.Add(fmt.Sprintf("invalid category %q for bill type %q", in.Category, billType))
		}
		category = canonical
	}

	if strings.TrimSpace(in.Description) == "" {
		verr.Add("description cannot be empty")
	}

	expectedOK := core.ValidDate(in.ExpectedDate)
	if !expectedOK {
		verr.Add(fmt.Sprintf("invalid expected date %q: use YYYY-MM-DD", in.ExpectedDate))
	}
	reminderOK := core.ValidDate(in.ReminderDate)
	if !reminderOK {
		verr.Add(fmt.Sprintf("invalid reminder date %q: use YYYY-MM-DD", in.ReminderDate))
	}
	if expectedOK && reminderOK && in.ReminderDate >= in.ExpectedDate {
		verr.Add("reminder date must be strictly before expected date")
	}

	var interval *core.RecurrenceInterval
	if in.Recurring {
		iv, ok := core.NormalizeInterval(in.RecurrenceInterval)
		if !ok {
			verr.Add("recurrence interval is required for recurring bills: daily, weekly, monthly or yearly")
		} else {
			interval = &iv
		}
	}

	if err := verr.Err(); err != nil {
		return core.BillReminder{}, err
	}

	bills, err := s.store.LoadBills()
	if err != nil {
		return core.BillReminder{}, err
	}

	bill := core.BillReminder{
		ID:                 uuid.NewString(),
		UserID:             userID,
		Amount:             in.Amount,
		BillType:           billType,
		Category:           category,
		Description:        strings.TrimSpace(in.Description),
		ExpectedDate:       in.ExpectedDate,
		ReminderDate:       in.ReminderDate,
		Status:             core.StatusPending,
		Recurring:          in.Recurring,
		RecurrenceInterval: interval,
		NotificationSent:   false,
		CreatedAt:          time.Now().Format(core.TimestampLayout),
	}
	bills[userID] = append(bills[userID], bill)

	if err := s.store.SaveBills(bills); err != nil {
		return core.BillReminder{}, fmt.Errorf("save bill: %w", err)
	}

	s.logger.Info("bill reminder added",
		log.FieldOperation, log.OpCreate,
		log.FieldUserID, userID,
		log.FieldRecordID, bill.ID,
		log.FieldBillType, bill.BillType,
		log.FieldAmount, bill.Amount)
	return bill, nil
}

// Bills returns a user's bill reminders in stored order.
func (s *Service) Bills(userID string) ([]core.BillReminder, error) {
	bills, err := s.store.LoadBills()
	if err != nil {
		return nil, err
	}
	return bills[userID], nil
}

// MarkPaid moves a bill to its terminal Paid state, stamping today as the
// paid date and suppressing further notifications. Returns false without an
// error when the bill is missing or already paid.
func (s *Service) MarkPaid(userID, billID string) (bool, error) {
	bills, err := s.store.LoadBills()
	if err != nil {
		return false, err
	}

	for i, bill := range bills[userID] {
		if bill.ID != billID {
			continue
		}
		if bill.IsPaid() {
			return false, nil
		}

		paidDate := core.FormatDate(time.Now())
		bills[userID][i].Status = core.StatusPaid
		bills[userID][i].PaidDate = &paidDate
		bills[userID][i].NotificationSent = true

		if err := s.store.SaveBills(bills); err != nil {
			return false, fmt.Errorf("save bills: %w", err)
		}
		s.logger.Info("bill marked paid",
			log.FieldOperation, log.OpUpdate,
			log.FieldUserID, userID,
			log.FieldRecordID, billID)
		return true, nil
	}

	return false, nil
}

// StopRecurring clears the recurring flag of a bill and latches its
// notification. Returns false when the bill is missing or not recurring.
func (s *Service) StopRecurring(userID, billID string) (bool, error) {
	bills, err := s.store.LoadBills()
	if err != nil {
		return false, err
	}

	for i, bill := range bills[userID] {
		if bill.ID != billID {
			continue
		}
		if !bill.Recurring {
			return false, nil
		}

		bills[userID][i].Recurring = false
		bills[userID][i].NotificationSent = true

		if err := s.store.SaveBills(bills); err != nil {
			return false, fmt.Errorf("save bills: %w", err)
		}
		s.logger.Info("recurring reminders stopped",
			log.FieldOperation, log.OpUpdate,
			log.FieldUserID, userID,
			log.FieldRecordID, billID)
		return true, nil
	}

	return false, nil
}

// Delete removes a bill reminder. Returns false without rewriting the
// document when the bill is unknown.
func (s *Service) Delete(userID, billID string) (bool, error) {
	bills, err := s.store.LoadBills()
	if err != nil {
		return false, err
	}

	userBills := bills[userID]
	for i, bill := range userBills {
		if bill.ID != billID {
			continue
		}
		bills[userID] = append(userBills[:i:i], userBills[i+1:]...)
		if err := s.store.SaveBills(bills); err != nil {
			return false, fmt.Errorf("save bills: %w", err)
		}
		s.logger.Info("bill deleted",
			log.FieldOperation, log.OpDelete,
			log.FieldUserID, userID,
			log.FieldRecordID, billID)
		return true, nil
	}

	return false, nil
}

// Overdue returns a user's unpaid bills whose expected date fell strictly
// before today.
func (s *Service) Overdue(userID string, today time.Time) ([]core.BillReminder, error) {
	userBills, err := s.Bills(userID)
	if err != nil {
		return nil, err
	}

	var overdue []core.BillReminder
	for _, bill := range userBills {
		if bill.IsPaid() {
			continue
		}
		days, err := core.DaysUntil(bill.ExpectedDate, today)
		if err != nil {
			continue
		}
		if days < 0 {
			overdue = append(overdue, bill)
		}
	}
	return overdue, nil
}

// Upcoming returns a user's unpaid bills due within horizonDays from today,
// today included.
func (s *Service) Upcoming(userID string, today time.Time, horizonDays int) ([]core.BillReminder, error) {
	userBills, err := s.Bills(userID)
	if err != nil {
		return nil, err
	}

	var upcoming []core.BillReminder
	for _, bill := range userBills {
		if bill.IsPaid() {
			continue
		}
		days, err := core.DaysUntil(bill.ExpectedDate, today)
		if err != nil {
			continue
		}
		if days >= 0 && days <= horizonDays {
			upcoming = append(upcoming, bill)
		}
	}
	return upcoming, nil
}
