package bills

import (
	"fmt"
	"time"

	"finman/internal/core"
	"finman/internal/log"
)

// Notification states. A pending bill stays silent until its reminder date,
// then surfaces exactly one of upcoming, due-today or overdue; after that the
// notification is latched and the bill reports none until paid or reset.
const (
	StateNone     State = "none"
	StateUpcoming State = "upcoming"
	StateDueToday State = "due_today"
	StateOverdue  State = "overdue"
)

type State string

// Notification pairs a bill with its surfaced state. Days carries days left
// for upcoming bills and days overdue for overdue ones; it is zero otherwise.
type Notification struct {
	Bill  core.BillReminder
	State State
	Days  int
}

// NotificationState derives a bill's notification state for a given day from
// its status, latch and dates alone.
func NotificationState(bill core.BillReminder, today time.Time) Notification {
	n := Notification{Bill: bill, State: StateNone}

	if bill.IsPaid() || bill.NotificationSent {
		return n
	}

	untilReminder, err := core.DaysUntil(bill.ReminderDate, today)
	if err != nil || untilReminder > 0 {
		return n
	}

	untilDue, err := core.DaysUntil(bill.ExpectedDate, today)
	if err != nil {
		return n
	}

	switch {
	case untilDue > 0:
		n.State = StateUpcoming
		n.Days = untilDue
	case untilDue == 0:
		n.State = StateDueToday
	default:
		n.State = StateOverdue
		n.Days = -untilDue
	}
	return n
}

// CollectNotifications surfaces every due notification for a user and latches
// the bills so each one notifies at most once. The latch is persisted.
func (s *Service) CollectNotifications(userID string, today time.Time) ([]Notification, error) {
	bills, err := s.store.LoadBills()
	if err != nil {
		return nil, err
	}

	var due []Notification
	for i, bill := range bills[userID] {
		n := NotificationState(bill, today)
		if n.State == StateNone {
			continue
		}
		due = append(due, n)
		bills[userID][i].NotificationSent = true
	}

	if len(due) == 0 {
		return nil, nil
	}

	if err := s.store.SaveBills(bills); err != nil {
		return nil, fmt.Errorf("save notification state: %w", err)
	}

	s.logger.Info("notifications surfaced",
		log.FieldUserID, userID,
		log.FieldRowCount, len(due))
	return due, nil
}
