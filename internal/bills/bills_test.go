package bills

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finman/internal/core"
	"finman/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st := store.New(t.TempDir(), nil)
	return New(st, nil), st
}

func validInput() AddInput {
	return AddInput{
		Amount:       120,
		BillType:     "utility",
		Category:     "electricity",
		Description:  "power bill",
		ExpectedDate: "2024-02-10",
		ReminderDate: "2024-02-01",
	}
}

func TestAddCreatesPendingBill(t *testing.T) {
	svc, st := newTestService(t)

	bill, err := svc.Add("user-1", validInput())
	require.NoError(t, err)

	assert.NotEmpty(t, bill.ID)
	assert.Equal(t, core.StatusPending, bill.Status)
	assert.False(t, bill.NotificationSent)
	assert.Nil(t, bill.PaidDate)
	assert.Nil(t, bill.RecurrenceInterval)
	assert.NotEmpty(t, bill.CreatedAt)

	doc, err := st.LoadBills()
	require.NoError(t, err)
	require.Len(t, doc["user-1"], 1)
	assert.Equal(t, bill, doc["user-1"][0])
}

func TestAddNormalizesTypeAndCategory(t *testing.T) {
	svc, _ := newTestService(t)

	in := validInput()
	in.BillType = "UTILITY"
	in.Category = "Electricity"
	bill, err := svc.Add("user-1", in)
	require.NoError(t, err)
	assert.Equal(t, "utility", bill.BillType)
	assert.Equal(t, "electricity", bill.Category)
}

func TestAddRecurringRequiresInterval(t *testing.T) {
	svc, _ := newTestService(t)

	in := validInput()
	in.Recurring = true
	_, err := svc.Add("user-1", in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recurrence interval is required")

	in.RecurrenceInterval = "monthly"
	bill, err := svc.Add("user-1", in)
	require.NoError(t, err)
	require.NotNil(t, bill.RecurrenceInterval)
	assert.Equal(t, core.Monthly, *bill.RecurrenceInterval)
}

func TestAddRejectsReminderOnOrAfterExpected(t *testing.T) {
	svc, _ := newTestService(t)

	in := validInput()
	in.ReminderDate = in.ExpectedDate
	_, err := svc.Add("user-1", in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reminder date must be strictly before expected date")

	in.ReminderDate = "2024-02-15"
	_, err = svc.Add("user-1", in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reminder date must be strictly before expected date")
}

func TestAddRejectsCategoryOutsideBillType(t *testing.T) {
	svc, _ := newTestService(t)

	in := validInput()
	in.BillType = "subscription"
	in.Category = "electricity"
	_, err := svc.Add("user-1", in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid category "electricity" for bill type "subscription"`)
}

func TestAddReportsAllViolationsTogether(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Add("user-1", AddInput{
		Amount:       0,
		BillType:     "taxes",
		Description:  "   ",
		ExpectedDate: "2024-13-01",
		ReminderDate: "bad",
		Recurring:    true,
	})
	require.Error(t, err)

	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.GreaterOrEqual(t, len(verr.Violations), 5)
}

func TestMarkPaid(t *testing.T) {
	svc, st := newTestService(t)
	bill, err := svc.Add("user-1", validInput())
	require.NoError(t, err)

	paid, err := svc.MarkPaid("user-1", bill.ID)
	require.NoError(t, err)
	assert.True(t, paid)

	doc, err := st.LoadBills()
	require.NoError(t, err)
	stored := doc["user-1"][0]
	assert.Equal(t, core.StatusPaid, stored.Status)
	require.NotNil(t, stored.PaidDate)
	assert.Equal(t, core.FormatDate(time.Now()), *stored.PaidDate)
	assert.True(t, stored.NotificationSent)
}

func TestMarkPaidIsNotRepeatable(t *testing.T) {
	svc, _ := newTestService(t)
	bill, err := svc.Add("user-1", validInput())
	require.NoError(t, err)

	_, err = svc.MarkPaid("user-1", bill.ID)
	require.NoError(t, err)

	again, err := svc.MarkPaid("user-1", bill.ID)
	require.NoError(t, err)
	assert.False(t, again)
}

func TestMarkPaidUnknownBill(t *testing.T) {
	svc, _ := newTestService(t)

	paid, err := svc.MarkPaid("user-1", "missing")
	require.NoError(t, err)
	assert.False(t, paid)
}

func TestStopRecurring(t *testing.T) {
	svc, st := newTestService(t)

	in := validInput()
	in.Recurring = true
	in.RecurrenceInterval = "monthly"
	bill, err := svc.Add("user-1", in)
	require.NoError(t, err)

	stopped, err := svc.StopRecurring("user-1", bill.ID)
	require.NoError(t, err)
	assert.True(t, stopped)

	doc, err := st.LoadBills()
	require.NoError(t, err)
	stored := doc["user-1"][0]
	assert.False(t, stored.Recurring)
	assert.True(t, stored.NotificationSent)

	again, err := svc.StopRecurring("user-1", bill.ID)
	require.NoError(t, err)
	assert.False(t, again, "stop on a non-recurring bill should be refused")
}

func TestDeleteBill(t *testing.T) {
	svc, _ := newTestService(t)
	bill, err := svc.Add("user-1", validInput())
	require.NoError(t, err)

	deleted, err := svc.Delete("user-1", bill.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	remaining, err := svc.Bills("user-1")
	require.NoError(t, err)
	assert.Empty(t, remaining)

	deleted, err = svc.Delete("user-1", bill.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestOverdueAndUpcoming(t *testing.T) {
	svc, st := newTestService(t)

	paidDate := "2024-02-03"
	require.NoError(t, st.SaveBills(map[string][]core.BillReminder{
		"user-1": {
			{ID: "due-soon", UserID: "user-1", Status: core.StatusPending, ExpectedDate: "2024-02-10", ReminderDate: "2024-02-01"},
			{ID: "due-today", UserID: "user-1", Status: core.StatusPending, ExpectedDate: "2024-02-05", ReminderDate: "2024-02-01"},
			{ID: "past-due", UserID: "user-1", Status: core.StatusPending, ExpectedDate: "2024-02-01", ReminderDate: "2024-01-25"},
			{ID: "already-paid", UserID: "user-1", Status: core.StatusPaid, PaidDate: &paidDate, ExpectedDate: "2024-02-01", ReminderDate: "2024-01-25"},
			{ID: "far-out", UserID: "user-1", Status: core.StatusPending, ExpectedDate: "2024-03-20", ReminderDate: "2024-03-10"},
		},
	}))

	today := time.Date(2024, 2, 5, 10, 0, 0, 0, time.UTC)

	overdue, err := svc.Overdue("user-1", today)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "past-due", overdue[0].ID)

	upcoming, err := svc.Upcoming("user-1", today, 7)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, "due-soon", upcoming[0].ID)
	assert.Equal(t, "due-today", upcoming[1].ID)
}
