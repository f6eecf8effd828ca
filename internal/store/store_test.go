package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finman/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(t.TempDir(), nil)
}

func TestLoadInitializesMissingDocument(t *testing.T) {
	st := newTestStore(t)

	users, err := st.LoadUsers()
	require.NoError(t, err)
	assert.Empty(t, users)

	data, err := os.ReadFile(filepath.Join(st.Dir(), "users.json"))
	require.NoError(t, err)
	assert.Equal(t, "{}", strings.TrimSpace(string(data)))
}

func TestLoadTreatsEmptyFileAsEmptyDocument(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(st.Dir(), "transactions.json"), nil, 0o644))

	txs, err := st.LoadTransactions()
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestLoadRejectsMalformedDocument(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(st.Dir(), "bills.json"), []byte("{not json"), 0o644))

	_, err := st.LoadBills()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode bills.json")
}

func TestTransactionsRoundTrip(t *testing.T) {
	st := newTestStore(t)

	doc := map[string][]core.Transaction{
		"user-1": {
			{
				ID:            "tx-1",
				UserID:        "user-1",
				Type:          core.Expense,
				Amount:        42.5,
				Category:      "Food",
				Date:          "2024-03-10",
				Description:   "groceries",
				PaymentMethod: "Cash",
			},
		},
	}
	require.NoError(t, st.SaveTransactions(doc))

	loaded, err := st.LoadTransactions()
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)
}

func TestBillsRoundTripKeepsNullableFields(t *testing.T) {
	st := newTestStore(t)

	monthly := core.Monthly
	paid := "2024-03-01"
	doc := map[string][]core.BillReminder{
		"user-1": {
			{
				ID:                 "bill-1",
				UserID:             "user-1",
				Amount:             120,
				BillType:           "utility",
				Category:           "electricity",
				Description:        "power",
				ExpectedDate:       "2024-03-10",
				ReminderDate:       "2024-03-01",
				Status:             core.StatusPending,
				Recurring:          true,
				RecurrenceInterval: &monthly,
				CreatedAt:          "2024-02-01 09:00:00",
			},
			{
				ID:           "bill-2",
				UserID:       "user-1",
				Amount:       15,
				BillType:     "subscription",
				Category:     "netflix",
				Description:  "streaming",
				ExpectedDate: "2024-02-28",
				ReminderDate: "2024-02-20",
				Status:       core.StatusPaid,
				PaidDate:     &paid,
				CreatedAt:    "2024-02-01 09:00:00",
			},
		},
	}
	require.NoError(t, st.SaveBills(doc))

	loaded, err := st.LoadBills()
	require.NoError(t, err)
	require.Len(t, loaded["user-1"], 2)
	require.NotNil(t, loaded["user-1"][0].RecurrenceInterval)
	assert.Equal(t, core.Monthly, *loaded["user-1"][0].RecurrenceInterval)
	assert.Nil(t, loaded["user-1"][0].PaidDate)
	require.NotNil(t, loaded["user-1"][1].PaidDate)
	assert.Equal(t, paid, *loaded["user-1"][1].PaidDate)
	assert.Nil(t, loaded["user-1"][1].RecurrenceInterval)
}

func TestBudgetsRoundTrip(t *testing.T) {
	st := newTestStore(t)

	doc := BudgetDoc{
		"user-1": {
			"2024-03": {"Food": 300, "Transport": 80},
		},
	}
	require.NoError(t, st.SaveBudgets(doc))

	loaded, err := st.LoadBudgets()
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)
}

func TestSaveAfterLoadIsIdempotent(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.SaveTransactions(map[string][]core.Transaction{
		"user-1": {
			{ID: "tx-1", UserID: "user-1", Type: core.Expense, Amount: 10, Category: "Food", Date: "2024-01-01", PaymentMethod: "Cash"},
		},
	}))

	path := filepath.Join(st.Dir(), "transactions.json")
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	loaded, err := st.LoadTransactions()
	require.NoError(t, err)
	require.NoError(t, st.SaveTransactions(loaded))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSaveCreatesDataDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	st := New(dir, nil)

	require.NoError(t, st.SaveUsers(map[string]core.User{}))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.SaveUsers(map[string]core.User{"alice": {ID: "u1", Name: "alice"}}))

	entries, err := os.ReadDir(st.Dir())
	require.NoError(t, err)
	for _, entry := range entries {
		assert.False(t, strings.Contains(entry.Name(), ".tmp-"), "leftover temp file %s", entry.Name())
	}
}

func TestSaveIsWholeDocumentReplace(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.SaveUsers(map[string]core.User{
		"alice": {ID: "u1", Name: "alice"},
		"bob":   {ID: "u2", Name: "bob"},
	}))
	require.NoError(t, st.SaveUsers(map[string]core.User{
		"alice": {ID: "u1", Name: "alice"},
	}))

	loaded, err := st.LoadUsers()
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
	assert.NotContains(t, loaded, "bob")
}
