package ledger

import (
	"os"
	"path/filepath"
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

func seedTransactions(t *testing.T, st *store.Store, doc map[string][]core.Transaction) {
	t.Helper()
	require.NoError(t, st.SaveTransactions(doc))
}

func TestAddNormalizesAndPersists(t *testing.T) {
	svc, st := newTestService(t)

	tx, err := svc.Add("user-1", AddInput{
		Type:          "EXPENSE",
		Amount:        25.5,
		Category:      "food",
		Date:          "2024-03-10",
		Description:   "  lunch  ",
		PaymentMethod: "credit card",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, "user-1", tx.UserID)
	assert.Equal(t, core.Expense, tx.Type)
	assert.Equal(t, "Food", tx.Category)
	assert.Equal(t, "Credit Card", tx.PaymentMethod)
	assert.Equal(t, "lunch", tx.Description)

	doc, err := st.LoadTransactions()
	require.NoError(t, err)
	require.Len(t, doc["user-1"], 1)
	assert.Equal(t, tx, doc["user-1"][0])
}

func TestAddDefaultsDateToToday(t *testing.T) {
	svc, _ := newTestService(t)

	tx, err := svc.Add("user-1", AddInput{
		Type:          "income",
		Amount:        1000,
		Category:      "Salary",
		PaymentMethod: "Bank Transfer",
	})
	require.NoError(t, err)
	assert.Equal(t, core.FormatDate(time.Now()), tx.Date)
}

func TestAddReportsAllViolationsTogether(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Add("user-1", AddInput{
		Type:          "transfer",
		Amount:        -5,
		Category:      "Food",
		Date:          "2024/03/10",
		PaymentMethod: "cheque",
	})
	require.Error(t, err)

	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Violations, 4)
	assert.Contains(t, err.Error(), "invalid transaction type")
	assert.Contains(t, err.Error(), "amount must be a positive number")
	assert.Contains(t, err.Error(), "invalid date")
	assert.Contains(t, err.Error(), "invalid payment method")
}

func TestAddRejectsCategoryFromWrongSide(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Add("user-1", AddInput{
		Type:          "income",
		Amount:        100,
		Category:      "Food",
		PaymentMethod: "Cash",
	})
	require.Error(t, err)

	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), `invalid category "Food" for type "income"`)
}

func TestAddRejectsFutureDate(t *testing.T) {
	svc, _ := newTestService(t)

	future := core.FormatDate(time.Now().AddDate(0, 0, 2))
	_, err := svc.Add("user-1", AddInput{
		Type:          "expense",
		Amount:        10,
		Category:      "Food",
		Date:          future,
		PaymentMethod: "Cash",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date cannot be in the future")
}

func TestEditEmptyUpdate(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Edit("any-id", Update{})
	assert.ErrorIs(t, err, core.ErrNoChanges)
}

func TestEditUnknownID(t *testing.T) {
	svc, _ := newTestService(t)

	amount := 10.0
	_, err := svc.Edit("missing", Update{Amount: &amount})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestEditAppliesOnlyProvidedFields(t *testing.T) {
	svc, st := newTestService(t)
	seedTransactions(t, st, map[string][]core.Transaction{
		"user-1": {{
			ID: "tx-1", UserID: "user-1", Type: core.Expense, Amount: 20,
			Category: "Food", Date: "2024-03-01", Description: "old", PaymentMethod: "Cash",
		}},
	})

	amount := 35.0
	description := "new description"
	updated, err := svc.Edit("tx-1", Update{Amount: &amount, Description: &description})
	require.NoError(t, err)

	assert.Equal(t, 35.0, updated.Amount)
	assert.Equal(t, "new description", updated.Description)
	assert.Equal(t, core.Expense, updated.Type)
	assert.Equal(t, "Food", updated.Category)
	assert.Equal(t, "2024-03-01", updated.Date)
	assert.Equal(t, "tx-1", updated.ID)
}

func TestEditValidatesCategoryAgainstNewType(t *testing.T) {
	svc, st := newTestService(t)
	seedTransactions(t, st, map[string][]core.Transaction{
		"user-1": {{
			ID: "tx-1", UserID: "user-1", Type: core.Expense, Amount: 20,
			Category: "Food", Date: "2024-03-01", PaymentMethod: "Cash",
		}},
	})

	newType := "income"
	_, err := svc.Edit("tx-1", Update{Type: &newType})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid category "Food" for type "income"`)
}

func TestEditSwitchesTypeWithMatchingCategory(t *testing.T) {
	svc, st := newTestService(t)
	seedTransactions(t, st, map[string][]core.Transaction{
		"user-1": {{
			ID: "tx-1", UserID: "user-1", Type: core.Expense, Amount: 20,
			Category: "Food", Date: "2024-03-01", PaymentMethod: "Cash",
		}},
	})

	newType := "income"
	newCategory := "salary"
	updated, err := svc.Edit("tx-1", Update{Type: &newType, Category: &newCategory})
	require.NoError(t, err)
	assert.Equal(t, core.Income, updated.Type)
	assert.Equal(t, "Salary", updated.Category)
}

func TestDeleteRemovesOnlyTarget(t *testing.T) {
	svc, st := newTestService(t)
	seedTransactions(t, st, map[string][]core.Transaction{
		"user-1": {
			{ID: "tx-1", UserID: "user-1", Type: core.Expense, Amount: 10, Category: "Food", Date: "2024-03-01", PaymentMethod: "Cash"},
			{ID: "tx-2", UserID: "user-1", Type: core.Expense, Amount: 20, Category: "Transport", Date: "2024-03-02", PaymentMethod: "Cash"},
		},
	})

	deleted, err := svc.Delete("tx-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	remaining, err := svc.Transactions("user-1")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "tx-2", remaining[0].ID)
}

func TestDeleteUnknownIDLeavesDocumentUntouched(t *testing.T) {
	svc, st := newTestService(t)
	seedTransactions(t, st, map[string][]core.Transaction{
		"user-1": {{ID: "tx-1", UserID: "user-1", Type: core.Expense, Amount: 10, Category: "Food", Date: "2024-03-01", PaymentMethod: "Cash"}},
	})

	path := filepath.Join(st.Dir(), "transactions.json")
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	deleted, err := svc.Delete("missing")
	require.NoError(t, err)
	assert.False(t, deleted)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after, "document rewritten for a no-op delete")
}

func TestFindByIDSearchesAcrossUsers(t *testing.T) {
	svc, st := newTestService(t)
	seedTransactions(t, st, map[string][]core.Transaction{
		"user-1": {{ID: "tx-1", UserID: "user-1", Type: core.Expense, Amount: 10, Category: "Food", Date: "2024-03-01", PaymentMethod: "Cash"}},
		"user-2": {{ID: "tx-2", UserID: "user-2", Type: core.Income, Amount: 50, Category: "Gift", Date: "2024-03-02", PaymentMethod: "Cash"}},
	})

	found, err := svc.FindByID("tx-2")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "user-2", found.UserID)

	missing, err := svc.FindByID("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTransactionsForUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)

	txs, err := svc.Transactions("ghost")
	require.NoError(t, err)
	assert.Empty(t, txs)
}
