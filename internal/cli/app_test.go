package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finman/internal/config"
	"finman/internal/store"
)

func newTestApp(t *testing.T, script string) (*App, *bytes.Buffer) {
	t.Helper()
	cfg := &config.Config{DataDir: t.TempDir(), UpcomingDays: 7, LogLevel: "error"}
	st := store.New(cfg.DataDir, nil)
	var out bytes.Buffer
	return NewApp(cfg, st, nil, strings.NewReader(script), &out), &out
}

func TestRunRegisterAddAndListTransactions(t *testing.T) {
	script := strings.Join([]string{
		"2",          // create account
		"alice",      // username
		"pw",         // password
		"eur",        // currency
		"1",          // main menu: transactions
		"1",          // add transaction
		"expense",    // type
		"12.50",      // amount
		"food",       // category
		"2024-03-10", // date
		"lunch",      // description
		"cash",       // payment method
		"1",          // main menu: transactions
		"2",          // view all
		"7",          // logout
		"3",          // exit
	}, "\n") + "\n"

	app, out := newTestApp(t, script)
	require.NoError(t, app.Run())

	output := out.String()
	assert.Contains(t, output, "Account created. Welcome, alice!")
	assert.Contains(t, output, "Transaction added")
	assert.Contains(t, output, "Your Transactions (1)")
	assert.Contains(t, output, "Food")
	assert.Contains(t, output, "lunch")
	assert.Contains(t, output, "Logged out alice.")
}

func TestRunRejectsWrongPassword(t *testing.T) {
	script := strings.Join([]string{
		"2", "alice", "pw", "usd", // register
		"7",                  // logout
		"1", "alice", "nope", // login with wrong password
		"3", // exit
	}, "\n") + "\n"

	app, out := newTestApp(t, script)
	require.NoError(t, app.Run())

	assert.Contains(t, out.String(), "Login failed")
}

func TestRunShowsAllValidationViolations(t *testing.T) {
	script := strings.Join([]string{
		"2", "alice", "pw", "usd",
		"1",        // transactions
		"1",        // add
		"transfer", // bad type
		"-3",       // bad amount
		"stuff",    // bad category (type unknown, category check skipped)
		"2024/01/01",
		"desc",
		"cheque", // bad payment method
		"8",      // exit
	}, "\n") + "\n"

	app, out := newTestApp(t, script)
	require.NoError(t, app.Run())

	output := out.String()
	assert.Contains(t, output, "Please fix the following:")
	assert.Contains(t, output, "invalid transaction type")
	assert.Contains(t, output, "amount must be a positive number")
	assert.Contains(t, output, "invalid payment method")
}

func TestRunBudgetFlow(t *testing.T) {
	script := strings.Join([]string{
		"2", "alice", "pw", "usd",
		"3",       // budgets
		"1",       // set
		"food",    // category
		"300",     // amount
		"2024-02", // month
		"3",       // budgets
		"2",       // status
		"2024-02", // month
		"8",       // exit
	}, "\n") + "\n"

	app, out := newTestApp(t, script)
	require.NoError(t, app.Run())

	output := out.String()
	assert.Contains(t, output, "Budget set.")
	assert.Contains(t, output, "Food")
	assert.Contains(t, output, "300.00")
}

func TestNewAppDefaultsMissingStreams(t *testing.T) {
	cfg := &config.Config{DataDir: t.TempDir(), UpcomingDays: 7}
	st := store.New(cfg.DataDir, nil)
	app := NewApp(cfg, st, nil, nil, nil)
	require.NotNil(t, app.in)
	require.NotNil(t, app.out)
}
