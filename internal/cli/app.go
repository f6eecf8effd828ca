package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"finman/internal/budget"
	"finman/internal/bills"
	"finman/internal/config"
	"finman/internal/core"
	"finman/internal/ledger"
	"finman/internal/log"
	"finman/internal/reports"
	"finman/internal/store"
	"finman/internal/users"
)

// App is the interactive menu front end. It owns one instance of every
// engine; all state lives in the store, the App only tracks who is logged in.
type App struct {
	in    *bufio.Reader
	rawIn io.Reader
	out   io.Writer

	cfg    *config.Config
	logger *log.Logger

	users   *users.Service
	ledger  *ledger.Service
	bills   *bills.Service
	budget  *budget.Service
	reports *reports.Service

	current *core.User
}

func NewApp(cfg *config.Config, st *store.Store, logger *log.Logger, in io.Reader, out io.Writer) *App {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &App{
		in:      bufio.NewReader(in),
		rawIn:   in,
		out:     out,
		cfg:     cfg,
		logger:  logger.WithComponent(log.ComponentCLI),
		users:   users.New(st, logger),
		ledger:  ledger.New(st, logger),
		bills:   bills.New(st, logger),
		budget:  budget.New(st, logger),
		reports: reports.New(st, logger),
	}
}

// Run drives the login/register loop and the main menu until the user exits.
func (a *App) Run() error {
	for {
		if a.current == nil {
			if quit := a.authMenu(); quit {
				return nil
			}
			continue
		}
		if quit := a.mainMenu(); quit {
			return nil
		}
	}
}

func (a *App) authMenu() (quit bool) {
	fmt.Fprintln(a.out, "\n=== Personal Finance Manager ===")
	fmt.Fprintln(a.out, "1. Login")
	fmt.Fprintln(a.out, "2. Create New Account")
	fmt.Fprintln(a.out, "3. Exit")

	switch a.prompt("Enter your choice (1-3): ") {
	case "1":
		name := a.prompt("Username: ")
		password := a.promptPassword("Password: ")
		user, err := a.users.Authenticate(name, password)
		if err != nil {
			fmt.Fprintf(a.out, "Login failed: %v\n", err)
			return false
		}
		a.current = &user
		fmt.Fprintf(a.out, "Welcome back, %s!\n", user.Name)
	case "2":
		name := a.prompt("Choose username: ")
		password := a.promptPassword("Choose password: ")
		currency := a.prompt("Preferred currency (USD/EUR/GBP): ")
		user, err := a.users.Register(name, password, currency)
		if err != nil {
			fmt.Fprintf(a.out, "Registration failed: %v\n", err)
			return false
		}
		a.current = &user
		fmt.Fprintf(a.out, "Account created. Welcome, %s!\n", user.Name)
	case "3":
		fmt.Fprintln(a.out, "Goodbye!")
		return true
	default:
		fmt.Fprintln(a.out, "Invalid choice.")
	}
	return false
}

func (a *App) mainMenu() (quit bool) {
	fmt.Fprintln(a.out, "\n========== MAIN MENU ==========")
	fmt.Fprintln(a.out, "1. Transactions")
	fmt.Fprintln(a.out, "2. Bill Reminders")
	fmt.Fprintln(a.out, "3. Budgets")
	fmt.Fprintln(a.out, "4. Reports")
	fmt.Fprintln(a.out, "5. Search & Filter")
	fmt.Fprintln(a.out, "6. Settings")
	fmt.Fprintln(a.out, "7. Logout")
	fmt.Fprintln(a.out, "8. Exit")

	switch a.prompt("Enter your choice (1-8): ") {
	case "1":
		a.transactionsMenu()
	case "2":
		a.billsMenu()
	case "3":
		a.budgetMenu()
	case "4":
		a.reportsMenu()
	case "5":
		a.searchMenu()
	case "6":
		a.settingsMenu()
	case "7":
		fmt.Fprintf(a.out, "Logged out %s.\n", a.current.Name)
		a.current = nil
	case "8":
		fmt.Fprintln(a.out, "Goodbye!")
		return true
	default:
		fmt.Fprintln(a.out, "Invalid choice.")
	}
	return false
}

func (a *App) settingsMenu() {
	fmt.Fprintln(a.out, "\n=== Settings ===")
	fmt.Fprintln(a.out, "1. Change Password")
	fmt.Fprintln(a.out, "2. Change Currency")
	fmt.Fprintln(a.out, "3. Delete Account")
	fmt.Fprintln(a.out, "4. Back")

	switch a.prompt("Enter your choice (1-4): ") {
	case "1":
		oldPw := a.promptPassword("Current password: ")
		newPw := a.promptPassword("New password: ")
		if err := a.users.ChangePassword(a.current.Name, oldPw, newPw); err != nil {
			fmt.Fprintf(a.out, "Password change failed: %v\n", err)
			return
		}
		fmt.Fprintln(a.out, "Password changed.")
	case "2":
		currency := a.prompt("New currency (USD/EUR/GBP): ")
		if err := a.users.UpdateCurrency(a.current.Name, currency); err != nil {
			fmt.Fprintf(a.out, "Currency update failed: %v\n", err)
			return
		}
		a.current.Currency = strings.ToUpper(strings.TrimSpace(currency))
		fmt.Fprintln(a.out, "Currency updated.")
	case "3":
		if !a.promptYesNo("Delete this account permanently?") {
			return
		}
		password := a.promptPassword("Password to confirm: ")
		if err := a.users.Delete(a.current.Name, password); err != nil {
			fmt.Fprintf(a.out, "Deletion failed: %v\n", err)
			return
		}
		if a.promptYesNo("Also delete all transactions, bills and budgets?") {
			if err := a.users.PurgeData(a.current.ID); err != nil {
				fmt.Fprintf(a.out, "Purge failed: %v\n", err)
			}
		}
		fmt.Fprintln(a.out, "Account deleted.")
		a.current = nil
	}
}

// reportErr prints engine failures in a uniform way, keeping validation
// messages on their own lines.
func (a *App) reportErr(err error) {
	var verr *core.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintln(a.out, "Please fix the following:")
		for _, v := range verr.Violations {
			fmt.Fprintf(a.out, "  - %s\n", v)
		}
		return
	}
	fmt.Fprintf(a.out, "Error: %v\n", err)
}
