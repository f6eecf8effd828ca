package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"finman/internal/bills"
	"finman/internal/core"
	"finman/internal/export"
	"finman/internal/ledger"
)

func (a *App) transactionsMenu() {
	fmt.Fprintln(a.out, "\n--- Transactions ---")
	fmt.Fprintln(a.out, "1. Add Transaction")
	fmt.Fprintln(a.out, "2. View All Transactions")
	fmt.Fprintln(a.out, "3. Edit Transaction")
	fmt.Fprintln(a.out, "4. Delete Transaction")
	fmt.Fprintln(a.out, "5. Export to CSV")
	fmt.Fprintln(a.out, "6. Import from CSV")
	fmt.Fprintln(a.out, "7. Back")

	switch a.prompt("Enter your choice (1-7): ") {
	case "1":
		a.addTransaction()
	case "2":
		a.listTransactions()
	case "3":
		a.editTransaction()
	case "4":
		a.deleteTransaction()
	case "5":
		a.exportCSV()
	case "6":
		a.importCSV()
	}
}

func (a *App) addTransaction() {
	txType := a.prompt("Type (income/expense): ")
	amount, ok := a.promptFloat("Amount: ")
	if !ok {
		return
	}
	t, _ := core.NormalizeType(txType)
	if set := core.CategoriesFor(t); set != nil {
		fmt.Fprintf(a.out, "Categories: %s\n", strings.Join(set, ", "))
	}
	category := a.prompt("Category: ")
	date := a.prompt("Date (YYYY-MM-DD, empty for today): ")
	description := a.prompt("Description: ")
	fmt.Fprintf(a.out, "Payment methods: %s\n", strings.Join(core.PaymentMethods, ", "))
	method := a.prompt("Payment method: ")

	tx, err := a.ledger.Add(a.current.ID, ledger.AddInput{
		Type:          txType,
		Amount:        amount,
		Category:      category,
		Date:          date,
		Description:   description,
		PaymentMethod: method,
	})
	if err != nil {
		a.reportErr(err)
		return
	}
	fmt.Fprintf(a.out, "Transaction added (%s).\n", tx.ID)
}

func (a *App) listTransactions() []core.Transaction {
	txs, err := a.ledger.Transactions(a.current.ID)
	if err != nil {
		a.reportErr(err)
		return nil
	}
	if len(txs) == 0 {
		fmt.Fprintln(a.out, "No transactions found.")
		return nil
	}
	fmt.Fprintf(a.out, "\n--- Your Transactions (%d) ---\n", len(txs))
	for i, tx := range txs {
		fmt.Fprintf(a.out, "[%d] %s %-7s %10.2f %s  %-15s %s\n",
			i+1, tx.Date, tx.Type, tx.Amount, a.current.Currency, tx.Category, tx.Description)
	}
	return txs
}

func (a *App) editTransaction() {
	txs := a.listTransactions()
	if txs == nil {
		return
	}
	idx, ok := a.selectIndex("Transaction to edit", len(txs))
	if !ok {
		return
	}
	selected := txs[idx]

	var upd ledger.Update
	if v := a.prompt(fmt.Sprintf("Type [%s] (empty to keep): ", selected.Type)); v != "" {
		upd.Type = &v
	}
	if v := a.prompt(fmt.Sprintf("Amount [%.2f] (empty to keep): ", selected.Amount)); v != "" {
		amount, err := strconv.ParseFloat(v, 64)
		if err != nil {
			fmt.Fprintf(a.out, "Invalid number %q.\n", v)
			return
		}
		upd.Amount = &amount
	}
	if v := a.prompt(fmt.Sprintf("Category [%s] (empty to keep): ", selected.Category)); v != "" {
		upd.Category = &v
	}
	if v := a.prompt(fmt.Sprintf("Date [%s] (empty to keep): ", selected.Date)); v != "" {
		upd.Date = &v
	}
	if v := a.prompt(fmt.Sprintf("Description [%s] (empty to keep): ", selected.Description)); v != "" {
		upd.Description = &v
	}
	if v := a.prompt(fmt.Sprintf("Payment method [%s] (empty to keep): ", selected.PaymentMethod)); v != "" {
		upd.PaymentMethod = &v
	}

	updated, err := a.ledger.Edit(selected.ID, upd)
	if err != nil {
		a.reportErr(err)
		return
	}
	fmt.Fprintf(a.out, "Transaction %s updated.\n", updated.ID)
}

func (a *App) deleteTransaction() {
	txs := a.listTransactions()
	if txs == nil {
		return
	}
	idx, ok := a.selectIndex("Transaction to delete", len(txs))
	if !ok {
		return
	}
	deleted, err := a.ledger.Delete(txs[idx].ID)
	if err != nil {
		a.reportErr(err)
		return
	}
	if !deleted {
		fmt.Fprintln(a.out, "Transaction not found.")
		return
	}
	fmt.Fprintln(a.out, "Transaction deleted.")
}

func (a *App) exportCSV() {
	path := a.prompt("Export file path: ")
	if path == "" {
		return
	}
	txs, err := a.ledger.Transactions(a.current.ID)
	if err != nil {
		a.reportErr(err)
		return
	}
	f, err := os.Create(path)
	if err != nil {
		a.reportErr(err)
		return
	}
	defer f.Close()
	if err := export.WriteCSV(f, txs); err != nil {
		a.reportErr(err)
		return
	}
	fmt.Fprintf(a.out, "Exported %d transactions to %s.\n", len(txs), path)
}

func (a *App) importCSV() {
	path := a.prompt("Import file path: ")
	if path == "" {
		return
	}
	f, err := os.Open(path)
	if err != nil {
		a.reportErr(err)
		return
	}
	defer f.Close()
	result, err := export.ReadCSV(f, a.current.ID, a.ledger, a.logger)
	if err != nil {
		a.reportErr(err)
		return
	}
	fmt.Fprintf(a.out, "Imported %d transactions.\n", result.Imported)
	for _, rowErr := range result.Errors {
		fmt.Fprintf(a.out, "  skipped %v\n", rowErr)
	}
}

func (a *App) billsMenu() {
	fmt.Fprintln(a.out, "\n--- Bill Reminders ---")
	fmt.Fprintln(a.out, "1. Add Bill Reminder")
	fmt.Fprintln(a.out, "2. View All Bills")
	fmt.Fprintln(a.out, "3. View Overdue Bills")
	fmt.Fprintln(a.out, "4. View Upcoming Bills")
	fmt.Fprintln(a.out, "5. Mark Bill as Paid")
	fmt.Fprintln(a.out, "6. Stop Recurring Bill")
	fmt.Fprintln(a.out, "7. Delete Bill Reminder")
	fmt.Fprintln(a.out, "8. Show Notifications")
	fmt.Fprintln(a.out, "9. Back")

	switch a.prompt("Enter your choice (1-9): ") {
	case "1":
		a.addBill()
	case "2":
		a.listBills()
	case "3":
		a.showBillList(a.billsOverdue(), "overdue")
	case "4":
		a.showBillList(a.billsUpcoming(), "upcoming")
	case "5":
		a.billAction("mark as paid", a.bills.MarkPaid)
	case "6":
		a.billAction("stop recurring", a.bills.StopRecurring)
	case "7":
		a.billAction("delete", a.bills.Delete)
	case "8":
		a.showNotifications()
	}
}

func (a *App) addBill() {
	amount, ok := a.promptFloat("Amount: ")
	if !ok {
		return
	}
	fmt.Fprintf(a.out, "Bill types: %s\n", strings.Join(core.BillTypes, ", "))
	billType := a.prompt("Bill type: ")
	if set, ok := core.BillCategories[strings.ToLower(strings.TrimSpace(billType))]; ok {
		fmt.Fprintf(a.out, "Categories: %s\n", strings.Join(set, ", "))
	}
	category := a.prompt("Category: ")
	description := a.prompt("Description: ")
	expected := a.prompt("Expected date (YYYY-MM-DD): ")
	reminder := a.prompt("Reminder date (YYYY-MM-DD): ")
	recurring := a.promptYesNo("Recurring?")
	interval := ""
	if recurring {
		interval = a.prompt("Interval (daily/weekly/monthly/yearly): ")
	}

	bill, err := a.bills.Add(a.current.ID, bills.AddInput{
		Amount:             amount,
		BillType:           billType,
		Category:           category,
		Description:        description,
		ExpectedDate:       expected,
		ReminderDate:       reminder,
		Recurring:          recurring,
		RecurrenceInterval: interval,
	})
	if err != nil {
		a.reportErr(err)
		return
	}
	fmt.Fprintf(a.out, "Bill reminder added (%s).\n", bill.ID)
}

func (a *App) listBills() []core.BillReminder {
	userBills, err := a.bills.Bills(a.current.ID)
	if err != nil {
		a.reportErr(err)
		return nil
	}
	if len(userBills) == 0 {
		fmt.Fprintln(a.out, "No bills found.")
		return nil
	}
	fmt.Fprintf(a.out, "\n--- Your Bills (%d) ---\n", len(userBills))
	for i, bill := range userBills {
		recurring := ""
		if bill.Recurring && bill.RecurrenceInterval != nil {
			recurring = fmt.Sprintf(" (recurring %s)", *bill.RecurrenceInterval)
		}
		fmt.Fprintf(a.out, "[%d] %-8s %10.2f %s due %s  %s%s\n",
			i+1, bill.Status, bill.Amount, a.current.Currency, bill.ExpectedDate, bill.Description, recurring)
	}
	return userBills
}

func (a *App) billsOverdue() []core.BillReminder {
	overdue, err := a.bills.Overdue(a.current.ID, time.Now())
	if err != nil {
		a.reportErr(err)
		return nil
	}
	return overdue
}

func (a *App) billsUpcoming() []core.BillReminder {
	upcoming, err := a.bills.Upcoming(a.current.ID, time.Now(), a.cfg.UpcomingDays)
	if err != nil {
		a.reportErr(err)
		return nil
	}
	return upcoming
}

func (a *App) showBillList(list []core.BillReminder, kind string) {
	if len(list) == 0 {
		fmt.Fprintf(a.out, "No %s bills.\n", kind)
		return
	}
	fmt.Fprintf(a.out, "\n--- %s bills (%d) ---\n", strings.ToUpper(kind[:1])+kind[1:], len(list))
	for i, bill := range list {
		fmt.Fprintf(a.out, "[%d] %10.2f %s due %s  %s\n",
			i+1, bill.Amount, a.current.Currency, bill.ExpectedDate, bill.Description)
	}
}

func (a *App) billAction(action string, apply func(userID, billID string) (bool, error)) {
	userBills := a.listBills()
	if userBills == nil {
		return
	}
	idx, ok := a.selectIndex("Bill to "+action, len(userBills))
	if !ok {
		return
	}
	done, err := apply(a.current.ID, userBills[idx].ID)
	if err != nil {
		a.reportErr(err)
		return
	}
	if !done {
		fmt.Fprintf(a.out, "Could not %s this bill.\n", action)
		return
	}
	fmt.Fprintf(a.out, "Bill %s.\n", pastTense(action))
}

func pastTense(action string) string {
	switch action {
	case "mark as paid":
		return "marked as paid"
	case "stop recurring":
		return "recurring stopped"
	case "delete":
		return "deleted"
	}
	return action
}

func (a *App) showNotifications() {
	notifications, err := a.bills.CollectNotifications(a.current.ID, time.Now())
	if err != nil {
		a.reportErr(err)
		return
	}
	if len(notifications) == 0 {
		fmt.Fprintln(a.out, "No notifications at this time.")
		return
	}
	for _, n := range notifications {
		switch n.State {
		case bills.StateUpcoming:
			fmt.Fprintf(a.out, "REMINDER: %s due %s (%d days left)\n",
				n.Bill.Description, n.Bill.ExpectedDate, n.Days)
		case bills.StateDueToday:
			fmt.Fprintf(a.out, "DUE TODAY: %s (%.2f %s)\n",
				n.Bill.Description, n.Bill.Amount, a.current.Currency)
		case bills.StateOverdue:
			fmt.Fprintf(a.out, "OVERDUE: %s was due %s (%d days ago)\n",
				n.Bill.Description, n.Bill.ExpectedDate, n.Days)
		}
	}
}

func (a *App) budgetMenu() {
	fmt.Fprintln(a.out, "\n--- Budgets ---")
	fmt.Fprintln(a.out, "1. Set Monthly Budget")
	fmt.Fprintln(a.out, "2. View Budget Status")
	fmt.Fprintln(a.out, "3. Delete Monthly Budget")
	fmt.Fprintln(a.out, "4. Back")

	switch a.prompt("Enter your choice (1-4): ") {
	case "1":
		fmt.Fprintf(a.out, "Categories: %s\n", strings.Join(core.ExpenseCategories, ", "))
		category := a.prompt("Category: ")
		amount, ok := a.promptFloat("Budget amount: ")
		if !ok {
			return
		}
		month := a.prompt("Month (YYYY-MM, empty for current): ")
		if err := a.budget.Set(a.current.ID, category, amount, month); err != nil {
			a.reportErr(err)
			return
		}
		fmt.Fprintln(a.out, "Budget set.")
	case "2":
		month := a.prompt("Month (YYYY-MM, empty for current): ")
		status, err := a.budget.Status(a.current.ID, month)
		if err != nil {
			if err == core.ErrNoBudgets {
				fmt.Fprintln(a.out, "No budgets set for this month.")
				return
			}
			a.reportErr(err)
			return
		}
		fmt.Fprintf(a.out, "%-15s %10s %10s %10s %8s\n", "Category", "Budget", "Spent", "Remaining", "% Used")
		for category, cs := range status {
			fmt.Fprintf(a.out, "%-15s %10.2f %10.2f %10.2f %7.1f%%\n",
				category, cs.Budget, cs.Spent, cs.Remaining, cs.Percentage)
		}
	case "3":
		category := a.prompt("Category: ")
		month := a.prompt("Month (YYYY-MM, empty for current): ")
		deleted, err := a.budget.Delete(a.current.ID, category, month)
		if err != nil {
			a.reportErr(err)
			return
		}
		if !deleted {
			fmt.Fprintln(a.out, "No budget found for that category.")
			return
		}
		fmt.Fprintln(a.out, "Budget deleted.")
	}
}

func (a *App) reportsMenu() {
	fmt.Fprintln(a.out, "\n--- Reports ---")
	fmt.Fprintln(a.out, "1. Dashboard Summary")
	fmt.Fprintln(a.out, "2. Monthly Report")
	fmt.Fprintln(a.out, "3. Category Breakdown")
	fmt.Fprintln(a.out, "4. Spending Trends")
	fmt.Fprintln(a.out, "5. Back")

	switch a.prompt("Enter your choice (1-5): ") {
	case "1":
		d, err := a.reports.Dashboard(a.current.ID, time.Now())
		if err != nil {
			a.reportErr(err)
			return
		}
		fmt.Fprintf(a.out, "Total income:     %12.2f %s\n", d.TotalIncome, a.current.Currency)
		fmt.Fprintf(a.out, "Total expenses:   %12.2f %s\n", d.TotalExpenses, a.current.Currency)
		fmt.Fprintf(a.out, "Net worth:        %12.2f %s\n", d.NetWorth, a.current.Currency)
		fmt.Fprintf(a.out, "This month (%s): income %.2f, expenses %.2f, net %.2f\n",
			d.Month, d.MonthlyIncome, d.MonthlyExpenses, d.MonthlyNet)
	case "2":
		month, ok := a.promptInt("Month (1-12): ")
		if !ok {
			return
		}
		year, ok := a.promptInt("Year: ")
		if !ok {
			return
		}
		r, err := a.reports.MonthlyReport(a.current.ID, year, month)
		if err != nil {
			if err == core.ErrNoData {
				fmt.Fprintln(a.out, "No transactions for that month.")
				return
			}
			a.reportErr(err)
			return
		}
		fmt.Fprintf(a.out, "Report for %s: %d transactions, income %.2f, expenses %.2f, net %.2f\n",
			r.Month, r.Count, r.TotalIncome, r.TotalExpenses, r.Net)
		for category, amount := range r.IncomeByCategory {
			fmt.Fprintf(a.out, "  income  %-15s %10.2f\n", category, amount)
		}
		for category, amount := range r.ExpenseByCategory {
			fmt.Fprintf(a.out, "  expense %-15s %10.2f\n", category, amount)
		}
	case "3":
		b, err := a.reports.CategoryBreakdown(a.current.ID)
		if err != nil {
			a.reportErr(err)
			return
		}
		fmt.Fprintf(a.out, "All-time income %.2f, expenses %.2f\n", b.TotalIncome, b.TotalExpenses)
		for category, ct := range b.Income {
			fmt.Fprintf(a.out, "  income  %-15s %10.2f (%5.1f%%, %d records)\n",
				category, ct.Amount, ct.Percentage, ct.Count)
		}
		for category, ct := range b.Expenses {
			fmt.Fprintf(a.out, "  expense %-15s %10.2f (%5.1f%%, %d records)\n",
				category, ct.Amount, ct.Percentage, ct.Count)
		}
	case "4":
		trends, delta, err := a.reports.SpendingTrends(a.current.ID)
		if err != nil {
			a.reportErr(err)
			return
		}
		if len(trends) == 0 {
			fmt.Fprintln(a.out, "No transactions recorded yet.")
			return
		}
		fmt.Fprintf(a.out, "%-8s %12s %12s %12s %6s\n", "Month", "Income", "Expenses", "Net", "Count")
		for _, t := range trends {
			fmt.Fprintf(a.out, "%-8s %12.2f %12.2f %12.2f %6d\n", t.Month, t.Income, t.Expenses, t.Net, t.Count)
		}
		if delta != nil {
			fmt.Fprintf(a.out, "Since %s: income %s by %.2f, expenses %s by %.2f\n",
				delta.PreviousMonth,
				delta.IncomeDirection, abs(delta.IncomeChange),
				delta.ExpenseDirection, abs(delta.ExpenseChange))
		}
	}
}

func (a *App) searchMenu() {
	fmt.Fprintln(a.out, "\n--- Search & Filter ---")
	fmt.Fprintln(a.out, "1. By Date Range")
	fmt.Fprintln(a.out, "2. By Category")
	fmt.Fprintln(a.out, "3. By Amount Range")
	fmt.Fprintln(a.out, "4. Sorted View")
	fmt.Fprintln(a.out, "5. Back")

	var (
		results []core.Transaction
		err     error
	)
	switch a.prompt("Enter your choice (1-5): ") {
	case "1":
		start := a.prompt("Start date (YYYY-MM-DD): ")
		end := a.prompt("End date (YYYY-MM-DD): ")
		results, err = a.ledger.SearchDateRange(a.current.ID, start, end)
	case "2":
		category := a.prompt("Category: ")
		results, err = a.ledger.FilterCategory(a.current.ID, category)
	case "3":
		min, ok := a.promptFloat("Minimum amount: ")
		if !ok {
			return
		}
		max, ok := a.promptFloat("Maximum amount: ")
		if !ok {
			return
		}
		results, err = a.ledger.FilterAmountRange(a.current.ID, min, max)
	case "4":
		key := a.prompt("Sort by (amount/date/category): ")
		desc := a.promptYesNo("Descending?")
		results, err = a.ledger.Sorted(a.current.ID, key, desc)
	default:
		return
	}
	if err != nil {
		a.reportErr(err)
		return
	}
	if len(results) == 0 {
		fmt.Fprintln(a.out, "No matching transactions.")
		return
	}
	for i, tx := range results {
		fmt.Fprintf(a.out, "[%d] %s %-7s %10.2f %-15s %s\n",
			i+1, tx.Date, tx.Type, tx.Amount, tx.Category, tx.Description)
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
