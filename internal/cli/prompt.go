package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

func (a *App) prompt(label string) string {
	fmt.Fprint(a.out, label)
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}

func (a *App) promptFloat(label string) (float64, bool) {
	raw := a.prompt(label)
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		fmt.Fprintf(a.out, "Invalid number %q.\n", raw)
		return 0, false
	}
	return value, true
}

func (a *App) promptInt(label string) (int, bool) {
	raw := a.prompt(label)
	value, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Fprintf(a.out, "Invalid number %q.\n", raw)
		return 0, false
	}
	return value, true
}

func (a *App) promptYesNo(label string) bool {
	answer := strings.ToLower(a.prompt(label + " (y/n): "))
	return answer == "y" || answer == "yes"
}

// promptPassword reads without echo when stdin is a terminal. Otherwise it
// must read through the buffered reader: a raw read would race the lines the
// buffer already consumed.
func (a *App) promptPassword(label string) string {
	if f, ok := a.rawIn.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(a.out, label)
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.out)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(raw))
	}
	return a.prompt(label)
}

// ReadPassword reads one password from r, masking input on terminals.
func ReadPassword(r io.Reader) (string, error) {
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	scanner := bufio.NewScanner(r)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// selectIndex prompts for a 1-based selection within [1, n]; 0 cancels.
func (a *App) selectIndex(label string, n int) (int, bool) {
	choice, ok := a.promptInt(fmt.Sprintf("%s (1-%d, 0 to cancel): ", label, n))
	if !ok || choice == 0 {
		return 0, false
	}
	if choice < 1 || choice > n {
		fmt.Fprintln(a.out, "Invalid selection.")
		return 0, false
	}
	return choice - 1, true
}
