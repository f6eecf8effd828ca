// Command finman-adduser creates an account non-interactively, for seeding a
// data directory without going through the menu flow.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"finman/internal/cli"
	"finman/internal/users"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "finman-adduser: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("finman-adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)
	name := fs.String("name", "", "username for the new account")
	currency := fs.String("currency", "USD", "preferred currency (USD, EUR, GBP)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		fs.Usage()
		return fmt.Errorf("-name is required")
	}

	cli.LoadEnvFile()
	logger := cli.SetupLogger(slog.LevelWarn)
	cfg := cli.LoadAndValidateConfig(logger)
	st := cli.InitStore(cfg, logger)

	fmt.Fprint(stdout, "Password: ")
	password, err := cli.ReadPassword(stdin)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	fmt.Fprintln(stdout)

	svc := users.New(st, logger)
	user, err := svc.Register(*name, password, *currency)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Created user %s (%s)\n", user.Name, user.ID)
	return nil
}
