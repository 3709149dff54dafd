package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/steven140811/Weekly-Report-and-OKR-Assistant/internal/schema"
)

func main() {
	root := &cobra.Command{
		Use:           "assistant",
		Short:         "Weekly report and OKR assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newParseCmd())
	root.AddCommand(newGenerateCmd())
	root.AddCommand(newValidateCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}

// Process exit codes beyond the generic 1.
const (
	exitCodeInvalid  = 2 // validate: document failed structure validation
	exitCodeBadInput = 3 // unreadable, oversized, or otherwise unusable input
	exitCodeAPIError = 4 // live generation backend failed
)

// exitError carries a process exit code through the cobra error path.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// parseKind maps the user-facing --kind value to a document kind.
func parseKind(s string) (schema.DocumentKind, error) {
	switch s {
	case "weekly", "weekly-report":
		return schema.KindWeeklyReport, nil
	case "okr":
		return schema.KindOKR, nil
	}
	return "", fmt.Errorf("unknown kind %q (want weekly or okr)", s)
}

// readInput returns the content of path, or stdin when path is empty or "-".
func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// writeOutput writes b to path, or to stdout when path is empty.
func writeOutput(path string, b []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(b)
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
