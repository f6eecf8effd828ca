// Package export moves transactions in and out of CSV. Imports go through
// the same Add entry point as the interactive path, so every row is subject
// to the same validation.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"finman/internal/core"
	"finman/internal/ledger"
	"finman/internal/log"
)

var header = []string{"date", "type", "amount", "category", "description", "payment_method"}

// TransactionAdder is the slice of the ledger service imports need.
type TransactionAdder interface {
	Add(userID string, in ledger.AddInput) (core.Transaction, error)
}

// RowError ties an import failure to its CSV row number (1-based, header
// included).
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

// ImportResult summarizes one import run.
type ImportResult struct {
	Imported int
	Errors   []RowError
}

// WriteCSV writes transactions as CSV with a header row.
func WriteCSV(w io.Writer, txs []core.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, tx := range txs {
		record := []string{
			tx.Date,
			string(tx.Type),
			strconv.FormatFloat(tx.Amount, 'f', -1, 64),
			tx.Category,
			tx.Description,
			tx.PaymentMethod,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV imports transactions for one user, one row at a time. A failing row
// is recorded with its row number and does not stop the rest; validation
// failures carry the same reasons the interactive path reports.
func ReadCSV(r io.Reader, userID string, adder TransactionAdder, logger *log.Logger) (ImportResult, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentExport)

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	first, err := cr.Read()
	if err == io.EOF {
		return ImportResult{}, nil
	}
	if err != nil {
		return ImportResult{}, fmt.Errorf("read header: %w", err)
	}
	if len(first) == 0 || !strings.EqualFold(strings.TrimSpace(first[0]), header[0]) {
		return ImportResult{}, fmt.Errorf("unexpected header %v: expected %v", first, header)
	}

	var result ImportResult
	for row := 2; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: row, Err: err})
			continue
		}
		if len(record) < len(header) {
			result.Errors = append(result.Errors, RowError{
				Row: row,
				Err: fmt.Errorf("expected %d columns, got %d", len(header), len(record)),
			})
			continue
		}

		amount, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			result.Errors = append(result.Errors, RowError{
				Row: row,
				Err: fmt.Errorf("invalid amount %q", record[2]),
			})
			continue
		}

		_, err = adder.Add(userID, ledger.AddInput{
			Date:          strings.TrimSpace(record[0]),
			Type:          record[1],
			Amount:        amount,
			Category:      record[3],
			Description:   record[4],
			PaymentMethod: record[5],
		})
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: row, Err: err})
			continue
		}
		result.Imported++
	}

	logger.Info("csv import finished",
		log.FieldOperation, log.OpImport,
		log.FieldUserID, userID,
		log.FieldRowCount, result.Imported,
		"failed_rows", len(result.Errors))
	return result, nil
}
