package ops

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/hpungsan/strindex/internal/analysis"
	"github.com/hpungsan/strindex/internal/config"
	"github.com/hpungsan/strindex/internal/db"
	"github.com/hpungsan/strindex/internal/errors"
	"github.com/hpungsan/strindex/internal/logger"
)

// maxImportLine bounds a single JSONL line.
const maxImportLine = 16 << 20

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path string // required
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors"`
}

// ImportError describes a line that could not be imported.
type ImportError struct {
	Line    int    `json:"line"`
	ID      string `json:"id,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Import loads records from a JSONL export file. Every value is re-analyzed;
// a line whose id does not match its value is rejected. Stored creation times
// are preserved and content already present is skipped. Bad lines are
// reported, not fatal. All inserts share one transaction.
func Import(ctx context.Context, database *sql.DB, cfg *config.Config, input ImportInput) (*ImportOutput, error) {
	if err := ValidatePath(input.Path, PathCheckRead, cfg); err != nil {
		return nil, err
	}

	file, err := openFileNoFollowRead(input.Path)
	if err != nil {
		if _, ok := errors.As(err); ok {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open import file: %w", err))
	}
	defer file.Close()

	records, importErrors := parseExportFile(file)

	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewCancelled("import")
		}
		return nil, errors.NewInternal(err)
	}
	defer tx.Rollback() //nolint:errcheck

	out := &ImportOutput{Errors: importErrors}

	// Files are newest first; insert oldest first so insertion order, which
	// breaks created_at ties, survives the round trip.
	for i := len(records) - 1; i >= 0; i-- {
		if ctx.Err() != nil {
			return nil, errors.NewCancelled("import")
		}

		err := db.Insert(ctx, tx, records[i])
		switch {
		case err == nil:
			out.Imported++
		case err == db.ErrUniqueConstraint:
			out.Skipped++
		default:
			if ctx.Err() != nil {
				return nil, errors.NewCancelled("import")
			}
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.NewInternal(err)
	}

	if out.Errors == nil {
		out.Errors = []ImportError{}
	}
	logger.Get().Info("import complete",
		zap.String("path", input.Path),
		zap.Int("imported", out.Imported),
		zap.Int("skipped", out.Skipped),
		zap.Int("errors", len(out.Errors)),
	)
	return out, nil
}

// parseExportFile reads every line of r, returning valid records and a
// per-line error for everything else. The header line is skipped.
func parseExportFile(r io.Reader) ([]*analysis.Record, []ImportError) {
	var records []*analysis.Record
	var importErrors []ImportError

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxImportLine)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var record analysis.ExportRecord
		if err := json.Unmarshal(raw, &record); err != nil {
			importErrors = append(importErrors, ImportError{
				Line:    lineNum,
				Code:    "PARSE_ERROR",
				Message: fmt.Sprintf("invalid JSON: %v", err),
			})
			continue
		}

		if record.StrindexExport {
			continue
		}

		if record.Value == nil {
			importErrors = append(importErrors, ImportError{
				Line:    lineNum,
				ID:      record.ID,
				Code:    "INVALID_RECORD",
				Message: "missing value field",
			})
			continue
		}
		if err := requireValue(*record.Value); err != nil {
			importErrors = append(importErrors, ImportError{
				Line:    lineNum,
				ID:      record.ID,
				Code:    "INVALID_RECORD",
				Message: "value must not be blank",
			})
			continue
		}

		rec := record.ToRecord(analyzer)
		if record.ID != "" && record.ID != rec.ID {
			importErrors = append(importErrors, ImportError{
				Line:    lineNum,
				ID:      record.ID,
				Code:    "ID_MISMATCH",
				Message: fmt.Sprintf("id does not match value (expected %s)", rec.ID),
			})
			continue
		}

		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		importErrors = append(importErrors, ImportError{
			Line:    lineNum + 1,
			Code:    "READ_ERROR",
			Message: fmt.Sprintf("failed to read file: %v", err),
		})
	}

	return records, importErrors
}
