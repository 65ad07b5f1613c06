package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/strindex/internal/analysis"
	"github.com/hpungsan/strindex/internal/db"
	"github.com/hpungsan/strindex/internal/errors"
)

// GetInput contains parameters for the Get operation.
type GetInput struct {
	Value string
}

// Get retrieves the record for an exact value.
func Get(ctx context.Context, database *sql.DB, input GetInput) (*analysis.Record, error) {
	if err := requireValue(input.Value); err != nil {
		return nil, err
	}

	rec, err := db.GetByID(ctx, database, analyzer.ID(input.Value))
	if errors.Is(err, errors.ErrNotFound) {
		return nil, errors.NewNotFound(input.Value)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}
