package ops

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/hpungsan/strindex/internal/analysis"
	"github.com/hpungsan/strindex/internal/db"
	"github.com/hpungsan/strindex/internal/errors"
	"github.com/hpungsan/strindex/internal/logger"
)

// CreateInput contains parameters for the Create operation.
// Value must already have passed ValueFromAny (or an equivalent check).
type CreateInput struct {
	Value string
}

// CreateOutput contains the result of the Create operation.
// On OutcomeConflict, Record is the previously stored record, unchanged.
type CreateOutput struct {
	Record  *analysis.Record
	Outcome Outcome
}

// Create analyzes and stores a value unless its content is already present.
func Create(ctx context.Context, database *sql.DB, input CreateInput) (*CreateOutput, error) {
	if err := requireValue(input.Value); err != nil {
		return nil, err
	}

	id := analyzer.ID(input.Value)

	existing, err := db.GetByID(ctx, database, id)
	if err == nil {
		return &CreateOutput{Record: existing, Outcome: OutcomeConflict}, nil
	}
	if !errors.Is(err, errors.ErrNotFound) {
		return nil, err
	}

	rec := analyzer.NewRecord(input.Value, time.Now())
	err = db.Insert(ctx, database, rec)
	if err == nil {
		return &CreateOutput{Record: rec, Outcome: OutcomeCreated}, nil
	}
	if err != db.ErrUniqueConstraint {
		return nil, err
	}

	// Lost the insert race: report whoever won.
	winner, err := db.GetByID(ctx, database, id)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			// Winner was deleted before we could read it back.
			return nil, errors.NewConflict("string was modified concurrently; retry")
		}
		return nil, err
	}
	logger.Get().Debug("create race lost", zap.String("id", id))
	return &CreateOutput{Record: winner, Outcome: OutcomeConflict}, nil
}
