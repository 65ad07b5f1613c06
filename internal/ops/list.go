package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/strindex/internal/db"
	"github.com/hpungsan/strindex/internal/filter"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Filter filter.Filter
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	RecordList
	FiltersApplied map[string]any `json:"filters_applied"`
}

// List returns every stored record matching the filter, newest first.
func List(ctx context.Context, database *sql.DB, input ListInput) (*ListOutput, error) {
	f := input.Filter
	if err := f.Validate(); err != nil {
		return nil, err
	}

	recs, err := db.List(ctx, database, &f)
	if err != nil {
		return nil, err
	}

	return &ListOutput{
		RecordList:     newRecordList(recs),
		FiltersApplied: f.Applied(),
	}, nil
}
