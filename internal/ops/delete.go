package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/strindex/internal/db"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	Value string
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// Delete hard-deletes the record for an exact value. Deleting absent content
// is not an error; Deleted reports whether anything was removed.
func Delete(ctx context.Context, database *sql.DB, input DeleteInput) (*DeleteOutput, error) {
	if err := requireValue(input.Value); err != nil {
		return nil, err
	}

	id := analyzer.ID(input.Value)
	deleted, err := db.DeleteByID(ctx, database, id)
	if err != nil {
		return nil, err
	}

	return &DeleteOutput{
		Deleted: deleted,
		ID:      id,
	}, nil
}
