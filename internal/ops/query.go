package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/strindex/internal/db"
	"github.com/hpungsan/strindex/internal/errors"
	"github.com/hpungsan/strindex/internal/nlquery"
)

// QueryInput contains parameters for the Query operation.
type QueryInput struct {
	Query string
}

// QueryOutput contains the result of the Query operation.
type QueryOutput struct {
	RecordList
	InterpretedQuery nlquery.Interpretation `json:"interpreted_query"`
}

// Query resolves a natural-language query into a filter and lists matches.
// A query no rule understands is an error; there is no exact-value fallback.
func Query(ctx context.Context, database *sql.DB, input QueryInput) (*QueryOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, errors.NewInvalidRequest("query is required")
	}

	res := nlquery.Resolve(input.Query)
	if !res.Parsed() {
		return nil, errors.NewUnparseableQuery(res.Interpreted)
	}
	if err := res.Filter.Validate(); err != nil {
		return nil, err
	}

	recs, err := db.List(ctx, database, res.Filter)
	if err != nil {
		return nil, err
	}

	return &QueryOutput{
		RecordList:       newRecordList(recs),
		InterpretedQuery: res.Interpreted,
	}, nil
}
