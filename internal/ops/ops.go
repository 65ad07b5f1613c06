// Package ops implements the string analysis service: every operation the
// HTTP, MCP and CLI surfaces expose is a function here.
package ops

import (
	"strings"

	"github.com/hpungsan/strindex/internal/analysis"
	"github.com/hpungsan/strindex/internal/errors"
)

// Outcome distinguishes a fresh insert from a hit on existing content.
type Outcome string

const (
	OutcomeCreated  Outcome = "created"
	OutcomeConflict Outcome = "conflict"
)

// analyzer is the package-wide analyzer. Tests may swap it.
var analyzer = analysis.Default

// ValueFromAny checks a decoded JSON "value" field before analysis.
// nil or blank text is INVALID_REQUEST, anything that is not a string is
// UNPROCESSABLE_TYPE.
func ValueFromAny(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", errors.NewInvalidRequest("value is required")
	case string:
		if strings.TrimSpace(t) == "" {
			return "", errors.NewInvalidRequest("value must not be blank")
		}
		return t, nil
	default:
		return "", errors.NewUnprocessableType("value", jsonTypeName(v))
	}
}

// requireValue rejects blank lookup keys.
func requireValue(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewInvalidRequest("value is required")
	}
	return nil
}

// jsonTypeName names the JSON type of a value produced by encoding/json.
func jsonTypeName(v any) string {
	switch v.(type) {
	case bool:
		return "boolean"
	case float64, int, int64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}

// RecordList is the shared shape of list and query results.
type RecordList struct {
	Data  []*analysis.Record `json:"data"`
	Count int                `json:"count"`
}

func newRecordList(recs []*analysis.Record) RecordList {
	if recs == nil {
		recs = []*analysis.Record{}
	}
	return RecordList{Data: recs, Count: len(recs)}
}
