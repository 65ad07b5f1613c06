package ops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/strindex/internal/errors"
	"github.com/hpungsan/strindex/internal/nlquery"
)

func TestQuery(t *testing.T) {
	database := newTestDB(t)
	seed(t, database,
		"racecar",
		"never odd or even",
		"hello world",
		"anna",
		"zebra crossing",
		"abcdefghijklmnop",
	)

	tests := []struct {
		query string
		want  []string
	}{
		{"all single word palindromic strings", []string{"anna", "racecar"}},
		{"strings longer than 10 characters", []string{"abcdefghijklmnop", "zebra crossing", "hello world", "never odd or even"}},
		{"strings containing the letter z", []string{"zebra crossing"}},
		{"palindromic strings that contain the first vowel", []string{"anna", "racecar"}},
		{"strings%20containing%20the%20letter%20w", []string{"hello world"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			out, err := Query(context.Background(), database, QueryInput{Query: tt.query})
			require.NoError(t, err)
			assert.Equal(t, tt.want, recordValues(out.Data))
			assert.Equal(t, len(tt.want), out.Count)
			assert.Equal(t, tt.query, out.InterpretedQuery.Original)
			assert.NotEmpty(t, out.InterpretedQuery.ParsedFilters)
		})
	}
}

func TestQuery_InterpretedFilters(t *testing.T) {
	database := newTestDB(t)

	out, err := Query(context.Background(), database, QueryInput{Query: "strings longer than 10 characters"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"min_length": 11}, out.InterpretedQuery.ParsedFilters)
	assert.Empty(t, out.Data)
	assert.NotNil(t, out.Data)
}

func TestQuery_Missing(t *testing.T) {
	database := newTestDB(t)

	_, err := Query(context.Background(), database, QueryInput{Query: "  "})
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest), "got %v", err)
}

func TestQuery_Unparseable(t *testing.T) {
	database := newTestDB(t)
	seed(t, database, "tell me something")

	_, err := Query(context.Background(), database, QueryInput{Query: "tell me something"})
	require.True(t, errors.Is(err, errors.ErrUnparseableQuery), "got %v", err)

	sErr, _ := errors.As(err)
	interp, ok := sErr.Details["interpreted_query"].(nlquery.Interpretation)
	require.True(t, ok)
	assert.Equal(t, "tell me something", interp.Original)
	assert.Empty(t, interp.ParsedFilters)
}
