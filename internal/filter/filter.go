// Package filter defines the structured query over analyzed strings.
package filter

import (
	"github.com/hpungsan/strindex/internal/errors"
)

// Filter is a conjunction of optional predicates. A nil field places no
// constraint on that dimension.
type Filter struct {
	IsPalindrome      *bool   `json:"is_palindrome"`
	MinLength         *int    `json:"min_length"`
	MaxLength         *int    `json:"max_length"`
	WordCount         *int    `json:"word_count"`
	ContainsCharacter *string `json:"contains_character"`
}

// IsEmpty reports whether f constrains nothing.
func (f *Filter) IsEmpty() bool {
	if f == nil {
		return true
	}
	return f.IsPalindrome == nil && f.MinLength == nil && f.MaxLength == nil &&
		f.WordCount == nil && f.Contains() == ""
}

// Contains returns the substring predicate, or "" when unset.
// An empty string is treated the same as an absent one.
func (f *Filter) Contains() string {
	if f == nil || f.ContainsCharacter == nil {
		return ""
	}
	return *f.ContainsCharacter
}

// Validate rejects filters that are malformed or can never match.
func (f *Filter) Validate() error {
	if f == nil {
		return nil
	}
	if f.MinLength != nil && *f.MinLength < 0 {
		return errors.NewInvalidRequest("min_length must be non-negative")
	}
	if f.MaxLength != nil && *f.MaxLength < 0 {
		return errors.NewInvalidRequest("max_length must be non-negative")
	}
	if f.WordCount != nil && *f.WordCount < 0 {
		return errors.NewInvalidRequest("word_count must be non-negative")
	}
	if f.MinLength != nil && f.MaxLength != nil && *f.MinLength > *f.MaxLength {
		return errors.NewConflictingFilter(*f.MinLength, *f.MaxLength)
	}
	return nil
}

// Applied returns only the fields that are set, keyed by their wire names.
func (f *Filter) Applied() map[string]any {
	out := map[string]any{}
	if f == nil {
		return out
	}
	if f.IsPalindrome != nil {
		out["is_palindrome"] = *f.IsPalindrome
	}
	if f.MinLength != nil {
		out["min_length"] = *f.MinLength
	}
	if f.MaxLength != nil {
		out["max_length"] = *f.MaxLength
	}
	if f.WordCount != nil {
		out["word_count"] = *f.WordCount
	}
	if c := f.Contains(); c != "" {
		out["contains_character"] = c
	}
	return out
}

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to n.
func Int(n int) *int { return &n }

// String returns a pointer to s.
func String(s string) *string { return &s }
