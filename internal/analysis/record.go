package analysis

import "time"

// Properties are the derived attributes of an analyzed string.
// Every field is a pure function of the value.
type Properties struct {
	// Length is the character count in Unicode code points, not bytes or
	// UTF-16 code units: an emoji outside the BMP counts as 1.
	Length int `json:"length"`

	IsPalindrome bool `json:"is_palindrome"`

	// UniqueCharacters equals len(CharacterFrequencyMap)
	UniqueCharacters int `json:"unique_characters"`

	WordCount int `json:"word_count"`

	// SHA256Hash is the content address; identical to Record.ID
	SHA256Hash string `json:"sha256_hash"`

	CharacterFrequencyMap map[string]int `json:"character_frequency_map"`
}

// Record is a persisted analyzed string.
// The denormalized filter columns (length, is_palindrome, word_count,
// unique_characters) live only in the database and are written from
// Properties at insert time.
type Record struct {
	// ID is the lowercase hex SHA-256 of Value
	ID string `json:"id"`

	// Value is the original string, never modified
	Value string `json:"value"`

	Properties Properties `json:"properties"`

	// CreatedAt is set once when the record is first persisted (UTC)
	CreatedAt time.Time `json:"created_at"`
}

// NewRecord analyzes value and stamps it with createdAt.
func (a *Analyzer) NewRecord(value string, createdAt time.Time) *Record {
	props := a.Analyze(value)
	return &Record{
		ID:         props.SHA256Hash,
		Value:      value,
		Properties: props,
		CreatedAt:  createdAt.UTC(),
	}
}
