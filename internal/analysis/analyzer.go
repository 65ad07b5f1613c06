package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
	"unicode/utf8"
)

// HashFunc computes the content address of a value. The store keys rows by
// 64-character hex ids, so a HashFunc used with it must produce exactly that.
type HashFunc func(value string) string

// SHA256Hex returns the lowercase hex SHA-256 digest of the UTF-8 bytes of value.
func SHA256Hex(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// Analyzer derives Properties from a string. It holds no mutable state and is
// safe for concurrent use.
type Analyzer struct {
	hash HashFunc
}

// NewAnalyzer returns an Analyzer that addresses content with hash.
// A nil hash falls back to SHA256Hex.
func NewAnalyzer(hash HashFunc) *Analyzer {
	if hash == nil {
		hash = SHA256Hex
	}
	return &Analyzer{hash: hash}
}

// Default is the SHA-256 analyzer used by the service.
var Default = NewAnalyzer(SHA256Hex)

// ID returns the content address of value without analyzing it.
func (a *Analyzer) ID(value string) string {
	return a.hash(value)
}

// Analyze computes every derived property of value. It is total: the empty
// string is a valid input.
func (a *Analyzer) Analyze(value string) Properties {
	freq := CharacterFrequency(value)
	return Properties{
		Length:                utf8.RuneCountInString(value),
		IsPalindrome:          IsPalindrome(value),
		UniqueCharacters:      len(freq),
		WordCount:             CountWords(value),
		SHA256Hash:            a.hash(value),
		CharacterFrequencyMap: freq,
	}
}

// IsPalindrome reports whether s reads the same in both directions after
// per-character lower-casing. Whitespace and punctuation are significant.
func IsPalindrome(s string) bool {
	runes := []rune(s)
	for i := range runes {
		runes[i] = unicode.ToLower(runes[i])
	}
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		if runes[i] != runes[j] {
			return false
		}
	}
	return true
}

// CountWords returns the number of whitespace-separated tokens in s.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// CharacterFrequency counts occurrences of each character, case-sensitive.
func CharacterFrequency(s string) map[string]int {
	freq := make(map[string]int)
	for _, r := range s {
		freq[string(r)]++
	}
	return freq
}
