// Package nlquery maps a small set of English phrasings onto structured filters.
//
// This is a fixed, ordered rule table, not language understanding. Rules are
// evaluated top to bottom and the first match wins, so priority is the slice
// order in rules. New phrasings are appended at the end.
package nlquery

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/hpungsan/strindex/internal/filter"
)

// Interpretation explains how a query was read. ParsedFilters is present only
// when a rule matched and lists just the fields that rule derived.
type Interpretation struct {
	Original      string         `json:"original"`
	Rule          string         `json:"rule,omitempty"`
	ParsedFilters map[string]any `json:"parsed_filters,omitempty"`
}

// Resolution is the outcome of Resolve. Filter is nil when no rule matched.
type Resolution struct {
	Filter      *filter.Filter
	Interpreted Interpretation
}

// Parsed reports whether a rule matched.
func (r Resolution) Parsed() bool {
	return r.Filter != nil
}

// rule inspects a decoded, lower-cased query and returns a filter on match.
type rule struct {
	name  string
	build func(q string) (*filter.Filter, bool)
}

var (
	singleWordRe = regexp.MustCompile(`\bsingle word\b`)
	longerThanRe = regexp.MustCompile(`longer than (\d+)`)
	letterRe     = regexp.MustCompile(`containing the letter ([\p{L}\p{N}_])`)
)

const palindromeStem = "palindrom"

var rules = []rule{
	{
		name: "single_word_palindrome",
		build: func(q string) (*filter.Filter, bool) {
			if !singleWordRe.MatchString(q) || !strings.Contains(q, palindromeStem) {
				return nil, false
			}
			return &filter.Filter{WordCount: filter.Int(1), IsPalindrome: filter.Bool(true)}, true
		},
	},
	{
		name: "longer_than",
		build: func(q string) (*filter.Filter, bool) {
			m := longerThanRe.FindStringSubmatch(q)
			if m == nil {
				return nil, false
			}
			n, err := strconv.Atoi(m[1])
			if err != nil || n == math.MaxInt {
				// Out of range: let later rules have a go.
				return nil, false
			}
			return &filter.Filter{MinLength: filter.Int(n + 1)}, true
		},
	},
	{
		name: "containing_letter",
		build: func(q string) (*filter.Filter, bool) {
			m := letterRe.FindStringSubmatch(q)
			if m == nil {
				return nil, false
			}
			return &filter.Filter{ContainsCharacter: filter.String(m[1])}, true
		},
	},
	{
		// "a" stands in for the first vowel; this is deliberately narrow.
		name: "palindrome_first_vowel",
		build: func(q string) (*filter.Filter, bool) {
			if !strings.Contains(q, palindromeStem) || !strings.Contains(q, "first vowel") {
				return nil, false
			}
			return &filter.Filter{IsPalindrome: filter.Bool(true), ContainsCharacter: filter.String("a")}, true
		},
	},
}

// Resolve translates query into a structured filter. It never fails; an
// unmatched or blank query yields a Resolution whose Filter is nil and whose
// interpretation carries only the original text.
func Resolve(query string) Resolution {
	res := Resolution{Interpreted: Interpretation{Original: query}}
	if strings.TrimSpace(query) == "" {
		return res
	}

	q := strings.ToLower(decode(query))

	for _, r := range rules {
		f, ok := r.build(q)
		if !ok {
			continue
		}
		res.Filter = f
		res.Interpreted.Rule = r.name
		res.Interpreted.ParsedFilters = f.Applied()
		return res
	}

	return res
}

// decode URL-decodes s, keeping the input as-is when it is not valid encoding.
func decode(s string) string {
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

// RuleNames lists the rules in evaluation order.
func RuleNames() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}
