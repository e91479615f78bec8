package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// keywordSeparator matches runs of runes that are not Latin letters, digits, "_", CJK
// ideographs or one of "+-." (kept so tokens like "C++" or "3.5" survive).
var keywordSeparator = regexp.MustCompile(`[^\p{Latin}\p{Nd}_\x{4e00}-\x{9fa5}+\-.]+`)

// minKeywordRunes is the shortest token kept as a keyword
const minKeywordRunes = 2

// ExtractKeywords splits text into candidate keyword tokens.
// The result is de-duplicated and ordered by first occurrence in text.
func ExtractKeywords(text string) []string {
	if text == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var keywords []string
	for _, token := range keywordSeparator.Split(text, -1) {
		token = strings.TrimSpace(token)
		if utf8.RuneCountInString(token) < minKeywordRunes {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		keywords = append(keywords, token)
	}
	return keywords
}

// KeywordSet is a set of tokens.
type KeywordSet map[string]struct{}

// NewKeywordSet builds a set from tokens.
func NewKeywordSet(tokens []string) KeywordSet {
	set := make(KeywordSet, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// Has reports whether token is in the set.
func (s KeywordSet) Has(token string) bool {
	_, ok := s[token]
	return ok
}

// MissingKeywords returns the job keywords not present in have, in job order.
func MissingKeywords(jobKeywords []string, have KeywordSet) []string {
	var missing []string
	for _, k := range jobKeywords {
		if !have.Has(k) {
			missing = append(missing, k)
		}
	}
	return missing
}
