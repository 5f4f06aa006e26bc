package drugdb

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/width"

	"github.com/ryoungl/health-information-harmonizer/drugdb/entities"
)

// MatchRaw scans text against every variant key in the index and returns
// the matching records deduplicated by catalog position, in index order.
// Empty or whitespace-only text returns nil without touching the index.
func (ix *Index) MatchRaw(text string) []*entities.DrugRecord {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	folded := strings.ToLower(width.Fold.String(text))

	seen := make(map[int]bool)
	var matched []*entities.DrugRecord
	for _, e := range ix.entries {
		if seen[e.rec] {
			continue
		}
		if !keyOccurs(folded, e.fold, e.han) {
			continue
		}
		seen[e.rec] = true
		matched = append(matched, &ix.cat.records[e.rec])
	}
	return matched
}

// MatchGrouped is MatchRaw followed by ingredient grouping.
func (ix *Index) MatchGrouped(text string) []entities.DrugGroup {
	return GroupRecords(ix.MatchRaw(text))
}

// keyOccurs reports whether key occurs in text under the script rules:
// keys under two runes never match; logographic keys match anywhere in the
// text, since logographic script has no token delimiters; Latin keys match
// only when the adjacent runes, if any, are not word characters. Both text
// and key must already be lower-cased.
func keyOccurs(text, key string, logographic bool) bool {
	if utf8.RuneCountInString(key) < 2 {
		return false
	}
	if logographic {
		return strings.Contains(text, key)
	}

	for start := 0; ; {
		i := strings.Index(text[start:], key)
		if i < 0 {
			return false
		}
		i += start
		if boundaryBefore(text, i) && boundaryAfter(text, i+len(key)) {
			return true
		}
		start = i + 1
	}
}

// boundaryBefore reports whether position i begins a token: the rune ending
// at i, if any, is not a word character.
func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

// boundaryAfter reports whether position i ends a token: the rune starting
// at i, if any, is not a word character.
func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !isWordRune(r)
}

// isWordRune matches letters, digits and underscore, Unicode-aware. CJK
// ideographs are letters here, so a Latin key butted against one is not at
// a token boundary.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
