package drugdb

import (
	"strings"

	"golang.org/x/text/width"
)

// synonymTable maps input-side shorthand to the canonical uppercase INN
// used by the dataset: logographic abbreviations (维C), colloquial or
// regional brand spellings (芬必得, 必理通) and non-US ingredient names
// (PARACETAMOL). Keys are forms the curated dataset does not carry as
// aliases, so substitution never erases a surface key from the index, and
// every key is at least two runes long. Lookups try the raw trimmed form
// first and its upper-cased form second.
var synonymTable = map[string]string{
	"维C":          "ASCORBIC ACID",
	"VC":          "ASCORBIC ACID",
	"扑热息痛":        "ACETAMINOPHEN",
	"必理通":         "ACETAMINOPHEN",
	"PARACETAMOL": "ACETAMINOPHEN",
	"芬必得":         "IBUPROFEN",
	"拜阿司匹灵":       "ASPIRIN",
	"ASA":         "ASPIRIN",
	"开瑞坦":         "LORATADINE",
	"仙特明":         "CETIRIZINE",
	"洛赛克":         "OMEPRAZOLE",
}

// ContainsHan reports whether s contains at least one CJK Unified
// Ideograph. The script boundary is the fixed code-point range
// U+4E00..U+9FFF: a name with any rune in it is matched with logographic
// rules (substring containment), everything else with Latin token-boundary
// rules.
func ContainsHan(s string) bool {
	for _, r := range s {
		if r >= 0x4E00 && r <= 0x9FFF {
			return true
		}
	}
	return false
}

// lookupSynonym resolves name through the synonym table, raw form first,
// upper-cased form second.
func lookupSynonym(name string) (string, bool) {
	if canon, ok := synonymTable[name]; ok {
		return canon, true
	}
	if canon, ok := synonymTable[strings.ToUpper(name)]; ok {
		return canon, true
	}
	return "", false
}

// NormalizeKey canonicalizes a drug name into its index key. Full-width
// compatibility forms (ＡＤＶＩＬ, full-width digits) are folded to their
// narrow equivalents, the name is trimmed and substituted through the
// synonym table, and the result is lower-cased unless it contains CJK
// ideographs, which carry no case and are kept as-is. Empty input yields
// an empty key.
func NormalizeKey(name string) string {
	s := strings.TrimSpace(width.Fold.String(name))
	if s == "" {
		return ""
	}
	if canon, ok := lookupSynonym(s); ok {
		s = canon
	}
	if ContainsHan(s) {
		return s
	}
	return strings.ToLower(s)
}

// resolveKey is the stricter resolver-mode normalization: same trimming,
// folding and synonym handling, but unsubstituted names are upper-cased to
// compare against the dataset's uppercase ingredient convention.
func resolveKey(name string) string {
	s := strings.TrimSpace(width.Fold.String(name))
	if s == "" {
		return ""
	}
	if canon, ok := lookupSynonym(s); ok {
		return canon
	}
	return strings.ToUpper(s)
}
