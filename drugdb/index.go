package drugdb

import "strings"

// indexEntry is one (variant key, record) pair. fold is the lower-cased
// form the matcher compares against; logographic entries match by substring
// containment instead of token boundaries.
type indexEntry struct {
	key  string
	fold string
	han  bool
	rec  int
}

// Index is the flat variant-name index over a catalog: one entry per unique
// (record, key) pair, in record order. It is built once, never mutated
// afterwards, and safe for concurrent readers.
type Index struct {
	cat     *Catalog
	entries []indexEntry
}

// BuildIndex derives every variant key of every record: the generic name,
// the base name when distinct, and each alias, normalized through
// NormalizeKey and deduplicated per record. A record whose variants all
// normalize to empty keys contributes no entries but stays reachable
// through the catalog.
func BuildIndex(cat *Catalog) *Index {
	ix := &Index{cat: cat}

	for i := range cat.records {
		rec := &cat.records[i]

		variants := make([]string, 0, len(rec.Aliases)+2)
		variants = append(variants, rec.GenericName)
		if rec.BaseName != rec.GenericName {
			variants = append(variants, rec.BaseName)
		}
		variants = append(variants, rec.Aliases...)

		seen := make(map[string]bool, len(variants))
		for _, v := range variants {
			key := NormalizeKey(v)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			ix.entries = append(ix.entries, indexEntry{
				key:  key,
				fold: strings.ToLower(key),
				han:  ContainsHan(key),
				rec:  i,
			})
		}
	}

	return ix
}

// Len returns the number of variant entries in the index.
func (ix *Index) Len() int { return len(ix.entries) }

// Catalog returns the record store this index was built from.
func (ix *Index) Catalog() *Catalog { return ix.cat }
