package drugdb

import (
	"strings"

	"github.com/ryoungl/health-information-harmonizer/drugdb/entities"
)

// Resolve maps one already-extracted candidate name to a single record, or
// nil when nothing matches. The synonym table is consulted with the raw
// trimmed form and its upper-cased form; if neither applies, the search key
// is the upper-cased input. Records are scanned in store order and the
// first hit wins: generic-name equality, alias equality, then base-name
// substring containment. Store order therefore decides ambiguous synonyms;
// the dataset is curated to keep generic names unique.
func (c *Catalog) Resolve(name string) *entities.DrugRecord {
	key := resolveKey(name)
	if key == "" {
		return nil
	}

	for i := range c.records {
		rec := &c.records[i]
		if strings.ToUpper(rec.GenericName) == key {
			return rec
		}
		for _, a := range rec.Aliases {
			if strings.ToUpper(a) == key {
				return rec
			}
		}
		if strings.Contains(strings.ToUpper(rec.BaseName), key) {
			return rec
		}
	}
	return nil
}
