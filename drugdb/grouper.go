package drugdb

import (
	"sort"

	"github.com/ryoungl/health-information-harmonizer/drugdb/entities"
)

// GroupRecords aggregates preparations by active ingredient. The grouping
// key is the normalized base name, falling back to the generic name when
// the base name is empty; a record with neither is dropped. Group aliases
// merge every constituent's aliases plus its generic name, deduplicated and
// sorted. Preparations keep first-seen order and groups are sorted by base
// name, so repeated calls over the same records produce identical output;
// downstream prompt construction depends on that.
func GroupRecords(records []*entities.DrugRecord) []entities.DrugGroup {
	type bucket struct {
		group   entities.DrugGroup
		aliases map[string]bool
	}

	var order []string
	buckets := make(map[string]*bucket)

	for _, rec := range records {
		key := NormalizeKey(rec.BaseName)
		if key == "" {
			key = NormalizeKey(rec.GenericName)
		}
		if key == "" {
			continue
		}

		b, ok := buckets[key]
		if !ok {
			b = &bucket{
				group: entities.DrugGroup{
					BaseName:    rec.BaseName,
					GenericName: rec.GenericName,
				},
				aliases: make(map[string]bool),
			}
			if b.group.BaseName == "" {
				b.group.BaseName = rec.GenericName
			}
			buckets[key] = b
			order = append(order, key)
		}

		b.group.Preparations = append(b.group.Preparations, rec)
		for _, a := range rec.Aliases {
			if a != "" {
				b.aliases[a] = true
			}
		}
		if rec.GenericName != "" {
			b.aliases[rec.GenericName] = true
		}
	}

	groups := make([]entities.DrugGroup, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		aliases := make([]string, 0, len(b.aliases))
		for a := range b.aliases {
			aliases = append(aliases, a)
		}
		sort.Strings(aliases)
		b.group.Aliases = aliases
		groups = append(groups, b.group)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].BaseName < groups[j].BaseName
	})
	return groups
}
