package entities

// DrugGroup aggregates the preparations of one active ingredient. Aliases
// are deduplicated, sorted, and include every constituent's generic name;
// Preparations keep the order in which the records were first seen.
type DrugGroup struct {
	BaseName     string        `json:"base_name"`
	GenericName  string        `json:"generic_name"`
	Aliases      []string      `json:"aliases"`
	Preparations []*DrugRecord `json:"preparations"`
}
