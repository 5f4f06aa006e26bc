package entities

// DrugRecord is one medication entry from the structured dataset. BaseName
// and GenericName are always non-empty after a successful load; every other
// field may be empty. Records are immutable once loaded.
type DrugRecord struct {
	BaseName          string   `json:"base_name"`
	GenericName       string   `json:"generic_name"`
	Aliases           []string `json:"aliases"`
	Category          string   `json:"category"`
	Indications       []string `json:"indications"`
	Contraindications []string `json:"contraindications"`
	Cautions          []string `json:"cautions"`
	ImportantWarnings []string `json:"important_warnings"`
	AgeNote           string   `json:"age_note"`
}
