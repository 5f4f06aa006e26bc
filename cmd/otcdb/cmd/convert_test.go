package cmd

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestConvertLabelFieldMapping(t *testing.T) {
	label := map[string]any{
		"openfda": map[string]any{
			"generic_name":    []any{"Ibuprofen"},
			"brand_name":      []any{"Advil", "Motrin", "ADVIL"},
			"substance_name":  []any{"IBUPROFEN", "Ibuprofen Sodium"},
			"pharm_class_epc": []any{"Nonsteroidal Anti-inflammatory Drug [EPC]"},
		},
		"indications_and_usage": []any{"temporarily relieves minor aches"},
		"uses":                  []any{"reduces fever"},
		"contraindications":     []any{"allergy to NSAIDs"},
		"warnings":              []any{"stomach bleeding warning"},
		"precautions":           []any{"ask a doctor before use"},
		"boxed_warning":         []any{"serious cardiovascular risk"},
		"pediatric_use":         []any{"under 12: ask a doctor"},
	}

	record := convertLabel(label, "ibuprofen")

	if record.BaseName != "IBUPROFEN" || record.GenericName != "IBUPROFEN" {
		t.Errorf("Expected uppercased generic name, got %s / %s", record.BaseName, record.GenericName)
	}

	// Brand and substance names deduped, generic excluded
	expectedAliases := []string{"ADVIL", "MOTRIN", "IBUPROFEN SODIUM"}
	if !reflect.DeepEqual(record.Aliases, expectedAliases) {
		t.Errorf("Expected aliases %v, got %v", expectedAliases, record.Aliases)
	}

	if record.Category != "Nonsteroidal Anti-inflammatory Drug" {
		t.Errorf("Expected source tag stripped from category, got %q", record.Category)
	}

	if len(record.Indications) != 2 {
		t.Errorf("Expected indications merged from both label fields, got %v", record.Indications)
	}
	if len(record.Contraindications) != 1 {
		t.Errorf("Expected 1 contraindication, got %v", record.Contraindications)
	}
	if len(record.Cautions) != 2 {
		t.Errorf("Expected warnings plus precautions in cautions, got %v", record.Cautions)
	}
	if len(record.ImportantWarnings) != 1 || record.ImportantWarnings[0] != "serious cardiovascular risk" {
		t.Errorf("Expected boxed warning to take precedence, got %v", record.ImportantWarnings)
	}
	if record.AgeNote != "under 12: ask a doctor" {
		t.Errorf("Expected pediatric use as age note, got %q", record.AgeNote)
	}
}

func TestConvertLabelFallsBackToSeedName(t *testing.T) {
	record := convertLabel(map[string]any{}, "loratadine")

	if record.BaseName != "LORATADINE" || record.GenericName != "LORATADINE" {
		t.Errorf("Expected seed name fallback, got %s / %s", record.BaseName, record.GenericName)
	}
	if len(record.Aliases) != 0 {
		t.Errorf("Expected no aliases without openfda data, got %v", record.Aliases)
	}
}

func TestConvertLabelWarningsWithoutBoxed(t *testing.T) {
	label := map[string]any{
		"warnings": []any{"general warning"},
	}

	record := convertLabel(label, "aspirin")
	if len(record.ImportantWarnings) != 1 || record.ImportantWarnings[0] != "general warning" {
		t.Errorf("Expected warnings to fill important_warnings without a boxed warning, got %v", record.ImportantWarnings)
	}
}

func TestConvertEntries(t *testing.T) {
	entries := []rawEntry{
		{GenericQuery: "ibuprofen", LabelRaw: map[string]any{
			"openfda": map[string]any{"generic_name": []any{"IBUPROFEN"}},
		}},
		{GenericQuery: "niche drug", LabelRaw: nil},
		{GenericQuery: "   ", LabelRaw: nil},
	}

	records, dropped := convertEntries(entries)

	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if dropped != 1 {
		t.Errorf("Expected 1 dropped entry for the blank seed, got %d", dropped)
	}
	if records[1].GenericName != "NICHE DRUG" {
		t.Errorf("Expected minimal record from seed name, got %s", records[1].GenericName)
	}
}

func TestStringList(t *testing.T) {
	testCases := []struct {
		name     string
		input    any
		expected []string
	}{
		{"nil", nil, nil},
		{"string", "single", []string{"single"}},
		{"empty string", "", nil},
		{"list", []any{"a", "b"}, []string{"a", "b"}},
		{"list with noise", []any{"a", 42, "", "b"}, []string{"a", "b"}},
		{"number", 42, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := stringList(tc.input)
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestReadSeedList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed_list.txt")
	content := `# common OTC generics
ibuprofen

acetaminophen
Ibuprofen
loratadine
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write seed list: %v", err)
	}

	names, err := readSeedList(path)
	if err != nil {
		t.Fatalf("Expected seed list to load, got error: %v", err)
	}

	expected := []string{"ibuprofen", "acetaminophen", "loratadine"}
	if !reflect.DeepEqual(names, expected) {
		t.Errorf("Expected %v, got %v", expected, names)
	}
}

func TestReadSeedListMissingFile(t *testing.T) {
	if _, err := readSeedList(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("Expected an error for a missing seed list")
	}
}
