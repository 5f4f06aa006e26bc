package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ryoungl/health-information-harmonizer/drugdb/entities"
)

var (
	convertRawPath string
	outPath        string
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert raw openFDA label data into the structured record file",
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&convertRawPath, "raw", "dataset/raw_openfda.json", "raw label data produced by fetch")
	convertCmd.Flags().StringVar(&outPath, "out", "dataset/otc_db.json", "output path for the structured record file")
}

// stringList normalizes an openFDA field into a list of strings. Fields
// come back as arrays of strings, bare strings, or nothing.
func stringList(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	}
	return nil
}

// firstString returns the first entry of a list-shaped openFDA field.
func firstString(value any) string {
	list := stringList(value)
	if len(list) == 0 {
		return ""
	}
	return list[0]
}

// convertLabel maps one openFDA label entry onto a drug record. The seed
// name fills in when the label carries no generic name of its own.
func convertLabel(label map[string]any, seedName string) entities.DrugRecord {
	openfda, _ := label["openfda"].(map[string]any)

	generic := strings.TrimSpace(firstString(openfda["generic_name"]))
	if generic == "" {
		generic = strings.TrimSpace(seedName)
	}
	generic = strings.ToUpper(generic)

	// Aliases: brand and substance names, uppercased, deduplicated, with
	// the generic itself excluded
	seen := map[string]bool{generic: true}
	var aliases []string
	for _, name := range append(stringList(openfda["brand_name"]), stringList(openfda["substance_name"])...) {
		upper := strings.ToUpper(strings.TrimSpace(name))
		if upper == "" || seen[upper] {
			continue
		}
		seen[upper] = true
		aliases = append(aliases, upper)
	}

	// Category: first pharmacologic class, text before the source tag
	// (e.g. "Nonsteroidal Anti-inflammatory Drug [EPC]")
	category := firstString(openfda["pharm_class_epc"])
	if idx := strings.Index(category, " ["); idx != -1 {
		category = category[:idx]
	}
	category = strings.TrimSpace(category)

	indications := append(stringList(label["indications_and_usage"]), stringList(label["uses"])...)
	contraindications := stringList(label["contraindications"])

	warnings := append(stringList(label["warnings"]), stringList(label["warnings_and_cautions"])...)
	cautions := append(append([]string{}, warnings...), stringList(label["precautions"])...)

	importantWarnings := stringList(label["boxed_warning"])
	if len(importantWarnings) == 0 {
		importantWarnings = warnings
	}

	ageParts := append(stringList(label["pediatric_use"]), stringList(label["geriatric_use"])...)
	ageNote := strings.Join(ageParts, " ")

	return entities.DrugRecord{
		BaseName:          generic,
		GenericName:       generic,
		Aliases:           aliases,
		Category:          category,
		Indications:       indications,
		Contraindications: contraindications,
		Cautions:          cautions,
		AgeNote:           ageNote,
		ImportantWarnings: importantWarnings,
	}
}

// convertEntries maps every raw entry onto a record, dropping entries that
// end up without the required names. Returns the records and the dropped
// count.
func convertEntries(entries []rawEntry) ([]entities.DrugRecord, int) {
	records := make([]entities.DrugRecord, 0, len(entries))
	dropped := 0

	for _, entry := range entries {
		var record entities.DrugRecord
		if entry.LabelRaw == nil {
			// No label data: the seed name alone still makes a minimal record
			name := strings.ToUpper(strings.TrimSpace(entry.GenericQuery))
			record = entities.DrugRecord{BaseName: name, GenericName: name}
		} else {
			record = convertLabel(entry.LabelRaw, entry.GenericQuery)
		}

		// Mirror of the loader's required-field invariant
		if record.BaseName == "" || record.GenericName == "" {
			dropped++
			continue
		}
		records = append(records, record)
	}

	return records, dropped
}

func runConvert(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(convertRawPath)
	if err != nil {
		return fmt.Errorf("failed to read raw data: %w", err)
	}

	var entries []rawEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("raw data must be an array of fetch entries: %w", err)
	}
	fmt.Printf("Loaded %d raw entries from %s\n", len(entries), convertRawPath)

	records, dropped := convertEntries(entries)
	if dropped > 0 {
		fmt.Fprintf(os.Stderr, "warning: dropped %d entries without usable names\n", dropped)
	}
	if len(records) == 0 {
		return fmt.Errorf("no usable records converted from %d entries", len(entries))
	}

	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("failed to write structured records: %w", err)
	}

	fmt.Printf("Wrote %d structured records to %s\n", len(records), outPath)
	return nil
}
