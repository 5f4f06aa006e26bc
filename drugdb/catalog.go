// Package drugdb implements the medication recognition engine: a read-only
// record store loaded from the structured dataset, a variant-name index
// over it, script-aware free-text matching, ingredient-level grouping, and
// exact resolution of single candidate names.
//
// A Catalog and the Index built from it are immutable after construction
// and safe for any number of concurrent readers. Nothing in this package
// performs I/O after the load or calls the network.
package drugdb

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ryoungl/health-information-harmonizer/drugdb/entities"
	"github.com/ryoungl/health-information-harmonizer/logging"
)

// SchemaError reports a structurally invalid dataset: a payload that is not
// a JSON array of objects, or a record missing one of the required fields.
// A load that fails with a SchemaError leaves no catalog behind.
type SchemaError struct {
	Record int // zero-based record position, -1 when the payload itself is malformed
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Record < 0 {
		return fmt.Sprintf("dataset schema: %s", e.Reason)
	}
	return fmt.Sprintf("dataset schema: record %d: %s", e.Record, e.Reason)
}

// rawRecord defers alias decoding so that non-string alias entries can be
// dropped without failing the whole load.
type rawRecord struct {
	BaseName          string            `json:"base_name"`
	GenericName       string            `json:"generic_name"`
	Aliases           []json.RawMessage `json:"aliases"`
	Category          string            `json:"category"`
	Indications       []string          `json:"indications"`
	Contraindications []string          `json:"contraindications"`
	Cautions          []string          `json:"cautions"`
	ImportantWarnings []string          `json:"important_warnings"`
	AgeNote           string            `json:"age_note"`
}

// Catalog is the in-memory record store: an ordered, immutable sequence of
// drug records. A record's position in the catalog is its stable identity;
// the index dedupes matches through that position rather than through
// pointer or value comparison.
type Catalog struct {
	records        []entities.DrugRecord
	skippedAliases int
}

// Load reads a JSON array of drug records from r. The load is atomic: the
// first structural violation returns a SchemaError and no catalog is
// constructed. Individual alias entries that are not strings are dropped
// and counted instead of failing the load, since the dataset is machine
// generated and may be partially noisy.
func Load(r io.Reader) (*Catalog, error) {
	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}

	var raw []rawRecord
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, &SchemaError{Record: -1, Reason: err.Error()}
	}

	records := make([]entities.DrugRecord, 0, len(raw))
	skipped := 0
	for i, rr := range raw {
		if strings.TrimSpace(rr.BaseName) == "" {
			return nil, &SchemaError{Record: i, Reason: "missing base_name"}
		}
		if strings.TrimSpace(rr.GenericName) == "" {
			return nil, &SchemaError{Record: i, Reason: "missing generic_name"}
		}

		aliases := make([]string, 0, len(rr.Aliases))
		for _, a := range rr.Aliases {
			var s string
			if err := json.Unmarshal(a, &s); err != nil {
				skipped++
				continue
			}
			aliases = append(aliases, s)
		}

		records = append(records, entities.DrugRecord{
			BaseName:          rr.BaseName,
			GenericName:       rr.GenericName,
			Aliases:           aliases,
			Category:          rr.Category,
			Indications:       rr.Indications,
			Contraindications: rr.Contraindications,
			Cautions:          rr.Cautions,
			ImportantWarnings: rr.ImportantWarnings,
			AgeNote:           rr.AgeNote,
		})
	}

	if skipped > 0 {
		logging.Warn("Dropped non-string alias entries during dataset load",
			"skipped", skipped,
			"records", len(records))
	}

	return &Catalog{records: records, skippedAliases: skipped}, nil
}

// LoadFile opens path and loads the dataset from it.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	cat, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading dataset %s: %w", path, err)
	}
	return cat, nil
}

// FromRecords builds a catalog directly from already-validated records.
// Intended for callers that assemble records in memory, such as tests and
// the dataset converter.
func FromRecords(records []entities.DrugRecord) *Catalog {
	owned := make([]entities.DrugRecord, len(records))
	copy(owned, records)
	return &Catalog{records: owned}
}

// Len returns the number of records in the catalog.
func (c *Catalog) Len() int { return len(c.records) }

// Records returns the backing record slice. Callers must treat it as
// read-only.
func (c *Catalog) Records() []entities.DrugRecord { return c.records }

// At returns a pointer to the record at position i.
func (c *Catalog) At(i int) *entities.DrugRecord { return &c.records[i] }

// SkippedAliases returns how many non-string alias entries were dropped
// during the load.
func (c *Catalog) SkippedAliases() int { return c.skippedAliases }
