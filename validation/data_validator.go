// Package validation provides dataset and request validation for the
// harmonizer API.
package validation

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ryoungl/health-information-harmonizer/drugdb"
	"github.com/ryoungl/health-information-harmonizer/drugdb/entities"
	"github.com/ryoungl/health-information-harmonizer/interfaces"
	"github.com/ryoungl/health-information-harmonizer/logging"
)

// Request bodies are free text in English or Chinese, so validation is a
// denylist plus size caps rather than a character allowlist.
const (
	maxQuestionRunes  = 2000
	maxMatchTextRunes = 10000
	maxNameRunes      = 100

	maxNameFieldRunes = 200
	maxAliasRunes     = 100
	maxTextFieldRunes = 2000
)

// Dangerous patterns as strings (faster than regex for simple substring
// matching). Question text is echoed back inside answers, so script and
// template injection markers are rejected outright.
var dangerousPatterns = []string{
	"<script", "</script>", "javascript:", "vbscript:",
	"onload=", "onerror=", "onclick=",
	"eval(", "expression(",
}

// DataValidatorImpl implements the interfaces.DataValidator interface
type DataValidatorImpl struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() interfaces.DataValidator {
	return &DataValidatorImpl{}
}

// Compile-time interface check
var _ interfaces.DataValidator = (*DataValidatorImpl)(nil)

// ValidateRecord checks if a drug record is valid
func (v *DataValidatorImpl) ValidateRecord(r *entities.DrugRecord) error {
	if r == nil {
		return fmt.Errorf("drug record is nil")
	}

	if strings.TrimSpace(r.BaseName) == "" {
		return fmt.Errorf("empty base_name")
	}

	if strings.TrimSpace(r.GenericName) == "" {
		return fmt.Errorf("empty generic_name for %s", r.BaseName)
	}

	if utf8.RuneCountInString(r.BaseName) > maxNameFieldRunes {
		return fmt.Errorf("base_name too long for %s: %d characters", r.BaseName, utf8.RuneCountInString(r.BaseName))
	}

	if utf8.RuneCountInString(r.GenericName) > maxNameFieldRunes {
		return fmt.Errorf("generic_name too long for %s: %d characters", r.BaseName, utf8.RuneCountInString(r.GenericName))
	}

	for _, alias := range r.Aliases {
		if utf8.RuneCountInString(alias) > maxAliasRunes {
			return fmt.Errorf("alias too long for %s: %d characters", r.BaseName, utf8.RuneCountInString(alias))
		}
	}

	for field, values := range map[string][]string{
		"indications":        r.Indications,
		"contraindications":  r.Contraindications,
		"cautions":           r.Cautions,
		"important_warnings": r.ImportantWarnings,
	} {
		for _, value := range values {
			if utf8.RuneCountInString(value) > maxTextFieldRunes {
				return fmt.Errorf("%s entry too long for %s: %d characters", field, r.BaseName, utf8.RuneCountInString(value))
			}
		}
	}

	if utf8.RuneCountInString(r.AgeNote) > maxTextFieldRunes {
		return fmt.Errorf("age_note too long for %s: %d characters", r.BaseName, utf8.RuneCountInString(r.AgeNote))
	}

	return nil
}

// ValidateDataIntegrity performs comprehensive dataset validation
func (v *DataValidatorImpl) ValidateDataIntegrity(records []entities.DrugRecord) error {
	if len(records) == 0 {
		return fmt.Errorf("no drug records found")
	}

	for i := range records {
		if err := v.ValidateRecord(&records[i]); err != nil {
			return fmt.Errorf("invalid drug record %d: %w", i, err)
		}
	}

	return nil
}

// CheckDuplicateGenerics returns the generic names shared by more than one
// record, sorted. Resolution keeps working when generics collide (the first
// record in store order wins), so duplicates are logged rather than fatal.
func (v *DataValidatorImpl) CheckDuplicateGenerics(records []entities.DrugRecord) []string {
	counts := make(map[string]int)
	for i := range records {
		key := strings.ToUpper(strings.TrimSpace(records[i].GenericName))
		if key == "" {
			continue
		}
		counts[key]++
	}

	var duplicates []string
	for name, count := range counts {
		if count > 1 {
			duplicates = append(duplicates, name)
		}
	}
	sort.Strings(duplicates)

	if len(duplicates) > 0 {
		logging.Warn("Duplicate generic names detected, resolution will use the first record in store order",
			"count", len(duplicates),
			"duplicates", duplicates,
		)
	}

	return duplicates
}

// ReportDataQuality generates a data quality report with all issues found
func (v *DataValidatorImpl) ReportDataQuality(records []entities.DrugRecord) *interfaces.DataQualityReport {
	report := &interfaces.DataQualityReport{
		DuplicateGenericNames: []string{},
		MissingCategoryNames:  []string{},
		NoCJKAliasNames:       []string{},
	}

	// Check 1: generic names carried by more than one record
	counts := make(map[string]int)
	for i := range records {
		key := strings.ToUpper(strings.TrimSpace(records[i].GenericName))
		if key != "" {
			counts[key]++
		}
	}
	for name, count := range counts {
		if count > 1 {
			report.DuplicateGenericNames = append(report.DuplicateGenericNames, name)
		}
	}
	sort.Strings(report.DuplicateGenericNames)

	// Check 2: records without a category (store first 10 names)
	for i := range records {
		if strings.TrimSpace(records[i].Category) == "" {
			report.MissingCategory++
			if len(report.MissingCategoryNames) < 10 {
				report.MissingCategoryNames = append(report.MissingCategoryNames, records[i].BaseName)
			}
		}
	}

	// Check 3: records without indications
	for i := range records {
		if !hasLabelText(records[i].Indications) {
			report.MissingIndications++
		}
	}

	// Check 4: records without important warnings
	for i := range records {
		if !hasLabelText(records[i].ImportantWarnings) {
			report.MissingWarnings++
		}
	}

	// Check 5: records with no aliases at all, and records a
	// Chinese-language user cannot reach through any brand name
	// (store first 10 names)
	for i := range records {
		if len(records[i].Aliases) == 0 {
			report.NoAliases++
		}
		if !recordHasCJKAlias(&records[i]) {
			report.NoCJKAliases++
			if len(report.NoCJKAliasNames) < 10 {
				report.NoCJKAliasNames = append(report.NoCJKAliasNames, records[i].BaseName)
			}
		}
	}

	return report
}

// ValidateQuestion validates a free-text question body
func (v *DataValidatorImpl) ValidateQuestion(input string) error {
	return validateFreeText(input, "question", maxQuestionRunes, true)
}

// ValidateMatchText validates a free-text matching body
func (v *DataValidatorImpl) ValidateMatchText(input string) error {
	return validateFreeText(input, "text", maxMatchTextRunes, true)
}

// ValidateDrugName validates a drug name path parameter
func (v *DataValidatorImpl) ValidateDrugName(input string) error {
	return validateFreeText(input, "name", maxNameRunes, false)
}

// validateFreeText applies the shared empty, size, injection and control
// character checks. allowNewlines is set for multi-line bodies; path
// parameters reject every control character.
func validateFreeText(input, label string, maxRunes int, allowNewlines bool) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("%s cannot be empty", label)
	}

	if utf8.RuneCountInString(input) > maxRunes {
		return fmt.Errorf("%s too long: maximum %d characters", label, maxRunes)
	}

	lowerInput := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowerInput, pattern) {
			return fmt.Errorf("%s contains potentially dangerous content", label)
		}
	}

	for _, r := range input {
		if !unicode.IsControl(r) {
			continue
		}
		if allowNewlines && (r == '\n' || r == '\r' || r == '\t') {
			continue
		}
		return fmt.Errorf("%s contains invalid control characters", label)
	}

	return nil
}

// hasLabelText reports whether a label field carries at least one non-blank
// entry. An empty slice and a slice of blank strings both count as missing.
func hasLabelText(entries []string) bool {
	for _, entry := range entries {
		if strings.TrimSpace(entry) != "" {
			return true
		}
	}
	return false
}

// recordHasCJKAlias reports whether any surface name of the record carries
// CJK ideographs.
func recordHasCJKAlias(r *entities.DrugRecord) bool {
	if drugdb.ContainsHan(r.BaseName) {
		return true
	}
	for _, alias := range r.Aliases {
		if drugdb.ContainsHan(alias) {
			return true
		}
	}
	return false
}
