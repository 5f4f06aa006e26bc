package validation

import (
	"strings"
	"testing"

	"github.com/ryoungl/health-information-harmonizer/drugdb/entities"
)

func TestNewDataValidator(t *testing.T) {
	validator := NewDataValidator()

	if validator == nil {
		t.Fatal("NewDataValidator returned nil")
	}

	// Type assertion to verify it's the correct type
	if _, ok := validator.(*DataValidatorImpl); !ok {
		t.Error("NewDataValidator should return *DataValidatorImpl")
	}
}

func TestValidateRecord_Valid(t *testing.T) {
	validator := NewDataValidator()

	record := &entities.DrugRecord{
		BaseName:    "ADVIL",
		GenericName: "IBUPROFEN",
		Aliases:     []string{"MOTRIN", "布洛芬"},
		Category:    "NSAID",
		Indications: []string{"Pain, fever, inflammation."},
	}

	err := validator.ValidateRecord(record)
	if err != nil {
		t.Errorf("Expected no error for valid record, got: %v", err)
	}
}

func TestValidateRecord_Nil(t *testing.T) {
	validator := NewDataValidator()

	err := validator.ValidateRecord(nil)
	if err == nil {
		t.Error("Expected error for nil record")
	}

	expectedError := "drug record is nil"
	if err.Error() != expectedError {
		t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
	}
}

func TestValidateRecord_EmptyBaseName(t *testing.T) {
	validator := NewDataValidator()

	testCases := []struct {
		name     string
		baseName string
	}{
		{"Empty string", ""},
		{"Spaces only", "   "},
		{"Tab and spaces", "\t  \t  "},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			record := &entities.DrugRecord{
				BaseName:    tc.baseName,
				GenericName: "IBUPROFEN",
			}

			err := validator.ValidateRecord(record)
			if err == nil {
				t.Error("Expected error for empty base_name")
			}

			expectedError := "empty base_name"
			if err.Error() != expectedError {
				t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
			}
		})
	}
}

func TestValidateRecord_EmptyGenericName(t *testing.T) {
	validator := NewDataValidator()

	record := &entities.DrugRecord{
		BaseName:    "ADVIL",
		GenericName: "  ",
	}

	err := validator.ValidateRecord(record)
	if err == nil {
		t.Fatal("Expected error for empty generic_name")
	}

	expectedError := "empty generic_name for ADVIL"
	if err.Error() != expectedError {
		t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
	}
}

func TestValidateRecord_OversizedFields(t *testing.T) {
	validator := NewDataValidator()

	testCases := []struct {
		name   string
		mutate func(*entities.DrugRecord)
	}{
		{"Base name too long", func(r *entities.DrugRecord) {
			r.BaseName = strings.Repeat("A", 201)
		}},
		{"Generic name too long", func(r *entities.DrugRecord) {
			r.GenericName = strings.Repeat("B", 201)
		}},
		{"Alias too long", func(r *entities.DrugRecord) {
			r.Aliases = []string{strings.Repeat("C", 101)}
		}},
		{"Indications entry too long", func(r *entities.DrugRecord) {
			r.Indications = []string{strings.Repeat("d", 2001)}
		}},
		{"Second caution entry too long", func(r *entities.DrugRecord) {
			r.Cautions = []string{"Take with food.", strings.Repeat("e", 2001)}
		}},
		{"Warnings entry too long", func(r *entities.DrugRecord) {
			r.ImportantWarnings = []string{strings.Repeat("痛", 2001)}
		}},
		{"Age note too long", func(r *entities.DrugRecord) {
			r.AgeNote = strings.Repeat("f", 2001)
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			record := &entities.DrugRecord{
				BaseName:    "ADVIL",
				GenericName: "IBUPROFEN",
			}
			tc.mutate(record)

			if err := validator.ValidateRecord(record); err == nil {
				t.Error("Expected error for oversized field")
			}
		})
	}
}

func TestValidateRecord_RuneCountNotByteCount(t *testing.T) {
	validator := NewDataValidator()

	// 200 ideographs are 600 bytes but exactly at the rune limit
	record := &entities.DrugRecord{
		BaseName:    strings.Repeat("药", 200),
		GenericName: "IBUPROFEN",
	}

	if err := validator.ValidateRecord(record); err != nil {
		t.Errorf("Expected 200-rune CJK base_name to pass, got: %v", err)
	}
}

func TestValidateDataIntegrity_Valid(t *testing.T) {
	validator := NewDataValidator()

	records := []entities.DrugRecord{
		{BaseName: "ADVIL", GenericName: "IBUPROFEN"},
		{BaseName: "TYLENOL", GenericName: "ACETAMINOPHEN"},
	}

	if err := validator.ValidateDataIntegrity(records); err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
}

func TestValidateDataIntegrity_Empty(t *testing.T) {
	validator := NewDataValidator()

	err := validator.ValidateDataIntegrity(nil)
	if err == nil {
		t.Fatal("Expected error for empty dataset")
	}

	expectedError := "no drug records found"
	if err.Error() != expectedError {
		t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
	}
}

func TestValidateDataIntegrity_ReportsRecordIndex(t *testing.T) {
	validator := NewDataValidator()

	records := []entities.DrugRecord{
		{BaseName: "ADVIL", GenericName: "IBUPROFEN"},
		{BaseName: "", GenericName: "ACETAMINOPHEN"},
	}

	err := validator.ValidateDataIntegrity(records)
	if err == nil {
		t.Fatal("Expected error for invalid record")
	}
	if !strings.Contains(err.Error(), "record 1") {
		t.Errorf("Expected error to name record 1, got: %v", err)
	}
}

func TestCheckDuplicateGenerics(t *testing.T) {
	validator := NewDataValidator()

	records := []entities.DrugRecord{
		{BaseName: "ASPIRIN LOW DOSE", GenericName: "ASPIRIN"},
		{BaseName: "ASPIRIN REGULAR", GenericName: "aspirin"},
		{BaseName: "ADVIL", GenericName: "IBUPROFEN"},
		{BaseName: "ZYRTEC", GenericName: "CETIRIZINE"},
		{BaseName: "ALLER-TEC", GenericName: "CETIRIZINE"},
	}

	duplicates := validator.CheckDuplicateGenerics(records)

	expected := []string{"ASPIRIN", "CETIRIZINE"}
	if len(duplicates) != len(expected) {
		t.Fatalf("Expected %d duplicates, got %d: %v", len(expected), len(duplicates), duplicates)
	}
	for i, name := range expected {
		if duplicates[i] != name {
			t.Errorf("Expected duplicate %d to be %s, got %s", i, name, duplicates[i])
		}
	}
}

func TestCheckDuplicateGenerics_NoDuplicates(t *testing.T) {
	validator := NewDataValidator()

	records := []entities.DrugRecord{
		{BaseName: "ADVIL", GenericName: "IBUPROFEN"},
		{BaseName: "TYLENOL", GenericName: "ACETAMINOPHEN"},
	}

	if duplicates := validator.CheckDuplicateGenerics(records); len(duplicates) != 0 {
		t.Errorf("Expected no duplicates, got %v", duplicates)
	}
}

func TestReportDataQuality(t *testing.T) {
	validator := NewDataValidator()

	records := []entities.DrugRecord{
		{
			BaseName:          "ADVIL",
			GenericName:       "IBUPROFEN",
			Aliases:           []string{"MOTRIN", "布洛芬"},
			Category:          "NSAID",
			Indications:       []string{"Pain and fever."},
			ImportantWarnings: []string{"Stomach bleeding risk."},
		},
		{
			BaseName:    "TYLENOL",
			GenericName: "ACETAMINOPHEN",
			Aliases:     []string{"PANADOL"},
			Indications: []string{"Pain and fever."},
		},
		{
			BaseName:    "PLAIN ASPIRIN",
			GenericName: "ASPIRIN",
		},
		{
			BaseName:    "BUFFERED ASPIRIN",
			GenericName: "ASPIRIN",
			Category:    "NSAID",
		},
	}

	report := validator.ReportDataQuality(records)

	if len(report.DuplicateGenericNames) != 1 || report.DuplicateGenericNames[0] != "ASPIRIN" {
		t.Errorf("Expected duplicate generic ASPIRIN, got %v", report.DuplicateGenericNames)
	}
	if report.MissingCategory != 2 {
		t.Errorf("Expected 2 records without category, got %d", report.MissingCategory)
	}
	if report.MissingIndications != 2 {
		t.Errorf("Expected 2 records without indications, got %d", report.MissingIndications)
	}
	if report.MissingWarnings != 3 {
		t.Errorf("Expected 3 records without warnings, got %d", report.MissingWarnings)
	}
	if report.NoAliases != 2 {
		t.Errorf("Expected 2 records without aliases, got %d", report.NoAliases)
	}
	if report.NoCJKAliases != 3 {
		t.Errorf("Expected 3 records without a CJK alias, got %d", report.NoCJKAliases)
	}
	if len(report.MissingCategoryNames) != 2 || report.MissingCategoryNames[0] != "TYLENOL" {
		t.Errorf("Expected missing category names starting with TYLENOL, got %v", report.MissingCategoryNames)
	}
	if len(report.NoCJKAliasNames) != 3 || report.NoCJKAliasNames[0] != "TYLENOL" {
		t.Errorf("Expected no-CJK names starting with TYLENOL, got %v", report.NoCJKAliasNames)
	}
}

func TestReportDataQuality_BlankLabelEntriesCountAsMissing(t *testing.T) {
	validator := NewDataValidator()

	records := []entities.DrugRecord{
		{
			BaseName:          "ADVIL",
			GenericName:       "IBUPROFEN",
			Indications:       []string{"", "   "},
			ImportantWarnings: []string{},
		},
		{
			BaseName:          "TYLENOL",
			GenericName:       "ACETAMINOPHEN",
			Indications:       []string{"", "Pain and fever."},
			ImportantWarnings: []string{"Liver damage risk."},
		},
	}

	report := validator.ReportDataQuality(records)

	if report.MissingIndications != 1 {
		t.Errorf("Expected 1 record with only blank indications, got %d", report.MissingIndications)
	}
	if report.MissingWarnings != 1 {
		t.Errorf("Expected 1 record without warnings, got %d", report.MissingWarnings)
	}
}

func TestReportDataQuality_CJKBaseNameCounts(t *testing.T) {
	validator := NewDataValidator()

	// A CJK base name satisfies the reachability check without any alias
	records := []entities.DrugRecord{
		{BaseName: "感冒灵", GenericName: "ACETAMINOPHEN COMPOUND"},
	}

	report := validator.ReportDataQuality(records)
	if report.NoCJKAliases != 0 {
		t.Errorf("Expected 0 records without CJK reachability, got %d", report.NoCJKAliases)
	}
}

func TestValidateQuestion_Valid(t *testing.T) {
	validator := NewDataValidator()

	testCases := []struct {
		name  string
		input string
	}{
		{"English question", "Can I take Advil with Tylenol?"},
		{"Chinese question", "我早上吃了布洛芬，下午还能吃泰诺吗？"},
		{"Mixed scripts", "吃了Advil还能喝酒吗"},
		{"With newlines", "First line.\nSecond line."},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := validator.ValidateQuestion(tc.input); err != nil {
				t.Errorf("Expected no error for %q, got: %v", tc.input, err)
			}
		})
	}
}

func TestValidateQuestion_Invalid(t *testing.T) {
	validator := NewDataValidator()

	testCases := []struct {
		name    string
		input   string
		errPart string
	}{
		{"Empty", "", "cannot be empty"},
		{"Whitespace only", "  \t ", "cannot be empty"},
		{"Too long", strings.Repeat("a", 2001), "too long"},
		{"Too long CJK", strings.Repeat("药", 2001), "too long"},
		{"Script tag", "can I take <script>alert(1)</script>", "dangerous"},
		{"Javascript URL", "see javascript:alert(1)", "dangerous"},
		{"Control character", "question\x00text", "control"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validator.ValidateQuestion(tc.input)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tc.errPart) {
				t.Errorf("Expected error mentioning %q, got: %v", tc.errPart, err)
			}
		})
	}
}

func TestValidateMatchText_LongerCap(t *testing.T) {
	validator := NewDataValidator()

	// 5000 runes is over the question cap but under the match text cap
	text := strings.Repeat("a", 5000)
	if err := validator.ValidateMatchText(text); err != nil {
		t.Errorf("Expected no error for 5000-rune match text, got: %v", err)
	}

	if err := validator.ValidateMatchText(strings.Repeat("a", 10001)); err == nil {
		t.Error("Expected error over the match text cap")
	}
}

func TestValidateDrugName(t *testing.T) {
	validator := NewDataValidator()

	valid := []string{"advil", "维C", "vitamin c", "ASPIRIN 81MG"}
	for _, name := range valid {
		if err := validator.ValidateDrugName(name); err != nil {
			t.Errorf("Expected no error for %q, got: %v", name, err)
		}
	}

	invalid := []struct {
		name  string
		input string
	}{
		{"Empty", ""},
		{"Too long", strings.Repeat("x", 101)},
		{"Newline", "advil\nmotrin"},
		{"Script", "<script>x"},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			if err := validator.ValidateDrugName(tc.input); err == nil {
				t.Errorf("Expected error for %q", tc.input)
			}
		})
	}
}
