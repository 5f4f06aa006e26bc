// Package interfaces defines core abstractions for the harmonizer API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"context"
	"time"

	"github.com/ryoungl/health-information-harmonizer/drugdb"
	"github.com/ryoungl/health-information-harmonizer/drugdb/entities"
)

// DataQualityReport provides a summary of dataset quality issues
type DataQualityReport struct {
	DuplicateGenericNames []string // generic names carried by more than one record
	MissingCategory       int
	MissingIndications    int
	MissingWarnings       int
	NoAliases             int
	NoCJKAliases          int // records unreachable through a Chinese brand name
	MissingCategoryNames  []string
	NoCJKAliasNames       []string
}

// DataStore defines the contract for drug data storage operations.
// It provides thread-safe access to the catalog and its derived
// structures with atomic operations for zero-downtime reloads.
type DataStore interface {
	// Data retrieval methods
	GetCatalog() *drugdb.Catalog
	GetIndex() *drugdb.Index
	GetGroups() []entities.DrugGroup
	GetLastUpdated() time.Time
	IsUpdating() bool
	GetServerStartTime() time.Time

	// Data update methods
	UpdateData(catalog *drugdb.Catalog, index *drugdb.Index, groups []entities.DrugGroup)
	BeginUpdate() bool
	EndUpdate()
}

// Scheduler defines the contract for dataset reload scheduling and
// freshness monitoring. It manages automated reloads and health checks.
type Scheduler interface {
	// Lifecycle management
	Start() error
	Stop()
}

// HealthChecker defines the contract for health check functionality.
// It provides system health monitoring and reporting.
type HealthChecker interface {
	// HealthCheck returns current system health status, detail fields for
	// the response body and the HTTP status code to serve
	HealthCheck() (status string, details map[string]any, httpStatus int)

	// CalculateNextUpdate returns the next scheduled reload time
	CalculateNextUpdate() time.Time
}

// DataValidator defines the contract for dataset and request validation.
// It ensures data integrity and consistency.
type DataValidator interface {
	// ValidateRecord checks if a drug record is valid
	ValidateRecord(r *entities.DrugRecord) error

	// ValidateDataIntegrity performs comprehensive dataset validation
	ValidateDataIntegrity(records []entities.DrugRecord) error

	// CheckDuplicateGenerics returns generic names shared by more than
	// one record. Duplicates are allowed at resolve time (first record
	// wins) but flagged for dataset governance.
	CheckDuplicateGenerics(records []entities.DrugRecord) []string

	// ReportDataQuality generates a data quality report with all issues found
	ReportDataQuality(records []entities.DrugRecord) *DataQualityReport

	// ValidateQuestion validates a free-text question body
	ValidateQuestion(input string) error

	// ValidateMatchText validates a free-text matching body
	ValidateMatchText(input string) error

	// ValidateDrugName validates a drug name path parameter
	ValidateDrugName(input string) error
}

// DrugMention is a single medication mention extracted from a question.
type DrugMention struct {
	Raw        string `json:"raw"`
	Normalized string `json:"normalized"`
}

// LanguageModel defines the contract for the chat completion backend.
// Implementations must be safe for concurrent use.
type LanguageModel interface {
	// Enabled reports whether a backend is configured
	Enabled() bool

	// ExtractDrugNames pulls medication mentions out of a free-text question
	ExtractDrugNames(ctx context.Context, question string) ([]DrugMention, error)

	// Answer generates a grounded answer from the matched drug groups
	Answer(ctx context.Context, question, lang string, groups []entities.DrugGroup) (string, error)
}
