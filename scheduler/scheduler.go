// Package scheduler provides automated dataset reloads and freshness
// monitoring for the harmonizer API. It handles the daily cron-based
// reload of the drug dataset file and coordinates atomic snapshot swaps
// with the data container using dependency injection.
package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/ryoungl/health-information-harmonizer/drugdb"
	"github.com/ryoungl/health-information-harmonizer/drugdb/entities"
	"github.com/ryoungl/health-information-harmonizer/interfaces"
	"github.com/ryoungl/health-information-harmonizer/logging"
	"github.com/ryoungl/health-information-harmonizer/metrics"
	"github.com/ryoungl/health-information-harmonizer/validation"
)

// Compile-time check to ensure Scheduler implements the Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler reloads the dataset file on a daily schedule and swaps the
// resulting catalog, index and group view into the data store atomically.
type Scheduler struct {
	dataStore   interfaces.DataStore
	datasetPath string
	scheduler   *gocron.Scheduler
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(dataStore interfaces.DataStore, datasetPath string) *Scheduler {
	return &Scheduler{
		dataStore:   dataStore,
		datasetPath: datasetPath,
		scheduler:   gocron.NewScheduler(time.Local),
	}
}

// Start performs the initial synchronous load, schedules the daily reload
// and starts freshness monitoring. The initial load is fatal: a service
// with no catalog must not come up.
func (s *Scheduler) Start() error {
	if err := s.Reload(); err != nil {
		logging.Error("Failed to perform initial dataset load", "error", err)
		return fmt.Errorf("initial dataset load failed: %w", err)
	}

	// Reload daily at 06:00; the dataset file is regenerated out of band
	_, err := s.scheduler.Every(1).Days().At("06:00").Do(func() {
		if err := s.Reload(); err != nil {
			logging.Error("Failed to reload dataset, previous snapshot keeps serving", "error", err)
		}
	})

	if err != nil {
		logging.Error("Failed to schedule dataset reloads", "error", err)
		return fmt.Errorf("failed to schedule dataset reloads: %w", err)
	}

	s.scheduler.StartAsync()

	s.startFreshnessMonitoring()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// Reload loads the dataset file into a fresh catalog, rebuilds the index
// and the group view, and swaps all three in atomically. On any failure
// the data store is left untouched and keeps serving the old snapshot.
func (s *Scheduler) Reload() error {
	// Prevent concurrent reloads
	if !s.dataStore.BeginUpdate() {
		logging.Info("Reload already in progress, skipping...")
		return nil
	}
	defer s.dataStore.EndUpdate()

	logging.Info("Starting dataset reload", "path", s.datasetPath)
	start := time.Now()

	catalog, err := drugdb.LoadFile(s.datasetPath)
	if err != nil {
		metrics.DatasetReloadsTotal.WithLabelValues("failure").Inc()
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	index := drugdb.BuildIndex(catalog)
	groups := drugdb.GroupRecords(catalogRefs(catalog))

	records := catalog.Records()
	validator := validation.NewDataValidator()
	report := validator.ReportDataQuality(records)

	// Duplicate generic names make first-match resolution order-dependent
	if len(report.DuplicateGenericNames) > 0 {
		logging.Warn("Duplicate generic names detected, resolution follows store order",
			"total", len(report.DuplicateGenericNames),
			"names", report.DuplicateGenericNames,
		)
	}

	if report.MissingCategory > 0 {
		logging.Warn("Records without a category",
			"count", report.MissingCategory,
			"names", report.MissingCategoryNames,
		)
	}

	if report.NoCJKAliases > 0 {
		logging.Warn("Records unreachable through a Chinese brand name",
			"count", report.NoCJKAliases,
			"names", report.NoCJKAliasNames,
		)
	}

	if skipped := catalog.SkippedAliases(); skipped > 0 {
		logging.Warn("Non-string alias entries skipped during load", "count", skipped)
	}

	// Atomic swap (zero downtime replacement)
	s.dataStore.UpdateData(catalog, index, groups)

	metrics.DatasetRecords.Set(float64(catalog.Len()))
	metrics.DatasetReloadsTotal.WithLabelValues("success").Inc()

	elapsed := time.Since(start)
	logging.Info("Dataset reload completed",
		"duration", elapsed.String(),
		"drugs", catalog.Len(),
		"index_entries", index.Len(),
		"groups", len(groups),
	)

	return nil
}

// catalogRefs returns a reference slice over every catalog record, the
// input shape the grouper works on.
func catalogRefs(catalog *drugdb.Catalog) []*entities.DrugRecord {
	refs := make([]*entities.DrugRecord, 0, catalog.Len())
	for i := 0; i < catalog.Len(); i++ {
		refs = append(refs, catalog.At(i))
	}
	return refs
}

// startFreshnessMonitoring watches the age of the loaded dataset
func (s *Scheduler) startFreshnessMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			lastUpdate := s.dataStore.GetLastUpdated()
			age := time.Since(lastUpdate)
			if age > 50*time.Hour {
				logging.Error("Dataset hasn't been reloaded in over 50 hours", "last_update", lastUpdate)
			} else if age > 26*time.Hour {
				logging.Warn("Dataset hasn't been reloaded in over 26 hours", "last_update", lastUpdate)
			}
		}
	}()
}
