// Package data provides thread-safe data storage and management for the
// harmonizer API. It includes the DataContainer struct with atomic
// operations for zero-downtime reloads and thread-safe access methods for
// the drug catalog, its match index and the precomputed group view.
package data

import (
	"sync/atomic"
	"time"

	"github.com/ryoungl/health-information-harmonizer/drugdb"
	"github.com/ryoungl/health-information-harmonizer/drugdb/entities"
	"github.com/ryoungl/health-information-harmonizer/interfaces"
	"github.com/ryoungl/health-information-harmonizer/logging"
)

// Compile-time check to ensure DataContainer implements DataStore
var _ interfaces.DataStore = (*DataContainer)(nil)

// DataContainer holds all the data with atomic pointers for zero-downtime
// reloads. Catalog, index and groups are always replaced together so a
// request never observes an index built over a different catalog.
type DataContainer struct {
	catalog         atomic.Value // *drugdb.Catalog
	index           atomic.Value // *drugdb.Index
	groups          atomic.Value // []entities.DrugGroup
	lastUpdated     atomic.Value // time.Time
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewDataContainer creates a new DataContainer with empty data
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}
	empty := drugdb.FromRecords(nil)
	dc.catalog.Store(empty)
	dc.index.Store(drugdb.BuildIndex(empty))
	dc.groups.Store(make([]entities.DrugGroup, 0))
	dc.lastUpdated.Store(time.Time{})
	dc.serverStartTime.Store(time.Time{}) // Initialize with zero value
	return dc
}

// Thread-safe getters with type check

// GetCatalog returns the loaded drug catalog
func (dc *DataContainer) GetCatalog() *drugdb.Catalog {
	if v := dc.catalog.Load(); v != nil {
		if catalog, ok := v.(*drugdb.Catalog); ok && catalog != nil {
			return catalog
		}
	}

	logging.Warn("Drug catalog is empty or invalid")
	return drugdb.FromRecords(nil)
}

// GetIndex returns the match index built over the current catalog
func (dc *DataContainer) GetIndex() *drugdb.Index {
	if v := dc.index.Load(); v != nil {
		if index, ok := v.(*drugdb.Index); ok && index != nil {
			return index
		}
	}

	logging.Warn("Match index is empty or invalid")
	return drugdb.BuildIndex(drugdb.FromRecords(nil))
}

// GetGroups returns the precomputed group view of the catalog
func (dc *DataContainer) GetGroups() []entities.DrugGroup {
	if v := dc.groups.Load(); v != nil {
		if groups, ok := v.([]entities.DrugGroup); ok {
			return groups
		}
	}

	logging.Warn("Drug groups are empty or invalid")
	return []entities.DrugGroup{}
}

// GetLastUpdated returns the timestamp of the last data update
func (dc *DataContainer) GetLastUpdated() time.Time {
	if v := dc.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// IsUpdating returns true if a data update is currently in progress
func (dc *DataContainer) IsUpdating() bool {
	return dc.updating.Load()
}

// SetServerStartTime sets the server start time
func (dc *DataContainer) SetServerStartTime(startTime time.Time) {
	dc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (dc *DataContainer) GetServerStartTime() time.Time {
	if v := dc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// UpdateData atomically updates all data in the container
func (dc *DataContainer) UpdateData(catalog *drugdb.Catalog, index *drugdb.Index, groups []entities.DrugGroup) {
	// Atomic swap (zero downtime replacement)
	dc.catalog.Store(catalog)
	dc.index.Store(index)
	dc.groups.Store(groups)
	dc.lastUpdated.Store(time.Now())
}

// BeginUpdate marks the start of a data update operation
// Returns true if update can proceed, false if another update is in progress
func (dc *DataContainer) BeginUpdate() bool {
	return dc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a data update operation
func (dc *DataContainer) EndUpdate() {
	dc.updating.Store(false)
}
