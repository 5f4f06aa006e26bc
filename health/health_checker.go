package health

import (
	"math"
	"net/http"
	"time"

	"github.com/ryoungl/health-information-harmonizer/interfaces"
)

// Staleness thresholds. The dataset reloads once a day at 06:00, so an age
// past 26h means one missed reload and past 50h means two.
const (
	degradedAge  = 26 * time.Hour
	unhealthyAge = 50 * time.Hour
)

// HealthCheckerImpl implements the HealthChecker interface
type HealthCheckerImpl struct {
	dataStore interfaces.DataStore
}

// Compile-time interface check
var _ interfaces.HealthChecker = (*HealthCheckerImpl)(nil)

// NewHealthChecker creates a new health checker backed by the given data store
func NewHealthChecker(dataStore interfaces.DataStore) interfaces.HealthChecker {
	return &HealthCheckerImpl{dataStore: dataStore}
}

// HealthCheck reports overall status from dataset availability and age,
// along with the HTTP status code the /health endpoint should serve.
func (h *HealthCheckerImpl) HealthCheck() (string, map[string]any, int) {
	catalog := h.dataStore.GetCatalog()
	index := h.dataStore.GetIndex()
	groups := h.dataStore.GetGroups()
	lastUpdate := h.dataStore.GetLastUpdated()
	isUpdating := h.dataStore.IsUpdating()
	dataAge := time.Since(lastUpdate)

	recordCount := 0
	if catalog != nil {
		recordCount = catalog.Len()
	}
	indexEntries := 0
	if index != nil {
		indexEntries = index.Len()
	}

	var status string
	var httpStatus int
	switch {
	case recordCount == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	case dataAge > unhealthyAge:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	case dataAge > degradedAge:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	case isUpdating && dataAge > 12*time.Hour:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	details := map[string]any{
		"last_update":    lastUpdate.Format(time.RFC3339),
		"data_age_hours": math.Round(dataAge.Hours()*10) / 10,
		"drugs":          recordCount,
		"index_entries":  indexEntries,
		"groups":         len(groups),
		"is_updating":    isUpdating,
		"next_update":    h.CalculateNextUpdate().Format(time.RFC3339),
	}

	return status, details, httpStatus
}

// CalculateNextUpdate returns the next daily 06:00 reload time
func (h *HealthCheckerImpl) CalculateNextUpdate() time.Time {
	now := time.Now()

	next := time.Date(now.Year(), now.Month(), now.Day(), 6, 0, 0, 0, now.Location())
	if !now.Before(next) {
		next = next.Add(24 * time.Hour)
	}
	return next
}
