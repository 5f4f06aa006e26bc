package health

import (
	"net/http"
	"testing"
	"time"

	"github.com/ryoungl/health-information-harmonizer/drugdb"
	"github.com/ryoungl/health-information-harmonizer/drugdb/entities"
)

// MockHealthDataStore for testing
type MockHealthDataStore struct {
	catalog     *drugdb.Catalog
	index       *drugdb.Index
	groups      []entities.DrugGroup
	lastUpdated time.Time
	isUpdating  bool
}

func (m *MockHealthDataStore) GetCatalog() *drugdb.Catalog {
	return m.catalog
}

func (m *MockHealthDataStore) GetIndex() *drugdb.Index {
	return m.index
}

func (m *MockHealthDataStore) GetGroups() []entities.DrugGroup {
	return m.groups
}

func (m *MockHealthDataStore) GetLastUpdated() time.Time {
	return m.lastUpdated
}

func (m *MockHealthDataStore) IsUpdating() bool {
	return m.isUpdating
}

func (m *MockHealthDataStore) GetServerStartTime() time.Time {
	return time.Time{}
}

func (m *MockHealthDataStore) UpdateData(catalog *drugdb.Catalog, index *drugdb.Index, groups []entities.DrugGroup) {
	// Not used in health tests
}

func (m *MockHealthDataStore) BeginUpdate() bool {
	return true
}

func (m *MockHealthDataStore) EndUpdate() {
	// Not used in health tests
}

// healthStore builds a mock store holding the given records
func healthStore(names []string, age time.Duration, updating bool) *MockHealthDataStore {
	records := make([]entities.DrugRecord, 0, len(names))
	for _, name := range names {
		records = append(records, entities.DrugRecord{
			BaseName:    name,
			GenericName: name,
		})
	}
	catalog := drugdb.FromRecords(records)
	index := drugdb.BuildIndex(catalog)

	ptrs := make([]*entities.DrugRecord, catalog.Len())
	for i := 0; i < catalog.Len(); i++ {
		ptrs[i] = catalog.At(i)
	}

	return &MockHealthDataStore{
		catalog:     catalog,
		index:       index,
		groups:      drugdb.GroupRecords(ptrs),
		lastUpdated: time.Now().Add(-age),
		isUpdating:  updating,
	}
}

func TestNewHealthChecker(t *testing.T) {
	mockDataStore := &MockHealthDataStore{}

	healthChecker := NewHealthChecker(mockDataStore)

	if healthChecker == nil {
		t.Fatal("NewHealthChecker returned nil")
	}

	if _, ok := healthChecker.(*HealthCheckerImpl); !ok {
		t.Error("NewHealthChecker should return *HealthCheckerImpl")
	}
}

func TestHealthCheck_Healthy(t *testing.T) {
	// Recent data, no update in flight
	mockDataStore := healthStore([]string{"IBUPROFEN", "LOPERAMIDE"}, 1*time.Hour, false)

	healthChecker := NewHealthChecker(mockDataStore)
	status, details, httpStatus := healthChecker.HealthCheck()

	if status != "healthy" {
		t.Errorf("Expected status 'healthy', got '%s'", status)
	}

	if httpStatus != http.StatusOK {
		t.Errorf("Expected HTTP status 200, got %d", httpStatus)
	}

	if details == nil {
		t.Fatal("Details should not be nil")
	}

	// Check required fields
	for _, key := range []string{"last_update", "data_age_hours", "drugs", "index_entries", "groups", "is_updating", "next_update"} {
		if _, ok := details[key]; !ok {
			t.Errorf("Details should contain '%s'", key)
		}
	}

	if details["drugs"] != 2 {
		t.Errorf("Expected 2 drugs, got %v", details["drugs"])
	}

	if details["groups"] != 2 {
		t.Errorf("Expected 2 groups, got %v", details["groups"])
	}

	if details["is_updating"] != false {
		t.Errorf("Expected is_updating false, got %v", details["is_updating"])
	}
}

func TestHealthCheck_Unhealthy_NoData(t *testing.T) {
	// Empty catalog
	mockDataStore := healthStore(nil, 1*time.Hour, false)

	healthChecker := NewHealthChecker(mockDataStore)
	status, details, httpStatus := healthChecker.HealthCheck()

	if status != "unhealthy" {
		t.Errorf("Expected status 'unhealthy', got '%s'", status)
	}

	if httpStatus != http.StatusServiceUnavailable {
		t.Errorf("Expected HTTP status 503, got %d", httpStatus)
	}

	if details == nil {
		t.Error("Details should not be nil")
	}
}

func TestHealthCheck_Unhealthy_NilCatalog(t *testing.T) {
	mockDataStore := &MockHealthDataStore{
		lastUpdated: time.Now().Add(-1 * time.Hour),
	}

	healthChecker := NewHealthChecker(mockDataStore)
	status, _, httpStatus := healthChecker.HealthCheck()

	if status != "unhealthy" {
		t.Errorf("Expected status 'unhealthy', got '%s'", status)
	}

	if httpStatus != http.StatusServiceUnavailable {
		t.Errorf("Expected HTTP status 503, got %d", httpStatus)
	}
}

func TestHealthCheck_Unhealthy_VeryOldData(t *testing.T) {
	// Older than two missed reloads
	mockDataStore := healthStore([]string{"IBUPROFEN"}, 51*time.Hour, false)

	healthChecker := NewHealthChecker(mockDataStore)
	status, _, httpStatus := healthChecker.HealthCheck()

	if status != "unhealthy" {
		t.Errorf("Expected status 'unhealthy', got '%s'", status)
	}

	if httpStatus != http.StatusServiceUnavailable {
		t.Errorf("Expected HTTP status 503, got %d", httpStatus)
	}
}

func TestHealthCheck_Degraded_OldData(t *testing.T) {
	// One missed daily reload
	mockDataStore := healthStore([]string{"IBUPROFEN"}, 27*time.Hour, false)

	healthChecker := NewHealthChecker(mockDataStore)
	status, details, httpStatus := healthChecker.HealthCheck()

	if status != "degraded" {
		t.Errorf("Expected status 'degraded', got '%s'", status)
	}

	if httpStatus != http.StatusServiceUnavailable {
		t.Errorf("Expected HTTP status 503, got %d", httpStatus)
	}

	dataAge := details["data_age_hours"].(float64)
	if dataAge < 26 {
		t.Errorf("Expected data age > 26 hours, got %f", dataAge)
	}
}

func TestHealthCheck_Degraded_StaleWhileUpdating(t *testing.T) {
	// Update in flight but data already half a day old
	mockDataStore := healthStore([]string{"IBUPROFEN"}, 13*time.Hour, true)

	healthChecker := NewHealthChecker(mockDataStore)
	status, _, httpStatus := healthChecker.HealthCheck()

	if status != "degraded" {
		t.Errorf("Expected status 'degraded', got '%s'", status)
	}

	if httpStatus != http.StatusServiceUnavailable {
		t.Errorf("Expected HTTP status 503, got %d", httpStatus)
	}
}

func TestHealthCheck_Healthy_FreshWhileUpdating(t *testing.T) {
	// Update in flight with fresh data stays healthy
	mockDataStore := healthStore([]string{"IBUPROFEN"}, 1*time.Hour, true)

	healthChecker := NewHealthChecker(mockDataStore)
	status, details, httpStatus := healthChecker.HealthCheck()

	if status != "healthy" {
		t.Errorf("Expected status 'healthy', got '%s'", status)
	}

	if httpStatus != http.StatusOK {
		t.Errorf("Expected HTTP status 200, got %d", httpStatus)
	}

	if details["is_updating"] != true {
		t.Errorf("Expected is_updating true, got %v", details["is_updating"])
	}
}

func TestCalculateNextUpdate(t *testing.T) {
	mockDataStore := &MockHealthDataStore{}
	healthChecker := NewHealthChecker(mockDataStore)

	nextUpdate := healthChecker.CalculateNextUpdate()

	now := time.Now()
	sixAM := time.Date(now.Year(), now.Month(), now.Day(), 6, 0, 0, 0, now.Location())

	var expected time.Time
	if now.Before(sixAM) {
		expected = sixAM
	} else {
		expected = sixAM.Add(24 * time.Hour)
	}

	if !nextUpdate.Equal(expected) {
		t.Errorf("Expected next update at %v, got %v", expected, nextUpdate)
	}

	if !nextUpdate.After(now) {
		t.Errorf("Next update %v should be in the future", nextUpdate)
	}

	if nextUpdate.Hour() != 6 || nextUpdate.Minute() != 0 {
		t.Errorf("Next update should be at 06:00, got %02d:%02d", nextUpdate.Hour(), nextUpdate.Minute())
	}
}

func TestHealthCheck_DataAgeRounding(t *testing.T) {
	mockDataStore := healthStore([]string{"IBUPROFEN"}, 90*time.Minute, false)

	healthChecker := NewHealthChecker(mockDataStore)
	_, details, _ := healthChecker.HealthCheck()

	dataAge := details["data_age_hours"].(float64)
	if dataAge != 1.5 {
		t.Errorf("Expected data age 1.5 hours, got %v", dataAge)
	}
}
