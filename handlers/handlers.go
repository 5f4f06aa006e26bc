// Package handlers provides the HTTP request handlers for the drug
// information API. It includes handlers for catalog listing and pagination,
// exact name resolution, free-text matching, question answering, and health
// checks, with input validation and JSON response formatting.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ryoungl/health-information-harmonizer/data"
	"github.com/ryoungl/health-information-harmonizer/drugdb/entities"
	"github.com/ryoungl/health-information-harmonizer/interfaces"
	"github.com/ryoungl/health-information-harmonizer/logging"
)

const apiVersion = "1.0"

// Index returns API information and dataset statistics
func Index(dataContainer *data.DataContainer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		catalog := dataContainer.GetCatalog()

		response := map[string]any{
			"name":        "Health Information Harmonizer",
			"version":     apiVersion,
			"description": "Recognizes medication names in free-form text and harmonizes them against a curated OTC dataset.",
			"endpoints": []string{
				"POST /ask",
				"POST /match",
				"GET /drugs",
				"GET /drugs/page/{pageNumber}",
				"GET /drugs/name/{name}",
				"GET /health",
				"GET /metrics",
				"GET /docs",
			},
			"dataset": map[string]any{
				"drugs":       catalog.Len(),
				"groups":      len(dataContainer.GetGroups()),
				"last_update": dataContainer.GetLastUpdated().Format(time.RFC3339),
			},
		}

		RespondWithJSON(w, r, http.StatusOK, response)
	}
}

// ServeAllDrugs returns every record in the catalog
func ServeAllDrugs(dataContainer *data.DataContainer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records := dataContainer.GetCatalog().Records()
		if records == nil {
			records = []entities.DrugRecord{}
		}
		RespondWithJSON(w, r, http.StatusOK, records)
	}
}

// ServePagedDrugs returns one page of catalog records
func ServePagedDrugs(dataContainer *data.DataContainer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pageNumber := chi.URLParam(r, "pageNumber")
		page, err := strconv.Atoi(pageNumber)
		if err != nil || page < 1 {
			logging.Warn("Unusual user input", "pageNumber", pageNumber)
			RespondWithError(w, http.StatusBadRequest, "Invalid page number")
			return
		}

		records := dataContainer.GetCatalog().Records()
		pageSize := 10
		start := (page - 1) * pageSize
		end := start + pageSize

		if start >= len(records) {
			RespondWithError(w, http.StatusNotFound, "Page not found")
			return
		}

		if end > len(records) {
			end = len(records)
		}

		pagedRecords := records[start:end]
		totalItems := len(records)
		maxPage := (totalItems + pageSize - 1) / pageSize

		response := map[string]any{
			"data":       pagedRecords,
			"page":       page,
			"pageSize":   pageSize,
			"totalItems": totalItems,
			"maxPage":    maxPage,
		}

		RespondWithJSON(w, r, http.StatusOK, response)
	}
}

// ResolveDrug resolves a single candidate name to one record
func ResolveDrug(dataContainer *data.DataContainer, validator interfaces.DataValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if name == "" {
			RespondWithError(w, http.StatusBadRequest, "Missing drug name")
			return
		}

		if err := validator.ValidateDrugName(name); err != nil {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		record := dataContainer.GetCatalog().Resolve(name)
		if record == nil {
			RespondWithError(w, http.StatusNotFound, "Drug not found")
			return
		}

		RespondWithJSON(w, r, http.StatusOK, record)
	}
}

// MatchRequest is the /match request body
type MatchRequest struct {
	Text string `json:"text"`
}

// MatchText scans free text against the variant index and returns the
// matched ingredient groups. Pure lexical matching, no model involved.
func MatchText(dataContainer *data.DataContainer, validator interfaces.DataValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		if err := validator.ValidateMatchText(req.Text); err != nil {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		groups := dataContainer.GetIndex().MatchGrouped(req.Text)
		if groups == nil {
			groups = []entities.DrugGroup{}
		}

		response := map[string]any{
			"count":  len(groups),
			"groups": groups,
		}

		RespondWithJSON(w, r, http.StatusOK, response)
	}
}

// HealthResponse defines the structure for consistent JSON ordering
type HealthResponse struct {
	Status        string         `json:"status"`
	UptimeSeconds float64        `json:"uptime_seconds"`
	UptimeHuman   string         `json:"uptime_human"`
	Data          map[string]any `json:"data"`
	System        map[string]any `json:"system"`
}

// HealthCheck returns server health information
func HealthCheck(dataContainer *data.DataContainer, checker interfaces.HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Get memory statistics
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		uptime := time.Since(dataContainer.GetServerStartTime())
		status, details, httpStatus := checker.HealthCheck()

		response := HealthResponse{
			Status:        status,
			UptimeSeconds: uptime.Seconds(),
			UptimeHuman:   formatUptimeHuman(uptime),
			Data:          details,
			System: map[string]any{
				"goroutines": runtime.NumGoroutine(),
				"memory": map[string]any{
					"alloc_mb":       int(m.Alloc / 1024 / 1024),
					"total_alloc_mb": int(m.TotalAlloc / 1024 / 1024),
					"sys_mb":         int(m.Sys / 1024 / 1024),
					"num_gc":         m.NumGC,
				},
			},
		}

		RespondWithJSON(w, r, httpStatus, response)
	}
}

// formatUptimeHuman formats duration into a human-readable string
func formatUptimeHuman(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string

	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))

	return strings.Join(parts, " ")
}
