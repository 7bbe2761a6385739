package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	applog "txboard/internal/log"
	"txboard/internal/store"
	appweb "txboard/web"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.uptime).String(),
	})
}

// handleReady reports ready only once the dataset has loaded. A failed load
// keeps the service unready for good, since the store never reloads.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	state := s.store.State()
	checks := make(map[string]any)
	status := "ready"
	httpStatus := http.StatusOK

	switch state {
	case store.StateLoaded:
		stats, _ := s.store.Stats()
		checks["dataset"] = stats
	case store.StateFailed:
		status = "failed"
		httpStatus = http.StatusServiceUnavailable
		checks["dataset"] = fmt.Sprintf("failed: %v", s.store.Err())
	default:
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
		checks["dataset"] = string(state)
	}

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if s.aggCache != nil {
		checks["cache"] = map[string]any{"aggregate_entries": s.aggCache.Size(), "status": "ok"}
	}
	checks["rate_limiter"] = map[string]any{"active_clients": s.rateLimiter.ActiveClients(), "status": "ok"}

	_ = writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"state":     state,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics provides application and security metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	securityMetrics := s.securityDetector.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()
	traceMetrics := s.traceMiddleware.GetMetrics()
	stats, loaded := s.store.Stats()

	aggEntries := 0
	if s.aggCache != nil {
		aggEntries = s.aggCache.Size()
	}

	w.WriteHeader(http.StatusOK)

	metric := func(name, help, kind string, value any) {
		fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		fmt.Fprintf(w, "# TYPE %s %s\n", name, kind)
		fmt.Fprintf(w, "%s %v\n\n", name, value)
	}

	metric("http_requests_total", "Total number of HTTP requests", "counter", traceMetrics.TotalRequests)
	metric("http_request_duration_avg_microseconds", "Average request duration", "gauge", traceMetrics.AverageResponseTime)
	metric("filter_requests_total", "Total number of filter requests", "counter", atomic.LoadInt64(&s.appMetrics.filterRequests))
	metric("aggregate_cache_hits_total", "Aggregate cache hits", "counter", atomic.LoadInt64(&s.appMetrics.aggregateHits))
	metric("aggregate_cache_misses_total", "Aggregate cache misses", "counter", atomic.LoadInt64(&s.appMetrics.aggregateMisses))
	metric("aggregate_cache_entries", "Current aggregate cache entries", "gauge", aggEntries)
	metric("chart_cache_hits_total", "Chart image cache hits", "counter", atomic.LoadInt64(&s.appMetrics.chartHits))
	metric("chart_cache_misses_total", "Chart image cache misses", "counter", atomic.LoadInt64(&s.appMetrics.chartMisses))
	metric("rate_limit_hits_total", "Total rate limit hits", "counter", rateLimitMetrics.TotalHits)
	metric("active_rate_limit_clients", "Currently tracked rate limit clients", "gauge", rateLimitMetrics.ClientCount)
	metric("suspicious_requests_total", "Total suspicious requests detected", "counter", securityMetrics.SuspiciousRequests)

	loadedValue := 0
	if loaded {
		loadedValue = 1
	}
	metric("dataset_loaded", "Whether the dataset has loaded", "gauge", loadedValue)
	metric("dataset_customers", "Customers in the loaded dataset", "gauge", stats.Customers)
	metric("dataset_transactions", "Transactions in the loaded dataset", "gauge", stats.Transactions)
	metric("dataset_orphans", "Transactions without a matching customer", "gauge", stats.Orphans)
	metric("uptime_seconds", "Application uptime in seconds", "gauge", fmt.Sprintf("%.0f", time.Since(s.appMetrics.uptime).Seconds()))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded",
			applog.FieldPath, r.URL.Path,
			"error_type", applog.ErrorTypeConfiguration)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := struct {
		Table transactionsView
	}{
		// A fresh page starts from the full list with empty search inputs,
		// whatever another client last filtered.
		Table: s.transactionsView(s.store.Transactions()),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.ErrorContext(r.Context(), "Index template execution failed",
			applog.FieldError, err,
			"template", "index.html")
	}
}

// handleDataset serves the bundled sample dataset at its historical path.
func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	http.ServeFileFS(w, r, appweb.DataFS, appweb.DataPath)
}

// writeAPIError writes a JSON error body.
func writeAPIError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: msg})
}
