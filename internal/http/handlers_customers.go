package http

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"

	"txboard/internal/chart"
	"txboard/internal/core"
	applog "txboard/internal/log"
	"txboard/internal/store"
)

// customerView is the modal partial's data.
type customerView struct {
	Name        string
	ID          string
	Kind        string
	TotalAmount string
	TotalCount  int
	Series      []core.DateTotal
	Labels      []string
	Values      []float64
	SeriesLabel string
	ChartURL    string
}

func customerKey(c core.Customer) string {
	return string(c.ID.Kind()) + ":" + c.ID.String()
}

// aggregate returns the customer's aggregate, served from the cache when possible.
func (s *Server) aggregate(c core.Customer) (core.Aggregate, bool) {
	key := "agg:" + customerKey(c)
	if s.aggCache != nil {
		if agg, ok := s.aggCache.Get(key); ok {
			atomic.AddInt64(&s.appMetrics.aggregateHits, 1)
			return agg, true
		}
	}
	atomic.AddInt64(&s.appMetrics.aggregateMisses, 1)

	agg, ok := s.store.AggregateByCustomer(c.ID)
	if ok && s.aggCache != nil {
		s.aggCache.Set(key, agg)
	}
	return agg, ok
}

// resolveCustomer writes an error response and returns false when the route
// does not name a loaded customer.
func (s *Server) resolveCustomer(w http.ResponseWriter, r *http.Request, api bool) (core.Customer, bool) {
	if s.store.State() != store.StateLoaded {
		if api {
			writeAPIError(w, http.StatusServiceUnavailable, core.ErrNotLoaded.Error())
		} else {
			ServiceUnavailableError("Data is not loaded yet").Write(w)
		}
		return core.Customer{}, false
	}

	ref := ParseCustomerRef(r)
	c, err := ref.Resolve(s.store)
	if err == nil {
		return c, true
	}

	status := http.StatusNotFound
	if errors.Is(err, core.ErrInvalidID) {
		status = http.StatusBadRequest
	}
	if api {
		writeAPIError(w, status, err.Error())
	} else {
		ErrorResponse(status, "Customer not found").Write(w)
	}
	return core.Customer{}, false
}

// handleCustomerModal renders the per-customer modal: totals, per-date table
// and chart.
func (s *Server) handleCustomerModal(w http.ResponseWriter, r *http.Request) {
	c, ok := s.resolveCustomer(w, r, false)
	if !ok {
		return
	}
	agg, _ := s.aggregate(c)

	data := customerView{
		Name:        c.Name,
		ID:          c.ID.String(),
		Kind:        string(c.ID.Kind()),
		TotalAmount: core.FormatAmount(agg.TotalAmount),
		TotalCount:  agg.TotalCount,
		Series:      agg.Series,
		Labels:      make([]string, 0, len(agg.Series)),
		Values:      make([]float64, 0, len(agg.Series)),
		SeriesLabel: chart.SeriesLabel,
		ChartURL:    "/customers/" + url.PathEscape(c.ID.String()) + "/chart.png?kind=" + url.QueryEscape(string(c.ID.Kind())),
	}
	for _, p := range agg.Series {
		data.Labels = append(data.Labels, p.Date)
		data.Values = append(data.Values, p.Amount)
	}
	if s.templates == nil {
		InternalServerError("templates not loaded").Write(w)
		return
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "customer_modal.html", data); err != nil {
		s.logger.ErrorContext(r.Context(), "Template execution error",
			applog.FieldError, err,
			"template", "customer_modal.html",
			applog.FieldCustomerID, data.ID)
		InternalServerError("Error rendering customer").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerModalOpen(data.ID).
		BodyHTML(buf.Bytes()).
		Write(w)
}

// handleCustomerChart serves the customer's bar chart as PNG.
func (s *Server) handleCustomerChart(w http.ResponseWriter, r *http.Request) {
	c, ok := s.resolveCustomer(w, r, false)
	if !ok {
		return
	}

	key := "chart:" + customerKey(c) + ":" + strconv.Itoa(s.renderer.Width) + "x" + strconv.Itoa(s.renderer.Height)
	if s.chartCache != nil {
		if png, hit := s.chartCache.Get(key); hit {
			atomic.AddInt64(&s.appMetrics.chartHits, 1)
			writePNG(w, png)
			return
		}
	}
	atomic.AddInt64(&s.appMetrics.chartMisses, 1)

	agg, _ := s.aggregate(c)
	png, err := s.renderer.PNG(agg)
	if errors.Is(err, chart.ErrNoData) {
		NotFoundError("No transactions for this customer").Write(w)
		return
	}
	if err != nil {
		applog.NewStructuredLogger(s.logger).LogError(r.Context(), "Chart render failed", err,
			applog.ComponentChart, applog.OpRender,
			applog.NewFields().WithCustomer(c.ID.String(), c.Name))
		InternalServerError("Error rendering chart").Write(w)
		return
	}

	if s.chartCache != nil {
		s.chartCache.Set(key, png)
	}
	writePNG(w, png)
}

func writePNG(w http.ResponseWriter, png []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (s *Server) handleAPICustomers(w http.ResponseWriter, r *http.Request) {
	if s.store.State() != store.StateLoaded {
		writeAPIError(w, http.StatusServiceUnavailable, core.ErrNotLoaded.Error())
		return
	}
	_ = writeJSON(w, http.StatusOK, s.store.Customers())
}

func (s *Server) handleAPICustomer(w http.ResponseWriter, r *http.Request) {
	c, ok := s.resolveCustomer(w, r, true)
	if !ok {
		return
	}
	_ = writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleAPIAggregate(w http.ResponseWriter, r *http.Request) {
	c, ok := s.resolveCustomer(w, r, true)
	if !ok {
		return
	}
	agg, _ := s.aggregate(c)
	_ = writeJSON(w, http.StatusOK, agg)
}
