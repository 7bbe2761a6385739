package http

import (
	"bytes"
	"net/http"
	"net/url"
	"sync/atomic"

	"txboard/internal/core"
	applog "txboard/internal/log"
	"txboard/internal/store"
)

// rowView is one rendered table row. CustomerPath is the id escaped for use
// as a URL path segment.
type rowView struct {
	CustomerID   string `json:"customer_id"`
	CustomerPath string `json:"-"`
	CustomerKind string `json:"customer_kind"`
	CustomerName string `json:"customer_name"`
	Date         string `json:"date"`
	Amount       string `json:"amount"`
}

// transactionsView is the table partial's data. Count is the size of the
// filtered view, which may exceed len(Rows) when orphans are present.
type transactionsView struct {
	Rows    []rowView `json:"rows"`
	Count   int       `json:"count"`
	Message string    `json:"message"`
}

func (s *Server) transactionsView(view []core.Transaction) transactionsView {
	rows := s.store.Rows(view)
	out := transactionsView{
		Rows:    make([]rowView, 0, len(rows)),
		Count:   len(view),
		Message: core.StatusMessage(len(view)),
	}
	for _, row := range rows {
		out.Rows = append(out.Rows, rowView{
			CustomerID:   row.Customer.ID.String(),
			CustomerPath: url.PathEscape(row.Customer.ID.String()),
			CustomerKind: string(row.Customer.ID.Kind()),
			CustomerName: row.Customer.Name,
			Date:         row.Transaction.Date,
			Amount:       core.FormatAmount(row.Transaction.Amount),
		})
	}
	return out
}

// handleTransactionsPartial filters the transactions and renders the table
// body with its status message. Before the dataset loads it renders the
// empty state.
func (s *Server) handleTransactionsPartial(w http.ResponseWriter, r *http.Request) {
	params := ParseFilterParams(r.URL.Query())
	view := s.applyFilter(r, params)
	data := s.transactionsView(view)

	if s.templates == nil {
		InternalServerError("templates not loaded").Write(w)
		return
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "transactions.html", data); err != nil {
		s.logger.ErrorContext(r.Context(), "Template execution error",
			applog.FieldError, err,
			"template", "transactions.html")
		InternalServerError("Error rendering transactions").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerTransactionsFiltered(data.Count).
		BodyHTML(buf.Bytes()).
		Write(w)
}

func (s *Server) applyFilter(r *http.Request, params FilterParams) []core.Transaction {
	atomic.AddInt64(&s.appMetrics.filterRequests, 1)
	view := s.store.Filter(params.Name, params.Amount)
	applog.NewStructuredLogger(applog.FromContext(r.Context())).
		LogFilterApplied(r.Context(), params.Name, params.Amount, len(view))
	return view
}

// handleAPITransactions returns the filtered view as JSON. Without name or
// amount parameters the current view is returned unchanged.
func (s *Server) handleAPITransactions(w http.ResponseWriter, r *http.Request) {
	if s.store.State() != store.StateLoaded {
		writeAPIError(w, http.StatusServiceUnavailable, core.ErrNotLoaded.Error())
		return
	}

	q := r.URL.Query()
	var view []core.Transaction
	if q.Has("name") || q.Has("amount") {
		view = s.applyFilter(r, ParseFilterParams(q))
	} else {
		view = s.store.CurrentFilteredTransactions()
	}
	_ = writeJSON(w, http.StatusOK, s.transactionsView(view))
}
