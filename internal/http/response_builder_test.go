package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTMXResponseBuilder(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHTMXResponse().
		Status(http.StatusAccepted).
		TriggerTransactionsFiltered(4).
		TriggerModalOpen("7").
		Header("X-Test", "1").
		BodyHTML([]byte("<p>ok</p>")).
		Write(rr)

	if rr.Code != http.StatusAccepted {
		t.Errorf("status=%d", rr.Code)
	}
	if rr.Header().Get("Content-Type") != "text/html; charset=utf-8" {
		t.Errorf("Content-Type=%q", rr.Header().Get("Content-Type"))
	}
	if rr.Header().Get("X-Test") != "1" {
		t.Error("custom header missing")
	}
	if rr.Body.String() != "<p>ok</p>" {
		t.Errorf("body=%q", rr.Body.String())
	}

	var triggers map[string]map[string]any
	if err := json.Unmarshal([]byte(rr.Header().Get("HX-Trigger")), &triggers); err != nil {
		t.Fatalf("HX-Trigger is not JSON: %v", err)
	}
	if triggers[EventTransactionsFiltered]["count"] != float64(4) {
		t.Errorf("filtered trigger=%v", triggers[EventTransactionsFiltered])
	}
	if triggers[EventModalOpen]["customer_id"] != "7" {
		t.Errorf("modal trigger=%v", triggers[EventModalOpen])
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name    string
		builder *HTMXResponseBuilder
		status  int
	}{
		{"not found", NotFoundError("<missing>"), http.StatusNotFound},
		{"bad request", BadRequestError("bad"), http.StatusBadRequest},
		{"internal", InternalServerError("boom"), http.StatusInternalServerError},
		{"unavailable", ServiceUnavailableError("later"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tt.builder.Write(rr)
			if rr.Code != tt.status {
				t.Errorf("status=%d, want %d", rr.Code, tt.status)
			}
			if rr.Header().Get("HX-Trigger") != "" {
				t.Error("error responses carry no triggers")
			}
		})
	}

	rr := httptest.NewRecorder()
	NotFoundError("<missing>").Write(rr)
	if rr.Body.String() != `<div class="error">&lt;missing&gt;</div>` {
		t.Errorf("message not escaped: %q", rr.Body.String())
	}
}
