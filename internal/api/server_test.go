package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"regdom/internal/index"
	"regdom/pkg/psl"
)

const testRules = "com\nco.uk\n*.ck\n!www.ck\n"

func testServer(t *testing.T, loaded bool) *Server {
	t.Helper()
	lists := &psl.AtomicList{}
	s := NewServer(":0", false, lists)

	if loaded {
		positive, negative := psl.ParseRules(testRules)
		lists.Store(psl.NewList(positive, negative))
		s.Update(&Meta{
			Index:    index.Build(positive, negative),
			Positive: 3,
			Negative: 1,
			LoadedAt: time.Unix(1_755_900_000, 0),
			Source:   "download",
		})
	}
	return s
}

func doResolve(t *testing.T, s *Server, target string) (*httptest.ResponseRecorder, ResolveResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.handleResolve(rec, req)

	var resp ResolveResponse
	if rec.Code != http.StatusBadRequest && rec.Code != http.StatusServiceUnavailable &&
		rec.Code != http.StatusMethodNotAllowed {
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
	}
	return rec, resp
}

func TestHandleResolve(t *testing.T) {
	s := testServer(t, true)

	tests := []struct {
		name       string
		host       string
		wantStatus int
		wantDomain string
		wantOut    string
	}{
		{
			name:       "resolved",
			host:       "www.example.co.uk",
			wantStatus: http.StatusOK,
			wantDomain: "example.co.uk",
			wantOut:    "resolved",
		},
		{
			name:       "normalized before resolution",
			host:       "WWW.Example.CO.UK.",
			wantStatus: http.StatusOK,
			wantDomain: "example.co.uk",
			wantOut:    "resolved",
		},
		{
			name:       "public suffix",
			host:       "co.uk",
			wantStatus: http.StatusNotFound,
			wantOut:    "is_public_suffix",
		},
		{
			name:       "no match",
			host:       "localhost",
			wantStatus: http.StatusNotFound,
			wantOut:    "no_match",
		},
		{
			name:       "empty label",
			host:       "a..b",
			wantStatus: http.StatusUnprocessableEntity,
			wantOut:    "empty_label",
		},
		{
			name:       "exception overrides wildcard",
			host:       "foo.www.ck",
			wantStatus: http.StatusOK,
			wantDomain: "www.ck",
			wantOut:    "resolved",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := doResolve(t, s, "/api/v1/resolve?host="+tt.host)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if resp.Outcome != tt.wantOut {
				t.Errorf("outcome = %q, want %q", resp.Outcome, tt.wantOut)
			}
			if resp.RegistrableDomain != tt.wantDomain {
				t.Errorf("registrableDomain = %q, want %q", resp.RegistrableDomain, tt.wantDomain)
			}
		})
	}
}

func TestHandleResolveBadRequests(t *testing.T) {
	s := testServer(t, true)

	rec, _ := doResolve(t, s, "/api/v1/resolve")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing host: status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resolve?host=example.com", nil)
	rec2 := httptest.NewRecorder()
	s.handleResolve(rec2, req)
	if rec2.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST: status = %d, want %d", rec2.Code, http.StatusMethodNotAllowed)
	}
}

func TestHandleResolveNotLoaded(t *testing.T) {
	s := testServer(t, false)
	rec, _ := doResolve(t, s, "/api/v1/resolve?host=example.com")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestHandleRules(t *testing.T) {
	s := testServer(t, true)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rules?under=uk", nil)
	rec := httptest.NewRecorder()
	s.handleRules(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp RulesResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 1 || len(resp.Rules) != 1 || resp.Rules[0] != "co.uk" {
		t.Errorf("rules under uk = %+v", resp)
	}
}

func TestHandleList(t *testing.T) {
	s := testServer(t, true)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/list", nil)
	rec := httptest.NewRecorder()
	s.handleList(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp ListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.PositiveRules != 3 || resp.NegativeRules != 1 || resp.Source != "download" {
		t.Errorf("list metadata = %+v", resp)
	}
}

func TestReadyz(t *testing.T) {
	s := testServer(t, false)
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	s.handleReady(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status before load = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	loaded := testServer(t, true)
	rec2 := httptest.NewRecorder()
	loaded.handleReady(rec2, req)
	if rec2.Code != http.StatusOK {
		t.Errorf("status after load = %d, want %d", rec2.Code, http.StatusOK)
	}
}
