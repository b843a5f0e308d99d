package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"buscacnpj/apperrors"
)

func newTestClient(serverURL string) *Client {
	return NewClient("test-key", serverURL, 5*time.Second)
}

func TestSearchOffices_CursorPagination(t *testing.T) {
	var requests []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.RawQuery)

		if r.Header.Get("Authorization") != "test-key" {
			t.Errorf("missing Authorization header")
		}
		if r.Header.Get("User-Agent") != "cnpja-client/1.0" {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("token") {
		case "":
			// First page must carry the structured filters.
			q := r.URL.Query()
			if q.Get("address.zip.in") != "11015000" || q.Get("address.number.in") != "120" || q.Get("status.id.in") != "2" {
				t.Errorf("unexpected first-page query: %s", r.URL.RawQuery)
			}
			w.Write([]byte(`{"records": [{"taxId": "1"}, {"taxId": "2"}], "next": "cursor-a"}`))
		case "cursor-a":
			// Follow-up requests must carry only the token.
			if len(r.URL.Query()) != 1 {
				t.Errorf("token request must carry only the token, got: %s", r.URL.RawQuery)
			}
			w.Write([]byte(`{"records": [{"taxId": "3"}], "next": "cursor-b"}`))
		case "cursor-b":
			w.Write([]byte(`{"records": [{"taxId": "4"}]}`))
		default:
			t.Errorf("unexpected token %q", r.URL.Query().Get("token"))
		}
	}))
	defer srv.Close()

	offices, err := newTestClient(srv.URL).SearchOffices(context.Background(), "11015000", "120")
	if err != nil {
		t.Fatalf("SearchOffices: %v", err)
	}

	if len(offices) != 4 {
		t.Fatalf("got %d offices, want 4", len(offices))
	}
	for i, want := range []string{"1", "2", "3", "4"} {
		if offices[i].TaxID != want {
			t.Errorf("offices[%d].TaxID = %q, want %q", i, offices[i].TaxID, want)
		}
	}
	if len(requests) != 3 {
		t.Errorf("made %d requests, want 3", len(requests))
	}
}

func TestSearchOffices_EmptyRecordsField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	offices, err := newTestClient(srv.URL).SearchOffices(context.Background(), "11015000", "120")
	if err != nil {
		t.Fatalf("an absent records field is an empty page, not an error: %v", err)
	}
	if len(offices) != 0 {
		t.Errorf("got %d offices, want 0", len(offices))
	}
}

func TestSearchOffices_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).SearchOffices(context.Background(), "11015000", "120")
	if err == nil {
		t.Fatal("expected error for HTTP 429")
	}
	if !apperrors.IsUpstream(err) {
		t.Errorf("expected upstream error, got %v", err)
	}
}

func TestSearchOffices_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL, 20*time.Millisecond)
	_, err := c.SearchOffices(context.Background(), "11015000", "120")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !apperrors.IsTimeout(err) {
		t.Errorf("expected timeout error, got %v", err)
	}
}
