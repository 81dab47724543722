package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"buurtmarkt/internal/domain/entities"
)

const foundBody = `{"response":{"numFound":1,"start":0,"docs":[{"weergavenaam":"Damrak 1, 1012LG Amsterdam","centroide_ll":"POINT(4.89405 52.37553)"}]}}`

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestPDOKClient_Geocode_Success(t *testing.T) {
	var gotQuery string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(foundBody))
	})

	client := NewPDOKClient(srv.URL, time.Second, nil)
	result, err := client.Geocode(context.Background(), entities.AddressQuery{Postcode: "1012 lg", HouseNumber: " 1"})
	if err != nil {
		t.Fatalf("Geocode failed: %v", err)
	}

	if gotQuery != "postcode:1012LG and huisnummer:1" {
		t.Errorf("Unexpected query %q", gotQuery)
	}
	if result.Coordinate.Lat != 52.37553 || result.Coordinate.Lng != 4.89405 {
		t.Errorf("Unexpected coordinate %+v", result.Coordinate)
	}
	if result.FormattedAddress != "Damrak 1, 1012LG Amsterdam" {
		t.Errorf("Unexpected address %q", result.FormattedAddress)
	}
}

func TestPDOKClient_Geocode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"no match", http.StatusOK, `{"response":{"numFound":0,"docs":[]}}`, entities.ErrNotFound},
		{"server error", http.StatusInternalServerError, `oops`, entities.ErrServiceError},
		{"bad request", http.StatusBadRequest, `{}`, entities.ErrServiceError},
		{"malformed json", http.StatusOK, `{"response":`, entities.ErrServiceError},
		{"malformed point", http.StatusOK, `{"response":{"numFound":1,"docs":[{"weergavenaam":"x","centroide_ll":"POINT(abc)"}]}}`, entities.ErrServiceError},
		{"point out of range", http.StatusOK, `{"response":{"numFound":1,"docs":[{"weergavenaam":"x","centroide_ll":"POINT(4.9 152.3)"}]}}`, entities.ErrServiceError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			client := NewPDOKClient(srv.URL, time.Second, nil)
			_, err := client.Geocode(context.Background(), entities.AddressQuery{Postcode: "1012LG", HouseNumber: "1"})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestPDOKClient_Geocode_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	client := NewPDOKClient(srv.URL, 50*time.Millisecond, nil)
	start := time.Now()
	_, err := client.Geocode(context.Background(), entities.AddressQuery{Postcode: "1012LG", HouseNumber: "1"})

	if !errors.Is(err, entities.ErrTimeout) {
		t.Fatalf("Expected timeout, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("Timeout was not enforced")
	}
}

func TestNewPDOKClient_Defaults(t *testing.T) {
	client := NewPDOKClient("", 0, nil)
	if client.baseURL != DefaultPDOKBaseURL {
		t.Errorf("Expected default base URL, got %s", client.baseURL)
	}
	if client.timeout != DefaultTimeout {
		t.Errorf("Expected 8s timeout, got %s", client.timeout)
	}
}

func TestParsePoint(t *testing.T) {
	tests := []struct {
		in      string
		wantLat float64
		wantLng float64
		wantErr bool
	}{
		{"POINT(4.89405 52.37553)", 52.37553, 4.89405, false},
		{" POINT(-68.93 12.11) ", 12.11, -68.93, false},
		{"point(5 52)", 52, 5, false},
		{"POINT(4.9)", 0, 0, true},
		{"4.9 52.3", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePoint(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got.Lat != tt.wantLat || got.Lng != tt.wantLng {
				t.Errorf("parsePoint(%q) = %+v", tt.in, got)
			}
		})
	}
}

func TestPDOKClient_RequestShape(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET, got %s", r.Method)
		}
		if r.URL.Query().Get("fq") != "type:adres" {
			t.Errorf("Expected address filter, got %q", r.URL.Query().Get("fq"))
		}
		if r.URL.Query().Get("rows") != "1" {
			t.Errorf("Expected a single row, got %q", r.URL.Query().Get("rows"))
		}
		if !strings.Contains(r.Header.Get("Accept"), "application/json") {
			t.Errorf("Expected JSON accept header")
		}
		w.Write([]byte(foundBody))
	})

	client := NewPDOKClient(srv.URL, time.Second, nil)
	if _, err := client.Geocode(context.Background(), entities.AddressQuery{Postcode: "1012LG", HouseNumber: "1"}); err != nil {
		t.Fatalf("Geocode failed: %v", err)
	}
}
