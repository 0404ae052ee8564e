package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return New(Config{BaseURL: srv.URL, HTTPClient: srv.Client()}), srv
}

func TestGeocodeResolvesFirstHit(t *testing.T) {
	var gotQuery, gotUA string
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotUA = r.Header.Get("User-Agent")
		if r.URL.Query().Get("format") != "json" || r.URL.Query().Get("limit") != "1" {
			t.Errorf("query params = %v", r.URL.Query())
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"47.6062","lon":"-122.3321","display_name":"Seattle, King County, Washington"}]`))
	})
	defer srv.Close()

	res, err := client.Geocode(context.Background(), "  seattle  ")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	if res == nil {
		t.Fatalf("result nil")
	}
	if res.Lat != 47.6062 || res.Lng != -122.3321 {
		t.Fatalf("coords = %v/%v", res.Lat, res.Lng)
	}
	if res.Formatted != "Seattle, King County, Washington" {
		t.Fatalf("formatted = %q", res.Formatted)
	}
	if gotQuery != "seattle" {
		t.Fatalf("query = %q, want trimmed", gotQuery)
	}
	if gotUA != "homagio" {
		t.Fatalf("user agent = %q", gotUA)
	}
}

func TestGeocodeBlankInput(t *testing.T) {
	client := New(Config{})
	res, err := client.Geocode(context.Background(), "   ")
	if err != nil || res != nil {
		t.Fatalf("blank input = %v, %v; want nil, nil", res, err)
	}
}

func TestGeocodeNoResults(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	defer srv.Close()

	res, err := client.Geocode(context.Background(), "nowhere")
	if err != nil || res != nil {
		t.Fatalf("empty result = %v, %v; want nil, nil", res, err)
	}
}

func TestGeocodeServiceErrorYieldsNil(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "throttled", http.StatusTooManyRequests)
	})
	defer srv.Close()

	res, err := client.Geocode(context.Background(), "seattle")
	if err != nil || res != nil {
		t.Fatalf("service error = %v, %v; want nil, nil", res, err)
	}
}

func TestGeocodeNonNumericCoordinatesYieldNil(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"lat":"north","lon":"-122.3","display_name":"Broken"}]`))
	})
	defer srv.Close()

	res, err := client.Geocode(context.Background(), "seattle")
	if err != nil || res != nil {
		t.Fatalf("bad coords = %v, %v; want nil, nil", res, err)
	}
}

func TestGeocodeFormattedFallsBackToQuery(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"lat":"1","lon":"2"}]`))
	})
	defer srv.Close()

	res, err := client.Geocode(context.Background(), "plain address")
	if err != nil || res == nil {
		t.Fatalf("geocode = %v, %v", res, err)
	}
	if res.Formatted != "plain address" {
		t.Fatalf("formatted = %q, want query fallback", res.Formatted)
	}
}

func TestGeocodeTransportErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close() // connection refused from here on

	client := New(Config{BaseURL: url})
	if _, err := client.Geocode(context.Background(), "seattle"); err == nil {
		t.Fatalf("transport failure not surfaced")
	}
}
