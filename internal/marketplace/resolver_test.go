package marketplace

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestResolve(t *testing.T) {
	testCases := []struct {
		name     string
		status   int
		body     string
		expected string
		ok       bool
	}{
		{"First Result", http.StatusOK, `{"results":[{"id":"MLM999","title":"Martillo"},{"id":"MLM1"}]}`, "MLM999", true},
		{"No Results", http.StatusOK, `{"results":[]}`, "", false},
		{"Missing Results Field", http.StatusOK, `{"paging":{}}`, "", false},
		{"Top Result Without ID", http.StatusOK, `{"results":[{"title":"Martillo"},{"id":"MLM1"}]}`, "", false},
		{"Non-200 Status", http.StatusForbidden, `{"message":"forbidden"}`, "", false},
		{"Malformed Body", http.StatusOK, `{"results":`, "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var gotQuery string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotQuery = r.URL.Query().Get("q")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			r := NewResolver(srv.URL+"/sites/MLM/search", "", time.Second)
			id, ok := r.Resolve(context.Background(), "12345 martillo")
			if id != tc.expected || ok != tc.ok {
				t.Errorf("Resolve = %q, %v; want %q, %v", id, ok, tc.expected, tc.ok)
			}
			if gotQuery != "12345 martillo" {
				t.Errorf("query sent = %q", gotQuery)
			}
		})
	}
}

func TestResolveSendsAccessToken(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"results":[{"id":"MLM5"}]}`))
	}))
	defer srv.Close()

	r := NewResolver(srv.URL, "token-1", time.Second)
	if id, ok := r.Resolve(context.Background(), "5"); !ok || id != "MLM5" {
		t.Fatalf("Resolve = %q, %v", id, ok)
	}
	if auth != "Bearer token-1" {
		t.Errorf("Authorization = %q", auth)
	}
}

func TestResolveUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	r := NewResolver(srv.URL, "", time.Second)
	if id, ok := r.Resolve(context.Background(), "5"); ok || id != "" {
		t.Errorf("Resolve = %q, %v; want no match", id, ok)
	}
}
