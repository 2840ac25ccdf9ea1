package netx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCheckEndpoint(t *testing.T) {
	ctx := context.Background()

	t.Run("200 OK", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer ts.Close()

		if err := CheckEndpoint(ctx, ts.Client(), ts.URL+"/health"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("401 still counts as reachable", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer ts.Close()

		if err := CheckEndpoint(ctx, ts.Client(), ts.URL); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("5xx -> error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer ts.Close()

		if err := CheckEndpoint(ctx, ts.Client(), ts.URL); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("connection refused -> error", func(t *testing.T) {
		ts := httptest.NewServer(http.NotFoundHandler())
		url := ts.URL
		ts.Close()

		if err := CheckEndpoint(ctx, http.DefaultClient, url); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}
