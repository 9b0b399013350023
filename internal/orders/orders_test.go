package orders

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/proelectricos/charlie-bot/internal/models"
)

func TestFetchOrderSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/pedidos-produccion/4512" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"tdespacho":"Subestación Norte","num":"4512","nom":"Tablero principal","cant":2,"pend":1,"opId":88,"fechaf1":"2026-01-05"},
			{"tdespacho":"Subestación Norte","num":"4512","nom":"Transformador","cant":1,"pend":0,"opId":89}
		]`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	lines, err := client.FetchOrder(context.Background(), "4512")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(lines))
	}
	if lines[0].Description != "Tablero principal" || lines[1].Description != "Transformador" {
		t.Errorf("expected endpoint order preserved, got %+v", lines)
	}
	if lines[0].DateApproval == nil || *lines[0].DateApproval != "2026-01-05" {
		t.Errorf("expected milestone date decoded, got %+v", lines[0].DateApproval)
	}
	if lines[1].DateApproval != nil {
		t.Errorf("expected missing milestone as nil, got %v", *lines[1].DateApproval)
	}
}

func TestFetchOrderNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.FetchOrder(context.Background(), "9999")
	if !errors.Is(err, models.ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestFetchOrderServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.FetchOrder(context.Background(), "4512")
	if !errors.Is(err, models.ErrOrderServiceUnavailable) {
		t.Errorf("expected ErrOrderServiceUnavailable, got %v", err)
	}
}

func TestFetchOrderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.FetchOrder(context.Background(), "4512")
	if !errors.Is(err, models.ErrOrderServiceUnavailable) {
		t.Errorf("expected ErrOrderServiceUnavailable, got %v", err)
	}
}

func TestFetchOrderBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.FetchOrder(context.Background(), "4512")
	if !errors.Is(err, models.ErrOrderServiceUnavailable) {
		t.Errorf("expected ErrOrderServiceUnavailable on decode failure, got %v", err)
	}
}

func TestFetchOrderEscapesOrderNumber(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	if _, err := client.FetchOrder(context.Background(), "45/12"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/api/v1/pedidos-produccion/45%2F12" {
		t.Errorf("expected escaped order number in path, got %q", gotPath)
	}
}
