package woocommerce

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"woo-analytics/utils"
)

func date(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestStatusFilter(t *testing.T) {
	tests := []struct {
		status  string
		want    string
		wantErr bool
	}{
		{"Tutti", "", false},
		{"", "", false},
		{"all", "", false},
		{"Eseguiti", "processing", false},
		{"processing", "processing", false},
		{"Cancellati", "canceled", false},
		{"canceled", "canceled", false},
		{"Spediti", "", true},
	}

	for _, tt := range tests {
		got, err := StatusFilter(tt.status)
		if tt.wantErr {
			if err == nil {
				t.Errorf("StatusFilter(%q): expected error", tt.status)
			}
			continue
		}
		if err != nil {
			t.Errorf("StatusFilter(%q): unexpected error %v", tt.status, err)
		}
		if got != tt.want {
			t.Errorf("StatusFilter(%q) = %q; want %q", tt.status, got, tt.want)
		}
	}
}

func TestFetchOrders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("from") != "20240101" || q.Get("to") != "20240131" {
			t.Errorf("date params: from=%q to=%q", q.Get("from"), q.Get("to"))
		}
		if q.Get("status") != "processing" {
			t.Errorf("status param: got %q", q.Get("status"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Orders": [
			{"OrderID": "7", "OrderDate": "2024-01-05T09:00:00", "OrderTotal": "42.00",
			 "OrderItems": {"Item": [{"ProductName": "Sapone", "Quantity": "1"}]}}
		]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, utils.NewLogger())
	orders, err := c.FetchOrders(date("2024-01-01"), date("2024-01-31"), "processing")
	if err != nil {
		t.Fatalf("FetchOrders returned error: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
	if orders[0].OrderID != "7" || orders[0].Total != "42.00" {
		t.Errorf("decoded order: %+v", orders[0])
	}
	if len(orders[0].OrderItems.Item) != 1 {
		t.Errorf("nested items: got %d, want 1", len(orders[0].OrderItems.Item))
	}
}

func TestFetchOrdersMissingKeyIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, utils.NewLogger())
	orders, err := c.FetchOrders(date("2024-01-01"), date("2024-01-31"), "")
	if err != nil {
		t.Fatalf("FetchOrders returned error: %v", err)
	}
	if len(orders) != 0 {
		t.Errorf("expected empty result, got %d orders", len(orders))
	}
}

func TestFetchOrdersServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, utils.NewLogger())
	if _, err := c.FetchOrders(date("2024-01-01"), date("2024-01-31"), ""); err == nil {
		t.Error("expected error on 500 response")
	}
}

func TestFetchOrdersMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	c := New(srv.URL, utils.NewLogger())
	if _, err := c.FetchOrders(date("2024-01-01"), date("2024-01-31"), ""); err == nil {
		t.Error("expected error on malformed payload")
	}
}
