package product

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLookupFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/product/737628064502.json" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{
			"status": 1,
			"product": {
				"product_name": "Rice Noodles",
				"generic_name": "Thai style rice noodles",
				"brands": "Thai Kitchen"
			}
		}`))
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL})
	p, err := c.Lookup(context.Background(), "737628064502")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if p.Name != "Rice Noodles" {
		t.Errorf("name = %q, want %q", p.Name, "Rice Noodles")
	}
	if p.Description != "Thai style rice noodles" {
		t.Errorf("description = %q, want %q", p.Description, "Thai style rice noodles")
	}
	if p.Brand != "Thai Kitchen" {
		t.Errorf("brand = %q, want %q", p.Brand, "Thai Kitchen")
	}
	if p.Barcode != "737628064502" {
		t.Errorf("barcode = %q, want input barcode", p.Barcode)
	}
}

func TestLookupNotFoundStatusZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": 0}`))
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL})
	_, err := c.Lookup(context.Background(), "000000000000")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLookupNotFound404(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL})
	_, err := c.Lookup(context.Background(), "000000000000")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLookupServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL})
	_, err := c.Lookup(context.Background(), "737628064502")
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("server errors must be distinguishable from not-found")
	}
}

func TestLookupEmptyBarcode(t *testing.T) {
	c := NewClient(Config{})
	if _, err := c.Lookup(context.Background(), ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLookupNetworkError(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	if _, err := c.Lookup(context.Background(), "737628064502"); err == nil {
		t.Fatal("expected network error")
	}
}
