// Package product looks up grocery products by barcode against the
// Open Food Facts API.
package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://world.openfoodfacts.org"

// ErrNotFound is returned when the barcode is unknown to the API.
var ErrNotFound = errors.New("product not found")

// Config holds lookup client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Product is the display information resolved for a scanned barcode.
type Product struct {
	Barcode     string `json:"barcode"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Brand       string `json:"brand,omitempty"`
}

// Client fetches product data for scanned barcodes. Lookups are read-only
// and never retried; a failure just leaves the caller's fields blank for
// manual entry.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
	}
}

type apiResponse struct {
	Status  int    `json:"status"`
	Product struct {
		ProductName string `json:"product_name"`
		GenericName string `json:"generic_name"`
		Brands      string `json:"brands"`
	} `json:"product"`
}

// Lookup resolves a barcode to a product name and short description.
// Returns ErrNotFound when the API has no record for the barcode.
func (c *Client) Lookup(ctx context.Context, barcode string) (*Product, error) {
	if barcode == "" {
		return nil, ErrNotFound
	}

	endpoint := fmt.Sprintf("%s/api/v2/product/%s.json", c.baseURL, url.PathEscape(barcode))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("product lookup request: %w", err)
	}
	defer resp.Body.Close()

	// The API answers 404 for unknown barcodes on some deployments and
	// status=0 in the body on others.
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("product lookup returned status %d", resp.StatusCode)
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode product response: %w", err)
	}

	if apiResp.Status != 1 || apiResp.Product.ProductName == "" {
		return nil, ErrNotFound
	}

	return &Product{
		Barcode:     barcode,
		Name:        apiResp.Product.ProductName,
		Description: apiResp.Product.GenericName,
		Brand:       apiResp.Product.Brands,
	}, nil
}
