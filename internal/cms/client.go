// Package cms fetches the product catalog from an external CMS over HTTP.
// The endpoint is expected to return a JSON array of product records; field
// names follow the upstream catalog contract.
package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/chiiloo/saffron-store-api/internal/model"
)

type Client struct {
	baseURL    string
	key        string
	secret     string
	httpClient *http.Client
}

// New returns a catalog client for the given endpoint. key/secret are
// optional HTTP basic-auth credentials; pass empty strings to skip auth.
func New(baseURL, key, secret string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		key:        key,
		secret:     secret,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// productRecord mirrors the CMS product payload.
type productRecord struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Weight      string `json:"weight"`
	Grade       string `json:"grade"`
	Image       string `json:"image"`
	Active      *bool  `json:"active"`
	Special     bool   `json:"special"`
}

// FetchProducts retrieves the full catalog. Records without an explicit
// active flag are treated as active, matching the published-only default of
// the upstream API.
func (c *Client) FetchProducts(ctx context.Context) ([]model.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.key != "" && c.secret != "" {
		req.SetBasicAuth(c.key, c.secret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch catalog: unexpected status %s", resp.Status)
	}

	var records []productRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	products := make([]model.Product, 0, len(records))
	for _, rec := range records {
		products = append(products, model.Product{
			ID:          rec.ID,
			Name:        rec.Name,
			Slug:        rec.Slug,
			Description: rec.Description,
			Price:       rec.Price,
			Weight:      rec.Weight,
			Grade:       rec.Grade,
			Image:       rec.Image,
			Active:      rec.Active == nil || *rec.Active,
			Special:     rec.Special,
		})
	}
	return products, nil
}
