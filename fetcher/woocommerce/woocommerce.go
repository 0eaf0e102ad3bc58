package woocommerce

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"woo-analytics/models"
	"woo-analytics/utils"
)

// Client retrieves raw orders from a WooCommerce-style export endpoint.
// One call performs exactly one synchronous GET — no retry, no pagination.
type Client struct {
	source string
	http   *http.Client
	logger *utils.Logger
}

// New creates a Client for the given source URL.
func New(source string, logger *utils.Logger) *Client {
	return &Client{
		source: source,
		http:   &http.Client{},
		logger: logger,
	}
}

// StatusFilter maps a display status ("Tutti", "Eseguiti", "Cancellati") to
// the endpoint's filter value. Raw filter values pass through unchanged; an
// empty filter means no status restriction.
func StatusFilter(status string) (string, error) {
	switch status {
	case "Tutti", "all", "":
		return "", nil
	case "Eseguiti", "processing":
		return "processing", nil
	case "Cancellati", "canceled":
		return "canceled", nil
	}
	return "", fmt.Errorf("woocommerce: unknown order status %q", status)
}

// FetchOrders performs GET {source}?from=YYYYMMDD&to=YYYYMMDD&status={filter}
// and returns the raw orders found under the payload's "Orders" key. A
// response without that key counts as an empty result, not an error.
func (c *Client) FetchOrders(start, end time.Time, filter string) ([]models.RawOrder, error) {
	params := url.Values{}
	params.Set("from", start.Format("20060102"))
	params.Set("to", end.Format("20060102"))
	params.Set("status", filter)

	endpoint := c.source + "?" + params.Encode()
	c.logger.Debug("[fetcher] GET %s", endpoint)

	resp, err := c.http.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("woocommerce: fetch orders: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("woocommerce: fetch orders: unexpected status %s", resp.Status)
	}

	var payload models.OrdersPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("woocommerce: decode orders payload: %w", err)
	}

	c.logger.Info("[fetcher] Retrieved %d orders (%s → %s, status %q)",
		len(payload.Orders), start.Format("2006-01-02"), end.Format("2006-01-02"), filter)

	return payload.Orders, nil
}
