// Package catalog defines the domain models and the client for the remote media cataloging service.
package catalog

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/reeler-cli/reeler/log"
	"github.com/reeler-cli/reeler/network"
)

// Client communicates with the library endpoints of the media server.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient creates a catalog client for the given server base URL.
// The shared application HTTP client is used unless one is injected for tests.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   network.Client,
	}
}

// WithHTTPClient replaces the underlying HTTP client. Intended for tests.
func (c *Client) WithHTTPClient(httpc *http.Client) *Client {
	c.httpc = httpc
	return c
}

// Items retrieves the complete listing of playable entities in the remote library.
func (c *Client) Items() ([]*Item, error) {
	var items []*Item
	if err := c.getJSON("/library/items", &items); err != nil {
		return nil, fmt.Errorf("list library items: %w", err)
	}
	return items, nil
}

// Item retrieves a single library entity, including its probed media file characteristics.
func (c *Client) Item(id string) (*Item, error) {
	var item Item
	if err := c.getJSON("/library/items/"+url.PathEscape(id), &item); err != nil {
		return nil, fmt.Errorf("fetch library item %s: %w", id, err)
	}
	return &item, nil
}

// Rate submits a user rating (0-10) for a library entity.
func (c *Client) Rate(id string, rating float64) error {
	return c.postJSON("/library/items/"+url.PathEscape(id)+"/rating", map[string]any{"rating": rating})
}

// SetFavorite toggles the favorite flag for a library entity.
func (c *Client) SetFavorite(id string, favorite bool) error {
	return c.postJSON("/library/items/"+url.PathEscape(id)+"/favorite", map[string]any{"favorite": favorite})
}

// getJSON performs a GET request against the server and decodes the JSON response body.
func (c *Client) getJSON(path string, out any) error {
	resp, err := c.httpc.Get(c.baseURL + path)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// postJSON performs a POST request with a JSON body, discarding the response payload.
func (c *Client) postJSON(path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	resp, err := c.httpc.Post(c.baseURL+path, "application/json", strings.NewReader(string(payload)))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		log.Warnf("catalog POST %s returned status %d", path, resp.StatusCode)
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	return nil
}
