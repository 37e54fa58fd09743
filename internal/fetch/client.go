// Package fetch retrieves the remote list document and decodes it into
// model.ListItem values.
package fetch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sync"

	"fetchlist/internal/errors"
	"fetchlist/internal/log"
	"fetchlist/internal/model"
)

// DefaultResource is the path of the list document below the base URL.
const DefaultResource = "hiring.json"

// Client issues a single GET per FetchAll call. It never retries and adds no
// timeout of its own: cancellation comes from the caller's context.
type Client struct {
	HTTP *http.Client

	mu       sync.RWMutex
	base     string
	resource string
}

// Option configures a Client built by New.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.HTTP = c }
}

// WithResource overrides the document path.
func WithResource(resource string) Option {
	return func(cl *Client) { cl.resource = resource }
}

// New returns a client for the list document below base. It requests
// DefaultResource unless WithResource says otherwise.
func New(base string, opts ...Option) *Client {
	c := &Client{
		HTTP:     http.DefaultClient,
		base:     base,
		resource: DefaultResource,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetBaseURL swaps the endpoint used by subsequent calls. In-flight calls
// keep the URL they started with.
func (c *Client) SetBaseURL(base string) {
	c.mu.Lock()
	c.base = base
	c.mu.Unlock()
}

// SetResource swaps the document path used by subsequent calls.
func (c *Client) SetResource(resource string) {
	c.mu.Lock()
	c.resource = resource
	c.mu.Unlock()
}

// URL returns the absolute URL the next call will request.
func (c *Client) URL() (string, error) {
	c.mu.RLock()
	base, resource := c.base, c.resource
	c.mu.RUnlock()
	return url.JoinPath(base, resource)
}

// FetchAll requests the list document and decodes it. Every failure is a
// *errors.NetworkError.
func (c *Client) FetchAll(ctx context.Context) ([]model.ListItem, error) {
	u, err := c.URL()
	if err != nil {
		return nil, errors.NewNetworkError("invalid endpoint", "", errors.TransportFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.NewNetworkError("build request", u, errors.TransportFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	log.LogWithFields(log.F("url", u)).Debug("fetching list")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, errors.NewNetworkError("request failed", u, errors.TransportFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		// Drain so the connection can be reused
		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			log.LogWithError(err).Debug("draining error response")
		}
		return nil, errors.NewNetworkError("unexpected status "+resp.Status, u, errors.BadStatus, nil).
			WithStatus(resp.StatusCode)
	}

	items, err := Decode(resp.Body)
	if err != nil {
		return nil, errors.NewNetworkError("decode response", u, errors.DecodeFailed, err).
			WithStatus(resp.StatusCode)
	}

	log.LogWithFields(log.F("url", u), log.F("count", len(items))).Debug("fetched list")
	return items, nil
}

// Decode reads exactly one JSON array of list items from r. Unknown fields
// are ignored; a null or missing name decodes to an unnamed item. A top-level
// null, a non-array value, or trailing data is an error.
func Decode(r io.Reader) ([]model.ListItem, error) {
	dec := json.NewDecoder(r)

	var items []model.ListItem
	if err := dec.Decode(&items); err != nil {
		return nil, err
	}
	if items == nil {
		return nil, errors.ErrNotAnArray
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after JSON array")
	}
	return items, nil
}
