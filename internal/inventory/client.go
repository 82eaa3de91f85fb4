// Package inventory is the HTTP client for the external inventory API that
// owns products, withdrawal records and authentication.
package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/stockroom/internal/bon"
	"github.com/kahvecikaan/stockroom/internal/domain"
	"github.com/kahvecikaan/stockroom/internal/session"
)

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 10 << 20

type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  hclog.Logger
}

// NewClient creates a client for the API rooted at baseURL, for example
// http://127.0.0.1:8000/api.
func NewClient(baseURL string, httpClient *http.Client, logger hclog.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid inventory API url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid inventory API url %q: scheme and host required", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: u, http: httpClient, logger: logger}, nil
}

func (c *Client) endpoint(path string) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	return u.String()
}

// do sends an authenticated request and returns the status and body.
// Non-2xx responses are turned into errors.
func (c *Client) do(ctx context.Context, sess session.Session, method, path string, payload any) (int, []byte, error) {
	if !sess.Active() {
		return 0, nil, ErrNoSession
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	sess.Authorize(req.Header)

	c.logger.Debug("Calling inventory API", "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return resp.StatusCode, nil, &TransportError{Op: "reading " + path, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return resp.StatusCode, data, ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return resp.StatusCode, data, &StatusError{Code: resp.StatusCode, Message: errorMessage(data)}
	}
	return resp.StatusCode, data, nil
}

// ListProducts fetches GET /products.
func (c *Client) ListProducts(ctx context.Context, sess session.Session) (domain.Products, error) {
	_, body, err := c.do(ctx, sess, http.MethodGet, "/products", nil)
	if err != nil {
		return domain.Products{}, err
	}
	products, err := DecodeProducts(body)
	if err != nil {
		c.logger.Error("Unable to decode product list", "error", err)
		return domain.Products{}, err
	}
	return products, nil
}

// GetProduct fetches GET /products/{id}.
func (c *Client) GetProduct(ctx context.Context, sess session.Session, id int) (domain.Product, error) {
	_, body, err := c.do(ctx, sess, http.MethodGet, "/products/"+strconv.Itoa(id), nil)
	if err != nil {
		return domain.Product{}, notFound(err)
	}
	return DecodeProduct(body)
}

// CreateProduct posts a new product and returns the stored one.
func (c *Client) CreateProduct(ctx context.Context, sess session.Session, p domain.Product) (domain.Product, error) {
	_, body, err := c.do(ctx, sess, http.MethodPost, "/products", p)
	if err != nil {
		return domain.Product{}, rejected(err)
	}
	return c.storedProduct(body, p)
}

// UpdateProduct replaces the product with p.ID.
func (c *Client) UpdateProduct(ctx context.Context, sess session.Session, p domain.Product) (domain.Product, error) {
	_, body, err := c.do(ctx, sess, http.MethodPut, "/products/"+strconv.Itoa(p.ID), p)
	if err != nil {
		return domain.Product{}, rejected(notFound(err))
	}
	return c.storedProduct(body, p)
}

// DeleteProduct removes a product.
func (c *Client) DeleteProduct(ctx context.Context, sess session.Session, id int) error {
	_, _, err := c.do(ctx, sess, http.MethodDelete, "/products/"+strconv.Itoa(id), nil)
	return notFound(err)
}

// storedProduct decodes the product echoed by a write; an empty body means
// the API accepted the payload as sent.
func (c *Client) storedProduct(body []byte, sent domain.Product) (domain.Product, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return sent, nil
	}
	return DecodeProduct(body)
}

// DeliverBon posts a withdrawal record and reports the outcome without
// raising: the caller decides what to do with a failed delivery.
func (c *Client) DeliverBon(ctx context.Context, sess session.Session, endpoint bon.Endpoint, rec bon.Record) bon.Attempt {
	_, body, err := c.do(ctx, sess, http.MethodPost, string(endpoint), rec)
	switch {
	case errors.Is(err, ErrNoSession):
		return bon.Attempt{Outcome: bon.NoSession, Err: err}
	case errors.Is(err, ErrUnauthorized):
		return bon.Attempt{Outcome: bon.Unauthorized, Err: err}
	case err != nil:
		return bon.Attempt{Outcome: bon.NetworkFailed, Err: err}
	}

	stored, err := DecodeRecord(body)
	if err != nil {
		// the API took the record; keep what was sent rather than storing it twice
		c.logger.Warn("Bon accepted but response not understood", "error", err)
		return bon.Attempt{Outcome: bon.Delivered, Record: rec}
	}
	return bon.Attempt{Outcome: bon.Delivered, Record: stored}
}

func notFound(err error) error {
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return fmt.Errorf("%w: %s", domain.ErrProductNotFound, se.Message)
	}
	return err
}

// rejected maps the API refusing a product payload to domain.ErrInvalidProduct.
func rejected(err error) error {
	var se *StatusError
	if errors.As(err, &se) && (se.Code == http.StatusBadRequest || se.Code == http.StatusUnprocessableEntity) {
		return fmt.Errorf("%w: %s", domain.ErrInvalidProduct, se.Message)
	}
	return err
}
