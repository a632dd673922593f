// Package client speaks the execution service's HTTP/JSON contract.
//
// Every method makes exactly one attempt. A request that cannot complete, or
// whose body is not the expected JSON, fails with apperror.ErrNetwork. An
// ok:false body is NOT an error here: it is returned as data and the caller
// decides how to present it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/sakif/pysnap/internal/apperror"
	"github.com/sakif/pysnap/internal/model"
)

// Client is the execution service client.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client (tests, custom transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a Client for the service at baseURL (e.g. "http://127.0.0.1:8000").
func New(baseURL string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		logger:  logger,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Run submits code for execution. POST /run.
func (c *Client) Run(ctx context.Context, req model.ExecutionRequest) (*model.RunResponse, error) {
	var resp model.RunResponse
	if err := c.doJSON(ctx, http.MethodPost, "/run", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Files lists the service's temporary files. GET /files.
func (c *Client) Files(ctx context.Context) (*model.FilesResponse, error) {
	var resp model.FilesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/files", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// File fetches one temporary file's content. GET /file/{name}.
func (c *Client) File(ctx context.Context, name string) (*model.FileResponse, error) {
	var resp model.FileResponse
	if err := c.doJSON(ctx, http.MethodGet, "/file/"+url.PathEscape(name), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Clear deletes every temporary file. DELETE /clear.
func (c *Client) Clear(ctx context.Context) (*model.ClearResponse, error) {
	var resp model.ClearResponse
	if err := c.doJSON(ctx, http.MethodDelete, "/clear", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// History fetches the run history for day (YYYYMMDD); empty means today.
// GET /history.
func (c *Client) History(ctx context.Context, day string) (*model.HistoryResponse, error) {
	path := "/history"
	if day != "" {
		path += "?date=" + url.QueryEscape(day)
	}
	var resp model.HistoryResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DownloadURL is the address a browser would navigate to for name.
func (c *Client) DownloadURL(name string) string {
	return c.baseURL + "/download/" + url.PathEscape(name)
}

// Download streams the raw bytes at rawURL (as produced by DownloadURL)
// into w. The body is not interpreted.
func (c *Client) Download(ctx context.Context, rawURL string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, apperror.Network("GET "+rawURL, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, apperror.Network("GET "+rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, apperror.Network("GET "+rawURL, fmt.Errorf("unexpected status %s", resp.Status))
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, apperror.Network("GET "+rawURL, err)
	}
	return n, nil
}

// doJSON performs one request and decodes the JSON body into out whatever the
// status code: the service reports application failures as ok:false bodies
// on 4xx responses.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	op := method + " " + path

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return apperror.Network(op, fmt.Errorf("encoding request: %w", err))
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return apperror.Network(op, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return apperror.Network(op, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("service responded",
		slog.String("op", op),
		slog.Int("status", resp.StatusCode),
	)

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperror.Network(op, fmt.Errorf("decoding response (status %d): %w", resp.StatusCode, err))
	}
	return nil
}
