// Package api is the client for the archive's remote JSON API.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultContextPath is the deployment prefix of the archive web app
const DefaultContextPath = "/MemorySpace"

const maxBodySize = 8 << 20

// Config holds client configuration
type Config struct {
	// BaseURL is scheme and host, e.g. http://localhost:8080
	BaseURL string
	// ContextPath prefixes every API path and upload URL; empty for root deployments
	ContextPath string
	Timeout     time.Duration
}

// DefaultConfig returns settings for a local deployment
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     "http://localhost:8080",
		ContextPath: DefaultContextPath,
		Timeout:     10 * time.Second,
	}
}

// Client issues API requests
type Client struct {
	http    *http.Client
	base    string
	ctxPath string
	log     zerolog.Logger
}

// New creates a client; a nil httpClient gets one with cfg.Timeout
func New(cfg *Config, httpClient *http.Client, log zerolog.Logger) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		http:    httpClient,
		base:    strings.TrimRight(cfg.BaseURL, "/"),
		ctxPath: strings.TrimRight(cfg.ContextPath, "/"),
		log:     log,
	}
}

// ContextPath returns the deployment prefix
func (c *Client) ContextPath() string { return c.ctxPath }

// AbsoluteURL prefixes server-relative upload paths with the context path
func (c *Client) AbsoluteURL(u string) string {
	if c.ctxPath == "" || !strings.HasPrefix(u, "/uploads/") || strings.HasPrefix(u, c.ctxPath+"/uploads/") {
		return u
	}
	return c.ctxPath + u
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.base + c.ctxPath + "/api" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// get issues a strict GET
func (c *Client) get(ctx context.Context, path string, query url.Values) (*Envelope, error) {
	return c.do(ctx, http.MethodGet, c.endpoint(path, query), nil, "", true)
}

// postForm issues a strict form-urlencoded POST
func (c *Client) postForm(ctx context.Context, path string, form url.Values) (*Envelope, error) {
	return c.do(ctx, http.MethodPost, c.endpoint(path, nil),
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded;charset=UTF-8", true)
}

// multipartBody assembles fields and files; files are written after fields in slice order
type multipartBody struct {
	buf bytes.Buffer
	w   *multipart.Writer
	err error
}

func newMultipart() *multipartBody {
	m := &multipartBody{}
	m.w = multipart.NewWriter(&m.buf)
	return m
}

func (m *multipartBody) field(name, value string) {
	if m.err == nil {
		m.err = m.w.WriteField(name, value)
	}
}

func (m *multipartBody) file(name string, up Upload) {
	if m.err != nil || up.Body == nil {
		return
	}
	fw, err := m.w.CreateFormFile(name, up.Filename)
	if err != nil {
		m.err = err
		return
	}
	_, m.err = io.Copy(fw, up.Body)
}

func (m *multipartBody) close() (io.Reader, string, error) {
	if m.err == nil {
		m.err = m.w.Close()
	}
	return &m.buf, m.w.FormDataContentType(), m.err
}

// postMultipart issues a strict multipart POST
func (c *Client) postMultipart(ctx context.Context, path string, m *multipartBody) (*Envelope, error) {
	body, ct, err := m.close()
	if err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}
	return c.do(ctx, http.MethodPost, c.endpoint(path, nil), body, ct, true)
}

// do sends a request and decodes the envelope
// strict requests require a JSON content type; lenient ones scan the body for an object
func (c *Client) do(ctx context.Context, method, target string, body io.Reader, contentType string, strict bool) (*Envelope, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("url", target).Msg("api request failed")
		return nil, fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	c.log.Debug().
		Str("method", method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("api request")

	if strict && !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		return nil, fmt.Errorf("%w: %s", ErrNotJSON, snippet(raw))
	}
	env, err := ParseEnvelope(raw)
	if err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, &RemoteError{Status: resp.StatusCode}
		}
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || env.Failed() {
		return nil, &RemoteError{Status: resp.StatusCode, Message: env.Message}
	}
	return env, nil
}
