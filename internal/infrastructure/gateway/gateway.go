// Package gateway implements the authenticated request gate in front of
// the resource server. It is a pure transport layer: it attaches the bearer
// token, classifies the response, and never touches the credential store.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/uniblog/client/internal/core/domain"
	"github.com/uniblog/client/internal/pkg/metrics"
)

const defaultTimeout = 10 * time.Second

// Config captures the settings for reaching the resource server.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is the ports.Gateway implementation over net/http.
type Client struct {
	base *url.URL
	http *http.Client
	log  zerolog.Logger
}

// New validates the base URL and returns a ready Client. A default timeout
// is applied when none is provided.
func New(cfg Config, log zerolog.Logger) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("gateway: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("gateway: base url %q missing scheme or host", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		base: base,
		http: &http.Client{Timeout: timeout},
		log:  log,
	}, nil
}

// errorEnvelope is the resource server's conventional failure shape; the
// detail field, when present, is surfaced to the user verbatim.
type errorEnvelope struct {
	Detail string `json:"detail"`
}

// Do sends one request and classifies the outcome. The body is form-encoded
// when it is a url.Values (the token endpoint's contract), JSON otherwise,
// absent when nil. An absent session is sent without an Authorization
// header; the server is authoritative on anonymous access.
func (c *Client) Do(ctx context.Context, method, path string, body any, sess domain.Session) ([]byte, error) {
	req, err := c.newRequest(ctx, method, path, body, sess)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.RequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(method, "unreachable").Inc()
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("resource server unreachable")
		return nil, domain.Unreachable(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(method, "unreachable").Inc()
		return nil, domain.Unreachable(err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		metrics.RequestsTotal.WithLabelValues(method, "ok").Inc()
		c.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("request ok")
		return raw, nil

	case resp.StatusCode == http.StatusUnauthorized:
		metrics.RequestsTotal.WithLabelValues(method, "unauthorized").Inc()
		c.log.Debug().Str("method", method).Str("path", path).Msg("credential rejected")
		return nil, domain.Unauthorized()

	default:
		metrics.RequestsTotal.WithLabelValues(method, "request_failed").Inc()
		var env errorEnvelope
		_ = json.Unmarshal(raw, &env)
		c.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Str("detail", env.Detail).Msg("request rejected")
		return nil, domain.RequestFailed(resp.StatusCode, env.Detail)
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any, sess domain.Session) (*http.Request, error) {
	target := c.base.JoinPath(path)

	var reader io.Reader
	contentType := ""
	switch payload := body.(type) {
	case nil:
	case url.Values:
		reader = strings.NewReader(payload.Encode())
		contentType = "application/x-www-form-urlencoded"
	default:
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("gateway: encode body: %w", err)
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("gateway: build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if sess.Present && sess.Token != "" {
		scheme := sess.TokenType
		if scheme == "" {
			scheme = "Bearer"
		}
		req.Header.Set("Authorization", scheme+" "+sess.Token)
	}
	return req, nil
}
