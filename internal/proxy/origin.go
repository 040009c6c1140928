package proxy

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// OriginResponse is the raw document fetched from the SPA shell.
type OriginResponse struct {
	StatusCode int
	Body       []byte
}

// OriginClient fetches documents from the SPA origin for patching.
type OriginClient struct {
	base   *url.URL
	client *http.Client
}

// NewOriginClient builds a client for the given origin base URL.
func NewOriginClient(baseURL string, timeout time.Duration) (*OriginClient, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse origin url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("origin url %q must be absolute", baseURL)
	}
	return &OriginClient{
		base: base,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(newOriginTransport()),
		},
	}, nil
}

// Fetch retrieves the document for the given path-and-query from the
// origin. The status code is preserved as-is; a failure here has no
// fallback and is the caller's to surface.
func (o *OriginClient) Fetch(ctx context.Context, pathAndQuery string) (OriginResponse, error) {
	target := strings.TrimRight(o.base.String(), "/") + pathAndQuery
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return OriginResponse{}, fmt.Errorf("build origin request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := o.client.Do(req)
	if err != nil {
		return OriginResponse{}, fmt.Errorf("origin request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return OriginResponse{}, fmt.Errorf("read origin body: %w", err)
	}
	return OriginResponse{StatusCode: resp.StatusCode, Body: body}, nil
}

// NewPassthrough builds the reverse proxy that forwards human traffic
// (and anything outside the route prefix) to the origin untouched.
func NewPassthrough(baseURL string, logger *zap.Logger) (http.Handler, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse origin url: %w", err)
	}
	rp := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(base)
			pr.SetXForwarded()
		},
		Transport: otelhttp.NewTransport(newOriginTransport()),
		ErrorLog:  zap.NewStdLog(logger.Named("passthrough")),
	}
	return rp, nil
}

func newOriginTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
