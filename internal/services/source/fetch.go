package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"syscall"
	"time"

	"github.com/marusama/semaphore/v2"
)

// FetchConfig holds download settings
type FetchConfig struct {
	Timeout time.Duration

	// MaxBytes caps the size of a downloaded document
	MaxBytes int64

	// MaxConcurrent limits simultaneous downloads across all profiles
	MaxConcurrent int

	// AllowPrivate permits downloads from loopback, private and link-local
	// addresses. Otherwise every dial, redirects included, is checked
	// against the resolved IP.
	AllowPrivate bool
}

// DefaultFetchConfig returns sensible download defaults
func DefaultFetchConfig() FetchConfig {
	return FetchConfig{
		Timeout:       15 * time.Second,
		MaxBytes:      1 << 20,
		MaxConcurrent: 8,
	}
}

// Fetcher downloads card sources and exported cards over HTTP
type Fetcher struct {
	client   *http.Client
	maxBytes int64
	limiter  semaphore.Semaphore
	logger   *slog.Logger
}

// NewFetcher creates a Fetcher
func NewFetcher(cfg FetchConfig, logger *slog.Logger) *Fetcher {
	client := &http.Client{Timeout: cfg.Timeout}
	if !cfg.AllowPrivate {
		dialer := &net.Dialer{Timeout: cfg.Timeout, Control: publicOnly}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.Proxy = nil
		transport.DialContext = dialer.DialContext
		client.Transport = transport
	}

	return &Fetcher{
		client:   client,
		maxBytes: cfg.MaxBytes,
		limiter:  semaphore.New(max(cfg.MaxConcurrent, 1)),
		logger:   logger,
	}
}

// Fetch downloads and decodes the document at rawURL. A non-2xx answer is a
// *StatusError, a body that cannot be decoded wraps ErrInvalidDocument and
// anything else that goes wrong on the way wraps ErrUnexpectedResponse.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Document, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is not an http(s) URL", ErrUnexpectedResponse, rawURL)
	}

	if err := f.limiter.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	defer f.limiter.Release(1)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.1")

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Warn("card source download failed", "url", rawURL, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnexpectedResponse, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.logger.Warn("card source download returned error status", "url", rawURL, "status", resp.StatusCode)
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("%w: document exceeds %d bytes", ErrInvalidDocument, f.maxBytes)
	}

	format := FormatFromPath(u.Path, FormatFromContentType(resp.Header.Get("Content-Type")))
	f.logger.Debug("downloaded card source", "url", rawURL, "bytes", len(body), "format", format)
	return Decode(body, format)
}

// publicOnly refuses connections to addresses a profile should not be able
// to reach through the server
func publicOnly(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip, err := netip.ParseAddr(host)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, host)
	}
	ip = ip.Unmap()

	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsInterfaceLocalMulticast() {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, ip)
	}
	return nil
}

