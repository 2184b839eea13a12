// Package api dispatches prepared calculation requests to the CloudRF API
// and classifies the responses. One Client is created per run and shared by
// every request so TCP connections are reused.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cloud-rf/cloudrf-cli/internal/ctxlog"
)

// allowedRequestTypes is the allow-list of API endpoints this client may
// call. Validation happens before any network I/O.
var allowedRequestTypes = []string{"area"}

var (
	// ErrUnsupportedRequestType indicates a request type outside the allow-list.
	ErrUnsupportedRequestType = errors.New("unsupported request type")

	// ErrTLS indicates a certificate verification failure on the outbound
	// connection, common with self-signed certificates.
	ErrTLS = errors.New("SSL error")

	// ErrTransport indicates a network failure not otherwise classified.
	ErrTransport = errors.New("transport error")
)

// Options configures a Client.
type Options struct {
	BaseURL     string
	RequestType string
	APIKey      string
	StrictSSL   bool
}

// Outcome is the ephemeral result of one dispatched request, consumed
// immediately by the classifier.
type Outcome struct {
	Name       string
	StatusCode int
	Body       string
}

// Client sends prepared request bodies to the CloudRF API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	requestType string
	apiKey      string

	// lastName guards against two requests landing in the same millisecond.
	mu       sync.Mutex
	lastName string
}

// NewClient validates the request type against the allow-list and builds a
// client with a tuned transport. When strictSSL is false, certificate
// verification is skipped on every request this client sends.
func NewClient(opts Options) (*Client, error) {
	if !slices.Contains(allowedRequestTypes, opts.RequestType) {
		return nil, fmt.Errorf("%w: %q is not one of %v", ErrUnsupportedRequestType, opts.RequestType, allowedRequestTypes)
	}

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	if !opts.StrictSSL {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		httpClient:  &http.Client{Transport: transport},
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		requestType: opts.RequestType,
		apiKey:      opts.APIKey,
	}, nil
}

// Close releases idle connections held by the client's transport.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// Send posts one prepared request body as JSON and returns the raw outcome.
// A non-nil error means the request never produced an HTTP response; status
// classification of a received response is the caller's job via Check.
func (c *Client) Send(ctx context.Context, body map[string]any) (*Outcome, error) {
	name := c.nextRequestName(time.Now())
	logger := ctxlog.FromContext(ctx).With("request", name)
	logger.Debug("Running calculation.", "type", c.requestType)

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	endpoint := c.baseURL + "/" + c.requestType
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request %s: %w", name, err)
	}
	req.Header.Set("key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(name, err)
	}
	defer resp.Body.Close()

	logger.Debug("Received HTTP response.", "status", resp.Status)

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body for request %s: %v", ErrTransport, name, err)
	}

	return &Outcome{
		Name:       name,
		StatusCode: resp.StatusCode,
		Body:       string(bodyBytes),
	}, nil
}

// classifyTransportError separates certificate verification failures, which
// have a concrete remediation, from other network errors.
func classifyTransportError(name string, err error) error {
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return fmt.Errorf("%w on request %s: %v. This is common with self-signed certificates. You can try disabling SSL verification with --no-strict-ssl", ErrTLS, name, err)
	}
	return fmt.Errorf("%w on request %s: %v", ErrTransport, name, err)
}

// nextRequestName derives the timestamp identifier used to correlate output
// artifacts, YYYYMMDDHHMMSS_<3-digit-millis>. Two requests inside the same
// millisecond get a short uuid suffix so names stay unique per process.
func (c *Client) nextRequestName(now time.Time) string {
	name := now.Format("20060102150405") + "_" + fmt.Sprintf("%03d", now.Nanosecond()/int(time.Millisecond))

	c.mu.Lock()
	defer c.mu.Unlock()
	if name == c.lastName {
		return name + "-" + uuid.NewString()[:8]
	}
	c.lastName = name
	return name
}
