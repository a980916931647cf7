// Package transport provides an HTTP client wrapper that prepares and signs
// storage requests before sending them.
package transport

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

const (
	clientRequestIDHeader = "x-ms-client-request-id"
	versionHeader         = "x-ms-version"
)

// ClientDo provides the interface for custom HTTP client implementations.
// Standard implementation is http.Client.
type ClientDo interface {
	Do(*http.Request) (*http.Response, error)
}

// ClientDoFunc provides a helper to wrap a function as an HTTP client for
// round tripping requests.
type ClientDoFunc func(*http.Request) (*http.Response, error)

// Do will invoke the underlying func, returning the result.
func (fn ClientDoFunc) Do(r *http.Request) (*http.Response, error) {
	return fn(r)
}

// SignRequestFunc authenticates a single outbound request, mutating it in
// place.
type SignRequestFunc func(*http.Request) error

// SigningClient wraps an HTTP client and signs every request it sends.
//
// Requests without an x-ms-client-request-id header are stamped with a
// generated one so that calls can be correlated with service-side logs.
type SigningClient struct {
	// The wrapped client. Required.
	Client ClientDo

	// Sign authenticates the outbound request. Required.
	Sign SignRequestFunc

	// APIVersion is stamped into the x-ms-version header when set.
	APIVersion string

	// DisableClientRequestID stops the client from generating an
	// x-ms-client-request-id for requests that don't carry one.
	DisableClientRequestID bool
}

// Do prepares the request, signs it and sends it with the wrapped client.
// Signing happens last so that every header the client adds is covered by
// the signature.
func (c *SigningClient) Do(req *http.Request) (*http.Response, error) {
	if !c.DisableClientRequestID && len(req.Header.Get(clientRequestIDHeader)) == 0 {
		req.Header.Set(clientRequestIDHeader, uuid.NewString())
	}
	if len(c.APIVersion) != 0 {
		req.Header.Set(versionHeader, c.APIVersion)
	}

	if err := c.Sign(req); err != nil {
		return nil, fmt.Errorf("sign request: %w", err)
	}

	return c.Client.Do(req)
}
