// Package sharedkeylite implements Azure Storage SharedKeyLite request
// signing.
//
// SharedKeyLite folds only Content-MD5, Content-Type and Date into the
// standard header block, and its canonicalized resource carries only the
// comp query parameter. Prefer the full SharedKey scheme unless
// compatibility with Lite-only tooling is required.
package sharedkeylite

import (
	"net/http"
	"time"

	"github.com/natekimball-msft/azure-http-auth/auth"
	"github.com/natekimball-msft/azure-http-auth/credentials"
	authinternal "github.com/natekimball-msft/azure-http-auth/internal/auth"
)

// Signer signs requests with the SharedKeyLite scheme.
type Signer struct {
	options auth.SignerOptions
}

// New returns an instance of the SharedKeyLite signer.
func New(opts ...auth.SignerOption) *Signer {
	options := auth.SignerOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	return &Signer{options: options}
}

// SignRequestInput is the set of inputs for SignRequest.
type SignRequestInput struct {
	// The request to be signed, mutated in place. Required.
	Request *http.Request

	// The credential for the account the request targets. Required.
	Credentials credentials.SharedKeyCredential

	// The signing time, stamped into the x-ms-date header. Defaults to
	// time.Now().
	Time time.Time
}

// SignRequest stamps the date header, computes the SharedKeyLite signature
// of the request and sets its Authorization header.
//
// It is safe to call concurrently for different requests sharing the same
// credential.
func (s *Signer) SignRequest(in *SignRequestInput) error {
	signer := &authinternal.Signer{
		Request:         in.Request,
		Time:            authinternal.ResolveTime(in.Time),
		Credentials:     in.Credentials,
		Options:         s.options,
		Scheme:          authinternal.SchemeSharedKeyLite,
		StandardHeaders: authinternal.LiteHeaders,
		LiteResource:    true,
		Finalizer:       authinternal.SharedKeyFinalizer{Credentials: in.Credentials},
	}

	return signer.Do()
}
