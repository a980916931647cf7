// Package sharedkey implements Azure Storage SharedKey request signing.
package sharedkey

import (
	"net/http"
	"time"

	"github.com/natekimball-msft/azure-http-auth/auth"
	"github.com/natekimball-msft/azure-http-auth/credentials"
	authinternal "github.com/natekimball-msft/azure-http-auth/internal/auth"
)

// Signer signs requests with the full SharedKey scheme.
type Signer struct {
	options auth.SignerOptions
}

// New returns an instance of the SharedKey signer.
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

// SignRequest stamps the date header, computes the SharedKey signature of
// the request and sets its Authorization header.
//
// SignRequest never fails for well-formed input: absent headers contribute
// empty strings to the string to sign. It is safe to call concurrently for
// different requests sharing the same credential.
func (s *Signer) SignRequest(in *SignRequestInput) error {
	signer := &authinternal.Signer{
		Request:         in.Request,
		Time:            authinternal.ResolveTime(in.Time),
		Credentials:     in.Credentials,
		Options:         s.options,
		Scheme:          authinternal.SchemeSharedKey,
		StandardHeaders: authinternal.StandardHeaders,
		Finalizer:       authinternal.SharedKeyFinalizer{Credentials: in.Credentials},
	}

	return signer.Do()
}
