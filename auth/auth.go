// Package auth exposes common APIs for Azure Storage shared key request
// signing.
package auth

import (
	"github.com/natekimball-msft/azure-http-auth/logging"
)

// SignerOption applies configuration to a signer.
type SignerOption func(*SignerOptions)

// SignerOptions configures shared key signing.
type SignerOptions struct {
	// Rules to determine which request headers are folded into the
	// canonicalized headers block of the string to sign.
	//
	// By default, the signer will only include headers prefixed with x-ms-.
	HeaderRules SignedHeaderRules

	// Logger receives diagnostic output when LogSigning is enabled.
	//
	// Defaults to a no-op logger.
	Logger logging.Logger

	// LogSigning emits the computed string to sign at DEBUG level. The
	// string to sign reveals request details, so this must stay off outside
	// of local debugging.
	LogSigning bool
}

// SignedHeaderRules determines whether a request header should be included
// in the canonicalized headers block of the calculated signature.
//
// By convention, IsSigned is invoked with lowercase values.
type SignedHeaderRules interface {
	IsSigned(string) bool
}
