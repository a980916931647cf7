// Package credentials provides the shared key identity used to authenticate
// requests to Azure Storage.
package credentials

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// SharedKeyCredential describes a storage account and the symmetric secret
// key that requests to it are signed against.
//
// A credential is immutable once constructed and may be shared freely across
// concurrent signing calls. The key material is unexported so that it cannot
// leak through incidental formatting of the struct.
type SharedKeyCredential struct {
	AccountName string

	accountKey []byte
}

// New returns a credential for the named account. The account key is the
// base64-encoded secret as issued by the service; an undecodable key is the
// one construction-time failure.
func New(accountName, accountKey string) (SharedKeyCredential, error) {
	key, err := base64.StdEncoding.DecodeString(accountKey)
	if err != nil {
		return SharedKeyCredential{}, fmt.Errorf("decode account key: %w", err)
	}

	return SharedKeyCredential{
		AccountName: accountName,
		accountKey:  key,
	}, nil
}

// ComputeHMACSHA256 signs the message with the account key and returns the
// base64-encoded signature.
func (c SharedKeyCredential) ComputeHMACSHA256(message string) string {
	mac := hmac.New(sha256.New, c.accountKey)
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// String implements fmt.Stringer, redacting the key material.
func (c SharedKeyCredential) String() string {
	return fmt.Sprintf("SharedKeyCredential{AccountName: %s}", c.AccountName)
}

// MarshalJSON implements json.Marshaler, redacting the key material.
func (c SharedKeyCredential) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		AccountName string
	}{AccountName: c.AccountName})
}
