package auth

import (
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	pubauth "github.com/natekimball-msft/azure-http-auth/auth"
	"github.com/natekimball-msft/azure-http-auth/credentials"
	"github.com/natekimball-msft/azure-http-auth/logging"
)

const (
	// TimeFormat is the RFC 1123 GMT form required in the x-ms-date header.
	TimeFormat = "Mon, 02 Jan 2006 15:04:05 GMT"

	// DateHeader carries the request's freshness marker. It is stamped on
	// every signing call, overwriting any prior value.
	DateHeader = "x-ms-date"

	headerPrefix = "x-ms-"
)

// Authorization scheme tokens. Case-sensitive on the wire.
const (
	SchemeSharedKey     = "SharedKey"
	SchemeSharedKeyLite = "SharedKeyLite"
)

// StandardHeaders is the fixed set of non-vendor headers folded into the
// full SharedKey string to sign, in protocol order.
var StandardHeaders = []string{
	"Content-Language",
	"Content-Encoding",
	"Content-Length",
	"Content-MD5",
	"Content-Type",
	"Date",
	"If-Modified-Since",
	"If-Match",
	"If-None-Match",
	"If-Unmodified-Since",
	"Range",
}

// LiteHeaders is the reduced set used by the SharedKeyLite scheme.
var LiteHeaders = []string{
	"Content-MD5",
	"Content-Type",
	"Date",
}

// Signer is the implementation structure for both shared key signing
// schemes.
type Signer struct {
	Request     *http.Request
	Time        time.Time
	Credentials credentials.SharedKeyCredential
	Options     pubauth.SignerOptions

	// variant-specific inputs
	Scheme          string
	StandardHeaders []string
	LiteResource    bool
	Finalizer       Finalizer
}

// Finalizer performs the final step in shared key signing, deriving a
// signature for the string-to-sign with scheme-specific key material.
type Finalizer interface {
	SignString(string) (string, error)
}

// Do performs shared key signing, modifying the request in-place with the
// signature.
//
// Do should be called exactly once for a configured Signer. The behavior of
// doing otherwise is undefined.
func (s *Signer) Do() error {
	s.init()
	s.setRequiredHeaders()

	stringToSign := s.buildStringToSign()
	if s.Options.LogSigning {
		s.Options.Logger.Logf(logging.Debug, "request string to sign:\n%s", stringToSign)
	}

	signature, err := s.Finalizer.SignString(stringToSign)
	if err != nil {
		return err
	}

	s.Request.Header.Set("Authorization",
		s.Scheme+" "+s.Credentials.AccountName+":"+signature)
	return nil
}

func (s *Signer) init() {
	if s.Options.HeaderRules == nil {
		s.Options.HeaderRules = defaultHeaderRules{}
	}
	if s.Options.Logger == nil {
		s.Options.Logger = logging.Noop{}
	}
}

func (s *Signer) setRequiredHeaders() {
	s.Request.Header.Set(DateHeader, s.Time.Format(TimeFormat))

	if s.Request.ContentLength > 0 {
		s.Request.Header.Set("Content-Length",
			strconv.FormatInt(s.Request.ContentLength, 10))
	}
}

func (s *Signer) buildStringToSign() string {
	lines := make([]string, 0, len(s.StandardHeaders)+1)
	lines = append(lines, strings.ToUpper(s.Request.Method))
	for _, name := range s.StandardHeaders {
		lines = append(lines, s.headerValueToSign(name))
	}

	return strings.Join(lines, "\n") + "\n" +
		s.buildCanonicalHeaders() + s.buildCanonicalResource()
}

// headerValueToSign returns the request's value for one of the standard
// signed headers, or the empty string if absent. A Content-Length of "0"
// must not appear in the string to sign even though the header itself stays
// set on the request.
func (s *Signer) headerValueToSign(name string) string {
	value := s.Request.Header.Get(name)
	if name == "Content-Length" && value == "0" {
		return ""
	}
	return value
}

type headerPair struct {
	name, value string
}

func (s *Signer) buildCanonicalHeaders() string {
	var pairs []headerPair

	// step 1: find what we're signing
	for name, values := range s.Request.Header {
		lowercase := strings.ToLower(name)
		if !s.Options.HeaderRules.IsSigned(lowercase) {
			continue
		}

		var value string
		if len(values) > 0 {
			value = values[0]
		}
		pairs = append(pairs, headerPair{lowercase, value})
	}
	sortPairsOrdinal(pairs)

	// step 2: names that collapsed to the same lowercase form are
	// de-duplicated, first pair in sorted order wins
	var ch strings.Builder
	for i, pair := range pairs {
		if i > 0 && pair.name == pairs[i-1].name {
			continue
		}
		ch.WriteString(strings.TrimRight(pair.name, " \t"))
		ch.WriteRune(':')
		ch.WriteString(strings.TrimLeft(pair.value, " \t"))
		ch.WriteRune('\n')
	}

	return ch.String()
}

func (s *Signer) buildCanonicalResource() string {
	path := s.Request.URL.EscapedPath()
	if len(path) == 0 {
		path = "/"
	}

	var cr strings.Builder
	cr.WriteRune('/')
	cr.WriteString(s.Credentials.AccountName)
	cr.WriteString(path)

	params := queryParameters(s.Request.URL)

	if s.LiteResource {
		if comp, ok := params["comp"]; ok {
			cr.WriteString("?comp=")
			cr.WriteString(comp)
		}
		return cr.String()
	}

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sortOrdinal(keys)

	for _, key := range keys {
		cr.WriteRune('\n')
		cr.WriteString(key)
		cr.WriteRune(':')
		cr.WriteString(params[key])
	}

	return cr.String()
}

// queryParameters flattens the raw query into a map of lowercased key to
// decoded value. Later occurrences overwrite earlier ones, including keys
// that differ only in case, so the map is built in document order.
//
// Values are percent-decoded only: a literal + must survive into the
// canonicalized resource, since the verifying service does not apply
// form-encoding semantics.
func queryParameters(u *url.URL) map[string]string {
	if len(u.RawQuery) == 0 {
		return nil
	}

	params := map[string]string{}
	for _, part := range strings.Split(u.RawQuery, "&") {
		if len(part) == 0 {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		if decoded, err := url.PathUnescape(value); err == nil {
			value = decoded
		}
		params[strings.ToLower(key)] = value
	}

	return params
}

// sortPairsOrdinal orders header pairs byte-wise by name, then value. The
// verifying service recomputes the string to sign with ordinal comparison;
// a collation-aware sort produces a different string and an authentication
// failure.
func sortPairsOrdinal(pairs []headerPair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].name != pairs[j].name {
			return pairs[i].name < pairs[j].name
		}
		return pairs[i].value < pairs[j].value
	})
}

// sortOrdinal sorts values byte-wise, never by collation order.
func sortOrdinal(values []string) {
	sort.Strings(values)
}

// ResolveTime initializes a time value for signing.
func ResolveTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

// SharedKeyFinalizer derives the signature for a string to sign with the
// account's secret key.
type SharedKeyFinalizer struct {
	Credentials credentials.SharedKeyCredential
}

// SignString implements Finalizer.
func (f SharedKeyFinalizer) SignString(v string) (string, error) {
	return f.Credentials.ComputeHMACSHA256(v), nil
}

type defaultHeaderRules struct{}

func (defaultHeaderRules) IsSigned(h string) bool {
	return strings.HasPrefix(h, headerPrefix)
}
