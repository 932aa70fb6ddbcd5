package webhooks

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/goliatone/go-account-webhooks/core"
)

const (
	EncodingBase64 = "base64"
	EncodingHex    = "hex"
)

// HMACSignatureVerifier checks an HMAC-SHA256 digest of the raw request body
// carried in Header. The digest is base64 encoded unless Encoding says hex.
type HMACSignatureVerifier struct {
	Header   string
	Prefix   string
	Secret   string
	Encoding string
}

func NewHMACSignatureVerifier(header string, secret string) HMACSignatureVerifier {
	header = strings.TrimSpace(header)
	if header == "" {
		header = core.DefaultSignatureHeader
	}
	return HMACSignatureVerifier{
		Header:   header,
		Secret:   secret,
		Encoding: EncodingBase64,
	}
}

// Sign returns the encoded digest of body, without Prefix.
func (v HMACSignatureVerifier) Sign(body []byte) string {
	digest := v.digest(body)
	if strings.EqualFold(strings.TrimSpace(v.Encoding), EncodingHex) {
		return hex.EncodeToString(digest)
	}
	return base64.StdEncoding.EncodeToString(digest)
}

// Valid reports whether signature matches body. It never errors: malformed
// or empty signatures are simply not valid.
func (v HMACSignatureVerifier) Valid(body []byte, signature string) bool {
	if v.Secret == "" {
		return false
	}
	signature = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(signature), strings.TrimSpace(v.Prefix)))
	if signature == "" {
		return false
	}

	var (
		decoded []byte
		err     error
	)
	if strings.EqualFold(strings.TrimSpace(v.Encoding), EncodingHex) {
		decoded, err = hex.DecodeString(signature)
	} else {
		decoded, err = base64.StdEncoding.DecodeString(signature)
	}
	if err != nil {
		return false
	}
	return hmac.Equal(decoded, v.digest(body))
}

func (v HMACSignatureVerifier) Verify(_ context.Context, req InboundRequest) error {
	signature := headerValue(req.Headers, v.header())
	if signature == "" {
		return core.UnauthorizedError(core.ErrSignatureMissing)
	}
	if !v.Valid(req.Body, signature) {
		return core.UnauthorizedError(core.ErrSignatureInvalid)
	}
	return nil
}

func (v HMACSignatureVerifier) header() string {
	if header := strings.TrimSpace(v.Header); header != "" {
		return header
	}
	return core.DefaultSignatureHeader
}

func (v HMACSignatureVerifier) digest(body []byte) []byte {
	mac := hmac.New(sha256.New, []byte(v.Secret))
	_, _ = mac.Write(body)
	return mac.Sum(nil)
}

// HeaderEventIDExtractor returns the first non-blank value among headers.
func HeaderEventIDExtractor(headers ...string) EventIDExtractor {
	keys := append([]string(nil), headers...)
	if len(keys) == 0 {
		keys = []string{core.DefaultEventIDHeader}
	}
	return func(req InboundRequest) (string, error) {
		for _, key := range keys {
			if value := headerValue(req.Headers, key); value != "" {
				return value, nil
			}
		}
		return "", core.BadInputError(strings.Join(keys, " or ")+" header is required", errEventIDRequired)
	}
}
