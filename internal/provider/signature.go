package provider

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base64"
	"net/url"
	"sort"
)

// SignatureHeader carries the provider's HMAC of a webhook request.
const SignatureHeader = "X-Twilio-Signature"

// ComputeSignature builds the provider's webhook signature: HMAC-SHA1 over
// the canonical request URL followed by every POST parameter in sorted key
// order (key then value), base64 encoded.
func ComputeSignature(secret, requestURL string, form url.Values) string {
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write([]byte(requestURL))
	for _, k := range keys {
		for _, v := range form[k] {
			mac.Write([]byte(k))
			mac.Write([]byte(v))
		}
	}

	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// ValidateSignature checks a webhook's signature header in constant time.
func ValidateSignature(secret, requestURL string, form url.Values, provided string) bool {
	expected := ComputeSignature(secret, requestURL, form)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) == 1
}
