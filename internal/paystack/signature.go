/**
 * @description
 * Webhook signature verification for Paystack.
 *
 * Paystack signs every webhook delivery with an HMAC-SHA512 over the exact
 * raw request body, hex-encoded, and sends it in the x-paystack-signature
 * header. Verification must run on the untouched wire bytes: re-serializing
 * the JSON first would change the bytes and break the signature.
 *
 * @dependencies
 * - crypto/hmac, crypto/sha512, encoding/hex: Standard Go libraries.
 */
package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
)

// Signature computes the hex-encoded HMAC-SHA512 of body under secret.
func Signature(body []byte, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether header is the valid Paystack signature for
// body under secret. The comparison is constant-time. A missing header is
// simply invalid.
func VerifySignature(body []byte, header, secret string) bool {
	if header == "" {
		return false
	}
	expected := Signature(body, secret)
	return hmac.Equal([]byte(expected), []byte(header))
}
