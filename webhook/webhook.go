// Package webhook verifies Attio webhook deliveries. Payloads are
// signed with HMAC-SHA256 over "{timestamp}.{body}" and delivered with
// an Attio-Signature header of the form:
//
//	Attio-Signature: t={unix timestamp},v1={hex signature}
//
// Verification rejects stale timestamps to bound replay, and compares
// signatures in constant time.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SignatureHeader is the HTTP header carrying the signature.
const SignatureHeader = "Attio-Signature"

// DefaultTolerance is how far a delivery timestamp may drift from now
// before verification rejects it.
const DefaultTolerance = 5 * time.Minute

var (
	// ErrInvalidHeader means the signature header was missing or
	// malformed.
	ErrInvalidHeader = errors.New("webhook: invalid signature header")
	// ErrNoValidSignature means no v1 signature matched the payload.
	ErrNoValidSignature = errors.New("webhook: no valid signature")
	// ErrTimestampExpired means the delivery timestamp fell outside the
	// tolerance window.
	ErrTimestampExpired = errors.New("webhook: timestamp outside tolerance")
)

// ComputeSignature computes the hex HMAC-SHA256 signature of a payload
// at a given timestamp.
func ComputeSignature(timestamp int64, payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Sign produces the Attio-Signature header value for a payload, signed
// now. Exposed for tests and for emulating deliveries.
func Sign(payload []byte, secret string) string {
	return SignAt(payload, secret, time.Now())
}

// SignAt produces the header value with an explicit timestamp.
func SignAt(payload []byte, secret string, at time.Time) string {
	ts := at.Unix()
	return fmt.Sprintf("t=%d,v1=%s", ts, ComputeSignature(ts, payload, secret))
}

// Verify checks a delivery against the signing secret using
// DefaultTolerance.
func Verify(payload []byte, header, secret string) error {
	return VerifyWithTolerance(payload, header, secret, DefaultTolerance)
}

// VerifyWithTolerance checks a delivery against the signing secret. The
// header may carry multiple v1 signatures (as happens during secret
// rotation); verification succeeds when any of them matches.
func VerifyWithTolerance(payload []byte, header, secret string, tolerance time.Duration) error {
	timestamp, signatures, err := parseHeader(header)
	if err != nil {
		return err
	}

	if tolerance > 0 {
		at := time.Unix(timestamp, 0)
		if d := time.Since(at); d > tolerance || d < -tolerance {
			return ErrTimestampExpired
		}
	}

	expected := ComputeSignature(timestamp, payload, secret)
	for _, sig := range signatures {
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return nil
		}
	}
	return ErrNoValidSignature
}

func parseHeader(header string) (timestamp int64, signatures []string, err error) {
	if header == "" {
		return 0, nil, ErrInvalidHeader
	}
	sawTimestamp := false
	for _, part := range strings.Split(header, ",") {
		k, v, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			return 0, nil, ErrInvalidHeader
		}
		switch k {
		case "t":
			ts, perr := strconv.ParseInt(v, 10, 64)
			if perr != nil {
				return 0, nil, ErrInvalidHeader
			}
			timestamp = ts
			sawTimestamp = true
		case "v1":
			signatures = append(signatures, v)
		}
	}
	if !sawTimestamp || len(signatures) == 0 {
		return 0, nil, ErrInvalidHeader
	}
	return timestamp, signatures, nil
}
