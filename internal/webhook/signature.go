package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
)

const (
	SIGNATURE_HEADER = "X-Acquirer-Signature"
	TIMESTAMP_HEADER = "X-Acquirer-Timestamp"
	EVENT_ID_HEADER  = "X-Acquirer-Event-ID"
)

// Sign computes the HMAC-SHA256 signature of a delivery.
// The signed message is "{timestamp}.{event_id}.{body}" so receivers can reject
// replays by timestamp and deduplicate by event id.
// Format: "sha256=<hex_signature>"
func Sign(secret string, timestamp int64, eventID string, body []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(fmt.Sprintf("%d.%s.", timestamp, eventID)))
	h.Write(body)
	return "sha256=" + hex.EncodeToString(h.Sum(nil))
}

// Verify reports whether signature matches the delivery
func Verify(secret string, timestamp int64, eventID string, body []byte, signature string) bool {
	expected := Sign(secret, timestamp, eventID, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// SignedHeaders returns the headers attached to a signed delivery
func SignedHeaders(secret string, timestamp int64, eventID string, body []byte) map[string]string {
	return map[string]string{
		"Content-Type":   "application/json",
		SIGNATURE_HEADER: Sign(secret, timestamp, eventID, body),
		TIMESTAMP_HEADER: strconv.FormatInt(timestamp, 10),
		EVENT_ID_HEADER:  eventID,
	}
}
