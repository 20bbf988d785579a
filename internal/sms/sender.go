// Package sms holds the outbound SMS provider clients. Every provider is
// reduced to the same capability: send one text to one number, succeed or
// fail. Delivery receipts and retries stay with the provider.
package sms

import (
	"context"
	"net/http"
	"time"
)

// Sender delivers a single SMS. Implementations must be safe for concurrent
// use.
type Sender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// newHTTPClient returns the shared client configuration for provider APIs.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 15 * time.Second}
}
