package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const surgeBaseURL = "https://api.surge.app"

// SurgeClient sends SMS through the Surge messaging API.
type SurgeClient struct {
	client    *http.Client
	apiKey    string
	accountID string
}

func NewSurgeClient(apiKey, accountID string) *SurgeClient {
	return &SurgeClient{
		client:    newHTTPClient(),
		apiKey:    apiKey,
		accountID: accountID,
	}
}

type surgeMessageRequest struct {
	// To is the recipient's phone number in E.164 format.
	To string `json:"to"`
	// Body is the message text.
	Body string `json:"body"`
}

// SendSMS posts one message. The recipient must be in E.164 format.
func (c *SurgeClient) SendSMS(ctx context.Context, to, body string) error {
	if to == "" {
		return fmt.Errorf("surge: recipient phone number is required")
	}
	if !strings.HasPrefix(to, "+") {
		return fmt.Errorf("surge: recipient %q must be in E.164 format (starting with +)", to)
	}

	payload, err := json.Marshal(surgeMessageRequest{To: to, Body: body})
	if err != nil {
		return fmt.Errorf("surge: encode request: %w", err)
	}

	url := fmt.Sprintf("%s/accounts/%s/messages", surgeBaseURL, c.accountID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("surge: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("surge: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("surge: status %d: %s", resp.StatusCode, respBody)
	}
	return nil
}
