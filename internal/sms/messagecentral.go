package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
)

const messageCentralBaseURL = "https://cpaas.messagecentral.com"

// MessageCentralClient sends SMS through the MessageCentral CPaaS API.
// Auth tokens are generated on demand and reused until a send is rejected.
type MessageCentralClient struct {
	client      *http.Client
	customerID  string
	email       string
	passwordB64 string

	mu    sync.Mutex
	token string
}

func NewMessageCentralClient(customerID, email, passwordB64 string) *MessageCentralClient {
	return &MessageCentralClient{
		client:      newHTTPClient(),
		customerID:  customerID,
		email:       email,
		passwordB64: passwordB64,
	}
}

type messageCentralTokenResponse struct {
	Status int    `json:"status"`
	Token  string `json:"token"`
}

type messageCentralSendResponse struct {
	ResponseCode int    `json:"responseCode"`
	Message      string `json:"message"`
}

// generateToken fetches a fresh auth token.
func (c *MessageCentralClient) generateToken(ctx context.Context) (string, error) {
	q := url.Values{}
	q.Set("customerId", c.customerID)
	q.Set("key", c.passwordB64)
	q.Set("scope", "NEW")
	q.Set("country", "1")
	q.Set("email", c.email)

	endpoint := messageCentralBaseURL + "/auth/v1/authentication/token?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("messagecentral: build token request: %w", err)
	}
	req.Header.Set("accept", "*/*")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("messagecentral: token request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return "", fmt.Errorf("messagecentral: read token response: %w", err)
	}
	var tok messageCentralTokenResponse
	if err := json.Unmarshal(respBody, &tok); err != nil {
		return "", fmt.Errorf("messagecentral: parse token response: %w (raw: %s)", err, respBody)
	}
	if tok.Token == "" {
		return "", fmt.Errorf("messagecentral: empty token (status %d)", tok.Status)
	}
	return tok.Token, nil
}

func (c *MessageCentralClient) authToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" {
		return c.token, nil
	}
	token, err := c.generateToken(ctx)
	if err != nil {
		return "", err
	}
	c.token = token
	return token, nil
}

func (c *MessageCentralClient) invalidateToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// SendSMS posts one message through the SMS flow.
func (c *MessageCentralClient) SendSMS(ctx context.Context, to, body string) error {
	token, err := c.authToken(ctx)
	if err != nil {
		return err
	}

	q := url.Values{}
	q.Set("countryCode", "1")
	q.Set("flowType", "SMS")
	q.Set("type", "SMS")
	q.Set("mobileNumber", to)
	q.Set("message", body)

	endpoint := messageCentralBaseURL + "/verification/v3/send?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return fmt.Errorf("messagecentral: build send request: %w", err)
	}
	req.Header.Set("authToken", token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("messagecentral: send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return fmt.Errorf("messagecentral: read send response: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		c.invalidateToken()
		return fmt.Errorf("messagecentral: token rejected: %s", respBody)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("messagecentral: status %d: %s", resp.StatusCode, respBody)
	}

	var sent messageCentralSendResponse
	if err := json.Unmarshal(respBody, &sent); err != nil {
		return fmt.Errorf("messagecentral: parse send response: %w (raw: %s)", err, respBody)
	}
	if sent.ResponseCode != 200 {
		return fmt.Errorf("messagecentral: send failed with code %d: %s", sent.ResponseCode, sent.Message)
	}
	return nil
}
