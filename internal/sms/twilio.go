package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const twilioBaseURL = "https://api.twilio.com/2010-04-01"

// TwilioClient sends SMS through the Twilio Messages API.
type TwilioClient struct {
	client     *http.Client
	accountSID string
	authToken  string
	fromNumber string
}

func NewTwilioClient(accountSID, authToken, fromNumber string) *TwilioClient {
	return &TwilioClient{
		client:     newHTTPClient(),
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
	}
}

type twilioMessageResponse struct {
	SID          string  `json:"sid"`
	Status       string  `json:"status"`
	To           string  `json:"to"`
	From         string  `json:"from"`
	ErrorCode    *int    `json:"error_code"`
	ErrorMessage *string `json:"error_message"`
}

// SendSMS posts one message via form-encoded Messages.json.
func (c *TwilioClient) SendSMS(ctx context.Context, to, body string) error {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.fromNumber)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", twilioBaseURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("twilio: build request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("twilio: send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return fmt.Errorf("twilio: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("twilio: status %d: %s", resp.StatusCode, respBody)
	}

	var msg twilioMessageResponse
	if err := json.Unmarshal(respBody, &msg); err != nil {
		return fmt.Errorf("twilio: parse response: %w", err)
	}
	if msg.ErrorCode != nil {
		errMsg := ""
		if msg.ErrorMessage != nil {
			errMsg = *msg.ErrorMessage
		}
		return fmt.Errorf("twilio: message %s failed with code %d: %s", msg.SID, *msg.ErrorCode, errMsg)
	}
	return nil
}
