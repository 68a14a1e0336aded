package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"courier/internal/config"
)

// SMSGateway sends text messages through a Twilio-compatible REST API.
type SMSGateway struct {
	baseURL    string
	accountSID string
	authToken  string
	from       string
	client     *http.Client
}

// NewSMSGateway creates an SMS gateway client from configuration.
func NewSMSGateway(cfg config.SMSConfig) *SMSGateway {
	return &SMSGateway{
		baseURL:    cfg.BaseURL,
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       cfg.From,
		client:     &http.Client{Timeout: cfg.Timeout},
	}
}

// smsResponse is the message-create response of the SMS API.
type smsResponse struct {
	SID          string `json:"sid"`
	ErrorMessage string `json:"error_message"`
}

// Send delivers a single SMS and returns the provider message ID.
func (g *SMSGateway) Send(ctx context.Context, to, body string) (string, error) {
	if g.accountSID == "" || g.authToken == "" || g.from == "" {
		return "", ErrNoCredentials
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", g.from)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", g.baseURL, g.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(g.accountSID, g.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sms request failed: %w", err)
	}
	defer resp.Body.Close()

	var result smsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode sms response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if result.ErrorMessage != "" {
			return "", fmt.Errorf("sms API error: %s", result.ErrorMessage)
		}
		return "", fmt.Errorf("sms API returned status %d", resp.StatusCode)
	}

	return result.SID, nil
}
