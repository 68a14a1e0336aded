package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"courier/internal/config"
)

// EmailSender sends transactional email through a SendGrid-compatible REST API.
type EmailSender struct {
	baseURL     string
	apiKey      string
	fromAddress string
	fromName    string
	client      *http.Client
}

// NewEmailSender creates an email client from configuration.
func NewEmailSender(cfg config.EmailConfig) *EmailSender {
	return &EmailSender{
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		client:      &http.Client{Timeout: cfg.Timeout},
	}
}

type emailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type emailRequest struct {
	Personalizations []struct {
		To []emailAddress `json:"to"`
	} `json:"personalizations"`
	From    emailAddress `json:"from"`
	Subject string       `json:"subject"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
}

// Send delivers a single HTML email and returns the provider message ID.
func (s *EmailSender) Send(ctx context.Context, to, subject, html string) (string, error) {
	if s.apiKey == "" || s.fromAddress == "" {
		return "", ErrNoCredentials
	}

	payload := emailRequest{
		From:    emailAddress{Email: s.fromAddress, Name: s.fromName},
		Subject: subject,
	}
	payload.Personalizations = []struct {
		To []emailAddress `json:"to"`
	}{{To: []emailAddress{{Email: to}}}}
	payload.Content = []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	}{{Type: "text/html", Value: html}}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/mail/send", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("email request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("email API returned status %d: %s", resp.StatusCode, detail)
	}

	return resp.Header.Get("X-Message-Id"), nil
}
