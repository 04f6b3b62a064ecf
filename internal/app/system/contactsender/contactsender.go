// Package contactsender delivers public contact-form submissions to an
// external collection endpoint (a Formspree-style webhook). The
// endpoint is an external collaborator: there is no retry or queueing —
// a failed send is reported to the visitor and dropped.
package contactsender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Payload is a contact-form submission. Honeypot is the hidden field
// bots fill in; submissions with a non-empty Honeypot are accepted and
// silently discarded before Send is ever called.
type Payload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	Honeypot string `json:"-"`
}

// Sender delivers a contact-form payload.
type Sender interface {
	Send(ctx context.Context, p Payload) error
}

// Webhook posts payloads as JSON to a fixed endpoint URL.
type Webhook struct {
	Endpoint string
	Client   *http.Client
	Log      *zap.Logger
}

// NewWebhook constructs a Webhook sender. A nil client gets a default
// with a 10s timeout.
func NewWebhook(endpoint string, client *http.Client, logger *zap.Logger) *Webhook {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Webhook{Endpoint: endpoint, Client: client, Log: logger}
}

// Send posts the payload. Any non-2xx response is an error; the caller
// surfaces it to the visitor and does not retry.
func (s *Webhook) Send(ctx context.Context, p Payload) error {
	body, err := json.Marshal(struct {
		Payload
		SubjectLine string `json:"_subject"`
		Source      string `json:"source"`
	}{
		Payload:     p,
		SubjectLine: p.Subject,
		Source:      "mapartdesoleil.fr",
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if s.Log != nil {
			s.Log.Warn("contact webhook rejected submission",
				zap.Int("status", resp.StatusCode))
		}
		return fmt.Errorf("contact endpoint returned %d", resp.StatusCode)
	}
	return nil
}
