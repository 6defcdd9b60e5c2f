package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/healthshield-server/internal/domain"
)

// Fast2SMSTransport sends alert texts through the Fast2SMS bulk API
// (Indian SMS provider).
type Fast2SMSTransport struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewFast2SMSTransport creates a new Fast2SMS transport.
func NewFast2SMSTransport(cfg domain.Fast2SMSConfig, timeout time.Duration) *Fast2SMSTransport {
	return &Fast2SMSTransport{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name returns the transport name.
func (t *Fast2SMSTransport) Name() string {
	return "fast2sms"
}

// fast2smsResponse represents the JSON response from the bulk endpoint.
type fast2smsResponse struct {
	Return  bool   `json:"return"`
	Message string `json:"message"`
}

// Send posts one message to the Fast2SMS bulk endpoint.
func (t *Fast2SMSTransport) Send(ctx context.Context, recipient, message string) error {
	payload := map[string]string{
		"route":   "q",
		"message": message,
		"numbers": recipient,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding fast2sms payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/dev/bulkV2", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building fast2sms request: %w", err)
	}
	req.Header.Set("Authorization", t.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending fast2sms request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("fast2sms API returned status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed fast2smsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("decoding fast2sms response: %w", err)
	}
	if !parsed.Return {
		return fmt.Errorf("fast2sms rejected message: %s", parsed.Message)
	}

	return nil
}
