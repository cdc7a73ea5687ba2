package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kidsministry/backend/internal/pkg/logger"
)

const defaultBaseURL = "https://api.twilio.com/2010-04-01"

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string
	BaseURL    string
	MaxRetries int
	Timeout    time.Duration
	// Backoff is the first retry delay; it doubles per attempt.
	Backoff time.Duration
}

type TwilioNotifier struct {
	cfg        TwilioConfig
	httpClient *http.Client
	log        *logger.Logger
}

func NewTwilioNotifier(cfg TwilioConfig, log *logger.Logger) (*TwilioNotifier, error) {
	if log == nil {
		log = logger.NewNop()
	}
	cfg.AccountSID = strings.TrimSpace(cfg.AccountSID)
	cfg.AuthToken = strings.TrimSpace(cfg.AuthToken)
	cfg.From = strings.TrimSpace(cfg.From)
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return nil, errors.New("missing TWILIO_ACCOUNT_SID or TWILIO_AUTH_TOKEN")
	}
	if cfg.From == "" {
		return nil, errors.New("missing TWILIO_FROM_NUMBER")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = time.Second
	}

	return &TwilioNotifier{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.With("client", "TwilioNotifier"),
	}, nil
}

// HTTPError is a non-2xx answer from the Messages API.
type HTTPError struct {
	StatusCode int
	Code       int    `json:"code"`
	Message    string `json:"message"`
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("twilio http %d: %s (code=%d)", e.StatusCode, e.Message, e.Code)
	}
	return fmt.Sprintf("twilio http %d", e.StatusCode)
}

func (e *HTTPError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

func (n *TwilioNotifier) SendSMS(ctx context.Context, to, body string) error {
	to, body = strings.TrimSpace(to), strings.TrimSpace(body)
	if to == "" || body == "" {
		return errors.New("twilio: recipient and body required")
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", n.cfg.From)
	form.Set("Body", body)
	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", n.cfg.BaseURL, n.cfg.AccountSID)

	backoff := n.cfg.Backoff
	for attempt := 0; ; attempt++ {
		err := n.postOnce(ctx, endpoint, form)
		if err == nil {
			return nil
		}

		var httpErr *HTTPError
		if !errors.As(err, &httpErr) || !httpErr.retryable() || attempt >= n.cfg.MaxRetries {
			return err
		}

		n.log.Warn("Twilio request retrying", "attempt", attempt+1, "max_retries", n.cfg.MaxRetries, "sleep", backoff.String(), "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

func (n *TwilioNotifier) postOnce(ctx context.Context, endpoint string, form url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(n.cfg.AccountSID, n.cfg.AuthToken)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		httpErr := &HTTPError{StatusCode: resp.StatusCode}
		_ = json.Unmarshal(raw, httpErr)
		httpErr.StatusCode = resp.StatusCode
		return httpErr
	}
	return nil
}
