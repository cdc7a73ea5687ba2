package notify

import (
	"context"
	"time"

	"github.com/spf13/viper"

	"github.com/kidsministry/backend/internal/pkg/logger"
)

// Notifier delivers a text message to a phone number.
type Notifier interface {
	SendSMS(ctx context.Context, to, body string) error
}

// NopNotifier drops every message. Used when no SMS gateway is configured.
type NopNotifier struct{}

func (NopNotifier) SendSMS(context.Context, string, string) error { return nil }

// New picks the Twilio notifier when credentials are configured and the no-op
// notifier otherwise.
func New(log *logger.Logger) Notifier {
	if log == nil {
		log = logger.NewNop()
	}
	viper.SetDefault("twilio.base_url", defaultBaseURL)
	viper.SetDefault("twilio.max_retries", 3)
	viper.SetDefault("twilio.timeout", 15*time.Second)

	cfg := TwilioConfig{
		AccountSID: viper.GetString("twilio.account_sid"),
		AuthToken:  viper.GetString("twilio.auth_token"),
		From:       viper.GetString("twilio.from_number"),
		BaseURL:    viper.GetString("twilio.base_url"),
		MaxRetries: viper.GetInt("twilio.max_retries"),
		Timeout:    viper.GetDuration("twilio.timeout"),
	}
	n, err := NewTwilioNotifier(cfg, log)
	if err != nil {
		log.Warn("SMS notifications disabled", "reason", err)
		return NopNotifier{}
	}
	return n
}

// SendAsync delivers in the background. Failures are logged and never reach
// the caller.
func SendAsync(n Notifier, log *logger.Logger, to, body string) {
	if n == nil || to == "" {
		return
	}
	if log == nil {
		log = logger.NewNop()
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := n.SendSMS(ctx, to, body); err != nil {
			log.Warn("SMS delivery failed", "to", to, "error", err)
		}
	}()
}
