// Package notify delivers outbound alert messages to the health
// authorities when a submission is classified as high risk. The transport
// is abstract; provider backends are selected by configuration.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/healthshield-server/internal/domain"
)

// Transport sends one alert text to a recipient. Implementations wrap a
// concrete SMS provider API.
type Transport interface {
	Name() string
	Send(ctx context.Context, recipient, message string) error
}

// AlertSender is the capability the report service depends on. A nil
// error means the alert was accepted by the provider.
type AlertSender interface {
	SendAlert(ctx context.Context, sub *domain.Submission, matches []domain.MatchResult, tier domain.RiskTier) error
}

// Notifier wraps a Transport with a circuit breaker and a call timeout so
// the send path always returns instead of hanging or hammering a failing
// provider.
type Notifier struct {
	transport Transport
	breaker   *gobreaker.CircuitBreaker
	recipient string
	timeout   time.Duration
	logger    *logrus.Logger
}

// New builds a Notifier for the configured provider.
func New(cfg domain.SMSConfig, logger *logrus.Logger) (*Notifier, error) {
	var transport Transport
	switch cfg.Provider {
	case "twilio":
		transport = NewTwilioTransport(cfg.Twilio, cfg.Timeout)
	case "fast2sms":
		transport = NewFast2SMSTransport(cfg.Fast2SMS, cfg.Timeout)
	case "console":
		transport = NewConsoleTransport(logger)
	default:
		return nil, fmt.Errorf("unsupported SMS provider: %s", cfg.Provider)
	}
	return NewWithTransport(transport, cfg.AuthorityNumber, cfg.Timeout, logger), nil
}

// NewWithTransport builds a Notifier around an explicit transport.
func NewWithTransport(transport Transport, recipient string, timeout time.Duration, logger *logrus.Logger) *Notifier {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        transport.Name(),
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Alert transport circuit breaker state changed")
		},
	})

	return &Notifier{
		transport: transport,
		breaker:   breaker,
		recipient: recipient,
		timeout:   timeout,
		logger:    logger,
	}
}

// Recipient returns the configured alert destination address.
func (n *Notifier) Recipient() string {
	return n.recipient
}

// SendAlert composes the alert text and delivers it to the configured
// health authority number. It returns within the configured timeout.
func (n *Notifier) SendAlert(ctx context.Context, sub *domain.Submission, matches []domain.MatchResult, tier domain.RiskTier) error {
	message := BuildAlertMessage(sub, matches, tier)

	sendCtx := ctx
	if n.timeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	_, err := n.breaker.Execute(func() (interface{}, error) {
		return nil, n.transport.Send(sendCtx, n.recipient, message)
	})
	if err != nil {
		n.logger.WithFields(logrus.Fields{
			"provider":  n.transport.Name(),
			"recipient": n.recipient,
			"error":     err,
		}).Warn("Failed to send alert")
		return err
	}

	n.logger.WithFields(logrus.Fields{
		"provider":  n.transport.Name(),
		"recipient": n.recipient,
		"village":   sub.Village,
	}).Info("Alert sent to health authorities")

	return nil
}
