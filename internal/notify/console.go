package notify

import (
	"context"

	"github.com/sirupsen/logrus"
)

// ConsoleTransport logs alert texts instead of sending them. It is the
// development gateway; it always succeeds.
type ConsoleTransport struct {
	logger *logrus.Logger
}

// NewConsoleTransport creates a new console transport.
func NewConsoleTransport(logger *logrus.Logger) *ConsoleTransport {
	return &ConsoleTransport{logger: logger}
}

// Name returns the transport name.
func (t *ConsoleTransport) Name() string {
	return "console"
}

// Send logs the alert message.
func (t *ConsoleTransport) Send(ctx context.Context, recipient, message string) error {
	t.logger.WithFields(logrus.Fields{
		"recipient": recipient,
		"message":   message,
	}).Info("Console SMS gateway: alert message")
	return nil
}
