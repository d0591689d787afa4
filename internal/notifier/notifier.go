// Package notifier delivers confirmation codes to users.
package notifier

import (
	"context"
	"fmt"

	"yamdb/pkg/utils"

	"go.uber.org/zap"
)

// Message is one outgoing email.
type Message struct {
	Subject string
	Body    string
	From    string
	To      []string
}

// Notifier delivers a message or reports why it could not.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// New picks the implementation named by cfg.Driver.
func New(cfg utils.EmailConfig, log *zap.Logger) (Notifier, error) {
	switch cfg.Driver {
	case "smtp":
		return NewSMTPNotifier(cfg, log)
	case "log", "":
		return NewLogNotifier(log), nil
	default:
		return nil, fmt.Errorf("unknown mail driver %q", cfg.Driver)
	}
}

// LogNotifier writes messages to the log instead of sending them. Used in
// development.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log.With(zap.String("notifier", "log"))}
}

func (n *LogNotifier) Send(_ context.Context, msg Message) error {
	n.log.Info("Email",
		zap.Strings("to", msg.To),
		zap.String("from", msg.From),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}
