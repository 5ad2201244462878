// Package notify reduces the UI toast mechanism to its capability: a
// leveled, fire-and-forget message sink.
package notify

import (
	"github.com/rs/zerolog"

	"hotel_directory/internal/adapters/observability"
	"hotel_directory/internal/domain"
)

// Log writes notifications to the structured log. Never blocks.
type Log struct{ l zerolog.Logger }

func NewLog(l zerolog.Logger) *Log { return &Log{l: l} }

func (n *Log) Notify(sev domain.Severity, msg string) {
	observability.ObserveNotification(string(sev))
	evt := n.l.Info()
	if sev == domain.SeverityWarning {
		evt = n.l.Warn()
	}
	evt.Str("severity", string(sev)).Msg(msg)
}

// Multi fans one notification out to several sinks.
type Multi []domain.Notifier

func (m Multi) Notify(sev domain.Severity, msg string) {
	for _, n := range m {
		n.Notify(sev, msg)
	}
}
