package mail

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tasknestle/tasknestle/internal/api/metrics"
	"github.com/tasknestle/tasknestle/internal/core/domain"
)

// Mailer renders notifications and hands them to a Sender. It satisfies
// ports.Notifier.
type Mailer struct {
	composer *Composer
	sender   Sender
	log      zerolog.Logger
}

func NewMailer(composer *Composer, sender Sender, log zerolog.Logger) *Mailer {
	return &Mailer{composer: composer, sender: sender, log: log}
}

func (m *Mailer) Notify(ctx context.Context, n domain.Notification) error {
	kind := string(n.Kind)
	start := time.Now()

	msg, err := m.composer.Compose(n)
	if err == nil {
		err = m.sender.Send(ctx, msg)
	}
	metrics.NotificationDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.NotificationsTotal.WithLabelValues(kind, "failed").Inc()
		return err
	}
	metrics.NotificationsTotal.WithLabelValues(kind, "sent").Inc()
	m.log.Debug().Str("to", n.To).Str("kind", kind).Msg("notification sent")
	return nil
}
