package mail

import (
	"fmt"

	"github.com/rs/zerolog"
)

const (
	DriverLog  = "log"
	DriverSMTP = "smtp"
	DriverAMQP = "amqp"
)

// Config selects and configures the delivery backend.
type Config struct {
	Driver  string
	SMTP    SMTPConfig
	AMQPURL string
	Queue   string
}

// NewSender builds the Sender named by cfg.Driver. The returned close func
// releases any connection the sender holds and is never nil.
func NewSender(cfg Config, log zerolog.Logger) (Sender, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case "", DriverLog:
		return NewLogSender(log), noop, nil
	case DriverSMTP:
		if cfg.SMTP.Host == "" {
			return nil, noop, fmt.Errorf("smtp driver requires a host")
		}
		return NewSMTPSender(cfg.SMTP), noop, nil
	case DriverAMQP:
		s, err := NewAMQPSender(cfg.AMQPURL, cfg.Queue)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	}
	return nil, noop, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
}
