package stream

import (
	"time"

	"codeberg.org/mutker/biofeedback/internal/errors"
	"codeberg.org/mutker/biofeedback/internal/logger"
	"github.com/nats-io/nats.go"
)

const clientName = "biofeedback"

// Connect dials the NATS server at url and reconnects forever.
func Connect(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(
		url,
		nats.Name(clientName),
		nats.Timeout(3*time.Second),
		nats.ReconnectWait(500*time.Millisecond),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, errors.New().Wrap(ErrConnect, err).WithData(url)
	}

	return nc, nil
}
