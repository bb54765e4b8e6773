package events

import (
	"time"

	"go.uber.org/zap"
)

type Conn = conn

func NewNATSPublisherWithConn(c Conn, flushTimeout time.Duration, logger *zap.Logger) Publisher {
	return newNATSPublisher(c, flushTimeout, logger)
}
