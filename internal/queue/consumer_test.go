package queue

import (
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubConn struct {
	channelErr error
	closed     bool
}

func (s *stubConn) Channel() (*amqp.Channel, error) { return nil, s.channelErr }
func (s *stubConn) Close() error                    { s.closed = true; return nil }

func TestConsumeLoopClosesConnectionOnFailure(t *testing.T) {
	conn := &stubConn{channelErr: errors.New("channel refused")}

	err := consumeLoop(conn)

	require.Error(t, err)
	// without the close the reconnect loop would leak one connection per
	// failed attempt
	assert.True(t, conn.closed)
}

func TestHandleMessageRejectsBadPayload(t *testing.T) {
	err := handleMessage([]byte("{not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}
