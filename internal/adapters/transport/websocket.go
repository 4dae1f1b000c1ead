package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"actbot/internal/core/domain"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	defaultResponseBuffer = 64
	defaultPingInterval   = 30 * time.Second
	writeTimeout          = 10 * time.Second
)

// DialParams configures the websocket connection to the backend.
type DialParams struct {
	URL            string
	Token          string
	ResponseBuffer int
	PingInterval   time.Duration
}

// WebSocketTransport is the production transport: one websocket connection
// to the backend. Writes are serialized behind a mutex (gorilla allows a
// single concurrent writer); one read goroutine feeds the responses channel.
type WebSocketTransport struct {
	conn      *websocket.Conn
	writeMu   sync.Mutex
	responses chan domain.ResponseEnvelope
	closed    chan struct{}
	closeOnce sync.Once
	readDone  chan struct{}
	l         *zerolog.Logger
}

// Dial connects to the backend and starts the read and keepalive loops. A
// non-empty token is sent as an Authorization bearer header, which the
// backend enforces when it is configured with one.
func Dial(ctx context.Context, p DialParams) (*WebSocketTransport, error) {
	header := http.Header{}
	if p.Token != "" {
		header.Set("Authorization", "Bearer "+p.Token)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, p.URL, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dialing %s: %w (status %s)", p.URL, err, resp.Status)
		}

		return nil, fmt.Errorf("dialing %s: %w", p.URL, err)
	}

	buffer := p.ResponseBuffer
	if buffer <= 0 {
		buffer = defaultResponseBuffer
	}

	interval := p.PingInterval
	if interval <= 0 {
		interval = defaultPingInterval
	}

	l := log.With().Str("adapter", "websocket").Str("url", p.URL).Logger()

	t := &WebSocketTransport{
		conn:      conn,
		responses: make(chan domain.ResponseEnvelope, buffer),
		closed:    make(chan struct{}),
		readDone:  make(chan struct{}),
		l:         &l,
	}

	go t.readLoop()
	go t.pingLoop(interval)

	l.Info().Msg("connected to backend")

	return t, nil
}

// Send marshals cmd into a JSON text frame and writes it. A zero Type
// defaults to the command envelope type.
func (t *WebSocketTransport) Send(ctx context.Context, cmd domain.OutboundCommand) error {
	select {
	case <-t.closed:
		return domain.ErrTransportClosed
	default:
	}

	if cmd.Type == "" {
		cmd.Type = domain.EnvelopeTypeCommand
	}

	deadline := time.Now().Add(writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if err := t.conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("setting write deadline: %w", err)
	}

	if err := t.conn.WriteJSON(cmd); err != nil {
		return fmt.Errorf("writing command frame: %w", err)
	}

	return nil
}

// Responses returns the inbound envelope channel. It is closed once the read
// loop exits, so a consumer ranging over it stops on its own.
func (t *WebSocketTransport) Responses() <-chan domain.ResponseEnvelope {
	return t.responses
}

func (t *WebSocketTransport) readLoop() {
	defer close(t.readDone)
	defer close(t.responses)
	defer t.terminate()

	for {
		_, data, err := t.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				t.l.Warn().Err(err).Msg("read loop terminated")
			} else {
				t.l.Debug().Msg("connection closed")
			}

			return
		}

		var env domain.ResponseEnvelope
		if err := json.Unmarshal(data, &env); err != nil || env.CommandName == "" {
			// Event pushes and other unrelated frames share this socket.
			t.l.Debug().Int("bytes", len(data)).Msg("skipping frame without command name")
			continue
		}

		select {
		case t.responses <- env:
		case <-t.closed:
			return
		}
	}
}

func (t *WebSocketTransport) pingLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.closed:
			return
		case <-ticker.C:
			err := t.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
			if err != nil {
				t.l.Debug().Err(err).Msg("keepalive ping failed")
				return
			}
		}
	}
}

func (t *WebSocketTransport) terminate() {
	t.closeOnce.Do(func() {
		close(t.closed)

		err := t.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		if err != nil {
			t.l.Debug().Err(err).Msg("close frame not sent")
		}

		_ = t.conn.Close()
	})
}

// Close shuts the connection down and waits for the read loop to exit,
// leaving the responses channel closed so a draining consumer stops. Safe to
// call more than once.
func (t *WebSocketTransport) Close() error {
	t.terminate()
	<-t.readDone

	return nil
}
