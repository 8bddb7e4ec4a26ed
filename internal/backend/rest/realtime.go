package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/livesboard/livesboard/internal/backend"
)

const heartbeatInterval = 30 * time.Second

// phoenixFrame is the wire format of the realtime feed (Phoenix channels).
type phoenixFrame struct {
	Topic   string `json:"topic"`
	Event   string `json:"event"`
	Payload any    `json:"payload"`
	Ref     string `json:"ref"`
}

type phoenixMessage struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     string          `json:"ref"`
}

// Subscribe opens a realtime channel on a table and relays row-level change
// events to fn in transport arrival order. The channel runs until ctx is
// canceled or Close is called; there is no reconnect.
func (c *Client) Subscribe(ctx context.Context, table string, event backend.ChangeType, fn func(backend.Change)) (backend.Subscription, error) {
	wsURL, err := c.websocketURL()
	if err != nil {
		return nil, err
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial realtime: %w", err)
	}

	sub := &realtimeSub{
		client: c,
		conn:   conn,
		topic:  "realtime:public:" + table,
		logger: c.logger,
		done:   make(chan struct{}),
	}

	if err := sub.join(table, event); err != nil {
		conn.Close()
		return nil, fmt.Errorf("join %s: %w", sub.topic, err)
	}

	go sub.readLoop(fn)
	go sub.heartbeat()
	go func() {
		select {
		case <-ctx.Done():
			_ = sub.Close()
		case <-sub.done:
		}
	}()

	return sub, nil
}

func (c *Client) websocketURL() (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse backend url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path += "/realtime/v1/websocket"
	q := u.Query()
	q.Set("apikey", c.anonKey)
	q.Set("vsn", "1.0.0")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// realtimeSub is one live channel over a dedicated connection.
type realtimeSub struct {
	client *Client
	conn   *websocket.Conn
	topic  string
	logger *slog.Logger

	writeMu sync.Mutex
	once    sync.Once
	done    chan struct{}
}

func (s *realtimeSub) nextRef() string {
	return strconv.FormatInt(s.client.ref.Add(1), 10)
}

func (s *realtimeSub) send(topic, event string, payload any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(phoenixFrame{Topic: topic, Event: event, Payload: payload, Ref: s.nextRef()})
}

func (s *realtimeSub) join(table string, event backend.ChangeType) error {
	payload := map[string]any{
		"config": map[string]any{
			"postgres_changes": []map[string]any{
				{"event": string(event), "schema": "public", "table": table},
			},
		},
	}
	return s.send(s.topic, "phx_join", payload)
}

func (s *realtimeSub) readLoop(fn func(backend.Change)) {
	defer func() { _ = s.Close() }()

	for {
		var msg phoenixMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			select {
			case <-s.done:
			default:
				s.logger.Warn("realtime channel closed", "topic", s.topic, "error", err)
			}
			return
		}

		switch msg.Event {
		case "phx_reply", "phx_close":
			// channel bookkeeping, nothing to relay
		case "phx_error":
			s.logger.Warn("realtime channel error", "topic", s.topic)
		case "postgres_changes":
			var payload struct {
				Data backend.Change `json:"data"`
			}
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				s.logger.Warn("decode change event", "topic", s.topic, "error", err)
				continue
			}
			fn(payload.Data)
		case "INSERT", "UPDATE", "DELETE":
			var change backend.Change
			if err := json.Unmarshal(msg.Payload, &change); err != nil {
				s.logger.Warn("decode change event", "topic", s.topic, "error", err)
				continue
			}
			if change.Type == "" {
				change.Type = backend.ChangeType(msg.Event)
			}
			fn(change)
		}
	}
}

func (s *realtimeSub) heartbeat() {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			if err := s.send("phoenix", "heartbeat", map[string]any{}); err != nil {
				s.logger.Warn("realtime heartbeat failed", "topic", s.topic, "error", err)
				return
			}
		}
	}
}

// Close leaves the channel and closes the connection. Idempotent.
func (s *realtimeSub) Close() error {
	s.once.Do(func() {
		close(s.done)
		// best-effort leave before tearing the connection down
		_ = s.send(s.topic, "phx_leave", map[string]any{})
		_ = s.conn.Close()
	})
	return nil
}
