// Package socketio publishes classification records to a socket.io server.
// Importing it starts the socket.io engine's background goroutines, so only
// the application wiring depends on it.
package socketio

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/vk/distsplit/internal/ctxlog"
	"github.com/vk/distsplit/internal/sink"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultEvent is the event name records are emitted under.
const DefaultEvent = "classification"

// Config describes the socket.io server records are published to.
type Config struct {
	URL                string
	Namespace          string
	Event              string
	InsecureSkipVerify bool
	ConnectTimeout     time.Duration
}

// Sink publishes every record as one socket.io event.
type Sink struct {
	mu     sync.Mutex
	client *socket.Socket
	event  string
	closed bool
}

var _ sink.Sink = (*Sink)(nil)

// Dial connects to the configured server and waits for the
// namespace handshake to complete before returning.
func Dial(ctx context.Context, cfg Config) (*Sink, error) {
	logger := ctxlog.FromContext(ctx).With("sink", "socketio", "url", cfg.URL)
	logger.Debug("Connecting result sink...")

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("socket.io URL %q must include scheme and host", cfg.URL)
	}
	event := cfg.Event
	if event == "" {
		event = DefaultEvent
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	path := parsedURL.Path
	if path == "" || path == "/" {
		path = "/socket.io/"
	}
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "/"
	}

	opts := socket.DefaultOptions()
	opts.SetPath(path)
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)

	connectChan := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Result sink connected", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connectChan <- err
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &Sink{client: io, event: event}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", timeout)
	}
}

// Emit implements sink.Sink.
func (s *Sink) Emit(_ context.Context, rec sink.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("socket.io sink closed, dropping record %d", rec.Index)
	}
	if !s.client.Connected() {
		return fmt.Errorf("socket.io sink disconnected, dropping record %d", rec.Index)
	}
	payload := map[string]any{
		"run_id": rec.RunID,
		"index":  rec.Index,
		"label":  rec.Label,
		"sample": rec.Sample,
		"z1":     rec.Z1,
		"z2":     rec.Z2,
	}
	if err := s.client.Emit(s.event, payload); err != nil {
		return fmt.Errorf("emitting record %d: %w", rec.Index, err)
	}
	return nil
}

// Close implements sink.Sink.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.client.Disconnect()
	return nil
}
