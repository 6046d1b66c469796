package feed

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/vk/attrgrid/internal/attrerr"
	"github.com/vk/attrgrid/internal/config"
	"github.com/vk/attrgrid/internal/ctxlog"
	"github.com/vk/attrgrid/internal/store"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultEvent is the event name assignments arrive on.
const DefaultEvent = "set"

// connectTimeout bounds the wait for the namespace handshake.
var connectTimeout = 15 * time.Second

// Config describes the socket.io endpoint to subscribe to.
type Config struct {
	URL                string
	Namespace          string
	Event              string
	InsecureSkipVerify bool
}

// Feed is a live subscription.
type Feed struct {
	client *socket.Socket
	logger *slog.Logger
}

// Ack is the result emitted for every received event.
type Ack struct {
	OK       bool   `json:"ok"`
	Assigned int    `json:"assigned"`
	Error    string `json:"error,omitempty"`
	Kind     string `json:"kind,omitempty"`
}

// Payload renders the ack as a plain map for emitting.
func (a Ack) Payload() map[string]any {
	p := map[string]any{"ok": a.OK, "assigned": a.Assigned}
	if a.Error != "" {
		p["error"] = a.Error
		p["kind"] = a.Kind
	}
	return p
}

// Connect dials cfg.URL over websocket and starts applying events to st. It
// blocks until the connection is established, fails, or ctx is done.
func Connect(ctx context.Context, cfg Config, st *store.Synchronized) (*Feed, error) {
	logger := ctxlog.FromContext(ctx).With("component", "feed", "url", cfg.URL)
	logger.Info("Connecting to value feed...")

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed URL: %w", err)
	}
	event := cfg.Event
	if event == "" {
		event = DefaultEvent
	}
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "/"
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)

	io.On(types.EventName(event), func(data ...any) {
		ack := Apply(st, data...)
		logger.Debug("Feed event applied.", "event", event, "ok", ack.OK, "assigned", ack.Assigned, "kind", ack.Kind)
		io.Emit(event+"_result", ack.Payload())
	})

	connectChan := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected to value feed", "sid", io.Id(), "event", event)
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err, ok := errs[0].(error)
		if !ok {
			err = fmt.Errorf("%v", errs[0])
		}
		connectChan <- err
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("feed connection failed: %w", err)
		}
		return &Feed{client: io, logger: logger}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for feed connection")
	case <-time.After(connectTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for feed connection", connectTimeout)
	}
}

// Close disconnects from the feed.
func (f *Feed) Close() {
	f.logger.Info("Disconnecting from value feed", "sid", f.client.Id())
	f.client.Disconnect()
}

// Apply decodes the first event argument as a JSON object of assignments
// and applies it to st as one batch.
func Apply(st *store.Synchronized, data ...any) Ack {
	if len(data) == 0 {
		return Ack{Error: "event carries no payload", Kind: "BadRequest"}
	}

	var raw []byte
	switch payload := data[0].(type) {
	case string:
		raw = []byte(payload)
	case []byte:
		raw = payload
	default:
		var err error
		if raw, err = json.Marshal(payload); err != nil {
			return Ack{Error: err.Error(), Kind: "BadRequest"}
		}
	}

	values, err := config.DecodeJSONValues(raw)
	if err != nil {
		return Ack{Error: err.Error(), Kind: "BadRequest"}
	}
	if err := st.Set(values); err != nil {
		return Ack{Error: err.Error(), Kind: kindOf(err)}
	}
	return Ack{OK: true, Assigned: len(values)}
}

func kindOf(err error) string {
	var stepErr *store.StepError
	if errors.As(err, &stepErr) {
		return "StepFailed"
	}
	return attrerr.KindName(err)
}
