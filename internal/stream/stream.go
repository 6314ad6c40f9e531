// Package stream pushes freshly rendered briefings over a WebSocket.
package stream

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"coinwire/internal/domain"
	"coinwire/internal/render"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	writeWait       = 10 * time.Second
	defaultInterval = 30 * time.Second
)

// Message types sent to the client.
const (
	TypeNews     = "news"
	TypeNotFound = "not_found"
	TypeError    = "error"
)

// Message is one JSON frame on the stream.
type Message struct {
	Type   string `json:"type"`
	Symbol string `json:"symbol"`
	HTML   string `json:"html,omitempty"`
	Error  string `json:"error,omitempty"`
}

// BriefingSource returns (nil, nil) when there is no data for symbol.
type BriefingSource interface {
	Briefing(ctx context.Context, symbol string) (*domain.Briefing, error)
}

// Streamer serves one polling loop per connection. Connections share nothing
// but the source and renderer.
type Streamer struct {
	tracer   trace.Tracer
	source   BriefingSource
	renderer *render.Renderer
	interval time.Duration
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewStreamer(tracer trace.Tracer, source BriefingSource, renderer *render.Renderer, interval time.Duration, logger *zap.Logger) *Streamer {
	if interval <= 0 {
		interval = defaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Streamer{
		tracer:   tracer,
		source:   source,
		renderer: renderer,
		interval: interval,
		logger:   logger.Named("stream"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// Serve upgrades the request and streams briefings for symbol until the
// client disconnects, the symbol turns out unknown, or a write fails.
func (s *Streamer) Serve(w http.ResponseWriter, r *http.Request, symbol string) error {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("upgrade websocket: %w", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go readLoop(conn, cancel)

	s.logger.Info("stream opened", zap.String("symbol", symbol), zap.String("remote", r.RemoteAddr))
	err = s.pollLoop(ctx, conn, symbol)
	s.logger.Info("stream closed", zap.String("symbol", symbol))
	return err
}

// readLoop drains client frames so control messages are handled, and cancels
// ctx once the peer goes away.
func readLoop(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

func (s *Streamer) pollLoop(ctx context.Context, conn *websocket.Conn, symbol string) error {
	done, err := s.push(ctx, conn, symbol)
	if done || err != nil {
		return err
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			done, err := s.push(ctx, conn, symbol)
			if done || err != nil {
				return err
			}
		}
	}
}

// push sends one frame. done reports that the stream should end normally.
func (s *Streamer) push(ctx context.Context, conn *websocket.Conn, symbol string) (done bool, err error) {
	ctx, span := s.tracer.Start(ctx, "stream.push")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", symbol))

	b, err := s.source.Briefing(ctx, symbol)
	switch {
	case err != nil:
		if ctx.Err() != nil {
			return true, nil
		}
		s.logger.Error("stream fetch failed", zap.String("symbol", symbol), zap.Error(err))
		return false, write(conn, Message{Type: TypeError, Symbol: symbol, Error: "Failed to fetch market data"})
	case b == nil:
		if err := write(conn, Message{Type: TypeNotFound, Symbol: symbol, Error: "No data found for symbol: " + symbol}); err != nil {
			return true, err
		}
		deadline := time.Now().Add(writeWait)
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "not found"), deadline)
		return true, nil
	}

	html, err := s.renderer.RenderBriefing(b)
	if err != nil {
		s.logger.Error("stream render failed", zap.String("symbol", symbol), zap.Error(err))
		return false, write(conn, Message{Type: TypeError, Symbol: symbol, Error: "Failed to fetch market data"})
	}
	return false, write(conn, Message{Type: TypeNews, Symbol: symbol, HTML: html})
}

func write(conn *websocket.Conn, msg Message) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	if err := conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("write %s frame: %w", msg.Type, err)
	}
	return nil
}
