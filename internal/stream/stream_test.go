package stream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"coinwire/internal/domain"
	"coinwire/internal/narrative"
	"coinwire/internal/render"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type oneAge struct{}

func (oneAge) IntN(int) int { return 1 }

type scriptedSource struct {
	mu      sync.Mutex
	results []result
	calls   int
}

type result struct {
	briefing *domain.Briefing
	err      error
}

func (s *scriptedSource) Briefing(ctx context.Context, symbol string) (*domain.Briefing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.results[min(s.calls, len(s.results)-1)]
	s.calls++
	return r.briefing, r.err
}

func (s *scriptedSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func briefing(symbol string) *domain.Briefing {
	q := domain.QuoteRecord{Name: "Bitcoin", Symbol: symbol, Slug: "bitcoin", Price: 100, PercentChange24h: 1}
	return &domain.Briefing{Symbol: symbol, Quote: q, Items: narrative.Generate(q)}
}

func startServer(t *testing.T, source BriefingSource) (string, <-chan error) {
	t.Helper()

	tracer := trace.NewNoopTracerProvider().Tracer("test")
	s := NewStreamer(tracer, source, render.New("", oneAge{}), 20*time.Millisecond, zap.NewNop())
	served := make(chan error, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served <- s.Serve(w, r, r.URL.Query().Get("symbol"))
	}))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/?symbol=BTC", served
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestStreamPushesImmediatelyThenPeriodically(t *testing.T) {
	source := &scriptedSource{results: []result{{briefing: briefing("BTC")}}}
	url, _ := startServer(t, source)
	conn := dial(t, url)

	first := readMessage(t, conn)
	require.Equal(t, TypeNews, first.Type)
	require.Equal(t, "BTC", first.Symbol)
	require.Contains(t, first.HTML, "<h2>Latest News for BTC</h2>")
	require.Empty(t, first.Error)

	second := readMessage(t, conn)
	require.Equal(t, TypeNews, second.Type)
	require.GreaterOrEqual(t, source.callCount(), 2)
}

func TestStreamNotFoundSendsOneMessageAndCloses(t *testing.T) {
	source := &scriptedSource{results: []result{{}}}
	url, served := startServer(t, source)
	conn := dial(t, url)

	msg := readMessage(t, conn)
	require.Equal(t, TypeNotFound, msg.Type)
	require.Equal(t, "No data found for symbol: BTC", msg.Error)

	_, _, err := conn.ReadMessage()
	require.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "expected normal close, got %v", err)

	select {
	case err := <-served:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not end")
	}
	require.Equal(t, 1, source.callCount())
}

func TestStreamErrorKeepsPolling(t *testing.T) {
	source := &scriptedSource{results: []result{
		{err: errors.New("provider down: secret detail")},
		{briefing: briefing("BTC")},
	}}
	url, _ := startServer(t, source)
	conn := dial(t, url)

	first := readMessage(t, conn)
	require.Equal(t, TypeError, first.Type)
	require.Equal(t, "Failed to fetch market data", first.Error)
	require.NotContains(t, first.Error, "secret")

	second := readMessage(t, conn)
	require.Equal(t, TypeNews, second.Type)
}

func TestStreamStopsWhenClientDisconnects(t *testing.T) {
	source := &scriptedSource{results: []result{{briefing: briefing("BTC")}}}
	url, served := startServer(t, source)
	conn := dial(t, url)

	readMessage(t, conn)
	require.NoError(t, conn.Close())

	select {
	case <-served:
	case <-time.After(2 * time.Second):
		t.Fatal("stream kept running after disconnect")
	}

	calls := source.callCount()
	time.Sleep(80 * time.Millisecond)
	require.Equal(t, calls, source.callCount())
}

func TestServeRejectsPlainHTTP(t *testing.T) {
	tracer := trace.NewNoopTracerProvider().Tracer("test")
	s := NewStreamer(tracer, &scriptedSource{results: []result{{}}}, render.New("", nil), 0, nil)
	require.Equal(t, defaultInterval, s.interval)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/ws/news?symbol=BTC", nil)
	err := s.Serve(w, r, "BTC")
	require.Error(t, err)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
