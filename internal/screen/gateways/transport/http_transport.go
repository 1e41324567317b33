package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/haukened/rr-screen/internal/screen/common/log"
)

// HTTPTransport serves a handler on a TCP address with graceful shutdown.
type HTTPTransport struct {
	addr    string
	handler http.Handler
	logger  log.Logger

	mu      sync.Mutex
	srv     *http.Server
	ln      net.Listener
	done    chan struct{}
	running bool
}

func NewHTTPTransport(addr string, handler http.Handler, logger log.Logger) *HTTPTransport {
	return &HTTPTransport{addr: addr, handler: handler, logger: logger}
}

// Start binds the listener and serves in the background. Cancelling ctx
// stops the server.
func (t *HTTPTransport) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return fmt.Errorf("HTTP transport already running")
	}
	ln, err := net.Listen("tcp", t.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", t.addr, err)
	}
	t.ln = ln
	t.srv = &http.Server{Handler: t.handler, ReadHeaderTimeout: 5 * time.Second}
	t.done = make(chan struct{})
	t.running = true

	t.logger.Info(map[string]any{"transport": "http", "address": ln.Addr().String()}, "HTTP transport started")

	srv, done := t.srv, t.done
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.logger.Error(map[string]any{"error": err}, "HTTP server stopped")
		}
	}()
	go func() {
		select {
		case <-ctx.Done():
			_ = t.Stop()
		case <-done:
		}
	}()
	return nil
}

// Stop shuts the server down, waiting up to five seconds for in-flight requests.
func (t *HTTPTransport) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return nil
	}
	t.running = false
	close(t.done)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := t.srv.Shutdown(ctx)
	t.logger.Info(map[string]any{"transport": "http", "address": t.ln.Addr().String()}, "HTTP transport stopped")
	return err
}

// Address returns the bound address while running, otherwise the configured one.
func (t *HTTPTransport) Address() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running && t.ln != nil {
		return t.ln.Addr().String()
	}
	return t.addr
}
