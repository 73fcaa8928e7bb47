package server

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Listener runs a local HTTP server for the duration of one authorization
// redirect.
type Listener struct {
	srv     *http.Server
	handler *CallbackHandler
}

// NewListener creates a listener for the given address that expects the
// given state token on its /callback route.
func NewListener(host string, port int, state string) *Listener {
	handler := NewCallbackHandler(state)

	mux := http.NewServeMux()
	mux.Handle("/callback", handler)

	return &Listener{
		srv: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", host, port),
			Handler: mux,
		},
		handler: handler,
	}
}

// Start begins serving in the background. Server errors other than a clean
// shutdown surface through the callback result channel.
func (l *Listener) Start() {
	go func() {
		if err := l.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.handler.send(CallbackResult{err: fmt.Errorf("callback listener: %w", err)})
		}
	}()
}

// Wait blocks until the redirect arrives or the context is canceled, then
// shuts the server down. The interactive wait has no timeout of its own;
// callers bound it through the context.
func (l *Listener) Wait(ctx context.Context) (CallbackResult, error) {
	defer l.shutdown()

	select {
	case result, ok := <-l.handler.Result():
		if !ok {
			return CallbackResult{}, fmt.Errorf("callback channel closed without result")
		}
		if err := result.Error(); err != nil {
			return CallbackResult{}, err
		}
		return result, nil
	case <-ctx.Done():
		return CallbackResult{}, ctx.Err()
	}
}

func (l *Listener) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = l.srv.Shutdown(ctx)
}
