package api

import (
	"context"
	"net"
	"net/http"
	"time"
)

// NewServer wraps handler in an http.Server whose request contexts are
// cancelled as soon as Shutdown starts, so streaming audits stop instead of
// holding the shutdown open until its deadline.
func NewServer(addr string, handler http.Handler) *http.Server {
	base, stop := context.WithCancel(context.Background())
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return base },
	}
	srv.RegisterOnShutdown(stop)
	return srv
}
