package http_server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"
)

type Config struct {
	Port    int
	Timeout time.Duration
}

func New(ctx context.Context, handler http.Handler, config Config) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Port),
		Handler:           http.TimeoutHandler(handler, config.Timeout, "request timeout"),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      config.Timeout + time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
}
