package main

import (
	"net/http"
	"time"
)

// webServer wraps the mux in an http.Server with the timeouts a public
// listener needs. Websocket sessions are hijacked, so the write timeout
// applies only to static files.
func webServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
