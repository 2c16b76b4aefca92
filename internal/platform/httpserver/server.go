// Package httpserver builds the process's *http.Server with production timeouts.
package httpserver

import (
	"net/http"
	"time"
)

// New returns a server for handler on addr. Write timeout stays above the
// request timeout middleware so slow handlers still get their 503 body out.
func New(addr string, handler http.Handler, requestTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      requestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
