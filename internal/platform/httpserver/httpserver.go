// Package httpserver builds the HTTP server with sane defaults for this
// service.
package httpserver

import (
	"net/http"
	"time"
)

// New returns an http.Server with conservative timeouts. Submissions are
// small multipart bodies, so tight read limits are safe.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
