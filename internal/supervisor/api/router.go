// Package api is the device-local HTTP surface: target state ingest, state
// inspection and a few direct service operations. No auth; the socket is
// expected to be firewalled to the local network.
package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// Route is an http.Handler that knows its own mount point.
type Route interface {
	http.Handler

	// Pattern reports the path at which this is registered.
	Pattern() string
	Method() string
}

func NewRouter(routes []Route, logger *zerolog.Logger) *mux.Router {
	router := mux.NewRouter()
	for _, route := range routes {
		logger.Info().Msgf("Registering route: %s %s", route.Method(), route.Pattern())
		router.Handle(route.Pattern(), route).Methods(route.Method())
	}
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Dur("elapsed", time.Since(start)).
				Msg("handled request")
		})
	})
	return router
}
