package twlwa

import (
	"context"
	"net/http"

	"github.com/advdv/bhttp"
)

// Mux is the HTTP request multiplexer handlers are registered on. It
// supports the full http.ServeMux pattern syntax, buffered responses
// with error returns, and named routes for reverse routing.
type Mux = bhttp.ServeMux[context.Context]

// NewMux creates an empty request multiplexer.
func NewMux() *Mux {
	return bhttp.NewCustomServeMux(
		bhttp.StdContextInit,
		-1, // unlimited response buffer
		bhttp.NewStdLogger(nil),
		http.NewServeMux(),
		bhttp.NewReverser(),
	)
}
