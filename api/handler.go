package api

import (
	"net/http"

	"github.com/htol/libapi/middleware"
	"github.com/htol/libapi/service"
)

// Options tunes the router; the zero value is the default behaviour
type Options struct {
	// StrictMemberValidation makes POST /members apply the full name and
	// email format rules instead of the key-presence check
	StrictMemberValidation bool
	// AllowedOrigin is sent as Access-Control-Allow-Origin, "*" when empty
	AllowedOrigin string
}

// NewHandler creates and returns the main HTTP handler (router) for the application
func NewHandler(svc *service.Service, opts Options) http.Handler {
	mux := http.NewServeMux()

	// Books
	mux.Handle("POST /books", createBookHandler(svc))
	mux.Handle("GET /books", listBooksHandler(svc))
	mux.Handle("GET /books/search", searchBooksHandler(svc))
	mux.Handle("PUT /books/{id}", updateBookHandler(svc))
	mux.Handle("DELETE /books/{id}", deleteBookHandler(svc))

	// Members
	mux.Handle("POST /members", createMemberHandler(svc, opts.StrictMemberValidation))

	mux.HandleFunc("GET /health", healthCheckHandler(svc))

	// Known paths reached with another method
	mux.Handle("/books", methodNotAllowedHandler("GET, HEAD, POST"))
	mux.Handle("/books/{id}", bookItemMethodNotAllowed())
	mux.Handle("/members", methodNotAllowedHandler("POST"))
	mux.Handle("/health", methodNotAllowedHandler("GET, HEAD"))

	mux.Handle("/", notFoundHandler())

	origin := opts.AllowedOrigin
	if origin == "" {
		origin = "*"
	}

	// Apply middleware chain
	chain := middleware.Chain(
		middleware.Recovery,
		middleware.Logger,
		middleware.RequestID,
		middleware.CORS(origin),
	)

	return chain(mux)
}
