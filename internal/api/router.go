package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/meur/reliquary/internal/service"
	"github.com/meur/reliquary/internal/session"
)

// Server holds the HTTP server dependencies
type Server struct {
	svc    *service.Service
	store  *session.Store
	router chi.Router
}

// New creates a new API server
func New(svc *service.Service, store *session.Store, allowedOrigins []string) *Server {
	s := &Server{
		svc:    svc,
		store:  store,
		router: chi.NewRouter(),
	}

	s.setupMiddleware(allowedOrigins)
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware(allowedOrigins []string) {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Use(s.sessionMiddleware)

		// Catalog
		r.Get("/prime/status", s.handleGetPrimeStatus)
		r.Get("/prime/sets", s.handleGetPrimeSets)

		// Wishlist
		r.Get("/wishlist", s.handleGetWishlist)
		r.Post("/wishlist/toggle", s.handleToggle)
		r.Post("/wishlist/toggle-set", s.handleToggleSet)

		// Drop search
		r.Post("/drop/search", s.handleDropSearch)
		r.Get("/drop/result", s.handleGetDropResult)
	})

	// Health check
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps the service's typed errors onto HTTP
// statuses: validation failures to 400/422, unavailable upstreams to
// 502, everything else to 500.
func respondServiceError(w http.ResponseWriter, err error) {
	var status int
	switch errbuilder.CodeOf(err) {
	case errbuilder.CodeInvalidArgument:
		status = http.StatusBadRequest
	case errbuilder.CodeFailedPrecondition:
		status = http.StatusUnprocessableEntity
	case errbuilder.CodeNotFound:
		status = http.StatusNotFound
	case errbuilder.CodeUnavailable:
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}
	respondError(w, status, errorMessage(err))
}

func errorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && builder.Msg != "" {
		return builder.Msg
	}
	return err.Error()
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
