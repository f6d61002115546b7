// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/nutrilookup/pkg/errs"
	"github.com/okian/nutrilookup/pkg/logger"
)

// Client-facing messages that never carry store detail.
const (
	msgDatabaseError = "Database error"
	msgInvalidBody   = "Invalid JSON body"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	CatalogDependencies
	ItemDependencies
	ReadinessDependencies
}

// Server wires HTTP routes for the lookup API.
type Server struct {
	catalogHandler *CatalogHandler
	itemsHandler   *ItemsHandler
	healthHandler  *HealthHandler
	logger         logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets the logger used for request and panic logs.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		catalogHandler: NewCatalogHandler(deps),
		itemsHandler:   NewItemsHandler(deps),
		healthHandler:  NewHealthHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("http")
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("GET /api/countries", s.route("countries", s.catalogHandler.HandleCountries))
	mux.Handle("GET /api/branches", s.route("branches", s.catalogHandler.HandleBranches))
	mux.Handle("GET /api/items", s.route("items", s.itemsHandler.HandleListItems))
	mux.Handle("POST /api/items", s.route("create_item", s.itemsHandler.HandleCreateItem))
	mux.Handle("DELETE /api/items/{id}", s.route("delete_item", s.itemsHandler.HandleDeleteItem))
	mux.Handle("GET /api/item", s.route("item", s.itemsHandler.HandleGetItem))

	mux.Handle("GET /health", s.route("health", s.healthHandler.HandleHealth))
	mux.Handle("GET /ready", s.route("ready", s.healthHandler.HandleReady))
	mux.Handle("GET /metrics", s.healthHandler.MetricsHandler())
}

// route applies the middleware chain shared by every API endpoint.
func (s *Server) route(endpoint string, h http.HandlerFunc) http.Handler {
	return RequestIDMiddleware(
		RecoveryMiddleware(s.logger,
			LoggingMiddleware(s.logger,
				MetricsMiddleware(h, endpoint))))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}

type createdResponse struct {
	ID uint64 `json:"id"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure translates a service error into its status and client body.
// Store detail stays in the server log.
func writeFailure(w http.ResponseWriter, err error) {
	switch errs.KindOf(err) {
	case errs.ErrValidation:
		writeError(w, http.StatusBadRequest, "bad_request", errs.Message(err))
	case errs.ErrNotFound:
		writeError(w, http.StatusNotFound, "not_found", errs.Message(err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", msgDatabaseError)
	}
}
