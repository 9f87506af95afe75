package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/helvik/itemd/pkg/registry"
)

// Server translates HTTP requests into registry operations. It owns no
// state beyond the wired repository; domain errors are mapped to statuses
// here and never escape as 500s.
type Server struct {
	store          registry.Repository
	serviceName    string
	requestTimeout time.Duration
}

// New wires a server around a repository.
func New(store registry.Repository, serviceName string, requestTimeout time.Duration) *Server {
	return &Server{
		store:          store,
		serviceName:    serviceName,
		requestTimeout: requestTimeout,
	}
}

// Router builds the HTTP routing tree with the standard middleware set.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)
	if s.requestTimeout > 0 {
		r.Use(timeoutMiddleware(s.requestTimeout))
	}

	r.Get("/", s.handleRoot)
	r.Get("/healthz", s.handleHealth)

	r.Route("/items", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/{itemID}", s.handleCreate)
		r.Get("/{itemID}", s.handleGet)
		r.Put("/{itemID}", s.handleUpdate)
		r.Delete("/{itemID}", s.handleDelete)
		r.Get("/{itemID}/events", s.handleEvents)
	})

	return r
}

type listResponse struct {
	Items []registry.Item `json:"items"`
	Total int             `json:"total"`
}

type eventsResponse struct {
	Events []registry.ItemEvent `json:"events"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Items     int    `json:"items"`
	Timestamp int64  `json:"timestamp"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{
		"message": fmt.Sprintf("%s running!", s.serviceName),
	}, http.StatusOK)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, healthResponse{
		Status:    "ok",
		Items:     s.store.Len(),
		Timestamp: time.Now().Unix(),
	}, http.StatusOK)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseItemID(w, r)
	if !ok {
		return
	}
	name, ok := requireName(w, r)
	if !ok {
		return
	}

	item, err := s.store.Create(id, name)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, item, http.StatusOK)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseItemID(w, r)
	if !ok {
		return
	}

	item, err := s.store.Get(id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, item, http.StatusOK)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseItemID(w, r)
	if !ok {
		return
	}
	name, ok := requireName(w, r)
	if !ok {
		return
	}

	item, err := s.store.Update(id, name)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, item, http.StatusOK)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseItemID(w, r)
	if !ok {
		return
	}

	if err := s.store.Delete(id); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, map[string]string{"message": "Deleted"}, http.StatusOK)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	items := s.store.List()
	respondJSON(w, listResponse{Items: items, Total: len(items)}, http.StatusOK)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	id, ok := parseItemID(w, r)
	if !ok {
		return
	}

	events, err := s.store.Events(id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, eventsResponse{Events: events}, http.StatusOK)
}

// parseItemID converts the path parameter into a typed identifier. Any
// value that fits int64 is accepted, including zero and negatives.
func parseItemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "itemID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid item id %q", raw))
		return 0, false
	}
	return id, true
}

// requireName extracts the name query parameter. The parameter must be
// present but may be empty.
func requireName(w http.ResponseWriter, r *http.Request) (string, bool) {
	values, ok := r.URL.Query()["name"]
	if !ok || len(values) == 0 {
		respondError(w, http.StatusBadRequest, "missing required query parameter: name")
		return "", false
	}
	return values[0], true
}

func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registry.ErrAlreadyExists):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, registry.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func respondJSON(w http.ResponseWriter, payload any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, map[string]string{"error": message}, status)
}

func timeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
