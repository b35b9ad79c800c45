// Package sandbox runs a self-contained fake Ahmes backend on localhost.
// It speaks the same REST surface as the real server against an in-memory
// demo inbox, so the CLI (and the command chat in particular) can be tried
// without an account or a running backend.
package sandbox

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/ahmes-app/ahmes/internal/api"
)

type Server struct {
	store      *store
	httpServer *http.Server
	port       int
}

func NewServer(port int) *Server {
	return &Server{store: newStore(), port: port}
}

// Router builds the full route tree. Exposed separately from Start so
// tests can mount it on httptest.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/auth/me", s.handleMe)

			r.Get("/emails/", s.handleListEmails)
			r.Get("/emails/stats/summary", s.handleEmailStats)
			r.Get("/emails/{emailID}", s.handleGetEmail)

			r.Post("/suggestions/{suggestionID}/action", s.handleSuggestionAction)
			r.Post("/suggestions/{suggestionID}/send", s.handleSuggestionSend)
			r.Post("/suggestions/{suggestionID}/refine", s.handleSuggestionRefine)

			r.Get("/templates/", s.handleListTemplates)
			r.Post("/templates/", s.handleCreateTemplate)
			r.Put("/templates/{templateID}", s.handleUpdateTemplate)
			r.Delete("/templates/{templateID}", s.handleDeleteTemplate)

			r.Get("/knowledge/", s.handleListKnowledge)
			r.Post("/knowledge/", s.handleCreateKnowledge)
			r.Put("/knowledge/{entryID}", s.handleUpdateKnowledge)
			r.Delete("/knowledge/{entryID}", s.handleDeleteKnowledge)

			r.Get("/webhooks/accounts", s.handleListAccounts)
			r.Delete("/webhooks/accounts/{accountID}", s.handleDisconnectAccount)
			r.Get("/webhooks/gmail/connect", s.handleConnect("gmail"))
			r.Get("/webhooks/outlook/connect", s.handleConnect("outlook"))

			r.Post("/chat", s.handleChat)
		})
	})

	return r
}

// Start serves on localhost until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("sandbox server error: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// BaseURL is what the CLI should use as its server URL.
func (s *Server) BaseURL() string {
	return fmt.Sprintf("http://localhost:%d/api", s.port)
}

func newToken() string {
	b := make([]byte, 24)
	rand.Read(b)
	return hex.EncodeToString(b)
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		s.store.mu.Lock()
		_, valid := s.store.tokens[token]
		s.store.mu.Unlock()
		if !valid {
			writeDetail(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeDetail mirrors the backend's error envelope.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid request body")
		return false
	}
	return true
}

// urlUUID parses a uuid path parameter, writing a 422 on garbage.
func urlUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func parseFilter(r *http.Request) api.EmailFilter {
	q := r.URL.Query()
	filter := api.EmailFilter{
		Category: q.Get("category"),
		Urgency:  q.Get("urgency"),
	}
	if v := q.Get("is_read"); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			filter.IsRead = &b
		}
	}
	filter.Skip, _ = strconv.Atoi(q.Get("skip"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	return filter
}
