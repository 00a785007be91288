// Package web exposes the engine and store as a JSON HTTP API.
package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/lldeck/lldeck/internal/importer"
	"github.com/lldeck/lldeck/internal/srs"
	"github.com/lldeck/lldeck/internal/storage"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	db       *storage.DB
	engine   *srs.Engine
	importer *importer.Importer
	router   *http.ServeMux
	now      srs.Clock
	log      *slog.Logger
}

// NewServer creates and configures a new server. A nil clock falls back to
// time.Now; a nil logger discards events.
func NewServer(db *storage.DB, engine *srs.Engine, im *importer.Importer, clock srs.Clock, log *slog.Logger) *Server {
	if clock == nil {
		clock = time.Now
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		db:       db,
		engine:   engine,
		importer: im,
		router:   http.NewServeMux(),
		now:      clock,
		log:      log,
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// routes sets up the routing for the server.
func (s *Server) routes() {
	// Card actions. Guard failures come back 200 with outcome "noop" so
	// clients can retry blindly.
	s.router.HandleFunc("POST /cards/{id}/open", s.handleCardAction(s.engine.Open))
	s.router.HandleFunc("POST /cards/{id}/view-front", s.handleCardAction(s.engine.ViewFront))
	s.router.HandleFunc("POST /cards/{id}/view-back", s.handleCardAction(s.engine.ViewBack))
	s.router.HandleFunc("POST /cards/{id}/success", s.handleCardAction(s.engine.MarkSuccess))
	s.router.HandleFunc("POST /cards/{id}/fail", s.handleCardAction(s.engine.MarkFail))

	// Deck queries.
	s.router.HandleFunc("GET /decks/{id}/due", s.handleDeckCards(s.engine.DueCards))
	s.router.HandleFunc("GET /decks/{id}/new", s.handleDeckCards(s.engine.NewCards))
	s.router.HandleFunc("GET /decks/{id}/learning", s.handleDeckCards(s.engine.LearningCards))
	s.router.HandleFunc("GET /decks/{id}/queue", s.handleDeckCards(s.engine.DailyNewCards))
	s.router.HandleFunc("GET /decks/{id}/stats", s.handleDeckStats())

	// Deck management.
	s.router.HandleFunc("GET /decks", s.handleListDecks())
	s.router.HandleFunc("POST /decks", s.handleCreateDeck())
	s.router.HandleFunc("DELETE /decks/{id}", s.handleDeleteDeck())
	s.router.HandleFunc("POST /decks/{id}/template", s.handleTemplateFromDeck())

	// Templates and sharing.
	s.router.HandleFunc("GET /templates", s.handleListTemplates())
	s.router.HandleFunc("POST /templates/{id}/instantiate", s.handleInstantiate())
	s.router.HandleFunc("POST /templates/{id}/share", s.handleShareTemplate())

	// Profiles.
	s.router.HandleFunc("POST /profiles", s.handleCreateProfile())
	s.router.HandleFunc("GET /profiles/{id}", s.handleGetProfile())
	s.router.HandleFunc("PUT /profiles/{id}", s.handleUpdateProfile())

	// Template sources and imports.
	s.router.HandleFunc("GET /sources", s.handleListSources())
	s.router.HandleFunc("POST /sources", s.handleAddSource())
	s.router.HandleFunc("DELETE /sources/{id}", s.handleDeleteSource())
	s.router.HandleFunc("POST /import", s.handleImport())
}

// respond writes v as JSON with the given status.
func (s *Server) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("failed to encode response", "error", err)
	}
}

// fail maps an error onto a status: missing records are 404, everything
// else is a logged 500.
func (s *Server) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, srs.ErrNotFound) {
		s.respond(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	s.log.Error("request failed", "error", err)
	s.respond(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

// pathID parses the {id} path segment as a UUID.
func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue("id"))
}

func (s *Server) badRequest(w http.ResponseWriter, msg string) {
	s.respond(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
