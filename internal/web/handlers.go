package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/lldeck/lldeck/internal/domain"
	"github.com/lldeck/lldeck/internal/importer"
	"github.com/lldeck/lldeck/internal/srs"
)

// handleCardAction adapts an engine card action into a handler.
func (s *Server) handleCardAction(action func(uuid.UUID) (srs.Result, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.badRequest(w, "invalid card id")
			return
		}
		result, err := action(id)
		if err != nil {
			s.fail(w, err)
			return
		}
		s.respond(w, http.StatusOK, result)
	}
}

// handleDeckCards adapts an engine deck query into a handler.
func (s *Server) handleDeckCards(query func(uuid.UUID) ([]domain.Card, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.badRequest(w, "invalid deck id")
			return
		}
		cards, err := query(id)
		if err != nil {
			s.fail(w, err)
			return
		}
		if cards == nil {
			cards = []domain.Card{}
		}
		s.respond(w, http.StatusOK, cards)
	}
}

// handleDeckStats returns the deck's statistics for ?date=YYYY-MM-DD,
// defaulting to today.
func (s *Server) handleDeckStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.badRequest(w, "invalid deck id")
			return
		}
		day := s.now()
		if raw := r.URL.Query().Get("date"); raw != "" {
			day, err = time.ParseInLocation("2006-01-02", raw, time.UTC)
			if err != nil {
				s.badRequest(w, "invalid date, want YYYY-MM-DD")
				return
			}
		}
		if _, err := s.db.Deck(id); err != nil {
			s.fail(w, err)
			return
		}
		stats, err := s.engine.DailyStats(id, day)
		if err != nil {
			s.fail(w, err)
			return
		}
		s.respond(w, http.StatusOK, map[string]any{
			"deck_id":            stats.DeckID,
			"day":                stats.Day.Format("2006-01-02"),
			"seconds_gone":       stats.SecondsGone,
			"learned":            stats.LearnedCount(),
			"failed":             stats.FailedCount(),
			"failed_not_learned": stats.FailedNotLearnedCount(),
			"total_reviews":      stats.TotalReviews(),
		})
	}
}

func (s *Server) handleListDecks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, err := uuid.Parse(r.URL.Query().Get("profile"))
		if err != nil {
			s.badRequest(w, "missing or invalid profile parameter")
			return
		}
		decks, err := s.db.ProfileDecks(profileID)
		if err != nil {
			s.fail(w, err)
			return
		}
		s.respond(w, http.StatusOK, decks)
	}
}

func (s *Server) handleCreateDeck() http.HandlerFunc {
	type request struct {
		ProfileID uuid.UUID `json:"profile_id"`
		Name      string    `json:"name"`
		Tags      []string  `json:"tags"`
		Favorite  bool      `json:"favorite"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decode(r, &req); err != nil || req.Name == "" || req.ProfileID == uuid.Nil {
			s.badRequest(w, "profile_id and name are required")
			return
		}
		if _, err := s.db.Profile(req.ProfileID); err != nil {
			s.fail(w, err)
			return
		}
		deck := domain.Deck{
			ID:        uuid.New(),
			ProfileID: req.ProfileID,
			Name:      req.Name,
			Tags:      req.Tags,
			Favorite:  req.Favorite,
			Created:   s.now(),
		}
		if err := s.db.InsertDeck(deck); err != nil {
			s.badRequest(w, err.Error())
			return
		}
		created, err := s.db.Deck(deck.ID)
		if err != nil {
			s.fail(w, err)
			return
		}
		s.log.Info("deck created", "deck", deck.ID, "profile", req.ProfileID, "name", req.Name)
		s.respond(w, http.StatusCreated, created)
	}
}

func (s *Server) handleDeleteDeck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.badRequest(w, "invalid deck id")
			return
		}
		if _, err := s.db.Deck(id); err != nil {
			s.fail(w, err)
			return
		}
		if err := s.db.DeleteDeck(id); err != nil {
			s.fail(w, err)
			return
		}
		s.respond(w, http.StatusNoContent, nil)
	}
}

func (s *Server) handleTemplateFromDeck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.badRequest(w, "invalid deck id")
			return
		}
		template, err := s.db.TemplateFromDeck(id, s.now())
		if err != nil {
			s.fail(w, err)
			return
		}
		s.log.Info("template created from deck", "deck", id, "template", template.ID)
		s.respond(w, http.StatusCreated, template)
	}
}

func (s *Server) handleListTemplates() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, err := uuid.Parse(r.URL.Query().Get("profile"))
		if err != nil {
			s.badRequest(w, "missing or invalid profile parameter")
			return
		}
		templates, err := s.db.VisibleTemplates(profileID)
		if err != nil {
			s.fail(w, err)
			return
		}
		s.respond(w, http.StatusOK, templates)
	}
}

func (s *Server) handleInstantiate() http.HandlerFunc {
	type request struct {
		ProfileID uuid.UUID `json:"profile_id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.badRequest(w, "invalid template id")
			return
		}
		var req request
		if err := decode(r, &req); err != nil || req.ProfileID == uuid.Nil {
			s.badRequest(w, "profile_id is required")
			return
		}
		if _, err := s.db.Profile(req.ProfileID); err != nil {
			s.fail(w, err)
			return
		}
		deck, err := s.db.InstantiateTemplate(id, req.ProfileID, s.now())
		if err != nil {
			s.fail(w, err)
			return
		}
		s.log.Info("template instantiated", "template", id, "deck", deck.ID, "profile", req.ProfileID)
		s.respond(w, http.StatusCreated, deck)
	}
}

func (s *Server) handleShareTemplate() http.HandlerFunc {
	type request struct {
		ProfileID uuid.UUID `json:"profile_id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.badRequest(w, "invalid template id")
			return
		}
		var req request
		if err := decode(r, &req); err != nil || req.ProfileID == uuid.Nil {
			s.badRequest(w, "profile_id is required")
			return
		}
		if _, err := s.db.Template(id); err != nil {
			s.fail(w, err)
			return
		}
		if err := s.db.ShareTemplate(id, req.ProfileID); err != nil {
			s.fail(w, err)
			return
		}
		s.respond(w, http.StatusNoContent, nil)
	}
}

func (s *Server) handleCreateProfile() http.HandlerFunc {
	type request struct {
		Name string `json:"name"`
		Aim  int    `json:"aim"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decode(r, &req); err != nil || req.Name == "" {
			s.badRequest(w, "name is required")
			return
		}
		if req.Aim < 0 {
			s.badRequest(w, "aim must not be negative")
			return
		}
		profile := domain.Profile{
			ID:      uuid.New(),
			Name:    req.Name,
			Aim:     req.Aim,
			Private: true,
		}
		if err := s.db.InsertProfile(profile); err != nil {
			s.fail(w, err)
			return
		}
		s.respond(w, http.StatusCreated, profile)
	}
}

func (s *Server) handleGetProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.badRequest(w, "invalid profile id")
			return
		}
		profile, err := s.db.Profile(id)
		if err != nil {
			s.fail(w, err)
			return
		}
		s.respond(w, http.StatusOK, profile)
	}
}

func (s *Server) handleUpdateProfile() http.HandlerFunc {
	type request struct {
		Name    *string `json:"name"`
		Aim     *int    `json:"aim"`
		About   *string `json:"about"`
		Private *bool   `json:"private"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.badRequest(w, "invalid profile id")
			return
		}
		profile, err := s.db.Profile(id)
		if err != nil {
			s.fail(w, err)
			return
		}
		var req request
		if err := decode(r, &req); err != nil {
			s.badRequest(w, "invalid request body")
			return
		}
		if req.Name != nil {
			profile.Name = *req.Name
		}
		if req.Aim != nil {
			if *req.Aim < 0 {
				s.badRequest(w, "aim must not be negative")
				return
			}
			profile.Aim = *req.Aim
		}
		if req.About != nil {
			profile.About = *req.About
		}
		if req.Private != nil {
			profile.Private = *req.Private
		}
		if err := s.db.SaveProfile(profile); err != nil {
			s.fail(w, err)
			return
		}
		s.respond(w, http.StatusOK, profile)
	}
}

func (s *Server) handleListSources() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sources, err := s.db.Sources()
		if err != nil {
			s.fail(w, err)
			return
		}
		type item struct {
			ID   int64  `json:"id"`
			Path string `json:"path"`
			Kind string `json:"kind"`
		}
		out := []item{}
		for _, src := range sources {
			out = append(out, item{ID: src.ID, Path: src.Path, Kind: src.Kind})
		}
		s.respond(w, http.StatusOK, out)
	}
}

func (s *Server) handleAddSource() http.HandlerFunc {
	type request struct {
		Path string `json:"path"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decode(r, &req); err != nil || req.Path == "" {
			s.badRequest(w, "path is required")
			return
		}
		kind := importer.DetectKind(req.Path)
		id, err := s.db.InsertSource(req.Path, kind)
		if err != nil {
			s.fail(w, err)
			return
		}
		s.respond(w, http.StatusCreated, map[string]any{"id": id, "path": req.Path, "kind": kind})
	}
}

func (s *Server) handleDeleteSource() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			s.badRequest(w, "invalid source id")
			return
		}
		if err := s.db.DeleteSource(id); err != nil {
			s.fail(w, err)
			return
		}
		s.respond(w, http.StatusNoContent, nil)
	}
}

// handleImport runs a full source import in the foreground.
func (s *Server) handleImport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.importer.Run(); err != nil {
			s.fail(w, err)
			return
		}
		s.respond(w, http.StatusOK, map[string]string{"status": "imported"})
	}
}
