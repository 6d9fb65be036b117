// Package httpd serves the three view surfaces over a local HTTP
// server: the inline slideshow, the fullscreen display, and the
// teleprompter. All three read and mutate one navigation index and
// stay in sync through a server-sent event stream.
package httpd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/k1LoW/podium"
	"github.com/k1LoW/podium/md"
)

// Server serves a single deck.
type Server struct {
	router  chi.Router
	logger  *slog.Logger
	preset  podium.SizePreset
	resolve podium.RefResolver

	mu      sync.RWMutex
	doc     *md.Doc
	nav     *podium.Navigator
	session *podium.FitSession

	hub *hub
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			return fmt.Errorf("logger is nil")
		}
		s.logger = logger
		return nil
	}
}

// WithPreset sets the size preset used by the rendered surfaces.
func WithPreset(p podium.SizePreset) Option {
	return func(s *Server) error {
		s.preset = p
		return nil
	}
}

// WithRefResolver sets the internal reference resolver.
func WithRefResolver(r podium.RefResolver) Option {
	return func(s *Server) error {
		s.resolve = r
		return nil
	}
}

// WithFitSession wires an auto-fit session; slide changes feed it and
// its results surface on /api/fit and the event stream.
func WithFitSession(session *podium.FitSession) Option {
	return func(s *Server) error {
		s.session = session
		return nil
	}
}

// NewServer creates a server over a parsed deck and its navigator.
func NewServer(doc *md.Doc, nav *podium.Navigator, opts ...Option) (*Server, error) {
	s := &Server{
		doc:    doc,
		nav:    nav,
		preset: podium.SizeM,
		logger: slog.New(slog.DiscardHandler),
		hub:    newHub(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))

	r.Get("/", s.handleSurface(surfaceSlideshow))
	r.Get("/fullscreen", s.handleSurface(surfaceFullscreen))
	r.Get("/teleprompter", s.handleSurface(surfaceTeleprompter))

	r.Get("/api/deck", s.handleDeck)
	r.Get("/api/slide", s.handleSlide)
	r.Get("/api/fit", s.handleFit)
	r.Post("/api/nav", s.handleNav)
	r.Post("/api/selection", s.handleSelection)
	r.Get("/api/events", s.handleEvents)

	s.router = r
}

// Reload swaps the deck after a source change and notifies every
// surface. The navigator clamps the restored index itself.
func (s *Server) Reload(ctx context.Context, doc *md.Doc, nav *podium.Navigator) {
	s.mu.Lock()
	s.doc = doc
	s.nav = nav
	s.mu.Unlock()
	if s.session != nil {
		// A search started against the old content must not commit.
		var active *podium.Slide
		number := nav.CurrentSlideNumber()
		for _, slide := range doc.Items.ToSlides() {
			if slide.Number == number {
				active = slide
				break
			}
		}
		s.session.SetSlide(ctx, active)
	}
	s.logger.Info("deck reloaded", slog.Int("items", len(doc.Items)))
	s.hub.broadcast(event{Type: "reload"})
}

type navRequest struct {
	Op    string `json:"op"`
	Arg   int    `json:"arg,omitempty"`
	Slide int    `json:"slide,omitempty"`
}

type navState struct {
	Index    int     `json:"index"`
	Slide    int     `json:"slide"`
	Progress float64 `json:"progress"`
}

func (s *Server) handleNav(w http.ResponseWriter, r *http.Request) {
	var req navRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request"}`, http.StatusBadRequest)
		return
	}
	s.mu.RLock()
	nav := s.nav
	s.mu.RUnlock()
	ctx := r.Context()
	var err error
	switch req.Op {
	case "nextItem":
		err = nav.NextItem(ctx)
	case "prevItem":
		err = nav.PrevItem(ctx)
	case "nextSlide":
		err = nav.NextSlide(ctx)
	case "prevSlide":
		err = nav.PrevSlide(ctx)
	case "goToItem":
		err = nav.GoToItem(ctx, req.Arg)
	case "goToSlide":
		err = nav.GoToSlide(ctx, req.Slide)
	default:
		http.Error(w, `{"error":"unknown op"}`, http.StatusBadRequest)
		return
	}
	if err != nil {
		// The local index has already moved; only the external cell
		// write failed. Surfaces still get the new state, the cell
		// catches up on the next write.
		s.logger.Warn("index store failed", slog.String("op", req.Op), slog.String("error", err.Error()))
	}
	state := navState{
		Index:    nav.CurrentIndex(),
		Slide:    nav.CurrentSlideNumber(),
		Progress: nav.Progress(),
	}
	if s.session != nil {
		s.feedSession(ctx, nav)
	}
	s.hub.broadcast(event{Type: "nav", Nav: &state})
	writeJSON(w, state)
}

// feedSession points the fit session at the active slide.
func (s *Server) feedSession(ctx context.Context, nav *podium.Navigator) {
	s.mu.RLock()
	doc := s.doc
	s.mu.RUnlock()
	number := nav.CurrentSlideNumber()
	for _, slide := range doc.Items.ToSlides() {
		if slide.Number == number {
			s.session.SetSlide(ctx, slide)
			return
		}
	}
}

func (s *Server) handleDeck(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	doc := s.doc
	nav := s.nav
	s.mu.RUnlock()
	writeJSON(w, map[string]any{
		"break_depth": doc.BreakDepth,
		"items":       doc.Items,
		"slides":      doc.Items.ToSlides(),
		"groups":      doc.Items.ToSlideGroups(),
		"nav": navState{
			Index:    nav.CurrentIndex(),
			Slide:    nav.CurrentSlideNumber(),
			Progress: nav.Progress(),
		},
	})
}

// handleSlide returns the rendered HTML fragment of the active slide.
func (s *Server) handleSlide(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	doc := s.doc
	nav := s.nav
	s.mu.RUnlock()
	number := nav.CurrentSlideNumber()
	scale := podium.MaxScale
	if s.session != nil {
		if result := s.session.Result(); result.Ready {
			scale = result.ScalePercent
		}
	}
	opts := podium.RenderOptions{Scale: scale, Preset: s.preset, Resolve: s.resolve}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	for _, slide := range doc.Items.ToSlides() {
		if slide.Number != number {
			continue
		}
		for _, block := range slide.Blocks {
			_, _ = w.Write([]byte(podium.RenderBlockHTML(block, opts)))
		}
		return
	}
}

func (s *Server) handleFit(w http.ResponseWriter, r *http.Request) {
	if s.session == nil {
		writeJSON(w, podium.FitResult{ScalePercent: podium.MaxScale, Ready: true})
		return
	}
	writeJSON(w, s.session.Result())
}

type selectionRequest struct {
	Line int    `json:"line"`
	Text string `json:"text"`
}

// handleSelection maps a teleprompter selection back to document
// offsets and broadcasts the range being read aloud.
func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request"}`, http.StatusBadRequest)
		return
	}
	s.mu.RLock()
	doc := s.doc
	s.mu.RUnlock()
	rng := podium.MapSelection(doc.Body, podium.Selection{Line: req.Line, Text: req.Text})
	if rng == nil {
		// Unlocatable selections clear the highlight, they are not
		// errors.
		s.hub.broadcast(event{Type: "selection"})
		writeJSON(w, map[string]any{"range": nil})
		return
	}
	s.hub.broadcast(event{Type: "selection", Selection: rng})
	writeJSON(w, map[string]any{"range": rng})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	id := uuid.New().String()
	ch := s.hub.subscribe(id)
	defer s.hub.unsubscribe(id)
	s.logger.Debug("viewer connected", slog.String("viewer", id))

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("viewer disconnected", slog.String("viewer", id))
			return
		case ev := <-ch:
			b, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", b)
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
