package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	bwerrors "github.com/matzehuels/brickwall/pkg/errors"
	bwio "github.com/matzehuels/brickwall/pkg/io"
	"github.com/matzehuels/brickwall/pkg/masonry"
	"github.com/matzehuels/brickwall/pkg/observability"
	"github.com/matzehuels/brickwall/pkg/store"
)

type createSessionRequest struct {
	Config    masonry.Config `json:"config"`
	Container masonry.Size   `json:"container"`
	Items     []masonry.Item `json:"items"`
}

type layoutRequest struct {
	Container masonry.Size   `json:"container"`
	Items     []masonry.Item `json:"items"`
}

// resizeRequest carries the new container size. Items, when present, replace
// the session's item list for the re-layout.
type resizeRequest struct {
	Container masonry.Size   `json:"container"`
	Items     []masonry.Item `json:"items,omitempty"`
}

type layoutResponse struct {
	SessionID string              `json:"session_id"`
	LayoutID  string              `json:"layout_id"`
	Layout    bwio.LayoutDocument `json:"layout"`
}

type resizeResponse struct {
	Changed  bool             `json:"changed"`
	Segments masonry.Segments `json:"segments"`
	Layout   *layoutResponse  `json:"layout,omitempty"`
}

type listResponse struct {
	Layouts []store.Document `json:"layouts"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.len(),
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	e := s.sessions.create(req.Config)
	e.mu.Lock()
	defer e.mu.Unlock()

	resp, err := s.layout(r, e, req.Container, req.Items)
	if err != nil {
		_ = s.sessions.remove(e.id)
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("created session", "session", e.id, "items", len(req.Items))
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	e, err := s.sessions.get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req layoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	resp, err := s.layout(r, e, req.Container, req.Items)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	e, err := s.sessions.get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req resizeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	container := s.container(req.Container)
	if err := validateContainer(container); err != nil {
		s.writeError(w, r, err)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	changed := e.session.ResizeChanged(container)
	observability.Pipeline().OnResizeCheck(r.Context(), e.id, changed)

	resp := resizeResponse{Changed: changed}
	if changed {
		items := req.Items
		if items == nil {
			items = e.items
		}
		lr, err := s.layout(r, e, container, items)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.Layout = &lr
	}
	resp.Segments = e.session.Segments()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.sessions.remove(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	n, err := s.store.DeleteSession(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("deleted session", "session", id, "layouts", n)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := bwerrors.ValidateSessionID(id); err != nil {
		s.writeError(w, r, err)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, bwerrors.New(bwerrors.ErrCodeInvalidInput, "limit must be a non-negative integer, got %q", v))
			return
		}
		limit = n
	}

	docs, err := s.store.List(r.Context(), id, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Layouts: docs})
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// layout runs a full pass on e and stores the result. The caller holds e.mu.
func (s *Server) layout(r *http.Request, e *entry, container masonry.Size, items []masonry.Item) (layoutResponse, error) {
	if items == nil {
		items = []masonry.Item{}
	}
	opts := s.defaults
	opts.Container = s.container(container)

	doc, err := s.runner.LayoutSession(r.Context(), e.session, items, opts)
	if err != nil {
		return layoutResponse{}, err
	}
	e.items = items

	saved, err := s.store.Save(r.Context(), store.Document{SessionID: e.id, Layout: doc})
	if err != nil {
		return layoutResponse{}, err
	}
	return layoutResponse{SessionID: e.id, LayoutID: saved.ID, Layout: doc}, nil
}

// container fills zero dimensions from the server defaults.
func (s *Server) container(c masonry.Size) masonry.Size {
	if c.Width == 0 {
		c.Width = s.defaults.Container.Width
	}
	if c.Height == 0 {
		c.Height = s.defaults.Container.Height
	}
	return c
}

func validateContainer(c masonry.Size) error {
	if err := bwerrors.ValidateDimension("container width", c.Width); err != nil {
		return err
	}
	return bwerrors.ValidateDimension("container height", c.Height)
}
