package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/swimlane/pkg/buildinfo"
	"github.com/matzehuels/swimlane/pkg/diagram"
	errs "github.com/matzehuels/swimlane/pkg/errors"
	"github.com/matzehuels/swimlane/pkg/render/dot"
	"github.com/matzehuels/swimlane/pkg/session"
	"github.com/matzehuels/swimlane/pkg/store"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  buildinfo.Version,
		"sessions": s.sessions.Len(),
	})
}

// =============================================================================
// Diagrams
// =============================================================================

type diagramRequest struct {
	ID    string         `json:"id,omitempty"`
	Name  string         `json:"name,omitempty"`
	Graph *diagram.Graph `json:"graph"`
}

func (s *Server) listDiagrams(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) createDiagram(w http.ResponseWriter, r *http.Request) {
	var req diagramRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.ID == "" {
		req.ID = s.newID()
	}
	if req.Graph == nil {
		req.Graph = diagram.New()
	}
	doc := &store.Document{ID: req.ID, Name: req.Name, Graph: req.Graph}
	if err := s.store.Put(r.Context(), doc); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc.Summary())
}

func (s *Server) getDiagram(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) putDiagram(w http.ResponseWriter, r *http.Request) {
	var req diagramRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	if req.ID != "" && req.ID != id {
		s.writeError(w, errs.New(errs.ErrCodeInvalidInput, "body id %q does not match %q", req.ID, id))
		return
	}
	doc := &store.Document{ID: id, Name: req.Name, Graph: req.Graph}
	if err := s.store.Put(r.Context(), doc); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc.Summary())
}

func (s *Server) deleteDiagram(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// diagramDOT renders the stored diagram with Graphviz. Query flags lr and
// detailed map to [dot.Options].
func (s *Server) diagramDOT(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	q := r.URL.Query()
	lr, _ := strconv.ParseBool(q.Get("lr"))
	detailed, _ := strconv.ParseBool(q.Get("detailed"))

	svg, err := dot.RenderSVG(r.Context(), dot.ToDOT(doc.Graph, dot.Options{LeftToRight: lr, Detailed: detailed}))
	if err != nil {
		s.writeError(w, errs.Wrap(errs.ErrCodeInternal, err, "render diagram %s", doc.ID))
		return
	}
	writeSVG(w, svg)
}

// =============================================================================
// Sessions
// =============================================================================

type sessionResponse struct {
	ID        string           `json:"id"`
	DiagramID string           `json:"diagramId"`
	Snapshot  session.Snapshot `json:"snapshot"`
}

type eventsRequest struct {
	Events []session.Input `json:"events"`
}

type eventsError struct {
	errorBody
	Snapshot session.Snapshot `json:"snapshot"`
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(chi.URLParam(r, "sid"))
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) openSession(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	sess, err := s.sessions.Open(doc)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{
		ID:        sess.ID,
		DiagramID: sess.DiagramID,
		Snapshot:  sess.Snapshot(),
	})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		ID:        sess.ID,
		DiagramID: sess.DiagramID,
		Snapshot:  sess.Snapshot(),
	})
}

// postEvents applies a batch of input. When an input is rejected the inputs
// before it stay applied and the error body carries the snapshot.
func (s *Server) postEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req eventsRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	snap, err := sess.Apply(req.Events...)
	if err != nil {
		code := errs.GetCode(err)
		writeJSON(w, statusOf(code), eventsError{
			errorBody: errorBody{Code: code, Message: errs.UserMessage(err)},
			Snapshot:  snap,
		})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) sessionSVG(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeSVG(w, sess.SVG())
}

func (s *Server) saveSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	doc := sess.Document()
	if err := s.store.Put(r.Context(), doc); err != nil {
		s.writeError(w, err)
		return
	}
	sess.MarkSaved()
	writeJSON(w, http.StatusOK, doc.Summary())
}

func (s *Server) closeSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Close(chi.URLParam(r, "sid")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
