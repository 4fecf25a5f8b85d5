package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/loamenum/pkg/model"
)

type enumView struct {
	Name     string   `json:"name"`
	Field    string   `json:"field"`
	Constant string   `json:"constant"`
	Values   []string `json:"values"`
	Multiple bool     `json:"multiple"`
}

type modelView struct {
	Name       string     `json:"name"`
	Collection string     `json:"collection"`
	Enums      []enumView `json:"enums"`
}

type failureView struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type documentView struct {
	ID         string         `json:"id"`
	Attributes map[string]any `json:"attributes"`
	Valid      bool           `json:"valid"`
	Errors     []failureView  `json:"errors,omitempty"`
}

func failures(fs []model.Failure) []failureView {
	out := make([]failureView, len(fs))
	for i, f := range fs {
		out[i] = failureView{Field: f.Field, Message: f.Message}
	}
	return out
}

func viewDocument(d *model.Document) documentView {
	valid := d.Valid()
	return documentView{
		ID:         d.ID,
		Attributes: d.Core().Metadata,
		Valid:      valid,
		Errors:     failures(d.Errors()),
	}
}

func (s *Server) listModels(w http.ResponseWriter, r *http.Request) {
	out := []modelView{}
	for _, e := range s.registry.Entries() {
		mv := modelView{Name: e.Model.Name(), Collection: e.Model.Collection(), Enums: []enumView{}}
		for _, en := range e.Enums {
			values := make([]string, 0, len(en.Values()))
			for _, v := range en.Values() {
				values = append(values, string(v))
			}
			mv.Enums = append(mv.Enums, enumView{
				Name:     en.Name(),
				Field:    en.Field(),
				Constant: en.Constant(),
				Values:   values,
				Multiple: en.Multiple(),
			})
		}
		out = append(out, mv)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) describeModel(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, e.Model.State())
}

func (s *Server) applyScope(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	all, err := e.Model.All(r.Context(), s.repo)
	if err != nil {
		s.fail(w, err)
		return
	}
	scope := chi.URLParam(r, "scope")
	matched, err := all.Scope(scope)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"model": e.Model.Name(),
		"scope": scope,
		"ids":   matched.IDs(),
	})
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	doc, err := e.Model.Find(r.Context(), s.repo, chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewDocument(doc))
}

func (s *Server) bang(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	doc, err := e.Model.Find(r.Context(), s.repo, chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	member := chi.URLParam(r, "member")
	if err := doc.Bang(r.Context(), member); err != nil {
		s.fail(w, err)
		return
	}
	s.logger.Info("document updated", "model", e.Model.Name(), "id", doc.ID, "member", member)
	writeJSON(w, http.StatusOK, viewDocument(doc))
}
