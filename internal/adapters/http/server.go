// Package http exposes the maestro operations as a JSON API. Routes are
// hand-written on chi; the adapter owns nothing but request decoding and
// error-to-status mapping.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/macrokit/maestro/pkg/domain"
)

// Service is the slice of the maestro client the HTTP adapter needs.
type Service interface {
	ListMacros(ctx context.Context) ([]domain.MacroRecord, error)
	SearchMacros(ctx context.Context, query string) ([]domain.MacroRecord, error)
	GetMacro(ctx context.Context, identifier string) (domain.MacroRecord, error)
	GetMacroDefinition(ctx context.Context, identifier string) (string, error)
	DeleteMacro(ctx context.Context, identifier string) (string, error)
	DuplicateMacro(ctx context.Context, identifier, newName string) (string, error)
	SetMacroEnable(ctx context.Context, identifier string, enabled bool) (string, error)
	ExecuteMacro(ctx context.Context, identifier, parameter string) (string, error)
	ListGroups(ctx context.Context) ([]domain.GroupRecord, error)
	CreateGroup(ctx context.Context, name string) (string, error)
	DeleteGroup(ctx context.Context, identifier string) (string, error)
	SetGroupEnable(ctx context.Context, identifier string, enabled bool) (string, error)
	ListActions(ctx context.Context, macro string) ([]domain.ActionRecord, error)
	GetAction(ctx context.Context, macro string, index int) (string, error)
	AddAction(ctx context.Context, macro, payload string) (string, error)
	SetAction(ctx context.Context, macro string, index int, payload string) (string, error)
	DeleteAction(ctx context.Context, macro string, index int) (string, error)
	MoveAction(ctx context.Context, macro string, index, dest int) (string, error)
	SearchReplaceAction(ctx context.Context, macro string, index int, search, replace string) (string, error)
	ListTriggers(ctx context.Context, macro string) ([]domain.TriggerRecord, error)
	GetTrigger(ctx context.Context, macro string, index int) (string, error)
	AddTrigger(ctx context.Context, macro, payload string) (string, error)
	SetTrigger(ctx context.Context, macro string, index int, payload string) (string, error)
	DeleteTrigger(ctx context.Context, macro string, index int) (string, error)
	MoveTrigger(ctx context.Context, macro string, index, dest int) (string, error)
	InvalidateListings(ctx context.Context) error
}

// CreateMacroFn decouples the adapter from the facade's options struct.
type CreateMacroFn func(ctx context.Context, name, payload, group string) (string, error)

// Server routes JSON requests to the service.
type Server struct {
	svc    Service
	create CreateMacroFn
}

// NewHandler builds the HTTP handler, including /metrics.
func NewHandler(svc Service, create CreateMacroFn) http.Handler {
	s := &Server{svc: svc, create: create}
	r := chi.NewRouter()

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/macros", func(r chi.Router) {
		r.Get("/", s.listMacros)
		r.Post("/", s.createMacro)
		r.Get("/search", s.searchMacros)
		r.Route("/{identifier}", func(r chi.Router) {
			r.Get("/", s.getMacro)
			r.Delete("/", s.deleteMacro)
			r.Get("/definition", s.getMacroDefinition)
			r.Post("/duplicate", s.duplicateMacro)
			r.Post("/enable", s.setMacroEnable)
			r.Post("/execute", s.executeMacro)
			r.Route("/actions", func(r chi.Router) {
				r.Get("/", s.listActions)
				r.Post("/", s.addAction)
				r.Route("/{index}", func(r chi.Router) {
					r.Get("/", s.getAction)
					r.Put("/", s.setAction)
					r.Delete("/", s.deleteAction)
					r.Post("/move", s.moveAction)
					r.Post("/replace", s.searchReplaceAction)
				})
			})
			r.Route("/triggers", func(r chi.Router) {
				r.Get("/", s.listTriggers)
				r.Post("/", s.addTrigger)
				r.Route("/{index}", func(r chi.Router) {
					r.Get("/", s.getTrigger)
					r.Put("/", s.setTrigger)
					r.Delete("/", s.deleteTrigger)
					r.Post("/move", s.moveTrigger)
				})
			})
		})
	})

	r.Route("/groups", func(r chi.Router) {
		r.Get("/", s.listGroups)
		r.Post("/", s.createGroup)
		r.Delete("/{identifier}", s.deleteGroup)
		r.Post("/{identifier}/enable", s.setGroupEnable)
	})

	r.Post("/cache/invalidate", s.invalidateListings)

	return r
}

func (s *Server) listMacros(w http.ResponseWriter, r *http.Request) {
	macros, err := s.svc.ListMacros(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if macros == nil {
		macros = []domain.MacroRecord{}
	}
	writeJSON(w, http.StatusOK, macros)
}

func (s *Server) searchMacros(w http.ResponseWriter, r *http.Request) {
	macros, err := s.svc.SearchMacros(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	if macros == nil {
		macros = []domain.MacroRecord{}
	}
	writeJSON(w, http.StatusOK, macros)
}

func (s *Server) getMacro(w http.ResponseWriter, r *http.Request) {
	rec, err := s.svc.GetMacro(r.Context(), chi.URLParam(r, "identifier"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) getMacroDefinition(w http.ResponseWriter, r *http.Request) {
	xml, err := s.svc.GetMacroDefinition(r.Context(), chi.URLParam(r, "identifier"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(xml))
}

func (s *Server) createMacro(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name    string `json:"name"`
		Payload string `json:"payload"`
		Group   string `json:"group"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	confirm, err := s.create(r.Context(), body.Name, body.Payload, body.Group)
	if err != nil {
		writeError(w, err)
		return
	}
	writeConfirmation(w, http.StatusCreated, confirm)
}

func (s *Server) duplicateMacro(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	confirm, err := s.svc.DuplicateMacro(r.Context(), chi.URLParam(r, "identifier"), body.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeConfirmation(w, http.StatusCreated, confirm)
}

func (s *Server) deleteMacro(w http.ResponseWriter, r *http.Request) {
	s.confirm(w, r, func(ctx context.Context) (string, error) {
		return s.svc.DeleteMacro(ctx, chi.URLParam(r, "identifier"))
	})
}

func (s *Server) setMacroEnable(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Enabled bool `json:"enabled"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	s.confirm(w, r, func(ctx context.Context) (string, error) {
		return s.svc.SetMacroEnable(ctx, chi.URLParam(r, "identifier"), body.Enabled)
	})
}

func (s *Server) executeMacro(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Parameter string `json:"parameter"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	s.confirm(w, r, func(ctx context.Context) (string, error) {
		return s.svc.ExecuteMacro(ctx, chi.URLParam(r, "identifier"), body.Parameter)
	})
}

func (s *Server) listGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.svc.ListGroups(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if groups == nil {
		groups = []domain.GroupRecord{}
	}
	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) createGroup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	confirm, err := s.svc.CreateGroup(r.Context(), body.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeConfirmation(w, http.StatusCreated, confirm)
}

func (s *Server) deleteGroup(w http.ResponseWriter, r *http.Request) {
	s.confirm(w, r, func(ctx context.Context) (string, error) {
		return s.svc.DeleteGroup(ctx, chi.URLParam(r, "identifier"))
	})
}

func (s *Server) setGroupEnable(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Enabled bool `json:"enabled"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	s.confirm(w, r, func(ctx context.Context) (string, error) {
		return s.svc.SetGroupEnable(ctx, chi.URLParam(r, "identifier"), body.Enabled)
	})
}

func (s *Server) listActions(w http.ResponseWriter, r *http.Request) {
	actions, err := s.svc.ListActions(r.Context(), chi.URLParam(r, "identifier"))
	if err != nil {
		writeError(w, err)
		return
	}
	if actions == nil {
		actions = []domain.ActionRecord{}
	}
	writeJSON(w, http.StatusOK, actions)
}

func (s *Server) getAction(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	xml, err := s.svc.GetAction(r.Context(), chi.URLParam(r, "identifier"), index)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(xml))
}

func (s *Server) addAction(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Payload string `json:"payload"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	s.confirm(w, r, func(ctx context.Context) (string, error) {
		return s.svc.AddAction(ctx, chi.URLParam(r, "identifier"), body.Payload)
	})
}

func (s *Server) setAction(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	var body struct {
		Payload string `json:"payload"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	s.confirm(w, r, func(ctx context.Context) (string, error) {
		return s.svc.SetAction(ctx, chi.URLParam(r, "identifier"), index, body.Payload)
	})
}

func (s *Server) deleteAction(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	s.confirm(w, r, func(ctx context.Context) (string, error) {
		return s.svc.DeleteAction(ctx, chi.URLParam(r, "identifier"), index)
	})
}

func (s *Server) moveAction(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	var body struct {
		To int `json:"to"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	s.confirm(w, r, func(ctx context.Context) (string, error) {
		return s.svc.MoveAction(ctx, chi.URLParam(r, "identifier"), index, body.To)
	})
}

func (s *Server) searchReplaceAction(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	var body struct {
		Search  string `json:"search"`
		Replace string `json:"replace"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	s.confirm(w, r, func(ctx context.Context) (string, error) {
		return s.svc.SearchReplaceAction(ctx, chi.URLParam(r, "identifier"), index, body.Search, body.Replace)
	})
}

func (s *Server) listTriggers(w http.ResponseWriter, r *http.Request) {
	triggers, err := s.svc.ListTriggers(r.Context(), chi.URLParam(r, "identifier"))
	if err != nil {
		writeError(w, err)
		return
	}
	if triggers == nil {
		triggers = []domain.TriggerRecord{}
	}
	writeJSON(w, http.StatusOK, triggers)
}

func (s *Server) getTrigger(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	xml, err := s.svc.GetTrigger(r.Context(), chi.URLParam(r, "identifier"), index)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(xml))
}

func (s *Server) addTrigger(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Payload string `json:"payload"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	s.confirm(w, r, func(ctx context.Context) (string, error) {
		return s.svc.AddTrigger(ctx, chi.URLParam(r, "identifier"), body.Payload)
	})
}

func (s *Server) setTrigger(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	var body struct {
		Payload string `json:"payload"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	s.confirm(w, r, func(ctx context.Context) (string, error) {
		return s.svc.SetTrigger(ctx, chi.URLParam(r, "identifier"), index, body.Payload)
	})
}

func (s *Server) deleteTrigger(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	s.confirm(w, r, func(ctx context.Context) (string, error) {
		return s.svc.DeleteTrigger(ctx, chi.URLParam(r, "identifier"), index)
	})
}

func (s *Server) moveTrigger(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	var body struct {
		To int `json:"to"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	s.confirm(w, r, func(ctx context.Context) (string, error) {
		return s.svc.MoveTrigger(ctx, chi.URLParam(r, "identifier"), index, body.To)
	})
}

func (s *Server) invalidateListings(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.InvalidateListings(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeConfirmation(w, http.StatusOK, "Listings invalidated")
}

func (s *Server) confirm(w http.ResponseWriter, r *http.Request, op func(context.Context) (string, error)) {
	confirmation, err := op(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeConfirmation(w, http.StatusOK, confirmation)
}

func indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "index must be an integer", http.StatusBadRequest)
		return 0, false
	}
	return index, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeConfirmation(w http.ResponseWriter, status int, confirmation string) {
	writeJSON(w, status, map[string]string{"confirmation": confirmation})
}

// writeError maps the error taxonomy onto HTTP statuses: resolution
// failures are 404, caller mistakes 400, engine rejections 502 (the
// upstream refused), transport failures 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidIndex), errors.Is(err, domain.ErrEmptyPayload):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case domain.IsEngineError(err):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
