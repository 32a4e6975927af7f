// Package server exposes the polygon collection as a REST API.
package server

import (
	"errors"
	"net/http"
	"strconv"

	"zone-marker/internal/polygon"
	"zone-marker/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

// duplicateNameMessage is the rejection string clients key on to keep their
// draft alive; it must not change.
const duplicateNameMessage = "Polygon with this name already exists"

// Server holds the API dependencies.
type Server struct {
	store store.PolygonStore
	log   *logrus.Entry
}

// New creates an API server over the given store.
func New(st store.PolygonStore) *Server {
	return &Server{
		store: st,
		log:   logrus.WithField("component", "server"),
	}
}

// Router builds the chi router with CORS enabled for all routes.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api/polygons", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Delete("/{id}", s.handleDelete)
	})

	return r
}

type createRequest struct {
	Name   *string       `json:"name"`
	Points *[][2]float64 `json:"points"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	polygons, err := s.store.List(r.Context())
	if err != nil {
		s.log.WithError(err).Error("failed to fetch polygons")
		s.renderError(w, r, http.StatusInternalServerError, "Failed to fetch polygons")
		return
	}
	render.JSON(w, r, polygons)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "No data provided")
		return
	}
	if req.Name == nil {
		s.renderError(w, r, http.StatusBadRequest, "Name is required")
		return
	}
	if req.Points == nil {
		s.renderError(w, r, http.StatusBadRequest, "Points are required")
		return
	}

	name, err := polygon.ValidateName(*req.Name)
	if err != nil {
		s.renderError(w, r, http.StatusBadRequest, capitalizeValidation(err))
		return
	}
	if err := polygon.ValidatePoints(*req.Points); err != nil {
		s.renderError(w, r, http.StatusBadRequest, capitalizeValidation(err))
		return
	}

	id, err := s.store.Create(r.Context(), name, *req.Points)
	if err != nil {
		if errors.Is(err, store.ErrNameTaken) {
			s.renderError(w, r, http.StatusBadRequest, duplicateNameMessage)
			return
		}
		s.log.WithError(err).Error("failed to create polygon")
		s.renderError(w, r, http.StatusInternalServerError, "Failed to create polygon")
		return
	}

	s.log.WithFields(logrus.Fields{"id": id, "name": name}).Debug("create handled")
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, messageResponse{Message: "Polygon created successfully"})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Bad request")
		return
	}

	deleted, err := s.store.Delete(r.Context(), id)
	if err != nil {
		s.log.WithError(err).WithField("id", id).Error("failed to delete polygon")
		s.renderError(w, r, http.StatusInternalServerError, "Failed to delete polygon")
		return
	}
	if !deleted {
		s.renderError(w, r, http.StatusNotFound, "Polygon not found")
		return
	}

	render.JSON(w, r, messageResponse{Message: "Polygon deleted successfully"})
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: message})
}

// capitalizeValidation upper-cases the first letter of a validation error so
// the API messages read as sentences.
func capitalizeValidation(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}
	if msg[0] >= 'a' && msg[0] <= 'z' {
		return string(msg[0]-'a'+'A') + msg[1:]
	}
	return msg
}
