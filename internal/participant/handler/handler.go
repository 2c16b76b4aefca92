package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"golfbot/internal/participant/models"
	"golfbot/pkg/platform/httputil"
)

// Service defines the participant operations the routes need.
// Identifiers are passed through raw; the service owns parsing them.
type Service interface {
	Create(ctx context.Context, name string) (*models.Participant, error)
	List(ctx context.Context) ([]*models.Participant, error)
	Get(ctx context.Context, rawID string) (*models.Participant, error)
	Update(ctx context.Context, rawID string, patch models.Patch) (*models.Participant, error)
	Delete(ctx context.Context, rawID string) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the participant routes under /api/participants.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/participants", func(r chi.Router) {
		r.Get("/", httputil.Handle(h.logger, h.HandleList))
		r.Post("/", httputil.Handle(h.logger, h.HandleCreate))
		r.Get("/{id}", httputil.Handle(h.logger, h.HandleGet))
		r.Put("/{id}", httputil.Handle(h.logger, h.HandleUpdate))
		r.Delete("/{id}", httputil.Handle(h.logger, h.HandleDelete))
	})
}

// HandleCreate creates a participant from {"name": ...}.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) error {
	req, err := httputil.DecodeAndPrepare[CreateParticipantRequest](r)
	if err != nil {
		return err
	}
	p, err := h.service.Create(r.Context(), req.Name)
	if err != nil {
		return err
	}
	httputil.WriteJSON(w, http.StatusOK, toParticipantResponse(p))
	return nil
}

// HandleList returns every participant, [] when there are none.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) error {
	participants, err := h.service.List(r.Context())
	if err != nil {
		return err
	}
	httputil.WriteJSON(w, http.StatusOK, toParticipantResponses(participants))
	return nil
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) error {
	p, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	httputil.WriteJSON(w, http.StatusOK, toParticipantResponse(p))
	return nil
}

// HandleUpdate applies a partial update. Only fields present in the body change.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) error {
	req, err := httputil.DecodeAndPrepare[UpdateParticipantRequest](r)
	if err != nil {
		return err
	}
	p, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req.ToPatch())
	if err != nil {
		return err
	}
	httputil.WriteJSON(w, http.StatusOK, toParticipantResponse(p))
	return nil
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) error {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		return err
	}
	httputil.WriteJSON(w, http.StatusOK, &DeleteResponse{OK: true})
	return nil
}
