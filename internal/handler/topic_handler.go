package handler

import (
	"net/http"

	"algoarena/internal/logger"
	"algoarena/internal/middleware"
	"algoarena/internal/service"

	"github.com/go-chi/chi/v5"
)

// TopicHandler holds the dependencies for the topic handlers.
type TopicHandler struct {
	topics service.TopicServicer
	log    logger.Logger
}

// NewTopicHandler creates a new TopicHandler with the given dependencies.
func NewTopicHandler(ts service.TopicServicer, log logger.Logger) *TopicHandler {
	return &TopicHandler{topics: ts, log: log}
}

// listTopics returns the active topics ordered by display order.
func (h *TopicHandler) listTopics(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	topics, err := h.topics.ListTopics(r.Context(), true)
	if err != nil {
		return appError(err)
	}
	return respondJSON(w, http.StatusOK, topics)
}

// getTopic resolves a topic by ID or slug.
func (h *TopicHandler) getTopic(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	identifier := chi.URLParam(r, "identifier")
	topic, err := h.topics.GetTopic(r.Context(), identifier)
	if err != nil {
		return appError(err)
	}
	return respondJSON(w, http.StatusOK, topic)
}

// stats returns content totals.
func (h *TopicHandler) stats(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	stats, err := h.topics.Stats(r.Context())
	if err != nil {
		return appError(err)
	}
	return respondJSON(w, http.StatusOK, stats)
}

// adminListTopics returns all topics, inactive ones included.
func (h *TopicHandler) adminListTopics(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	topics, err := h.topics.ListTopics(r.Context(), false)
	if err != nil {
		return appError(err)
	}
	return respondJSON(w, http.StatusOK, topics)
}

func (h *TopicHandler) createTopic(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var input service.TopicInput
	if appErr := decodeJSON(r, &input); appErr != nil {
		return appErr
	}
	actor := middleware.GetUserInfo(r.Context()).Subject
	topic, err := h.topics.CreateTopic(r.Context(), input, actor)
	if err != nil {
		return appError(err)
	}
	return respondJSON(w, http.StatusCreated, topic)
}

func (h *TopicHandler) updateTopic(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var input service.TopicInput
	if appErr := decodeJSON(r, &input); appErr != nil {
		return appErr
	}
	actor := middleware.GetUserInfo(r.Context()).Subject
	topic, err := h.topics.UpdateTopic(r.Context(), chi.URLParam(r, "id"), input, actor)
	if err != nil {
		return appError(err)
	}
	return respondJSON(w, http.StatusOK, topic)
}

func (h *TopicHandler) deleteTopic(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.topics.DeleteTopic(r.Context(), chi.URLParam(r, "id")); err != nil {
		return appError(err)
	}
	return respondJSON(w, http.StatusNoContent, nil)
}
