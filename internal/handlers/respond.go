package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"healthguard-backend/internal/chat"
	"healthguard-backend/internal/middleware"
	"healthguard-backend/internal/models"
	"healthguard-backend/internal/repository"
	"healthguard-backend/internal/services"
	"healthguard-backend/internal/transcript"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return errorRespWithFields(code, message, nil, r)
}

func errorRespWithFields(code, message string, fields map[string]string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			Fields:    fields,
			RequestID: r.Header.Get(middleware.RequestIDHeader),
		},
	}
}

func parseUUIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Invalid identifier",
			map[string]string{name: "must be a UUID"}, r))
		return uuid.Nil, false
	}
	return id, true
}

// handleChatError maps domain errors to the API error envelope.
func handleChatError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *services.ValidationError
	switch {
	case errors.Is(err, chat.ErrEmptyInput):
		writeJSON(w, http.StatusBadRequest, errorResp("EMPTY_INPUT", "Type a question or attach an image", r))
	case errors.Is(err, chat.ErrNoAttachment):
		writeJSON(w, http.StatusBadRequest, errorResp("NO_ATTACHMENT", "No image is attached", r))
	case errors.Is(err, chat.ErrBusy):
		writeJSON(w, http.StatusConflict, errorResp("BUSY", "A request is already in progress", r))
	case errors.Is(err, chat.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorResp("SESSION_NOT_FOUND", "Session not found", r))
	case errors.Is(err, transcript.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Message not found", r))
	case errors.Is(err, repository.ErrPreviewNotFound):
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Preview not found", r))
	case errors.Is(err, transcript.ErrDuplicateID), errors.Is(err, transcript.ErrOutOfOrder):
		writeJSON(w, http.StatusConflict, errorResp("DUPLICATE_ID", "Message could not be recorded", r))
	case errors.As(err, &verr):
		status := http.StatusBadRequest
		switch verr.Code {
		case "FILE_TOO_LARGE":
			status = http.StatusRequestEntityTooLarge
		case "UNSUPPORTED_FORMAT":
			status = http.StatusUnsupportedMediaType
		}
		writeJSON(w, status, errorResp(verr.Code, verr.Message, r))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
	}
}
