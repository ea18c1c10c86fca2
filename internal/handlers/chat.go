package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthguard-backend/internal/chat"
	"healthguard-backend/internal/models"
	"healthguard-backend/internal/render"
	"healthguard-backend/internal/repository"
	"healthguard-backend/internal/services"
)

// multipartOverhead is allowed on top of the upload limit for form framing.
const multipartOverhead = 1 << 20

type ChatHandler struct {
	sessions      *chat.Manager
	previews      repository.PreviewRepo
	maxUploadSize int64
	logger        *zap.SugaredLogger
}

func NewChatHandler(sessions *chat.Manager, previews repository.PreviewRepo, maxUploadSize int64, logger *zap.SugaredLogger) *ChatHandler {
	return &ChatHandler{
		sessions:      sessions,
		previews:      previews,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

func (h *ChatHandler) session(w http.ResponseWriter, r *http.Request) (*chat.Session, bool) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return nil, false
	}
	s, err := h.sessions.Get(id)
	if err != nil {
		handleChatError(w, r, err)
		return nil, false
	}
	return s, true
}

func sessionResponse(s *chat.Session) models.SessionResponse {
	resp := models.SessionResponse{
		SessionID: s.ID,
		Messages:  render.ViewAll(s.Store().All()),
		State:     s.Coordinator.State(),
	}
	if ref, ok := s.Coordinator.PendingAttachment(); ok {
		resp.Attachment = &ref
	}
	return resp
}

func exchangeResponse(s *chat.Session, ex chat.Exchange) models.ChatResponse {
	return models.ChatResponse{
		Messages: []models.MessageView{render.View(ex.User), render.View(ex.Assistant)},
		State:    s.Coordinator.State(),
	}
}

func (h *ChatHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Create()
	writeJSON(w, http.StatusCreated, sessionResponse(s))
}

func (h *ChatHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(s))
}

func (h *ChatHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.sessions.Close(id); err != nil {
		handleChatError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SendMessage is the send button: with an attachment pending the message is
// the image description.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	ex, err := s.Coordinator.Send(r.Context(), req.Message)
	if err != nil {
		handleChatError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exchangeResponse(s, ex))
}

func (h *ChatHandler) AnalyzeImage(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req models.ImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	ex, err := s.Coordinator.SendPendingImage(r.Context(), req.Description)
	if err != nil {
		handleChatError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exchangeResponse(s, ex))
}

func (h *ChatHandler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	if r.ContentLength > h.maxUploadSize+multipartOverhead {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE",
			fmt.Sprintf("File size exceeds %s limit", humanize.Bytes(uint64(h.maxUploadSize))), r))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "No file provided", r))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadSize+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Failed to read file", r))
		return
	}

	mimeType, err := services.ValidateImage(data, header.Filename, h.maxUploadSize)
	if err != nil {
		handleChatError(w, r, err)
		return
	}

	id := uuid.New()
	if err := h.previews.Put(r.Context(), id, repository.Preview{MIMEType: mimeType, Data: data}); err != nil {
		h.logger.Errorw("Failed to store preview", "session", s.ID, "attachment", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store image", r))
		return
	}

	previewURL := fmt.Sprintf("/api/v1/sessions/%s/previews/%s", s.ID, id)
	att := chat.NewAttachment(id, header.Filename, mimeType, data, previewURL, h.revokePreview(s.ID, id))
	if err := s.Coordinator.Attach(att); err != nil {
		att.Release()
		handleChatError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, models.AttachmentResponse{
		Attachment: att.Ref(),
		SizeHuman:  humanize.Bytes(uint64(len(data))),
	})
}

func (h *ChatHandler) revokePreview(sessionID, id uuid.UUID) func() {
	return func() {
		if err := h.previews.Delete(context.Background(), id); err != nil {
			h.logger.Warnw("Failed to revoke preview", "session", sessionID, "attachment", id, "error", err)
		}
	}
}

func (h *ChatHandler) RemoveAttachment(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.Coordinator.RemoveAttachment(); err != nil {
		handleChatError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChatHandler) GetPreview(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.session(w, r); !ok {
		return
	}
	id, ok := parseUUIDParam(w, r, "attachmentID")
	if !ok {
		return
	}

	p, err := h.previews.Get(r.Context(), id)
	if err != nil {
		if !errors.Is(err, repository.ErrPreviewNotFound) {
			h.logger.Errorw("Failed to load preview", "attachment", id, "error", err)
		}
		handleChatError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", p.MIMEType)
	w.Header().Set("Cache-Control", "private, no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(p.Data)
}

func (h *ChatHandler) ToggleMessage(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	messageID, ok := parseUUIDParam(w, r, "messageID")
	if !ok {
		return
	}

	msg, err := s.Coordinator.ToggleExpanded(messageID)
	if err != nil {
		handleChatError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, render.View(msg))
}

func (h *ChatHandler) Emergency(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	msg, err := s.Coordinator.AppendEmergencyGuidance()
	if err != nil {
		handleChatError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, render.View(msg))
}
