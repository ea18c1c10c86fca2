package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"healthguard-backend/internal/chat"
	"healthguard-backend/internal/services"
)

const healthCheckTimeout = 2 * time.Second

type MetaHandler struct {
	provider      string
	maxUploadSize int64
	checks        map[string]func(context.Context) error
}

func NewMetaHandler(provider string, maxUploadSize int64) *MetaHandler {
	return &MetaHandler{
		provider:      provider,
		maxUploadSize: maxUploadSize,
		checks:        make(map[string]func(context.Context) error),
	}
}

// AddCheck registers a dependency reported by Health.
func (h *MetaHandler) AddCheck(name string, check func(context.Context) error) {
	h.checks[name] = check
}

func (h *MetaHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{
		"status":   "ok",
		"provider": h.provider,
	}
	status := http.StatusOK

	for name, check := range h.checks {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		err := check(ctx)
		cancel()
		if err != nil {
			resp[name] = "unavailable"
			resp["status"] = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp[name] = "ok"
	}
	writeJSON(w, status, resp)
}

func (h *MetaHandler) QuickActions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"actions": chat.QuickActions,
	})
}

func (h *MetaHandler) SupportedFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"formats":        services.SupportedImageFormats,
		"max_size_bytes": h.maxUploadSize,
		"max_size":       humanize.Bytes(uint64(h.maxUploadSize)),
	})
}
