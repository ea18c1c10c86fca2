package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"healthguard-backend/internal/chat"
	"healthguard-backend/internal/handlers"
	"healthguard-backend/internal/metrics"
	"healthguard-backend/internal/models"
	"healthguard-backend/internal/repository"
	"healthguard-backend/internal/services"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := zap.NewNop().Sugar()
	m := metrics.New()
	offline := services.NewOfflineServiceWithPicker(func(int) int { return 0 })
	mgr := chat.NewManager(offline, logger, chat.ManagerConfig{SeedWelcome: true, Recorder: m})
	m.RegisterSessions(mgr.Len)

	srv := httptest.NewServer(New(Deps{
		Chat:        handlers.NewChatHandler(mgr, repository.NewMemoryPreviewRepo(time.Hour), 1<<20, logger),
		Meta:        handlers.NewMetaHandler("offline", 1<<20),
		Metrics:     m.Handler(),
		FrontendURL: "http://localhost:3000",
		Logger:      logger,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRouter_ChatFlow(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/sessions", "application/json", nil)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}
	var session models.SessionResponse
	json.NewDecoder(resp.Body).Decode(&session)
	if len(session.Messages) != 1 || session.Messages[0].Body != chat.WelcomeMessage {
		t.Fatalf("Expected welcome message, got %+v", session.Messages)
	}

	resp, err = http.Post(srv.URL+"/api/v1/sessions/"+session.SessionID.String()+"/messages",
		"application/json", strings.NewReader(`{"message":"I have a headache"}`))
	if err != nil {
		t.Fatalf("send message: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Errorf("Expected X-Request-ID response header")
	}
	var chatResp models.ChatResponse
	json.NewDecoder(resp.Body).Decode(&chatResp)
	if len(chatResp.Messages) != 2 || chatResp.Messages[1].Author != models.AuthorAssistant {
		t.Errorf("Unexpected exchange %+v", chatResp.Messages)
	}
}

func TestRouter_Routes(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/v1/quick-actions", http.StatusOK},
		{http.MethodGet, "/api/v1/supported-formats", http.StatusOK},
		{http.MethodGet, "/api/v1/sessions/00000000-0000-0000-0000-000000000000", http.StatusNotFound},
		{http.MethodGet, "/api/v1/sessions/bogus", http.StatusBadRequest},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req, _ := http.NewRequestWithContext(context.Background(), tc.method, srv.URL+tc.path, nil)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tc.want {
				t.Errorf("Expected status %d, got %d", tc.want, resp.StatusCode)
			}
		})
	}
}
