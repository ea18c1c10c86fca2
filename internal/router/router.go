package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"healthguard-backend/internal/handlers"
	"healthguard-backend/internal/middleware"
)

type Deps struct {
	Chat        *handlers.ChatHandler
	Meta        *handlers.MetaHandler
	WebSocket   http.HandlerFunc
	Metrics     http.Handler
	FrontendURL string
	Logger      *zap.SugaredLogger
}

func New(d Deps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(d.FrontendURL))

	r.Get("/health", d.Meta.Health)
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/quick-actions", d.Meta.QuickActions)
		r.Get("/supported-formats", d.Meta.SupportedFormats)

		// ──── Session Routes ────
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", d.Chat.CreateSession)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", d.Chat.GetSession)
				r.Delete("/", d.Chat.DeleteSession)
				r.Post("/messages", d.Chat.SendMessage)
				r.Post("/messages/{messageID}/toggle", d.Chat.ToggleMessage)
				r.Post("/emergency", d.Chat.Emergency)

				// ──── Image Routes ────
				r.Post("/attachment", d.Chat.UploadAttachment)
				r.Delete("/attachment", d.Chat.RemoveAttachment)
				r.Post("/image", d.Chat.AnalyzeImage)
				r.Get("/previews/{attachmentID}", d.Chat.GetPreview)
			})
		})

		// ──── WebSocket ────
		if d.WebSocket != nil {
			r.Get("/ws", d.WebSocket)
		}
	})

	return r
}
