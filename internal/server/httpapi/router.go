package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pawmate/pawmate/internal/logging"
	"github.com/pawmate/pawmate/internal/server/llm"
	"github.com/pawmate/pawmate/internal/server/models"
	"github.com/pawmate/pawmate/internal/server/services"
)

// UserService is the account surface consumed by the handlers.
type UserService interface {
	Register(ctx context.Context, p services.RegisterParams) (*services.Account, *services.TokenPair, error)
	Login(ctx context.Context, login, password, clientIP string) (*models.User, *services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	VerifyEmail(ctx context.Context, token string) error
	GetAccount(ctx context.Context, userID string) (*services.Account, error)
	UpdateAccount(ctx context.Context, userID string, upd services.ProfileUpdate) (*services.Account, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, userID string) error
}

// AvatarService manages profile pictures via presigned URLs.
type AvatarService interface {
	BeginUpload(ctx context.Context, userID string) (*services.AvatarUpload, error)
	Confirm(ctx context.Context, userID, key string) error
	DownloadURL(ctx context.Context, userID string) (string, error)
	Remove(ctx context.Context, userID string) error
}

// ChatService is the pet conversation surface consumed by the handlers.
type ChatService interface {
	Chat(ctx context.Context, p services.ChatParams) (*llm.Reply, error)
	Messages(ctx context.Context, userID, sessionID string, limit int) ([]models.ChatMessage, error)
	Sessions(ctx context.Context, userID string) ([]models.SessionSummary, error)
	DeleteSession(ctx context.Context, userID, sessionID string) (int64, error)
	Statistics(ctx context.Context, userID string) (*models.ChatStatistics, error)
}

// LLMConfigService is the admin configuration surface.
type LLMConfigService interface {
	Create(ctx context.Context, cfg *models.LLMConfig) (*models.LLMConfig, error)
	Get(ctx context.Context, id string) (*models.LLMConfig, error)
	List(ctx context.Context) ([]models.LLMConfig, error)
	Update(ctx context.Context, cfg *models.LLMConfig) (*models.LLMConfig, error)
	Activate(ctx context.Context, id string) error
	Deactivate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// Handler carries the services behind the HTTP surface.
type Handler struct {
	users      UserService
	avatars    AvatarService
	chat       ChatService
	llmConfigs LLMConfigService
	logger     logging.Logger
	jwtSecret  []byte
}

func NewHandler(users UserService, avatars AvatarService, chat ChatService,
	llmConfigs LLMConfigService, logger logging.Logger, jwtSecret []byte) *Handler {
	return &Handler{
		users:      users,
		avatars:    avatars,
		chat:       chat,
		llmConfigs: llmConfigs,
		logger:     logger,
		jwtSecret:  jwtSecret,
	}
}

// Router builds the chi route tree.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			respondSuccess(w, http.StatusOK, "ok", nil)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.register)
			r.Post("/login", h.login)
			r.Post("/token/refresh", h.refreshToken)
			r.Get("/verify-email", h.verifyEmail)
			r.Get("/verify-email/{token}", h.verifyEmail)

			r.Group(func(r chi.Router) {
				r.Use(h.Authenticator)
				r.Post("/logout", h.logout)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(h.Authenticator)

			r.Get("/me", h.getMe)
			r.Put("/me", h.updateMe)
			r.Patch("/me", h.updateMe)
			r.Post("/change-password", h.changePassword)

			r.Post("/avatar", h.beginAvatarUpload)
			r.Post("/avatar/confirm", h.confirmAvatar)
			r.Delete("/avatar", h.removeAvatar)

			r.Group(func(r chi.Router) {
				r.Use(h.AdminOnly)
				r.Get("/", h.listUsers)
				r.Get("/{id}", h.getUser)
				r.Delete("/{id}", h.deleteUser)
			})
		})

		r.Route("/llm", func(r chi.Router) {
			r.Use(h.Authenticator)

			r.Post("/chat", h.petChat)
			r.Get("/messages", h.listMessages)
			r.Get("/sessions", h.listSessions)
			r.Delete("/sessions/{id}", h.deleteSession)
			r.Post("/sessions/{id}/clear", h.deleteSession)
			r.Get("/statistics", h.statistics)
		})

		r.Route("/llm-configs", func(r chi.Router) {
			r.Use(h.Authenticator)
			r.Use(h.AdminOnly)

			r.Post("/", h.createLLMConfig)
			r.Get("/", h.listLLMConfigs)
			r.Get("/{id}", h.getLLMConfig)
			r.Put("/{id}", h.updateLLMConfig)
			r.Delete("/{id}", h.deleteLLMConfig)
			r.Post("/{id}/activate", h.activateLLMConfig)
			r.Post("/{id}/deactivate", h.deactivateLLMConfig)
		})
	})

	return r
}
