package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pawmate/pawmate/internal/server/llm"
	"github.com/pawmate/pawmate/internal/server/models"
	"github.com/pawmate/pawmate/internal/server/services"
)

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
	PetType   string `json:"pet_type"`
	ImageData string `json:"image_data"`
	Health    *int   `json:"health"`
	Happiness *int   `json:"happiness"`
}

type chatResponse struct {
	UserMessage     string            `json:"user_message"`
	AIResponse      string            `json:"ai_response"`
	Options         []string          `json:"options"`
	Health          int               `json:"health"`
	Mood            int               `json:"mood"`
	Result          bool              `json:"result"`
	SessionID       string            `json:"session_id"`
	PetType         string            `json:"pet_type,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	FaceAnalyze     *llm.FaceAnalysis `json:"face_analyze,omitempty"`
	DetectedObjects string            `json:"detected_objects,omitempty"`
}

func (h *Handler) petChat(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req chatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Message == "" {
		respondValidation(w, "validation failed", map[string]string{"message": "required"})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = services.DefaultSessionID
	}

	reply, err := h.chat.Chat(r.Context(), services.ChatParams{
		UserID:    userID,
		Message:   req.Message,
		SessionID: sessionID,
		PetType:   req.PetType,
		ImageData: req.ImageData,
		Health:    req.Health,
		Happiness: req.Happiness,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	// model failures still return 200 with reply.Result == false, so the
	// conversation UI can render the placeholder like any other turn
	respondSuccess(w, http.StatusOK, "", chatResponse{
		UserMessage:     req.Message,
		AIResponse:      reply.Message,
		Options:         reply.Options,
		Health:          reply.Health,
		Mood:            reply.Mood,
		Result:          reply.Result,
		SessionID:       sessionID,
		PetType:         req.PetType,
		CreatedAt:       time.Now().UTC(),
		FaceAnalyze:     reply.FaceAnalyze,
		DetectedObjects: reply.DetectedObjects,
	})
}

type messageDTO struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *Handler) listMessages(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondValidation(w, "validation failed", map[string]string{"limit": "expected a positive integer"})
			return
		}
		limit = n
	}

	msgs, err := h.chat.Messages(r.Context(), userID, r.URL.Query().Get("session_id"), limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	out := make([]messageDTO, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageDTO{
			ID: m.ID, Role: m.Role, Content: m.Content,
			SessionID: m.SessionID, CreatedAt: m.CreatedAt,
		})
	}
	respondSuccess(w, http.StatusOK, "", out)
}

type sessionDTO struct {
	SessionID       string    `json:"session_id"`
	MessageCount    int64     `json:"message_count"`
	LastMessageTime time.Time `json:"last_message_time"`
	Preview         string    `json:"preview"`
}

func (h *Handler) listSessions(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	sessions, err := h.chat.Sessions(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	out := make([]sessionDTO, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionDTO{
			SessionID:       s.SessionID,
			MessageCount:    s.MessageCount,
			LastMessageTime: s.LastMessageTime,
			Preview:         s.Preview,
		})
	}
	respondSuccess(w, http.StatusOK, "", out)
}

func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	n, err := h.chat.DeleteSession(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "session cleared", map[string]int64{"deleted": n})
}

type statisticsDTO struct {
	TotalSessions     int64      `json:"total_sessions"`
	TotalMessages     int64      `json:"total_messages"`
	UserMessages      int64      `json:"user_messages"`
	AssistantMessages int64      `json:"assistant_messages"`
	FirstChatAt       *time.Time `json:"first_chat_at"`
	LastChatAt        *time.Time `json:"last_chat_at"`
}

func statisticsResponse(s *models.ChatStatistics) statisticsDTO {
	return statisticsDTO{
		TotalSessions:     s.TotalSessions,
		TotalMessages:     s.TotalMessages,
		UserMessages:      s.UserMessages,
		AssistantMessages: s.AssistantMessages,
		FirstChatAt:       s.FirstChatAt,
		LastChatAt:        s.LastChatAt,
	}
}

func (h *Handler) statistics(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	stats, err := h.chat.Statistics(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "", statisticsResponse(stats))
}
