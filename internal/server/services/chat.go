package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pawmate/pawmate/internal/common"
	"github.com/pawmate/pawmate/internal/logging"
	"github.com/pawmate/pawmate/internal/server/config"
	"github.com/pawmate/pawmate/internal/server/llm"
	"github.com/pawmate/pawmate/internal/server/models"
	"github.com/pawmate/pawmate/internal/server/repositories/repomanager"
)

// DefaultSessionID groups messages of clients that do not manage sessions.
const DefaultSessionID = "default"

// Number of past turns included in the prompt, and the default page size of
// the message history endpoint.
const (
	promptHistoryLimit  = 5
	defaultMessageLimit = 50
)

// ChatParams is a single user turn sent to the pet.
type ChatParams struct {
	UserID    string
	Message   string
	SessionID string
	PetType   string
	ImageData string
	Health    *int
	Happiness *int
}

// ChatService runs the pet conversation flow: persist the user turn, build
// the persona prompt with recent history (plus vision context when the user
// sent a snapshot), call the model, and parse the structured reply.
type ChatService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	client      llm.Client
	petState    *llm.PetStateTracker
	logger      logging.Logger

	// env fallback when no admin configuration is active
	fallback llm.Settings
}

func NewChatService(db *sql.DB, m repomanager.RepositoryManager, client llm.Client, logger logging.Logger, cfg *config.Config) *ChatService {
	return &ChatService{
		db:          db,
		repomanager: m,
		client:      client,
		petState:    llm.NewPetStateTracker(),
		logger:      logger,
		fallback: llm.Settings{
			APIKey:  cfg.LLMAPIKey,
			BaseURL: cfg.LLMBaseURL,
			Model:   cfg.LLMModel,
		},
	}
}

// settings resolves the completion endpoint: the active admin configuration
// wins; without one the environment-provided fallback is used.
func (s *ChatService) settings(ctx context.Context) (llm.Settings, error) {
	cfg, err := s.repomanager.LLMConfigs(s.db).GetActive(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			if s.fallback.APIKey == "" {
				return llm.Settings{}, common.ErrorNoActiveLLMConfig
			}
			return s.fallback, nil
		}
		return llm.Settings{}, err
	}
	return llm.Settings{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.APIBase,
		Model:       cfg.ModelName,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}, nil
}

// Chat handles one user turn. The user message is always persisted, even
// when the model call fails; failures produce a placeholder reply with
// result=false instead of an error so the conversation UI stays usable.
func (s *ChatService) Chat(ctx context.Context, p ChatParams) (*llm.Reply, error) {
	if p.Message == "" {
		return nil, common.ErrorValidation
	}
	if p.SessionID == "" {
		p.SessionID = DefaultSessionID
	}

	messages := s.repomanager.ChatMessages(s.db)
	if _, err := messages.Create(ctx, &models.ChatMessage{
		UserID:    p.UserID,
		Role:      models.RoleUser,
		Content:   p.Message,
		SessionID: p.SessionID,
	}); err != nil {
		return nil, fmt.Errorf("error saving user message: %w", err)
	}

	state := s.petState.Seed(p.UserID, p.SessionID, p.Health, p.Happiness)

	settings, err := s.settings(ctx)
	if err != nil {
		return s.failureReply(state,
			"The pet is napping: no language model is configured. Ask an administrator to add one."), nil
	}

	reply := s.converse(ctx, p, state, settings)

	s.petState.Set(p.UserID, p.SessionID, reply.Health, reply.Mood)

	if _, err := messages.Create(ctx, &models.ChatMessage{
		UserID:    p.UserID,
		Role:      models.RoleAssistant,
		Content:   reply.Message,
		SessionID: p.SessionID,
	}); err != nil {
		s.logger.Warn(ctx, "assistant message not saved", "user_id", p.UserID, "error", err)
	}
	return reply, nil
}

// converse builds the prompt and calls the model, degrading to a placeholder
// reply on any failure.
func (s *ChatService) converse(ctx context.Context, p ChatParams, state llm.PetState, settings llm.Settings) *llm.Reply {
	var analysis *llm.ImageAnalysis
	if p.ImageData != "" {
		// Snapshot bytes stay in memory only: never persisted, never logged.
		a, err := s.client.AnalyzeImage(ctx, settings, p.ImageData)
		if err != nil {
			s.logger.Warn(ctx, "image analysis failed", "user_id", p.UserID, "error", err)
		} else {
			analysis = a
		}
	}

	prompt := []llm.Message{{Role: "system", Content: llm.SystemPrompt(p.PetType)}}

	if analysis != nil && analysis.HasFace && analysis.DetectedEmotion != "unknown" {
		prompt = append(prompt, llm.Message{Role: "system", Content: llm.EmotionContext(analysis)})
	}

	history, err := s.repomanager.ChatMessages(s.db).ListBySession(ctx, p.UserID, p.SessionID, promptHistoryLimit)
	if err != nil {
		s.logger.Warn(ctx, "history not loaded", "user_id", p.UserID, "error", err)
	}
	// history arrives newest first; the prompt wants chronological order.
	// The just-saved user turn is re-appended below, so skip it here.
	for i := len(history) - 1; i >= 0; i-- {
		if i == 0 && history[i].Role == models.RoleUser && history[i].Content == p.Message {
			continue
		}
		prompt = append(prompt, llm.Message{Role: history[i].Role, Content: history[i].Content})
	}

	userTurn := p.Message
	if analysis != nil && analysis.HasObjects && analysis.ObjectDescription != "" {
		userTurn += llm.ObjectContext(analysis.ObjectDescription)
	}
	prompt = append(prompt, llm.Message{Role: models.RoleUser, Content: userTurn})

	content, err := s.client.Complete(ctx, settings, prompt)
	if err != nil {
		s.logger.Error(ctx, "chat completion failed", "user_id", p.UserID, "error", err)
		return s.failureReply(state, "The pet could not reach its brain right now. Please try again in a moment.")
	}

	reply := llm.ParseReply(content, state.Health, state.Mood)
	if analysis != nil {
		if reply.FaceAnalyze == nil && analysis.HasFace && analysis.DetectedEmotion != "unknown" {
			reply.FaceAnalyze = &llm.FaceAnalysis{
				DetectedEmotion: analysis.DetectedEmotion,
				Confidence:      analysis.EmotionConfidence,
				Analysis:        analysis.EmotionAnalysis,
			}
		}
		if analysis.HasObjects {
			reply.DetectedObjects = analysis.ObjectDescription
		}
	}
	return reply
}

func (s *ChatService) failureReply(state llm.PetState, message string) *llm.Reply {
	return &llm.Reply{
		Result:  false,
		Message: message,
		Options: []string{"Try again", "Check configuration", "Take a break"},
		Health:  state.Health,
		Mood:    state.Mood,
	}
}

// Messages returns a page of chat history, newest first. With a session id
// it scopes to that session; without one it spans all of the user's sessions.
func (s *ChatService) Messages(ctx context.Context, userID, sessionID string, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = defaultMessageLimit
	}
	if sessionID == "" {
		return s.repomanager.ChatMessages(s.db).ListRecent(ctx, userID, limit)
	}
	return s.repomanager.ChatMessages(s.db).ListBySession(ctx, userID, sessionID, limit)
}

// Sessions lists the user's conversation sessions with previews.
func (s *ChatService) Sessions(ctx context.Context, userID string) ([]models.SessionSummary, error) {
	return s.repomanager.ChatMessages(s.db).ListSessions(ctx, userID)
}

// DeleteSession removes a session's history and forgets its pet state.
// Returns the number of deleted messages.
func (s *ChatService) DeleteSession(ctx context.Context, userID, sessionID string) (int64, error) {
	n, err := s.repomanager.ChatMessages(s.db).DeleteSession(ctx, userID, sessionID)
	if err != nil {
		return 0, err
	}
	s.petState.Forget(userID, sessionID)
	return n, nil
}

// Statistics returns the user's chat aggregates.
func (s *ChatService) Statistics(ctx context.Context, userID string) (*models.ChatStatistics, error) {
	return s.repomanager.ChatMessages(s.db).Statistics(ctx, userID)
}
