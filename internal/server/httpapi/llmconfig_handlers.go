package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pawmate/pawmate/internal/server/models"
	"github.com/pawmate/pawmate/internal/server/services"
)

type llmConfigRequest struct {
	Name        string  `json:"name"`
	Provider    string  `json:"provider"`
	ModelName   string  `json:"model_name"`
	APIKey      string  `json:"api_key"`
	APIBase     string  `json:"api_base"`
	IsActive    bool    `json:"is_active"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

type llmConfigDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Provider    string    `json:"provider"`
	ModelName   string    `json:"model_name"`
	APIKey      string    `json:"api_key"` // always masked
	APIBase     string    `json:"api_base"`
	IsActive    bool      `json:"is_active"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func llmConfigResponse(cfg *models.LLMConfig) llmConfigDTO {
	return llmConfigDTO{
		ID:          cfg.ID,
		Name:        cfg.Name,
		Provider:    cfg.Provider,
		ModelName:   cfg.ModelName,
		APIKey:      services.MaskAPIKey(cfg.APIKey),
		APIBase:     cfg.APIBase,
		IsActive:    cfg.IsActive,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		CreatedAt:   cfg.CreatedAt,
		UpdatedAt:   cfg.UpdatedAt,
	}
}

func (h *Handler) createLLMConfig(w http.ResponseWriter, r *http.Request) {
	var req llmConfigRequest
	if !decodeBody(w, r, &req) {
		return
	}

	created, err := h.llmConfigs.Create(r.Context(), &models.LLMConfig{
		Name:        req.Name,
		Provider:    req.Provider,
		ModelName:   req.ModelName,
		APIKey:      req.APIKey,
		APIBase:     req.APIBase,
		IsActive:    req.IsActive,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusCreated, "configuration created", llmConfigResponse(created))
}

func (h *Handler) listLLMConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := h.llmConfigs.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	out := make([]llmConfigDTO, 0, len(configs))
	for i := range configs {
		out = append(out, llmConfigResponse(&configs[i]))
	}
	respondSuccess(w, http.StatusOK, "", out)
}

func (h *Handler) getLLMConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.llmConfigs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "", llmConfigResponse(cfg))
}

func (h *Handler) updateLLMConfig(w http.ResponseWriter, r *http.Request) {
	var req llmConfigRequest
	if !decodeBody(w, r, &req) {
		return
	}

	updated, err := h.llmConfigs.Update(r.Context(), &models.LLMConfig{
		ID:          chi.URLParam(r, "id"),
		Name:        req.Name,
		Provider:    req.Provider,
		ModelName:   req.ModelName,
		APIKey:      req.APIKey,
		APIBase:     req.APIBase,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "configuration updated", llmConfigResponse(updated))
}

func (h *Handler) deleteLLMConfig(w http.ResponseWriter, r *http.Request) {
	if err := h.llmConfigs.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "configuration deleted", nil)
}

func (h *Handler) activateLLMConfig(w http.ResponseWriter, r *http.Request) {
	if err := h.llmConfigs.Activate(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "configuration activated", nil)
}

func (h *Handler) deactivateLLMConfig(w http.ResponseWriter, r *http.Request) {
	if err := h.llmConfigs.Deactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "configuration deactivated", nil)
}
