package models

import "time"

// Known LLM providers. Any OpenAI-compatible endpoint works through APIBase.
const (
	ProviderOpenAI    = "openai"
	ProviderAzure     = "azure"
	ProviderAnthropic = "anthropic"
	ProviderLocal     = "local"
	ProviderOther     = "other"
)

// LLMConfig is an admin-managed chat-completion configuration. At most one
// row is active by convention; the chat service uses the most recently
// updated active row.
type LLMConfig struct {
	ID          string
	Name        string
	Provider    string
	ModelName   string
	APIKey      string
	APIBase     string
	IsActive    bool
	MaxTokens   int
	Temperature float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
