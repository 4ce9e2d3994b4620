// Package llm talks to OpenAI-compatible chat completion endpoints. It covers
// both the pet conversation flow and the vision analysis of user snapshots.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Settings carries everything needed to reach a chat completion endpoint.
// Values come from the active admin configuration or from the environment.
type Settings struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

// Message is a single turn in the conversation sent to the model.
type Message struct {
	Role    string
	Content string
}

// ImageAnalysis is the model's verdict on a user snapshot: whether it shows
// a real face (and which emotion), and whether it shows a notable object.
type ImageAnalysis struct {
	HasFace           bool    `json:"has_face"`
	DetectedEmotion   string  `json:"detected_emotion"`
	EmotionConfidence float64 `json:"emotion_confidence"`
	EmotionAnalysis   string  `json:"emotion_analysis"`
	HasObjects        bool    `json:"has_objects"`
	ObjectDescription string  `json:"object_description"`
}

// Client abstracts the completion endpoint so services can be tested with a
// fake implementation.
type Client interface {
	Complete(ctx context.Context, s Settings, messages []Message) (string, error)
	AnalyzeImage(ctx context.Context, s Settings, imageData string) (*ImageAnalysis, error)
}

// OpenAIClient implements Client over github.com/sashabaranov/go-openai.
// A fresh API client is built per call because Settings may change between
// requests when the admin activates a different configuration.
type OpenAIClient struct{}

func NewOpenAIClient() *OpenAIClient {
	return &OpenAIClient{}
}

func (c *OpenAIClient) api(s Settings) *openai.Client {
	cfg := openai.DefaultConfig(s.APIKey)
	if s.BaseURL != "" {
		cfg.BaseURL = s.BaseURL
	}
	return openai.NewClientWithConfig(cfg)
}

func (c *OpenAIClient) Complete(ctx context.Context, s Settings, messages []Message) (string, error) {
	if s.APIKey == "" {
		return "", errors.New("llm: api key is not configured")
	}

	reqMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		reqMessages = append(reqMessages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.api(s).CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.Model,
		Messages:    reqMessages,
		MaxTokens:   s.MaxTokens,
		Temperature: float32(s.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("llm: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("llm: empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

const imageAnalysisPrompt = `You are an expert in microexpression analysis and visual recognition. Analyze this image.

**Tasks:**

1. **Face Detection**: Is there a clear, real human face? (not cartoon/sculpture)

2. **Emotion Analysis** (if face detected):
   - Primary emotion: neutral, happy, sad, angry, surprise, fear, disgust
   - Confidence level (0.0-1.0)
   - One-sentence analysis of facial expression (brief)

3. **Object Detection**: Identify main objects (food, toys, daily items, animals, etc.)

4. **Object Description**: ONE compact sentence (under 45 characters)

**Return Format (Pure JSON):**
{
  "has_face": true,
  "detected_emotion": "emotion_name",
  "emotion_confidence": 0.0,
  "emotion_analysis": "One sentence facial analysis",
  "has_objects": true,
  "object_description": "Compact, vivid description"
}

**Rules:**
- No face: set detected_emotion to "unknown", emotion_confidence to 0.0, emotion_analysis to ""
- No objects: set object_description to ""
- Object description must stay under 45 characters`

// AnalyzeImage sends the snapshot through the vision-capable completion API.
// imageData is a data URL or bare base64 string; it is never persisted.
func (c *OpenAIClient) AnalyzeImage(ctx context.Context, s Settings, imageData string) (*ImageAnalysis, error) {
	if s.APIKey == "" {
		return nil, errors.New("llm: api key is not configured")
	}

	dataURL := imageData
	if !strings.HasPrefix(dataURL, "data:") {
		dataURL = "data:image/jpeg;base64," + dataURL
	}

	resp, err := c.api(s).CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.Model,
		Temperature: float32(s.Temperature),
		Messages: []openai.ChatCompletionMessage{{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{
					Type: openai.ChatMessagePartTypeText,
					Text: imageAnalysisPrompt,
				},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    dataURL,
						Detail: openai.ImageURLDetailAuto,
					},
				},
			},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("llm: image analysis: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("llm: empty image analysis response")
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)
	analysis := &ImageAnalysis{DetectedEmotion: "unknown"}
	if err := json.Unmarshal([]byte(content), analysis); err != nil {
		return nil, fmt.Errorf("llm: image analysis decode: %w", err)
	}
	analysis.ObjectDescription = truncateRunes(analysis.ObjectDescription, 45)
	return analysis, nil
}

// truncateRunes caps s at n characters, counting runes so multi-byte text is
// not cut mid-character.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n]))
}

// stripCodeFence removes a surrounding markdown code fence if present.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}
