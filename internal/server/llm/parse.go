package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

// DefaultOptions is offered when the model does not suggest follow-ups.
var DefaultOptions = []string{"Continue chatting", "Change the topic", "Take a break"}

var (
	fencedJSONRe = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")
	bareJSONRe   = regexp.MustCompile(`(?s)\{[^{}]*"message"[^{}]*\}`)
)

// FaceAnalysis mirrors the optional face_analyze block in the model's reply.
type FaceAnalysis struct {
	DetectedEmotion string  `json:"detected_emotion"`
	Confidence      float64 `json:"confidence"`
	Analysis        string  `json:"analysis"`
}

// Reply is the structured pet answer sent back to the client.
type Reply struct {
	Result          bool          `json:"result"`
	Message         string        `json:"message"`
	Options         []string      `json:"options"`
	Health          int           `json:"health"`
	Mood            int           `json:"mood"`
	FaceAnalyze     *FaceAnalysis `json:"face_analyze,omitempty"`
	DetectedObjects string        `json:"detected_objects,omitempty"`
}

// rawReply lets us tell absent health/mood fields apart from zero values.
type rawReply struct {
	Result  *bool         `json:"result"`
	Message string        `json:"message"`
	Options []string      `json:"options"`
	Health  *int          `json:"health"`
	Mood    *int          `json:"mood"`
	Face    *FaceAnalysis `json:"face_analyze"`
}

// Clamp bounds a pet attribute to the 0-100 scale.
func Clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ParseReply extracts the structured reply from raw model output. Models do
// not always honor the JSON-only instruction, so it tries a fenced ```json
// block first, then a bare object containing a "message" key, then the whole
// content. Anything unparseable becomes a plain-text reply with default
// options and the pet attributes left as they were.
func ParseReply(content string, health, mood int) *Reply {
	jsonStr := content
	if m := fencedJSONRe.FindStringSubmatch(content); m != nil {
		jsonStr = m[1]
	} else if m := bareJSONRe.FindString(content); m != "" {
		jsonStr = m
	}

	var raw rawReply
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return &Reply{
			Result:  true,
			Message: strings.TrimSpace(content),
			Options: DefaultOptions,
			Health:  health,
			Mood:    mood,
		}
	}

	reply := &Reply{
		Result:      true,
		Message:     raw.Message,
		Options:     raw.Options,
		Health:      health,
		Mood:        mood,
		FaceAnalyze: raw.Face,
	}
	if raw.Result != nil {
		reply.Result = *raw.Result
	}
	if reply.Message == "" {
		reply.Message = strings.TrimSpace(content)
	}
	if len(reply.Options) == 0 {
		reply.Options = DefaultOptions
	}
	if raw.Health != nil {
		reply.Health = Clamp(*raw.Health)
	}
	if raw.Mood != nil {
		reply.Mood = Clamp(*raw.Mood)
	}
	return reply
}
