// Package insight asks an LLM to label a diary entry with an emotion and a
// short piece of feedback for the writer.
package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nikhilbhutani/voicediary/internal/diary"
	"github.com/nikhilbhutani/voicediary/internal/llm"
)

// DefaultEmotion is used when the model answers outside Emotions.
const DefaultEmotion = "Reflective"

// Emotions is the closed label set an entry can carry.
var Emotions = []string{
	"Joyful", "Grateful", "Proud", "Peaceful", "Reflective", "Intentional",
	"Inspired", "Down", "Anxious", "Venting", "Drained",
}

const systemPrompt = `You read personal voice diary entries and label the writer's mood.

Respond with ONLY a JSON object:
{"emotion": "<one of: %s>", "confidence": <0.0-1.0>, "rationale": "<one sentence>", "feedback": "<two or three warm, specific sentences to the writer>"}

Write rationale and feedback in %s. No markdown, no explanation outside the JSON.`

type Analyzer struct {
	gateway llm.Gateway
	model   string
}

// NewAnalyzer creates an Analyzer. An empty model uses the gateway default.
func NewAnalyzer(gw llm.Gateway, model string) *Analyzer {
	return &Analyzer{gateway: gw, model: model}
}

type rawInsight struct {
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale"`
	Feedback   string  `json:"feedback"`
}

// Analyze labels transcript. Gateway errors are returned; a reply that
// cannot be parsed yields the default emotion with no feedback.
func (a *Analyzer) Analyze(ctx context.Context, transcript, language string) (diary.Insight, error) {
	resp, err := a.gateway.Chat(ctx, llm.ChatRequest{
		Model: a.model,
		Messages: []llm.Message{
			{Role: "system", Content: fmt.Sprintf(systemPrompt, strings.Join(Emotions, ", "), feedbackLanguage(language))},
			{Role: "user", Content: transcript},
		},
		Temperature: 0.3,
		MaxTokens:   400,
		JSONMode:    true,
	})
	if err != nil {
		return diary.Insight{}, fmt.Errorf("analyze entry: %w", err)
	}

	return Parse(resp.Content), nil
}

// Parse turns a model reply into an Insight, tolerating code fences.
func Parse(content string) diary.Insight {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var raw rawInsight
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		slog.Warn("unparsable insight reply, using default", "error", err)
		return diary.Insight{Emotion: DefaultEmotion}
	}

	return diary.Insight{
		Emotion:    normalizeEmotion(raw.Emotion),
		Confidence: clamp(raw.Confidence),
		Rationale:  strings.TrimSpace(raw.Rationale),
		Feedback:   strings.TrimSpace(raw.Feedback),
	}
}

func normalizeEmotion(e string) string {
	e = strings.TrimSpace(e)
	for _, known := range Emotions {
		if strings.EqualFold(e, known) {
			return known
		}
	}
	return DefaultEmotion
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func feedbackLanguage(lang string) string {
	if lang == "English" {
		return "English"
	}
	return "Simplified Chinese"
}
