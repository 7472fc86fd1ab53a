package insight

import (
	"context"
	"errors"
	"testing"

	"github.com/nikhilbhutani/voicediary/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	content string
	err     error
	req     llm.ChatRequest
}

func (s *stubGateway) Chat(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	s.req = req
	if s.err != nil {
		return nil, s.err
	}
	return &llm.ChatResponse{Content: s.content}, nil
}

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		emotion    string
		confidence float64
		feedback   string
	}{
		{"plain", `{"emotion":"Grateful","confidence":0.8,"rationale":"r","feedback":"Nice."}`, "Grateful", 0.8, "Nice."},
		{"fenced", "```json\n{\"emotion\":\"anxious\",\"confidence\":0.4}\n```", "Anxious", 0.4, ""},
		{"unknown emotion", `{"emotion":"Furious","confidence":0.9}`, "Reflective", 0.9, ""},
		{"confidence above range", `{"emotion":"Proud","confidence":7}`, "Proud", 1, ""},
		{"confidence below range", `{"emotion":"Down","confidence":-0.2}`, "Down", 0, ""},
		{"not json", "I think they feel great", "Reflective", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.content)
			assert.Equal(t, tt.emotion, got.Emotion)
			assert.InDelta(t, tt.confidence, got.Confidence, 1e-9)
			assert.Equal(t, tt.feedback, got.Feedback)
		})
	}
}

func TestAnalyzePromptsInEntryLanguage(t *testing.T) {
	gw := &stubGateway{content: `{"emotion":"Peaceful","confidence":0.6,"rationale":"calm","feedback":"Enjoy it."}`}
	a := NewAnalyzer(gw, "gpt-4o-mini")

	got, err := a.Analyze(context.Background(), "Sat by the lake.", "English")
	require.NoError(t, err)
	assert.Equal(t, "Peaceful", got.Emotion)
	assert.Equal(t, "gpt-4o-mini", gw.req.Model)
	assert.True(t, gw.req.JSONMode)
	require.Len(t, gw.req.Messages, 2)
	assert.Contains(t, gw.req.Messages[0].Content, "Write rationale and feedback in English")
	assert.Equal(t, "Sat by the lake.", gw.req.Messages[1].Content)

	_, err = a.Analyze(context.Background(), "湖边坐了一下午。", "Chinese")
	require.NoError(t, err)
	assert.Contains(t, gw.req.Messages[0].Content, "Simplified Chinese")
}

func TestAnalyzeReturnsGatewayError(t *testing.T) {
	a := NewAnalyzer(&stubGateway{err: errors.New("timeout")}, "")
	_, err := a.Analyze(context.Background(), "text", "English")
	assert.ErrorContains(t, err, "timeout")
}
