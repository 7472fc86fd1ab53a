package stt

import (
	"context"
	"fmt"
	"io"

	"github.com/nikhilbhutani/voicediary/internal/config"
)

// Request holds one recording to transcribe.
type Request struct {
	// Filename names the multipart part; its extension hints the codec.
	Filename string
	Audio    io.Reader
	// Language is an optional ISO-639-1 hint.
	Language string
	Prompt   string
}

// Response holds the transcription result.
type Response struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
}

// Provider is the interface for speech-to-text backends.
type Provider interface {
	Transcribe(ctx context.Context, req Request) (*Response, error)
	Name() string
}

// NewProvider builds the backend selected by cfg.Backend.
func NewProvider(cfg config.STTConfig) (Provider, error) {
	switch cfg.Backend {
	case "", "openai":
		return NewOpenAISTT(OpenAISTTConfig{
			APIKey:  cfg.OpenAIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		}), nil
	case "local":
		return NewLocalSTT(cfg.LocalBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown STT backend %q", cfg.Backend)
	}
}

// LanguageHint maps a diary language tag to the code Whisper expects.
// Unknown tags return "" so the backend auto-detects.
func LanguageHint(tag string) string {
	switch tag {
	case "English":
		return "en"
	case "Chinese":
		return "zh"
	default:
		return ""
	}
}
