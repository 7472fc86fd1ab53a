package stt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const defaultLocalBaseURL = "http://localhost:8178"

type OpenAISTTConfig struct {
	APIKey  string
	BaseURL string // empty means api.openai.com
	Model   string // default: whisper-1
}

// OpenAISTT speaks the OpenAI audio transcription API. The same client
// serves OpenAI Whisper and a local whisper.cpp server.
type OpenAISTT struct {
	client *openai.Client
	model  string
	name   string
}

func NewOpenAISTT(cfg OpenAISTTConfig) *OpenAISTT {
	return newWhisperClient(cfg, "openai-whisper")
}

// NewLocalSTT targets a whisper.cpp server started with its OpenAI
// compatible endpoint, e.g. ./server -m models/ggml-base.bin --port 8178.
func NewLocalSTT(baseURL string) *OpenAISTT {
	if baseURL == "" {
		baseURL = defaultLocalBaseURL
	}
	return newWhisperClient(OpenAISTTConfig{BaseURL: baseURL}, "local-whisper")
}

func newWhisperClient(cfg OpenAISTTConfig, name string) *OpenAISTT {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	// Ten minute recordings can take a while to upload and decode.
	clientCfg.HTTPClient = &http.Client{Timeout: 5 * time.Minute}

	if cfg.Model == "" {
		cfg.Model = openai.Whisper1
	}
	return &OpenAISTT{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		name:   name,
	}
}

func (o *OpenAISTT) Name() string { return o.name }

func (o *OpenAISTT) Transcribe(ctx context.Context, req Request) (*Response, error) {
	if req.Audio == nil {
		return nil, errors.New("transcribe: no audio")
	}
	filename := req.Filename
	if filename == "" {
		filename = "recording.m4a"
	}

	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    o.model,
		FilePath: filename,
		Reader:   req.Audio,
		Language: req.Language,
		Prompt:   req.Prompt,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("%s transcription: %w", o.name, err)
	}

	return &Response{
		Text:     resp.Text,
		Language: resp.Language,
		Duration: resp.Duration,
	}, nil
}
