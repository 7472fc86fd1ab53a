package stt

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nikhilbhutani/voicediary/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func whisperServer(t *testing.T, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			http.NotFound(w, r)
			return
		}
		require.NoError(t, r.ParseMultipartForm(1<<20))
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"text":     "今天天气很好",
			"language": "chinese",
			"duration": 7.5,
		})
	}))
}

func TestOpenAISTTTranscribe(t *testing.T) {
	srv := whisperServer(t, func(r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		assert.Equal(t, "zh", r.FormValue("language"))
		assert.Equal(t, "verbose_json", r.FormValue("response_format"))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "clip.m4a", hdr.Filename)
		body, _ := io.ReadAll(f)
		assert.Equal(t, "fake-audio", string(body))
	})
	defer srv.Close()

	p := NewOpenAISTT(OpenAISTTConfig{APIKey: "sk-test", BaseURL: srv.URL})
	resp, err := p.Transcribe(context.Background(), Request{
		Filename: "clip.m4a",
		Audio:    strings.NewReader("fake-audio"),
		Language: "zh",
	})
	require.NoError(t, err)
	assert.Equal(t, "今天天气很好", resp.Text)
	assert.Equal(t, "chinese", resp.Language)
	assert.InDelta(t, 7.5, resp.Duration, 0.001)
}

func TestOpenAISTTRequiresAudio(t *testing.T) {
	p := NewOpenAISTT(OpenAISTTConfig{})
	_, err := p.Transcribe(context.Background(), Request{})
	assert.Error(t, err)
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(config.STTConfig{Backend: "openai", OpenAIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "openai-whisper", p.Name())

	p, err = NewProvider(config.STTConfig{Backend: "local"})
	require.NoError(t, err)
	assert.Equal(t, "local-whisper", p.Name())

	_, err = NewProvider(config.STTConfig{Backend: "deepgram"})
	assert.Error(t, err)
}

func TestLocalSTTUsesBaseURL(t *testing.T) {
	srv := whisperServer(t, nil)
	defer srv.Close()

	p := NewLocalSTT(srv.URL)
	assert.Equal(t, "local-whisper", p.Name())
	resp, err := p.Transcribe(context.Background(), Request{Audio: strings.NewReader("x")})
	require.NoError(t, err)
	assert.Equal(t, "今天天气很好", resp.Text)
}

func TestLanguageHint(t *testing.T) {
	assert.Equal(t, "en", LanguageHint("English"))
	assert.Equal(t, "zh", LanguageHint("Chinese"))
	assert.Equal(t, "", LanguageHint("Klingon"))
}
