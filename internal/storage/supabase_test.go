package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAudioPath(t *testing.T) {
	user := uuid.MustParse("14e83408-a0c1-70f4-7be4-bdfb32afd12b")
	entry := uuid.MustParse("00000000-0000-0000-0000-000000000001")

	assert.Equal(t, user.String()+"/"+entry.String()+".wav", AudioPath(user, entry, "Recording.WAV"))
	assert.Equal(t, user.String()+"/"+entry.String()+".m4a", AudioPath(user, entry, "blob"))
}

func TestSupabaseUploadAndDelete(t *testing.T) {
	var gotMethod, gotPath, gotAuth, gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		gotAuth, gotType = r.Header.Get("Authorization"), r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewSupabaseStorage(srv.URL+"/", "service-key")

	require.NoError(t, s.Upload(context.Background(), "diary-audio", "u/e.m4a", strings.NewReader("RIFF"), "audio/mp4"))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/storage/v1/object/diary-audio/u/e.m4a", gotPath)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "audio/mp4", gotType)
	assert.Equal(t, "RIFF", gotBody)

	require.NoError(t, s.Delete(context.Background(), "diary-audio", "u/e.m4a"))
	assert.Equal(t, http.MethodDelete, gotMethod)
}

func TestSupabaseUploadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bucket not found", http.StatusNotFound)
	}))
	defer srv.Close()

	s := NewSupabaseStorage(srv.URL, "k")
	err := s.Upload(context.Background(), "missing", "a.m4a", strings.NewReader("x"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "bucket not found")
}
