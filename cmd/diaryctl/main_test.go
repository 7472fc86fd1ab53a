package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nikhilbhutani/voicediary/internal/diary"
	"github.com/nikhilbhutani/voicediary/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DOTENV_PATH", t.TempDir()+"/none.env")
	for _, k := range []string{"GATE_MIN_DURATION_SECONDS", "GATE_MAX_DURATION_SECONDS", "GATE_MIN_AUDIO_BYTES", "GATE_MIN_TRANSCRIPT_CHARS", "GATE_MESSAGES_FILE"} {
		t.Setenv(k, "")
	}

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCheckAccepts(t *testing.T) {
	out, err := run(t, "check", "--duration", "30", "--size", "20000", "--transcript", "今天去了公园")
	require.NoError(t, err)
	assert.Contains(t, out, "audio: ok")
	assert.Contains(t, out, "transcript: ok (6 chars)")
}

func TestCheckAudioRejection(t *testing.T) {
	out, err := run(t, "check", "--duration", "3", "--size", "20000", "--lang", "English")
	assert.ErrorIs(t, err, errRejected)
	assert.Contains(t, out, "rejected: TOO_SHORT")
	assert.Contains(t, out, `"detail":"Recording too short.`)
}

func TestCheckTranscriptRejection(t *testing.T) {
	out, err := run(t, "check", "--duration", "30", "--size", "20000", "--transcript", "。。")
	assert.ErrorIs(t, err, errRejected)
	assert.Contains(t, out, `"code":"EMPTY_TRANSCRIPT"`)
}

func TestCheckRequiresFlags(t *testing.T) {
	_, err := run(t, "check", "--duration", "30")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, errRejected)
}

func TestNormalize(t *testing.T) {
	out, err := run(t, "normalize", "Hello,", "world!")
	require.NoError(t, err)
	assert.Equal(t, "Helloworld\nlength: 10\n", out)
}

func TestPrintCounts(t *testing.T) {
	d1 := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)
	stats := diary.SummarizeCounts([]models.DateCount{{Date: d2, Count: 2}, {Date: d1, Count: 1}})
	entry := models.DiaryEntry{ID: uuid.New(), Status: "ready", CreatedAt: d2}

	var out bytes.Buffer
	printCounts(&out, stats, []models.DiaryEntry{entry}, []models.DiaryEntry{entry})

	s := out.String()
	assert.Contains(t, s, "total entries: 3")
	assert.Contains(t, s, "earliest: 2025-03-14")
	assert.Contains(t, s, "latest:   2025-03-16")
	assert.Contains(t, s, "(untitled)")
}

func TestPrintCountsEmpty(t *testing.T) {
	var out bytes.Buffer
	printCounts(&out, diary.SummarizeCounts(nil), nil, nil)
	assert.Equal(t, "total entries: 0\n", out.String())
}
