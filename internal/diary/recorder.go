package diary

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nikhilbhutani/voicediary/internal/cache"
	"github.com/nikhilbhutani/voicediary/internal/models"
	"github.com/nikhilbhutani/voicediary/internal/quality"
	"github.com/nikhilbhutani/voicediary/internal/queue"
	"github.com/nikhilbhutani/voicediary/internal/storage"
	"github.com/nikhilbhutani/voicediary/internal/stt"
)

// ErrTranscription wraps failures of the speech-to-text backend.
var ErrTranscription = errors.New("transcription failed")

const transcriptTTL = 24 * time.Hour

type EntryStore interface {
	Create(ctx context.Context, in NewEntry) (*models.DiaryEntry, error)
}

type TranscriptCache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

type RejectionRecorder interface {
	Record(ctx context.Context, r models.GateRejection) error
}

type InsightEnqueuer interface {
	EnqueueDiaryInsight(ctx context.Context, payload queue.DiaryInsightPayload) error
}

// RecorderDeps wires the Recorder. Cache, Audit and Queue may be nil.
type RecorderDeps struct {
	Gate    *quality.Gate
	STT     stt.Provider
	Storage storage.Storage
	Bucket  string
	Entries EntryStore
	Cache   TranscriptCache
	Audit   RejectionRecorder
	Queue   InsightEnqueuer
}

// Recorder turns an uploaded recording into a stored diary entry, running
// both quality gates on the way.
type Recorder struct {
	deps RecorderDeps
}

func NewRecorder(deps RecorderDeps) *Recorder {
	if deps.Gate == nil {
		deps.Gate = quality.NewGate(quality.Thresholds{}, nil)
	}
	return &Recorder{deps: deps}
}

type VoiceInput struct {
	UserID          uuid.UUID
	Title           string
	Language        quality.Language
	DurationSeconds int
	Filename        string
	ContentType     string
	Audio           []byte
}

// SizeBytes is the size the audio gate judges.
func (in VoiceInput) SizeBytes() int64 { return int64(len(in.Audio)) }

type cachedTranscript struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Record validates, transcribes and stores a recording. Gate failures are
// returned as *quality.Rejection.
func (r *Recorder) Record(ctx context.Context, in VoiceInput) (*models.DiaryEntry, error) {
	if in.Language == "" {
		in.Language = quality.DefaultLanguage
	}

	if err := r.deps.Gate.ValidateAudio(in.DurationSeconds, in.SizeBytes(), in.Language); err != nil {
		r.audit(ctx, in.UserID, err, in.Language, &in.DurationSeconds, in.SizeBytes())
		return nil, err
	}

	text, err := r.transcribe(ctx, in)
	if err != nil {
		return nil, err
	}

	if err := r.deps.Gate.ValidateTranscript(text, &in.DurationSeconds); err != nil {
		r.audit(ctx, in.UserID, err, in.Language, &in.DurationSeconds, in.SizeBytes())
		return nil, err
	}

	entryID := uuid.New()
	path := storage.AudioPath(in.UserID, entryID, in.Filename)
	if err := r.deps.Storage.Upload(ctx, r.deps.Bucket, path, bytes.NewReader(in.Audio), in.ContentType); err != nil {
		return nil, fmt.Errorf("store audio: %w", err)
	}

	entry, err := r.deps.Entries.Create(ctx, NewEntry{
		ID:              entryID,
		UserID:          in.UserID,
		Title:           in.Title,
		Transcript:      text,
		Language:        string(in.Language),
		DurationSeconds: in.DurationSeconds,
		AudioSizeBytes:  in.SizeBytes(),
		AudioPath:       path,
	})
	if err != nil {
		if delErr := r.deps.Storage.Delete(context.WithoutCancel(ctx), r.deps.Bucket, path); delErr != nil {
			slog.Warn("failed to remove orphaned audio", "path", path, "error", delErr)
		}
		return nil, err
	}

	if r.deps.Queue != nil {
		payload := queue.DiaryInsightPayload{
			DiaryID:  entry.ID.String(),
			UserID:   entry.UserID.String(),
			Language: entry.Language,
		}
		if err := r.deps.Queue.EnqueueDiaryInsight(ctx, payload); err != nil {
			slog.Error("failed to enqueue insight", "diary_id", entry.ID, "error", err)
		}
	}

	slog.Info("diary entry recorded",
		"diary_id", entry.ID,
		"user_id", entry.UserID,
		"duration_seconds", entry.DurationSeconds,
	)
	return entry, nil
}

// ValidateText runs the transcript gate on text the client already has and
// returns its normalized length.
func (r *Recorder) ValidateText(ctx context.Context, userID uuid.UUID, transcript string, duration *int) (int, error) {
	if err := r.deps.Gate.ValidateTranscript(transcript, duration); err != nil {
		r.audit(ctx, userID, err, quality.DefaultLanguage, duration, -1)
		return 0, err
	}
	return quality.NormalizedLength(transcript), nil
}

func transcriptKey(audio []byte) string {
	sum := sha256.Sum256(audio)
	return "transcript:" + hex.EncodeToString(sum[:])
}

func (r *Recorder) transcribe(ctx context.Context, in VoiceInput) (string, error) {
	key := transcriptKey(in.Audio)
	if r.deps.Cache != nil {
		var cached cachedTranscript
		err := r.deps.Cache.Get(ctx, key, &cached)
		switch {
		case err == nil:
			slog.Debug("transcript cache hit", "key", key)
			return cached.Text, nil
		case !errors.Is(err, cache.ErrMiss):
			slog.Warn("transcript cache unavailable", "error", err)
		}
	}

	resp, err := r.deps.STT.Transcribe(ctx, stt.Request{
		Filename: in.Filename,
		Audio:    bytes.NewReader(in.Audio),
		Language: stt.LanguageHint(string(in.Language)),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrTranscription, r.deps.STT.Name(), err)
	}

	if r.deps.Cache != nil {
		val := cachedTranscript{Text: resp.Text, Language: resp.Language}
		if err := r.deps.Cache.Set(ctx, key, val, transcriptTTL); err != nil {
			slog.Warn("failed to cache transcript", "error", err)
		}
	}
	return resp.Text, nil
}

// audit records a gate rejection. size < 0 means no audio was involved.
func (r *Recorder) audit(ctx context.Context, userID uuid.UUID, err error, lang quality.Language, duration *int, size int64) {
	rej, ok := quality.AsRejection(err)
	if !ok || r.deps.Audit == nil {
		return
	}

	rec := models.GateRejection{
		ID:              uuid.New(),
		Kind:            string(rej.Kind),
		Language:        string(lang),
		DurationSeconds: duration,
		CreatedAt:       time.Now().UTC(),
	}
	if userID != uuid.Nil {
		rec.UserID = &userID
	}
	if size >= 0 {
		rec.AudioSizeBytes = &size
	}
	if err := r.deps.Audit.Record(ctx, rec); err != nil {
		slog.Error("failed to record gate rejection", "kind", rej.Kind, "error", err)
	}
}
