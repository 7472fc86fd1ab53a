package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/nikhilbhutani/voicediary/internal/diary"
	"github.com/nikhilbhutani/voicediary/internal/models"
	"github.com/nikhilbhutani/voicediary/internal/queue"
)

type EntryStore interface {
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.DiaryEntry, error)
	SaveInsight(ctx context.Context, id uuid.UUID, in diary.Insight) error
}

type Analyzer interface {
	Analyze(ctx context.Context, transcript, language string) (diary.Insight, error)
}

type InsightWorker struct {
	entries  EntryStore
	analyzer Analyzer
}

func NewInsightWorker(entries EntryStore, analyzer Analyzer) *InsightWorker {
	return &InsightWorker{
		entries:  entries,
		analyzer: analyzer,
	}
}

func (w *InsightWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.DiaryInsightPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	diaryID, err := uuid.Parse(payload.DiaryID)
	if err != nil {
		return fmt.Errorf("parse diary ID: %v: %w", err, asynq.SkipRetry)
	}
	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		return fmt.Errorf("parse user ID: %v: %w", err, asynq.SkipRetry)
	}

	entry, err := w.entries.GetByID(ctx, userID, diaryID)
	if errors.Is(err, diary.ErrNotFound) {
		slog.Warn("diary entry gone, dropping insight task", "diary_id", diaryID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load entry: %w", err)
	}
	if entry.Status == models.DiaryStatusReady {
		return nil
	}

	slog.Info("generating insight", "diary_id", diaryID)

	lang := payload.Language
	if lang == "" {
		lang = entry.Language
	}
	in, err := w.analyzer.Analyze(ctx, entry.Transcript, lang)
	if err != nil {
		return err
	}

	if err := w.entries.SaveInsight(ctx, diaryID, in); err != nil {
		return fmt.Errorf("save insight: %w", err)
	}

	slog.Info("insight generated", "diary_id", diaryID, "emotion", in.Emotion)
	return nil
}
