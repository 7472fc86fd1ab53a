package workers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/nikhilbhutani/voicediary/internal/diary"
	"github.com/nikhilbhutani/voicediary/internal/models"
	"github.com/nikhilbhutani/voicediary/internal/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memEntries struct {
	entry *models.DiaryEntry
	saved map[uuid.UUID]diary.Insight
}

func (m *memEntries) GetByID(_ context.Context, userID, id uuid.UUID) (*models.DiaryEntry, error) {
	if m.entry == nil || m.entry.ID != id || m.entry.UserID != userID {
		return nil, diary.ErrNotFound
	}
	return m.entry, nil
}

func (m *memEntries) SaveInsight(_ context.Context, id uuid.UUID, in diary.Insight) error {
	if m.saved == nil {
		m.saved = make(map[uuid.UUID]diary.Insight)
	}
	m.saved[id] = in
	return nil
}

type stubAnalyzer struct {
	insight diary.Insight
	err     error
	lang    string
}

func (s *stubAnalyzer) Analyze(_ context.Context, _, language string) (diary.Insight, error) {
	s.lang = language
	return s.insight, s.err
}

func insightTask(t *testing.T, p queue.DiaryInsightPayload) *asynq.Task {
	t.Helper()
	data, err := json.Marshal(p)
	require.NoError(t, err)
	return asynq.NewTask(queue.TypeDiaryInsight, data)
}

func pendingEntry() *models.DiaryEntry {
	return &models.DiaryEntry{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		Transcript: "Finished the marathon.",
		Language:   "English",
		Status:     models.DiaryStatusPendingInsight,
	}
}

func TestInsightWorkerSavesInsight(t *testing.T) {
	e := pendingEntry()
	store := &memEntries{entry: e}
	analyzer := &stubAnalyzer{insight: diary.Insight{Emotion: "Proud", Confidence: 0.9}}
	w := NewInsightWorker(store, analyzer)

	err := w.ProcessTask(context.Background(), insightTask(t, queue.DiaryInsightPayload{
		DiaryID: e.ID.String(),
		UserID:  e.UserID.String(),
	}))
	require.NoError(t, err)
	assert.Equal(t, "Proud", store.saved[e.ID].Emotion)
	assert.Equal(t, "English", analyzer.lang)
}

func TestInsightWorkerAnalyzerErrorRetries(t *testing.T) {
	e := pendingEntry()
	store := &memEntries{entry: e}
	w := NewInsightWorker(store, &stubAnalyzer{err: errors.New("rate limited")})

	err := w.ProcessTask(context.Background(), insightTask(t, queue.DiaryInsightPayload{
		DiaryID: e.ID.String(),
		UserID:  e.UserID.String(),
	}))
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
	assert.Empty(t, store.saved)
}

func TestInsightWorkerBadPayloadSkipsRetry(t *testing.T) {
	w := NewInsightWorker(&memEntries{}, &stubAnalyzer{})

	err := w.ProcessTask(context.Background(), asynq.NewTask(queue.TypeDiaryInsight, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = w.ProcessTask(context.Background(), insightTask(t, queue.DiaryInsightPayload{DiaryID: "nope"}))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestInsightWorkerMissingOrReadyEntry(t *testing.T) {
	analyzer := &stubAnalyzer{insight: diary.Insight{Emotion: "Joyful"}}
	store := &memEntries{}
	w := NewInsightWorker(store, analyzer)

	err := w.ProcessTask(context.Background(), insightTask(t, queue.DiaryInsightPayload{
		DiaryID: uuid.NewString(),
		UserID:  uuid.NewString(),
	}))
	require.NoError(t, err)

	e := pendingEntry()
	e.Status = models.DiaryStatusReady
	store.entry = e
	err = w.ProcessTask(context.Background(), insightTask(t, queue.DiaryInsightPayload{
		DiaryID: e.ID.String(),
		UserID:  e.UserID.String(),
	}))
	require.NoError(t, err)
	assert.Empty(t, store.saved)
}
