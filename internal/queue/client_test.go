package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/nikhilbhutani/voicediary/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDiaryInsightTask(t *testing.T) {
	payload := DiaryInsightPayload{DiaryID: "d-1", UserID: "u-1", Language: "English"}

	task, err := NewDiaryInsightTask(payload)
	require.NoError(t, err)
	assert.Equal(t, TypeDiaryInsight, task.Type())

	var got DiaryInsightPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &got))
	assert.Equal(t, payload, got)
}

func TestRedisOpt(t *testing.T) {
	opt := RedisOpt(config.RedisConfig{Addr: "redis:6379", Password: "pw", DB: 2})
	assert.Equal(t, "redis:6379", opt.Addr)
	assert.Equal(t, "pw", opt.Password)
	assert.Equal(t, 2, opt.DB)
}

func TestRegistryRoutesByType(t *testing.T) {
	var handled []string
	r := NewHandlersRegistry()
	r.Register(TypeDiaryInsight, asynq.HandlerFunc(func(_ context.Context, t *asynq.Task) error {
		handled = append(handled, t.Type())
		return nil
	}))

	task, err := NewDiaryInsightTask(DiaryInsightPayload{DiaryID: "d-1"})
	require.NoError(t, err)
	require.NoError(t, r.Mux().ProcessTask(context.Background(), task))
	assert.Equal(t, []string{TypeDiaryInsight}, handled)

	err = r.Mux().ProcessTask(context.Background(), asynq.NewTask("unknown:type", nil))
	assert.Error(t, err)
}

func TestRegistryPassesErrorsThrough(t *testing.T) {
	boom := errors.New("boom")
	r := NewHandlersRegistry()
	r.Register(TypeDiaryInsight, asynq.HandlerFunc(func(context.Context, *asynq.Task) error { return boom }))

	err := r.Mux().ProcessTask(context.Background(), asynq.NewTask(TypeDiaryInsight, nil))
	assert.ErrorIs(t, err, boom)
}
