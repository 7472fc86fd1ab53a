package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/nikhilbhutani/voicediary/internal/config"
)

type Client struct {
	client *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		client: asynq.NewClient(RedisOpt(cfg)),
	}
}

// RedisOpt converts the shared Redis settings into asynq's connection option.
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) EnqueueDiaryInsight(ctx context.Context, payload DiaryInsightPayload) error {
	task, err := NewDiaryInsightTask(payload)
	if err != nil {
		return err
	}
	if _, err := c.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeDiaryInsight, err)
	}
	return nil
}

// NewDiaryInsightTask builds the insight task with its retry policy. The
// diary id doubles as the task id so a retried upload is not analysed twice.
func NewDiaryInsightTask(payload DiaryInsightPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return asynq.NewTask(TypeDiaryInsight, data,
		asynq.MaxRetry(3),
		asynq.Timeout(2*time.Minute),
		asynq.TaskID("insight:"+payload.DiaryID),
	), nil
}
