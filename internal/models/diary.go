package models

import (
	"time"

	"github.com/google/uuid"
)

type DiaryEntry struct {
	ID              uuid.UUID `json:"id" db:"id"`
	UserID          uuid.UUID `json:"user_id" db:"user_id"`
	Title           string    `json:"title" db:"title"`
	Transcript      string    `json:"transcript" db:"transcript"`
	Language        string    `json:"language" db:"language"`
	DurationSeconds int       `json:"duration_seconds" db:"duration_seconds"`
	AudioSizeBytes  int64     `json:"audio_size_bytes" db:"audio_size_bytes"`
	AudioPath       string    `json:"audio_path,omitempty" db:"audio_path"`
	Status          string    `json:"status" db:"status"`
	Emotion         string    `json:"emotion,omitempty" db:"emotion"`
	EmotionScore    float64   `json:"emotion_confidence,omitempty" db:"emotion_confidence"`
	Rationale       string    `json:"emotion_rationale,omitempty" db:"emotion_rationale"`
	Feedback        string    `json:"ai_feedback,omitempty" db:"ai_feedback"`
	EntryDate       time.Time `json:"date" db:"entry_date"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

const (
	DiaryStatusPendingInsight = "pending_insight"
	DiaryStatusReady          = "ready"
)

// DateCount is the number of entries a user wrote on one day.
type DateCount struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

type DiaryStats struct {
	Total    int         `json:"total"`
	ByDate   []DateCount `json:"by_date"`
	Earliest *time.Time  `json:"earliest,omitempty"`
	Latest   *time.Time  `json:"latest,omitempty"`
}
