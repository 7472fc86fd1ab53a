package models

import (
	"time"

	"github.com/google/uuid"
)

// GateRejection records one input turned away by a quality gate.
type GateRejection struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	UserID          *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	Kind            string     `json:"kind" db:"kind"`
	Language        string     `json:"language" db:"language"`
	DurationSeconds *int       `json:"duration_seconds,omitempty" db:"duration_seconds"`
	AudioSizeBytes  *int64     `json:"audio_size_bytes,omitempty" db:"audio_size_bytes"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

type RejectionSummary struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}
