package diary

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikhilbhutani/voicediary/internal/models"
)

// ErrNotFound is returned when an entry does not exist for the user.
var ErrNotFound = errors.New("diary entry not found")

const entryColumns = `id, user_id, title, transcript, language, duration_seconds, audio_size_bytes,
	audio_path, status, emotion, emotion_confidence, emotion_rationale, ai_feedback, entry_date, created_at`

// Service persists diary entries in Postgres.
type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

type NewEntry struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Title           string
	Transcript      string
	Language        string
	DurationSeconds int
	AudioSizeBytes  int64
	AudioPath       string
}

// Insight is the AI analysis attached to an entry after it is stored.
type Insight struct {
	Emotion    string
	Confidence float64
	Rationale  string
	Feedback   string
}

func scanEntry(row pgx.Row) (*models.DiaryEntry, error) {
	var e models.DiaryEntry
	err := row.Scan(&e.ID, &e.UserID, &e.Title, &e.Transcript, &e.Language, &e.DurationSeconds,
		&e.AudioSizeBytes, &e.AudioPath, &e.Status, &e.Emotion, &e.EmotionScore, &e.Rationale,
		&e.Feedback, &e.EntryDate, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Service) Create(ctx context.Context, in NewEntry) (*models.DiaryEntry, error) {
	if in.ID == uuid.Nil {
		in.ID = uuid.New()
	}

	e, err := scanEntry(s.db.QueryRow(ctx,
		`INSERT INTO diary_entries (id, user_id, title, transcript, language, duration_seconds, audio_size_bytes, audio_path, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+entryColumns,
		in.ID, in.UserID, in.Title, in.Transcript, in.Language, in.DurationSeconds, in.AudioSizeBytes,
		in.AudioPath, models.DiaryStatusPendingInsight,
	))
	if err != nil {
		return nil, fmt.Errorf("insert diary entry: %w", err)
	}
	return e, nil
}

func (s *Service) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.DiaryEntry, error) {
	e, err := scanEntry(s.db.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM diary_entries WHERE id = $1 AND user_id = $2`,
		id, userID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get diary entry: %w", err)
	}
	return e, nil
}

// List returns the user's entries, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.DiaryEntry, error) {
	return s.list(ctx, `SELECT `+entryColumns+` FROM diary_entries
		WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
}

// Oldest returns the user's first n entries, oldest first.
func (s *Service) Oldest(ctx context.Context, userID uuid.UUID, n int) ([]models.DiaryEntry, error) {
	return s.list(ctx, `SELECT `+entryColumns+` FROM diary_entries
		WHERE user_id = $1 ORDER BY created_at ASC LIMIT $2`, userID, n)
}

func (s *Service) list(ctx context.Context, query string, args ...any) ([]models.DiaryEntry, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list diary entries: %w", err)
	}
	defer rows.Close()

	var entries []models.DiaryEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan diary entry: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate diary entries: %w", err)
	}
	return entries, nil
}

// Stats counts the user's entries per day, newest day first.
func (s *Service) Stats(ctx context.Context, userID uuid.UUID) (*models.DiaryStats, error) {
	rows, err := s.db.Query(ctx,
		`SELECT entry_date, COUNT(*) FROM diary_entries
		 WHERE user_id = $1 GROUP BY entry_date ORDER BY entry_date DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query diary stats: %w", err)
	}
	defer rows.Close()

	var counts []models.DateCount
	for rows.Next() {
		var dc models.DateCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, fmt.Errorf("scan diary stats: %w", err)
		}
		counts = append(counts, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate diary stats: %w", err)
	}
	return SummarizeCounts(counts), nil
}

// SummarizeCounts totals per-day counts and finds the date range. counts
// may be in any order.
func SummarizeCounts(counts []models.DateCount) *models.DiaryStats {
	stats := &models.DiaryStats{ByDate: counts}
	for _, dc := range counts {
		stats.Total += dc.Count
		d := dc.Date
		if stats.Earliest == nil || d.Before(*stats.Earliest) {
			stats.Earliest = &d
		}
		if stats.Latest == nil || d.After(*stats.Latest) {
			stats.Latest = &d
		}
	}
	if stats.ByDate == nil {
		stats.ByDate = []models.DateCount{}
	}
	return stats
}

func (s *Service) SaveInsight(ctx context.Context, id uuid.UUID, in Insight) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE diary_entries
		 SET emotion = $1, emotion_confidence = $2, emotion_rationale = $3, ai_feedback = $4, status = $5
		 WHERE id = $6`,
		in.Emotion, in.Confidence, in.Rationale, in.Feedback, models.DiaryStatusReady, id,
	)
	if err != nil {
		return fmt.Errorf("save insight: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
