package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikhilbhutani/voicediary/internal/models"
)

// Service keeps a log of gate rejections.
type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

// Record stores one rejection. Callers treat failures as non-fatal.
func (s *Service) Record(ctx context.Context, r models.GateRejection) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO gate_rejections (id, user_id, kind, language, duration_seconds, audio_size_bytes)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		r.ID, r.UserID, r.Kind, r.Language, r.DurationSeconds, r.AudioSizeBytes,
	)
	if err != nil {
		return fmt.Errorf("insert gate rejection: %w", err)
	}

	slog.Debug("recorded gate rejection", "kind", r.Kind, "rejection_id", r.ID)
	return nil
}

// Summary counts rejections per kind within the optional date range.
func (s *Service) Summary(ctx context.Context, startDate, endDate *time.Time) ([]models.RejectionSummary, error) {
	query := `SELECT kind, COUNT(*) FROM gate_rejections WHERE true`
	var args []any
	argIdx := 1

	if startDate != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argIdx)
		args = append(args, *startDate)
		argIdx++
	}
	if endDate != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", argIdx)
		args = append(args, *endDate)
	}

	query += " GROUP BY kind ORDER BY COUNT(*) DESC, kind"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rejection summary: %w", err)
	}
	defer rows.Close()

	summaries := []models.RejectionSummary{}
	for rows.Next() {
		var rs models.RejectionSummary
		if err := rows.Scan(&rs.Kind, &rs.Count); err != nil {
			return nil, fmt.Errorf("scan rejection summary: %w", err)
		}
		summaries = append(summaries, rs)
	}
	return summaries, rows.Err()
}
