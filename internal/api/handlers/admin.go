package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/nikhilbhutani/voicediary/internal/models"
)

type RejectionSummarizer interface {
	Summary(ctx context.Context, startDate, endDate *time.Time) ([]models.RejectionSummary, error)
}

type AdminHandler struct {
	rejections RejectionSummarizer
}

func NewAdminHandler(rejections RejectionSummarizer) *AdminHandler {
	return &AdminHandler{rejections: rejections}
}

func (h *AdminHandler) Rejections(w http.ResponseWriter, r *http.Request) {
	startDate, err := parseDate(r.URL.Query().Get("start_date"), false)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date")
		return
	}
	endDate, err := parseDate(r.URL.Query().Get("end_date"), true)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end_date")
		return
	}

	summary, err := h.rejections.Summary(r.Context(), startDate, endDate)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if summary == nil {
		summary = []models.RejectionSummary{}
	}

	total := 0
	for _, s := range summary {
		total += s.Count
	}

	writeJSON(w, http.StatusOK, map[string]any{"rejections": summary, "total": total})
}

// parseDate accepts RFC 3339 or a bare date. A bare end date covers the
// whole day.
func parseDate(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
