package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nikhilbhutani/voicediary/internal/auth"
	"github.com/nikhilbhutani/voicediary/internal/diary"
	"github.com/nikhilbhutani/voicediary/internal/models"
	"github.com/nikhilbhutani/voicediary/internal/quality"
)

const maxUploadBytes = 64 << 20

type Recorder interface {
	Record(ctx context.Context, in diary.VoiceInput) (*models.DiaryEntry, error)
	ValidateText(ctx context.Context, userID uuid.UUID, transcript string, duration *int) (int, error)
}

type EntryReader interface {
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.DiaryEntry, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.DiaryEntry, error)
	Stats(ctx context.Context, userID uuid.UUID) (*models.DiaryStats, error)
}

type DiaryHandler struct {
	recorder Recorder
	entries  EntryReader
}

func NewDiaryHandler(recorder Recorder, entries EntryReader) *DiaryHandler {
	return &DiaryHandler{recorder: recorder, entries: entries}
}

func (h *DiaryHandler) Voice(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file required")
		return
	}
	defer file.Close()

	durationStr := r.FormValue("duration")
	if durationStr == "" {
		writeError(w, http.StatusBadRequest, "duration required")
		return
	}
	duration, err := strconv.Atoi(durationStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "duration must be an integer number of seconds")
		return
	}

	audio, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read audio")
		return
	}

	entry, err := h.recorder.Record(r.Context(), diary.VoiceInput{
		UserID:          auth.UserIDFromContext(r.Context()),
		Title:           r.FormValue("title"),
		Language:        quality.ParseLanguage(r.FormValue("language")),
		DurationSeconds: duration,
		Filename:        header.Filename,
		ContentType:     header.Header.Get("Content-Type"),
		Audio:           audio,
	})
	if err != nil {
		writeRecordError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

type validateRequest struct {
	Transcript string `json:"transcript"`
	Duration   *int   `json:"duration"`
}

func (h *DiaryHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	n, err := h.recorder.ValidateText(r.Context(), auth.UserIDFromContext(r.Context()), req.Transcript, req.Duration)
	if err != nil {
		writeRecordError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "normalized_length": n})
}

func (h *DiaryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := h.entries.List(r.Context(), auth.UserIDFromContext(r.Context()), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []models.DiaryEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"entries": entries, "count": len(entries)})
}

func (h *DiaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid diary ID")
		return
	}

	entry, err := h.entries.GetByID(r.Context(), auth.UserIDFromContext(r.Context()), id)
	if errors.Is(err, diary.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *DiaryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.entries.Stats(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// writeRecordError maps a gate rejection to 400 with its detail body,
// transcription failures to 502 and anything else to 500.
func writeRecordError(w http.ResponseWriter, err error) {
	if rej, ok := quality.AsRejection(err); ok {
		writeJSON(w, rej.StatusCode, map[string]any{"detail": rej.Detail()})
		return
	}
	if errors.Is(err, diary.ErrTranscription) {
		slog.Error("transcription failed", "error", err)
		writeError(w, http.StatusBadGateway, "transcription failed")
		return
	}
	slog.Error("failed to record diary entry", "error", err)
	writeError(w, http.StatusInternalServerError, "failed to record diary entry")
}
