// Package quality holds the input-quality gates that run before a voice
// recording becomes a diary entry: an audio gate on duration and size, and a
// transcript gate on normalized text density.
//
// Gates are stateless after construction and safe for concurrent use. A nil
// error means the input was accepted; otherwise the error is a *Rejection.
package quality

import (
	"log/slog"
	"unicode/utf8"
)

const (
	emptyTranscriptMessage = "No valid speech detected."
	previewRunes           = 50
)

// Thresholds bounds what the gates accept.
type Thresholds struct {
	MinDurationSeconds int   // default: 5
	MaxDurationSeconds int   // default: 600
	MinAudioBytes      int64 // default: 1000
	MinTranscriptChars int   // default: 3, counted in runes after Normalize
}

// DefaultThresholds returns the production limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinDurationSeconds: 5,
		MaxDurationSeconds: 600,
		MinAudioBytes:      1000,
		MinTranscriptChars: 3,
	}
}

// Gate runs the audio and transcript checks.
type Gate struct {
	limits  Thresholds
	catalog Catalog
}

// NewGate creates a Gate. Zero threshold fields take their defaults and a
// nil catalog means DefaultCatalog.
func NewGate(limits Thresholds, catalog Catalog) *Gate {
	def := DefaultThresholds()
	if limits.MinDurationSeconds == 0 {
		limits.MinDurationSeconds = def.MinDurationSeconds
	}
	if limits.MaxDurationSeconds == 0 {
		limits.MaxDurationSeconds = def.MaxDurationSeconds
	}
	if limits.MinAudioBytes == 0 {
		limits.MinAudioBytes = def.MinAudioBytes
	}
	if limits.MinTranscriptChars == 0 {
		limits.MinTranscriptChars = def.MinTranscriptChars
	}
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Gate{limits: limits, catalog: catalog}
}

// Thresholds returns the limits the gate enforces.
func (g *Gate) Thresholds() Thresholds { return g.limits }

// ValidateAudio checks a recording before it is transcribed. Rules run in
// order and the first failure wins: too short, too long, too small.
func (g *Gate) ValidateAudio(duration int, sizeBytes int64, lang Language) error {
	slog.Debug("validating audio quality",
		"duration_seconds", duration,
		"size_bytes", sizeBytes,
		"language", lang,
	)

	var kind Kind
	switch {
	case duration < g.limits.MinDurationSeconds:
		kind = KindTooShort
	case duration > g.limits.MaxDurationSeconds:
		kind = KindTooLong
	case sizeBytes < g.limits.MinAudioBytes:
		kind = KindTooSmall
	default:
		slog.Info("audio quality check passed", "duration_seconds", duration, "size_bytes", sizeBytes)
		return nil
	}

	slog.Info("audio rejected", "kind", kind, "duration_seconds", duration, "size_bytes", sizeBytes)
	return newRejection(kind, g.catalog.Message(kind, lang), false)
}

// ValidateTranscript checks that a transcript holds enough real content.
// duration is accepted for future density scoring and currently unused.
func (g *Gate) ValidateTranscript(raw string, duration *int) error {
	_ = duration

	normalized := Normalize(raw)
	length := utf8.RuneCountInString(normalized)
	slog.Debug("validating transcript",
		"raw", raw,
		"normalized", normalized,
		"normalized_length", length,
	)

	if length < g.limits.MinTranscriptChars {
		slog.Info("transcript rejected", "kind", KindEmptyTranscript, "normalized_length", length)
		return newRejection(KindEmptyTranscript, emptyTranscriptMessage, true)
	}

	slog.Info("transcript check passed", "preview", preview(raw, previewRunes))
	return nil
}

var defaultGate = NewGate(DefaultThresholds(), nil)

// ValidateAudio runs the audio gate with default thresholds and messages.
func ValidateAudio(duration int, sizeBytes int64, lang Language) error {
	return defaultGate.ValidateAudio(duration, sizeBytes, lang)
}

// ValidateTranscript runs the transcript gate with default thresholds.
func ValidateTranscript(raw string, duration *int) error {
	return defaultGate.ValidateTranscript(raw, duration)
}
