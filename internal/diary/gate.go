package diary

import (
	"fmt"

	"github.com/nikhilbhutani/voicediary/internal/config"
	"github.com/nikhilbhutani/voicediary/internal/quality"
)

// GateFromConfig builds the quality gate from the GATE_* settings. A
// messages file is merged over the built-in catalog.
func GateFromConfig(cfg config.GateConfig) (*quality.Gate, error) {
	catalog := quality.DefaultCatalog()
	if cfg.MessagesFile != "" {
		loaded, err := quality.LoadCatalogFile(cfg.MessagesFile)
		if err != nil {
			return nil, fmt.Errorf("load gate messages: %w", err)
		}
		catalog = loaded
	}

	return quality.NewGate(quality.Thresholds{
		MinDurationSeconds: cfg.MinDurationSeconds,
		MaxDurationSeconds: cfg.MaxDurationSeconds,
		MinAudioBytes:      int64(cfg.MinAudioBytes),
		MinTranscriptChars: cfg.MinTranscriptChars,
	}, catalog), nil
}
