package diary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nikhilbhutani/voicediary/internal/config"
	"github.com/nikhilbhutani/voicediary/internal/quality"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.yaml")
	require.NoError(t, os.WriteFile(path, []byte("TOO_SHORT:\n  English: Keep going a little longer.\n"), 0o600))

	g, err := GateFromConfig(config.GateConfig{MinDurationSeconds: 10, MessagesFile: path})
	require.NoError(t, err)
	assert.Equal(t, 10, g.Thresholds().MinDurationSeconds)
	assert.Equal(t, 600, g.Thresholds().MaxDurationSeconds)

	rej, ok := quality.AsRejection(g.ValidateAudio(7, 5000, quality.English))
	require.True(t, ok)
	assert.Equal(t, "Keep going a little longer.", rej.Message)

	rej, ok = quality.AsRejection(g.ValidateAudio(7, 5000, quality.Chinese))
	require.True(t, ok)
	assert.Equal(t, "录音时间太短，请至少录制5秒以上的内容。建议说一个完整的句子。", rej.Message)
}

func TestGateFromConfigBadFile(t *testing.T) {
	_, err := GateFromConfig(config.GateConfig{MessagesFile: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}
