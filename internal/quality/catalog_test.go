package quality

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLanguage(t *testing.T) {
	assert.Equal(t, English, ParseLanguage("English"))
	assert.Equal(t, English, ParseLanguage(" english "))
	assert.Equal(t, English, ParseLanguage("en"))
	assert.Equal(t, Chinese, ParseLanguage(""))
	assert.Equal(t, Chinese, ParseLanguage("zh"))
	assert.Equal(t, Language("French"), ParseLanguage("French"))
}

func TestCatalogMessageFallback(t *testing.T) {
	c := Catalog{KindTooShort: {Chinese: "太短"}}
	assert.Equal(t, "太短", c.Message(KindTooShort, English))
	assert.Equal(t, "TOO_LONG", c.Message(KindTooLong, English))
}

func TestCatalogMergeDoesNotMutate(t *testing.T) {
	base := DefaultCatalog()
	merged := base.Merge(Catalog{KindTooLong: {English: "Keep it brief."}})

	assert.Equal(t, "Keep it brief.", merged.Message(KindTooLong, English))
	assert.Equal(t, "Recording too long. Please keep it under 10 minutes.", base.Message(KindTooLong, English))
}

func TestLoadCatalogFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "messages.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
TOO_SHORT:
  Japanese: "録音が短すぎます"
TOO_SMALL:
  English: "That file looks empty."
`), 0o600))

	c, err := LoadCatalogFile(path)
	require.NoError(t, err)
	assert.Equal(t, "録音が短すぎます", c.Message(KindTooShort, Language("Japanese")))
	assert.Equal(t, "That file looks empty.", c.Message(KindTooSmall, English))
	assert.Equal(t, DefaultCatalog()[KindTooLong][Chinese], c.Message(KindTooLong, Chinese))
}

func TestLoadCatalogFileRejectsUnknownKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.yaml")
	require.NoError(t, os.WriteFile(path, []byte("EMPTY_TRANSCRIPT:\n  English: nope\n"), 0o600))

	_, err := LoadCatalogFile(path)
	assert.ErrorContains(t, err, "unsupported kind")
}

func TestLoadCatalogFileMissing(t *testing.T) {
	_, err := LoadCatalogFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
