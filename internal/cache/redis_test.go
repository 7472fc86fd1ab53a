package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyPrefix(t *testing.T) {
	assert.Equal(t, "voicediary:transcript:abc", NewCache(nil, "voicediary").key("transcript:abc"))
	assert.Equal(t, "transcript:abc", NewCache(nil, "").key("transcript:abc"))
}
