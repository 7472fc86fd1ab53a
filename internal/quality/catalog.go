package quality

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Language selects the phrasing of rejection messages. It never changes
// pass/fail decisions.
type Language string

const (
	English Language = "English"
	Chinese Language = "Chinese"

	// DefaultLanguage is used for unknown or empty tags.
	DefaultLanguage = Chinese
)

// ParseLanguage maps a client-supplied tag onto a Language. Known aliases
// are folded case-insensitively; other tags pass through so catalog
// overrides can serve them, and Catalog.Message falls back for the rest.
func ParseLanguage(tag string) Language {
	tag = strings.TrimSpace(tag)
	switch strings.ToLower(tag) {
	case "":
		return DefaultLanguage
	case "english", "en", "en-us", "en-gb":
		return English
	case "chinese", "zh", "zh-cn", "zh-hans":
		return Chinese
	}
	return Language(tag)
}

// Catalog maps (kind, language) to a message.
type Catalog map[Kind]map[Language]string

// DefaultCatalog returns the built-in audio messages.
func DefaultCatalog() Catalog {
	return Catalog{
		KindTooShort: {
			English: "Recording too short. Please record at least 5 seconds of content. Try saying a complete sentence.",
			Chinese: "录音时间太短，请至少录制5秒以上的内容。建议说一个完整的句子。",
		},
		KindTooLong: {
			English: "Recording too long. Please keep it under 10 minutes.",
			Chinese: "录音时间过长，请控制在10分钟以内",
		},
		KindTooSmall: {
			English: "Audio file too small. It might not contain valid audio.",
			Chinese: "音频文件太小，可能没有录制到有效内容",
		},
	}
}

// Message returns the phrasing for kind in lang, falling back to the
// DefaultLanguage entry and finally to the kind itself.
func (c Catalog) Message(kind Kind, lang Language) string {
	byLang := c[kind]
	if msg, ok := byLang[lang]; ok && msg != "" {
		return msg
	}
	if msg, ok := byLang[DefaultLanguage]; ok && msg != "" {
		return msg
	}
	return string(kind)
}

// Merge returns a copy of c with every entry of other applied on top.
func (c Catalog) Merge(other Catalog) Catalog {
	out := make(Catalog, len(c))
	for kind, byLang := range c {
		out[kind] = make(map[Language]string, len(byLang))
		for lang, msg := range byLang {
			out[kind][lang] = msg
		}
	}
	for kind, byLang := range other {
		if out[kind] == nil {
			out[kind] = make(map[Language]string, len(byLang))
		}
		for lang, msg := range byLang {
			out[kind][lang] = msg
		}
	}
	return out
}

// LoadCatalogFile reads message overrides from a YAML document shaped as
//
//	TOO_SHORT:
//	  English: "..."
//	  Japanese: "..."
//
// and merges them over DefaultCatalog.
func LoadCatalogFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var overrides Catalog
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parse catalog file %s: %w", path, err)
	}

	for kind := range overrides {
		switch kind {
		case KindTooShort, KindTooLong, KindTooSmall:
		default:
			return nil, fmt.Errorf("catalog file %s: unsupported kind %q", path, kind)
		}
	}

	return DefaultCatalog().Merge(overrides), nil
}
