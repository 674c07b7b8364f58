package hashtag

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultHashtagPattern matches '#' followed by a letter and then letters,
	// digits, underscores or hyphens. Group 1 is the token body.
	DefaultHashtagPattern = `#(\p{L}[\p{L}0-9_-]*)`

	// DefaultMentionPattern has the same shape as DefaultHashtagPattern after '@'.
	DefaultMentionPattern = `@(\p{L}[\p{L}0-9_-]*)`

	DefaultHashtagURLPrefix = "/tags/"
	DefaultMentionURLPrefix = "/users/"
	DefaultHashtagCSSClass  = "hashtag-link"
	DefaultMentionCSSClass  = "mention-link"
	DefaultTrendingCacheTTL = time.Hour
)

// Config is the read-only configuration snapshot passed to every entry point.
type Config struct {
	HashtagPattern   string `yaml:"hashtag_pattern"`
	MentionPattern   string `yaml:"mention_pattern"`
	HashtagURLPrefix string `yaml:"hashtag_url_prefix"`
	MentionURLPrefix string `yaml:"mention_url_prefix"`
	HashtagCSSClass  string `yaml:"hashtag_css_class"`
	MentionCSSClass  string `yaml:"mention_css_class"`

	// MatchTimeout bounds a single pattern evaluation. Zero disables the guard.
	MatchTimeout time.Duration `yaml:"match_timeout"`

	// TrendingCacheTTL is how long trending hashtags stay cached when CacheTrending is on.
	TrendingCacheTTL time.Duration `yaml:"trending_cache_ttl"`

	// EnableLinks is the global switch for linkification.
	EnableLinks bool `yaml:"enable_tagify_links"`

	// AutoAttachOnSave makes Service.Saved sync an owner's hashtags from its text.
	AutoAttachOnSave bool `yaml:"auto_attach_on_save"`

	CacheTrending bool `yaml:"cache_trending"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		HashtagPattern:   DefaultHashtagPattern,
		MentionPattern:   DefaultMentionPattern,
		HashtagURLPrefix: DefaultHashtagURLPrefix,
		MentionURLPrefix: DefaultMentionURLPrefix,
		HashtagCSSClass:  DefaultHashtagCSSClass,
		MentionCSSClass:  DefaultMentionCSSClass,
		TrendingCacheTTL: DefaultTrendingCacheTTL,
		EnableLinks:      true,
		CacheTrending:    true,
	}
}

// LoadConfig decodes YAML from r on top of DefaultConfig.
// Keys missing from the document keep their default values.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("hashtag: decode config: %w", err)
	}
	return cfg, nil
}

// LoadConfigFile reads a YAML config file. See LoadConfig.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the application, not from users
	if err != nil {
		return Config{}, fmt.Errorf("hashtag: open config: %w", err)
	}
	defer func() { _ = f.Close() }()

	return LoadConfig(f)
}

// Validate compiles both patterns and returns a *PatternError for the first one that fails.
func (c Config) Validate() error {
	_, _, err := c.compile()
	return err
}

// Pattern returns the configured pattern for the kind.
func (c Config) Pattern(k Kind) string {
	if k == KindMention {
		return c.MentionPattern
	}
	return c.HashtagPattern
}

// URLPrefix returns the link prefix for the kind.
func (c Config) URLPrefix(k Kind) string {
	if k == KindMention {
		return c.MentionURLPrefix
	}
	return c.HashtagURLPrefix
}

// CSSClass returns the anchor class for the kind.
func (c Config) CSSClass(k Kind) string {
	if k == KindMention {
		return c.MentionCSSClass
	}
	return c.HashtagCSSClass
}
