package tokenizer

import (
	"errors"
	"fmt"
)

const (
	defaultThreshold      = 4
	defaultMaxKeywords    = 1
	defaultExplicitChars  = "@"
	defaultLineSeparator  = "\n"
	defaultWordBreakChars = " ." + defaultLineSeparator
)

// ErrInvalidConfig reports a tokenizer configuration that cannot be used.
var ErrInvalidConfig = errors.New("invalid tokenizer config")

// Config configures a Tokenizer.
type Config struct {
	// Threshold is the number of leading (or trailing) letters or digits an
	// implicit token needs before it is worth querying.
	Threshold int `toml:"threshold"`
	// MaxKeywords is the number of words an implicit token may span.
	MaxKeywords int `toml:"max_keywords"`
	// ExplicitChars lists trigger characters such as '@'.
	ExplicitChars string `toml:"explicit_chars"`
	// WordBreakChars lists characters that separate words.
	WordBreakChars string `toml:"word_break_chars"`
	// LineSeparator bounds token search to the current line.
	LineSeparator string `toml:"line_separator"`
}

func DefaultConfig() Config {
	return Config{
		Threshold:      defaultThreshold,
		MaxKeywords:    defaultMaxKeywords,
		ExplicitChars:  defaultExplicitChars,
		WordBreakChars: defaultWordBreakChars,
		LineSeparator:  defaultLineSeparator,
	}
}

// Validate reports the first problem with c, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	if c.Threshold < 1 {
		return fmt.Errorf("%w: threshold must be >= 1, got %d", ErrInvalidConfig, c.Threshold)
	}
	if c.MaxKeywords < 1 {
		return fmt.Errorf("%w: max_keywords must be >= 1, got %d", ErrInvalidConfig, c.MaxKeywords)
	}
	if c.LineSeparator == "" {
		return fmt.Errorf("%w: line_separator must not be empty", ErrInvalidConfig)
	}
	return nil
}

func normalizeConfig(c Config) Config {
	if c == (Config{}) {
		return DefaultConfig()
	}
	if c.Threshold < 1 {
		c.Threshold = defaultThreshold
	}
	if c.MaxKeywords < 1 {
		c.MaxKeywords = defaultMaxKeywords
	}
	if c.LineSeparator == "" {
		c.LineSeparator = defaultLineSeparator
	}
	return c
}
