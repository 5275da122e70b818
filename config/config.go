package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/iw2rmb/mentions/editor"
	"github.com/iw2rmb/mentions/suggestions"
	"github.com/iw2rmb/mentions/tokenizer"
)

const (
	BuilderConcat   = "concat"
	BuilderTagOrder = "tag-order"
)

// ErrInvalidConfig matches every error returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Tokenizer   tokenizer.Config   `toml:"tokenizer"`
	Editor      EditorSection      `toml:"editor"`
	Suggestions SuggestionsSection `toml:"suggestions"`
}

type EditorSection struct {
	// HistoryLimit is the undo depth; negative disables undo.
	HistoryLimit     int  `toml:"history_limit"`
	AvoidPrefixOnTap bool `toml:"avoid_prefix_on_tap"`
}

type SuggestionsSection struct {
	Builder  string   `toml:"builder"`
	TagOrder []string `toml:"tag_order"`
	// WaitForAllBuckets hides the list until every bucket has answered.
	WaitForAllBuckets bool          `toml:"wait_for_all_buckets"`
	LookupTimeout     time.Duration `toml:"lookup_timeout"`
}

func Default() Config {
	return Config{
		Tokenizer: tokenizer.DefaultConfig(),
		Editor: EditorSection{
			HistoryLimit: 1000,
		},
		Suggestions: SuggestionsSection{
			Builder:       BuilderConcat,
			LookupTimeout: 2 * time.Second,
		},
	}
}

// Decode reads TOML from r over Default and validates the result. Unknown
// keys are rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%w: unknown keys %s", ErrInvalidConfig, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load decodes the TOML file at path.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// ValidationError is one problem found by Validate.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found by Validate.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return ErrInvalidConfig.Error() + ": " + strings.Join(msgs, "; ")
}

func (e ValidationErrors) Is(target error) bool { return target == ErrInvalidConfig }

func (c Config) Validate() error {
	var errs ValidationErrors

	if err := c.Tokenizer.Validate(); err != nil {
		errs = append(errs, ValidationError{Field: "tokenizer", Message: err.Error()})
	}

	switch c.Suggestions.Builder {
	case BuilderConcat:
	case BuilderTagOrder:
		if len(c.Suggestions.TagOrder) == 0 {
			errs = append(errs, ValidationError{
				Field:   "suggestions.tag_order",
				Message: "must list at least one tag for the tag-order builder",
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "suggestions.builder",
			Message: fmt.Sprintf("invalid builder %q, must be one of: %s, %s", c.Suggestions.Builder, BuilderConcat, BuilderTagOrder),
		})
	}
	if c.Suggestions.LookupTimeout < 0 {
		errs = append(errs, ValidationError{
			Field:   "suggestions.lookup_timeout",
			Message: fmt.Sprintf("must not be negative, got %s", c.Suggestions.LookupTimeout),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ListBuilder returns the configured suggestion list strategy.
func (c Config) ListBuilder() suggestions.ListBuilder {
	if c.Suggestions.Builder == BuilderTagOrder {
		return suggestions.TagOrderBuilder{Order: c.Suggestions.TagOrder}
	}
	return suggestions.ConcatBuilder{}
}

// Apply copies the settings into ec and returns it.
func (c Config) Apply(ec editor.Config) editor.Config {
	ec.Tokenizer = c.Tokenizer
	ec.HistoryLimit = c.Editor.HistoryLimit
	ec.AvoidPrefixOnTap = c.Editor.AvoidPrefixOnTap
	ec.ListBuilder = c.ListBuilder()
	ec.WaitForAllBuckets = c.Suggestions.WaitForAllBuckets
	return ec
}
