package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/mentions/suggestions"
	"github.com/iw2rmb/mentions/tokenizer"
)

// Bucket is one suggestion source. Lookup runs outside the program loop
// and must honor ctx.
type Bucket interface {
	Name() string
	Lookup(ctx context.Context, token tokenizer.QueryToken) ([]suggestions.Suggestible, error)
}

// BucketFunc adapts a function to Bucket.
type BucketFunc struct {
	BucketName string
	Fn         func(ctx context.Context, token tokenizer.QueryToken) ([]suggestions.Suggestible, error)
}

func (b BucketFunc) Name() string { return b.BucketName }

func (b BucketFunc) Lookup(ctx context.Context, token tokenizer.QueryToken) ([]suggestions.Suggestible, error) {
	return b.Fn(ctx, token)
}

// ResultMsg carries one bucket answer back to the program loop.
type ResultMsg struct {
	Bucket string
	Result suggestions.Result
	Err    error
}

func lookupCmd(ctx context.Context, b Bucket, token tokenizer.QueryToken, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		items, err := b.Lookup(ctx, token)
		return ResultMsg{Bucket: b.Name(), Result: suggestions.NewResult(token, items...), Err: err}
	}
}
