package tui

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/mentions/editor"
	"github.com/iw2rmb/mentions/suggestions"
	"github.com/iw2rmb/mentions/tokenizer"
)

const defaultWidth = 60

// Config configures a Model.
type Config struct {
	// Editor is forwarded to editor.New. Receiver, Sink and OnItems are
	// owned by the Model and overwritten.
	Editor editor.Config

	Buckets []Bucket
	// Timeout bounds each bucket lookup. Zero means no bound.
	Timeout time.Duration

	// KeyMap defaults to DefaultKeyMap when it has no Quit binding.
	KeyMap KeyMap
	// Style defaults to DefaultStyle when nil.
	Style *Style

	Logger *slog.Logger
}

// Model is a Bubble Tea model around an editor.Editor. Copies share the
// editor and the suggestion state.
type Model struct {
	cfg  Config
	keys KeyMap
	st   Style
	log  *slog.Logger

	ed  *editor.Editor
	vis *suggestions.VisibilityState
	s   *state

	width, height int
}

type state struct {
	pending []tea.Cmd
	cancel  context.CancelFunc

	items  []suggestions.Suggestible
	active int

	anchor  int
	selEnd  int
	clip    editor.Clip
	hasClip bool

	status string
}

var _ tea.Model = Model{}

func New(cfg Config) Model {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	keys := cfg.KeyMap
	if len(keys.Quit.Keys()) == 0 {
		keys = DefaultKeyMap()
	}
	st := DefaultStyle()
	if cfg.Style != nil {
		st = *cfg.Style
	}

	m := Model{
		cfg:   cfg,
		keys:  keys,
		st:    st,
		log:   log,
		vis:   &suggestions.VisibilityState{},
		s:     &state{anchor: -1, selEnd: -1},
		width: defaultWidth,
	}

	ecfg := cfg.Editor
	ecfg.Receiver = suggestions.QueryReceiverFunc(m.query)
	ecfg.Sink = m.vis
	ecfg.OnItems = m.setItems
	if ecfg.Logger == nil {
		ecfg.Logger = log
	}
	m.ed = editor.New(ecfg)
	m.ed.End()
	return m
}

func (m Model) Editor() *editor.Editor { return m.ed }

func (m Model) Init() tea.Cmd { return nil }

// query starts one lookup per bucket and cancels the lookups of the
// previous token.
func (m Model) query(token tokenizer.QueryToken) []string {
	if m.s.cancel != nil {
		m.s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.s.cancel = cancel

	names := make([]string, 0, len(m.cfg.Buckets))
	for _, b := range m.cfg.Buckets {
		names = append(names, b.Name())
		m.s.pending = append(m.s.pending, lookupCmd(ctx, b, token, m.cfg.Timeout))
	}
	return names
}

func (m Model) setItems(items []suggestions.Suggestible) {
	m.s.items = items
	m.s.active = 0
}

// drain returns the lookups queued by the last editor call.
func (m Model) drain() tea.Cmd {
	if len(m.s.pending) == 0 {
		return nil
	}
	cmds := m.s.pending
	m.s.pending = nil
	return tea.Batch(cmds...)
}

// Items returns the suggestion list shown while suggestions are visible.
func (m Model) Items() []suggestions.Suggestible { return m.s.items }

func (m Model) Active() int { return m.s.active }

func (m Model) ShowingSuggestions() bool {
	return m.vis.IsDisplayingSuggestions() && len(m.s.items) > 0
}

// Status returns the last error or notice shown under the text.
func (m Model) Status() string { return m.s.status }

func (m Model) SetSize(width, height int) Model {
	m.width = max(width, 1)
	m.height = max(height, 0)
	return m
}
