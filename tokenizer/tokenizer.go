package tokenizer

import (
	"unicode/utf8"

	"github.com/iw2rmb/mentions/internal/grapheme"
)

// Tokenizer splits text into words and decides which run of words around the
// cursor is a mention query.
type Tokenizer struct {
	cfg     Config
	lineSep []string
}

// New returns a Tokenizer for cfg. Zero-valued numeric fields take their
// defaults; a zero Config is DefaultConfig.
func New(cfg Config) *Tokenizer {
	cfg = normalizeConfig(cfg)
	return &Tokenizer{
		cfg:     cfg,
		lineSep: grapheme.Split(cfg.LineSeparator),
	}
}

func (t *Tokenizer) Config() Config { return t.cfg }

// IsExplicitChar reports whether cluster is a configured trigger character.
func (t *Tokenizer) IsExplicitChar(cluster string) bool {
	return grapheme.In(cluster, t.cfg.ExplicitChars)
}

// IsWordBreak reports whether cluster separates words.
func (t *Tokenizer) IsWordBreak(cluster string) bool {
	return grapheme.In(cluster, t.cfg.WordBreakChars)
}

func (t *Tokenizer) ContainsExplicitChar(s string) bool {
	return t.containsExplicit(grapheme.Split(s))
}

func (t *Tokenizer) ContainsWordBreak(s string) bool {
	return t.containsBreak(grapheme.Split(s))
}

// OnlyLettersOrDigits reports whether the count clusters of s starting at
// start are all letters or digits. It is false when the run leaves s.
func (t *Tokenizer) OnlyLettersOrDigits(s string, count, start int) bool {
	return onlyLettersOrDigits(grapheme.Split(s), count, start)
}

// FindTokenStart returns the index where the token around cursor begins.
//
// An explicit token starts at its trigger character. An implicit token walks
// back up to MaxKeywords words, never across a double word break, a line
// start, or the end of a preceding mention.
func (t *Tokenizer) FindTokenStart(text Text, cursor int) int {
	cursor = t.clampCursor(text, cursor)
	start := t.SearchStart(text, cursor)

	if t.IsExplicit(text, cursor) {
		for i := cursor - 1; i >= start; i-- {
			if t.IsExplicitChar(text.At(i)) && (i == 0 || t.IsWordBreak(text.At(i-1))) {
				return i
			}
		}
		// ExplicitCharAt found a trigger inside [start, cursor), so this is
		// unreachable; fall back to an empty token.
		return cursor
	}

	i := cursor
	for i > start && !t.IsWordBreak(text.At(i-1)) {
		i--
	}
	for j := 0; j < t.cfg.MaxKeywords-1; j++ {
		if i > start && t.IsWordBreak(text.At(i-1)) {
			i--
		}
		// Words separated by more than one break never join one query.
		if i > start && t.IsWordBreak(text.At(i-1)) {
			break
		}
		for i > start && !t.IsWordBreak(text.At(i-1)) {
			i--
		}
	}
	for i < cursor && (t.IsWordBreak(text.At(i)) || t.IsExplicitChar(text.At(i))) {
		i++
	}
	return i
}

// FindTokenEnd returns the index of the first word break at or after cursor,
// bounded by the next mention start, the line end, or the text end.
func (t *Tokenizer) FindTokenEnd(text Text, cursor int) int {
	cursor = t.clampCursor(text, cursor)
	end := t.SearchEnd(text, cursor)
	i := cursor
	for i < end {
		if t.IsWordBreak(text.At(i)) {
			return i
		}
		i++
	}
	return i
}

// IsValidMention reports whether [start, end) is worth querying. Both
// bounds are clamped to the text first.
func (t *Tokenizer) IsValidMention(text Text, start, end int) bool {
	n := text.Len()
	start, end = clampInt(start, 0, n), clampInt(end, 0, n)
	if start >= end {
		return false
	}
	token := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		token = append(token, text.At(i))
	}

	threshold := t.cfg.Threshold
	multipleWords := t.containsBreak(token)
	explicit := t.containsExplicit(token)

	if !multipleWords && explicit {
		// A one-word explicit token must open with the trigger.
		if !t.IsExplicitChar(token[0]) {
			return false
		}
		if !t.HasWordBreakBeforeExplicit(text, end) {
			return false
		}
		if len(token) == 1 {
			return true
		}
		return grapheme.IsLetterOrDigit(token[1])
	}
	if len(token) < threshold {
		return false
	}

	switch {
	case !multipleWords:
		return onlyLettersOrDigits(token, threshold, 0)
	case explicit:
		return t.HasWordBreakBeforeExplicit(text, end) &&
			t.IsExplicitChar(token[0]) &&
			grapheme.IsLetterOrDigit(token[1])
	default:
		return onlyLettersOrDigits(token, threshold, 0) ||
			onlyLettersOrDigits(token, threshold, len(token)-threshold)
	}
}

// IsExplicit reports whether the token at cursor was opened by a trigger.
func (t *Tokenizer) IsExplicit(text Text, cursor int) bool {
	_, ok := t.ExplicitCharAt(text, cursor)
	return ok
}

// ExplicitCharAt scans back from cursor for the trigger character that opens
// the current token. It gives up after MaxKeywords word breaks, at a trigger
// glued to a preceding word, or at the search start.
func (t *Tokenizer) ExplicitCharAt(text Text, cursor int) (rune, bool) {
	if cursor < 0 || cursor > text.Len() {
		return 0, false
	}
	start := t.SearchStart(text, cursor)
	breaks := 0
	for i := cursor - 1; i >= start; i-- {
		c := text.At(i)
		if t.IsExplicitChar(c) {
			if i == 0 || t.IsWordBreak(text.At(i-1)) {
				r, _ := utf8.DecodeRuneInString(c)
				return r, true
			}
			return 0, false
		}
		if t.IsWordBreak(c) {
			breaks++
			if breaks == t.cfg.MaxKeywords {
				return 0, false
			}
		}
	}
	return 0, false
}

// HasWordBreakBeforeExplicit reports whether the trigger closest before
// cursor sits at the text start or right after a word break.
func (t *Tokenizer) HasWordBreakBeforeExplicit(text Text, cursor int) bool {
	cursor = clampInt(cursor, 0, text.Len())
	for i := cursor - 1; i >= 0; i-- {
		if t.IsExplicitChar(text.At(i)) {
			return i == 0 || t.IsWordBreak(text.At(i-1))
		}
	}
	return false
}

// SearchStart returns the lower bound of token search for cursor: the
// closest of the preceding mention end and the current line start.
func (t *Tokenizer) SearchStart(text Text, cursor int) int {
	cursor = t.clampCursor(text, cursor)
	closest := 0
	for _, end := range text.Spans() {
		if end > closest && end <= cursor {
			closest = end
		}
	}
	return max(closest, t.lineStart(text, cursor))
}

// SearchEnd returns the upper bound of token search for cursor: the closest
// of the following mention start and the current line end.
func (t *Tokenizer) SearchEnd(text Text, cursor int) int {
	cursor = t.clampCursor(text, cursor)
	closest := text.Len()
	for start := range text.Spans() {
		if start < closest && start >= cursor {
			closest = start
		}
	}
	return min(closest, t.lineEnd(text, cursor))
}

// FindWordStart walks back from index over non-break characters.
func (t *Tokenizer) FindWordStart(text Text, index int) int {
	i := clampInt(index, 0, text.Len())
	for i > 0 && !t.IsWordBreak(text.At(i-1)) {
		i--
	}
	return i
}

// TokenString returns the current token text at cursor, valid or not.
func (t *Tokenizer) TokenString(text Text, cursor int) string {
	if text.Len() == 0 {
		return ""
	}
	start := t.FindTokenStart(text, cursor)
	end := t.FindTokenEnd(text, cursor)
	if start >= end {
		return ""
	}
	return text.Slice(start, end)
}

// Token returns the query token at cursor when it is a valid mention.
func (t *Tokenizer) Token(text Text, cursor int) (QueryToken, bool) {
	start := t.FindTokenStart(text, cursor)
	end := t.FindTokenEnd(text, cursor)
	if !t.IsValidMention(text, start, end) {
		return QueryToken{}, false
	}
	raw := text.Slice(start, end)
	first := text.At(start)
	if t.IsExplicitChar(first) {
		r, _ := utf8.DecodeRuneInString(first)
		return NewExplicitQueryToken(raw, r), true
	}
	return NewQueryToken(raw), true
}

func (t *Tokenizer) clampCursor(text Text, cursor int) int {
	if cursor < 0 || cursor > text.Len() {
		return 0
	}
	return cursor
}

func (t *Tokenizer) lineStart(text Text, cursor int) int {
	sep := len(t.lineSep)
	for i := cursor - sep; i >= 0; i-- {
		if t.lineSepAt(text, i) {
			return i + sep
		}
	}
	return 0
}

func (t *Tokenizer) lineEnd(text Text, cursor int) int {
	n := text.Len()
	for i := cursor; i+len(t.lineSep) <= n; i++ {
		if t.lineSepAt(text, i) {
			return i
		}
	}
	return n
}

func (t *Tokenizer) lineSepAt(text Text, i int) bool {
	if len(t.lineSep) == 0 {
		return false
	}
	for j, c := range t.lineSep {
		if text.At(i+j) != c {
			return false
		}
	}
	return true
}

func (t *Tokenizer) containsExplicit(clusters []string) bool {
	for _, c := range clusters {
		if t.IsExplicitChar(c) {
			return true
		}
	}
	return false
}

func (t *Tokenizer) containsBreak(clusters []string) bool {
	for _, c := range clusters {
		if t.IsWordBreak(c) {
			return true
		}
	}
	return false
}

func onlyLettersOrDigits(clusters []string, count, start int) bool {
	if start < 0 || start > len(clusters) {
		return false
	}
	for i := 0; i < count; i++ {
		pos := start + i
		if pos >= len(clusters) {
			return false
		}
		if !grapheme.IsLetterOrDigit(clusters[pos]) {
			return false
		}
	}
	return true
}
