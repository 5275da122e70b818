package tokenizer

import "testing"

const sample = "Test mentions Shoulong Li and @Nathan Hi @Mi"

func newTestTokenizer() *Tokenizer {
	cfg := DefaultConfig()
	cfg.Threshold = 3
	cfg.MaxKeywords = 2
	return New(cfg)
}

// "Shoulong Li" at 14 is the mention used by the span-aware cases.
var shoulongSpan = Span{Start: 14, End: 25}

func TestFindTokenStart(t *testing.T) {
	tk := newTestTokenizer()
	plain := NewText(sample)
	withSpan := NewText(sample, shoulongSpan)

	cases := []struct {
		name   string
		text   Text
		cursor int
		want   int
	}{
		{"first word", plain, 0, 0},
		{"inside first word", plain, 3, 0},
		{"end of first word", plain, 4, 0},
		{"second word start", plain, 5, 0},
		{"second word end", plain, 13, 0},
		{"third word start", plain, 14, 5},
		{"third word inside", plain, 15, 5},
		{"third word end", plain, 22, 5},
		{"fourth word start", plain, 23, 14},
		{"fourth word end", plain, 25, 14},
		{"fifth word start", plain, 26, 23},
		{"fifth word inside", plain, 27, 23},
		{"right after mention", withSpan, 25, 25},
		{"word after mention", withSpan, 26, 26},
		{"inside word after mention", withSpan, 27, 26},
		{"before first @", withSpan, 30, 26},
		{"after first @", withSpan, 31, 30},
		{"explicit two words", withSpan, 38, 30},
		{"before second @", withSpan, 41, 38},
		{"after second @", withSpan, 42, 41},
		{"end of text", withSpan, 43, 41},
	}
	for _, tc := range cases {
		if got := tk.FindTokenStart(tc.text, tc.cursor); got != tc.want {
			t.Fatalf("%s: FindTokenStart(%d)=%d, want %d", tc.name, tc.cursor, got, tc.want)
		}
	}
}

func TestFindTokenEnd(t *testing.T) {
	tk := newTestTokenizer()
	plain := NewText(sample)
	withSpan := NewText(sample, shoulongSpan)

	cases := []struct {
		text   Text
		cursor int
		want   int
	}{
		{plain, 0, 4},
		{plain, 3, 4},
		{plain, 4, 4},
		{plain, 5, 13},
		{plain, 13, 13},
		{plain, 14, 22},
		{plain, 22, 22},
		{plain, 23, 25},
		{plain, 26, 29},
		{withSpan, 5, 13},
		{withSpan, 13, 13},
		{withSpan, 14, 14},
		{withSpan, 15, 22},
		{withSpan, 30, 37},
		{withSpan, 31, 37},
		{withSpan, 38, 40},
		{withSpan, 41, 44},
		{withSpan, 43, 44},
	}
	for _, tc := range cases {
		if got := tk.FindTokenEnd(tc.text, tc.cursor); got != tc.want {
			t.Fatalf("FindTokenEnd(%d)=%d, want %d", tc.cursor, got, tc.want)
		}
	}
}

func TestIsExplicit(t *testing.T) {
	tk := newTestTokenizer()

	check := func(text Text, cursor int, want bool) {
		t.Helper()
		if got := tk.IsExplicit(text, cursor); got != want {
			t.Fatalf("IsExplicit(%q, %d)=%v, want %v", text.Slice(0, text.Len()), cursor, got, want)
		}
	}

	text := NewText(sample)
	for _, c := range []int{0, 5, 6, 14, 15, 30} {
		check(text, c, false)
	}
	for _, c := range []int{31, 32, 39, 40, 43} {
		check(text, c, true)
	}

	text = NewText("@" + sample)
	check(text, 0, false)
	for _, c := range []int{1, 2, 5, 6, 7, 14} {
		check(text, c, true)
	}
	for _, c := range []int{15, 16, 27} {
		check(text, c, false)
	}
	// A mention must not be crossed while looking for a trigger.
	check(NewText("@"+sample, shoulongSpan), 27, false)

	text = NewText("\n@")
	check(text, 0, false)
	check(text, 1, false)
	check(text, 2, true)

	text = NewText("@ @@")
	check(text, 0, false)
	check(text, 1, true)
	check(text, 4, false)

	text = NewText("@first second third")
	check(text, 0, false)
	for _, c := range []int{1, 6, 7, 8, 13} {
		check(text, c, true)
	}
	check(text, 14, false)
	check(text, 15, false)
}

func TestExplicitPrecedence(t *testing.T) {
	tk := New(DefaultConfig())
	text := NewText("Hello @Jo")
	cursor := text.Len()

	if !tk.IsExplicit(text, cursor) {
		t.Fatalf("expected explicit token")
	}
	r, ok := tk.ExplicitCharAt(text, cursor)
	if !ok || r != '@' {
		t.Fatalf("explicit char=%q ok=%v, want '@'", r, ok)
	}
	if got, want := tk.FindTokenStart(text, cursor), 6; got != want {
		t.Fatalf("token start=%d, want %d", got, want)
	}
	tok, ok := tk.Token(text, cursor)
	if !ok {
		t.Fatalf("expected valid token")
	}
	if tok.Raw != "@Jo" || tok.Keywords() != "Jo" || !tok.IsExplicit() {
		t.Fatalf("token=%+v keywords=%q", tok, tok.Keywords())
	}
}

func TestSearchStart(t *testing.T) {
	tk := newTestTokenizer()
	text := NewText(sample, shoulongSpan)

	cases := []struct{ cursor, want int }{
		{0, 0}, {6, 0}, {14, 0},
		{26, 25}, {30, 25}, {35, 25}, {40, 25},
	}
	for _, tc := range cases {
		if got := tk.SearchStart(text, tc.cursor); got != tc.want {
			t.Fatalf("SearchStart(%d)=%d, want %d", tc.cursor, got, tc.want)
		}
	}
}

func TestSearchStartAndEnd_MultipleLines(t *testing.T) {
	tk := newTestTokenizer()
	text := NewText("Test \nmentions Shoulong Li a\nnd @Nathan Hi \n@Mi", Span{Start: 15, End: 26})

	starts := []struct{ cursor, want int }{
		{0, 0}, {5, 0},
		{6, 6}, {14, 6}, {15, 6},
		{28, 26},
		{29, 29}, {30, 29}, {33, 29},
		{43, 29},
		{44, 44}, {45, 44}, {47, 44},
	}
	for _, tc := range starts {
		if got := tk.SearchStart(text, tc.cursor); got != tc.want {
			t.Fatalf("SearchStart(%d)=%d, want %d", tc.cursor, got, tc.want)
		}
	}

	ends := []struct{ cursor, want int }{
		{0, 5}, {5, 5},
		{6, 15}, {14, 15}, {15, 15},
		{28, 28},
		{29, 43}, {33, 43}, {43, 43},
		{44, 47}, {47, 47},
	}
	for _, tc := range ends {
		if got := tk.SearchEnd(text, tc.cursor); got != tc.want {
			t.Fatalf("SearchEnd(%d)=%d, want %d", tc.cursor, got, tc.want)
		}
	}
}

func TestSearchEnd(t *testing.T) {
	tk := newTestTokenizer()
	text := NewText(sample, shoulongSpan)
	for _, c := range []int{0, 6, 14} {
		if got := tk.SearchEnd(text, c); got != 14 {
			t.Fatalf("SearchEnd(%d)=%d, want 14", c, got)
		}
	}
	for _, c := range []int{26, 30, 40} {
		if got := tk.SearchEnd(text, c); got != text.Len() {
			t.Fatalf("SearchEnd(%d)=%d, want %d", c, got, text.Len())
		}
	}
}

func TestIsValidMention(t *testing.T) {
	tk := newTestTokenizer()
	cases := []struct {
		text string
		want bool
	}{
		{"", false},
		{"ab ", false},
		{"  ", false},
		{"a b", false},
		{"a%b", false},
		{"@", true},
		{"@%b", false},
		{"mic", true},
		{"@m", true},
		{"@_", false},
		{"@ ", false},
		{"@,", false},
		{"@%", false},
		{"Jon@", false},
		{"Jon Caveman", true},
		{"@Jon Caveman", true},
	}
	for _, tc := range cases {
		text := NewText(tc.text)
		if got := tk.IsValidMention(text, 0, text.Len()); got != tc.want {
			t.Fatalf("IsValidMention(%q)=%v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestIsValidMention_ThresholdBoundary(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Threshold = 4
	tk := New(cfg)

	abc := NewText("abc")
	if tk.IsValidMention(abc, 0, 3) {
		t.Fatalf("3 letters should be below threshold 4")
	}
	abcd := NewText("abcd")
	if !tk.IsValidMention(abcd, 0, 4) {
		t.Fatalf("4 letters should meet threshold 4")
	}
}

func TestIsValidMention_ClampsBounds(t *testing.T) {
	tk := newTestTokenizer()
	text := NewText("mic")
	cases := []struct {
		start, end int
		want       bool
	}{
		{-1, 3, true},
		{0, 9, true},
		{-4, 12, true},
		{2, 1, false},
		{3, 3, false},
		{-5, -1, false},
		{9, 12, false},
	}
	for _, tc := range cases {
		if got := tk.IsValidMention(text, tc.start, tc.end); got != tc.want {
			t.Fatalf("IsValidMention(%d, %d)=%v, want %v", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestOnlyLettersOrDigits(t *testing.T) {
	tk := newTestTokenizer()
	cases := []struct {
		s            string
		count, start int
		want         bool
	}{
		{"123", 3, -1, false},
		{"1b3", 3, 0, true},
		{"1b3", 3, 1, false},
		{"1b3", 3, 2, false},
		{"1b3", 3, 4, false},
		{"1 a", 3, 0, false},
		{"1a ", 3, 0, false},
		{" 1a", 3, 1, false},
		{"a'1", 3, 0, false},
		{"Jon Caveman", 3, 4, true},
	}
	for _, tc := range cases {
		if got := tk.OnlyLettersOrDigits(tc.s, tc.count, tc.start); got != tc.want {
			t.Fatalf("OnlyLettersOrDigits(%q, %d, %d)=%v, want %v", tc.s, tc.count, tc.start, got, tc.want)
		}
	}
}

func TestHasWordBreakBeforeExplicit(t *testing.T) {
	tk := newTestTokenizer()
	cases := []struct {
		text string
		want bool
	}{
		{"Hi @John Doe", true},
		{"Hi@John Doe", false},
		{"John Doe", false},
	}
	for _, tc := range cases {
		text := NewText(tc.text)
		if got := tk.HasWordBreakBeforeExplicit(text, text.Len()); got != tc.want {
			t.Fatalf("HasWordBreakBeforeExplicit(%q)=%v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestTokenRoundTrip_Implicit(t *testing.T) {
	tk := newTestTokenizer()
	text := NewText("say hello world")
	cursor := text.Len()

	start := tk.FindTokenStart(text, cursor)
	end := tk.FindTokenEnd(text, cursor)
	if got, want := text.Slice(start, end), "hello world"; got != want {
		t.Fatalf("token=%q, want %q", got, want)
	}
	if !tk.IsValidMention(text, start, end) {
		t.Fatalf("round-tripped token should be valid")
	}
	tok, ok := tk.Token(text, cursor)
	if !ok || tok.Raw != "hello world" || tok.IsExplicit() {
		t.Fatalf("token=%+v ok=%v", tok, ok)
	}
}

func TestFindTokenStart_DoubleBreakTruncates(t *testing.T) {
	tk := newTestTokenizer()
	text := NewText("hello  world")
	if got, want := tk.FindTokenStart(text, text.Len()), 7; got != want {
		t.Fatalf("token start=%d, want %d", got, want)
	}
}

func TestOutOfRangeCursor_ClampsToZero(t *testing.T) {
	tk := newTestTokenizer()
	text := NewText("hello")
	for _, c := range []int{-5, 99} {
		if got := tk.FindTokenStart(text, c); got != 0 {
			t.Fatalf("FindTokenStart(%d)=%d, want 0", c, got)
		}
		if got := tk.FindTokenEnd(text, c); got != 5 {
			t.Fatalf("FindTokenEnd(%d)=%d, want 5", c, got)
		}
		if tk.IsExplicit(text, c) {
			t.Fatalf("IsExplicit(%d) should be false", c)
		}
	}
}

func TestGraphemeAwareTokens(t *testing.T) {
	tk := New(DefaultConfig())
	// "e" + combining acute counts as one character.
	text := NewText("hi @Rene\u0301e")
	cursor := text.Len()
	tok, ok := tk.Token(text, cursor)
	if !ok {
		t.Fatalf("expected token")
	}
	if got, want := tok.Keywords(), "Rene\u0301e"; got != want {
		t.Fatalf("keywords=%q, want %q", got, want)
	}
	if got, want := cursor, 9; got != want {
		t.Fatalf("len=%d, want %d", got, want)
	}
}

func TestNew_NormalizesConfig(t *testing.T) {
	tk := New(Config{})
	if got, want := tk.Config(), DefaultConfig(); got != want {
		t.Fatalf("config=%+v, want %+v", got, want)
	}
	tk = New(Config{ExplicitChars: "#", WordBreakChars: " "})
	cfg := tk.Config()
	if cfg.Threshold != defaultThreshold || cfg.MaxKeywords != defaultMaxKeywords || cfg.LineSeparator != "\n" {
		t.Fatalf("normalized=%+v", cfg)
	}
	if cfg.ExplicitChars != "#" {
		t.Fatalf("explicit chars=%q, want %q", cfg.ExplicitChars, "#")
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	bad := DefaultConfig()
	bad.Threshold = 0
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for threshold 0")
	}
	bad = DefaultConfig()
	bad.LineSeparator = ""
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for empty line separator")
	}
}

func TestQueryToken(t *testing.T) {
	a := NewExplicitQueryToken("@jo", '@')
	b := NewQueryToken("@jo")
	if !a.Equal(b) || a.Key() != b.Key() {
		t.Fatalf("tokens with equal raw text must be equal")
	}
	if got, want := a.Keywords(), "jo"; got != want {
		t.Fatalf("keywords=%q, want %q", got, want)
	}
	if got, want := b.Keywords(), "@jo"; got != want {
		t.Fatalf("implicit keywords=%q, want %q", got, want)
	}
}
