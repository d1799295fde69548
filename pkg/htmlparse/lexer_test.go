package htmlparse_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gohtmlrewrite/pkg/filters"
	"github.com/yaklabco/gohtmlrewrite/pkg/htmlparse"
)

const testURL = "http://example.com/page.html"

// rewriteOpts controls how a test document is driven through a context.
type rewriteOpts struct {
	chunkSize int  // 0 means one chunk
	flushEach bool // Flush after every chunk
	coalesce  bool
	extra     []htmlparse.Filter // run before the writer
}

// rewriteDoc parses input with the given filter chain ending in a Writer
// and returns the serialized output plus the recorded diagnostics.
func rewriteDoc(t *testing.T, input string, opts rewriteOpts) (string, *htmlparse.RecordingHandler) {
	t.Helper()

	handler := htmlparse.NewRecordingHandler()
	ctx := htmlparse.NewParseContext(handler)
	ctx.SetCoalescing(opts.coalesce)

	for _, f := range opts.extra {
		ctx.AddFilter(f)
	}
	var out strings.Builder
	w := filters.NewWriter(&out)
	ctx.AddFilter(w)

	require.True(t, ctx.StartParse(testURL))

	data := []byte(input)
	size := opts.chunkSize
	if size <= 0 {
		size = len(data)
	}
	for len(data) > 0 {
		n := size
		if n > len(data) {
			n = len(data)
		}
		ctx.ParseChunk(data[:n])
		data = data[n:]
		if opts.flushEach {
			ctx.Flush()
		}
	}
	ctx.FinishParse()

	require.NoError(t, w.Err())
	return out.String(), handler
}

// roundTripCases is the shared battery: every input here must survive a
// parse-and-serialize cycle byte for byte.
var roundTripCases = []struct {
	name  string
	input string
}{
	{"plain text", "just some text, no markup at all"},
	{"simple element", "<div>hello</div>"},
	{"nested elements", "<html><body><div><b>deep</b></div></body></html>"},
	{"double quoted attr", `<a href="http://x/">link</a>`},
	{"single quoted attr", "<a href='http://x/'>link</a>"},
	{"unquoted attr", "<a href=http://x/>link</a>"},
	{"no-value attr", "<input disabled>"},
	{"empty-value attr", `<input value="">`},
	{"mixed attrs", `<input type="text" value='' checked name=q>`},
	{"entities stay escaped", `<a title="a &amp; b &#65; &unknown;">x</a>`},
	{"brief close", "<thing/>"},
	{"unquoted value ending in slash", "<img src=x/>"},
	{"slash jammed on never-brief tag", "<a/>x</a>"},
	{"spaced slash on never-brief tag", "<div / id=x>y</div>"},
	{"slash only on never-brief tag", "<span /></span>"},
	{"slash ending attr name", "<div id/>y</div>"},
	{"double-spaced attrs", "<div  a=1\tb=2>gap</div>"},
	{"implicit close tags", `<br><hr><img src="i.png"><meta charset=utf-8>`},
	{"auto-close paragraphs", "<p>one<p>two<p>three"},
	{"auto-close list items", "<ul><li>a<li>b</ul>"},
	{"comment", "a<!-- a comment -->b"},
	{"comment with dashes", "a<!-- x - y -- z -->b"},
	{"comment extra leading dash", "<!---x-->"},
	{"doctype", "<!DOCTYPE html><html></html>"},
	{"processing directive", `<?xml version="1.0"?>`},
	{"cdata", "a<![CDATA[raw <stuff> & things]]>b"},
	{"cdata with brackets", "<![CDATA[a]b]]c]]>"},
	{"ie conditional comment", `<!--[if IE 6]><p>old</p><![endif]-->`},
	{"ie revealed conditional", `<![if !IE]><p>new</p><![endif]>`},
	{"literal script", `<script>if (a < b && c) { d("</div>"); }</script>`},
	{"literal style", "<style>a > b { color: red }</style>"},
	{"literal textarea", "<textarea><div>not a tag</div></textarea>"},
	{"lone less-than", "3 < 5 and 6 > 2"},
	{"double less-than", "a<<b>c</b>"},
	{"bare ampersand text", "fish & chips"},
	{"unmatched close tag", "a</nope>b"},
	{"empty close tag", "a</>b"},
	{"nul byte in text", "a\x00b"},
	{"newlines", "<div>\n  <p>one\n  <p>two\n</div>\n"},
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()
	for _, tt := range roundTripCases {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, _ := rewriteDoc(t, tt.input, rewriteOpts{coalesce: true})
			assert.Equal(t, tt.input, out)
		})
	}
}

func TestRoundTripByteAtATime(t *testing.T) {
	t.Parallel()
	for _, tt := range roundTripCases {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, _ := rewriteDoc(t, tt.input, rewriteOpts{chunkSize: 1, coalesce: true})
			assert.Equal(t, tt.input, out)
		})
	}
}

// TestRoundTripFlushEveryByte drives each document one byte at a time with
// a window flush after every byte. Output must still be byte-exact: text
// and literal bodies under construction are never split by a flush.
func TestRoundTripFlushEveryByte(t *testing.T) {
	t.Parallel()
	for _, tt := range roundTripCases {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, _ := rewriteDoc(t, tt.input, rewriteOpts{chunkSize: 1, flushEach: true, coalesce: true})
			assert.Equal(t, tt.input, out)
		})
	}
}

// TestNormalizingRewrites covers the quirks that deliberately do not
// round-trip: a dangling slash in a tag that honors "/>" and close-tag
// attributes are consumed with a warning, so serialization canonicalizes
// them away.
func TestNormalizingRewrites(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		want     string
		wantWarn bool
	}{
		{"dangling slash in brief-closable tag", "<img / src=x>", "<img src=x>", true},
		{"dangling slash glued to next attr", "<img /src=x>", "<img src=x>", true},
		{"dangling slash glued to tag name", "<img/src=x>", "<img src=x>", true},
		{"attrs on close tag", `<div>x</div id="junk">`, "<div>x</div>", true},
		{"space before close-tag gt", "<script>x<y</script >after", "<script>x<y</script>after", false},
		{"slash on close tag", "<b>x</b/>", "<b>x</b>", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, handler := rewriteDoc(t, tt.input, rewriteOpts{coalesce: true})
			assert.Equal(t, tt.want, out)
			if tt.wantWarn {
				assert.GreaterOrEqual(t, handler.CountAtLeast(htmlparse.LevelWarning), 1)
			}
		})
	}
}

func TestLexerWarnings(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		minWarns int
	}{
		{"well-formed is quiet", "<div><p>x</p></div>", 0},
		{"unmatched close tag", "a</nope>b", 1},
		{"unclosed element at eof", "<div>x", 1},
		{"unterminated comment", "<!-- never ends", 1},
		{"unterminated tag", "<div cla", 1},
		{"close-tag stack recovery", "<b><i>x</b>", 1},
		{"dangling slash mid-tag", "<img / >x", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, handler := rewriteDoc(t, tt.input, rewriteOpts{coalesce: true})
			warns := handler.CountAtLeast(htmlparse.LevelWarning)
			if tt.minWarns == 0 {
				assert.Zero(t, warns)
			} else {
				assert.GreaterOrEqual(t, warns, tt.minWarns)
			}
		})
	}
}

// TestUnclosedLiteral checks that an unterminated <script> still produces
// a balanced EndElement for filters while the serializer emits no close
// tag that was never in the source.
func TestUnclosedLiteral(t *testing.T) {
	t.Parallel()

	collector := filters.NewCollector()
	out, handler := rewriteDoc(t, "<html><script>var x = 1;", rewriteOpts{
		coalesce: true,
		extra:    []htmlparse.Filter{collector},
	})

	assert.Equal(t, "<html><script>var x = 1;", out)
	assert.GreaterOrEqual(t, handler.CountAtLeast(htmlparse.LevelWarning), 2)

	trace := collector.Trace()
	assert.Contains(t, trace, "(script)")
	assert.Contains(t, trace, "(/script unclosed)")
	assert.Contains(t, trace, "(/html unclosed)")
}

func TestCloseStyles(t *testing.T) {
	t.Parallel()

	collector := filters.NewCollector()
	input := `<div><p>a<p>b</p><br><thing/><i>x</div>`
	_, _ = rewriteDoc(t, input, rewriteOpts{
		coalesce: true,
		extra:    []htmlparse.Filter{collector},
	})

	trace := collector.Trace()
	assert.Contains(t, trace, "(/p auto)")
	assert.Contains(t, trace, "(/p explicit)")
	assert.Contains(t, trace, "(/br implicit)")
	assert.Contains(t, trace, "(/thing brief)")
	assert.Contains(t, trace, "(/i unclosed)")
	assert.Contains(t, trace, "(/div explicit)")
}

// TestIEDirectiveShapes checks all four conditional-comment markers parse
// as IEDirective nodes carrying their raw text, with the guarded content
// still tokenized normally.
func TestIEDirectiveShapes(t *testing.T) {
	t.Parallel()

	collector := filters.NewCollector()
	input := `<!--[if lt IE 9]><b>old</b><![endif]--><![if !IE]><i>new</i><![endif]>`
	out, handler := rewriteDoc(t, input, rewriteOpts{
		coalesce: true,
		extra:    []htmlparse.Filter{collector},
	})

	assert.Equal(t, input, out)
	assert.Zero(t, handler.CountAtLeast(htmlparse.LevelWarning))

	trace := collector.Trace()
	assert.Contains(t, trace, "ie <!--[if lt IE 9]>")
	assert.Contains(t, trace, "ie <![endif]-->")
	assert.Contains(t, trace, "ie <![if !IE]>")
	assert.Contains(t, trace, "ie <![endif]>")
	// The guarded markup is real events, not opaque text.
	assert.Contains(t, trace, "(b)")
	assert.Contains(t, trace, "(i)")
}

func TestLineNumbers(t *testing.T) {
	t.Parallel()

	handler := htmlparse.NewRecordingHandler()
	ctx := htmlparse.NewParseContext(handler)
	require.True(t, ctx.StartParse(testURL))
	ctx.ParseChunk([]byte("line one\nline two\n<div>\n</nope>\n"))
	ctx.FinishParse()

	msgs := handler.Messages()
	require.NotEmpty(t, msgs)
	found := false
	for _, m := range msgs {
		if m.Level == htmlparse.LevelWarning && strings.Contains(m.Text, "</nope>") {
			assert.Equal(t, 4, m.Line)
			assert.Equal(t, testURL, m.File)
			found = true
		}
	}
	assert.True(t, found, "expected a warning for the unmatched close tag")
}
