package htmlparse_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gohtmlrewrite/pkg/filters"
	"github.com/yaklabco/gohtmlrewrite/pkg/htmldom"
	"github.com/yaklabco/gohtmlrewrite/pkg/htmlparse"
)

func TestStartParseURLValidation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		rawURL string
		want   bool
	}{
		{"http url", "http://example.com/a.html", true},
		{"https url", "https://example.com/", true},
		{"file url", "file:///tmp/page.html", true},
		{"empty", "", false},
		{"relative path", "some/relative/path.html", false},
		{"no scheme", "//example.com/x", false},
		{"spaces", "not a url", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := htmlparse.NewParseContext(htmlparse.NewRecordingHandler())
			got := ctx.StartParse(tt.rawURL)
			assert.Equal(t, tt.want, got)
			if got {
				ctx.FinishParse()
			}
		})
	}
}

func TestAddFilterMidParseIsFatal(t *testing.T) {
	t.Parallel()

	handler := htmlparse.NewRecordingHandler()
	ctx := htmlparse.NewParseContext(handler)
	require.True(t, ctx.StartParse(testURL))
	require.Panics(t, func() {
		ctx.AddFilter(filters.NewCollector())
	})
	assert.GreaterOrEqual(t, handler.CountAtLeast(htmlparse.LevelFatal), 1)
}

// disabledFilter opts out of every document and records whether any event
// ever reached it regardless.
type disabledFilter struct {
	htmlparse.BaseFilter
	sawEvent bool
}

func (f *disabledFilter) DetermineEnabled() (bool, string) {
	return false, "wrong content type"
}

func (f *disabledFilter) StartDocument()               { f.sawEvent = true }
func (f *disabledFilter) StartElement(_ *htmldom.Node) { f.sawEvent = true }
func (f *disabledFilter) Characters(_ *htmldom.Node)   { f.sawEvent = true }
func (f *disabledFilter) Flush()                       { f.sawEvent = true }

func TestDetermineEnabled(t *testing.T) {
	t.Parallel()

	handler := htmlparse.NewRecordingHandler()
	ctx := htmlparse.NewParseContext(handler)
	off := &disabledFilter{BaseFilter: htmlparse.NewBaseFilter("picky")}
	collector := filters.NewCollector()
	ctx.AddFilter(off)
	ctx.AddFilter(collector)

	require.True(t, ctx.StartParse(testURL))
	ctx.ParseChunk([]byte("<div>x</div>"))
	ctx.FinishParse()

	assert.False(t, off.sawEvent)
	assert.NotEmpty(t, collector.Trace(), "enabled filters still run")
	assert.Equal(t, map[string]string{"picky": "wrong content type"}, ctx.DisabledFilters())
	assert.GreaterOrEqual(t, handler.CountAtLeast(htmlparse.LevelInfo), 1)
}

// TestEventListener checks that listeners see events as the lexer produces
// them, before any filter mutates, and are excluded from dynamic disable.
func TestEventListener(t *testing.T) {
	t.Parallel()

	ctx := htmlparse.NewParseContext(htmlparse.NewRecordingHandler())
	listener := filters.NewCollector()
	ctx.AddEventListener(listener)

	deleter := newHookFilter()
	deleter.onComment = func(n *htmldom.Node) {
		ctx.DeleteNode(n)
	}
	ctx.AddFilter(deleter)

	require.True(t, ctx.StartParse(testURL))
	ctx.ParseChunk([]byte("a<!--x-->b"))
	ctx.FinishParse()

	// The listener saw the comment even though a filter deleted it.
	assert.Contains(t, listener.Trace(), "comment x")
	assert.Equal(t, 1, listener.Flushes())
}

func TestFlushCounts(t *testing.T) {
	t.Parallel()

	ctx := htmlparse.NewParseContext(htmlparse.NewRecordingHandler())
	collector := filters.NewCollector()
	ctx.AddFilter(collector)

	require.True(t, ctx.StartParse(testURL))
	ctx.ParseChunk([]byte("<p>a"))
	ctx.Flush()
	ctx.ParseChunk([]byte("<p>b"))
	ctx.Flush()
	ctx.ParseChunk([]byte("<p>c"))
	ctx.FinishParse()

	assert.Equal(t, 3, collector.Flushes())
}

func TestContentType(t *testing.T) {
	t.Parallel()

	ctx := htmlparse.NewParseContext(htmlparse.NewRecordingHandler())
	require.True(t, ctx.StartParseWithContentType(testURL, "text/html; charset=utf-8"))
	assert.Equal(t, "text/html; charset=utf-8", ctx.ContentType())
	assert.Equal(t, testURL, ctx.URL())
	ctx.FinishParse()
}

// TestContextReuse runs two documents through one context; per-document
// state (symbols, disabled set, node sequence) must reset in between.
func TestContextReuse(t *testing.T) {
	t.Parallel()

	ctx := htmlparse.NewParseContext(htmlparse.NewRecordingHandler())
	var out strings.Builder
	ctx.AddFilter(filters.NewWriter(&out))

	require.True(t, ctx.StartParse("http://example.com/one.html"))
	ctx.ParseChunk([]byte("<p>first</p>"))
	ctx.FinishParse()

	first := out.String()
	out.Reset()

	require.True(t, ctx.StartParse("http://example.com/two.html"))
	ctx.ParseChunk([]byte("<p>second</p>"))
	ctx.FinishParse()

	assert.Equal(t, "<p>first</p>", first)
	assert.Equal(t, "<p>second</p>", out.String())
}

// TestConcurrentContexts runs independent contexts on separate goroutines
// sharing one recording handler, the supported concurrency shape.
func TestConcurrentContexts(t *testing.T) {
	t.Parallel()

	handler := htmlparse.NewRecordingHandler()
	docs := []string{
		"<div><p>a<p>b</div>",
		"<script>var x;</script>",
		"plain text </nope>",
		`<a href="http://x/">link</a>`,
	}

	done := make(chan string, len(docs))
	for _, doc := range docs {
		go func(doc string) {
			ctx := htmlparse.NewParseContext(handler)
			var out strings.Builder
			ctx.AddFilter(filters.NewWriter(&out))
			if !ctx.StartParse(testURL) {
				done <- ""
				return
			}
			for i := 0; i < len(doc); i++ {
				ctx.ParseChunk([]byte{doc[i]})
			}
			ctx.FinishParse()
			done <- out.String()
		}(doc)
	}

	got := make(map[string]bool)
	for range docs {
		got[<-done] = true
	}
	for _, doc := range docs {
		assert.True(t, got[doc], "missing round-tripped document %q", doc)
	}
}

func TestInternerSharedWithContext(t *testing.T) {
	t.Parallel()

	ctx := htmlparse.NewParseContext(htmlparse.NewRecordingHandler())
	require.True(t, ctx.StartParse(testURL))
	defer ctx.FinishParse()

	base := ctx.Symbols().StoredBytes()
	ctx.Intern("div") // canonical keyword spelling
	assert.Equal(t, base, ctx.Symbols().StoredBytes())

	ctx.Intern("data-custom")
	assert.Greater(t, ctx.Symbols().StoredBytes(), base)
}
