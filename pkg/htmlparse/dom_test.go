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

// hookFilter lets a test hang mutation logic on individual callbacks.
type hookFilter struct {
	htmlparse.BaseFilter
	onStartElement func(*htmldom.Node)
	onEndElement   func(*htmldom.Node)
	onCharacters   func(*htmldom.Node)
	onComment      func(*htmldom.Node)
}

func newHookFilter() *hookFilter {
	return &hookFilter{BaseFilter: htmlparse.NewBaseFilter("hook")}
}

func (f *hookFilter) StartElement(n *htmldom.Node) {
	if f.onStartElement != nil {
		f.onStartElement(n)
	}
}

func (f *hookFilter) EndElement(n *htmldom.Node) {
	if f.onEndElement != nil {
		f.onEndElement(n)
	}
}

func (f *hookFilter) Characters(n *htmldom.Node) {
	if f.onCharacters != nil {
		f.onCharacters(n)
	}
}

func (f *hookFilter) Comment(n *htmldom.Node) {
	if f.onComment != nil {
		f.onComment(n)
	}
}

// mutateDoc parses input with hook ahead of a Writer and returns the
// rewritten output. The hook is wired to ctx by the caller's closures.
func mutateDoc(t *testing.T, input string, ctx *htmlparse.ParseContext, hook htmlparse.Filter) string {
	t.Helper()

	var out strings.Builder
	ctx.AddFilter(hook)
	ctx.AddFilter(filters.NewWriter(&out))
	require.True(t, ctx.StartParse(testURL))
	ctx.ParseChunk([]byte(input))
	ctx.FinishParse()
	return out.String()
}

// TestWrapTextRun splits a text node and wraps the front part in a new
// span, exercising insertion, deletion at the cursor, and
// AddParentToSequence in one mutation.
func TestWrapTextRun(t *testing.T) {
	t.Parallel()

	ctx := htmlparse.NewParseContext(htmlparse.NewRecordingHandler())
	hook := newHookFilter()
	hook.onCharacters = func(n *htmldom.Node) {
		if n.Text != "123" {
			return
		}
		front := ctx.NewCharactersNode(n.Parent, "12")
		ctx.InsertNodeBeforeNode(n, front)
		back := ctx.NewCharactersNode(n.Parent, "3")
		ctx.InsertNodeBeforeNode(n, back)
		ctx.DeleteNode(n)

		span := ctx.NewElement(n.Parent, "span")
		require.True(t, ctx.AddParentToSequence(front, front, span))
	}

	out := mutateDoc(t, "<div>123</div>", ctx, hook)
	assert.Equal(t, "<div><span>12</span>3</div>", out)
}

// TestCoalescingMerge deletes the comments separating three text runs;
// the maintenance pass must merge the runs into one node whose deletion
// then removes all the merged text.
func TestCoalescingMerge(t *testing.T) {
	t.Parallel()

	ctx := htmlparse.NewParseContext(htmlparse.NewRecordingHandler())
	deleter := newHookFilter()
	deleter.onComment = func(n *htmldom.Node) {
		ctx.DeleteNode(n)
	}

	var seen []string
	watcher := newHookFilter()
	watcher.onCharacters = func(n *htmldom.Node) {
		seen = append(seen, n.Text)
	}

	var out strings.Builder
	ctx.AddFilter(deleter)
	ctx.AddFilter(watcher)
	ctx.AddFilter(filters.NewWriter(&out))
	require.True(t, ctx.StartParse(testURL))
	ctx.ParseChunk([]byte("1<!--a-->2<!--b-->3"))
	ctx.FinishParse()

	assert.Equal(t, []string{"123"}, seen)
	assert.Equal(t, "123", out.String())
}

func TestDeleteMergedText(t *testing.T) {
	t.Parallel()

	ctx := htmlparse.NewParseContext(htmlparse.NewRecordingHandler())
	deleter := newHookFilter()
	deleter.onComment = func(n *htmldom.Node) {
		ctx.DeleteNode(n)
	}
	dropText := newHookFilter()
	dropText.onCharacters = func(n *htmldom.Node) {
		if n.Text == "123" {
			ctx.DeleteNode(n)
		}
	}

	var out strings.Builder
	ctx.AddFilter(deleter)
	ctx.AddFilter(dropText)
	ctx.AddFilter(filters.NewWriter(&out))
	require.True(t, ctx.StartParse(testURL))
	ctx.ParseChunk([]byte("1<!--a-->2<!--b-->3"))
	ctx.FinishParse()

	assert.Equal(t, "", out.String())
}

func TestNoCoalescing(t *testing.T) {
	t.Parallel()

	ctx := htmlparse.NewParseContext(htmlparse.NewRecordingHandler())
	ctx.SetCoalescing(false)
	deleter := newHookFilter()
	deleter.onComment = func(n *htmldom.Node) {
		ctx.DeleteNode(n)
	}
	var seen []string
	watcher := newHookFilter()
	watcher.onCharacters = func(n *htmldom.Node) {
		seen = append(seen, n.Text)
	}

	ctx.AddFilter(deleter)
	ctx.AddFilter(watcher)
	require.True(t, ctx.StartParse(testURL))
	ctx.ParseChunk([]byte("1<!--a-->2<!--b-->3"))
	ctx.FinishParse()

	assert.Equal(t, []string{"1", "2", "3"}, seen)
}

func TestDeleteSavingChildren(t *testing.T) {
	t.Parallel()

	ctx := htmlparse.NewParseContext(htmlparse.NewRecordingHandler())
	hook := newHookFilter()
	hook.onStartElement = func(n *htmldom.Node) {
		if n.Elem.Name.String() == "div" {
			ctx.DeleteSavingChildren(n)
		}
	}

	out := mutateDoc(t, "a<div><b>x</b>y</div>z", ctx, hook)
	assert.Equal(t, "a<b>x</b>yz", out)
}

func TestReplaceNode(t *testing.T) {
	t.Parallel()

	ctx := htmlparse.NewParseContext(htmlparse.NewRecordingHandler())
	hook := newHookFilter()
	hook.onComment = func(n *htmldom.Node) {
		ctx.ReplaceNode(n, ctx.NewCharactersNode(n.Parent, "X"))
	}

	out := mutateDoc(t, "a<!--gone-->b", ctx, hook)
	assert.Equal(t, "aXb", out)
}

func TestInsertAroundCurrent(t *testing.T) {
	t.Parallel()

	ctx := htmlparse.NewParseContext(htmlparse.NewRecordingHandler())
	hook := newHookFilter()
	hook.onCharacters = func(n *htmldom.Node) {
		if n.Text != "mid" {
			return
		}
		ctx.InsertNodeBeforeCurrent(ctx.NewCommentNode(n.Parent, "pre"))
		ctx.InsertNodeAfterCurrent(ctx.NewCommentNode(n.Parent, "post"))
	}

	out := mutateDoc(t, "<p>mid</p>", ctx, hook)
	assert.Equal(t, "<p><!--pre-->mid<!--post--></p>", out)
}

func TestMoveNodeInto(t *testing.T) {
	t.Parallel()

	ctx := htmlparse.NewParseContext(htmlparse.NewRecordingHandler())
	var target *htmldom.Node
	hook := newHookFilter()
	hook.onEndElement = func(n *htmldom.Node) {
		switch n.Elem.Name.String() {
		case "div":
			target = n
		case "span":
			require.True(t, ctx.MoveNodeInto(n, target))
		}
	}

	out := mutateDoc(t, "<div>a</div><span>m</span>", ctx, hook)
	assert.Equal(t, "<div>a<span>m</span></div>", out)
}

func TestMoveNodeBefore(t *testing.T) {
	t.Parallel()

	ctx := htmlparse.NewParseContext(htmlparse.NewRecordingHandler())
	var target *htmldom.Node
	hook := newHookFilter()
	hook.onEndElement = func(n *htmldom.Node) {
		switch n.Elem.Name.String() {
		case "div":
			if target == nil {
				target = n
			}
		case "span":
			require.True(t, ctx.MoveNodeBefore(n, target))
		}
	}

	out := mutateDoc(t, "<div>a</div><span>m</span>", ctx, hook)
	assert.Equal(t, "<span>m</span><div>a</div>", out)
}

// TestMoveRejections covers the qualifying conditions: moves answer false
// instead of corrupting the sequence.
func TestMoveRejections(t *testing.T) {
	t.Parallel()

	ctx := htmlparse.NewParseContext(htmlparse.NewRecordingHandler())
	hook := newHookFilter()
	hook.onEndElement = func(n *htmldom.Node) {
		if n.Elem.Name.String() != "div" {
			return
		}
		// Identity move.
		assert.False(t, ctx.MoveNodeInto(n, n))
		// Moving an ancestor into its descendant.
		inner := n.Parent
		for inner != nil {
			assert.False(t, ctx.MoveNodeInto(inner, n))
			inner = inner.Parent
		}
	}

	out := mutateDoc(t, "<section><div>x</div></section>", ctx, hook)
	assert.Equal(t, "<section><div>x</div></section>", out)
}

func TestAddParentRejectsSplitRuns(t *testing.T) {
	t.Parallel()

	ctx := htmlparse.NewParseContext(htmlparse.NewRecordingHandler())
	var first *htmldom.Node
	hook := newHookFilter()
	hook.onCharacters = func(n *htmldom.Node) {
		switch n.Text {
		case "a":
			first = n
		case "b":
			// first and n live under different parents.
			wrap := ctx.NewElement(first.Parent, "span")
			assert.False(t, ctx.AddParentToSequence(first, n, wrap))
		}
	}

	out := mutateDoc(t, "<p>a</p><div>b</div>", ctx, hook)
	assert.Equal(t, "<p>a</p><div>b</div>", out)
}

func TestHasChildrenInWindow(t *testing.T) {
	t.Parallel()

	ctx := htmlparse.NewParseContext(htmlparse.NewRecordingHandler())
	got := map[string]bool{}
	hook := newHookFilter()
	hook.onEndElement = func(n *htmldom.Node) {
		got[n.Elem.Name.String()] = ctx.HasChildrenInWindow(n)
	}

	mutateDoc(t, "<div>x</div><p></p>", ctx, hook)
	assert.True(t, got["div"])
	assert.False(t, got["p"])
}

func TestCloneElement(t *testing.T) {
	t.Parallel()

	ctx := htmlparse.NewParseContext(htmlparse.NewRecordingHandler())
	cloned := false
	hook := newHookFilter()
	hook.onEndElement = func(n *htmldom.Node) {
		// The inserted clone's own end event reaches this callback too.
		if cloned || n.Elem.Name.String() != "a" {
			return
		}
		cloned = true
		clone := ctx.CloneElement(n)
		assert.False(t, clone.Bound())
		assert.Equal(t, "a", clone.Elem.Name.String())
		require.Len(t, clone.Elem.Attributes, 1)
		v, ok := clone.Elem.Attributes[0].EscapedValue()
		assert.True(t, ok)
		assert.Equal(t, "http://x/", v)
		ctx.InsertNodeAfterNode(n, clone)
	}

	out := mutateDoc(t, `<a href="http://x/">t</a>`, ctx, hook)
	assert.Equal(t, `<a href="http://x/">t</a><a href="http://x/"></a>`, out)
}

// TestMutationMisuse checks that the unambiguous filter bugs are fatal:
// the handler records the fatal diagnostic and the context panics.
func TestMutationMisuse(t *testing.T) {
	t.Parallel()

	t.Run("double delete", func(t *testing.T) {
		t.Parallel()
		handler := htmlparse.NewRecordingHandler()
		ctx := htmlparse.NewParseContext(handler)
		hook := newHookFilter()
		hook.onComment = func(n *htmldom.Node) {
			ctx.DeleteNode(n)
			ctx.DeleteNode(n)
		}
		ctx.AddFilter(hook)
		require.True(t, ctx.StartParse(testURL))
		require.Panics(t, func() {
			ctx.ParseChunk([]byte("<!--x-->"))
			ctx.FinishParse()
		})
		assert.GreaterOrEqual(t, handler.CountAtLeast(htmlparse.LevelFatal), 1)
	})

	t.Run("inserting a bound node", func(t *testing.T) {
		t.Parallel()
		handler := htmlparse.NewRecordingHandler()
		ctx := htmlparse.NewParseContext(handler)
		hook := newHookFilter()
		hook.onCharacters = func(n *htmldom.Node) {
			ctx.InsertNodeBeforeNode(n, n)
		}
		ctx.AddFilter(hook)
		require.True(t, ctx.StartParse(testURL))
		require.Panics(t, func() {
			ctx.ParseChunk([]byte("x"))
			ctx.FinishParse()
		})
		assert.GreaterOrEqual(t, handler.CountAtLeast(htmlparse.LevelFatal), 1)
	})
}

// TestConsistencyViolation corrupts a parent back-reference after a
// legitimate mutation; the deferred consistency pass must catch it.
func TestConsistencyViolation(t *testing.T) {
	t.Parallel()

	handler := htmlparse.NewRecordingHandler()
	ctx := htmlparse.NewParseContext(handler)
	hook := newHookFilter()
	hook.onCharacters = func(n *htmldom.Node) {
		ctx.InsertNodeBeforeNode(n, ctx.NewCommentNode(n.Parent, "ok"))
		n.Parent = &htmldom.Node{}
	}
	ctx.AddFilter(hook)
	require.True(t, ctx.StartParse(testURL))
	require.Panics(t, func() {
		ctx.ParseChunk([]byte("<div>boom</div>"))
		ctx.FinishParse()
	})
	assert.GreaterOrEqual(t, handler.CountAtLeast(htmlparse.LevelFatal), 1)
}
