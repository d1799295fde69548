package htmldom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gohtmlrewrite/pkg/htmldom"
)

func chars(text string) htmldom.Event {
	n := htmldom.NewLeafNode(htmldom.NodeCharacters, nil, text)
	return htmldom.LeafEvent(n, 1)
}

func queueTexts(q *htmldom.EventQueue) []string {
	var out []string
	for r := q.First(); r != htmldom.NilRef; r = q.Next(r) {
		out = append(out, q.Event(r).Node.Text)
	}
	return out
}

func TestQueuePushAndIterate(t *testing.T) {
	t.Parallel()

	q := htmldom.NewEventQueue()
	assert.Equal(t, htmldom.NilRef, q.First())

	a := q.PushBack(chars("a"))
	b := q.PushBack(chars("b"))
	c := q.PushBack(chars("c"))

	assert.Equal(t, 3, q.Len())
	assert.Equal(t, []string{"a", "b", "c"}, queueTexts(q))
	assert.Equal(t, a, q.First())
	assert.Equal(t, c, q.Last())
	assert.Equal(t, b, q.Next(a))
	assert.Equal(t, b, q.Prev(c))
}

func TestQueueInsertRemove(t *testing.T) {
	t.Parallel()

	q := htmldom.NewEventQueue()
	a := q.PushBack(chars("a"))
	c := q.PushBack(chars("c"))

	b := q.InsertAfter(a, chars("b"))
	assert.Equal(t, []string{"a", "b", "c"}, queueTexts(q))

	z := q.InsertBefore(a, chars("z"))
	assert.Equal(t, []string{"z", "a", "b", "c"}, queueTexts(q))
	assert.Equal(t, z, q.First())

	q.Remove(b)
	assert.Equal(t, []string{"z", "a", "c"}, queueTexts(q))
	assert.False(t, q.Valid(b))
	assert.True(t, q.Valid(c))

	// Refs to surviving events stay valid across removal.
	assert.Equal(t, "c", q.Event(c).Node.Text)

	q.Remove(z)
	q.Remove(a)
	q.Remove(c)
	assert.Zero(t, q.Len())
	assert.Equal(t, htmldom.NilRef, q.First())
	assert.Equal(t, htmldom.NilRef, q.Last())
}

func TestQueueFreeListReuse(t *testing.T) {
	t.Parallel()

	q := htmldom.NewEventQueue()
	a := q.PushBack(chars("a"))
	q.PushBack(chars("b"))
	q.Remove(a)

	// The freed slot is reused for the next allocation.
	c := q.PushBack(chars("c"))
	assert.Equal(t, a, c)
	assert.Equal(t, []string{"b", "c"}, queueTexts(q))
}

func TestQueueSplice(t *testing.T) {
	t.Parallel()

	q := htmldom.NewEventQueue()
	a := q.PushBack(chars("a"))
	b := q.PushBack(chars("b"))
	c := q.PushBack(chars("c"))
	d := q.PushBack(chars("d"))

	require.True(t, q.Reachable(b, c))
	require.False(t, q.Reachable(c, b))

	// Move [b..c] before a.
	q.SpliceBefore(b, c, a)
	assert.Equal(t, []string{"b", "c", "a", "d"}, queueTexts(q))

	// Refs inside the spliced run stay valid.
	assert.Equal(t, "b", q.Event(b).Node.Text)
	assert.Equal(t, c, q.Next(b))

	// Splice a single-event run to before the tail.
	q.SpliceBefore(a, a, d)
	assert.Equal(t, []string{"b", "c", "a", "d"}, queueTexts(q))

	q.SpliceBefore(d, d, b)
	assert.Equal(t, []string{"d", "b", "c", "a"}, queueTexts(q))
}

func TestQueueStaleRefPanics(t *testing.T) {
	t.Parallel()

	q := htmldom.NewEventQueue()
	a := q.PushBack(chars("a"))
	q.Remove(a)

	assert.Panics(t, func() { q.Event(a) })
	assert.Panics(t, func() { q.Next(a) })

	q.PushBack(chars("b"))
	q.Clear()
	assert.Panics(t, func() { q.First(); q.Event(0) })
}

func TestQueueSpliceBadRunPanics(t *testing.T) {
	t.Parallel()

	q := htmldom.NewEventQueue()
	a := q.PushBack(chars("a"))
	b := q.PushBack(chars("b"))
	c := q.PushBack(chars("c"))

	// last precedes first: not a forward run.
	assert.Panics(t, func() { q.SpliceBefore(b, a, c) })
}
