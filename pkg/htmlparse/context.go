// Package htmlparse provides the streaming HTML lexer, the parse context
// that buffers its events, the DOM-mutation API exposed to filters, and the
// driver that runs the filter chain at each flush.
package htmlparse

import (
	"fmt"
	"net/url"

	"github.com/yaklabco/gohtmlrewrite/pkg/htmldom"
	"github.com/yaklabco/gohtmlrewrite/pkg/htmlname"
)

// ParseContext owns one logical document: the lexer feeding it, the
// buffered event window, the registered filter chain, and the symbol table.
//
// A context is strictly single-threaded: StartParse, ParseChunk, Flush and
// FinishParse are synchronous and non-reentrant, and exactly one goroutine
// may use a context at a time. Separate contexts run concurrently without
// shared mutable state apart from an optional shared MessageHandler.
type ParseContext struct {
	handler MessageHandler
	symbols *htmlname.SymbolTable
	queue   *htmldom.EventQueue
	lexer   *lexer

	filters   []Filter
	listeners []Filter
	disabled  map[string]string // filter name -> reason, for this document

	urlStr      string
	contentType string
	parsing     bool

	// windowBase is the deepest element still open at the start of the
	// current flush window; the consistency pass seeds its expected-parent
	// walk from it.
	windowBase *htmldom.Node

	cursor        htmldom.EventRef
	cursorAtStart bool
	dispatching   bool

	coalescing bool
	mutated    bool

	nodeSeq int
}

// NewParseContext creates a parse context reporting through handler.
// A nil handler logs through the process-default logger.
func NewParseContext(handler MessageHandler) *ParseContext {
	if handler == nil {
		handler = NewLogHandler(nil)
	}
	return &ParseContext{
		handler:    handler,
		symbols:    htmlname.NewSymbolTable(),
		queue:      htmldom.NewEventQueue(),
		coalescing: true,
	}
}

// Handler returns the context's diagnostic sink.
func (c *ParseContext) Handler() MessageHandler { return c.handler }

// URL returns the document URL passed to StartParse. It is used only for
// resolving relative references and diagnostics; it is never fetched.
func (c *ParseContext) URL() string { return c.urlStr }

// ContentType returns the content type passed to StartParseWithContentType.
func (c *ParseContext) ContentType() string { return c.contentType }

// SetCoalescing toggles merging of adjacent Characters nodes (on by
// default). Must be set before StartParse.
func (c *ParseContext) SetCoalescing(enabled bool) { c.coalescing = enabled }

// AddFilter appends a filter to the chain. Filters run in registration
// order and must all be registered before StartParse.
func (c *ParseContext) AddFilter(f Filter) {
	if c.parsing {
		c.fatal(0, "AddFilter(%s) called mid-parse", f.Name())
	}
	c.filters = append(c.filters, f)
}

// AddEventListener registers a passive listener. Listeners see every event
// as the lexer produces it, before any filter runs, and must not mutate.
func (c *ParseContext) AddEventListener(f Filter) {
	if c.parsing {
		c.fatal(0, "AddEventListener(%s) called mid-parse", f.Name())
	}
	c.listeners = append(c.listeners, f)
}

// DisabledFilters returns the filters that reported themselves disabled
// for the current document, keyed by name, with their reasons.
func (c *ParseContext) DisabledFilters() map[string]string { return c.disabled }

// StartParse begins a new document. It returns false, without changing any
// state, if rawURL is not an absolute URL; the caller must not call
// ParseChunk after a false return.
func (c *ParseContext) StartParse(rawURL string) bool {
	return c.StartParseWithContentType(rawURL, "")
}

// StartParseWithContentType begins a new document with a declared content
// type. The content type is advisory; it is surfaced to filters via
// ContentType and does not change tokenization.
func (c *ParseContext) StartParseWithContentType(rawURL, contentType string) bool {
	if c.parsing {
		c.fatal(0, "StartParse called while a parse is active")
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" {
		return false
	}

	c.urlStr = rawURL
	c.contentType = contentType
	c.parsing = true
	c.symbols = htmlname.NewSymbolTable()
	c.queue.Clear()
	c.lexer = newLexer(c)
	c.windowBase = nil
	c.mutated = false
	c.nodeSeq = 0
	c.disabled = make(map[string]string)

	for _, f := range c.filters {
		enabled, reason := f.DetermineEnabled()
		if !enabled {
			c.disabled[f.Name()] = reason
			c.handler.Info(c.urlStr, 0, "filter %s disabled: %s", f.Name(), reason)
		}
	}

	c.postEvent(htmldom.Event{Kind: htmldom.EventStartDocument, Line: 1})
	return true
}

// ParseChunk feeds a chunk of document bytes to the lexer. Chunks may be
// of any size and may split tags, entities, or multi-byte sequences at any
// byte boundary.
func (c *ParseContext) ParseChunk(chunk []byte) {
	if !c.parsing {
		c.fatal(0, "ParseChunk called outside StartParse/FinishParse")
	}
	c.lexer.parse(chunk)
}

// Flush runs every filter over the buffered window, then destroys the
// window: all events are freed and every node's bracket is reset to the
// sentinel. Nodes survive (still live) but are no longer rewritable.
func (c *ParseContext) Flush() {
	if !c.parsing {
		c.fatal(0, "Flush called outside StartParse/FinishParse")
	}
	c.flushWindow()
}

// FinishParse ends the document: the lexer recovers from any unterminated
// construct, tags left open are force-closed as unclosed (with warnings),
// a final Flush runs, and the event arena is released.
func (c *ParseContext) FinishParse() {
	if !c.parsing {
		c.fatal(0, "FinishParse called outside StartParse")
	}
	c.lexer.finish()
	c.postEvent(htmldom.Event{Kind: htmldom.EventEndDocument, Line: c.lexer.line})
	c.flushWindow()
	c.parsing = false
	c.lexer = nil
	c.queue.Clear()
}

// Intern interns a name in the context's symbol table.
func (c *ParseContext) Intern(spelling string) htmlname.Symbol {
	return c.symbols.Intern(spelling)
}

// Symbols exposes the context's symbol table.
func (c *ParseContext) Symbols() *htmlname.SymbolTable { return c.symbols }

// Line returns the lexer's current 1-based line number.
func (c *ParseContext) Line() int {
	if c.lexer == nil {
		return 0
	}
	return c.lexer.line
}

// postEvent appends a lexer-produced event, notifies listeners, and binds
// leaf brackets.
func (c *ParseContext) postEvent(ev htmldom.Event) htmldom.EventRef {
	r := c.queue.PushBack(ev)
	for _, l := range c.listeners {
		dispatchEvent(l, ev)
	}
	return r
}

// --- lexer callbacks -----------------------------------------------------

func (c *ParseContext) emitCharacters(text string, line int) *htmldom.Node {
	n := htmldom.NewLeafNode(htmldom.NodeCharacters, c.lexer.top(), text)
	r := c.postEvent(htmldom.LeafEvent(n, line))
	n.SetBracket(r, r)
	return n
}

func (c *ParseContext) emitLeaf(kind htmldom.NodeKind, text string, line int) *htmldom.Node {
	n := htmldom.NewLeafNode(kind, c.lexer.top(), text)
	r := c.postEvent(htmldom.LeafEvent(n, line))
	n.SetBracket(r, r)
	return n
}

// addElement appends the StartElement event for an element whose parent
// has already been fixed by the lexer.
func (c *ParseContext) addElement(e *htmldom.Node, line int) {
	e.Elem.BeginLine = line
	r := c.postEvent(htmldom.Event{Kind: htmldom.EventStartElement, Node: e, Line: line})
	e.SetBracket(r, htmldom.NilRef)
}

// closeElement appends the EndElement event and records the close style.
func (c *ParseContext) closeElement(e *htmldom.Node, style htmldom.CloseStyle, line int) {
	e.Elem.Close = style
	e.Elem.EndLine = line
	r := c.postEvent(htmldom.Event{Kind: htmldom.EventEndElement, Node: e, Line: line})
	e.SetEnd(r)
}

// --- filter driver -------------------------------------------------------

// flushWindow runs the filter chain over the buffered events and then
// detaches the window.
func (c *ParseContext) flushWindow() {
	for _, f := range c.filters {
		if _, off := c.disabled[f.Name()]; off {
			continue
		}
		c.applyFilter(f)
	}

	for _, f := range c.filters {
		if _, off := c.disabled[f.Name()]; off {
			continue
		}
		f.Flush()
	}
	for _, l := range c.listeners {
		l.Flush()
	}

	// Detach every node in the window; events die with the queue.
	for r := c.queue.First(); r != htmldom.NilRef; r = c.queue.Next(r) {
		if n := c.queue.Event(r).Node; n != nil {
			n.Detach()
		}
	}
	c.queue.Clear()

	if c.lexer != nil {
		c.windowBase = c.lexer.top()
	} else {
		c.windowBase = nil
	}
}

// applyFilter dispatches the whole window to one filter, tolerating
// mutation (including deletion at or around the cursor) as it goes.
func (c *ParseContext) applyFilter(f Filter) {
	c.maintain()

	c.dispatching = true
	defer func() { c.dispatching = false }()

	c.cursor = c.queue.First()
	c.cursorAtStart = false
	for c.cursor != htmldom.NilRef || c.cursorAtStart {
		if c.cursorAtStart {
			// A deletion removed the head of the window; resume there.
			c.cursorAtStart = false
			c.cursor = c.queue.First()
			if c.cursor == htmldom.NilRef {
				break
			}
		}
		ev := *c.queue.Event(c.cursor)
		dispatchEvent(f, ev)
		if c.cursorAtStart {
			continue
		}
		c.cursor = c.queue.Next(c.cursor)
	}

	c.maintain()
}

// dispatchEvent routes one event to the matching filter callback.
func dispatchEvent(f Filter, ev htmldom.Event) {
	switch ev.Kind {
	case htmldom.EventStartDocument:
		f.StartDocument()
	case htmldom.EventEndDocument:
		f.EndDocument()
	case htmldom.EventStartElement:
		f.StartElement(ev.Node)
	case htmldom.EventEndElement:
		f.EndElement(ev.Node)
	case htmldom.EventCharacters:
		f.Characters(ev.Node)
	case htmldom.EventComment:
		f.Comment(ev.Node)
	case htmldom.EventCDATA:
		f.CDATA(ev.Node)
	case htmldom.EventDirective:
		f.Directive(ev.Node)
	case htmldom.EventIEDirective:
		f.IEDirective(ev.Node)
	}
}

// maintain runs the deferred coalescing and consistency passes if any
// mutation happened since the last run.
func (c *ParseContext) maintain() {
	if !c.mutated {
		return
	}
	c.mutated = false
	if c.coalescing {
		c.coalesce()
	}
	c.checkConsistency()
}

// coalesce merges runs of adjacent Characters nodes that share a parent.
// The text accrues to the first node of the run; the merged-away nodes are
// marked dead, so deleting the surviving node later removes the whole
// merged text.
func (c *ParseContext) coalesce() {
	var prev *htmldom.Node
	r := c.queue.First()
	for r != htmldom.NilRef {
		next := c.queue.Next(r)
		ev := c.queue.Event(r)
		if ev.Kind != htmldom.EventCharacters {
			prev = nil
			r = next
			continue
		}
		n := ev.Node
		if prev != nil && prev.Parent == n.Parent {
			prev.Text += n.Text
			n.Kill()
			c.queue.Remove(r)
		} else {
			prev = n
		}
		r = next
	}
}

// checkConsistency walks the window rebuilding the expected parent from
// Start/End element events and asserts every node's recorded parent
// matches. A mismatch is a fatal internal error: it means a filter
// corrupted the structure, and input can never cause it.
func (c *ParseContext) checkConsistency() {
	expected := c.windowBase
	for r := c.queue.First(); r != htmldom.NilRef; r = c.queue.Next(r) {
		ev := c.queue.Event(r)
		switch ev.Kind {
		case htmldom.EventStartElement:
			if ev.Node.Parent != expected {
				c.inconsistent(ev, expected)
			}
			expected = ev.Node
		case htmldom.EventEndElement:
			if ev.Node != expected {
				c.inconsistent(ev, expected)
			}
			expected = ev.Node.Parent
		case htmldom.EventCharacters, htmldom.EventComment, htmldom.EventCDATA,
			htmldom.EventDirective, htmldom.EventIEDirective:
			if ev.Node.Parent != expected {
				c.inconsistent(ev, expected)
			}
		case htmldom.EventStartDocument, htmldom.EventEndDocument:
			if expected != nil {
				c.inconsistent(ev, expected)
			}
		}
	}
}

func (c *ParseContext) inconsistent(ev *htmldom.Event, expected *htmldom.Node) {
	name := "document"
	if expected != nil && expected.Elem != nil {
		name = expected.Elem.Name.String()
	}
	c.fatal(ev.Line, "event queue inconsistency at %s event: recorded parent does not match enclosing %s",
		ev.Kind, name)
}

// fatal reports an internal error and panics. The handler may choose to
// terminate the process first (the default log handler does).
func (c *ParseContext) fatal(line int, format string, args ...any) {
	c.handler.FatalError(c.urlStr, line, format, args...)
	panic(fmt.Sprintf("htmlparse: %s:%d: %s", c.urlStr, line, fmt.Sprintf(format, args...)))
}
