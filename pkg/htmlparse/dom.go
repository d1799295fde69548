package htmlparse

import (
	"github.com/yaklabco/gohtmlrewrite/pkg/htmldom"
	"github.com/yaklabco/gohtmlrewrite/pkg/htmlname"
)

// This file is the DOM-mutation API filters call. Operations that a
// correct filter could still trip over at runtime (moving across windows,
// wrapping a half-flushed run) return false; misuse that can only be a
// filter bug (mutating dead or flushed nodes, parent mismatches, inserting
// a bound node) is fatal, matching the taxonomy in the package docs.

// NewElement allocates an unbound element node with the given parent and
// tag name. The node becomes live when inserted.
func (c *ParseContext) NewElement(parent *htmldom.Node, name string) *htmldom.Node {
	c.nodeSeq++
	return htmldom.NewElementNode(parent, c.symbols.Intern(name), c.nodeSeq)
}

// NewCharactersNode allocates an unbound text leaf.
func (c *ParseContext) NewCharactersNode(parent *htmldom.Node, text string) *htmldom.Node {
	return htmldom.NewLeafNode(htmldom.NodeCharacters, parent, text)
}

// NewCommentNode allocates an unbound comment leaf; text excludes the
// comment delimiters.
func (c *ParseContext) NewCommentNode(parent *htmldom.Node, text string) *htmldom.Node {
	return htmldom.NewLeafNode(htmldom.NodeComment, parent, text)
}

// NewCDATANode allocates an unbound CDATA leaf.
func (c *ParseContext) NewCDATANode(parent *htmldom.Node, text string) *htmldom.Node {
	return htmldom.NewLeafNode(htmldom.NodeCDATA, parent, text)
}

// NewDirectiveNode allocates an unbound directive leaf; text is everything
// between '<' and '>'.
func (c *ParseContext) NewDirectiveNode(parent *htmldom.Node, text string) *htmldom.Node {
	return htmldom.NewLeafNode(htmldom.NodeDirective, parent, text)
}

// NewIEDirectiveNode allocates an unbound IE conditional-comment leaf;
// text is the complete raw marker including delimiters.
func (c *ParseContext) NewIEDirectiveNode(parent *htmldom.Node, text string) *htmldom.Node {
	return htmldom.NewLeafNode(htmldom.NodeIEDirective, parent, text)
}

// IsRewritable reports whether a node may still be mutated: it is live and
// both bracket positions are inside the current window.
func (c *ParseContext) IsRewritable(n *htmldom.Node) bool {
	return n.Live() && n.Begin() != htmldom.NilRef && n.End() != htmldom.NilRef
}

// HasChildrenInWindow reports whether the element is closed within the
// current window and brackets at least one child event. An element still
// open, or whose events lie beyond the buffer, answers false; that is not
// a global "no children".
func (c *ParseContext) HasChildrenInWindow(e *htmldom.Node) bool {
	if e.Elem == nil || !c.IsRewritable(e) {
		return false
	}
	if c.queue.Event(e.End()).Kind != htmldom.EventEndElement {
		return false
	}
	return c.queue.Next(e.Begin()) != e.End()
}

// CloneElement returns an unbound shallow copy of an element: tag name,
// attributes, and close style, but no children and no parent binding.
func (c *ParseContext) CloneElement(e *htmldom.Node) *htmldom.Node {
	if e.Elem == nil {
		c.fatal(c.Line(), "CloneElement on non-element %s node", e.Kind)
	}
	c.nodeSeq++
	clone := htmldom.NewElementNode(e.Parent, e.Elem.Name, c.nodeSeq)
	clone.Elem.Attributes = append([]htmldom.Attribute(nil), e.Elem.Attributes...)
	clone.Elem.Close = e.Elem.Close
	return clone
}

// bindBefore synthesizes node's events immediately before pos and marks it
// live. Elements get an adjacent Start/End pair; leaves a single event.
func (c *ParseContext) bindBefore(pos htmldom.EventRef, n *htmldom.Node) {
	line := c.Line()
	if n.Kind == htmldom.NodeElement {
		begin := c.queue.InsertBefore(pos, htmldom.Event{Kind: htmldom.EventStartElement, Node: n, Line: line})
		end := c.queue.InsertBefore(pos, htmldom.Event{Kind: htmldom.EventEndElement, Node: n, Line: line})
		if n.Elem.Close == htmldom.CloseUnset {
			n.Elem.Close = htmldom.CloseExplicit
		}
		n.SetBracket(begin, end)
	} else {
		r := c.queue.InsertBefore(pos, htmldom.LeafEvent(n, line))
		n.SetBracket(r, r)
	}
	c.mutated = true
}

// requireUnbound panics unless the node has never been inserted (or was
// built fresh); inserting a bound node twice is a filter bug.
func (c *ParseContext) requireUnbound(n *htmldom.Node, op string) {
	if n.Bound() {
		c.fatal(c.Line(), "%s: node is already bound to the sequence", op)
	}
}

// InsertNodeBeforeNode inserts an unbound node immediately before an
// existing rewritable node. Both must record the same parent.
func (c *ParseContext) InsertNodeBeforeNode(existing, node *htmldom.Node) {
	c.requireUnbound(node, "InsertNodeBeforeNode")
	if !c.IsRewritable(existing) {
		c.fatal(c.Line(), "InsertNodeBeforeNode: existing node is not rewritable")
	}
	if existing.Parent != node.Parent {
		c.fatal(c.Line(), "InsertNodeBeforeNode: parent mismatch")
	}
	c.bindBefore(existing.Begin(), node)
}

// InsertNodeAfterNode inserts an unbound node immediately after an
// existing rewritable node. Both must record the same parent.
func (c *ParseContext) InsertNodeAfterNode(existing, node *htmldom.Node) {
	c.requireUnbound(node, "InsertNodeAfterNode")
	if !c.IsRewritable(existing) {
		c.fatal(c.Line(), "InsertNodeAfterNode: existing node is not rewritable")
	}
	if existing.Parent != node.Parent {
		c.fatal(c.Line(), "InsertNodeAfterNode: parent mismatch")
	}
	next := c.queue.Next(existing.End())
	if next == htmldom.NilRef {
		c.bindAtEnd(node)
	} else {
		c.bindBefore(next, node)
	}
}

func (c *ParseContext) bindAtEnd(n *htmldom.Node) {
	line := c.Line()
	if n.Kind == htmldom.NodeElement {
		begin := c.queue.PushBack(htmldom.Event{Kind: htmldom.EventStartElement, Node: n, Line: line})
		end := c.queue.PushBack(htmldom.Event{Kind: htmldom.EventEndElement, Node: n, Line: line})
		if n.Elem.Close == htmldom.CloseUnset {
			n.Elem.Close = htmldom.CloseExplicit
		}
		n.SetBracket(begin, end)
	} else {
		r := c.queue.PushBack(htmldom.LeafEvent(n, line))
		n.SetBracket(r, r)
	}
	c.mutated = true
}

// InsertNodeBeforeCurrent inserts an unbound node just before the event the
// filter driver is currently dispatching. Only valid inside a callback.
func (c *ParseContext) InsertNodeBeforeCurrent(node *htmldom.Node) {
	c.requireUnbound(node, "InsertNodeBeforeCurrent")
	if !c.dispatching || c.cursor == htmldom.NilRef {
		c.fatal(c.Line(), "InsertNodeBeforeCurrent outside filter dispatch")
	}
	c.bindBefore(c.cursor, node)
}

// InsertNodeAfterCurrent inserts an unbound node just after the current
// event and leaves the cursor on the new node, so iteration resumes after
// it rather than re-entering it.
func (c *ParseContext) InsertNodeAfterCurrent(node *htmldom.Node) {
	c.requireUnbound(node, "InsertNodeAfterCurrent")
	if !c.dispatching || c.cursor == htmldom.NilRef {
		c.fatal(c.Line(), "InsertNodeAfterCurrent outside filter dispatch")
	}
	next := c.queue.Next(c.cursor)
	if next == htmldom.NilRef {
		c.bindAtEnd(node)
	} else {
		c.bindBefore(next, node)
	}
	c.cursor = node.End()
}

// PrependChild inserts an unbound node as the first child of parent.
// The parent's start tag must be in the window.
func (c *ParseContext) PrependChild(parent, child *htmldom.Node) {
	c.requireUnbound(child, "PrependChild")
	if parent.Elem == nil || !parent.Live() || parent.Begin() == htmldom.NilRef {
		c.fatal(c.Line(), "PrependChild: parent start tag is not in the window")
	}
	child.Parent = parent
	next := c.queue.Next(parent.Begin())
	if next == htmldom.NilRef {
		c.bindAtEnd(child)
	} else {
		c.bindBefore(next, child)
	}
}

// AppendChild inserts an unbound node as the last child of parent.
// The parent's end tag must be in the window.
func (c *ParseContext) AppendChild(parent, child *htmldom.Node) {
	c.requireUnbound(child, "AppendChild")
	if parent.Elem == nil || !parent.Live() || parent.End() == htmldom.NilRef {
		c.fatal(c.Line(), "AppendChild: parent end tag is not in the window")
	}
	child.Parent = parent
	c.bindBefore(parent.End(), child)
}

// AddParentToSequence wraps the inclusive run [first..last] in a new,
// unbound element. first and last must share a parent, be rewritable, and
// last must be reachable from first; every run member whose parent was the
// shared parent is reparented under newParent. Returns false if the
// endpoints do not qualify.
func (c *ParseContext) AddParentToSequence(first, last, newParent *htmldom.Node) bool {
	c.requireUnbound(newParent, "AddParentToSequence")
	if newParent.Elem == nil {
		c.fatal(c.Line(), "AddParentToSequence: new parent is not an element")
	}
	if !c.IsRewritable(first) || !c.IsRewritable(last) {
		return false
	}
	if first.Parent != last.Parent {
		return false
	}
	if first != last && !c.queue.Reachable(first.Begin(), last.End()) {
		return false
	}

	original := first.Parent
	line := c.Line()
	begin := c.queue.InsertBefore(first.Begin(), htmldom.Event{
		Kind: htmldom.EventStartElement, Node: newParent, Line: line,
	})
	var end htmldom.EventRef
	if next := c.queue.Next(last.End()); next == htmldom.NilRef {
		end = c.queue.PushBack(htmldom.Event{Kind: htmldom.EventEndElement, Node: newParent, Line: line})
	} else {
		end = c.queue.InsertBefore(next, htmldom.Event{Kind: htmldom.EventEndElement, Node: newParent, Line: line})
	}
	if newParent.Elem.Close == htmldom.CloseUnset {
		newParent.Elem.Close = htmldom.CloseExplicit
	}
	newParent.SetBracket(begin, end)
	newParent.Parent = original

	for r := first.Begin(); r != end; r = c.queue.Next(r) {
		if n := c.queue.Event(r).Node; n != nil && n != newParent && n.Parent == original {
			n.Parent = newParent
		}
	}
	c.mutated = true
	return true
}

// MoveNodeInto relocates node's whole bracketed range to just inside
// newParent's end tag, reparenting it. Returns false unless both are
// rewritable, distinct, and node is not an ancestor of newParent.
func (c *ParseContext) MoveNodeInto(node, newParent *htmldom.Node) bool {
	if node == newParent || newParent.Elem == nil {
		return false
	}
	if !c.IsRewritable(node) || !c.IsRewritable(newParent) {
		return false
	}
	if node.IsAncestorOf(newParent) {
		return false
	}
	c.queue.SpliceBefore(node.Begin(), node.End(), newParent.End())
	node.Parent = newParent
	c.mutated = true
	return true
}

// MoveNodeBefore relocates node's whole bracketed range to just before
// target. Returns false unless both are rewritable and node is not an
// ancestor of target.
func (c *ParseContext) MoveNodeBefore(node, target *htmldom.Node) bool {
	if node == target {
		return false
	}
	if !c.IsRewritable(node) || !c.IsRewritable(target) {
		return false
	}
	if node.IsAncestorOf(target) {
		return false
	}
	c.queue.SpliceBefore(node.Begin(), node.End(), target.Begin())
	node.Parent = target.Parent
	c.mutated = true
	return true
}

// DeleteNode destroys every event in the node's bracket, nested
// descendants included, and marks every removed node dead. If the filter
// cursor was inside the deleted range it is relocated to just before it.
// Deleting a dead or flushed node is fatal.
func (c *ParseContext) DeleteNode(node *htmldom.Node) {
	if !node.Live() {
		c.fatal(c.Line(), "DeleteNode: node is already deleted")
	}
	if !c.IsRewritable(node) {
		c.fatal(c.Line(), "DeleteNode: node is not rewritable")
	}
	c.deleteRange(node.Begin(), node.End())
}

// deleteRange removes the inclusive event run [begin..end], killing every
// node that owns an event inside it and fixing up the cursor.
func (c *ParseContext) deleteRange(begin, end htmldom.EventRef) {
	before := c.queue.Prev(begin)
	cursorHit := false

	r := begin
	for {
		next := c.queue.Next(r)
		if r == c.cursor {
			cursorHit = true
		}
		if n := c.queue.Event(r).Node; n != nil {
			n.Kill()
		}
		c.queue.Remove(r)
		if r == end {
			break
		}
		r = next
	}

	if cursorHit {
		c.cursor = before
		c.cursorAtStart = before == htmldom.NilRef
	}
	c.mutated = true
}

// DeleteSavingChildren splices the element's direct children out to its
// own parent, then deletes the emptied element.
func (c *ParseContext) DeleteSavingChildren(element *htmldom.Node) {
	if element.Elem == nil {
		c.fatal(c.Line(), "DeleteSavingChildren on non-element %s node", element.Kind)
	}
	if !element.Live() {
		c.fatal(c.Line(), "DeleteSavingChildren: element is already deleted")
	}
	if !c.IsRewritable(element) {
		c.fatal(c.Line(), "DeleteSavingChildren: element is not rewritable")
	}

	begin, end := element.Begin(), element.End()
	for r := c.queue.Next(begin); r != end; r = c.queue.Next(r) {
		if n := c.queue.Event(r).Node; n != nil && n.Parent == element {
			n.Parent = element.Parent
		}
	}
	// Removing just the start and end tags leaves the children spliced
	// into the surrounding sequence. The end tag goes first: killing the
	// element resets its bracket, so the refs are captured above.
	c.deleteRange(end, end)
	c.deleteRange(begin, begin)
}

// ReplaceNode inserts newNode in front of oldNode and deletes oldNode, as
// one observably atomic step.
func (c *ParseContext) ReplaceNode(oldNode, newNode *htmldom.Node) {
	c.requireUnbound(newNode, "ReplaceNode")
	if !c.IsRewritable(oldNode) {
		c.fatal(c.Line(), "ReplaceNode: old node is not rewritable")
	}
	newNode.Parent = oldNode.Parent
	c.bindBefore(oldNode.Begin(), newNode)
	c.deleteRange(oldNode.Begin(), oldNode.End())
}

// MakeName interns a spelling, for callers that build attributes directly.
func (c *ParseContext) MakeName(spelling string) htmlname.Symbol {
	return c.symbols.Intern(spelling)
}
