package htmldom

import "github.com/yaklabco/gohtmlrewrite/pkg/htmlname"

// NodeKind classifies a node.
type NodeKind uint16

// Node kinds. Everything except NodeElement is a leaf whose bracket is a
// single event (begin == end).
const (
	NodeElement NodeKind = iota
	NodeCharacters
	NodeComment
	NodeCDATA
	NodeDirective
	NodeIEDirective
)

// String returns a short name for the node kind.
func (k NodeKind) String() string {
	switch k {
	case NodeElement:
		return "Element"
	case NodeCharacters:
		return "Characters"
	case NodeComment:
		return "Comment"
	case NodeCDATA:
		return "CDATA"
	case NodeDirective:
		return "Directive"
	case NodeIEDirective:
		return "IEDirective"
	default:
		return "Unknown"
	}
}

// CloseStyle records how an element was (or will be) closed.
type CloseStyle uint8

const (
	// CloseUnset marks an element whose close has not been seen yet.
	CloseUnset CloseStyle = iota
	// CloseAuto marks a close forced by the auto-close table.
	CloseAuto
	// CloseImplicit marks a tag that never takes an end tag (<br>, <img>).
	CloseImplicit
	// CloseExplicit marks a matching </tag>.
	CloseExplicit
	// CloseBrief marks an XML-style <tag/>.
	CloseBrief
	// CloseUnclosed marks a tag force-closed at end of input or by close-tag
	// stack recovery. The serializer emits nothing for it.
	CloseUnclosed
)

// String returns a short name for the close style.
func (s CloseStyle) String() string {
	switch s {
	case CloseUnset:
		return "unset"
	case CloseAuto:
		return "auto"
	case CloseImplicit:
		return "implicit"
	case CloseExplicit:
		return "explicit"
	case CloseBrief:
		return "brief"
	case CloseUnclosed:
		return "unclosed"
	default:
		return "unknown"
	}
}

// Node is one document node: an element or a content leaf.
//
// A node is live from insertion into the sequence until deletion. Its
// bracket (begin/end) refers into the live event sequence only while the
// node is in the current flush window; both refs are reset to NilRef when
// the window is flushed, leaving the node detached but not dead.
type Node struct {
	Kind NodeKind

	// Parent is a back-reference, not an ownership edge. It must agree with
	// the structure implied by the surrounding Start/End element events;
	// the consistency pass verifies that after mutations.
	Parent *Node

	// Text holds the leaf payload exactly as written in the source
	// (escaped form for Characters, body for Comment/CDATA/Directive,
	// full raw text for IEDirective). Unused for elements.
	Text string

	// Elem holds element-only data; nil for leaves.
	Elem *ElementData

	begin EventRef
	end   EventRef
	live  bool
}

// ElementData holds the element-specific part of a Node.
type ElementData struct {
	Name       htmlname.Symbol
	Attributes []Attribute
	Close      CloseStyle

	// BeginLine and EndLine are the source lines of the open and close tags.
	BeginLine int
	EndLine   int

	// Seq is a per-document allocation ordinal, for diagnostics.
	Seq int
}

// Keyword returns the element's tag keyword, or KeywordNone for a leaf or
// unregistered tag name.
func (n *Node) Keyword() htmlname.Keyword {
	if n.Elem == nil {
		return htmlname.KeywordNone
	}
	return n.Elem.Name.Keyword()
}

// Begin returns the ref of the node's first event (NilRef when detached).
func (n *Node) Begin() EventRef { return n.begin }

// End returns the ref of the node's last event (NilRef when detached).
func (n *Node) End() EventRef { return n.end }

// Live reports whether the node has been inserted and not deleted.
func (n *Node) Live() bool { return n.live }

// SetBracket binds the node to a span of the event sequence and marks it
// live. The parser and mutation API call this; filters should not.
func (n *Node) SetBracket(begin, end EventRef) {
	n.begin = begin
	n.end = end
	n.live = true
}

// SetEnd extends the bracket's end; used when an open element is closed.
func (n *Node) SetEnd(end EventRef) { n.end = end }

// Detach resets the bracket to the sentinel without killing the node.
// Every node in the window is detached at each flush.
func (n *Node) Detach() {
	n.begin = NilRef
	n.end = NilRef
}

// Kill marks the node deleted and detaches it.
func (n *Node) Kill() {
	n.live = false
	n.Detach()
}

// Bound reports whether the node currently occupies a bracket.
func (n *Node) Bound() bool {
	return n.begin != NilRef
}

// IsAncestorOf reports whether n is a proper ancestor of other, following
// parent back-references.
func (n *Node) IsAncestorOf(other *Node) bool {
	for p := other.Parent; p != nil; p = p.Parent {
		if p == n {
			return true
		}
	}
	return false
}

// newNode builds a detached, not-yet-live node.
func newNode(kind NodeKind, parent *Node) *Node {
	return &Node{
		Kind:   kind,
		Parent: parent,
		begin:  NilRef,
		end:    NilRef,
	}
}

// NewElementNode allocates an unbound element node.
func NewElementNode(parent *Node, name htmlname.Symbol, seq int) *Node {
	n := newNode(NodeElement, parent)
	n.Elem = &ElementData{Name: name, Seq: seq}
	return n
}

// NewLeafNode allocates an unbound leaf node of the given kind.
func NewLeafNode(kind NodeKind, parent *Node, text string) *Node {
	n := newNode(kind, parent)
	n.Text = text
	return n
}

// leafEventKind maps a leaf node kind to its event kind.
func leafEventKind(kind NodeKind) EventKind {
	switch kind {
	case NodeCharacters:
		return EventCharacters
	case NodeComment:
		return EventComment
	case NodeCDATA:
		return EventCDATA
	case NodeDirective:
		return EventDirective
	case NodeIEDirective:
		return EventIEDirective
	default:
		panic("htmldom: leafEventKind called on non-leaf kind " + kind.String())
	}
}

// LeafEvent builds the single event for a leaf node.
func LeafEvent(n *Node, line int) Event {
	return Event{Kind: leafEventKind(n.Kind), Node: n, Line: line}
}
