// Package htmldom provides the mutable event-sequence document model the
// parser feeds and filters rewrite.
//
// The document is not a conventional node tree. It is an ordered sequence of
// events (start/end element markers and leaf content) held in a slab-backed
// list addressed by stable EventRef handles, with each node recording the
// bracket of refs that delimits its own events. Handles stay valid across
// insertion, removal, and splicing of other events, which is what lets
// filters mutate the sequence while iterating it.
package htmldom

// EventKind classifies an event in the document sequence.
type EventKind uint16

// Event kinds, in the order the lexer can produce them.
const (
	EventStartDocument EventKind = iota
	EventEndDocument
	EventStartElement
	EventEndElement
	EventCharacters
	EventComment
	EventCDATA
	EventDirective
	EventIEDirective
)

// String returns a short name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventStartDocument:
		return "StartDocument"
	case EventEndDocument:
		return "EndDocument"
	case EventStartElement:
		return "StartElement"
	case EventEndElement:
		return "EndElement"
	case EventCharacters:
		return "Characters"
	case EventComment:
		return "Comment"
	case EventCDATA:
		return "CDATA"
	case EventDirective:
		return "Directive"
	case EventIEDirective:
		return "IEDirective"
	default:
		return "Unknown"
	}
}

// Event is one entry in the document sequence. Node is nil only for the
// StartDocument and EndDocument markers.
type Event struct {
	Kind EventKind
	Node *Node

	// Line is the 1-based source line the construct began on.
	Line int
}
