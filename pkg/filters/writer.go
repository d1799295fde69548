// Package filters provides the built-in rewriting filter stages and the
// registry the CLI assembles chains from.
package filters

import (
	"io"
	"strings"

	"github.com/yaklabco/gohtmlrewrite/pkg/htmldom"
	"github.com/yaklabco/gohtmlrewrite/pkg/htmlparse"
)

// Writer serializes the event stream back to markup. Placed last in a
// chain, it reproduces the input byte for byte when no other filter
// mutated anything; with mutations it emits the rewritten document.
//
// Write errors are sticky: the first one stops output and is reported by
// Err after the parse.
type Writer struct {
	htmlparse.BaseFilter
	out io.Writer
	err error
}

// NewWriter creates a serializing filter writing to out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{BaseFilter: htmlparse.NewBaseFilter("writer"), out: out}
}

// Err returns the first write error, if any.
func (w *Writer) Err() error { return w.err }

func (w *Writer) emit(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.out, s)
}

func (w *Writer) StartElement(element *htmldom.Node) {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(element.Elem.Name.String())
	for i := range element.Elem.Attributes {
		writeAttribute(&b, &element.Elem.Attributes[i])
	}
	if element.Elem.Close == htmldom.CloseBrief {
		b.WriteString("/>")
	} else {
		b.WriteByte('>')
	}
	w.emit(b.String())
}

// EndElement emits a close tag only for explicitly closed elements;
// implicit, auto, brief and unclosed closes never wrote one in the source.
func (w *Writer) EndElement(element *htmldom.Node) {
	if element.Elem.Close != htmldom.CloseExplicit {
		return
	}
	w.emit("</" + element.Elem.Name.String() + ">")
}

func (w *Writer) Characters(node *htmldom.Node) {
	w.emit(node.Text)
}

func (w *Writer) Comment(node *htmldom.Node) {
	w.emit("<!--" + node.Text + "-->")
}

func (w *Writer) CDATA(node *htmldom.Node) {
	w.emit("<![CDATA[" + node.Text + "]]>")
}

func (w *Writer) Directive(node *htmldom.Node) {
	w.emit("<" + node.Text + ">")
}

// IEDirective carries its full raw text, delimiters included.
func (w *Writer) IEDirective(node *htmldom.Node) {
	w.emit(node.Text)
}

// writeAttribute reproduces one attribute, preserving its separator, its
// no-value vs empty-value distinction, and its original quote style.
func writeAttribute(b *strings.Builder, a *htmldom.Attribute) {
	b.WriteString(a.Separator())
	b.WriteString(a.Name.String())
	escaped, ok := a.EscapedValue()
	if !ok {
		return
	}
	b.WriteByte('=')
	delim := a.Quote.Delimiter()
	b.WriteString(delim)
	b.WriteString(escaped)
	b.WriteString(delim)
}
