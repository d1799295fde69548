package filters

import (
	"strings"

	"github.com/yaklabco/gohtmlrewrite/pkg/htmldom"
	"github.com/yaklabco/gohtmlrewrite/pkg/htmlparse"
)

// Collector records a compact structural trace of the event stream. It
// never mutates, so it works both as a filter stage and as a passive
// event listener; tests and the CLI's --trace mode use it to assert or
// show what a chain actually saw.
type Collector struct {
	htmlparse.BaseFilter
	trace   []string
	flushes int
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{BaseFilter: htmlparse.NewBaseFilter("collector")}
}

// Trace returns the recorded event descriptions in order.
func (c *Collector) Trace() []string { return c.trace }

// Flushes returns how many window flushes the collector observed.
func (c *Collector) Flushes() int { return c.flushes }

// String joins the trace with newlines.
func (c *Collector) String() string { return strings.Join(c.trace, "\n") }

// Reset clears the trace for reuse across documents.
func (c *Collector) Reset() {
	c.trace = nil
	c.flushes = 0
}

func (c *Collector) add(s string) { c.trace = append(c.trace, s) }

func (c *Collector) StartDocument() { c.add("start-document") }
func (c *Collector) EndDocument()   { c.add("end-document") }

func (c *Collector) StartElement(element *htmldom.Node) {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(element.Elem.Name.String())
	for i := range element.Elem.Attributes {
		a := &element.Elem.Attributes[i]
		b.WriteByte(' ')
		b.WriteString(a.Name.String())
		if v, ok := a.EscapedValue(); ok {
			b.WriteByte('=')
			b.WriteString(v)
		}
	}
	b.WriteByte(')')
	c.add(b.String())
}

func (c *Collector) EndElement(element *htmldom.Node) {
	c.add("(/" + element.Elem.Name.String() + " " + element.Elem.Close.String() + ")")
}

func (c *Collector) Characters(node *htmldom.Node)  { c.add("text " + node.Text) }
func (c *Collector) Comment(node *htmldom.Node)     { c.add("comment " + node.Text) }
func (c *Collector) CDATA(node *htmldom.Node)       { c.add("cdata " + node.Text) }
func (c *Collector) Directive(node *htmldom.Node)   { c.add("directive " + node.Text) }
func (c *Collector) IEDirective(node *htmldom.Node) { c.add("ie " + node.Text) }

func (c *Collector) Flush() { c.flushes++ }
