package filters

import (
	"github.com/charmbracelet/log"

	"github.com/yaklabco/gohtmlrewrite/pkg/htmldom"
	"github.com/yaklabco/gohtmlrewrite/pkg/htmlparse"
)

// Debug logs every event at debug level. It disables itself when the
// logger would discard debug output, so an always-registered chain pays
// nothing in normal runs.
type Debug struct {
	htmlparse.BaseFilter
	logger *log.Logger
}

// NewDebug creates a debug filter logging through logger (nil for the
// process default).
func NewDebug(logger *log.Logger) *Debug {
	if logger == nil {
		logger = log.Default()
	}
	return &Debug{BaseFilter: htmlparse.NewBaseFilter("debug"), logger: logger}
}

func (d *Debug) DetermineEnabled() (bool, string) {
	if d.logger.GetLevel() > log.DebugLevel {
		return false, "debug logging is off"
	}
	return true, ""
}

func (d *Debug) StartDocument() { d.logger.Debug("event", "kind", "start-document") }
func (d *Debug) EndDocument()   { d.logger.Debug("event", "kind", "end-document") }

func (d *Debug) StartElement(element *htmldom.Node) {
	d.logger.Debug("event",
		"kind", "start-element",
		"name", element.Elem.Name.String(),
		"attrs", len(element.Elem.Attributes),
		"line", element.Elem.BeginLine,
		"seq", element.Elem.Seq)
}

func (d *Debug) EndElement(element *htmldom.Node) {
	d.logger.Debug("event",
		"kind", "end-element",
		"name", element.Elem.Name.String(),
		"close", element.Elem.Close.String(),
		"line", element.Elem.EndLine)
}

func (d *Debug) Characters(node *htmldom.Node)  { d.leaf("characters", node) }
func (d *Debug) Comment(node *htmldom.Node)     { d.leaf("comment", node) }
func (d *Debug) CDATA(node *htmldom.Node)       { d.leaf("cdata", node) }
func (d *Debug) Directive(node *htmldom.Node)   { d.leaf("directive", node) }
func (d *Debug) IEDirective(node *htmldom.Node) { d.leaf("ie-directive", node) }

func (d *Debug) leaf(kind string, node *htmldom.Node) {
	d.logger.Debug("event", "kind", kind, "bytes", len(node.Text))
}

func (d *Debug) Flush() { d.logger.Debug("event", "kind", "flush") }
