package htmlparse

import "github.com/yaklabco/gohtmlrewrite/pkg/htmldom"

// Filter is one stage of the rewriting chain. The driver calls one method
// per buffered event, in document order, for each registered filter in
// registration order at every flush.
//
// Filters may call the parse context's mutation API from any callback. The
// driver does not shield a filter from mutating ahead of or behind its own
// cursor; the post-mutation consistency pass is the safety net, and a
// violation there is a filter bug, not an input condition.
//
// Callbacks must return promptly. The core has no blocking facility; work
// that needs to wait (a fetch, say) has to be deferred by the surrounding
// system, not awaited inside a callback.
type Filter interface {
	// Name identifies the filter in diagnostics.
	Name() string

	// DetermineEnabled is called once per document before any event is
	// dispatched. Returning false (with a reason, for diagnostics) drops
	// the filter from the chain for that document.
	DetermineEnabled() (enabled bool, reason string)

	StartDocument()
	EndDocument()
	StartElement(element *htmldom.Node)
	EndElement(element *htmldom.Node)
	Characters(node *htmldom.Node)
	Comment(node *htmldom.Node)
	CDATA(node *htmldom.Node)
	Directive(node *htmldom.Node)
	IEDirective(node *htmldom.Node)

	// Flush is called after the whole buffered window has been dispatched,
	// just before the window's events are destroyed. Nodes must not be
	// retained across it expecting further mutation.
	Flush()
}

// BaseFilter is a no-op Filter implementation to embed in concrete stages;
// override only the callbacks the stage cares about.
type BaseFilter struct {
	name string
}

// NewBaseFilter creates a BaseFilter with the given diagnostic name.
func NewBaseFilter(name string) BaseFilter {
	return BaseFilter{name: name}
}

// Name returns the filter's diagnostic name.
func (f *BaseFilter) Name() string { return f.name }

// DetermineEnabled enables the filter. Override to disable dynamically.
func (f *BaseFilter) DetermineEnabled() (bool, string) { return true, "" }

func (f *BaseFilter) StartDocument()               {}
func (f *BaseFilter) EndDocument()                 {}
func (f *BaseFilter) StartElement(_ *htmldom.Node) {}
func (f *BaseFilter) EndElement(_ *htmldom.Node)   {}
func (f *BaseFilter) Characters(_ *htmldom.Node)   {}
func (f *BaseFilter) Comment(_ *htmldom.Node)      {}
func (f *BaseFilter) CDATA(_ *htmldom.Node)        {}
func (f *BaseFilter) Directive(_ *htmldom.Node)    {}
func (f *BaseFilter) IEDirective(_ *htmldom.Node)  {}
func (f *BaseFilter) Flush()                       {}
