// Package dom defines the document capabilities a tooltip consumes.
//
// The interfaces are intentionally small so that a host can implement them
// over whatever element abstraction it has: a browser bridge, a server-side
// virtual document (see memdom) or a test double.
package dom

import "github.com/vango-dev/tooltip/pkg/position"

// Event names used by tooltip activation wiring.
const (
	EventClick        = "click"
	EventPointerEnter = "mouseenter"
	EventPointerLeave = "mouseleave"
	EventFocus        = "focus"
	EventBlur         = "blur"
)

// Element is an opaque handle to a node in a document.
type Element interface {
	ID() string
}

// Event is an interaction delivered to a Handler.
type Event interface {
	Type() string
	Target() Element
	PreventDefault()
	DefaultPrevented() bool
}

// Handler handles an event.
type Handler func(Event)

// Listener identifies a subscription created by On.
type Listener uint64

// Lookup resolves references to elements. A reference is either an element
// ID string or an Element, which resolves only while it is still live.
type Lookup interface {
	Resolve(ref any) (Element, bool)
}

// Geometry reports element positions.
type Geometry interface {
	// BoundingBox returns the element's box relative to the document root.
	BoundingBox(el Element) position.Box
}

// Mutator creates, moves and styles elements.
type Mutator interface {
	// Parse creates a detached element from the first element in markup.
	Parse(markup string) (Element, error)
	// Insert appends el to the document body.
	Insert(el Element)
	// Append appends child to parent.
	Append(parent, child Element)
	// Remove detaches el from the document but keeps it for reinsertion.
	Remove(el Element)
	// Destroy removes el permanently.
	Destroy(el Element)
	AddClass(el Element, class string)
	RemoveClass(el Element, class string)
	// SetStyle merges inline style properties into el.
	SetStyle(el Element, styles map[string]string)
}

// Events subscribes handlers to element events.
type Events interface {
	On(el Element, event string, h Handler) Listener
	Off(l Listener)
}

// Document is the full set of capabilities a tooltip needs.
type Document interface {
	Lookup
	Geometry
	Mutator
	Events
}
