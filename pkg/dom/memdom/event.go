package memdom

import (
	"sort"

	"github.com/vango-dev/tooltip/pkg/dom"
)

// Event is the dom.Event delivered by Dispatch.
type Event struct {
	typ       string
	target    dom.Element
	prevented bool
}

// Type implements dom.Event.
func (e *Event) Type() string { return e.typ }

// Target implements dom.Event.
func (e *Event) Target() dom.Element { return e.target }

// PreventDefault implements dom.Event.
func (e *Event) PreventDefault() { e.prevented = true }

// DefaultPrevented implements dom.Event.
func (e *Event) DefaultPrevented() bool { return e.prevented }

// bubbles lists the events that propagate to ancestors.
var bubbles = map[string]bool{
	dom.EventClick: true,
}

// Dispatch fires event on the element with id, running its listeners in
// subscription order and, for bubbling events, those of its ancestors. It
// returns nil if no element has that id.
func (d *Document) Dispatch(id, event string) *Event {
	target, ok := d.elements[id]
	if !ok {
		return nil
	}
	ev := &Event{typ: event, target: target}

	for n := target.node; n != nil; n = n.Parent {
		el := d.byNode[n]
		if el == nil {
			continue
		}
		for _, h := range d.handlers(el, event) {
			h(ev)
		}
		if !bubbles[event] {
			break
		}
	}
	return ev
}

// handlers snapshots the handlers of el for event in subscription order, so
// listeners added or removed by a handler take effect on the next dispatch.
func (d *Document) handlers(el *Element, event string) []dom.Handler {
	var ids []dom.Listener
	for id, l := range d.listeners {
		if l.el == el && l.event == event {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	hs := make([]dom.Handler, len(ids))
	for i, id := range ids {
		hs[i] = d.listeners[id].handler
	}
	return hs
}
