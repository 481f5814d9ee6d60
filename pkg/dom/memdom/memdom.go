// Package memdom is an in-memory dom.Document.
//
// Markup is parsed with golang.org/x/net/html. Events arriving from a
// remote client are routed by id, so the root of parsed markup and every
// element that gets a listener carry an id; existing id attributes are
// kept and other elements are left as written. Mutations of elements
// that are connected to the body are recorded as protocol patches, which a
// host drains with Flush and forwards to the client.
package memdom

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vango-dev/tooltip/pkg/dom"
	"github.com/vango-dev/tooltip/pkg/position"
	"github.com/vango-dev/tooltip/pkg/protocol"
)

// EventsAttr lists, space separated, the events an element has listeners
// for. The client only forwards those events.
const EventsAttr = "data-tt-events"

// Element is a node of a Document.
type Element struct {
	id     string
	node   *html.Node
	box    position.Box
	styles map[string]string
}

// ID implements dom.Element.
func (e *Element) ID() string { return e.id }

// Tag returns the element's tag name.
func (e *Element) Tag() string { return e.node.Data }

// Attr returns the value of an attribute.
func (e *Element) Attr(key string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Classes returns the element's classes in order.
func (e *Element) Classes() []string {
	v, _ := e.Attr("class")
	return strings.Fields(v)
}

// HasClass reports whether the element has class.
func (e *Element) HasClass(class string) bool {
	for _, c := range e.Classes() {
		if c == class {
			return true
		}
	}
	return false
}

// Style returns an inline style property.
func (e *Element) Style(prop string) string {
	return e.styles[prop]
}

func (e *Element) setAttr(key, val string) {
	for i, a := range e.node.Attr {
		if a.Key == key {
			e.node.Attr[i].Val = val
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: key, Val: val})
}

func (e *Element) removeAttr(key string) {
	for i, a := range e.node.Attr {
		if a.Key == key {
			e.node.Attr = append(e.node.Attr[:i], e.node.Attr[i+1:]...)
			return
		}
	}
}

type listener struct {
	el      *Element
	event   string
	handler dom.Handler
}

// Document is an in-memory document. It is not safe for concurrent use
// except for Flush, which may be called from any goroutine; the tooltip
// runtime drives it from a single event loop.
type Document struct {
	mu        sync.Mutex
	body      *html.Node
	elements  map[string]*Element
	byNode    map[*html.Node]*Element
	listeners map[dom.Listener]*listener
	nextID    int
	nextL     dom.Listener
	patches   []protocol.Patch
}

var _ dom.Document = (*Document)(nil)

// New creates a document whose body holds bodyHTML.
func New(bodyHTML string) (*Document, error) {
	d := &Document{
		body:      &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body},
		elements:  make(map[string]*Element),
		byNode:    make(map[*html.Node]*Element),
		listeners: make(map[dom.Listener]*listener),
	}
	nodes, err := html.ParseFragment(strings.NewReader(bodyHTML), d.body)
	if err != nil {
		return nil, fmt.Errorf("memdom: parse body: %w", err)
	}
	for _, n := range nodes {
		d.body.AppendChild(n)
		d.register(n, false)
	}
	return d, nil
}

// register tracks n and its element descendants. Duplicate ids are
// replaced; root gets a generated id when it has none.
func (d *Document) register(n *html.Node, root bool) {
	if n.Type == html.ElementNode {
		el := &Element{node: n, id: attr(n, "id"), styles: parseStyle(attr(n, "style"))}
		d.byNode[n] = el
		switch {
		case el.id != "" && d.elements[el.id] != nil:
			el.id = ""
			d.assignID(el)
		case el.id == "" && root:
			d.assignID(el)
		case el.id != "":
			d.elements[el.id] = el
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.register(c, false)
	}
}

// assignID gives e a generated id if it has none.
func (d *Document) assignID(e *Element) {
	if e.id != "" {
		return
	}
	d.nextID++
	e.id = fmt.Sprintf("tt-%d", d.nextID)
	e.setAttr("id", e.id)
	d.elements[e.id] = e
}

// unregister forgets n and its descendants.
func (d *Document) unregister(n *html.Node) {
	if el := d.byNode[n]; el != nil {
		if el.id != "" && d.elements[el.id] == el {
			delete(d.elements, el.id)
		}
		delete(d.byNode, n)
		for id, l := range d.listeners {
			if l.el == el {
				delete(d.listeners, id)
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.unregister(c)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// element converts a dom.Element back to one of ours.
func (d *Document) element(el dom.Element) *Element {
	e, ok := el.(*Element)
	if !ok || e == nil || d.byNode[e.node] != e {
		return nil
	}
	return e
}

// connected reports whether e is attached under the body.
func (d *Document) connected(e *Element) bool {
	for n := e.node; n != nil; n = n.Parent {
		if n == d.body {
			return true
		}
	}
	return false
}

func (d *Document) record(p protocol.Patch) {
	d.mu.Lock()
	d.patches = append(d.patches, p)
	d.mu.Unlock()
}

// Flush returns and clears the recorded patches.
func (d *Document) Flush() []protocol.Patch {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := d.patches
	d.patches = nil
	return p
}

// Resolve implements dom.Lookup.
func (d *Document) Resolve(ref any) (dom.Element, bool) {
	switch r := ref.(type) {
	case string:
		el, ok := d.elements[strings.TrimPrefix(r, "#")]
		return el, ok
	case dom.Element:
		if el := d.element(r); el != nil {
			return el, true
		}
	}
	return nil, false
}

// Get returns the element with id.
func (d *Document) Get(id string) (*Element, bool) {
	el, ok := d.elements[id]
	return el, ok
}

// SetBox records the bounding box of the element with id.
func (d *Document) SetBox(id string, box position.Box) bool {
	el, ok := d.elements[id]
	if ok {
		el.box = box
	}
	return ok
}

// BoundingBox implements dom.Geometry.
func (d *Document) BoundingBox(el dom.Element) position.Box {
	if e := d.element(el); e != nil {
		return e.box
	}
	return position.Box{}
}

// Parse implements dom.Mutator.
func (d *Document) Parse(markup string) (dom.Element, error) {
	parent := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), parent)
	if err != nil {
		return nil, fmt.Errorf("memdom: parse: %w", err)
	}
	for _, n := range nodes {
		if n.Type != html.ElementNode {
			continue
		}
		d.register(n, true)
		return d.byNode[n], nil
	}
	return nil, fmt.Errorf("memdom: markup %q contains no element", markup)
}

// Insert implements dom.Mutator.
func (d *Document) Insert(el dom.Element) {
	e := d.element(el)
	if e == nil {
		return
	}
	d.detach(e)
	d.body.AppendChild(e.node)
	d.record(protocol.NewInsertNode(e.id, render(e.node)))
}

// Append implements dom.Mutator.
func (d *Document) Append(parent, child dom.Element) {
	p, c := d.element(parent), d.element(child)
	if p == nil || c == nil || p == c {
		return
	}
	d.detach(c)
	p.node.AppendChild(c.node)
	if d.connected(c) {
		d.record(protocol.NewAppendNode(p.id, c.id, render(c.node)))
	}
}

// Remove implements dom.Mutator.
func (d *Document) Remove(el dom.Element) {
	if e := d.element(el); e != nil {
		d.detach(e)
	}
}

// detach unlinks e from its parent, recording a patch if it was visible.
func (d *Document) detach(e *Element) {
	if e.node.Parent == nil {
		return
	}
	wasConnected := d.connected(e)
	e.node.Parent.RemoveChild(e.node)
	if wasConnected {
		d.record(protocol.NewRemoveNode(e.id))
	}
}

// Destroy implements dom.Mutator.
func (d *Document) Destroy(el dom.Element) {
	e := d.element(el)
	if e == nil {
		return
	}
	d.detach(e)
	d.unregister(e.node)
}

// AddClass implements dom.Mutator.
func (d *Document) AddClass(el dom.Element, class string) {
	e := d.element(el)
	if e == nil || class == "" || e.HasClass(class) {
		return
	}
	e.setAttr("class", strings.Join(append(e.Classes(), class), " "))
	if d.connected(e) {
		d.record(protocol.NewAddClass(e.id, class))
	}
}

// RemoveClass implements dom.Mutator.
func (d *Document) RemoveClass(el dom.Element, class string) {
	e := d.element(el)
	if e == nil || !e.HasClass(class) {
		return
	}
	var kept []string
	for _, c := range e.Classes() {
		if c != class {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		e.removeAttr("class")
	} else {
		e.setAttr("class", strings.Join(kept, " "))
	}
	if d.connected(e) {
		d.record(protocol.NewRemoveClass(e.id, class))
	}
}

// SetStyle implements dom.Mutator.
func (d *Document) SetStyle(el dom.Element, styles map[string]string) {
	e := d.element(el)
	if e == nil || len(styles) == 0 {
		return
	}
	if e.styles == nil {
		e.styles = make(map[string]string, len(styles))
	}
	changed := make(map[string]string, len(styles))
	for k, v := range styles {
		e.styles[k] = v
		changed[k] = v
	}
	e.setAttr("style", formatStyle(e.styles))
	if d.connected(e) {
		d.record(protocol.NewSetStyle(e.id, changed))
	}
}

// On implements dom.Events.
func (d *Document) On(el dom.Element, event string, h dom.Handler) dom.Listener {
	e := d.element(el)
	if e == nil || h == nil {
		return 0
	}
	d.assignID(e)
	d.nextL++
	d.listeners[d.nextL] = &listener{el: e, event: event, handler: h}
	d.syncEventsAttr(e)
	return d.nextL
}

// Off implements dom.Events.
func (d *Document) Off(id dom.Listener) {
	l, ok := d.listeners[id]
	if !ok {
		return
	}
	delete(d.listeners, id)
	d.syncEventsAttr(l.el)
}

// syncEventsAttr keeps EventsAttr equal to the set of subscribed events.
func (d *Document) syncEventsAttr(e *Element) {
	set := map[string]bool{}
	for _, l := range d.listeners {
		if l.el == e {
			set[l.event] = true
		}
	}
	events := make([]string, 0, len(set))
	for ev := range set {
		events = append(events, ev)
	}
	sort.Strings(events)
	value := strings.Join(events, " ")

	old, had := e.Attr(EventsAttr)
	if had && old == value {
		return
	}
	if value == "" {
		if !had {
			return
		}
		e.removeAttr(EventsAttr)
		if d.connected(e) {
			d.record(protocol.NewRemoveAttr(e.id, EventsAttr))
		}
		return
	}
	e.setAttr(EventsAttr, value)
	if d.connected(e) {
		d.record(protocol.NewSetAttr(e.id, EventsAttr, value))
	}
}

// Listeners returns the number of listeners registered on el.
func (d *Document) Listeners(el dom.Element) int {
	e := d.element(el)
	n := 0
	for _, l := range d.listeners {
		if l.el == e {
			n++
		}
	}
	return n
}

// Contains reports whether el is attached under the body.
func (d *Document) Contains(el dom.Element) bool {
	e := d.element(el)
	return e != nil && d.connected(e)
}

// BodyHTML renders the body's children.
func (d *Document) BodyHTML() string {
	var b strings.Builder
	for c := d.body.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&b, c)
	}
	return b.String()
}

func render(n *html.Node) string {
	var b strings.Builder
	_ = html.Render(&b, n)
	return b.String()
}

func parseStyle(s string) map[string]string {
	styles := map[string]string{}
	for _, decl := range strings.Split(s, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		styles[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return styles
}

func formatStyle(styles map[string]string) string {
	keys := make([]string, 0, len(styles))
	for k := range styles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + styles[k]
	}
	return strings.Join(parts, "; ")
}
