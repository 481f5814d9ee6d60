package tooltip

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/vango-dev/tooltip/internal/errors"
	"github.com/vango-dev/tooltip/pkg/dom"
	"github.com/vango-dev/tooltip/pkg/loop"
	"github.com/vango-dev/tooltip/pkg/position"
)

// ShowClassDelay is how long after insertion the shown class is added.
const ShowClassDelay = time.Millisecond

// State is the lifecycle state of a Tooltip.
type State int

const (
	Unattached State = iota
	AttachedHidden
	AttachedShown
	Disposed
)

func (s State) String() string {
	switch s {
	case Unattached:
		return "unattached"
	case AttachedHidden:
		return "attached-hidden"
	case AttachedShown:
		return "attached-shown"
	case Disposed:
		return "disposed"
	}
	return "State(" + strconv.Itoa(int(s)) + ")"
}

// Tooltip is one panel bound to one trigger element. It is not safe for
// concurrent use; call it from the runtime's event loop.
type Tooltip struct {
	rt  *Runtime
	id  string
	cfg Config

	trigger dom.Element
	target  dom.Element
	button  dom.Element
	panel   dom.Element

	shown    bool
	attached bool
	disposed bool

	listeners      []dom.Listener
	hideTimer      loop.Timer
	showClassTimer loop.Timer
}

// New creates a tooltip for the element ref resolves to. ref is an element
// ID or a dom.Element. The panel is rendered immediately; listeners are
// wired when cfg.AutoAttach is set.
func (rt *Runtime) New(ref any, cfg Config) (*Tooltip, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	trigger, ok := rt.doc.Resolve(ref)
	if !ok {
		return nil, errors.New(errors.CodeInvalidTrigger).
			WithDetailf("trigger %v does not resolve to an element", ref).
			WithSuggestion("Pass the ID of an element in the document or an element handle")
	}

	t := &Tooltip{
		rt:      rt,
		id:      uuid.NewString(),
		cfg:     cfg,
		trigger: trigger,
		target:  trigger,
	}

	panel, err := t.render(cfg.Content)
	if err != nil {
		return nil, err
	}
	t.panel = panel

	if cfg.Button != "" && cfg.Activation != Focus {
		button, err := t.renderTemplate(cfg.Button, cfg.vars())
		if err != nil {
			rt.doc.Destroy(panel)
			return nil, err
		}
		rt.doc.Append(trigger, button)
		t.button = button
		t.target = button
	}

	rt.track(t)
	rt.logger.Debug("tooltip created",
		"id", t.id,
		"trigger", trigger.ID(),
		"template", cfg.Template,
		"activation", cfg.Activation,
		"group", cfg.Group,
	)

	if cfg.AutoAttach {
		t.Attach()
	}
	return t, nil
}

// render builds a detached panel with the configured styles applied.
func (t *Tooltip) render(content any) (dom.Element, error) {
	cfg := t.cfg
	cfg.Content = content
	panel, err := t.renderTemplate(cfg.Template, cfg.vars())
	if err != nil {
		return nil, err
	}
	t.rt.doc.SetStyle(panel, t.cfg.Styles)
	return panel, nil
}

func (t *Tooltip) renderTemplate(name string, vars map[string]any) (dom.Element, error) {
	markup, err := t.rt.templates.Render(name, vars)
	if err != nil {
		t.rt.metrics.recordRenderError(errors.CodeOf(err))
		return nil, err
	}
	el, err := t.rt.doc.Parse(markup)
	if err != nil {
		t.rt.metrics.recordRenderError(errors.CodeTemplateLoad)
		return nil, errors.New(errors.CodeTemplateLoad).
			WithDetailf("template %q produced no element", name).
			Wrap(err)
	}
	return el, nil
}

// ID returns the instance's unique identifier.
func (t *Tooltip) ID() string { return t.id }

// Config returns the effective configuration.
func (t *Tooltip) Config() Config { return t.cfg }

// Trigger returns the element the tooltip is anchored to.
func (t *Tooltip) Trigger() dom.Element { return t.trigger }

// Target returns the element that receives activation events: the
// generated button when one is configured, otherwise the trigger.
func (t *Tooltip) Target() dom.Element { return t.target }

// Panel returns the panel element.
func (t *Tooltip) Panel() dom.Element { return t.panel }

// Shown reports whether the panel is in the document.
func (t *Tooltip) Shown() bool { return t.shown }

// Attached reports whether event listeners are wired.
func (t *Tooltip) Attached() bool { return t.attached }

// Disposed reports whether Dispose has been called.
func (t *Tooltip) Disposed() bool { return t.disposed }

// State reports the lifecycle state. A tooltip shown programmatically while
// unattached reports Unattached; use Shown for visibility.
func (t *Tooltip) State() State {
	switch {
	case t.disposed:
		return Disposed
	case !t.attached:
		return Unattached
	case t.shown:
		return AttachedShown
	}
	return AttachedHidden
}

// Attach wires the listeners for the activation mode and joins the group.
func (t *Tooltip) Attach() *Tooltip {
	if t.attached || t.disposed {
		return t
	}
	t.attached = true

	switch t.cfg.Activation {
	case Click:
		t.listen(t.target, dom.EventClick, t.handleToggle)
		t.listen(t.panel, dom.EventClick, t.handleToggle)
	case Hover:
		t.listen(t.target, dom.EventPointerEnter, t.handleShow)
		t.listen(t.target, dom.EventPointerLeave, t.handleDelayedHide)
	case Focus:
		t.listen(t.target, dom.EventFocus, t.handleShow)
		t.listen(t.target, dom.EventBlur, t.handleHide)
	}

	if t.cfg.Group != "" {
		t.rt.groups.Join(t.cfg.Group, t)
	}
	t.rt.logger.Debug("tooltip attached", "id", t.id, "activation", t.cfg.Activation)
	return t
}

// Detach removes every listener, cancels a pending hide and leaves the group.
func (t *Tooltip) Detach() *Tooltip {
	if !t.attached {
		return t
	}
	t.attached = false

	for _, l := range t.listeners {
		t.rt.doc.Off(l)
	}
	t.listeners = nil
	stop(&t.hideTimer)

	if t.cfg.Group != "" {
		t.rt.groups.Leave(t.cfg.Group, t)
	}
	t.rt.logger.Debug("tooltip detached", "id", t.id)
	return t
}

// Show hides the other members of the group, positions the panel at the
// configured corner of the trigger and inserts it. The shown class follows
// after ShowClassDelay.
func (t *Tooltip) Show() *Tooltip {
	if t.shown || t.disposed {
		return t
	}
	if t.cfg.Group != "" {
		t.rt.groups.HideOthers(t.cfg.Group, t)
	}

	box := t.rt.doc.BoundingBox(t.trigger)
	at := position.Anchor(box, t.cfg.Origin)
	t.rt.doc.SetStyle(t.panel, map[string]string{
		"top":  px(at.Top),
		"left": px(at.Left),
	})
	t.rt.doc.Insert(t.panel)
	t.shown = true

	panel, class := t.panel, t.cfg.ShownClass
	stop(&t.showClassTimer)
	t.showClassTimer = t.rt.scheduler.AfterFunc(ShowClassDelay, func() {
		t.showClassTimer = nil
		t.rt.doc.AddClass(panel, class)
	})

	t.rt.metrics.recordShow(&t.cfg)
	t.rt.logger.Debug("tooltip shown", "id", t.id, "top", at.Top, "left", at.Left)
	return t
}

// Hide cancels pending timers, removes the shown class and takes the panel
// out of the document.
func (t *Tooltip) Hide() *Tooltip {
	if !t.shown {
		return t
	}
	stop(&t.hideTimer)
	stop(&t.showClassTimer)

	t.rt.doc.RemoveClass(t.panel, t.cfg.ShownClass)
	t.rt.doc.Remove(t.panel)
	t.shown = false

	t.rt.metrics.recordHide(&t.cfg)
	t.rt.logger.Debug("tooltip hidden", "id", t.id)
	return t
}

// Toggle hides a shown tooltip and shows a hidden one.
func (t *Tooltip) Toggle() *Tooltip {
	if t.shown {
		return t.Hide()
	}
	return t.Show()
}

// Dispose detaches the tooltip and destroys the panel and any generated
// button. Every later call on the instance is a no-op.
func (t *Tooltip) Dispose() *Tooltip {
	if t.disposed {
		return t
	}
	t.Detach()
	t.Hide()
	stop(&t.showClassTimer)

	t.rt.doc.Destroy(t.panel)
	if t.button != nil {
		t.rt.doc.Destroy(t.button)
	}
	t.disposed = true

	t.rt.untrack(t)
	t.rt.logger.Debug("tooltip disposed", "id", t.id)
	return t
}

// SetContent re-renders the panel with new content. A shown tooltip is
// hidden and shown again with the new panel; listeners follow it. On error
// the current panel is kept.
func (t *Tooltip) SetContent(content any) error {
	if t.disposed {
		return nil
	}
	panel, err := t.render(content)
	if err != nil {
		return err
	}

	// A pending hover hide survives the swap.
	pending := t.hideTimer
	t.hideTimer = nil

	wasAttached, wasShown := t.attached, t.shown
	t.Detach()
	t.Hide()
	t.rt.doc.Destroy(t.panel)

	t.panel = panel
	t.cfg.Content = content
	if wasAttached {
		t.Attach()
	}
	if wasShown {
		t.Show()
	}
	t.hideTimer = pending
	return nil
}

func (t *Tooltip) listen(el dom.Element, event string, h dom.Handler) {
	t.listeners = append(t.listeners, t.rt.doc.On(el, event, h))
}

func (t *Tooltip) handleShow(e dom.Event) {
	e.PreventDefault()
	stop(&t.hideTimer)
	t.Show()
}

func (t *Tooltip) handleHide(e dom.Event) {
	e.PreventDefault()
	t.Hide()
}

func (t *Tooltip) handleToggle(e dom.Event) {
	e.PreventDefault()
	t.Toggle()
}

func (t *Tooltip) handleDelayedHide(dom.Event) {
	stop(&t.hideTimer)
	t.hideTimer = t.rt.scheduler.AfterFunc(t.cfg.EventDelay, func() {
		t.hideTimer = nil
		t.Hide()
	})
}

// stop cancels the timer in slot and clears it.
func stop(slot *loop.Timer) {
	if *slot != nil {
		(*slot).Stop()
		*slot = nil
	}
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
