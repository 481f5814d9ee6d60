// Package tooltip implements floating tooltip and popover panels.
//
// A Tooltip owns one panel rendered from a named template and anchored to a
// corner of a trigger element. Its visibility is driven by an activation
// mode:
//
//   - click: clicking the trigger or the panel toggles the panel
//   - hover: entering the trigger shows it, leaving hides it after EventDelay
//   - focus: focus shows it, blur hides it
//   - none: only the Show, Hide and Toggle methods change visibility
//
// Tooltips that share a Group are mutually exclusive: showing one hides the
// others before the new panel is inserted.
//
// # Runtime
//
// Tooltips are created through a Runtime, which bundles the collaborators
// they need: the document, the template store, the group registry, the timer
// scheduler, a logger and optional Prometheus metrics. All methods must be
// called from the scheduler's event loop; see package loop.
//
//	rt := tooltip.NewRuntime(doc, evloop, tooltip.WithLogger(logger))
//
//	cfg := tooltip.DefaultConfig()
//	cfg.Content = "Saved drafts are kept for 30 days"
//	cfg.Activation = tooltip.Hover
//	cfg.Origin = position.BottomLeft
//
//	tip, err := rt.New("drafts-help", cfg)
//	if err != nil {
//	    return err
//	}
//	defer tip.Dispose()
//
// # Transitions
//
// Show inserts the panel without the shown class and adds the class on the
// next tick (ShowClassDelay later), so CSS transitions keyed on the class
// animate from the initial state.
package tooltip
