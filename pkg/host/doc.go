// Package host serves tooltip documents to browsers.
//
// Every WebSocket connection gets its own Session: an in-memory copy of the
// page body, an event loop and a tooltip runtime with the configured
// tooltips mounted. The embedded client script forwards the events listed
// in each element's data-tt-events attribute together with the bounding
// boxes of the target and its ancestors, and applies the patch frames the
// session sends back.
//
// Routes:
//
//	GET /          page with the mounted initial state
//	GET /client.js client script
//	GET /ws        WebSocket endpoint
//	GET /metrics   Prometheus metrics (when a registry is configured)
//	GET /healthz   liveness and session count
//
// Each client event is traced as one span named "tooltip.<event type>".
package host
