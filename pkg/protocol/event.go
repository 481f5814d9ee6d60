package protocol

import (
	"errors"
	"fmt"

	"github.com/vango-dev/tooltip/pkg/position"
)

// MaxBoxes bounds the number of bounding boxes one event may carry.
const MaxBoxes = 64

// Decoding errors.
var (
	ErrFrameTooLarge = errors.New("protocol: frame too large")
	ErrInvalidJSON   = errors.New("protocol: invalid json")
	ErrUnknownFrame  = errors.New("protocol: unknown frame type")
	ErrInvalidEvent  = errors.New("protocol: invalid event")
)

// Event is a client interaction.
type Event struct {
	// Target is the id of the element the interaction happened on.
	Target string `json:"target"`

	// Type is the DOM event name (click, mouseenter, ...).
	Type string `json:"type"`

	// Boxes maps element ids to their current bounding boxes.
	Boxes map[string]position.Box `json:"boxes,omitempty"`
}

// Validate checks the event is usable.
func (e *Event) Validate() error {
	switch {
	case e == nil:
		return fmt.Errorf("%w: missing event", ErrInvalidEvent)
	case e.Target == "":
		return fmt.Errorf("%w: missing target", ErrInvalidEvent)
	case e.Type == "":
		return fmt.Errorf("%w: missing type", ErrInvalidEvent)
	case len(e.Boxes) > MaxBoxes:
		return fmt.Errorf("%w: %d boxes exceeds %d", ErrInvalidEvent, len(e.Boxes), MaxBoxes)
	}
	return nil
}
