package protocol

import (
	"encoding/json"
	"fmt"
)

// MaxFrameSize bounds the size of a decoded client frame.
const MaxFrameSize = 64 << 10

// FrameType discriminates frames.
type FrameType string

const (
	FrameEvent   FrameType = "event"
	FramePatches FrameType = "patches"
	FrameError   FrameType = "error"
	FramePing    FrameType = "ping"
	FramePong    FrameType = "pong"
)

// Frame is one WebSocket message.
type Frame struct {
	Type    FrameType     `json:"t"`
	Seq     uint64        `json:"seq,omitempty"`
	Event   *Event        `json:"event,omitempty"`
	Patches []Patch       `json:"patches,omitempty"`
	Error   *ErrorMessage `json:"error,omitempty"`
}

// NewPatchesFrame wraps patches with a sequence number.
func NewPatchesFrame(seq uint64, patches []Patch) *Frame {
	return &Frame{Type: FramePatches, Seq: seq, Patches: patches}
}

// NewErrorFrame wraps an error message.
func NewErrorFrame(code ErrorCode, message string) *Frame {
	return &Frame{Type: FrameError, Error: NewError(code, message)}
}

// Encode serializes the frame.
func (f *Frame) Encode() ([]byte, error) {
	return json.Marshal(f)
}

// DecodeFrame parses and validates a frame.
func DecodeFrame(data []byte) (*Frame, error) {
	if len(data) > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrFrameTooLarge, len(data), MaxFrameSize)
	}

	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	switch f.Type {
	case FrameEvent:
		if err := f.Event.Validate(); err != nil {
			return nil, err
		}
	case FramePatches, FrameError, FramePing, FramePong:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFrame, f.Type)
	}
	return &f, nil
}
