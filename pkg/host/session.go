package host

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/tooltip/internal/errors"
	"github.com/vango-dev/tooltip/pkg/dom"
	"github.com/vango-dev/tooltip/pkg/dom/memdom"
	"github.com/vango-dev/tooltip/pkg/loop"
	"github.com/vango-dev/tooltip/pkg/protocol"
	"github.com/vango-dev/tooltip/pkg/tooltip"
)

// Session is one connected client and its document.
type Session struct {
	id     string
	server *Server
	conn   *websocket.Conn
	logger *slog.Logger

	doc  *memdom.Document
	loop *loop.Loop
	rt   *tooltip.Runtime

	// seq is only touched on the loop goroutine.
	seq uint64

	writeMu   sync.Mutex
	closeOnce sync.Once
	events    atomic.Int64
	patches   atomic.Int64
}

func (s *Server) newSession(id string, conn *websocket.Conn) (*Session, error) {
	sess := &Session{
		id:     id,
		server: s,
		conn:   conn,
		logger: s.logger.With("session", id),
	}
	sess.loop = loop.New(
		loop.WithLogger(sess.logger),
		loop.WithQueueSize(s.cfg.QueueSize),
		loop.WithAfterTask(sess.flush),
	)

	doc, rt, err := s.newRuntime(sess.loop, sess.logger, s.tooltipMetrics)
	if err != nil {
		return nil, err
	}
	sess.doc, sess.rt = doc, rt
	return sess, nil
}

// ID returns the session identifier.
func (sess *Session) ID() string {
	return sess.id
}

// run serves the session until the client disconnects or ctx is done.
func (sess *Session) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer sess.Close()

	go func() {
		_ = sess.loop.Run(ctx)
	}()

	var mountErr error
	err := sess.loop.Do(ctx, func() {
		_, mountErr = Mount(sess.rt, sess.server.cfg.Tooltips)
		// The served page already reflects the mounted state.
		sess.doc.Flush()
	})
	if err == nil {
		err = mountErr
	}
	if err != nil {
		sess.logger.Error("mount failed", "error", err)
		sess.sendError(protocol.ErrServerError, "session setup failed")
		return
	}

	sess.logger.Info("session opened")
	if interval := sess.server.cfg.PingInterval; interval > 0 {
		go sess.pingLoop(ctx, interval)
	}
	sess.readLoop(ctx)
}

// readLoop reads frames until the connection fails.
func (sess *Session) readLoop(ctx context.Context) {
	sess.conn.SetReadLimit(protocol.MaxFrameSize)
	interval := sess.server.cfg.PingInterval

	for {
		if interval > 0 {
			_ = sess.conn.SetReadDeadline(time.Now().Add(2 * interval))
		}

		_, msg, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				sess.logger.Warn("read error", "error", err)
			}
			return
		}

		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			sess.logger.Warn("frame decode error", "error", err)
			sess.server.metrics.recordFrameError("decode")
			sess.sendError(protocol.ErrInvalidFrame,
				errors.New(errors.CodeProtocolDecode).Wrap(err).Error())
			continue
		}

		switch frame.Type {
		case protocol.FrameEvent:
			sess.handleEvent(ctx, frame.Event)

		case protocol.FramePing:
			sess.send(&protocol.Frame{Type: protocol.FramePong})

		case protocol.FramePong:
			sess.logger.Debug("received pong")

		default:
			sess.server.metrics.recordFrameError("unexpected")
			sess.sendError(protocol.ErrInvalidFrame, "unexpected frame type "+string(frame.Type))
		}
	}
}

// handleEvent applies one client event on the loop inside a span.
func (sess *Session) handleEvent(ctx context.Context, ev *protocol.Event) {
	ctx, span := sess.server.tracer.Start(ctx, "tooltip."+ev.Type,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("tooltip.session_id", sess.id),
			attribute.String("tooltip.event_type", ev.Type),
			attribute.String("tooltip.event_target", ev.Target),
		),
	)
	defer span.End()

	sess.events.Add(1)
	start := time.Now()

	var known, prevented bool
	err := sess.loop.Do(ctx, func() {
		for id, box := range ev.Boxes {
			sess.doc.SetBox(id, box)
		}
		if e := sess.doc.Dispatch(ev.Target, ev.Type); e != nil {
			known = true
			prevented = e.DefaultPrevented()
		}
	})

	result := "ok"
	switch {
	case err != nil:
		result = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

	case !known:
		result = "unknown_target"
		uerr := errors.New(errors.CodeUnknownTarget).
			WithDetailf("no element with id %q", ev.Target)
		span.RecordError(uerr)
		span.SetStatus(codes.Error, uerr.Error())
		sess.sendError(protocol.ErrInvalidTarget, uerr.Error()+" ("+ev.Target+")")

	default:
		span.SetAttributes(attribute.Bool("tooltip.default_prevented", prevented))
		span.SetStatus(codes.Ok, "")
	}

	sess.server.metrics.recordEvent(eventLabel(ev.Type), result, time.Since(start))
}

// eventLabel bounds the event type label to the known event names.
func eventLabel(typ string) string {
	switch typ {
	case dom.EventClick, dom.EventPointerEnter, dom.EventPointerLeave, dom.EventFocus, dom.EventBlur:
		return typ
	}
	return "other"
}

// flush sends the patches recorded by the last loop task. It runs on the
// loop goroutine after every task.
func (sess *Session) flush() {
	patches := sess.doc.Flush()
	if len(patches) == 0 {
		return
	}
	sess.seq++
	sess.send(protocol.NewPatchesFrame(sess.seq, patches))
	sess.patches.Add(int64(len(patches)))
	sess.server.metrics.recordPatches(len(patches))
}

func (sess *Session) pingLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			sess.send(&protocol.Frame{Type: protocol.FramePing})
		case <-ctx.Done():
			return
		}
	}
}

func (sess *Session) sendError(code protocol.ErrorCode, message string) {
	sess.send(protocol.NewErrorFrame(code, message))
}

// send writes one frame. Write failures close the connection, which ends
// the read loop.
func (sess *Session) send(f *protocol.Frame) {
	data, err := f.Encode()
	if err != nil {
		sess.logger.Error("frame encode error", "error", err)
		return
	}

	sess.writeMu.Lock()
	defer sess.writeMu.Unlock()

	_ = sess.conn.SetWriteDeadline(time.Now().Add(sess.server.cfg.WriteTimeout))
	if err := sess.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		sess.logger.Warn("write error", "error", err)
		_ = sess.conn.Close()
	}
}

// Close disposes the session's tooltips and closes the connection.
func (sess *Session) Close() {
	sess.closeOnce.Do(func() {
		_ = sess.loop.Do(context.Background(), sess.rt.DisposeAll)
		sess.loop.Close()

		sess.writeMu.Lock()
		_ = sess.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		sess.writeMu.Unlock()
		_ = sess.conn.Close()

		sess.logger.Info("session closed",
			"events", sess.events.Load(),
			"patches", sess.patches.Load())
	})
}
