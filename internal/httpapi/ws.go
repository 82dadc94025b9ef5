package httpapi

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ent0n29/taskboard/internal/protocol"
	"github.com/ent0n29/taskboard/internal/session"
	"github.com/ent0n29/taskboard/internal/tasks"
	"github.com/ent0n29/taskboard/internal/theme"
	"github.com/ent0n29/taskboard/internal/views"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsReadTimeout  = 120 * time.Second
	wsPingInterval = 30 * time.Second
	wsReadLimit    = 64 << 10

	// wsCloseSessionEnded is the close reason sent when the session ends or
	// expires while the socket is open.
	wsCloseSessionEnded = "session_ended"
)

// handleSessionWS pushes a fresh task and theme snapshot whenever the
// session's stores change and applies commands sent by the page.
func (s *Server) handleSessionWS(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFromRequest(w, r)
	if sess == nil {
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	s.metrics.SessionEvents.WithLabelValues("ws_connected").Inc()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	taskUpdates, stopTasks := sess.Tasks.Subscribe()
	defer stopTasks()
	themeUpdates, stopTheme := sess.Theme.Subscribe()
	defer stopTheme()

	outbound := make(chan any, 16)
	page := views.NewTaskPage(sess.Tasks, sess.Theme, sess.ID)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ping := time.NewTicker(wsPingInterval)
		defer ping.Stop()

		write := func(msg any) bool {
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(msg); err != nil {
				s.metrics.WSWriteErrors.WithLabelValues("write_json").Inc()
				cancel()
				return false
			}
			if t, ok := messageTypeOf(msg); ok {
				s.metrics.WSMessages.WithLabelValues("outbound", string(t)).Inc()
			}
			return true
		}

		if !write(s.tasksMessage(page, sess.Tasks.Snapshot())) {
			return
		}
		if !write(themeMessage(sess.ID, sess.Theme.Current())) {
			return
		}

		for {
			var msg any
			select {
			case <-ctx.Done():
				return
			case <-sess.Done():
				closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, wsCloseSessionEnded)
				if err := conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(wsWriteTimeout)); err != nil {
					s.metrics.WSWriteErrors.WithLabelValues("close").Inc()
				}
				cancel()
				// Unblocks the reader; the close frame is already on the wire.
				_ = conn.Close()
				return
			case snap, ok := <-taskUpdates:
				if !ok {
					return
				}
				msg = s.tasksMessage(page, snap)
			case current, ok := <-themeUpdates:
				if !ok {
					return
				}
				msg = themeMessage(sess.ID, current)
			case msg = <-outbound:
			case <-ping.C:
				_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					s.metrics.WSWriteErrors.WithLabelValues("ping").Inc()
					cancel()
					return
				}
				continue
			}
			if !write(msg) {
				return
			}
		}
	}()

	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		_ = s.sessions.Touch(sess.ID)
		return nil
	})

readLoop:
	for ctx.Err() == nil {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		if msgType != websocket.TextMessage {
			continue
		}
		_ = s.sessions.Touch(sess.ID)

		parsed, err := protocol.ParseClientMessage(data)
		if err != nil {
			errEvent := protocol.ErrorEvent{
				Type:      protocol.TypeErrorEvent,
				SessionID: sess.ID,
				Code:      "invalid_client_message",
				Detail:    err.Error(),
			}
			select {
			case outbound <- errEvent:
			default:
				// Writes stay on the writer goroutine; drop when its queue is full.
			}
			continue
		}
		if t, ok := messageTypeOf(parsed); ok {
			s.metrics.WSMessages.WithLabelValues("inbound", string(t)).Inc()
		}
		select {
		case <-sess.Done():
			// The stores outlive the session; stop mutating them once it is gone.
			break readLoop
		default:
		}
		s.applyCommand(sess, parsed)
	}

	cancel()
	<-writerDone
	s.metrics.SessionEvents.WithLabelValues("ws_disconnected").Inc()
}

// applyCommand forwards a client command to the owning store. Results reach
// the client through the store subscription, not as a direct reply.
func (s *Server) applyCommand(sess *session.Session, msg any) {
	switch m := msg.(type) {
	case protocol.AddTask:
		_, applied := sess.Tasks.Add(m.Text)
		s.metrics.ObserveTaskOperation("add", applied)
	case protocol.ToggleTask:
		s.metrics.ObserveTaskOperation("toggle", sess.Tasks.Toggle(m.TaskID))
	case protocol.DeleteTask:
		s.metrics.ObserveTaskOperation("delete", sess.Tasks.Delete(m.TaskID))
	case protocol.ToggleTheme:
		sess.Theme.Toggle()
		s.metrics.ThemeToggles.Inc()
	}
}

func (s *Server) tasksMessage(page views.TaskPage, snap tasks.Snapshot) protocol.TasksSnapshot {
	msg := protocol.NewTasksSnapshot(page.SessionID, snap)
	header, list, err := page.RenderFragments(snap)
	if err != nil {
		log.Printf("render task fragments failed: session=%s err=%v", page.SessionID, err)
		return msg
	}
	msg.HeaderHTML = header
	msg.ListHTML = list
	return msg
}

func themeMessage(sessionID string, current theme.Theme) protocol.ThemeSnapshot {
	return protocol.ThemeSnapshot{
		Type:      protocol.TypeThemeSnapshot,
		SessionID: sessionID,
		Theme:     string(current),
	}
}

func messageTypeOf(v any) (protocol.MessageType, bool) {
	switch m := v.(type) {
	case protocol.AddTask:
		return m.Type, true
	case protocol.ToggleTask:
		return m.Type, true
	case protocol.DeleteTask:
		return m.Type, true
	case protocol.ToggleTheme:
		return m.Type, true
	case protocol.TasksSnapshot:
		return m.Type, true
	case protocol.ThemeSnapshot:
		return m.Type, true
	case protocol.ErrorEvent:
		return m.Type, true
	default:
		return "", false
	}
}
