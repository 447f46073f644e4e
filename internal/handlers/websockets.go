package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"pivovar/internal/chart"
	"pivovar/internal/store"
	"pivovar/internal/web"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12 // 4 KB

	// outbox holds pushes not yet written; a slow client loses pushes instead of
	// blocking the poller.
	outboxSize = 64

	msgPlot   = "plot"
	msgPhases = "phases"
	msgDevice = "device"

	traceNameKey = "temperature"
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

type plotPush struct {
	Name   string       `json:"name"`
	Figure chart.Figure `json:"figure"`
}

type phaseLabel struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type phasesPush struct {
	Name   string       `json:"name"`
	Phases []phaseLabel `json:"phases"`
}

type devicePush struct {
	Name string `json:"name"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (h *Handler) wsConnect(c *gin.Context) {
	locale := h.locale(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	connID := uuid.NewString()
	if h.log != nil {
		h.log.Infow("ws_connected", "conn", connID, "locale", locale)
		defer h.log.Infow("ws_disconnected", "conn", connID)
	}

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	outbox := make(chan wsEnvelope, outboxSize)
	unsubscribe := h.store.Subscribe(func(ch store.Change) {
		env, ok := h.envelopeFor(ch, locale)
		if !ok {
			return
		}
		select {
		case outbox <- env:
		default:
			if h.log != nil {
				h.log.Warnw("ws_push_dropped", "conn", connID, "wash_machine", ch.Device.Name, "type", env.Type)
			}
		}
	})
	defer unsubscribe()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	// Initial plots so the page does not wait for the next poll.
	for _, v := range web.DeviceList(h.store) {
		env := wsEnvelope{Type: msgPlot, Data: plotPush{Name: v.Name, Figure: v.Figure(h.traceName(locale))}}
		if err := h.writeJSON(conn, env); err != nil {
			if h.log != nil {
				h.log.Infow("ws_write_failed_initial", "err", err)
			}
			return
		}
	}

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case env := <-outbox:
			if err := h.writeJSON(conn, env); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// envelopeFor maps a store change onto the message the dashboard expects.
func (h *Handler) envelopeFor(ch store.Change, locale string) (wsEnvelope, bool) {
	wm := ch.Device
	switch ch.Kind {
	case store.ChangeTempLog:
		return wsEnvelope{Type: msgPlot, Data: plotPush{
			Name:   wm.Name,
			Figure: chart.New(wm.TempLog, h.traceName(locale)),
		}}, true
	case store.ChangePhases:
		labels := make([]phaseLabel, 0, len(wm.Phases))
		for _, p := range wm.Phases {
			labels = append(labels, phaseLabel{Key: p, Label: h.catalog.T(locale, p, nil)})
		}
		return wsEnvelope{Type: msgPhases, Data: phasesPush{Name: wm.Name, Phases: labels}}, true
	case store.ChangeDevice:
		return wsEnvelope{Type: msgDevice, Data: devicePush{Name: wm.Name}}, true
	}
	return wsEnvelope{}, false
}

func (h *Handler) traceName(locale string) string {
	return h.catalog.T(locale, traceNameKey, nil)
}

func (h *Handler) writeJSON(conn *websocket.Conn, env wsEnvelope) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(env)
}

// startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}
