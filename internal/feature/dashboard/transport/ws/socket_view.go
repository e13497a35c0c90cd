// Package ws はダッシュボードのセッションを WebSocket で配信します。
package ws

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"crypto_dashboard/internal/shared/view"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMessage = 4096
	inboxSize  = 32
)

// Outbound message types.
const (
	TypePatch = "patch"
	TypeError = "error"
)

// Outbound はサーバーからブラウザへ送るメッセージです。
type Outbound struct {
	Type    string       `json:"type"`
	Patches []view.Patch `json:"patches,omitempty"`
	Error   string       `json:"error,omitempty"`
}

var errClosed = errors.New("socket closed")

// socketView は Patch を WebSocket に書き出す view.View です。
// gorilla/websocket は同時書き込みを許さないため、書き込みは mu で直列化します。
type socketView struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

func newSocketView(conn *websocket.Conn) *socketView {
	return &socketView{conn: conn}
}

func (v *socketView) Apply(patches ...view.Patch) {
	if len(patches) == 0 {
		return
	}
	if err := v.write(Outbound{Type: TypePatch, Patches: patches}); err != nil && !errors.Is(err, errClosed) {
		slog.Debug("failed to write patches", "error", err)
	}
}

func (v *socketView) sendError(err error) {
	if werr := v.write(Outbound{Type: TypeError, Error: err.Error()}); werr != nil && !errors.Is(werr, errClosed) {
		slog.Debug("failed to write error message", "error", werr)
	}
}

func (v *socketView) ping() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return errClosed
	}
	return v.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (v *socketView) write(msg Outbound) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return errClosed
	}
	if err := v.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	if err := v.conn.WriteJSON(msg); err != nil {
		v.closed = true
		return err
	}
	return nil
}

// close marks the view closed so late presenter output is dropped.
func (v *socketView) close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
}
