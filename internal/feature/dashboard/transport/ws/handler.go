package ws

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"crypto_dashboard/internal/feature/dashboard/domain/entity"
	"crypto_dashboard/internal/feature/dashboard/usecase"
	prefentity "crypto_dashboard/internal/feature/preferences/domain/entity"
	prediction "crypto_dashboard/internal/feature/prediction/usecase"
	jwtmw "crypto_dashboard/internal/platform/jwt"
	"crypto_dashboard/internal/shared/timeframe"
	"crypto_dashboard/internal/shared/view"
)

// SessionFactory builds a session bound to v for one connection.
type SessionFactory func(v view.View, visitorID string) *usecase.Session

// Watcher registers the periodic refresh of a session. Implemented by prediction.Poller.
type Watcher interface {
	Watch(ctx context.Context, vis prediction.VisibilitySource, target prediction.Refresher) (stop func(), err error)
}

// PreferenceReader loads the stored preferences of a visitor.
type PreferenceReader interface {
	Get(ctx context.Context, visitorID string) (prefentity.Preference, error)
}

// Handler は /ws の接続ごとにセッションを生成し、ブラウザのイベントを処理します。
type Handler struct {
	upgrader websocket.Upgrader
	sessions SessionFactory
	poller   Watcher
	prefs    PreferenceReader
}

// NewHandler creates a Handler. prefs may be nil.
func NewHandler(sessions SessionFactory, poller Watcher, prefs PreferenceReader) *Handler {
	return &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		sessions: sessions,
		poller:   poller,
		prefs:    prefs,
	}
}

// Serve は WebSocket にアップグレードし、切断されるまでセッションを駆動します。
//
// エンドポイント例:
// GET /ws?page=prediction&symbol=ethusdt&interval=1h
// GET /ws?page=market&interval=1d
func (h *Handler) Serve(c *gin.Context) {
	q := c.Request.URL.Query()
	visitorID := jwtmw.VisitorID(c)
	params := usecase.InitParams{
		Page:       entity.ParsePage(q.Get("page")),
		Interval:   timeframe.OrDefault(q.Get("interval")),
		Symbol:     strings.TrimSpace(q.Get("symbol")),
		LastSymbol: h.lastSymbol(c.Request.Context(), visitorID),
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sessionID := uuid.NewString()
	log := slog.With("session", sessionID, "page", params.Page)
	log.Info("dashboard session opened")

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	sv := newSocketView(conn)
	s := h.sessions(sv, visitorID)
	s.Prepare(params)

	stop, err := h.poller.Watch(ctx, s.State(), s)
	if err != nil {
		log.Error("failed to register refresh", "error", err)
		return
	}

	var wg sync.WaitGroup
	defer func() {
		cancel()
		stop()
		wg.Wait()
		s.Close()
		sv.close()
		log.Info("dashboard session closed")
	}()

	inbox := make(chan entity.Message, inboxSize)
	wg.Add(2)
	go func() {
		defer wg.Done()
		run(ctx, s, sv, params, inbox, log)
	}()
	go func() {
		defer wg.Done()
		keepAlive(ctx, sv)
	}()

	conn.SetReadLimit(maxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg entity.Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket read failed", "error", err)
			}
			return
		}
		select {
		case inbox <- msg:
		case <-ctx.Done():
			return
		}
	}
}

// run は初回描画の後、受信したメッセージを到着順に1つずつ処理します。
func run(ctx context.Context, s *usecase.Session, sv *socketView, params usecase.InitParams, inbox <-chan entity.Message, log *slog.Logger) {
	s.Init(ctx, params)
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-inbox:
			if err := s.Handle(ctx, msg); err != nil {
				log.Debug("message rejected", "type", msg.Type, "error", err)
				sv.sendError(err)
			}
		}
	}
}

func (h *Handler) lastSymbol(ctx context.Context, visitorID string) string {
	if h.prefs == nil || visitorID == "" {
		return ""
	}
	p, err := h.prefs.Get(ctx, visitorID)
	if err != nil {
		slog.Warn("failed to load preferences", "visitor", visitorID, "error", err)
		return ""
	}
	return p.LastSymbol
}

func keepAlive(ctx context.Context, sv *socketView) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sv.ping(); err != nil {
				return
			}
		}
	}
}
