package ws

import (
	"context"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accentity "crypto_dashboard/internal/feature/accuracy/domain/entity"
	"crypto_dashboard/internal/feature/dashboard/domain/entity"
	"crypto_dashboard/internal/feature/dashboard/usecase"
	marketentity "crypto_dashboard/internal/feature/market/domain/entity"
	predentity "crypto_dashboard/internal/feature/prediction/domain/entity"
	prediction "crypto_dashboard/internal/feature/prediction/usecase"
	prefentity "crypto_dashboard/internal/feature/preferences/domain/entity"
	symbolentity "crypto_dashboard/internal/feature/symbollist/domain/entity"
	jwtmw "crypto_dashboard/internal/platform/jwt"
	"crypto_dashboard/internal/shared/appstate"
	"crypto_dashboard/internal/shared/view"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubBackend struct{}

func (stubBackend) ListSymbols(ctx context.Context, interval string) ([]symbolentity.Symbol, error) {
	return []symbolentity.Symbol{{Code: "BTCUSDT", Name: "Bitcoin"}, {Code: "ETHUSDT", Name: "Ethereum"}}, nil
}

func (stubBackend) Predict(ctx context.Context, symbol, interval string, horizon int) (predentity.Prediction, error) {
	cur, pred := 2000.0, 1900.0
	diff, pct := -100.0, -5.0
	return predentity.Prediction{
		Symbol:  symbol,
		Metrics: &predentity.Metrics{Current: &cur, Predicted: &pred, Diff: &diff, PctChange: &pct},
		Trend:   predentity.TrendDown,
		Candles: []predentity.Candle{{Time: 0, Close: 2000}},
	}, nil
}

func (stubBackend) Accuracy(ctx context.Context, symbol, interval string) (accentity.Stats, error) {
	return accentity.Stats{}, nil
}

func (stubBackend) MarketOverview(ctx context.Context, interval string, limit int) (marketentity.Overview, error) {
	return marketentity.Overview{}, nil
}

// manualScheduler は登録だけを記録する Scheduler です。
type manualScheduler struct {
	mu      sync.Mutex
	removed int
}

func (s *manualScheduler) Every(d time.Duration, job func()) (int, error) { return 1, nil }

func (s *manualScheduler) Remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed++
}

func (s *manualScheduler) removedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removed
}

type stubPrefs struct{ last string }

func (p stubPrefs) Get(ctx context.Context, visitorID string) (prefentity.Preference, error) {
	return prefentity.Preference{VisitorID: visitorID, LastSymbol: p.last}, nil
}

// sessionLog は生成されたセッションを記録します。
type sessionLog struct {
	mu   sync.Mutex
	list []*usecase.Session
}

func (l *sessionLog) add(s *usecase.Session) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.list = append(l.list, s)
}

func (l *sessionLog) last() *usecase.Session {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.list) == 0 {
		return nil
	}
	return l.list[len(l.list)-1]
}

func newTestServer(t *testing.T, sched *manualScheduler, prefs PreferenceReader) *httptest.Server {
	t.Helper()
	return newLoggedServer(t, sched, prefs, &sessionLog{})
}

func newLoggedServer(t *testing.T, sched *manualScheduler, prefs PreferenceReader, sessions *sessionLog) *httptest.Server {
	t.Helper()

	factory := func(v view.View, visitorID string) *usecase.Session {
		repos := usecase.Repositories{Symbols: stubBackend{}, Prediction: stubBackend{}, Accuracy: stubBackend{}, Market: stubBackend{}}
		s := usecase.NewSession(repos, v, usecase.Options{VisitorID: visitorID})
		sessions.add(s)
		return s
	}
	h := NewHandler(factory, prediction.NewPoller(sched, time.Minute), prefs)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(jwtmw.ContextVisitorID, "visitor-1")
		c.Next()
	})
	r.GET("/ws", h.Serve)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil は pred を満たすメッセージが届くまで読み続けます。
func readUntil(t *testing.T, conn *websocket.Conn, pred func(Outbound) bool) Outbound {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var msg Outbound
		require.NoError(t, conn.ReadJSON(&msg))
		if pred(msg) {
			return msg
		}
	}
}

func hasPatch(region view.Region, op view.Op, value string) func(Outbound) bool {
	return func(m Outbound) bool {
		for _, p := range m.Patches {
			if p.Region == region && p.Op == op && (value == "" || p.Value == value) {
				return true
			}
		}
		return false
	}
}

// TestHandler_Serve は接続時の初回描画とイベント処理を検証します。
func TestHandler_Serve(t *testing.T) {
	t.Parallel()

	sched := &manualScheduler{}
	conn := dial(t, newTestServer(t, sched, stubPrefs{last: "ETHUSDT"}), "page=prediction&interval=1h")

	// 前回の選択が反映される
	msg := readUntil(t, conn, hasPatch(view.RegionSymbolTitle, view.OpText, "ETH / USDT"))
	assert.True(t, hasPatch(view.RegionBias, view.OpText, "Bearish Bias")(msg))

	require.NoError(t, conn.WriteJSON(entity.Message{Type: entity.MsgSelect, Value: "btcusdt"}))
	readUntil(t, conn, hasPatch(view.RegionSymbolTitle, view.OpText, "BTC / USDT"))

	require.NoError(t, conn.WriteJSON(entity.Message{Type: "bogus"}))
	msg = readUntil(t, conn, func(m Outbound) bool { return m.Type == TypeError })
	assert.Contains(t, msg.Error, "unknown message type")

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return sched.removedCount() == 1 }, 5*time.Second, 10*time.Millisecond)
}

func TestHandler_Serve_QuerySymbol(t *testing.T) {
	t.Parallel()

	conn := dial(t, newTestServer(t, &manualScheduler{}, nil), "symbol=ethusdt")
	readUntil(t, conn, hasPatch(view.RegionSymbolTitle, view.OpText, "ETH / USDT"))
}

func TestHandler_Serve_Market(t *testing.T) {
	t.Parallel()

	conn := dial(t, newTestServer(t, &manualScheduler{}, nil), "page=market&interval=1d")
	readUntil(t, conn, hasPatch(view.RegionGainersButton, view.OpClass, "mode-btn active"))
	readUntil(t, conn, hasPatch(view.RegionMarketList, view.OpHTML, ""))
}

// TestHandler_Serve_MessageOrder は連続して届いたメッセージが到着順に処理されることを検証します。
func TestHandler_Serve_MessageOrder(t *testing.T) {
	t.Parallel()

	sessions := &sessionLog{}
	conn := dial(t, newLoggedServer(t, &manualScheduler{}, nil, sessions), "page=market&interval=1d")
	readUntil(t, conn, hasPatch(view.RegionMarketList, view.OpHTML, ""))

	for i := 0; i < 20; i++ {
		vis := entity.VisibilityHidden
		if i%2 == 1 {
			vis = entity.VisibilityVisible
		}
		require.NoError(t, conn.WriteJSON(entity.Message{Type: entity.MsgVisibility, Value: vis}))
		mode := "losers"
		if i%2 == 1 {
			mode = "gainers"
		}
		require.NoError(t, conn.WriteJSON(entity.Message{Type: entity.MsgMarketMode, Value: mode}))
	}
	require.NoError(t, conn.WriteJSON(entity.Message{Type: entity.MsgMarketMode, Value: "losers"}))

	// 最後のメッセージへの応答が届けば、それより前のメッセージはすべて処理済み
	require.NoError(t, conn.WriteJSON(entity.Message{Type: "sync"}))
	readUntil(t, conn, func(m Outbound) bool { return m.Type == TypeError })

	s := sessions.last()
	require.NotNil(t, s)
	assert.True(t, s.State().Visible())
	assert.Equal(t, appstate.ModeLosers, s.State().MarketMode())
}
