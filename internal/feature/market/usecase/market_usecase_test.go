package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crypto_dashboard/internal/feature/market/domain/entity"
	"crypto_dashboard/internal/feature/market/usecase"
	predentity "crypto_dashboard/internal/feature/prediction/domain/entity"
	"crypto_dashboard/internal/shared/appstate"
	"crypto_dashboard/internal/shared/timeframe"
	"crypto_dashboard/internal/shared/view"
)

// mockMarketRepository はMarketRepositoryインターフェースのモック実装です。
type mockMarketRepository struct {
	MarketOverviewFunc func(ctx context.Context, interval string, limit int) (entity.Overview, error)
}

func (m *mockMarketRepository) MarketOverview(ctx context.Context, interval string, limit int) (entity.Overview, error) {
	return m.MarketOverviewFunc(ctx, interval, limit)
}

func ptr(v float64) *float64 { return &v }

func item(rank int, symbol string, pct float64) entity.Item {
	return entity.Item{
		Rank: rank,
		Prediction: predentity.Prediction{
			Symbol:     symbol,
			Interval:   "1d",
			Metrics:    &predentity.Metrics{Current: ptr(100), Predicted: ptr(100 + pct), Diff: ptr(pct), PctChange: ptr(pct)},
			Confidence: ptr(72.35),
			Trend:      predentity.TrendUp,
			Candles:    []predentity.Candle{{Time: 0, Close: 100}, {Time: 86400000, Close: 101}},
			Future:     []predentity.FuturePoint{{Time: 172800000, Value: 100 + pct}},
		},
	}
}

func symbols(items []usecase.Ranked) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Symbol()
	}
	return out
}

// TestSortItems は gainers が非増加、losers が非減少になることを検証します。
func TestSortItems(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewSource(7))
	items := make([]entity.Item, 50)
	for i := range items {
		items[i] = item(i+1, "SYM"+string(rune('A'+i%26)), math.Round((r.Float64()*40-20)*100)/100)
	}

	gainers := usecase.SortItems(items, appstate.ModeGainers)
	for i := 1; i < len(gainers); i++ {
		assert.GreaterOrEqual(t, gainers[i-1].PctChange(), gainers[i].PctChange())
	}
	losers := usecase.SortItems(items, appstate.ModeLosers)
	for i := 1; i < len(losers); i++ {
		assert.LessOrEqual(t, losers[i-1].PctChange(), losers[i].PctChange())
	}
	assert.Equal(t, 1, items[0].Rank, "input must not be reordered")
}

func TestSortItems_MissingPctLast(t *testing.T) {
	t.Parallel()

	missing := item(1, "NOPCT", 0)
	missing.Prediction.Metrics.PctChange = nil
	items := []entity.Item{missing, item(2, "AAA", -3), item(3, "BBB", 5)}

	got := usecase.SortItems(items, appstate.ModeLosers)
	assert.Equal(t, "NOPCT", got[2].Symbol())
	assert.Equal(t, "AAA", got[0].Symbol())
}

// TestArrange は AI PICK が gainers の上位10件だけに付き、検索で変わらないことを検証します。
func TestArrange(t *testing.T) {
	t.Parallel()

	var items []entity.Item
	for i := 0; i < 12; i++ {
		items = append(items, item(i+1, fmt.Sprintf("C%02dUSDT", i), float64(i)))
	}

	gainers := usecase.Arrange(items, appstate.ModeGainers, "")
	require.Len(t, gainers, 12)
	for i, it := range gainers {
		assert.Equal(t, i < usecase.PickCount, it.Pick, "index %d", i)
	}

	for _, it := range usecase.Arrange(items, appstate.ModeLosers, "") {
		assert.False(t, it.Pick)
	}

	// 検索で先頭になっても、絞り込み前の順位が低ければ PICK にはならない
	searched := usecase.Arrange(items, appstate.ModeGainers, "c00")
	require.Len(t, searched, 1)
	assert.False(t, searched[0].Pick)

	searched = usecase.Arrange(items, appstate.ModeGainers, "C11 / usdt")
	require.Len(t, searched, 1)
	assert.True(t, searched[0].Pick)
}

// TestFilterItems は銘柄コードとペア表記の両方で絞り込めることを検証します。
func TestFilterItems(t *testing.T) {
	t.Parallel()

	items := []entity.Item{item(1, "BTCUSDT", 1), item(2, "ETHUSDT", 2), item(3, "SOLUSDT", 3)}

	tests := []struct {
		name    string
		keyword string
		want    []string
	}{
		{name: "empty keyword", keyword: "", want: []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"}},
		{name: "code case-insensitive", keyword: "eth", want: []string{"ETHUSDT"}},
		{name: "pair label", keyword: "sol / us", want: []string{"SOLUSDT"}},
		{name: "no match", keyword: "doge", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := usecase.FilterItems(items, tt.keyword)
			codes := make([]string, 0, len(got))
			for _, it := range got {
				codes = append(codes, it.Symbol())
			}
			assert.Equal(t, tt.want, codes)
		})
	}
}

// TestBoard_Load は取得・描画・モード切替・検索の一連の流れを検証します。
func TestBoard_Load(t *testing.T) {
	t.Parallel()

	generated := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	calls := 0
	repo := &mockMarketRepository{
		MarketOverviewFunc: func(ctx context.Context, interval string, limit int) (entity.Overview, error) {
			calls++
			assert.Equal(t, "1d", interval)
			assert.Equal(t, 50, limit)
			noMetrics := entity.Item{Rank: 4, Prediction: predentity.Prediction{Symbol: "BADUSDT"}}
			return entity.Overview{
				Items:       []entity.Item{item(1, "BTCUSDT", -2), item(2, "ETHUSDT", 4), item(3, "SOLUSDT", 1), noMetrics},
				GeneratedAt: &generated,
			}, nil
		},
	}

	rec := view.NewRecorder()
	st := appstate.New()
	b := usecase.NewBoard(repo, st, rec)
	b.Load(context.Background(), timeframe.Day, 50)

	assert.Equal(t, "Last Updated (UTC) 2024-05-01 09:30", rec.Value(view.RegionMarketUpdated, view.OpText))
	assert.Equal(t, []string{"ETHUSDT", "SOLUSDT", "BTCUSDT"}, symbols(b.Displayed()))

	html := rec.Value(view.RegionMarketList, view.OpHTML)
	assert.Equal(t, 3, strings.Count(html, `class="market-card"`))
	assert.Equal(t, 3, strings.Count(html, "AI PICK"))
	assert.Contains(t, html, `href="/?symbol=ETHUSDT"`)
	assert.Contains(t, html, "ETH / USDT")
	assert.Contains(t, html, `class="chart chart-mini"`)
	for _, sym := range []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"} {
		assert.Equal(t, 1, strings.Count(html, `id="areaGradient-mini-`+sym+`"`), sym)
	}
	assert.Contains(t, html, "width: 72.35%")
	assert.Contains(t, html, "72.35%")
	assert.NotContains(t, html, "BADUSDT")

	b.SetMode(appstate.ModeLosers)
	assert.Equal(t, []string{"BTCUSDT", "SOLUSDT", "ETHUSDT"}, symbols(b.Displayed()))
	assert.Equal(t, "mode-btn", rec.Value(view.RegionGainersButton, view.OpClass))
	assert.Equal(t, "mode-btn active", rec.Value(view.RegionLosersButton, view.OpClass))
	assert.NotContains(t, rec.Value(view.RegionMarketList, view.OpHTML), "AI PICK")

	b.Search("sol")
	assert.Equal(t, []string{"SOLUSDT"}, symbols(b.Displayed()))

	b.Search("nothing")
	assert.Equal(t, usecase.EmptyHTML, rec.Value(view.RegionMarketList, view.OpHTML))
	assert.Equal(t, 1, calls, "mode and search must not refetch")
}

// TestBoard_Load_Failure は取得失敗時にエラー表示になることを検証します。
func TestBoard_Load_Failure(t *testing.T) {
	t.Parallel()

	rec := view.NewRecorder()
	repo := &mockMarketRepository{
		MarketOverviewFunc: func(ctx context.Context, interval string, limit int) (entity.Overview, error) {
			assert.Equal(t, usecase.DefaultLimit, limit)
			return entity.Overview{}, errors.New("malformed market overview: items missing")
		},
	}
	b := usecase.NewBoard(repo, appstate.New(), rec)
	b.Load(context.Background(), timeframe.Hour, 0)

	assert.Equal(t, usecase.FailedHTML, rec.Value(view.RegionMarketList, view.OpHTML))

	// 未取得の状態でモードを切り替えても一覧は描画しない
	b.SetMode(appstate.ModeLosers)
	assert.Equal(t, usecase.FailedHTML, rec.Value(view.RegionMarketList, view.OpHTML))
}

func TestLastUpdated(t *testing.T) {
	t.Parallel()

	jst := time.FixedZone("JST", 9*3600)
	ts := time.Date(2024, 1, 2, 9, 5, 0, 0, jst)
	assert.Equal(t, "Last Updated (UTC) 2024-01-02 00:05", usecase.LastUpdated(&ts))
	assert.Equal(t, "Last Updated (UTC) —", usecase.LastUpdated(nil))
}

func TestMarketUsecase_GetOverview(t *testing.T) {
	t.Parallel()

	repo := &mockMarketRepository{
		MarketOverviewFunc: func(ctx context.Context, interval string, limit int) (entity.Overview, error) {
			return entity.Overview{Items: []entity.Item{item(1, "BTCUSDT", 1), item(2, "ETHUSDT", 3)}}, nil
		},
	}
	uc := usecase.NewMarketUsecase(repo)

	ranked, _, err := uc.GetOverview(context.Background(), "1d", 10, appstate.ModeGainers, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"ETHUSDT", "BTCUSDT"}, symbols(ranked))

	_, _, err = uc.GetOverview(context.Background(), "5m", 10, appstate.ModeGainers, "")
	assert.ErrorIs(t, err, timeframe.ErrUnknownInterval)
}
