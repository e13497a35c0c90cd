package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	marketentity "crypto_dashboard/internal/feature/market/domain/entity"
	"crypto_dashboard/internal/feature/symbollist/domain/entity"
)

type noWait struct{ calls int }

func (n *noWait) Wait(ctx context.Context) error {
	n.calls++
	return ctx.Err()
}

// TestWarmer_WarmAll は全時間足を取得し、失敗しても続行することを検証します。
func TestWarmer_WarmAll(t *testing.T) {
	var marketLimits []int
	symbols := &mockSymbolRepository{listFn: func(ctx context.Context, interval string) ([]entity.Symbol, error) {
		if interval == "1d" {
			return nil, errors.New("predictapi http 503")
		}
		return btc, nil
	}}
	market := &mockMarketRepository{overviewFn: func(ctx context.Context, interval string, limit int) (marketentity.Overview, error) {
		marketLimits = append(marketLimits, limit)
		return marketentity.Overview{}, nil
	}}
	rl := &noWait{}

	failed, err := NewWarmer(symbols, market, rl, 0).WarmAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, failed)
	assert.Equal(t, 3, symbols.calls)
	assert.Equal(t, 3, market.calls)
	assert.Equal(t, []int{200, 200, 200}, marketLimits)
	assert.Equal(t, 6, rl.calls)
}

func TestWarmer_WarmAll_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	symbols := &mockSymbolRepository{}
	_, err := NewWarmer(symbols, &mockMarketRepository{}, &noWait{}, 10).WarmAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, symbols.calls)
}
