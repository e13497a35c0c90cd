package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crypto_dashboard/internal/feature/symbollist/domain/entity"
	"crypto_dashboard/internal/feature/symbollist/usecase"
	"crypto_dashboard/internal/shared/appstate"
	"crypto_dashboard/internal/shared/timeframe"
	"crypto_dashboard/internal/shared/view"
)

func staticRepo(list []entity.Symbol, err error) *mockSymbolRepository {
	return &mockSymbolRepository{
		ListSymbolsFunc: func(ctx context.Context, interval string) ([]entity.Symbol, error) {
			return list, err
		},
	}
}

func selectedOption(t *testing.T, rec *view.Recorder) string {
	t.Helper()
	p, ok := rec.Last(view.RegionSymbolSelect, view.OpOptions)
	require.True(t, ok, "symbol select was never rendered")
	for _, o := range p.Options {
		if o.Selected {
			return o.Value
		}
	}
	return ""
}

// TestDirectory_LoadSymbols_Selection は選択銘柄の維持・既定選択のルールを検証します。
func TestDirectory_LoadSymbols_Selection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		previous string
		keep     bool
		list     []entity.Symbol
		want     string
	}{
		{"keep existing selection", "ETHUSDT", true, sampleSymbols, "ETHUSDT"},
		{"keep requested but symbol vanished", "DOGEUSDT", true, sampleSymbols, "BTCUSDT"},
		{"keep not requested", "ETHUSDT", false, sampleSymbols, "BTCUSDT"},
		{"empty list clears selection", "ETHUSDT", true, []entity.Symbol{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			st := appstate.New()
			st.SetCurrentSymbol(tt.previous)
			rec := view.NewRecorder()
			d := usecase.NewDirectory(staticRepo(tt.list, nil), st, rec)

			got := d.LoadSymbols(context.Background(), timeframe.Hour, tt.keep)
			assert.Len(t, got, len(tt.list))
			assert.Equal(t, tt.want, st.CurrentSymbol())
			assert.Equal(t, tt.want, selectedOption(t, rec))
		})
	}
}

// TestDirectory_LoadSymbols_FailureKeepsState は取得失敗時にディレクトリと選択が変化しないことを検証します。
func TestDirectory_LoadSymbols_FailureKeepsState(t *testing.T) {
	t.Parallel()

	st := appstate.New()
	rec := view.NewRecorder()
	repo := staticRepo(sampleSymbols, nil)
	d := usecase.NewDirectory(repo, st, rec)
	d.LoadSymbols(context.Background(), timeframe.Hour, false)
	st.SetCurrentSymbol("ETHUSDT")
	rendered := len(rec.Patches())

	repo.ListSymbolsFunc = func(ctx context.Context, interval string) ([]entity.Symbol, error) {
		return nil, errors.New("http 500")
	}
	got := d.LoadSymbols(context.Background(), timeframe.Day, false)

	assert.Equal(t, sampleSymbols, got)
	assert.Equal(t, sampleSymbols, d.Symbols())
	assert.Equal(t, "ETHUSDT", st.CurrentSymbol())
	assert.Len(t, rec.Patches(), rendered, "a failed load must not re-render")
}

// TestDirectory_Render は選択肢のラベル形式を検証します。
func TestDirectory_Render(t *testing.T) {
	t.Parallel()

	rec := view.NewRecorder()
	d := usecase.NewDirectory(staticRepo(sampleSymbols, nil), appstate.New(), rec)
	d.LoadSymbols(context.Background(), timeframe.Hour, false)

	p, ok := rec.Last(view.RegionSymbolSelect, view.OpOptions)
	require.True(t, ok)
	require.Len(t, p.Options, 3)
	assert.Equal(t, view.Option{Value: "BTCUSDT", Label: "Bitcoin BTC / USDT", Selected: true}, p.Options[0])
	assert.Equal(t, "Ethereum ETH / USDT", p.Options[1].Label)
}

// TestDirectory_Search は検索で最初の一致が選択され、ディレクトリが変化しないことを検証します。
func TestDirectory_Search(t *testing.T) {
	t.Parallel()

	st := appstate.New()
	rec := view.NewRecorder()
	d := usecase.NewDirectory(staticRepo(sampleSymbols, nil), st, rec)
	d.LoadSymbols(context.Background(), timeframe.Hour, false)

	got := d.Search("eth")
	require.Len(t, got, 1)
	assert.Equal(t, "ETHUSDT", st.CurrentSymbol())
	assert.Equal(t, "ETHUSDT", selectedOption(t, rec))
	assert.Len(t, d.Symbols(), 3)

	got = d.Search("zzz")
	assert.Empty(t, got)
	assert.Equal(t, "ETHUSDT", st.CurrentSymbol(), "no match keeps the selection")

	got = d.Search("")
	assert.Len(t, got, 3)
}

// TestDirectory_Resolve はURLパラメータ由来の銘柄解決が大文字小文字を無視することを検証します。
func TestDirectory_Resolve(t *testing.T) {
	t.Parallel()

	st := appstate.New()
	d := usecase.NewDirectory(staticRepo(sampleSymbols, nil), st, view.Discard)
	d.LoadSymbols(context.Background(), timeframe.Hour, false)

	code, ok := d.Resolve("pepeusdt")
	assert.True(t, ok)
	assert.Equal(t, "PEPEUSDT", code)

	_, ok = d.Resolve("DOGEUSDT")
	assert.False(t, ok)

	assert.True(t, d.Select("ethusdt"))
	assert.Equal(t, "ETHUSDT", st.CurrentSymbol())
	assert.False(t, d.Select(""))

	s, ok := d.Lookup("BTCUSDT")
	assert.True(t, ok)
	assert.Equal(t, "Bitcoin", s.Name)
}

// TestDirectory_StaleResponseDiscarded は後発のリクエストに追い越された応答が反映されないことを検証します。
func TestDirectory_StaleResponseDiscarded(t *testing.T) {
	t.Parallel()

	st := appstate.New()
	release := make(chan struct{})
	started := make(chan struct{})
	calls := 0
	repo := &mockSymbolRepository{
		ListSymbolsFunc: func(ctx context.Context, interval string) ([]entity.Symbol, error) {
			calls++
			if calls == 1 {
				close(started)
				<-release
				return []entity.Symbol{{Code: "OLDUSDT", Name: "Old"}}, nil
			}
			return sampleSymbols, nil
		},
	}
	d := usecase.NewDirectory(repo, st, view.Discard)

	done := make(chan struct{})
	go func() {
		defer close(done)
		d.LoadSymbols(context.Background(), timeframe.Hour, false)
	}()
	<-started
	d.LoadSymbols(context.Background(), timeframe.Day, false)
	close(release)
	<-done

	assert.Equal(t, sampleSymbols, d.Symbols())
	assert.Equal(t, "BTCUSDT", st.CurrentSymbol())
}
