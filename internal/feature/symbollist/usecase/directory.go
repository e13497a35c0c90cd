package usecase

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"crypto_dashboard/internal/feature/symbollist/domain/entity"
	"crypto_dashboard/internal/shared/appstate"
	"crypto_dashboard/internal/shared/pricefmt"
	"crypto_dashboard/internal/shared/timeframe"
	"crypto_dashboard/internal/shared/view"
)

// Directory はセッションごとの銘柄ディレクトリです。
// 取得に成功した一覧だけを保持し、失敗時は直前の状態を維持します。
type Directory struct {
	repo  SymbolRepository
	state *appstate.State
	view  view.View

	mu      sync.RWMutex
	symbols []entity.Symbol
}

// NewDirectory creates an empty Directory bound to a session state and view.
func NewDirectory(repo SymbolRepository, st *appstate.State, v view.View) *Directory {
	return &Directory{repo: repo, state: st, view: v}
}

// LoadSymbols は時間足 interval の銘柄一覧を取得し、ディレクトリと選択状態を更新して
// セレクトボックスを再描画します。
//
// keepSelection が true かつ直前の選択銘柄が新しい一覧に存在する場合はそれを維持し、
// それ以外は先頭の銘柄（一覧が空なら未選択）を選びます。
// 取得に失敗した場合はログのみ出力し、ディレクトリも選択も変更しません。
func (d *Directory) LoadSymbols(ctx context.Context, interval timeframe.Interval, keepSelection bool) []entity.Symbol {
	prev := ""
	if keepSelection {
		prev = d.state.CurrentSymbol()
	}

	ctx, seq := d.state.Begin(ctx, appstate.KindSymbols)
	defer d.state.Finish(appstate.KindSymbols, seq)

	list, err := d.repo.ListSymbols(ctx, interval.String())
	if !d.state.IsLatest(appstate.KindSymbols, seq) {
		return d.Symbols()
	}
	if err != nil {
		slog.Warn("failed to load symbols", "interval", interval, "error", err)
		return d.Symbols()
	}

	d.mu.Lock()
	d.symbols = append([]entity.Symbol(nil), list...)
	d.mu.Unlock()

	d.state.SetCurrentSymbol(selectSymbol(list, prev))
	d.render(list)
	return d.Symbols()
}

// Search はディレクトリを keyword で絞り込んでセレクトボックスを再描画します。
// keyword が空でなく一致があれば、最初の一致を選択します。ディレクトリ自体は変更しません。
func (d *Directory) Search(keyword string) []entity.Symbol {
	filtered := Filter(d.Symbols(), keyword)
	if strings.TrimSpace(keyword) != "" && len(filtered) > 0 {
		d.state.SetCurrentSymbol(filtered[0].Code)
	}
	d.render(filtered)
	return filtered
}

// Symbols returns a copy of the current directory.
func (d *Directory) Symbols() []entity.Symbol {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]entity.Symbol(nil), d.symbols...)
}

// Lookup returns the directory entry for code.
func (d *Directory) Lookup(code string) (entity.Symbol, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, s := range d.symbols {
		if s.Code == code {
			return s, true
		}
	}
	return entity.Symbol{}, false
}

// Resolve は大文字小文字を無視して code に一致する銘柄コードを返します。
func (d *Directory) Resolve(code string) (string, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, s := range d.symbols {
		if strings.EqualFold(s.Code, code) {
			return s.Code, true
		}
	}
	return "", false
}

// Select makes code the current symbol if the directory contains it.
func (d *Directory) Select(code string) bool {
	resolved, ok := d.Resolve(code)
	if !ok {
		return false
	}
	d.state.SetCurrentSymbol(resolved)
	d.render(d.Symbols())
	return true
}

func (d *Directory) render(list []entity.Symbol) {
	current := d.state.CurrentSymbol()
	opts := make([]view.Option, 0, len(list))
	for _, s := range list {
		opts = append(opts, view.Option{
			Value:    s.Code,
			Label:    s.Name + " " + pricefmt.Pair(s.Code),
			Selected: s.Code == current,
		})
	}
	d.view.Apply(view.Options(view.RegionSymbolSelect, opts))
}

func selectSymbol(list []entity.Symbol, prev string) string {
	if prev != "" {
		for _, s := range list {
			if s.Code == prev {
				return prev
			}
		}
	}
	if len(list) > 0 {
		return list[0].Code
	}
	return ""
}
