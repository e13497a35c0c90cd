// Package usecase implements the business logic for symbol-related operations.
package usecase

import (
	"context"
	"errors"
	"fmt"

	"crypto_dashboard/internal/feature/symbollist/domain/entity"
	"crypto_dashboard/internal/shared/timeframe"
)

// ErrUnknownSymbol is returned when a symbol is not in the loaded directory.
var ErrUnknownSymbol = errors.New("symbol is not in the directory")

// SymbolRepository abstracts the source of the symbol directory.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SymbolRepository interface {
	ListSymbols(ctx context.Context, interval string) ([]entity.Symbol, error)
}

// SymbolUsecase provides business logic for symbol operations.
type SymbolUsecase struct {
	repo SymbolRepository
}

// NewSymbolUsecase creates a new SymbolUsecase with the given repository.
func NewSymbolUsecase(r SymbolRepository) *SymbolUsecase {
	return &SymbolUsecase{repo: r}
}

// ListSymbols は指定時間足の銘柄一覧を取得し、keyword で絞り込んで返します。
// interval が未対応の値の場合は timeframe.ErrUnknownInterval を返します。
func (u *SymbolUsecase) ListSymbols(ctx context.Context, interval, keyword string) ([]entity.Symbol, error) {
	iv, err := timeframe.Parse(interval)
	if err != nil {
		return nil, err
	}
	symbols, err := u.repo.ListSymbols(ctx, iv.String())
	if err != nil {
		return nil, fmt.Errorf("list symbols (%s): %w", iv, err)
	}
	return Filter(symbols, keyword), nil
}
