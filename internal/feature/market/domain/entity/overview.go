// Package entity defines the domain models for the market overview.
package entity

import (
	"time"

	predentity "crypto_dashboard/internal/feature/prediction/domain/entity"
)

// Item は市場一覧の1銘柄分のスナップショットです。Rank はサーバー側の順位です。
type Item struct {
	Rank       int                   `json:"rank"`
	Image      string                `json:"image,omitempty"`
	Prediction predentity.Prediction `json:"data"`
}

// Symbol returns the item's symbol code.
func (i Item) Symbol() string {
	return i.Prediction.Symbol
}

// PctChange returns the backend-supplied percentage change, or NaN when missing.
func (i Item) PctChange() float64 {
	return i.Prediction.PctChange()
}

// Overview is one market-overview response.
type Overview struct {
	Items       []Item     `json:"items"`
	GeneratedAt *time.Time `json:"generated_at,omitempty"`
}
