// Package entity defines the domain models for the accuracy feature.
package entity

import "time"

// Stats は銘柄・時間足ごとの予測精度です。
// Accuracy が nil の場合は評価に必要な履歴がまだ無いことを表します。
type Stats struct {
	Accuracy    *float64   `json:"accuracy"`
	MAE         *float64   `json:"mae"`
	Total       *int       `json:"total,omitempty"`
	GeneratedAt *time.Time `json:"generated_at,omitempty"`
}

// Evaluated reports whether the backend has enough history to score the symbol.
func (s Stats) Evaluated() bool {
	return s.Accuracy != nil
}
