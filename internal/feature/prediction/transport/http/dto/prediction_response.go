// Package dto defines data transfer objects for the prediction HTTP API.
package dto

import "crypto_dashboard/internal/shared/view"

// PredictionResponse is the snapshot of the prediction view for one symbol.
type PredictionResponse struct {
	Symbol   string       `json:"symbol"`
	Interval string       `json:"interval"`
	Patches  []view.Patch `json:"patches"`
}
