// Package dto defines data transfer objects for the symbollist HTTP API.
package dto

// SymbolItem represents a symbol in the API response.
type SymbolItem struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Pair   string `json:"pair"`
	Image  string `json:"image,omitempty"`
}
