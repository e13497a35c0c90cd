// Package api はHTTP APIで共有するレスポンス型とクエリパラメータを定義します。
package api

import "crypto_dashboard/internal/shared/view"

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// PatchResponse carries the region patches a presenter produced for a snapshot request.
type PatchResponse struct {
	Patches []view.Patch `json:"patches"`
}

// HealthResponse is returned by /healthz.
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
}
