// Package entity defines the domain models for the symbollist feature.
package entity

// Symbol は予測バックエンドが扱う取引ペアです。
// 一覧は時間足ごとに取得され、取得のたびに丸ごと置き換えられます。
type Symbol struct {
	Code  string `json:"symbol"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}
