package entity

import "time"

// Consent is the visitor's answer to the cookie banner.
type Consent string

const (
	ConsentUnset    Consent = ""
	ConsentAccepted Consent = "accepted"
	ConsentDeclined Consent = "declined"
)

// Preference は訪問者ごとに永続化される表示設定です。
type Preference struct {
	VisitorID  string
	LastSymbol string
	Consent    Consent
	UpdatedAt  time.Time
}
