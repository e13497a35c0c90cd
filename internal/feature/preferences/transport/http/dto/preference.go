package dto

// PreferenceResponse is returned by GET /v1/preferences.
type PreferenceResponse struct {
	LastSymbol        string `json:"last_symbol,omitempty"`
	Consent           string `json:"consent,omitempty"`
	ShowConsentBanner bool   `json:"show_consent_banner"`
}

// ConsentRequest is the body of PUT /v1/preferences/consent.
type ConsentRequest struct {
	Consent string `json:"consent" binding:"required"`
}
