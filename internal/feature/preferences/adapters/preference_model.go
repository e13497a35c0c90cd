package adapters

import (
	"time"

	"crypto_dashboard/internal/feature/preferences/domain/entity"
)

// PreferenceModel is the GORM model for the visitor_preferences table.
type PreferenceModel struct {
	ID         uint      `gorm:"primaryKey"`
	VisitorID  string    `gorm:"uniqueIndex;size:64;not null"`
	LastSymbol string    `gorm:"size:32"`
	Consent    string    `gorm:"size:16"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM.
func (PreferenceModel) TableName() string {
	return "visitor_preferences"
}

// ToEntity converts the GORM model to a domain entity.
func (m *PreferenceModel) ToEntity() entity.Preference {
	return entity.Preference{
		VisitorID:  m.VisitorID,
		LastSymbol: m.LastSymbol,
		Consent:    entity.Consent(m.Consent),
		UpdatedAt:  m.UpdatedAt,
	}
}
