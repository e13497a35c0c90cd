// Package adapters はpreferencesフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"crypto_dashboard/internal/feature/preferences/domain/entity"
	"crypto_dashboard/internal/feature/preferences/usecase"
)

// preferenceGorm はPreferenceRepositoryインターフェースのGORM実装です。
// SQLite と PostgreSQL のどちらでも動作します。
type preferenceGorm struct {
	db  *gorm.DB
	now func() time.Time
}

// preferenceGormがPreferenceRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.PreferenceRepository = (*preferenceGorm)(nil)

// NewPreferenceRepository は指定されたgorm.DB接続でリポジトリを生成します。
func NewPreferenceRepository(db *gorm.DB) *preferenceGorm {
	return &preferenceGorm{db: db, now: time.Now}
}

// Find は訪問者の設定を取得します。存在しない場合は usecase.ErrPreferenceNotFound を返します。
func (r *preferenceGorm) Find(ctx context.Context, visitorID string) (entity.Preference, error) {
	var m PreferenceModel
	if err := r.db.WithContext(ctx).Where("visitor_id = ?", visitorID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.Preference{}, usecase.ErrPreferenceNotFound
		}
		return entity.Preference{}, err
	}
	return m.ToEntity(), nil
}

// SaveLastSymbol は最後に選択された銘柄を保存します。行が無ければ作成します。
func (r *preferenceGorm) SaveLastSymbol(ctx context.Context, visitorID, symbol string) error {
	return r.upsert(ctx, PreferenceModel{VisitorID: visitorID, LastSymbol: symbol}, "last_symbol")
}

// SaveConsent はクッキー同意の回答を保存します。行が無ければ作成します。
func (r *preferenceGorm) SaveConsent(ctx context.Context, visitorID string, consent entity.Consent) error {
	return r.upsert(ctx, PreferenceModel{VisitorID: visitorID, Consent: string(consent)}, "consent")
}

// upsert は visitor_id の一意制約で衝突した場合に column と updated_at だけを更新します。
func (r *preferenceGorm) upsert(ctx context.Context, m PreferenceModel, column string) error {
	now := r.now()
	m.CreatedAt, m.UpdatedAt = now, now
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "visitor_id"}},
		DoUpdates: clause.AssignmentColumns([]string{column, "updated_at"}),
	}).Create(&m).Error
}
