// Package adapters はsymbollistフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"wing_backend/internal/feature/symbollist/domain/entity"
	"wing_backend/internal/feature/symbollist/usecase"
)

type symbolPostgres struct {
	db *gorm.DB
}

var _ usecase.SymbolRepository = (*symbolPostgres)(nil)

// NewSymbolRepository は銘柄マスタの gorm リポジトリを生成します。
func NewSymbolRepository(db *gorm.DB) *symbolPostgres {
	return &symbolPostgres{db: db}
}

// Models はマイグレーション対象のモデルです。
func Models() []any {
	return []any{&entity.Symbol{}}
}

// ListActive はsort_key順にすべてのアクティブな銘柄を返します。
func (r *symbolPostgres) ListActive(ctx context.Context) ([]entity.Symbol, error) {
	var symbols []entity.Symbol
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_key ASC").
		Find(&symbols).Error; err != nil {
		return nil, err
	}
	return symbols, nil
}

// ListActiveCodes はsort_key順にアクティブな銘柄のコードのみを返します。
func (r *symbolPostgres) ListActiveCodes(ctx context.Context) ([]string, error) {
	var codes []string
	if err := r.db.WithContext(ctx).
		Model(&entity.Symbol{}).
		Where("is_active = ?", true).
		Order("sort_key ASC").
		Pluck("code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

// FindByCode はコードで銘柄を引きます。存在しない場合は (nil, nil) です。
func (r *symbolPostgres) FindByCode(ctx context.Context, code string) (*entity.Symbol, error) {
	var s entity.Symbol
	err := r.db.WithContext(ctx).Where("code = ?", code).Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
