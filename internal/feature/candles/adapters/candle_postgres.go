package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wing_backend/internal/feature/candles/domain/entity"
	"wing_backend/internal/feature/candles/usecase"
)

type candlePostgres struct {
	db *gorm.DB
}

var (
	_ usecase.CandleRepository = (*candlePostgres)(nil)
	_ usecase.CandleWriter     = (*candlePostgres)(nil)
)

// NewCandleRepository は日足を永続化する gorm リポジトリを生成します。
func NewCandleRepository(db *gorm.DB) *candlePostgres {
	return &candlePostgres{db: db}
}

// CandleModel は candles テーブルの1行です。(symbol, interval, time) で一意です。
type CandleModel struct {
	ID       uint      `gorm:"primaryKey"`
	Symbol   string    `gorm:"size:32;not null;uniqueIndex:candle_sym_int_time,priority:1"`
	Interval string    `gorm:"size:16;not null;uniqueIndex:candle_sym_int_time,priority:2"`
	Time     time.Time `gorm:"not null;uniqueIndex:candle_sym_int_time,priority:3"`

	Open   float64 `gorm:"not null"`
	High   float64 `gorm:"not null"`
	Low    float64 `gorm:"not null"`
	Close  float64 `gorm:"not null"`
	Volume int64   `gorm:"not null;default:0"`
}

func (CandleModel) TableName() string {
	return "candles"
}

// Models はマイグレーション対象のモデルです。
func Models() []any {
	return []any{&CandleModel{}}
}

func toModel(e entity.Candle) CandleModel {
	return CandleModel{
		Symbol:   e.Symbol,
		Interval: e.Interval,
		Time:     e.Time,
		Open:     e.Open,
		High:     e.High,
		Low:      e.Low,
		Close:    e.Close,
		Volume:   e.Volume,
	}
}

func toEntity(m CandleModel) entity.Candle {
	return entity.Candle{
		Symbol:   m.Symbol,
		Interval: m.Interval,
		Time:     m.Time,
		Open:     m.Open,
		High:     m.High,
		Low:      m.Low,
		Close:    m.Close,
		Volume:   m.Volume,
	}
}

// UpsertBatch は (symbol, interval, time) が衝突した行を上書きします。
func (r *candlePostgres) UpsertBatch(ctx context.Context, candles []entity.Candle) error {
	if len(candles) == 0 {
		return nil
	}
	ms := make([]CandleModel, 0, len(candles))
	for _, e := range candles {
		ms = append(ms, toModel(e))
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "interval"}, {Name: "time"}},
		DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close", "volume"}),
	}).Create(&ms).Error
}

// Find は新しい順に最大 outputsize 件を返します。outputsize が0以下なら全件です。
func (r *candlePostgres) Find(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
	var rows []CandleModel
	// interval は Postgres の予約語なので列名は clause 経由でクォートさせる
	q := r.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: "symbol"}, Value: symbol}).
		Where(clause.Eq{Column: clause.Column{Name: "interval"}, Value: interval}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "time"}, Desc: true})
	if outputsize > 0 {
		q = q.Limit(outputsize)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Candle, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}
