package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"wing_backend/internal/feature/candles/domain/entity"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(Models()...), "failed to migrate table")
	return db
}

func candleAt(symbol string, day time.Time, closePrice float64) entity.Candle {
	return entity.Candle{
		Symbol:   symbol,
		Interval: "1day",
		Time:     day,
		Open:     closePrice - 1,
		High:     closePrice + 2,
		Low:      closePrice - 2,
		Close:    closePrice,
		Volume:   1000,
	}
}

func TestCandlePostgres_UpsertBatch(t *testing.T) {
	t.Parallel()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		batches   [][]entity.Candle
		wantCount int64
		wantClose float64
	}{
		{
			name:      "empty batch is a no-op",
			batches:   [][]entity.Candle{nil},
			wantCount: 0,
		},
		{
			name:      "insert",
			batches:   [][]entity.Candle{{candleAt("005930", base, 70000), candleAt("005930", base.AddDate(0, 0, 1), 71000)}},
			wantCount: 2,
			wantClose: 70000,
		},
		{
			name: "conflict overwrites prices",
			batches: [][]entity.Candle{
				{candleAt("005930", base, 70000)},
				{candleAt("005930", base, 69000)},
			},
			wantCount: 1,
			wantClose: 69000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			db := setupTestDB(t)
			repo := NewCandleRepository(db)

			for _, b := range tt.batches {
				require.NoError(t, repo.UpsertBatch(context.Background(), b))
			}

			var count int64
			db.Model(&CandleModel{}).Count(&count)
			assert.Equal(t, tt.wantCount, count)
			if tt.wantCount > 0 {
				var first CandleModel
				require.NoError(t, db.Order("time").First(&first).Error)
				assert.Equal(t, tt.wantClose, first.Close)
			}
		})
	}
}

func TestCandlePostgres_Find(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewCandleRepository(db)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var batch []entity.Candle
	for i := 0; i < 5; i++ {
		batch = append(batch, candleAt("AAPL", base.AddDate(0, 0, i), float64(100+i)))
	}
	weekly := candleAt("AAPL", base, 99)
	weekly.Interval = "1week"
	batch = append(batch, weekly, candleAt("MSFT", base, 300))
	require.NoError(t, repo.UpsertBatch(ctx, batch))

	t.Run("newest first with limit", func(t *testing.T) {
		got, err := repo.Find(ctx, "AAPL", "1day", 3)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, 104.0, got[0].Close)
		assert.Equal(t, 102.0, got[2].Close)
		assert.Equal(t, "AAPL", got[0].Symbol)
	})

	t.Run("no limit returns all of the interval", func(t *testing.T) {
		got, err := repo.Find(ctx, "AAPL", "1day", 0)
		require.NoError(t, err)
		assert.Len(t, got, 5)
	})

	t.Run("interval filter", func(t *testing.T) {
		got, err := repo.Find(ctx, "AAPL", "1week", 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 99.0, got[0].Close)
	})

	t.Run("unknown symbol", func(t *testing.T) {
		got, err := repo.Find(ctx, "ZZZ", "1day", 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
