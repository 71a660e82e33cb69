// Package entity defines the domain models for the symbollist feature.
package entity

import "time"

// Symbol is one instrument of the master list. Domestic codes are six
// digits ("005930"); foreign symbols are tickers ("AAPL").
type Symbol struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"size:20;not null;uniqueIndex"`
	Name      string    `gorm:"size:255;not null"`
	Market    string    `gorm:"size:100;not null"` // KOSPI, KOSDAQ, NASDAQ, NYSE ...
	IsActive  bool      `gorm:"not null;default:true"`
	SortKey   int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Symbol) TableName() string {
	return "symbols"
}
