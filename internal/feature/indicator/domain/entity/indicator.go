// Package entity は指標エンドポイントが返す値とアナリスト意見の集計を定義します。
package entity

import "time"

// PricePoint は終値と20日・60日移動平均です。履歴が足りない移動平均は nil です。
type PricePoint struct {
	Date  time.Time
	Close float64
	MA20  *float64
	MA60  *float64
}

// Opinion はアナリスト1件の投資意見です。Code は 1=sell, 2=buy, 3=hold。
type Opinion struct {
	Date time.Time
	Code int
}

const (
	OpinionSell = 1
	OpinionBuy  = 2
	OpinionHold = 3
)

// Recommendation は意見の件数集計です。Period は集計の基準日です。
type Recommendation struct {
	Buy        int
	Hold       int
	Sell       int
	StrongBuy  int
	StrongSell int
	Period     time.Time
	Symbol     string
}

// NewsItem は企業ニュース1件です。
type NewsItem struct {
	ID       int64
	Datetime time.Time
	Headline string
	Source   string
	Summary  string
	URL      string
	Image    string
	Category string
	Related  string
}

// AggregateOpinions は意見コードを buy/hold/sell に集計します。未知のコードは無視します。
// Period は最も古い意見の日付、意見がない場合は windowStart です。
func AggregateOpinions(opinions []Opinion, windowStart time.Time, symbol string) Recommendation {
	r := Recommendation{Period: windowStart, Symbol: symbol}
	var earliest time.Time
	for _, o := range opinions {
		switch o.Code {
		case OpinionBuy:
			r.Buy++
		case OpinionHold:
			r.Hold++
		case OpinionSell:
			r.Sell++
		default:
			continue
		}
		if earliest.IsZero() || o.Date.Before(earliest) {
			earliest = o.Date
		}
	}
	if !earliest.IsZero() {
		r.Period = earliest
	}
	return r
}
