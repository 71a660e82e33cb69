package cache

import (
	"time"
)

// refreshHour is the local hour (KST) after which the daily candle batch has run.
const refreshHour = 8

var kst = loadKST()

func loadKST() *time.Location {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}

// TimeUntilNextRefresh は now から次の午前8時（韓国時間）までの期間を返します。
func TimeUntilNextRefresh(now time.Time) time.Duration {
	local := now.In(kst)
	next := time.Date(local.Year(), local.Month(), local.Day(), refreshHour, 0, 0, 0, kst)

	// 今日の午前8時を過ぎている場合は翌日の午前8時を使用
	if !local.Before(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(local)
}
