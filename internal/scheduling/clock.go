package scheduling

import "time"

// Clock は現在時刻の取得元です
// エンジンはシステム時計を直接読まず、呼び出し側から時刻を受け取ります
type Clock interface {
	Now() time.Time
}

// RealClock は指定ロケーションでの現在時刻を返します
type RealClock struct {
	Location *time.Location
}

func (c RealClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock は常に同じ時刻を返します
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// Today は now の日付を "YYYY-MM-DD" で返します
func Today(now time.Time) string {
	return now.Format(dateLayout)
}
