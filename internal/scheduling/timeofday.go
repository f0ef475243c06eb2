package scheduling

import (
	"fmt"
	"time"
)

const (
	dateLayout      = "2006-01-02"
	timeLayout      = "15:04"
	dateTimeLayout  = dateLayout + " " + timeLayout
	timeOfDayLength = len("HH:MM")
)

// parseTimeOfDay は "HH:MM" を0時からの分に変換します
func parseTimeOfDay(s string) (int, error) {
	if len(s) != timeOfDayLength {
		return 0, reject(ReasonMalformedInput, "time %q is not HH:MM", s)
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return 0, reject(ReasonMalformedInput, "time %q is not HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatTimeOfDay(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, reject(ReasonMalformedInput, "date %q is not YYYY-MM-DD", s)
	}
	return d, nil
}

// startOf は予約の開始日時を loc で解釈します
func startOf(date, start string, loc *time.Location) (time.Time, error) {
	if _, err := parseTimeOfDay(start); err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation(dateTimeLayout, date+" "+start, loc)
	if err != nil {
		return time.Time{}, reject(ReasonMalformedInput, "date %q is not YYYY-MM-DD", date)
	}
	return t, nil
}

// interval は [start, end) を0時からの分で表します
type interval struct {
	start, end int
}

func parseInterval(start, end string) (interval, error) {
	s, err := parseTimeOfDay(start)
	if err != nil {
		return interval{}, err
	}
	e, err := parseTimeOfDay(end)
	if err != nil {
		return interval{}, err
	}
	return interval{start: s, end: e}, nil
}

func (i interval) overlaps(o interval) bool {
	return i.start < o.end && i.end > o.start
}

func (i interval) contains(minute int) bool {
	return i.start <= minute && minute < i.end
}
