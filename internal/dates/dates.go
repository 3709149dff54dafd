// Package dates provides the week-range and quarter-label arithmetic used
// by the HTTP API and the CLI. Weeks run Monday through Friday; quarter
// labels follow the product's Chinese convention ("2026第一季度").
package dates

import (
	"fmt"
	"time"
)

// Layout is the wire format for all dates in the system.
const Layout = "2006-01-02"

// Format renders t in the wire format.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// WeekRange returns the Monday and Friday of the week containing t.
// Saturday and Sunday belong to the week that started the previous Monday.
func WeekRange(t time.Time) (monday, friday time.Time) {
	offset := (int(t.Weekday()) + 6) % 7 // days since Monday
	monday = midnight(t.AddDate(0, 0, -offset))
	friday = monday.AddDate(0, 0, 4)
	return monday, friday
}

// CurrentWeekRange returns the Monday and Friday of the current week.
func CurrentWeekRange() (time.Time, time.Time) {
	return WeekRange(time.Now())
}

// WeekLabel renders a Monday-Friday pair as a period label for generated
// weekly reports.
func WeekLabel(monday, friday time.Time) string {
	return fmt.Sprintf("%s 至 %s", Format(monday), Format(friday))
}

var quarterNumerals = [4]string{"一", "二", "三", "四"}

// QuarterLabel returns the label of the quarter containing t.
func QuarterLabel(t time.Time) string {
	q := (int(t.Month()) - 1) / 3
	return fmt.Sprintf("%d第%s季度", t.Year(), quarterNumerals[q])
}

// NextQuarterLabel returns the label of the quarter after the one containing
// t. Used as the default OKR period when the caller supplies none.
func NextQuarterLabel(t time.Time) string {
	year := t.Year()
	q := (int(t.Month())-1)/3 + 1
	if q == 4 {
		year++
		q = 0
	}
	return fmt.Sprintf("%d第%s季度", year, quarterNumerals[q])
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
