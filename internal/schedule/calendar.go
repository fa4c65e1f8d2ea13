// Package schedule 实现月度重复任务的日历计算。
// 周数计算沿用线上系统的算法,包括周日开头的月份把 1 号算进第 0 周、
// 第 4 周结尾溢出到下个月等边界行为,不做"修正"。
package schedule

import (
	"time"
)

// ISOWeekday 返回 ISO 星期序号,1=周一..7=周日
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// StartOfDay 当天零点
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay 当天 23:59:59.999
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// StartOfMonth 当月 1 号零点
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth 当月最后一天 23:59:59.999
func EndOfMonth(t time.Time) time.Time {
	return EndOfDay(time.Date(t.Year(), t.Month(), DaysInMonth(t), 0, 0, 0, 0, t.Location()))
}

// DaysInMonth 当月天数
func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// SameDay 判断两个时间是否为同一个日历日
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// SameMonth 判断两个时间是否为同年同月
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// Millis 转毫秒时间戳,存储层所有日期字段使用该表示
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromMillis 从毫秒时间戳还原时间
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}

// WeekOfMonth 日期所在的月内周数
// 以 ceil((日 + 月首的星期偏移 - 1) / 7) 计算,偏移取周日=0..周六=6
func WeekOfMonth(t time.Time) int {
	first := StartOfMonth(t)
	firstWeekday := int(first.Weekday())
	adjusted := t.Day() + firstWeekday - 1
	return (adjusted + 6) / 7
}

// StartOfWeek 指定周数在当月的第一天零点,最小截断到 1 号
func StartOfWeek(t time.Time, weekNumber int) time.Time {
	first := StartOfMonth(t)
	firstWeekday := int(first.Weekday())
	day := 1 + (weekNumber-1)*7 - firstWeekday + 1
	if day < 1 {
		day = 1
	}
	return time.Date(t.Year(), t.Month(), day, 0, 0, 0, 0, t.Location())
}

// EndOfWeek 指定周数的最后一天 23:59:59.999
// 月末附近可能溢出到下个月,与线上行为保持一致
func EndOfWeek(t time.Time, weekNumber int) time.Time {
	start := StartOfWeek(t, weekNumber)
	return EndOfDay(start.AddDate(0, 0, 6))
}

// DateForWeekAndWeekday 当月指定周数里某个星期几的日期
// 从该周起点按星期差偏移得到,可能落在相邻月份,调用方负责过滤
func DateForWeekAndWeekday(t time.Time, weekNumber, isoWeekday int) time.Time {
	weekStart := StartOfWeek(t, weekNumber)
	daysToAdd := isoWeekday - ISOWeekday(weekStart)
	return weekStart.AddDate(0, 0, daysToAdd)
}

// LastWeekDatesForWeekday 当月"最后一周"里某个星期几的全部日期
// 即第 5 周的日期,或第 4 周结束边界之后的尾巴日期;每个星期几最多 1 个
func LastWeekDatesForWeekday(t time.Time, isoWeekday int) []time.Time {
	var dates []time.Time
	for day := 1; day <= DaysInMonth(t); day++ {
		date := time.Date(t.Year(), t.Month(), day, 0, 0, 0, 0, t.Location())
		if ISOWeekday(date) != isoWeekday {
			continue
		}
		if WeekOfMonth(date) == 5 || isDateInLastWeek(date) {
			dates = append(dates, date)
		}
	}
	return dates
}

// isDateInLastWeek 日期是否落在 4 个整周之后
// 第 4 周结尾溢出到下个月时,当月没有尾巴日期
func isDateInLastWeek(date time.Time) bool {
	return date.After(EndOfWeek(date, 4))
}
