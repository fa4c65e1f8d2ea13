package schedule

import (
	"sort"
	"time"
)

// 周选择器取值范围
const (
	MinWeekSelector = 1
	MaxWeekSelector = 5
	// LastWeekSelector 表示"当月该星期几的最后一次出现",
	// 不一定是字面意义的第 5 周
	LastWeekSelector = 5
)

// CalculateWeekdayOccurrences 计算参考月份内每个目标星期几的具体发生日期。
// weekDays 为 ISO 星期序号集合(1=周一..7=周日),monthWeeks 为周选择器集合(1-5)。
// 选择器 5 走最后一周路径;其余选择器计算出的日期若溢出到相邻月份则丢弃。
// 结果不去重:选择器 4 和 5 在某些月份会对同一星期几产生两个相邻日期,
// 该行为与线上一致,由调用方自行判断。
func CalculateWeekdayOccurrences(weekDays, monthWeeks []int, ref time.Time) map[int][]time.Time {
	occurrences := make(map[int][]time.Time, len(weekDays))
	for _, day := range weekDays {
		occurrences[day] = []time.Time{}
	}

	for _, week := range monthWeeks {
		for _, day := range weekDays {
			if week == LastWeekSelector {
				occurrences[day] = append(occurrences[day], LastWeekDatesForWeekday(ref, day)...)
				continue
			}
			target := DateForWeekAndWeekday(ref, week, day)
			if SameMonth(target, ref) {
				occurrences[day] = append(occurrences[day], target)
			}
		}
	}

	for day := range occurrences {
		sort.Slice(occurrences[day], func(i, j int) bool {
			return occurrences[day][i].Before(occurrences[day][j])
		})
	}

	return occurrences
}

// CountOccurrences 发生日期总数
func CountOccurrences(occurrences map[int][]time.Time) int {
	total := 0
	for _, dates := range occurrences {
		total += len(dates)
	}
	return total
}

// SortedWeekdays 返回排序后的星期键,保证遍历顺序稳定
func SortedWeekdays(occurrences map[int][]time.Time) []int {
	days := make([]int, 0, len(occurrences))
	for day := range occurrences {
		days = append(days, day)
	}
	sort.Ints(days)
	return days
}

// WeekdayName 星期名称,用于日志和诊断输出
func WeekdayName(isoWeekday int) string {
	names := []string{"", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	if isoWeekday < 1 || isoWeekday > 7 {
		return "Unknown"
	}
	return names[isoWeekday]
}
