// Package timefmt 提供屏幕展示用的时间格式化（与 UI 无关的纯函数）。
package timefmt

import (
	"fmt"
	"time"
)

// Unknown 空/非法时间的统一展示文案
const Unknown = "Unknown"

// FormatRelativeTime 相对时间：
// <60s "just now"，<60min "N min(s) ago"，<24h "N hour(s) ago"，否则 "N day(s) ago"
func FormatRelativeTime(t *time.Time, now time.Time) string {
	if t == nil || t.IsZero() {
		return Unknown
	}
	diff := now.Sub(*t)
	if diff < 0 {
		diff = 0
	}
	seconds := int(diff.Seconds())
	if seconds < 60 {
		return "just now"
	}
	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%d %s ago", minutes, plural(minutes, "min"))
	}
	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%d %s ago", hours, plural(hours, "hour"))
	}
	days := hours / 24
	return fmt.Sprintf("%d %s ago", days, plural(days, "day"))
}

// FormatTime 短时刻（en-US 口径，如 "3:04 PM"）
func FormatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return Unknown
	}
	return t.Format("3:04 PM")
}

// FormatDateTime 短日期时刻（如 "Jan 02, 2026, 3:04 PM"）
func FormatDateTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return Unknown
	}
	return t.Format("Jan 02, 2006, 3:04 PM")
}

// FormatDuration 会话时长。end 为 nil 时按 now 计算。
// 向上取整到分钟（最少 1 分钟）；满 60 分钟后输出 "Hh Mm"，整小时输出 "N hour(s)"。
func FormatDuration(start, end *time.Time, now time.Time) string {
	if start == nil || start.IsZero() {
		return Unknown
	}
	endValue := now
	if end != nil {
		if end.IsZero() {
			return Unknown
		}
		endValue = *end
	}
	diff := endValue.Sub(*start)
	if diff < 0 {
		diff = 0
	}
	minutes := int(diff.Round(time.Minute).Minutes())
	if minutes < 1 {
		minutes = 1
	}
	if minutes < 60 {
		return fmt.Sprintf("%d %s", minutes, plural(minutes, "min"))
	}
	hours := minutes / 60
	rem := minutes % 60
	if rem == 0 {
		return fmt.Sprintf("%d %s", hours, plural(hours, "hour"))
	}
	return fmt.Sprintf("%dh %dm", hours, rem)
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
