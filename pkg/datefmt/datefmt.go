// Package datefmt 页面展示用的日期格式
package datefmt

import (
	"fmt"
	"time"
)

// Long 长格式日期,如 "January 2nd, 1920",零值返回空串
func Long(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s %d%s, %d", t.Month(), t.Day(), Ordinal(t.Day()), t.Year())
}

// Ordinal 英文序数后缀: 1st 2nd 3rd 4th ... 11th 12th 13th ... 21st
func Ordinal(day int) string {
	if day%100 >= 11 && day%100 <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}
