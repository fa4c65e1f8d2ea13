package utils

import (
	"html"
	"regexp"
	"strings"
	"unicode"
)

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// SanitizeString 清理字符串，移除或转义危险字符
func SanitizeString(input string) string {
	// 1. HTML 转义，防止 XSS
	sanitized := html.EscapeString(input)

	// 2. 移除控制字符（除了换行符和制表符）
	var result strings.Builder
	for _, r := range sanitized {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		result.WriteRune(r)
	}

	return result.String()
}

// ValidateTaskName 验证任务名称
func ValidateTaskName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrEmptyName
	}
	if len(trimmed) > 255 {
		return ErrNameTooLong
	}
	return nil
}

// ValidateTaskID 验证任务 ID 格式
func ValidateTaskID(id string) error {
	// 1. 检查是否为空
	if id == "" {
		return ErrEmptyID
	}

	// 2. 检查格式（只允许字母、数字、连字符、下划线）
	if !idPattern.MatchString(id) {
		return ErrInvalidIDFormat
	}

	// 3. 检查长度（最大 64 字符）
	if len(id) > 64 {
		return ErrIDTooLong
	}

	return nil
}

// ValidateEvidenceID 验证凭证 ID 格式
func ValidateEvidenceID(id string) error {
	return ValidateTaskID(id) // 使用相同的验证规则
}

// ValidateTaskFrequency 验证任务频率取值
func ValidateTaskFrequency(frequency string) error {
	switch frequency {
	case "once", "daily", "weekly", "monthly":
		return nil
	default:
		return ErrInvalidFrequency
	}
}

// ValidateISOWeekday 验证 ISO 星期取值,1=周一 7=周日
func ValidateISOWeekday(day int) error {
	if day < 1 || day > 7 {
		return ErrInvalidWeekday
	}
	return nil
}

// ValidateMonthWeek 验证月内周序取值,1-4 为周序,5 表示月末残余日期
func ValidateMonthWeek(week int) error {
	if week < 1 || week > 5 {
		return ErrInvalidMonthWeek
	}
	return nil
}

// TrimAndValidate 清理并验证字符串
func TrimAndValidate(s string, maxLen int) (string, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", ErrEmptyString
	}
	if maxLen > 0 && len(trimmed) > maxLen {
		return "", ErrStringTooLong
	}
	return SanitizeString(trimmed), nil
}

// 错误定义
var (
	ErrEmptyName        = &ValidationError{Code: "EMPTY_NAME", Message: "name cannot be empty"}
	ErrNameTooLong      = &ValidationError{Code: "NAME_TOO_LONG", Message: "name exceeds maximum length"}
	ErrEmptyID          = &ValidationError{Code: "EMPTY_ID", Message: "id cannot be empty"}
	ErrInvalidIDFormat  = &ValidationError{Code: "INVALID_ID_FORMAT", Message: "id contains invalid characters"}
	ErrIDTooLong        = &ValidationError{Code: "ID_TOO_LONG", Message: "id exceeds maximum length"}
	ErrInvalidFrequency = &ValidationError{Code: "INVALID_FREQUENCY", Message: "frequency must be once, daily, weekly or monthly"}
	ErrInvalidWeekday   = &ValidationError{Code: "INVALID_WEEKDAY", Message: "weekday must be between 1 and 7"}
	ErrInvalidMonthWeek = &ValidationError{Code: "INVALID_MONTH_WEEK", Message: "month week must be between 1 and 5"}
	ErrEmptyString      = &ValidationError{Code: "EMPTY_STRING", Message: "string cannot be empty"}
	ErrStringTooLong    = &ValidationError{Code: "STRING_TOO_LONG", Message: "string exceeds maximum length"}
)

// ValidationError 验证错误
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
