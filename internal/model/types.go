package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// TaskInterval 任务时间段模板
// start/end 为毫秒时间戳,日期部分在生成凭证时会被替换为目标日期
type TaskInterval struct {
	Start           int64  `json:"start"`
	End             int64  `json:"end"`
	Status          string `json:"status"`           // pending, completed, missed
	Interval        string `json:"interval"`         // 时间段标签
	TaskEvidenceURL string `json:"taskEvidenceUrl"`  // 凭证文件地址
	SubmittedBy     string `json:"submittedBy,omitempty"`
	Remarks         string `json:"remarks,omitempty"`
}

// IntervalList 时间段列表,序列化为 JSON 存储
type IntervalList []TaskInterval

// Value 实现 driver.Valuer
func (l IntervalList) Value() (driver.Value, error) {
	if l == nil {
		l = IntervalList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal intervals: %w", err)
	}
	return string(data), nil
}

// Scan 实现 sql.Scanner
func (l *IntervalList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// StringList 字符串列表,序列化为 JSON 存储
type StringList []string

// Value 实现 driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal string list: %w", err)
	}
	return string(data), nil
}

// Scan 实现 sql.Scanner
func (l *StringList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// IntList 整数列表,序列化为 JSON 存储
type IntList []int

// Value 实现 driver.Valuer
func (l IntList) Value() (driver.Value, error) {
	if l == nil {
		l = IntList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal int list: %w", err)
	}
	return string(data), nil
}

// Scan 实现 sql.Scanner
func (l *IntList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// scanJSON 从数据库值反序列化 JSON 字段
func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dest)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dest)
	default:
		return errors.New("unsupported column type for JSON field")
	}
}
