package model

import (
	"strconv"
	"time"
)

// 设置存储中的键名（持久化布局固定，不可修改）
const (
	SettingKeyDate   = "date"
	SettingKeyTime   = "time"
	SettingKeyNumber = "number"
)

// Setting 截止策略设置键值表 — 对应 closing_settings
type Setting struct {
	Key       string    `gorm:"primaryKey;type:varchar(32)" json:"key"`
	Value     string    `gorm:"type:varchar(32);not null"   json:"value"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName 指定表名
func (Setting) TableName() string { return "closing_settings" }

// ClosingSettings 截止策略设置记录
// 空字符串等同于未设置
type ClosingSettings struct {
	DeadlineDate string // YYYY-MM-DD
	DeadlineTime string // HH:MM
	MaxCount     string // 十进制字符串
}

// HasDeadline 是否配置了截止日期
func (s ClosingSettings) HasDeadline() bool { return s.DeadlineDate != "" }

// HasMaxCount 是否配置了提交数量上限
func (s ClosingSettings) HasMaxCount() bool { return s.MaxCount != "" }

// Limit 解析提交数量上限；未设置或无法解析时 ok=false
func (s ClosingSettings) Limit() (limit int, ok bool) {
	if s.MaxCount == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s.MaxCount)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// ToMap 整体写入时的键值形式，未设置的字段写为空字符串
func (s ClosingSettings) ToMap() map[string]string {
	return map[string]string{
		SettingKeyDate:   s.DeadlineDate,
		SettingKeyTime:   s.DeadlineTime,
		SettingKeyNumber: s.MaxCount,
	}
}

// ClosingSettingsFromMap 从键值存储还原设置记录，缺失的键视为未设置
func ClosingSettingsFromMap(m map[string]string) ClosingSettings {
	return ClosingSettings{
		DeadlineDate: m[SettingKeyDate],
		DeadlineTime: m[SettingKeyTime],
		MaxCount:     m[SettingKeyNumber],
	}
}
