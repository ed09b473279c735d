package model

import "time"

// HandlerName 触发器绑定的处理器标识
// 本系统只认领下面两个处理器名，其它系统安装的触发器一律不动
type HandlerName string

const (
	HandlerDeadline   HandlerName = "close_form_at_deadline"
	HandlerSubmission HandlerName = "check_submission_limit"
)

// IsOwned 精确匹配两个已知处理器名
func (h HandlerName) IsOwned() bool {
	switch h {
	case HandlerDeadline, HandlerSubmission:
		return true
	}
	return false
}

// TriggerType 触发器类型
type TriggerType string

const (
	TriggerTypeTime  TriggerType = "time"
	TriggerTypeEvent TriggerType = "event"
)

// Trigger 平台触发器表 — 对应 closing_triggers
// time 类型为一次性触发，event 类型在每次提交时触发
type Trigger struct {
	TriggerID   string      `gorm:"primaryKey;type:uuid"           json:"id"`
	HandlerName HandlerName `gorm:"type:varchar(64);not null;index" json:"handler_name"`
	TriggerType TriggerType `gorm:"type:varchar(16);not null"       json:"trigger_type"`
	FireAt      *time.Time  `gorm:"index"                           json:"fire_at,omitempty"`
	FormID      *string     `gorm:"type:uuid;index"                 json:"form_id,omitempty"`
	CreatedAt   time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (Trigger) TableName() string { return "closing_triggers" }
