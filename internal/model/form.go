package model

import "time"

// Form 收集表 — 对应 forms
// 同一时刻只有一张 is_active=true 的表
type Form struct {
	FormID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Title              string `gorm:"type:varchar(200);not null"                      json:"title"`
	IsActive           bool   `gorm:"not null;default:false"                          json:"is_active"`
	AcceptingResponses bool   `gorm:"not null;default:true"                           json:"accepting_responses"`
	BaseModel
}

// TableName 指定表名
func (Form) TableName() string { return "forms" }

// FormResponse 提交记录 — 对应 form_responses
type FormResponse struct {
	ResponseID  string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	FormID      string    `gorm:"type:uuid;not null;index"                       json:"form_id"`
	Payload     string    `gorm:"type:jsonb;not null"                            json:"payload"`
	SubmittedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"submitted_at"`
}

// TableName 指定表名
func (FormResponse) TableName() string { return "form_responses" }
